// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
)

// DefaultPath is where the node looks for the genesis file.
const DefaultPath = "zblock/genesis.json"

// Genesis represents the genesis file.
type Genesis struct {
	Date           time.Time        `json:"date"`            // Timestamp of the genesis block, shared by every node.
	ChainID        string           `json:"chain_id"`        // The chain id represents an unique id for this running instance.
	Digest         string           `json:"digest"`          // Name of the digest strategy used across the chain.
	DefaultBalance int64            `json:"default_balance"` // Balance an identity starts with the first time it is referenced.
	AllowOverdraft *bool            `json:"allow_overdraft"` // Senders may go negative when true or unset.
	Balances       map[string]int64 `json:"balances"`        // Identity digests that start with a specific balance.
}

// Default returns the genesis used when no file is provided.
func Default() Genesis {
	return Genesis{
		Date:           time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:        "ledger",
		Digest:         digest.SHA256,
		DefaultBalance: 100,
		Balances:       map[string]int64{},
	}
}

// Overdraft reports whether a sender is allowed to go negative.
func (g Genesis) Overdraft() bool {
	if g.AllowOverdraft == nil {
		return true
	}
	return *g.AllowOverdraft
}

// Hasher constructs the hasher for the digest strategy named in the file.
func (g Genesis) Hasher() (digest.Hasher, error) {
	return digest.NewByName(g.Digest)
}

// =============================================================================

// Load opens and consumes the genesis file. Fields missing from the file
// take their value from Default.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis %q: %w", path, err)
	}

	if _, err := digest.Lookup(genesis.Digest); err != nil {
		return Genesis{}, err
	}

	if genesis.DefaultBalance < 0 {
		return Genesis{}, fmt.Errorf("default balance %d can't be negative", genesis.DefaultBalance)
	}

	if genesis.Balances == nil {
		genesis.Balances = map[string]int64{}
	}

	return genesis, nil
}
