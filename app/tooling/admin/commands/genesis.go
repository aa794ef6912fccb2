// Package commands contains the functionality for the set of commands
// currently supported by the admin tool.
package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"go.uber.org/zap"
)

// Genesis writes a default genesis file using the digest strategy
// provided, or sha256.
func Genesis(args []string, log *zap.SugaredLogger) error {
	path := genesis.DefaultPath
	if len(args) > 2 {
		path = args[2]
	}

	gen := genesis.Default()
	if len(args) > 3 {
		gen.Digest = args[3]
	}

	if _, err := digest.Lookup(gen.Digest); err != nil {
		return fmt.Errorf("%w: choose one of %v", err, digest.Names())
	}

	if err := WriteGenesis(path, gen); err != nil {
		return err
	}

	log.Infow("genesis", "path", path, "digest", gen.Digest, "chain_id", gen.ChainID)

	return nil
}

// WriteGenesis stores the genesis information at the path specified.
func WriteGenesis(path string, gen genesis.Genesis) error {
	data, err := json.MarshalIndent(gen, "", "\t")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
