package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/accounts"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"go.uber.org/zap"
)

// Audit downloads the chain from a node, validates it without trusting the
// node and replays the entries to rebuild the balances.
func Audit(args []string, log *zap.SugaredLogger) error {
	url := "http://localhost:8080"
	if len(args) > 2 {
		url = args[2]
	}

	client := http.Client{Timeout: 10 * time.Second}

	var gen genesis.Genesis
	if err := fetch(&client, url+"/v1/genesis/list", &gen); err != nil {
		return err
	}

	var blockData []database.BlockData
	if err := fetch(&client, url+"/v1/blocks/list", &blockData); err != nil {
		return err
	}

	balances, err := Replay(gen, blockData)
	if err != nil {
		return err
	}

	log.Infow("audit", "status", "chain valid", "blocks", len(blockData), "digest", gen.Digest)

	ids := make([]database.AccountID, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		fmt.Printf("Identity: %s  Balance: %d\n", id, balances[id])
	}

	return nil
}

// Replay validates the blocks against the genesis information and returns
// the balances they produce.
func Replay(gen genesis.Genesis, blockData []database.BlockData) (map[database.AccountID]int64, error) {
	h, err := gen.Hasher()
	if err != nil {
		return nil, err
	}

	if len(blockData) == 0 {
		return nil, errors.New("chain has no genesis block")
	}

	blocks := make([]database.Block, len(blockData))
	for i, bd := range blockData {
		blocks[i] = database.ToBlock(bd)
	}

	// The genesis block is derived from the genesis information, so a
	// node can't substitute its own.
	if want := database.Genesis(h, gen.Date); blocks[0].Digest != want.Digest {
		return nil, database.NewValidationError(database.ErrDigestMismatch, blocks[0].Digest, "genesis block doesn't match the genesis file, expected %s", want.Digest)
	}

	if err := database.ValidateChain(h, blocks); err != nil {
		return nil, err
	}

	acts := accounts.New(gen)
	for _, block := range blocks[1:] {
		if err := acts.Check(block.Entries); err != nil {
			return nil, database.NewValidationError(database.Kind(err), block.Digest, "%s", err)
		}
		for _, entry := range block.Entries {
			acts.Apply(entry)
		}
	}

	return acts.Copy(), nil
}

func fetch(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: status %d", url, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
