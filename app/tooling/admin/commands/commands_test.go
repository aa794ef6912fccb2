package commands_test

import (
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/app/tooling/admin/commands"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chain(t *testing.T, gen genesis.Genesis) (*state.State, []database.BlockData) {
	st, err := state.New(state.Config{Host: "127.0.0.1:5000", Genesis: gen})
	require.NoError(t, err)

	_, err = st.AppendEntries([]database.Entry{st.NewEntry("a", "b", 10)})
	require.NoError(t, err)
	_, err = st.AppendRecord("audit me")
	require.NoError(t, err)

	blocks := st.Blocks()
	data := make([]database.BlockData, len(blocks))
	for i, block := range blocks {
		data[i] = database.NewBlockData(block)
	}

	return st, data
}

func TestReplay(t *testing.T) {
	gen := genesis.Default()
	st, data := chain(t, gen)

	balances, err := commands.Replay(gen, data)
	require.NoError(t, err)
	require.Equal(t, st.Balances(), balances)
}

func TestReplayTampered(t *testing.T) {
	gen := genesis.Default()
	_, data := chain(t, gen)

	data[1].Entries[0].Amount = 1

	_, err := commands.Replay(gen, data)
	require.ErrorIs(t, err, database.ErrDigestMismatch)
}

func TestReplayForeignGenesis(t *testing.T) {
	gen := genesis.Default()
	_, data := chain(t, gen)

	other := genesis.Default()
	other.Date = other.Date.AddDate(0, 0, 1)

	_, err := commands.Replay(other, data)
	require.ErrorIs(t, err, database.ErrDigestMismatch)
}

func TestGenesis(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zblock", "genesis.json")

	require.NoError(t, commands.Genesis([]string{"admin", "genesis", path, digest.Blake2b}, zap.NewNop().Sugar()))

	gen, err := genesis.Load(path)
	require.NoError(t, err)
	require.Equal(t, digest.Blake2b, gen.Digest)

	require.Error(t, commands.Genesis([]string{"admin", "genesis", path, "md5"}, zap.NewNop().Sugar()))
}
