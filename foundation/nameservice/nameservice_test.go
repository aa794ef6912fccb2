package nameservice_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
	"github.com/ardanlabs/ledger/foundation/blockchain/identity"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	root := t.TempDir()

	pk, err := identity.Generate()
	require.NoError(t, err)
	require.NoError(t, identity.Save(filepath.Join(root, "kennedy.ecdsa"), pk))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("skip"), 0600))

	h, err := digest.NewByName(digest.SHA256)
	require.NoError(t, err)

	ns, err := nameservice.New(root, h)
	require.NoError(t, err)

	token := identity.Token(pk.PublicKey)
	id := database.NewAccountID(h, token)

	require.Equal(t, "kennedy", ns.Lookup(id))
	require.Equal(t, "0x1234", ns.Lookup("0x1234"))

	got, ok := ns.Token("kennedy")
	require.True(t, ok)
	require.Equal(t, token, got)

	_, ok = ns.Token("pavel")
	require.False(t, ok)

	require.Len(t, ns.Copy(), 1)
}
