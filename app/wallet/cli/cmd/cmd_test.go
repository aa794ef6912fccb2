package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/identity"
	"github.com/stretchr/testify/require"
)

func TestNewSubmission(t *testing.T) {
	key, err := identity.Generate()
	require.NoError(t, err)

	sub, err := newSubmission(key, "0x04beef", 25)
	require.NoError(t, err)
	require.Len(t, sub.Transfers, 1)

	st := sub.Transfers[0]
	require.Equal(t, identity.Token(key.PublicKey), st.Transfer.Sender)
	require.NoError(t, identity.Verify(st.Transfer, st.Signature, st.Transfer.Sender))

	st.Transfer.Amount = 26
	require.ErrorIs(t, identity.Verify(st.Transfer, st.Signature, st.Transfer.Sender), identity.ErrInvalidSignature)
}

func TestResolveToken(t *testing.T) {
	accountPath = t.TempDir()

	key, err := identity.Generate()
	require.NoError(t, err)
	require.NoError(t, identity.Save(filepath.Join(accountPath, "bill.ecdsa"), key))

	token, err := resolveToken("bill")
	require.NoError(t, err)
	require.Equal(t, identity.Token(key.PublicKey), token)

	token, err = resolveToken("0x04abcd")
	require.NoError(t, err)
	require.Equal(t, "0x04abcd", token)
}

func TestDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errs.Response{Error: "previous link doesn't match", Reason: "link_mismatch"})
	}))
	defer srv.Close()

	err := get(srv.URL, nil)
	require.EqualError(t, err, "status 409: link_mismatch: previous link doesn't match")
}
