package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/ledger/app/services/node/handlers"
	"github.com/ardanlabs/ledger/app/services/node/handlers/v1/private"
	"github.com/ardanlabs/ledger/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/identity"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type node struct {
	public  http.Handler
	private http.Handler
	state   *state.State
	sender  string
	signer  func(t *testing.T, tr public.Transfer) string
	other   string
}

func newNode(t *testing.T) node {
	overdraft := false
	gen := genesis.Default()
	gen.AllowOverdraft = &overdraft

	st, err := state.New(state.Config{
		Host:    "127.0.0.1:5000",
		Genesis: gen,
	})
	require.NoError(t, err)

	dir := t.TempDir()
	key, err := identity.Generate()
	require.NoError(t, err)
	require.NoError(t, identity.Save(filepath.Join(dir, "kennedy.ecdsa"), key))

	otherKey, err := identity.Generate()
	require.NoError(t, err)

	ns, err := nameservice.New(dir, st.Hasher())
	require.NoError(t, err)

	cfg := handlers.MuxConfig{
		Shutdown: make(chan os.Signal, 1),
		Log:      zap.NewNop().Sugar(),
		State:    st,
		NS:       ns,
		Evts:     events.New(),
	}

	return node{
		public:  handlers.PublicMux(cfg),
		private: handlers.PrivateMux(cfg),
		state:   st,
		sender:  identity.Token(key.PublicKey),
		signer: func(t *testing.T, tr public.Transfer) string {
			sig, err := identity.Sign(tr, key)
			require.NoError(t, err)
			return sig
		},
		other: identity.Token(otherKey.PublicKey),
	}
}

func do(t *testing.T, h http.Handler, method string, path string, body any, out any) int {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	r := httptest.NewRequest(method, path, &buf)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	if out != nil && w.Body.Len() > 0 {
		require.NoError(t, json.NewDecoder(w.Body).Decode(out))
	}

	return w.Code
}

func (n node) submission(t *testing.T, amount int64) public.Submission {
	tr := public.Transfer{
		Sender:   n.sender,
		Receiver: n.other,
		Amount:   amount,
	}

	return public.Submission{
		Transfers: []public.SignedTransfer{{Transfer: tr, Signature: n.signer(t, tr)}},
	}
}

// =============================================================================

func TestSubmitTransfers(t *testing.T) {
	n := newNode(t)

	var blk database.BlockData
	require.Equal(t, http.StatusOK, do(t, n.public, http.MethodPost, "/v1/tx/submit", n.submission(t, 10), &blk))
	require.Len(t, blk.Entries, 1)
	require.Equal(t, n.state.LatestBlock().Digest, blk.Digest)

	var bals struct {
		LatestBlock string `json:"latest_block"`
		Balances    []struct {
			ID      string `json:"id"`
			Name    string `json:"name"`
			Balance int64  `json:"balance"`
		} `json:"balances"`
	}
	require.Equal(t, http.StatusOK, do(t, n.public, http.MethodGet, "/v1/balances/list/kennedy", nil, &bals))
	require.Len(t, bals.Balances, 1)
	require.Equal(t, "kennedy", bals.Balances[0].Name)
	require.EqualValues(t, 90, bals.Balances[0].Balance)
	require.Equal(t, blk.Digest, bals.LatestBlock)

	require.Equal(t, http.StatusOK, do(t, n.public, http.MethodGet, "/v1/balances/list", nil, &bals))
	require.Len(t, bals.Balances, 2)
}

func TestSubmitTransfersRejected(t *testing.T) {
	n := newNode(t)

	// The signature covers a different amount.
	sub := n.submission(t, 10)
	sub.Transfers[0].Transfer.Amount = 20

	var resp errs.Response
	require.Equal(t, http.StatusUnauthorized, do(t, n.public, http.MethodPost, "/v1/tx/submit", sub, &resp))

	resp = errs.Response{}
	require.Equal(t, http.StatusBadRequest, do(t, n.public, http.MethodPost, "/v1/tx/submit", n.submission(t, 0), &resp))
	require.Contains(t, resp.Fields, "amount")

	resp = errs.Response{}
	require.Equal(t, http.StatusBadRequest, do(t, n.public, http.MethodPost, "/v1/tx/submit", n.submission(t, 1000), &resp))
	require.Equal(t, "insufficient_balance", resp.Reason)

	require.Equal(t, 1, n.state.Length())
}

func TestSubmitRecord(t *testing.T) {
	n := newNode(t)

	var blk database.BlockData
	require.Equal(t, http.StatusOK, do(t, n.public, http.MethodPost, "/v1/record/submit", public.Record{Data: "hello"}, &blk))
	require.Equal(t, "hello", blk.Data)
	require.Empty(t, blk.Entries)

	var resp errs.Response
	require.Equal(t, http.StatusBadRequest, do(t, n.public, http.MethodPost, "/v1/record/submit", public.Record{}, &resp))
	require.Contains(t, resp.Fields, "data")
}

func TestBlocks(t *testing.T) {
	n := newNode(t)

	for _, data := range []string{"one", "two"} {
		_, err := n.state.AppendRecord(data)
		require.NoError(t, err)
	}

	var blocks []database.BlockData
	require.Equal(t, http.StatusOK, do(t, n.public, http.MethodGet, "/v1/blocks/list", nil, &blocks))
	require.Len(t, blocks, 3)

	blocks = nil
	require.Equal(t, http.StatusOK, do(t, n.public, http.MethodGet, "/v1/blocks/list/1/latest", nil, &blocks))
	require.Len(t, blocks, 2)
	require.Equal(t, "one", blocks[0].Data)

	blocks = nil
	require.Equal(t, http.StatusOK, do(t, n.public, http.MethodGet, "/v1/blocks/list/latest/latest", nil, &blocks))
	require.Len(t, blocks, 1)
	require.Equal(t, "two", blocks[0].Data)

	require.Equal(t, http.StatusBadRequest, do(t, n.public, http.MethodGet, "/v1/blocks/list/2/1", nil, nil))
	require.Equal(t, http.StatusBadRequest, do(t, n.public, http.MethodGet, "/v1/blocks/list/x/1", nil, nil))
	require.Equal(t, http.StatusNoContent, do(t, n.public, http.MethodGet, "/v1/blocks/list/9/latest", nil, nil))

	var valid struct {
		Valid  bool `json:"valid"`
		Length int  `json:"length"`
	}
	require.Equal(t, http.StatusOK, do(t, n.public, http.MethodGet, "/v1/chain/valid", nil, &valid))
	require.True(t, valid.Valid)
	require.Equal(t, 3, valid.Length)
}

func TestGenesis(t *testing.T) {
	n := newNode(t)

	var gen genesis.Genesis
	require.Equal(t, http.StatusOK, do(t, n.public, http.MethodGet, "/v1/genesis/list", nil, &gen))
	require.Equal(t, n.state.RetrieveGenesis().ChainID, gen.ChainID)
	require.False(t, gen.Overdraft())
}

func TestPeers(t *testing.T) {
	n := newNode(t)

	var added struct {
		Added bool        `json:"added"`
		Peers []peer.Peer `json:"peers"`
	}
	require.Equal(t, http.StatusCreated, do(t, n.private, http.MethodPost, "/v1/node/peers", private.NewPeer{Host: "127.0.0.1:5001"}, &added))
	require.True(t, added.Added)

	require.Equal(t, http.StatusOK, do(t, n.private, http.MethodPost, "/v1/node/peers", private.NewPeer{Host: "127.0.0.1:5001"}, &added))
	require.False(t, added.Added)

	require.Equal(t, http.StatusBadRequest, do(t, n.private, http.MethodPost, "/v1/node/peers", private.NewPeer{Host: "no-port"}, nil))

	var peers []peer.Peer
	require.Equal(t, http.StatusOK, do(t, n.private, http.MethodGet, "/v1/node/peers", nil, &peers))
	require.Equal(t, []peer.Peer{{Host: "127.0.0.1:5001"}}, peers)

	var status peer.Status
	require.Equal(t, http.StatusOK, do(t, n.private, http.MethodGet, "/v1/node/status", nil, &status))
	require.Equal(t, 1, status.Length)
	require.True(t, status.Valid)
	require.Len(t, status.KnownPeers, 1)

	require.Equal(t, http.StatusNoContent, do(t, n.private, http.MethodDelete, "/v1/node/peers/127.0.0.1:5001", nil, nil))
	require.Empty(t, n.state.KnownPeers())
}

func TestDebug(t *testing.T) {
	n := newNode(t)
	mux := handlers.DebugMux("test", zap.NewNop().Sugar(), n.state)

	require.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/debug/readiness", nil, nil))
	require.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/debug/liveness", nil, nil))
	require.Equal(t, http.StatusOK, do(t, mux, http.MethodGet, "/metrics", nil, nil))
}
