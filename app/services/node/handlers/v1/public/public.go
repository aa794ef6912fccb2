// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/identity"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/nameservice"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// SubmitTransfers verifies every signed transfer and appends them to the
// ledger as a single block.
func (h Handlers) SubmitTransfers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var sub Submission
	if err := web.Decode(r, &sub); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(sub); err != nil {
		return err
	}

	entries := make([]database.Entry, len(sub.Transfers))
	for i, st := range sub.Transfers {
		if err := identity.Verify(st.Transfer, st.Signature, st.Transfer.Sender); err != nil {
			return errs.NewTrusted(fmt.Errorf("transfer %d: %w", i, err), http.StatusUnauthorized)
		}

		entries[i] = h.State.NewEntry(st.Transfer.Sender, st.Transfer.Receiver, st.Transfer.Amount)
	}

	h.Log.Infow("submit transfers", "traceid", v.TraceID, "entries", len(entries))

	block, err := h.State.AppendEntries(entries)
	if err != nil {
		return errs.NewLedger(err)
	}

	return web.Respond(ctx, w, database.NewBlockData(block), http.StatusOK)
}

// SubmitRecord appends an opaque record to the ledger.
func (h Handlers) SubmitRecord(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var rec Record
	if err := web.Decode(r, &rec); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(rec); err != nil {
		return err
	}

	block, err := h.State.AppendRecord(rec.Data)
	if err != nil {
		return errs.NewLedger(err)
	}

	return web.Respond(ctx, w, database.NewBlockData(block), http.StatusOK)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Balances returns the current balances for every identity referenced, or
// the one identity specified. An identity can be named by its digest or by
// its name in the name service.
func (h Handlers) Balances(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var list map[database.AccountID]int64

	switch param := web.Param(r, "identity"); param {
	case "":
		list = h.State.Balances()

	default:
		id, err := h.resolve(param)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
		list = map[database.AccountID]int64{id: h.State.Balance(id)}
	}

	bals := make([]balance, 0, len(list))
	for id, amount := range list {
		bals = append(bals, balance{
			ID:      id,
			Name:    h.NS.Lookup(id),
			Balance: amount,
		})
	}
	sort.Slice(bals, func(i, j int) bool { return bals[i].ID < bals[j].ID })

	resp := balances{
		LatestBlock: h.State.LatestBlock().Digest,
		Balances:    bals,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Blocks returns the blocks of the chain, all of them or the range given
// by the from and to index. Either bound can be "latest".
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	from, err := index(web.Param(r, "from"), 0)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	to, err := index(web.Param(r, "to"), state.QueryLatest)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	if from != state.QueryLatest && to != state.QueryLatest && from > to {
		return errs.NewTrusted(errors.New("from greater than to"), http.StatusBadRequest)
	}

	blocks := h.State.BlocksRange(from, to)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	blockData := make([]database.BlockData, len(blocks))
	for i, block := range blocks {
		blockData[i] = database.NewBlockData(block)
	}

	return web.Respond(ctx, w, blockData, http.StatusOK)
}

// ChainValid walks the chain and reports whether it is intact.
func (h Handlers) ChainValid(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := chainStatus{
		Valid:  true,
		Length: h.State.Length(),
	}

	if err := h.State.ValidateChainErr(); err != nil {
		resp.Valid = false
		resp.Error = err.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

// resolve converts a name or an identity digest into an identity.
func (h Handlers) resolve(param string) (database.AccountID, error) {
	if token, exists := h.NS.Token(param); exists {
		return h.State.IdentityOf(token), nil
	}

	return database.ToAccountID(param)
}

// index parses a block index where "latest" means the tail of the chain.
func index(param string, def int) (int, error) {
	switch param {
	case "":
		return def, nil
	case "latest":
		return state.QueryLatest, nil
	}

	n, err := strconv.Atoi(param)
	if err != nil {
		return 0, fmt.Errorf("invalid block index %q", param)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative block index %d", n)
	}

	return n, nil
}
