// Package private maintains the group of handlers for node to node access.
package private

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// NewPeer names a node to replicate blocks to.
type NewPeer struct {
	Host string `json:"host" validate:"required"`
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.Status(), http.StatusOK)
}

// Peers returns the set of peers this node replicates to.
func (h Handlers) Peers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.KnownPeers(), http.StatusOK)
}

// RegisterPeer adds a peer to replicate to. Registering a known peer is
// not an error.
func (h Handlers) RegisterPeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var np NewPeer
	if err := web.Decode(r, &np); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	if err := validate.Check(np); err != nil {
		return err
	}

	if err := peer.New(np.Host).Validate(); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	added := h.State.RegisterPeer(np.Host)
	h.Log.Infow("register peer", "traceid", v.TraceID, "host", np.Host, "added", added)

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}

	resp := struct {
		Added bool        `json:"added"`
		Peers []peer.Peer `json:"peers"`
	}{
		Added: added,
		Peers: h.State.KnownPeers(),
	}

	return web.Respond(ctx, w, resp, status)
}

// RemovePeer stops replicating to the specified host.
func (h Handlers) RemovePeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.State.RemovePeer(web.Param(r, "host"))
	return web.Respond(ctx, w, nil, http.StatusNoContent)
}
