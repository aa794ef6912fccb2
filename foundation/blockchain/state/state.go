// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/accounts"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/metrics"
)

// Default settings used when the config leaves them unset.
const (
	defaultDialTimeout = 3 * time.Second
	defaultShareLimit  = 8
)

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for sharing blocks with peers.
type Worker interface {
	Shutdown()
	SignalShareBlock(block database.Block)
}

// =============================================================================

// Config represents the configuration required to start
// the ledger node.
type Config struct {
	Host        string
	Genesis     genesis.Genesis
	KnownPeers  *peer.PeerSet
	DialTimeout time.Duration
	ShareLimit  int
	EvHandler   EventHandler
}

// State manages the chain of blocks and the balances derived from them.
// Every change to the chain happens behind the write lock.
type State struct {
	host        string
	dialTimeout time.Duration
	shareLimit  int
	evHandler   EventHandler

	mu       sync.RWMutex
	blocks   []database.Block
	hasher   digest.Hasher
	genesis  genesis.Genesis
	accounts *accounts.Accounts

	knownPeers *peer.PeerSet

	Worker Worker
}

// New constructs a new ledger holding only the genesis block.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	// The digest strategy is a property of the chain, so it comes from
	// the genesis information and not the node config.
	hasher, err := cfg.Genesis.Hasher()
	if err != nil {
		return nil, err
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = defaultDialTimeout
	}

	shareLimit := cfg.ShareLimit
	if shareLimit <= 0 {
		shareLimit = defaultShareLimit
	}

	// Create the State to provide support for managing the ledger.
	state := State{
		host:        cfg.Host,
		dialTimeout: dialTimeout,
		shareLimit:  shareLimit,
		evHandler:   ev,

		blocks:   []database.Block{database.Genesis(hasher, cfg.Genesis.Date)},
		hasher:   hasher,
		genesis:  cfg.Genesis,
		accounts: accounts.New(cfg.Genesis),

		knownPeers: knownPeers,
	}

	ev("state: New: genesis[%s]: digest[%s]", state.blocks[0].Digest, hasher.Name())

	metrics.SetChainLength(1)
	metrics.SetPeerCount(knownPeers.Len())

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all block sharing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// Truncate rebuilds the ledger from genesis, which is the only way the
// balances are ever reset.
func (s *State) Truncate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blocks = s.blocks[:1:1]
	s.accounts.Reset()

	metrics.SetChainLength(1)
}
