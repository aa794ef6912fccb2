// Package peer maintains the set of nodes a ledger replicates to.
package peer

import (
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
)

// Peer represents a node in the network, addressed by host:port.
type Peer struct {
	Host string `json:"host"`
}

// New contructs a new peer value.
func New(host string) Peer {
	return Peer{
		Host: strings.TrimSpace(host),
	}
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// Validate checks the host is in host:port form. No connection is made.
func (p Peer) Validate() error {
	host, port, err := net.SplitHostPort(p.Host)
	if err != nil {
		return fmt.Errorf("peer %q: %w", p.Host, err)
	}

	if host == "" || port == "" {
		return fmt.Errorf("peer %q: host and port are required", p.Host)
	}

	return nil
}

// =============================================================================

// Status represents what a node reports about itself to operators.
type Status struct {
	LatestDigest string `json:"latest_digest"`
	Length       int    `json:"length"`
	Valid        bool   `json:"valid"`
	KnownPeers   []Peer `json:"known_peers"`
}

// =============================================================================

// PeerSet represents the set of known peers. Registering a peer twice has
// no effect.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new node to the set and reports whether it was new.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if _, exists := ps.set[peer]; exists {
		return false
	}

	ps.set[peer] = struct{}{}
	return true
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, peer)
}

// Len returns the number of known peers.
func (ps *PeerSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.set)
}

// Copy returns the known peers sorted by host, leaving out the specified
// host so a node never sends to itself.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]Peer, 0, len(ps.set))
	for peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	sort.Slice(peers, func(i, j int) bool { return peers[i].Host < peers[j].Host })

	return peers
}
