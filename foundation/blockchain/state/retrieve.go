package state

import (
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/metrics"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// Hasher returns the digest strategy used by the chain.
func (s *State) Hasher() digest.Hasher {
	return s.hasher
}

// KnownPeers retrieves a copy of the known peer list, leaving out this node.
func (s *State) KnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// RegisterPeer adds a peer to replicate to and reports whether it was new.
// No connection is attempted. Malformed hosts and this node's own host
// are ignored.
func (s *State) RegisterPeer(host string) bool {
	pr := peer.New(host)

	if err := pr.Validate(); err != nil {
		s.evHandler("state: RegisterPeer: ERROR: %s", err)
		return false
	}

	if pr.Match(s.host) {
		return false
	}

	added := s.knownPeers.Add(pr)
	if added {
		s.evHandler("state: RegisterPeer: adding peer-node %s", pr.Host)
		metrics.SetPeerCount(s.knownPeers.Len())
	}

	return added
}

// RemovePeer stops replicating to the specified host.
func (s *State) RemovePeer(host string) {
	s.knownPeers.Remove(peer.New(host))
	metrics.SetPeerCount(s.knownPeers.Len())
}

// IdentityOf returns the identity digest for a public identity token.
func (s *State) IdentityOf(token string) database.AccountID {
	return database.NewAccountID(s.hasher, token)
}

// NewEntry constructs an entry moving amount from the owner of the sender
// token to the owner of the receiver token. Only the digests of the tokens
// are kept.
func (s *State) NewEntry(senderToken string, receiverToken string, amount int64) database.Entry {
	return database.NewEntry(s.hasher, s.IdentityOf(senderToken), s.IdentityOf(receiverToken), amount, time.Now().UTC().UnixNano())
}
