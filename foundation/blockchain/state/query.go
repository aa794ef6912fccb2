package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// QueryLatest represents to query the latest block in the chain.
const QueryLatest = -1

// =============================================================================

// Blocks returns a copy of every block in the chain. Changing the result
// has no effect on the ledger.
func (s *State) Blocks() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneBlocks(s.blocks)
}

// BlocksRange returns a copy of the blocks between the from and to index,
// inclusive. QueryLatest can be used for either bound. Indexes outside the
// chain are clamped.
func (s *State) BlocksRange(from int, to int) []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	last := len(s.blocks) - 1

	if from == QueryLatest {
		from = last
	}
	if to == QueryLatest || to > last {
		to = last
	}
	if from < 0 {
		from = 0
	}

	if from > to {
		return nil
	}

	return cloneBlocks(s.blocks[from : to+1])
}

// LatestBlock returns a copy of the current tail of the chain.
func (s *State) LatestBlock() database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.blocks[len(s.blocks)-1].Clone()
}

// Length returns the number of blocks in the chain including genesis.
func (s *State) Length() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.blocks)
}

// Balance returns the balance of the specified identity.
func (s *State) Balance(id database.AccountID) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.accounts.Balance(id)
}

// Balances returns a copy of the balance of every identity referenced.
func (s *State) Balances() map[database.AccountID]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.accounts.Copy()
}

// ValidateChain walks the chain and reports whether every block links to
// its predecessor and carries correct digests.
func (s *State) ValidateChain() bool {
	return s.ValidateChainErr() == nil
}

// ValidateChainErr is like ValidateChain but returns the first violation
// found.
func (s *State) ValidateChainErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return database.ValidateChain(s.hasher, s.blocks)
}

// IsValid is the snapshot form of ValidateChain.
func (s *State) IsValid() bool {
	return s.ValidateChain()
}

// Status returns the information this node reports about itself.
func (s *State) Status() peer.Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return peer.Status{
		LatestDigest: s.blocks[len(s.blocks)-1].Digest,
		Length:       len(s.blocks),
		Valid:        database.ValidateChain(s.hasher, s.blocks) == nil,
		KnownPeers:   s.knownPeers.Copy(s.host),
	}
}

// =============================================================================

func cloneBlocks(blocks []database.Block) []database.Block {
	out := make([]database.Block, len(blocks))
	for i, block := range blocks {
		out[i] = block.Clone()
	}
	return out
}
