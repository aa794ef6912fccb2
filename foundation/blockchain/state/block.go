package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/metrics"
)

// ErrEmptyRecord is returned when a record submitted for a block is empty.
var ErrEmptyRecord = errors.New("record is empty")

// AppendEntries builds a block holding the specified entries, links it to
// the current tail and appends it. On success the block is handed to the
// worker to be shared with peers.
func (s *State) AppendEntries(entries []database.Entry) (database.Block, error) {
	return s.appendLocal(entries, "")
}

// AppendRecord builds a block carrying a single opaque record and no
// entries, then appends it the same way as AppendEntries.
func (s *State) AppendRecord(data string) (database.Block, error) {
	if data == "" {
		return database.Block{}, ErrEmptyRecord
	}

	return s.appendLocal(nil, data)
}

// AcceptForeignBlock takes a block received from a peer and applies the
// same checks a local block goes through. Accepted blocks are never shared
// again.
func (s *State) AcceptForeignBlock(block database.Block) (database.Block, error) {
	s.evHandler("state: AcceptForeignBlock: started: prevBlk[%s]: newBlk[%s]: numEntries[%d]", block.Header.PreviousLink, block.Digest, len(block.Entries))
	defer s.evHandler("state: AcceptForeignBlock: completed: newBlk[%s]", block.Digest)

	foreign := block.Clone()

	block, err := s.validateUpdateChain(func(database.Block) database.Block { return foreign })
	if err != nil {
		s.rejected(metrics.OriginForeign, err)
		return database.Block{}, err
	}

	s.appended(metrics.OriginForeign, block)

	return block.Clone(), nil
}

// =============================================================================

// appendLocal builds the candidate against the tail while holding the
// lock so two appends can never link to the same predecessor.
func (s *State) appendLocal(entries []database.Entry, data string) (database.Block, error) {
	s.evHandler("state: appendLocal: started: numEntries[%d]", len(entries))
	defer s.evHandler("state: appendLocal: completed")

	build := func(tail database.Block) database.Block {
		return database.NewBlock(s.hasher, entries, data, tail.Digest, nextTimestamp(tail))
	}

	block, err := s.validateUpdateChain(build)
	if err != nil {
		s.rejected(metrics.OriginLocal, err)
		return database.Block{}, err
	}

	s.appended(metrics.OriginLocal, block)

	// Share the new block with the network. This never blocks and
	// failures are reported by the worker.
	if s.Worker != nil {
		s.Worker.SignalShareBlock(block.Clone())
	}

	return block.Clone(), nil
}

// validateUpdateChain takes the block produced by candidate and validates it
// against the current tail. If the block passes, the block is appended and
// the balances are updated. Nothing changes when validation fails.
func (s *State) validateUpdateChain(candidate func(tail database.Block) database.Block) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tail := s.blocks[len(s.blocks)-1]
	block := candidate(tail)

	s.evHandler("state: validateUpdateChain: validate block[%s]", block.Digest)

	if err := block.ValidateBlock(s.hasher, tail); err != nil {
		return database.Block{}, err
	}

	if err := s.accounts.Check(block.Entries); err != nil {
		return database.Block{}, database.NewValidationError(database.Kind(err), block.Digest, "%s", err)
	}

	s.evHandler("state: validateUpdateChain: append block[%s]", block.Digest)

	s.blocks = append(s.blocks, block)

	// Every entry passed the balance check above, so the block is applied
	// in full.
	for _, entry := range block.Entries {
		s.accounts.Apply(entry)
	}

	metrics.SetChainLength(len(s.blocks))

	return block, nil
}

// appended records a successful append and sends an event about it.
func (s *State) appended(origin string, block database.Block) {
	metrics.BlockAppended(origin, len(block.Entries))
	s.blockEvent(block)
}

// rejected records a failed append.
func (s *State) rejected(origin string, err error) {
	s.evHandler("state: %s block rejected: ERROR: %s", origin, err)
	metrics.BlockRejected(origin, Reason(err))
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(database.NewBlockData(block))
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: {"digest":%q,"block":%s}`, block.Digest, string(blockJSON))
}

// =============================================================================

// Reason returns a short label for the kind of validation failure.
func Reason(err error) string {
	switch {
	case errors.Is(err, database.ErrLinkMismatch):
		return "link_mismatch"
	case errors.Is(err, database.ErrDigestMismatch):
		return "digest_mismatch"
	case errors.Is(err, database.ErrInsufficientBalance):
		return "insufficient_balance"
	case errors.Is(err, database.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, database.ErrWeakDigest):
		return "weak_digest"
	default:
		return "other"
	}
}

// nextTimestamp returns the current time, moved forward when needed so a
// new block is always later than the tail.
func nextTimestamp(tail database.Block) int64 {
	now := time.Now().UTC().UnixNano()
	if now <= tail.Header.CreatedAt {
		return tail.Header.CreatedAt + 1
	}
	return now
}
