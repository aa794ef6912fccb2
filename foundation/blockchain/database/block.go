package database

import (
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
	"github.com/ardanlabs/ledger/foundation/blockchain/merkle"
)

// BlockHeader represents the fields covered by the block digest.
type BlockHeader struct {
	PreviousLink string `json:"previous_link"` // Digest of the previous block in the chain.
	MerkleRoot   string `json:"merkle_root"`   // Merkle root of the entries, empty when there are none.
	CreatedAt    int64  `json:"created_at"`    // Unix nanoseconds when the block was built.
	Data         string `json:"data"`          // Optional opaque record carried by the block.
}

// Block represents a group of entries linked to the previous block. Blocks
// are values and are never changed after construction.
type Block struct {
	Header  BlockHeader
	Entries []Entry
	Digest  string
}

// NewBlock constructs a block linked to the specified previous digest. No
// validation is performed, that happens when the block is appended.
func NewBlock(h digest.Hasher, entries []Entry, data string, previousDigest string, createdAt int64) Block {
	b := Block{
		Header: BlockHeader{
			PreviousLink: previousDigest,
			CreatedAt:    createdAt,
			Data:         data,
		},
		Entries: cloneEntries(entries),
	}

	// A failure here can't be corrected by the caller. The root will not
	// match on validation and the block will be rejected there.
	b.Header.MerkleRoot, _ = b.ComputeMerkleRoot(h)
	b.Digest = b.ComputeDigest(h)

	return b
}

// Genesis constructs the first block of the chain. The date comes from the
// genesis file so every node using the same file agrees on this digest.
func Genesis(h digest.Hasher, date time.Time) Block {
	return NewBlock(h, nil, "", h.Zero(), date.UTC().UnixNano())
}

// ComputeMerkleRoot recalculates the merkle root for the entries.
func (b Block) ComputeMerkleRoot(h digest.Hasher) (string, error) {
	return merkle.Root(b.Entries, h.NewHash)
}

// ComputeDigest recalculates the digest of the block from its header.
func (b Block) ComputeDigest(h digest.Hasher) string {
	content := map[string]any{
		"merkle_root":   b.Header.MerkleRoot,
		"previous_link": b.Header.PreviousLink,
		"created_at":    b.Header.CreatedAt,
	}
	if b.Header.Data != "" {
		content["data"] = b.Header.Data
	}

	return h.Value(content)
}

// VerifyDigests recalculates every digest the block carries and compares
// them with the stored values.
func (b Block) VerifyDigests(h digest.Hasher) error {
	for i, e := range b.Entries {
		if id := e.ComputeID(h); id != e.ID {
			return newValidationError(ErrDigestMismatch, b.Digest, "entry %d id doesn't match its content, got %s, exp %s", i, e.ID, id)
		}
	}

	root, err := b.ComputeMerkleRoot(h)
	if err != nil {
		return newValidationError(ErrDigestMismatch, b.Digest, "unable to compute merkle root: %s", err)
	}

	if root != b.Header.MerkleRoot {
		return newValidationError(ErrDigestMismatch, b.Digest, "merkle root does not match entries, got %s, exp %s", b.Header.MerkleRoot, root)
	}

	if digest := b.ComputeDigest(h); digest != b.Digest {
		return newValidationError(ErrDigestMismatch, b.Digest, "block digest doesn't match header, exp %s", digest)
	}

	return nil
}

// ValidateBlock takes a block and validates it to be the next block after
// the specified previous block.
func (b Block) ValidateBlock(h digest.Hasher, previousBlock Block) error {
	if b.Header.PreviousLink != previousBlock.Digest {
		return newValidationError(ErrLinkMismatch, b.Digest, "previous link doesn't match our tail, got %s, exp %s", b.Header.PreviousLink, previousBlock.Digest)
	}

	// A short digest makes a forged amount with the same entry id easy to
	// find, so balances are only moved under a strong digest.
	if len(b.Entries) > 0 && h.Size() < MinEntryDigestSize {
		return newValidationError(ErrWeakDigest, b.Digest, "%s digests are %d bytes, entries need at least %d", h.Name(), h.Size(), MinEntryDigestSize)
	}

	return b.VerifyDigests(h)
}

// Clone returns a copy of the block that shares no memory with the original.
func (b Block) Clone() Block {
	b.Entries = cloneEntries(b.Entries)
	return b
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("%s:prev[%s]:entries[%d]", b.Digest, b.Header.PreviousLink, len(b.Entries))
}

// cloneEntries returns a copy of the entries. A nil or empty input returns nil.
func cloneEntries(entries []Entry) []Entry {
	if len(entries) == 0 {
		return nil
	}

	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// =============================================================================

// BlockData represents what is sent between nodes and returned by the
// snapshot queries. Field names are fixed.
type BlockData struct {
	Digest       string  `json:"self_digest"`
	PreviousLink string  `json:"previous_link"`
	MerkleRoot   string  `json:"merkle_root"`
	CreatedAt    int64   `json:"created_at"`
	Data         string  `json:"data,omitempty"`
	Entries      []Entry `json:"entries"`
}

// NewBlockData constructs the value to serialize.
func NewBlockData(block Block) BlockData {
	entries := cloneEntries(block.Entries)
	if entries == nil {
		entries = []Entry{}
	}

	return BlockData{
		Digest:       block.Digest,
		PreviousLink: block.Header.PreviousLink,
		MerkleRoot:   block.Header.MerkleRoot,
		CreatedAt:    block.Header.CreatedAt,
		Data:         block.Header.Data,
		Entries:      entries,
	}
}

// ToBlock converts a BlockData into a Block. The stored digests are kept
// as they are so validation can compare them with recomputed values.
func ToBlock(blockData BlockData) Block {
	return Block{
		Header: BlockHeader{
			PreviousLink: blockData.PreviousLink,
			MerkleRoot:   blockData.MerkleRoot,
			CreatedAt:    blockData.CreatedAt,
			Data:         blockData.Data,
		},
		Entries: cloneEntries(blockData.Entries),
		Digest:  blockData.Digest,
	}
}
