package database

import (
	"fmt"
	"hash"

	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
)

// Entry is a transfer of value between two identities.
type Entry struct {
	ID        string    `json:"id"`         // Digest over the other four fields.
	Sender    AccountID `json:"sender"`     // Identity digest of the party being debited.
	Receiver  AccountID `json:"receiver"`   // Identity digest of the party being credited.
	Amount    int64     `json:"amount"`     // Value moved from sender to receiver.
	CreatedAt int64     `json:"created_at"` // Unix nanoseconds when the entry was created.
}

// NewEntry constructs an entry and computes its id. Two entries with the
// same content share the same id.
func NewEntry(h digest.Hasher, sender AccountID, receiver AccountID, amount int64, createdAt int64) Entry {
	e := Entry{
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		CreatedAt: createdAt,
	}
	e.ID = e.ComputeID(h)

	return e
}

// ComputeID recalculates the id of the entry from its content.
func (e Entry) ComputeID(h digest.Hasher) string {
	return h.Value(e.content())
}

// Hash implements the merkle Hashable interface. The leaf value is the
// recomputed entry id, never the stored one.
func (e Entry) Hash(newHash func() hash.Hash) ([]byte, error) {
	data, err := digest.Canonical(e.content())
	if err != nil {
		return nil, err
	}

	h := newHash()
	if _, err := h.Write(data); err != nil {
		return nil, err
	}

	return h.Sum(nil), nil
}

// Equals implements the merkle Hashable interface for providing an equality
// check between two entries.
func (e Entry) Equals(other Entry) bool {
	return e == other
}

// String implements the fmt.Stringer interface for logging.
func (e Entry) String() string {
	return fmt.Sprintf("%s:%s->%s:%d", e.ID, e.Sender, e.Receiver, e.Amount)
}

// content returns the fields covered by the entry id.
func (e Entry) content() map[string]any {
	return map[string]any{
		"sender":     e.Sender,
		"receiver":   e.Receiver,
		"amount":     e.Amount,
		"created_at": e.CreatedAt,
	}
}
