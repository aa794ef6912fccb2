package public

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

// Transfer is the value a sender signs to move an amount to a receiver.
// Both sides are public identity tokens.
type Transfer struct {
	Sender   string `json:"sender" validate:"required"`
	Receiver string `json:"receiver" validate:"required"`
	Amount   int64  `json:"amount" validate:"gt=0"`
}

// SignedTransfer is a transfer plus the sender's signature over it.
type SignedTransfer struct {
	Transfer  Transfer `json:"transfer"`
	Signature string   `json:"signature" validate:"required"`
}

// Submission is the set of transfers appended to the ledger as one block.
type Submission struct {
	Transfers []SignedTransfer `json:"transfers" validate:"required,min=1,dive"`
}

// Record is an opaque payload appended to the ledger as one block.
type Record struct {
	Data string `json:"data" validate:"required"`
}

type balance struct {
	ID      database.AccountID `json:"id"`
	Name    string             `json:"name"`
	Balance int64              `json:"balance"`
}

type balances struct {
	LatestBlock string    `json:"latest_block"`
	Balances    []balance `json:"balances"`
}

type chainStatus struct {
	Valid  bool   `json:"valid"`
	Length int    `json:"length"`
	Error  string `json:"error,omitempty"`
}
