// Package accounts maintains the balance of every identity referenced by
// the ledger.
package accounts

import (
	"fmt"
	"math"
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/genesis"
)

// Accounts manages the balances of identities who have transacted on
// the ledger. An identity not seen before starts with the default balance.
type Accounts struct {
	genesis  genesis.Genesis
	balances map[database.AccountID]int64
	mu       sync.RWMutex
}

// New constructs the balances as they are described by the genesis file.
func New(genesis genesis.Genesis) *Accounts {
	accts := Accounts{
		genesis:  genesis,
		balances: seed(genesis),
	}

	return &accts
}

// Reset re-initalizes the balances back to the genesis information.
func (act *Accounts) Reset() {
	act.mu.Lock()
	defer act.mu.Unlock()

	act.balances = seed(act.genesis)
}

// Clone makes a copy of the current accounts.
func (act *Accounts) Clone() *Accounts {
	act.mu.RLock()
	defer act.mu.RUnlock()

	accounts := New(act.genesis)
	for id, balance := range act.balances {
		accounts.balances[id] = balance
	}
	return accounts
}

// Copy makes a copy of the current balance for every identity seen.
func (act *Accounts) Copy() map[database.AccountID]int64 {
	act.mu.RLock()
	defer act.mu.RUnlock()

	balances := make(map[database.AccountID]int64, len(act.balances))
	for id, balance := range act.balances {
		balances[id] = balance
	}
	return balances
}

// Balance returns the balance for the specified identity. The lookup does
// not record the identity.
func (act *Accounts) Balance(id database.AccountID) int64 {
	act.mu.RLock()
	defer act.mu.RUnlock()

	balance, exists := act.balances[id]
	if !exists {
		return act.genesis.DefaultBalance
	}
	return balance
}

// Check simulates the entries in order against a scratch copy of the
// balances. A balance that would leave the int64 range always fails. When
// the genesis disallows overdrafts, amounts must also be positive and no
// sender may go negative.
func (act *Accounts) Check(entries []database.Entry) error {
	overdraft := act.genesis.Overdraft()

	scratch := act.Clone()
	for i, entry := range entries {
		if !overdraft && entry.Amount <= 0 {
			return fmt.Errorf("entry %d: amount %d must be positive: %w", i, entry.Amount, database.ErrInvalidAmount)
		}

		if err := scratch.move(entry); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}

		if balance := scratch.balances[entry.Sender]; !overdraft && balance < 0 {
			return fmt.Errorf("entry %d: %s would have a balance of %d: %w", i, entry.Sender, balance, database.ErrInsufficientBalance)
		}
	}

	return nil
}

// Apply performs the business logic for applying an entry to the balances.
// The ledger only calls this once the block holding the entry passed
// every check.
func (act *Accounts) Apply(entry database.Entry) {
	act.mu.Lock()
	defer act.mu.Unlock()

	act.apply(entry)
}

// apply moves the amount from sender to receiver. The caller must hold
// the write lock or own the value exclusively. Entries reaching here were
// accepted by Check, so the result stays in range.
func (act *Accounts) apply(entry database.Entry) {
	act.touch(entry.Receiver)
	act.touch(entry.Sender)

	act.balances[entry.Receiver] += entry.Amount
	act.balances[entry.Sender] -= entry.Amount
}

// move is apply with a range check on both balances.
func (act *Accounts) move(entry database.Entry) error {
	act.touch(entry.Receiver)
	act.touch(entry.Sender)

	receiver, ok := add(act.balances[entry.Receiver], entry.Amount)
	if !ok {
		return fmt.Errorf("%s balance overflows receiving %d: %w", entry.Receiver, entry.Amount, database.ErrInvalidAmount)
	}
	act.balances[entry.Receiver] = receiver

	sender, ok := add(act.balances[entry.Sender], -entry.Amount)
	if !ok || entry.Amount == math.MinInt64 {
		return fmt.Errorf("%s balance overflows sending %d: %w", entry.Sender, entry.Amount, database.ErrInvalidAmount)
	}
	act.balances[entry.Sender] = sender

	return nil
}

// add returns a+b and false when the sum leaves the int64 range.
func add(a int64, b int64) (int64, bool) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return sum, false
	}
	return sum, true
}

// touch gives an identity the default balance on first reference.
func (act *Accounts) touch(id database.AccountID) {
	if _, exists := act.balances[id]; !exists {
		act.balances[id] = act.genesis.DefaultBalance
	}
}

// seed builds the starting balances from the genesis file.
func seed(genesis genesis.Genesis) map[database.AccountID]int64 {
	balances := make(map[database.AccountID]int64)
	for id, balance := range genesis.Balances {
		balances[database.AccountID(id)] = balance
	}
	return balances
}
