// Package database defines the entries and blocks that make up the ledger
// along with the rules that link one block to the next.
package database

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
)

// Set of failures a block can be rejected with.
var (
	ErrLinkMismatch        = errors.New("link mismatch")
	ErrDigestMismatch      = errors.New("digest mismatch")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrWeakDigest          = errors.New("weak digest")
)

// MinEntryDigestSize is the smallest digest, in bytes, a chain needs before
// it can carry entries. Shorter digests are only good for records.
const MinEntryDigestSize = 32

// ValidationError identifies the invariant a block failed. Use errors.Is
// with the Err values above to branch on the kind of failure.
type ValidationError struct {
	Err    error
	Digest string
	Msg    string
}

func newValidationError(kind error, digest string, format string, args ...any) error {
	return &ValidationError{
		Err:    kind,
		Digest: digest,
		Msg:    fmt.Sprintf(format, args...),
	}
}

// NewValidationError constructs a validation error for packages that
// perform checks outside of the block itself.
func NewValidationError(kind error, digest string, format string, args ...any) error {
	return newValidationError(kind, digest, format, args...)
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	return fmt.Sprintf("block[%s]: %s: %s", ve.Digest, ve.Err, ve.Msg)
}

// Unwrap provides access to the kind of failure.
func (ve *ValidationError) Unwrap() error {
	return ve.Err
}

// Kind returns the failure err wraps. Errors that wrap none of the known
// failures are reported as ErrInsufficientBalance.
func Kind(err error) error {
	for _, kind := range []error{ErrLinkMismatch, ErrDigestMismatch, ErrInvalidAmount, ErrWeakDigest, ErrInsufficientBalance} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInsufficientBalance
}

// IsValidationError checks if an error of type ValidationError exists.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// =============================================================================

// ValidateChain walks every adjacent pair of blocks and checks the link and
// the recomputed digests. The first violation is returned.
func ValidateChain(h digest.Hasher, blocks []Block) error {
	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(h, blocks[i-1]); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
	}

	return nil
}
