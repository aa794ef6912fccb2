package database

import (
	"errors"

	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
)

// AccountID represents the digest of a public identity token. Entries never
// carry the raw token, only this value.
type AccountID string

// ToAccountID converts a hex-encoded string to an account and validates the
// hex-encoded string is formatted correctly.
func ToAccountID(hex string) (AccountID, error) {
	a := AccountID(hex)
	if !a.IsAccountID() {
		return "", errors.New("invalid account format")
	}

	return a, nil
}

// IsAccountID verifies whether the underlying data represents a valid
// hex-encoded digest. The width depends on the digest strategy so only the
// format is checked.
func (a AccountID) IsAccountID() bool {
	if !has0xPrefix(a) {
		return false
	}
	a = a[2:]

	return len(a) > 0 && isHex(a)
}

// =============================================================================

// has0xPrefix validates the account starts with a 0x.
func has0xPrefix(a AccountID) bool {
	return len(a) >= 2 && a[0] == '0' && (a[1] == 'x' || a[1] == 'X')
}

// isHex validates whether each byte is valid hexadecimal string.
func isHex(a AccountID) bool {
	if len(a)%2 != 0 {
		return false
	}

	for _, c := range []byte(a) {
		if !isHexCharacter(c) {
			return false
		}
	}

	return true
}

// isHexCharacter returns bool of c being a valid hexadecimal.
func isHexCharacter(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// NewAccountID digests a public identity token into the identity used by
// entries. The raw token never appears in the ledger.
func NewAccountID(h digest.Hasher, token string) AccountID {
	return AccountID(h.Bytes([]byte(token)))
}
