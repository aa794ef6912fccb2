// Package identity turns ECDSA keys into the public identity tokens the
// ledger digests, and signs and verifies values on behalf of a token.
package identity

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ledgerID is an arbitrary number added to the recovery id of every
// signature. It makes clear the signature was produced for this ledger.
const ledgerID = 29

// ErrInvalidSignature is returned when a signature doesn't match the value
// or the token it is checked against.
var ErrInvalidSignature = errors.New("invalid signature")

// =============================================================================

// Generate creates a new private key.
func Generate() (*ecdsa.PrivateKey, error) {
	return crypto.GenerateKey()
}

// Load reads a hex encoded private key from the specified file.
func Load(path string) (*ecdsa.PrivateKey, error) {
	return crypto.LoadECDSA(path)
}

// Save writes the private key to the specified file, creating the folder
// when needed.
func Save(path string, privateKey *ecdsa.PrivateKey) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating key folder: %w", err)
	}

	return crypto.SaveECDSA(path, privateKey)
}

// Token returns the public identity token for the key. This is the value
// users share and the ledger digests into an identity.
func Token(publicKey ecdsa.PublicKey) string {
	return hexutil.Encode(crypto.FromECDSAPub(&publicKey))
}

// =============================================================================

// Sign uses the specified private key to sign the value and returns the
// hex encoded signature.
func Sign(value any, privateKey *ecdsa.PrivateKey) (string, error) {

	// Prepare the data for signing.
	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	// Sign the hash with the private key to produce a signature.
	sig, err := crypto.Sign(data, privateKey)
	if err != nil {
		return "", err
	}

	sig[crypto.RecoveryIDOffset] += ledgerID

	return hexutil.Encode(sig), nil
}

// Recover extracts the identity token of the key that signed the value.
// The same value that was signed must be provided or a different token
// is returned.
func Recover(value any, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if len(sig) != crypto.SignatureLength {
		return "", fmt.Errorf("%w: length %d", ErrInvalidSignature, len(sig))
	}

	// Check the recovery id is either 0 or 1 once the ledger id is removed.
	v := sig[crypto.RecoveryIDOffset] - ledgerID
	if v != 0 && v != 1 {
		return "", fmt.Errorf("%w: recovery id", ErrInvalidSignature)
	}
	sig[crypto.RecoveryIDOffset] = v

	data, err := stamp(value)
	if err != nil {
		return "", err
	}

	publicKey, err := crypto.SigToPub(data, sig)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	if !crypto.VerifySignature(crypto.FromECDSAPub(publicKey), data, sig[:crypto.RecoveryIDOffset]) {
		return "", ErrInvalidSignature
	}

	return Token(*publicKey), nil
}

// Verify checks the value was signed by the owner of the token.
func Verify(value any, signature string, token string) error {
	signer, err := Recover(value, signature)
	if err != nil {
		return err
	}

	if signer != token {
		return fmt.Errorf("%w: signed by a different key", ErrInvalidSignature)
	}

	return nil
}

// =============================================================================

// stamp returns a hash of 32 bytes that represents this value with the
// ledger stamp embedded into the final hash.
func stamp(value any) ([]byte, error) {

	// The canonical form keeps the hash independent of field order.
	v, err := digest.Canonical(value)
	if err != nil {
		return nil, err
	}

	// Hash the data into a 32 byte array. This will provide a data
	// length consistency with all data.
	hash := crypto.Keccak256(v)

	// This stamp is used so signatures we produce when signing data
	// are always unique to the ledger.
	stamp := []byte("\x19Ledger Signed Message:\n32")

	return crypto.Keccak256(stamp, hash), nil
}
