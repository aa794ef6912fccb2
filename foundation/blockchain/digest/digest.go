// Package digest provides the pluggable hashing strategies used to link
// blocks, identify entries and build merkle roots.
package digest

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"hash"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

// Set of strategy names that can be selected in the genesis file.
const (
	SHA256    = "sha256"
	Keccak256 = "keccak256"
	Blake2b   = "blake2b"
	Poly16    = "poly16"
)

// Strategy represents a named hash construction.
type Strategy struct {
	Name string
	New  func() hash.Hash
}

var strategies = map[string]Strategy{
	SHA256:    {Name: SHA256, New: sha256.New},
	Keccak256: {Name: Keccak256, New: func() hash.Hash { return crypto.NewKeccakState() }},
	Blake2b:   {Name: Blake2b, New: newBlake2b},
	Poly16:    {Name: Poly16, New: NewPoly16},
}

// Lookup returns the strategy registered under the specified name.
func Lookup(name string) (Strategy, error) {
	s, exists := strategies[strings.ToLower(name)]
	if !exists {
		return Strategy{}, fmt.Errorf("digest strategy %q does not exist, choose from %v", name, Names())
	}

	return s, nil
}

// Names returns the sorted list of registered strategy names.
func Names() []string {
	names := make([]string, 0, len(strategies))
	for name := range strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// newBlake2b constructs an unkeyed 256 bit blake2b hash. The error can only
// happen with an oversized key.
func newBlake2b() hash.Hash {
	h, err := blake2b.New256(nil)
	if err != nil {
		panic(err)
	}
	return h
}

// =============================================================================

// Hasher produces hex encoded digests using a single strategy.
type Hasher struct {
	strategy Strategy
	zero     string
}

// New constructs a hasher for the specified strategy.
func New(strategy Strategy) Hasher {
	size := strategy.New().Size()

	return Hasher{
		strategy: strategy,
		zero:     hexutil.Encode(make([]byte, size)),
	}
}

// NewByName constructs a hasher for the strategy registered under name.
func NewByName(name string) (Hasher, error) {
	s, err := Lookup(name)
	if err != nil {
		return Hasher{}, err
	}

	return New(s), nil
}

// Name returns the name of the underlying strategy.
func (h Hasher) Name() string {
	return h.strategy.Name
}

// Size returns the width of a digest in bytes.
func (h Hasher) Size() int {
	return (len(h.zero) - 2) / 2
}

// NewHash returns a fresh hash.Hash for the strategy.
func (h Hasher) NewHash() hash.Hash {
	return h.strategy.New()
}

// Zero returns the digest made of all zero bytes.
func (h Hasher) Zero() string {
	return h.zero
}

// Sum returns the raw digest of the data.
func (h Hasher) Sum(data []byte) []byte {
	hh := h.strategy.New()
	hh.Write(data)
	return hh.Sum(nil)
}

// Bytes returns the hex encoded digest of the data.
func (h Hasher) Bytes(data []byte) string {
	return hexutil.Encode(h.Sum(data))
}

// Value returns the hex encoded digest of the canonical encoding of the
// value. If the value can't be encoded the zero digest is returned.
func (h Hasher) Value(value any) string {
	data, err := Canonical(value)
	if err != nil {
		return h.zero
	}

	return h.Bytes(data)
}

// =============================================================================

// Canonical returns a JSON encoding of the value where every object has its
// keys sorted. Numbers are carried through unchanged.
func Canonical(value any) ([]byte, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()

	var generic any
	if err := d.Decode(&generic); err != nil {
		return nil, err
	}

	return json.Marshal(generic)
}

// Decode converts a hex encoded digest back into its bytes.
func Decode(digest string) ([]byte, error) {
	return hexutil.Decode(digest)
}
