package digest

import (
	"encoding/binary"
	"hash"
)

// poly16 is the weak polynomial rolling hash used by the demo chain. It
// must never back a ledger that tracks balances.
type poly16 struct {
	sum uint16
}

// NewPoly16 returns a hash.Hash computing h = (h*31 + b) mod 2^16 over
// every input byte.
func NewPoly16() hash.Hash {
	return &poly16{}
}

func (p *poly16) Write(data []byte) (int, error) {
	for _, b := range data {
		p.sum = p.sum*31 + uint16(b)
	}
	return len(data), nil
}

func (p *poly16) Sum(in []byte) []byte {
	var out [2]byte
	binary.BigEndian.PutUint16(out[:], p.sum)
	return append(in, out[:]...)
}

func (p *poly16) Reset()         { p.sum = 0 }
func (p *poly16) Size() int      { return 2 }
func (p *poly16) BlockSize() int { return 1 }
