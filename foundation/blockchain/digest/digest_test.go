package digest_test

import (
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Strategies(t *testing.T) {
	type table struct {
		name string
		size int
	}

	tt := []table{
		{name: digest.SHA256, size: 32},
		{name: digest.Keccak256, size: 32},
		{name: digest.Blake2b, size: 32},
		{name: digest.Poly16, size: 2},
	}

	t.Log("Given the need to produce fixed width deterministic digests.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen using the %s strategy.", testID, tst.name)
			{
				f := func(t *testing.T) {
					h, err := digest.NewByName(tst.name)
					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to construct the hasher: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to construct the hasher.", success, testID)

					if h.Size() != tst.size {
						t.Fatalf("\t%s\tTest %d:\tShould have a width of %d, got %d.", failed, testID, tst.size, h.Size())
					}
					t.Logf("\t%s\tTest %d:\tShould have the right width.", success, testID)

					d1 := h.Bytes([]byte("ardan"))
					d2 := h.Bytes([]byte("ardan"))
					if d1 != d2 {
						t.Fatalf("\t%s\tTest %d:\tShould get the same digest twice: %s != %s", failed, testID, d1, d2)
					}
					t.Logf("\t%s\tTest %d:\tShould get the same digest twice.", success, testID)

					if len(d1) != 2+2*tst.size {
						t.Fatalf("\t%s\tTest %d:\tShould get a 0x prefixed hex digest, got %s.", failed, testID, d1)
					}
					t.Logf("\t%s\tTest %d:\tShould get a 0x prefixed hex digest.", success, testID)

					if len(h.Zero()) != len(d1) {
						t.Fatalf("\t%s\tTest %d:\tShould get a zero digest of the same width, got %s.", failed, testID, h.Zero())
					}
					t.Logf("\t%s\tTest %d:\tShould get a zero digest of the same width.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_Poly16(t *testing.T) {
	h, err := digest.NewByName(digest.Poly16)
	if err != nil {
		t.Fatalf("unable to construct hasher: %v", err)
	}

	// ((97*31 + 98)*31 + 99) mod 65536 = 30818 = 0x7862
	if got := h.Bytes([]byte("abc")); got != "0x7862" {
		t.Fatalf("got %s, exp 0x7862", got)
	}
}

func Test_CanonicalKeyOrder(t *testing.T) {
	h, err := digest.NewByName(digest.SHA256)
	if err != nil {
		t.Fatalf("unable to construct hasher: %v", err)
	}

	type ab struct {
		A int64  `json:"a"`
		B string `json:"b"`
	}
	type ba struct {
		B string `json:"b"`
		A int64  `json:"a"`
	}

	d1 := h.Value(ab{A: 10, B: "x"})
	d2 := h.Value(ba{B: "x", A: 10})
	d3 := h.Value(map[string]any{"b": "x", "a": 10})

	if d1 != d2 || d1 != d3 {
		t.Fatalf("field order should not change the digest: %s %s %s", d1, d2, d3)
	}

	data, err := digest.Canonical(ba{B: "x", A: 10})
	if err != nil {
		t.Fatalf("unable to encode: %v", err)
	}
	if string(data) != `{"a":10,"b":"x"}` {
		t.Fatalf("got %s", data)
	}
}

func Test_UnknownStrategy(t *testing.T) {
	if _, err := digest.Lookup("md4"); err == nil {
		t.Fatal("should not find an unknown strategy")
	}

	if _, err := digest.Lookup("SHA256"); err != nil {
		t.Fatalf("lookup should be case insensitive: %v", err)
	}
}

func Test_UnencodableValue(t *testing.T) {
	h, _ := digest.NewByName(digest.SHA256)

	if got := h.Value(make(chan int)); got != h.Zero() {
		t.Fatalf("got %s, exp the zero digest", got)
	}
}
