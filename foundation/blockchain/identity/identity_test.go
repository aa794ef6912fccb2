package identity_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/identity"
	"github.com/ethereum/go-ethereum/crypto"
)

const pkHexKey = "fae85851bdf5c9f49923722ce38f3c1defcfd3619ef5453230a58ad805499959"

type transfer struct {
	Receiver string `json:"receiver"`
	Amount   int64  `json:"amount"`
}

// =============================================================================

func Test_Signing(t *testing.T) {
	value := transfer{Receiver: "0x04ab", Amount: 10}

	pk, err := crypto.HexToECDSA(pkHexKey)
	if err != nil {
		t.Fatalf("Should be able to generate a private key: %s", err)
	}

	token := identity.Token(pk.PublicKey)
	if !strings.HasPrefix(token, "0x04") || len(token) != 2+130 {
		t.Fatalf("Should get back an uncompressed public key token: %s", token)
	}

	sig, err := identity.Sign(value, pk)
	if err != nil {
		t.Fatalf("Should be able to sign data: %s", err)
	}

	signer, err := identity.Recover(value, sig)
	if err != nil {
		t.Fatalf("Should be able to recover the signer: %s", err)
	}

	if signer != token {
		t.Logf("got: %s", signer)
		t.Logf("exp: %s", token)
		t.Fatalf("Should get back the right token.")
	}

	if err := identity.Verify(value, sig, token); err != nil {
		t.Fatalf("Should be able to verify the signature: %s", err)
	}

	changed := transfer{Receiver: "0x04ab", Amount: 11}
	if err := identity.Verify(changed, sig, token); !errors.Is(err, identity.ErrInvalidSignature) {
		t.Fatalf("Should reject a signature over different data: %v", err)
	}

	if _, err := identity.Recover(value, "0x1234"); !errors.Is(err, identity.ErrInvalidSignature) {
		t.Fatalf("Should reject a short signature: %v", err)
	}
}

func Test_SaveLoad(t *testing.T) {
	pk, err := identity.Generate()
	if err != nil {
		t.Fatalf("Should be able to generate a key: %s", err)
	}

	path := filepath.Join(t.TempDir(), "accounts", "kennedy.ecdsa")
	if err := identity.Save(path, pk); err != nil {
		t.Fatalf("Should be able to save the key: %s", err)
	}

	loaded, err := identity.Load(path)
	if err != nil {
		t.Fatalf("Should be able to load the key: %s", err)
	}

	if identity.Token(loaded.PublicKey) != identity.Token(pk.PublicKey) {
		t.Fatalf("Should load back the same key.")
	}
}
