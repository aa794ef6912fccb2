// Package nameservice reads the zblock/accounts folder and creates a name
// service lookup for the identities kept there.
package nameservice

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/digest"
	"github.com/ardanlabs/ledger/foundation/blockchain/identity"
)

// Entry represents a named identity.
type Entry struct {
	Name  string             `json:"name"`
	Token string             `json:"token"`
	ID    database.AccountID `json:"id"`
}

// NameService maintains a map of identities for name lookup.
type NameService struct {
	byID   map[database.AccountID]Entry
	byName map[string]Entry
}

// New constructs a name service with the keys found in the specified folder.
// Identities are digested with the chain's hasher so they match the ledger.
func New(root string, h digest.Hasher) (*NameService, error) {
	ns := NameService{
		byID:   make(map[database.AccountID]Entry),
		byName: make(map[string]Entry),
	}

	fn := func(fileName string, info fs.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walkdir failure: %w", err)
		}

		if path.Ext(fileName) != ".ecdsa" {
			return nil
		}

		privateKey, err := identity.Load(fileName)
		if err != nil {
			return fmt.Errorf("loading %s: %w", fileName, err)
		}

		token := identity.Token(privateKey.PublicKey)
		entry := Entry{
			Name:  strings.TrimSuffix(path.Base(fileName), ".ecdsa"),
			Token: token,
			ID:    database.NewAccountID(h, token),
		}

		ns.byID[entry.ID] = entry
		ns.byName[entry.Name] = entry

		return nil
	}

	if err := filepath.Walk(root, fn); err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}

	return &ns, nil
}

// Lookup returns the name for the specified identity, or the identity
// itself when it has no name.
func (ns *NameService) Lookup(id database.AccountID) string {
	entry, exists := ns.byID[id]
	if !exists {
		return string(id)
	}
	return entry.Name
}

// Token returns the public identity token registered under the name.
func (ns *NameService) Token(name string) (string, bool) {
	entry, exists := ns.byName[name]
	return entry.Token, exists
}

// Copy returns a copy of the map of identities and names.
func (ns *NameService) Copy() map[database.AccountID]string {
	cpy := make(map[database.AccountID]string, len(ns.byID))
	for id, entry := range ns.byID {
		cpy[id] = entry.Name
	}
	return cpy
}
