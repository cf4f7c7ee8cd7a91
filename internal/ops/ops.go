// Package ops implements the client operations shared by every front end:
// manual edits, queries, and spreadsheet import/export.
package ops

import (
	"strings"

	"github.com/hpungsan/leadbook/internal/client"
	"github.com/hpungsan/leadbook/internal/errors"
	"github.com/hpungsan/leadbook/internal/store"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Address identifies a client either by id or by name.
type Address struct {
	ByID bool
	ID   string
	Name string
}

// ValidateAddress validates addressing parameters and returns a normalized Address.
// Exactly one of id or name must be given.
func ValidateAddress(id, name string) (*Address, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)

	if id != "" && name != "" {
		return nil, errors.NewInvalidRequest("specify either id or name, not both")
	}
	if id == "" && name == "" {
		return nil, errors.NewInvalidRequest("must specify either id or name")
	}
	if id != "" {
		return &Address{ByID: true, ID: id}, nil
	}
	return &Address{Name: name}, nil
}

// resolve looks up the client an address points to.
func resolve(repo *store.Repository, addr *Address) (client.Client, error) {
	if addr.ByID {
		return repo.Get(addr.ID)
	}
	c, ok := repo.FindByName(addr.Name)
	if !ok {
		return client.Client{}, errors.NewNotFound(addr.Name)
	}
	return c, nil
}

// lookup validates id/name and resolves them in one step.
func lookup(repo *store.Repository, id, name string) (client.Client, error) {
	addr, err := ValidateAddress(id, name)
	if err != nil {
		return client.Client{}, err
	}
	return resolve(repo, addr)
}
