package ops

import (
	"context"
	"strings"
	"time"

	"github.com/hpungsan/leadbook/internal/client"
	"github.com/hpungsan/leadbook/internal/errors"
	"github.com/hpungsan/leadbook/internal/store"
)

// UpdateInput contains parameters for the Update operation.
type UpdateInput struct {
	// Addressing
	ID   string
	Name string

	// Editable fields (nil = don't change)
	NewName    *string
	IfoodLink  *string
	GoogleLink *string
	Instagram  *string
	WhatsApp   *string
	Value      *float64
	ClearValue bool // drop the value; conflicts with Value
}

// UpdateOutput contains the result of a mutating operation on one client.
type UpdateOutput struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Status    client.Status `json:"status"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Update edits the contact details and value of an existing client.
func Update(ctx context.Context, repo *store.Repository, input UpdateInput) (*UpdateOutput, error) {
	if input.NewName == nil && input.IfoodLink == nil && input.GoogleLink == nil &&
		input.Instagram == nil && input.WhatsApp == nil && input.Value == nil && !input.ClearValue {
		return nil, errors.NewInvalidRequest("at least one editable field must be provided")
	}
	if input.Value != nil && input.ClearValue {
		return nil, errors.NewInvalidRequest("value and clear-value are mutually exclusive")
	}

	c, err := lookup(repo, input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	if input.NewName != nil {
		c.Name = strings.TrimSpace(*input.NewName)
		if c.Name == "" {
			return nil, errors.NewInvalidRequest("name must not be blank")
		}
	}
	setTrimmed(&c.IfoodLink, input.IfoodLink)
	setTrimmed(&c.GoogleLink, input.GoogleLink)
	setTrimmed(&c.Instagram, input.Instagram)
	setTrimmed(&c.WhatsApp, input.WhatsApp)
	if input.Value != nil {
		v := *input.Value
		c.Value = &v
	}
	if input.ClearValue {
		c.Value = nil
	}

	return save(ctx, repo, c)
}

func setTrimmed(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// save validates c and stores it with a fresh UpdatedAt.
func save(ctx context.Context, repo *store.Repository, c client.Client) (*UpdateOutput, error) {
	c.UpdatedAt = time.Time{}
	if result := client.Validate(c); !result.Valid {
		return nil, errors.NewInvalidRequest(result.Error())
	}

	updated, err := repo.Update(ctx, c)
	if err != nil {
		return nil, err
	}

	return &UpdateOutput{
		ID:        updated.ID,
		Name:      updated.Name,
		Status:    updated.Status,
		UpdatedAt: updated.UpdatedAt,
	}, nil
}
