package ops

import (
	"context"
	"strings"
	"time"

	"github.com/hpungsan/leadbook/internal/client"
	"github.com/hpungsan/leadbook/internal/errors"
	"github.com/hpungsan/leadbook/internal/store"
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	Name          string // required
	IfoodLink     string
	GoogleLink    string
	Instagram     string
	WhatsApp      string
	Notes         string
	Value         *float64 // optional, >= 0
	InterestLevel *int     // optional, 0..5
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Status    client.Status `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}

// Add creates a client at the top of the list with status not_contacted.
func Add(ctx context.Context, repo *store.Repository, input AddInput) (*AddOutput, error) {
	draft := client.Draft{
		Name:          strings.TrimSpace(input.Name),
		IfoodLink:     strings.TrimSpace(input.IfoodLink),
		GoogleLink:    strings.TrimSpace(input.GoogleLink),
		Instagram:     strings.TrimSpace(input.Instagram),
		WhatsApp:      strings.TrimSpace(input.WhatsApp),
		Notes:         input.Notes,
		Value:         input.Value,
		InterestLevel: input.InterestLevel,
	}

	if result := client.ValidateDraft(draft); !result.Valid {
		return nil, errors.NewInvalidRequest(result.Error())
	}

	c, err := repo.Add(ctx, draft)
	if err != nil {
		return nil, err
	}

	return &AddOutput{
		ID:        c.ID,
		Name:      c.Name,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
	}, nil
}
