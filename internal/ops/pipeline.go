package ops

import (
	"context"
	"fmt"
	"strings"

	"github.com/hpungsan/leadbook/internal/client"
	"github.com/hpungsan/leadbook/internal/errors"
	"github.com/hpungsan/leadbook/internal/store"
)

// SetStatusInput contains parameters for the SetStatus operation.
type SetStatusInput struct {
	ID     string
	Name   string
	Status string // machine value (closed) or label (Fechado)
}

// SetStatus moves a client to another pipeline stage. The payment method is
// left as is.
func SetStatus(ctx context.Context, repo *store.Repository, input SetStatusInput) (*UpdateOutput, error) {
	status, ok := client.ParseStatus(input.Status)
	if !ok {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown status %q; valid: %v", input.Status, client.Statuses()))
	}

	c, err := lookup(repo, input.ID, input.Name)
	if err != nil {
		return nil, err
	}
	c.Status = status
	return save(ctx, repo, c)
}

// SetPaymentInput contains parameters for the SetPayment operation.
type SetPaymentInput struct {
	ID     string
	Name   string
	Method string // "" clears it
}

// SetPayment records how a closed client paid.
func SetPayment(ctx context.Context, repo *store.Repository, input SetPaymentInput) (*UpdateOutput, error) {
	c, err := lookup(repo, input.ID, input.Name)
	if err != nil {
		return nil, err
	}
	if c.Status != client.StatusClosed {
		return nil, errors.NewPaymentRequiresClosed(c.ID)
	}
	c.PaymentMethod = strings.TrimSpace(input.Method)
	return save(ctx, repo, c)
}

// SetInterestInput contains parameters for the SetInterest operation.
type SetInterestInput struct {
	ID    string
	Name  string
	Level int // 0 clears the rating
}

// SetInterest rates a client's interest from 1 to 5, or clears it with 0.
func SetInterest(ctx context.Context, repo *store.Repository, input SetInterestInput) (*UpdateOutput, error) {
	if input.Level < 0 || input.Level > client.MaxInterestLevel {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("interest level must be between 0 and %d", client.MaxInterestLevel))
	}

	c, err := lookup(repo, input.ID, input.Name)
	if err != nil {
		return nil, err
	}
	if input.Level == 0 {
		c.InterestLevel = nil
	} else {
		level := input.Level
		c.InterestLevel = &level
	}
	return save(ctx, repo, c)
}

// SetNotesInput contains parameters for the SetNotes operation.
type SetNotesInput struct {
	ID     string
	Name   string
	Notes  string
	Append bool // add as a new paragraph instead of replacing
}

// SetNotes replaces a client's notes, or appends to them.
func SetNotes(ctx context.Context, repo *store.Repository, input SetNotesInput) (*UpdateOutput, error) {
	if input.Append && strings.TrimSpace(input.Notes) == "" {
		return nil, errors.NewInvalidRequest("content is required")
	}

	c, err := lookup(repo, input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	switch {
	case !input.Append:
		c.Notes = input.Notes
	case strings.TrimSpace(c.Notes) == "":
		c.Notes = input.Notes
	default:
		c.Notes = strings.TrimRight(c.Notes, "\n") + "\n\n" + input.Notes
	}
	return save(ctx, repo, c)
}
