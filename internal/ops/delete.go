package ops

import (
	"context"

	"github.com/hpungsan/leadbook/internal/store"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID   string
	Name string
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
	Name    string `json:"name"`
}

// Delete permanently removes a client.
func Delete(ctx context.Context, repo *store.Repository, input DeleteInput) (*DeleteOutput, error) {
	c, err := lookup(repo, input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	if err := repo.Delete(ctx, c.ID); err != nil {
		return nil, err
	}

	return &DeleteOutput{
		Deleted: true,
		ID:      c.ID,
		Name:    c.Name,
	}, nil
}
