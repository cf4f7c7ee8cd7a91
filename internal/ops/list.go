package ops

import (
	"fmt"
	"strings"

	"github.com/hpungsan/leadbook/internal/client"
	"github.com/hpungsan/leadbook/internal/errors"
	"github.com/hpungsan/leadbook/internal/store"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Query  string // case-insensitive substring of the name
	Status string // optional; value or label
	Limit  int    // default: 20, max: 100
	Offset int    // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []client.Summary `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

// List returns client summaries in list order (manual adds first, newest on top),
// filtered by name and status.
func List(repo *store.Repository, input ListInput) (*ListOutput, error) {
	var status client.Status
	if strings.TrimSpace(input.Status) != "" {
		s, ok := client.ParseStatus(input.Status)
		if !ok {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("unknown status %q; valid: %v", input.Status, client.Statuses()))
		}
		status = s
	}

	// Apply limit defaults and bounds
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	query := strings.ToLower(strings.TrimSpace(input.Query))
	var matched []client.Client
	for _, c := range repo.List() {
		if query != "" && !strings.Contains(strings.ToLower(c.Name), query) {
			continue
		}
		if status != "" && c.Status != status {
			continue
		}
		matched = append(matched, c)
	}

	total := len(matched)
	start := min(offset, total)
	end := min(start+limit, total)

	items := make([]client.Summary, 0, end-start)
	for _, c := range matched[start:end] {
		items = append(items, c.ToSummary())
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: end < total,
			Total:   total,
		},
	}, nil
}
