package ops

import (
	"github.com/dustin/go-humanize"

	"github.com/hpungsan/leadbook/internal/client"
	"github.com/hpungsan/leadbook/internal/store"
)

// StatusCount is the number of clients at one pipeline stage.
type StatusCount struct {
	Status client.Status `json:"status"`
	Label  string        `json:"label"`
	Count  int           `json:"count"`
}

// StatsOutput is the dashboard summary.
type StatsOutput struct {
	Total      int           `json:"total"`
	InProgress int           `json:"in_progress"`
	Closed     int           `json:"closed"`
	Revenue    float64       `json:"revenue"`
	RevenueBRL string        `json:"revenue_brl"`
	ByStatus   []StatusCount `json:"by_status"`
}

// Stats counts clients per stage and sums the value of closed deals.
// In progress covers contacted through closed.
func Stats(repo *store.Repository) *StatsOutput {
	counts := make(map[client.Status]int)
	out := &StatsOutput{}
	for _, c := range repo.List() {
		out.Total++
		counts[c.Status]++
		if c.Status.InProgress() {
			out.InProgress++
		}
		if c.Status == client.StatusClosed {
			out.Closed++
			out.Revenue += c.DealValue()
		}
	}

	out.RevenueBRL = FormatBRL(out.Revenue)
	for _, s := range client.Statuses() {
		out.ByStatus = append(out.ByStatus, StatusCount{
			Status: s,
			Label:  client.LabelOf(s),
			Count:  counts[s],
		})
	}
	return out
}

// FormatBRL renders an amount as Brazilian reais, e.g. "R$ 1.234,56".
func FormatBRL(v float64) string {
	return "R$ " + humanize.FormatFloat("#.###,##", v)
}
