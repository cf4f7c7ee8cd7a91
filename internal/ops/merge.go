package ops

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hpungsan/leadbook/internal/client"
	"github.com/hpungsan/leadbook/internal/errors"
	"github.com/hpungsan/leadbook/internal/sheet"
	"github.com/hpungsan/leadbook/internal/store"
)

// DecodedRow is one spreadsheet row projected onto client fields.
// It carries no id; identity is decided by name during reconciliation.
type DecodedRow struct {
	Name          string
	IfoodLink     string
	GoogleLink    string
	Instagram     string
	WhatsApp      string
	Status        client.Status
	PaymentMethod string
	Notes         string
	Value         *float64
	InterestLevel *int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DecodeRow maps a row onto client fields. Missing text is "", missing numbers
// are nil, an unknown status label is not_contacted and an unreadable date is now.
func DecodeRow(row sheet.Row, now time.Time) DecodedRow {
	status, ok := client.StatusFromLabel(row.Get(ColStatus))
	if !ok {
		status = client.StatusNotContacted
	}
	return DecodedRow{
		Name:          row.Get(ColName),
		IfoodLink:     row.Get(ColIfoodLink),
		GoogleLink:    row.Get(ColGoogleLink),
		Instagram:     row.Get(ColInstagram),
		WhatsApp:      row.Get(ColWhatsApp),
		Status:        status,
		PaymentMethod: row.Get(ColPaymentMethod),
		Notes:         row.Get(ColNotes),
		Value:         parseValue(row.Get(ColValue)),
		InterestLevel: parseInterest(row.Get(ColInterestLevel)),
		CreatedAt:     dateOr(row.Get(ColCreatedAt), now),
		UpdatedAt:     dateOr(row.Get(ColUpdatedAt), now),
	}
}

func dateOr(text string, fallback time.Time) time.Time {
	if t, ok := client.ParseLocalDate(text); ok {
		return t
	}
	return fallback
}

// parseValue reads a deal value written either plainly ("1234.5") or in
// pt-BR notation ("R$ 1.234,50"). Negative or unreadable values are nil.
func parseValue(text string) *float64 {
	s := strings.TrimSpace(text)
	s = strings.TrimSpace(strings.TrimPrefix(s, "R$"))
	if s == "" {
		return nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return nil
	}
	return &v
}

// parseInterest reads a 0..5 interest level. Anything else is nil.
func parseInterest(text string) *int {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f < 0 || f > client.MaxInterestLevel {
		return nil
	}
	level := int(f)
	return &level
}

// MergeOptions supplies the clock and id source used while reconciling.
type MergeOptions struct {
	Now   func() time.Time
	NewID func() string
}

// MergeResult is the merged collection plus what happened to produce it.
type MergeResult struct {
	Clients  []client.Client
	Rows     int
	Inserted int
	Updated  int
}

// Summary renders the user-facing import message.
func (r *MergeResult) Summary() string {
	return fmt.Sprintf("Importação concluída: %d novos clientes adicionados, %d clientes atualizados.",
		r.Inserted, r.Updated)
}

// MergeImport decodes a spreadsheet and reconciles its rows with existing.
// existing is not modified. A file that cannot be decoded yields ErrInvalidFile
// and no result.
func MergeImport(data []byte, format sheet.Format, existing []client.Client, opts MergeOptions) (*MergeResult, error) {
	rows, err := sheet.ReadTable(data, format)
	if err != nil {
		return nil, errors.NewInvalidFile(err)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ts := now()
	newID := opts.NewID
	if newID == nil {
		newID = store.NewID
	}

	decoded := make([]DecodedRow, len(rows))
	for i, row := range rows {
		decoded[i] = DecodeRow(row, ts)
	}
	return Reconcile(decoded, existing, ts, newID), nil
}

// Reconcile applies decoded rows in order to a copy of existing.
//
// A row whose non-blank name matches a client case-insensitively replaces that
// client's mutable fields, keeping its id and CreatedAt and stamping UpdatedAt with now.
// Otherwise the row is appended as a new client with a fresh id and its decoded
// timestamps. Rows are matched against the working copy, so a name repeated in
// the file updates the client inserted by its first occurrence.
func Reconcile(rows []DecodedRow, existing []client.Client, now time.Time, newID func() string) *MergeResult {
	merged := make([]client.Client, len(existing), len(existing)+len(rows))
	for i, c := range existing {
		merged[i] = c.Clone()
	}

	result := &MergeResult{Rows: len(rows)}
	for _, row := range rows {
		if i := indexByName(merged, row.Name); i >= 0 {
			merged[i] = applyRow(merged[i], row, now)
			result.Updated++
			continue
		}
		merged = append(merged, newFromRow(row, newID()))
		result.Inserted++
	}
	result.Clients = merged
	return result
}

// indexByName finds the client a row updates. Blank names never match, so
// each blank-name row becomes its own record.
func indexByName(clients []client.Client, name string) int {
	for i, c := range clients {
		if client.SameName(c.Name, name) {
			return i
		}
	}
	return -1
}

// applyRow overwrites every mutable field of target with the row's values.
// Columns missing from the file clear the field.
func applyRow(target client.Client, row DecodedRow, now time.Time) client.Client {
	out := client.Client{
		ID:            target.ID,
		Name:          row.Name,
		IfoodLink:     row.IfoodLink,
		GoogleLink:    row.GoogleLink,
		Instagram:     row.Instagram,
		WhatsApp:      row.WhatsApp,
		Status:        row.Status,
		Notes:         row.Notes,
		PaymentMethod: row.PaymentMethod,
		Value:         row.Value,
		InterestLevel: row.InterestLevel,
		CreatedAt:     target.CreatedAt,
		UpdatedAt:     now,
	}
	if out.UpdatedAt.Before(out.CreatedAt) {
		out.UpdatedAt = out.CreatedAt
	}
	return out.Clone()
}

func newFromRow(row DecodedRow, id string) client.Client {
	c := client.Client{
		ID:            id,
		Name:          row.Name,
		IfoodLink:     row.IfoodLink,
		GoogleLink:    row.GoogleLink,
		Instagram:     row.Instagram,
		WhatsApp:      row.WhatsApp,
		Status:        row.Status,
		Notes:         row.Notes,
		PaymentMethod: row.PaymentMethod,
		Value:         row.Value,
		InterestLevel: row.InterestLevel,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if c.UpdatedAt.Before(c.CreatedAt) {
		c.UpdatedAt = c.CreatedAt
	}
	return c.Clone()
}
