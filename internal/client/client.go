package client

import (
	"strings"
	"time"
)

// Client represents a prospective client tracked through the outreach pipeline.
// The JSON shape is the persisted blob format.
type Client struct {
	// ID uniquely identifies this client; assigned once at creation
	ID string `json:"id"`

	// Name is the business name and the only key used when merging imports
	Name string `json:"name"`

	IfoodLink  string `json:"ifoodLink"`
	GoogleLink string `json:"googleLink"`
	Instagram  string `json:"instagram"`
	WhatsApp   string `json:"whatsapp"`

	// Status is the current pipeline stage
	Status Status `json:"status"`

	Notes string `json:"notes"`

	// PaymentMethod is only meaningful once Status is closed
	PaymentMethod string `json:"paymentMethod,omitempty"`

	// Value is the deal size (nil = unknown)
	Value *float64 `json:"value,omitempty"`

	// InterestLevel is 1..5; nil or 0 means unrated
	InterestLevel *int `json:"interestLevel,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Draft holds the user-supplied fields for a new client.
// ID, Status and timestamps are assigned by the repository.
type Draft struct {
	Name          string
	IfoodLink     string
	GoogleLink    string
	Instagram     string
	WhatsApp      string
	Notes         string
	PaymentMethod string
	Value         *float64
	InterestLevel *int
}

// MatchKey returns the key used for case-insensitive name matching.
func MatchKey(name string) string {
	return strings.ToLower(name)
}

// SameName reports whether two names match for lookup and import
// reconciliation. A blank name matches nothing.
func SameName(a, b string) bool {
	key := MatchKey(a)
	return strings.TrimSpace(key) != "" && key == MatchKey(b)
}

// Clone returns a deep copy so callers can't mutate pointer fields of a stored record.
func (c Client) Clone() Client {
	out := c
	if c.Value != nil {
		v := *c.Value
		out.Value = &v
	}
	if c.InterestLevel != nil {
		l := *c.InterestLevel
		out.InterestLevel = &l
	}
	return out
}

// Interest returns the interest level, treating nil as unrated (0).
func (c Client) Interest() int {
	if c.InterestLevel == nil {
		return 0
	}
	return *c.InterestLevel
}

// DealValue returns the deal value, treating nil as zero.
func (c Client) DealValue() float64 {
	if c.Value == nil {
		return 0
	}
	return *c.Value
}

// Summary is the list view of a client: everything except the free-text notes.
type Summary struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Status        Status    `json:"status"`
	StatusLabel   string    `json:"status_label"`
	WhatsApp      string    `json:"whatsapp,omitempty"`
	Value         *float64  `json:"value,omitempty"`
	InterestLevel *int      `json:"interest_level,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToSummary strips the notes and links from a client.
func (c Client) ToSummary() Summary {
	cl := c.Clone()
	return Summary{
		ID:            cl.ID,
		Name:          cl.Name,
		Status:        cl.Status,
		StatusLabel:   LabelOf(cl.Status),
		WhatsApp:      cl.WhatsApp,
		Value:         cl.Value,
		InterestLevel: cl.InterestLevel,
		CreatedAt:     cl.CreatedAt,
		UpdatedAt:     cl.UpdatedAt,
	}
}
