package ops

import (
	"github.com/hpungsan/leadbook/internal/client"
	"github.com/hpungsan/leadbook/internal/config"
	"github.com/hpungsan/leadbook/internal/store"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID   string
	Name string
}

// FetchOutput is a full client plus derived display fields.
type FetchOutput struct {
	client.Client        // embedded (copy)
	StatusLabel   string `json:"status_label"`
	InterestLabel string `json:"interest_label,omitempty"`
	WhatsAppURL   string `json:"whatsapp_url,omitempty"`
}

// Fetch retrieves a client by id or name.
func Fetch(repo *store.Repository, cfg *config.Config, input FetchInput) (*FetchOutput, error) {
	c, err := lookup(repo, input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	return &FetchOutput{
		Client:        c,
		StatusLabel:   client.LabelOf(c.Status),
		InterestLabel: client.InterestLabel(c.Interest()),
		WhatsAppURL:   client.WhatsAppURL(c.WhatsApp, countryCode(cfg)),
	}, nil
}

func countryCode(cfg *config.Config) string {
	if cfg == nil || cfg.WhatsAppCountryCode == "" {
		return client.DefaultCountryCode
	}
	return cfg.WhatsAppCountryCode
}
