package ops

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/leadbook/internal/client"
	"github.com/hpungsan/leadbook/internal/config"
	"github.com/hpungsan/leadbook/internal/errors"
	"github.com/hpungsan/leadbook/internal/store"
)

// CardInput contains parameters for the Card operation.
type CardInput struct {
	ID   string
	Name string
	HTML bool // render the markdown to HTML
}

// CardOutput is a printable client sheet.
type CardOutput struct {
	ID       string `json:"id"`
	Markdown string `json:"markdown"`
	HTML     string `json:"html,omitempty"`
}

// Card renders a client's detail sheet as markdown, and optionally HTML.
func Card(repo *store.Repository, cfg *config.Config, input CardInput) (*CardOutput, error) {
	c, err := lookup(repo, input.ID, input.Name)
	if err != nil {
		return nil, err
	}

	md := RenderCard(c, countryCode(cfg))
	out := &CardOutput{ID: c.ID, Markdown: md}
	if input.HTML {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(md), &buf); err != nil {
			return nil, errors.NewInternal(fmt.Errorf("render card: %w", err))
		}
		out.HTML = buf.String()
	}
	return out, nil
}

// RenderCard formats c as a markdown document.
func RenderCard(c client.Client, countryCode string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", c.Name)
	fmt.Fprintf(&b, "**Status:** %s\n\n", client.LabelOf(c.Status))

	if c.Status == client.StatusClosed {
		method := c.PaymentMethod
		if method == "" {
			method = "não informada"
		}
		fmt.Fprintf(&b, "**Forma de Pagamento:** %s\n\n", method)
	}
	if c.Value != nil {
		fmt.Fprintf(&b, "**Valor do Projeto:** %s\n\n", FormatBRL(*c.Value))
	}
	if level := c.Interest(); level > 0 {
		fmt.Fprintf(&b, "**Nível de Interesse:** %d/%d (%s)\n\n", level, client.MaxInterestLevel, client.InterestLabel(level))
	}

	var links []string
	if c.IfoodLink != "" {
		links = append(links, fmt.Sprintf("- [iFood](%s)", c.IfoodLink))
	}
	if c.GoogleLink != "" {
		links = append(links, fmt.Sprintf("- [Google](%s)", c.GoogleLink))
	}
	if c.Instagram != "" {
		links = append(links, "- Instagram: "+c.Instagram)
	}
	if url := client.WhatsAppURL(c.WhatsApp, countryCode); url != "" {
		links = append(links, fmt.Sprintf("- [WhatsApp %s](%s)", c.WhatsApp, url))
	}
	if len(links) > 0 {
		b.WriteString("## Contato\n\n")
		b.WriteString(strings.Join(links, "\n"))
		b.WriteString("\n\n")
	}

	if strings.TrimSpace(c.Notes) != "" {
		b.WriteString("## Observações\n\n")
		b.WriteString(strings.TrimSpace(c.Notes))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "_Criado em %s · Atualizado em %s_\n",
		client.FormatLocalDate(c.CreatedAt), client.FormatLocalDate(c.UpdatedAt))
	return b.String()
}
