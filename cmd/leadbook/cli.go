package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"github.com/hpungsan/leadbook/internal/config"
	"github.com/hpungsan/leadbook/internal/errors"
	"github.com/hpungsan/leadbook/internal/ops"
	"github.com/hpungsan/leadbook/internal/store"
)

// maxNoteBytes caps notes read from stdin.
const maxNoteBytes = 64 << 10

// newCLIApp creates the CLI application with all commands.
func newCLIApp(repo *store.Repository, cfg *config.Config, logger *log.Logger) *cli.App {
	app := &cli.App{
		Name:    "leadbook",
		Usage:   "Track iFood restaurant prospects through the sales pipeline",
		Version: Version,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "Enable debug logging"},
		},
		Before: func(c *cli.Context) error {
			if logger != nil && c.Bool("verbose") {
				logger.SetLevel(log.DebugLevel)
			}
			return nil
		},
		Commands: []*cli.Command{
			addCmd(repo),
			showCmd(repo, cfg),
			updateCmd(repo),
			statusCmd(repo),
			noteCmd(repo),
			paymentCmd(repo),
			interestCmd(repo),
			deleteCmd(repo),
			listCmd(repo),
			statsCmd(repo),
			exportCmd(repo, cfg, logger),
			importCmd(repo, cfg, logger),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addressFlags are the flags shared by commands that act on one client.
func addressFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Client name (case-insensitive) instead of id"},
	}, extra...)
}

// address reads the positional id or the --name flag.
func address(c *cli.Context) (id, name string) {
	if c.NArg() > 0 {
		return c.Args().First(), ""
	}
	return "", c.String("name")
}

// addCmd creates the add command.
func addCmd(repo *store.Repository) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Add a new client (status starts as Não Contatado)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Required: true, Usage: "Business name"},
			&cli.StringFlag{Name: "ifood", Usage: "iFood page URL"},
			&cli.StringFlag{Name: "google", Usage: "Google Maps URL"},
			&cli.StringFlag{Name: "instagram", Usage: "Instagram handle or URL"},
			&cli.StringFlag{Name: "whatsapp", Usage: "WhatsApp number"},
			&cli.StringFlag{Name: "notes", Usage: "Initial notes"},
			&cli.Float64Flag{Name: "value", Usage: "Project value in reais"},
			&cli.IntFlag{Name: "interest", Usage: "Interest level 1-5"},
		},
		Action: func(c *cli.Context) error {
			input := ops.AddInput{
				Name:       c.String("name"),
				IfoodLink:  c.String("ifood"),
				GoogleLink: c.String("google"),
				Instagram:  c.String("instagram"),
				WhatsApp:   c.String("whatsapp"),
				Notes:      c.String("notes"),
			}
			if c.IsSet("value") {
				v := c.Float64("value")
				input.Value = &v
			}
			if c.IsSet("interest") {
				l := c.Int("interest")
				input.InterestLevel = &l
			}

			output, err := ops.Add(c.Context, repo, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(repo *store.Repository, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show a client by ID or name",
		ArgsUsage: "[id]",
		Flags: addressFlags(
			&cli.BoolFlag{Name: "card", Usage: "Print the client sheet as markdown"},
			&cli.BoolFlag{Name: "html", Usage: "With --card, render the sheet as HTML"},
		),
		Action: func(c *cli.Context) error {
			id, name := address(c)

			if c.Bool("card") || c.Bool("html") {
				output, err := ops.Card(repo, cfg, ops.CardInput{ID: id, Name: name, HTML: c.Bool("html")})
				if err != nil {
					return outputError(err)
				}
				if output.HTML != "" {
					fmt.Fprint(os.Stdout, output.HTML)
				} else {
					fmt.Fprint(os.Stdout, output.Markdown)
				}
				return nil
			}

			output, err := ops.Fetch(repo, cfg, ops.FetchInput{ID: id, Name: name})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(repo *store.Repository) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Edit a client's name, links, WhatsApp or value",
		ArgsUsage: "[id]",
		Flags: addressFlags(
			&cli.StringFlag{Name: "new-name", Usage: "New business name"},
			&cli.StringFlag{Name: "ifood", Usage: "iFood page URL"},
			&cli.StringFlag{Name: "google", Usage: "Google Maps URL"},
			&cli.StringFlag{Name: "instagram", Usage: "Instagram handle or URL"},
			&cli.StringFlag{Name: "whatsapp", Usage: "WhatsApp number"},
			&cli.Float64Flag{Name: "value", Usage: "Project value in reais"},
			&cli.BoolFlag{Name: "clear-value", Usage: "Remove the project value"},
		),
		Action: func(c *cli.Context) error {
			input := ops.UpdateInput{ClearValue: c.Bool("clear-value")}
			input.ID, input.Name = address(c)

			input.NewName = optionalString(c, "new-name")
			input.IfoodLink = optionalString(c, "ifood")
			input.GoogleLink = optionalString(c, "google")
			input.Instagram = optionalString(c, "instagram")
			input.WhatsApp = optionalString(c, "whatsapp")
			if c.IsSet("value") {
				v := c.Float64("value")
				input.Value = &v
			}

			output, err := ops.Update(c.Context, repo, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// statusCmd creates the status command.
func statusCmd(repo *store.Repository) *cli.Command {
	return &cli.Command{
		Name:      "status",
		Usage:     "Move a client to another pipeline stage",
		ArgsUsage: "[id]",
		Flags: addressFlags(
			&cli.StringFlag{Name: "set", Aliases: []string{"s"}, Required: true,
				Usage: "not_contacted|contacted|responded|proposal_sent|closed|rejected (or the pt-BR label)"},
		),
		Action: func(c *cli.Context) error {
			id, name := address(c)
			output, err := ops.SetStatus(c.Context, repo, ops.SetStatusInput{ID: id, Name: name, Status: c.String("set")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// noteCmd creates the note command.
func noteCmd(repo *store.Repository) *cli.Command {
	return &cli.Command{
		Name:      "note",
		Usage:     "Replace or append to a client's notes (text from --text or stdin)",
		ArgsUsage: "[id]",
		Flags: addressFlags(
			&cli.StringFlag{Name: "text", Aliases: []string{"t"}, Usage: "Note text"},
			&cli.BoolFlag{Name: "append", Aliases: []string{"a"}, Usage: "Append instead of replacing"},
		),
		Action: func(c *cli.Context) error {
			input := ops.SetNotesInput{Append: c.Bool("append")}
			input.ID, input.Name = address(c)

			switch {
			case c.IsSet("text"):
				input.Notes = c.String("text")
			case stdinHasData():
				text, err := readStdin(maxNoteBytes)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.Notes = text
			default:
				return outputError(errors.NewInvalidRequest("note text must be given with --text or piped via stdin"))
			}

			output, err := ops.SetNotes(c.Context, repo, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// paymentCmd creates the payment command.
func paymentCmd(repo *store.Repository) *cli.Command {
	return &cli.Command{
		Name:      "payment",
		Usage:     "Record the payment method of a closed client",
		ArgsUsage: "[id]",
		Flags: addressFlags(
			&cli.StringFlag{Name: "method", Aliases: []string{"m"}, Required: true,
				Usage: "e.g. PIX, Cartão de Crédito, Boleto (empty clears)"},
		),
		Action: func(c *cli.Context) error {
			id, name := address(c)
			output, err := ops.SetPayment(c.Context, repo, ops.SetPaymentInput{ID: id, Name: name, Method: c.String("method")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// interestCmd creates the interest command.
func interestCmd(repo *store.Repository) *cli.Command {
	return &cli.Command{
		Name:      "interest",
		Usage:     "Rate a client's interest from 1 to 5 (0 clears)",
		ArgsUsage: "[id]",
		Flags: addressFlags(
			&cli.IntFlag{Name: "level", Aliases: []string{"l"}, Required: true, Usage: "Interest level 0-5"},
		),
		Action: func(c *cli.Context) error {
			id, name := address(c)
			output, err := ops.SetInterest(c.Context, repo, ops.SetInterestInput{ID: id, Name: name, Level: c.Int("level")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(repo *store.Repository) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Permanently delete a client",
		ArgsUsage: "[id]",
		Flags:     addressFlags(),
		Action: func(c *cli.Context) error {
			id, name := address(c)
			output, err := ops.Delete(c.Context, repo, ops.DeleteInput{ID: id, Name: name})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(repo *store.Repository) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List clients, newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Aliases: []string{"q"}, Usage: "Filter by name (substring, case-insensitive)"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Filter by status"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(repo, ops.ListInput{
				Query:  c.String("query"),
				Status: c.String("status"),
				Limit:  c.Int("limit"),
				Offset: c.Int("offset"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(repo *store.Repository) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show pipeline totals and closed revenue",
		Action: func(c *cli.Context) error {
			return outputJSON(ops.Stats(repo))
		},
	}
}

// exportCmd creates the export command.
func exportCmd(repo *store.Repository, cfg *config.Config, logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all clients to a spreadsheet",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.leadbook/exports/clientes-ifood-<date>.xlsx)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "xlsx|csv (default: path extension, then config)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Export(c.Context, repo, cfg, ops.ExportInput{
				Path:   c.String("path"),
				Format: c.String("format"),
			})
			if err != nil {
				return outputError(err)
			}

			if logger != nil {
				logger.Info("exported clients", "path", output.Path, "count", output.Count)
			}
			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(repo *store.Repository, cfg *config.Config, logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Merge clients from an .xlsx or .csv file (matched by name)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Report what would change without saving"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(c.Context, repo, cfg, ops.ImportInput{
				Path:   c.String("path"),
				DryRun: c.Bool("dry-run"),
			})
			if err != nil {
				if logger != nil && errors.Is(err, errors.ErrInvalidFile) {
					logger.Error("import failed", "path", c.String("path"), "err", err)
				}
				return outputError(err)
			}

			if logger != nil {
				logger.Info("imported clients",
					"inserted", output.Inserted, "updated", output.Updated, "dry_run", output.DryRun)
			}
			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if leadErr, ok := err.(*errors.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", leadErr.Code, leadErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// optionalString returns the flag value only when it was given.
func optionalString(c *cli.Context, name string) *string {
	if !c.IsSet(name) {
		return nil
	}
	s := c.String(name)
	return &s
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads at most limit bytes from stdin.
func readStdin(limit int64) (string, error) {
	data, err := io.ReadAll(io.LimitReader(os.Stdin, limit+1))
	if err != nil {
		return "", err
	}
	if int64(len(data)) > limit {
		return "", fmt.Errorf("stdin exceeds %d bytes", limit)
	}
	return strings.TrimSpace(string(data)), nil
}
