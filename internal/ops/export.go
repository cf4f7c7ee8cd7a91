package ops

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/hpungsan/leadbook/internal/client"
	"github.com/hpungsan/leadbook/internal/config"
	"github.com/hpungsan/leadbook/internal/errors"
	"github.com/hpungsan/leadbook/internal/sheet"
	"github.com/hpungsan/leadbook/internal/store"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path   string // optional, default: ~/.leadbook/exports/clientes-ifood-<date>.<ext>
	Format string // optional; xlsx or csv. Defaults to the path extension, then config
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Format     string `json:"format"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportTable projects clients onto the export columns. Status is written as its
// label and dates as DD/MM/YYYY. Value and interest level are not exported.
func ExportTable(clients []client.Client) sheet.Table {
	rows := make([][]string, len(clients))
	for i, c := range clients {
		rows[i] = []string{
			c.Name,
			c.IfoodLink,
			c.GoogleLink,
			c.Instagram,
			c.WhatsApp,
			client.LabelOf(c.Status),
			c.PaymentMethod,
			c.Notes,
			client.FormatLocalDate(c.CreatedAt),
			client.FormatLocalDate(c.UpdatedAt),
		}
	}
	widths := make([]float64, len(exportWidths))
	copy(widths, exportWidths)
	return sheet.Table{
		Sheet:   ExportSheetName,
		Headers: ExportColumns(),
		Rows:    rows,
		Widths:  widths,
	}
}

// DefaultExportFilename returns clientes-ifood-YYYY-MM-DD with the format's extension.
func DefaultExportFilename(now time.Time, format sheet.Format) string {
	return "clientes-ifood-" + now.Format("2006-01-02") + format.Extension()
}

// Export writes every client to a spreadsheet file.
func Export(ctx context.Context, repo *store.Repository, cfg *config.Config, input ExportInput) (*ExportOutput, error) {
	now := repo.Now()

	format, err := resolveExportFormat(input, cfg)
	if err != nil {
		return nil, err
	}

	exportPath := input.Path
	if exportPath == "" {
		dir, err := DefaultExportsDir()
		if err != nil {
			return nil, err
		}
		exportPath = filepath.Join(dir, DefaultExportFilename(now, format))
	}

	exportPath, err = checkPath(exportPath, PathCheckWrite, cfg)
	if err != nil {
		return nil, err
	}

	clients := repo.List()
	data, err := sheet.WriteTable(ExportTable(clients), format)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to encode export: %w", err))
	}

	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("export")
	}

	if err := writeFileAtomic(exportPath, data); err != nil {
		return nil, err
	}

	return &ExportOutput{
		Path:       exportPath,
		Format:     string(format),
		Count:      len(clients),
		ExportedAt: now.Unix(),
	}, nil
}

func resolveExportFormat(input ExportInput, cfg *config.Config) (sheet.Format, error) {
	var requested sheet.Format
	if input.Format != "" {
		f, err := sheet.ParseFormat(input.Format)
		if err != nil {
			return "", errors.NewInvalidRequest(err.Error())
		}
		requested = f
	}

	if input.Path != "" {
		fromPath, err := sheet.FormatFromPath(input.Path)
		if err != nil {
			return "", errors.NewInvalidRequest("path must have .xlsx or .csv extension")
		}
		if requested != "" && requested != fromPath {
			return "", errors.NewInvalidRequest(
				fmt.Sprintf("format %q does not match path extension %q", requested, fromPath.Extension()))
		}
		return fromPath, nil
	}

	if requested != "" {
		return requested, nil
	}
	if cfg != nil && cfg.ExportFormat != "" {
		f, err := sheet.ParseFormat(cfg.ExportFormat)
		if err != nil {
			return "", errors.NewInvalidRequest("export_format: " + err.Error())
		}
		return f, nil
	}
	return sheet.FormatXLSX, nil
}

// writeFileAtomic writes data to a temp file beside path and renames it into
// place, so an existing file survives a failed export.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := path + "." + hex.EncodeToString(randBytes) + ".tmp"
	file, err := createSheetFile(tempPath)
	if err != nil {
		return err
	}

	success := false
	defer func() {
		if file != nil {
			file.Close()
		}
		if !success {
			os.Remove(tempPath)
		}
	}()

	if _, err := file.Write(data); err != nil {
		return errors.NewInternal(err)
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}

	// Close before rename (required on Windows)
	if err := file.Close(); err != nil {
		return errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	file = nil

	// os.Rename would follow a symlinked destination
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		return errors.NewInternal(fmt.Errorf("export path is a symlink"))
	}

	// On Windows, os.Rename fails if the destination exists; keep the old file.
	if err := os.Rename(tempPath, path); err != nil {
		if runtime.GOOS == "windows" {
			if _, statErr := os.Stat(path); statErr == nil {
				return errors.NewInvalidRequest("export destination already exists; overwriting is not supported on Windows (choose a new path or delete the existing file)")
			}
		}
		return errors.NewInternal(fmt.Errorf("failed to finalize export: %w", err))
	}

	success = true
	return nil
}
