package ops

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/hpungsan/leadbook/internal/config"
	"github.com/hpungsan/leadbook/internal/errors"
	"github.com/hpungsan/leadbook/internal/sheet"
	"github.com/hpungsan/leadbook/internal/store"
)

// MaxImportBytes caps the size of an imported spreadsheet.
const MaxImportBytes = 32 << 20

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Path   string // required, .xlsx or .csv
	DryRun bool   // merge and report without saving
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Rows     int    `json:"rows"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Total    int    `json:"total"`
	DryRun   bool   `json:"dry_run"`
	Message  string `json:"message"`
}

// Import merges a spreadsheet into the repository. Rows are matched to
// existing clients by name; see Reconcile. Only one import runs at a time.
// An unreadable file leaves the repository untouched.
func Import(ctx context.Context, repo *store.Repository, cfg *config.Config, input ImportInput) (*ImportOutput, error) {
	path, err := checkPath(input.Path, PathCheckRead, cfg)
	if err != nil {
		return nil, err
	}
	format, err := sheet.FormatFromPath(path)
	if err != nil {
		return nil, errors.NewInvalidRequest(err.Error())
	}

	release, err := repo.BeginImport()
	if err != nil {
		return nil, err
	}
	defer release()

	data, err := readImportFile(path)
	if err != nil {
		return nil, err
	}

	result, err := MergeImport(data, format, repo.List(), MergeOptions{
		Now:   repo.Now,
		NewID: repo.NextID,
	})
	if err != nil {
		return nil, err
	}

	if !input.DryRun {
		if err := repo.ReplaceAll(ctx, result.Clients); err != nil {
			return nil, err
		}
	}

	return &ImportOutput{
		Rows:     result.Rows,
		Inserted: result.Inserted,
		Updated:  result.Updated,
		Total:    len(result.Clients),
		DryRun:   input.DryRun,
		Message:  result.Summary(),
	}, nil
}

func readImportFile(path string) ([]byte, error) {
	file, err := openSheetFile(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, MaxImportBytes+1))
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read import file: %w", err))
	}
	if len(data) > MaxImportBytes {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("import file exceeds %d bytes", MaxImportBytes))
	}
	return data, nil
}

// requireRegular rejects directories and devices opened as spreadsheets.
func requireRegular(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to stat %s: %w", f.Name(), err))
	}
	if !info.Mode().IsRegular() {
		return errors.NewInvalidRequest(f.Name() + " is not a regular file")
	}
	return nil
}
