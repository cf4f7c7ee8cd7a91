//go:build windows

package ops

import (
	"fmt"
	"os"

	"github.com/hpungsan/leadbook/internal/errors"
)

// createSheetFile opens an export temp file. Windows has no O_NOFOLLOW;
// checkPath has already rejected symlinks.
func createSheetFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to open %s: %w", path, err))
	}
	return f, nil
}

// openSheetFile opens a spreadsheet for import.
func openSheetFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewFileNotFound(path)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open %s: %w", path, err))
	}
	if err := requireRegular(f); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}
