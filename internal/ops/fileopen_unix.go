//go:build !windows

package ops

import (
	stderrors "errors"
	"fmt"
	"os"
	"syscall"

	"github.com/hpungsan/leadbook/internal/errors"
)

// createSheetFile opens an export temp file. O_NOFOLLOW covers only the last
// component; checkPath pins the parent to an allowed directory.
func createSheetFile(path string) (*os.File, error) {
	return openNoFollow(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600, "write")
}

// openSheetFile opens a spreadsheet for import and rejects anything but a
// regular file.
func openSheetFile(path string) (*os.File, error) {
	f, err := openNoFollow(path, os.O_RDONLY, 0, "read")
	if err != nil {
		return nil, err
	}
	if err := requireRegular(f); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func openNoFollow(path string, flag int, perm os.FileMode, verb string) (*os.File, error) {
	fd, err := syscall.Open(path, flag|syscall.O_NOFOLLOW|syscall.O_CLOEXEC, uint32(perm))
	switch {
	case err == nil:
		return os.NewFile(uintptr(fd), path), nil
	case stderrors.Is(err, syscall.ELOOP):
		return nil, errors.NewInvalidRequest(fmt.Sprintf("cannot %s spreadsheet through a symlink", verb))
	case stderrors.Is(err, syscall.ENOENT):
		return nil, errors.NewFileNotFound(path)
	default:
		return nil, errors.NewInternal(fmt.Errorf("failed to open %s: %w", path, err))
	}
}
