package ops

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hpungsan/leadbook/internal/config"
	"github.com/hpungsan/leadbook/internal/errors"
	"github.com/hpungsan/leadbook/internal/sheet"
)

// PathCheckMode indicates whether the path check is for reading or writing.
type PathCheckMode int

const (
	PathCheckRead  PathCheckMode = iota // import
	PathCheckWrite                      // export
)

// pathPolicy decides where spreadsheets may be read from and written to.
// Files must sit directly in an allowed directory; with unsafe paths any
// directory is accepted. Symlinked files are refused either way.
type pathPolicy struct {
	dirs   []string
	unsafe bool
}

func newPathPolicy(cfg *config.Config) (*pathPolicy, error) {
	p := &pathPolicy{}
	if cfg != nil && cfg.AllowUnsafePaths {
		p.unsafe = true
		return p, nil
	}

	exportsDir, err := DefaultExportsDir()
	if err != nil {
		return nil, err
	}
	candidates := []string{exportsDir}
	if cfg != nil {
		for _, dir := range cfg.AllowedPaths {
			// relative entries would depend on the working directory
			if filepath.IsAbs(dir) {
				candidates = append(candidates, dir)
			}
		}
	}

	for _, dir := range candidates {
		resolved, err := resolveAllowedDir(dir)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(p.dirs, resolved) {
			p.dirs = append(p.dirs, resolved)
		}
	}
	return p, nil
}

// resolveAllowedDir cleans dir and follows it when it is itself a symlink.
func resolveAllowedDir(dir string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("invalid allowed path: %v", err))
	}
	if !isSymlink(abs) {
		return abs, nil
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("cannot resolve symlink in allowed path: %v", err))
	}
	return resolved, nil
}

// check validates path and returns it absolute and cleaned.
func (p *pathPolicy) check(path string, mode PathCheckMode) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.NewInvalidRequest("path is required")
	}
	if containsTraversal(path) {
		return "", errors.NewInvalidRequest("path must not contain directory traversal (..)")
	}
	if _, err := sheet.FormatFromPath(path); err != nil {
		return "", errors.NewInvalidRequest("path must have .xlsx or .csv extension")
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("invalid path: %v", err))
	}

	if !p.unsafe {
		parent := filepath.Dir(abs)
		if !slices.Contains(p.dirs, parent) {
			return "", errors.NewInvalidRequest(fmt.Sprintf(
				"file must be directly in an allowed directory (no subdirectories); allowed: %v", p.dirs))
		}
		if isSymlink(parent) {
			return "", errors.NewInvalidRequest("parent directory must not be a symlink")
		}
	}

	if mode == PathCheckRead {
		if _, err := os.Stat(abs); os.IsNotExist(err) {
			return "", errors.NewFileNotFound(path)
		}
	}
	if isSymlink(abs) {
		return "", errors.NewInvalidRequest("path must not be a symlink")
	}
	return abs, nil
}

// checkPath checks a spreadsheet path before import or export and returns it
// cleaned and absolute: no ".." components, an .xlsx or .csv extension, a file
// directly inside the exports directory or an allowed_paths entry, and no
// symlinks. Files are opened with O_NOFOLLOW, so only the final component can race.
func checkPath(path string, mode PathCheckMode, cfg *config.Config) (string, error) {
	policy, err := newPathPolicy(cfg)
	if err != nil {
		return "", err
	}
	return policy.check(path, mode)
}

// DefaultExportsDir returns the exports directory inside the data directory,
// the same one db.Init creates.
func DefaultExportsDir() (string, error) {
	baseDir, err := config.BaseDir()
	if err != nil {
		return "", errors.NewInternal(err)
	}
	return filepath.Join(baseDir, config.ExportsDirName), nil
}

func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&os.ModeSymlink != 0
}

// containsTraversal reports whether any path element is "..", splitting on
// both the OS separator and "/".
func containsTraversal(path string) bool {
	split := func(r rune) bool { return r == '/' || r == filepath.Separator }
	return slices.Contains(strings.FieldsFunc(path, split), "..")
}
