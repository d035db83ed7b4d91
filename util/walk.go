package util

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// HiddenPrefix marks a directory entry as hidden.
const HiddenPrefix = "."

// WalkOptions is the policy applied to entries below a root directory.
type WalkOptions struct {
	IncludeHidden bool
	Recursive     bool
}

// IsHidden reports whether a base name is hidden.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, HiddenPrefix)
}

// Walk yields every regular file reachable from root under opts.
//
// A root that is not a directory is yielded as is, regardless of policy.
// Below a directory root, hidden entries are pruned unless IncludeHidden is
// set, and subdirectories are only entered when Recursive is set. Paths are
// built by appending names to root without cleaning it, so a root of "."
// yields "./name".
//
// Failing to stat root or to read any directory below it is yielded as an
// error and ends the walk; callers should treat it as fatal.
func Walk(root string, opts WalkOptions) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		info, err := StatInput(root)
		if err != nil {
			yield("", err)
			return
		}
		if !info.IsDir() {
			yield(root, nil)
			return
		}
		walkDir(root, opts, yield)
	}
}

// StatInput stats an input root, mapping failures to ErrInputNotFound or
// ErrInputAccess.
func StatInput(root string) (fs.FileInfo, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, inputError(root, err)
	}
	return info, nil
}

func walkDir(dir string, opts WalkOptions, yield func(string, error) bool) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		yield("", inputError(dir, err))
		return false
	}
	for _, entry := range entries {
		name := entry.Name()
		if !opts.IncludeHidden && IsHidden(name) {
			continue
		}
		path := joinPath(dir, name)
		switch mode := entry.Type(); {
		case mode.IsDir():
			if opts.Recursive && !walkDir(path, opts, yield) {
				return false
			}
		case mode.IsRegular():
			if !yield(path, nil) {
				return false
			}
		case mode&fs.ModeSymlink != 0:
			// symlinked directories are never entered
			info, err := os.Stat(path)
			if err == nil && info.Mode().IsRegular() {
				if !yield(path, nil) {
					return false
				}
			}
		}
	}
	return true
}

func joinPath(dir, name string) string {
	if strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir + name
	}
	return dir + string(filepath.Separator) + name
}

func inputError(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s", ErrInputNotFound, path)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s", ErrInputAccess, path)
	default:
		return fmt.Errorf("%w: %w", ErrInputAccess, err)
	}
}
