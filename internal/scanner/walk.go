package scanner

import (
	"os"
	"path/filepath"

	"github.com/standardbeagle/ue5faststartup/internal/ulog"
)

// walkFn is invoked once per non-directory entry encountered during
// walkTree. path is the path as reached by the walk: symlinked directory
// and file names are kept as they appear, not replaced by their targets.
type walkFn func(path string, info os.FileInfo) error

// walkTree walks root recursively, descending into symlinked directories
// while guarding against cycles via a visited-real-path set, so a
// project tree with symlinked plugin content doesn't send the scan into
// an infinite loop.
func walkTree(root string, fn walkFn) error {
	visited := make(map[string]bool)
	return walkDir(root, visited, fn)
}

func walkDir(dir string, visited map[string]bool, fn walkFn) error {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		ulog.Warn("scanner: cannot resolve %s: %v", dir, err)
		return nil
	}
	if visited[real] {
		return nil
	}
	visited[real] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		ulog.Warn("scanner: cannot read %s: %v", dir, err)
		return nil
	}

	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())

		if entry.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(path)
			if err != nil {
				continue // broken symlink, skip
			}
			if info.IsDir() {
				if err := walkDir(path, visited, fn); err != nil {
					return err
				}
				continue
			}
			if err := fn(path, info); err != nil {
				return err
			}
			continue
		}

		if entry.IsDir() {
			if err := walkDir(path, visited, fn); err != nil {
				return err
			}
			continue
		}

		info, err := entry.Info()
		if err != nil {
			ulog.Warn("scanner: stat failed for %s: %v", path, err)
			continue
		}
		if err := fn(path, info); err != nil {
			return err
		}
	}
	return nil
}
