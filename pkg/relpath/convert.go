// Package relpath converts between absolute filesystem paths and the
// canonical, forward-slash project-relative paths recorded in asset
// records and the manifest.
//
// The scanner and manifest work in absolute paths internally (to avoid
// ambiguity when comparing entries from different scans); user-facing
// records always use the relative, forward-slash form.
package relpath

import (
	"path/filepath"
	"strings"
)

// ToProjectRelative converts absPath to a path relative to root, with
// forward slashes. If absPath cannot be made relative to root (different
// volume, or it resolves outside root), the original path is returned
// unchanged — callers treat that as "not ours to rewrite" rather than an
// error.
func ToProjectRelative(absPath, root string) string {
	if absPath == "" || root == "" {
		return absPath
	}
	if !filepath.IsAbs(absPath) {
		return filepath.ToSlash(absPath)
	}

	cleanAbs := filepath.Clean(absPath)
	cleanRoot := filepath.Clean(root)

	rel, err := filepath.Rel(cleanRoot, cleanAbs)
	if err != nil {
		return absPath
	}
	if strings.HasPrefix(rel, "..") {
		return absPath
	}
	return filepath.ToSlash(rel)
}

// FromProjectRelative joins a forward-slash relative path back onto root,
// producing a platform-native absolute path.
func FromProjectRelative(rel, root string) string {
	return filepath.Join(root, filepath.FromSlash(rel))
}

// IsWithinRoot reports whether rel (as returned by ToProjectRelative)
// actually lies inside root, i.e. it is not an absolute escape hatch.
func IsWithinRoot(rel string) bool {
	return !filepath.IsAbs(rel) && !strings.HasPrefix(rel, "..")
}
