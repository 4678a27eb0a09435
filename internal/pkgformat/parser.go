package pkgformat

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/standardbeagle/ue5faststartup/internal/uerrors"
)

// ParseHeaderFile opens path and decodes its header.
func ParseHeaderFile(path string) (*Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, uerrors.New(uerrors.IOErr, "ParseHeaderFile", path, err)
	}
	h, err := ParseHeader(data)
	if err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "ParseHeaderFile", path, err)
	}
	return h, nil
}

// ParseImports opens path, decodes its header and name table, and
// returns the dependency-eligible import names (/Game/ and /Engine/
// rooted). A file smaller than 4 bytes, or one that fails the magic
// check, returns an AssetErr.
func ParseImports(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, uerrors.New(uerrors.IOErr, "ParseImports", path, err)
	}
	if len(data) < 4 {
		return nil, uerrors.New(uerrors.AssetErr, "ParseImports", path, fmt.Errorf("file too small"))
	}

	h, err := ParseHeader(data)
	if err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "ParseImports", path, err)
	}

	if h.ImportCount <= 0 || h.ImportOffset <= 0 {
		return nil, nil
	}

	names := ReadNameTable(data, h)
	imports := ReadImportTable(data, h, names)
	return DependencyNames(imports), nil
}

// IsValidPackage reads just the first four bytes of path and compares
// them against Magic. Any I/O error is treated as "not a valid package"
// rather than propagated.
func IsValidPackage(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	var buf [4]byte
	n, err := f.Read(buf[:])
	if err != nil || n < 4 {
		return false
	}
	magic := uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24
	return magic == Magic
}

// ResolveImportPath converts an engine import path like "/Game/Foo/Bar"
// or "/Engine/Foo/Bar" into an on-disk .uasset path under root. It
// returns ("", false) if the resolved file does not exist — a missing
// file silently drops the edge, it is not an error.
func ResolveImportPath(root, importPath string) (string, bool) {
	cleaned := strings.TrimPrefix(importPath, "/")
	cleaned = strings.Replace(cleaned, "Game/", "Content/", 1)
	cleaned = strings.Replace(cleaned, "Engine/", "Engine/Content/", 1)

	full := filepath.Join(root, filepath.FromSlash(cleaned)) + ".uasset"
	if _, err := os.Stat(full); err != nil {
		return "", false
	}
	return full, true
}
