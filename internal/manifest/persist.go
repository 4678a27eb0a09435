package manifest

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/standardbeagle/ue5faststartup/internal/uerrors"
)

// Save writes m to path atomically: the payload is built in memory,
// written to a sibling temp file, fsynced, then renamed over path. This
// is a deliberate fix over writing in place (a previously known defect):
// a crash mid-write never leaves a half-written manifest at path.
func Save(path string, m *Manifest) error {
	var buf bytes.Buffer
	buf.WriteString(Magic)
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return uerrors.New(uerrors.SerializationErr, "Save", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return uerrors.New(uerrors.IOErr, "Save", path, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return uerrors.New(uerrors.IOErr, "Save", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return uerrors.New(uerrors.IOErr, "Save", path, err)
	}
	if err := tmp.Close(); err != nil {
		return uerrors.New(uerrors.IOErr, "Save", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return uerrors.New(uerrors.IOErr, "Save", path, err)
	}
	return nil
}

// Load reads and validates the 8-byte magic at path, then gob-decodes
// the remainder into a Manifest. A magic mismatch is a CacheErr; a
// decode failure is a SerializationErr.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, uerrors.New(uerrors.IOErr, "Load", path, err)
	}
	if len(data) < len(Magic) || string(data[:len(Magic)]) != Magic {
		return nil, uerrors.New(uerrors.CacheErr, "Load", path, fmt.Errorf("Invalid cache file format"))
	}

	var m Manifest
	if err := gob.NewDecoder(bytes.NewReader(data[len(Magic):])).Decode(&m); err != nil {
		return nil, uerrors.New(uerrors.SerializationErr, "Load", path, err)
	}
	return &m, nil
}
