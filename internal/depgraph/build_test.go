package depgraph

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ue5faststartup/internal/pkgformat"
	"github.com/standardbeagle/ue5faststartup/internal/ueconfig"
)

// buildMinimalPackage constructs a package file whose only import is
// classPackage, per the exact wire layout pkgformat decodes.
func buildMinimalPackage(t *testing.T, classPackage string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w32 := func(v uint32) { require.NoError(t, binary.Write(&buf, binary.LittleEndian, v)) }
	wi32 := func(v int32) { require.NoError(t, binary.Write(&buf, binary.LittleEndian, v)) }

	w32(pkgformat.Magic)
	for i := 0; i < 5; i++ {
		wi32(0)
	}
	wi32(0) // custom version count
	wi32(0) // total header size
	wi32(0) // package name: empty FString
	w32(0)  // package flags

	nameCountPos := buf.Len()
	wi32(1) // name count
	nameOffsetPos := buf.Len()
	wi32(0) // name offset placeholder
	buf.Write(make([]byte, 16))
	wi32(0) // export count
	wi32(0) // export offset
	wi32(1) // import count
	importOffsetPos := buf.Len()
	wi32(0) // import offset placeholder

	nameOffset := buf.Len()
	wi32(int32(len(classPackage) + 1))
	buf.WriteString(classPackage)
	buf.WriteByte(0)
	w32(0) // hash word

	importOffset := buf.Len()
	wi32(0) // class package index = 0
	wi32(0)
	wi32(0)
	wi32(0)
	wi32(0)
	wi32(0) // object name index = 0
	wi32(0)

	out := buf.Bytes()
	_ = nameCountPos
	binary.LittleEndian.PutUint32(out[nameOffsetPos:], uint32(nameOffset))
	binary.LittleEndian.PutUint32(out[importOffsetPos:], uint32(importOffset))
	return out
}

func TestBuildResolvesImportEdgeAndTopologicalOrder(t *testing.T) {
	root := t.TempDir()
	contentDir := filepath.Join(root, "Content")
	require.NoError(t, os.MkdirAll(contentDir, 0o755))

	// A imports /Game/B; B has no imports.
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "A.uasset"), buildMinimalPackage(t, "/Game/B"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "B.uasset"), buildMinimalPackage(t, "/Script/CoreUObject"), 0o644))

	g, allAssets, err := Build(context.Background(), root, nil, ueconfig.Concurrency{Workers: 2, ScanChunkMin: 1})
	require.NoError(t, err)
	assert.Len(t, allAssets, 2)
	assert.Equal(t, 1, g.EdgeCount())

	g.ComputeLoadOrder()
	rankA, ok := g.Rank("Content/A.uasset")
	require.True(t, ok)
	rankB, ok := g.Rank("Content/B.uasset")
	require.True(t, ok)
	assert.Less(t, rankB, rankA)
}

func TestBuildDropsUnresolvedImports(t *testing.T) {
	root := t.TempDir()
	contentDir := filepath.Join(root, "Content")
	require.NoError(t, os.MkdirAll(contentDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(contentDir, "Lonely.uasset"), buildMinimalPackage(t, "/Game/Nonexistent"), 0o644))

	g, _, err := Build(context.Background(), root, nil, ueconfig.Concurrency{Workers: 2, ScanChunkMin: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, g.EdgeCount())
	assert.Equal(t, 1, g.NodeCount())
}
