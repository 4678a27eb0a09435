package pkgformat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadNameTableRoundTrips(t *testing.T) {
	data := testPackage{names: []string{"/Game/Foo", "/Engine/Bar", "Plain"}}.build()

	h, err := ParseHeader(data)
	require.NoError(t, err)

	names := ReadNameTable(data, h)
	require.Len(t, names, 3)
	assert.Equal(t, "/Game/Foo", names[0])
	assert.Equal(t, "/Engine/Bar", names[1])
	assert.Equal(t, "Plain", names[2])
}

func TestReadNameTableTruncatesOnShortData(t *testing.T) {
	data := testPackage{names: []string{"Alpha", "Beta", "Gamma"}}.build()
	h, err := ParseHeader(data)
	require.NoError(t, err)

	// Chop the buffer off mid-way through the third name; the first two
	// must still decode and the table must not panic.
	truncated := data[:len(data)-6]
	names := ReadNameTable(truncated, h)
	assert.GreaterOrEqual(t, len(names), 2)
	assert.LessOrEqual(t, len(names), 3)
}

func TestReadNameTableToleratesMissingTrailingHash(t *testing.T) {
	data := testPackage{names: []string{"Only"}}.build()
	h, err := ParseHeader(data)
	require.NoError(t, err)

	// Drop just the final 4-byte hash word of the last entry; the name
	// itself must still be kept (spec.md: truncation only on a failed
	// string read, not on a missing trailing hash).
	short := data[:len(data)-4]
	names := ReadNameTable(short, h)
	require.Len(t, names, 1)
	assert.Equal(t, "Only", names[0])
}

func TestNameTableAtBoundsChecked(t *testing.T) {
	var nt NameTable = []string{"a", "b"}
	v, ok := nt.At(1)
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = nt.At(2)
	assert.False(t, ok)

	_, ok = nt.At(-1)
	assert.False(t, ok)
}
