package pkgformat

import (
	"bytes"
	"encoding/binary"
)

// testPackage.build constructs a minimal, valid package byte layout
// matching spec.md §4.3, with a caller-supplied name table and import
// table. It is shared by this package's tests.
type testPackage struct {
	names   []string
	imports []testImport
}

type testImport struct {
	classPackageIdx int32
	objectNameIdx   int32
}

func (tp testPackage) build() []byte {
	var buf bytes.Buffer

	writeU32 := func(v uint32) { binary.Write(&buf, binary.LittleEndian, v) }
	writeI32 := func(v int32) { binary.Write(&buf, binary.LittleEndian, v) }

	writeU32(Magic)
	writeI32(0)  // legacy
	writeI32(0)  // legacy predecessor
	writeI32(0)  // engine A
	writeI32(0)  // engine B
	writeI32(0)  // licensee
	writeI32(0)  // custom version count
	writeI32(0)  // total header size (placeholder, not validated)

	// package name: empty FString
	writeI32(0)

	writeU32(0) // package flags

	nameCount := int32(len(tp.names))
	writeI32(nameCount)
	nameTableOffsetPos := buf.Len()
	writeI32(0) // name offset placeholder

	buf.Write(make([]byte, 16)) // gatherable text metadata

	writeI32(0) // export count
	writeI32(0) // export offset

	importCount := int32(len(tp.imports))
	writeI32(importCount)
	importOffsetPos := buf.Len()
	writeI32(0) // import offset placeholder

	nameOffset := int32(buf.Len())
	for _, n := range tp.names {
		writeI32(int32(len(n) + 1)) // length incl. trailing NUL
		buf.WriteString(n)
		buf.WriteByte(0)
		writeU32(0) // hash word
	}

	importOffset := int32(buf.Len())
	for _, imp := range tp.imports {
		writeI32(imp.classPackageIdx)
		writeI32(0) // class package index high half
		writeI32(0) // class name low
		writeI32(0) // class name high
		writeI32(0) // outer index
		writeI32(imp.objectNameIdx)
		writeI32(0) // object name high half
	}

	out := buf.Bytes()
	binary.LittleEndian.PutUint32(out[nameTableOffsetPos:], uint32(nameOffset))
	binary.LittleEndian.PutUint32(out[importOffsetPos:], uint32(importOffset))
	return out
}
