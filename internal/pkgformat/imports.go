package pkgformat

import (
	"encoding/binary"
	"strings"
)

const importRecordSize = 28

// Import is one decoded import-table entry: the class-package name this
// system treats as the dependency target (see ReadImportTable).
type Import struct {
	ClassPackageName string
}

// ReadImportTable reads header.ImportCount entries of 28 bytes each,
// starting at header.ImportOffset, resolving each against names.
//
// Each import record encodes ClassPackage (8 bytes, low 32 bits used as
// a name-table index), ClassName (8 bytes, ignored), OuterIndex (4
// bytes, ignored), and ObjectName (8 bytes, low 32 bits read but unused
// for dependency resolution). This resolves dependencies using the
// *class package* name rather than the outer-chain-resolved object
// path. That choice is unusual; it is pinned by
// TestImportUsesClassPackageNotObjectName. The outer chain is not
// resolved.
func ReadImportTable(data []byte, h *Header, names NameTable) []Import {
	if h.ImportCount <= 0 || h.ImportOffset <= 0 {
		return nil
	}

	imports := make([]Import, 0, h.ImportCount)
	offset := int(h.ImportOffset)

	for i := int32(0); i < h.ImportCount; i++ {
		if offset+importRecordSize > len(data) {
			break
		}

		classPackageIdx := int(int32(binary.LittleEndian.Uint32(data[offset : offset+4])))
		// object name index is read but intentionally unused; see the
		// class-package-vs-object-name note above ReadImportTable.
		_ = int32(binary.LittleEndian.Uint32(data[offset+20 : offset+24]))

		if name, ok := names.At(classPackageIdx); ok {
			imports = append(imports, Import{ClassPackageName: name})
		}

		offset += importRecordSize
	}

	return imports
}

// DependencyNames filters imports down to those rooted at /Game/ or
// /Engine/, the only ones meaningful for intra-project dependency
// resolution.
func DependencyNames(imports []Import) []string {
	out := make([]string, 0, len(imports))
	for _, imp := range imports {
		if strings.HasPrefix(imp.ClassPackageName, "/Game/") || strings.HasPrefix(imp.ClassPackageName, "/Engine/") {
			out = append(out, imp.ClassPackageName)
		}
	}
	return out
}
