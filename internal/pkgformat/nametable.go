package pkgformat

// NameTable is the package's deduplicated string pool, index-addressed.
type NameTable []string

// At returns the name at index i, or "" with ok=false if i is out of
// range; a truncated name table (see ReadNameTable) can leave an index
// an import record still references dangling, so downstream lookups
// must check ok rather than assume every index resolves.
func (t NameTable) At(i int) (string, bool) {
	if i < 0 || i >= len(t) {
		return "", false
	}
	return t[i], true
}

// ReadNameTable reads header.NameCount entries starting at
// header.NameOffset. Each entry is a length-prefixed string (see
// readFString) followed by a 4-byte hash word that is skipped. On a
// short read, the table truncates silently rather than failing: newer
// package format revisions can add fields this reader doesn't know
// about, and a table cut short by one is more useful than a hard
// failure on an otherwise-readable package.
func ReadNameTable(data []byte, h *Header) NameTable {
	names := make(NameTable, 0, maxInt(0, int(h.NameCount)))
	r := &reader{data: data, off: int(h.NameOffset)}

	for i := int32(0); i < h.NameCount; i++ {
		name, err := r.readFString()
		if err != nil {
			break
		}
		names = append(names, name)
		_ = r.skip(4) // trailing hash word; absence at EOF is not fatal
	}
	return names
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
