// Package pkgformat decodes the engine's binary package header, its
// name table, and its import table, following the on-disk byte layout
// the engine itself writes. Decoding is strictly sequential from byte
// 0; invalid input fails with a *uerrors.Error tagged AssetErr rather
// than panicking.
package pkgformat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf16"

	"github.com/standardbeagle/ue5faststartup/internal/uerrors"
)

// Magic is the four-byte little-endian package magic: C1 83 2A 9E on
// disk, 0x9E2A83C1 as a decoded u32.
const Magic uint32 = 0x9E2A83C1

const customVersionSize = 20 // 16-byte GUID + 4-byte version

// Header is the decoded fixed-layout part of a package file.
type Header struct {
	Magic                  uint32
	LegacyVersion          int32
	LegacyPredecessorVer   int32
	FileVersionEngineA     int32
	FileVersionEngineB     int32
	FileVersionLicensee    int32
	TotalHeaderSize        int32
	PackageName            string
	PackageFlags           uint32
	NameCount, NameOffset     int32
	ExportCount, ExportOffset int32
	ImportCount, ImportOffset int32
}

// reader walks a byte slice sequentially, tracking an offset and
// refusing to read past the end; every read re-checks bounds against
// the remaining slice rather than trusting header-declared counts.
type reader struct {
	data []byte
	off  int
}

func (r *reader) need(n int) error {
	if n < 0 || r.off < 0 || r.off+n > len(r.data) {
		return fmt.Errorf("short read: need %d bytes at offset %d, have %d total", n, r.off, len(r.data))
	}
	return nil
}

func (r *reader) u32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) i32() (int32, error) {
	v, err := r.u32()
	return int32(v), err
}

func (r *reader) skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.off += n
	return nil
}

// readFString reads the engine's length-prefixed string encoding:
// len==0 -> empty; len>0 -> len bytes UTF-8 including a trailing NUL
// (stripped); len<0 -> |len| UTF-16LE code units.
func (r *reader) readFString() (string, error) {
	n, err := r.i32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	if n > 0 {
		if err := r.need(int(n)); err != nil {
			return "", err
		}
		raw := r.data[r.off : r.off+int(n)]
		r.off += int(n)
		raw = bytes.TrimSuffix(raw, []byte{0})
		return decodeUTF8Lossy(raw), nil
	}

	count := int(-n)
	byteLen := count * 2
	if err := r.need(byteLen); err != nil {
		return "", err
	}
	raw := r.data[r.off : r.off+byteLen]
	r.off += byteLen
	return decodeUTF16LELossy(raw), nil
}

func decodeUTF8Lossy(b []byte) string {
	// bytes are accepted as-is; Go strings are not required to be valid
	// UTF-8, but we replace invalid sequences the same way the original
	// tool does (String::from_utf8_lossy).
	return string(bytes.ToValidUTF8(b, []byte("�")))
}

func decodeUTF16LELossy(b []byte) string {
	units := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		units = append(units, uint16(b[i])|uint16(b[i+1])<<8)
	}
	if len(b)%2 == 1 {
		units = append(units, uint16(b[len(b)-1]))
	}
	return string(utf16.Decode(units))
}

// ParseHeader decodes data as a package header: magic, engine/licensee
// version fields, custom-version block, package name, flags, and the
// name/export/import table counts and offsets, in that on-disk order.
func ParseHeader(data []byte) (*Header, error) {
	r := &reader{data: data}

	magic, err := r.u32()
	if err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "", err)
	}
	if magic != Magic {
		return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "",
			fmt.Errorf("invalid package magic: %08X", magic))
	}

	h := &Header{Magic: magic}

	versions := []*int32{
		&h.LegacyVersion, &h.LegacyPredecessorVer,
		&h.FileVersionEngineA, &h.FileVersionEngineB,
		&h.FileVersionLicensee,
	}
	for _, v := range versions {
		val, err := r.i32()
		if err != nil {
			return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "", err)
		}
		*v = val
	}

	customCount, err := r.i32()
	if err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "", err)
	}
	if customCount > 0 {
		if err := r.skip(int(customCount) * customVersionSize); err != nil {
			return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "", err)
		}
	}

	if h.TotalHeaderSize, err = r.i32(); err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "", err)
	}

	if h.PackageName, err = r.readFString(); err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "", err)
	}

	if h.PackageFlags, err = r.u32(); err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "", err)
	}

	if h.NameCount, err = r.i32(); err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "", err)
	}
	if h.NameOffset, err = r.i32(); err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "", err)
	}

	// Gatherable-text metadata, unused.
	if err := r.skip(16); err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "", err)
	}

	if h.ExportCount, err = r.i32(); err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "", err)
	}
	if h.ExportOffset, err = r.i32(); err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "", err)
	}

	if h.ImportCount, err = r.i32(); err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "", err)
	}
	if h.ImportOffset, err = r.i32(); err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "ParseHeader", "", err)
	}

	return h, nil
}
