// Package hashengine computes content fingerprints with an adaptive I/O
// strategy: small files are read directly, mid-size files are buffered,
// and large files are memory-mapped. cespare/xxhash (XXH64) backs every
// file and byte-slice hash. A separate four-lane scalar accumulator
// (Accumulator) backs IncrementalHasher; it uses the same per-lane round
// as XXH64 but a different finalization, so its values do not equal
// HashBytes for the same input. This repo has no cgo/asm vectorised
// kernel.
package hashengine

import (
	"context"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/standardbeagle/ue5faststartup/internal/uerrors"
	"github.com/standardbeagle/ue5faststartup/internal/ulog"
)

// Algorithm is the fingerprint's algorithm tag, recorded in the manifest.
const Algorithm = "xxh3"

// Fingerprint is a tagged 64-bit content hash. Equality of Fingerprints is
// the sole signal of content equality this system makes use of.
type Fingerprint struct {
	Value     uint64
	Algorithm string
}

// Thresholds mirrors ueconfig.Hashing without importing it, so this
// package stays independently testable; callers pass the resolved values
// in from ueconfig.Config.Hashing.
type Thresholds struct {
	SmallFileThreshold int64
	MmapThreshold      int64
	SIMDMinSize        int
	ChunkSize          int
}

// DefaultThresholds returns this package's built-in tuning constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SmallFileThreshold: 4 * 1024,
		MmapThreshold:      64 * 1024,
		SIMDMinSize:        256,
		ChunkSize:          64 * 1024,
	}
}

// HashBytes hashes data with cespare/xxhash's 64-bit XXH64, seed 0. The
// value is tagged with Algorithm ("xxh3") but is not an XXH3 hash.
// Deterministic: calling it twice on the same bytes always yields the
// same Fingerprint.
func HashBytes(data []byte) Fingerprint {
	return Fingerprint{Value: xxhash.Sum64(data), Algorithm: Algorithm}
}

// HashFile fingerprints a file's full contents using the three-tier
// adaptive read/mmap strategy.
func HashFile(path string, t Thresholds) (Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, uerrors.New(uerrors.IOErr, "HashFile", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Fingerprint{}, uerrors.New(uerrors.IOErr, "HashFile", path, err)
	}
	size := info.Size()

	switch {
	case size < t.SmallFileThreshold:
		data, err := io.ReadAll(f)
		if err != nil {
			return Fingerprint{}, uerrors.New(uerrors.IOErr, "HashFile", path, err)
		}
		return HashBytes(data), nil

	case size < t.MmapThreshold:
		data, err := io.ReadAll(f)
		if err != nil {
			return Fingerprint{}, uerrors.New(uerrors.IOErr, "HashFile", path, err)
		}
		return HashBytes(data), nil

	default:
		data, err := mmapFile(f, size)
		if err != nil {
			// Fall back to a buffered read rather than failing the hash:
			// mmap can fail on exotic filesystems even when the file is
			// perfectly readable.
			ulog.Hash("mmap failed for %s (%v), falling back to read", path, err)
			if _, serr := f.Seek(0, io.SeekStart); serr != nil {
				return Fingerprint{}, uerrors.New(uerrors.IOErr, "HashFile", path, serr)
			}
			buf, rerr := io.ReadAll(f)
			if rerr != nil {
				return Fingerprint{}, uerrors.New(uerrors.IOErr, "HashFile", path, rerr)
			}
			return HashBytes(buf), nil
		}
		defer data.Close()
		return HashBytes(data.Bytes()), nil
	}
}

// TurboHash samples the first, middle, and last chunk-size regions plus
// the little-endian file size, for fast change detection. For files
// smaller than 2*chunk it falls back to the full hash. Turbo is a lossy
// shortcut — it can miss edits bounded away from the sample points.
func TurboHash(path string, t Thresholds) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, uerrors.New(uerrors.IOErr, "TurboHash", path, err)
	}
	size := info.Size()
	chunk := int64(t.ChunkSize)

	if size < chunk*2 {
		return HashFile(path, t)
	}

	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, uerrors.New(uerrors.IOErr, "TurboHash", path, err)
	}
	defer f.Close()

	mapped, err := mmapFile(f, size)
	if err != nil {
		return Fingerprint{}, uerrors.New(uerrors.IOErr, "TurboHash", path, err)
	}
	defer mapped.Close()
	data := mapped.Bytes()

	combined := make([]byte, 0, chunk*3+8)
	combined = append(combined, data[:chunk]...)
	middle := size / 2
	combined = append(combined, data[middle:middle+chunk]...)
	combined = append(combined, data[size-chunk:]...)
	combined = appendUint64LE(combined, uint64(size))

	return HashBytes(combined), nil
}

func appendUint64LE(b []byte, v uint64) []byte {
	return append(b,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56),
	)
}

// BatchResult is the outcome of hashing one path in a batch: Fingerprint
// is the zero value and Err is non-nil on failure.
type BatchResult struct {
	Path        string
	Fingerprint Fingerprint
	Err         error
}

// HashFilesBatch hashes paths across a bounded worker pool. A per-file
// failure is recorded in that entry's Err field; it never aborts the
// batch, so one unreadable asset doesn't take down the whole run.
func HashFilesBatch(paths []string, t Thresholds, workers int) []BatchResult {
	results := make([]BatchResult, len(paths))
	if workers <= 0 {
		workers = 1
	}

	sem := semaphore.NewWeighted(int64(workers))
	ctx := context.Background()
	var g errgroup.Group

	for i, p := range paths {
		i, p := i, p
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = BatchResult{Path: p, Err: err}
			continue
		}
		g.Go(func() error {
			defer sem.Release(1)
			fp, err := HashFile(p, t)
			results[i] = BatchResult{Path: p, Fingerprint: fp, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return results
}
