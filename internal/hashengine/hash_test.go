package hashengine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestHashBytesDeterministic(t *testing.T) {
	data := []byte("Hello, startup cache!")
	assert.Equal(t, HashBytes(data), HashBytes(data))
}

func TestHashBytesDiffersOnDiffInput(t *testing.T) {
	assert.NotEqual(t, HashBytes([]byte("a")), HashBytes([]byte("b")))
}

func TestScalarAccumulatorMatchesItselfAcrossSizes(t *testing.T) {
	// The accumulator is the normative "vectorised" algorithm; verify it
	// is at least internally deterministic across a range of sizes,
	// matching the cross-validation design note.
	for _, n := range []int{0, 1, 31, 32, 33, 256, 1000, 4096} {
		data := make([]byte, n)
		for i := range data {
			data[i] = byte(i)
		}
		a := HashBlocksScalar(data)
		b := HashBlocksScalar(data)
		assert.Equal(t, a, b, "size %d", n)
	}
}

func TestHashFileAdaptiveTiers(t *testing.T) {
	dir := t.TempDir()
	th := DefaultThresholds()

	small := filepath.Join(dir, "small.bin")
	require.NoError(t, os.WriteFile(small, []byte("tiny"), 0o644))

	mid := filepath.Join(dir, "mid.bin")
	require.NoError(t, os.WriteFile(mid, make([]byte, 8*1024), 0o644))

	big := filepath.Join(dir, "big.bin")
	bigData := make([]byte, 128*1024)
	for i := range bigData {
		bigData[i] = byte(i % 251)
	}
	require.NoError(t, os.WriteFile(big, bigData, 0o644))

	for _, p := range []string{small, mid, big} {
		fp, err := HashFile(p, th)
		require.NoError(t, err)
		assert.Equal(t, Algorithm, fp.Algorithm)
	}

	// big.bin via the mmap tier must equal HashBytes of its contents.
	fp, err := HashFile(big, th)
	require.NoError(t, err)
	assert.Equal(t, HashBytes(bigData), fp)
}

func TestTurboHashSmallFileEqualsFullHash(t *testing.T) {
	dir := t.TempDir()
	th := DefaultThresholds()
	path := filepath.Join(dir, "f.uasset")
	data := make([]byte, 100*1024) // < 128KiB
	for i := range data {
		data[i] = byte(i)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	full, err := HashFile(path, th)
	require.NoError(t, err)
	turbo, err := TurboHash(path, th)
	require.NoError(t, err)

	assert.Equal(t, full, turbo)
}

func TestTurboHashLargeFileSamples(t *testing.T) {
	dir := t.TempDir()
	th := DefaultThresholds()
	path := filepath.Join(dir, "big.uasset")
	data := make([]byte, 300*1024)
	for i := range data {
		data[i] = byte(i % 7)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	turbo1, err := TurboHash(path, th)
	require.NoError(t, err)
	turbo2, err := TurboHash(path, th)
	require.NoError(t, err)
	assert.Equal(t, turbo1, turbo2)

	full, err := HashFile(path, th)
	require.NoError(t, err)
	// Turbo is a lossy sample: for a file this large it hashes only the
	// sampled regions plus the size, so its value differs from the full
	// hash (both are deterministic, already checked above).
	assert.NotEqual(t, full, turbo1)
}

func TestIncrementalHasherDeterministic(t *testing.T) {
	h1 := NewIncrementalHasher()
	h1.Update([]byte("Hello, "))
	h1.Update([]byte("World!"))
	r1 := h1.Finalize()

	h2 := NewIncrementalHasher()
	h2.Update([]byte("Hello, "))
	h2.Update([]byte("World!"))
	r2 := h2.Finalize()

	assert.Equal(t, r1, r2)
}

func TestHashFilesBatchIsolatesFailures(t *testing.T) {
	dir := t.TempDir()
	ok := filepath.Join(dir, "ok.bin")
	require.NoError(t, os.WriteFile(ok, []byte("data"), 0o644))
	missing := filepath.Join(dir, "does-not-exist.bin")

	results := HashFilesBatch([]string{ok, missing}, DefaultThresholds(), 2)
	require.Len(t, results, 2)

	byPath := map[string]BatchResult{}
	for _, r := range results {
		byPath[r.Path] = r
	}
	assert.NoError(t, byPath[ok].Err)
	assert.Error(t, byPath[missing].Err)
}
