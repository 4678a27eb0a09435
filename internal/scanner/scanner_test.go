package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/standardbeagle/ue5faststartup/internal/assets"
	"github.com/standardbeagle/ue5faststartup/internal/ueconfig"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func buildProject(t *testing.T) string {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Content", "Maps", "StartupMap.umap"), 10)
	writeFile(t, filepath.Join(root, "Content", "Characters", "Hero.uasset"), 20)
	writeFile(t, filepath.Join(root, "Content", "Characters", "Hero.uexp"), 5)
	writeFile(t, filepath.Join(root, "Content", "UI", "MainMenu.uasset"), 8)
	writeFile(t, filepath.Join(root, "Content", "Textures", "Rock.png"), 12)
	writeFile(t, filepath.Join(root, "Content", "Notes.txt"), 1)
	return root
}

func concurrency() ueconfig.Concurrency {
	return ueconfig.Concurrency{Workers: 2, ScanChunkMin: 1}
}

func TestScanAllClassifiesAndDropsOther(t *testing.T) {
	root := buildProject(t)

	results, err := ScanAll(context.Background(), root, "", nil, concurrency())
	require.NoError(t, err)

	byRel := make(map[string]assets.Info)
	for _, r := range results {
		byRel[r.RelPath] = r
	}

	assert.NotContains(t, byRel, "Content/Notes.txt")
	require.Contains(t, byRel, "Content/Maps/StartupMap.umap")
	assert.Equal(t, assets.Map, byRel["Content/Maps/StartupMap.umap"].Classification)
	assert.Equal(t, assets.Package, byRel["Content/Characters/Hero.uasset"].Classification)
	assert.Equal(t, int64(20), byRel["Content/Characters/Hero.uasset"].Size)
}

func TestScanAllFilterKeepsOther(t *testing.T) {
	root := buildProject(t)

	results, err := ScanAll(context.Background(), root, "txt", nil, concurrency())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Content/Notes.txt", results[0].RelPath)
	assert.Equal(t, assets.Other, results[0].Classification)
}

func TestScanPathsOnlyReturnsHotExtensionsOnly(t *testing.T) {
	root := buildProject(t)

	paths, err := ScanPathsOnly(root)
	require.NoError(t, err)

	for _, p := range paths {
		assert.NotContains(t, p, "Notes.txt")
	}
	assert.GreaterOrEqual(t, len(paths), 4) // umap, uasset x2, uexp, png
}

func TestScanStartupCriticalIncludesMapsAndSeedMatches(t *testing.T) {
	root := buildProject(t)

	results, err := ScanStartupCritical(context.Background(), root, concurrency(), nil)
	require.NoError(t, err)

	var relPaths []string
	for _, r := range results {
		relPaths = append(relPaths, r.RelPath)
	}
	assert.Contains(t, relPaths, "Content/Maps/StartupMap.umap")
	assert.Contains(t, relPaths, "Content/UI/MainMenu.uasset")
	assert.NotContains(t, relPaths, "Content/Textures/Rock.png")
}

func TestScanAllExcludeGlobDropsMatchingFiles(t *testing.T) {
	root := buildProject(t)
	writeFile(t, filepath.Join(root, "Content", "Intermediate", "Build", "Scratch.uasset"), 3)

	results, err := ScanAll(context.Background(), root, "", []string{"**/Intermediate/**"}, concurrency())
	require.NoError(t, err)

	for _, r := range results {
		assert.NotContains(t, r.RelPath, "Intermediate")
	}
	require.Contains(t, relPathsOf(results), "Content/Characters/Hero.uasset")
}

func relPathsOf(results []assets.Info) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.RelPath
	}
	return out
}

func TestScanAllSymlinkCycleDoesNotHang(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Content", "A.uasset"), 1)
	// Self-referential symlink inside the tree; the walk must not loop.
	loop := filepath.Join(root, "Content", "loop")
	_ = os.Symlink(root, loop)

	done := make(chan struct{})
	go func() {
		_, _ = ScanAll(context.Background(), root, "", nil, concurrency())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ScanAll did not terminate, likely looping through a symlink cycle")
	}
}
