package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/ue5faststartup/internal/assets"
	"github.com/standardbeagle/ue5faststartup/internal/hashengine"
	"github.com/standardbeagle/ue5faststartup/internal/manifest"
)

func fp(v uint64) hashengine.Fingerprint { return hashengine.Fingerprint{Value: v, Algorithm: "xxh3"} }

func TestAnalyzePerTypeAndDuplicateGroups(t *testing.T) {
	m := &manifest.Manifest{
		Assets: []manifest.CachedAsset{
			{RelPath: "Content/A.uasset", Classification: assets.Package, Fingerprint: fp(1), Size: 100},
			{RelPath: "Content/B.uasset", Classification: assets.Package, Fingerprint: fp(1), Size: 100},
			{RelPath: "Content/C.uasset", Classification: assets.Package, Fingerprint: fp(2), Size: 50},
			{RelPath: "Content/Map.umap", Classification: assets.Map, Fingerprint: fp(3), Size: 10, IsStartupCritical: true},
		},
	}

	r := Analyze(m)
	assert.Equal(t, 4, r.TotalAssets)
	assert.Equal(t, 3, r.PerType[assets.Package].Count)
	assert.Equal(t, int64(250), r.PerType[assets.Package].TotalSize)
	assert.Equal(t, 1, r.PerType[assets.Map].Count)

	require.Len(t, r.DuplicateGroups, 1)
	assert.Equal(t, int64(100), r.DuplicateGroups[0].WastedBytes)
	assert.ElementsMatch(t, []string{"Content/A.uasset", "Content/B.uasset"}, r.DuplicateGroups[0].Paths)
}

func TestDuplicateGroupWastedBytesOrderIndependent(t *testing.T) {
	// Sizes differ across the group; sum-minus-max must not depend on
	// which member happens to be iterated first.
	m := &manifest.Manifest{
		Assets: []manifest.CachedAsset{
			{RelPath: "A", Fingerprint: fp(9), Size: 30},
			{RelPath: "B", Fingerprint: fp(9), Size: 70},
			{RelPath: "C", Fingerprint: fp(9), Size: 20},
		},
	}
	r := Analyze(m)
	require.Len(t, r.DuplicateGroups, 1)
	// sum = 120, max = 70 -> wasted = 50, regardless of iteration order.
	assert.Equal(t, int64(50), r.DuplicateGroups[0].WastedBytes)
}

func TestRecommendationsFireAtThresholds(t *testing.T) {
	assetsList := make([]manifest.CachedAsset, 0, 1001)
	for i := 0; i < 1001; i++ {
		assetsList = append(assetsList, manifest.CachedAsset{
			RelPath:        "Tex.png",
			Classification: assets.Texture,
			Fingerprint:    fp(uint64(i + 100)),
			Size:           1,
		})
	}
	m := &manifest.Manifest{Assets: assetsList}

	r := Analyze(m)
	var found bool
	for _, rec := range r.Recommendations {
		if rec.Category == "textures" {
			found = true
		}
	}
	assert.True(t, found, "expected a texture-count recommendation to fire above threshold")
}

func TestNearDuplicateNamesFlagsVersionSuffix(t *testing.T) {
	m := &manifest.Manifest{
		Assets: []manifest.CachedAsset{
			{RelPath: "Content/Hero.uasset", Fingerprint: fp(1), Size: 10},
			{RelPath: "Content/Hero_v2.uasset", Fingerprint: fp(2), Size: 20},
		},
	}
	r := Analyze(m)
	require.Len(t, r.NearDuplicateNames, 1)
	assert.Equal(t, 1.0, r.NearDuplicateNames[0].Similarity)
}

func TestRenderJSONProducesValidatedOutput(t *testing.T) {
	m := &manifest.Manifest{
		Assets: []manifest.CachedAsset{
			{RelPath: "Content/A.uasset", Classification: assets.Package, Fingerprint: fp(1), Size: 10},
		},
	}
	r := Analyze(m)

	data, err := RenderJSON(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_assets": 1`)
}
