// Package analyzer aggregates a manifest into per-type statistics,
// duplicate-content groups, a crude load-time savings estimate, and a
// short list of threshold-triggered recommendations.
package analyzer

import (
	"sort"

	"github.com/standardbeagle/ue5faststartup/internal/assets"
	"github.com/standardbeagle/ue5faststartup/internal/manifest"
)

// Priority is the urgency tag on a Recommendation.
type Priority string

const (
	High   Priority = "High"
	Medium Priority = "Medium"
	Low    Priority = "Low"
)

// TypeStats is the per-classification rollup.
type TypeStats struct {
	Count     int
	TotalSize int64
}

// DuplicateGroup is a set of assets sharing one content fingerprint.
type DuplicateGroup struct {
	FingerprintValue uint64
	Paths            []string
	WastedBytes      int64 // sum(sizes) - max(size); order-independent
}

// NearDuplicateName flags two assets whose base names are suspiciously
// similar (e.g. "Foo_v2.uasset" vs "Foo.uasset") without being exact
// content duplicates — a softer heuristic supplementing exact-hash
// duplicate detection.
type NearDuplicateName struct {
	PathA      string
	PathB      string
	Similarity float64
}

// Recommendation is one actionable, threshold-triggered suggestion.
type Recommendation struct {
	Priority               Priority
	Category               string
	Message                string
	EstimatedImpactSeconds float64
}

// Report is the full aggregate analysis of a manifest.
type Report struct {
	TotalAssets            int
	PerType                map[assets.Classification]TypeStats
	DuplicateGroups        []DuplicateGroup
	NearDuplicateNames     []NearDuplicateName
	ShaderCount            int
	ShaderTotalSize        int64
	SavingsEstimateSeconds float64
	Recommendations        []Recommendation
}

// thresholds named in the design notes.
const (
	startupRatioThreshold = 0.30
	textureCountThreshold = 1000
	blueprintCountThreshold = 500

	nearDuplicateSimilarityThreshold = 0.85
)

// Analyze builds a Report from m.
func Analyze(m *manifest.Manifest) Report {
	r := Report{
		TotalAssets: len(m.Assets),
		PerType:     make(map[assets.Classification]TypeStats),
	}

	startupCritical := 0
	byFingerprint := make(map[uint64][]manifest.CachedAsset)

	for _, a := range m.Assets {
		stats := r.PerType[a.Classification]
		stats.Count++
		stats.TotalSize += a.Size
		r.PerType[a.Classification] = stats

		if a.IsStartupCritical {
			startupCritical++
		}
		if a.Classification == assets.Shader {
			r.ShaderCount++
			r.ShaderTotalSize += a.Size
		}

		byFingerprint[a.Fingerprint.Value] = append(byFingerprint[a.Fingerprint.Value], a)
	}

	r.DuplicateGroups = duplicateGroups(byFingerprint)
	r.NearDuplicateNames = nearDuplicateNames(m.Assets)

	r.SavingsEstimateSeconds = 0.01*float64(r.TotalAssets-startupCritical) + 0.05*float64(len(r.DuplicateGroups))

	r.Recommendations = recommendations(r, startupCritical)

	return r
}

// duplicateGroups emits every fingerprint bucket of size >= 2, with
// wasted bytes computed as sum(sizes) - max(size) — order-independent,
// unlike a "sum of all but the first" accounting that depends on
// iteration order.
func duplicateGroups(byFingerprint map[uint64][]manifest.CachedAsset) []DuplicateGroup {
	var groups []DuplicateGroup
	for fp, members := range byFingerprint {
		if len(members) < 2 {
			continue
		}
		var sum, max int64
		paths := make([]string, 0, len(members))
		for _, m := range members {
			sum += m.Size
			if m.Size > max {
				max = m.Size
			}
			paths = append(paths, m.RelPath)
		}
		sort.Strings(paths)
		groups = append(groups, DuplicateGroup{
			FingerprintValue: fp,
			Paths:            paths,
			WastedBytes:      sum - max,
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].FingerprintValue < groups[j].FingerprintValue
	})
	return groups
}

func recommendations(r Report, startupCritical int) []Recommendation {
	var recs []Recommendation

	if r.TotalAssets > 0 && float64(startupCritical)/float64(r.TotalAssets) > startupRatioThreshold {
		recs = append(recs, Recommendation{
			Priority:               High,
			Category:               "startup",
			Message:                "A large share of assets are marked startup-critical; consider deferring non-essential loads out of the startup path.",
			EstimatedImpactSeconds: 0.01 * float64(startupCritical),
		})
	}

	if stats, ok := r.PerType[assets.Texture]; ok && stats.Count > textureCountThreshold {
		recs = append(recs, Recommendation{
			Priority:               Medium,
			Category:               "textures",
			Message:                "Texture count exceeds 1000; consider texture streaming or atlas consolidation.",
			EstimatedImpactSeconds: 0.01 * float64(stats.Count),
		})
	}

	if stats, ok := r.PerType[assets.Blueprint]; ok && stats.Count > blueprintCountThreshold {
		recs = append(recs, Recommendation{
			Priority:               Medium,
			Category:               "blueprints",
			Message:                "Blueprint count exceeds 500; consider converting hot-path blueprints to native code.",
			EstimatedImpactSeconds: 0.01 * float64(stats.Count),
		})
	}

	if len(r.DuplicateGroups) > 0 {
		var wasted int64
		for _, g := range r.DuplicateGroups {
			wasted += g.WastedBytes
		}
		recs = append(recs, Recommendation{
			Priority:               Low,
			Category:               "duplicates",
			Message:                "Duplicate-content assets found; deduplicating would reclaim disk space.",
			EstimatedImpactSeconds: 0.05 * float64(len(r.DuplicateGroups)),
		})
		_ = wasted // surfaced via DuplicateGroups, not folded into the message
	}

	return recs
}
