package analyzer

import (
	"path"
	"regexp"
	"strings"

	edlib "github.com/hbollon/go-edlib"

	"github.com/standardbeagle/ue5faststartup/internal/manifest"
)

var trailingVersionSuffix = regexp.MustCompile(`(?i)_v[0-9]+$`)

// nearDuplicateNames flags asset pairs whose base names (extension and a
// trailing "_v2"/"_old"/digit-suffix style variation stripped) are
// similar enough to suggest an accidental duplicate that isn't also a
// content duplicate, without being identical. Exact content duplicates
// are reported separately by duplicateGroups and excluded here to avoid
// redundant noise.
func nearDuplicateNames(all []manifest.CachedAsset) []NearDuplicateName {
	type candidate struct {
		path string
		base string
		fp   uint64
	}

	candidates := make([]candidate, 0, len(all))
	for _, a := range all {
		candidates = append(candidates, candidate{path: a.RelPath, base: baseName(a.RelPath), fp: a.Fingerprint.Value})
	}

	var out []NearDuplicateName
	for i := 0; i < len(candidates); i++ {
		for j := i + 1; j < len(candidates); j++ {
			a, b := candidates[i], candidates[j]
			if a.fp == b.fp {
				continue // exact content duplicate, reported by duplicateGroups
			}
			score, err := edlib.StringsSimilarity(a.base, b.base, edlib.Levenshtein)
			if err != nil {
				continue
			}
			if float64(score) >= nearDuplicateSimilarityThreshold {
				out = append(out, NearDuplicateName{
					PathA:      a.path,
					PathB:      b.path,
					Similarity: float64(score),
				})
			}
		}
	}
	return out
}

// baseName strips the directory and extension, and a trailing
// "_v<digits>"/"_old"/"_copy" style suffix, so "Foo_v2.uasset" and
// "Foo.uasset" compare as near-identical base names.
func baseName(relPath string) string {
	base := strings.TrimSuffix(path.Base(relPath), path.Ext(relPath))
	base = trailingVersionSuffix.ReplaceAllString(base, "")
	lower := strings.ToLower(base)
	for _, suffix := range []string{"_old", "_copy", "_backup"} {
		if strings.HasSuffix(lower, suffix) {
			base = base[:len(base)-len(suffix)]
			lower = lower[:len(lower)-len(suffix)]
		}
	}
	return base
}
