package manifest

import (
	"context"

	"github.com/standardbeagle/ue5faststartup/internal/hashengine"
	"github.com/standardbeagle/ue5faststartup/internal/scanner"
	"github.com/standardbeagle/ue5faststartup/internal/ueconfig"
)

// VerifyResult reports how a manifest compares against the current
// on-disk state of a project.
type VerifyResult struct {
	TotalAssets    int
	MatchingAssets int
	ChangedAssets  []string
	MissingAssets  []string
}

// IsValid reports whether the project matches the manifest exactly.
func (r VerifyResult) IsValid() bool {
	return len(r.ChangedAssets) == 0 && len(r.MissingAssets) == 0
}

// Verify rescans root, recomputes each file's full hash, and joins the
// result by relative path against m's asset list.
func Verify(ctx context.Context, m *Manifest, root string, cfg *ueconfig.Config) (VerifyResult, error) {
	return verifyWith(ctx, m, root, cfg, false)
}

// QuickVerify is the same algorithm but substitutes turbo-hash for full
// hash on both sides. It is only sound when the manifest itself was
// produced with turbo-hash fingerprints using the same thresholds.
func QuickVerify(ctx context.Context, m *Manifest, root string, cfg *ueconfig.Config) (VerifyResult, error) {
	return verifyWith(ctx, m, root, cfg, true)
}

func verifyWith(ctx context.Context, m *Manifest, root string, cfg *ueconfig.Config, turbo bool) (VerifyResult, error) {
	if cfg == nil {
		cfg = ueconfig.DefaultConfig()
	}

	current, err := scanner.ScanAll(ctx, root, "", cfg.Scan.ExcludeGlobs, cfg.Concurrency)
	if err != nil {
		return VerifyResult{}, err
	}

	thresholds := hashengine.Thresholds{
		SmallFileThreshold: cfg.Hashing.SmallFileThreshold,
		MmapThreshold:      cfg.Hashing.MmapThreshold,
		SIMDMinSize:        cfg.Hashing.SIMDMinSize,
		ChunkSize:          cfg.Hashing.ChunkSize,
	}

	type hashOutcome struct {
		fingerprint hashengine.Fingerprint
		ok          bool // false if the file exists but hashing failed
	}
	currentByPath := make(map[string]hashOutcome, len(current))
	for _, a := range current {
		var fp hashengine.Fingerprint
		var hashErr error
		if turbo {
			fp, hashErr = hashengine.TurboHash(a.AbsPath, thresholds)
		} else {
			fp, hashErr = hashengine.HashFile(a.AbsPath, thresholds)
		}
		currentByPath[a.RelPath] = hashOutcome{fingerprint: fp, ok: hashErr == nil}
	}

	result := VerifyResult{TotalAssets: len(m.Assets)}
	for _, asset := range m.Assets {
		outcome, present := currentByPath[asset.RelPath]
		if !present {
			result.MissingAssets = append(result.MissingAssets, asset.RelPath)
			continue
		}
		if !outcome.ok || outcome.fingerprint.Value != asset.Fingerprint.Value {
			result.ChangedAssets = append(result.ChangedAssets, asset.RelPath)
			continue
		}
		result.MatchingAssets++
	}
	return result, nil
}
