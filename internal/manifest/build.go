package manifest

import (
	"context"
	"path/filepath"
	"time"

	"github.com/standardbeagle/ue5faststartup/internal/depgraph"
	"github.com/standardbeagle/ue5faststartup/internal/hashengine"
	"github.com/standardbeagle/ue5faststartup/internal/scanner"
	"github.com/standardbeagle/ue5faststartup/internal/ueconfig"
	"github.com/standardbeagle/ue5faststartup/internal/ulog"
	"github.com/standardbeagle/ue5faststartup/internal/uerrors"
)

// Build scans root, hashes every asset, builds the dependency graph and
// computes topological load order, and marks the startup-critical set,
// producing a ready-to-Save Manifest.
func Build(ctx context.Context, root string, cfg *ueconfig.Config) (*Manifest, error) {
	if cfg == nil {
		cfg = ueconfig.DefaultConfig()
	}

	all, err := scanner.ScanAll(ctx, root, "", cfg.Scan.ExcludeGlobs, cfg.Concurrency)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(all))
	for i, a := range all {
		paths[i] = a.AbsPath
	}
	thresholds := hashengine.Thresholds{
		SmallFileThreshold: cfg.Hashing.SmallFileThreshold,
		MmapThreshold:      cfg.Hashing.MmapThreshold,
		SIMDMinSize:        cfg.Hashing.SIMDMinSize,
		ChunkSize:          cfg.Hashing.ChunkSize,
	}
	hashResults := hashengine.HashFilesBatch(paths, thresholds, cfg.ResolvedWorkers())
	hashByPath := make(map[string]hashengine.Fingerprint, len(hashResults))
	for _, r := range hashResults {
		if r.Err != nil {
			ulog.Cache("skipping unhashable asset %s: %v", r.Path, r.Err)
			continue
		}
		hashByPath[r.Path] = r.Fingerprint
	}

	cachedAssets := make([]CachedAsset, 0, len(all))
	for i, a := range all {
		fp, ok := hashByPath[a.AbsPath]
		if !ok {
			continue
		}
		cachedAssets = append(cachedAssets, CachedAsset{
			RelPath:        a.RelPath,
			Classification: a.Classification,
			Fingerprint:    fp,
			Size:           a.Size,
			LoadOrder:      int32(i), // provisional: scan enumeration index
		})
	}

	g, _, err := depgraph.Build(ctx, root, cfg.Scan.ExcludeGlobs, cfg.Concurrency)
	if err != nil {
		return nil, uerrors.New(uerrors.AssetErr, "Build", root, err)
	}
	g.ComputeLoadOrder()
	if !g.Acyclic() {
		ulog.Graph("dependency graph has cycles; falling back to stable insertion order for load_order")
	}

	// Overwrite every asset's provisional (scan-enumeration) load_order with
	// its topological rank before pruning the graph down to the
	// startup-critical subset: FilterStartupCritical deletes non-critical
	// nodes outright, so Rank lookups for those assets would otherwise miss
	// and silently keep the stale provisional value.
	for i := range cachedAssets {
		a := &cachedAssets[i]
		if rank, ok := g.Rank(a.RelPath); ok {
			a.LoadOrder = int32(rank)
		}
	}

	g.FilterStartupCritical(cfg.Graph.CriticalSeedSubstrings)
	for i := range cachedAssets {
		a := &cachedAssets[i]
		a.IsStartupCritical = g.IsCritical(a.RelPath)
	}

	loadOrder := make([]string, len(cachedAssets))
	// Build the explicit load-order list: relative paths sorted by rank.
	sorted := append([]CachedAsset(nil), cachedAssets...)
	sortByLoadOrder(sorted)
	for i, a := range sorted {
		loadOrder[i] = a.RelPath
	}

	return &Manifest{
		Version:     FormatVersion,
		CreatedAt:   time.Now().UTC(),
		ProjectName: filepath.Base(filepath.Clean(root)),
		Algorithm:   hashengine.Algorithm,
		Assets:      cachedAssets,
		LoadOrder:   loadOrder,
	}, nil
}

func sortByLoadOrder(a []CachedAsset) {
	// Small slices in practice relative to typical project sizes;
	// insertion sort keeps this dependency-free and stable.
	for i := 1; i < len(a); i++ {
		for j := i; j > 0 && a[j].LoadOrder < a[j-1].LoadOrder; j-- {
			a[j], a[j-1] = a[j-1], a[j]
		}
	}
}
