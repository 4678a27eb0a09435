// Package scanner walks a UE5 project's Content/ tree and classifies
// each file it finds, fanning classification work out across a bounded
// worker pool once the (cheap, single-threaded) directory walk has
// enumerated candidates.
package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/standardbeagle/ue5faststartup/internal/assets"
	"github.com/standardbeagle/ue5faststartup/internal/uerrors"
	"github.com/standardbeagle/ue5faststartup/internal/ueconfig"
	"github.com/standardbeagle/ue5faststartup/pkg/relpath"
)

// defaultCriticalSeeds is the default set used by ScanStartupCritical
// when the caller doesn't supply its own (from ueconfig.Graph).
var defaultCriticalSeeds = []string{"startup", "default", "core", "engine", "ui", "hud"}

// ScanAll walks root's Content/ subdirectory, classifying every regular
// file. When filter is non-empty, only files whose lowercased extension
// equals filter are returned; otherwise Other-classified files are
// discarded. excludeGlobs are doublestar patterns (e.g.
// "**/Intermediate/**") matched against the project-relative path; a
// match drops the file before classification. RelPath values stay
// rooted at the project root (e.g. "Content/Characters/Hero.uasset"),
// not at Content/ itself, even though the walk itself never leaves
// Content/. The order of the returned slice reflects worker-pool
// interleaving and is not guaranteed — callers that need determinism
// must sort by RelPath.
func ScanAll(ctx context.Context, root string, filter string, excludeGlobs []string, cfg ueconfig.Concurrency) ([]assets.Info, error) {
	type candidate struct {
		absPath string
		relPath string
		size    int64
		modUnix int64
	}

	var candidates []candidate

	contentDir := filepath.Join(root, "Content")
	err := walkTree(contentDir, func(path string, info os.FileInfo) error {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if filter != "" && ext != strings.ToLower(filter) {
			return nil
		}

		rel := relpath.ToProjectRelative(path, root)
		if isExcluded(rel, excludeGlobs) {
			return nil
		}

		candidates = append(candidates, candidate{
			absPath: path,
			relPath: rel,
			size:    info.Size(),
			modUnix: info.ModTime().Unix(),
		})
		return nil
	})
	if err != nil {
		return nil, uerrors.New(uerrors.IOErr, "ScanAll", root, err)
	}

	results := make([]assets.Info, len(candidates))
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	chunk := cfg.ScanChunkMin
	if n := len(candidates) / workers; n > chunk {
		chunk = n
	}
	if chunk <= 0 {
		chunk = len(candidates)
	}
	if chunk == 0 {
		return nil, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(workers))

	for start := 0; start < len(candidates); start += chunk {
		start := start
		end := start + chunk
		if end > len(candidates) {
			end = len(candidates)
		}

		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g.Go(func() error {
			defer sem.Release(1)
			for i := start; i < end; i++ {
				c := candidates[i]
				ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(c.absPath), "."))
				class := assets.ClassifyExtension(ext)
				if filter == "" && class == assets.Other {
					continue
				}
				results[i] = assets.Info{
					AbsPath:        c.absPath,
					RelPath:        c.relPath,
					Classification: class,
					Size:           c.size,
					ModifiedUnix:   c.modUnix,
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, uerrors.New(uerrors.IOErr, "ScanAll", root, err)
	}

	out := results[:0]
	for _, r := range results {
		if r.AbsPath == "" {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// isExcluded reports whether rel matches any of globs. A malformed
// pattern never excludes anything (doublestar.Match returns an error for
// a syntactically invalid pattern, which we treat as "does not match"
// rather than failing the whole scan over one bad config entry).
func isExcluded(rel string, globs []string) bool {
	for _, g := range globs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// ScanPathsOnly is the fast variant used by the turbo verification path:
// it walks root's Content/ subdirectory and returns only the absolute
// paths of hot-asset-extension files, with no classification or
// metadata attached.
func ScanPathsOnly(root string) ([]string, error) {
	var paths []string

	contentDir := filepath.Join(root, "Content")
	err := walkTree(contentDir, func(path string, info os.FileInfo) error {
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if assets.IsHotExtension(ext) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, uerrors.New(uerrors.IOErr, "ScanPathsOnly", root, err)
	}
	return paths, nil
}

// ScanStartupCritical returns assets classified as Map, or whose
// lowercased relative path contains any of seeds (defaultCriticalSeeds
// if seeds is empty). This is a coarse heuristic; graph propagation in
// internal/depgraph establishes true criticality.
func ScanStartupCritical(ctx context.Context, root string, cfg ueconfig.Concurrency, seeds []string) ([]assets.Info, error) {
	if len(seeds) == 0 {
		seeds = defaultCriticalSeeds
	}

	all, err := ScanAll(ctx, root, "", nil, cfg)
	if err != nil {
		return nil, err
	}

	var out []assets.Info
	for _, a := range all {
		if a.Classification == assets.Map {
			out = append(out, a)
			continue
		}
		lower := strings.ToLower(a.RelPath)
		for _, s := range seeds {
			if strings.Contains(lower, s) {
				out = append(out, a)
				break
			}
		}
	}
	return out, nil
}
