package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/ue5faststartup/internal/analyzer"
	"github.com/standardbeagle/ue5faststartup/internal/assets"
	"github.com/standardbeagle/ue5faststartup/internal/depgraph"
	"github.com/standardbeagle/ue5faststartup/internal/hashengine"
	"github.com/standardbeagle/ue5faststartup/internal/manifest"
	"github.com/standardbeagle/ue5faststartup/internal/scanner"
	"github.com/standardbeagle/ue5faststartup/internal/uerrors"
)

// validateProject checks that root exists and contains a Content/
// directory, surfacing the ProjectNotFound/InvalidProject kinds named in
// the error taxonomy rather than letting the scanner fail on an empty
// result.
func validateProject(root string) error {
	if _, err := os.Stat(root); err != nil {
		return uerrors.New(uerrors.ProjectNotFound, "validateProject", root, err)
	}
	if _, err := os.Stat(filepath.Join(root, "Content")); err != nil {
		return uerrors.New(uerrors.InvalidProject, "validateProject", root, err)
	}
	return nil
}

// excludeGlobsFor returns cfg's configured exclude globs, extended with
// any --exclude flags given on c (additive, not a replacement — a
// project's baseline excludes from .ue5cache.kdl always apply).
func excludeGlobsFor(c *cli.Context) []string {
	extra := c.StringSlice("exclude")
	if len(extra) == 0 {
		return cfg.Scan.ExcludeGlobs
	}
	out := make([]string, 0, len(cfg.Scan.ExcludeGlobs)+len(extra))
	out = append(out, cfg.Scan.ExcludeGlobs...)
	out = append(out, extra...)
	return out
}

// writeOutput writes data to c's --output path, or to stdout if unset.
func writeOutput(c *cli.Context, data []byte) error {
	out := c.String("output")
	if out == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(out, data, 0o644)
}

func loadManifestFor(c *cli.Context, root string) (*manifest.Manifest, string, error) {
	path := cachePathFor(c, root)
	m, err := manifest.Load(path)
	if err != nil {
		return nil, path, fmt.Errorf("failed to load manifest %s: %w", path, err)
	}
	return m, path, nil
}

func scanCommand(c *cli.Context) error {
	root := resolveProject(c)
	if err := validateProject(root); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var all []assets.Info
	var err error
	if c.Bool("startup-only") {
		all, err = scanner.ScanStartupCritical(ctx, root, cfg.Concurrency, cfg.Graph.CriticalSeedSubstrings)
	} else {
		all, err = scanner.ScanAll(ctx, root, c.String("filter"), excludeGlobsFor(c), cfg.Concurrency)
	}
	if err != nil {
		return err
	}

	sort.Slice(all, func(i, j int) bool { return all[i].RelPath < all[j].RelPath })

	var buf []byte
	for _, a := range all {
		buf = append(buf, []byte(fmt.Sprintf("%-10s %10d  %s\n", a.Classification, a.Size, a.RelPath))...)
	}
	return writeOutput(c, buf)
}

func cacheCommand(c *cli.Context) error {
	root := resolveProject(c)
	if err := validateProject(root); err != nil {
		return err
	}

	cachePath := cachePathFor(c, root)
	if !c.Bool("force") {
		if _, err := os.Stat(cachePath); err == nil {
			return fmt.Errorf("manifest already exists at %s (use --force to overwrite)", cachePath)
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	m, err := manifest.Build(ctx, root, cfg)
	if err != nil {
		return err
	}

	if c.Bool("shaders") {
		all, err := scanner.ScanAll(ctx, root, "", excludeGlobsFor(c), cfg.Concurrency)
		if err != nil {
			return err
		}
		for _, a := range all {
			if a.Classification == assets.Shader {
				m.ShaderVariants = append(m.ShaderVariants, a.RelPath)
			}
		}
		sort.Strings(m.ShaderVariants)
	}

	if err := manifest.Save(cachePath, m); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "wrote %s: %d assets\n", cachePath, m.AssetCount())
	return nil
}

func verifyCommand(c *cli.Context) error {
	return runVerify(c, false)
}

func quickVerifyCommand(c *cli.Context) error {
	return runVerify(c, true)
}

func runVerify(c *cli.Context, turbo bool) error {
	root := resolveProject(c)
	if err := validateProject(root); err != nil {
		return err
	}

	m, path, err := loadManifestFor(c, root)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	var result manifest.VerifyResult
	if turbo {
		result, err = manifest.QuickVerify(ctx, m, root, cfg)
	} else {
		result, err = manifest.Verify(ctx, m, root, cfg)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "manifest: %s\n", path)
	fmt.Fprintf(os.Stdout, "total=%d matching=%d changed=%d missing=%d valid=%t\n",
		result.TotalAssets, result.MatchingAssets, len(result.ChangedAssets), len(result.MissingAssets), result.IsValid())
	for _, p := range result.ChangedAssets {
		fmt.Fprintf(os.Stdout, "  changed: %s\n", p)
	}
	for _, p := range result.MissingAssets {
		fmt.Fprintf(os.Stdout, "  missing: %s\n", p)
	}

	if !result.IsValid() {
		return fmt.Errorf("verification failed: %d changed, %d missing", len(result.ChangedAssets), len(result.MissingAssets))
	}
	return nil
}

func statsCommand(c *cli.Context) error {
	root := resolveProject(c)
	m, path, err := loadManifestFor(c, root)
	if err != nil {
		return err
	}

	r := analyzer.Analyze(m)
	fmt.Fprintf(os.Stdout, "manifest: %s\n", path)
	fmt.Fprintf(os.Stdout, "total assets: %d\n", r.TotalAssets)

	types := make([]assets.Classification, 0, len(r.PerType))
	for t := range r.PerType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	for _, t := range types {
		s := r.PerType[t]
		fmt.Fprintf(os.Stdout, "  %-10s count=%-6d bytes=%d\n", t, s.Count, s.TotalSize)
	}
	fmt.Fprintf(os.Stdout, "duplicate groups: %d\n", len(r.DuplicateGroups))
	fmt.Fprintf(os.Stdout, "near-duplicate names: %d\n", len(r.NearDuplicateNames))
	fmt.Fprintf(os.Stdout, "shaders: %d (%d bytes)\n", r.ShaderCount, r.ShaderTotalSize)
	fmt.Fprintf(os.Stdout, "estimated savings: %.2fs\n", r.SavingsEstimateSeconds)
	return nil
}

func analyzeCommand(c *cli.Context) error {
	root := resolveProject(c)
	m, _, err := loadManifestFor(c, root)
	if err != nil {
		return err
	}

	r := analyzer.Analyze(m)
	data, err := analyzer.RenderJSON(r)
	if err != nil {
		return err
	}
	return writeOutput(c, append(data, '\n'))
}

func graphCommand(c *cli.Context) error {
	root := resolveProject(c)
	if err := validateProject(root); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	g, _, err := depgraph.Build(ctx, root, excludeGlobsFor(c), cfg.Concurrency)
	if err != nil {
		return err
	}
	g.ComputeLoadOrder()
	if c.Bool("startup-only") {
		g.FilterStartupCritical(cfg.Graph.CriticalSeedSubstrings)
	}

	return writeOutput(c, []byte(g.ToDot()))
}

func benchCommand(c *cli.Context) error {
	root := resolveProject(c)
	if err := validateProject(root); err != nil {
		return err
	}

	iterations := c.Int("iterations")
	if iterations <= 0 {
		iterations = 1
	}

	ctx, cancel := signalContext()
	defer cancel()

	var totalScan, totalHash time.Duration
	var assetCount int
	for i := 0; i < iterations; i++ {
		start := time.Now()
		all, err := scanner.ScanAll(ctx, root, "", cfg.Scan.ExcludeGlobs, cfg.Concurrency)
		if err != nil {
			return err
		}
		totalScan += time.Since(start)
		assetCount = len(all)

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
		start = time.Now()
		hashengine.HashFilesBatch(paths, thresholds, cfg.ResolvedWorkers())
		totalHash += time.Since(start)
	}

	fmt.Fprintf(os.Stdout, "assets=%d iterations=%d avg_scan=%v avg_hash=%v\n",
		assetCount, iterations, totalScan/time.Duration(iterations), totalHash/time.Duration(iterations))
	return nil
}

func turboCommand(c *cli.Context) error {
	root := resolveProject(c)
	if err := validateProject(root); err != nil {
		return err
	}

	start := time.Now()
	paths, err := scanner.ScanPathsOnly(root)
	if err != nil {
		return err
	}
	if filter := c.String("filter"); filter != "" {
		paths = filterByExtension(paths, filter)
	}

	thresholds := hashengine.Thresholds{
		SmallFileThreshold: cfg.Hashing.SmallFileThreshold,
		MmapThreshold:      cfg.Hashing.MmapThreshold,
		SIMDMinSize:        cfg.Hashing.SIMDMinSize,
		ChunkSize:          cfg.Hashing.ChunkSize,
	}
	var hashed, failed int
	for _, p := range paths {
		if _, err := hashengine.TurboHash(p, thresholds); err != nil {
			failed++
		} else {
			hashed++
		}
	}

	fmt.Fprintf(os.Stdout, "scanned=%d hashed=%d failed=%d elapsed=%v\n",
		len(paths), hashed, failed, time.Since(start))
	return nil
}

func filterByExtension(paths []string, ext string) []string {
	out := paths[:0]
	want := "." + ext
	for _, p := range paths {
		if filepath.Ext(p) == want {
			out = append(out, p)
		}
	}
	return out
}
