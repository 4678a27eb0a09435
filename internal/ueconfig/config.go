// Package ueconfig loads the tunable thresholds that are deliberately
// kept as configuration rather than compiled-in constants: the
// adaptive-I/O size tiers, the SIMD cutover, the worker pool size, and
// the startup-critical seed heuristics. A project may override any of
// them with an optional .ue5cache.kdl file at its root; absent that
// file, DefaultConfig's values apply.
package ueconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/ue5faststartup/internal/uerrors"
)

// ConfigFileName is the project-relative name this loader looks for.
const ConfigFileName = ".ue5cache.kdl"

// Hashing groups the adaptive-I/O and SIMD thresholds.
type Hashing struct {
	SmallFileThreshold int64 // below this: direct read
	MmapThreshold      int64 // at/above this: memory map
	SIMDMinSize        int   // below this: accumulator setup isn't worth it
	ChunkSize          int   // turbo-hash sample size
}

// Concurrency groups worker-pool sizing.
type Concurrency struct {
	Workers      int // 0 = runtime.GOMAXPROCS(0)
	ScanChunkMin int // minimum chunk size handed to one worker
}

// Graph groups the startup-critical seed heuristic.
type Graph struct {
	CriticalSeedSubstrings []string
}

// Scan groups doublestar glob patterns excluded from every walk, e.g.
// build-artifact directories that happen to live under Content/.
type Scan struct {
	ExcludeGlobs []string
}

// Config is the full set of tunables.
type Config struct {
	Hashing     Hashing
	Concurrency Concurrency
	Graph       Graph
	Scan        Scan
}

// DefaultConfig returns this tool's built-in tuning defaults.
func DefaultConfig() *Config {
	return &Config{
		Hashing: Hashing{
			SmallFileThreshold: 4 * 1024,
			MmapThreshold:      64 * 1024,
			SIMDMinSize:        256,
			ChunkSize:          64 * 1024,
		},
		Concurrency: Concurrency{
			Workers:      0,
			ScanChunkMin: 64,
		},
		Graph: Graph{
			CriticalSeedSubstrings: []string{"startup", "default", "core", "engine", "ui", "hud"},
		},
		Scan: Scan{
			ExcludeGlobs: []string{"**/Intermediate/**", "**/Saved/**", "**/DerivedDataCache/**"},
		},
	}
}

// ResolvedWorkers returns Workers, substituting GOMAXPROCS(0) for 0.
func (c *Config) ResolvedWorkers() int {
	if c.Concurrency.Workers > 0 {
		return c.Concurrency.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Load reads <root>/.ue5cache.kdl if present, applying any sections it
// contains on top of DefaultConfig. A missing file is not an error. A
// malformed file is reported as a *uerrors.Error with Kind CacheErr;
// callers (the CLI) are expected to log it and continue with defaults,
// the same non-fatal posture the CLI takes with any other soft-fail config.
func Load(root string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(root, ConfigFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, uerrors.New(uerrors.IOErr, "ueconfig.Load", path, err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(data)))
	if err != nil {
		return cfg, uerrors.New(uerrors.CacheErr, "ueconfig.Load", path, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "hashing":
			applyHashing(cfg, n)
		case "concurrency":
			applyConcurrency(cfg, n)
		case "graph":
			applyGraph(cfg, n)
		case "scan":
			applyScan(cfg, n)
		}
	}

	return cfg, nil
}

func applyHashing(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "small-file-threshold":
			if v, ok := firstIntArg(cn); ok {
				cfg.Hashing.SmallFileThreshold = int64(v)
			}
		case "mmap-threshold":
			if v, ok := firstIntArg(cn); ok {
				cfg.Hashing.MmapThreshold = int64(v)
			}
		case "simd-min-size":
			if v, ok := firstIntArg(cn); ok {
				cfg.Hashing.SIMDMinSize = v
			}
		case "chunk-size":
			if v, ok := firstIntArg(cn); ok {
				cfg.Hashing.ChunkSize = v
			}
		}
	}
}

func applyConcurrency(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "workers":
			if v, ok := firstIntArg(cn); ok {
				cfg.Concurrency.Workers = v
			}
		case "scan-chunk-min":
			if v, ok := firstIntArg(cn); ok {
				cfg.Concurrency.ScanChunkMin = v
			}
		}
	}
}

func applyGraph(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		if nodeName(cn) == "critical-seed-substrings" {
			if vals := collectStringArgs(cn); len(vals) > 0 {
				cfg.Graph.CriticalSeedSubstrings = vals
			}
		}
	}
}

func applyScan(cfg *Config, n *document.Node) {
	for _, cn := range n.Children {
		if nodeName(cn) == "exclude-globs" {
			if vals := collectStringArgs(cn); len(vals) > 0 {
				cfg.Scan.ExcludeGlobs = vals
			}
		}
	}
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Validate performs a basic sanity check on thresholds, returning an error
// describing the first inconsistency found.
func (c *Config) Validate() error {
	if c.Hashing.SmallFileThreshold <= 0 {
		return fmt.Errorf("hashing.small-file-threshold must be positive")
	}
	if c.Hashing.MmapThreshold < c.Hashing.SmallFileThreshold {
		return fmt.Errorf("hashing.mmap-threshold must be >= small-file-threshold")
	}
	if c.Hashing.ChunkSize <= 0 {
		return fmt.Errorf("hashing.chunk-size must be positive")
	}
	if c.Concurrency.Workers < 0 {
		return fmt.Errorf("concurrency.workers must be >= 0")
	}
	return nil
}
