package depgraph

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/standardbeagle/ue5faststartup/internal/assets"
	"github.com/standardbeagle/ue5faststartup/internal/pkgformat"
	"github.com/standardbeagle/ue5faststartup/internal/scanner"
	"github.com/standardbeagle/ue5faststartup/internal/ueconfig"
	"github.com/standardbeagle/ue5faststartup/internal/ulog"
	"github.com/standardbeagle/ue5faststartup/pkg/relpath"
)

// parseResult is one package's resolved dependency edges, produced by
// the parallel fan-out in Build and consumed by the serial edge-insertion
// pass that follows it.
type parseResult struct {
	from string
	tos  []string
}

// Build scans root, adds every asset as a node, then in parallel parses
// the import table of every Package-classified asset and resolves each
// import to an on-disk path. Resolved imports become edges; unresolved
// ones are dropped. Edge insertion itself is single-threaded — only the
// parsing fan-out runs concurrently.
func Build(ctx context.Context, root string, excludeGlobs []string, cfg ueconfig.Concurrency) (*Graph, []assets.Info, error) {
	allAssets, err := scanner.ScanAll(ctx, root, "", excludeGlobs, cfg)
	if err != nil {
		return nil, nil, err
	}

	g := New()
	for _, a := range allAssets {
		g.AddNode(a.RelPath, a.Classification)
	}

	var packages []assets.Info
	for _, a := range allAssets {
		if a.IsPackage() {
			packages = append(packages, a)
		}
	}

	results := make([]parseResult, len(packages))
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g2, gctx := errgroup.WithContext(ctx)
	sem := semaphore.NewWeighted(int64(workers))

	for i, pkg := range packages {
		i, pkg := i, pkg
		if err := sem.Acquire(gctx, 1); err != nil {
			break
		}
		g2.Go(func() error {
			defer sem.Release(1)

			deps, err := pkgformat.ParseImports(pkg.AbsPath)
			if err != nil {
				ulog.Graph("skipping unparsable package %s: %v", pkg.RelPath, err)
				return nil
			}

			var resolved []string
			for _, dep := range deps {
				absTarget, ok := pkgformat.ResolveImportPath(root, dep)
				if !ok {
					continue
				}
				resolved = append(resolved, relpath.ToProjectRelative(absTarget, root))
			}
			results[i] = parseResult{from: pkg.RelPath, tos: resolved}
			return nil
		})
	}

	if err := g2.Wait(); err != nil {
		return nil, nil, err
	}

	for _, r := range results {
		for _, to := range r.tos {
			g.AddEdge(r.from, to)
		}
	}

	return g, allAssets, nil
}

// ToDot renders the graph as a Graphviz "dot" document, for inspection
// via the CLI's graph subcommand.
func (g *Graph) ToDot() string {
	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	for _, path := range g.insertion {
		n := g.nodes[path]
		label := strings.ReplaceAll(path, `"`, `\"`)
		b.WriteString(fmt.Sprintf("  %q [label=%q, class=%q];\n", path, label, string(n.classification)))
	}
	for _, path := range g.insertion {
		n := g.nodes[path]
		for _, to := range n.outEdges {
			b.WriteString(fmt.Sprintf("  %q -> %q;\n", path, to))
		}
	}
	b.WriteString("}\n")
	return b.String()
}
