package depgraph

import (
	"strings"

	"github.com/standardbeagle/ue5faststartup/internal/assets"
)

// defaultSeedSubstrings is used when the caller passes a nil/empty seed
// list; it matches ueconfig.DefaultConfig's Graph.CriticalSeedSubstrings
// so a graph built without an explicit config still applies the same
// heuristic scanner.ScanStartupCritical does.
var defaultSeedSubstrings = []string{"startup", "default", "core", "engine", "ui", "hud"}

// FilterStartupCritical seeds the critical set with every Map-classified
// node plus every node whose lowercased path contains one of seeds, then
// marks every node reachable from a seed via a forward depth-first
// traversal as critical. It then deletes every non-critical node and its
// incident edges, rebuilding the path index in the surviving nodes'
// original relative insertion order.
func (g *Graph) FilterStartupCritical(seeds []string) {
	if len(seeds) == 0 {
		seeds = defaultSeedSubstrings
	}

	visited := make(map[string]bool, len(g.nodes))
	var stack []string

	for _, path := range g.insertion {
		n := g.nodes[path]
		if n.classification == assets.Map || containsAny(strings.ToLower(path), seeds) {
			stack = append(stack, path)
		}
	}

	for len(stack) > 0 {
		path := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[path] {
			continue
		}
		visited[path] = true
		n, ok := g.nodes[path]
		if !ok {
			continue
		}
		for _, to := range n.outEdges {
			if !visited[to] {
				stack = append(stack, to)
			}
		}
	}

	for path, n := range g.nodes {
		n.critical = visited[path]
	}

	g.prune(visited)
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// prune removes every node not present in keep, along with every edge
// incident to a removed node, and rebuilds the insertion-order index.
func (g *Graph) prune(keep map[string]bool) {
	newInsertion := make([]string, 0, len(keep))
	for _, path := range g.insertion {
		if keep[path] {
			newInsertion = append(newInsertion, path)
		}
	}
	g.insertion = newInsertion

	edgeCount := 0
	for path, n := range g.nodes {
		if !keep[path] {
			delete(g.nodes, path)
			continue
		}
		n.outEdges = filterKept(n.outEdges, keep)
		n.inEdges = filterKept(n.inEdges, keep)
		edgeCount += len(n.outEdges)
	}
	g.edgeCount = edgeCount
}

func filterKept(paths []string, keep map[string]bool) []string {
	out := paths[:0]
	for _, p := range paths {
		if keep[p] {
			out = append(out, p)
		}
	}
	return out
}
