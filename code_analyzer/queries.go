package code_analyzer

import (
	"sort"

	"github.com/meysamhadeli/depscope/code_analyzer/models"
)

// UnlimitedDepth removes the hop bound from a traversal. It is the canonical
// sentinel; every negative depth behaves the same way.
const UnlimitedDepth = -1

// DefaultImpactDepth bounds the impacted closure so a densely connected
// codebase cannot silently turn every change into "everything changed".
const DefaultImpactDepth = 3

// GetDependencies returns the set of files reachable from file over forward
// edges within maxDepth hops. The starting file is excluded from the result
// even when it is cyclically reachable from itself.
func GetDependencies(file string, graph *models.DependencyGraph, maxDepth int) map[string]struct{} {
	return traverse(file, graph.ForwardEdges, maxDepth)
}

// GetDependents returns the set of files that reach file over forward edges,
// i.e. the traversal of the reverse adjacency, within maxDepth hops.
func GetDependents(file string, graph *models.DependencyGraph, maxDepth int) map[string]struct{} {
	return traverse(file, graph.ReverseEdges, maxDepth)
}

// traverse is a breadth-first walk with a single global visited set. Since
// edges are unweighted, first discovery order is shortest hop count, so a
// node dequeued once is never re-expanded. That also guarantees termination
// on cyclic graphs, self-loops included.
func traverse(start string, edges map[string]map[string]struct{}, maxDepth int) map[string]struct{} {
	result := make(map[string]struct{})

	if _, ok := edges[start]; !ok {
		return result
	}

	type queueItem struct {
		path  string
		depth int
	}

	visited := map[string]struct{}{start: {}}
	queue := []queueItem{{path: start, depth: 0}}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if maxDepth >= 0 && item.depth >= maxDepth {
			continue
		}

		for neighbor := range edges[item.path] {
			if _, seen := visited[neighbor]; seen {
				continue
			}
			visited[neighbor] = struct{}{}
			result[neighbor] = struct{}{}
			queue = append(queue, queueItem{path: neighbor, depth: item.depth + 1})
		}
	}

	return result
}

// ComputeImpactedClosure returns the changed files plus every file that
// transitively depends on them within maxDepth hops. Changed files are
// always part of the closure, dependents or not.
func ComputeImpactedClosure(changedFiles []string, graph *models.DependencyGraph, maxDepth int) map[string]struct{} {
	closure := make(map[string]struct{})

	for _, changed := range changedFiles {
		closure[changed] = struct{}{}
		for dependent := range GetDependents(changed, graph, maxDepth) {
			closure[dependent] = struct{}{}
		}
	}

	return closure
}

// ExportDependencyMap flattens the graph into relative paths for human
// inspection: each node mapped to the sorted relative paths of its direct
// dependencies. Not intended for further graph algorithms.
func ExportDependencyMap(graph *models.DependencyGraph) map[string][]string {
	exported := make(map[string][]string, len(graph.Nodes))

	for _, node := range graph.Nodes {
		deps := make([]string, 0, len(node.DependencyIDs))
		for dep := range node.DependencyIDs {
			if target, ok := graph.Nodes[dep]; ok {
				deps = append(deps, target.RelativePath)
			}
		}
		sort.Strings(deps)
		exported[node.RelativePath] = deps
	}

	return exported
}

// SortedPaths returns a deterministic slice view of a path set.
func SortedPaths(set map[string]struct{}) []string {
	paths := make([]string, 0, len(set))
	for path := range set {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}
