package code_analyzer

import (
	"path/filepath"
	"strings"

	"github.com/meysamhadeli/depscope/code_analyzer/models"
)

// ResolvedModule pairs a file's summary with the resolved targets of its
// imports. It is produced once per file during the concurrent scan phase and
// read-only afterwards.
type ResolvedModule struct {
	Summary *models.ModuleSummary

	// Targets holds the absolute paths the file's imports and re-exports
	// resolved to. Unresolved specifiers (external packages) are absent.
	Targets []string
}

// ResolveModule runs the resolver over every import record and re-export
// source of one summary. Safe to call concurrently across files.
func ResolveModule(summary *models.ModuleSummary, resolver *Resolver) *ResolvedModule {
	resolved := &ResolvedModule{Summary: summary}

	for _, record := range summary.Imports {
		if target, ok := resolver.Resolve(record.Specifier, summary.FilePath); ok {
			resolved.Targets = append(resolved.Targets, target)
		}
	}

	// Re-exports are imports for reachability purposes: a change in the
	// source module flows through the re-exporting file.
	for _, record := range summary.Exports {
		if record.ReexportSource == "" {
			continue
		}
		if target, ok := resolver.Resolve(record.ReexportSource, summary.FilePath); ok {
			resolved.Targets = append(resolved.Targets, target)
		}
	}

	return resolved
}

// BuildDependencyGraph folds the fully materialized set of resolved modules
// into one dependency graph. Every module gets a node, even with zero edges.
// Edges are only added between files inside the scanned set: targets outside
// it are silently dropped, which at worst under-populates the graph but
// never corrupts it. This fold runs single-threaded after all per-file work
// completed, so the adjacency maps need no locking.
func BuildDependencyGraph(modules []*ResolvedModule, rootDir string) *models.DependencyGraph {
	graph := models.NewDependencyGraph()

	for _, module := range modules {
		path := module.Summary.FilePath
		graph.Nodes[path] = &models.GraphNode{
			FilePath:      path,
			RelativePath:  relativeTo(rootDir, path),
			DependencyIDs: make(map[string]struct{}),
			DependentIDs:  make(map[string]struct{}),
		}
		graph.ForwardEdges[path] = make(map[string]struct{})
		graph.ReverseEdges[path] = make(map[string]struct{})
	}

	for _, module := range modules {
		for _, target := range module.Targets {
			addEdge(graph, module.Summary.FilePath, target)
		}
	}

	return graph
}

// addEdge inserts the mirrored edge pair importer->target. Targets outside
// the node set are ignored. Self-loops are legal and left to the visited-set
// dedup in the traversal layer.
func addEdge(graph *models.DependencyGraph, importer string, target string) {
	if _, inSet := graph.Nodes[target]; !inSet {
		return
	}

	graph.ForwardEdges[importer][target] = struct{}{}
	graph.ReverseEdges[target][importer] = struct{}{}
	graph.Nodes[importer].DependencyIDs[target] = struct{}{}
	graph.Nodes[target].DependentIDs[importer] = struct{}{}
}

func relativeTo(rootDir string, path string) string {
	rel, err := filepath.Rel(rootDir, path)
	if err != nil {
		return path
	}
	return strings.ReplaceAll(rel, "\\", "/")
}
