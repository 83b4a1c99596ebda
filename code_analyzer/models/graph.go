package models

// GraphNode is one scanned file in the dependency graph. A node exists for
// every scanned file, including files with no edges at all.
type GraphNode struct {
	FilePath      string
	RelativePath  string
	DependencyIDs map[string]struct{}
	DependentIDs  map[string]struct{}
}

// DependencyGraph is the file-level import graph over the scanned file set.
// ForwardEdges[a] contains b iff a has a resolved import targeting b, and
// ReverseEdges always mirrors ForwardEdges. Cycles and self-loops are legal.
type DependencyGraph struct {
	Nodes        map[string]*GraphNode
	ForwardEdges map[string]map[string]struct{}
	ReverseEdges map[string]map[string]struct{}
}

// NewDependencyGraph returns an empty graph with all maps allocated.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		Nodes:        make(map[string]*GraphNode),
		ForwardEdges: make(map[string]map[string]struct{}),
		ReverseEdges: make(map[string]map[string]struct{}),
	}
}

// NodeCount returns the number of nodes in the graph.
func (g *DependencyGraph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of distinct forward edges in the graph.
func (g *DependencyGraph) EdgeCount() int {
	count := 0
	for _, targets := range g.ForwardEdges {
		count += len(targets)
	}
	return count
}
