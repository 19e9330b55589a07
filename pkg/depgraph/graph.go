// Package depgraph builds the header-to-includer dependency relation the
// aggregator uses for include depth and for cycle (SCC) detection in its
// dependency metrics. Nodes are distinct file paths (sources and headers); edges
// are directed includer -> included, deduplicated by endpoint pair with
// multiplicity equal to the number of distinct translation units the edge
// appears in. Construction never fails: pathological inputs merely yield
// larger SCC counts.
package depgraph

import (
	"sort"

	"github.com/Sumatoshi-tech/bha/pkg/trace"
)

// Graph is the directed includer->included relation over one build.
type Graph struct {
	symbols   *symbolTable
	adjacency [][]int // adjacency[from] = sorted distinct [to...]
	weight    map[edge]int
}

type edge struct {
	from, to int
}

// Build scans every unit's includes and constructs the dependency graph.
// A direct include's "from" node is the including unit's source file; an
// indirect include's "from" node is the intermediate header named by
// IncludedBy.
func Build(units []trace.CompilationUnit) *Graph {
	g := &Graph{symbols: newSymbolTable(), weight: make(map[edge]int)}

	contributors := make(map[edge]map[string]struct{})

	for _, unit := range units {
		g.symbols.intern(unit.SourceFile)

		seenInUnit := make(map[edge]struct{})

		for _, inc := range unit.Includes {
			from := unit.SourceFile
			if !inc.IsDirect && inc.IncludedBy != "" {
				from = inc.IncludedBy
			}

			fromID := g.symbols.intern(from)
			toID := g.symbols.intern(inc.HeaderPath)
			e := edge{fromID, toID}
			seenInUnit[e] = struct{}{}
		}

		for e := range seenInUnit {
			if contributors[e] == nil {
				contributors[e] = make(map[string]struct{})
			}

			contributors[e][unit.SourceFile] = struct{}{}
		}
	}

	g.adjacency = make([][]int, g.symbols.size())

	for e, tus := range contributors {
		g.adjacency[e.from] = append(g.adjacency[e.from], e.to)
		g.weight[e] = len(tus)
	}

	for from := range g.adjacency {
		sort.Ints(g.adjacency[from])
	}

	return g
}

// NodeCount returns the number of distinct file paths known to the graph.
func (g *Graph) NodeCount() int {
	return g.symbols.size()
}

// EdgeMultiplicity returns how many distinct TUs contributed the edge
// from->to, or 0 if the edge does not exist.
func (g *Graph) EdgeMultiplicity(from, to string) int {
	fromID, ok1 := g.symbols.strToID[from]
	toID, ok2 := g.symbols.strToID[to]

	if !ok1 || !ok2 {
		return 0
	}

	return g.weight[edge{fromID, toID}]
}

// Includers returns the distinct nodes with an edge pointing at header,
// sorted lexicographically.
func (g *Graph) Includers(header string) []string {
	toID, ok := g.symbols.strToID[header]
	if !ok {
		return nil
	}

	var result []string

	for fromID, children := range g.adjacency {
		idx := sort.SearchInts(children, toID)
		if idx < len(children) && children[idx] == toID {
			result = append(result, g.symbols.resolve(fromID))
		}
	}

	sort.Strings(result)

	return result
}

// NodeID returns the interned ID for path and whether path is known to
// the graph.
func (g *Graph) NodeID(path string) (int, bool) {
	id, ok := g.symbols.strToID[path]

	return id, ok
}

// NodePath resolves an interned ID back to its path.
func (g *Graph) NodePath(id int) string {
	return g.symbols.resolve(id)
}

// Analyze runs SCC detection and depth computation in one call, the
// combination the aggregator needs for FileMetrics.include_depth and
// DependencyMetrics.
func (g *Graph) Analyze() (SCCResult, DepthResult) {
	scc := g.SCC()
	depth := g.Depth(scc)

	return scc, depth
}

// DepthOf returns the include depth for path, or 0 if path is unknown to
// the graph.
func (d DepthResult) DepthOf(g *Graph, path string) int {
	id, ok := g.NodeID(path)
	if !ok {
		return 0
	}

	return d.NodeDepth[id]
}
