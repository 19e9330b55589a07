package depgraph

import "sort"

// DepthResult carries both the per-node include depth (used by
// FileMetrics.include_depth) and the condensation-level dependency depth
// (used by DependencyMetrics.max_dependency_depth).
type DepthResult struct {
	// NodeDepth[id] is the longest simple path (edge count) starting at
	// node id, visiting each node at most once — including, when id sits
	// inside a dependency cycle, the hops needed to visit every other
	// member of that cycle exactly once before leaving it.
	NodeDepth []int
	// MaxDependencyDepth is the longest simple path over the SCC
	// condensation DAG (spec §4.3): cycles collapse to one condensation
	// node and contribute zero internal length, so this is the longest
	// chain of distinct dependency cycles/files, not counting in-cycle
	// traversal.
	MaxDependencyDepth int
}

// Depth computes node and condensation depths for g given its SCC
// decomposition. The condensation DAG is, by construction, acyclic: DFS
// with memoization gives the longest path from each SCC with no
// exponential blowup.
func (g *Graph) Depth(scc SCCResult) DepthResult {
	condensation := buildCondensation(g, scc)

	// nodeLongest[c]: longest simple path starting anywhere in component
	// c, counting (size(c)-1) hops to sweep the component's own cycle
	// before taking the best outgoing condensation edge.
	nodeLongest := make([]int, len(scc.Components))
	nodeMemoized := make([]bool, len(scc.Components))

	// pureLongest[c]: the same, but without the (size(c)-1) intra-cycle
	// term — a pure count of condensation edges, per spec's "longest
	// simple path length over the condensation DAG".
	pureLongest := make([]int, len(scc.Components))
	pureMemoized := make([]bool, len(scc.Components))

	maxDepth := 0

	for c := range scc.Components {
		longestPathFromComponent(c, condensation, scc, nodeLongest, nodeMemoized, true)

		p := longestPathFromComponent(c, condensation, scc, pureLongest, pureMemoized, false)
		if p > maxDepth {
			maxDepth = p
		}
	}

	nodeDepth := make([]int, g.NodeCount())

	for node := range nodeDepth {
		nodeDepth[node] = nodeLongest[scc.ComponentOf[node]]
	}

	return DepthResult{NodeDepth: nodeDepth, MaxDependencyDepth: maxDepth}
}

// buildCondensation returns, per SCC index, the sorted distinct set of
// SCC indices it has an edge into (excluding self-edges, which are
// intra-component).
func buildCondensation(g *Graph, scc SCCResult) [][]int {
	seen := make([]map[int]struct{}, len(scc.Components))
	for i := range seen {
		seen[i] = make(map[int]struct{})
	}

	for from, children := range g.adjacency {
		fromComp := scc.ComponentOf[from]

		for _, to := range children {
			toComp := scc.ComponentOf[to]
			if toComp != fromComp {
				seen[fromComp][toComp] = struct{}{}
			}
		}
	}

	condensation := make([][]int, len(scc.Components))
	for i, set := range seen {
		for c := range set {
			condensation[i] = append(condensation[i], c)
		}

		sort.Ints(condensation[i])
	}

	return condensation
}

// longestPathFromComponent returns the longest path starting at
// condensation node c. When includeIntraCycle is true, a component's own
// (size-1) internal hops are added to its contribution; otherwise only
// condensation edges are counted.
func longestPathFromComponent(
	c int, condensation [][]int, scc SCCResult, memo []int, memoized []bool, includeIntraCycle bool,
) int {
	if memoized[c] {
		return memo[c]
	}

	best := 0

	for _, child := range condensation[c] {
		candidate := 1 + longestPathFromComponent(child, condensation, scc, memo, memoized, includeIntraCycle)
		if candidate > best {
			best = candidate
		}
	}

	if includeIntraCycle {
		best += len(scc.Components[c]) - 1
	}

	memo[c] = best
	memoized[c] = true

	return best
}
