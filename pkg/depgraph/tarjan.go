package depgraph

// SCCResult holds the strongly connected component decomposition of a
// Graph, computed with Tarjan's algorithm.
type SCCResult struct {
	// ComponentOf maps node ID to its SCC index (0-based, in the order
	// Tarjan's algorithm completes the components).
	ComponentOf []int
	// Components lists the member node IDs of each SCC.
	Components [][]int
}

// CircularDependencies returns the number of SCCs with more than one
// member — each is a dependency cycle.
func (r SCCResult) CircularDependencies() int {
	count := 0

	for _, members := range r.Components {
		if len(members) > 1 {
			count++
		}
	}

	return count
}

// StronglyConnectedComponents returns the total SCC count, including
// singletons.
func (r SCCResult) StronglyConnectedComponents() int {
	return len(r.Components)
}

// tarjanState carries Tarjan's algorithm's working set across the
// recursion-free (explicit-stack) DFS below.
type tarjanState struct {
	graph     *Graph
	index     []int
	lowlink   []int
	onStack   []bool
	stack     []int
	result    SCCResult
	nextIndex int
}

const unvisited = -1

// SCC computes the strongly connected components of g using Tarjan's
// algorithm with an explicit stack, avoiding recursion depth limits on
// pathologically deep include graphs.
func (g *Graph) SCC() SCCResult {
	n := g.NodeCount()

	st := &tarjanState{
		graph:   g,
		index:   makeFilled(n, unvisited),
		lowlink: make([]int, n),
		onStack: make([]bool, n),
	}
	st.result.ComponentOf = makeFilled(n, unvisited)

	for v := 0; v < n; v++ {
		if st.index[v] == unvisited {
			st.strongconnect(v)
		}
	}

	return st.result
}

func makeFilled(n, value int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = value
	}

	return s
}

// frame is one explicit-stack call frame for strongconnect(v), tracking
// which child edge index we are resuming from.
type frame struct {
	v        int
	childIdx int
}

func (st *tarjanState) strongconnect(start int) {
	callStack := []frame{{v: start, childIdx: 0}}

	st.visit(start)

	for len(callStack) > 0 {
		top := &callStack[len(callStack)-1]
		v := top.v
		children := st.graph.adjacency[v]

		if top.childIdx < len(children) {
			w := children[top.childIdx]
			top.childIdx++

			switch {
			case st.index[w] == unvisited:
				st.visit(w)

				callStack = append(callStack, frame{v: w, childIdx: 0})
			case st.onStack[w]:
				if st.index[w] < st.lowlink[v] {
					st.lowlink[v] = st.index[w]
				}
			}

			continue
		}

		// All children processed: pop and propagate lowlink to parent.
		callStack = callStack[:len(callStack)-1]

		if len(callStack) > 0 {
			parent := &callStack[len(callStack)-1]
			if st.lowlink[v] < st.lowlink[parent.v] {
				st.lowlink[parent.v] = st.lowlink[v]
			}
		}

		if st.lowlink[v] == st.index[v] {
			st.popComponent(v)
		}
	}
}

func (st *tarjanState) visit(v int) {
	st.index[v] = st.nextIndex
	st.lowlink[v] = st.nextIndex
	st.nextIndex++
	st.stack = append(st.stack, v)
	st.onStack[v] = true
}

func (st *tarjanState) popComponent(root int) {
	var members []int

	for {
		n := len(st.stack) - 1
		w := st.stack[n]
		st.stack = st.stack[:n]
		st.onStack[w] = false
		members = append(members, w)

		if w == root {
			break
		}
	}

	componentID := len(st.result.Components)
	st.result.Components = append(st.result.Components, members)

	for _, m := range members {
		st.result.ComponentOf[m] = componentID
	}
}
