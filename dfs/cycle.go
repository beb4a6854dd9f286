package dfs

// HasCycle reports whether g contains a directed cycle. A nil graph is acyclic.
func HasCycle(g Digraph) bool {
	return FindCycle(g) != nil
}

// FindCycle returns one directed cycle of g as the node sequence
// v0, v1, ..., vk with an arc vk→v0, or nil when g is acyclic.
// Self-loops are reported as one-node cycles.
func FindCycle(g Digraph) []int {
	if g == nil {
		return nil
	}
	n := g.Order()
	state := make([]int, n)
	path := make([]int, 0, n)

	var cycle []int
	var visit func(v int) bool
	visit = func(v int) bool {
		state[v] = Gray
		path = append(path, v)
		for _, w := range g.Successors(v) {
			if w < 0 || w >= n {
				continue
			}
			switch state[w] {
			case Gray:
				// Back-edge v→w: the cycle is the path suffix starting at w.
				for i := len(path) - 1; i >= 0; i-- {
					if path[i] == w {
						cycle = append([]int(nil), path[i:]...)
						break
					}
				}
				return true
			case White:
				if visit(w) {
					return true
				}
			}
		}
		path = path[:len(path)-1]
		state[v] = Black
		return false
	}

	for v := 0; v < n; v++ {
		if state[v] == White && visit(v) {
			return cycle
		}
	}

	return nil
}

// Reachable reports whether a directed path from `from` to `to` exists in g.
// A node always reaches itself. Out-of-range indices are unreachable.
func Reachable(g Digraph, from, to int) bool {
	if g == nil {
		return false
	}
	n := g.Order()
	if from < 0 || from >= n || to < 0 || to >= n {
		return false
	}
	if from == to {
		return true
	}

	// Iterative DFS with an explicit stack keeps deep chains off the call stack.
	visited := make([]bool, n)
	stack := []int{from}
	visited[from] = true
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, w := range g.Successors(v) {
			if w < 0 || w >= n || visited[w] {
				continue
			}
			if w == to {
				return true
			}
			visited[w] = true
			stack = append(stack, w)
		}
	}

	return false
}
