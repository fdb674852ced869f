package builder

import (
	"github.com/roundel-labs/tubegraph/pkg/datastructure"
	"github.com/roundel-labs/tubegraph/pkg/util"
)

// StronglyConnectedComponents runs Kosaraju over the directed edge
// list: one dfs pass for the finish order, one pass over the reversed
// graph in reversed finish order. A symmetrized graph built from one
// connected network yields exactly one component.
func StronglyConnectedComponents(nodeCount int, edges []datastructure.Edge) [][]int32 {
	adj := make([][]int32, nodeCount)
	reversedAdj := make([][]int32, nodeCount)
	for _, edge := range edges {
		adj[edge.FromNodeID] = append(adj[edge.FromNodeID], edge.ToNodeID)
		reversedAdj[edge.ToNodeID] = append(reversedAdj[edge.ToNodeID], edge.FromNodeID)
	}

	order := make([]int32, 0, nodeCount)
	visited := make([]bool, nodeCount)
	for v := int32(0); v < int32(nodeCount); v++ {
		if !visited[v] {
			sccDfs(v, adj, &order, visited)
		}
	}

	order = util.ReverseG(order)

	visited = make([]bool, nodeCount)
	components := make([][]int32, 0)
	for _, v := range order {
		if !visited[v] {
			component := make([]int32, 0)
			sccDfs(v, reversedAdj, &component, visited)
			components = append(components, component)
		}
	}
	return components
}

func sccDfs(v int32, adj [][]int32, output *[]int32, visited []bool) {
	visited[v] = true
	for _, to := range adj[v] {
		if !visited[to] {
			sccDfs(to, adj, output, visited)
		}
	}
	*output = append(*output, v)
}
