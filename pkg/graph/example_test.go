package graph_test

import (
	"fmt"
	"os"

	"github.com/matzehuels/beavr/pkg/graph"
)

func ExampleGraph_Components() {
	g, _ := graph.FromEdges([]int{0, 1, 2, 3, 4}, []graph.Edge{{0, 1}, {3, 4}})

	for _, c := range g.Components() {
		fmt.Println(c.Vertices(), c.Edges())
	}
	// Output:
	// [0 1] [(0, 1)]
	// [2] []
	// [3 4] [(3, 4)]
}

func ExampleWriteGraph() {
	g, _ := graph.FromEdges(nil, []graph.Edge{{1, 0}, {1, 2}})
	_ = graph.WriteGraph(g, os.Stdout)
	// Output:
	// {
	//   "vertices": [
	//     0,
	//     1,
	//     2
	//   ],
	//   "edges": [
	//     [
	//       0,
	//       1
	//     ],
	//     [
	//       1,
	//       2
	//     ]
	//   ]
	// }
}
