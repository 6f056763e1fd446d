package kdtree_test

import (
	"fmt"

	"github.com/TrevorS/kdtree"
)

func Example() {
	tree, err := kdtree.New[string](2, kdtree.DefaultConfig())
	if err != nil {
		panic(err)
	}
	tree.Add([]float64{0, 0}, "a")
	tree.Add([]float64{1, 1}, "b")
	tree.Add([]float64{2, 2}, "c")
	tree.Add([]float64{5, 5}, "d")

	d := tree.NearestNeighbour([]float64{0.1, 0.1}, kdtree.SquaredEuclidean{}, func(value string, distance float64) {
		fmt.Printf("nearest %s at %.2f\n", value, distance)
	})
	fmt.Printf("returned %.2f\n", d)
	// Output:
	// nearest a at 0.02
	// returned 0.02
}

func ExampleTree_KNearest() {
	tree, _ := kdtree.New[int](1, kdtree.DefaultConfig())
	for i := 0; i < 10; i++ {
		tree.Add([]float64{float64(i * 10)}, i)
	}

	for _, n := range tree.KNearest([]float64{42}, 3, kdtree.Euclidean{}) {
		fmt.Println(n.Value, n.Distance)
	}
	// Output:
	// 4 2
	// 5 8
	// 3 12
}

func ExampleTree_WithinRadius() {
	tree, _ := kdtree.New[string](2, kdtree.DefaultConfig())
	tree.Add([]float64{0, 0}, "origin")
	tree.Add([]float64{3, 4}, "near")
	tree.Add([]float64{30, 40}, "far")

	for _, n := range tree.WithinRadius([]float64{0, 0}, 5, kdtree.Euclidean{}) {
		fmt.Println(n.Value, n.Distance)
	}
	// Output:
	// origin 0
	// near 5
}

func ExampleTree_Freeze() {
	tree, _ := kdtree.New[string](2, kdtree.DefaultConfig())
	tree.Add([]float64{1, 2}, "p")

	var s kdtree.Searcher[string] = tree.Freeze()
	fmt.Println(s.Size(), s.Dimensions())
	// Output:
	// 1 2
}
