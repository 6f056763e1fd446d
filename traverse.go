package kdtree

// visitState records how far the traversal has progressed below a stem on
// the current path.
type visitState uint8

const (
	stateNone visitState = iota
	stateLeftVisited
	stateRightVisited
	stateAllVisited
)

// leafVisitor is one query shape driven by traverse. radius is the current
// pruning radius: a subtree whose box lies farther than radius from the
// query is skipped. It is re-read after every leaf, so it may shrink as
// results are found.
type leafVisitor interface {
	radius() float64
	visitLeaf(id nodeID)
}

// traverse walks the tree depth-first without recursion. One state per level
// of the current path lives in a slice sized from maximumDepth, so the walk
// never reallocates. At each stem the child on the query's side of the split
// is entered first; the other child is entered only if its box is within the
// pruning radius once the first child is done.
//
// traverse only reads the tree and may run concurrently with other
// traversals.
func (t *Tree[V]) traverse(location []float64, dist DistanceFunction, v leafVisitor) {
	states := make([]visitState, t.maximumDepth)
	id, depth := rootID, 0
	for {
		n := &t.nodes[id]
		next := noNode
		if n.kind == leafNode {
			v.visitLeaf(id)
		} else {
			s := n.stem
			switch states[depth] {
			case stateNone:
				if location[s.dim] > s.value {
					states[depth], next = stateRightVisited, s.right
				} else {
					states[depth], next = stateLeftVisited, s.left
				}
			case stateLeftVisited:
				states[depth] = stateAllVisited
				if t.withinRadius(location, dist, s.right, v.radius()) {
					next = s.right
				}
			case stateRightVisited:
				states[depth] = stateAllVisited
				if t.withinRadius(location, dist, s.left, v.radius()) {
					next = s.left
				}
			}
		}

		if next != noNode {
			id = next
			depth++
			states[depth] = stateNone
			continue
		}

		// Leaf done or stem exhausted: back up to the parent, whose saved
		// state says what remains to be visited there.
		if depth == 0 {
			return
		}
		id = n.parent
		depth--
	}
}

// withinRadius reports whether node id's box may hold a point within radius
// of location. A NaN lower bound never qualifies.
func (t *Tree[V]) withinRadius(location []float64, dist DistanceFunction, id nodeID, radius float64) bool {
	lo, hi := t.bounds(id)
	return dist.DistanceToRectangle(location, lo, hi) <= radius
}
