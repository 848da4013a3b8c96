package scene

// A bounding volume hierarchy node. Leaf nodes wrap a single primitive;
// composite nodes group up to a fixed number of children under a box that
// is the exact union of the child boxes.
type Node struct {
	BBox BBox

	// Set for leaf nodes only.
	Primitive *Primitive

	// Set for composite nodes only.
	Children []*Node
}

// Wrap a primitive in a leaf node.
func NewLeaf(prim *Primitive) *Node {
	return &Node{
		BBox:      prim.BBox,
		Primitive: prim,
	}
}

// Group a set of nodes under a composite node.
func NewComposite(children []*Node) *Node {
	bbox := EmptyBBox()
	for _, child := range children {
		bbox = bbox.Union(child.BBox)
	}

	return &Node{
		BBox:     bbox,
		Children: append([]*Node(nil), children...),
	}
}

// Returns true if this is a composite node.
func (n *Node) IsComposite() bool {
	return n.Primitive == nil
}

// Visit the subtree rooted at this node in depth-first order. The root is
// visited at depth 0.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int), depth int) {
	fn(n, depth)
	for _, child := range n.Children {
		child.walk(fn, depth+1)
	}
}
