package tracer

import (
	"github.com/achilleasa/rt/scene"
	"github.com/achilleasa/rt/types"
)

// Find the nearest primitive hit by the ray. Ties between equidistant hits
// are resolved in favor of the primitive found first.
func (tr *Tracer) Intersect(ray types.Ray) (scene.Intersection, bool) {
	var (
		nearest scene.Intersection
		found   bool
	)

	tr.traverse(ray, func(prim *scene.Primitive) bool {
		inter, hit := prim.Intersect(ray)
		if hit && (!found || inter.T < nearest.T) {
			nearest = inter
			found = true
		}
		return false
	})

	return nearest, found
}

// Find any primitive other than exclude that the ray hits closer than
// maxT. Returns nil if there is none.
func (tr *Tracer) Occluder(ray types.Ray, exclude *scene.Primitive, maxT float64) *scene.Primitive {
	var occluder *scene.Primitive

	tr.traverse(ray, func(prim *scene.Primitive) bool {
		if prim == exclude {
			return false
		}
		if inter, hit := prim.Intersect(ray); hit && inter.T < maxT {
			occluder = prim
			return true
		}
		return false
	})

	return occluder
}

// Invoke visit for each primitive whose bounding box the ray penetrates
// until it returns true. The hierarchy is walked depth-first with an
// explicit stack; a scene without a hierarchy visits every object.
func (tr *Tracer) traverse(ray types.Ray, visit func(prim *scene.Primitive) bool) {
	root := tr.scene.Root
	switch {
	case root == nil:
		for _, prim := range tr.scene.Objects {
			if visit(prim) {
				return
			}
		}
		return
	case !root.IsComposite():
		visit(root.Primitive)
		return
	}

	stack := tr.stack[:0]
	if root.BBox.Hit(ray) {
		stack = append(stack, root)
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if node.IsComposite() {
			for _, child := range node.Children {
				if child.BBox.Hit(ray) {
					stack = append(stack, child)
				}
			}
			continue
		}

		if visit(node.Primitive) {
			break
		}
	}

	// Keep any growth for the next query
	tr.stack = stack[:0]
}

// Test the ray against every primitive in the list and return the nearest
// hit. This is the reference the hierarchy traversal must agree with.
func IntersectAll(prims []*scene.Primitive, ray types.Ray) (scene.Intersection, bool) {
	var (
		nearest scene.Intersection
		found   bool
	)

	for _, prim := range prims {
		inter, hit := prim.Intersect(ray)
		if hit && (!found || inter.T < nearest.T) {
			nearest = inter
			found = true
		}
	}

	return nearest, found
}
