package bvh

import (
	"fmt"
	"sort"
	"time"

	"github.com/achilleasa/rt/log"
	"github.com/achilleasa/rt/scene"
	"github.com/achilleasa/rt/types"
)

const (
	// Max number of children grouped under a composite node.
	FanOut = 4

	// Max number of nodes that may be pending during a traversal.
	StackSize = 512
)

type Options struct {
	// Select axis 0 when the z extent is the largest. This matches the
	// axis selection used by the renderers this tool replaces and keeps
	// their hierarchies (and hence tie-breaking between equidistant hits)
	// identical. Disable to split along z as well.
	LegacyAxis bool
}

// Get the default builder options.
func DefaultOptions() Options {
	return Options{LegacyAxis: true}
}

type buildStats struct {
	levels     int
	composites int
	stackDepth int
}

type builder struct {
	logger log.Logger
	opts   Options

	// Number of primitives plus composites created so far.
	objectCount int

	stats buildStats
}

// Build a bounding volume hierarchy for the scene objects and attach it to
// the scene.
func BuildScene(sc *scene.Scene, opts Options) error {
	root, stackDepth, err := Build(sc.Objects, opts)
	if err != nil {
		return err
	}

	sc.Root = root
	sc.StackDepth = stackDepth
	return nil
}

// Construct a hierarchy bottom-up. Each pass sorts the current level along
// its dominant axis, recursively halves it and groups runs of at most
// FanOut nodes under new composites which form the next level. Building
// stops when a pass yields a single composite; that composite is the root.
//
// Build returns the root node together with the max number of nodes that a
// depth-first traversal of the tree may keep pending.
func Build(objects []*scene.Primitive, opts Options) (*scene.Node, int, error) {
	if len(objects) == 0 {
		return nil, 0, ErrNoObjects
	}

	b := &builder{
		logger:      log.New("bvh builder"),
		opts:        opts,
		objectCount: len(objects),
	}

	level := make([]*scene.Node, len(objects))
	for i, prim := range objects {
		level[i] = scene.NewLeaf(prim)
	}

	start := time.Now()
	var root *scene.Node
	for {
		b.stats.levels++

		next := make([]*scene.Node, 0, len(level)/FanOut+1)
		done, err := b.partition(level, &next)
		if err != nil {
			return nil, 0, err
		}
		if done {
			root = next[0]
			break
		}
		level = next
	}

	b.stats.stackDepth = StackDepth(root)
	if b.stats.stackDepth > StackSize {
		return nil, 0, fmt.Errorf("%w: need %d entries; max %d", ErrStackCapacity, b.stats.stackDepth, StackSize)
	}

	b.logger.Debugf(
		"BVH tree build time: %d ms, levels: %d, composites: %d, stack depth: %d",
		time.Since(start).Nanoseconds()/1e6,
		b.stats.levels, b.stats.composites, b.stats.stackDepth,
	)
	return root, b.stats.stackDepth, nil
}

// Sort and split a run of nodes, appending the generated composites to
// next. Returns true if the whole run fit in a single composite.
func (b *builder) partition(nodes []*scene.Node, next *[]*scene.Node) (bool, error) {
	axis := FindDominantAxis(nodes, b.opts.LegacyAxis)
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].BBox.MidSum(axis) < nodes[j].BBox.MidSum(axis)
	})

	if len(nodes) <= FanOut {
		if b.objectCount >= scene.MaxObjects {
			return false, fmt.Errorf("%w: max %d objects including bounding composites", ErrCapacityExceeded, scene.MaxObjects)
		}
		b.objectCount++
		b.stats.composites++

		*next = append(*next, scene.NewComposite(nodes))
		return true, nil
	}

	mid := len(nodes) / 2
	if _, err := b.partition(nodes[:mid], next); err != nil {
		return false, err
	}
	if _, err := b.partition(nodes[mid:], next); err != nil {
		return false, err
	}
	return false, nil
}

// Find the axis along which the union of the node boxes has the largest
// extent. Ties go to the lower axis. In legacy mode a winning z axis is
// reported as axis 0.
func FindDominantAxis(nodes []*scene.Node, legacy bool) int {
	bbox := scene.EmptyBBox()
	for _, node := range nodes {
		bbox = bbox.Union(node.BBox)
	}
	side := bbox.Extent()

	axis := types.X
	if side[types.Y] > side[axis] {
		axis = types.Y
	}
	if side[types.Z] > side[axis] {
		axis = types.Z
		if legacy {
			axis = types.X
		}
	}
	return axis
}

// Calculate the max number of nodes pending on the stack while traversing
// the tree rooted at node. Children are pushed in order and popped in
// reverse so child i is processed while i siblings wait below it.
func StackDepth(node *scene.Node) int {
	if !node.IsComposite() {
		return 1
	}

	depth := len(node.Children)
	for i, child := range node.Children {
		if d := i + StackDepth(child); d > depth {
			depth = d
		}
	}
	return depth
}
