package scene

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

const (
	// Max number of light sources.
	MaxLights = 8

	// Max number of scene objects. Both primitives and the composite
	// nodes generated by the hierarchy builder count against this limit.
	MaxObjects = 800000
)

type Scene struct {
	Camera     Camera
	Background Background

	Materials []*Material
	Lights    []*Light
	Objects   []*Primitive

	// Root of the bounding volume hierarchy. If nil, intersection queries
	// fall back to testing every object.
	Root *Node

	// Max number of nodes that can be pending during a depth-first
	// traversal of Root.
	StackDepth int

	materialSet map[*Material]struct{}
}

func NewScene() *Scene {
	return &Scene{
		Background:  Background{Cue: CueNone},
		Materials:   make([]*Material, 0),
		Lights:      make([]*Light, 0),
		Objects:     make([]*Primitive, 0),
		materialSet: make(map[*Material]struct{}),
	}
}

// Add a material to the scene.
func (s *Scene) AddMaterial(material *Material) error {
	if _, exists := s.materialSet[material]; exists {
		return fmt.Errorf("scene: material already added")
	}
	s.materialSet[material] = struct{}{}
	s.Materials = append(s.Materials, material)
	return nil
}

// Add a point light to the scene.
func (s *Scene) AddLight(light *Light) error {
	if len(s.Lights) == MaxLights {
		return fmt.Errorf("%w: max %d", ErrTooManyLights, MaxLights)
	}
	s.Lights = append(s.Lights, light)
	return nil
}

// Add a primitive to the scene.
func (s *Scene) AddPrimitive(primitive *Primitive) error {
	if primitive.Material == nil {
		return ErrNoMaterial
	}
	if _, known := s.materialSet[primitive.Material]; !known {
		return ErrUnknownMaterial
	}
	if len(s.Objects) == MaxObjects {
		return fmt.Errorf("%w: max %d", ErrTooManyObjects, MaxObjects)
	}

	s.Objects = append(s.Objects, primitive)
	return nil
}

// Validate the scene and compute the values that depend on the complete
// scene contents. Each light gets an intensity of sqrt(n)/n so that the
// combined contribution of n lights stays bounded.
func (s *Scene) Finalize() error {
	if len(s.Lights) == 0 {
		return ErrNoLights
	}
	if len(s.Objects) == 0 {
		return ErrNoObjects
	}
	if err := s.Camera.Validate(); err != nil {
		return err
	}

	n := float64(len(s.Lights))
	intensity := math.Sqrt(n) / n
	for _, light := range s.Lights {
		light.Intensity = intensity
	}
	return nil
}

// Generate a table with scene statistics.
func (s *Scene) Stats() string {
	var primCount [numPrimitiveTypes]int
	for _, prim := range s.Objects {
		primCount[prim.Type]++
	}

	composites, maxDepth := 0, 0
	if s.Root != nil {
		s.Root.Walk(func(node *Node, depth int) {
			if node.IsComposite() {
				composites++
			}
			if depth > maxDepth {
				maxDepth = depth
			}
		})
	}

	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count"})
	table.Append([]string{"Geometry", "---", strconv.Itoa(len(s.Objects))})
	for t := PrimitiveType(0); t < numPrimitiveTypes; t++ {
		table.Append([]string{"", t.String(), strconv.Itoa(primCount[t])})
	}
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"BVH", "---", strconv.Itoa(composites)})
	table.Append([]string{"", "Composites", strconv.Itoa(composites)})
	table.Append([]string{"", "Depth", strconv.Itoa(maxDepth)})
	table.Append([]string{"", "Stack", strconv.Itoa(s.StackDepth)})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Materials", "---", strconv.Itoa(len(s.Materials))})
	table.Append([]string{"Lights", "---", strconv.Itoa(len(s.Lights))})
	table.Append([]string{" ", " ", " "})
	table.Append([]string{"Camera", "Resolution", fmt.Sprintf("%dx%d", s.Camera.XRes, s.Camera.YRes)})
	table.Append([]string{"", "FOV", fmt.Sprintf("%g", s.Camera.Angle)})
	table.SetFooter([]string{"Total", " ", strconv.Itoa(len(s.Objects) + composites)})

	table.Render()
	return buf.String()
}
