package scene

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/achilleasa/rt/types"
)

func testCamera() Camera {
	return Camera{
		From:   types.XYZ(0, 0, 0),
		LookAt: types.XYZ(0, 0, 1),
		Up:     types.XYZ(0, 1, 0),
		Angle:  30,
		XRes:   4,
		YRes:   4,
	}
}

func TestAddPrimitive(t *testing.T) {
	sc := NewScene()
	mat := testMaterial()

	prim := mustPrim(t)(NewSphere(types.XYZ(0, 0, 5), 1, mat))
	if err := sc.AddPrimitive(prim); err != ErrUnknownMaterial {
		t.Fatalf("expected ErrUnknownMaterial; got %v", err)
	}

	if err := sc.AddMaterial(mat); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := sc.AddMaterial(mat); err == nil {
		t.Fatal("expected an error when adding the same material twice")
	}
	if err := sc.AddPrimitive(prim); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noMat := mustPrim(t)(NewSphere(types.XYZ(0, 0, 5), 1, nil))
	if err := sc.AddPrimitive(noMat); err != ErrNoMaterial {
		t.Fatalf("expected ErrNoMaterial; got %v", err)
	}

	if len(sc.Objects) != 1 {
		t.Fatalf("expected scene to contain 1 object; got %d", len(sc.Objects))
	}
}

func TestAddLightLimit(t *testing.T) {
	sc := NewScene()
	for i := 0; i < MaxLights; i++ {
		if err := sc.AddLight(&Light{Position: types.XYZ(float64(i), 0, 0)}); err != nil {
			t.Fatalf("unexpected error adding light %d: %v", i, err)
		}
	}

	if err := sc.AddLight(&Light{}); !errors.Is(err, ErrTooManyLights) {
		t.Fatalf("expected ErrTooManyLights; got %v", err)
	}
}

func TestFinalize(t *testing.T) {
	sc := NewScene()
	sc.Camera = testCamera()
	mat := testMaterial()

	if err := sc.Finalize(); err != ErrNoLights {
		t.Fatalf("expected ErrNoLights; got %v", err)
	}

	for i := 0; i < 4; i++ {
		_ = sc.AddLight(&Light{Position: types.XYZ(0, float64(i), 0)})
	}
	if err := sc.Finalize(); err != ErrNoObjects {
		t.Fatalf("expected ErrNoObjects; got %v", err)
	}

	_ = sc.AddMaterial(mat)
	_ = sc.AddPrimitive(mustPrim(t)(NewSphere(types.XYZ(0, 0, 5), 1, mat)))

	sc.Camera.LookAt = sc.Camera.From
	if err := sc.Finalize(); !errors.Is(err, ErrInvalidViewpoint) {
		t.Fatalf("expected ErrInvalidViewpoint; got %v", err)
	}

	sc.Camera = testCamera()
	if err := sc.Finalize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, light := range sc.Lights {
		if light.Intensity != 0.5 {
			t.Fatalf("expected light %d intensity to be 0.5; got %g", i, light.Intensity)
		}
	}
}

func TestCameraValidate(t *testing.T) {
	specs := []struct {
		name  string
		mod   func(*Camera)
		valid bool
	}{
		{"default", func(*Camera) {}, true},
		{"zero resolution", func(c *Camera) { c.XRes = 0 }, false},
		{"coincident points", func(c *Camera) { c.LookAt = c.From }, false},
		{"zero up", func(c *Camera) { c.Up = types.XYZ(0, 0, 0) }, false},
		{"up along view", func(c *Camera) { c.Up = types.XYZ(0, 0, 3) }, false},
		{"up against view", func(c *Camera) { c.Up = types.XYZ(0, 0, -1) }, false},
		{"tilted up", func(c *Camera) { c.Up = types.XYZ(0, 1, 1) }, true},
	}

	for _, spec := range specs {
		cam := testCamera()
		spec.mod(&cam)
		err := cam.Validate()
		if spec.valid && err != nil {
			t.Fatalf("[%s] unexpected error: %v", spec.name, err)
		}
		if !spec.valid && !errors.Is(err, ErrInvalidViewpoint) {
			t.Fatalf("[%s] expected ErrInvalidViewpoint; got %v", spec.name, err)
		}
	}
}

func TestCameraFrame(t *testing.T) {
	cam := testCamera()
	fr := cam.Frame()

	expHor := types.XYZ(1, 0, 0)
	expVer := types.XYZ(0, 1, 0)
	if fr.Hor != expHor || fr.Ver != expVer || fr.Look != types.XYZ(0, 0, 1) {
		t.Fatalf("unexpected view frame\n%s", fr)
	}
	if fr.XStep != 0.5 || fr.YStep != 0.5 {
		t.Fatalf("expected pixel steps to be 0.5; got %g, %g", fr.XStep, fr.YStep)
	}
	expScale := math.Tan(math.Pi/6) / math.Sqrt2
	if math.Abs(fr.Scale-expScale) > testEpsilon {
		t.Fatalf("expected scale %g; got %g", expScale, fr.Scale)
	}

	xr, yr := fr.PixelOffset(2, 2)
	if xr != 0 || yr != 0 {
		t.Fatalf("expected pixel (2, 2) offsets to be 0; got %g, %g", xr, yr)
	}
	if dir := fr.Dir(xr, yr); dir != fr.Look {
		t.Fatalf("expected central ray to follow the look vector; got %v", dir)
	}

	// The top-left pixel looks up and to the left (+x is left with this frame)
	dir := fr.Dir(fr.PixelOffset(0, 0))
	if !(dir[0] > 0 && dir[1] > 0) {
		t.Fatalf("expected top-left ray to point towards +x, +y; got %v", dir)
	}
}

func TestSceneStats(t *testing.T) {
	sc := NewScene()
	sc.Camera = testCamera()
	mat := testMaterial()
	_ = sc.AddMaterial(mat)
	_ = sc.AddPrimitive(mustPrim(t)(NewSphere(types.XYZ(0, 0, 5), 1, mat)))
	_ = sc.AddPrimitive(mustPrim(t)(NewSphere(types.XYZ(0, 0, 8), 1, mat)))
	sc.Root = NewComposite([]*Node{NewLeaf(sc.Objects[0]), NewLeaf(sc.Objects[1])})

	stats := sc.Stats()
	for _, exp := range []string{"sphere", "Composites", "4x4"} {
		if !strings.Contains(stats, exp) {
			t.Fatalf("expected stats table to contain %q; got\n%s", exp, stats)
		}
	}
}

func TestCompositeBBox(t *testing.T) {
	mat := testMaterial()
	a := NewLeaf(mustPrim(t)(NewSphere(types.XYZ(0, 0, 0), 1, mat)))
	b := NewLeaf(mustPrim(t)(NewSphere(types.XYZ(5, 2, -3), 2, mat)))

	node := NewComposite([]*Node{a, b})
	exp := BBox{types.XYZ(-1, -1, -5), types.XYZ(7, 4, 1)}
	if node.BBox != exp {
		t.Fatalf("expected composite bbox %v; got %v", exp, node.BBox)
	}
	if !node.IsComposite() || a.IsComposite() {
		t.Fatal("unexpected node kinds")
	}

	visited := 0
	node.Walk(func(_ *Node, depth int) {
		visited++
		if depth > 1 {
			t.Fatalf("unexpected depth %d", depth)
		}
	})
	if visited != 3 {
		t.Fatalf("expected to visit 3 nodes; visited %d", visited)
	}
}

func TestBBoxHit(t *testing.T) {
	box := BBox{types.XYZ(-1, -1, -1), types.XYZ(1, 1, 1)}

	specs := []struct {
		ray types.Ray
		exp bool
	}{
		{ray(0, 0, -5, 0, 0, 1), true},
		{ray(0, 0, 0, 1, 0, 0), true},
		{ray(0, 0, 5, 0, 0, 1), false},
		{ray(0, 2, -5, 0, 0, 1), false},
		{ray(-5, -5, -5, 1, 1, 1), true},
		{ray(-5, 5, -5, 1, 1, 1), false},
	}

	for i, spec := range specs {
		if got := box.Hit(spec.ray); got != spec.exp {
			t.Fatalf("[spec %d] expected hit to be %t; got %t", i, spec.exp, got)
		}
	}
}
