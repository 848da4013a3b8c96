package reader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/achilleasa/rt/asset"
	"github.com/achilleasa/rt/log"
	"github.com/achilleasa/rt/scene"
	"github.com/achilleasa/rt/scene/bvh"
	"github.com/achilleasa/rt/types"
)

// Max number of instance definitions per scene file.
const MaxInstances = 64

// An instance record holds either a surface selection or a primitive
// prototype without a material.
type instanceRecord struct {
	material *scene.Material
	proto    *scene.Primitive
}

type instance struct {
	name    string
	line    int
	records []instanceRecord
}

type sceneReader struct {
	logger log.Logger

	// The scene being populated.
	scene *scene.Scene

	// Input state.
	file    string
	scanner *bufio.Scanner
	lineNum int

	// The material assigned to primitives outside instance definitions.
	curMaterial *scene.Material

	// Defined instances in definition order and the instance currently
	// being recorded, if any.
	instances   []*instance
	curInstance *instance

	// Extra context appended to errors raised while replaying instances.
	errStack []string
}

// Read a scene from a local file, a http(s) URL or the standard input if
// path is empty or "-". The returned scene is finalized and has its
// bounding volume hierarchy built using opts.
func ReadScene(path string, opts bvh.Options) (*scene.Scene, error) {
	res, err := asset.NewResource(path)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	return Read(res, opts)
}

// Read a scene from a resource. The returned scene is finalized and has its
// bounding volume hierarchy built using opts.
func Read(res *asset.Resource, opts bvh.Options) (*scene.Scene, error) {
	sc, err := Parse(res)
	if err != nil {
		return nil, err
	}

	if err = sc.Finalize(); err != nil {
		return nil, fmt.Errorf("%s: %w", res.Path(), err)
	}

	if err = bvh.BuildScene(sc, opts); err != nil {
		return nil, err
	}
	return sc, nil
}

// Parse a scene from a resource without finalizing it.
func Parse(res *asset.Resource) (*scene.Scene, error) {
	r := newSceneReader(res.Path(), res)

	r.logger.Infof("parsing scene from %s", res.Path())
	start := time.Now()

	if err := r.parse(); err != nil {
		return nil, err
	}

	r.logger.Infof("parsed scene in %d ms (%d objects, %d lights, %d instances)",
		time.Since(start).Nanoseconds()/1e6, len(r.scene.Objects), len(r.scene.Lights), len(r.instances))
	return r.scene, nil
}

// Scan a scene stream for its resolution record without parsing the rest
// of the scene.
func ReadResolution(in io.Reader) (xres, yres int, err error) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		tokens := strings.Fields(scanner.Text())
		if len(tokens) == 0 || tokens[0] != "resolution" {
			continue
		}
		return parseResolution(tokens)
	}

	if err = scanner.Err(); err != nil {
		return 0, 0, err
	}
	return 0, 0, ErrNoResolution
}

func newSceneReader(file string, in io.Reader) *sceneReader {
	return &sceneReader{
		logger:    log.New("scene reader"),
		scene:     scene.NewScene(),
		file:      file,
		scanner:   bufio.NewScanner(in),
		instances: make([]*instance, 0),
		errStack:  make([]string, 0),
	}
}

// Generate an error that includes the current position and any data in the
// error stack. The error wraps err.
func (r *sceneReader) emitError(err error) error {
	var suffix string
	if len(r.errStack) != 0 {
		suffix = "\n" + strings.Join(r.errStack, "\n")
	}
	return fmt.Errorf("[%s: %d] error: %w%s", r.file, r.lineNum, err, suffix)
}

// Push a frame to the error stack.
func (r *sceneReader) pushFrame(msg string) {
	r.errStack = append([]string{msg}, r.errStack...)
}

// Pop a frame from the error stack.
func (r *sceneReader) popFrame() {
	r.errStack = r.errStack[1:]
}

// Read the next raw line of a multi-line record.
func (r *sceneReader) nextLine() ([]string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, err
		}
		return nil, ErrUnexpectedEOF
	}
	r.lineNum++
	return strings.Fields(r.scanner.Text()), nil
}

func (r *sceneReader) parse() error {
	for r.scanner.Scan() {
		r.lineNum++
		lineTokens := strings.Fields(r.scanner.Text())
		if len(lineTokens) == 0 || strings.HasPrefix(lineTokens[0], "#") {
			continue
		}

		var err error
		switch lineTokens[0] {
		case "from":
			r.scene.Camera.From, err = parseVec3(lineTokens)
		case "at":
			r.scene.Camera.LookAt, err = parseVec3(lineTokens)
		case "up":
			r.scene.Camera.Up, err = parseVec3(lineTokens)
		case "angle":
			r.scene.Camera.Angle, err = parseFloat(lineTokens)
		case "resolution":
			r.scene.Camera.XRes, r.scene.Camera.YRes, err = parseResolution(lineTokens)
		case "light":
			err = r.parseLight(lineTokens)
		case "background":
			err = r.parseBackground(lineTokens)
		case "surface":
			err = r.parseSurface(lineTokens)
		case "sphere", "hsphere", "cone", "polygon", "ring", "quadric":
			err = r.parsePrimitive(lineTokens)
		case "instance":
			err = r.parseInstance(lineTokens)
		case "end_instance":
			if r.curInstance == nil {
				err = fmt.Errorf("unexpected 'end_instance'")
				break
			}
			r.instances = append(r.instances, r.curInstance)
			r.curInstance = nil
		case "instance_of":
			err = r.parseInstanceOf(lineTokens)
		default:
			r.logger.Warningf("[%s: %d] skipping unknown keyword '%s'", r.file, r.lineNum, lineTokens[0])
		}

		if err != nil {
			return r.emitError(err)
		}
	}

	if err := r.scanner.Err(); err != nil {
		return r.emitError(err)
	}

	if r.curInstance != nil {
		r.lineNum = r.curInstance.line
		return r.emitError(fmt.Errorf("%w for instance '%s'", ErrUnterminatedInstance, r.curInstance.name))
	}
	return nil
}

// Parse a point light: light x y z [r g b]
func (r *sceneReader) parseLight(lineTokens []string) error {
	pos, err := parseVec3(lineTokens)
	if err != nil {
		return err
	}

	color := types.RGB(1, 1, 1)
	if len(lineTokens) >= 7 {
		vals, err := parseFloats(lineTokens[0], lineTokens[4:], 3)
		if err != nil {
			return err
		}
		color = types.RGB(vals[0], vals[1], vals[2])
	}

	return r.scene.AddLight(&scene.Light{Position: pos, Color: color})
}

// Parse the background: background r g b cue
func (r *sceneReader) parseBackground(lineTokens []string) error {
	if len(lineTokens) < 5 {
		return fmt.Errorf("unsupported syntax for 'background'; expected 4 arguments; got %d", len(lineTokens)-1)
	}

	vals, err := parseFloats(lineTokens[0], lineTokens[1:4], 3)
	if err != nil {
		return err
	}

	cue := lineTokens[4]
	if len(cue) != 1 || !scene.ValidCue(cue[0]) {
		return fmt.Errorf("invalid background cue '%s'; expected one of n, x, y, z", cue)
	}

	r.scene.Background = scene.Background{
		Color: types.RGB(vals[0], vals[1], vals[2]),
		Cue:   cue[0],
	}
	return nil
}

// Parse a surface definition with 19 parameters: reflect rgb, reflect
// weight, refract rgb, refract weight, ambient rgb, diffuse rgb, specular
// rgb, specular exponent and index of refraction.
func (r *sceneReader) parseSurface(lineTokens []string) error {
	v, err := parseFloats(lineTokens[0], lineTokens[1:], 19)
	if err != nil {
		return err
	}

	mat := scene.NewMaterial(
		types.RGB(v[0], v[1], v[2]), v[3],
		types.RGB(v[4], v[5], v[6]), v[7],
		types.RGB(v[8], v[9], v[10]),
		types.RGB(v[11], v[12], v[13]),
		types.RGB(v[14], v[15], v[16]),
		v[17], v[18],
	)
	if err = r.scene.AddMaterial(mat); err != nil {
		return err
	}

	if r.curInstance != nil {
		r.curInstance.records = append(r.curInstance.records, instanceRecord{material: mat})
		return nil
	}
	r.curMaterial = mat
	return nil
}

// Parse a primitive record. Inside an instance definition the primitive is
// recorded as a prototype; otherwise it is added to the scene using the
// current surface.
func (r *sceneReader) parsePrimitive(lineTokens []string) error {
	if r.curInstance == nil && r.curMaterial == nil {
		return ErrNoSurface
	}

	prim, err := r.parseGeometry(lineTokens, r.curMaterial)
	if err != nil {
		return err
	}

	if r.curInstance != nil {
		r.curInstance.records = append(r.curInstance.records, instanceRecord{proto: prim})
		return nil
	}
	return r.scene.AddPrimitive(prim)
}

func (r *sceneReader) parseGeometry(lineTokens []string, mat *scene.Material) (*scene.Primitive, error) {
	keyword := lineTokens[0]

	switch keyword {
	case "sphere":
		v, err := parseFloats(keyword, lineTokens[1:], 4)
		if err != nil {
			return nil, err
		}
		return scene.NewSphere(types.Vec3{v[0], v[1], v[2]}, v[3], mat)
	case "hsphere":
		v, err := parseFloats(keyword, lineTokens[1:], 5)
		if err != nil {
			return nil, err
		}
		return scene.NewHollowSphere(types.Vec3{v[0], v[1], v[2]}, v[3], v[4], mat)
	case "cone":
		base, err := r.parseRecordLine(keyword, 4)
		if err != nil {
			return nil, err
		}
		apex, err := r.parseRecordLine(keyword, 4)
		if err != nil {
			return nil, err
		}
		return scene.NewCone(
			types.Vec3{base[0], base[1], base[2]}, base[3],
			types.Vec3{apex[0], apex[1], apex[2]}, apex[3],
			mat,
		)
	case "polygon":
		if len(lineTokens) < 2 {
			return nil, fmt.Errorf("unsupported syntax for 'polygon'; expected 1 argument; got 0")
		}
		count, err := strconv.Atoi(lineTokens[1])
		if err != nil {
			return nil, err
		}
		if count < 3 {
			return nil, fmt.Errorf("%w: polygon needs at least 3 points; got %d", scene.ErrInvalidGeometry, count)
		}

		points := make([]types.Vec3, count)
		for i := range points {
			v, err := r.parseRecordLine(keyword, 3)
			if err != nil {
				return nil, err
			}
			points[i] = types.Vec3{v[0], v[1], v[2]}
		}
		return scene.NewPolygon(points, mat)
	case "ring":
		v, err := parseFloats(keyword, lineTokens[1:], 11)
		if err != nil {
			return nil, err
		}
		return scene.NewRing(
			types.Vec3{v[0], v[1], v[2]},
			types.Vec3{v[3], v[4], v[5]},
			types.Vec3{v[6], v[7], v[8]},
			v[9], v[10],
			mat,
		)
	case "quadric":
		loc, err := parseVec3(lineTokens)
		if err != nil {
			return nil, err
		}
		box, err := r.parseRecordLine(keyword, 6)
		if err != nil {
			return nil, err
		}
		c1, err := r.parseRecordLine(keyword, 5)
		if err != nil {
			return nil, err
		}
		c2, err := r.parseRecordLine(keyword, 5)
		if err != nil {
			return nil, err
		}
		q := scene.Quadric{
			Loc: loc,
			Min: types.Vec3{box[0], box[1], box[2]},
			Max: types.Vec3{box[3], box[4], box[5]},
		}
		q.A, q.B, q.C, q.D, q.E = c1[0], c1[1], c1[2], c1[3], c1[4]
		q.F, q.G, q.H, q.I, q.J = c2[0], c2[1], c2[2], c2[3], c2[4]
		return scene.NewQuadric(q, mat)
	}

	return nil, fmt.Errorf("unknown primitive '%s'", keyword)
}

// Read the next line of a multi-line record and parse count numbers from it.
func (r *sceneReader) parseRecordLine(keyword string, count int) ([]float64, error) {
	tokens, err := r.nextLine()
	if err != nil {
		return nil, err
	}
	return parseFloats(keyword, tokens, count)
}

// Start an instance definition: instance name
func (r *sceneReader) parseInstance(lineTokens []string) error {
	if r.curInstance != nil {
		return ErrNestedInstance
	}
	if len(r.instances) == MaxInstances {
		return fmt.Errorf("%w; max %d", ErrTooManyInstances, MaxInstances)
	}
	if len(lineTokens) < 2 {
		return fmt.Errorf("missing or invalid instance label")
	}

	if prev := r.lookupInstance(lineTokens[1]); prev != nil {
		r.logger.Warningf("[%s: %d] instance '%s' already defined at line %d; ignoring new definition", r.file, r.lineNum, prev.name, prev.line)
	}

	r.curInstance = &instance{
		name:    lineTokens[1],
		line:    r.lineNum,
		records: make([]instanceRecord, 0),
	}
	return nil
}

// Replay an instance definition: instance_of name ox oy oz
//
// Surface records replace the current surface and the selection persists
// after the replay completes.
func (r *sceneReader) parseInstanceOf(lineTokens []string) error {
	if r.curInstance != nil {
		return fmt.Errorf("instance_of cannot be used inside an instance definition")
	}
	if len(lineTokens) < 2 {
		return fmt.Errorf("missing instance label")
	}

	inst := r.lookupInstance(lineTokens[1])
	if inst == nil {
		return fmt.Errorf("%w: '%s'", ErrUnknownInstance, lineTokens[1])
	}

	v, err := parseFloats(lineTokens[0], lineTokens[2:], 3)
	if err != nil {
		return fmt.Errorf("missing instance location: %w", err)
	}
	offset := types.Vec3{v[0], v[1], v[2]}

	// The frame is only popped on success so that emitError can report it
	r.pushFrame(fmt.Sprintf("while replaying instance '%s' defined at %s:%d", inst.name, r.file, inst.line))

	for _, rec := range inst.records {
		if rec.material != nil {
			r.curMaterial = rec.material
			continue
		}

		if r.curMaterial == nil {
			return ErrNoSurface
		}
		prim, err := rec.proto.Translated(offset, r.curMaterial)
		if err != nil {
			return err
		}
		if err = r.scene.AddPrimitive(prim); err != nil {
			return err
		}
	}

	r.popFrame()
	return nil
}

// Find an instance by name. If several instances share a name the first
// definition wins.
func (r *sceneReader) lookupInstance(name string) *instance {
	for _, inst := range r.instances {
		if inst.name == name {
			return inst
		}
	}
	return nil
}

// Parse: resolution w h
func parseResolution(lineTokens []string) (int, int, error) {
	if len(lineTokens) < 3 {
		return 0, 0, fmt.Errorf("unsupported syntax for '%s'; expected 2 arguments; got %d", lineTokens[0], len(lineTokens)-1)
	}

	xres, err := strconv.Atoi(lineTokens[1])
	if err != nil {
		return 0, 0, err
	}
	yres, err := strconv.Atoi(lineTokens[2])
	if err != nil {
		return 0, 0, err
	}
	return xres, yres, nil
}

// Parse a float scalar value.
func parseFloat(lineTokens []string) (float64, error) {
	v, err := parseFloats(lineTokens[0], lineTokens[1:], 1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

// Parse a Vec3 row.
func parseVec3(lineTokens []string) (types.Vec3, error) {
	v, err := parseFloats(lineTokens[0], lineTokens[1:], 3)
	if err != nil {
		return types.Vec3{}, err
	}
	return types.Vec3{v[0], v[1], v[2]}, nil
}

// Parse the first count tokens as floats. Extra tokens are ignored.
func parseFloats(keyword string, tokens []string, count int) ([]float64, error) {
	if len(tokens) < count {
		plural := "s"
		if count == 1 {
			plural = ""
		}
		return nil, fmt.Errorf("unsupported syntax for '%s'; expected %d argument%s; got %d", keyword, count, plural, len(tokens))
	}

	vals := make([]float64, count)
	for i := 0; i < count; i++ {
		val, err := strconv.ParseFloat(tokens[i], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number '%s' for '%s'", tokens[i], keyword)
		}
		vals[i] = val
	}
	return vals, nil
}
