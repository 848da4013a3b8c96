package scene

import (
	"fmt"
	"math"

	"github.com/achilleasa/rt/types"
)

// A general second degree surface
//
//	Ax² + 2Bxy + 2Cxz + 2Dx + Ey² + 2Fyz + 2Gy + Hz² + 2Iz + J = 0
//
// clipped by a user supplied bounding box. Loc is recorded (and moved by
// instancing) but the equation is always evaluated in world coordinates.
type Quadric struct {
	Loc      types.Vec3
	Min, Max types.Vec3

	A, B, C, D, E, F, G, H, I, J float64

	// Doubled coefficients.
	a2, b2, c2, d2, f2, g2, i2 float64
}

// Create a quadric primitive from its coefficients and box.
func NewQuadric(q Quadric, material *Material) (*Primitive, error) {
	for axis := types.X; axis <= types.Z; axis++ {
		if q.Min[axis] > q.Max[axis] {
			return nil, fmt.Errorf("%w: quadric bounding box min exceeds max on axis %d", ErrInvalidGeometry, axis)
		}
	}

	q.a2 = 2 * q.A
	q.b2 = 2 * q.B
	q.c2 = 2 * q.C
	q.d2 = 2 * q.D
	q.f2 = 2 * q.F
	q.g2 = 2 * q.G
	q.i2 = 2 * q.I

	return &Primitive{
		Type:     QuadricPrimitive,
		BBox:     BBox{q.Min, q.Max},
		Material: material,
		Quadric:  &q,
	}, nil
}

func (q *Quadric) intersect(ray types.Ray) (float64, bool, bool) {
	rd, rp := ray.Dir, ray.Origin

	aq := rd[0]*(q.A*rd[0]+q.b2*rd[1]+q.c2*rd[2]) +
		rd[1]*(q.E*rd[1]+q.f2*rd[2]) +
		q.H*rd[2]*rd[2]

	nbq := rd[0]*(q.A*rp[0]+q.B*rp[1]+q.C*rp[2]+q.D) +
		rd[1]*(q.B*rp[0]+q.E*rp[1]+q.F*rp[2]+q.G) +
		rd[2]*(q.C*rp[0]+q.F*rp[1]+q.H*rp[2]+q.I)

	cq := rp[0]*(q.A*rp[0]+q.b2*rp[1]+q.c2*rp[2]+q.d2) +
		rp[1]*(q.E*rp[1]+q.f2*rp[2]+q.g2) +
		rp[2]*(q.H*rp[2]+q.i2) + q.J

	// Degenerates to a linear equation
	if math.Abs(aq) < MinT {
		t := -cq / (2 * nbq)
		if !(t >= MinT) {
			return 0, false, false
		}
		return t, false, true
	}

	ka := -nbq / aq
	kb := cq / aq
	disc := ka*ka - kb
	if disc < MinT {
		return 0, false, false
	}

	disc = math.Sqrt(disc)
	if t := ka - disc; t >= MinT {
		return t, false, true
	}
	if t := ka + disc; t >= MinT {
		return t, true, true
	}
	return 0, false, false
}

func (q *Quadric) normal(ip types.Vec3) types.Vec3 {
	return types.Vec3{
		q.A*ip[0] + q.B*ip[1] + q.C*ip[2] + q.D,
		q.B*ip[0] + q.E*ip[1] + q.F*ip[2] + q.G,
		q.C*ip[0] + q.F*ip[1] + q.H*ip[2] + q.I,
	}.Normalize()
}
