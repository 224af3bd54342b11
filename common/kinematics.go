package common

import (
	"github.com/chewxy/math32"
)

// AntiparallelEpsilon is the tolerance on 1+dot(z, d) below which RotationAlign treats
// the two directions as opposite and switches to a half-turn.
const AntiparallelEpsilon = 1e-5

// ColinearEpsilon is the squared sine between target and bend hint below which SolveTwoBone
// treats them as colinear.
const ColinearEpsilon = 1e-8

// Fract returns the fractional part of x, x - floor(x).
func Fract(x float32) float32 {
	return x - math32.Floor(x)
}

// Hash11 is a cheap deterministic 1D hash returning a value in [0, 1).
// The same input always produces the same output on every platform that implements IEEE float32.
//
// Parameters:
//   - p: the value to hash
//
// Returns:
//   - float32: pseudo-random value in [0, 1)
func Hash11(p float32) float32 {
	p = Fract(p * .1031)
	p *= p + 33.33
	p *= p + p
	return Fract(p)
}

// RotateX returns the rotation of a radians about the X axis.
func RotateX(a float32) Mat3 {
	c, s := math32.Cos(a), math32.Sin(a)
	return M3(
		1, 0, 0,
		0, c, s,
		0, -s, c,
	)
}

// RotateY returns the rotation of a radians about the Y axis.
func RotateY(a float32) Mat3 {
	c, s := math32.Cos(a), math32.Sin(a)
	return M3(
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	)
}

// RotateZ returns the rotation of a radians about the Z axis.
func RotateZ(a float32) Mat3 {
	c, s := math32.Cos(a), math32.Sin(a)
	return M3(
		c, s, 0,
		-s, c, 0,
		0, 0, 1,
	)
}

// RotationAlign builds the matrix that carries the reference direction z onto the desired
// direction d, using v = z × d, c = z · d and k = 1/(1+c).
// The result is applied as a row vector, so z.MulMat(RotationAlign(d, z)) is parallel to d.
//
// The inputs are used as given. For unit vectors the result is a proper rotation; the rig
// also feeds equal-length bone vectors and rescales the result (see rig.ScaledBasis).
//
// When d and z point in opposite directions the closed form divides by ~0, so the function
// returns a half-turn about an axis perpendicular to z instead. Inputs longer than one can also
// reach 1+c = 0 without being opposite; that case uses the rotation between the normalized
// inputs scaled by |z||d|.
//
// Parameters:
//   - d: the desired direction
//   - z: the reference direction
//
// Returns:
//   - Mat3: the alignment matrix
func RotationAlign(d, z Vec3) Mat3 {
	v := z.Cross(d)
	c := z.Dot(d)
	norm := math32.Sqrt(z.Dot(z) * d.Dot(d))
	if 1+c/norm < AntiparallelEpsilon {
		return halfTurn(Perpendicular(z)).Scale(norm)
	}
	if math32.Abs(1+c) < AntiparallelEpsilon {
		return RotationAlign(d.Normalize(), z.Normalize()).Scale(norm)
	}
	k := 1 / (1 + c)

	return M3(
		v.X*v.X*k+c, v.Y*v.X*k-v.Z, v.Z*v.X*k+v.Y,
		v.X*v.Y*k+v.Z, v.Y*v.Y*k+c, v.Z*v.Y*k-v.X,
		v.X*v.Z*k-v.Y, v.Y*v.Z*k+v.X, v.Z*v.Z*k+c,
	)
}

// Perpendicular returns a unit vector orthogonal to z, chosen against the axis z is least aligned with.
func Perpendicular(z Vec3) Vec3 {
	a := z.Abs()
	axis := Vec3{1, 0, 0}
	if a.Y <= a.X && a.Y <= a.Z {
		axis = Vec3{0, 1, 0}
	} else if a.Z <= a.X && a.Z <= a.Y {
		axis = Vec3{0, 0, 1}
	}
	return z.Cross(axis).Normalize()
}

// halfTurn is the 180 degree rotation about the unit axis n: 2nnᵀ - I.
func halfTurn(n Vec3) Mat3 {
	return M3(
		2*n.X*n.X-1, 2*n.X*n.Y, 2*n.X*n.Z,
		2*n.Y*n.X, 2*n.Y*n.Y-1, 2*n.Y*n.Z,
		2*n.Z*n.X, 2*n.Z*n.Y, 2*n.Z*n.Z-1,
	)
}

// SolveTwoBone places the middle joint of a two-segment chain rooted at the origin.
// p is the root-to-target vector, r1 and r2 the segment lengths and dir a bend hint.
// The mid point lies in the plane of p and dir. When dir is colinear with p that plane is
// undefined and the chain bends towards Perpendicular(p) instead, so |mid| stays r1.
//
// Targets beyond r1+r2 return the fully extended chain: the mid point sits on the line
// towards p at distance r1. Targets closer than |r1-r2| clamp the perpendicular term to
// zero, which also leaves the mid point on that line.
//
// Parameters:
//   - p: the target relative to the chain root
//   - r1: length of the root-to-mid segment
//   - r2: length of the mid-to-end segment
//   - dir: bend direction hint
//
// Returns:
//   - Vec3: the mid joint relative to the chain root
func SolveTwoBone(p Vec3, r1, r2 float32, dir Vec3) Vec3 {
	pp := p.Dot(p)
	if pp == 0 {
		return dir.Normalize().Scale(r1)
	}
	if reach := r1 + r2; pp >= reach*reach {
		return p.Scale(r1 / math32.Sqrt(pp))
	}
	q := p.Scale(.5 + .5*(r1*r1-r2*r2)/pp)
	s := r1*r1 - q.Dot(q)
	if s < 0 {
		s = 0
	}
	n := p.Cross(dir)
	if n.Dot(n) <= ColinearEpsilon*pp*dir.Dot(dir) {
		n = Perpendicular(p)
	}
	return q.Add(n.Normalize().Scale(math32.Sqrt(s)))
}

// catmullRom holds the Catmull-Rom basis, one row per power of t.
var catmullRom = [4][4]float32{
	{0, 2, 0, 0},
	{-1, 0, 1, 0},
	{2, -5, 4, -1},
	{-1, 3, -3, 1},
}

// Spline evaluates a uniform Catmull-Rom curve through keys at t in [0, 1].
// The first and last keys only shape the end tangents; the curve spans keys[1] to keys[n-2].
// Fewer than four keys or t outside [0, 1] are clamped to the nearest valid segment.
//
// Parameters:
//   - keys: control values
//   - t: curve parameter in [0, 1]
//
// Returns:
//   - float32: the interpolated value
func Spline(keys []float32, t float32) float32 {
	n := len(keys)
	switch n {
	case 0:
		return 0
	case 1, 2, 3:
		return keys[n/2]
	}

	t *= float32(n - 3)
	i := int(math32.Floor(t))
	if i < 0 {
		i = 0
	}
	if i > n-4 {
		i = n - 4
	}
	t -= float32(i)

	powers := [4]float32{1, t, t * t, t * t * t}
	var out float32
	for j := 0; j < 4; j++ {
		var f float32
		for r := 0; r < 4; r++ {
			f += catmullRom[r][j] * powers[r]
		}
		out += .5 * f * keys[i+j]
	}
	return out
}
