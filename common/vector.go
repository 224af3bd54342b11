package common

import (
	"github.com/chewxy/math32"
)

// Vec3 is a float32 3-component vector used for positions, offsets and directions.
type Vec3 struct {
	X, Y, Z float32
}

// V3 is shorthand for constructing a Vec3.
func V3(x, y, z float32) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns a multiplied by the scalar s.
func (a Vec3) Scale(s float32) Vec3 {
	return Vec3{a.X * s, a.Y * s, a.Z * s}
}

// Mul returns the component-wise product of a and b.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a.X * b.X, a.Y * b.Y, a.Z * b.Z}
}

// Dot returns the dot product of a and b.
func (a Vec3) Dot(b Vec3) float32 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Length returns the Euclidean length of a.
func (a Vec3) Length() float32 {
	return math32.Sqrt(a.Dot(a))
}

// Normalize returns a scaled to unit length.
// A zero vector is returned unchanged so callers never observe NaN components.
func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l == 0 {
		return a
	}
	return a.Scale(1 / l)
}

// Sign returns the per-component sign of a, with 0 mapping to 0.
func (a Vec3) Sign() Vec3 {
	return Vec3{sign(a.X), sign(a.Y), sign(a.Z)}
}

// Abs returns the per-component absolute value of a.
func (a Vec3) Abs() Vec3 {
	return Vec3{math32.Abs(a.X), math32.Abs(a.Y), math32.Abs(a.Z)}
}

// IsZero reports whether every component of a is exactly zero.
func (a Vec3) IsZero() bool {
	return a.X == 0 && a.Y == 0 && a.Z == 0
}

// Array returns the components as a fixed-size array, the form GPU records and exporters use.
func (a Vec3) Array() [3]float32 {
	return [3]float32{a.X, a.Y, a.Z}
}

// MulMat multiplies a as a row vector by m (a * m).
// This is the convention the rig uses for every local-to-world transform.
//
// Parameters:
//   - m: the matrix to multiply by
//
// Returns:
//   - Vec3: the vector (dot(a, m[0]), dot(a, m[1]), dot(a, m[2]))
func (a Vec3) MulMat(m Mat3) Vec3 {
	return Vec3{a.Dot(m[0]), a.Dot(m[1]), a.Dot(m[2])}
}

// Mix linearly interpolates between a and b by t.
func Mix(a, b Vec3, t float32) Vec3 {
	return a.Add(b.Sub(a).Scale(t))
}

func sign(x float32) float32 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// Mat3 is a column-major 3x3 matrix; Mat3[i] is column i.
type Mat3 [3]Vec3

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

// M3 builds a matrix from nine scalars given column by column.
func M3(c00, c01, c02, c10, c11, c12, c20, c21, c22 float32) Mat3 {
	return Mat3{{c00, c01, c02}, {c10, c11, c12}, {c20, c21, c22}}
}

// Row returns row i of m.
func (m Mat3) Row(i int) Vec3 {
	switch i {
	case 0:
		return Vec3{m[0].X, m[1].X, m[2].X}
	case 1:
		return Vec3{m[0].Y, m[1].Y, m[2].Y}
	default:
		return Vec3{m[0].Z, m[1].Z, m[2].Z}
	}
}

// MulVec multiplies m by v as a column vector (m * v).
func (m Mat3) MulVec(v Vec3) Vec3 {
	return m[0].Scale(v.X).Add(m[1].Scale(v.Y)).Add(m[2].Scale(v.Z))
}

// Mul returns the matrix product m * n.
func (m Mat3) Mul(n Mat3) Mat3 {
	return Mat3{m.MulVec(n[0]), m.MulVec(n[1]), m.MulVec(n[2])}
}

// Scale returns m with every element multiplied by s.
func (m Mat3) Scale(s float32) Mat3 {
	return Mat3{m[0].Scale(s), m[1].Scale(s), m[2].Scale(s)}
}

// Transpose returns the transpose of m.
func (m Mat3) Transpose() Mat3 {
	return Mat3{m.Row(0), m.Row(1), m.Row(2)}
}

// Determinant returns the determinant of m.
func (m Mat3) Determinant() float32 {
	return m[0].Dot(m[1].Cross(m[2]))
}

// Array returns the nine elements of m in column-major order.
func (m Mat3) Array() [9]float32 {
	return [9]float32{
		m[0].X, m[0].Y, m[0].Z,
		m[1].X, m[1].Y, m[1].Z,
		m[2].X, m[2].Y, m[2].Z,
	}
}
