package common

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tol = 1e-4

func assertVec(t *testing.T, want, got Vec3, delta float64) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, "x")
	assert.InDelta(t, want.Y, got.Y, delta, "y")
	assert.InDelta(t, want.Z, got.Z, delta, "z")
}

func TestHash11(t *testing.T) {
	for i := 0; i < 64; i++ {
		h := Hash11(float32(i + 349))
		assert.GreaterOrEqual(t, h, float32(0))
		assert.Less(t, h, float32(1))
		assert.Equal(t, h, Hash11(float32(i+349)))
	}
	assert.NotEqual(t, Hash11(350), Hash11(351))
}

func TestFract(t *testing.T) {
	assert.InDelta(t, 0.25, Fract(3.25), 1e-6)
	assert.InDelta(t, 0.75, Fract(-0.25), 1e-6)
	assert.Equal(t, float32(0), Fract(2))
}

func TestRotateAxes(t *testing.T) {
	half := float32(math32.Pi / 2)
	assertVec(t, V3(0, 0, -1), V3(0, 1, 0).MulMat(RotateX(half)), tol)
	assertVec(t, V3(1, 0, 0), V3(0, 0, 1).MulMat(RotateY(half)), tol)
	assertVec(t, V3(0, -1, 0), V3(1, 0, 0).MulMat(RotateZ(half)), tol)
	assert.InDelta(t, 1, RotateY(0.7).Determinant(), tol)
}

func TestRotationAlign(t *testing.T) {
	dirs := []Vec3{
		V3(0, 1, 0), V3(1, 0, 0), V3(0, 0, 1), V3(0, -1, 0.1),
		V3(1, 1, 0), V3(-1, 2, 3), V3(0.3, -0.2, -0.9), V3(-1, 0, 0),
	}
	for _, zRaw := range dirs {
		for _, dRaw := range dirs {
			z, d := zRaw.Normalize(), dRaw.Normalize()
			r := RotationAlign(d, z)

			assertVec(t, d, z.MulMat(r), 1e-3)
			assert.InDelta(t, 1, r.Determinant(), 1e-3)
			for i := 0; i < 3; i++ {
				assert.InDelta(t, 1, r[i].Length(), 1e-3)
			}
		}
	}
}

func TestRotationAlignAntiparallel(t *testing.T) {
	for _, z := range []Vec3{V3(0, 1, 0), V3(1, 0, 0), V3(0, 0, -1), V3(1, 2, 3).Normalize()} {
		r := RotationAlign(z.Scale(-1), z)

		got := z.MulMat(r)
		require.False(t, math32.IsNaN(got.X) || math32.IsNaN(got.Y) || math32.IsNaN(got.Z))
		assertVec(t, z.Scale(-1), got, tol)
		assert.InDelta(t, 1, r.Determinant(), tol)
	}
}

func TestRotationAlignLongInputs(t *testing.T) {
	// |z| = |d| = 2 with z·d = -1: the closed form would divide by zero
	z := V3(0, 2, 0)
	d := V3(math32.Sqrt(1-.0625), -.25, 0).Scale(2)
	r := RotationAlign(d, z)

	for i := 0; i < 3; i++ {
		for _, f := range r[i].Array() {
			require.False(t, math32.IsNaN(f) || math32.IsInf(f, 0))
		}
	}
	got := z.MulMat(r)
	assert.InDelta(t, 0, got.Cross(d).Length(), 1e-3)
	assert.Greater(t, got.Dot(d), float32(0))
}

func TestSolveTwoBoneReachable(t *testing.T) {
	cases := []struct {
		p      Vec3
		r1, r2 float32
		dir    Vec3
	}{
		{V3(0, -0.8, 0), 0.5, 0.5, V3(1, 0, 0)},
		{V3(0.3, -0.4, 0.1), 0.55, 0.55, V3(0, 0, 1)},
		{V3(0.25, 0, 0), 0.25, 0.25, V3(0, -1, 0)},
		{V3(0, 0.2, 0), 0.5, 0.4, V3(1, 0, 0)},
		{V3(0.1, 0.1, 0.1), 0.3, 0.2, V3(0, 1, -1)},
	}
	for _, c := range cases {
		mid := SolveTwoBone(c.p, c.r1, c.r2, c.dir)
		assert.InDelta(t, c.r1, mid.Length(), tol)
		assert.InDelta(t, c.r2, c.p.Sub(mid).Length(), tol)
	}
}

func TestSolveTwoBoneBendsTowardHint(t *testing.T) {
	mid := SolveTwoBone(V3(0, -0.8, 0), 0.5, 0.5, V3(0, 0, 1))
	assert.InDelta(t, -0.3, mid.X, tol)
	assert.InDelta(t, 0, mid.Z, tol)
	assert.InDelta(t, -0.4, mid.Y, tol)
}

func TestSolveTwoBoneUnreachable(t *testing.T) {
	p := V3(0.6, -1.5, 0.2)
	mid := SolveTwoBone(p, 0.5, 0.5, V3(1, 0, 0))

	require.False(t, math32.IsNaN(mid.X) || math32.IsNaN(mid.Y) || math32.IsNaN(mid.Z))
	assert.InDelta(t, 0.5, mid.Length(), tol)
	assert.InDelta(t, 0, mid.Cross(p).Length(), tol)
	assert.Greater(t, mid.Dot(p), float32(0))
}

func TestSolveTwoBoneFullExtensionBoundary(t *testing.T) {
	mid := SolveTwoBone(V3(0, -1, 0), 0.5, 0.5, V3(1, 0, 0))
	assertVec(t, V3(0, -0.5, 0), mid, 1e-6)
}

func TestSolveTwoBoneColinearHint(t *testing.T) {
	for _, dir := range []Vec3{V3(0, -1, 0), V3(0, 2, 0)} {
		p := V3(0, -0.8, 0)
		mid := SolveTwoBone(p, 0.55, 0.55, dir)
		assert.InDelta(t, 0.55, mid.Length(), tol)
		assert.InDelta(t, 0.55, p.Sub(mid).Length(), tol)
		assert.Greater(t, mid.Sub(p.Scale(.5)).Length(), float32(.1))
	}
}

func TestSolveTwoBoneDeterministic(t *testing.T) {
	p, dir := V3(0.2, -0.7, 0.3), V3(1, 0, 0)
	assert.Equal(t, SolveTwoBone(p, 0.45, 0.55, dir), SolveTwoBone(p, 0.45, 0.55, dir))
}

func TestSpline(t *testing.T) {
	keys := []float32{-.2, -.2, -.1, 0, .15, .2, .15, 0, -.1, -.2, -.2}

	assert.InDelta(t, -0.2, Spline(keys, 0), 1e-6)
	assert.InDelta(t, -0.2, Spline(keys, 1), 1e-5)
	// t = 4/8 lands on keys[5]
	assert.InDelta(t, 0.2, Spline(keys, 0.5), 1e-5)

	linear := []float32{0, 1, 2, 3, 4}
	assert.InDelta(t, 2, Spline(linear, 0.5), 1e-5)
	assert.InDelta(t, 1.25, Spline(linear, 0.125), 1e-5)
}

func TestMat3(t *testing.T) {
	m := M3(1, 2, 3, 4, 5, 6, 7, 8, 10)
	v := V3(1, -1, 2)

	assert.Equal(t, m.Transpose().MulVec(v), v.MulMat(m))
	assert.Equal(t, m, m.Mul(Identity3()))
	assert.Equal(t, V3(1, 4, 7), m.Row(0))
	assert.InDelta(t, -3, m.Determinant(), 1e-5)
	assert.Equal(t, [9]float32{1, 2, 3, 4, 5, 6, 7, 8, 10}, m.Array())
}
