package math3d

import (
	"math"
	"testing"
)

const tol = 1e-9

func TestVec3Cross(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want Vec3
	}{
		{"x cross y", UnitX(), UnitY(), UnitZ()},
		{"y cross z", UnitY(), UnitZ(), UnitX()},
		{"z cross x", UnitZ(), UnitX(), UnitY()},
		{"parallel", V3(2, 0, 0), V3(5, 0, 0), Zero3()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.a.Cross(tc.b)
			if !got.ApproxEqual(tc.want, tol) {
				t.Errorf("%v x %v = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}

func TestVec3NormalizeGuardsZero(t *testing.T) {
	tests := []struct {
		name string
		v    Vec3
		ok   bool
	}{
		{"unit", V3(0, 0, 1), true},
		{"long", V3(3, 4, 0), true},
		{"zero", Zero3(), false},
		{"tiny", V3(1e-12, 0, 0), false},
		{"nan", V3(math.NaN(), 0, 0), false},
		{"inf", V3(math.Inf(1), 0, 0), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := tc.v.TryNormalize()
			if ok != tc.ok {
				t.Fatalf("TryNormalize(%v) ok = %v, want %v", tc.v, ok, tc.ok)
			}
			if ok && math.Abs(n.Len()-1) > tol {
				t.Errorf("normalized length = %v, want 1", n.Len())
			}
			if !ok && n != Zero3() {
				t.Errorf("failed normalize returned %v, want zero", n)
			}
			if !tc.v.Normalize().IsFinite() {
				t.Errorf("Normalize(%v) produced non-finite components", tc.v)
			}
		})
	}
}

func TestQuatAxisAngleRotate(t *testing.T) {
	q := QuatAxisAngle(UnitX(), math.Pi/2)

	// Matches RotateX: +Y goes to +Z and +Z goes to -Y.
	if got := q.Rotate(UnitY()); !got.ApproxEqual(UnitZ(), tol) {
		t.Errorf("rotate Y = %v, want %v", got, UnitZ())
	}
	if got := q.Rotate(UnitZ()); !got.ApproxEqual(V3(0, -1, 0), tol) {
		t.Errorf("rotate Z = %v, want (0,-1,0)", got)
	}

	m := RotateX(math.Pi / 2)
	v := V3(0.3, -1.2, 2.5)
	if a, b := q.Rotate(v), m.MulVec3Dir(v); !a.ApproxEqual(b, tol) {
		t.Errorf("quat rotate %v != matrix rotate %v", a, b)
	}
	if a, b := q.Mat4().MulVec3Dir(v), m.MulVec3Dir(v); !a.ApproxEqual(b, tol) {
		t.Errorf("quat matrix %v != RotateX %v", a, b)
	}
}

func TestQuatMulComposes(t *testing.T) {
	a := QuatAxisAngle(UnitY(), 0.7)
	b := QuatAxisAngle(UnitX(), -0.4)
	v := V3(1, 2, 3)

	want := a.Rotate(b.Rotate(v))
	if got := a.Mul(b).Rotate(v); !got.ApproxEqual(want, tol) {
		t.Errorf("(a*b)v = %v, want a(b(v)) = %v", got, want)
	}
	if got := a.Conjugate().Rotate(a.Rotate(v)); !got.ApproxEqual(v, tol) {
		t.Errorf("conjugate did not undo rotation: %v", got)
	}
}

func TestQuatEulerMatchesMatrices(t *testing.T) {
	tests := []struct {
		name       string
		rx, ry, rz float64
	}{
		{"zero", 0, 0, 0},
		{"x only", math.Pi / 2, 0, 0},
		{"y only", 0, 0.7, 0},
		{"z only", 0, 0, -1.1},
		{"all", 0.3, -0.8, 2.4},
	}

	vectors := []Vec3{UnitX(), UnitY(), UnitZ(), V3(1, -2, 0.5)}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := QuatEuler(tc.rx, tc.ry, tc.rz)
			m := RotateZ(tc.rz).Mul(RotateY(tc.ry)).Mul(RotateX(tc.rx))
			for _, v := range vectors {
				if a, b := q.Rotate(v), m.MulVec3Dir(v); !a.ApproxEqual(b, tol) {
					t.Errorf("rotate %v: quat %v, matrices %v", v, a, b)
				}
				if a, b := q.Mat4().MulVec3(v), m.MulVec3(v); !a.ApproxEqual(b, tol) {
					t.Errorf("Mat4 %v: %v, want %v", v, a, b)
				}
			}
		})
	}
}

func TestQuatLookRotation(t *testing.T) {
	tests := []struct {
		name    string
		forward Vec3
		up      Vec3
	}{
		{"plus z", UnitZ(), UnitY()},
		{"minus z", V3(0, 0, -1), UnitY()},
		{"plus x", UnitX(), UnitY()},
		{"diagonal", V3(1, -2, 3), UnitY()},
		{"straight up", UnitY(), UnitY()},
		{"straight down", V3(0, -5, 0), UnitY()},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q := QuatLookRotation(tc.forward, tc.up)
			if math.Abs(q.Len()-1) > 1e-9 {
				t.Fatalf("quaternion not unit: %v", q.Len())
			}
			want := tc.forward.Normalize()
			if got := q.Rotate(UnitZ()); !got.ApproxEqual(want, 1e-9) {
				t.Errorf("forward = %v, want %v", got, want)
			}
			up := q.Rotate(UnitY())
			if math.Abs(up.Dot(want)) > 1e-9 {
				t.Errorf("up %v not orthogonal to forward", up)
			}
		})
	}

	if q := QuatLookRotation(UnitZ(), UnitY()); !q.Rotate(UnitX()).ApproxEqual(UnitX(), tol) {
		t.Errorf("looking down +Z with +Y up should be the identity, got %+v", q)
	}
	if q := QuatLookRotation(Zero3(), UnitY()); q != QuatIdentity() {
		t.Errorf("zero forward = %+v, want identity", q)
	}
}

func TestMat4TransformPoint(t *testing.T) {
	m := Translate(V3(0, 0, 5)).Mul(RotateX(math.Pi / 2))

	got := m.MulVec3(V3(1, 0, 1))
	want := V3(1, -1, 5)
	if !got.ApproxEqual(want, tol) {
		t.Errorf("MulVec3 = %v, want %v", got, want)
	}
	if tr := m.Translation(); !tr.ApproxEqual(V3(0, 0, 5), tol) {
		t.Errorf("Translation = %v", tr)
	}
	if d := m.MulVec3Dir(UnitY()); !d.ApproxEqual(UnitZ(), tol) {
		t.Errorf("MulVec3Dir ignores translation: got %v", d)
	}
}
