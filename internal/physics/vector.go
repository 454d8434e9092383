// Package physics implements the XPBD (Extended Position-Based Dynamics)
// constraint solver and rigid/soft body registry described in spec §4.4 and
// §9, grounded on original_source/src/physics/rigid_body.rs and
// constraints.rs.
package physics

import "math"

// Vec3 is a 3-component vector used for position, velocity, and force.
type Vec3 struct{ X, Y, Z float64 }

func (a Vec3) Add(b Vec3) Vec3   { return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }
func (a Vec3) Sub(b Vec3) Vec3   { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }
func (a Vec3) Scale(s float64) Vec3 { return Vec3{a.X * s, a.Y * s, a.Z * s} }
func (a Vec3) Dot(b Vec3) float64   { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

func (a Vec3) Length() float64 { return math.Sqrt(a.Dot(a)) }

func (a Vec3) Normalize() Vec3 {
	l := a.Length()
	if l < 1e-12 {
		return Vec3{}
	}
	return a.Scale(1 / l)
}

func (a Vec3) Negate() Vec3 { return Vec3{-a.X, -a.Y, -a.Z} }

// Zero is the additive identity.
var Zero = Vec3{}

// Mat3 is a row-major 3x3 matrix, used to carry a rigid body's world-frame
// inverse inertia tensor (spec §4.5 step 1: "update world-frame inverse
// inertia tensor from current orientation").
type Mat3 struct {
	M [3][3]float64
}

// Diag3 builds a diagonal matrix from a body-frame principal inertia
// vector, the shape every RigidBody's inertia tensor takes before it is
// rotated into world space.
func Diag3(v Vec3) Mat3 {
	var m Mat3
	m.M[0][0], m.M[1][1], m.M[2][2] = v.X, v.Y, v.Z
	return m
}

func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		X: m.M[0][0]*v.X + m.M[0][1]*v.Y + m.M[0][2]*v.Z,
		Y: m.M[1][0]*v.X + m.M[1][1]*v.Y + m.M[1][2]*v.Z,
		Z: m.M[2][0]*v.X + m.M[2][1]*v.Y + m.M[2][2]*v.Z,
	}
}

func (m Mat3) Transpose() Mat3 {
	var t Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t.M[j][i] = m.M[i][j]
		}
	}
	return t
}

func (a Mat3) Mul(b Mat3) Mat3 {
	var out Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a.M[i][k] * b.M[k][j]
			}
			out.M[i][j] = sum
		}
	}
	return out
}

// RotationMatrix converts a unit quaternion to its equivalent 3x3 rotation
// matrix R, used to transform the body-frame inverse inertia tensor into
// world space as R * I_body^-1 * R^T (spec §4.5 step 1).
func (q Quaternion) RotationMatrix() Mat3 {
	x, y, z, w := q.X, q.Y, q.Z, q.W
	return Mat3{M: [3][3]float64{
		{1 - 2*(y*y+z*z), 2 * (x*y - z*w), 2 * (x*z + y*w)},
		{2 * (x*y + z*w), 1 - 2*(x*x+z*z), 2 * (y*z - x*w)},
		{2 * (x*z - y*w), 2 * (y*z + x*w), 1 - 2*(x*x+y*y)},
	}}
}

// WorldInverseInertia computes R * diag(invBody) * R^T, the world-frame
// inverse inertia tensor used to convert accumulated torque into angular
// acceleration (spec §4.5 step 1; zero matrix for static bodies per §3.6).
func WorldInverseInertia(orientation Quaternion, invBody Vec3) Mat3 {
	r := orientation.RotationMatrix()
	return r.Mul(Diag3(invBody)).Mul(r.Transpose())
}
