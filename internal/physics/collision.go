package physics

import "math"

// AABB is an axis-aligned bounding box used for broad-phase pruning.
type AABB struct{ Min, Max Vec3 }

func BoundsOf(b *RigidBody) AABB {
	switch s := b.Shape.(type) {
	case SphereShape:
		r := Vec3{s.Radius, s.Radius, s.Radius}
		return AABB{Min: b.Position.Sub(r), Max: b.Position.Add(r)}
	case BoxShape:
		return AABB{Min: b.Position.Sub(s.HalfExtents), Max: b.Position.Add(s.HalfExtents)}
	default:
		return AABB{Min: b.Position, Max: b.Position}
	}
}

func (a AABB) Overlaps(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// BroadPhasePairs returns the index pairs (i < j) of bodies whose AABBs
// overlap, the candidate set the narrow phase then tests exactly.
func BroadPhasePairs(bodies []*RigidBody) [][2]int {
	var pairs [][2]int
	bounds := make([]AABB, len(bodies))
	for i, b := range bodies {
		bounds[i] = BoundsOf(b)
	}
	for i := 0; i < len(bodies); i++ {
		for j := i + 1; j < len(bodies); j++ {
			if bounds[i].Overlaps(bounds[j]) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}

// Contact describes a detected penetration between two bodies, in the form
// the XPBD solver's ContactConstraint consumes.
type Contact struct {
	A, B       int // indices into the world's body slice
	Normal     Vec3
	Separation float64 // negative when penetrating
}

// NarrowPhase dispatches to the shape-pair test appropriate for a and b,
// grounded on original_source/src/physics/rigid_body.rs's collision
// dispatch table (sphere-sphere, sphere-box, box-box).
func NarrowPhase(ai, bi int, a, b *RigidBody) (Contact, bool) {
	switch as := a.Shape.(type) {
	case SphereShape:
		switch bs := b.Shape.(type) {
		case SphereShape:
			return sphereSphere(ai, bi, a, as, b, bs)
		case BoxShape:
			return sphereBox(ai, bi, a, as, b, bs)
		}
	case BoxShape:
		switch bs := b.Shape.(type) {
		case SphereShape:
			c, ok := sphereBox(bi, ai, b, bs, a, as)
			if ok {
				c.A, c.B = ai, bi
				c.Normal = c.Normal.Negate()
			}
			return c, ok
		case BoxShape:
			return boxBox(ai, bi, a, as, b, bs)
		}
	}
	return Contact{}, false
}

func sphereSphere(ai, bi int, a *RigidBody, as SphereShape, b *RigidBody, bs SphereShape) (Contact, bool) {
	delta := b.Position.Sub(a.Position)
	dist := delta.Length()
	sep := dist - (as.Radius + bs.Radius)
	if sep >= 0 {
		return Contact{}, false
	}
	normal := delta.Normalize()
	if dist < 1e-9 {
		normal = Vec3{0, 1, 0}
	}
	return Contact{A: ai, B: bi, Normal: normal, Separation: sep}, true
}

// sphereBox approximates sphere-box separation via closest-point-on-box,
// sufficient for the contact-generation fidelity this solver targets.
func sphereBox(ai, bi int, a *RigidBody, as SphereShape, b *RigidBody, bs BoxShape) (Contact, bool) {
	local := a.Position.Sub(b.Position)
	closest := Vec3{
		clamp(local.X, -bs.HalfExtents.X, bs.HalfExtents.X),
		clamp(local.Y, -bs.HalfExtents.Y, bs.HalfExtents.Y),
		clamp(local.Z, -bs.HalfExtents.Z, bs.HalfExtents.Z),
	}
	delta := local.Sub(closest)
	dist := delta.Length()
	sep := dist - as.Radius
	if sep >= 0 {
		return Contact{}, false
	}
	normal := delta.Negate().Normalize()
	if dist < 1e-9 {
		normal = Vec3{0, 1, 0}
	}
	return Contact{A: ai, B: bi, Normal: normal, Separation: sep}, true
}

// boxBox uses a simplified separating-axis test over the world axes only
// (no rotation support), the same CPU-path fidelity the GPU directive's
// host fallback requires.
func boxBox(ai, bi int, a *RigidBody, as BoxShape, b *RigidBody, bs BoxShape) (Contact, bool) {
	delta := b.Position.Sub(a.Position)
	overlapX := (as.HalfExtents.X + bs.HalfExtents.X) - math.Abs(delta.X)
	overlapY := (as.HalfExtents.Y + bs.HalfExtents.Y) - math.Abs(delta.Y)
	overlapZ := (as.HalfExtents.Z + bs.HalfExtents.Z) - math.Abs(delta.Z)
	if overlapX <= 0 || overlapY <= 0 || overlapZ <= 0 {
		return Contact{}, false
	}
	sep := -math.Min(overlapX, math.Min(overlapY, overlapZ))
	var normal Vec3
	switch {
	case overlapX <= overlapY && overlapX <= overlapZ:
		normal = Vec3{sign(delta.X), 0, 0}
	case overlapY <= overlapZ:
		normal = Vec3{0, sign(delta.Y), 0}
	default:
		normal = Vec3{0, 0, sign(delta.Z)}
	}
	return Contact{A: ai, B: bi, Normal: normal, Separation: sep}, true
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
