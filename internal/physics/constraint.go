package physics

import "math"

// Constraint is one XPBD position constraint: given the current particle
// positions it reports its scalar error C and the per-particle gradient of
// C, and carries its own accumulated Lagrange multiplier (spec §4.4,
// grounded on original_source/src/physics/constraints.rs's Constraint
// trait).
type Constraint interface {
	// Evaluate returns the constraint error C(x) and the gradient of C
	// with respect to each participating particle's position, in the same
	// order as Particles().
	Evaluate() (c float64, gradients []Vec3)
	Particles() []*Particle
	InvMasses() []float64
	Compliance() float64 // alpha = 1/(stiffness*dt^2), set by Step each step for contacts and soft-body distance constraints
	SetCompliance(alpha float64)
	Lambda() float64
	SetLambda(v float64)
	ApplyCorrection(i int, dx Vec3)
}

// DistanceConstraint keeps two particles at RestLength apart; used for
// soft-body "springs" (rigid body contacts use ContactConstraint).
type DistanceConstraint struct {
	A, B       *Particle
	RestLength float64
	Stiffness  float64 // Step sets compliance 1/(Stiffness*1e6*dt^2): larger is stiffer, <= 0 is rigid
	alpha      float64
	lambda     float64
}

func NewDistanceConstraint(a, b *Particle, restLength, stiffness float64) *DistanceConstraint {
	return &DistanceConstraint{A: a, B: b, RestLength: restLength, Stiffness: stiffness}
}

func (d *DistanceConstraint) Evaluate() (float64, []Vec3) {
	delta := d.B.Position.Sub(d.A.Position)
	dist := delta.Length()
	c := dist - d.RestLength
	var dir Vec3
	if dist > 1e-9 {
		dir = delta.Scale(1 / dist)
	}
	return c, []Vec3{dir.Negate(), dir}
}

func (d *DistanceConstraint) Particles() []*Particle    { return []*Particle{d.A, d.B} }
func (d *DistanceConstraint) InvMasses() []float64      { return []float64{d.A.InvMass, d.B.InvMass} }
func (d *DistanceConstraint) Compliance() float64       { return d.alpha }
func (d *DistanceConstraint) SetCompliance(alpha float64) { d.alpha = alpha }
func (d *DistanceConstraint) Lambda() float64           { return d.lambda }
func (d *DistanceConstraint) SetLambda(v float64)       { d.lambda = v }
func (d *DistanceConstraint) ApplyCorrection(i int, dx Vec3) {
	if i == 0 {
		d.A.Position = d.A.Position.Add(dx)
	} else {
		d.B.Position = d.B.Position.Add(dx)
	}
}

// ContactConstraint is a one-sided non-penetration constraint between two
// particles (or a particle and the static world, when B is nil) produced
// by narrow-phase collision detection each step. Friction and Restitution
// are the combined material coefficients (spec §4.5 step 2: "friction
// max(f_A, f_B) and restitution min(r_A, r_B)").
type ContactConstraint struct {
	A, B        *Particle
	Normal      Vec3    // points from A to B
	Separation  float64 // negative = penetrating
	Friction    float64
	Restitution float64
	alpha       float64
	lambda      float64
}

func (cc *ContactConstraint) Evaluate() (float64, []Vec3) {
	if cc.B == nil {
		return cc.Separation, []Vec3{cc.Normal.Negate()}
	}
	return cc.Separation, []Vec3{cc.Normal.Negate(), cc.Normal}
}

func (cc *ContactConstraint) Particles() []*Particle {
	if cc.B == nil {
		return []*Particle{cc.A}
	}
	return []*Particle{cc.A, cc.B}
}

func (cc *ContactConstraint) InvMasses() []float64 {
	if cc.B == nil {
		return []float64{cc.A.InvMass}
	}
	return []float64{cc.A.InvMass, cc.B.InvMass}
}

func (cc *ContactConstraint) Compliance() float64         { return cc.alpha }
func (cc *ContactConstraint) SetCompliance(alpha float64) { cc.alpha = alpha }
func (cc *ContactConstraint) Lambda() float64             { return cc.lambda }
func (cc *ContactConstraint) SetLambda(v float64)         { cc.lambda = v }
func (cc *ContactConstraint) ApplyCorrection(i int, dx Vec3) {
	if i == 0 {
		cc.A.Position = cc.A.Position.Add(dx)
	} else if cc.B != nil {
		cc.B.Position = cc.B.Position.Add(dx)
	}
}

// ClampLambda enforces spec §4.5's contact invariant "lambda_normal is
// clamped to >= 0 each iteration (no attractive normal impulses)".
func (cc *ContactConstraint) ClampLambda() {
	if cc.lambda < 0 {
		cc.lambda = 0
	}
}

// ApplyFriction applies a tangential position correction bounded by the
// Coulomb cone `mu * lambda_normal` (spec §4.5 step 3's contact friction
// rule), derived from the tangential component of each particle's motion
// since the start of the step.
func (cc *ContactConstraint) ApplyFriction() {
	if cc.lambda <= 0 {
		return
	}
	dA := cc.A.Position.Sub(cc.A.PrevPosition)
	var dB Vec3
	if cc.B != nil {
		dB = cc.B.Position.Sub(cc.B.PrevPosition)
	}
	relDisp := dA.Sub(dB)
	tangential := relDisp.Sub(cc.Normal.Scale(relDisp.Dot(cc.Normal)))
	tLen := tangential.Length()
	if tLen < 1e-12 {
		return
	}
	wA := cc.A.InvMass
	wB := 0.0
	if cc.B != nil {
		wB = cc.B.InvMass
	}
	denom := wA + wB
	if denom < 1e-12 {
		return
	}
	maxSlip := cc.Friction * cc.lambda
	corrLen := math.Min(tLen, maxSlip)
	corr := tangential.Scale(corrLen / tLen)
	cc.A.Position = cc.A.Position.Sub(corr.Scale(wA / denom))
	if cc.B != nil {
		cc.B.Position = cc.B.Position.Add(corr.Scale(wB / denom))
	}
}

// FixedJointConstraint pins B to a fixed offset from A along each axis
// independently, run through the same Lagrange-multiplier machinery as
// every other constraint (spec §4.5 "For fixed joints the same machinery
// runs per axis x/y/z"). Axis selects which single world axis (X/Y/Z) this
// instance constrains; a full fixed joint is three of these, one per axis.
type FixedJointConstraint struct {
	A, B   *Particle
	Offset Vec3 // desired B.Position - A.Position
	Axis   Vec3 // unit axis this instance constrains, e.g. {1,0,0}
	alpha  float64
	lambda float64
}

func NewFixedJoint(a, b *Particle, offset Vec3) []*FixedJointConstraint {
	return []*FixedJointConstraint{
		{A: a, B: b, Offset: offset, Axis: Vec3{1, 0, 0}},
		{A: a, B: b, Offset: offset, Axis: Vec3{0, 1, 0}},
		{A: a, B: b, Offset: offset, Axis: Vec3{0, 0, 1}},
	}
}

func (fj *FixedJointConstraint) Evaluate() (float64, []Vec3) {
	actual := fj.B.Position.Sub(fj.A.Position)
	c := actual.Sub(fj.Offset).Dot(fj.Axis)
	return c, []Vec3{fj.Axis.Negate(), fj.Axis}
}

func (fj *FixedJointConstraint) Particles() []*Particle { return []*Particle{fj.A, fj.B} }
func (fj *FixedJointConstraint) InvMasses() []float64 {
	return []float64{fj.A.InvMass, fj.B.InvMass}
}
func (fj *FixedJointConstraint) Compliance() float64         { return fj.alpha }
func (fj *FixedJointConstraint) SetCompliance(alpha float64) { fj.alpha = alpha }
func (fj *FixedJointConstraint) Lambda() float64             { return fj.lambda }
func (fj *FixedJointConstraint) SetLambda(v float64)         { fj.lambda = v }
func (fj *FixedJointConstraint) ApplyCorrection(i int, dx Vec3) {
	if i == 0 {
		fj.A.Position = fj.A.Position.Add(dx)
	} else {
		fj.B.Position = fj.B.Position.Add(dx)
	}
}

// SatisfiesTolerance reports whether a contact is resolved to within tol
// (non-penetrating, within numerical slack), used by the solver's
// early-exit termination check (spec §4.4's default tolerance 1e-6).
func SatisfiesTolerance(c, tol float64) bool {
	return math.Abs(c) <= tol || c >= 0
}
