package physics

// ConstraintSolver iterates a set of constraints to convergence using
// XPBD's Lagrange-multiplier update with SOR (successive over-relaxation)
// acceleration, grounded line-for-line on
// original_source/src/physics/constraints.rs's ConstraintSolver.
type ConstraintSolver struct {
	// Omega is the SOR relaxation factor, spec §4.4 default 1.8, valid
	// range [1, 2].
	Omega float64
	// Tolerance is the per-constraint convergence threshold, default 1e-6.
	Tolerance float64
	// MaxIterations bounds the solve in case convergence is never reached.
	MaxIterations int
}

func NewConstraintSolver() *ConstraintSolver {
	return &ConstraintSolver{Omega: 1.8, Tolerance: 1e-6, MaxIterations: 50}
}

// Solve runs up to MaxIterations passes over constraints, applying the XPBD
// position update
//
//	dlambda = (-C - alpha*lambda) / (sum(invMass * |grad|^2) + alpha) * omega
//
// and terminating early once every constraint's error is within Tolerance
// (for a contact, a non-negative separation also counts as within it).
func (s *ConstraintSolver) Solve(constraints []Constraint, dt float64) {
	if len(constraints) == 0 {
		return
	}
	for _, c := range constraints {
		c.SetLambda(0)
	}
	for iter := 0; iter < s.MaxIterations; iter++ {
		converged := true
		for _, c := range constraints {
			cVal, grads := c.Evaluate()
			satisfied := cVal <= s.Tolerance && cVal >= -s.Tolerance
			if _, isContact := c.(*ContactConstraint); isContact {
				satisfied = SatisfiesTolerance(cVal, s.Tolerance)
			}
			if !satisfied {
				converged = false
			}
			invMasses := c.InvMasses()
			denom := c.Compliance()
			for i, g := range grads {
				denom += invMasses[i] * g.Dot(g)
			}
			if denom < 1e-12 {
				continue
			}
			dLambda := (-cVal - c.Compliance()*c.Lambda()) / denom * s.Omega
			c.SetLambda(c.Lambda() + dLambda)
			for i, g := range grads {
				if invMasses[i] == 0 {
					continue
				}
				dx := g.Scale(invMasses[i] * dLambda)
				c.ApplyCorrection(i, dx)
			}
			// Contact-only refinements (spec §4.5 step 3): the normal
			// impulse never attracts, and friction is a tangential
			// correction bounded by the Coulomb cone.
			if cc, ok := c.(*ContactConstraint); ok {
				cc.ClampLambda()
				cc.ApplyFriction()
			}
		}
		if converged {
			return
		}
	}
}

// Compliance computes XPBD's alpha = 1/(stiffness*dt^2); stiffness <= 0 is
// treated as infinitely stiff (alpha = 0), matching a rigid constraint.
func Compliance(stiffness, dt float64) float64 {
	if stiffness <= 0 {
		return 0
	}
	return 1 / (stiffness * dt * dt)
}
