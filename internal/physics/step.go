package physics

import "math"

// Step advances the world by dt seconds, implementing spec §4.5's four
// stages in order: integrate forces, detect collisions, solve constraints
// with XPBD, then finalize linear velocities from the position delta.
// Angular velocity keeps the value integrated in stage 1; it is not
// re-derived from the orientation delta.
// Grounded on original_source/src/physics/constraints.rs's step().
func Step(w *PhysicsWorld, dt float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.IsPaused || dt <= 0 {
		return
	}

	particles := make([]*Particle, len(w.Bodies))
	preNormalVel := make(map[[2]int]float64)

	// Stage 1: integrate forces (spec §4.5 step 1).
	for i, b := range w.Bodies {
		if b.IsStatic || b.IsKinematic {
			particles[i] = &Particle{Position: b.Position, PrevPosition: b.Position, InvMass: 0}
			continue
		}
		b.PrevPosition = b.Position
		b.PrevOrientation = b.Orientation

		linAccel := w.Gravity.Scale(b.GravityScale).Add(b.Force.Scale(b.InvMass))
		vel := b.LinearVel.Add(linAccel.Scale(dt))
		vel = vel.Scale(math.Max(0, 1-b.LinearDamping*dt))
		predicted := b.Position.Add(vel.Scale(dt))

		b.WorldInvInertia = WorldInverseInertia(b.Orientation, b.InvInertiaBody)
		angVel := b.AngularVel.Add(b.WorldInvInertia.MulVec3(b.Torque).Scale(dt))
		angVel = angVel.Scale(math.Max(0, 1-b.AngularDamping*dt))
		b.Orientation = b.Orientation.Integrate(angVel, dt)
		b.AngularVel = angVel

		b.Force, b.Torque = Vec3{}, Vec3{}
		particles[i] = &Particle{Position: predicted, PrevPosition: b.Position, Velocity: vel, InvMass: b.InvMass}
	}

	// Stage 2: collision detection against the predicted positions.
	var constraints []Constraint
	for _, pair := range BroadPhasePairs(w.Bodies) {
		i, j := pair[0], pair[1]
		a, b := w.Bodies[i], w.Bodies[j]
		saved := [2]Vec3{a.Position, b.Position}
		a.Position, b.Position = particles[i].Position, particles[j].Position
		contact, ok := NarrowPhase(i, j, a, b)
		a.Position, b.Position = saved[0], saved[1]
		if !ok {
			continue
		}
		relVel := particles[i].Velocity.Sub(particles[j].Velocity)
		preNormalVel[pair] = relVel.Dot(contact.Normal)

		cc := &ContactConstraint{
			A: particles[i], B: particles[j],
			Normal: contact.Normal, Separation: contact.Separation,
			Friction:    math.Max(a.Friction, b.Friction),
			Restitution: math.Min(a.Restitution, b.Restitution),
		}
		cc.SetCompliance(0)
		constraints = append(constraints, cc)
	}

	// Soft-body Verlet prediction and internal constraints (spec §4.5
	// "Soft-body (PBD) constraints").
	for _, sb := range w.SoftBodies {
		for _, c := range sb.Constraints {
			if dc, ok := c.(*DistanceConstraint); ok {
				dc.SetCompliance(Compliance(dc.Stiffness*1e6, dt))
			}
		}
		constraints = append(constraints, sb.Constraints...)
		for _, p := range sb.Particles {
			if p.Pinned {
				continue
			}
			old := p.Position
			p.Position = p.Position.Scale(2).Sub(p.PrevPosition).Add(w.Gravity.Scale(dt * dt))
			p.PrevPosition = old
		}
	}

	// Stage 3: XPBD constraint solve.
	w.Solver.Solve(constraints, dt)

	// Stage 4: finalize linear velocities from the position delta (angular
	// velocity is left as integrated in stage 1), then apply a velocity-level restitution bounce along each contact
	// normal (Müller et al.'s XPBD restitution pass).
	for i, b := range w.Bodies {
		if b.IsStatic || b.IsKinematic {
			continue
		}
		b.Position = particles[i].Position
		b.LinearVel = b.Position.Sub(b.PrevPosition).Scale(1 / dt)
	}
	for pair, vPre := range preNormalVel {
		i, j := pair[0], pair[1]
		a, b := w.Bodies[i], w.Bodies[j]
		restitution := math.Min(a.Restitution, b.Restitution)
		if restitution <= 0 {
			continue
		}
		normal := particles[j].Position.Sub(particles[i].Position).Normalize()
		vPost := a.LinearVel.Sub(b.LinearVel).Dot(normal)
		target := math.Min(-restitution*vPre, 0)
		delta := target - vPost
		if delta == 0 {
			continue
		}
		denom := a.InvMass + b.InvMass
		if denom < 1e-12 {
			continue
		}
		impulse := normal.Scale(delta / denom)
		if !a.IsStatic && !a.IsKinematic {
			a.LinearVel = a.LinearVel.Add(impulse.Scale(a.InvMass))
		}
		if !b.IsStatic && !b.IsKinematic {
			b.LinearVel = b.LinearVel.Sub(impulse.Scale(b.InvMass))
		}
	}
	for _, sb := range w.SoftBodies {
		for _, p := range sb.Particles {
			if p.InvMass == 0 || p.Pinned {
				continue
			}
			p.Velocity = p.Position.Sub(p.PrevPosition).Scale(1 / dt)
		}
	}
}
