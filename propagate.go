package mgadsm

import (
	"errors"
	"math"
)

// KeplerPropagate advances the state (R0, V0) around the given body by dt seconds
// along the unperturbed conic, using the universal-variable formulation (f and g
// functions). It handles elliptic and hyperbolic arcs. The Newton iteration is
// bounded to guarantee termination.
func KeplerPropagate(R0, V0 []float64, dt float64, body CelestialObject) (R, V []float64, err error) {
	if dt == 0 {
		R = append([]float64{}, R0...)
		V = append([]float64{}, V0...)
		return
	}
	sqrtμ := math.Sqrt(body.μ)
	r0 := norm(R0)
	v0 := norm(V0)
	rdotv := dot(R0, V0)
	α := 2/r0 - v0*v0/body.μ // reciprocal of the semi-major axis

	var χ float64
	switch {
	case α > 1e-12:
		// Elliptic
		χ = sqrtμ * dt * α
	case α < -1e-12:
		// Hyperbolic
		a := 1 / α
		χ = sign(dt) * math.Sqrt(-a) * math.Log((-2*body.μ*α*dt)/(rdotv+sign(dt)*math.Sqrt(-body.μ*a)*(1-r0*α)))
	default:
		// Near-parabolic
		h := cross(R0, V0)
		p := dot(h, h) / body.μ
		s := 0.5 * math.Atan(1/(3*math.Sqrt(body.μ/math.Pow(p, 3))*dt))
		w := math.Atan(math.Cbrt(math.Tan(s)))
		χ = math.Sqrt(p) * 2 / math.Tan(2*w)
	}

	var r, ψ, c2, c3 float64
	converged := false
	for iter := 0; iter < 1000; iter++ {
		ψ = χ * χ * α
		c2, c3 = c2c3(ψ)
		r = χ*χ*c2 + (rdotv/sqrtμ)*χ*(1-ψ*c3) + r0*(1-ψ*c2)
		χNew := χ + (sqrtμ*dt-math.Pow(χ, 3)*c3-(rdotv/sqrtμ)*χ*χ*c2-r0*χ*(1-ψ*c3))/r
		if math.Abs(χNew-χ) < 1e-8 {
			χ = χNew
			converged = true
			break
		}
		χ = χNew
	}
	if !converged {
		err = errors.New("universal Kepler propagation did not converge after 1000 iterations")
		return
	}
	ψ = χ * χ * α
	c2, c3 = c2c3(ψ)
	r = χ*χ*c2 + (rdotv/sqrtμ)*χ*(1-ψ*c3) + r0*(1-ψ*c2)

	f := 1 - χ*χ*c2/r0
	g := dt - math.Pow(χ, 3)*c3/sqrtμ
	fDot := sqrtμ * χ * (ψ*c3 - 1) / (r * r0)
	gDot := 1 - χ*χ*c2/r

	R = make([]float64, 3)
	V = make([]float64, 3)
	for i := 0; i < 3; i++ {
		R[i] = f*R0[i] + g*V0[i]
		V[i] = fDot*R0[i] + gDot*V0[i]
	}
	return
}
