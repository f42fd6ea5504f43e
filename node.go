package mgadsm

import (
	"math"
)

// NodeRole is the role of a body encounter in the transfer.
type NodeRole uint8

const (
	// RoleDeparture is the first node of the transfer.
	RoleDeparture NodeRole = iota + 1
	// RoleSwingby is an interior gravity-assist node.
	RoleSwingby
	// RoleArrival is the last node of the transfer.
	RoleArrival
)

func (r NodeRole) String() string {
	switch r {
	case RoleDeparture:
		return "departure"
	case RoleSwingby:
		return "swing-by"
	case RoleArrival:
		return "arrival"
	default:
		panic("unknown node role")
	}
}

// ParkingOrbit describes an optional departure or insertion orbit about a node body.
// An infinite semi-major axis means the orbit is unbounded (already at escape).
type ParkingOrbit struct {
	Eccentricity  float64
	SemiMajorAxis float64 // m
}

// Unbounded returns whether this parking orbit reaches infinity.
func (p ParkingOrbit) Unbounded() bool {
	return math.IsInf(p.SemiMajorAxis, 1) || p.Eccentricity >= 1
}

// Periapsis returns the periapsis radius of the parking orbit.
func (p ParkingOrbit) Periapsis() float64 {
	return p.SemiMajorAxis * (1 - p.Eccentricity)
}

// Node is one body encounter of the transfer.
type Node struct {
	Body  CelestialObject
	Role  NodeRole
	Epoch float64 // seconds past J2000

	// Heliocentric velocities on each side of the encounter (m/s). VIn is nil on
	// the departure node and VOut is nil on the arrival node.
	VIn, VOut []float64
	// Hyperbolic excess velocity vectors wrt the body (m/s).
	VInfIn, VInfOut []float64
	// ΔV is the impulsive maneuver applied at this node, m/s.
	ΔV float64
	// Orbit is the optional parking (departure) or insertion (arrival) orbit.
	Orbit *ParkingOrbit

	// Swing-by diagnostics, only set on swing-by nodes.
	TurnAngle       float64 // ψ, radians
	PeriapsisRadius float64 // rP of the assist hyperbola, m
	BT, BR          float64 // B-plane components, m
}

// resolve computes the node delta-v from its excess velocity vectors.
// Swing-bys are unpowered: the bending is resolved by the adjacent leg solves,
// so their delta-v is zero and only the assist diagnostics are filled in.
func (n *Node) resolve() {
	switch n.Role {
	case RoleDeparture:
		n.ΔV = escapeDeltaV(norm(n.VInfOut), n.Orbit, n.Body)
	case RoleArrival:
		if n.Orbit == nil {
			// Flyby-only arrival.
			n.ΔV = 0
			return
		}
		n.ΔV = escapeDeltaV(norm(n.VInfIn), n.Orbit, n.Body)
	case RoleSwingby:
		n.ΔV = 0
		n.TurnAngle, n.PeriapsisRadius, n.BT, n.BR, _, _ = GAFromVinf(n.VInfIn, n.VInfOut, n.Body)
	}
}

// escapeDeltaV returns the impulsive delta-v bridging the periapsis speed of the
// escape/capture hyperbola and the periapsis speed of the parking orbit. A nil or
// unbounded orbit contributes no orbital speed, so the delta-v limits to the
// hyperbolic excess speed itself.
func escapeDeltaV(vInf float64, orbit *ParkingOrbit, body CelestialObject) float64 {
	if orbit == nil || orbit.Unbounded() {
		return vInf
	}
	rP := orbit.Periapsis()
	vHyp := math.Sqrt(vInf*vInf + 2*body.μ/rP)
	vOrb := math.Sqrt(body.μ * (1 + orbit.Eccentricity) / rP)
	return math.Abs(vHyp - vOrb)
}

// GATurnAngle computes the turn angle about a given body based on the radius of periapsis.
func GATurnAngle(vInf, rP float64, body CelestialObject) float64 {
	ρ := math.Acos(1 / (1 + math.Pow(vInf, 2)*(rP/body.μ)))
	return math.Pi - 2*ρ
}

// GAFromVinf computes gravity assist parameters about a given body from the V infinity vectors.
// All angles are in radians!
func GAFromVinf(vInfInVec, vInfOutVec []float64, body CelestialObject) (ψ, rP, bT, bR, B, θ float64) {
	vInfIn := norm(vInfInVec)
	vInfOut := norm(vInfOutVec)
	ψ = math.Acos(dot(vInfInVec, vInfOutVec) / (vInfIn * vInfOut))
	rP = (body.μ / math.Pow(vInfIn, 2)) * (1/math.Cos((math.Pi-ψ)/2) - 1)
	k := []float64{0, 0, 1}
	sHat := unit(vInfInVec)
	tHat := unit(cross(sHat, k))
	rHat := unit(cross(sHat, tHat))
	hHat := unit(cross(vInfInVec, vInfOutVec))
	bVec := unit(cross(sHat, hHat))
	bVal := (body.μ / math.Pow(vInfIn, 2)) * math.Sqrt(math.Pow(1+math.Pow(vInfIn, 2)*(rP/body.μ), 2)-1)
	for i := 0; i < 3; i++ {
		bVec[i] *= bVal
	}
	bT = dot(bVec, tHat)
	bR = dot(bVec, rHat)
	B = norm(bVec)
	θ = math.Atan2(bT, bR)
	return
}
