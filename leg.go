package mgadsm

import (
	"fmt"

	"github.com/gonum/matrix/mat64"
)

// LegType defines how every leg of a transfer is solved. It is fixed for the
// whole trajectory at construction.
type LegType uint8

const (
	// LegUnpoweredUnperturbed solves each leg as a single unperturbed conic arc.
	LegUnpoweredUnperturbed LegType = iota + 1
	// LegDSMPosition splits each leg at an interior epoch into two conic arcs
	// joined at an explicit maneuver position; the velocity discontinuity at the
	// split is the deep-space maneuver. Four free parameters per leg: the time
	// fraction and the maneuver position vector.
	LegDSMPosition
)

func (lt LegType) String() string {
	switch lt {
	case LegUnpoweredUnperturbed:
		return "unpowered-unperturbed"
	case LegDSMPosition:
		return "dsm-position"
	default:
		panic("unknown leg type")
	}
}

// LegTypeFromString parses a leg type name.
func LegTypeFromString(name string) (LegType, error) {
	switch name {
	case "unpowered-unperturbed", "unpowered_unperturbed_leg_type":
		return LegUnpoweredUnperturbed, nil
	case "dsm-position", "dsm_position_based_leg_type":
		return LegDSMPosition, nil
	default:
		return 0, fmt.Errorf("%w: '%s'", ErrUnknownLegType, name)
	}
}

// freeParams returns the number of per-leg free parameters this leg type consumes.
func (lt LegType) freeParams() int {
	switch lt {
	case LegUnpoweredUnperturbed:
		return 0
	case LegDSMPosition:
		return 4
	default:
		panic("unknown leg type")
	}
}

// Maneuver is an impulsive deep-space maneuver interior to a leg.
type Maneuver struct {
	Epoch float64   // seconds past J2000
	R     []float64 // heliocentric position of the burn, m
	ΔV    []float64 // velocity discontinuity, m/s
}

// Magnitude returns the delta-v magnitude of this maneuver.
func (m Maneuver) Magnitude() float64 {
	return norm(m.ΔV)
}

// Leg spans two consecutive nodes of the transfer.
type Leg struct {
	From, To           CelestialObject
	DepEpoch, ArrEpoch float64
	RDep, RArr         []float64     // boundary positions, m
	VDep, VArr         *mat64.Vector // resolved heliocentric boundary velocities, m/s
	DSM                *Maneuver     // nil for unpowered legs
}

// TOF returns the time of flight of this leg in seconds.
func (l Leg) TOF() float64 {
	return l.ArrEpoch - l.DepEpoch
}

// DeltaV returns the delta-v expended inside this leg (zero if unpowered).
func (l Leg) DeltaV() float64 {
	if l.DSM == nil {
		return 0
	}
	return l.DSM.Magnitude()
}

// solveLeg resolves the boundary velocities of leg idx between the provided
// boundary positions and epochs. free holds the per-leg free parameters consumed
// by DSM-capable variants. All failures are wrapped as GeometryError so that a
// batch caller can mark the sample invalid without aborting.
func solveLeg(lt LegType, ttype TransferType, idx int, RDep, RArr []float64, t0, t1 float64, free []float64, body CelestialObject) (VDep, VArr *mat64.Vector, dsm *Maneuver, err error) {
	switch lt {
	case LegUnpoweredUnperturbed:
		Vi, Vf, _, lErr := Lambert(mat64.NewVector(3, RDep), mat64.NewVector(3, RArr), t1-t0, ttype, body)
		if lErr != nil {
			return nil, nil, nil, GeometryError{Leg: idx, Cause: lErr}
		}
		return Vi, Vf, nil, nil
	case LegDSMPosition:
		η := free[0]
		if η <= 0 || η >= 1 {
			return nil, nil, nil, GeometryError{Leg: idx, Cause: fmt.Errorf("DSM time fraction %f not in (0,1)", η)}
		}
		Rm := []float64{free[1], free[2], free[3]}
		tm := t0 + η*(t1-t0)
		Vi1, Vf1, _, lErr := Lambert(mat64.NewVector(3, RDep), mat64.NewVector(3, Rm), tm-t0, ttype, body)
		if lErr != nil {
			return nil, nil, nil, GeometryError{Leg: idx, Cause: lErr}
		}
		Vi2, Vf2, _, lErr := Lambert(mat64.NewVector(3, Rm), mat64.NewVector(3, RArr), t1-tm, ttype, body)
		if lErr != nil {
			return nil, nil, nil, GeometryError{Leg: idx, Cause: lErr}
		}
		ΔV := make([]float64, 3)
		for i := 0; i < 3; i++ {
			ΔV[i] = Vi2.At(i, 0) - Vf1.At(i, 0)
		}
		return Vi1, Vf2, &Maneuver{Epoch: tm, R: Rm, ΔV: ΔV}, nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: %d", ErrUnknownLegType, lt)
	}
}
