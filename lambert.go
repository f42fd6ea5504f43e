package mgadsm

import (
	"errors"
	"fmt"
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

// TransferType defines the conic branch of a Lambert transfer.
type TransferType uint8

const (
	// TTypeAuto selects the branch from the transfer angle (zero revolutions).
	TTypeAuto TransferType = iota + 1
	// TType1 is transfer of type 1 (zero revolution, short way)
	TType1
	// TType2 is transfer of type 2 (zero revolution, long way)
	TType2
	// TType3 is transfer of type 3 (one revolution, short way)
	TType3
	// TType4 is transfer of type 4 (one revolution, long way)
	TType4
	lambertε  = 1e-4                   // General epsilon
	lambertTε = 1e-4                   // Time epsilon, seconds
	lambertνε = (5e-5 / 180) * math.Pi // 0.00005 degrees
)

// Longway returns whether or not this is the long way.
func (t TransferType) Longway() bool {
	switch t {
	case TType1, TType3:
		return false
	case TType2, TType4:
		return true
	default:
		panic(fmt.Errorf("cannot determine whether long or short way for %s", t))
	}
}

// Revs returns the number of revolutions given the type.
func (t TransferType) Revs() float64 {
	switch t {
	case TTypeAuto, TType1, TType2: // auto-revs is limited to zero revolutions
		return 0
	case TType3, TType4:
		return 1
	default:
		panic("unknown transfer type")
	}
}

func (t TransferType) String() string {
	switch t {
	case TTypeAuto:
		return "auto-revs"
	case TType1:
		return "type-1"
	case TType2:
		return "type-2"
	case TType3:
		return "type-3"
	case TType4:
		return "type-4"
	default:
		panic("unknown transfer type")
	}
}

// TransferTypeFromString parses a transfer type name ("auto", "type-1", ...).
func TransferTypeFromString(name string) (TransferType, error) {
	switch name {
	case "auto", "auto-revs":
		return TTypeAuto, nil
	case "type-1":
		return TType1, nil
	case "type-2":
		return TType2, nil
	case "type-3":
		return TType3, nil
	case "type-4":
		return TType4, nil
	default:
		return 0, fmt.Errorf("unknown transfer type '%s'", name)
	}
}

// Lambert solves the two-body boundary-value problem: given the initial and final
// radii (m), a time of flight (s) and a central body, it returns the initial and
// final velocity vectors (m/s) along with ψ, the square of the difference in
// eccentric anomaly. The universal-variable bisection is bounded to guarantee
// termination; non-convergence and degenerate geometry return an error which the
// evaluator wraps as a GeometryError.
func Lambert(Ri, Rf *mat64.Vector, tof float64, ttype TransferType, body CelestialObject) (Vi, Vf *mat64.Vector, ψ float64, err error) {
	// Initialize return variables
	Vi = mat64.NewVector(3, nil)
	Vf = mat64.NewVector(3, nil)
	// Sanity checks
	Rir, _ := Ri.Dims()
	Rfr, _ := Rf.Dims()
	if Rir != Rfr || Rir != 3 {
		err = errors.New("initial and final radii must be 3x1 vectors")
		return
	}
	if tof <= 0 {
		err = errors.New("time of flight must be strictly positive")
		return
	}
	rI := mat64.Norm(Ri, 2)
	rF := mat64.Norm(Rf, 2)
	cosΔν := mat64.Dot(Ri, Rf) / (rI * rF)
	// Compute the direction of motion
	νI := math.Atan2(Ri.At(1, 0), Ri.At(0, 0))
	νF := math.Atan2(Rf.At(1, 0), Rf.At(0, 0))
	dm := 1.0
	if ttype == TType2 || ttype == TType4 {
		dm = -1.0
	} else if ttype == TTypeAuto {
		Δν := νF - νI
		if Δν > 2*math.Pi {
			Δν -= 2 * math.Pi
		} else if Δν < 0 {
			Δν += 2 * math.Pi
		}
		if Δν > math.Pi {
			dm = -1.0
		} // We don't do the < math.Pi case because that's the initial value anyway.
	}

	A := dm * math.Sqrt(rI*rF*(1+cosΔν))
	if νF-νI < lambertνε && floats.EqualWithinAbs(A, 0, lambertε) {
		err = errors.New("cannot compute trajectory: Δν ~=0 and A ~=0")
		return
	}

	ψup := 4 * math.Pow(math.Pi, 2) * math.Pow(ttype.Revs()+1, 2)
	ψlow := -4 * math.Pi

	if ttype.Revs() > 0 {
		// Scan ψ for the minimum time of flight of the multi-revolution branch.
		Δtmin := math.Inf(1)
		ψBound := 0.0
		for ψP := 15.; ψP < ψup; ψP += 0.1 {
			c2, c3 := c2c3(ψP)
			y := rI + rF + A*(ψP*c3-1)/math.Sqrt(c2)
			χ := math.Sqrt(y / c2)
			Δt := (math.Pow(χ, 3)*c3 + A*math.Sqrt(y)) / math.Sqrt(body.μ)
			if Δtmin > Δt {
				Δtmin = Δt
				ψBound = ψP
			}
		}
		// Determine whether we are going up or down bounds.
		if ttype == TType3 {
			ψlow = ψup
			ψup = ψBound
		} else if ttype == TType4 {
			ψlow = ψBound
		}
	}
	// Initial guesses for c2 and c3
	c2 := 1 / 2.
	c3 := 1 / 6.
	var Δt, y float64
	var iteration uint
	for math.Abs(Δt-tof) > lambertTε {
		if iteration > 10000 {
			err = errors.New("did not converge after 10000 iterations")
			return
		}
		iteration++
		y = rI + rF + A*(ψ*c3-1)/math.Sqrt(c2)
		if A > 0 && y < 0 {
			tmpIt := 0
			for y < 0 {
				ψ += 0.1
				y = rI + rF + A*(ψ*c3-1)/math.Sqrt(c2)
				if tmpIt > 10000 {
					err = errors.New("did not converge after 10000 attempts to increase ψ")
					return
				}
				tmpIt++
			}
		}
		χ := math.Sqrt(y / c2)
		Δt = (math.Pow(χ, 3)*c3 + A*math.Sqrt(y)) / math.Sqrt(body.μ)
		if ttype != TType3 {
			if Δt <= tof {
				ψlow = ψ
			} else {
				ψup = ψ
			}
		} else {
			if Δt >= tof {
				ψlow = ψ
			} else {
				ψup = ψ
			}
		}
		ψ = (ψup + ψlow) / 2
		c2, c3 = c2c3(ψ)
	}
	f := 1 - y/rI
	gDot := 1 - y/rF
	g := A * math.Sqrt(y/body.μ)
	// Compute velocities
	Rf2 := mat64.NewVector(3, nil)
	Vi.AddScaledVec(Rf, -f, Ri)
	Vi.ScaleVec(1/g, Vi)
	Rf2.ScaleVec(gDot, Rf)
	Vf.AddScaledVec(Rf2, -1, Ri)
	Vf.ScaleVec(1/g, Vf)
	return
}
