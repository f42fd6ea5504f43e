package mgadsm

import (
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

// Deg2rad converts degrees to radians.
func Deg2rad(d float64) float64 {
	return d * math.Pi / 180
}

// Rad2deg converts radians to degrees.
func Rad2deg(r float64) float64 {
	return r * 180 / math.Pi
}

// norm returns the norm of a given vector which is supposed to be 3x1.
func norm(v []float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}

// unit returns the unit vector of a given vector.
func unit(a []float64) (b []float64) {
	n := norm(a)
	if floats.EqualWithinAbs(n, 0, 1e-12) {
		return []float64{0, 0, 0}
	}
	b = make([]float64, len(a))
	for i, val := range a {
		b[i] = val / n
	}
	return
}

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// dot performs the inner product via mat64/BLAS.
func dot(a, b []float64) float64 {
	return mat64.Dot(mat64.NewVector(len(a), a), mat64.NewVector(len(b), b))
}

// cross performs the cross product.
func cross(a, b []float64) []float64 {
	return []float64{a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0]} // Cross product R x V.
}

// vecOf copies a mat64.Vector into a plain 3x1 slice.
func vecOf(v *mat64.Vector) []float64 {
	return []float64{v.At(0, 0), v.At(1, 0), v.At(2, 0)}
}

// subVecs returns a-b for two 3x1 slices.
func subVecs(a, b []float64) []float64 {
	return []float64{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// c2c3 computes the Stumpff-like c2 and c3 coefficients for a given ψ.
// Shared between the Lambert solver and the universal Kepler propagator.
func c2c3(ψ float64) (c2, c3 float64) {
	if ψ > 1e-6 {
		sψ := math.Sqrt(ψ)
		ssψ, csψ := math.Sincos(sψ)
		c2 = (1 - csψ) / ψ
		c3 = (sψ - ssψ) / math.Sqrt(math.Pow(ψ, 3))
	} else if ψ < -1e-6 {
		sψ := math.Sqrt(-ψ)
		c2 = (1 - math.Cosh(sψ)) / ψ
		c3 = (math.Sinh(sψ) - sψ) / math.Sqrt(math.Pow(-ψ, 3))
	} else {
		c2 = 1 / 2.
		c3 = 1 / 6.
	}
	return
}
