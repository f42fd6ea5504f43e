package mgadsm

import (
	"math"
	"testing"

	"github.com/gonum/floats"
)

func TestR3(t *testing.T) {
	// Rotating the x axis by π/2 about the z axis lands on -y in the rotated frame.
	out := MxV33(R3(math.Pi/2), []float64{1, 0, 0})
	exp := []float64{0, -1, 0}
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(out[i], exp[i], 1e-12) {
			t.Fatalf("R3(π/2)·x = %+v", out)
		}
	}
}

func TestPQW2ECIIdentity(t *testing.T) {
	v := []float64{1.5e11, -2e10, 3e9}
	out := PQW2ECI(0, 0, 0, v)
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(out[i], v[i], 1e-3) {
			t.Fatalf("PQW2ECI with zero angles must be the identity, got %+v", out)
		}
	}
}

func TestGEO2BodyFixed(t *testing.T) {
	// North pole.
	pole := GEO2BodyFixed(0, math.Pi/2, 0, Earth)
	if !floats.EqualWithinAbs(pole[2], Earth.Radius, 1e-6) {
		t.Fatalf("north pole z = %f", pole[2])
	}
	if !floats.EqualWithinAbs(pole[0], 0, 1e-6) || !floats.EqualWithinAbs(pole[1], 0, 1e-6) {
		t.Fatalf("north pole xy = %f, %f", pole[0], pole[1])
	}
	// Equator, prime meridian, 1000 m up.
	eq := GEO2BodyFixed(1000, 0, 0, Earth)
	if !floats.EqualWithinAbs(eq[0], Earth.Radius+1000, 1e-6) {
		t.Fatalf("equator x = %f", eq[0])
	}
}

func TestBodyFixedRoundTrip(t *testing.T) {
	R := []float64{7e6, -1e6, 2e5}
	θ := 1.2345
	back := BodyFixed2Inertial(Inertial2BodyFixed(R, θ), θ)
	for i := 0; i < 3; i++ {
		if !floats.EqualWithinAbs(back[i], R[i], 1e-6) {
			t.Fatalf("round trip failed: %+v", back)
		}
	}
}

func TestEcliptic2Equatorial(t *testing.T) {
	// The vernal equinox axis is shared between the two frames.
	x := Ecliptic2Equatorial([]float64{1, 0, 0})
	if !floats.EqualWithinAbs(x[0], 1, 1e-12) || !floats.EqualWithinAbs(x[1], 0, 1e-12) {
		t.Fatalf("x axis moved: %+v", x)
	}
	// The ecliptic pole maps off the equatorial pole by the obliquity.
	z := Ecliptic2Equatorial([]float64{0, 0, 1})
	if !floats.EqualWithinAbs(z[2], math.Cos(eclipticObliquity), 1e-12) {
		t.Fatalf("pole z = %f", z[2])
	}
}
