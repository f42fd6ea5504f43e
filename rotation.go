package mgadsm

import (
	"math"

	"github.com/gonum/matrix/mat64"
)

const (
	// EarthRotationRate is the average Earth rotation rate in radians per second.
	EarthRotationRate = 7.2921158553e-5
	// earthRotationAngleJ2000 is the Earth rotation angle at the J2000 epoch in radians.
	earthRotationAngleJ2000 = 4.894961212823756
	// eclipticObliquity is the mean obliquity of the ecliptic at J2000 in radians.
	eclipticObliquity = 0.40909280422232897
)

// R1 rotation about the 1st axis.
func R1(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{1, 0, 0, 0, c, s, 0, -s, c})
}

// R2 rotation about the 2nd axis.
func R2(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, 0, -s, 0, 1, 0, s, 0, c})
}

// R3 rotation about the 3rd axis.
func R3(x float64) *mat64.Dense {
	s, c := math.Sincos(x)
	return mat64.NewDense(3, 3, []float64{c, s, 0, -s, c, 0, 0, 0, 1})
}

// MxV33 multiplies a matrix with a vector. Note that there is no dimension check!
func MxV33(m *mat64.Dense, v []float64) (o []float64) {
	vVec := mat64.NewVector(len(v), v)
	var rVec mat64.Vector
	rVec.MulVec(m, vVec)
	return []float64{rVec.At(0, 0), rVec.At(1, 0), rVec.At(2, 0)}
}

// PQW2ECI converts a given vector from the perifocal frame to the inertial frame.
func PQW2ECI(i, ω, Ω float64, vI []float64) []float64 {
	var dcm mat64.Dense
	dcm.Mul(R3(-Ω), R1(-i))
	dcm.Mul(&dcm, R3(-ω))
	return MxV33(&dcm, vI)
}

// Ecliptic2Equatorial rotates a heliocentric ecliptic J2000 vector into the
// Earth equatorial frame sharing the same vernal equinox axis.
func Ecliptic2Equatorial(v []float64) []float64 {
	return MxV33(R1(-eclipticObliquity), v)
}

// GEO2BodyFixed converts geodetic altitude (m) and latitude/longitude (radians) to
// the body-fixed Cartesian position on the provided body.
// Note that the first parameter is the altitude, not the radius from the center of the body!
func GEO2BodyFixed(altitude, latitude, longitude float64, body CelestialObject) []float64 {
	sLong, cLong := math.Sincos(longitude)
	sLat, cLat := math.Sincos(latitude)
	r := altitude + body.Radius
	return []float64{r * cLat * cLong, r * cLat * sLong, r * sLat}
}

// Inertial2BodyFixed converts the provided body-equatorial inertial vector to the
// rotating body-fixed frame for the rotation angle θ at the epoch of interest.
func Inertial2BodyFixed(R []float64, θ float64) []float64 {
	return MxV33(R3(θ), R)
}

// BodyFixed2Inertial converts the provided body-fixed vector to the body-equatorial
// inertial frame for the rotation angle θ at the epoch of interest.
func BodyFixed2Inertial(R []float64, θ float64) []float64 {
	return Inertial2BodyFixed(R, -θ)
}
