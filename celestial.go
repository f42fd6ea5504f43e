package mgadsm

import (
	"fmt"
	"strings"
)

const (
	// AU is one astronomical unit in meters.
	AU = 1.495978707e11
	// SunLuminosity is the total solar luminosity in watts.
	SunLuminosity = 3.828e26
	// SecondsPerDay is the number of seconds in a Julian day.
	SecondsPerDay = 86400.0
)

// CelestialObject defines a celestial object.
// All values are SI: meters, seconds, radians.
type CelestialObject struct {
	Name    string
	Radius  float64 // mean radius, m
	a       float64 // mean heliocentric semi-major axis, m
	μ       float64 // gravitational parameter, m^3/s^2
	tilt    float64 // axial tilt, radians
	SOI     float64 // sphere of influence wrt the Sun, m (-1 for the Sun itself)
	rotRate float64 // sidereal rotation rate, rad/s
	rotJ2k  float64 // rotation angle at J2000, radians
}

// GM returns μ (which is unexported because it's a lowercase letter)
func (c CelestialObject) GM() float64 {
	return c.μ
}

// RotationAngle returns the body rotation angle at the given epoch (seconds past
// J2000), used to spin body-fixed stations into the inertial frame.
func (c CelestialObject) RotationAngle(epoch float64) float64 {
	return c.rotJ2k + c.rotRate*epoch
}

// String implements the Stringer interface.
func (c CelestialObject) String() string {
	return c.Name + " body"
}

// Equals returns whether the provided celestial object is the same.
func (c *CelestialObject) Equals(b CelestialObject) bool {
	return c.Name == b.Name && c.Radius == b.Radius && c.a == b.a && c.μ == b.μ && c.SOI == b.SOI
}

// CelestialObjectFromString returns the object from its name.
func CelestialObjectFromString(name string) (CelestialObject, error) {
	switch strings.ToLower(name) {
	case "sun":
		return Sun, nil
	case "mercury":
		return Mercury, nil
	case "venus":
		return Venus, nil
	case "earth":
		return Earth, nil
	case "mars":
		return Mars, nil
	case "jupiter":
		return Jupiter, nil
	case "saturn":
		return Saturn, nil
	case "uranus":
		return Uranus, nil
	case "neptune":
		return Neptune, nil
	default:
		return CelestialObject{}, fmt.Errorf("undefined body '%s'", name)
	}
}

/* Definitions */

// Sun is our closest star.
var Sun = CelestialObject{"Sun", 6.957e8, -1, 1.32712440018e20, 0, -1, 2.865e-6, 0}

// Mercury is feeling hot hot hot.
var Mercury = CelestialObject{"Mercury", 2.4397e6, 0.38709927 * AU, 2.2032e13, 0.00059, 1.12e11, 1.24e-6, 0}

// Venus is poisonous.
var Venus = CelestialObject{"Venus", 6.0518e6, 0.72333566 * AU, 3.24858592e14, 3.0955, 6.16e8, -2.99e-7, 0}

// Earth is home.
var Earth = CelestialObject{"Earth", 6.3781363e6, 1.00000261 * AU, 3.986004418e14, 0.40910, 9.24645e8, EarthRotationRate, earthRotationAngleJ2000}

// Mars is the vacation place.
var Mars = CelestialObject{"Mars", 3.39619e6, 1.52371034 * AU, 4.282837e13, 0.43965, 5.76e8, 7.088e-5, 0}

// Jupiter is big.
var Jupiter = CelestialObject{"Jupiter", 7.1492e7, 5.20288700 * AU, 1.26686534e17, 0.05463, 4.82e10, 1.7585e-4, 0}

// Saturn floats and that's really cool.
var Saturn = CelestialObject{"Saturn", 6.0268e7, 9.53667594 * AU, 3.7931187e16, 0.46653, 5.48e10, 1.6379e-4, 0}

// Uranus is no joke.
var Uranus = CelestialObject{"Uranus", 2.5559e7, 19.18916464 * AU, 5.793939e15, 1.70622, 5.18e10, -1.0124e-4, 0}

// Neptune is deep blue.
var Neptune = CelestialObject{"Neptune", 2.4764e7, 30.06992276 * AU, 6.836529e15, 0.49428, 8.66e10, 1.0834e-4, 0}
