package mgadsm

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/gonum/matrix/mat64"
	"github.com/gonum/stat/distmv"
)

// Station defines a ground station fixed on a rotating body.
type Station struct {
	Name                       string
	LatΦ, Longθ                float64 // geodetic latitude and longitude, radians
	Altitude                   float64 // m above the body mean radius
	Planet                     CelestialObject
	RangeNoise, RangeRateNoise *distmv.Normal // optional measurement noise
}

// NewSimpleStation returns a noise-free station at sea level on Earth.
// Angles in radians.
func NewSimpleStation(name string, latΦ, longθ float64) Station {
	return Station{Name: name, LatΦ: latΦ, Longθ: longθ, Planet: Earth}
}

// NewNoisyStation returns an Earth station with Gaussian range and range-rate
// noise of the provided variances (m^2 and (m/s)^2).
func NewNoisyStation(name string, altitude, latΦ, longθ, σρ, σρDot float64) Station {
	seed := rand.New(rand.NewSource(time.Now().UnixNano()))
	ρNoise, ok := distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{σρ}), seed)
	if !ok {
		panic("NOK in Gaussian")
	}
	ρDotNoise, ok := distmv.NewNormal([]float64{0}, mat64.NewSymDense(1, []float64{σρDot}), seed)
	if !ok {
		panic("NOK in Gaussian")
	}
	return Station{Name: name, LatΦ: latΦ, Longθ: longθ, Altitude: altitude, Planet: Earth,
		RangeNoise: ρNoise, RangeRateNoise: ρDotNoise}
}

// R returns the body-fixed Cartesian position of the station in meters.
func (s Station) R() []float64 {
	return GEO2BodyFixed(s.Altitude, s.LatΦ, s.Longθ, s.Planet)
}

// RangeElAz returns the range vector (in the body-fixed frame), range, elevation
// and azimuth (radians) of a given body-fixed position.
func (s Station) RangeElAz(rBF []float64) (ρBF []float64, ρ, el, az float64) {
	stR := s.R()
	ρBF = make([]float64, 3)
	for i := 0; i < 3; i++ {
		ρBF[i] = rBF[i] - stR[i]
	}
	ρ = norm(ρBF)
	rSEZ := MxV33(R3(s.Longθ), ρBF)
	rSEZ = MxV33(R2(math.Pi/2-s.LatΦ), rSEZ)
	el = math.Asin(rSEZ[2] / ρ)
	az = math.Mod(2*math.Pi+math.Atan2(rSEZ[1], -rSEZ[0]), 2*math.Pi)
	return
}

func (s Station) String() string {
	return fmt.Sprintf("%s (%.4f,%.4f) on %s", s.Name, s.LatΦ, s.Longθ, s.Planet.Name)
}

// StationRegistry is a synchronized name -> station mapping. Registration is
// single-writer; lookups during visibility computation are read-only.
type StationRegistry struct {
	mu       sync.RWMutex
	stations map[string]Station
}

// NewStationRegistry returns an empty registry.
func NewStationRegistry() *StationRegistry {
	return &StationRegistry{stations: make(map[string]Station)}
}

// Register adds a station, failing if the name is already taken.
func (r *StationRegistry) Register(s Station) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, found := r.stations[s.Name]; found {
		return fmt.Errorf("%w: '%s'", ErrDuplicateStation, s.Name)
	}
	r.stations[s.Name] = s
	return nil
}

// Lookup returns the station registered under the given name.
func (r *StationRegistry) Lookup(name string) (Station, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, found := r.stations[name]
	if !found {
		return Station{}, fmt.Errorf("%w: '%s'", ErrUnknownStation, name)
	}
	return s, nil
}

// Names returns the registered station names, sorted.
func (r *StationRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.stations))
	for name := range r.stations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Measurement stores one station tracking sample of the spacecraft.
type Measurement struct {
	Visible                  bool    // whether the spacecraft was above the horizon mask
	Range, RangeRate         float64 // noisy (or true, for noise-free stations) values, m and m/s
	TrueRange, TrueRangeRate float64
	Elevation                float64 // radians
	Epoch                    float64 // seconds past J2000
	Station                  Station
}

// CSV returns the data as CSV (does *not* include the new line)
func (m Measurement) CSV() string {
	return fmt.Sprintf("%f,%f,%f,%f,", m.TrueRange, m.TrueRangeRate, m.Range, m.RangeRate)
}

func (m Measurement) String() string {
	return fmt.Sprintf("%s@%s", m.Station.Name, EpochToTime(m.Epoch))
}

// Measurements simulates station tracking over the evaluated state history:
// one sample per history epoch with visibility, range and range rate. Stations
// built with NewNoisyStation add their Gaussian noise to the returned values.
func (t *Trajectory) Measurements(stationName string, minElevation float64) ([]Measurement, error) {
	if err := t.resultErr(); err != nil {
		return nil, err
	}
	station, err := t.stations.Lookup(stationName)
	if err != nil {
		return nil, err
	}
	measurements := make([]Measurement, t.history.Len())
	for i := range t.history.Epochs {
		epoch := t.history.Epochs[i]
		R, V := t.history.At(i)
		relEq, velEq, err := t.relativeEquatorial(R, V, epoch, station.Planet)
		if err != nil {
			return nil, err
		}
		θ := station.Planet.RotationAngle(epoch)
		_, ρ, el, _ := station.RangeElAz(Inertial2BodyFixed(relEq, θ))
		// Range rate against the rotating station, computed in the inertial frame.
		stInertial := BodyFixed2Inertial(station.R(), θ)
		stVel := cross([]float64{0, 0, station.Planet.rotRate}, stInertial)
		ρVec := subVecs(relEq, stInertial)
		ρDot := dot(subVecs(velEq, stVel), unit(ρVec))
		m := Measurement{
			Visible: el >= minElevation, Elevation: el, Epoch: epoch, Station: station,
			TrueRange: ρ, TrueRangeRate: ρDot, Range: ρ, RangeRate: ρDot,
		}
		if station.RangeNoise != nil {
			m.Range += station.RangeNoise.Rand(nil)[0]
			m.RangeRate += station.RangeRateNoise.Rand(nil)[0]
		}
		measurements[i] = m
	}
	return measurements, nil
}

// relativeEquatorial converts a heliocentric ecliptic state into the planet
// equatorial frame centered on the planet.
func (t *Trajectory) relativeEquatorial(R, V []float64, epoch float64, planet CelestialObject) (relEq, velEq []float64, err error) {
	pR, pV, err := t.eph.StateAt(planet, epoch)
	if err != nil {
		return nil, nil, err
	}
	relEq = Ecliptic2Equatorial(subVecs(R, pR))
	velEq = Ecliptic2Equatorial(subVecs(V, pV))
	return relEq, velEq, nil
}
