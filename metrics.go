package mgadsm

import (
	"fmt"
	"math"
	"sort"
)

const (
	speedOfLight = 2.99792458e8 // m/s
	// commsStep is the sub-day sampling step of the visibility integration, s.
	commsStep = 240.0
)

// PointingMode selects the spacecraft attitude used to project the solar flux
// onto the array normal.
type PointingMode uint8

const (
	// PointingSun keeps the array normal on the Sun line: projection factor 1.
	PointingSun PointingMode = iota + 1
	// PointingVelocity keeps the array normal along the velocity vector.
	PointingVelocity
)

func (m PointingMode) String() string {
	switch m {
	case PointingSun:
		return "Sun"
	case PointingVelocity:
		return "Velocity"
	default:
		panic("unknown pointing mode")
	}
}

// ParsePointingMode parses a pointing mode name ("Sun" or "Velocity").
func ParsePointingMode(name string) (PointingMode, error) {
	switch name {
	case "Sun", "sun":
		return PointingSun, nil
	case "Velocity", "velocity":
		return PointingVelocity, nil
	default:
		return 0, fmt.Errorf("unknown pointing mode '%s'", name)
	}
}

// Series is a metric sampled over time: Values[i] corresponds to Epochs[i]
// (seconds past J2000). Both sequences always have the same length.
type Series struct {
	Values []float64
	Epochs []float64
}

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s.Values)
}

// TotalSolarFlux returns the solar flux received at the spacecraft over the
// state history, in W/m^2: luminosity over the sphere at the heliocentric distance.
func (t *Trajectory) TotalSolarFlux() (Series, error) {
	if err := t.resultErr(); err != nil {
		return Series{}, err
	}
	values := make([]float64, t.history.Len())
	for i := range values {
		R, _ := t.history.At(i)
		d := norm(R)
		values[i] = SunLuminosity / (4 * math.Pi * d * d)
	}
	return Series{Values: values, Epochs: append([]float64{}, t.history.Epochs...)}, nil
}

// EffectiveSolarFlux projects the total flux onto the array normal for the given
// pointing mode.
func (t *Trajectory) EffectiveSolarFlux(mode PointingMode) (Series, error) {
	switch mode {
	case PointingSun, PointingVelocity:
	default:
		return Series{}, fmt.Errorf("unknown pointing mode %d", mode)
	}
	series, err := t.TotalSolarFlux()
	if err != nil {
		return Series{}, err
	}
	if mode == PointingSun {
		return series, nil
	}
	for i := range series.Values {
		R, V := t.history.At(i)
		// Sun direction as seen from the spacecraft is -R̂.
		sunDir := unit([]float64{-R[0], -R[1], -R[2]})
		series.Values[i] *= math.Abs(dot(unit(V), sunDir))
	}
	return series, nil
}

// LinkBudget returns the free-space received power in watts over the state
// history for a receiver on Earth:
// P_rx = P_tx Gt Gr (λ / 4πd)^2 with λ from the carrier frequency (Hz).
func (t *Trajectory) LinkBudget(frequency, txPower, txGain, rxGain float64) (Series, error) {
	if err := t.resultErr(); err != nil {
		return Series{}, err
	}
	λ := speedOfLight / frequency
	values := make([]float64, t.history.Len())
	for i := range values {
		epoch := t.history.Epochs[i]
		R, _ := t.history.At(i)
		eR, _, err := t.eph.StateAt(Earth, epoch)
		if err != nil {
			return Series{}, err
		}
		d := norm(subVecs(R, eR))
		ratio := λ / (4 * math.Pi * d)
		values[i] = txPower * txGain * rxGain * ratio * ratio
	}
	return Series{Values: values, Epochs: append([]float64{}, t.history.Epochs...)}, nil
}

// AddGroundStationSimple registers a noise-free Earth ground station into the
// trajectory's registry. Fails if the name is already registered. Angles in radians.
func (t *Trajectory) AddGroundStationSimple(name string, latΦ, longθ float64) error {
	return t.stations.Register(NewSimpleStation(name, latΦ, longθ))
}

// CommunicationsTimePerDay returns, for every day bucket covered by the state
// history, the number of seconds the spacecraft sits above the station's
// minimum elevation (radians). Day buckets are 86400 s wide, aligned to J2000.
// Within a bucket the heliocentric spacecraft position is held at the nearest
// history sample while the body rotates, so the diurnal visibility window is
// resolved even when the history step exceeds a day. Every value is in
// [0, 86400] and is non-increasing in the elevation threshold.
func (t *Trajectory) CommunicationsTimePerDay(stationName string, minElevation float64) (Series, error) {
	if err := t.resultErr(); err != nil {
		return Series{}, err
	}
	station, err := t.stations.Lookup(stationName)
	if err != nil {
		return Series{}, err
	}
	first := t.history.Epochs[0]
	last := t.history.Epochs[t.history.Len()-1]
	firstDay := math.Floor(first / SecondsPerDay)
	lastDay := math.Floor(last / SecondsPerDay)
	nDays := int(lastDay-firstDay) + 1

	values := make([]float64, nDays)
	epochs := make([]float64, nDays)
	for d := 0; d < nDays; d++ {
		dayStart := (firstDay + float64(d)) * SecondsPerDay
		epochs[d] = dayStart
		tStart := math.Max(dayStart, first)
		tEnd := math.Min(dayStart+SecondsPerDay, last)
		if tEnd <= tStart {
			continue
		}
		// Hold the heliocentric position at the sample nearest to the bucket center.
		R, _ := t.history.At(t.nearestSample((tStart + tEnd) / 2))
		visible := 0.0
		for tc := tStart; tc < tEnd; tc += commsStep {
			eR, _, err := t.eph.StateAt(station.Planet, tc)
			if err != nil {
				return Series{}, err
			}
			relEq := Ecliptic2Equatorial(subVecs(R, eR))
			rBF := Inertial2BodyFixed(relEq, station.Planet.RotationAngle(tc))
			if _, _, el, _ := station.RangeElAz(rBF); el >= minElevation {
				visible += math.Min(commsStep, tEnd-tc)
			}
		}
		values[d] = math.Min(visible, SecondsPerDay)
	}
	return Series{Values: values, Epochs: epochs}, nil
}

// nearestSample returns the index of the history sample closest to the epoch.
func (t *Trajectory) nearestSample(epoch float64) int {
	idx := sort.SearchFloat64s(t.history.Epochs, epoch)
	if idx == 0 {
		return 0
	}
	if idx >= t.history.Len() {
		return t.history.Len() - 1
	}
	if epoch-t.history.Epochs[idx-1] <= t.history.Epochs[idx]-epoch {
		return idx - 1
	}
	return idx
}
