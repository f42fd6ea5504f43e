package mgadsm

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/soniakeys/meeus/julian"
	"github.com/soniakeys/meeus/planetposition"
)

// J2000 is the reference epoch: all trajectory epochs are seconds past J2000.
var J2000 = time.Date(2000, 1, 1, 12, 0, 0, 0, time.UTC)

// EpochToTime converts an epoch in seconds past J2000 to a time.Time.
func EpochToTime(epoch float64) time.Time {
	return J2000.Add(time.Duration(epoch * float64(time.Second)))
}

// TimeToEpoch converts a time.Time to seconds past J2000.
func TimeToEpoch(dt time.Time) float64 {
	return dt.Sub(J2000).Seconds()
}

// Ephemeris provides the heliocentric state of a body at a given epoch.
// Implementations must be pure and safe for concurrent use: trajectory
// evaluations running in parallel share a single Ephemeris.
type Ephemeris interface {
	// StateAt returns the heliocentric ecliptic J2000 position (m) and
	// velocity (m/s) of the body at the given epoch (seconds past J2000).
	StateAt(body CelestialObject, epoch float64) (R, V []float64, err error)
}

// meanElements holds the J2000 mean Keplerian elements and their per-century
// rates, from the JPL approximate ephemeris tables (valid 1800--2050).
// a in AU, angles in degrees.
type meanElements struct {
	a, aDot float64
	e, eDot float64
	i, iDot float64
	L, LDot float64 // mean longitude
	ϖ, ϖDot float64 // longitude of periapsis
	Ω, ΩDot float64
}

var planetElements = map[string]meanElements{
	"Mercury": {0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749, 252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081},
	"Venus":   {0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890, 181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418},
	"Earth":   {1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668, 100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0.0, 0.0},
	"Mars":    {1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131, -4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343},
	"Jupiter": {5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714, 34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106},
	"Saturn":  {9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609, 49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794},
	"Uranus":  {19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939, 313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589},
	"Neptune": {30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372, -55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664},
}

// MeanElementsEphemeris is the built-in analytic ephemeris: J2000 mean elements
// with linear rates. It requires no data files and is the default provider.
type MeanElementsEphemeris struct{}

// NewMeanElementsEphemeris returns the built-in analytic ephemeris.
func NewMeanElementsEphemeris() MeanElementsEphemeris {
	return MeanElementsEphemeris{}
}

// StateAt implements Ephemeris.
func (MeanElementsEphemeris) StateAt(body CelestialObject, epoch float64) ([]float64, []float64, error) {
	if body.Name == "Sun" {
		return []float64{0, 0, 0}, []float64{0, 0, 0}, nil
	}
	el, found := planetElements[body.Name]
	if !found {
		return nil, nil, fmt.Errorf("no mean elements for %s", body)
	}
	T := epoch / (36525 * SecondsPerDay) // Julian centuries past J2000
	a := (el.a + el.aDot*T) * AU
	e := el.e + el.eDot*T
	i := Deg2rad(el.i + el.iDot*T)
	L := Deg2rad(el.L + el.LDot*T)
	ϖ := Deg2rad(el.ϖ + el.ϖDot*T)
	Ω := Deg2rad(el.Ω + el.ΩDot*T)
	ω := ϖ - Ω
	M := math.Mod(L-ϖ, 2*math.Pi)
	if M > math.Pi {
		M -= 2 * math.Pi
	} else if M < -math.Pi {
		M += 2 * math.Pi
	}
	// Solve Kepler's equation by Newton iteration.
	E := M
	for iter := 0; iter < 50; iter++ {
		δ := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= δ
		if math.Abs(δ) < 1e-14 {
			break
		}
	}
	sE2, cE2 := math.Sincos(E / 2)
	ν := 2 * math.Atan2(math.Sqrt(1+e)*sE2, math.Sqrt(1-e)*cE2)
	orbit := NewOrbit(a, e, i, Ω, ω, ν, Sun)
	R, V := orbit.RV()
	return R, V, nil
}

// VSOP87Ephemeris provides planetary states from the VSOP87 theory via the
// meeus planetposition tables. The directory must contain the VSOP87B data files.
type VSOP87Ephemeris struct {
	dir     string
	mu      sync.Mutex
	planets map[string]*planetposition.V87Planet
}

// NewVSOP87Ephemeris returns a VSOP87-backed ephemeris loading its data lazily
// from the provided directory.
func NewVSOP87Ephemeris(dir string) *VSOP87Ephemeris {
	return &VSOP87Ephemeris{dir: dir, planets: make(map[string]*planetposition.V87Planet)}
}

var vsop87Index = map[string]int{
	"Mercury": 0, "Venus": 1, "Earth": 2, "Mars": 3,
	"Jupiter": 4, "Saturn": 5, "Uranus": 6, "Neptune": 7,
}

func (v *VSOP87Ephemeris) planet(name string) (*planetposition.V87Planet, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if p, loaded := v.planets[name]; loaded {
		return p, nil
	}
	idx, found := vsop87Index[name]
	if !found {
		return nil, fmt.Errorf("no VSOP87 tables for %s", name)
	}
	p, err := planetposition.LoadPlanetPath(idx, v.dir)
	if err != nil {
		return nil, fmt.Errorf("could not load VSOP87 planet %s: %s", name, err)
	}
	v.planets[name] = p
	return p, nil
}

// StateAt implements Ephemeris. The velocity is computed by central difference
// of the VSOP87 position over a two minute window.
func (v *VSOP87Ephemeris) StateAt(body CelestialObject, epoch float64) ([]float64, []float64, error) {
	if body.Name == "Sun" {
		return []float64{0, 0, 0}, []float64{0, 0, 0}, nil
	}
	p, err := v.planet(body.Name)
	if err != nil {
		return nil, nil, err
	}
	const h = 60.0 // seconds
	R := vsop87Position(p, epoch)
	Rm := vsop87Position(p, epoch-h)
	Rp := vsop87Position(p, epoch+h)
	V := make([]float64, 3)
	for i := 0; i < 3; i++ {
		V[i] = (Rp[i] - Rm[i]) / (2 * h)
	}
	return R, V, nil
}

func vsop87Position(p *planetposition.V87Planet, epoch float64) []float64 {
	l, b, r := p.Position2000(julian.TimeToJD(EpochToTime(epoch)))
	r *= AU
	sB, cB := math.Sincos(b.Rad())
	sL, cL := math.Sincos(l.Rad())
	return []float64{r * cB * cL, r * cB * sL, r * sB}
}
