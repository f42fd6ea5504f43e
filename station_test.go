package mgadsm

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gonum/floats"
)

func TestStationRangeElAz(t *testing.T) {
	st := NewSimpleStation("sub", 0, 0)
	// Directly overhead: twice the body radius along the station vertical.
	overhead := []float64{2 * Earth.Radius, 0, 0}
	_, ρ, el, _ := st.RangeElAz(overhead)
	if !floats.EqualWithinAbs(el, math.Pi/2, 1e-9) {
		t.Fatalf("overhead elevation = %f", el)
	}
	if !floats.EqualWithinAbs(ρ, Earth.Radius, 1) {
		t.Fatalf("overhead range = %f", ρ)
	}
	// A target on the far side of the body is below the horizon.
	_, _, el, _ = st.RangeElAz([]float64{-2 * Earth.Radius, 0, 0})
	if el >= 0 {
		t.Fatalf("far-side elevation = %f", el)
	}
	// Azimuth of a northbound target from the equator.
	north := []float64{Earth.Radius, 0, Earth.Radius}
	_, _, _, az := st.RangeElAz(north)
	if !floats.EqualWithinAbs(az, 0, 1e-6) && !floats.EqualWithinAbs(az, 2*math.Pi, 1e-6) {
		t.Fatalf("northbound azimuth = %f", az)
	}
	if !strings.Contains(st.String(), "sub") {
		t.Fatal("String must carry the station name")
	}
}

func TestStationR(t *testing.T) {
	pole := NewSimpleStation("pole", math.Pi/2, 0)
	R := pole.R()
	if !floats.EqualWithinAbs(R[2], Earth.Radius, 1) || math.Abs(R[0]) > 1 || math.Abs(R[1]) > 1 {
		t.Fatalf("pole station at %+v", R)
	}
	elevated := Station{Name: "high", LatΦ: 0, Longθ: 0, Altitude: 1000, Planet: Earth}
	if !floats.EqualWithinAbs(norm(elevated.R()), Earth.Radius+1000, 1e-6) {
		t.Fatal("altitude not applied")
	}
}

func TestStationRegistry(t *testing.T) {
	reg := NewStationRegistry()
	if err := reg.Register(NewSimpleStation("DSS-34", Deg2rad(-35.4), Deg2rad(148.98))); err != nil {
		t.Fatalf("err = %s", err)
	}
	if err := reg.Register(NewSimpleStation("DSS-13", Deg2rad(35.25), Deg2rad(-116.89))); err != nil {
		t.Fatalf("err = %s", err)
	}
	if err := reg.Register(NewSimpleStation("DSS-34", 0, 0)); !errors.Is(err, ErrDuplicateStation) {
		t.Fatalf("err = %v", err)
	}
	if _, err := reg.Lookup("DSS-65"); !errors.Is(err, ErrUnknownStation) {
		t.Fatalf("err = %v", err)
	}
	st, err := reg.Lookup("DSS-13")
	if err != nil {
		t.Fatalf("err = %s", err)
	}
	if st.Name != "DSS-13" {
		t.Fatalf("looked up %s", st.Name)
	}
	names := reg.Names()
	if len(names) != 2 || names[0] != "DSS-13" || names[1] != "DSS-34" {
		t.Fatalf("names = %v", names)
	}
}

func TestMeasurements(t *testing.T) {
	traj, _ := New(LegUnpoweredUnperturbed, []string{"Earth", "Venus"}, Config{SamplesPerLeg: 25})
	if err := traj.AddGroundStationSimple("DSS-34", Deg2rad(-35.4), Deg2rad(148.98)); err != nil {
		t.Fatalf("err = %s", err)
	}
	if _, err := traj.Measurements("DSS-34", 0); !errors.Is(err, ErrNotEvaluated) {
		t.Fatalf("err = %v", err)
	}
	params := []float64{-789.8117 * SecondsPerDay, 158.302027105278 * SecondsPerDay}
	if err := traj.Evaluate(params); err != nil {
		t.Fatalf("Evaluate: %s", err)
	}
	if _, err := traj.Measurements("DSS-65", 0); !errors.Is(err, ErrUnknownStation) {
		t.Fatalf("err = %v", err)
	}
	minEl := Deg2rad(10.)
	ms, err := traj.Measurements("DSS-34", minEl)
	if err != nil {
		t.Fatalf("err = %s", err)
	}
	if len(ms) != 26 {
		t.Fatalf("%d measurements", len(ms))
	}
	for i, m := range ms {
		if m.Visible != (m.Elevation >= minEl) {
			t.Fatalf("sample %d visibility flag disagrees with its elevation", i)
		}
		if m.TrueRange <= 0 {
			t.Fatalf("sample %d range = %f", i, m.TrueRange)
		}
		// Noise-free station: reported equals true.
		if m.Range != m.TrueRange || m.RangeRate != m.TrueRangeRate {
			t.Fatalf("sample %d noise-free values differ", i)
		}
		if m.Epoch != traj.history.Epochs[i] {
			t.Fatalf("sample %d epoch mismatch", i)
		}
	}
	// Range grows along an Earth departure.
	if ms[len(ms)-1].TrueRange < ms[0].TrueRange {
		t.Fatal("range should grow while leaving Earth")
	}
	if !strings.Contains(ms[0].String(), "DSS-34") || !strings.Contains(ms[0].CSV(), ",") {
		t.Fatal("measurement formatting is broken")
	}
}

func TestMeasurementsNoisy(t *testing.T) {
	traj, _ := New(LegUnpoweredUnperturbed, []string{"Earth", "Venus"}, Config{SamplesPerLeg: 25})
	noisy := NewNoisyStation("DSS-13", 1071, Deg2rad(35.25), Deg2rad(-116.89), 1e4, 1)
	if err := traj.stations.Register(noisy); err != nil {
		t.Fatalf("err = %s", err)
	}
	params := []float64{-789.8117 * SecondsPerDay, 158.302027105278 * SecondsPerDay}
	if err := traj.Evaluate(params); err != nil {
		t.Fatalf("Evaluate: %s", err)
	}
	ms, err := traj.Measurements("DSS-13", 0)
	if err != nil {
		t.Fatalf("err = %s", err)
	}
	perturbed := 0
	for _, m := range ms {
		if m.Range != m.TrueRange {
			perturbed++
		}
		// σ = 100 m: the noise never remotely approaches the range itself.
		if math.Abs(m.Range-m.TrueRange) > 1e4 {
			t.Fatalf("noise %f m is implausible for σ = 100 m", m.Range-m.TrueRange)
		}
	}
	if perturbed == 0 {
		t.Fatal("noisy station produced only exact ranges")
	}
}
