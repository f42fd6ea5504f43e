package mgadsm

import (
	"errors"
	"math"
	"testing"

	"github.com/gonum/floats"
)

func evaluatedEarthVenus(t *testing.T, samples int) *Trajectory {
	t.Helper()
	traj, err := New(LegUnpoweredUnperturbed, []string{"Earth", "Venus"}, Config{SamplesPerLeg: samples})
	if err != nil {
		t.Fatalf("New: %s", err)
	}
	params := []float64{-789.8117 * SecondsPerDay, 158.302027105278 * SecondsPerDay}
	if err = traj.Evaluate(params); err != nil {
		t.Fatalf("Evaluate: %s", err)
	}
	return traj
}

func TestParsePointingMode(t *testing.T) {
	for name, exp := range map[string]PointingMode{"Sun": PointingSun, "sun": PointingSun, "Velocity": PointingVelocity, "velocity": PointingVelocity} {
		mode, err := ParsePointingMode(name)
		if err != nil || mode != exp {
			t.Fatalf("%s: mode=%v err=%v", name, mode, err)
		}
	}
	if _, err := ParsePointingMode("Nadir"); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
	if PointingSun.String() != "Sun" || PointingVelocity.String() != "Velocity" {
		t.Fatal("String round trip failed")
	}
}

func TestTotalSolarFlux(t *testing.T) {
	traj := evaluatedEarthVenus(t, 40)
	flux, err := traj.TotalSolarFlux()
	if err != nil {
		t.Fatalf("err = %s", err)
	}
	if flux.Len() != traj.history.Len() {
		t.Fatalf("%d flux samples for %d states", flux.Len(), traj.history.Len())
	}
	// Near Earth the flux is the solar constant.
	if !floats.EqualWithinAbs(flux.Values[0], 1361, 100) {
		t.Fatalf("flux at departure = %f W/m^2", flux.Values[0])
	}
	// Sunward transfer: more flux at Venus than at Earth.
	if flux.Values[flux.Len()-1] <= flux.Values[0] {
		t.Fatal("flux must grow on the way to Venus")
	}
	// Flux is inverse-square in the heliocentric distance.
	R0, _ := traj.history.At(0)
	R1, _ := traj.history.At(flux.Len() - 1)
	exp := math.Pow(norm(R0)/norm(R1), 2)
	if got := flux.Values[flux.Len()-1] / flux.Values[0]; math.Abs(got-exp)/exp > 1e-9 {
		t.Fatalf("flux ratio %f, distances give %f", got, exp)
	}
}

func TestEffectiveSolarFlux(t *testing.T) {
	traj := evaluatedEarthVenus(t, 40)
	total, _ := traj.TotalSolarFlux()
	sun, err := traj.EffectiveSolarFlux(PointingSun)
	if err != nil {
		t.Fatalf("err = %s", err)
	}
	vel, err := traj.EffectiveSolarFlux(PointingVelocity)
	if err != nil {
		t.Fatalf("err = %s", err)
	}
	for i := 0; i < total.Len(); i++ {
		if sun.Values[i] != total.Values[i] {
			t.Fatalf("Sun pointing must collect the full flux at sample %d", i)
		}
		if vel.Values[i] > total.Values[i]+1e-9 || vel.Values[i] < 0 {
			t.Fatalf("velocity-pointing flux %f exceeds total %f at sample %d", vel.Values[i], total.Values[i], i)
		}
	}
	if _, err = traj.EffectiveSolarFlux(PointingMode(9)); err == nil {
		t.Fatal("expected an error for an unknown mode")
	}
}

func TestLinkBudget(t *testing.T) {
	traj := evaluatedEarthVenus(t, 40)
	// X-band downlink, 20 W, 40 dBi tx, 70 dBi ground antenna.
	const f = 8.4e9
	txGain := math.Pow(10, 40/10.)
	rxGain := math.Pow(10, 70/10.)
	pw, err := traj.LinkBudget(f, 20, txGain, rxGain)
	if err != nil {
		t.Fatalf("err = %s", err)
	}
	if pw.Len() != traj.history.Len() {
		t.Fatalf("%d link samples", pw.Len())
	}
	for i, v := range pw.Values[1:] {
		if v <= 0 || math.IsInf(v, 0) {
			t.Fatalf("received power %e W at sample %d", v, i+1)
		}
	}
	// Halving the carrier frequency doubles the wavelength: four times the power.
	half, err := traj.LinkBudget(f/2, 20, txGain, rxGain)
	if err != nil {
		t.Fatalf("err = %s", err)
	}
	for i := 1; i < pw.Len(); i++ {
		if ratio := half.Values[i] / pw.Values[i]; !floats.EqualWithinAbs(ratio, 4, 1e-9) {
			t.Fatalf("power ratio %f at sample %d", ratio, i)
		}
	}
	// Received power drops as the Earth distance grows along the transfer.
	if pw.Values[pw.Len()-1] >= pw.Values[1] {
		t.Fatal("power should decay while receding from Earth")
	}
}

func TestCommunicationsTimePerDay(t *testing.T) {
	traj := evaluatedEarthVenus(t, 40)
	if err := traj.AddGroundStationSimple("DSS-34", Deg2rad(-35.4), Deg2rad(148.98)); err != nil {
		t.Fatalf("err = %s", err)
	}
	if _, err := traj.CommunicationsTimePerDay("DSS-65", 0); !errors.Is(err, ErrUnknownStation) {
		t.Fatalf("err = %v", err)
	}
	lo, err := traj.CommunicationsTimePerDay("DSS-34", Deg2rad(5.))
	if err != nil {
		t.Fatalf("err = %s", err)
	}
	hi, err := traj.CommunicationsTimePerDay("DSS-34", Deg2rad(25.))
	if err != nil {
		t.Fatalf("err = %s", err)
	}
	first := traj.history.Epochs[0]
	last := traj.history.Epochs[traj.history.Len()-1]
	nDays := int(math.Floor(last/SecondsPerDay)-math.Floor(first/SecondsPerDay)) + 1
	if lo.Len() != nDays || hi.Len() != nDays {
		t.Fatalf("%d buckets, expected %d", lo.Len(), nDays)
	}
	anyVisible := false
	for d := 0; d < nDays; d++ {
		if lo.Values[d] < 0 || lo.Values[d] > SecondsPerDay {
			t.Fatalf("day %d: %f s visible", d, lo.Values[d])
		}
		// Raising the mask can only shrink the window.
		if hi.Values[d] > lo.Values[d] {
			t.Fatalf("day %d: %f s at 25 deg vs %f s at 5 deg", d, hi.Values[d], lo.Values[d])
		}
		if lo.Values[d] > 0 {
			anyVisible = true
		}
		if !floats.EqualWithinAbs(math.Mod(lo.Epochs[d], SecondsPerDay), 0, 1e-6) {
			t.Fatalf("day %d bucket epoch %f not aligned", d, lo.Epochs[d])
		}
	}
	if !anyVisible {
		t.Fatal("an interplanetary probe must rise over the station on some day")
	}
}

func TestMetricsRequireEvaluation(t *testing.T) {
	traj, _ := New(LegUnpoweredUnperturbed, []string{"Earth", "Venus"}, Config{})
	if _, err := traj.TotalSolarFlux(); !errors.Is(err, ErrNotEvaluated) {
		t.Fatalf("err = %v", err)
	}
	if _, err := traj.EffectiveSolarFlux(PointingSun); !errors.Is(err, ErrNotEvaluated) {
		t.Fatalf("err = %v", err)
	}
	if _, err := traj.LinkBudget(8.4e9, 20, 1, 1); !errors.Is(err, ErrNotEvaluated) {
		t.Fatalf("err = %v", err)
	}
	if _, err := traj.CommunicationsTimePerDay("DSS-34", 0); !errors.Is(err, ErrNotEvaluated) {
		t.Fatalf("err = %v", err)
	}
}
