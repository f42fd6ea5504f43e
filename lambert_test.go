package mgadsm

import (
	"testing"

	"github.com/gonum/matrix/mat64"
)

func TestLambertVallado(t *testing.T) {
	// From Vallado 4th edition, page 497, converted to SI.
	Ri := mat64.NewVector(3, []float64{15945.34e3, 0, 0})
	Rf := mat64.NewVector(3, []float64{12214.83899e3, 10249.46731e3, 0})
	ViExp := mat64.NewVector(3, []float64{2058.913, 2915.965, 0})
	VfExp := mat64.NewVector(3, []float64{-3451.565, 910.315, 0})
	tof := 76.0 * 60 // s
	for _, dm := range []TransferType{TTypeAuto, TType1} {
		Vi, Vf, ψ, err := Lambert(Ri, Rf, tof, dm, Earth)
		if err != nil {
			t.Fatalf("err %s", err)
		}
		if !mat64.EqualApprox(Vi, ViExp, 1e-2) {
			t.Logf("ψ=%f", ψ)
			t.Logf("\nGot %+v\nExp %+v\n", mat64.Formatted(Vi.T()), mat64.Formatted(ViExp.T()))
			t.Fatalf("[%s] incorrect Vi computed", dm)
		}
		if !mat64.EqualApprox(Vf, VfExp, 1e-2) {
			t.Logf("ψ=%f", ψ)
			t.Logf("\nGot %+v\nExp %+v\n", mat64.Formatted(Vf.T()), mat64.Formatted(VfExp.T()))
			t.Fatalf("[%s] incorrect Vf computed", dm)
		}
	}
	// Long way.
	ViExp = mat64.NewVector(3, []float64{-3811.158, -2003.854, 0})
	VfExp = mat64.NewVector(3, []float64{4207.569, 914.724, 0})
	Vi, Vf, ψ, err := Lambert(Ri, Rf, tof, TType2, Earth)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if !mat64.EqualApprox(Vi, ViExp, 1e-2) {
		t.Logf("ψ=%f", ψ)
		t.Logf("\nGot %+v\nExp %+v\n", mat64.Formatted(Vi.T()), mat64.Formatted(ViExp.T()))
		t.Fatalf("[%s] incorrect Vi computed", TType2)
	}
	if !mat64.EqualApprox(Vf, VfExp, 1e-2) {
		t.Logf("ψ=%f", ψ)
		t.Logf("\nGot %+v\nExp %+v\n", mat64.Formatted(Vf.T()), mat64.Formatted(VfExp.T()))
		t.Fatalf("[%s] incorrect Vf computed", TType2)
	}
}

func TestLambertErrors(t *testing.T) {
	Rf := mat64.NewVector(3, []float64{12214.83899e3, 10249.46731e3, 0})
	if _, _, _, err := Lambert(mat64.NewVector(2, []float64{15945.34e3, 0}), Rf, 76.0*60, TType1, Earth); err == nil {
		t.Fatal("err should not be nil if the R vectors are not of dimension 3x1")
	}
	Ri := mat64.NewVector(3, []float64{15945.34e3, 0, 0})
	if _, _, _, err := Lambert(Ri, Rf, -60, TType1, Earth); err == nil {
		t.Fatal("err should not be nil for a negative time of flight")
	}
	// A time of flight far below the minimum-energy limit cannot converge.
	if _, _, _, err := Lambert(Ri, Rf, 1e-3, TType1, Earth); err == nil {
		t.Fatal("err should not be nil for a sub-minimum time of flight")
	}
}

func TestLambertInterplanetary(t *testing.T) {
	// Earth to Venus on the heliocentric conic over 158 days: both branches
	// converge and differ.
	eph := NewMeanElementsEphemeris()
	dep := -789.8117 * SecondsPerDay
	tof := 158.302027105278 * SecondsPerDay
	rE, _, _ := eph.StateAt(Earth, dep)
	rV, _, _ := eph.StateAt(Venus, dep+tof)
	Ri := mat64.NewVector(3, rE)
	Rf := mat64.NewVector(3, rV)
	Vi, _, _, err := Lambert(Ri, Rf, tof, TTypeAuto, Sun)
	if err != nil {
		t.Fatalf("auto branch: %s", err)
	}
	// Heliocentric departure speed must be in the tens of km/s.
	v := mat64.Norm(Vi, 2)
	if v < 10e3 || v > 60e3 {
		t.Fatalf("implausible heliocentric speed %f m/s", v)
	}
}
