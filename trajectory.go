package mgadsm

import (
	"errors"
	"fmt"
	"math"

	kitlog "github.com/go-kit/kit/log"
	"github.com/gonum/matrix/mat64"
)

type trajStatus uint8

const (
	statusUnconfigured trajStatus = iota
	statusEvaluated
	statusInvalid
)

const defaultSamplesPerLeg = 200

// Config carries the optional construction parameters of a Trajectory.
// The zero value means: automatic transfer branch selection, unbounded departure
// orbit, flyby-only arrival, built-in ephemeris, fresh station registry and no logging.
type Config struct {
	// TransferType fixes the Lambert branch rule. Default TTypeAuto.
	TransferType TransferType
	// DepartureOrbit converts the departure excess velocity into an escape burn.
	// Nil means unbounded: the delta-v is the excess speed itself.
	DepartureOrbit *ParkingOrbit
	// ArrivalOrbit converts the approach hyperbola into a capture burn.
	// Nil means flyby-only arrival: zero delta-v.
	ArrivalOrbit *ParkingOrbit
	// Ephemeris provides body states. Default is the provider selected by the
	// configuration file (VSOP87 if enabled, mean elements otherwise).
	Ephemeris Ephemeris
	// Stations is the ground-station registry used by the visibility metrics.
	// Registration is synchronized; share a registry only if that is wanted.
	Stations *StationRegistry
	// SamplesPerLeg sets the state history density. Default 200.
	SamplesPerLeg int
	// Logger traces leg and node resolution. Default is a nop logger.
	Logger kitlog.Logger
}

// Trajectory is a multi-gravity-assist transfer with optional deep-space
// maneuvers. It owns its nodes, legs and state history exclusively; accessors
// return read-only views. A Trajectory must not be shared across goroutines
// while Evaluate runs, but independent trajectories evaluate concurrently.
type Trajectory struct {
	legType  LegType
	ttype    TransferType
	bodies   []CelestialObject
	depOrbit *ParkingOrbit
	arrOrbit *ParkingOrbit
	eph      Ephemeris
	stations *StationRegistry
	samples  int
	logger   kitlog.Logger

	status  trajStatus
	nodes   []*Node
	legs    []*Leg
	history *History
	failure error // GeometryError which invalidated the last Evaluate
}

// History is the sampled state-time history of an evaluated trajectory.
// States is an n x 6 matrix of [x y z vx vy vz] rows (m, m/s); Epochs holds the
// matching n sample epochs, strictly increasing.
type History struct {
	States *mat64.Dense
	Epochs []float64
}

// Len returns the number of samples.
func (h *History) Len() int {
	return len(h.Epochs)
}

// At returns the position and velocity of sample i.
func (h *History) At(i int) (R, V []float64) {
	row := h.States.RawRowView(i)
	return row[0:3], row[3:6]
}

// New creates a transfer trajectory visiting the named bodies in order with the
// given leg type. The sequence needs at least two bodies; N bodies define N-1 legs.
func New(legType LegType, sequence []string, cfg Config) (*Trajectory, error) {
	switch legType {
	case LegUnpoweredUnperturbed, LegDSMPosition:
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownLegType, legType)
	}
	if len(sequence) < 2 {
		return nil, fmt.Errorf("transfer body sequence needs at least two bodies, got %d", len(sequence))
	}
	bodies := make([]CelestialObject, len(sequence))
	for i, name := range sequence {
		body, err := CelestialObjectFromString(name)
		if err != nil {
			return nil, err
		}
		bodies[i] = body
	}
	ttype := cfg.TransferType
	if ttype == 0 {
		ttype = TTypeAuto
	}
	eph := cfg.Ephemeris
	if eph == nil {
		eph = DefaultEphemeris()
	}
	stations := cfg.Stations
	if stations == nil {
		stations = NewStationRegistry()
	}
	samples := cfg.SamplesPerLeg
	if samples <= 0 {
		samples = defaultSamplesPerLeg
	}
	logger := cfg.Logger
	if logger == nil {
		logger = kitlog.NewNopLogger()
	}
	return &Trajectory{
		legType:  legType,
		ttype:    ttype,
		bodies:   bodies,
		depOrbit: cfg.DepartureOrbit,
		arrOrbit: cfg.ArrivalOrbit,
		eph:      eph,
		stations: stations,
		samples:  samples,
		logger:   logger,
	}, nil
}

// ParameterCount returns the expected length of the parameter vector:
// departure epoch, one time of flight per leg, then the per-leg free parameters
// required by the leg type.
func (t *Trajectory) ParameterCount() int {
	nLegs := len(t.bodies) - 1
	return 1 + nLegs + nLegs*t.legType.freeParams()
}

// ParameterDefinitions returns the ordered human-readable meaning of every
// parameter slot.
func (t *Trajectory) ParameterDefinitions() []string {
	nLegs := len(t.bodies) - 1
	defs := make([]string, 0, t.ParameterCount())
	defs = append(defs, "departure epoch [s past J2000]")
	for i := 0; i < nLegs; i++ {
		defs = append(defs, fmt.Sprintf("time of flight %s -> %s [s]", t.bodies[i].Name, t.bodies[i+1].Name))
	}
	if t.legType == LegDSMPosition {
		for i := 0; i < nLegs; i++ {
			defs = append(defs,
				fmt.Sprintf("leg %d DSM time fraction [-]", i+1),
				fmt.Sprintf("leg %d DSM position x [m]", i+1),
				fmt.Sprintf("leg %d DSM position y [m]", i+1),
				fmt.Sprintf("leg %d DSM position z [m]", i+1))
		}
	}
	return defs
}

// Evaluate resolves the trajectory for the given parameter vector. A length
// mismatch fails immediately with ParameterCountError and leaves any previous
// result untouched. A geometrically infeasible leg marks the trajectory invalid
// and is returned (and surfaced by every accessor until the next successful
// Evaluate); batch callers should detect it with errors.As and skip the sample.
func (t *Trajectory) Evaluate(params []float64) error {
	if want := t.ParameterCount(); len(params) != want {
		return ParameterCountError{Want: want, Got: len(params)}
	}
	nLegs := len(t.bodies) - 1

	// Node epochs from cumulative times of flight.
	epochs := make([]float64, len(t.bodies))
	epochs[0] = params[0]
	for i := 0; i < nLegs; i++ {
		epochs[i+1] = epochs[i] + params[1+i]
	}

	// Body states at the node epochs.
	Rs := make([][]float64, len(t.bodies))
	Vs := make([][]float64, len(t.bodies))
	for i, body := range t.bodies {
		R, V, err := t.eph.StateAt(body, epochs[i])
		if err != nil {
			t.invalidate(fmt.Errorf("ephemeris lookup for %s: %w", body, err))
			return t.failure
		}
		Rs[i] = R
		Vs[i] = V
	}

	freeBase := 1 + nLegs
	fp := t.legType.freeParams()

	legs := make([]*Leg, nLegs)
	for i := 0; i < nLegs; i++ {
		var free []float64
		if fp > 0 {
			free = params[freeBase+i*fp : freeBase+(i+1)*fp]
		}
		VDep, VArr, dsm, err := solveLeg(t.legType, t.ttype, i, Rs[i], Rs[i+1], epochs[i], epochs[i+1], free, Sun)
		if err != nil {
			t.invalidate(err)
			return t.failure
		}
		legs[i] = &Leg{
			From: t.bodies[i], To: t.bodies[i+1],
			DepEpoch: epochs[i], ArrEpoch: epochs[i+1],
			RDep: Rs[i], RArr: Rs[i+1],
			VDep: VDep, VArr: VArr,
			DSM: dsm,
		}
		t.logger.Log("leg", i+1, "from", t.bodies[i].Name, "to", t.bodies[i+1].Name,
			"tof_days", legs[i].TOF()/SecondsPerDay, "dsm_dv", legs[i].DeltaV())
	}

	nodes := make([]*Node, len(t.bodies))
	for i, body := range t.bodies {
		n := &Node{Body: body, Epoch: epochs[i]}
		switch {
		case i == 0:
			n.Role = RoleDeparture
			n.Orbit = t.depOrbit
			n.VOut = vecOf(legs[0].VDep)
			n.VInfOut = subVecs(n.VOut, Vs[i])
		case i == len(t.bodies)-1:
			n.Role = RoleArrival
			n.Orbit = t.arrOrbit
			n.VIn = vecOf(legs[i-1].VArr)
			n.VInfIn = subVecs(n.VIn, Vs[i])
		default:
			n.Role = RoleSwingby
			n.VIn = vecOf(legs[i-1].VArr)
			n.VOut = vecOf(legs[i].VDep)
			n.VInfIn = subVecs(n.VIn, Vs[i])
			n.VInfOut = subVecs(n.VOut, Vs[i])
		}
		n.resolve()
		nodes[i] = n
		t.logger.Log("node", i+1, "body", body.Name, "role", n.Role.String(), "dv", n.ΔV)
	}

	history, err := t.sampleHistory(legs)
	if err != nil {
		t.invalidate(err)
		return t.failure
	}

	t.nodes = nodes
	t.legs = legs
	t.history = history
	t.failure = nil
	t.status = statusEvaluated
	return nil
}

// invalidate clears any previous result and records the failure.
func (t *Trajectory) invalidate(cause error) {
	t.nodes = nil
	t.legs = nil
	t.history = nil
	t.failure = cause
	t.status = statusInvalid
}

// sampleHistory samples every leg along its conic arc(s).
func (t *Trajectory) sampleHistory(legs []*Leg) (*History, error) {
	n := len(legs)*t.samples + 1
	states := mat64.NewDense(n, 6, nil)
	epochs := make([]float64, n)
	row := 0
	for li, leg := range legs {
		// Sub-arcs: a DSM splits the leg in two.
		type arc struct {
			t0, t1 float64
			R, V   []float64
		}
		arcs := []arc{{leg.DepEpoch, leg.ArrEpoch, leg.RDep, vecOf(leg.VDep)}}
		if leg.DSM != nil {
			vOut := make([]float64, 3)
			// Velocity right after the burn.
			VIn, err := arcVelocityAt(leg.RDep, vecOf(leg.VDep), leg.DSM.Epoch-leg.DepEpoch)
			if err != nil {
				return nil, GeometryError{Leg: li, Cause: err}
			}
			for i := 0; i < 3; i++ {
				vOut[i] = VIn[i] + leg.DSM.ΔV[i]
			}
			arcs = []arc{
				{leg.DepEpoch, leg.DSM.Epoch, leg.RDep, vecOf(leg.VDep)},
				{leg.DSM.Epoch, leg.ArrEpoch, leg.DSM.R, vOut},
			}
		}
		samplesPerArc := t.samples / len(arcs)
		for ai, a := range arcs {
			count := samplesPerArc
			if ai == len(arcs)-1 {
				count = t.samples - samplesPerArc*(len(arcs)-1)
			}
			step := (a.t1 - a.t0) / float64(count)
			for k := 0; k < count; k++ {
				dt := float64(k) * step
				R, V, err := KeplerPropagate(a.R, a.V, dt, Sun)
				if err != nil {
					return nil, GeometryError{Leg: li, Cause: err}
				}
				states.SetRow(row, []float64{R[0], R[1], R[2], V[0], V[1], V[2]})
				epochs[row] = a.t0 + dt
				row++
			}
		}
	}
	// Final sample: the arrival state of the last leg.
	last := legs[len(legs)-1]
	VArr := vecOf(last.VArr)
	states.SetRow(row, []float64{last.RArr[0], last.RArr[1], last.RArr[2], VArr[0], VArr[1], VArr[2]})
	epochs[row] = last.ArrEpoch
	return &History{States: states, Epochs: epochs}, nil
}

// arcVelocityAt returns the velocity dt seconds into the conic arc starting at (R0, V0).
func arcVelocityAt(R0, V0 []float64, dt float64) ([]float64, error) {
	_, V, err := KeplerPropagate(R0, V0, dt, Sun)
	return V, err
}

// resultErr maps the state machine onto the accessor error contract.
func (t *Trajectory) resultErr() error {
	switch t.status {
	case statusEvaluated:
		return nil
	case statusInvalid:
		var gerr GeometryError
		if errors.As(t.failure, &gerr) {
			return InvalidTrajectoryError{Leg: gerr.Leg, Cause: gerr.Cause}
		}
		return InvalidTrajectoryError{Leg: -1, Cause: t.failure}
	default:
		return ErrNotEvaluated
	}
}

// DeltaV returns the total delta-v of the evaluated trajectory in m/s: the sum of
// the per-node magnitudes plus the deep-space maneuvers.
func (t *Trajectory) DeltaV() (float64, error) {
	if err := t.resultErr(); err != nil {
		return 0, err
	}
	total := 0.0
	for _, n := range t.nodes {
		total += n.ΔV
	}
	for _, l := range t.legs {
		total += l.DeltaV()
	}
	return total, nil
}

// DeltaVPerLeg returns the delta-v expended inside each leg (DSMs), one entry per leg.
func (t *Trajectory) DeltaVPerLeg() ([]float64, error) {
	if err := t.resultErr(); err != nil {
		return nil, err
	}
	dvs := make([]float64, len(t.legs))
	for i, l := range t.legs {
		dvs[i] = l.DeltaV()
	}
	return dvs, nil
}

// DeltaVPerNode returns the impulsive delta-v at each node, one entry per body visited.
func (t *Trajectory) DeltaVPerNode() ([]float64, error) {
	if err := t.resultErr(); err != nil {
		return nil, err
	}
	dvs := make([]float64, len(t.nodes))
	for i, n := range t.nodes {
		dvs[i] = n.ΔV
	}
	return dvs, nil
}

// TimeOfFlight returns the total time of flight in seconds (arrival epoch minus
// departure epoch).
func (t *Trajectory) TimeOfFlight() (float64, error) {
	if err := t.resultErr(); err != nil {
		return 0, err
	}
	return t.nodes[len(t.nodes)-1].Epoch - t.nodes[0].Epoch, nil
}

// Nodes returns the resolved nodes in chronological order. The slice is a copy;
// the nodes themselves must be treated as read-only.
func (t *Trajectory) Nodes() ([]*Node, error) {
	if err := t.resultErr(); err != nil {
		return nil, err
	}
	return append([]*Node{}, t.nodes...), nil
}

// Legs returns the resolved legs in chronological order. The slice is a copy;
// the legs themselves must be treated as read-only.
func (t *Trajectory) Legs() ([]*Leg, error) {
	if err := t.resultErr(); err != nil {
		return nil, err
	}
	return append([]*Leg{}, t.legs...), nil
}

// StateHistory returns the sampled state history relative to the named reference
// body. An empty name (or "Sun") returns the heliocentric history.
func (t *Trajectory) StateHistory(referenceBody string) (*History, error) {
	if err := t.resultErr(); err != nil {
		return nil, err
	}
	if referenceBody == "" || referenceBody == Sun.Name {
		return t.history, nil
	}
	ref, err := CelestialObjectFromString(referenceBody)
	if err != nil {
		return nil, err
	}
	n := t.history.Len()
	states := mat64.NewDense(n, 6, nil)
	epochs := make([]float64, n)
	copy(epochs, t.history.Epochs)
	for i := 0; i < n; i++ {
		R, V, err := t.eph.StateAt(ref, t.history.Epochs[i])
		if err != nil {
			return nil, err
		}
		row := t.history.States.RawRowView(i)
		states.SetRow(i, []float64{
			row[0] - R[0], row[1] - R[1], row[2] - R[2],
			row[3] - V[0], row[4] - V[1], row[5] - V[2],
		})
	}
	return &History{States: states, Epochs: epochs}, nil
}

// SweepSample is one cell of a departure sweep.
type SweepSample struct {
	DepartureEpoch float64
	FirstTOF       float64
	DeltaV         float64
	Err            error // GeometryError for infeasible cells
}

// SweepDeparture evaluates a grid of departure epochs and first-leg times of
// flight around the provided base parameter vector, cloning the trajectory for
// each cell so the receiver is left untouched. Infeasible cells carry their
// GeometryError instead of aborting the sweep.
func (t *Trajectory) SweepDeparture(depEpochs, firstTOFs []float64, base []float64) ([][]SweepSample, error) {
	if want := t.ParameterCount(); len(base) != want {
		return nil, ParameterCountError{Want: want, Got: len(base)}
	}
	grid := make([][]SweepSample, len(depEpochs))
	for i, dep := range depEpochs {
		grid[i] = make([]SweepSample, len(firstTOFs))
		for j, tof := range firstTOFs {
			clone := t.clone()
			params := append([]float64{}, base...)
			params[0] = dep
			params[1] = tof
			err := clone.Evaluate(params)
			sample := SweepSample{DepartureEpoch: dep, FirstTOF: tof, Err: err}
			if err == nil {
				sample.DeltaV, _ = clone.DeltaV()
			} else {
				sample.DeltaV = math.NaN()
			}
			grid[i][j] = sample
		}
	}
	return grid, nil
}

// clone returns an unevaluated copy sharing the immutable configuration.
func (t *Trajectory) clone() *Trajectory {
	return &Trajectory{
		legType:  t.legType,
		ttype:    t.ttype,
		bodies:   t.bodies,
		depOrbit: t.depOrbit,
		arrOrbit: t.arrOrbit,
		eph:      t.eph,
		stations: t.stations,
		samples:  t.samples,
		logger:   kitlog.NewNopLogger(),
	}
}
