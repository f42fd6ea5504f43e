package mgadsm

import (
	"fmt"
	"os"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// ExportConfig configures the file exports of an evaluated trajectory.
type ExportConfig struct {
	Filename  string
	Cosmo     bool   // write a Cosmographia-compatible .xyzv interpolated states file
	AsCSV     bool   // write the state history as CSV
	Timestamp bool   // stamp the file names with the creation time
	OutputDir string // empty means the configured output path
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.Cosmo && !c.AsCSV
}

func (c ExportConfig) dir() string {
	if c.OutputDir != "" {
		return c.OutputDir
	}
	return mgadsmConfig().outputDir
}

func (c ExportConfig) path(prefix, ext string) string {
	if c.Timestamp {
		t := time.Now()
		return fmt.Sprintf("%s/%s-%s-%d-%02d-%02dT%02d.%02d.%02d.%s", c.dir(), prefix, c.Filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), ext)
	}
	return fmt.Sprintf("%s/%s-%s.%s", c.dir(), prefix, c.Filename, ext)
}

// ExportHistory writes the sampled state history of an evaluated trajectory to
// the configured output directory: a `.xyzv` interpolated-states file usable as
// a Cosmographia trajectory source, a CSV, or both.
func (t *Trajectory) ExportHistory(conf ExportConfig) error {
	if err := t.resultErr(); err != nil {
		return err
	}
	if conf.IsUseless() {
		return fmt.Errorf("export config '%s' writes nothing", conf.Filename)
	}
	if conf.Cosmo {
		f, err := os.Create(conf.path("traj", "xyzv"))
		if err != nil {
			return err
		}
		fmt.Fprintf(f, `# Creation date (UTC): %s
# Records are <jd> <x> <y> <z> <vel x> <vel y> <vel z>
#   Time is a TDB Julian date
#   Position in m
#   Velocity in m/sec
#   Simulation time start (UTC): %s`, time.Now(), EpochToTime(t.history.Epochs[0]).UTC())
		for i := 0; i < t.history.Len(); i++ {
			R, V := t.history.At(i)
			jd := julian.TimeToJD(EpochToTime(t.history.Epochs[i]))
			fmt.Fprintf(f, "\n%f %f %f %f %f %f %f", jd, R[0], R[1], R[2], V[0], V[1], V[2])
		}
		fmt.Fprintf(f, "\n# Simulation time end (UTC): %s\n", EpochToTime(t.history.Epochs[t.history.Len()-1]).UTC())
		if err = f.Close(); err != nil {
			return err
		}
	}
	if conf.AsCSV {
		f, err := os.Create(conf.path("states", "csv"))
		if err != nil {
			return err
		}
		fmt.Fprintf(f, "# Creation date (UTC): %s\nepoch,x,y,z,vx,vy,vz,rnorm", time.Now())
		for i := 0; i < t.history.Len(); i++ {
			R, V := t.history.At(i)
			fmt.Fprintf(f, "\n%f,%f,%f,%f,%f,%f,%f,%f", t.history.Epochs[i], R[0], R[1], R[2], V[0], V[1], V[2], norm(R))
		}
		fmt.Fprintln(f)
		if err = f.Close(); err != nil {
			return err
		}
	}
	return nil
}

// ExportSeries writes a sampled metric to `<prefix>-<filename>.csv` as epoch,value rows.
func ExportSeries(s Series, prefix string, conf ExportConfig) error {
	f, err := os.Create(conf.path(prefix, "csv"))
	if err != nil {
		return err
	}
	fmt.Fprint(f, "epoch,value")
	for i := 0; i < s.Len(); i++ {
		fmt.Fprintf(f, "\n%f,%f", s.Epochs[i], s.Values[i])
	}
	fmt.Fprintln(f)
	return f.Close()
}

// ExportMeasurements writes station tracking samples to `meas-<filename>.csv`.
func ExportMeasurements(ms []Measurement, conf ExportConfig) error {
	f, err := os.Create(conf.path("meas", "csv"))
	if err != nil {
		return err
	}
	fmt.Fprint(f, "epoch,visible,elevation,trueRange,trueRangeRate,range,rangeRate,")
	for _, m := range ms {
		fmt.Fprintf(f, "\n%f,%v,%f,%s", m.Epoch, m.Visible, m.Elevation, m.CSV())
	}
	fmt.Fprintln(f)
	return f.Close()
}
