package mgadsm

import (
	"os"
	"testing"
)

func TestConfigDefaults(t *testing.T) {
	if os.Getenv("MGADSM_CONFIG") != "" {
		t.Skip("MGADSM_CONFIG is set, defaults do not apply")
	}
	cfg := mgadsmConfig()
	if cfg.VSOP87 || cfg.VSOP87Dir != "" || cfg.outputDir != "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if _, ok := DefaultEphemeris().(MeanElementsEphemeris); !ok {
		t.Fatal("the default ephemeris should be the mean-elements provider")
	}
}
