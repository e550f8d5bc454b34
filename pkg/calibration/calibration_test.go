package calibration

import (
	"strings"
	"testing"
)

func TestResolvePresets(t *testing.T) {
	tests := []struct {
		detector Detector
		want     Params
	}{
		{DetectorCeBr, Params{FWHMAt0: 1.0, RefX: 1317, RefFWHM: 41, MinSNR: 1.0}},
		{DetectorLaBr, Params{FWHMAt0: 1.0, RefX: 1317, RefFWHM: 29, MinSNR: 1.0}},
		{DetectorHPGe, Params{FWHMAt0: 0.5, RefX: 1317, RefFWHM: 3.5, MinSNR: 1.0}},
	}
	for _, tt := range tests {
		t.Run(string(tt.detector), func(t *testing.T) {
			got, err := Resolve(Options{Detector: tt.detector})
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%s) = %+v, want %+v", tt.detector, got, tt.want)
			}
		})
	}
}

func TestResolvePresetWinsOverManual(t *testing.T) {
	got, err := Resolve(Options{
		Detector: DetectorCeBr,
		FWHMAt0:  9, RefX: 9, RefFWHM: 9,
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.RefFWHM != 41 {
		t.Errorf("RefFWHM = %g, want preset value 41", got.RefFWHM)
	}
}

func TestResolveManual(t *testing.T) {
	got, err := Resolve(Options{FWHMAt0: 1.0, RefX: 1317, RefFWHM: 41, MinSNR: 3})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	want := Params{FWHMAt0: 1.0, RefX: 1317, RefFWHM: 41, MinSNR: 3}
	if got != want {
		t.Errorf("Resolve = %+v, want %+v", got, want)
	}
}

func TestResolveMissingManual(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		missing string
	}{
		{"all missing", Options{}, "fwhm_at_0"},
		{"ref_x missing", Options{FWHMAt0: 1, RefFWHM: 41}, "ref_x"},
		{"ref_fwhm missing", Options{FWHMAt0: 1, RefX: 1317}, "ref_fwhm"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.opts)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("error %q does not name missing parameter %q", err, tt.missing)
			}
		})
	}
}

func TestResolveMinSNR(t *testing.T) {
	got, err := Resolve(Options{Detector: DetectorLaBr})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.MinSNR != DefaultMinSNR {
		t.Errorf("default MinSNR = %g, want %g", got.MinSNR, DefaultMinSNR)
	}

	if _, err := Resolve(Options{Detector: DetectorLaBr, MinSNR: -2}); err == nil {
		t.Error("negative min_snr accepted")
	}
}

func TestResolveUnknownDetector(t *testing.T) {
	if _, err := Resolve(Options{Detector: Detector("nai")}); err == nil {
		t.Error("unknown detector accepted")
	}
}

func TestPreset(t *testing.T) {
	if _, ok := Preset(DetectorCeBr); !ok {
		t.Error("Preset(cebr) not found")
	}
	if _, ok := Preset(DetectorNone); ok {
		t.Error("Preset(none) found")
	}
}
