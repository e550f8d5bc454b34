package spectrum

import (
	"math"
	"testing"
)

func newTestSPEParser(t *testing.T) *SPEParser {
	t.Helper()
	p, err := NewSPEParser()
	if err != nil {
		t.Fatalf("parser init failed: %v", err)
	}
	return p
}

func TestSPEDataOnly(t *testing.T) {
	p := newTestSPEParser(t)
	s, err := p.ParseString(`$SPEC_ID:
test run
$DATA:
0 3
10 20 30 40
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if s.Len() != 4 {
		t.Fatalf("got %d channels, want 4", s.Len())
	}
	if s.Calibrated() {
		t.Error("spectrum without calibration section reported as calibrated")
	}
	if s.XUnits != "channels" {
		t.Errorf("units = %q, want %q", s.XUnits, "channels")
	}
	if s.Counts[2] != 30 {
		t.Errorf("Counts[2] = %g, want 30", s.Counts[2])
	}
}

func TestSPEEnergyFit(t *testing.T) {
	p := newTestSPEParser(t)
	s, err := p.ParseString(`$DATA:
0 2
5 6 7
$ENER_FIT:
10.0 0.5
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !s.Calibrated() {
		t.Fatal("spectrum with $ENER_FIT not calibrated")
	}
	if s.XUnits != "keV" {
		t.Errorf("units = %q, want %q", s.XUnits, "keV")
	}
	// e(ch) = 10 + 0.5*ch
	want := []float64{10, 10.5, 11}
	for i, w := range want {
		if math.Abs(s.Energies[i]-w) > 1e-12 {
			t.Errorf("Energies[%d] = %g, want %g", i, s.Energies[i], w)
		}
	}
}

func TestSPEMCACal(t *testing.T) {
	p := newTestSPEParser(t)
	s, err := p.ParseString(`$DATA:
0 2
1 2 3
$MCA_CAL:
3
0.0 2.0 0.1 keV
`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	// e(ch) = 0 + 2*ch + 0.1*ch^2
	want := []float64{0, 2.1, 4.4}
	for i, w := range want {
		if math.Abs(s.Energies[i]-w) > 1e-12 {
			t.Errorf("Energies[%d] = %g, want %g", i, s.Energies[i], w)
		}
	}
}

func TestSPEErrors(t *testing.T) {
	p := newTestSPEParser(t)
	tests := []struct {
		name  string
		input string
	}{
		{"missing data", "$SPEC_ID:\nrun\n"},
		{"short data", "$DATA:\n0 5\n"},
		{"count mismatch", "$DATA:\n0 3\n1 2 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.ParseString(tt.input); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestPathExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"run.spe", ".spe"},
		{"run.SPE", ".SPE"},
		{"dir.d/run", ""},
		{"a/b/run.csv", ".csv"},
		{"noext", ""},
	}
	for _, tt := range tests {
		if got := pathExt(tt.path); got != tt.want {
			t.Errorf("pathExt(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
