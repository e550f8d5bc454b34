package spectrum

import (
	"strings"
	"testing"
)

func TestReadCSVCountsOnly(t *testing.T) {
	s, err := ReadCSV(strings.NewReader("counts\n10\n20\n30\n"))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("got %d channels, want 3", s.Len())
	}
	if s.Calibrated() {
		t.Error("counts-only file reported as calibrated")
	}
	if s.XUnits != "channels" {
		t.Errorf("units = %q, want %q", s.XUnits, "channels")
	}
	if s.Counts[1] != 20 {
		t.Errorf("Counts[1] = %g, want 20", s.Counts[1])
	}
}

func TestReadCSVColumnOrder(t *testing.T) {
	// Both column orders must produce the identical spectrum.
	inputs := []string{
		"energy_keV,counts\n0,10\n661.7,250\n1460,40\n",
		"counts,energy_keV\n10,0\n250,661.7\n40,1460\n",
	}
	for _, in := range inputs {
		s, err := ReadCSV(strings.NewReader(in))
		if err != nil {
			t.Fatalf("ReadCSV(%q) failed: %v", in[:20], err)
		}
		if !s.Calibrated() {
			t.Fatal("two-column file not calibrated")
		}
		if s.XUnits != "keV" {
			t.Errorf("units = %q, want %q", s.XUnits, "keV")
		}
		if s.Counts[1] != 250 || s.Energies[1] != 661.7 {
			t.Errorf("row 1 = (%g, %g), want (250, 661.7)", s.Counts[1], s.Energies[1])
		}
	}
}

func TestReadCSVGenericEnergyHeader(t *testing.T) {
	s, err := ReadCSV(strings.NewReader("energy,counts\n0,1\n1,2\n"))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if s.XUnits != "energy" {
		t.Errorf("units = %q, want %q", s.XUnits, "energy")
	}
}

func TestReadCSVErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"bad single header", "channel\n1\n"},
		{"no counts column", "energy_keV,values\n0,1\n"},
		{"second column not energy", "counts,time\n1,0\n"},
		{"three columns", "counts,energy_keV,extra\n1,0,0\n"},
		{"bad counts value", "counts\nten\n"},
		{"bad energy value", "counts,energy_keV\n1,zero\n"},
		{"negative counts", "counts\n-4\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
