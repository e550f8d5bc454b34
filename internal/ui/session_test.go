package ui

import (
	"testing"

	"github.com/OpenGammaLab/gammaview/pkg/peakfit"
	"github.com/OpenGammaLab/gammaview/pkg/spectrum"
)

func TestSetSpectrumResetsView(t *testing.T) {
	d, _ := newTestDispatcher(t)
	sess := d.Session

	d.Dispatch(RegionSelected{Range: Range{XMin: 80, XMax: 120}})
	if sess.Selection() == nil || sess.Snapshot().Fit == nil {
		t.Fatal("selection/fit not established")
	}

	spec, err := spectrum.New([]float64{1, 2, 3}, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	sess.SetSpectrum(spec, sess.Search(), "other.csv")

	snap := sess.Snapshot()
	if snap.Selection != nil {
		t.Error("selection survived a spectrum swap")
	}
	if snap.Fit != nil {
		t.Error("fit survived a spectrum swap")
	}
	if snap.FilePath != "other.csv" {
		t.Errorf("FilePath = %q, want %q", snap.FilePath, "other.csv")
	}
	if snap.Spectrum != spec {
		t.Error("spectrum not replaced")
	}
}

func TestSnapshotIsolation(t *testing.T) {
	d, _ := newTestDispatcher(t)
	sess := d.Session

	sess.SetSelection(Range{XMin: 10, XMax: 20})
	snap := sess.Snapshot()
	snap.Selection.XMin = -999

	if sel := sess.Selection(); sel.XMin != 10 {
		t.Errorf("mutating a snapshot changed the session: XMin = %g", sel.XMin)
	}
}

func TestSessionDefaults(t *testing.T) {
	d, _ := newTestDispatcher(t)
	snap := d.Session.Snapshot()

	if snap.Model != peakfit.Poly1 {
		t.Errorf("initial model = %v, want poly1", snap.Model)
	}
	if !snap.LogY {
		t.Error("initial scale not log")
	}
	if !snap.SNROverlay {
		t.Error("initial SNR overlay not shown")
	}
	if snap.Selection != nil || snap.Fit != nil {
		t.Error("fresh session carries a selection or fit")
	}
	if snap.Status == "" {
		t.Error("fresh session has no status hint")
	}
}
