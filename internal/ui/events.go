package ui

import (
	"fmt"
	"log"

	"github.com/OpenGammaLab/gammaview/pkg/peakfit"
	"github.com/OpenGammaLab/gammaview/pkg/peaksearch"
	"github.com/OpenGammaLab/gammaview/pkg/spectrum"
)

// Event is a user gesture translated into a typed message. All mutation of
// session state funnels through Dispatch, which runs on the UI thread.
type Event interface{ isEvent() }

// RegionSelected reports a completed horizontal drag on the main axis.
type RegionSelected struct{ Range Range }

// ModelChosen reports a background-model button click.
type ModelChosen struct{ Model peakfit.Background }

// ScaleToggled flips the main axis between log and linear.
type ScaleToggled struct{}

// SNRToggled flips the SNR overlay on the main axis.
type SNRToggled struct{}

// SpectrumOpened reports a new file chosen in the picker.
type SpectrumOpened struct{ Path string }

func (RegionSelected) isEvent() {}
func (ModelChosen) isEvent()    {}
func (ScaleToggled) isEvent()   {}
func (SNRToggled) isEvent()     {}
func (SpectrumOpened) isEvent() {}

// fitFunc matches peakfit.Fit; tests substitute it to observe invocations.
type fitFunc func(*peaksearch.Result, float64, float64, peakfit.Background) (*peakfit.Result, error)

// Dispatcher applies events to a session. It owns no widget state, so it
// can be exercised without a window.
type Dispatcher struct {
	Session *Session
	Fit     fitFunc
}

// NewDispatcher wires a dispatcher to a session with the real fit routine.
func NewDispatcher(sess *Session) *Dispatcher {
	return &Dispatcher{Session: sess, Fit: peakfit.Fit}
}

// Dispatch consumes one event. Fit failures are reported through the
// status line and the log; the session keeps its previous panels.
func (d *Dispatcher) Dispatch(ev Event) {
	switch e := ev.(type) {
	case RegionSelected:
		d.Session.SetSelection(e.Range)
		d.refit()
	case ModelChosen:
		if d.Session.Selection() == nil {
			d.Session.SetStatus("Select a region before choosing a background model")
			return
		}
		d.Session.SetModel(e.Model)
		d.refit()
	case ScaleToggled:
		if d.Session.ToggleLogY() {
			d.Session.SetStatus("Main axis: log scale")
		} else {
			d.Session.SetStatus("Main axis: linear scale")
		}
	case SNRToggled:
		if d.Session.ToggleSNR() {
			d.Session.SetStatus("SNR overlay on")
		} else {
			d.Session.SetStatus("SNR overlay off")
		}
	case SpectrumOpened:
		d.openSpectrum(e.Path)
	}
}

// refit invokes the fit with the current selection and background model
// and stores the result.
func (d *Dispatcher) refit() {
	sel := d.Session.Selection()
	if sel == nil {
		return
	}
	fit, err := d.Fit(d.Session.Search(), sel.XMin, sel.XMax, d.Session.Model())
	if err != nil {
		log.Printf("ui: fit failed: %v", err)
		d.Session.SetStatus(fmt.Sprintf("Fit failed: %v", err))
		return
	}
	d.Session.SetFit(fit)
	d.Session.SetStatus(fmt.Sprintf("Fit [%0.1f, %0.1f] with %s background: %d peak(s), red. chi2 %.2f",
		fit.XMin, fit.XMax, fit.Background, len(fit.Peaks), fit.RedChiSq))
}

// openSpectrum loads a new file, re-runs the search with the startup
// calibration, and resets the view.
func (d *Dispatcher) openSpectrum(path string) {
	spec, err := spectrum.Load(path)
	if err != nil {
		log.Printf("ui: load failed: %v", err)
		d.Session.SetStatus(fmt.Sprintf("Load failed: %v", err))
		return
	}
	search, err := peaksearch.Search(spec, d.Session.Params())
	if err != nil {
		log.Printf("ui: search failed: %v", err)
		d.Session.SetStatus(fmt.Sprintf("Peak search failed: %v", err))
		return
	}
	d.Session.SetSpectrum(spec, search, path)
	d.Session.SetStatus(fmt.Sprintf("Loaded %s: %d channels, %d peak(s) above SNR %.3g",
		path, spec.Len(), len(search.Peaks), d.Session.Params().MinSNR))
}
