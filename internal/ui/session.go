package ui

import (
	"sync"

	"github.com/OpenGammaLab/gammaview/pkg/calibration"
	"github.com/OpenGammaLab/gammaview/pkg/peakfit"
	"github.com/OpenGammaLab/gammaview/pkg/peaksearch"
	"github.com/OpenGammaLab/gammaview/pkg/spectrum"
)

// Range is a user-selected x interval on the main axis.
type Range struct {
	XMin, XMax float64
}

// Snapshot captures a copy of the session for rendering without requiring
// the UI to hold locks while laying out widgets.
type Snapshot struct {
	Spectrum *spectrum.Spectrum
	Search   *peaksearch.Result
	Params   calibration.Params

	Selection  *Range
	Model      peakfit.Background
	Fit        *peakfit.Result
	LogY       bool
	SNROverlay bool

	Status   string
	FilePath string
}

// Session owns all mutable state of one viewing session: the loaded
// spectrum, the search result, the current selection, background model,
// display scale, and the latest fit. Event handlers mutate it through a
// single dispatcher; the file picker callback runs on its own goroutine,
// hence the lock.
type Session struct {
	mu sync.RWMutex

	spec   *spectrum.Spectrum
	search *peaksearch.Result
	params calibration.Params

	selection  *Range
	model      peakfit.Background
	fit        *peakfit.Result
	logY       bool
	snrOverlay bool

	status   string
	filePath string
}

// NewSession starts a session in the initial-display state: log scale,
// poly1 background, no selection, no fit.
func NewSession(spec *spectrum.Spectrum, search *peaksearch.Result, params calibration.Params, path string) *Session {
	return &Session{
		spec:       spec,
		search:     search,
		params:     params,
		model:      peakfit.Poly1,
		logY:       true,
		snrOverlay: true,
		status:     "Drag across the spectrum to select a fit region",
		filePath:   path,
	}
}

// Snapshot returns a copy of the session for rendering.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sel *Range
	if s.selection != nil {
		r := *s.selection
		sel = &r
	}
	return Snapshot{
		Spectrum:   s.spec,
		Search:     s.search,
		Params:     s.params,
		Selection:  sel,
		Model:      s.model,
		Fit:        s.fit,
		LogY:       s.logY,
		SNROverlay: s.snrOverlay,
		Status:     s.status,
		FilePath:   s.filePath,
	}
}

// SetSpectrum replaces the loaded spectrum and search result, clearing the
// selection and fit.
func (s *Session) SetSpectrum(spec *spectrum.Spectrum, search *peaksearch.Result, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spec = spec
	s.search = search
	s.selection = nil
	s.fit = nil
	s.filePath = path
}

// Search returns the current search result.
func (s *Session) Search() *peaksearch.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.search
}

// Params returns the calibration parameters fixed at startup.
func (s *Session) Params() calibration.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// SetSelection records the most recent drag-selected range.
func (s *Session) SetSelection(r Range) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.XMax < r.XMin {
		r.XMin, r.XMax = r.XMax, r.XMin
	}
	s.selection = &r
}

// Selection returns the current selection, if any.
func (s *Session) Selection() *Range {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selection == nil {
		return nil
	}
	r := *s.selection
	return &r
}

// SetModel records the background model used for subsequent fits.
func (s *Session) SetModel(m peakfit.Background) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = m
}

// Model returns the current background model.
func (s *Session) Model() peakfit.Background {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.model
}

// SetFit stores the latest fit result.
func (s *Session) SetFit(fit *peakfit.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fit = fit
}

// ToggleLogY flips the main axis scale and reports the new value.
func (s *Session) ToggleLogY() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logY = !s.logY
	return s.logY
}

// ToggleSNR flips the SNR overlay and reports the new value.
func (s *Session) ToggleSNR() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snrOverlay = !s.snrOverlay
	return s.snrOverlay
}

// SetStatus updates the user-facing status message.
func (s *Session) SetStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}
