// Package calibration resolves the detector resolution parameters used to
// seed the peak search: either a named detector preset or an explicit
// fwhm_at_0 / ref_x / ref_fwhm triple, never both.
package calibration

import (
	"fmt"
)

// Params is the resolution triple plus the peak acceptance threshold.
// Values are fixed for the lifetime of a session.
type Params struct {
	FWHMAt0 float64 // resolution extrapolated to x = 0
	RefX    float64 // reference position on the x axis
	RefFWHM float64 // resolution at RefX
	MinSNR  float64 // minimum accepted signal-to-noise ratio
}

// Detector names a detector technology with a known resolution preset.
type Detector string

const (
	DetectorNone Detector = ""
	DetectorCeBr Detector = "cebr"
	DetectorLaBr Detector = "labr"
	DetectorHPGe Detector = "hpge"
)

// Presets are the fixed resolution triples per detector technology,
// expressed in channels for a 2k-channel spectrum.
var presets = map[Detector]Params{
	DetectorCeBr: {FWHMAt0: 1.0, RefX: 1317, RefFWHM: 41},
	DetectorLaBr: {FWHMAt0: 1.0, RefX: 1317, RefFWHM: 29},
	DetectorHPGe: {FWHMAt0: 0.5, RefX: 1317, RefFWHM: 3.5},
}

// DefaultMinSNR is used when no --min_snr flag is supplied.
const DefaultMinSNR = 1.0

// Options carries the raw flag values before resolution. Zero means the
// flag was not supplied.
type Options struct {
	Detector Detector
	FWHMAt0  float64
	RefX     float64
	RefFWHM  float64
	MinSNR   float64
}

// Preset returns the fixed triple for a detector technology.
func Preset(d Detector) (Params, bool) {
	p, ok := presets[d]
	return p, ok
}

// Resolve determines exactly one calibration source from the options.
// A detector preset wins over manual values; without a preset all three
// manual parameters are required and must be positive.
func Resolve(opts Options) (Params, error) {
	minSNR := opts.MinSNR
	if minSNR == 0 {
		minSNR = DefaultMinSNR
	}
	if minSNR <= 0 {
		return Params{}, fmt.Errorf("calibration: min_snr must be positive, got %g", minSNR)
	}

	if opts.Detector != DetectorNone {
		p, ok := presets[opts.Detector]
		if !ok {
			return Params{}, fmt.Errorf("calibration: unknown detector %q", opts.Detector)
		}
		p.MinSNR = minSNR
		return p, nil
	}

	for _, v := range []struct {
		name  string
		value float64
	}{
		{"fwhm_at_0", opts.FWHMAt0},
		{"ref_x", opts.RefX},
		{"ref_fwhm", opts.RefFWHM},
	} {
		if v.value == 0 {
			return Params{}, fmt.Errorf("calibration: missing required parameter %s (or pass a detector flag)", v.name)
		}
		if v.value < 0 {
			return Params{}, fmt.Errorf("calibration: %s must be positive, got %g", v.name, v.value)
		}
	}

	return Params{
		FWHMAt0: opts.FWHMAt0,
		RefX:    opts.RefX,
		RefFWHM: opts.RefFWHM,
		MinSNR:  minSNR,
	}, nil
}
