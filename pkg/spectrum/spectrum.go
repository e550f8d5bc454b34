// Package spectrum holds the in-memory representation of a gamma-ray
// spectrum: an ordered counts sequence with an optional calibrated energy
// axis. Loaders for the supported on-disk formats live alongside it.
package spectrum

import (
	"errors"
	"fmt"
)

// Spectrum is an ordered sequence of counts with an optional energy axis.
// When Energies is nil the x axis is the implicit channel sequence 0..N-1.
type Spectrum struct {
	Counts   []float64
	Energies []float64
	XUnits   string
}

// ErrEmpty is returned when a loader produced no counts at all.
var ErrEmpty = errors.New("spectrum: no counts")

// New builds a Spectrum and validates its invariants: counts non-negative,
// axis (when present) the same length as counts and monotonically
// non-decreasing.
func New(counts, energies []float64, xUnits string) (*Spectrum, error) {
	if len(counts) == 0 {
		return nil, ErrEmpty
	}
	for i, c := range counts {
		if c < 0 {
			return nil, fmt.Errorf("spectrum: negative count %g at index %d", c, i)
		}
	}
	if energies != nil {
		if len(energies) != len(counts) {
			return nil, fmt.Errorf("spectrum: counts has %d entries but energy axis has %d",
				len(counts), len(energies))
		}
		for i := 1; i < len(energies); i++ {
			if energies[i] < energies[i-1] {
				return nil, fmt.Errorf("spectrum: energy axis decreases at index %d (%g < %g)",
					i, energies[i], energies[i-1])
			}
		}
	}
	if xUnits == "" {
		if energies == nil {
			xUnits = "channels"
		} else {
			xUnits = "energy"
		}
	}
	return &Spectrum{Counts: counts, Energies: energies, XUnits: xUnits}, nil
}

// Len returns the number of channels.
func (s *Spectrum) Len() int { return len(s.Counts) }

// Channels returns the channel index axis 0..N-1.
func (s *Spectrum) Channels() []float64 {
	ch := make([]float64, len(s.Counts))
	for i := range ch {
		ch[i] = float64(i)
	}
	return ch
}

// X returns the plotting axis: energies when calibrated, channels otherwise.
func (s *Spectrum) X() []float64 {
	if s.Energies != nil {
		return s.Energies
	}
	return s.Channels()
}

// XAt returns the x value for a channel index.
func (s *Spectrum) XAt(ch int) float64 {
	if s.Energies != nil {
		return s.Energies[ch]
	}
	return float64(ch)
}

// ChannelAt returns the index of the channel whose x value is closest to x.
// The axis is monotonic, so a binary search would do; spectra are small
// enough that a linear scan keeps this trivial.
func (s *Spectrum) ChannelAt(x float64) int {
	best := 0
	bestDist := -1.0
	for i := 0; i < s.Len(); i++ {
		d := s.XAt(i) - x
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Calibrated reports whether an energy axis is present.
func (s *Spectrum) Calibrated() bool { return s.Energies != nil }
