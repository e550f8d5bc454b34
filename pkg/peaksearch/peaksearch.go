// Package peaksearch locates candidate peaks in a spectrum by convolving
// it with a Gaussian-derivative kernel matched to the detector resolution,
// a deconvolution technique adapted from the becquerel library. Peaks are
// local maxima of the resulting signal-to-noise curve.
package peaksearch

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/OpenGammaLab/gammaview/pkg/calibration"
	"github.com/OpenGammaLab/gammaview/pkg/spectrum"
)

// fwhmToSigma converts a full width at half maximum to a Gaussian sigma.
const fwhmToSigma = 1.0 / 2.355

// Result holds the decomposition of a spectrum into peak and continuum
// components plus the located peak candidates.
type Result struct {
	Spectrum *spectrum.Spectrum
	Params   calibration.Params

	PeakPlusBkg []float64
	Bkg         []float64
	Signal      []float64
	Noise       []float64
	SNR         []float64 // clipped at zero

	Peaks     []int     // channel indices of accepted peaks
	FWHMGuess []float64 // expected FWHM at each accepted peak
}

// Search convolves the spectrum with the resolution-matched kernel and
// returns the component decomposition and peak candidates.
func Search(spec *spectrum.Spectrum, params calibration.Params) (*Result, error) {
	if spec == nil || spec.Len() == 0 {
		return nil, fmt.Errorf("peaksearch: empty spectrum")
	}
	if params.RefX <= 0 || params.RefFWHM <= 0 || params.FWHMAt0 <= 0 {
		return nil, fmt.Errorf("peaksearch: calibration parameters must be positive: %+v", params)
	}

	s := &Result{Spectrum: spec, Params: params}

	n := spec.Len()
	edges := make([]float64, n+1)
	for i := range edges {
		edges[i] = float64(i)
	}
	s.convolve(edges, spec.Counts)

	for _, idx := range findPeaks(s.SNR, params.MinSNR) {
		s.Peaks = append(s.Peaks, idx)
		s.FWHMGuess = append(s.FWHMGuess, s.FWHM(float64(idx)))
	}
	return s, nil
}

// FWHM returns the expected full width at half maximum at channel x:
// f(x) = (ref_fwhm / sqrt(ref_x)) * sqrt(x) + fwhm_at_0.
func (s *Result) FWHM(x float64) float64 {
	if x < 0 {
		x = 0
	}
	return (s.Params.RefFWHM/math.Sqrt(s.Params.RefX))*math.Sqrt(x) + s.Params.FWHMAt0
}

func gaussian(x, mean, sigma float64) float64 {
	z := (x - mean) / sigma
	return math.Exp(-z * z / 2)
}

func gaussianDerivative(x, mean, sigma float64) float64 {
	return -(x - mean) * gaussian(x, mean, sigma)
}

// kernel evaluates the matched kernel for center x over the bin edges.
func (s *Result) kernel(x float64, edges []float64) []float64 {
	sigma := s.FWHM(x) * fwhmToSigma
	k := make([]float64, len(edges)-1)
	for i := range k {
		k[i] = gaussianDerivative(edges[i], x, sigma) - gaussianDerivative(edges[i+1], x, sigma)
	}
	return k
}

// kernelMatrix builds the kernel evaluated at every channel, with the
// negative lobe of each column rescaled to balance the positive lobe.
func (s *Result) kernelMatrix(edges []float64) *mat.Dense {
	n := len(edges) - 1
	kern := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		col := s.kernel(edges[j], edges)
		var posSum, negSum float64
		for _, v := range col {
			if v > 0 {
				posSum += v
			} else {
				negSum -= v
			}
		}
		scale := 1.0
		if negSum > 0 {
			scale = posSum / negSum
		}
		for i, v := range col {
			if v < 0 {
				v *= scale
			}
			kern.Set(i, j, v)
		}
	}
	return kern
}

// convolve fills the component arrays from the kernel matrix and counts.
func (s *Result) convolve(edges, counts []float64) {
	n := len(counts)
	kern := s.kernelMatrix(edges)

	pos := mat.NewDense(n, n, nil)
	neg := mat.NewDense(n, n, nil)
	sq := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			v := kern.At(i, j)
			sq.Set(i, j, v*v)
			if v > 0 {
				pos.Set(i, j, v)
			} else {
				neg.Set(i, j, -v)
			}
		}
	}

	data := mat.NewVecDense(n, counts)
	mulVec := func(m *mat.Dense) []float64 {
		var v mat.VecDense
		v.MulVec(m, data)
		out := make([]float64, n)
		copy(out, v.RawVector().Data)
		return out
	}

	s.PeakPlusBkg = mulVec(pos)
	s.Bkg = mulVec(neg)
	s.Signal = mulVec(kern)
	s.Noise = mulVec(sq)
	s.SNR = make([]float64, n)
	for i := range s.Noise {
		s.Noise[i] = math.Sqrt(s.Noise[i])
		if s.Noise[i] > 0 && s.Signal[i] > 0 {
			s.SNR[i] = s.Signal[i] / s.Noise[i]
		}
	}
}

// findPeaks returns indices of local maxima of y with height >= minHeight.
// Flat-topped peaks report their leftmost sample.
func findPeaks(y []float64, minHeight float64) []int {
	var peaks []int
	for i := 1; i < len(y)-1; i++ {
		if y[i] < minHeight || y[i] <= y[i-1] {
			continue
		}
		// Walk over a plateau to find the right edge.
		j := i
		for j < len(y)-1 && y[j+1] == y[i] {
			j++
		}
		if j < len(y)-1 && y[j+1] < y[i] {
			peaks = append(peaks, i)
		}
		i = j
	}
	return peaks
}

// PeaksIn returns the detected peak channels whose x value lies inside
// [xmin, xmax], together with the matching FWHM guesses.
func (s *Result) PeaksIn(xmin, xmax float64) (idx []int, fwhm []float64) {
	for i, ch := range s.Peaks {
		x := s.Spectrum.XAt(ch)
		if x >= xmin && x <= xmax {
			idx = append(idx, ch)
			fwhm = append(fwhm, s.FWHMGuess[i])
		}
	}
	return idx, fwhm
}
