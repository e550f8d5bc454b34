// Package peakfit fits one or more Gaussians plus a background shape to a
// user-selected region of a spectrum. Peak candidates from the search step
// seed the initial guesses; the optimisation minimises Poisson-weighted
// least squares.
package peakfit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"

	"github.com/OpenGammaLab/gammaview/pkg/peaksearch"
)

const fwhmFactor = 2.355 // FWHM of a Gaussian in units of sigma

// Background enumerates the supported background shapes.
type Background int

const (
	Poly1 Background = iota // a + b*x
	Poly2                   // a + b*x + c*x^2
	Exp                     // a * e^(b*x)
)

func (b Background) String() string {
	switch b {
	case Poly1:
		return "poly1"
	case Poly2:
		return "poly2"
	case Exp:
		return "exp"
	}
	return fmt.Sprintf("Background(%d)", int(b))
}

// ParseBackground maps a background name to its kind.
func ParseBackground(name string) (Background, error) {
	switch name {
	case "poly1":
		return Poly1, nil
	case "poly2":
		return Poly2, nil
	case "exp":
		return Exp, nil
	}
	return 0, fmt.Errorf("peakfit: unknown background model %q", name)
}

// coeffs returns the number of background coefficients.
func (b Background) coeffs() int {
	switch b {
	case Poly2:
		return 3
	default:
		return 2
	}
}

// eval evaluates the background shape at x.
func (b Background) eval(c []float64, x float64) float64 {
	switch b {
	case Poly1:
		return c[0] + c[1]*x
	case Poly2:
		return c[0] + c[1]*x + c[2]*x*x
	case Exp:
		return c[0] * math.Exp(c[1]*x)
	}
	return 0
}

// Peak is one fitted Gaussian component.
type Peak struct {
	Amplitude float64
	Centroid  float64
	Sigma     float64
}

// FWHM returns the full width at half maximum of the peak.
func (p Peak) FWHM() float64 { return fwhmFactor * p.Sigma }

// Area returns the net peak area (integral of the Gaussian).
func (p Peak) Area() float64 { return p.Amplitude * p.Sigma * math.Sqrt(2*math.Pi) }

// Result is a completed fit over a selected region.
type Result struct {
	XMin, XMax float64
	Background Background
	BkgCoeffs  []float64
	Peaks      []Peak

	X         []float64 // x grid of the fitted region
	Y         []float64 // observed counts on the grid
	Fitted    []float64 // model evaluated on the grid
	Residuals []float64 // observed - fitted
	RedChiSq  float64
}

// Fit fits background + Gaussians over [xmin, xmax]. Detected peaks inside
// the range seed the model; with none, a single Gaussian is seeded at the
// region's maximum.
func Fit(search *peaksearch.Result, xmin, xmax float64, bkg Background) (*Result, error) {
	if search == nil {
		return nil, fmt.Errorf("peakfit: no search result")
	}
	if xmin > xmax {
		xmin, xmax = xmax, xmin
	}
	spec := search.Spectrum
	lo := spec.ChannelAt(xmin)
	hi := spec.ChannelAt(xmax)
	if lo > hi {
		lo, hi = hi, lo
	}
	if hi-lo+1 < 3 {
		return nil, fmt.Errorf("peakfit: selected range [%g, %g] covers fewer than 3 points", xmin, xmax)
	}

	xs := make([]float64, hi-lo+1)
	ys := make([]float64, hi-lo+1)
	for i := range xs {
		xs[i] = spec.XAt(lo + i)
		ys[i] = spec.Counts[lo+i]
	}

	// Channel width in x units, needed to express FWHM guesses (which the
	// search reports in channels) on a calibrated axis.
	dx := (xs[len(xs)-1] - xs[0]) / float64(hi-lo)
	if dx <= 0 {
		dx = 1
	}

	peakIdx, fwhmGuess := search.PeaksIn(xs[0], xs[len(xs)-1])
	guesses := make([]Peak, 0, len(peakIdx))
	for i, ch := range peakIdx {
		guesses = append(guesses, Peak{
			Amplitude: math.Max(spec.Counts[ch], 1),
			Centroid:  spec.XAt(ch),
			Sigma:     math.Max(fwhmGuess[i]*dx/fwhmFactor, dx/2),
		})
	}
	if len(guesses) == 0 {
		top := floats.MaxIdx(ys)
		guesses = append(guesses, Peak{
			Amplitude: math.Max(ys[top], 1),
			Centroid:  xs[top],
			Sigma:     math.Max(search.FWHM(float64(lo+top))*dx/fwhmFactor, dx/2),
		})
	}

	params := initialParams(bkg, xs, ys, guesses)
	model := func(p []float64, x float64) float64 {
		nb := bkg.coeffs()
		y := bkg.eval(p[:nb], x)
		for i := nb; i+2 < len(p); i += 3 {
			amp := math.Abs(p[i])
			mean := p[i+1]
			sigma := math.Abs(p[i+2])
			if sigma == 0 {
				continue
			}
			z := (x - mean) / sigma
			y += amp * math.Exp(-z*z/2)
		}
		return y
	}

	problem := optimize.Problem{
		Func: func(p []float64) float64 {
			var sum float64
			for i, x := range xs {
				r := model(p, x) - ys[i]
				w := ys[i]
				if w < 1 {
					w = 1
				}
				sum += r * r / w
			}
			return sum
		},
	}

	res, err := optimize.Minimize(problem, params, &optimize.Settings{
		MajorIterations: 4000,
	}, &optimize.NelderMead{})
	if err != nil {
		return nil, fmt.Errorf("peakfit: optimisation failed: %w", err)
	}

	nb := bkg.coeffs()
	out := &Result{
		XMin:       xs[0],
		XMax:       xs[len(xs)-1],
		Background: bkg,
		BkgCoeffs:  append([]float64(nil), res.X[:nb]...),
		X:          xs,
		Y:          ys,
	}
	for i := nb; i+2 < len(res.X); i += 3 {
		out.Peaks = append(out.Peaks, Peak{
			Amplitude: math.Abs(res.X[i]),
			Centroid:  res.X[i+1],
			Sigma:     math.Abs(res.X[i+2]),
		})
	}

	out.Fitted = make([]float64, len(xs))
	out.Residuals = make([]float64, len(xs))
	for i, x := range xs {
		out.Fitted[i] = model(res.X, x)
		out.Residuals[i] = ys[i] - out.Fitted[i]
	}
	dof := len(xs) - len(res.X)
	if dof < 1 {
		dof = 1
	}
	out.RedChiSq = res.F / float64(dof)
	return out, nil
}

// initialParams builds the optimiser start vector: background coefficients
// estimated from the region's endpoints followed by (amp, mean, sigma) per
// seeded peak.
func initialParams(bkg Background, xs, ys []float64, guesses []Peak) []float64 {
	x1, x2 := xs[0], xs[len(xs)-1]
	y1, y2 := ys[0], ys[len(ys)-1]

	var p []float64
	switch bkg {
	case Poly2:
		slope := (y2 - y1) / (x2 - x1)
		p = []float64{y1 - slope*x1, slope, 0}
	case Exp:
		a := math.Max(y1, 1e-3)
		b := 0.0
		if y1 > 0 && y2 > 0 && x2 != x1 {
			b = math.Log(y2/y1) / (x2 - x1)
		}
		p = []float64{a / math.Exp(b*x1), b}
	default:
		slope := (y2 - y1) / (x2 - x1)
		p = []float64{y1 - slope*x1, slope}
	}

	for _, g := range guesses {
		base := bkg.eval(p, g.Centroid)
		amp := g.Amplitude - base
		if amp < 1 {
			amp = 1
		}
		p = append(p, amp, g.Centroid, g.Sigma)
	}
	return p
}

// TableRow is one line of the fit report shown in the table panel.
type TableRow struct {
	Centroid    float64
	CentroidErr float64
	FWHM        float64
	Area        float64
	AreaErr     float64
}

// Rows summarises the fitted peaks with counting-statistics uncertainties.
func (r *Result) Rows() []TableRow {
	rows := make([]TableRow, 0, len(r.Peaks))
	for _, p := range r.Peaks {
		area := p.Area()
		areaErr := 0.0
		centErr := 0.0
		if area > 0 {
			areaErr = math.Sqrt(area)
			centErr = p.FWHM() / (fwhmFactor * math.Sqrt(area))
		}
		rows = append(rows, TableRow{
			Centroid:    p.Centroid,
			CentroidErr: centErr,
			FWHM:        p.FWHM(),
			Area:        area,
			AreaErr:     areaErr,
		})
	}
	return rows
}
