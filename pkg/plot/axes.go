// Package plot maps spectrum data onto screen coordinates and draws line
// series, markers, and axis furniture as Gio operations. It is deliberately
// small: just enough canvas for a spectroscopy view, not a charting library.
package plot

import (
	"image"
	"math"
	"strconv"
)

// Axes is a viewport onto a data region. It owns the data-to-screen
// transform for one panel, including the optional log y scale.
type Axes struct {
	// Rect is the pixel region the data area occupies.
	Rect image.Rectangle

	XMin, XMax float64
	YMin, YMax float64

	// LogY switches the y mapping to log10. Values at or below LogFloor
	// are clamped to the floor, matching how counts of zero are displayed
	// on a log spectrum.
	LogY     bool
	LogFloor float64
}

// DefaultLogFloor keeps zero-count channels visible on a log axis.
const DefaultLogFloor = 0.1

// NewAxes returns axes over the given pixel rect with an empty data range.
func NewAxes(rect image.Rectangle) *Axes {
	return &Axes{Rect: rect, LogFloor: DefaultLogFloor}
}

// Fit sets the data range to cover the series, with a little headroom on y.
func (a *Axes) Fit(xs, ys []float64) {
	if len(xs) == 0 || len(ys) == 0 {
		return
	}
	a.XMin, a.XMax = xs[0], xs[0]
	for _, x := range xs {
		a.XMin = math.Min(a.XMin, x)
		a.XMax = math.Max(a.XMax, x)
	}
	a.YMin, a.YMax = ys[0], ys[0]
	for _, y := range ys {
		a.YMin = math.Min(a.YMin, y)
		a.YMax = math.Max(a.YMax, y)
	}
	if a.XMax == a.XMin {
		a.XMax = a.XMin + 1
	}
	span := a.YMax - a.YMin
	if span == 0 {
		span = 1
	}
	a.YMax += span * 0.05
	if a.LogY && a.YMin <= 0 {
		a.YMin = a.LogFloor
	}
}

func (a *Axes) yTransformed(y float64) float64 {
	if !a.LogY {
		return y
	}
	floor := a.LogFloor
	if floor <= 0 {
		floor = DefaultLogFloor
	}
	if y < floor {
		y = floor
	}
	return math.Log10(y)
}

func (a *Axes) yRangeTransformed() (float64, float64) {
	lo := a.yTransformed(a.YMin)
	hi := a.yTransformed(a.YMax)
	if hi == lo {
		hi = lo + 1
	}
	return lo, hi
}

// ToScreen converts a data point to pixel coordinates. The y axis points
// up in data space and down on screen.
func (a *Axes) ToScreen(x, y float64) (float32, float32) {
	w := float64(a.Rect.Dx())
	h := float64(a.Rect.Dy())
	sx := float64(a.Rect.Min.X) + (x-a.XMin)/(a.XMax-a.XMin)*w
	lo, hi := a.yRangeTransformed()
	sy := float64(a.Rect.Max.Y) - (a.yTransformed(y)-lo)/(hi-lo)*h
	return float32(sx), float32(sy)
}

// XFromScreen converts a pixel x position back to a data x value,
// clamped to the axes' x range.
func (a *Axes) XFromScreen(sx float32) float64 {
	w := float64(a.Rect.Dx())
	if w <= 0 {
		return a.XMin
	}
	x := a.XMin + (float64(sx)-float64(a.Rect.Min.X))/w*(a.XMax-a.XMin)
	if x < a.XMin {
		x = a.XMin
	}
	if x > a.XMax {
		x = a.XMax
	}
	return x
}

// Contains reports whether the pixel point lies inside the data area.
func (a *Axes) Contains(p image.Point) bool {
	return p.In(a.Rect)
}

// Tick is one axis tick: a data value and its preformatted label.
type Tick struct {
	Value float64
	Label string
}

// XTicks returns up to n evenly spaced ticks over the x range.
func (a *Axes) XTicks(n int) []Tick {
	return linearTicks(a.XMin, a.XMax, n)
}

// YTicks returns ticks over the y range; on a log axis one per decade.
func (a *Axes) YTicks(n int) []Tick {
	if !a.LogY {
		return linearTicks(a.YMin, a.YMax, n)
	}
	lo, hi := a.yRangeTransformed()
	var ticks []Tick
	for d := math.Ceil(lo); d <= math.Floor(hi); d++ {
		ticks = append(ticks, Tick{Value: math.Pow(10, d), Label: formatTick(math.Pow(10, d))})
	}
	if len(ticks) == 0 {
		ticks = append(ticks, Tick{Value: math.Pow(10, lo), Label: formatTick(math.Pow(10, lo))})
	}
	return ticks
}

// linearTicks picks a step of 1, 2, or 5 times a power of ten so the range
// holds close to n ticks at round values.
func linearTicks(min, max float64, n int) []Tick {
	if n < 2 {
		n = 2
	}
	span := max - min
	if span <= 0 || math.IsNaN(span) || math.IsInf(span, 0) {
		return []Tick{{Value: min, Label: formatTick(min)}}
	}
	rawStep := span / float64(n-1)
	mag := math.Pow(10, math.Floor(math.Log10(rawStep)))
	var step float64
	switch norm := rawStep / mag; {
	case norm < 1.5:
		step = mag
	case norm < 3.5:
		step = 2 * mag
	case norm < 7.5:
		step = 5 * mag
	default:
		step = 10 * mag
	}
	var ticks []Tick
	for v := math.Ceil(min/step) * step; v <= max+step/1e6; v += step {
		ticks = append(ticks, Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

func formatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case v == 0:
		return "0"
	case av >= 1e5 || av < 1e-3:
		return trimExp(v)
	case av >= 1:
		return trimZeros(v)
	default:
		return trimZeros(v)
	}
}

func trimExp(v float64) string {
	return strconv.FormatFloat(v, 'e', 1, 64)
}

func trimZeros(v float64) string {
	s := strconv.FormatFloat(v, 'f', 3, 64)
	for len(s) > 0 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if len(s) > 0 && s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	return s
}
