package ui

import (
	"fmt"
	"image"

	"gioui.org/gesture"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"github.com/OpenGammaLab/gammaview/pkg/plot"
)

// spectrumPanel carries the drag-selection gesture state for the main axis.
type spectrumPanel struct {
	drag     gesture.Drag
	dragging bool
	startX   float32
	curX     float32
}

func fillBackground(gtx layout.Context) {
	paint.FillShape(gtx.Ops, plot.ColorBackground, clip.Rect{Max: gtx.Constraints.Max}.Op())
}

// panelAxes builds axes over the panel's pixel area, leaving margins for
// tick labels and the title line.
func panelAxes(size image.Point) *plot.Axes {
	rect := image.Rect(56, 24, size.X-12, size.Y-26)
	if rect.Dx() < 10 || rect.Dy() < 10 {
		rect = image.Rectangle{Max: size}
	}
	return plot.NewAxes(rect)
}

// layoutSpectrumPanel draws the spectrum, the SNR overlay, the detected
// peak markers, and the selection band, and turns horizontal drags into
// RegionSelected events.
func (a *App) layoutSpectrumPanel(gtx layout.Context, snap *Snapshot) layout.Dimensions {
	size := gtx.Constraints.Max
	plot.FillRect(gtx, image.Rectangle{Max: size}, plot.ColorPanel)

	axes := panelAxes(size)
	axes.LogY = snap.LogY
	xs := snap.Spectrum.X()
	axes.Fit(xs, snap.Spectrum.Counts)
	if axes.LogY {
		axes.YMin = plot.DefaultLogFloor
	}

	a.handleSelectionDrag(gtx, axes)

	if snap.Selection != nil {
		plot.Band(gtx, axes, snap.Selection.XMin, snap.Selection.XMax, plot.ColorSelection)
	}
	if a.spectrumPanel.dragging {
		plot.Band(gtx, axes, axes.XFromScreen(a.spectrumPanel.startX), axes.XFromScreen(a.spectrumPanel.curX), plot.ColorSelection)
	}

	for _, ch := range snap.Search.Peaks {
		plot.VLine(gtx, axes, snap.Spectrum.XAt(ch), 1, plot.ColorPeakMark)
	}
	if snap.SNROverlay {
		plot.Polyline(gtx, axes, xs, snap.Search.SNR, 1, plot.ColorSNR)
	}
	plot.Polyline(gtx, axes, xs, snap.Spectrum.Counts, 1.4, plot.ColorSpectrum)
	plot.Frame(gtx, axes, a.shaper, plot.ColorFrame, plot.ColorText)

	plot.Label(gtx, a.shaper, fmt.Sprintf("SNR > %.3g", snap.Params.MinSNR), axes.Rect.Min.X+8, 4, plot.ColorText)
	plot.Label(gtx, a.shaper, "Cts", 8, axes.Rect.Min.Y, plot.ColorText)
	plot.Label(gtx, a.shaper, snap.Spectrum.XUnits, (axes.Rect.Min.X+axes.Rect.Max.X)/2-20, size.Y-16, plot.ColorText)

	return layout.Dimensions{Size: size}
}

// handleSelectionDrag registers the drag gesture over the data area and
// emits a RegionSelected event when a horizontal drag completes.
func (a *App) handleSelectionDrag(gtx layout.Context, axes *plot.Axes) {
	p := &a.spectrumPanel

	stack := clip.Rect(axes.Rect).Push(gtx.Ops)
	p.drag.Add(gtx.Ops)
	stack.Pop()

	for {
		ev, ok := p.drag.Update(gtx.Metric, gtx.Source, gesture.Horizontal)
		if !ok {
			break
		}
		switch ev.Kind {
		case pointer.Press:
			p.dragging = true
			p.startX = ev.Position.X
			p.curX = ev.Position.X
		case pointer.Drag:
			if p.dragging {
				p.curX = ev.Position.X
				a.invalidate()
			}
		case pointer.Release:
			if p.dragging {
				p.dragging = false
				x1 := axes.XFromScreen(p.startX)
				x2 := axes.XFromScreen(ev.Position.X)
				if x2 < x1 {
					x1, x2 = x2, x1
				}
				// Ignore clicks and sub-pixel drags.
				if x2-x1 > (axes.XMax-axes.XMin)/1e3 {
					a.dispatch(RegionSelected{Range: Range{XMin: x1, XMax: x2}})
				}
			}
		case pointer.Cancel:
			p.dragging = false
		}
	}
}

func (a *App) layoutFitPanel(gtx layout.Context, snap *Snapshot) layout.Dimensions {
	size := gtx.Constraints.Max
	plot.FillRect(gtx, image.Rectangle{Max: size}, plot.ColorPanel)

	if snap.Fit == nil {
		return a.emptyPanel(gtx, size, "Fit")
	}
	fit := snap.Fit

	axes := panelAxes(size)
	axes.Fit(fit.X, fit.Y)
	for _, v := range fit.Fitted {
		if v > axes.YMax {
			axes.YMax = v
		}
		if v < axes.YMin {
			axes.YMin = v
		}
	}

	plot.Polyline(gtx, axes, fit.X, fit.Y, 1, plot.ColorFitData)
	plot.Polyline(gtx, axes, fit.X, fit.Fitted, 1.6, plot.ColorFit)
	plot.Frame(gtx, axes, a.shaper, plot.ColorFrame, plot.ColorText)
	title := fmt.Sprintf("Fit: %s background, red. chi2 %.2f", fit.Background, fit.RedChiSq)
	plot.Label(gtx, a.shaper, title, axes.Rect.Min.X+8, 4, plot.ColorText)

	return layout.Dimensions{Size: size}
}

func (a *App) layoutResidualPanel(gtx layout.Context, snap *Snapshot) layout.Dimensions {
	size := gtx.Constraints.Max
	plot.FillRect(gtx, image.Rectangle{Max: size}, plot.ColorPanel)

	if snap.Fit == nil {
		return a.emptyPanel(gtx, size, "Residuals")
	}
	fit := snap.Fit

	axes := panelAxes(size)
	axes.Fit(fit.X, fit.Residuals)
	if axes.YMin > 0 {
		axes.YMin = 0
	}
	if axes.YMax < 0 {
		axes.YMax = 0
	}

	plot.HLine(gtx, axes, 0, 1, plot.ColorZeroLine)
	plot.Polyline(gtx, axes, fit.X, fit.Residuals, 1.2, plot.ColorResidual)
	plot.Frame(gtx, axes, a.shaper, plot.ColorFrame, plot.ColorText)
	plot.Label(gtx, a.shaper, "Residuals", axes.Rect.Min.X+8, 4, plot.ColorText)

	return layout.Dimensions{Size: size}
}

func (a *App) layoutTablePanel(gtx layout.Context, snap *Snapshot) layout.Dimensions {
	size := gtx.Constraints.Max
	plot.FillRect(gtx, image.Rectangle{Max: size}, plot.ColorPanel)

	return layout.UniformInset(unit.Dp(10)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		if snap.Fit == nil {
			lbl := material.Body2(a.Theme, "Fit a region to see peak parameters.")
			return lbl.Layout(gtx)
		}
		rows := snap.Fit.Rows()
		return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
			layout.Rigid(material.Body1(a.Theme, "Peak parameters").Layout),
			layout.Rigid(layout.Spacer{Height: unit.Dp(6)}.Layout),
			layout.Rigid(material.Caption(a.Theme,
				fmt.Sprintf("%-12s %-10s %-12s %s", "centroid", "fwhm", "area", "area err")).Layout),
			layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
				return a.tableList.Layout(gtx, len(rows), func(gtx layout.Context, idx int) layout.Dimensions {
					r := rows[idx]
					line := fmt.Sprintf("%-12.2f %-10.2f %-12.1f %.1f", r.Centroid, r.FWHM, r.Area, r.AreaErr)
					return material.Caption(a.Theme, line).Layout(gtx)
				})
			}),
			layout.Rigid(layout.Spacer{Height: unit.Dp(4)}.Layout),
			layout.Rigid(material.Caption(a.Theme,
				fmt.Sprintf("Background: %s, coeffs %v", snap.Fit.Background, formatCoeffs(snap.Fit.BkgCoeffs))).Layout),
		)
	})
}

func (a *App) emptyPanel(gtx layout.Context, size image.Point, title string) layout.Dimensions {
	plot.Label(gtx, a.shaper, title, 12, 4, plot.ColorText)
	plot.Label(gtx, a.shaper, "Select a region on the spectrum", 12, size.Y/2, plot.ColorFrame)
	return layout.Dimensions{Size: size}
}

func formatCoeffs(c []float64) []string {
	out := make([]string, len(c))
	for i, v := range c {
		out[i] = fmt.Sprintf("%.4g", v)
	}
	return out
}
