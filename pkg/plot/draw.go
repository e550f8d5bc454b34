package plot

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
)

// Line draws a single stroked segment.
func Line(gtx layout.Context, x1, y1, x2, y2, width float32, col color.NRGBA) {
	var path clip.Path
	path.Begin(gtx.Ops)
	path.MoveTo(f32.Pt(x1, y1))
	path.LineTo(f32.Pt(x2, y2))

	stroke := clip.Stroke{
		Path:  path.End(),
		Width: width,
	}.Op()

	paint.FillShape(gtx.Ops, col, stroke)
}

// Polyline draws a data series as a connected stroked path, clipped to the
// axes' data area.
func Polyline(gtx layout.Context, a *Axes, xs, ys []float64, width float32, col color.NRGBA) {
	if len(xs) < 2 || len(xs) != len(ys) {
		return
	}
	defer clip.Rect(a.Rect).Push(gtx.Ops).Pop()

	var path clip.Path
	path.Begin(gtx.Ops)
	sx, sy := a.ToScreen(xs[0], ys[0])
	path.MoveTo(f32.Pt(sx, sy))
	for i := 1; i < len(xs); i++ {
		sx, sy = a.ToScreen(xs[i], ys[i])
		path.LineTo(f32.Pt(sx, sy))
	}

	stroke := clip.Stroke{
		Path:  path.End(),
		Width: width,
	}.Op()
	paint.FillShape(gtx.Ops, col, stroke)
}

// VLine draws a vertical marker at data position x across the data area.
func VLine(gtx layout.Context, a *Axes, x float64, width float32, col color.NRGBA) {
	sx, _ := a.ToScreen(x, a.YMin)
	Line(gtx, sx, float32(a.Rect.Min.Y), sx, float32(a.Rect.Max.Y), width, col)
}

// HLine draws a horizontal marker at data position y across the data area.
func HLine(gtx layout.Context, a *Axes, y float64, width float32, col color.NRGBA) {
	_, sy := a.ToScreen(a.XMin, y)
	Line(gtx, float32(a.Rect.Min.X), sy, float32(a.Rect.Max.X), sy, width, col)
}

// Band fills the vertical strip between data positions x1 and x2, used for
// the drag-selection rubber band and the selected-region highlight.
func Band(gtx layout.Context, a *Axes, x1, x2 float64, col color.NRGBA) {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	sx1, _ := a.ToScreen(x1, a.YMin)
	sx2, _ := a.ToScreen(x2, a.YMin)
	rect := image.Rect(int(sx1), a.Rect.Min.Y, int(sx2), a.Rect.Max.Y)
	rect = rect.Intersect(a.Rect)
	if rect.Empty() {
		return
	}
	paint.FillShape(gtx.Ops, col, clip.Rect(rect).Op())
}

// FillRect fills a pixel rectangle.
func FillRect(gtx layout.Context, rect image.Rectangle, col color.NRGBA) {
	paint.FillShape(gtx.Ops, col, clip.Rect(rect).Op())
}

// Frame draws the axes box, tick marks, and tick labels.
func Frame(gtx layout.Context, a *Axes, shaper *text.Shaper, col, textCol color.NRGBA) {
	r := a.Rect
	Line(gtx, float32(r.Min.X), float32(r.Min.Y), float32(r.Min.X), float32(r.Max.Y), 1, col)
	Line(gtx, float32(r.Min.X), float32(r.Max.Y), float32(r.Max.X), float32(r.Max.Y), 1, col)
	Line(gtx, float32(r.Max.X), float32(r.Min.Y), float32(r.Max.X), float32(r.Max.Y), 1, col)
	Line(gtx, float32(r.Min.X), float32(r.Min.Y), float32(r.Max.X), float32(r.Min.Y), 1, col)

	const tickLen = 5
	for _, t := range a.XTicks(6) {
		sx, _ := a.ToScreen(t.Value, a.YMin)
		Line(gtx, sx, float32(r.Max.Y), sx, float32(r.Max.Y)+tickLen, 1, col)
		Label(gtx, shaper, t.Label, int(sx)-12, r.Max.Y+tickLen+2, textCol)
	}
	for _, t := range a.YTicks(5) {
		_, sy := a.ToScreen(a.XMin, t.Value)
		Line(gtx, float32(r.Min.X)-tickLen, sy, float32(r.Min.X), sy, 1, col)
		Label(gtx, shaper, t.Label, r.Min.X-46, int(sy)-7, textCol)
	}
}

// Label draws a small single-line text label at a pixel position.
func Label(gtx layout.Context, shaper *text.Shaper, s string, x, y int, col color.NRGBA) {
	if shaper == nil || s == "" {
		return
	}
	macro := op.Record(gtx.Ops)
	stack := op.Offset(image.Pt(x, y)).Push(gtx.Ops)

	paint.ColorOp{Color: col}.Add(gtx.Ops)
	lbl := widget.Label{
		Alignment: text.Start,
		MaxLines:  1,
	}
	lbl.Layout(gtx, shaper, font.Font{}, unit.Sp(11), s, op.CallOp{})

	stack.Pop()
	call := macro.Stop()
	call.Add(gtx.Ops)
}
