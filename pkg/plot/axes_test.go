package plot

import (
	"image"
	"math"
	"testing"
)

func testAxes() *Axes {
	a := NewAxes(image.Rect(100, 50, 500, 250))
	a.XMin, a.XMax = 0, 1000
	a.YMin, a.YMax = 0, 200
	return a
}

func TestFit(t *testing.T) {
	a := NewAxes(image.Rect(0, 0, 100, 100))
	a.Fit([]float64{5, 1, 9}, []float64{10, 40, 20})

	if a.XMin != 1 || a.XMax != 9 {
		t.Errorf("x range = [%g, %g], want [1, 9]", a.XMin, a.XMax)
	}
	if a.YMin != 10 {
		t.Errorf("YMin = %g, want 10", a.YMin)
	}
	if a.YMax <= 40 {
		t.Errorf("YMax = %g, want headroom above 40", a.YMax)
	}
}

func TestFitDegenerate(t *testing.T) {
	a := NewAxes(image.Rect(0, 0, 100, 100))
	a.Fit([]float64{3, 3}, []float64{7, 7})
	if a.XMax <= a.XMin {
		t.Errorf("x range [%g, %g] not widened for constant series", a.XMin, a.XMax)
	}
	if a.YMax <= a.YMin {
		t.Errorf("y range [%g, %g] not widened for constant series", a.YMin, a.YMax)
	}

	// Empty series leaves the axes untouched.
	b := testAxes()
	b.Fit(nil, nil)
	if b.XMax != 1000 {
		t.Errorf("Fit(nil) changed XMax to %g", b.XMax)
	}
}

func TestFitLogFloor(t *testing.T) {
	a := NewAxes(image.Rect(0, 0, 100, 100))
	a.LogY = true
	a.Fit([]float64{0, 1, 2}, []float64{0, 100, 10})
	if a.YMin != DefaultLogFloor {
		t.Errorf("YMin = %g, want log floor %g", a.YMin, DefaultLogFloor)
	}
}

func TestToScreenLinear(t *testing.T) {
	a := testAxes()

	tests := []struct {
		x, y   float64
		sx, sy float32
	}{
		{0, 0, 100, 250},       // bottom-left corner
		{1000, 200, 500, 50},   // top-right corner
		{500, 100, 300, 150},   // center
	}
	for _, tt := range tests {
		sx, sy := a.ToScreen(tt.x, tt.y)
		if math.Abs(float64(sx-tt.sx)) > 0.5 || math.Abs(float64(sy-tt.sy)) > 0.5 {
			t.Errorf("ToScreen(%g, %g) = (%g, %g), want (%g, %g)", tt.x, tt.y, sx, sy, tt.sx, tt.sy)
		}
	}
}

func TestToScreenLog(t *testing.T) {
	a := testAxes()
	a.LogY = true
	a.LogFloor = DefaultLogFloor
	a.YMin, a.YMax = 1, 10000

	// On a log axis, equal count ratios map to equal pixel offsets.
	_, s1 := a.ToScreen(0, 10)
	_, s2 := a.ToScreen(0, 100)
	_, s3 := a.ToScreen(0, 1000)
	d1 := s1 - s2
	d2 := s2 - s3
	if math.Abs(float64(d1-d2)) > 0.5 {
		t.Errorf("decade spacing uneven: %g vs %g", d1, d2)
	}

	// Zero counts clamp to the floor instead of -Inf.
	_, sy := a.ToScreen(0, 0)
	if math.IsNaN(float64(sy)) || math.IsInf(float64(sy), 0) {
		t.Errorf("ToScreen(0) on log axis = %g", sy)
	}
}

func TestXFromScreen(t *testing.T) {
	a := testAxes()

	tests := []struct {
		sx   float32
		want float64
	}{
		{100, 0},
		{500, 1000},
		{300, 500},
		{0, 0},      // left of the rect clamps to XMin
		{900, 1000}, // right of the rect clamps to XMax
	}
	for _, tt := range tests {
		if got := a.XFromScreen(tt.sx); math.Abs(got-tt.want) > 1e-6 {
			t.Errorf("XFromScreen(%g) = %g, want %g", tt.sx, got, tt.want)
		}
	}
}

func TestXFromScreenRoundTrip(t *testing.T) {
	a := testAxes()
	for _, x := range []float64{0, 123.5, 777, 1000} {
		sx, _ := a.ToScreen(x, 0)
		if got := a.XFromScreen(sx); math.Abs(got-x) > 0.01 {
			t.Errorf("round trip of %g = %g", x, got)
		}
	}
}

func TestContains(t *testing.T) {
	a := testAxes()
	if !a.Contains(image.Pt(300, 150)) {
		t.Error("center point reported outside")
	}
	if a.Contains(image.Pt(50, 150)) {
		t.Error("point left of the rect reported inside")
	}
}

func TestLinearTicks(t *testing.T) {
	ticks := linearTicks(0, 100, 6)
	if len(ticks) < 3 {
		t.Fatalf("got %d ticks, want at least 3", len(ticks))
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i].Value <= ticks[i-1].Value {
			t.Fatalf("ticks not increasing: %v", ticks)
		}
	}
	for _, tick := range ticks {
		if tick.Value < 0 || tick.Value > 100+1e-6 {
			t.Errorf("tick %g outside range", tick.Value)
		}
		if tick.Label == "" {
			t.Errorf("tick %g has empty label", tick.Value)
		}
	}
}

func TestYTicksLogDecades(t *testing.T) {
	a := testAxes()
	a.LogY = true
	a.YMin, a.YMax = 1, 10000

	ticks := a.YTicks(5)
	if len(ticks) != 5 {
		t.Fatalf("got %d log ticks, want one per decade (5): %v", len(ticks), ticks)
	}
	want := 1.0
	for _, tick := range ticks {
		if math.Abs(tick.Value-want) > 1e-9 {
			t.Errorf("tick = %g, want %g", tick.Value, want)
		}
		want *= 10
	}
}

func TestFormatTick(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "0"},
		{5, "5"},
		{2.5, "2.5"},
		{1500, "1500"},
		{0.25, "0.25"},
		{1e6, "1.0e+06"},
	}
	for _, tt := range tests {
		if got := formatTick(tt.v); got != tt.want {
			t.Errorf("formatTick(%g) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
