package surface

import (
	"testing"

	"github.com/matzehuels/timelane/pkg/layout"
)

type refreshCall struct {
	w, h, y     float64
	sizeChanged bool
}

func recorder() (*[]refreshCall, RefreshFunc) {
	var calls []refreshCall
	return &calls, func(w, h, y float64, sizeChanged bool) {
		calls = append(calls, refreshCall{w, h, y, sizeChanged})
	}
}

func TestPhysicalHeightBoundedByViewport(t *testing.T) {
	tests := []struct {
		name                 string
		viewportH, logicalH  float64
		wantPhysH, maxOrigin float64
	}{
		{"content taller", 200, 1000, 200, 800},
		{"content shorter", 200, 120, 120, 0},
		{"equal", 200, 200, 200, 0},
		{"empty", 200, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(nil)
			v.SetViewport(300, tt.viewportH)
			v.SetLogicalHeight(tt.logicalH)
			if _, h := v.PhysicalSize(); h != tt.wantPhysH {
				t.Errorf("physical height = %v, want %v", h, tt.wantPhysH)
			}
			v.SetVValue(1)
			if v.OriginY() != tt.maxOrigin {
				t.Errorf("origin at bottom = %v, want %v", v.OriginY(), tt.maxOrigin)
			}
		})
	}
}

func TestScrollOnlyMovesOrigin(t *testing.T) {
	calls, refresh := recorder()
	v := New(refresh)
	v.SetViewport(300, 200)
	v.SetLogicalHeight(1000)
	*calls = nil

	v.SetVValue(0.5)
	if v.OriginY() != 400 || v.PlacementY() != 400 {
		t.Errorf("origin = %v placement = %v, want 400", v.OriginY(), v.PlacementY())
	}
	if len(*calls) != 1 {
		t.Fatalf("refresh calls = %d, want 1", len(*calls))
	}
	if c := (*calls)[0]; c.sizeChanged || c.y != 400 || c.h != 1000 || c.w != 300 {
		t.Errorf("refresh = %+v, want (300, 1000, 400, false)", c)
	}
	if w, h := v.PhysicalSize(); w != 300 || h != 200 {
		t.Errorf("physical size changed to %vx%v on scroll", w, h)
	}
}

func TestVValueIsClamped(t *testing.T) {
	v := New(nil)
	v.SetViewport(100, 100)
	v.SetLogicalHeight(500)
	for _, f := range []float64{-3, 7} {
		v.SetVValue(f)
		if o := v.OriginY(); o < 0 || o > 400 {
			t.Errorf("SetVValue(%v): origin %v outside [0, 400]", f, o)
		}
	}
}

func TestResizeReportsSizeChange(t *testing.T) {
	calls, refresh := recorder()
	v := New(refresh)
	v.SetViewport(300, 200)
	v.SetLogicalHeight(1000)
	*calls = nil

	// Physical height stays clamped to the viewport.
	v.SetLogicalHeight(1200)
	if len(*calls) != 1 || (*calls)[0].sizeChanged {
		t.Errorf("taller content: calls = %+v, want one without size change", *calls)
	}

	v.SetLogicalHeight(150)
	last := (*calls)[len(*calls)-1]
	if !last.sizeChanged {
		t.Error("shrinking below the viewport must report a size change")
	}

	n := len(*calls)
	v.SetLogicalHeight(150)
	if len(*calls) != n {
		t.Error("unchanged logical height triggered a refresh")
	}
}

func TestOriginFollowsContent(t *testing.T) {
	v := New(nil)
	v.SetViewport(100, 100)
	v.SetLogicalHeight(500)
	v.SetVValue(1)
	v.SetLogicalHeight(300)
	if v.OriginY() != 200 {
		t.Errorf("origin = %v, want 200 after content shrank", v.OriginY())
	}
}

func TestCoordinateLaw(t *testing.T) {
	v := New(nil)
	v.SetViewport(300, 200)
	v.SetLogicalHeight(1000)
	v.SetVValue(0.25)

	logical := v.LogicalVisibleRect()
	if logical != (layout.Rect{Y: 200, Width: 300, Height: 200}) {
		t.Errorf("logical visible = %+v", logical)
	}
	for _, y := range []float64{150, 200, 399, 400, 650} {
		_, py := v.ToPhysical(10, y)
		if py != y-200 {
			t.Errorf("ToPhysical(%v) = %v", y, py)
		}
		inPhysical := py >= 0 && py < v.VisibleRect().Height
		inLogical := y >= logical.Y && y < logical.MaxY()
		if inPhysical != inLogical {
			t.Errorf("y=%v: physical visibility %v, logical %v", y, inPhysical, inLogical)
		}
		if _, back := v.ToLogical(10, py); back != y {
			t.Errorf("round trip %v -> %v", y, back)
		}
	}
}

func TestScrollBy(t *testing.T) {
	v := New(nil)
	v.SetViewport(100, 100)
	v.SetLogicalHeight(500)
	v.ScrollBy(100)
	if v.OriginY() != 100 || v.VValue() != 0.25 {
		t.Errorf("origin %v vvalue %v, want 100 and 0.25", v.OriginY(), v.VValue())
	}
	v.ScrollBy(1000)
	if v.OriginY() != 400 {
		t.Errorf("origin %v, want clamped to 400", v.OriginY())
	}
}
