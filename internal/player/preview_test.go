package player

import (
	"fmt"
	"testing"
)

func TestPreviewPreset_LargeAt800x450(t *testing.T) {
	h := newHarness(t)
	h.media.width, h.media.height = 1920, 1080
	h.spherical(t)

	h.player.ApplyPreviewPreset(SizeLarge)

	p := h.player.Preview()
	if !p.Enabled() {
		t.Fatal("expected preset to enable the preview")
	}
	assertRect(t, p.Rect(), Rect{X: 12, Y: 12, Width: 320, Height: 180})
}

func TestPreviewPreset_FallbackIntrinsicWidth(t *testing.T) {
	h := newHarness(t)
	h.spherical(t)

	h.player.ApplyPreviewPreset(SizeSmall)

	// 1280 / 10 = 128, 128 / (16/9) = 72
	assertRect(t, h.player.Preview().Rect(), Rect{X: 12, Y: 12, Width: 128, Height: 72})
}

func TestPreviewPreset_FloorsAtMinWidth(t *testing.T) {
	h := newHarness(t)
	h.media.width, h.media.height = 640, 360
	h.spherical(t)

	h.player.ApplyPreviewPreset(SizeSmall)

	if got := h.player.Preview().Rect().Width; got != PreviewMinWidth {
		t.Errorf("expected width %v, got %v", PreviewMinWidth, got)
	}
}

func TestPreviewPreset_IgnoredInNormalMode(t *testing.T) {
	h := newHarness(t)

	h.player.ApplyPreviewPreset(SizeLarge)

	if h.player.Preview().Enabled() {
		t.Error("expected preview to stay disabled in normal mode")
	}
}

func TestPreviewPreset_HeightDrivenClamp(t *testing.T) {
	h := newHarness(t)
	h.media.width, h.media.height = 1920, 1080
	h.player.Resize(300, 100)
	h.spherical(t)

	h.player.ApplyPreviewPreset(SizeLarge)

	// width 320 -> 292, height 164 > 92 -> height 92, width round(92*16/9) = 164.
	assertRect(t, h.player.Preview().Rect(), Rect{X: 12, Y: 8, Width: 164, Height: 92})
}

func TestTogglePreview(t *testing.T) {
	h := newHarness(t)
	h.player.TogglePreview()
	if h.player.Preview().Enabled() {
		t.Fatal("expected toggle to be ignored in normal mode")
	}

	h.spherical(t)
	h.player.TogglePreview()
	if !h.player.Preview().Enabled() {
		t.Fatal("expected preview enabled")
	}
	assertRect(t, h.player.Preview().Rect(), Rect{X: 12, Y: 12, Width: 240, Height: 135})

	s := h.player.Surface()
	if s.Layout != LayoutOverlay || !s.ShowHandles || s.Opacity != 0.85 {
		t.Errorf("unexpected overlay surface %+v", s)
	}

	h.player.TogglePreview()
	if h.player.Preview().Enabled() {
		t.Error("expected preview disabled")
	}
	if s := h.player.Surface(); s.Layout != LayoutHidden || s.ShowHandles || s.Interactive {
		t.Errorf("unexpected hidden surface %+v", s)
	}
}

func TestPreviewDrag(t *testing.T) {
	h := newHarness(t)
	h.spherical(t)
	h.player.TogglePreview()
	loop := h.player.Loop()

	loop.Dispatch(Event{Type: EventPointerDown, Target: TargetDragBar, X: 100, Y: 100})
	loop.Dispatch(Event{Type: EventPointerMove, X: 150, Y: 130})
	assertRect(t, h.player.Preview().Rect(), Rect{X: 62, Y: 42, Width: 240, Height: 135})

	loop.Dispatch(Event{Type: EventPointerMove, X: 1000, Y: 50})
	assertRect(t, h.player.Preview().Rect(), Rect{X: 560, Y: 0, Width: 240, Height: 135})

	loop.Dispatch(Event{Type: EventPointerUp})
	loop.Dispatch(Event{Type: EventPointerMove, X: 0, Y: 0})
	assertRect(t, h.player.Preview().Rect(), Rect{X: 560, Y: 0, Width: 240, Height: 135})
}

func TestPreviewDrag_RequiresEnabledPreview(t *testing.T) {
	h := newHarness(t)
	h.spherical(t)
	loop := h.player.Loop()

	loop.Dispatch(Event{Type: EventPointerDown, Target: TargetDragBar, X: 0, Y: 0})
	if h.player.Dragging() {
		t.Error("expected no capture while preview is disabled")
	}
}

func TestPreviewResize(t *testing.T) {
	h := newHarness(t)
	h.spherical(t)
	h.player.TogglePreview()
	loop := h.player.Loop()

	loop.Dispatch(Event{Type: EventPointerDown, Target: TargetResizeHandle, X: 300, Y: 0})
	loop.Dispatch(Event{Type: EventPointerMove, X: 200, Y: 0})
	assertRect(t, h.player.Preview().Rect(), Rect{X: 12, Y: 12, Width: 140, Height: 79})

	loop.Dispatch(Event{Type: EventPointerMove, X: -500, Y: 0})
	if got := h.player.Preview().Rect().Width; got != PreviewMinWidth {
		t.Errorf("expected width floored at %v, got %v", PreviewMinWidth, got)
	}

	// 792 wide would need 446 high; the height clamps to 442 and the width follows.
	loop.Dispatch(Event{Type: EventPointerMove, X: 2000, Y: 0})
	assertRect(t, h.player.Preview().Rect(), Rect{X: 12, Y: 8, Width: 786, Height: 442})
}

func TestPreviewReclampedOnResize(t *testing.T) {
	h := newHarness(t)
	h.spherical(t)
	h.player.TogglePreview()
	loop := h.player.Loop()
	loop.Dispatch(Event{Type: EventPointerDown, Target: TargetDragBar, X: 0, Y: 0})
	loop.Dispatch(Event{Type: EventPointerMove, X: 1000, Y: 1000})
	loop.Dispatch(Event{Type: EventPointerUp})

	loop.Dispatch(Event{Type: EventResize, Width: 400, Height: 300})

	assertRect(t, h.player.Preview().Rect(), Rect{X: 160, Y: 165, Width: 240, Height: 135})
}

func TestMetadataLoaded_ReappliesMediumPreset(t *testing.T) {
	h := newHarness(t)
	h.spherical(t)
	h.player.TogglePreview()
	h.media.width, h.media.height = 1600, 1200

	h.player.Loop().Dispatch(Event{Type: EventMetadataLoaded})

	// 1600 / 8 = 200, aspect 4:3 -> 150
	assertRect(t, h.player.Preview().Rect(), Rect{X: 12, Y: 12, Width: 200, Height: 150})
}

func TestPreviewOpacityAndBorder(t *testing.T) {
	h := newHarness(t)

	h.player.SetPreviewOpacity(5)
	if got := h.player.Preview().Opacity(); got != MinPreviewOpacity {
		t.Errorf("expected opacity %d, got %d", MinPreviewOpacity, got)
	}
	h.player.SetPreviewOpacity(500)
	if got := h.player.Preview().Opacity(); got != MaxPreviewOpacity {
		t.Errorf("expected opacity %d, got %d", MaxPreviewOpacity, got)
	}
	h.player.SetPreviewOpacity(40)

	// Opacity and border only show in 360 mode with the overlay enabled.
	h.player.SetPreviewBorder(true)
	h.player.SetPreviewBorderColor("#ff0000")
	if s := h.player.Surface(); s.Opacity != 1 || s.Border != (Border{}) {
		t.Errorf("expected plain surface in normal mode, got %+v", s)
	}

	h.spherical(t)
	h.player.TogglePreview()
	s := h.player.Surface()
	if s.Opacity != 0.4 {
		t.Errorf("expected opacity 0.4, got %v", s.Opacity)
	}
	if s.Border != (Border{Width: PreviewBorderWidth, Color: "#ff0000"}) {
		t.Errorf("unexpected border %+v", s.Border)
	}

	h.player.SetPreviewBorderColor("")
	if got := h.player.Preview().BorderColor(); got != DefaultPreviewBorderColor {
		t.Errorf("expected default border colour, got %q", got)
	}
	h.player.SetPreviewBorder(false)
	if s := h.player.Surface(); s.Border != (Border{}) {
		t.Errorf("expected no border, got %+v", s.Border)
	}
}

func TestParseSize(t *testing.T) {
	for _, in := range []string{"small", "Medium", " large "} {
		if _, err := ParseSize(in); err != nil {
			t.Errorf("ParseSize(%q) unexpected error: %v", in, err)
		}
	}
	if _, err := ParseSize("huge"); err == nil {
		t.Error("expected error for unknown size")
	}
}

// Every geometry operation leaves the overlay inside the container.
func TestPreviewBoundsInvariant(t *testing.T) {
	videos := [][2]float64{{1920, 1080}, {1280, 720}, {1080, 1920}, {0, 0}}
	containers := []Bounds{}
	for w := 128.0; w <= 2048; w += 160 {
		for hgt := 128.0; hgt <= 1536; hgt += 140 {
			containers = append(containers, Bounds{Width: w, Height: hgt})
		}
	}

	for _, v := range videos {
		for _, b := range containers {
			name := fmt.Sprintf("video %vx%v container %vx%v", v[0], v[1], b.Width, b.Height)
			h := newHarness(t)
			h.media.width, h.media.height = v[0], v[1]
			h.player.Resize(b.Width, b.Height)
			h.spherical(t)
			loop := h.player.Loop()

			ops := []func(){
				func() { h.player.TogglePreview() },
				func() { h.player.ApplyPreviewPreset(SizeLarge) },
				func() { h.player.ApplyPreviewPreset(SizeSmall) },
				func() {
					loop.Dispatch(Event{Type: EventPointerDown, Target: TargetDragBar, X: 10, Y: 10})
					loop.Dispatch(Event{Type: EventPointerMove, X: 5000, Y: -5000})
					loop.Dispatch(Event{Type: EventPointerUp})
				},
				func() {
					loop.Dispatch(Event{Type: EventPointerDown, Target: TargetResizeHandle, X: 10, Y: 10})
					loop.Dispatch(Event{Type: EventPointerMove, X: 9000, Y: 0})
					loop.Dispatch(Event{Type: EventPointerUp})
				},
				func() { h.player.ApplyPreviewPreset(SizeMedium) },
				func() { loop.Dispatch(Event{Type: EventResize, Width: b.Width, Height: b.Height}) },
			}

			for i, op := range ops {
				op()
				r := h.player.Preview().Rect()
				if r.Width < PreviewMinWidth || r.Width > b.Width-PreviewMargin {
					t.Errorf("%s op %d: width %v outside [%v, %v]", name, i, r.Width, PreviewMinWidth, b.Width-PreviewMargin)
				}
				if r.X < 0 || r.X+r.Width > b.Width {
					t.Errorf("%s op %d: x %v width %v exceeds %v", name, i, r.X, r.Width, b.Width)
				}
				if r.Y < 0 || r.Y+r.Height > b.Height {
					t.Errorf("%s op %d: y %v height %v exceeds %v", name, i, r.Y, r.Height, b.Height)
				}
			}
		}
	}
}
