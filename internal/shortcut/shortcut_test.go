package shortcut

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spherecast/spherecast/internal/player"
)

type fakeController struct {
	spherical bool
	modeErr   error
	calls     []string
	fovDeltas []float64
	pans      [][2]float64
	presets   []player.Size
}

func (f *fakeController) Spherical() bool  { return f.spherical }
func (f *fakeController) TogglePlayback()  { f.calls = append(f.calls, "playback") }
func (f *fakeController) TogglePreview()   { f.calls = append(f.calls, "preview") }
func (f *fakeController) ResetView()       { f.calls = append(f.calls, "reset") }
func (f *fakeController) ToggleMute()      { f.calls = append(f.calls, "mute") }
func (f *fakeController) RequestFullscreen() {
	f.calls = append(f.calls, "fullscreen")
}
func (f *fakeController) ToggleMode() error {
	f.calls = append(f.calls, "mode")
	return f.modeErr
}
func (f *fakeController) AdjustFOV(delta float64) {
	f.fovDeltas = append(f.fovDeltas, delta)
}
func (f *fakeController) Pan(dLon, dLat float64) {
	f.pans = append(f.pans, [2]float64{dLon, dLat})
}
func (f *fakeController) ApplyPreviewPreset(size player.Size) {
	f.presets = append(f.presets, size)
}

func TestHandle_Bindings(t *testing.T) {
	c := &fakeController{spherical: true}
	r := New(c)

	for _, key := range []string{" ", "v", "P", "r", "M", "f"} {
		if !r.Handle(Key{Key: key}) {
			t.Errorf("expected %q to be handled", key)
		}
	}

	want := []string{"playback", "mode", "preview", "reset", "mute", "fullscreen"}
	if diff := cmp.Diff(want, c.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestHandle_FOV(t *testing.T) {
	c := &fakeController{}
	r := New(c)

	for _, key := range []string{"+", "=", "-", "_"} {
		r.Handle(Key{Key: key})
	}

	want := []float64{-3, -3, 3, 3}
	if diff := cmp.Diff(want, c.fovDeltas); diff != "" {
		t.Errorf("fov deltas mismatch (-want +got):\n%s", diff)
	}
}

func TestHandle_ArrowsPanInSphericalMode(t *testing.T) {
	c := &fakeController{spherical: true}
	r := New(c)

	for _, key := range []string{"ArrowUp", "ArrowDown", "ArrowLeft", "ArrowRight"} {
		r.Handle(Key{Key: key})
	}

	want := [][2]float64{{0, -6}, {0, 6}, {-6, 0}, {6, 0}}
	if diff := cmp.Diff(want, c.pans); diff != "" {
		t.Errorf("pans mismatch (-want +got):\n%s", diff)
	}
}

func TestHandle_SphericalOnlyKeysInNormalMode(t *testing.T) {
	c := &fakeController{}
	r := New(c)

	for _, key := range []string{"p", "ArrowUp", "ArrowLeft"} {
		if !r.Handle(Key{Key: key}) {
			t.Errorf("expected %q to be consumed", key)
		}
	}

	if len(c.calls) != 0 || len(c.pans) != 0 {
		t.Errorf("expected no actions in normal mode, got calls=%v pans=%v", c.calls, c.pans)
	}
}

func TestHandle_Presets(t *testing.T) {
	c := &fakeController{spherical: true}
	r := New(c)

	r.Handle(Key{Key: "1"})
	r.Handle(Key{Key: "2"})
	r.Handle(Key{Key: "3"})

	want := []player.Size{player.SizeSmall, player.SizeMedium, player.SizeLarge}
	if diff := cmp.Diff(want, c.presets); diff != "" {
		t.Errorf("presets mismatch (-want +got):\n%s", diff)
	}
}

func TestHandle_IgnoredWhileTyping(t *testing.T) {
	c := &fakeController{spherical: true}
	r := New(c)

	keys := []Key{
		{Key: " ", TargetTag: "INPUT"},
		{Key: "v", TargetTag: "textarea"},
		{Key: "m", TargetTag: "select"},
		{Key: "f", TargetTag: "div", ContentEditable: true},
	}
	for _, k := range keys {
		if r.Handle(k) {
			t.Errorf("expected %+v to be ignored", k)
		}
	}
	if len(c.calls) != 0 {
		t.Errorf("expected no calls, got %v", c.calls)
	}
}

func TestHandle_UnboundKey(t *testing.T) {
	r := New(&fakeController{})
	for _, key := range []string{"x", "Enter", "Escape", "4"} {
		if r.Handle(Key{Key: key}) {
			t.Errorf("expected %q to pass through", key)
		}
	}
}

func TestHandle_ModeErrorIsSwallowed(t *testing.T) {
	c := &fakeController{modeErr: errors.New("no webgl")}
	r := New(c)

	if !r.Handle(Key{Key: "v"}) {
		t.Error("expected v to be handled")
	}
}

func TestBindRoutesLoopEvents(t *testing.T) {
	c := &fakeController{}
	loop := player.NewLoop()
	New(c).Bind(loop)

	loop.Dispatch(player.Event{Type: player.EventKeyDown, Key: "m"})
	loop.Dispatch(player.Event{Type: player.EventKeyDown, Key: "m", TargetTag: "input"})

	if diff := cmp.Diff([]string{"mute"}, c.calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestBound(t *testing.T) {
	if !Bound(" ") || !Bound("V") || !Bound("ArrowDown") {
		t.Error("expected bound keys")
	}
	if Bound("arrowdown") || Bound("q") {
		t.Error("expected unbound keys")
	}
}

func TestPlayerSatisfiesController(t *testing.T) {
	var _ Controller = (*player.Player)(nil)
}
