// Package shortcut maps keyboard input to player controls.
package shortcut

import (
	"log/slog"
	"strings"

	"github.com/spherecast/spherecast/internal/player"
)

const (
	fovStep = 3.0
	panStep = 6.0
)

// Controller is the subset of the player the shortcuts drive.
type Controller interface {
	Spherical() bool
	TogglePlayback()
	ToggleMode() error
	TogglePreview()
	AdjustFOV(delta float64)
	Pan(dLon, dLat float64)
	ResetView()
	ApplyPreviewPreset(size player.Size)
	ToggleMute()
	RequestFullscreen()
}

// Key is a keydown as seen by the router.
type Key struct {
	Key             string
	TargetTag       string
	ContentEditable bool
}

type binding struct {
	sphericalOnly bool
	run           func(Controller)
}

var bindings = map[string]binding{
	" ": {run: Controller.TogglePlayback},
	"v": {run: func(c Controller) {
		if err := c.ToggleMode(); err != nil {
			slog.Warn("mode toggle failed", "error", err)
		}
	}},
	"p": {sphericalOnly: true, run: Controller.TogglePreview},

	// Smaller FOV zooms in.
	"+": {run: func(c Controller) { c.AdjustFOV(-fovStep) }},
	"=": {run: func(c Controller) { c.AdjustFOV(-fovStep) }},
	"-": {run: func(c Controller) { c.AdjustFOV(fovStep) }},
	"_": {run: func(c Controller) { c.AdjustFOV(fovStep) }},

	"ArrowUp":    {sphericalOnly: true, run: func(c Controller) { c.Pan(0, -panStep) }},
	"ArrowDown":  {sphericalOnly: true, run: func(c Controller) { c.Pan(0, panStep) }},
	"ArrowLeft":  {sphericalOnly: true, run: func(c Controller) { c.Pan(-panStep, 0) }},
	"ArrowRight": {sphericalOnly: true, run: func(c Controller) { c.Pan(panStep, 0) }},

	"r": {run: Controller.ResetView},

	"1": {run: func(c Controller) { c.ApplyPreviewPreset(player.SizeSmall) }},
	"2": {run: func(c Controller) { c.ApplyPreviewPreset(player.SizeMedium) }},
	"3": {run: func(c Controller) { c.ApplyPreviewPreset(player.SizeLarge) }},

	"m": {run: Controller.ToggleMute},
	"f": {run: Controller.RequestFullscreen},
}

// Router dispatches keydown events to a Controller.
type Router struct {
	controller Controller
}

func New(c Controller) *Router {
	return &Router{controller: c}
}

// Bind routes the loop's keydown events through the router.
func (r *Router) Bind(loop *player.Loop) {
	loop.Bind(player.EventKeyDown, func(e player.Event) {
		r.Handle(Key{Key: e.Key, TargetTag: e.TargetTag, ContentEditable: e.ContentEditable})
	})
}

// Handle runs the action bound to k. It reports false for unbound keys and
// for keys typed into form fields.
func (r *Router) Handle(k Key) bool {
	if IsTyping(k.TargetTag, k.ContentEditable) {
		return false
	}

	b, ok := bindings[normalize(k.Key)]
	if !ok {
		return false
	}
	if b.sphericalOnly && !r.controller.Spherical() {
		return true
	}
	b.run(r.controller)
	return true
}

// Bound reports whether key has a binding, regardless of mode.
func Bound(key string) bool {
	_, ok := bindings[normalize(key)]
	return ok
}

// IsTyping reports whether focus is on a text-entry control.
func IsTyping(tag string, contentEditable bool) bool {
	if contentEditable {
		return true
	}
	switch strings.ToLower(tag) {
	case "input", "textarea", "select":
		return true
	}
	return false
}

func normalize(key string) string {
	if len([]rune(key)) == 1 {
		return strings.ToLower(key)
	}
	return key
}
