package player

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

var ErrNoScene = errors.New("spherical rendering unavailable")

type Config struct {
	Media      Media
	Streaming  StreamingProvider
	NewScene   SceneFactory
	Fullscreen Fullscreener
	Loop       *Loop
}

type captureKind int

const (
	captureNone captureKind = iota
	captureLook
	captureDrag
	captureResize
)

// pointer capture; replaces the move/release listeners of a drag.
type capture struct {
	kind   captureKind
	look   lookAnchor
	drag   dragAnchor
	resize resizeAnchor
}

// Player owns one media element and its viewing state. Every method must be
// called from the loop goroutine.
type Player struct {
	loop       *Loop
	media      Media
	streaming  StreamingProvider
	newScene   SceneFactory
	fullscreen Fullscreener

	mode    Mode
	view    ViewAngle
	preview Preview
	bounds  Bounds

	scene      Scene
	client     StreamingClient
	generation uint64
	capture    capture
}

// New builds a player in normal mode and binds its handlers to the loop.
func New(cfg Config) *Player {
	loop := cfg.Loop
	if loop == nil {
		loop = NewLoop()
	}

	p := &Player{
		loop:       loop,
		media:      cfg.Media,
		streaming:  cfg.Streaming,
		newScene:   cfg.NewScene,
		fullscreen: cfg.Fullscreen,
		mode:       ModeNormal,
		view:       defaultViewAngle(),
		preview:    newPreview(),
	}
	p.bind()
	return p
}

func (p *Player) bind() {
	p.loop.Bind(EventFrame, func(Event) { p.renderFrame() })
	p.loop.Bind(EventResize, func(e Event) { p.Resize(e.Width, e.Height) })
	p.loop.Bind(EventPointerDown, p.pointerDown)
	p.loop.Bind(EventPointerMove, p.pointerMove)
	p.loop.Bind(EventPointerUp, func(Event) { p.capture = capture{} })
	p.loop.Bind(EventWheel, func(e Event) { p.Wheel(e.DeltaY) })
	p.loop.Bind(EventMetadataLoaded, func(Event) { p.MetadataLoaded() })
	p.loop.Bind(EventManifestParsed, p.manifestParsed)
	p.loop.Bind(EventStreamError, func(e Event) {
		slog.Warn("streaming client error", "detail", e.Detail)
	})
	p.loop.Bind(EventPlayResult, func(e Event) {
		if e.Err != nil {
			slog.Warn("play failed", "error", e.Err)
		}
	})
}

func (p *Player) Loop() *Loop        { return p.loop }
func (p *Player) Mode() Mode         { return p.mode }
func (p *Player) Spherical() bool    { return p.mode == ModeSpherical }
func (p *Player) View() ViewAngle    { return p.view }
func (p *Player) Preview() Preview   { return p.preview }
func (p *Player) Bounds() Bounds     { return p.bounds }
func (p *Player) SceneBuilt() bool   { return p.scene != nil }
func (p *Player) Generation() uint64 { return p.generation }

// LoadSource tears down the current stream and starts playing url, through
// the streaming client for manifests when supported and natively otherwise.
func (p *Player) LoadSource(url string) {
	p.generation++
	gen := p.generation

	if p.client != nil {
		if err := p.client.Destroy(); err != nil {
			slog.Debug("streaming client already destroyed", "error", err)
		}
		p.client = nil
	}
	p.media.Reset()

	if IsManifestURL(url) && p.streaming != nil && p.streaming.Supported() {
		client, err := p.streaming.NewClient()
		if err == nil {
			p.client = client
			client.OnManifestParsed(func() {
				p.loop.Post(Event{Type: EventManifestParsed, Generation: gen})
			})
			client.OnError(func(detail string) {
				p.loop.Post(Event{Type: EventStreamError, Detail: detail, Generation: gen})
			})
			client.Load(url)
			client.Attach(p.media)
			return
		}
		slog.Warn("streaming client unavailable, using native playback", "error", err)
	}

	p.media.SetSource(url)
	p.play()
}

func (p *Player) manifestParsed(e Event) {
	if e.Generation != p.generation {
		return
	}
	p.play()
}

func (p *Player) play() {
	gen := p.generation
	p.media.Play(func(err error) {
		if err != nil {
			p.loop.Post(Event{Type: EventPlayResult, Err: err, Generation: gen})
		}
	})
}

func (p *Player) TogglePlayback() {
	if p.media.Paused() {
		p.play()
		return
	}
	p.media.Pause()
}

func (p *Player) ToggleMute() {
	p.media.SetMuted(!p.media.Muted())
}

func (p *Player) RequestFullscreen() {
	if p.fullscreen != nil {
		p.fullscreen.RequestFullscreen()
	}
}

// ToggleMode flips between normal and spherical viewing. Entering spherical
// mode fails, leaving the player in normal mode, when no scene can be built.
func (p *Player) ToggleMode() error {
	if p.mode == ModeSpherical {
		p.setMode(ModeNormal)
		return nil
	}

	if err := p.ensureScene(); err != nil {
		slog.Error("failed to enter 360 mode", "error", err)
		return err
	}
	p.setMode(ModeSpherical)
	p.resizeScene()
	return nil
}

func (p *Player) setMode(m Mode) {
	p.mode = m
	p.preview.enabled = false
	p.capture = capture{}
}

func (p *Player) ensureScene() error {
	if p.scene != nil {
		return nil
	}
	if p.newScene == nil {
		return ErrNoScene
	}

	scene, err := p.newScene()
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}
	if scene == nil {
		return ErrNoScene
	}
	scene.SetFOV(p.view.FOV)
	p.scene = scene
	return nil
}

func (p *Player) resizeScene() {
	if p.scene == nil {
		return
	}
	w := int(math.Max(1, math.Floor(p.bounds.Width)))
	h := int(math.Max(1, math.Floor(p.bounds.Height)))
	p.scene.Resize(w, h)
}

func (p *Player) renderFrame() {
	if p.mode != ModeSpherical || p.scene == nil {
		return
	}
	p.view.Latitude = clampLatitude(p.view.Latitude)
	p.scene.LookAt(p.view.Target())
	p.scene.Render()
}

// Resize records new container bounds.
func (p *Player) Resize(width, height float64) {
	p.bounds = Bounds{Width: width, Height: height}
	p.resizeScene()
	if p.mode == ModeSpherical && p.preview.enabled {
		p.preview.clamp(p.bounds)
	}
}

// MetadataLoaded picks up the media's intrinsic size once it is known.
func (p *Player) MetadataLoaded() {
	p.updateAspect()
	if p.mode == ModeSpherical && p.preview.enabled {
		p.applyPreset(SizeMedium)
	}
}

func (p *Player) updateAspect() {
	w, h := p.media.IntrinsicSize()
	p.preview.setAspect(w, h)
}

func (p *Player) SetFOV(fov float64) {
	if !p.view.setFOV(fov) {
		return
	}
	if p.scene != nil {
		p.scene.SetFOV(p.view.FOV)
	}
}

func (p *Player) AdjustFOV(delta float64) {
	p.SetFOV(p.view.FOV + delta)
}

// SetFOVPreset applies one of the named presets: wide, normal, tele.
func (p *Player) SetFOVPreset(name string) error {
	fov, ok := fovPresets[name]
	if !ok {
		return fmt.Errorf("unknown fov preset %q", name)
	}
	p.SetFOV(fov)
	return nil
}

func (p *Player) Wheel(deltaY float64) {
	if p.mode != ModeSpherical {
		return
	}
	p.SetFOV(p.view.FOV + deltaY*wheelFOVPerDelta)
}

// Pan nudges the view in spherical mode.
func (p *Player) Pan(dLon, dLat float64) {
	if p.mode != ModeSpherical {
		return
	}
	p.view.pan(dLon, dLat)
}

func (p *Player) ResetView() {
	p.view.reset()
	if p.scene != nil {
		p.scene.SetFOV(p.view.FOV)
	}
}

func (p *Player) TogglePreview() {
	if p.mode != ModeSpherical {
		return
	}
	p.preview.enabled = !p.preview.enabled
	if !p.preview.enabled {
		return
	}

	p.updateAspect()
	if !p.preview.hasValidSize() {
		p.applyPreset(SizeMedium)
		return
	}
	p.preview.clamp(p.bounds)
}

// ApplyPreviewPreset sizes the overlay from the video width, enabling it
// first if needed. Spherical mode only.
func (p *Player) ApplyPreviewPreset(size Size) {
	if p.mode != ModeSpherical {
		return
	}
	p.preview.enabled = true
	p.applyPreset(size)
}

func (p *Player) applyPreset(size Size) {
	p.updateAspect()
	w, _ := p.media.IntrinsicSize()
	p.preview.applyPreset(size, w, p.bounds)
}

func (p *Player) SetPreviewOpacity(v int) {
	p.preview.setOpacity(v)
}

func (p *Player) SetPreviewBorder(enabled bool) {
	p.preview.border = enabled
}

func (p *Player) SetPreviewBorderColor(color string) {
	p.preview.setBorderColor(color)
}

func (p *Player) pointerDown(e Event) {
	if p.mode != ModeSpherical {
		return
	}

	switch e.Target {
	case TargetCanvas:
		p.capture = capture{
			kind: captureLook,
			look: lookAnchor{x: e.X, y: e.Y, lon: p.view.Longitude, lat: p.view.Latitude},
		}
	case TargetDragBar:
		if !p.preview.enabled {
			return
		}
		p.capture = capture{
			kind: captureDrag,
			drag: dragAnchor{pointerX: e.X, pointerY: e.Y, x: p.preview.rect.X, y: p.preview.rect.Y},
		}
	case TargetResizeHandle:
		if !p.preview.enabled {
			return
		}
		p.capture = capture{
			kind:   captureResize,
			resize: resizeAnchor{pointerX: e.X, width: p.preview.rect.Width},
		}
	}
}

func (p *Player) pointerMove(e Event) {
	switch p.capture.kind {
	case captureLook:
		p.capture.look.apply(&p.view, e.X, e.Y)
	case captureDrag:
		p.capture.drag.apply(&p.preview, e.X, e.Y, p.bounds)
	case captureResize:
		p.capture.resize.apply(&p.preview, e.X, p.bounds)
	}
}

// Dragging reports whether a pointer capture is active.
func (p *Player) Dragging() bool {
	return p.capture.kind != captureNone
}
