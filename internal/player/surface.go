package player

import "math"

// Layout is how the primary video surface is placed in the container.
type Layout int

const (
	// LayoutFill covers the whole container (normal playback).
	LayoutFill Layout = iota
	// LayoutHidden keeps the media element alive but invisible, so it can
	// still feed the spherical texture.
	LayoutHidden
	// LayoutOverlay places the surface at the preview rectangle.
	LayoutOverlay
)

func (l Layout) String() string {
	switch l {
	case LayoutFill:
		return "fill"
	case LayoutHidden:
		return "hidden"
	case LayoutOverlay:
		return "overlay"
	default:
		return "unknown"
	}
}

// Border of the overlay. The zero value means no border.
type Border struct {
	Width int
	Color string
}

// Surface is the presentation of the primary video surface.
type Surface struct {
	Layout       Layout
	Rect         Rect
	Opacity      float64
	Interactive  bool
	CornerRadius float64
	Border       Border
	ShowHandles  bool
}

// HUD is the state mirrored into the on-screen controls.
type HUD struct {
	ModeLabel       string
	CanvasVisible   bool
	ControlsVisible bool
	FOV             int
	PreviewEnabled  bool
	PreviewOpacity  int
	BorderEnabled   bool
	BorderColor     string
}

const overlayCornerRadius = 10

// Surface derives the primary surface presentation from the current state.
func (p *Player) Surface() Surface {
	if p.mode == ModeNormal {
		return Surface{
			Layout:      LayoutFill,
			Opacity:     1,
			Interactive: true,
		}
	}

	if !p.preview.enabled {
		return Surface{Layout: LayoutHidden}
	}

	s := Surface{
		Layout:       LayoutOverlay,
		Rect:         p.preview.rect,
		Opacity:      float64(p.preview.opacity) / 100,
		Interactive:  true,
		CornerRadius: overlayCornerRadius,
		ShowHandles:  true,
	}
	if p.preview.border {
		s.Border = Border{Width: PreviewBorderWidth, Color: p.preview.borderColor}
	}
	return s
}

// HUD derives the control panel state.
func (p *Player) HUD() HUD {
	spherical := p.mode == ModeSpherical
	return HUD{
		ModeLabel:       p.mode.String(),
		CanvasVisible:   spherical,
		ControlsVisible: spherical,
		FOV:             int(math.Round(p.view.FOV)),
		PreviewEnabled:  spherical && p.preview.enabled,
		PreviewOpacity:  p.preview.opacity,
		BorderEnabled:   p.preview.border,
		BorderColor:     p.preview.borderColor,
	}
}
