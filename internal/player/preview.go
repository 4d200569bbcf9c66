package player

import (
	"fmt"
	"math"
	"strings"
)

const (
	PreviewMinWidth  = 120.0
	PreviewMinHeight = 60.0
	// PreviewMargin is kept free between the overlay and the container edge
	// when sizing; position is clamped against the full container.
	PreviewMargin = 8.0

	DefaultAspect         = 16.0 / 9.0
	DefaultIntrinsicWidth = 1280.0

	MinPreviewOpacity     = 10
	MaxPreviewOpacity     = 100
	DefaultPreviewOpacity = 85

	PreviewBorderWidth        = 2
	DefaultPreviewBorderColor = "#00e5ff"
)

// Size is a preview size preset.
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// divisor of the video's intrinsic width for each preset.
var presetDivisors = map[Size]float64{
	SizeSmall:  10,
	SizeMedium: 8,
	SizeLarge:  6,
}

// ParseSize maps a preset name to a Size.
func ParseSize(s string) (Size, error) {
	size := Size(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := presetDivisors[size]; !ok {
		return "", fmt.Errorf("unknown preview size %q", s)
	}
	return size, nil
}

// Bounds is the size of the player container in CSS pixels.
type Bounds struct {
	Width  float64
	Height float64
}

// Rect is an overlay position and size relative to the player container.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Preview is the picture-in-picture overlay shown over the spherical canvas.
type Preview struct {
	enabled     bool
	rect        Rect
	aspect      float64
	opacity     int
	border      bool
	borderColor string
}

func newPreview() Preview {
	return Preview{
		rect:        Rect{X: 12, Y: 12, Width: 240, Height: 135},
		aspect:      DefaultAspect,
		opacity:     DefaultPreviewOpacity,
		borderColor: DefaultPreviewBorderColor,
	}
}

func (p Preview) Enabled() bool       { return p.enabled }
func (p Preview) Rect() Rect          { return p.rect }
func (p Preview) Aspect() float64     { return p.aspect }
func (p Preview) Opacity() int        { return p.opacity }
func (p Preview) BorderEnabled() bool { return p.border }
func (p Preview) BorderColor() string { return p.borderColor }

func (p *Preview) setAspect(width, height float64) {
	if width > 0 && height > 0 {
		p.aspect = width / height
	}
}

// clamp restores the bounds invariant: the width stays within
// [PreviewMinWidth, W-margin], the height follows the aspect ratio unless it
// would overflow H-margin, and the rectangle lies inside the container.
func (p *Preview) clamp(b Bounds) {
	r := &p.rect

	r.Width = clamp(r.Width, PreviewMinWidth, math.Max(PreviewMinWidth, b.Width-PreviewMargin))
	r.Height = math.Round(r.Width / p.aspect)

	if r.Height > b.Height-PreviewMargin {
		r.Height = math.Max(PreviewMinHeight, b.Height-PreviewMargin)
		r.Width = math.Max(PreviewMinWidth, math.Round(r.Height*p.aspect))
	}

	r.X = clamp(r.X, 0, math.Max(0, b.Width-r.Width))
	r.Y = clamp(r.Y, 0, math.Max(0, b.Height-r.Height))
}

func (p *Preview) applyPreset(size Size, intrinsicWidth float64, b Bounds) {
	divisor, ok := presetDivisors[size]
	if !ok {
		divisor = presetDivisors[SizeMedium]
	}
	if intrinsicWidth <= 0 {
		intrinsicWidth = DefaultIntrinsicWidth
	}

	p.rect.Width = math.Max(PreviewMinWidth, math.Round(intrinsicWidth/divisor))
	p.rect.Height = math.Round(p.rect.Width / p.aspect)
	p.clamp(b)
}

func (p *Preview) hasValidSize() bool {
	return p.rect.Width >= PreviewMinWidth
}

func (p *Preview) setOpacity(v int) {
	p.opacity = int(clamp(float64(v), MinPreviewOpacity, MaxPreviewOpacity))
}

func (p *Preview) setBorderColor(color string) {
	if color == "" {
		color = DefaultPreviewBorderColor
	}
	p.borderColor = color
}

// dragAnchor is captured when the overlay's drag bar is pressed.
type dragAnchor struct {
	pointerX, pointerY float64
	x, y               float64
}

func (a dragAnchor) apply(p *Preview, x, y float64, b Bounds) {
	p.rect.X = a.x + (x - a.pointerX)
	p.rect.Y = a.y + (y - a.pointerY)
	p.clamp(b)
}

// resizeAnchor is captured when the overlay's resize handle is pressed.
type resizeAnchor struct {
	pointerX float64
	width    float64
}

func (a resizeAnchor) apply(p *Preview, x float64, b Bounds) {
	p.rect.Width = math.Round(math.Max(PreviewMinWidth, a.width+(x-a.pointerX)))
	p.rect.Height = math.Round(p.rect.Width / p.aspect)
	p.clamp(b)
}
