//go:build js && wasm

package dom

import (
	"fmt"
	"log/slog"
	"strconv"
	"syscall/js"

	"github.com/samber/lo"

	"github.com/spherecast/spherecast/internal/favorites"
	"github.com/spherecast/spherecast/internal/player"
)

const noticeDuration = 2000 // ms

// Page holds the elements of the player page and renders player state into
// them. Apart from the constructor, methods run on the player loop.
type Page struct {
	shell         js.Value
	canvas        js.Value
	surface       js.Value
	video         js.Value
	dragBar       js.Value
	resizeHandle  js.Value
	hud           js.Value
	modeLabel     js.Value
	fovSlider     js.Value
	fovValue      js.Value
	opacity       js.Value
	opacityValue  js.Value
	borderToggle  js.Value
	borderColor   js.Value
	streamURL     js.Value
	title         js.Value
	quality       js.Value
	favoritesList js.Value

	lastSurface player.Surface
	lastHUD     player.HUD
	rendered    bool
}

func NewPage() (*Page, error) {
	p := &Page{}
	for _, el := range []struct {
		id  string
		dst *js.Value
	}{
		{IDPlayerShell, &p.shell},
		{IDCanvas, &p.canvas},
		{IDVideoSurface, &p.surface},
		{IDVideo, &p.video},
		{IDPreviewDragBar, &p.dragBar},
		{IDPreviewResizeHandle, &p.resizeHandle},
		{IDHUD, &p.hud},
		{IDModeLabel, &p.modeLabel},
		{IDFOVSlider, &p.fovSlider},
		{IDFOVValue, &p.fovValue},
		{IDPreviewOpacity, &p.opacity},
		{IDPreviewOpacityValue, &p.opacityValue},
		{IDPreviewBorderToggle, &p.borderToggle},
		{IDPreviewBorderColor, &p.borderColor},
		{IDStreamURL, &p.streamURL},
		{IDStreamTitle, &p.title},
		{IDQualitySelector, &p.quality},
		{IDFavoritesList, &p.favoritesList},
	} {
		v, err := byID(el.id)
		if err != nil {
			return nil, err
		}
		*el.dst = v
	}
	return p, nil
}

func (p *Page) Canvas() js.Value { return p.canvas }
func (p *Page) Video() js.Value  { return p.video }

// Bounds is the size of the player container.
func (p *Page) Bounds() (width, height float64) {
	r := p.shell.Call("getBoundingClientRect")
	return r.Get("width").Float(), r.Get("height").Float()
}

func (p *Page) Value() string     { return p.streamURL.Get("value").String() }
func (p *Page) SetValue(v string) { p.streamURL.Set("value", v) }

func (p *Page) SetTitle(title string) {
	p.title.Set("textContent", title)
}

// SetOptions rebuilds the quality dropdown.
func (p *Page) SetOptions(qualities []string, selected string) {
	p.quality.Set("innerHTML", "")
	for _, q := range qualities {
		opt := document.Call("createElement", "option")
		opt.Set("value", q)
		opt.Set("textContent", q)
		if q == selected {
			opt.Set("selected", true)
		}
		p.quality.Call("appendChild", opt)
	}
}

// Render draws the favorites list. Entries carry data-action attributes
// picked up by the delegated click handler.
func (p *Page) Render(urls []string) {
	list := p.favoritesList
	list.Set("innerHTML", "")

	if len(urls) == 0 {
		li := document.Call("createElement", "li")
		li.Set("className", "favorites-empty")
		li.Set("textContent", favorites.EmptyMessage)
		list.Call("appendChild", li)
		return
	}

	for i, u := range urls {
		index := strconv.Itoa(i)

		li := document.Call("createElement", "li")
		li.Set("className", "favorites-item")

		link := document.Call("createElement", "span")
		link.Set("className", "favorites-url")
		link.Set("textContent", u)
		link.Set("title", u)
		link.Call("setAttribute", "data-action", "favorite-select")
		link.Call("setAttribute", "data-arg", index)

		remove := document.Call("createElement", "button")
		remove.Set("type", "button")
		remove.Set("className", "favorites-remove")
		remove.Set("textContent", "Remove")
		remove.Call("setAttribute", "data-action", "favorite-remove")
		remove.Call("setAttribute", "data-arg", index)

		li.Call("appendChild", link)
		li.Call("appendChild", remove)
		list.Call("appendChild", li)
	}
}

// Notify shows message as a toast for two seconds.
func (p *Page) Notify(message string) {
	toast := document.Call("createElement", "div")
	toast.Set("className", "notification")
	toast.Set("textContent", message)
	document.Get("body").Call("appendChild", toast)

	var fade, remove js.Func
	fade = js.FuncOf(func(js.Value, []js.Value) any {
		fade.Release()
		toast.Get("classList").Call("add", "notification-hidden")
		window.Call("setTimeout", remove, 300)
		return nil
	})
	remove = js.FuncOf(func(js.Value, []js.Value) any {
		remove.Release()
		toast.Call("remove")
		return nil
	})
	window.Call("setTimeout", fade, noticeDuration)
}

func (p *Page) Confirm(prompt string) bool {
	return window.Call("confirm", prompt).Bool()
}

func (p *Page) RequestFullscreen() {
	if p.shell.Get("requestFullscreen").Type() != js.TypeFunction {
		slog.Warn("fullscreen not supported")
		return
	}
	settle(p.shell.Call("requestFullscreen"), func(err error) {
		if err != nil {
			slog.Warn("fullscreen request failed", "error", err)
		}
	})
}

// RenderPlayer mirrors the player's surface and HUD state into the page.
// Unchanged state is not re-applied.
func (p *Page) RenderPlayer(pl *player.Player) {
	surface, hud := pl.Surface(), pl.HUD()
	if p.rendered && surface == p.lastSurface && hud == p.lastHUD {
		return
	}
	p.renderSurface(surface)
	p.renderHUD(hud)
	p.lastSurface, p.lastHUD, p.rendered = surface, hud, true
}

func (p *Page) renderSurface(s player.Surface) {
	style := p.surface.Get("style")

	switch s.Layout {
	case player.LayoutFill:
		style.Set("left", "0")
		style.Set("top", "0")
		style.Set("width", "100%")
		style.Set("height", "100%")
	case player.LayoutOverlay:
		style.Set("left", px(s.Rect.X))
		style.Set("top", px(s.Rect.Y))
		style.Set("width", px(s.Rect.Width))
		style.Set("height", px(s.Rect.Height))
	}

	// A hidden surface stays in the layout so the video keeps decoding
	// frames for the sphere texture.
	style.Set("opacity", strconv.FormatFloat(s.Opacity, 'f', -1, 64))
	style.Set("pointerEvents", lo.Ternary(s.Interactive, "auto", "none"))
	style.Set("borderRadius", px(s.CornerRadius))
	if s.Border.Width > 0 {
		style.Set("border", fmt.Sprintf("%dpx solid %s", s.Border.Width, s.Border.Color))
	} else {
		style.Set("border", "none")
	}
	p.surface.Call("setAttribute", "data-layout", s.Layout.String())

	setHidden(p.dragBar, !s.ShowHandles)
	setHidden(p.resizeHandle, !s.ShowHandles)
}

func (p *Page) renderHUD(h player.HUD) {
	setHidden(p.canvas, !h.CanvasVisible)
	setHidden(p.hud, !h.ControlsVisible)
	p.modeLabel.Set("textContent", h.ModeLabel)

	fov := strconv.Itoa(h.FOV)
	p.fovSlider.Set("value", fov)
	p.fovValue.Set("textContent", fov+"°")

	opacity := strconv.Itoa(h.PreviewOpacity)
	p.opacity.Set("value", opacity)
	p.opacityValue.Set("textContent", opacity+"%")

	p.borderToggle.Set("checked", h.BorderEnabled)
	p.borderColor.Set("value", h.BorderColor)
	p.shell.Get("classList").Call("toggle", "preview-on", h.PreviewEnabled)
}

func setHidden(el js.Value, hidden bool) {
	el.Set("hidden", hidden)
}
