//go:build js && wasm

package dom

import (
	"errors"
	"log/slog"
	"syscall/js"

	"github.com/spherecast/spherecast/internal/player"
)

// HLS provides hls.js streaming clients when the library is loaded and the
// browser supports Media Source Extensions.
type HLS struct {
	ctor js.Value
}

func NewHLS() *HLS {
	return &HLS{ctor: window.Get("Hls")}
}

func (h *HLS) Supported() bool {
	if h.ctor.Type() != js.TypeFunction {
		return false
	}
	return h.ctor.Call("isSupported").Truthy()
}

func (h *HLS) NewClient() (c player.StreamingClient, err error) {
	if h.ctor.Type() != js.TypeFunction {
		return nil, errors.New("hls.js not loaded")
	}
	defer catch(&err)

	inst := h.ctor.New(map[string]any{"enableWorker": true})
	return &hlsClient{inst: inst, events: h.ctor.Get("Events")}, nil
}

type hlsClient struct {
	inst   js.Value
	events js.Value
	funcs  []js.Func
}

func (c *hlsClient) Load(url string) {
	c.inst.Call("loadSource", url)
}

func (c *hlsClient) Attach(m player.Media) {
	v, ok := m.(*Video)
	if !ok {
		slog.Error("hls.js needs a DOM video element", "media", m)
		return
	}
	c.inst.Call("attachMedia", v.Element())
}

func (c *hlsClient) on(event string, fn func(args []js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		fn(args)
		return nil
	})
	c.funcs = append(c.funcs, f)
	c.inst.Call("on", c.events.Get(event), f)
}

func (c *hlsClient) OnManifestParsed(fn func()) {
	c.on("MANIFEST_PARSED", func([]js.Value) { fn() })
}

// OnError reports hls.js error details, e.g. "manifestLoadError".
func (c *hlsClient) OnError(fn func(detail string)) {
	c.on("ERROR", func(args []js.Value) {
		detail := "unknown"
		if len(args) > 1 && args[1].Type() == js.TypeObject {
			detail = args[1].Get("details").String()
			if args[1].Get("fatal").Truthy() {
				detail += " (fatal)"
			}
		}
		fn(detail)
	})
}

func (c *hlsClient) Destroy() (err error) {
	defer func() {
		for _, f := range c.funcs {
			f.Release()
		}
		c.funcs = nil
	}()
	defer catch(&err)
	c.inst.Call("destroy")
	return nil
}
