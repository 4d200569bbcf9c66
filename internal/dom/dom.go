//go:build js && wasm

// Package dom binds the player to the browser page: the video element,
// hls.js, three.js, local storage and the page controls.
package dom

import (
	"fmt"
	"strconv"
	"syscall/js"
)

var (
	window   = js.Global()
	document = js.Global().Get("document")
)

// Element IDs of the player page.
const (
	IDPlayerShell         = "playerShell"
	IDCanvas              = "three360Canvas"
	IDVideoSurface        = "videoSurface"
	IDVideo               = "video"
	IDPreviewDragBar      = "previewDragBar"
	IDPreviewResizeHandle = "previewResizeHandle"
	IDHUD                 = "hud"
	IDModeLabel           = "modeLabel"
	IDFOVSlider           = "fovSlider"
	IDFOVValue            = "fovValue"
	IDPreviewOpacity      = "previewOpacity"
	IDPreviewOpacityValue = "previewOpacityValue"
	IDPreviewBorderToggle = "previewBorderToggle"
	IDPreviewBorderColor  = "previewBorderColor"
	IDStreamURL           = "streamUrl"
	IDStreamTitle         = "stream-title"
	IDQualitySelector     = "qualitySelector"
	IDFavoritesList       = "favorites-list"
)

// Origin is the scheme and host the page was served from.
func Origin() string {
	return window.Get("location").Get("origin").String()
}

func byID(id string) (js.Value, error) {
	el := document.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return js.Null(), fmt.Errorf("element #%s not found", id)
	}
	return el, nil
}

// catch turns a JavaScript exception thrown by a syscall/js call into err.
func catch(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if jsErr, ok := r.(js.Error); ok {
		*err = jsErr
		return
	}
	panic(r)
}

// settle calls done once promise p resolves or rejects. Values that are not
// promises count as resolved.
func settle(p js.Value, done func(error)) {
	if p.Type() != js.TypeObject || p.Get("then").Type() != js.TypeFunction {
		done(nil)
		return
	}

	var resolved, rejected js.Func
	release := func() {
		resolved.Release()
		rejected.Release()
	}
	resolved = js.FuncOf(func(js.Value, []js.Value) any {
		release()
		done(nil)
		return nil
	})
	rejected = js.FuncOf(func(_ js.Value, args []js.Value) any {
		release()
		reason := js.Undefined()
		if len(args) > 0 {
			reason = args[0]
		}
		done(js.Error{Value: reason})
		return nil
	})
	p.Call("then", resolved, rejected)
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// Listeners owns the callbacks registered with addEventListener and the
// observers watching page elements.
type Listeners struct {
	funcs     []js.Func
	observers []js.Value
}

// On registers fn for event on target. opts is passed as the listener options.
func (l *Listeners) On(target js.Value, event string, fn func(e js.Value), opts ...map[string]any) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			fn(args[0])
		}
		return nil
	})
	l.funcs = append(l.funcs, f)

	if len(opts) > 0 {
		target.Call("addEventListener", event, f, opts[0])
		return
	}
	target.Call("addEventListener", event, f)
}

// Observe calls fn whenever target changes size. It reports false when the
// browser has no ResizeObserver.
func (l *Listeners) Observe(target js.Value, fn func()) bool {
	ctor := window.Get("ResizeObserver")
	if ctor.Type() != js.TypeFunction {
		return false
	}
	f := js.FuncOf(func(js.Value, []js.Value) any {
		fn()
		return nil
	})
	l.funcs = append(l.funcs, f)

	observer := ctor.New(f)
	observer.Call("observe", target)
	l.observers = append(l.observers, observer)
	return true
}

func (l *Listeners) Release() {
	for _, o := range l.observers {
		o.Call("disconnect")
	}
	l.observers = nil
	for _, f := range l.funcs {
		f.Release()
	}
	l.funcs = nil
}
