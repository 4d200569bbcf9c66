//go:build js && wasm

package dom

import (
	"syscall/js"

	"github.com/spherecast/spherecast/internal/app"
	"github.com/spherecast/spherecast/internal/player"
	"github.com/spherecast/spherecast/internal/shortcut"
)

// Bind forwards page input to the loop. Controls name their action in
// data-action and an optional argument in data-arg; form controls with
// data-on fire on that event with their current value as the argument.
// Listeners are returned so the caller can release them.
func Bind(page *Page, loop *player.Loop, a *app.App) *Listeners {
	l := &Listeners{}

	do := func(action, arg string) {
		loop.Submit(func() { _ = a.Do(action, arg) })
	}

	l.On(document, "click", func(e js.Value) {
		el := e.Get("target").Call("closest", "[data-action]")
		if el.IsNull() || el.Call("hasAttribute", "data-on").Bool() {
			return
		}
		e.Call("preventDefault")
		do(el.Call("getAttribute", "data-action").String(), attr(el, "data-arg"))
	})
	for _, event := range []string{"input", "change"} {
		l.On(document, event, func(e js.Value) {
			el := e.Get("target")
			if attr(el, "data-on") != event {
				return
			}
			arg := el.Get("value").String()
			if el.Get("type").String() == "checkbox" {
				arg = "false"
				if el.Get("checked").Bool() {
					arg = "true"
				}
			}
			do(attr(el, "data-action"), arg)
		})
	}
	l.On(page.streamURL, "keydown", func(e js.Value) {
		if e.Get("key").String() == "Enter" {
			e.Call("preventDefault")
			do("load", "")
		}
	})

	l.On(document, "keydown", func(e js.Value) {
		if e.Get("ctrlKey").Bool() || e.Get("metaKey").Bool() || e.Get("altKey").Bool() {
			return
		}
		key := e.Get("key").String()
		target := e.Get("target")
		tag := ""
		if target.Type() == js.TypeObject && target.Get("tagName").Type() == js.TypeString {
			tag = target.Get("tagName").String()
		}
		editable := target.Type() == js.TypeObject && target.Get("isContentEditable").Truthy()

		if shortcut.IsTyping(tag, editable) || !shortcut.Bound(key) {
			return
		}
		// Keep space from scrolling and arrows from moving the page.
		e.Call("preventDefault")
		loop.Post(player.Event{Type: player.EventKeyDown, Key: key, TargetTag: tag, ContentEditable: editable})
	})

	pointerDown := func(target player.Target) func(js.Value) {
		return func(e js.Value) {
			if target != player.TargetCanvas {
				e.Call("stopPropagation")
			}
			e.Call("preventDefault")
			loop.Post(player.Event{
				Type:   player.EventPointerDown,
				Target: target,
				X:      e.Get("clientX").Float(),
				Y:      e.Get("clientY").Float(),
			})
		}
	}
	l.On(page.canvas, "pointerdown", pointerDown(player.TargetCanvas))
	l.On(page.dragBar, "pointerdown", pointerDown(player.TargetDragBar))
	l.On(page.resizeHandle, "pointerdown", pointerDown(player.TargetResizeHandle))

	l.On(window, "pointermove", func(e js.Value) {
		loop.Post(player.Event{
			Type: player.EventPointerMove,
			X:    e.Get("clientX").Float(),
			Y:    e.Get("clientY").Float(),
		})
	})
	release := func(js.Value) { loop.Post(player.Event{Type: player.EventPointerUp}) }
	l.On(window, "pointerup", release)
	l.On(window, "pointercancel", release)

	l.On(page.canvas, "wheel", func(e js.Value) {
		loop.Post(player.Event{Type: player.EventWheel, DeltaY: e.Get("deltaY").Float()})
	}, map[string]any{"passive": true})

	l.On(page.video, "loadedmetadata", func(js.Value) {
		loop.Post(player.Event{Type: player.EventMetadataLoaded})
	})

	if !l.Observe(page.shell, func() { PostResize(page, loop) }) {
		resize := func(js.Value) { PostResize(page, loop) }
		l.On(window, "resize", resize)
		l.On(document, "fullscreenchange", resize)
	}

	l.funcs = append(l.funcs, animate(loop))
	return l
}

// PostResize queues the current container size.
func PostResize(page *Page, loop *player.Loop) {
	w, h := page.Bounds()
	loop.Post(player.Event{Type: player.EventResize, Width: w, Height: h})
}

// animate posts a frame event on every animation frame.
func animate(loop *player.Loop) js.Func {
	var frame js.Func
	frame = js.FuncOf(func(js.Value, []js.Value) any {
		loop.Post(player.Event{Type: player.EventFrame})
		window.Call("requestAnimationFrame", frame)
		return nil
	})
	window.Call("requestAnimationFrame", frame)
	return frame
}

func attr(el js.Value, name string) string {
	v := el.Call("getAttribute", name)
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}
