//go:build js && wasm

package dom

import (
	"log/slog"
	"syscall/js"
)

// Video drives an HTMLVideoElement.
type Video struct {
	el js.Value
}

func NewVideo(el js.Value) *Video {
	return &Video{el: el}
}

func (v *Video) Element() js.Value { return v.el }

func (v *Video) SetSource(url string) {
	v.el.Set("src", url)
}

func (v *Video) Reset() {
	v.el.Call("pause")
	v.el.Call("removeAttribute", "src")
	v.el.Call("load")
}

// Play reports the outcome of the play() promise; autoplay policies reject
// it until the user has interacted with the page.
func (v *Video) Play(done func(error)) {
	var err error
	func() {
		defer catch(&err)
		settle(v.el.Call("play"), done)
	}()
	if err != nil {
		slog.Warn("video play threw", "error", err)
		done(err)
	}
}

func (v *Video) Pause()              { v.el.Call("pause") }
func (v *Video) Paused() bool        { return v.el.Get("paused").Bool() }
func (v *Video) Muted() bool         { return v.el.Get("muted").Bool() }
func (v *Video) SetMuted(muted bool) { v.el.Set("muted", muted) }

func (v *Video) IntrinsicSize() (width, height float64) {
	return v.el.Get("videoWidth").Float(), v.el.Get("videoHeight").Float()
}
