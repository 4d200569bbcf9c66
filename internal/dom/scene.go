//go:build js && wasm

package dom

import (
	"errors"
	"syscall/js"

	"github.com/spherecast/spherecast/internal/player"
)

const (
	sphereWidthSegments  = 60
	sphereHeightSegments = 40
	cameraNear           = 1
	cameraFar            = 1100
)

// NewSceneFactory builds the three.js projection on canvas, textured with
// the video element.
func NewSceneFactory(canvas, video js.Value) player.SceneFactory {
	return func() (s player.Scene, err error) {
		three := window.Get("THREE")
		if three.Type() != js.TypeObject {
			return nil, errors.New("three.js not loaded")
		}
		defer catch(&err)

		renderer := three.Get("WebGLRenderer").New(map[string]any{
			"canvas":    canvas,
			"antialias": true,
		})
		ratio := window.Get("devicePixelRatio")
		if ratio.Type() != js.TypeNumber {
			ratio = js.ValueOf(1)
		}
		renderer.Call("setPixelRatio", ratio)

		scene := three.Get("Scene").New()
		camera := three.Get("PerspectiveCamera").New(player.DefaultFOV, 16.0/9.0, cameraNear, cameraFar)

		geometry := three.Get("SphereGeometry").New(player.SphereRadius, sphereWidthSegments, sphereHeightSegments)
		// Face the texture inwards; the camera sits at the centre.
		geometry.Call("scale", -1, 1, 1)

		texture := three.Get("VideoTexture").New(video)
		if srgb := three.Get("SRGBColorSpace"); !srgb.IsUndefined() {
			texture.Set("colorSpace", srgb)
		}
		texture.Set("minFilter", three.Get("LinearFilter"))
		texture.Set("magFilter", three.Get("LinearFilter"))
		texture.Set("generateMipmaps", false)

		material := three.Get("MeshBasicMaterial").New(map[string]any{"map": texture})
		scene.Call("add", three.Get("Mesh").New(geometry, material))

		return &threeScene{renderer: renderer, scene: scene, camera: camera}, nil
	}
}

type threeScene struct {
	renderer js.Value
	scene    js.Value
	camera   js.Value
}

func (s *threeScene) Resize(width, height int) {
	s.renderer.Call("setSize", width, height, false)
	s.camera.Set("aspect", float64(width)/float64(height))
	s.camera.Call("updateProjectionMatrix")
}

func (s *threeScene) SetFOV(fov float64) {
	s.camera.Set("fov", fov)
	s.camera.Call("updateProjectionMatrix")
}

func (s *threeScene) LookAt(t player.Vec3) {
	s.camera.Call("lookAt", t.X, t.Y, t.Z)
}

func (s *threeScene) Render() {
	s.renderer.Call("render", s.scene, s.camera)
}
