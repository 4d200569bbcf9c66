package player

import "regexp"

var manifestPattern = regexp.MustCompile(`(?i)\.m3u8(\?|#|$)`)

// IsManifestURL reports whether url points at an HLS manifest.
func IsManifestURL(url string) bool {
	return manifestPattern.MatchString(url)
}

// Media is the element the player drives. Play reports its outcome
// asynchronously; done may be called from any goroutine.
type Media interface {
	SetSource(url string)
	// Reset pauses playback and detaches the current source.
	Reset()
	Play(done func(error))
	Pause()
	Paused() bool
	Muted() bool
	SetMuted(muted bool)
	// IntrinsicSize returns zeros until metadata has loaded.
	IntrinsicSize() (width, height float64)
}

// StreamingClient is one adaptive-streaming session bound to a media element.
type StreamingClient interface {
	Load(url string)
	Attach(m Media)
	OnManifestParsed(fn func())
	OnError(fn func(detail string))
	Destroy() error
}

// StreamingProvider builds streaming clients when the runtime supports them.
type StreamingProvider interface {
	Supported() bool
	NewClient() (StreamingClient, error)
}

// Scene is the spherical projection: a camera inside an inverted sphere
// textured with the media element.
type Scene interface {
	Resize(width, height int)
	SetFOV(fov float64)
	LookAt(target Vec3)
	Render()
}

// SceneFactory constructs the scene. The player calls it at most once.
type SceneFactory func() (Scene, error)

// Fullscreener requests fullscreen on the player container.
type Fullscreener interface {
	RequestFullscreen()
}
