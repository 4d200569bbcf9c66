package player

import (
	"context"
	"sync"
)

// EventType names an input or completion the player reacts to.
type EventType string

const (
	EventFrame          EventType = "frame"
	EventResize         EventType = "resize"
	EventPointerDown    EventType = "pointerdown"
	EventPointerMove    EventType = "pointermove"
	EventPointerUp      EventType = "pointerup"
	EventWheel          EventType = "wheel"
	EventKeyDown        EventType = "keydown"
	EventMetadataLoaded EventType = "loadedmetadata"
	EventManifestParsed EventType = "manifestparsed"
	EventStreamError    EventType = "streamerror"
	EventPlayResult     EventType = "playresult"

	eventTask EventType = "task"
)

// Target identifies the element a pointer event started on.
type Target string

const (
	TargetCanvas       Target = "canvas"
	TargetDragBar      Target = "preview-drag"
	TargetResizeHandle Target = "preview-resize"
)

// Event is the payload delivered to handlers. Only the fields relevant to
// the event type are set.
type Event struct {
	Type   EventType
	Target Target

	X, Y   float64
	DeltaY float64

	Width, Height float64

	Key             string
	TargetTag       string
	ContentEditable bool

	Detail string
	Err    error

	// Generation tags asynchronous media events with the load that produced them.
	Generation uint64

	task func()
}

// Handler reacts to one event. Handlers run on the loop goroutine only.
type Handler func(Event)

// Loop serialises every state mutation of the player onto one goroutine.
// Post and Submit may be called from anywhere and never block.
type Loop struct {
	mu       sync.Mutex
	handlers map[EventType][]Handler
	after    []func()
	pending  []Event
	wake     chan struct{}
}

func NewLoop() *Loop {
	return &Loop{
		handlers: make(map[EventType][]Handler),
		wake:     make(chan struct{}, 1),
	}
}

// Bind registers h for events of type t. Handlers run in binding order.
func (l *Loop) Bind(t EventType, h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handlers[t] = append(l.handlers[t], h)
}

// AfterDispatch registers fn to run after every dispatched event, typically
// to re-render the view.
func (l *Loop) AfterDispatch(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.after = append(l.after, fn)
}

// Post queues e for the loop goroutine.
func (l *Loop) Post(e Event) {
	l.mu.Lock()
	l.pending = append(l.pending, e)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Submit queues fn to run on the loop goroutine.
func (l *Loop) Submit(fn func()) {
	l.Post(Event{Type: eventTask, task: fn})
}

// Dispatch delivers e synchronously on the calling goroutine. Run uses it for
// queued events; tests and single-threaded hosts may call it directly.
func (l *Loop) Dispatch(e Event) {
	if e.Type == eventTask {
		if e.task != nil {
			e.task()
		}
	} else {
		l.mu.Lock()
		handlers := l.handlers[e.Type]
		l.mu.Unlock()

		for _, h := range handlers {
			h(e)
		}
	}

	l.mu.Lock()
	after := l.after
	l.mu.Unlock()
	for _, fn := range after {
		fn()
	}
}

// Run processes queued events in order until ctx is done.
func (l *Loop) Run(ctx context.Context) error {
	for {
		for {
			l.mu.Lock()
			if len(l.pending) == 0 {
				l.mu.Unlock()
				break
			}
			e := l.pending[0]
			l.pending[0] = Event{}
			l.pending = l.pending[1:]
			l.mu.Unlock()

			l.Dispatch(e)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}
