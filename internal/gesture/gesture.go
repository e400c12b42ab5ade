// Package gesture unifies touch and pointer input into one begin / continue /
// commit stream. Each input family gets an adapter that translates its native
// events into calls on a Sink.
package gesture

// Sink receives the unified gesture stream. A carousel is a Sink.
type Sink interface {
	Begin(x float64)
	Continue(x float64)
	Commit()
}

// TouchPhase is the lifecycle stage of a touch event.
type TouchPhase int

const (
	TouchStart TouchPhase = iota
	TouchMove
	TouchEnd
	TouchCancel
)

// Touch is one contact point.
type Touch struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// TouchEvent carries the contacts still on the surface, first contact first.
type TouchEvent struct {
	Phase   TouchPhase
	Touches []Touch
}

// TouchAdapter follows the first contact of a touch sequence.
type TouchAdapter struct {
	sink Sink
}

// NewTouchAdapter returns an adapter feeding sink.
func NewTouchAdapter(sink Sink) *TouchAdapter {
	return &TouchAdapter{sink: sink}
}

// Handle translates one touch event. Start and move events without contacts
// are dropped.
func (a *TouchAdapter) Handle(ev TouchEvent) {
	switch ev.Phase {
	case TouchStart:
		if len(ev.Touches) == 0 {
			return
		}
		a.sink.Begin(ev.Touches[0].X)
	case TouchMove:
		if len(ev.Touches) == 0 {
			return
		}
		a.sink.Continue(ev.Touches[0].X)
	case TouchEnd, TouchCancel:
		a.sink.Commit()
	}
}

// PointerAction is what a cursor-based device did.
type PointerAction int

const (
	PointerDown PointerAction = iota
	PointerMove
	PointerUp
	PointerLeave
)

// PointerEvent is a cursor sample in surface coordinates.
type PointerEvent struct {
	Action PointerAction
	X      float64
	Y      float64
}

// PointerAdapter turns button-down / move / button-up into a gesture. Leaving
// the surface with the button held ends the gesture exactly like a release.
type PointerAdapter struct {
	sink    Sink
	pressed bool
}

// NewPointerAdapter returns an adapter feeding sink.
func NewPointerAdapter(sink Sink) *PointerAdapter {
	return &PointerAdapter{sink: sink}
}

// Pressed reports whether the adapter is between a down and its release.
func (a *PointerAdapter) Pressed() bool { return a.pressed }

// Handle translates one cursor event. Moves without a held button are ignored.
func (a *PointerAdapter) Handle(ev PointerEvent) {
	switch ev.Action {
	case PointerDown:
		a.pressed = true
		a.sink.Begin(ev.X)
	case PointerMove:
		if a.pressed {
			a.sink.Continue(ev.X)
		}
	case PointerUp:
		a.pressed = false
		a.sink.Commit()
	case PointerLeave:
		if a.pressed {
			a.pressed = false
			a.sink.Commit()
		}
	}
}
