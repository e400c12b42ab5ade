package gesture

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/tidwall/jsonc"
)

// ErrUnknownEvent is returned for a recorded event type no adapter understands.
var ErrUnknownEvent = errors.New("gesture: unknown event type")

// Record is one recorded input event, named after its DOM counterpart:
// touchstart, touchmove, touchend, touchcancel, mousedown, mousemove,
// mouseup, mouseleave and click.
type Record struct {
	Type    string  `json:"type"`
	X       float64 `json:"x,omitempty"`
	Touches []Touch `json:"touches,omitempty"`
	Index   int     `json:"index,omitempty"`
}

// Decode reads a JSON Lines recording. Blank lines and // comments are skipped.
func Decode(r io.Reader) ([]Record, error) {
	var out []Record
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(jsonc.ToJSON(sc.Bytes()))
		if len(raw) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Player routes recorded events to the adapter for their input family.
type Player struct {
	Touch   *TouchAdapter
	Pointer *PointerAdapter
	// Click receives click events; it may be nil.
	Click func(index int)
}

// NewPlayer wires both adapters to the same sink.
func NewPlayer(sink Sink, click func(index int)) *Player {
	return &Player{
		Touch:   NewTouchAdapter(sink),
		Pointer: NewPointerAdapter(sink),
		Click:   click,
	}
}

// Play dispatches one record.
func (p *Player) Play(rec Record) error {
	switch rec.Type {
	case "touchstart":
		p.Touch.Handle(TouchEvent{Phase: TouchStart, Touches: rec.Touches})
	case "touchmove":
		p.Touch.Handle(TouchEvent{Phase: TouchMove, Touches: rec.Touches})
	case "touchend":
		p.Touch.Handle(TouchEvent{Phase: TouchEnd, Touches: rec.Touches})
	case "touchcancel":
		p.Touch.Handle(TouchEvent{Phase: TouchCancel, Touches: rec.Touches})
	case "mousedown", "pointerdown":
		p.Pointer.Handle(PointerEvent{Action: PointerDown, X: rec.X})
	case "mousemove", "pointermove":
		p.Pointer.Handle(PointerEvent{Action: PointerMove, X: rec.X})
	case "mouseup", "pointerup":
		p.Pointer.Handle(PointerEvent{Action: PointerUp, X: rec.X})
	case "mouseleave", "pointerleave":
		p.Pointer.Handle(PointerEvent{Action: PointerLeave, X: rec.X})
	case "click":
		if p.Click != nil {
			p.Click(rec.Index)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, rec.Type)
	}
	return nil
}
