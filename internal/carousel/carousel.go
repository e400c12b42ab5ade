// Package carousel implements the swipeable card carousel: a drag state machine,
// the layout function mapping card distance to a visual transform, and the
// indicator strip.
//
// A Carousel is owned by a single event loop. None of its methods block or
// perform I/O, and none of them are safe for concurrent use.
package carousel

import "math"

// Release describes how the last gesture ended.
type Release struct {
	From   int
	To     int
	Offset float64
	// Peak is the largest absolute offset seen during the gesture.
	Peak float64
}

// Moved reports whether focus changed.
func (r Release) Moved() bool { return r.From != r.To }

type dragState struct {
	active  bool
	originX float64
	offset  float64
	peak    float64
}

// Option configures a Carousel.
type Option func(*Carousel)

// WithOnSelect registers the callback fired when a card is tapped.
func WithOnSelect(fn func(index int)) Option {
	return func(c *Carousel) { c.onSelect = fn }
}

// Carousel holds the focus index and the drag state for one list of items.
type Carousel struct {
	geom     Geometry
	items    []string
	focus    int
	drag     dragState
	last     Release
	dragged  bool
	onSelect func(index int)
}

// New returns an idle carousel focused on the first item.
func New(items []string, geom Geometry, opts ...Option) *Carousel {
	c := &Carousel{geom: geom, items: items}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geometry returns the card metrics the carousel was built with.
func (c *Carousel) Geometry() Geometry { return c.geom }

// Items returns the current item list. Callers must not modify it.
func (c *Carousel) Items() []string { return c.items }

// Len is the number of items.
func (c *Carousel) Len() int { return len(c.items) }

// Focus is the index of the centred item; 0 for an empty list.
func (c *Carousel) Focus() int { return c.focus }

// Dragging reports whether a gesture is in progress.
func (c *Carousel) Dragging() bool { return c.drag.active }

// Offset is the live horizontal offset of the gesture; 0 when idle.
func (c *Carousel) Offset() float64 { return c.drag.offset }

// LastRelease returns the outcome of the most recent Commit.
func (c *Carousel) LastRelease() Release { return c.last }

// SetItems swaps the item list. Focus is kept but re-clamped; an active drag
// continues because its origin is relative to the pointer, not to an index.
func (c *Carousel) SetItems(items []string) {
	c.items = items
	c.focus = clamp(c.focus, len(items))
}

// SetFocus jumps to item i, clamped into range. It is a no-op for an empty list.
func (c *Carousel) SetFocus(i int) {
	if len(c.items) == 0 {
		return
	}
	c.focus = clamp(i, len(c.items))
}

// Next and Prev step focus by one without wrapping.
func (c *Carousel) Next() { c.SetFocus(c.focus + 1) }
func (c *Carousel) Prev() { c.SetFocus(c.focus - 1) }

// Begin starts a gesture at x. Calling it mid-drag restarts from the new origin.
func (c *Carousel) Begin(x float64) {
	c.drag = dragState{active: true, originX: x}
	c.dragged = false
}

// Continue records a movement sample. The offset is not clamped, so the cards
// can be pulled past either end of the list.
func (c *Carousel) Continue(x float64) {
	if !c.drag.active {
		return
	}
	c.drag.offset = x - c.drag.originX
	if p := math.Abs(c.drag.offset); p > c.drag.peak {
		c.drag.peak = p
	}
}

// Commit ends the gesture and decides whether to advance, retreat or snap back.
func (c *Carousel) Commit() {
	if !c.drag.active {
		return
	}
	c.focus = clamp(c.focus, len(c.items))
	from := c.focus
	threshold := c.geom.Threshold()
	switch n := len(c.items); {
	case c.drag.offset < -threshold && c.focus < n-1:
		c.focus++
	case c.drag.offset > threshold && c.focus > 0:
		c.focus--
	}
	c.last = Release{From: from, To: c.focus, Offset: c.drag.offset, Peak: c.drag.peak}
	c.dragged = c.drag.peak > c.geom.TapEpsilon
	c.drag = dragState{}
}

// Tap delivers a click on card i. It fires the select callback unless a drag is
// in progress or the gesture that just ended moved further than the tap epsilon.
// It reports whether the callback fired.
func (c *Carousel) Tap(i int) bool {
	suppressed := c.drag.active || c.dragged
	c.dragged = false
	if suppressed || i < 0 || i >= len(c.items) || c.onSelect == nil {
		return false
	}
	c.onSelect(i)
	return true
}

// Transforms lays out every item for the current frame.
func (c *Carousel) Transforms() []Transform {
	if len(c.items) == 0 {
		return nil
	}
	focus := clamp(c.focus, len(c.items))
	out := make([]Transform, len(c.items))
	for i := range c.items {
		out[i] = c.geom.Layout(i, focus, c.drag.offset)
	}
	return out
}

// Indicators projects the position strip for the current focus.
func (c *Carousel) Indicators() []Indicator {
	return Indicators(len(c.items), c.focus)
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}
