package carousel

// Indicator is one dot of the position strip.
type Indicator struct {
	Index  int
	Active bool
}

// Indicators returns one indicator per item with the focused one active.
func Indicators(n, focus int) []Indicator {
	if n <= 0 {
		return nil
	}
	focus = clamp(focus, n)
	out := make([]Indicator, n)
	for i := range out {
		out[i] = Indicator{Index: i, Active: i == focus}
	}
	return out
}
