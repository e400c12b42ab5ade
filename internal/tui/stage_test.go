package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jask/showcase/internal/carousel"
)

func testMetrics() metrics {
	return metrics{pxPerCol: 12, pxPerRow: 24, cardWidth: 260, cardHeight: 380}
}

func TestPlacePaintsInStackOrder(t *testing.T) {
	g := carousel.DefaultGeometry()
	frame := make([]carousel.Transform, 5)
	for i := range frame {
		frame[i] = g.Layout(i, 2, 0)
	}

	boxes := testMetrics().place(frame, 80)
	require.Len(t, boxes, 5)
	require.Equal(t, 2, boxes[len(boxes)-1].index, "focused card paints last")
	for i := 1; i < len(boxes); i++ {
		require.LessOrEqual(t, boxes[i-1].order, boxes[i].order)
	}

	var focused box
	for _, b := range boxes {
		if b.index == 2 {
			focused = b
		}
	}
	require.Equal(t, 22, focused.width)
	require.Equal(t, 29, focused.left)
	require.Equal(t, 16, focused.height)
	require.Equal(t, 0, focused.top)
	require.Equal(t, shade(1), focused.fill)
}

func TestHitPrefersTopmost(t *testing.T) {
	boxes := []box{
		{index: 0, left: 0, width: 10, height: 5, order: 9},
		{index: 1, left: 5, width: 10, height: 5, order: 10},
	}
	require.Equal(t, 0, hit(boxes, 2, 2))
	require.Equal(t, 1, hit(boxes, 7, 2))
	require.Equal(t, -1, hit(boxes, 20, 2))
	require.Equal(t, -1, hit(boxes, 7, 5))
}

func TestShadeIsMonotonic(t *testing.T) {
	require.Equal(t, greyRamp[0], shade(-1))
	require.Equal(t, greyRamp[len(greyRamp)-1], shade(2))

	idx := func(c any) int {
		for i, g := range greyRamp {
			if g == c {
				return i
			}
		}
		return -1
	}
	prev := -1
	for v := 0.0; v <= 1.0; v += 0.05 {
		i := idx(shade(v))
		require.GreaterOrEqual(t, i, prev)
		prev = i
	}

	_, o, b := carousel.Falloff(5)
	require.Less(t, idx(shade(o*b)), idx(shade(1)))
}

func TestIndicatorLayoutCentres(t *testing.T) {
	hits := indicatorLayout(carousel.Indicators(3, 1), 20)
	// • ━━━ • is 7 columns wide.
	require.Equal(t, []indicatorHit{
		{index: 0, start: 6, end: 7},
		{index: 1, start: 8, end: 11},
		{index: 2, start: 12, end: 13},
	}, hits)
	require.Empty(t, indicatorLayout(nil, 20))
	require.Empty(t, renderIndicators(nil, 20))
}

func TestRenderStageDrawsLabels(t *testing.T) {
	g := carousel.DefaultGeometry()
	items := []string{"https://img.example/a/one.png", "https://img.example/two.png"}
	frame := []carousel.Transform{g.Layout(0, 0, 0), g.Layout(1, 0, 0)}

	out := testMetrics().renderStage(frame, items, 0, 80)
	require.Len(t, strings.Split(out, "\n"), 16)
	require.Contains(t, out, "1/2")
	require.Contains(t, out, "2/2")
}

func TestCaption(t *testing.T) {
	require.Equal(t, "img.example/…/one.png", caption("https://img.example/a/one.png?w=600"))
	require.Equal(t, "img.example", caption("https://img.example/"))
	require.Equal(t, "plain", caption("plain"))
	require.Equal(t, "abc…", truncate("abcdef", 4))
	require.Equal(t, "abc", truncate("abc", 4))
}
