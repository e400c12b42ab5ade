package carousel

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func fiveCards() []string {
	items := make([]string, 5)
	for i := range items {
		items[i] = fmt.Sprintf("https://images.example.com/card-%d.jpg", i)
	}
	return items
}

func drag(c *Carousel, from, to float64) {
	c.Begin(from)
	c.Continue(to)
	c.Commit()
}

func TestThresholdUsesSlot(t *testing.T) {
	t.Parallel()

	g := DefaultGeometry()
	require.Equal(t, 276.0, g.Slot())
	require.InDelta(t, 82.8, g.Threshold(), 1e-9)
}

func TestSetFocusClamps(t *testing.T) {
	t.Parallel()

	for n := 0; n <= 6; n++ {
		items := make([]string, n)
		for _, req := range []int{-100, -1, 0, 1, n - 1, n, n + 1, 1 << 20} {
			c := New(items, DefaultGeometry())
			c.SetFocus(req)
			maxFocus := n - 1
			if maxFocus < 0 {
				maxFocus = 0
			}
			require.GreaterOrEqual(t, c.Focus(), 0, "n=%d req=%d", n, req)
			require.LessOrEqual(t, c.Focus(), maxFocus, "n=%d req=%d", n, req)
		}
	}
}

func TestSetFocusIdempotent(t *testing.T) {
	t.Parallel()

	c := New(fiveCards(), DefaultGeometry())
	c.SetFocus(3)
	c.SetFocus(3)
	require.Equal(t, 3, c.Focus())
}

func TestCommitAdvancesPastThreshold(t *testing.T) {
	t.Parallel()

	g := DefaultGeometry()
	c := New(fiveCards(), g)
	drag(c, 0, -(g.Threshold() + 1))
	require.Equal(t, 1, c.Focus())
	require.True(t, c.LastRelease().Moved())
}

func TestCommitDoesNotRetreatBelowZero(t *testing.T) {
	t.Parallel()

	g := DefaultGeometry()
	c := New(fiveCards(), g)
	drag(c, 0, g.Threshold()+1)
	require.Equal(t, 0, c.Focus())
}

func TestCommitRetreats(t *testing.T) {
	t.Parallel()

	g := DefaultGeometry()
	c := New(fiveCards(), g)
	c.SetFocus(2)
	drag(c, 0, g.Threshold()+1)
	require.Equal(t, 1, c.Focus())
}

func TestSnapBackInsideThreshold(t *testing.T) {
	t.Parallel()

	g := DefaultGeometry()
	for start := 0; start < 5; start++ {
		for _, off := range []float64{-g.Threshold() + 0.01, -40, -1, 0, 1, 40, g.Threshold() - 0.01} {
			c := New(fiveCards(), g)
			c.SetFocus(start)
			drag(c, 500, 500+off)
			require.Equal(t, start, c.Focus(), "start=%d offset=%v", start, off)
		}
	}
}

func TestCommitResetsDragState(t *testing.T) {
	t.Parallel()

	for _, off := range []float64{-500, -90, -10, 0, 10, 90, 500} {
		c := New(fiveCards(), DefaultGeometry())
		c.SetFocus(2)
		drag(c, 200, 200+off)
		require.False(t, c.Dragging())
		require.Zero(t, c.Offset())
	}
}

func TestScenarioSnapBack(t *testing.T) {
	t.Parallel()

	c := New(fiveCards(), DefaultGeometry())
	c.Begin(100)
	c.Continue(40)
	require.Equal(t, -60.0, c.Offset())
	c.Commit()
	require.Equal(t, 0, c.Focus())
}

func TestScenarioAdvance(t *testing.T) {
	t.Parallel()

	c := New(fiveCards(), DefaultGeometry())
	c.Begin(100)
	c.Continue(-50)
	require.Equal(t, -150.0, c.Offset())
	c.Commit()
	require.Equal(t, 1, c.Focus())
}

func TestScenarioNoOverflowAtEnd(t *testing.T) {
	t.Parallel()

	c := New(fiveCards(), DefaultGeometry())
	c.SetFocus(4)
	drag(c, 100, -400)
	require.Equal(t, 4, c.Focus())
}

func TestOutOfOrderOperationsAreNoOps(t *testing.T) {
	t.Parallel()

	c := New(fiveCards(), DefaultGeometry())
	c.Continue(300)
	require.Zero(t, c.Offset())
	c.Commit()
	require.Equal(t, 0, c.Focus())
	require.False(t, c.Dragging())
}

func TestDuplicateBeginRestartsDrag(t *testing.T) {
	t.Parallel()

	c := New(fiveCards(), DefaultGeometry())
	c.Begin(100)
	c.Continue(-200)
	c.Begin(50)
	require.True(t, c.Dragging())
	require.Zero(t, c.Offset())
	c.Continue(20)
	require.Equal(t, -30.0, c.Offset())
	c.Commit()
	require.Equal(t, 0, c.Focus())
}

func TestOverscrollIsUnbounded(t *testing.T) {
	t.Parallel()

	c := New(fiveCards(), DefaultGeometry())
	c.Begin(0)
	c.Continue(5000)
	require.Equal(t, 5000.0, c.Offset())
}

func TestEmptyListNeverPanics(t *testing.T) {
	t.Parallel()

	c := New(nil, DefaultGeometry())
	require.NotPanics(t, func() {
		c.SetFocus(3)
		c.Next()
		c.Prev()
		drag(c, 0, -1000)
		drag(c, 0, 1000)
		c.Tap(0)
	})
	require.Equal(t, 0, c.Focus())
	require.Empty(t, c.Transforms())
	require.Empty(t, c.Indicators())
}

func TestShrinkingItemsReclampsFocus(t *testing.T) {
	t.Parallel()

	c := New(fiveCards(), DefaultGeometry())
	c.SetFocus(4)
	c.SetItems(fiveCards()[:2])
	require.Equal(t, 1, c.Focus())
	c.SetItems(nil)
	require.Equal(t, 0, c.Focus())
}

func TestResizeDuringDragKeepsOrigin(t *testing.T) {
	t.Parallel()

	c := New(fiveCards(), DefaultGeometry())
	c.SetFocus(4)
	c.Begin(300)
	c.SetItems(fiveCards()[:3])
	require.Equal(t, 2, c.Focus())
	c.Continue(100)
	require.Equal(t, -200.0, c.Offset())
	c.Commit()
	require.Equal(t, 2, c.Focus())

	c.Begin(0)
	c.Continue(200)
	c.Commit()
	require.Equal(t, 1, c.Focus())
}

func TestTapFiresWithoutMovement(t *testing.T) {
	t.Parallel()

	var got []int
	c := New(fiveCards(), DefaultGeometry(), WithOnSelect(func(i int) { got = append(got, i) }))
	c.Begin(120)
	c.Commit()
	require.True(t, c.Tap(0))
	require.Equal(t, []int{0}, got)
}

func TestTapFiresWithinEpsilon(t *testing.T) {
	t.Parallel()

	var got []int
	g := DefaultGeometry()
	c := New(fiveCards(), g, WithOnSelect(func(i int) { got = append(got, i) }))
	drag(c, 120, 120+g.TapEpsilon)
	require.True(t, c.Tap(2))
	require.Equal(t, []int{2}, got)
}

func TestTapSuppressedAfterDrag(t *testing.T) {
	t.Parallel()

	var got []int
	c := New(fiveCards(), DefaultGeometry(), WithOnSelect(func(i int) { got = append(got, i) }))

	drag(c, 100, 60)
	require.False(t, c.Tap(0))

	// Out and back again still counts as a drag.
	c.Begin(100)
	c.Continue(30)
	c.Continue(100)
	c.Commit()
	require.False(t, c.Tap(0))

	require.Empty(t, got)

	// The suppression covers only the click that follows the drag.
	require.True(t, c.Tap(0))
	require.Equal(t, []int{0}, got)
}

func TestTapSuppressedWhileDragging(t *testing.T) {
	t.Parallel()

	fired := false
	c := New(fiveCards(), DefaultGeometry(), WithOnSelect(func(int) { fired = true }))
	c.Begin(0)
	require.False(t, c.Tap(0))
	require.False(t, fired)
}

func TestTapOutOfRangeIgnored(t *testing.T) {
	t.Parallel()

	fired := false
	c := New(fiveCards(), DefaultGeometry(), WithOnSelect(func(int) { fired = true }))
	require.False(t, c.Tap(7))
	require.False(t, c.Tap(-1))
	require.False(t, fired)
}

func TestTransformsFollowDrag(t *testing.T) {
	t.Parallel()

	g := DefaultGeometry()
	c := New(fiveCards(), g)
	c.SetFocus(1)
	c.Begin(0)
	c.Continue(-30)

	frame := c.Transforms()
	require.Len(t, frame, 5)
	for i, tr := range frame {
		require.Equal(t, g.Layout(i, 1, -30), tr)
	}
	require.Equal(t, 10, frame[1].StackOrder)
}

func TestIndicatorsTrackFocus(t *testing.T) {
	t.Parallel()

	c := New(fiveCards(), DefaultGeometry())
	c.SetFocus(3)
	ind := c.Indicators()
	require.Len(t, ind, 5)
	for i, dot := range ind {
		require.Equal(t, i, dot.Index)
		require.Equal(t, i == 3, dot.Active)
	}
}
