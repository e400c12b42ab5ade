package tui

import (
	"fmt"
	"math"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jask/showcase/internal/carousel"
)

// metrics converts pixel geometry into terminal cells.
type metrics struct {
	pxPerCol   float64
	pxPerRow   float64
	cardWidth  float64
	cardHeight float64
}

// rows is the stage height: a full-size card plus nothing else.
func (m metrics) rows() int {
	return max(3, int(math.Round(m.cardHeight/m.pxPerRow)))
}

// col converts a surface pixel position to a column and back.
func (m metrics) col(px float64) float64 { return px / m.pxPerCol }
func (m metrics) px(col int) float64     { return float64(col) * m.pxPerCol }

// box is one card placed on the character grid.
type box struct {
	index  int
	left   int
	top    int
	width  int
	height int
	order  int
	fill   lipgloss.Color
}

func (b box) contains(x, y int) bool {
	return x >= b.left && x < b.left+b.width && y >= b.top && y < b.top+b.height
}

// place lays every transform out on a stage of the given width. Boxes come back
// in paint order: lower stack order first.
func (m metrics) place(frame []carousel.Transform, width int) []box {
	rows := m.rows()
	centre := float64(width) / 2
	boxes := make([]box, 0, len(frame))
	for i, t := range frame {
		w := max(3, int(math.Round(m.col(m.cardWidth*t.Scale))))
		h := max(3, int(math.Round(m.cardHeight*t.Scale/m.pxPerRow)))
		mid := centre + m.col(t.TranslateX)
		boxes = append(boxes, box{
			index:  i,
			left:   int(math.Round(mid - float64(w)/2)),
			top:    (rows - h) / 2,
			width:  w,
			height: h,
			order:  t.StackOrder,
			fill:   shade(t.Opacity * t.Brightness),
		})
	}
	sort.SliceStable(boxes, func(a, b int) bool { return boxes[a].order < boxes[b].order })
	return boxes
}

// hit returns the topmost card under the cell, or -1.
func hit(boxes []box, x, y int) int {
	for i := len(boxes) - 1; i >= 0; i-- {
		if boxes[i].contains(x, y) {
			return boxes[i].index
		}
	}
	return -1
}

type cell struct {
	ch rune
	fg lipgloss.Color
	bg lipgloss.Color
}

type canvas struct {
	width int
	cells [][]cell
}

func newCanvas(width, height int) *canvas {
	c := &canvas{width: width, cells: make([][]cell, height)}
	for y := range c.cells {
		c.cells[y] = make([]cell, width)
	}
	return c
}

func (c *canvas) set(x, y int, ch rune, fg, bg lipgloss.Color) {
	if y < 0 || y >= len(c.cells) || x < 0 || x >= c.width {
		return
	}
	c.cells[y][x] = cell{ch: ch, fg: fg, bg: bg}
}

func (c *canvas) text(x, y int, s string, fg, bg lipgloss.Color) {
	for i, r := range []rune(s) {
		c.set(x+i, y, r, fg, bg)
	}
}

// paint draws one card: a rounded frame, a shaded body and a two line label.
func (c *canvas) paint(b box, label, caption string, focused bool) {
	border := colorSurface2
	if focused {
		border = colorAccent
	}
	ink := colorBase
	right, bottom := b.left+b.width-1, b.top+b.height-1
	for y := b.top; y <= bottom; y++ {
		for x := b.left; x <= right; x++ {
			ch := ' '
			fg := ink
			switch {
			case y == b.top && x == b.left:
				ch, fg = '╭', border
			case y == b.top && x == right:
				ch, fg = '╮', border
			case y == bottom && x == b.left:
				ch, fg = '╰', border
			case y == bottom && x == right:
				ch, fg = '╯', border
			case y == b.top || y == bottom:
				ch, fg = '─', border
			case x == b.left || x == right:
				ch, fg = '│', border
			}
			c.set(x, y, ch, fg, b.fill)
		}
	}
	inner := b.width - 2
	if inner <= 0 {
		return
	}
	mid := b.top + b.height/2
	for i, s := range []string{label, caption} {
		s = truncate(s, inner)
		x := b.left + 1 + (inner-len([]rune(s)))/2
		c.text(x, mid-1+i, s, ink, b.fill)
	}
}

func (c *canvas) lines() []string {
	out := make([]string, len(c.cells))
	for y, row := range c.cells {
		var sb strings.Builder
		for x := 0; x < len(row); {
			start := row[x]
			end := x
			var run strings.Builder
			for end < len(row) && row[end].fg == start.fg && row[end].bg == start.bg {
				ch := row[end].ch
				if ch == 0 {
					ch = ' '
				}
				run.WriteRune(ch)
				end++
			}
			if start.ch == 0 && start.bg == "" {
				sb.WriteString(run.String())
			} else {
				sb.WriteString(lipgloss.NewStyle().Foreground(start.fg).Background(start.bg).Render(run.String()))
			}
			x = end
		}
		out[y] = sb.String()
	}
	return out
}

// renderStage draws the frame centred in width columns.
func (m metrics) renderStage(frame []carousel.Transform, items []string, focus, width int) string {
	cv := newCanvas(width, m.rows())
	for _, b := range m.place(frame, width) {
		if b.index >= len(items) {
			continue
		}
		label := fmt.Sprintf("%d/%d", b.index+1, len(items))
		cv.paint(b, label, caption(items[b.index]), b.index == focus)
	}
	return strings.Join(cv.lines(), "\n")
}

// caption shortens an image URL to host and last path element.
func caption(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	base := path.Base(u.Path)
	if base == "/" || base == "." {
		return u.Host
	}
	return u.Host + "/…/" + base
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 0 {
		return ""
	}
	if n == 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// indicatorHit is the column span of one indicator.
type indicatorHit struct {
	index      int
	start, end int
}

const (
	dotActive   = "━━━"
	dotInactive = "•"
)

// indicatorLayout centres the strip in width and reports where each dot lands.
func indicatorLayout(inds []carousel.Indicator, width int) []indicatorHit {
	total := 0
	for i, ind := range inds {
		if i > 0 {
			total++
		}
		total += dotWidth(ind)
	}
	x := max(0, (width-total)/2)
	hits := make([]indicatorHit, 0, len(inds))
	for _, ind := range inds {
		w := dotWidth(ind)
		hits = append(hits, indicatorHit{index: ind.Index, start: x, end: x + w})
		x += w + 1
	}
	return hits
}

func dotWidth(ind carousel.Indicator) int {
	if ind.Active {
		return len([]rune(dotActive))
	}
	return len([]rune(dotInactive))
}

func renderIndicators(inds []carousel.Indicator, width int) string {
	hits := indicatorLayout(inds, width)
	if len(hits) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", hits[0].start))
	for i, ind := range inds {
		if i > 0 {
			sb.WriteByte(' ')
		}
		if ind.Active {
			sb.WriteString(dotActiveStyle.Render(dotActive))
		} else {
			sb.WriteString(dotInactiveStyle.Render(dotInactive))
		}
	}
	return sb.String()
}
