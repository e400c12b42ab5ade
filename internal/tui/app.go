// Package tui is the terminal front-end: a home screen, the detail screen with
// the swipeable card carousel, and the admin form that edits the stored document.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/jask/showcase/internal/carousel"
	"github.com/jask/showcase/internal/config"
	"github.com/jask/showcase/internal/content"
	"github.com/jask/showcase/internal/gesture"
)

const (
	appName      = "Showcase"
	defaultWidth = 80
)

// detailStageTop is the first row of the card stage on the detail screen.
const detailStageTop = 5

type screen string

const (
	screenHome   screen = "home"
	screenDetail screen = "detail"
	screenAdmin  screen = "admin"
)

// Options wires the front-end to its content source and tuning.
type Options struct {
	Source     content.Source
	Geometry   carousel.Geometry
	Transition time.Duration
	UI         config.UIConfig
	Log        *zap.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// App is the bubbletea model for every screen.
type App struct {
	ctx        context.Context
	src        content.Source
	log        *zap.Logger
	ui         config.UIConfig
	transition time.Duration
	now        func() time.Time

	screen  screen
	loading bool
	saving  bool
	doc     content.SiteContent
	width   int
	height  int
	status  string
	failed  bool

	car      *carousel.Carousel
	pointer  *gesture.PointerAdapter
	anim     *carousel.Transition
	frame    []carousel.Transform
	ticking  bool
	pressed  int
	selected int
	preview  int

	admin   adminForm
	keys    keyMap
	help    help.Model
	spinner spinner.Model
}

type contentLoadedMsg struct {
	doc content.SiteContent
	err error
}

type contentSavedMsg struct {
	doc content.SiteContent
	err error
}

type frameMsg time.Time

// New builds the model. Content is fetched by Init.
func New(ctx context.Context, opts Options) *App {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.UI.FPS <= 0 {
		opts.UI.FPS = 60
	}
	a := &App{
		ctx:        ctx,
		src:        opts.Source,
		log:        opts.Log,
		ui:         opts.UI,
		transition: opts.Transition,
		now:        opts.Clock,
		screen:     screenHome,
		loading:    true,
		width:      defaultWidth,
		pressed:    -1,
		selected:   -1,
		preview:    -1,
		admin:      newAdminForm(),
		keys:       newKeyMap(),
		help:       help.New(),
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	a.car = carousel.New(nil, opts.Geometry, carousel.WithOnSelect(func(i int) { a.selected = i }))
	a.pointer = gesture.NewPointerAdapter(a.car)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadCmd(), a.spinner.Tick)
}

func (a *App) loadCmd() tea.Cmd {
	return func() tea.Msg {
		doc, err := a.src.Load(a.ctx)
		return contentLoadedMsg{doc: doc, err: err}
	}
}

func (a *App) saveCmd(doc content.SiteContent) tea.Cmd {
	return func() tea.Msg {
		return contentSavedMsg{doc: doc, err: a.src.Save(a.ctx, doc)}
	}
}

func (a *App) tick() tea.Cmd {
	if a.ticking {
		return nil
	}
	a.ticking = true
	return tea.Tick(time.Second/time.Duration(a.ui.FPS), func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = m.Width, m.Height
		a.help.Width = m.Width
		a.admin.resize(m.Width)
	case spinner.TickMsg:
		if !a.loading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(m)
		return a, cmd
	case contentLoadedMsg:
		a.loading = false
		doc := m.doc
		if m.err != nil {
			a.log.Warn("load content", zap.Error(m.err))
			a.setError("could not load content, showing defaults: " + m.err.Error())
			doc = content.Default()
		}
		a.setDocument(doc)
		a.admin.load(doc)
	case contentSavedMsg:
		a.saving = false
		if m.err != nil {
			a.log.Error("save content", zap.Error(m.err))
			a.setError("save failed: " + m.err.Error())
			return a, nil
		}
		a.log.Info("content saved", zap.Int("cards", len(m.doc.Detail.Cards)))
		a.setDocument(m.doc)
		a.setStatus("saved, visitors see the new content on their next load")
	case frameMsg:
		a.ticking = false
		if a.anim == nil {
			return a, nil
		}
		frame, done := a.anim.At(time.Time(m))
		a.frame = frame
		if done {
			a.anim = nil
			return a, nil
		}
		return a, a.tick()
	case tea.KeyMsg:
		if m.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.loading {
			if key.Matches(m, a.keys.Quit) {
				return a, tea.Quit
			}
			return a, nil
		}
		switch a.screen {
		case screenDetail:
			return a, a.handleDetailKey(m)
		case screenAdmin:
			return a, a.handleAdminKey(m)
		default:
			return a, a.handleHomeKey(m)
		}
	case tea.MouseMsg:
		if a.loading {
			return a, nil
		}
		switch a.screen {
		case screenDetail:
			return a, a.handleDetailMouse(m)
		case screenHome:
			if m.Action == tea.MouseActionPress && m.Button == tea.MouseButtonLeft && m.Y > 0 {
				a.openDetail()
			}
		}
	}
	return a, nil
}

func (a *App) setDocument(doc content.SiteContent) {
	a.doc = doc
	a.car.SetItems(doc.Detail.Cards)
	a.anim = nil
	a.frame = a.car.Transforms()
	if a.preview >= a.car.Len() {
		a.preview = -1
	}
}

func (a *App) setStatus(s string) {
	a.status, a.failed = s, false
}

func (a *App) setError(s string) {
	a.status, a.failed = s, true
}

func (a *App) metrics() metrics {
	g := a.car.Geometry()
	return metrics{
		pxPerCol:   a.ui.PxPerColumn,
		pxPerRow:   a.ui.PxPerRow,
		cardWidth:  g.CardWidth,
		cardHeight: a.ui.CardHeight,
	}
}

func (a *App) openDetail() {
	a.screen = screenDetail
	a.preview = -1
	a.frame = a.car.Transforms()
}

// animate eases from the frame currently drawn to the settled layout.
func (a *App) animate() tea.Cmd {
	to := a.car.Transforms()
	if a.transition <= 0 || len(a.frame) != len(to) {
		a.anim = nil
		a.frame = to
		return nil
	}
	a.anim = carousel.NewTransition(a.frame, to, a.now(), a.transition, carousel.SwipeEasing())
	return a.tick()
}

func (a *App) focusTo(i int) tea.Cmd {
	a.car.SetFocus(i)
	return a.animate()
}

// ---------------------------------------------------------------------------
// Home
// ---------------------------------------------------------------------------

func (a *App) handleHomeKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Quit):
		return tea.Quit
	case key.Matches(m, a.keys.Enter):
		a.openDetail()
	case key.Matches(m, a.keys.Admin):
		a.openAdmin()
		return a.admin.focusCmd()
	}
	return nil
}

func (a *App) renderHome() string {
	w := a.width
	cover := coverStyle.Width(min(48, max(20, w-8))).Render(
		"cover image\n" + truncate(a.doc.Home.CoverImage, max(10, min(48, w-8)-6)))
	body := []string{
		"",
		center(w, titleStyle.Render(a.doc.Home.Title)),
		center(w, subtitleStyle.Render(a.doc.Home.Subtitle)),
		"",
		lipgloss.PlaceHorizontal(w, lipgloss.Center, cover),
		"",
		center(w, statusStyle.Render("click the image to see more →")),
	}
	return strings.Join(body, "\n")
}

// ---------------------------------------------------------------------------
// Detail
// ---------------------------------------------------------------------------

func (a *App) indicatorRow() int {
	return detailStageTop + a.metrics().rows() + 1
}

func (a *App) handleDetailKey(m tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(m, a.keys.Quit):
		return tea.Quit
	case key.Matches(m, a.keys.Back):
		if a.preview >= 0 {
			a.preview = -1
			return nil
		}
		a.screen = screenHome
	case key.Matches(m, a.keys.Admin):
		a.openAdmin()
		return a.admin.focusCmd()
	case key.Matches(m, a.keys.Prev):
		return a.focusTo(a.car.Focus() - 1)
	case key.Matches(m, a.keys.Next):
		return a.focusTo(a.car.Focus() + 1)
	case key.Matches(m, a.keys.Jump):
		return a.focusTo(int(m.Runes[0] - '1'))
	case key.Matches(m, a.keys.Enter):
		if a.car.Len() > 0 {
			a.preview = a.car.Focus()
		}
	}
	return nil
}

func (a *App) handleDetailMouse(m tea.MouseMsg) tea.Cmd {
	met := a.metrics()
	stageY := m.Y - detailStageTop
	inStage := stageY >= 0 && stageY < met.rows()
	ev := gesture.PointerEvent{X: met.px(m.X), Y: float64(m.Y) * met.pxPerRow}

	switch m.Action {
	case tea.MouseActionPress:
		if m.Button != tea.MouseButtonLeft {
			return nil
		}
		if m.Y == 0 && m.X < lipgloss.Width("‹ back")+2 {
			a.screen = screenHome
			return nil
		}
		if m.Y == a.indicatorRow() {
			for _, h := range indicatorLayout(a.car.Indicators(), a.width) {
				if m.X >= h.start && m.X < h.end {
					return a.focusTo(h.index)
				}
			}
			return nil
		}
		if !inStage {
			return nil
		}
		a.pressed = hit(met.place(a.frame, a.width), m.X, stageY)
		a.anim = nil
		ev.Action = gesture.PointerDown
		a.pointer.Handle(ev)
		a.frame = a.car.Transforms()
	case tea.MouseActionMotion:
		if !a.pointer.Pressed() {
			return nil
		}
		if !inStage || m.X < 0 || m.X >= a.width {
			ev.Action = gesture.PointerLeave
			a.pointer.Handle(ev)
			a.pressed = -1
			return a.settle()
		}
		ev.Action = gesture.PointerMove
		a.pointer.Handle(ev)
		a.frame = a.car.Transforms()
	case tea.MouseActionRelease:
		if !a.pointer.Pressed() {
			return nil
		}
		ev.Action = gesture.PointerUp
		a.pointer.Handle(ev)
		cmd := a.settle()
		if a.pressed >= 0 {
			a.selected = -1
			if a.car.Tap(a.pressed) {
				cmd = a.selectCard(a.selected)
			}
		}
		a.pressed = -1
		return cmd
	}
	return nil
}

// settle runs after a gesture ends and eases the cards into place.
func (a *App) settle() tea.Cmd {
	r := a.car.LastRelease()
	a.log.Debug("gesture committed",
		zap.Int("from", r.From),
		zap.Int("to", r.To),
		zap.Float64("offset", r.Offset),
		zap.Float64("peak", r.Peak))
	return a.animate()
}

// selectCard handles a resolved tap: a side card comes to the centre, the
// centred card opens its preview.
func (a *App) selectCard(i int) tea.Cmd {
	if i < 0 {
		return nil
	}
	if i != a.car.Focus() {
		return a.focusTo(i)
	}
	a.preview = i
	return nil
}

func (a *App) renderDetail() string {
	w := a.width
	met := a.metrics()
	lines := []string{
		"",
		center(w, titleStyle.Render(a.doc.Detail.Title)),
		center(w, subtitleStyle.Render(a.doc.Detail.Subtitle)),
		"",
	}
	if a.car.Len() == 0 {
		blank := make([]string, met.rows())
		blank[len(blank)/2] = center(w, statusStyle.Render("no cards yet"))
		lines = append(lines, blank...)
	} else {
		lines = append(lines, met.renderStage(a.frame, a.car.Items(), a.car.Focus(), w))
	}
	lines = append(lines, "", renderIndicators(a.car.Indicators(), w), "")
	if a.preview >= 0 && a.preview < a.car.Len() {
		card := previewStyle.Render(fmt.Sprintf("card %d/%d\n%s", a.preview+1, a.car.Len(), a.car.Items()[a.preview]))
		lines = append(lines, lipgloss.PlaceHorizontal(w, lipgloss.Center, card), "")
	}
	qr := qrStyle.Render("QR  " + truncate(a.doc.Detail.QRImage, max(10, w-12)))
	lines = append(lines,
		lipgloss.PlaceHorizontal(w, lipgloss.Center, qr),
		center(w, subtitleStyle.Render(a.doc.Detail.QRText)))
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Frame
// ---------------------------------------------------------------------------

func (a *App) View() string {
	if a.loading {
		return "\n\n" + center(a.width, a.spinner.View()+" loading…")
	}
	var body string
	var bindings []key.Binding
	switch a.screen {
	case screenDetail:
		body = a.renderDetail()
		bindings = a.keys.detailHelp()
	case screenAdmin:
		body = a.renderAdmin()
		bindings = a.keys.adminHelp(a.admin.inCards())
	default:
		body = a.renderHome()
		bindings = a.keys.homeHelp()
	}
	parts := []string{a.renderHeader(), body, ""}
	if a.status != "" {
		style := statusStyle
		if a.failed {
			style = statusErrStyle
		} else if a.screen == screenAdmin {
			style = statusOKStyle
		}
		parts = append(parts, style.Render(a.status))
	}
	parts = append(parts, footerStyle.Width(a.width).Render(a.help.ShortHelpView(bindings)))
	return strings.Join(parts, "\n")
}

func (a *App) renderHeader() string {
	label := headerAppStyle.Render(appName)
	switch a.screen {
	case screenDetail:
		label = "‹ back  " + label + " · detail"
	case screenAdmin:
		label = "‹ home  " + label + " · admin"
	}
	return headerBarStyle.Width(a.width).Render(label)
}

func center(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}
