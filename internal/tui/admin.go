package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/showcase/internal/content"
)

type adminField struct {
	path  string
	label string
}

var adminFields = []adminField{
	{"home.title", "Home title"},
	{"home.subtitle", "Home subtitle"},
	{"home.coverImage", "Cover image URL"},
	{"detail.title", "Detail title"},
	{"detail.subtitle", "Detail subtitle"},
	{"detail.qrImage", "QR image URL"},
	{"detail.qrText", "QR caption"},
}

// adminForm edits a draft of the document. Focus walks the text inputs, then
// the new-card input, then the card list.
type adminForm struct {
	inputs  []textinput.Model
	newCard textinput.Model
	draft   content.SiteContent
	focus   int
	cursor  int
}

func newAdminForm() adminForm {
	f := adminForm{inputs: make([]textinput.Model, len(adminFields))}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.CharLimit = 2048
		in.Width = 60
		f.inputs[i] = in
	}
	f.newCard = textinput.New()
	f.newCard.Prompt = "+ "
	f.newCard.Placeholder = "https://… new card image URL"
	f.newCard.CharLimit = 2048
	f.newCard.Width = 60
	return f
}

func (f *adminForm) newCardIndex() int { return len(f.inputs) }
func (f *adminForm) cardsIndex() int   { return len(f.inputs) + 1 }
func (f *adminForm) inCards() bool     { return f.focus == f.cardsIndex() }

func (f *adminForm) resize(width int) {
	w := max(20, width-24)
	for i := range f.inputs {
		f.inputs[i].Width = w
	}
	f.newCard.Width = w
}

// load replaces the draft with doc, discarding unsaved edits.
func (f *adminForm) load(doc content.SiteContent) {
	f.draft = doc.Clone()
	for i, fld := range adminFields {
		v, _ := doc.Field(fld.path)
		f.inputs[i].SetValue(v)
	}
	f.newCard.SetValue("")
	f.cursor = min(f.cursor, max(0, len(f.draft.Detail.Cards)-1))
}

// document assembles the draft and the text inputs into a full document.
func (f *adminForm) document() content.SiteContent {
	doc := f.draft.Clone()
	for i, fld := range adminFields {
		_ = doc.SetField(fld.path, strings.TrimSpace(f.inputs[i].Value()))
	}
	return doc
}

func (f *adminForm) setFocus(i int) tea.Cmd {
	n := f.cardsIndex() + 1
	f.focus = ((i % n) + n) % n
	return f.focusCmd()
}

func (f *adminForm) focusCmd() tea.Cmd {
	var cmd tea.Cmd
	for i := range f.inputs {
		if i == f.focus {
			cmd = f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
	if f.focus == f.newCardIndex() {
		cmd = f.newCard.Focus()
	} else {
		f.newCard.Blur()
	}
	return cmd
}

func (a *App) openAdmin() {
	a.screen = screenAdmin
	a.status = ""
	a.admin.load(a.doc)
	a.admin.focus = 0
}

func (a *App) handleAdminKey(m tea.KeyMsg) tea.Cmd {
	f := &a.admin
	switch {
	case key.Matches(m, a.keys.Save):
		return a.saveDraft()
	case key.Matches(m, a.keys.Preview):
		a.openDetail()
		return nil
	case m.String() == "esc":
		a.screen = screenHome
		a.status = ""
		return nil
	case m.String() == "tab":
		return f.setFocus(f.focus + 1)
	case m.String() == "shift+tab":
		return f.setFocus(f.focus - 1)
	}

	if f.inCards() {
		cards := f.draft.Detail.Cards
		switch {
		case key.Matches(m, a.keys.Up):
			if f.cursor == 0 {
				return f.setFocus(f.newCardIndex())
			}
			f.cursor--
		case key.Matches(m, a.keys.Down):
			if f.cursor < len(cards)-1 {
				f.cursor++
			}
		case key.Matches(m, a.keys.MoveUp):
			if f.cursor > 0 {
				f.draft.MoveCard(f.cursor, -1)
				f.cursor--
			}
		case key.Matches(m, a.keys.MoveDn):
			if f.cursor < len(cards)-1 {
				f.draft.MoveCard(f.cursor, 1)
				f.cursor++
			}
		case key.Matches(m, a.keys.Remove):
			f.draft.RemoveCard(f.cursor)
			f.cursor = min(f.cursor, max(0, len(f.draft.Detail.Cards)-1))
		}
		return nil
	}

	switch m.String() {
	case "up":
		return f.setFocus(f.focus - 1)
	case "down":
		return f.setFocus(f.focus + 1)
	case "enter":
		if f.focus == f.newCardIndex() {
			if err := f.draft.AddCard(f.newCard.Value()); err != nil {
				a.setError("enter an image URL first")
				return nil
			}
			f.newCard.SetValue("")
			f.cursor = len(f.draft.Detail.Cards) - 1
			a.setStatus(fmt.Sprintf("card %d added, save to publish", len(f.draft.Detail.Cards)))
			return nil
		}
		return f.setFocus(f.focus + 1)
	}

	var cmd tea.Cmd
	if f.focus == f.newCardIndex() {
		f.newCard, cmd = f.newCard.Update(m)
	} else {
		f.inputs[f.focus], cmd = f.inputs[f.focus].Update(m)
	}
	return cmd
}

func (a *App) saveDraft() tea.Cmd {
	if a.saving {
		return nil
	}
	doc := a.admin.document()
	if err := doc.Validate(); err != nil {
		a.setError(err.Error())
		return nil
	}
	a.saving = true
	a.setStatus("saving…")
	return a.saveCmd(doc)
}

func (a *App) renderAdmin() string {
	f := &a.admin
	var sb strings.Builder
	label := func(i int, s string) string {
		s = fmt.Sprintf("%-16s", s)
		if f.focus == i {
			return labelFocusStyle.Render(s)
		}
		return labelStyle.Render(s)
	}

	sb.WriteString("\n" + sectionStyle.Render("Home") + "\n")
	for i, fld := range adminFields {
		if fld.path == "detail.title" {
			sb.WriteString("\n" + sectionStyle.Render("Detail") + "\n")
		}
		sb.WriteString("  " + label(i, fld.label) + " " + f.inputs[i].View() + "\n")
	}

	sb.WriteString("\n" + sectionStyle.Render(fmt.Sprintf("Cards (%d)", len(f.draft.Detail.Cards))) + "\n")
	sb.WriteString("  " + label(f.newCardIndex(), "Add card") + " " + f.newCard.View() + "\n")
	if len(f.draft.Detail.Cards) == 0 {
		sb.WriteString("  " + statusStyle.Render("no cards") + "\n")
	}
	for i, card := range f.draft.Detail.Cards {
		line := fmt.Sprintf("%2d. %s", i+1, truncate(card, max(20, a.width-10)))
		switch {
		case f.inCards() && i == f.cursor:
			sb.WriteString(cursorStyle.Render("> ") + cardListSelStyle.Render(line) + "\n")
		default:
			sb.WriteString("  " + cardListStyle.Render(line) + "\n")
		}
	}
	return sb.String()
}
