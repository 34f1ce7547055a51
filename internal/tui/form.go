// Package tui renders the interactive reassignment form.
package tui

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"dockassign/internal/catalog"
	"dockassign/internal/output"
	"dockassign/internal/reassign"
)

type field int

const (
	fieldDock field = iota
	fieldTracker
	fieldSubmit
	fieldCount
)

// submitResultMsg carries the result of a form submission back to Update.
type submitResultMsg struct {
	out reassign.Outcome
	err error
}

// Model is the bubbletea model of the reassignment form.
// Option index 0 of each select means "nothing selected".
type Model struct {
	ctx  context.Context
	form *reassign.Form
	cat  catalog.Catalog
	keys keyMap

	focus      field
	dockIdx    int
	trackerIdx int

	submitting bool
	spinner    spinner.Model

	msgKind output.Kind
	msg     string
	note    string
}

// New creates a form model bound to form, with options from cat.
func New(ctx context.Context, form *reassign.Form, cat catalog.Catalog) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = mutedStyle

	return Model{
		ctx:     ctx,
		form:    form,
		cat:     cat,
		keys:    defaultKeyMap(),
		spinner: s,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

// Disabled reports whether the submit action is inert.
func (m Model) Disabled() bool {
	return m.submitting || m.form.Busy()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case submitResultMsg:
		m.submitting = false
		m.msgKind, m.msg = output.Message(msg.out, msg.err)
		if msg.err == nil {
			m.note = output.AmbiguityNote(msg.out)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.submitting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Next):
		m.focus = (m.focus + 1) % fieldCount

	case key.Matches(msg, m.keys.Prev):
		m.focus = (m.focus + fieldCount - 1) % fieldCount

	case key.Matches(msg, m.keys.Up):
		m.move(-1)

	case key.Matches(msg, m.keys.Down):
		m.move(1)

	case key.Matches(msg, m.keys.Submit):
		if m.Disabled() {
			return m, nil
		}
		m.msg, m.note = "", ""
		if _, err := reassign.Validate(m.form.Dock(), m.form.Tracker()); err != nil {
			m.msgKind, m.msg = output.Message(reassign.Outcome{}, err)
			return m, nil
		}
		m.submitting = true
		return m, tea.Batch(m.spinner.Tick, m.submit())
	}

	return m, nil
}

// move shifts the focused select by delta, wrapping around, and updates the form.
func (m *Model) move(delta int) {
	switch m.focus {
	case fieldDock:
		m.dockIdx = wrap(m.dockIdx+delta, len(m.cat.Docks)+1)
		m.form.SetDock(m.selectedDock())
	case fieldTracker:
		m.trackerIdx = wrap(m.trackerIdx+delta, len(m.cat.Trackers)+1)
		m.form.SetTracker(m.selectedTracker().ID)
	}
}

func wrap(i, n int) int {
	return ((i % n) + n) % n
}

func (m Model) selectedDock() string {
	if m.dockIdx == 0 {
		return ""
	}
	return m.cat.Docks[m.dockIdx-1]
}

func (m Model) selectedTracker() catalog.Tracker {
	if m.trackerIdx == 0 {
		return catalog.Tracker{}
	}
	return m.cat.Trackers[m.trackerIdx-1]
}

func (m Model) submit() tea.Cmd {
	ctx, form := m.ctx, m.form
	return func() tea.Msg {
		out, err := form.Submit(ctx)
		return submitResultMsg{out: out, err: err}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Reassign Task to Vehicle"))
	b.WriteString("\n")

	b.WriteString(m.renderSelect(fieldDock, "Dock", m.selectedDock(), "Select a Dock"))
	b.WriteString("\n")
	b.WriteString(m.renderSelect(fieldTracker, "Tracker", m.selectedTracker().Label(), "Select a Tracker"))
	b.WriteString("\n\n")

	b.WriteString(m.renderButton())
	b.WriteString("\n")

	if m.msg != "" {
		b.WriteString(m.renderMessage())
		b.WriteString("\n")
	}
	if m.note != "" {
		b.WriteString(mutedStyle.Render("note: " + m.note))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderSelect(f field, label, value, placeholder string) string {
	ls := labelStyle
	cursor := "  "
	if m.focus == f {
		ls = focusedLabelStyle
		cursor = "> "
	}

	v := valueStyle.Render(value)
	if value == "" {
		v = placeholderStyle.Render(placeholder)
	}
	return cursor + ls.Render(label) + "‹ " + v + " ›"
}

func (m Model) renderButton() string {
	if m.Disabled() {
		return disabledButtonStyle.Render(m.spinner.View() + " Processing...")
	}
	if m.focus == fieldSubmit {
		return focusedButtonStyle.Render("Validate")
	}
	return buttonStyle.Render("Validate")
}

func (m Model) renderMessage() string {
	switch m.msgKind {
	case output.KindSuccess:
		return successStyle.Render(m.msg)
	case output.KindWarning:
		return warningStyle.Render(m.msg)
	default:
		return errorStyle.Render(m.msg)
	}
}

func (m Model) renderHelp() string {
	parts := make([]string, 0, len(m.keys.bindings()))
	for _, kb := range m.keys.bindings() {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return mutedStyle.Render(strings.Join(parts, "  "))
}

// Run starts the interactive form and blocks until the operator quits.
func Run(ctx context.Context, form *reassign.Form, cat catalog.Catalog, in io.Reader, out io.Writer) error {
	p := tea.NewProgram(New(ctx, form, cat),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
	)
	_, err := p.Run()
	return err
}
