// Package dialog is the terminal host for an operator: a file path field,
// a box of checkboxes and a confirm button.
//
// Checkboxes that belong to an exclusive toggle group are flipped
// optimistically, the whole vector is handed to the group, and the box is
// redrawn from whatever the group settled on.
package dialog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/mpkio/internal/logging"
	"github.com/abelbrown/mpkio/internal/operator"
	"github.com/abelbrown/mpkio/internal/otel"
	"github.com/abelbrown/mpkio/internal/toggle"
)

// Model is the dialog. Focus 0 is the path field, 1..len(rows) are the
// checkboxes, and len(rows)+1 is the confirm button.
type Model struct {
	op     operator.Operator
	rows   []operator.Row
	input  textinput.Model
	focus  int
	events *otel.Logger
	ring   *otel.RingBuffer

	width     int
	height    int
	showDebug bool
	confirmed bool
	cancelled bool
	err       error
}

// Option configures a Model.
type Option func(*Model)

// WithEvents records toggle outcomes and key presses to l.
func WithEvents(l *otel.Logger) Option {
	return func(m *Model) { m.events = l }
}

// WithRing shows ring in the debug overlay.
func WithRing(r *otel.RingBuffer) Option {
	return func(m *Model) { m.ring = r }
}

// WithDebug opens the overlay at start.
func WithDebug(on bool) Option {
	return func(m *Model) { m.showDebug = on }
}

// New builds a dialog for op.
func New(op operator.Operator, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = operator.FilterGlob
	ti.CharLimit = 4096
	ti.Width = 60
	ti.SetValue(op.Path())
	ti.Focus()

	m := Model{
		op:    op,
		rows:  op.Rows(),
		input: ti,
	}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Init starts the cursor blinking.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) confirmIndex() int { return len(m.rows) + 1 }

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if otel.TraceEnabled() && m.events != nil {
			m.events.Emit(otel.Event{Level: otel.LevelDebug, Kind: otel.KindKeyPress, Comp: "dialog", Msg: msg.String()})
		}
		return m.handleKey(msg)
	}

	if m.focus == 0 {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.cancelled = true
		if m.events != nil {
			m.events.Warn(otel.KindOpCancel, "dialog", m.op.Info().IDName)
		}
		return m, tea.Quit

	case "ctrl+s":
		return m.submit()

	case "tab", "down":
		m.moveFocus(1)
		return m, nil

	case "shift+tab", "up":
		m.moveFocus(-1)
		return m, nil
	}

	if m.focus == 0 {
		if msg.String() == "enter" {
			m.moveFocus(1)
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.err = nil
		return m, cmd
	}

	switch msg.String() {
	case "j":
		m.moveFocus(1)
	case "k":
		m.moveFocus(-1)
	case "?":
		m.showDebug = !m.showDebug
	case " ", "enter":
		if m.focus == m.confirmIndex() {
			return m.submit()
		}
		m.click(m.rows[m.focus-1])
	}
	return m, nil
}

func (m *Model) moveFocus(delta int) {
	n := m.confirmIndex() + 1
	m.focus = (m.focus + delta + n) % n
	if m.focus == 0 {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// click flips one checkbox. Group rows are applied to a copy of the
// rendered vector first and then reconciled by the group.
func (m *Model) click(r operator.Row) {
	m.err = nil
	if r.Group == nil {
		if r.Bool != nil {
			*r.Bool = !*r.Bool
		}
		return
	}

	vec := m.rendered(r.Group)
	vec[r.Index] = !vec[r.Index]
	outcome, err := r.Group.OnToggle(vec)
	if err != nil {
		m.err = err
		logging.Error("toggle rejected", "group", r.Group.Name(), "error", err)
		return
	}
	logging.Debug("toggle", "group", r.Group.Name(), "flag", r.Key,
		"outcome", outcome, "active", r.Group.ActiveName())
	if m.events != nil {
		m.events.Toggle(r.Group, outcome)
	}
}

// rendered reads a group's vector back from the checkbox rows, the way a
// host would read its widgets.
func (m *Model) rendered(g *toggle.Group) []bool {
	vec := make([]bool, g.Len())
	for _, r := range m.rows {
		if r.Group == g {
			vec[r.Index] = r.Checked()
		}
	}
	return vec
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.op.SetPath(strings.TrimSpace(m.input.Value()))
	m.input.SetValue(m.op.Path())
	if err := m.op.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	m.confirmed = true
	return m, tea.Quit
}

// Confirmed reports whether the user submitted a valid dialog.
func (m Model) Confirmed() bool { return m.confirmed }

// Cancelled reports whether the user backed out.
func (m Model) Cancelled() bool { return m.cancelled }

// Err is the last validation or toggle error shown.
func (m Model) Err() error { return m.err }

// Operator returns the operator being edited.
func (m Model) Operator() operator.Operator { return m.op }

// View renders the dialog.
func (m Model) View() string {
	info := m.op.Info()

	var b strings.Builder
	b.WriteString(Title.Render(info.Label))
	b.WriteString("\n")
	b.WriteString(Help.Render(info.Description))
	b.WriteString("\n\n")

	b.WriteString(m.cursor(0) + "File: " + m.input.View())
	b.WriteString("\n")

	var group *toggle.Group
	for i, r := range m.rows {
		if r.Group != group {
			group = r.Group
			if group != nil {
				b.WriteString(GroupHeader.Render(strings.ToUpper(group.Name()[:1]) + group.Name()[1:]))
				b.WriteString("\n")
			} else {
				b.WriteString("\n")
			}
		}
		b.WriteString(m.renderRow(i+1, r))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	button := Button
	if m.focus == m.confirmIndex() {
		button = ButtonFocused
	}
	b.WriteString(m.cursor(m.confirmIndex()) + button.Render(info.Label))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(ErrorText.Render("  " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(Help.Render("  [tab/↑↓] move · [space] toggle · [ctrl+s] " + strings.ToLower(info.Label) + " · [?] debug · [esc] cancel"))

	box := Box
	if m.width > 4 {
		box = box.Width(m.width - 4)
	}
	out := box.Render(b.String())

	if m.showDebug {
		if overlay := debugOverlay(m.ring, m.width, m.height); overlay != "" {
			out = lipgloss.JoinVertical(lipgloss.Left, out, overlay)
		}
	}
	return out
}

func (m Model) cursor(i int) string {
	if m.focus == i {
		return "▶ "
	}
	return "  "
}

func (m Model) renderRow(i int, r operator.Row) string {
	box := "[ ]"
	style := Help
	if r.Checked() {
		box = "[✓]"
		style = Checked
	}
	line := fmt.Sprintf("%s%s %s  %s", m.cursor(i), style.Render(box), r.Label, Help.Render(r.Description))
	if m.focus == i {
		line = Focused.Render(line)
	}
	return line
}

// Run shows the dialog full screen until the user confirms or cancels.
// It returns true when op was confirmed.
func Run(op operator.Operator, opts ...Option) (bool, error) {
	final, err := tea.NewProgram(New(op, opts...), tea.WithAltScreen()).Run()
	if err != nil {
		return false, fmt.Errorf("dialog: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return false, fmt.Errorf("dialog: unexpected model %T", final)
	}
	return m.Confirmed(), nil
}
