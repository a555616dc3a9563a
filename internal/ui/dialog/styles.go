package dialog

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorError     = lipgloss.Color("196") // Red
	colorBorder    = lipgloss.Color("238")
)

// Box frames the whole dialog.
var Box = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorBorder).
	Padding(1, 2)

// Title is the operator label.
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)

// Help is muted hint text.
var Help = lipgloss.NewStyle().
	Foreground(colorSecondary)

// GroupHeader labels an exclusive group.
var GroupHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorPrimary).
	MarginTop(1)

// Checked renders a ticked box.
var Checked = lipgloss.NewStyle().
	Foreground(colorSuccess)

// Focused is the row under the cursor.
var Focused = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Bold(true)

// Button is the confirm row.
var Button = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 2)

// ButtonFocused is the confirm row under the cursor.
var ButtonFocused = Button.
	Background(colorPrimary).
	Bold(true)

// ErrorText reports a validation failure.
var ErrorText = lipgloss.NewStyle().
	Foreground(colorError)

// DebugPanel frames the event overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(colorSecondary).
	Padding(1, 1)

// DebugHeader titles overlay sections.
var DebugHeader = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
