package dialog

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/mpkio/internal/otel"
)

// debugPanelChrome is the border plus vertical padding of DebugPanel.
const debugPanelChrome = 4

// debugOverlay renders toggle and operator counts plus the newest events.
// Returns "" when ring is nil.
func debugOverlay(ring *otel.RingBuffer, width, height int) string {
	if ring == nil {
		return ""
	}

	stats := ring.Stats()
	lines := []string{
		DebugHeader.Render("Toggle Groups"),
		fmt.Sprintf("  Clicks:     %d switched, %d held, %d degenerate",
			stats[otel.KindToggleSwitch], stats[otel.KindToggleHold], stats[otel.KindToggleDegenerate]),
		fmt.Sprintf("  Runs:       %d started, %d complete, %d errors",
			stats[otel.KindOpStart], stats[otel.KindOpComplete], stats[otel.KindOpError]),
		fmt.Sprintf("  Buffer:     %d / %d events", ring.Len(), ring.Cap()),
		"",
		DebugHeader.Render("Recent Events"),
	}

	for _, e := range ring.Last(15) {
		line := fmt.Sprintf("  %6s  %-18s", formatAge(time.Since(e.Time)), string(e.Kind))
		if e.Group != "" {
			line += fmt.Sprintf("  %s=%s %s", e.Group, e.Flag, e.Mask)
		}
		if e.Msg != "" {
			line += "  " + truncateRunes(e.Msg, 40)
		}
		if e.Err != "" {
			line += "  ERR:" + truncateRunes(e.Err, 30)
		}
		lines = append(lines, line)
	}

	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 76
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}
	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatAge clamps negative durations from clock skew to 0ms.
func formatAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
