package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

// eventRecord mirrors otel.Event for JSON decoding. Decoding the file
// rather than importing otel keeps old logs readable.
type eventRecord struct {
	Time  time.Time `json:"t"`
	Level string    `json:"level"`
	Kind  string    `json:"kind"`
	Comp  string    `json:"comp"`
	RunID string    `json:"run_id"`
	DurMs float64   `json:"dur_ms"`
	Op    string    `json:"op"`
	Path  string    `json:"path"`
	Group string    `json:"group"`
	Flag  string    `json:"flag"`
	Mask  string    `json:"mask"`
	Err   string    `json:"err"`
	Msg   string    `json:"msg"`
}

var eventsOpts struct {
	tail    int
	follow  bool
	kind    string
	level   string
	comp    string
	rawJSON bool
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show the structured event log",
	Args:  cobra.NoArgs,
	RunE:  runEvents,
}

func init() {
	f := eventsCmd.Flags()
	f.IntVarP(&eventsOpts.tail, "tail", "n", 50, "number of recent lines to show")
	f.BoolVarP(&eventsOpts.follow, "follow", "f", false, "keep printing new events")
	f.StringVar(&eventsOpts.kind, "kind", "", "filter by event kind prefix (e.g. 'toggle')")
	f.StringVar(&eventsOpts.level, "level", "", "minimum level: debug, info, warn, error")
	f.StringVar(&eventsOpts.comp, "comp", "", "filter by component")
	f.BoolVar(&eventsOpts.rawJSON, "json", false, "print raw JSON lines")
}

// levelRank returns a numeric rank for filtering (higher = more severe).
func levelRank(level string) int {
	switch level {
	case "info":
		return 1
	case "warn":
		return 2
	case "error":
		return 3
	default:
		return 0
	}
}

func matchEvent(ev eventRecord) bool {
	if eventsOpts.kind != "" && !strings.HasPrefix(ev.Kind, eventsOpts.kind) {
		return false
	}
	if eventsOpts.level != "" && levelRank(ev.Level) < levelRank(eventsOpts.level) {
		return false
	}
	if eventsOpts.comp != "" && ev.Comp != eventsOpts.comp {
		return false
	}
	return true
}

func formatEvent(ev eventRecord, raw []byte) string {
	if eventsOpts.rawJSON {
		return string(raw)
	}
	lvl := strings.ToUpper(ev.Level)
	if lvl == "" {
		lvl = "?"
	}
	parts := []string{fmt.Sprintf("%s %-5s [%-7s] %-18s", ev.Time.Format("15:04:05.000"), lvl, ev.Comp, ev.Kind)}

	if ev.Msg != "" {
		parts = append(parts, "- "+ev.Msg)
	}
	if ev.Group != "" {
		parts = append(parts, fmt.Sprintf("%s=%s %s", ev.Group, ev.Flag, ev.Mask))
	}
	if ev.Op != "" {
		parts = append(parts, ev.Op)
	}
	if ev.Path != "" {
		parts = append(parts, ev.Path)
	}
	if ev.DurMs > 0 {
		parts = append(parts, fmt.Sprintf("(%.*fms)", durPrecision(ev.DurMs), ev.DurMs))
	}
	if ev.Err != "" {
		parts = append(parts, "err="+ev.Err)
	}
	return strings.Join(parts, " ")
}

func runEvents(cmd *cobra.Command, args []string) error {
	path := env.eventLogPath()
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("event log %s: %w", path, err)
	}
	defer f.Close()

	out := cmd.OutOrStdout()
	for _, l := range readTailLines(f, eventsOpts.tail, matchEvent) {
		fmt.Fprintln(out, formatEvent(l.ev, l.raw))
	}
	if !eventsOpts.follow {
		return nil
	}

	ctx := cmd.Context()
	reader := bufio.NewReader(f)
	var partial []byte
	for {
		chunk, err := reader.ReadBytes('\n')
		partial = append(partial, chunk...)
		if err == io.EOF {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(100 * time.Millisecond):
			}
			continue
		}
		if err != nil {
			return err
		}
		line := trimLine(partial)
		partial = nil
		var ev eventRecord
		if len(line) == 0 || json.Unmarshal(line, &ev) != nil {
			continue
		}
		if matchEvent(ev) {
			fmt.Fprintln(out, formatEvent(ev, line))
		}
	}
}

type parsedLine struct {
	ev  eventRecord
	raw []byte
}

// readTailLines returns the last n lines of r that parse and match.
func readTailLines(r io.Reader, n int, match func(eventRecord) bool) []parsedLine {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)

	if n <= 0 {
		return nil
	}
	ring := make([]parsedLine, 0, n)
	for scanner.Scan() {
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var ev eventRecord
		if json.Unmarshal(raw, &ev) != nil || !match(ev) {
			continue
		}
		rawCopy := make([]byte, len(raw))
		copy(rawCopy, raw)

		if len(ring) < n {
			ring = append(ring, parsedLine{ev: ev, raw: rawCopy})
		} else {
			copy(ring, ring[1:])
			ring[n-1] = parsedLine{ev: ev, raw: rawCopy}
		}
	}
	return ring
}

func trimLine(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}

func durPrecision(ms float64) int {
	if ms >= 100 {
		return 0
	}
	if ms >= 1 {
		return 1
	}
	return 2
}
