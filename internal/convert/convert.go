// Package convert runs the external MPK codec.
//
// mpkio never parses MPK itself. An ExecConverter starts the configured
// program once per file and passes the operator keywords as flags:
//
//	pkmpk import --remove_doubles=false --use_blendmaps=true --use_lightmaps=true /maps/C5L1.mpk
package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/abelbrown/mpkio/internal/logging"
	"github.com/abelbrown/mpkio/internal/operator"
)

// ErrNoCommand is returned when no converter program is configured.
var ErrNoCommand = errors.New("convert: no converter command configured")

// ExecConverter implements operator.Loader with an external program.
type ExecConverter struct {
	Command string
	Args    []string
	Timeout time.Duration
}

var _ operator.Loader = (*ExecConverter)(nil)

// NewExecConverter returns a converter for command. A zero timeout means
// the caller's context is the only limit.
func NewExecConverter(command string, args []string, timeout time.Duration) *ExecConverter {
	return &ExecConverter{Command: command, Args: args, Timeout: timeout}
}

// Load runs the program and waits for it. The program's stderr is returned
// in the error when it fails.
func (c *ExecConverter) Load(ctx context.Context, kind operator.Kind, kw operator.Keywords) error {
	if strings.TrimSpace(c.Command) == "" {
		return ErrNoCommand
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	argv := BuildArgs(c.Args, kind, kw)
	cmd := exec.CommandContext(ctx, c.Command, argv...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logging.Debug("converter start", "cmd", c.Command, "args", argv)
	start := time.Now()
	err := cmd.Run()
	logging.Debug("converter exit", "cmd", c.Command, "dur", time.Since(start), "err", err)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("convert: %s: %w", c.Command, ctxErr)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("convert: %s: %w: %s", c.Command, err, msg)
		}
		return fmt.Errorf("convert: %s: %w", c.Command, err)
	}
	return nil
}

// BuildArgs renders the argument vector: fixed args, the kind, every
// keyword except filepath as --name=value in name order, then the path.
func BuildArgs(fixed []string, kind operator.Kind, kw operator.Keywords) []string {
	argv := append([]string(nil), fixed...)
	argv = append(argv, string(kind))
	for _, k := range kw.Keys() {
		if k == "filepath" {
			continue
		}
		argv = append(argv, fmt.Sprintf("--%s=%v", k, kw[k]))
	}
	if p, ok := kw["filepath"].(string); ok && p != "" {
		argv = append(argv, p)
	}
	return argv
}
