package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abelbrown/mpkio/internal/config"
	"github.com/abelbrown/mpkio/internal/convert"
	"github.com/abelbrown/mpkio/internal/logging"
	"github.com/abelbrown/mpkio/internal/operator"
	"github.com/abelbrown/mpkio/internal/otel"
	"github.com/abelbrown/mpkio/internal/registry"
	"github.com/abelbrown/mpkio/internal/store"
	"github.com/abelbrown/mpkio/internal/ui/dialog"
)

// app is the per-invocation wiring shared by every subcommand.
type app struct {
	cfg       *config.Config
	dataDir   string
	reg       *registry.Registry
	events    *otel.Logger
	ring      *otel.RingBuffer
	eventFile *os.File
	st        *store.Store
}

func newApp(cfgPath, level string) (*app, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgPath != "" {
		cfg, err = config.LoadFrom(cfgPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if level != "" {
		cfg.LogLevel = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	a := &app{cfg: cfg, dataDir: config.DataDir(), reg: registry.New()}
	if err := registry.Register(a.reg); err != nil {
		return nil, err
	}

	if err := logging.Init(a.dataDir, cfg.LogLevel); err != nil {
		return nil, err
	}

	a.eventFile, err = os.OpenFile(a.eventLogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logging.Close()
		return nil, fmt.Errorf("open event log: %w", err)
	}
	a.events = otel.NewLogger(a.eventFile)
	a.ring = otel.NewRingBuffer(otel.DefaultRingSize)
	a.events.SetRingBuffer(a.ring)
	a.events.Info(otel.KindStartup, "cli", logging.Version)
	return a, nil
}

func (a *app) eventLogPath() string {
	return filepath.Join(a.dataDir, "mpkio.events.jsonl")
}

func (a *app) dbPath() string {
	return filepath.Join(a.dataDir, "mpkio.db")
}

// store opens the history database on first use.
func (a *app) store() (*store.Store, error) {
	if a.st != nil {
		return a.st, nil
	}
	st, err := store.Open(a.dbPath())
	if err != nil {
		return nil, err
	}
	a.st = st
	return st, nil
}

func (a *app) converter() *convert.ExecConverter {
	c := a.cfg.Converter
	return convert.NewExecConverter(c.Command, c.Args, c.Timeout())
}

func (a *app) dialogOptions() []dialog.Option {
	return []dialog.Option{
		dialog.WithEvents(a.events),
		dialog.WithRing(a.ring),
		dialog.WithDebug(debugUI || a.cfg.UI.ShowDebug),
	}
}

// lookup builds a fresh operator from the registry.
func lookup[T operator.Operator](a *app, id string) (T, error) {
	var zero T
	op, err := a.reg.Lookup(id)
	if err != nil {
		return zero, err
	}
	typed, ok := op.(T)
	if !ok {
		return zero, fmt.Errorf("operator %s is %T", id, op)
	}
	return typed, nil
}

// execute runs ops through the converter, recording each in the history
// and the event log. It returns the first failure.
func (a *app) execute(ctx context.Context, ops []operator.Operator) ([]convert.Result, error) {
	st, err := a.store()
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(ops))
	for i, op := range ops {
		ids[i], err = st.RecordRun(string(op.Kind()), op.Info().IDName, op.Path(), op.Keywords(), time.Now())
		if err != nil {
			return nil, err
		}
		a.events.Emit(otel.Event{Level: otel.LevelInfo, Kind: otel.KindOpStart, Comp: "convert",
			RunID: ids[i], Op: op.Info().IDName, Path: op.Path()})
	}

	log := logging.WithPrefix("convert")
	results := convert.Batch(ctx, a.converter(), ops, a.cfg.Converter.Parallelism)

	var first error
	for i, r := range results {
		if err := st.FinishRun(ids[i], string(r.Status), r.Err, time.Now()); err != nil {
			log.Error("record run", "id", ids[i], "error", err)
		}
		ev := otel.Event{Comp: "convert", RunID: ids[i], Op: r.Op.Info().IDName, Path: r.Op.Path(), Dur: r.Dur}
		switch {
		case errors.Is(r.Err, context.Canceled):
			ev.Level, ev.Kind, ev.Err = otel.LevelWarn, otel.KindOpCancel, r.Err.Error()
			if first == nil {
				first = r.Err
			}
		case r.Err != nil:
			ev.Level, ev.Kind, ev.Err = otel.LevelError, otel.KindOpError, r.Err.Error()
			log.Error("conversion failed", "path", r.Op.Path(), "error", r.Err)
			if first == nil {
				first = r.Err
			}
		default:
			ev.Level, ev.Kind = otel.LevelInfo, otel.KindOpComplete
			log.Info("conversion finished", "path", r.Op.Path(), "dur", r.Dur)
		}
		a.events.Emit(ev)
	}
	return results, first
}

// Close flushes the event log and closes files.
func (a *app) Close() {
	a.events.Info(otel.KindShutdown, "cli", "")
	a.events.Close()
	a.eventFile.Close()
	if a.st != nil {
		a.st.Close()
	}
	logging.Close()
}
