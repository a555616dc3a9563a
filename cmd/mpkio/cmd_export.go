package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abelbrown/mpkio/internal/operator"
	"github.com/abelbrown/mpkio/internal/ui/dialog"
)

var exportOpts struct {
	interactive bool
	strategy    string
	scope       string
	axisForward string
	axisUp      string
	overwrite   bool
}

var exportCmd = &cobra.Command{
	Use:   "export [file.mpk]",
	Short: "Export the scene as a Painkiller WorldMesh file",
	Long: `Export through the configured converter. The .mpk extension is added
when missing.

--strategy picks one of optimize, default or preview.
--scope picks one of all, selection or visible.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	f := exportCmd.Flags()
	f.BoolVarP(&exportOpts.interactive, "interactive", "i", false, "edit options in a dialog")
	f.StringVar(&exportOpts.strategy, "strategy", "", "conversion strategy: optimize, default, preview")
	f.StringVar(&exportOpts.scope, "scope", "", "objects to export: all, selection, visible")
	f.StringVar(&exportOpts.axisForward, "axis-forward", "", "forward axis (default from config)")
	f.StringVar(&exportOpts.axisUp, "axis-up", "", "up axis (default from config)")
	f.BoolVar(&exportOpts.overwrite, "overwrite", false, "replace an existing file")
}

func runExport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !exportOpts.interactive {
		return errors.New("export: no output file given (use -i to pick one)")
	}

	op, err := lookup[*operator.Export](env, "export_scene.pkmpk")
	if err != nil {
		return err
	}
	if len(args) == 1 {
		op.SetPath(args[0])
	}
	if err := applyExportFlags(cmd, op); err != nil {
		return err
	}

	if exportOpts.interactive {
		ok, err := dialog.Run(op, env.dialogOptions()...)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(cmd.OutOrStdout(), "export cancelled")
			return nil
		}
	}

	results, err := env.execute(cmd.Context(), []operator.Operator{op})
	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s strategy=%s scope=%s (%s)\n",
			r.Status, r.Op.Path(), op.Strategy.ActiveName(), op.Scope.ActiveName(), r.Dur.Round(1e6))
	}
	return err
}

// applyExportFlags sets op from config defaults and flags. Group flags go
// through Select so they take the same path as a click.
func applyExportFlags(cmd *cobra.Command, op *operator.Export) error {
	d := env.cfg.Export
	forward, up := d.AxisForward, d.AxisUp
	if exportOpts.axisForward != "" {
		forward = exportOpts.axisForward
	}
	if exportOpts.axisUp != "" {
		up = exportOpts.axisUp
	}

	var err error
	if op.Orientation.Forward, err = operator.ParseAxis(forward); err != nil {
		return err
	}
	if op.Orientation.Up, err = operator.ParseAxis(up); err != nil {
		return err
	}

	op.CheckExisting = d.CheckExisting
	if cmd.Flags().Changed("overwrite") {
		op.CheckExisting = !exportOpts.overwrite
	}

	for _, flag := range []string{exportOpts.strategy, exportOpts.scope} {
		if flag == "" {
			continue
		}
		if err := op.Select(flag); err != nil {
			return fmt.Errorf("export: %w", err)
		}
	}
	return nil
}
