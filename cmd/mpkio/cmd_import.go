package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abelbrown/mpkio/internal/operator"
	"github.com/abelbrown/mpkio/internal/ui/dialog"
)

var importOpts struct {
	interactive   bool
	lightmaps     bool
	blendmaps     bool
	removeDoubles bool
}

var importCmd = &cobra.Command{
	Use:   "import [file.mpk...]",
	Short: "Import Painkiller WorldMesh files",
	Long: `Import one or more .mpk files through the configured converter.
Several files are converted in parallel (converter.parallelism).`,
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.BoolVarP(&importOpts.interactive, "interactive", "i", false, "edit options in a dialog")
	f.BoolVar(&importOpts.lightmaps, "lightmaps", true, "add lightmaps to materials")
	f.BoolVar(&importOpts.blendmaps, "blendmaps", true, "add blendmaps to materials")
	f.BoolVar(&importOpts.removeDoubles, "merge-vertices", false, "remove double vertices")
}

func runImport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && !importOpts.interactive {
		return errors.New("import: no files given (use -i to pick one)")
	}
	if len(args) > 1 && importOpts.interactive {
		return errors.New("import: -i takes at most one file")
	}

	paths := args
	if len(paths) == 0 {
		paths = []string{""}
	}

	var ops []operator.Operator
	for _, path := range paths {
		op, err := lookup[*operator.Import](env, "import_scene.pkmpk")
		if err != nil {
			return err
		}
		applyImportFlags(cmd, op)
		op.SetPath(path)

		if importOpts.interactive {
			ok, err := dialog.Run(op, env.dialogOptions()...)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "import cancelled")
				return nil
			}
		}
		ops = append(ops, op)
	}

	results, err := env.execute(cmd.Context(), ops)
	for _, r := range results {
		fmt.Fprintf(cmd.OutOrStdout(), "%-9s %s (%s)\n", r.Status, r.Op.Path(), r.Dur.Round(1e6))
	}
	return err
}

// applyImportFlags layers config defaults and then explicit flags onto op.
func applyImportFlags(cmd *cobra.Command, op *operator.Import) {
	d := env.cfg.Import
	op.UseLightmaps, op.UseBlendmaps, op.RemoveDoubles = d.UseLightmaps, d.UseBlendmaps, d.RemoveDoubles

	f := cmd.Flags()
	if f.Changed("lightmaps") {
		op.UseLightmaps = importOpts.lightmaps
	}
	if f.Changed("blendmaps") {
		op.UseBlendmaps = importOpts.blendmaps
	}
	if f.Changed("merge-vertices") {
		op.RemoveDoubles = importOpts.removeDoubles
	}
}
