package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abelbrown/mpkio/internal/registry"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Show the add-on, its operators and menu entries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		b := registry.Bundle
		fmt.Fprintf(out, "%s %s (%s)\n", b.Name, registry.VersionString(b.Version), b.Category)
		fmt.Fprintf(out, "  %s\n  %s\n\n", b.Description, b.Location)

		for _, id := range env.reg.Operators() {
			op, err := env.reg.Lookup(id)
			if err != nil {
				return err
			}
			info := op.Info()
			fmt.Fprintf(out, "%-20s %-12s %s [%s]\n", info.IDName, info.Label, info.FilterGlob, strings.Join(info.Options, ","))
			for _, r := range op.Rows() {
				mark := " "
				if r.Checked() {
					mark = "x"
				}
				group := ""
				if r.Group != nil {
					group = "(" + r.Group.Name() + ")"
				}
				fmt.Fprintf(out, "    [%s] %-14s %-11s %s\n", mark, r.Key, group, r.Description)
			}
		}

		fmt.Fprintln(out)
		for _, menu := range []string{registry.MenuImport, registry.MenuExport} {
			for _, e := range env.reg.Menu(menu) {
				fmt.Fprintf(out, "%s: %s -> %s\n", menu, e.Label, e.IDName)
			}
		}
		return nil
	},
}
