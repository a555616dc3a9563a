// Command mpkio imports and exports Painkiller WorldMesh (.mpk) files
// through an external converter.
//
// Usage:
//
//	mpkio import [-i] level.mpk...     Import one or more files
//	mpkio export [-i] out.mpk          Export the scene
//	mpkio menu                         Show registered operators and menus
//	mpkio history                      Recent conversions
//	mpkio events                       JSONL event log viewer
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abelbrown/mpkio/internal/otel"
)

var (
	configPath string
	logLevel   string
	debugUI    bool

	env *app
)

var rootCmd = &cobra.Command{
	Use:   "mpkio",
	Short: "Painkiller WorldMesh (.mpk) import/export",
	Long: `mpkio drives an external MPK converter from the terminal.

Import and export options can be set with flags or edited in a dialog (-i).
The export dialog's Strategy and Scope boxes behave as radio groups:
exactly one of each is always checked.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(configPath, logLevel)
		if err != nil {
			return err
		}
		env = a
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.mpkio/config.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&debugUI, "debug", false, "open dialogs with the event overlay")

	rootCmd.AddCommand(importCmd, exportCmd, menuCmd, historyCmd, eventsCmd)
}

// closeApp releases whatever PersistentPreRunE opened. Cobra skips
// post-run hooks when RunE fails, so main calls this instead.
func closeApp() {
	if env != nil {
		env.Close()
		env = nil
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil && env != nil {
		env.events.Error(otel.KindError, "cli", err)
	}
	closeApp()
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mpkio: %v\n", err)
		os.Exit(1)
	}
}
