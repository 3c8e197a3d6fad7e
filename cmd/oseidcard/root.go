// Command oseidcard runs and provisions the MyEID-compatible card
// emulator: serve it over a vpcd-framed TCP bridge, run a script of hex
// APDUs against it in-process, print diagnostics, or provision a fresh
// keystore from a YAML config.
//
// Grounded on the teacher's cmd/cli/cli.go: root command, persistent
// flags, version subcommand.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:     "oseidcard",
		Short:   "MyEID-compatible cryptographic smart-card applet emulator",
		Version: version,
	}
	root.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}
	root.PersistentFlags().String("keystore", "card.gob", "path to the persisted keystore file")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(cmd.Root().Version)
		},
	})
	root.AddCommand(newInitCmd())
	root.AddCommand(newServeCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newDiagCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}
}
