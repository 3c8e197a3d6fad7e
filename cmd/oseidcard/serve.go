package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/oseidemu/myeid/card"
	"github.com/oseidemu/myeid/transport"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the emulator over a vpcd-framed TCP bridge",
		RunE: func(cmd *cobra.Command, args []string) error {
			keystorePath, _ := cmd.Flags().GetString("keystore")
			store, err := openStore(keystorePath)
			if err != nil {
				return err
			}

			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			bridge := &transport.Bridge{
				Addr: listen,
				Log:  logger,
				NewProcessor: func() *card.Processor {
					proc := card.NewProcessor(store)
					proc.Log = logger
					return proc
				},
			}
			fmt.Printf("listening on %s (keystore %s)\n", listen, keystorePath)
			return bridge.ListenAndServe()
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "127.0.0.1:35963", "vpcd bridge listen address")
	return cmd
}
