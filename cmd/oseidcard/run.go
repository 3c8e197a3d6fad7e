package main

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/oseidemu/myeid/card"
	"github.com/spf13/cobra"
)

// newRunCmd executes a script of hex-encoded APDUs, one per line, against
// an in-process card.Processor — reworked from the teacher's
// cmd/examples/apdu/main.go's `-script` flag pattern into a cobra
// subcommand, trading the YubiKey applet-selection step that file
// performed for this domain's file-selection-by-id model.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <script>",
		Short: "run a script of hex-encoded APDUs against an in-process emulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			keystorePath, _ := cmd.Flags().GetString("keystore")
			store, err := openStore(keystorePath)
			if err != nil {
				return err
			}
			proc := card.NewProcessor(store)

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening script %s: %w", args[0], err)
			}
			defer f.Close()

			scanner := bufio.NewScanner(f)
			for scanner.Scan() {
				line := strings.TrimSpace(scanner.Text())
				if line == "" || strings.HasPrefix(line, "#") {
					continue
				}
				raw, herr := hex.DecodeString(strings.ReplaceAll(line, " ", ""))
				if herr != nil {
					return fmt.Errorf("decoding line %q: %w", line, herr)
				}
				apdu, perr := card.ParseAPDU(raw)
				if perr != nil {
					fmt.Printf("%s -> parse error: %s\n", line, perr)
					continue
				}
				resp := proc.Handle(apdu)
				fmt.Printf("%s -> SW=%04X data=%s\n", line, uint16(resp.SW), hex.EncodeToString(resp.Data))
			}
			if err := scanner.Err(); err != nil {
				return err
			}
			return saveStore(store, keystorePath)
		},
	}
	return cmd
}
