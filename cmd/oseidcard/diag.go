package main

import (
	"encoding/hex"
	"fmt"

	"github.com/oseidemu/myeid/card"
	"github.com/spf13/cobra"
)

// cardIDAlphabet is the modhex alphabet (the same 16 letters YubiKey-style
// tokens use for their serials): every character sits on the same key
// across keyboard layouts, which is the only property diag needs out of it
// for printing the GET DATA 0xA0 card id.
const cardIDAlphabet = "cbdefghijklnrtuv"

// encodeCardID renders id in modhex, two characters per byte. Grounded on
// the teacher's mhex package logic, narrowed to the one alphabet and the
// one fixed-length (20-byte) value this command ever prints rather than
// keeping mhex's general Encoding/New(alphabet) surface around unused.
func encodeCardID(id []byte) string {
	out := make([]byte, len(id)*2)
	for i, b := range id {
		out[i*2] = cardIDAlphabet[b>>4]
		out[i*2+1] = cardIDAlphabet[b&0x0F]
	}
	return string(out)
}

func newDiagCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diag",
		Short: "print the card id and capabilities",
		RunE: func(cmd *cobra.Command, args []string) error {
			keystorePath, _ := cmd.Flags().GetString("keystore")
			store, err := openStore(keystorePath)
			if err != nil {
				return err
			}
			proc := card.NewProcessor(store)
			resp := proc.Handle(card.APDU{Ins: card.InsGetData, P1: 0x01, P2: 0xA0})
			fmt.Printf("card id:   %s\n", hex.EncodeToString(resp.Data))
			fmt.Printf("modhex id: %s\n", encodeCardID(resp.Data))

			caps := proc.Handle(card.APDU{Ins: card.InsGetData, P1: 0x01, P2: 0xAA})
			fmt.Printf("capabilities: %s\n", hex.EncodeToString(caps.Data))
			return nil
		},
	}
}
