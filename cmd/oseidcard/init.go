package main

import (
	"fmt"

	"github.com/oseidemu/myeid/config"
	"github.com/oseidemu/myeid/keystore"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var configPath string
	var erase bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "provision a fresh keystore from a YAML config",
		RunE: func(cmd *cobra.Command, args []string) error {
			keystorePath, _ := cmd.Flags().GetString("keystore")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			var store *keystore.Store
			if erase {
				store = keystore.New()
			} else {
				store, err = openStore(keystorePath)
				if err != nil {
					return err
				}
			}

			if err := config.Apply(store, cfg); err != nil {
				return err
			}
			if err := saveStore(store, keystorePath); err != nil {
				return err
			}
			fmt.Printf("provisioned %s from %s\n", keystorePath, configPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "card.yaml", "path to the provisioning config")
	cmd.Flags().BoolVar(&erase, "erase", false, "discard any existing keystore before provisioning")
	return cmd
}
