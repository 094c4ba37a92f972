package main

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table, catalog tables included",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		gdb, _, err := openDB(cfg, true)
		if err != nil {
			return err
		}
		defer closeDB(gdb)
		log.Info("migration complete", "driver", cfg.DB.Driver)
		return nil
	},
}
