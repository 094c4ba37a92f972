package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"assessly-backend/internal/repository"
	"assessly-backend/internal/service"
)

var catalogFile string

var seedCatalogCmd = &cobra.Command{
	Use:   "seed-catalog",
	Short: "Load evaluation reports and answer signatures from a YAML file",
	Long: `Load evaluation reports and answer signatures from a YAML file.

The whole file is validated before anything is written; each category is
stored in its own transaction.

EXAMPLES:

  assessly seed-catalog -f catalog.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		f, err := os.Open(catalogFile)
		if err != nil {
			return err
		}
		defer f.Close()
		catalog, err := service.ParseCatalog(f)
		if err != nil {
			return fmt.Errorf("%s: %w", catalogFile, err)
		}

		gdb, qe, err := openDB(cfg, true)
		if err != nil {
			return err
		}
		defer closeDB(gdb)

		svc := service.NewCatalogService(repository.NewCatalogRepository(qe, log))
		n, err := svc.Import(cmd.Context(), catalog)
		if err != nil {
			return err
		}
		log.Info("catalog seeded", "file", catalogFile, "reports", n)
		return nil
	},
}

func init() {
	seedCatalogCmd.Flags().StringVarP(&catalogFile, "file", "f", "catalog.yaml", "Catalog YAML file")
}
