package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"assessly-backend/internal/config"
	"assessly-backend/internal/db"
	"assessly-backend/internal/repository"
	"assessly-backend/utilities"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "assessly",
	Short: "Assessly admin backend",
	Long: `Assessly serves the admin API and the game submission endpoint of the
competency assessment game, and ships the maintenance commands around it.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.xml", "Path to the XML configuration")
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd, seedCatalogCmd)
}

// bootstrap loads the configuration and builds the process logger.
func bootstrap() (*config.APIConfig, *utilities.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Context.TimeZone != "" {
		loc, err := time.LoadLocation(cfg.Context.TimeZone)
		if err != nil {
			return nil, nil, fmt.Errorf("time zone %q: %w", cfg.Context.TimeZone, err)
		}
		time.Local = loc
	}
	log, err := utilities.NewLogger(utilities.LogOptions{
		Level:      cfg.Logging.Level,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	return cfg, log, nil
}

// openDB connects and, when migrate is set, brings every table up to date.
func openDB(cfg *config.APIConfig, migrate bool) (*gorm.DB, *db.QueryExecutor, error) {
	gdb, err := db.InitDBFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	qe := db.NewQueryExecutor(gdb)
	if migrate {
		if err := db.Migrate(gdb); err != nil {
			return nil, nil, err
		}
		if err := repository.MigrateCatalog(context.Background(), qe); err != nil {
			return nil, nil, err
		}
	}
	return gdb, qe, nil
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
