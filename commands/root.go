// backend/commands/root.go
package commands

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gewnthar/statsprep/config"
	"github.com/gewnthar/statsprep/database"
	"github.com/gewnthar/statsprep/services"
	"github.com/spf13/cobra"
)

var configPath *string

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "", "Path to config.yaml. Standard locations are searched when empty.")
}

var rootCmd = &cobra.Command{
	Use:   "statsprep",
	Short: "statsprep scrapes season tables and turns them into clean, storage-ready CSV.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadConfig(*configPath); err != nil {
			return fmt.Errorf("error loading configuration: %w", err)
		}
		return nil
	},
	SilenceUsage: true,
}

// openService builds the service from AppConfig. The returned store is nil
// when the database is disabled; close it when done.
func openService(ctx context.Context) (*services.Service, database.Store, error) {
	cfg := config.AppConfig
	if !cfg.Database.Enabled {
		return services.NewService(cfg, nil), nil, nil
	}

	store, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("error initializing database: %w", err)
	}
	log.Printf("Database %s enabled (%s)", cfg.Database.DBName, cfg.Database.Driver)
	return services.NewService(cfg, store), store, nil
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
