package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mindbridge/internal/config"
	"mindbridge/internal/database"
)

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "MindBridge maintenance tool",
	Long:          "Administrative commands for the MindBridge game server: migrations, backups and difficulty recommendations.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("migrations", "", "Migrations directory (overrides MIGRATIONS_PATH)")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(recommendCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openDatabase connects using the environment configuration and brings the
// schema up to date.
func openDatabase(cmd *cobra.Command) (*database.DB, error) {
	cfg := config.Load()
	if p, _ := cmd.Flags().GetString("migrations"); p != "" {
		cfg.MigrationsPath = p
	}

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDatabase(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "Migrations completed successfully")
		return nil
	},
}
