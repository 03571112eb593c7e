package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mindbridge/internal/database"
	"mindbridge/internal/service"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export users and results to a JSON file",
	RunE: func(cmd *cobra.Command, args []string) error {
		outputPath, _ := cmd.Flags().GetString("output")
		if outputPath == "" {
			outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
		}

		// Ensure directory exists
		if dir := filepath.Dir(outputPath); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		db, err := openDatabase(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		log.Printf("Exporting database to: %s", outputPath)
		if err := service.NewBackupService(db).Export(cmd.Context(), outputPath); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if info, err := os.Stat(outputPath); err == nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Export complete! File size: %.2f KB\n", float64(info.Size())/1024)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import users and results from a JSON backup",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath := args[0]
		if _, err := os.Stat(inputPath); err != nil {
			return fmt.Errorf("input file: %w", err)
		}

		clearData, _ := cmd.Flags().GetBool("clear")
		if clearData && !confirm(cmd, "WARNING: This will delete all existing data. Type 'yes' to confirm: ") {
			fmt.Fprintln(cmd.OutOrStdout(), "Import cancelled")
			return nil
		}

		db, err := openDatabase(cmd)
		if err != nil {
			return err
		}
		defer db.Close()

		if clearData {
			log.Println("Clearing existing data...")
			if err := clearDatabase(db); err != nil {
				return err
			}
		}

		log.Printf("Importing database from: %s", inputPath)
		stats, err := service.NewBackupService(db).Import(cmd.Context(), inputPath)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Import complete! users=%d skipped=%d results=%d\n",
			stats.Users, stats.SkippedUsers, stats.Results)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("output", "o", "", "Output file path (default: backup_YYYYMMDD_HHMMSS.json)")
	importCmd.Flags().Bool("clear", false, "Clear existing data before import (destructive)")
}

func confirm(cmd *cobra.Command, prompt string) bool {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	return strings.TrimSpace(line) == "yes"
}

func clearDatabase(db *database.DB) error {
	// Delete in reverse order of dependencies
	for _, table := range []string{"games", "sessions", "users"} {
		if _, err := db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear table %s: %w", table, err)
		}
		log.Printf("Cleared table: %s", table)
	}
	return nil
}
