package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"mindbridge/internal/service"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Score a set of performance features and print the recommended difficulty",
	RunE: func(cmd *cobra.Command, args []string) error {
		var f service.Features
		f.ModuleScore, _ = cmd.Flags().GetFloat64("score")
		f.ImprovementRate, _ = cmd.Flags().GetFloat64("improvement")
		f.MovingAvg, _ = cmd.Flags().GetFloat64("moving-avg")

		rec, err := service.NewRecommendService(nil).NextLevel(f)
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rec)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "recommended difficulty: %s\n", rec.Difficulty)
		fmt.Fprintf(cmd.OutOrStdout(), "q-values: easy=%.3f medium=%.3f hard=%.3f\n",
			rec.QValues[0], rec.QValues[1], rec.QValues[2])
		return nil
	},
}

func init() {
	recommendCmd.Flags().Float64("score", 0, "Latest module score (0-1)")
	recommendCmd.Flags().Float64("improvement", 0, "Change since the previous attempt")
	recommendCmd.Flags().Float64("moving-avg", 0, "Average of recent scores")
	recommendCmd.Flags().Bool("json", false, "Print the recommendation as JSON")
}
