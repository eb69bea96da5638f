package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quietloop/dailies/pkg/convert"
)

func convertCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "convert <export.csv>",
		Short: "Convert a chat export CSV into daily org files",
		Long: `Convert reads a CSV export with Date and Conversation columns, splits
each transcript on Question:/AI Response: markers, and writes one org file
per day with gptel-compatible GPTEL_BOUNDS headers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger("convert")
			defer logger.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open export: %w", err)
			}
			defer f.Close()

			records, skipped, err := convert.ReadHistory(f)
			if err != nil {
				return err
			}
			if skipped > 0 {
				logger.Warnf("skipped %d malformed rows in %s", skipped, args[0])
				fmt.Printf("Skipped %d malformed rows\n", skipped)
			}

			days := convert.GroupByDay(records)
			if len(days) == 0 {
				fmt.Println("No conversations found in export")
				return nil
			}

			results, err := convert.WriteOrgFiles(days, outDir)
			if err != nil {
				return err
			}

			total := 0
			for _, res := range results {
				total += res.Conversations
				note := ""
				if !res.Converged {
					note = " (bounds did not converge)"
					logger.Warnf("bounds did not converge for %s", res.Path)
				}
				fmt.Printf("  %s: %d conversations%s\n", res.Path, res.Conversations, note)
			}
			fmt.Printf("Wrote %d days, %d conversations to %s\n", len(results), total, outDir)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "output", "o", "dailies", "output directory for org files")
	return cmd
}
