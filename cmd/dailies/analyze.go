package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietloop/dailies/pkg/embed"
	"github.com/quietloop/dailies/pkg/extract"
	"github.com/quietloop/dailies/pkg/report"
)

func extractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract",
		Short: "Extract insights from unprocessed conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger("extract")
			defer logger.Close()

			st, cfg, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			client, err := newLLMClient(cfg)
			if err != nil {
				return err
			}

			res, err := extract.New(client, st, logger).ExtractAll(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Extracted %d insights from %d conversations (%d skipped, %d failed)\n",
				res.Insights, res.Processed, res.Skipped, res.Failed)
			return nil
		},
	}
}

func summarizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summarize",
		Short: "Summarize conversations that have no summary yet",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger("summarize")
			defer logger.Close()

			st, cfg, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			client, err := newLLMClient(cfg)
			if err != nil {
				return err
			}

			res, err := extract.New(client, st, logger).SummarizeAll(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Summarized %d conversations (%d skipped, %d failed)\n",
				res.Processed, res.Skipped, res.Failed)
			return nil
		},
	}
}

func embedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "embed",
		Short: "Generate embeddings for semantic search",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger("embed")
			defer logger.Close()

			st, cfg, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			client, err := newLLMClient(cfg)
			if err != nil {
				return err
			}

			embedder := embed.New(client, st, cfg.EmbeddingModel, logger)
			embedded, skipped, err := embedder.EmbedAll(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Embedded %d conversations (%d skipped)\n", embedded, skipped)
			return nil
		},
	}
}

func searchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantic search over embedded conversations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger("search")
			defer logger.Close()

			st, cfg, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			client, err := newLLMClient(cfg)
			if err != nil {
				return err
			}

			embedder := embed.New(client, st, cfg.EmbeddingModel, logger)
			results, err := embedder.Search(ctx, strings.Join(args, " "), limit)
			if err != nil {
				return err
			}

			report.NewRenderer(os.Stdout).SearchResults(results)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum number of results")
	return cmd
}

func insightsCmd() *cobra.Command {
	var category string
	var limit int
	var bottom bool

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "List extracted insights by confidence",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			rows, err := st.ListInsights(ctx, category, limit, bottom)
			if err != nil {
				return err
			}

			report.NewRenderer(os.Stdout).Insights(rows)
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "",
		"filter by category (wisdom, product_idea, programming_tip, question)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of insights")
	cmd.Flags().BoolVar(&bottom, "bottom", false, "show lowest-confidence insights instead")
	return cmd
}
