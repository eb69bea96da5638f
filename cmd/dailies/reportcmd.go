package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quietloop/dailies/pkg/report"
	"github.com/quietloop/dailies/pkg/stats"
)

func statsCmd() *cobra.Command {
	var topN int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show usage statistics across all ingested conversations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			msgs, err := st.ListMessageStats(ctx)
			if err != nil {
				return err
			}
			daily := stats.Aggregate(msgs)

			r := report.NewRenderer(os.Stdout)
			r.Summary(stats.Summarize(daily), stats.TopDays(daily, topN))
			return nil
		},
	}

	cmd.Flags().IntVar(&topN, "top", 5, "number of busiest days to show")
	return cmd
}

func topicsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "topics",
		Short: "Show the most common conversation topics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			dist, err := st.TopicDistribution(ctx, limit)
			if err != nil {
				return err
			}

			report.NewRenderer(os.Stdout).Distribution("Topics", "Topic", dist)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of topics")
	return cmd
}

func modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "Show message counts per model",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			dist, err := st.ModelDistribution(ctx)
			if err != nil {
				return err
			}

			report.NewRenderer(os.Stdout).Distribution("Models", "Model", dist)
			return nil
		},
	}
}

func showCmd() *cobra.Command {
	var htmlPath string

	cmd := &cobra.Command{
		Use:   "show <conversation-id>",
		Short: "Display a stored conversation",
		Long: `Show prints a conversation as a role-labeled transcript, or writes it
as a standalone HTML page with syntax-highlighted source blocks when
--html is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid conversation id %q", args[0])
			}

			st, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if htmlPath != "" {
				conv, err := st.GetConversation(ctx, id)
				if err != nil {
					return err
				}
				f, err := os.Create(htmlPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", htmlPath, err)
				}
				defer f.Close()
				if err := report.ExportHTML(f, conv); err != nil {
					return err
				}
				fmt.Printf("Wrote %s\n", htmlPath)
				return nil
			}

			text, err := st.ConversationText(ctx, id)
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}

	cmd.Flags().StringVar(&htmlPath, "html", "", "write the conversation as HTML to this file")
	return cmd
}
