package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quietloop/dailies/pkg/org"
	"github.com/quietloop/dailies/pkg/stats"
	"github.com/quietloop/dailies/pkg/tokenizer"
)

func initDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db",
		Short: "Create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.InitSchema(ctx); err != nil {
				return err
			}
			fmt.Println("Database schema created")
			return nil
		},
	}
}

func ingestCmd() *cobra.Command {
	var pattern string
	var reset bool

	cmd := &cobra.Command{
		Use:   "ingest <directory>",
		Short: "Load org conversation files into the database",
		Long: `Ingest parses every matching org file in the directory, counts tokens
per message, stores conversations and messages, and refreshes the daily
statistics table. Files that fail to parse are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger("ingest")
			defer logger.Close()

			st, _, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			if reset {
				if err := st.ClearAll(ctx); err != nil {
					return err
				}
				fmt.Println("Cleared existing data")
			}

			conversations, fileErrs, err := org.ParseGlob(args[0], pattern)
			if err != nil {
				return err
			}
			for _, fe := range fileErrs {
				logger.Warnf("skipping file: %v", &fe)
				fmt.Printf("  skipped %s: %v\n", fe.Path, fe.Err)
			}
			if len(conversations) == 0 {
				fmt.Println("No conversations found")
				return nil
			}

			tok, err := tokenizer.New()
			if err != nil {
				logger.Warnf("tokenizer unavailable, using estimates: %v", err)
			}
			for ci := range conversations {
				for mi := range conversations[ci].Messages {
					msg := &conversations[ci].Messages[mi]
					msg.TokenCount = tok.Count(msg.Content)
				}
			}

			messageCount, err := st.InsertConversations(ctx, conversations)
			if err != nil {
				return err
			}
			logger.Infof("ingested %d conversations, %d messages", len(conversations), messageCount)

			if err := stats.ComputeAndStore(ctx, st); err != nil {
				return err
			}

			fmt.Printf("Ingested %d conversations (%d messages) from %s\n",
				len(conversations), messageCount, args[0])

			totalConvs, err := st.ConversationCount(ctx)
			if err != nil {
				return err
			}
			totalMsgs, err := st.MessageCount(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Store now holds %d conversations, %d messages\n", totalConvs, totalMsgs)
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "glob", "*.org", "filename pattern to ingest")
	cmd.Flags().BoolVar(&reset, "reset", false, "clear existing data before ingesting")
	return cmd
}
