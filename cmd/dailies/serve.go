package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quietloop/dailies/pkg/api"
	"github.com/quietloop/dailies/pkg/embed"
)

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve conversation data over HTTP",
		Long: `Serve starts a read-only JSON API over the store: usage summary,
insights, individual conversations and semantic search. Search requires
an OpenAI API key; without one the endpoint reports unavailable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := newLogger("serve")
			defer logger.Close()

			st, cfg, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			var embedder *embed.Embedder
			if client, err := newLLMClient(cfg); err == nil {
				embedder = embed.New(client, st, cfg.EmbeddingModel, logger)
			} else {
				logger.Warnf("semantic search disabled: %v", err)
				fmt.Fprintf(os.Stderr, "semantic search disabled: %v\n", err)
			}

			if port == 0 {
				port = cfg.Port
			}
			return api.NewServer(port, st, embedder, logger).Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	return cmd
}
