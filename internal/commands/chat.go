package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/streamchat/internal/api"
	"github.com/diogo/streamchat/internal/storage"
	"github.com/diogo/streamchat/internal/transcript"
	"github.com/diogo/streamchat/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Start an interactive chat session.

The full transcript is sent with every message and persisted locally,
so the conversation survives restarts.
Type 'exit', 'quit', or press Ctrl+C to end the session.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat()
	},
}

func runChat() error {
	cfg := loadRuntimeConfig()

	backend, err := storage.DefaultBackend()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	store := transcript.NewStore(backend, transcript.WithVerbose(cfg.Verbose))

	client := api.NewClient(cfg.ServerURL,
		api.WithModel(cfg.DefaultModel),
		api.WithVerbose(cfg.Verbose),
	)

	spin := newSpinner("Connecting to " + cfg.ServerURL)
	spin.start()
	if err := client.Healthcheck(); err != nil {
		spin.stopWithError()
		return fmt.Errorf("failed to connect: %w", err)
	}
	spin.stopWithSuccess("Connected")

	return tui.RunChat(client, store, cfg)
}
