package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/streamchat/internal/models"
	"github.com/diogo/streamchat/internal/transcript"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the local transcript",
	Long:  `View and manage the persisted conversation transcript.`,
}

var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the transcript",
	RunE:  runHistoryShow,
}

var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset the transcript",
	RunE:  runHistoryClear,
}

func init() {
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyClearCmd)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := transcript.DefaultStore()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	msgs := store.Load()
	fmt.Printf("Messages: %d\n\n", len(msgs))

	for i, msg := range msgs {
		role := "You"
		if msg.Role == models.RoleAssistant {
			role = "Assistant"
		}
		fmt.Printf("[%d] %s:\n", i+1, role)

		content := msg.Content
		if len(content) > 500 {
			content = content[:500] + "..."
		}
		fmt.Printf("  %s\n\n", content)
	}

	return nil
}

func runHistoryClear(cmd *cobra.Command, args []string) error {
	store, err := transcript.DefaultStore()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}

	store.Clear()
	fmt.Println("Transcript reset.")
	return nil
}
