// Package commands provides CLI commands for streamchat.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/streamchat/internal/config"
)

var (
	// Global flags
	serverFlag  string
	modelFlag   string
	verboseFlag bool
	outputFlag  string
	fileFlag    string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "streamchat [prompt]",
	Short: "Terminal client for a streaming chat backend",
	Long: `streamchat is a terminal client for a chat backend that streams
its replies as newline-delimited JSON. Replies render incrementally,
and the conversation transcript persists between sessions.

Examples:
  streamchat chat                      Start interactive chat
  streamchat config                    Show settings
  streamchat "What is Go?"             Send a single query
  streamchat -f prompt.md              Read prompt from file
  cat prompt.md | streamchat           Read prompt from stdin
  streamchat "Hello" -o response.md    Save response to file`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Check for version flag
		if v, _ := cmd.Flags().GetBool("version"); v {
			fmt.Printf("streamchat %s (built %s)\n", Version, BuildTime)
			return nil
		}

		// Check for stdin input
		stat, _ := os.Stdin.Stat()
		hasStdin := (stat.Mode() & os.ModeCharDevice) == 0

		// Check for file input
		if fileFlag != "" {
			data, err := os.ReadFile(fileFlag)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			return runQuery(string(data))
		}

		// Check for stdin
		if hasStdin {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			}
			return runQuery(string(data))
		}

		// Check for positional argument
		if len(args) > 0 {
			return runQuery(args[0])
		}

		// No input - show help
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&serverFlag, "server", "s", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVarP(&modelFlag, "model", "m", "", "Model name sent with requests")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "V", false, "Enable diagnostic output")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadRuntimeConfig merges the persisted configuration with flag overrides.
func loadRuntimeConfig() config.Config {
	cfg, err := config.LoadConfig()
	if err != nil && verboseFlag {
		fmt.Fprintf(os.Stderr, "streamchat: %v\n", err)
	}

	if serverFlag != "" {
		cfg.ServerURL = serverFlag
	}
	if modelFlag != "" {
		cfg.DefaultModel = modelFlag
	}
	if verboseFlag {
		cfg.Verbose = true
	}

	return cfg
}
