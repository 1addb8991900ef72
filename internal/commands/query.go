package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/diogo/streamchat/internal/api"
	"github.com/diogo/streamchat/internal/config"
	"github.com/diogo/streamchat/internal/models"
	"github.com/diogo/streamchat/internal/render"
	"github.com/diogo/streamchat/internal/storage"
	"github.com/diogo/streamchat/internal/transcript"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"), // Red
	lipgloss.Color("#feca57"), // Yellow
	lipgloss.Color("#48dbfb"), // Cyan
	lipgloss.Color("#ff9ff3"), // Pink
	lipgloss.Color("#54a0ff"), // Blue
	lipgloss.Color("#5f27cd"), // Purple
	lipgloss.Color("#00d2d3"), // Teal
	lipgloss.Color("#1dd1a1"), // Green
}

var (
	colorText     = lipgloss.Color("#c0caf5")
	colorTextMute = lipgloss.Color("#3b4261")
	colorPrimary  = lipgloss.Color("#7aa2f7")
)

var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginTop(1).
				MarginBottom(1)
)

// runQuery sends a single prompt and prints the reply. On a terminal
// the reply renders as markdown when the stream completes; when piped,
// fragments stream through as they arrive.
func runQuery(prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return fmt.Errorf("empty prompt")
	}

	cfg := loadRuntimeConfig()

	backend, err := storage.DefaultBackend()
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	store := transcript.NewStore(backend, transcript.WithVerbose(cfg.Verbose))

	store.Append(models.UserMessage(prompt))
	outbound := store.Messages()

	client := api.NewClient(cfg.ServerURL,
		api.WithModel(cfg.DefaultModel),
		api.WithVerbose(cfg.Verbose),
	)

	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	interactive := isTTY && outputFlag == ""

	var onFragment api.FragmentFunc
	var printed int
	if !isTTY && outputFlag == "" {
		// Piped: stream raw fragments straight through
		onFragment = func(cumulative string) error {
			fmt.Print(cumulative[printed:])
			printed = len(cumulative)
			return nil
		}
	}

	var spin *spinner
	if isTTY {
		spin = newSpinner("Waiting for reply")
		spin.start()
	}

	final, err := client.StreamChat(context.Background(), outbound, onFragment)
	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		// The failure becomes part of the durable transcript
		store.Append(models.AssistantMessage(models.FallbackErrorText))
		fmt.Fprintln(os.Stderr, models.FallbackErrorText)
		return err
	}

	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	store.Append(models.AssistantMessage(final))

	switch {
	case outputFlag != "":
		if err := os.WriteFile(outputFlag, []byte(final), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Printf("Response saved to %s\n", outputFlag)
	case interactive:
		printRendered(cfg, final)
	default:
		// Piped: fragments already streamed; terminate the line
		fmt.Println()
	}

	if cfg.CopyToClipboard {
		if err := clipboard.WriteAll(final); err == nil {
			fmt.Fprintln(os.Stderr, "Copied to clipboard")
		}
	}

	return nil
}

// printRendered draws the reply as a markdown bubble sized to the
// terminal.
func printRendered(cfg config.Config, content string) {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 24 {
		width = w - 4
	}

	fn := render.Capability(render.LoadOptionsFromConfig(cfg))
	rendered := fn(content, width-4)

	label := assistantLabelStyle.Render("✦ Assistant")
	bubble := assistantBubbleStyle.Width(width).Render(rendered)

	fmt.Println(label)
	fmt.Println(bubble)
}

// spinner handles the animated loading indicator
type spinner struct {
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool // Flag to prevent double-close
}

// newSpinner creates a new animated spinner
func newSpinner(message string) *spinner {
	return &spinner{
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// start begins the animation
func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(os.Stderr, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(os.Stderr, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				s.render()
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// render draws the current animation frame
func (s *spinner) render() {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

	spinIdx := s.frame % len(chars)
	spinColor := gradientColors[s.frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	dots := ""
	numDots := (s.frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dotColor := gradientColors[(s.frame+i)%len(gradientColors)]
		dots += lipgloss.NewStyle().Foreground(dotColor).Render("●")
	}
	for i := numDots; i < 3; i++ {
		dots += lipgloss.NewStyle().Foreground(colorTextMute).Render("○")
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" " + s.message + " ")

	fmt.Fprintf(os.Stderr, "\r\033[K%s%s%s", spin, text, dots)
}

// stopAnimation halts the animation goroutine once
func (s *spinner) stopAnimation() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	close(s.stop)
	<-s.done
}

// stopWithSuccess stops the spinner and prints a success message
func (s *spinner) stopWithSuccess(message string) {
	s.stopAnimation()
	check := lipgloss.NewStyle().Foreground(lipgloss.Color("#1dd1a1")).Bold(true).Render("✓")
	fmt.Fprintf(os.Stderr, "%s %s\n", check, message)
}

// stopWithError stops the spinner without a success message
func (s *spinner) stopWithError() {
	s.stopAnimation()
}
