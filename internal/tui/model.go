package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/streamchat/internal/api"
	"github.com/diogo/streamchat/internal/config"
	"github.com/diogo/streamchat/internal/models"
	"github.com/diogo/streamchat/internal/render"
)

// Animation tick message
type animationTickMsg time.Time

// Message types for the TUI
type (
	// fragmentMsg carries the cumulative reply text after one fragment
	fragmentMsg struct {
		cumulative string
	}
	// exchangeDoneMsg is sent when the stream ends or fails
	exchangeDoneMsg struct {
		final string
		err   error
	}
	// toastClearMsg hides the transient feedback line
	toastClearMsg struct{}
)

// StreamClient defines the backend operations needed by the TUI
type StreamClient interface {
	StreamChat(ctx context.Context, messages []models.Message, onFragment api.FragmentFunc) (string, error)
}

// TranscriptStore defines the history operations needed by the TUI
type TranscriptStore interface {
	Load() []models.Message
	Append(msg models.Message)
	Messages() []models.Message
}

// Model represents the TUI state
type Model struct {
	client StreamClient
	store  TranscriptStore
	cfg    config.Config

	// Markdown render capability (raw-text fallback built in)
	renderMarkdown render.Func

	// UI components
	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	// State
	messages       []models.Message
	loading        bool // busy flag: at most one exchange in flight
	pending        bool // last entry in messages is the in-flight reply
	ready          bool
	err            error
	toast          string
	animationFrame int

	// Exchange events are delivered through this channel so the
	// stream goroutine never touches the model directly.
	events chan tea.Msg

	// Dimensions
	width  int
	height int
}

// NewChatModel creates a new chat TUI model. The transcript is loaded
// from the store up front.
func NewChatModel(client StreamClient, store TranscriptStore, cfg config.Config) Model {
	ApplyTheme(cfg.Theme)

	// Create textarea for input
	ta := textarea.New()
	ta.Placeholder = "Type your message here..."
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	// Style the textarea
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	// Create spinner
	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	return Model{
		client:         client,
		store:          store,
		cfg:            cfg,
		renderMarkdown: render.Capability(render.LoadOptionsFromConfig(cfg)),
		textarea:       ta,
		spinner:        s,
		messages:       store.Load(),
		events:         make(chan tea.Msg, 32),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

// animationTick returns a command that sends animation tick messages
func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Calculate component heights
		headerHeight := 4 // Header panel with border
		inputHeight := 6  // Input panel with border
		statusHeight := 1 // Status bar
		padding := 2      // Extra spacing

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		// Initialize viewport on first size message
		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.textarea.SetWidth(contentWidth - 4)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
			m.textarea.SetWidth(contentWidth - 4)
		}
		m.updateViewport()
		m.viewport.GotoBottom()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "esc":
			if !m.loading {
				return m, tea.Quit
			}

		case "ctrl+t":
			return m.toggleTheme()

		case "ctrl+y":
			return m.copyLastReply()

		case "enter":
			if cmd, ok := m.submit(); ok {
				return m, cmd
			}
		}

	case fragmentMsg:
		// Full-replace re-render of the pending node from the
		// cumulative text; no incremental patching.
		if m.pending && len(m.messages) > 0 {
			m.messages[len(m.messages)-1].Content = msg.cumulative
			m.updateViewport()
			m.viewport.GotoBottom()
		}
		cmds = append(cmds, m.waitForEvent())

	case exchangeDoneMsg:
		m.loading = false
		m.settleExchange(msg.final, msg.err)

	case toastClearMsg:
		m.toast = ""

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Update child components - only pass KeyMsg to textarea to prevent escape sequence leaks
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// submit validates the input and starts an exchange. Empty input and
// submissions while an exchange is in flight are rejected before any
// network activity.
func (m *Model) submit() (tea.Cmd, bool) {
	if m.loading {
		return nil, false
	}

	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return nil, false
	}

	// Check for exit commands
	if input == "exit" || input == "quit" || input == "/exit" || input == "/quit" {
		return tea.Quit, true
	}

	// Append the user entry; the store persists it immediately
	userMsg := models.UserMessage(input)
	m.store.Append(userMsg)
	m.messages = append(m.messages, userMsg)

	// Snapshot the outbound context before inserting the pending node
	outbound := m.store.Messages()

	// Insert the pending assistant node the stream updates in place
	m.messages = append(m.messages, models.AssistantMessage(""))
	m.pending = true

	m.updateViewport()
	m.viewport.GotoBottom()

	m.loading = true
	m.err = nil
	m.toast = ""
	m.animationFrame = 0
	m.textarea.Reset()

	return tea.Batch(
		m.startExchange(outbound),
		m.waitForEvent(),
		m.spinner.Tick,
		animationTick(),
	), true
}

// settleExchange finishes the pending node and persists the reply.
// Called on every outcome so the ready state is always restored.
func (m *Model) settleExchange(final string, err error) {
	content := final
	if err != nil {
		content = models.FallbackErrorText
		m.err = err
	}

	if m.pending && len(m.messages) > 0 {
		// The pending element already holds the streamed content;
		// on failure it is replaced by the fixed fallback text.
		m.messages[len(m.messages)-1].Content = content
		m.pending = false
	} else {
		m.messages = append(m.messages, models.AssistantMessage(content))
	}

	m.store.Append(models.AssistantMessage(content))

	m.updateViewport()
	m.viewport.GotoBottom()
}

// startExchange runs the stream in the background, forwarding events
// through the channel.
func (m Model) startExchange(outbound []models.Message) tea.Cmd {
	client := m.client
	events := m.events

	return func() tea.Msg {
		final, err := client.StreamChat(context.Background(), outbound, func(cumulative string) error {
			events <- fragmentMsg{cumulative: cumulative}
			return nil
		})
		events <- exchangeDoneMsg{final: final, err: err}
		return nil
	}
}

// waitForEvent delivers the next exchange event to the update loop.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return <-events
	}
}

// toggleTheme flips light/dark, persists the preference, and
// re-renders the transcript with the new palette.
func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	if m.cfg.Theme == config.ThemeDark {
		m.cfg.Theme = config.ThemeLight
	} else {
		m.cfg.Theme = config.ThemeDark
	}

	ApplyTheme(m.cfg.Theme)
	m.renderMarkdown = render.Capability(render.LoadOptionsFromConfig(m.cfg))

	// Preference persistence is best-effort
	_ = config.SaveConfig(m.cfg)

	m.updateViewport()
	m.toast = "Theme: " + m.cfg.Theme

	return m, clearToastLater()
}

// copyLastReply copies the most recent assistant message to the clipboard.
func (m Model) copyLastReply() (tea.Model, tea.Cmd) {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Role == models.RoleAssistant && m.messages[i].Content != "" {
			if err := clipboard.WriteAll(m.messages[i].Content); err != nil {
				m.toast = "Clipboard unavailable"
			} else {
				m.toast = "Copied last reply"
			}
			return m, clearToastLater()
		}
	}
	return m, nil
}

func clearToastLater() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return toastClearMsg{}
	})
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	// Header
	headerParts := []string{
		titleStyle.Render("✦ streamchat"),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.cfg.ServerURL),
		hintStyle.Render("  •  "),
		subtitleStyle.Render(m.cfg.Theme),
	}
	headerContent := lipgloss.JoinHorizontal(lipgloss.Center, headerParts...)
	header := headerStyle.Width(contentWidth).Render(headerContent)
	sections = append(sections, header)

	// Messages area
	var messagesContent string
	if len(m.messages) == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}

	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)
	sections = append(sections, messagesPanel)

	// Input area
	var inputContent string
	if m.loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}

	inputPanel := inputPanelStyle.Width(contentWidth).Render(inputContent)
	sections = append(sections, inputPanel)

	// Status bar
	sections = append(sections, m.renderStatusBar(contentWidth))

	// Transient feedback
	if m.toast != "" {
		sections = append(sections, toastStyle.Render("  "+m.toast))
	}

	// Error display
	if m.err != nil {
		sections = append(sections, errorStyle.Render(fmt.Sprintf("⚠ Error: %v", m.err)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderWelcome renders the welcome screen when no messages exist
func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("✦")
	title := welcomeTitleStyle.Width(width).Render("Welcome to streamchat")
	subtitle := welcomeStyle.Width(width).Render("Start a conversation by typing a message below")

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		icon,
		"",
		title,
		"",
		subtitle,
		"",
	)

	// Center vertically
	contentHeight := lipgloss.Height(content)
	topPadding := (height - contentHeight) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation renders a colorful animated loading indicator
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame

	spinIdx := frame % len(chars)
	spinColor := gradientColors[frame%len(gradientColors)]
	spin := lipgloss.NewStyle().Foreground(spinColor).Bold(true).Render(chars[spinIdx])

	barWidth := 20
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		colorIdx := (i + frame) % len(gradientColors)
		charIdx := (i + frame/2) % len(barChars)

		style := lipgloss.NewStyle().Foreground(gradientColors[colorIdx])
		bar.WriteString(style.Render(barChars[charIdx]))
	}

	dots := ""
	numDots := (frame / 3) % 4
	for i := 0; i < numDots; i++ {
		dotColor := gradientColors[(frame+i)%len(gradientColors)]
		dots += lipgloss.NewStyle().Foreground(dotColor).Render("●")
	}
	for i := numDots; i < 3; i++ {
		dots += lipgloss.NewStyle().Foreground(colorTextMute).Render("○")
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Assistant is replying ")

	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots)
}

// renderStatusBar renders the bottom status bar with shortcuts
func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+T", "Theme"},
		{"Ctrl+Y", "Copy"},
		{"Esc", "Quit"},
		{"↑↓", "Scroll"},
	}

	var items []string
	for _, s := range shortcuts {
		item := lipgloss.JoinHorizontal(
			lipgloss.Center,
			statusKeyStyle.Render(s.key),
			statusDescStyle.Render(" "+s.desc),
		)
		items = append(items, item)
	}

	bar := lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(items, "  │  "))
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// updateViewport refreshes the viewport content with styled messages
func (m *Model) updateViewport() {
	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6

	for i, msg := range m.messages {
		if i > 0 {
			content.WriteString("\n")
		}

		if msg.Role == models.RoleUser {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := assistantLabelStyle.Render("✦ Assistant")

			rendered := m.renderMarkdown(msg.Content, bubbleWidth-4)

			bubble := assistantBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI
func RunChat(client StreamClient, store TranscriptStore, cfg config.Config) error {
	m := NewChatModel(client, store, cfg)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
