package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diogo/streamchat/internal/api"
	"github.com/diogo/streamchat/internal/config"
	"github.com/diogo/streamchat/internal/models"
	"github.com/diogo/streamchat/internal/storage"
	"github.com/diogo/streamchat/internal/transcript"
)

// fakeClient records StreamChat invocations.
type fakeClient struct {
	calls int
}

func (f *fakeClient) StreamChat(ctx context.Context, messages []models.Message, onFragment api.FragmentFunc) (string, error) {
	f.calls++
	return "", nil
}

func newTestModel(t *testing.T) (Model, *fakeClient, *transcript.Store) {
	t.Helper()

	backend, err := storage.NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store := transcript.NewStore(backend)
	client := &fakeClient{}

	m := NewChatModel(client, store, config.DefaultConfig())

	// Initialize viewport dimensions
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), client, store
}

func pressEnter(t *testing.T, m Model) Model {
	t.Helper()

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model)
}

func TestNewChatModel_LoadsTranscript(t *testing.T) {
	m, _, _ := newTestModel(t)

	if len(m.messages) != 1 {
		t.Fatalf("expected welcome transcript, got %d messages", len(m.messages))
	}
	if m.messages[0].Role != models.RoleAssistant {
		t.Errorf("first message role = %q, want assistant", m.messages[0].Role)
	}
	if m.loading {
		t.Error("model should start idle")
	}
}

func TestSubmit_EmptyInput(t *testing.T) {
	m, _, store := newTestModel(t)

	for _, input := range []string{"", "   ", "\t\n"} {
		m.textarea.SetValue(input)
		m = pressEnter(t, m)

		if m.loading {
			t.Errorf("input %q should not start an exchange", input)
		}
		if store.Len() != 1 {
			t.Errorf("input %q mutated the transcript", input)
		}
	}
}

func TestSubmit_WhileBusy(t *testing.T) {
	m, _, store := newTestModel(t)

	m.textarea.SetValue("first")
	m = pressEnter(t, m)

	if !m.loading {
		t.Fatal("first submission should set the busy flag")
	}
	lenAfterFirst := store.Len()

	// A second submission while busy must be rejected outright
	m.textarea.SetValue("second")
	m = pressEnter(t, m)

	if store.Len() != lenAfterFirst {
		t.Error("busy submission mutated the transcript")
	}
}

func TestSubmit_AppendsUserMessage(t *testing.T) {
	m, _, store := newTestModel(t)

	m.textarea.SetValue("Hello there")
	m = pressEnter(t, m)

	msgs := store.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != models.RoleUser || last.Content != "Hello there" {
		t.Errorf("last stored message = %+v", last)
	}

	// Pending assistant node inserted locally, not persisted
	if !m.pending {
		t.Error("pending flag not set")
	}
	if got := m.messages[len(m.messages)-1]; got.Role != models.RoleAssistant || got.Content != "" {
		t.Errorf("pending node = %+v", got)
	}
	if m.textarea.Value() != "" {
		t.Error("input surface not cleared on accept")
	}
}

func TestFragment_UpdatesPendingNode(t *testing.T) {
	m, _, _ := newTestModel(t)

	m.textarea.SetValue("hi")
	m = pressEnter(t, m)

	updated, _ := m.Update(fragmentMsg{cumulative: "Hel"})
	m = updated.(Model)
	if got := m.messages[len(m.messages)-1].Content; got != "Hel" {
		t.Errorf("pending content = %q, want %q", got, "Hel")
	}

	updated, _ = m.Update(fragmentMsg{cumulative: "Hello"})
	m = updated.(Model)
	if got := m.messages[len(m.messages)-1].Content; got != "Hello" {
		t.Errorf("pending content = %q, want %q", got, "Hello")
	}
}

func TestExchangeDone_PersistsReply(t *testing.T) {
	m, _, store := newTestModel(t)

	m.textarea.SetValue("hi")
	m = pressEnter(t, m)

	updated, _ := m.Update(fragmentMsg{cumulative: "Hello"})
	m = updated.(Model)
	updated, _ = m.Update(exchangeDoneMsg{final: "Hello"})
	m = updated.(Model)

	if m.loading {
		t.Error("busy flag not cleared on completion")
	}
	if m.pending {
		t.Error("pending flag not cleared on completion")
	}

	msgs := store.Messages()
	last := msgs[len(msgs)-1]
	if last.Role != models.RoleAssistant || last.Content != "Hello" {
		t.Errorf("persisted reply = %+v", last)
	}
}

func TestExchangeDone_FailureFallback(t *testing.T) {
	m, _, store := newTestModel(t)

	m.textarea.SetValue("hi")
	m = pressEnter(t, m)
	before := store.Len()

	updated, _ := m.Update(exchangeDoneMsg{err: context.DeadlineExceeded})
	m = updated.(Model)

	if m.loading {
		t.Error("busy flag must clear on failure")
	}

	msgs := store.Messages()
	if len(msgs) != before+1 {
		t.Fatalf("expected exactly one new message, got %d -> %d", before, len(msgs))
	}
	last := msgs[len(msgs)-1]
	if last.Role != models.RoleAssistant || last.Content != models.FallbackErrorText {
		t.Errorf("fallback message = %+v", last)
	}

	// Display mirrors the persisted fallback
	if got := m.messages[len(m.messages)-1].Content; got != models.FallbackErrorText {
		t.Errorf("displayed content = %q", got)
	}
}

func TestToggleTheme(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	m, _, _ := newTestModel(t)
	if m.cfg.Theme != config.ThemeDark {
		t.Fatalf("unexpected initial theme %q", m.cfg.Theme)
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = updated.(Model)
	if m.cfg.Theme != config.ThemeLight {
		t.Errorf("theme = %q, want light", m.cfg.Theme)
	}

	// Preference is persisted independently of the transcript
	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Theme != config.ThemeLight {
		t.Errorf("persisted theme = %q, want light", cfg.Theme)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlT})
	m = updated.(Model)
	if m.cfg.Theme != config.ThemeDark {
		t.Errorf("second toggle should return to dark, got %q", m.cfg.Theme)
	}
}

func TestView_RendersAllMessages(t *testing.T) {
	m, _, store := newTestModel(t)

	store.Append(models.UserMessage("question one"))
	store.Append(models.AssistantMessage("answer one"))
	m.messages = store.Messages()
	m.updateViewport()

	view := m.View()
	for _, want := range []string{"question one", "answer one"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_NotReady(t *testing.T) {
	var m Model
	if got := m.View(); !strings.Contains(got, "Initializing") {
		t.Errorf("unexpected pre-init view: %q", got)
	}
}
