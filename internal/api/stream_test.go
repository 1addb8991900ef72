package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	apierrors "github.com/diogo/streamchat/internal/errors"
	"github.com/diogo/streamchat/internal/models"
)

// streamServer returns an httptest server that writes the given lines
// as the response body, flushing between lines.
func streamServer(t *testing.T, lines []string, capture *[]models.Message) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != models.ChatEndpoint {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method: %s", r.Method)
		}

		if capture != nil {
			var req struct {
				Messages []models.Message `json:"messages"`
			}
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &req); err != nil {
				t.Errorf("request body not JSON: %v", err)
			}
			*capture = req.Messages
		}

		flusher, _ := w.(http.Flusher)
		for _, line := range lines {
			_, _ = io.WriteString(w, line+"\n")
			if flusher != nil {
				flusher.Flush()
			}
		}
	}))
}

func TestStreamChat_Accumulates(t *testing.T) {
	srv := streamServer(t, []string{
		`{"response":"Hel"}`,
		`{"response":"lo"}`,
	}, nil)
	defer srv.Close()

	client := NewClient(srv.URL)

	var calls []string
	final, err := client.StreamChat(context.Background(), nil, func(cumulative string) error {
		calls = append(calls, cumulative)
		return nil
	})
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}

	if final != "Hello" {
		t.Errorf("final = %q, want %q", final, "Hello")
	}

	want := []string{"Hel", "Hello"}
	if len(calls) != len(want) {
		t.Fatalf("callback invoked %d times, want %d: %v", len(calls), len(want), calls)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("calls[%d] = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestStreamChat_SkipsMalformedLines(t *testing.T) {
	srv := streamServer(t, []string{
		`not json`,
		`{"response":"ok"}`,
	}, nil)
	defer srv.Close()

	client := NewClient(srv.URL)

	final, err := client.StreamChat(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("malformed line should not abort the exchange: %v", err)
	}

	if final != "ok" {
		t.Errorf("final = %q, want %q", final, "ok")
	}
}

func TestStreamChat_IgnoresLinesWithoutResponse(t *testing.T) {
	srv := streamServer(t, []string{
		`{"model":"test"}`,
		`{"response":"a"}`,
		`{"done":true}`,
	}, nil)
	defer srv.Close()

	client := NewClient(srv.URL)

	var calls int
	final, err := client.StreamChat(context.Background(), nil, func(string) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}

	if final != "a" {
		t.Errorf("final = %q, want %q", final, "a")
	}
	if calls != 1 {
		t.Errorf("callback invoked %d times, want 1", calls)
	}
}

func TestStreamChat_FinalLineWithoutNewline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"response":"first"}`+"\n")
		_, _ = io.WriteString(w, `{"response":" last"}`) // no trailing newline
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	final, err := client.StreamChat(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}

	if final != "first last" {
		t.Errorf("final = %q, want %q", final, "first last")
	}
}

func TestStreamChat_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)

	_, err := client.StreamChat(context.Background(), nil, nil)
	if err == nil {
		t.Fatal("expected error for 500 status")
	}

	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
	if !errors.Is(err, apierrors.ErrRequestFailed) {
		t.Error("error should match ErrRequestFailed")
	}
}

func TestStreamChat_NetworkFailure(t *testing.T) {
	// Point at a server that is already closed
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL)

	_, err := client.StreamChat(context.Background(), nil, nil)
	if !errors.Is(err, apierrors.ErrRequestFailed) {
		t.Errorf("expected RequestFailed error, got %v", err)
	}
}

func TestStreamChat_SendsTranscript(t *testing.T) {
	var got []models.Message
	srv := streamServer(t, []string{`{"response":"hi"}`}, &got)
	defer srv.Close()

	client := NewClient(srv.URL)

	transcript := []models.Message{
		models.AssistantMessage(models.WelcomeText),
		models.UserMessage("How are you?"),
	}

	if _, err := client.StreamChat(context.Background(), transcript, nil); err != nil {
		t.Fatalf("StreamChat failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("backend received %d messages, want 2", len(got))
	}
	if got[1].Role != models.RoleUser || got[1].Content != "How are you?" {
		t.Errorf("last message = %+v", got[1])
	}
}

func TestStreamChat_CallbackErrorAborts(t *testing.T) {
	srv := streamServer(t, []string{
		`{"response":"a"}`,
		`{"response":"b"}`,
	}, nil)
	defer srv.Close()

	client := NewClient(srv.URL)

	abort := errors.New("stop")
	_, err := client.StreamChat(context.Background(), nil, func(string) error {
		return abort
	})

	if !errors.Is(err, abort) {
		t.Errorf("expected callback error to propagate, got %v", err)
	}
}

func TestExtractFragment(t *testing.T) {
	tests := []struct {
		name string
		line string
		text string
		ok   bool
	}{
		{"plain", `{"response":"hi"}`, "hi", true},
		{"with extras", `{"model":"m","response":"x","done":false}`, "x", true},
		{"empty line", "", "", false},
		{"whitespace", "   \t", "", false},
		{"not json", "not json", "", false},
		{"truncated json", `{"response":"hi`, "", false},
		{"no response field", `{"done":true}`, "", false},
		{"non-string response", `{"response":42}`, "", false},
		{"trailing newline", `{"response":"hi"}` + "\n", "hi", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, ok := extractFragment(tt.line)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if text != tt.text {
				t.Errorf("text = %q, want %q", text, tt.text)
			}
		})
	}
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	client := NewClient("http://localhost:8080/")
	if client.BaseURL() != "http://localhost:8080" {
		t.Errorf("BaseURL = %q", client.BaseURL())
	}
}
