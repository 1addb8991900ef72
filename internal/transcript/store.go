// Package transcript provides the persisted chat transcript for one session.
package transcript

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/diogo/streamchat/internal/models"
	"github.com/diogo/streamchat/internal/storage"
)

// HistoryKey is the storage key holding the serialized transcript.
const HistoryKey = "history.json"

// Store manages the ordered, append-only message transcript. The
// in-memory copy is authoritative for the session; every append is
// mirrored to durable storage best-effort.
type Store struct {
	backend storage.Backend
	verbose bool

	mu       sync.RWMutex
	messages []models.Message
	loaded   bool
}

// Option configures a Store.
type Option func(*Store)

// WithVerbose enables diagnostic output for persistence failures.
func WithVerbose(enabled bool) Option {
	return func(s *Store) {
		s.verbose = enabled
	}
}

// NewStore creates a transcript store over the given backend.
func NewStore(backend storage.Backend, opts ...Option) *Store {
	s := &Store{backend: backend}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultStore creates a store using the default storage location.
func DefaultStore() (*Store, error) {
	backend, err := storage.DefaultBackend()
	if err != nil {
		return nil, err
	}
	return NewStore(backend), nil
}

// defaultTranscript is the cold-start transcript: a single welcome
// message from the assistant.
func defaultTranscript() []models.Message {
	return []models.Message{models.AssistantMessage(models.WelcomeText)}
}

// Load initializes the in-memory transcript from storage. A missing or
// unparseable persisted transcript degrades to the default welcome
// transcript; storage faults are never surfaced to the caller. Calling
// Load again without an intervening Append returns an equal transcript.
func (s *Store) Load() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = s.loadLocked()
	s.loaded = true
	return copyMessages(s.messages)
}

func (s *Store) loadLocked() []models.Message {
	data, ok, err := s.backend.Get(HistoryKey)
	if err != nil {
		s.logf("failed to read history: %v", err)
		return defaultTranscript()
	}
	if !ok {
		return defaultTranscript()
	}

	var msgs []models.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		s.logf("corrupt history, starting fresh: %v", err)
		return defaultTranscript()
	}
	if len(msgs) == 0 {
		return defaultTranscript()
	}

	return msgs
}

// Append adds a message to the end of the transcript and persists the
// full transcript. Persist failure is logged, not propagated.
func (s *Store) Append(msg models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.messages = s.loadLocked()
		s.loaded = true
	}

	s.messages = append(s.messages, msg)
	s.persistLocked()
}

func (s *Store) persistLocked() {
	data, err := json.MarshalIndent(s.messages, "", "  ")
	if err != nil {
		s.logf("failed to marshal history: %v", err)
		return
	}

	if err := s.backend.Set(HistoryKey, data); err != nil {
		s.logf("failed to persist history: %v", err)
	}
}

// Messages returns a read-only copy of the current transcript.
func (s *Store) Messages() []models.Message {
	s.ensureLoaded()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyMessages(s.messages)
}

func (s *Store) ensureLoaded() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.loaded {
		s.messages = s.loadLocked()
		s.loaded = true
	}
}

// Len returns the number of messages in the transcript.
func (s *Store) Len() int {
	s.ensureLoaded()

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}

// Clear resets the transcript to the default welcome state and
// persists the reset.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.messages = defaultTranscript()
	s.loaded = true
	s.persistLocked()
}

func (s *Store) logf(format string, args ...interface{}) {
	if s.verbose {
		fmt.Fprintf(os.Stderr, "streamchat: "+format+"\n", args...)
	}
}

func copyMessages(msgs []models.Message) []models.Message {
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out
}
