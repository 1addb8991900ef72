// Package storage provides durable key-value persistence for streamchat.
//
// The backend has deliberately loose semantics: reads tolerate absence
// (first run) and callers treat malformed content as absence. Writes are
// synchronous and best-effort.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apierrors "github.com/diogo/streamchat/internal/errors"
)

// Backend is the durable key-value collaborator used by the transcript
// store. Implementations must tolerate missing keys.
type Backend interface {
	// Get returns the value for key. The second return is false when
	// the key has never been written.
	Get(key string) ([]byte, bool, error)
	// Set writes the value for key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes the key. Deleting a missing key is not an error.
	Delete(key string) error
}

// FileBackend stores each key as a file in a base directory.
type FileBackend struct {
	baseDir string
}

// NewFileBackend creates a file-backed store rooted at baseDir,
// creating the directory if needed.
func NewFileBackend(baseDir string) (*FileBackend, error) {
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, apierrors.NewStorageError("mkdir", baseDir, err)
	}
	return &FileBackend{baseDir: baseDir}, nil
}

// BaseDir returns the backing directory.
func (b *FileBackend) BaseDir() string {
	return b.baseDir
}

func (b *FileBackend) path(key string) (string, error) {
	// Keys are plain names, never paths
	if key == "" || strings.ContainsAny(key, "/\\") {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return filepath.Join(b.baseDir, key), nil
}

// Get implements Backend.
func (b *FileBackend) Get(key string) ([]byte, bool, error) {
	path, err := b.path(key)
	if err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, apierrors.NewStorageError("read", key, err)
	}

	return data, true, nil
}

// Set implements Backend.
func (b *FileBackend) Set(key string, value []byte) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, value, 0o600); err != nil {
		return apierrors.NewStorageError("write", key, err)
	}

	return nil
}

// Delete implements Backend.
func (b *FileBackend) Delete(key string) error {
	path, err := b.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return apierrors.NewStorageError("delete", key, err)
	}

	return nil
}

// DefaultBackend creates a file backend under the user config directory.
func DefaultBackend() (*FileBackend, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return NewFileBackend(filepath.Join(home, ".streamchat"))
}
