// Package mockboard provides an in-memory clipboard for tests.
package mockboard

import (
	"bytes"
	"io"
	"sync"
)

// MockClipboard implements Clipboard for testing
type MockClipboard struct {
	mu     sync.Mutex
	data   []byte
	err    error
	writes int
}

// New creates a new MockClipboard instance
func New() *MockClipboard {
	return &MockClipboard{}
}

// Read implements Clipboard.Read for MockClipboard
func (m *MockClipboard) Read() (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return nil, m.err
	}
	return io.NopCloser(bytes.NewReader(bytes.Clone(m.data))), nil
}

// Write implements Clipboard.Write for MockClipboard
func (m *MockClipboard) Write(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}
	m.data = data
	m.writes++
	return nil
}

// SetData sets the mock clipboard data directly (for testing)
func (m *MockClipboard) SetData(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
}

// GetData returns the current clipboard data (for testing)
func (m *MockClipboard) GetData() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data
}

// SetError makes every subsequent Read and Write fail with err.
func (m *MockClipboard) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Writes returns how many successful writes happened.
func (m *MockClipboard) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// IsSupported always returns true for the mock clipboard
func (m *MockClipboard) IsSupported() bool {
	return true
}
