// Package nativeboard implements the clipboard on top of golang.design/x/clipboard,
// which talks to the platform clipboard without external commands.
package nativeboard

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

func initClipboard() error {
	initOnce.Do(func() {
		initErr = clipboard.Init()
	})
	return initErr
}

// NativeClipboard implements Clipboard using the platform clipboard API.
type NativeClipboard struct{}

// New creates a new NativeClipboard instance
func New() *NativeClipboard {
	return &NativeClipboard{}
}

// IsSupported reports whether the platform clipboard could be initialized.
// On Linux this needs a running X server.
func (n *NativeClipboard) IsSupported() bool {
	return initClipboard() == nil
}

// Read implements Clipboard.Read for NativeClipboard
func (n *NativeClipboard) Read() (io.ReadCloser, error) {
	if err := initClipboard(); err != nil {
		return nil, fmt.Errorf("failed to initialize clipboard: %w", err)
	}
	return io.NopCloser(bytes.NewReader(clipboard.Read(clipboard.FmtText))), nil
}

// Write implements Clipboard.Write for NativeClipboard
func (n *NativeClipboard) Write(r io.Reader) error {
	if err := initClipboard(); err != nil {
		return fmt.Errorf("failed to initialize clipboard: %w", err)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, data)
	return nil
}
