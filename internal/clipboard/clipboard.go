// Package clipboard defines the clipboard abstraction used by the CLI and
// the TUI. Implementations live in subpackages: nativeboard talks to the OS
// clipboard directly, sysboard shells out to pbcopy/xclip/xsel and
// mockboard keeps data in memory for tests.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yiblet/lifesaver/internal/clipboard/nativeboard"
	"github.com/yiblet/lifesaver/internal/clipboard/sysboard"
)

// Clipboard reads and writes clipboard content.
type Clipboard interface {
	Read() (io.ReadCloser, error)
	Write(r io.Reader) error
	IsSupported() bool
}

var (
	// ErrEmpty is returned by WriteText for empty output.
	ErrEmpty = errors.New("output is empty, nothing to copy")
	// ErrUnsupported is returned when no clipboard is available.
	ErrUnsupported = errors.New("clipboard is not available on this system")
)

// Detect returns the first supported clipboard: the native one, then the
// command-line one. When neither works the command-line clipboard is
// returned so errors name the missing tools.
func Detect() Clipboard {
	if nb := nativeboard.New(); nb.IsSupported() {
		return nb
	}
	return sysboard.New()
}

// ReadText reads the whole clipboard as a string.
func ReadText(c Clipboard) (string, error) {
	if !c.IsSupported() {
		return "", ErrUnsupported
	}

	r, err := c.Read()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	defer r.Close()

	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return sb.String(), nil
}

// WriteText replaces the clipboard content with text. Empty text is refused
// with ErrEmpty.
func WriteText(c Clipboard, text string) error {
	if text == "" {
		return ErrEmpty
	}
	if !c.IsSupported() {
		return ErrUnsupported
	}

	if err := c.Write(bytes.NewReader([]byte(text))); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}
