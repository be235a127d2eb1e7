// Package sysboard implements clipboard operations by running platform
// commands: pbcopy/pbpaste on macOS, and wl-copy/wl-paste, xclip or xsel on
// Linux, in that order.
package sysboard

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// tool is a pair of commands that read and write the clipboard.
type tool struct {
	read  []string
	write []string
}

var tools = map[string][]tool{
	"darwin": {
		{read: []string{"pbpaste"}, write: []string{"pbcopy"}},
	},
	"linux": {
		{read: []string{"wl-paste", "--no-newline"}, write: []string{"wl-copy"}},
		{read: []string{"xclip", "-selection", "clipboard", "-o"}, write: []string{"xclip", "-selection", "clipboard"}},
		{read: []string{"xsel", "--clipboard", "--output"}, write: []string{"xsel", "--clipboard", "--input"}},
	},
}

// SystemClipboard implements Clipboard using system commands
type SystemClipboard struct {
	goos     string
	lookPath func(string) (string, error)
}

// New creates a new SystemClipboard instance
func New() *SystemClipboard {
	return &SystemClipboard{goos: runtime.GOOS, lookPath: exec.LookPath}
}

// available returns the installed tools in preference order.
func (s *SystemClipboard) available() []tool {
	var found []tool
	for _, t := range tools[s.goos] {
		if _, err := s.lookPath(t.read[0]); err != nil {
			continue
		}
		if _, err := s.lookPath(t.write[0]); err != nil {
			continue
		}
		found = append(found, t)
	}
	return found
}

// IsSupported returns true if a clipboard command is installed.
func (s *SystemClipboard) IsSupported() bool {
	return len(s.available()) > 0
}

func (s *SystemClipboard) unsupported() error {
	candidates := tools[s.goos]
	if len(candidates) == 0 {
		return fmt.Errorf("clipboard operations not supported on %s", s.goos)
	}
	names := make([]string, len(candidates))
	for i, t := range candidates {
		names[i] = t.write[0]
	}
	return fmt.Errorf("no clipboard command found (install one of: %s)", strings.Join(names, ", "))
}

// Read implements Clipboard.Read for SystemClipboard
func (s *SystemClipboard) Read() (io.ReadCloser, error) {
	found := s.available()
	if len(found) == 0 {
		return nil, s.unsupported()
	}

	var lastErr error
	for _, t := range found {
		rc, err := readWithCommand(t.read[0], t.read[1:]...)
		if err == nil {
			return rc, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("failed to read clipboard: %w", lastErr)
}

// Write implements Clipboard.Write for SystemClipboard. Only the first
// installed tool is tried since r can be consumed once.
func (s *SystemClipboard) Write(r io.Reader) error {
	found := s.available()
	if len(found) == 0 {
		return s.unsupported()
	}

	t := found[0]
	if err := writeWithCommand(r, t.write[0], t.write[1:]...); err != nil {
		return fmt.Errorf("failed to run %s: %w", t.write[0], err)
	}
	return nil
}

// cmdReadCloser wraps a command's stdout and ensures the command is waited on when closed
type cmdReadCloser struct {
	stdout io.ReadCloser
	cmd    *exec.Cmd
}

func (c *cmdReadCloser) Read(p []byte) (n int, err error) {
	return c.stdout.Read(p)
}

func (c *cmdReadCloser) Close() error {
	if err := c.stdout.Close(); err != nil {
		c.cmd.Wait()
		return err
	}

	if runtime.GOOS != "windows" {
		c.cmd.Process.Signal(os.Interrupt)
	}
	c.cmd.Wait()
	return nil
}

// readWithCommand starts a command and streams its output.
func readWithCommand(name string, args ...string) (io.ReadCloser, error) {
	cmd := exec.Command(name, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}

	return &cmdReadCloser{stdout: stdout, cmd: cmd}, nil
}

// writeWithCommand executes a command with data as stdin
func writeWithCommand(r io.Reader, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = r

	return cmd.Run()
}
