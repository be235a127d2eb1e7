package cli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yiblet/lifesaver/internal/appfs"
	"github.com/yiblet/lifesaver/internal/clipboard/mockboard"
	"github.com/yiblet/lifesaver/internal/config"
	"github.com/yiblet/lifesaver/internal/format"
	"github.com/yiblet/lifesaver/internal/store/memstore"
)

// testCLI bundles a CLI with its captured streams.
type testCLI struct {
	*CLI
	out   *bytes.Buffer
	err   *bytes.Buffer
	board *mockboard.MockClipboard
	dir   string
}

func newTestCLI(t *testing.T, stdin string) *testCLI {
	t.Helper()

	dir := t.TempDir()
	cm := config.NewConfigManagerWithPath(filepath.Join(dir, "config.yaml"))
	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("Load config: %v", err)
	}

	board := mockboard.New()
	c := newCLI(memstore.NewMemoryStore(), appfs.NewWithRoot(dir), board, cm, cfg)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	c.stdin = strings.NewReader(stdin)
	c.stdout = out
	c.stderr = errOut

	return &testCLI{CLI: c, out: out, err: errOut, board: board, dir: dir}
}

func (tc *testCLI) reset(stdin string) {
	tc.out.Reset()
	tc.err.Reset()
	tc.stdin = strings.NewReader(stdin)
}

func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }

func TestExtract_Stdin(t *testing.T) {
	tc := newTestCLI(t, "order 1, ref 007 and 12\n")

	if err := tc.Execute(&Args{Extract: &ExtractCmd{}}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := tc.out.String(); got != "1,007,12\n" {
		t.Errorf("stdout = %q, want %q", got, "1,007,12\n")
	}

	items, _ := tc.history.List()
	if len(items) != 1 || items[0].Output != "1,007,12" || items[0].Count != 3 {
		t.Errorf("history not recorded: %v", items)
	}
}

func TestExtract_ModeVerticalAndName(t *testing.T) {
	tc := newTestCLI(t, "a1b22")

	err := tc.Execute(&Args{Extract: &ExtractCmd{
		Mode:     stringPtr("comma_single_quotes"),
		Vertical: true,
		Name:     stringPtr("batch"),
	}})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := tc.out.String(); got != "'1'\n'22'\n" {
		t.Errorf("stdout = %q", got)
	}

	item, err := tc.history.Get(0)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	// History keeps the list form, not the vertical display.
	if item.Output != "'1','22'" || item.Name != "batch" || item.Mode != format.QuotedComma {
		t.Errorf("unexpected history item: %+v", item)
	}
}

func TestExtract_InvalidMode(t *testing.T) {
	tc := newTestCLI(t, "1")
	if err := tc.Execute(&Args{Extract: &ExtractCmd{Mode: stringPtr("tsv")}}); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestExtract_NoDigits(t *testing.T) {
	tc := newTestCLI(t, "no numbers here")

	if err := tc.Execute(&Args{Extract: &ExtractCmd{Copy: true}}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if tc.out.Len() != 0 {
		t.Errorf("expected no output, got %q", tc.out.String())
	}
	if !strings.Contains(tc.err.String(), "nothing to copy") {
		t.Errorf("expected empty-copy notice, got %q", tc.err.String())
	}
	if tc.board.Writes() != 0 {
		t.Error("empty output must not be copied")
	}
	if n, _ := tc.history.Size(); n != 0 {
		t.Errorf("empty output should not be recorded, size=%d", n)
	}
}

func TestExtract_TruncationAndStats(t *testing.T) {
	tc := newTestCLI(t, "12345 678")

	err := tc.Execute(&Args{Extract: &ExtractCmd{MaxChars: intPtr(3), Stats: true, NoHistory: true}})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := tc.out.String(); got != "123\n" {
		t.Errorf("stdout = %q, want 123", got)
	}

	stderr := tc.err.String()
	for _, want := range []string{
		"stdin: input too large: only the first 3 / 9 characters were parsed",
		"values: 1",
		"processed 3 / 9 chars",
		"elapsed:",
		"saved 0.1 minutes of life",
	} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
	if n, _ := tc.history.Size(); n != 0 {
		t.Error("--no-history should not record")
	}
}

func TestExtract_StatsSumsFiles(t *testing.T) {
	tc := newTestCLI(t, "")

	var files []string
	for i, content := range []string{"1234 5678", "ab 9"} {
		path := filepath.Join(tc.dir, fmt.Sprintf("stats%d.txt", i))
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		files = append(files, path)
	}

	err := tc.Execute(&Args{Extract: &ExtractCmd{Files: files, MaxChars: intPtr(6), Stats: true, NoHistory: true}})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if !strings.Contains(tc.err.String(), "processed 10 / 13 chars") {
		t.Errorf("stderr missing processed line:\n%s", tc.err.String())
	}
}

func TestExtract_FilesInArgumentOrder(t *testing.T) {
	tc := newTestCLI(t, "")

	var files []string
	for i, content := range []string{"a 1 b 2", "3", "x", "44;55"} {
		path := filepath.Join(tc.dir, "in"+string(rune('a'+i))+".txt")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		files = append(files, path)
	}

	if err := tc.Execute(&Args{Extract: &ExtractCmd{Files: files}}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := tc.out.String(); got != "1,2,3,44,55\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestExtract_MissingFile(t *testing.T) {
	tc := newTestCLI(t, "")
	err := tc.Execute(&Args{Extract: &ExtractCmd{Files: []string{filepath.Join(tc.dir, "nope.txt")}}})
	if err == nil || !strings.Contains(err.Error(), "nope.txt") {
		t.Errorf("expected file error, got %v", err)
	}
}

func TestExtract_ClipboardRoundTrip(t *testing.T) {
	tc := newTestCLI(t, "")
	tc.board.SetData([]byte("id\n0042\n0043\n"))

	if err := tc.Execute(&Args{Extract: &ExtractCmd{Clipboard: true, Copy: true}}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := string(tc.board.GetData()); got != "0042,0043" {
		t.Errorf("clipboard = %q", got)
	}
}

func TestExtractInputs_Order(t *testing.T) {
	inputs := []input{
		{name: "a", text: strings.Repeat("x", 10000) + "1"},
		{name: "b", text: "2"},
	}
	responses, err := extractInputs(context.Background(), inputs, -1)
	if err != nil {
		t.Fatalf("extractInputs failed: %v", err)
	}
	if responses[0].Result.Values[0] != "1" || responses[1].Result.Values[0] != "2" {
		t.Errorf("responses out of order: %+v", responses)
	}
	if responses[0].SequenceID != 1 || responses[1].SequenceID != 2 {
		t.Error("sequence ids should follow input order")
	}
}

func TestHistoryCommands(t *testing.T) {
	tc := newTestCLI(t, "")
	tc.history.Add("1,2", format.Comma, 2, "first")
	tc.history.Add("'3'", format.QuotedComma, 1, "second")

	if err := tc.Execute(&Args{History: &HistoryCmd{List: &HistoryListCmd{}}}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(tc.out.String()), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], "second") || !strings.Contains(lines[1], "first") {
		t.Errorf("unexpected list output:\n%s", tc.out.String())
	}

	tc.reset("")
	if err := tc.Execute(&Args{History: &HistoryCmd{Show: &HistoryShowCmd{Ref: "1", Vertical: true}}}); err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if tc.out.String() != "1\n2\n" {
		t.Errorf("show output = %q", tc.out.String())
	}

	tc.reset("")
	if err := tc.Execute(&Args{History: &HistoryCmd{Rename: &HistoryRenameCmd{Ref: "0", Name: "renamed"}}}); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	item, _ := tc.history.Get(0)
	if item.Name != "renamed" {
		t.Errorf("Name = %q", item.Name)
	}

	tc.reset("")
	if err := tc.Execute(&Args{History: &HistoryCmd{Rename: &HistoryRenameCmd{Ref: "0", Name: "  "}}}); err == nil {
		t.Error("expected error renaming to blank")
	}

	tc.reset("")
	if err := tc.Execute(&Args{History: &HistoryCmd{Show: &HistoryShowCmd{Ref: item.ID, Copy: true}}}); err != nil {
		t.Fatalf("show by id failed: %v", err)
	}
	if string(tc.board.GetData()) != "'3'" {
		t.Errorf("clipboard = %q", tc.board.GetData())
	}

	tc.reset("")
	if err := tc.Execute(&Args{History: &HistoryCmd{Search: &HistorySearchCmd{Query: "fst"}}}); err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if !strings.HasPrefix(strings.TrimSpace(tc.out.String()), "1 ") {
		t.Errorf("search should print the list index:\n%s", tc.out.String())
	}

	tc.reset("")
	if err := tc.Execute(&Args{History: &HistoryCmd{Search: &HistorySearchCmd{Query: "zzz"}}}); err == nil {
		t.Error("expected no-match error")
	}

	tc.reset("")
	if err := tc.Execute(&Args{History: &HistoryCmd{Stats: &HistoryStatsCmd{}}}); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if !strings.Contains(tc.out.String(), "entries: 2") || !strings.Contains(tc.out.String(), "values:  3") {
		t.Errorf("unexpected stats:\n%s", tc.out.String())
	}

	tc.reset("")
	if err := tc.Execute(&Args{History: &HistoryCmd{Remove: &HistoryRemoveCmd{Ref: "0"}}}); err != nil {
		t.Fatalf("rm failed: %v", err)
	}
	if n, _ := tc.history.Size(); n != 1 {
		t.Errorf("Size = %d after rm", n)
	}

	tc.reset("")
	if err := tc.Execute(&Args{History: &HistoryCmd{Show: &HistoryShowCmd{Ref: "5"}}}); err == nil {
		t.Error("expected out of range error")
	}
}

func TestHistoryClear_Confirm(t *testing.T) {
	tc := newTestCLI(t, "n\n")
	tc.history.Add("1", format.Comma, 1, "")

	if err := tc.Execute(&Args{History: &HistoryCmd{Clear: &HistoryClearCmd{}}}); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if n, _ := tc.history.Size(); n != 1 {
		t.Error("declined clear should keep items")
	}

	tc.reset("yes\n")
	if err := tc.Execute(&Args{History: &HistoryCmd{Clear: &HistoryClearCmd{}}}); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if n, _ := tc.history.Size(); n != 0 {
		t.Error("confirmed clear should remove items")
	}

	tc.reset("")
	if err := tc.Execute(&Args{History: &HistoryCmd{Clear: &HistoryClearCmd{Force: true}}}); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if !strings.Contains(tc.out.String(), "already empty") {
		t.Errorf("unexpected output %q", tc.out.String())
	}
}

func TestHistoryExportImport(t *testing.T) {
	src := newTestCLI(t, "")
	src.history.Add("1,2", format.Comma, 2, "a")
	src.history.Add("3", format.Comma, 1, "b")

	path := filepath.Join(src.dir, "history.json")
	if err := src.Execute(&Args{History: &HistoryCmd{Export: &HistoryExportCmd{File: &path}}}); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	dst := newTestCLI(t, "")
	if err := dst.Execute(&Args{History: &HistoryCmd{Import: &HistoryImportCmd{File: path}}}); err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if !strings.Contains(dst.out.String(), "Imported 2 item(s), skipped 0.") {
		t.Errorf("unexpected import output %q", dst.out.String())
	}
}

func TestConfigCommands(t *testing.T) {
	tc := newTestCLI(t, "")

	if err := tc.Execute(&Args{Config: &ConfigCmd{Set: &ConfigSetCmd{Key: "default-mode", Value: "comma_single_quotes"}}}); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	tc.reset("")
	if err := tc.Execute(&Args{Config: &ConfigCmd{Get: &ConfigGetCmd{Key: "default-mode"}}}); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if tc.out.String() != "comma_single_quotes\n" {
		t.Errorf("get output = %q", tc.out.String())
	}

	tc.reset("")
	if err := tc.Execute(&Args{Config: &ConfigCmd{List: &ConfigListCmd{}}}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	for _, key := range config.Keys() {
		if !strings.Contains(tc.out.String(), key+" = ") {
			t.Errorf("list output missing %s", key)
		}
	}

	tc.reset("")
	if err := tc.Execute(&Args{Config: &ConfigCmd{Set: &ConfigSetCmd{Key: "history-limit", Value: "0"}}}); err == nil {
		t.Error("expected validation error")
	}
}

func TestArgsValidation(t *testing.T) {
	tests := []struct {
		name    string
		args    Args
		wantErr bool
	}{
		{"no command", Args{}, false},
		{"extract stdin", Args{Extract: &ExtractCmd{}}, false},
		{"extract files", Args{Extract: &ExtractCmd{Files: []string{"a"}}}, false},
		{"extract clipboard", Args{Extract: &ExtractCmd{Clipboard: true}}, false},
		{"extract files and clipboard", Args{Extract: &ExtractCmd{Files: []string{"a"}, Clipboard: true}}, true},
		{"extract name without history", Args{Extract: &ExtractCmd{Name: stringPtr("x"), NoHistory: true}}, true},
		{"history list", Args{History: &HistoryCmd{List: &HistoryListCmd{}}}, false},
		{"history list negative limit", Args{History: &HistoryCmd{List: &HistoryListCmd{Limit: -1}}}, true},
		{"history without subcommand", Args{History: &HistoryCmd{}}, true},
		{"history stats", Args{History: &HistoryCmd{Stats: &HistoryStatsCmd{}}}, false},
		{"config list", Args{Config: &ConfigCmd{List: &ConfigListCmd{}}}, false},
		{"config without subcommand", Args{Config: &ConfigCmd{}}, true},
		{"tui", Args{TUI: &TUICmd{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.args.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestHasCommand(t *testing.T) {
	if (&Args{}).HasCommand() {
		t.Error("empty args should have no command")
	}
	if !(&Args{TUI: &TUICmd{}}).HasCommand() {
		t.Error("tui is a command")
	}
}

func TestNewWithArgs_UsesCustomDB(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dbPath := filepath.Join(t.TempDir(), "custom.db")
	c, err := NewWithArgs(&Args{DBPath: &dbPath, Extract: &ExtractCmd{}})
	if err != nil {
		t.Fatalf("NewWithArgs failed: %v", err)
	}
	defer c.Close()

	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database not created at %s: %v", dbPath, err)
	}
	if c.fs.Root() != filepath.Join(home, appfs.ConfigDir) {
		t.Errorf("fs root = %s", c.fs.Root())
	}
}

func TestSetupLogging_Levels(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	logger := SetupLogging(&buf, false)
	logger.Debug("hidden")
	logger.Warn("shown", "key", "value")
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("debug record written at warn level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "key=value") {
		t.Errorf("warn record missing: %q", buf.String())
	}

	buf.Reset()
	SetupLogging(&buf, true)
	slog.Debug("verbose")
	if !strings.Contains(buf.String(), "verbose") {
		t.Errorf("debug record missing with verbose: %q", buf.String())
	}
}

func TestNewWithArgs_TUILogsToFile(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	home := t.TempDir()
	t.Setenv("HOME", home)

	c, err := NewWithArgs(&Args{})
	if err != nil {
		t.Fatalf("NewWithArgs failed: %v", err)
	}
	defer c.Close()

	if _, err := os.Stat(c.fs.Path(appfs.LogFile)); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}
