package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/yiblet/lifesaver/internal/appfs"
	"github.com/yiblet/lifesaver/internal/clipboard"
	"github.com/yiblet/lifesaver/internal/config"
	"github.com/yiblet/lifesaver/internal/extract"
	"github.com/yiblet/lifesaver/internal/format"
	"github.com/yiblet/lifesaver/internal/history"
	"github.com/yiblet/lifesaver/internal/lifesaved"
	"github.com/yiblet/lifesaver/internal/parser"
	"github.com/yiblet/lifesaver/internal/store"
	"github.com/yiblet/lifesaver/internal/store/dbstore"
	"github.com/yiblet/lifesaver/internal/tui"
)

// CLI handles the command-line interface
type CLI struct {
	history   *history.Manager
	store     store.Store
	clipboard clipboard.Clipboard
	fs        *appfs.AppFS
	configMgr *config.ConfigManager
	config    *config.Config
	log       *slog.Logger
	logFile   io.Closer

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// NewWithArgs creates a CLI from parsed arguments: it loads the config,
// opens the application directory and the database, and picks a clipboard.
func NewWithArgs(args *Args) (*CLI, error) {
	if args == nil {
		args = &Args{}
	}

	cm, err := config.NewConfigManager()
	if err != nil {
		return nil, err
	}
	cfg, err := cm.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", cm.GetConfigPath(), err)
	}

	fsys, err := appfs.NewWithLocation(cfg.HistoryLocation)
	if err != nil {
		return nil, fmt.Errorf("failed to open application directory: %w", err)
	}

	// The interface owns the terminal, so its logs go to a file.
	var logFile *os.File
	logger := SetupLogging(os.Stderr, args.Verbose)
	if !args.HasCommand() || args.TUI != nil {
		logFile, err = os.OpenFile(fsys.Path(appfs.LogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		logger = SetupLogging(logFile, args.Verbose)
	}

	dbPath := fsys.Path(appfs.DBFile)
	if args.DBPath != nil {
		dbPath = *args.DBPath
	}

	st, err := dbstore.NewSQLiteStoreWithLogger(dbPath, logger)
	if err != nil {
		if logFile != nil {
			logFile.Close()
		}
		return nil, fmt.Errorf("failed to create database store: %w", err)
	}

	c := newCLI(st, fsys, clipboard.Detect(), cm, cfg)
	c.log = logger
	if logFile != nil {
		c.logFile = logFile
	}
	return c, nil
}

// newCLI wires a CLI from its parts.
func newCLI(st store.Store, fsys *appfs.AppFS, clip clipboard.Clipboard, cm *config.ConfigManager, cfg *config.Config) *CLI {
	return &CLI{
		history:   history.NewManagerWithLimit(st, cfg.HistoryLimit),
		store:     st,
		clipboard: clip,
		fs:        fsys,
		configMgr: cm,
		config:    cfg,
		log:       slog.Default(),
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
}

// SetupLogging installs a text slog handler on w as the default logger.
func SetupLogging(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

// Close releases the database and the log file.
func (c *CLI) Close() error {
	err := c.store.Close()
	if c.logFile != nil {
		c.logFile.Close()
	}
	return err
}

// Execute runs the CLI command based on parsed arguments
func (c *CLI) Execute(args *Args) error {
	if err := args.Validate(); err != nil {
		return err
	}

	switch {
	case args.Extract != nil:
		return c.executeExtract(context.Background(), args.Extract)
	case args.History != nil:
		return c.executeHistory(args.History)
	case args.Config != nil:
		return c.executeConfig(args.Config)
	default:
		return c.launchTUI()
	}
}

// executeExtract handles 'lifesaver extract'
func (c *CLI) executeExtract(ctx context.Context, cmd *ExtractCmd) error {
	mode, err := c.resolveMode(cmd.Mode)
	if err != nil {
		return err
	}

	maxChars := c.config.MaxParseChars
	if cmd.MaxChars != nil {
		maxChars = *cmd.MaxChars
	}

	var inputs []input
	switch {
	case cmd.Clipboard:
		text, err := clipboard.ReadText(c.clipboard)
		if err != nil {
			return err
		}
		inputs = []input{{name: "clipboard", text: text}}
	case len(cmd.Files) > 0:
		// Files are read on demand inside the workers.
		for _, name := range cmd.Files {
			inputs = append(inputs, input{name: name, path: name})
		}
	default:
		data, err := io.ReadAll(c.stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		inputs = []input{{name: "stdin", text: string(data)}}
	}

	start := time.Now()
	responses, err := extractInputs(ctx, inputs, maxChars)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	var values []string
	var processed, total int
	for i, resp := range responses {
		values = append(values, resp.Result.Values...)
		processed += resp.Result.ProcessedChars
		total += resp.Result.TotalChars
		if resp.Result.Truncated {
			fmt.Fprintf(c.stderr, "%s: %s\n", inputs[i].name, truncationNotice(resp.Result))
		}
	}

	output := format.Format(values, mode)
	shown := output
	if cmd.Vertical {
		shown = format.VerticalDisplay(output, mode)
	}
	if shown != "" {
		fmt.Fprintln(c.stdout, shown)
	}

	if cmd.Copy {
		if err := clipboard.WriteText(c.clipboard, output); errors.Is(err, clipboard.ErrEmpty) {
			fmt.Fprintln(c.stderr, err)
		} else if err != nil {
			return err
		}
	}

	if !cmd.NoHistory {
		name := ""
		if cmd.Name != nil {
			name = *cmd.Name
		}
		if _, err := c.history.Add(output, mode, len(values), name); err != nil {
			c.log.Warn("failed to record history", "error", err)
		}
	}

	if cmd.Stats {
		fmt.Fprintf(c.stderr, "values: %s\n", humanize.Comma(int64(len(values))))
		fmt.Fprintf(c.stderr, "processed %s / %s chars\n", humanize.Comma(int64(processed)), humanize.Comma(int64(total)))
		fmt.Fprintf(c.stderr, "elapsed: %d ms\n", elapsed.Round(time.Millisecond).Milliseconds())
		if saved := lifesaved.FormatMinutes(lifesaved.Minutes(len(values))); saved != "" {
			fmt.Fprintln(c.stderr, saved)
		}
	}
	return nil
}

// input is one source for extract: either text already in memory or a
// file path.
type input struct {
	name string
	text string
	path string
}

// extractInputs scans every input concurrently and returns the responses
// in input order.
func extractInputs(ctx context.Context, inputs []input, maxChars int) ([]parser.Response, error) {
	responses := make([]parser.Response, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			text := in.text
			if in.path != "" {
				data, err := os.ReadFile(in.path)
				if err != nil {
					return fmt.Errorf("failed to read file %s: %w", in.path, err)
				}
				text = string(data)
			}
			responses[i] = parser.Run(parser.Request{
				SequenceID: uint64(i + 1),
				Text:       text,
				MaxChars:   maxChars,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return responses, nil
}

// truncationNotice describes a capped scan.
func truncationNotice(r extract.Result) string {
	return fmt.Sprintf("input too large: only the first %s / %s characters were parsed",
		humanize.Comma(int64(r.ProcessedChars)), humanize.Comma(int64(r.TotalChars)))
}

// resolveMode returns the flag value if given, else the configured default.
func (c *CLI) resolveMode(flag *string) (format.OutputMode, error) {
	if flag == nil {
		return c.config.DefaultMode, nil
	}
	return format.ParseMode(*flag)
}

// executeHistory handles 'lifesaver history'
func (c *CLI) executeHistory(cmd *HistoryCmd) error {
	switch {
	case cmd.List != nil:
		return c.historyList(cmd.List.Limit)
	case cmd.Show != nil:
		return c.historyShow(cmd.Show)
	case cmd.Rename != nil:
		return c.historyRename(cmd.Rename)
	case cmd.Remove != nil:
		return c.historyRemove(cmd.Remove)
	case cmd.Clear != nil:
		return c.historyClear(cmd.Clear)
	case cmd.Search != nil:
		return c.historySearch(cmd.Search)
	case cmd.Export != nil:
		return c.historyExport(cmd.Export)
	case cmd.Import != nil:
		return c.historyImport(cmd.Import)
	case cmd.Stats != nil:
		return c.historyStats()
	default:
		return fmt.Errorf("no history subcommand specified")
	}
}

func (c *CLI) historyList(limit int) error {
	items, err := c.history.List()
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	if len(items) == 0 {
		fmt.Fprintln(c.stdout, "History is empty.")
		return nil
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	for i, item := range items {
		c.printItemLine(i, item)
	}
	return nil
}

func (c *CLI) printItemLine(index int, item *store.HistoryItem) {
	fmt.Fprintf(c.stdout, "%3d  %-16s  %s  (%s values, %s)\n",
		index,
		humanize.Time(item.CreatedAt),
		item.Name,
		humanize.Comma(int64(item.Count)),
		format.Label(item.Mode))
}

// resolveItem accepts an index (0 = newest) or an id.
func (c *CLI) resolveItem(ref string) (*store.HistoryItem, error) {
	if index, err := strconv.Atoi(ref); err == nil {
		item, err := c.history.Get(index)
		if err != nil {
			return nil, fmt.Errorf("failed to get item at index %d: %w", index, err)
		}
		return item, nil
	}

	item, err := c.history.Find(ref)
	if err != nil {
		return nil, fmt.Errorf("failed to find item %s: %w", ref, err)
	}
	return item, nil
}

func (c *CLI) historyShow(cmd *HistoryShowCmd) error {
	item, err := c.resolveItem(cmd.Ref)
	if err != nil {
		return err
	}

	shown := item.Output
	if cmd.Vertical {
		shown = format.VerticalDisplay(item.Output, item.Mode)
	}
	fmt.Fprintln(c.stdout, shown)

	if cmd.Copy {
		if err := clipboard.WriteText(c.clipboard, item.Output); err != nil {
			return err
		}
		fmt.Fprintf(c.stderr, "Copied to clipboard: %s\n", item.Name)
	}
	return nil
}

func (c *CLI) historyRename(cmd *HistoryRenameCmd) error {
	item, err := c.resolveItem(cmd.Ref)
	if err != nil {
		return err
	}
	if err := c.history.Rename(item.ID, cmd.Name); err != nil {
		return fmt.Errorf("failed to rename: %w", err)
	}

	renamed, err := c.history.Find(item.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Renamed %q to %q\n", item.Name, renamed.Name)
	return nil
}

func (c *CLI) historyRemove(cmd *HistoryRemoveCmd) error {
	item, err := c.resolveItem(cmd.Ref)
	if err != nil {
		return err
	}
	if err := c.history.Remove(item.ID); err != nil {
		return fmt.Errorf("failed to delete: %w", err)
	}
	fmt.Fprintf(c.stdout, "Deleted: %s\n", item.Name)
	return nil
}

func (c *CLI) historyClear(cmd *HistoryClearCmd) error {
	count, err := c.history.Size()
	if err != nil {
		return fmt.Errorf("failed to count items: %w", err)
	}
	if count == 0 {
		fmt.Fprintln(c.stdout, "History is already empty.")
		return nil
	}

	if !cmd.Force {
		fmt.Fprintf(c.stdout, "This will delete %d item(s) from history. Continue? [y/N]: ", count)
		response, _ := bufio.NewReader(c.stdin).ReadString('\n')
		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Fprintln(c.stdout, "Cancelled.")
			return nil
		}
	}

	if err := c.history.Clear(); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	fmt.Fprintf(c.stdout, "Cleared %d item(s) from history.\n", count)
	return nil
}

func (c *CLI) historySearch(cmd *HistorySearchCmd) error {
	results, err := c.history.Search(cmd.Query, cmd.Limit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	if len(results) == 0 {
		return fmt.Errorf("no matches found for: %s", cmd.Query)
	}

	// Show the same indexes as 'history list' so results can be passed to show.
	all, err := c.history.List()
	if err != nil {
		return fmt.Errorf("failed to list items: %w", err)
	}
	idToIndex := make(map[string]int, len(all))
	for idx, item := range all {
		idToIndex[item.ID] = idx
	}

	for _, item := range results {
		index, ok := idToIndex[item.ID]
		if !ok {
			continue
		}
		c.printItemLine(index, item)
	}
	return nil
}

func (c *CLI) historyExport(cmd *HistoryExportCmd) error {
	if cmd.File == nil {
		_, err := c.history.Export(c.stdout)
		return err
	}

	f, err := os.Create(*cmd.File)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	n, err := c.history.Export(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stderr, "Exported %d item(s) to %s\n", n, *cmd.File)
	return nil
}

func (c *CLI) historyImport(cmd *HistoryImportCmd) error {
	f, err := os.Open(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	report, err := c.history.Import(f)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Imported %d item(s), skipped %d.\n", report.Imported, report.Skipped)
	return nil
}

func (c *CLI) historyStats() error {
	items, err := c.history.List()
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	values := 0
	for _, item := range items {
		values += item.Count
	}

	fmt.Fprintf(c.stdout, "entries: %d (limit %d)\n", len(items), c.history.Limit())
	fmt.Fprintf(c.stdout, "values:  %s\n", humanize.Comma(int64(values)))
	if total := lifesaved.FormatTotalHours(history.TotalLifeSavedMinutes(items)); total != "" {
		fmt.Fprintln(c.stdout, total)
	}
	return nil
}

// executeConfig handles 'lifesaver config'
func (c *CLI) executeConfig(cmd *ConfigCmd) error {
	switch {
	case cmd.Get != nil:
		value, err := c.configMgr.Get(cmd.Get.Key)
		if err != nil {
			return fmt.Errorf("failed to get config value: %w", err)
		}
		fmt.Fprintln(c.stdout, value)
		return nil
	case cmd.Set != nil:
		if err := c.configMgr.Update(cmd.Set.Key, cmd.Set.Value); err != nil {
			return fmt.Errorf("failed to set config value: %w", err)
		}
		fmt.Fprintf(c.stdout, "Set %s = %s\n", cmd.Set.Key, cmd.Set.Value)
		return nil
	case cmd.List != nil:
		values, err := c.configMgr.List()
		if err != nil {
			return fmt.Errorf("failed to list config values: %w", err)
		}
		fmt.Fprintf(c.stdout, "Current configuration (%s):\n", c.configMgr.GetConfigPath())
		for _, key := range config.Keys() {
			fmt.Fprintf(c.stdout, "  %s = %s\n", key, values[key])
		}
		return nil
	default:
		return fmt.Errorf("no config subcommand specified")
	}
}

// launchTUI starts the interactive interface
func (c *CLI) launchTUI() error {
	app := tui.NewApp(tui.Options{
		History:   c.history,
		Clipboard: c.clipboard,
		FS:        c.fs,
		Config:    c.config,
		State:     c.store.Config(),
	})
	defer app.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
