package cli

import (
	"fmt"
)

// Args represents the top-level command structure
type Args struct {
	DBPath  *string `arg:"--db,env:LIFESAVER_DB" help:"Path to the history database"`
	Verbose bool    `arg:"-v,--verbose" help:"Log debug information to stderr"`

	Extract *ExtractCmd `arg:"subcommand:extract" help:"Extract digit runs from stdin, files or the clipboard"`
	History *HistoryCmd `arg:"subcommand:history" help:"Browse and manage saved results"`
	Config  *ConfigCmd  `arg:"subcommand:config" help:"Read or change settings"`
	TUI     *TUICmd     `arg:"subcommand:tui" help:"Open the interactive interface (default)"`
}

// ExtractCmd represents 'lifesaver extract'
type ExtractCmd struct {
	Files     []string `arg:"positional" help:"Files to read (default: stdin)"`
	Clipboard bool     `arg:"-c,--clipboard" help:"Read input from the clipboard"`
	Mode      *string  `arg:"-m,--mode" help:"Output mode: comma or comma_single_quotes"`
	MaxChars  *int     `arg:"--max-chars" help:"Scan at most N characters per input (negative: no cap)"`
	Vertical  bool     `arg:"--vertical" help:"Print one value per line"`
	Copy      bool     `arg:"--copy" help:"Copy the output to the clipboard"`
	Name      *string  `arg:"-n,--name" help:"Name for the history entry"`
	NoHistory bool     `arg:"--no-history" help:"Do not record the result in history"`
	Stats     bool     `arg:"-s,--stats" help:"Print count, timing and life saved to stderr"`
}

// HistoryCmd represents 'lifesaver history'
type HistoryCmd struct {
	List   *HistoryListCmd   `arg:"subcommand:list" help:"List saved results"`
	Show   *HistoryShowCmd   `arg:"subcommand:show" help:"Print a saved result"`
	Rename *HistoryRenameCmd `arg:"subcommand:rename" help:"Rename a saved result"`
	Remove *HistoryRemoveCmd `arg:"subcommand:rm" help:"Delete a saved result"`
	Clear  *HistoryClearCmd  `arg:"subcommand:clear" help:"Delete every saved result"`
	Search *HistorySearchCmd `arg:"subcommand:search" help:"Fuzzy search names and outputs"`
	Export *HistoryExportCmd `arg:"subcommand:export" help:"Write history as JSON"`
	Import *HistoryImportCmd `arg:"subcommand:import" help:"Load history from JSON"`
	Stats  *HistoryStatsCmd  `arg:"subcommand:stats" help:"Show totals"`
}

type HistoryListCmd struct {
	Limit int `arg:"-l,--limit" help:"Show at most N entries (0: all)"`
}

// HistoryShowCmd accepts an index (0 = newest) or an id.
type HistoryShowCmd struct {
	Ref      string `arg:"positional,required" help:"Index or id"`
	Vertical bool   `arg:"--vertical" help:"Print one value per line"`
	Copy     bool   `arg:"-c,--copy" help:"Copy the output to the clipboard"`
}

type HistoryRenameCmd struct {
	Ref  string `arg:"positional,required" help:"Index or id"`
	Name string `arg:"positional,required" help:"New name"`
}

type HistoryRemoveCmd struct {
	Ref string `arg:"positional,required" help:"Index or id"`
}

type HistoryClearCmd struct {
	Force bool `arg:"-f,--force" help:"Skip confirmation"`
}

type HistorySearchCmd struct {
	Query string `arg:"positional,required" help:"Characters to match in order"`
	Limit int    `arg:"-l,--limit" help:"Show at most N matches (0: all)"`
}

type HistoryExportCmd struct {
	File *string `arg:"positional" help:"Output file (default: stdout)"`
}

type HistoryImportCmd struct {
	File string `arg:"positional,required" help:"JSON file written by export"`
}

type HistoryStatsCmd struct{}

// ConfigCmd represents 'lifesaver config'
type ConfigCmd struct {
	Get  *ConfigGetCmd  `arg:"subcommand:get" help:"Print one setting"`
	Set  *ConfigSetCmd  `arg:"subcommand:set" help:"Change one setting"`
	List *ConfigListCmd `arg:"subcommand:list" help:"Print all settings"`
}

type ConfigGetCmd struct {
	Key string `arg:"positional,required"`
}

type ConfigSetCmd struct {
	Key   string `arg:"positional,required"`
	Value string `arg:"positional,required"`
}

type ConfigListCmd struct{}

// TUICmd represents 'lifesaver tui'
type TUICmd struct{}

// Description returns the program description
func (Args) Description() string {
	return "lifesaver - pull every number out of pasted text and join it into a comma list"
}

// Version returns the program version
func (Args) Version() string {
	return "lifesaver 0.1.0"
}

// Epilogue returns additional help text
func (Args) Epilogue() string {
	return `Examples:
  pbpaste | lifesaver extract                # 1,007,12
  lifesaver extract -m comma_single_quotes a.csv b.csv
  lifesaver extract -c --copy --stats        # clipboard in, clipboard out
  lifesaver history list
  lifesaver history show 0 --vertical
  lifesaver config set history-limit 1000
  lifesaver                                  # interactive interface`
}

// HasCommand reports whether a subcommand was given.
func (args *Args) HasCommand() bool {
	return args.Extract != nil || args.History != nil || args.Config != nil || args.TUI != nil
}

// Validate performs validation on the parsed arguments
func (args *Args) Validate() error {
	switch {
	case args.Extract != nil:
		return args.Extract.Validate()
	case args.History != nil:
		return args.History.Validate()
	case args.Config != nil:
		return args.Config.Validate()
	}
	return nil
}

// Validate validates extract command arguments
func (e *ExtractCmd) Validate() error {
	if len(e.Files) > 0 && e.Clipboard {
		return fmt.Errorf("cannot specify both files and clipboard input")
	}
	if e.NoHistory && e.Name != nil {
		return fmt.Errorf("--name has no effect with --no-history")
	}
	return nil
}

// Validate validates history command arguments
func (h *HistoryCmd) Validate() error {
	switch {
	case h.List != nil:
		if h.List.Limit < 0 {
			return fmt.Errorf("limit must be non-negative")
		}
	case h.Search != nil:
		if h.Search.Limit < 0 {
			return fmt.Errorf("limit must be non-negative")
		}
	case h.Show == nil && h.Rename == nil && h.Remove == nil && h.Clear == nil &&
		h.Export == nil && h.Import == nil && h.Stats == nil:
		return fmt.Errorf("no history subcommand specified")
	}
	return nil
}

// Validate validates config command arguments
func (c *ConfigCmd) Validate() error {
	if c.Get == nil && c.Set == nil && c.List == nil {
		return fmt.Errorf("no config subcommand specified")
	}
	return nil
}
