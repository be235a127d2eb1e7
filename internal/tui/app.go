package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/yiblet/lifesaver/internal/appfs"
	"github.com/yiblet/lifesaver/internal/clipboard"
	"github.com/yiblet/lifesaver/internal/config"
	"github.com/yiblet/lifesaver/internal/extract"
	"github.com/yiblet/lifesaver/internal/format"
	"github.com/yiblet/lifesaver/internal/history"
	"github.com/yiblet/lifesaver/internal/lifesaved"
	"github.com/yiblet/lifesaver/internal/parser"
	"github.com/yiblet/lifesaver/internal/store"
)

// PaneType represents which pane is focused
type PaneType int

const (
	InputPane PaneType = iota
	OutputPane
	HistoryPane
	paneCount
)

// UIMode represents the current modal state of the application
type UIMode int

const (
	NormalMode UIMode = iota
	EditMode
	FilterMode
	HelpMode
	RenameMode
	DeleteMode
	ClearMode
)

const (
	flashDuration   = 2 * time.Second
	draftSaveDelay  = 800 * time.Millisecond
	historyAddDelay = 900 * time.Millisecond
	workerBuffer    = 4
)

type renameTarget int

const (
	renameEntry renameTarget = iota
	renameDraft
)

type parseResultMsg struct {
	parser.Response
}

type workerClosedMsg struct{}

// draftSaveMsg and historyAddMsg fire after a delay. Only the one carrying
// the latest generation acts.
type draftSaveMsg struct{ gen int }

type historyAddMsg struct{ gen int }

type clipboardReadMsg struct {
	text string
	err  error
}

type flashExpiredMsg struct{ gen int }

// Options wires the interface to the rest of the application. FS and State
// may be nil, which disables draft persistence and mode persistence.
type Options struct {
	History   *history.Manager
	Clipboard clipboard.Clipboard
	FS        *appfs.AppFS
	Config    *config.Config
	State     store.ConfigStore
}

// AppModel orchestrates all sub-models
type AppModel struct {
	Width       int
	Height      int
	ActivePane  PaneType
	CurrentMode UIMode

	// Sub-models
	Input   InputModel
	Output  OutputModel
	History HistoryModel
	Filter  FilterModel
	Modal   ModalModel

	// Items is the full history, newest first. The pane shows the filtered
	// subset.
	Items        []*store.HistoryItem
	TotalMinutes float64

	Name            string
	Mode            format.OutputMode
	Result          extract.Result
	FormattedOutput string
	ElapsedMS       int64
	Parsing         bool

	FlashMessage string
	FlashExpiry  time.Time

	history         *history.Manager
	clipboard       clipboard.Clipboard
	fs              *appfs.AppFS
	state           store.ConfigStore
	maxParseChars   int
	maxPersistChars int
	log             *slog.Logger

	worker     *parser.Worker
	seq        *parser.Sequencer
	draftGen   int
	historyGen int
	flashGen   int

	renameTarget renameTarget
	renameID     string
}

// NewApp builds the model, restores the draft and the last used mode, and
// starts the parse worker. Call Close when the program exits.
func NewApp(opts Options) *AppModel {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	cb := opts.Clipboard
	if cb == nil {
		cb = clipboard.Detect()
	}

	a := &AppModel{
		ActivePane:      InputPane,
		CurrentMode:     NormalMode,
		Filter:          NewFilterModel(),
		Modal:           NewModalModel(),
		Mode:            cfg.DefaultMode,
		Result:          extract.Result{Values: []string{}},
		history:         opts.History,
		clipboard:       cb,
		fs:              opts.FS,
		state:           opts.State,
		maxParseChars:   cfg.MaxParseChars,
		maxPersistChars: cfg.MaxPersistInputChars,
		log:             slog.Default().With("component", "tui"),
		worker:          parser.NewWorker(workerBuffer),
		seq:             &parser.Sequencer{},
	}
	a.resize(120, 30)

	if a.state != nil {
		if v, err := a.state.Get(store.KeyMode); err == nil {
			if mode, err := format.ParseMode(v); err == nil {
				a.Mode = mode
			} else {
				a.log.Warn("ignoring stored mode", "value", v, "error", err)
			}
		}
	}

	if a.fs != nil {
		draft, err := a.fs.LoadDraft()
		if err != nil {
			a.log.Warn("failed to load draft", "error", err)
		} else {
			a.Input.Text = draft.Input
			a.Name = draft.Name
		}
	}

	if err := a.reloadHistory(); err != nil {
		a.log.Error("failed to load history", "error", err)
	}

	a.requestParse()
	return a
}

// Close stops the parse worker and writes the draft one last time.
func (a *AppModel) Close() error {
	a.worker.Close()
	return a.saveDraft()
}

// Init starts listening for parse results (required by tea.Model interface)
func (a *AppModel) Init() tea.Cmd {
	return waitForParse(a.worker)
}

func waitForParse(w *parser.Worker) tea.Cmd {
	return func() tea.Msg {
		resp, ok := <-w.Responses()
		if !ok {
			return workerClosedMsg{}
		}
		return parseResultMsg{resp}
	}
}

// Update handles app-level messages and routes to appropriate sub-models
func (a *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(m.Width, m.Height)
		return a, nil
	case tea.KeyMsg:
		return a.handleKeyPress(m)
	case parseResultMsg:
		return a, a.handleParseResult(m.Response)
	case workerClosedMsg:
		return a, nil
	case draftSaveMsg:
		if m.gen == a.draftGen {
			if err := a.saveDraft(); err != nil {
				return a, a.setFlashMessage(fmt.Sprintf("Failed to save draft: %v", err))
			}
		}
		return a, nil
	case historyAddMsg:
		if m.gen == a.historyGen {
			if err := a.recordHistory(); err != nil {
				return a, a.setFlashMessage(fmt.Sprintf("Failed to save history: %v", err))
			}
		}
		return a, nil
	case clipboardReadMsg:
		return a, a.handleClipboardRead(m)
	case flashExpiredMsg:
		if m.gen == a.flashGen {
			a.FlashMessage = ""
			a.FlashExpiry = time.Time{}
		}
		return a, nil
	}

	return a, nil
}

// resize lays the panes out left to right: input, output, history.
func (a *AppModel) resize(width, height int) {
	a.Width = max(width, 60)
	a.Height = max(height, 12)

	paneHeight := a.Height - 3 // two header lines and the status line
	historyWidth := min(max(a.Width/4, 20), 40)
	outputWidth := min(max(a.Width/4, 16), 36)
	inputWidth := a.Width - historyWidth - outputWidth

	a.Input.Update(ResizeInputMsg{Width: inputWidth, Height: paneHeight})
	a.Output.Update(ResizeOutputMsg{Width: outputWidth, Height: paneHeight})
	a.History.Update(ResizeHistoryMsg{Width: historyWidth, Height: paneHeight})
}

// handleKeyPress processes key press events using mode-first architecture
func (a *AppModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return a.quit()
	}

	switch a.CurrentMode {
	case EditMode:
		return a.handleEditModeKeys(msg)
	case FilterMode:
		return a.handleFilterModeKeys(msg)
	case HelpMode:
		return a.handleHelpModeKeys(msg.String())
	case RenameMode:
		return a.handleRenameModeKeys(msg)
	case DeleteMode:
		return a.handleDeleteModeKeys(msg.String())
	case ClearMode:
		return a.handleClearModeKeys(msg.String())
	default:
		return a.handleNormalModeKeys(msg)
	}
}

func (a *AppModel) quit() (tea.Model, tea.Cmd) {
	if err := a.saveDraft(); err != nil {
		a.log.Error("failed to save draft", "error", err)
	}
	return a, tea.Quit
}

// typedText returns the text a key press inserts, if any. Pastes arrive as
// a single message holding every pasted rune.
func typedText(msg tea.KeyMsg) (string, bool) {
	switch msg.Type {
	case tea.KeyRunes:
		return string(msg.Runes), true
	case tea.KeySpace:
		return " ", true
	case tea.KeyEnter:
		return "\n", true
	case tea.KeyTab:
		return "\t", true
	}
	return "", false
}

func isBackspace(msg tea.KeyMsg) bool {
	return msg.Type == tea.KeyBackspace || msg.Type == tea.KeyCtrlH
}

// handleEditModeKeys sends everything except esc to the input buffer.
func (a *AppModel) handleEditModeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		a.CurrentMode = NormalMode
		return a, nil
	}
	if isBackspace(msg) {
		return a, a.updateInput(DeleteBackwardMsg{})
	}
	if text, ok := typedText(msg); ok {
		return a, a.updateInput(InsertTextMsg{Text: text})
	}
	return a, nil
}

// handleFilterModeKeys edits the history filter. The list narrows as the
// query is typed.
func (a *AppModel) handleFilterModeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		a.Filter.Update(CancelFilterMsg{})
		a.CurrentMode = NormalMode
	case msg.Type == tea.KeyEnter:
		a.Filter.Update(AcceptFilterMsg{})
		a.CurrentMode = NormalMode
	case isBackspace(msg):
		a.Filter.Update(UpdateFilterMsg{Query: dropLastRune(a.Filter.Query)})
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		text, _ := typedText(msg)
		a.Filter.Update(UpdateFilterMsg{Query: a.Filter.Query + text})
	default:
		return a, nil
	}
	a.History.Update(GoToTopMsg{})
	return a, nil
}

// handleHelpModeKeys processes keys when in help mode
func (a *AppModel) handleHelpModeKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "z", "esc", "q":
		a.CurrentMode = NormalMode
	}
	return a, nil
}

// handleRenameModeKeys edits the name in the prompt modal.
func (a *AppModel) handleRenameModeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		a.Modal.Update(HideModalMsg{})
		a.CurrentMode = NormalMode
		return a, nil
	case msg.Type == tea.KeyEnter:
		name := a.Modal.Input
		a.Modal.Update(HideModalMsg{})
		a.CurrentMode = NormalMode
		return a, a.applyRename(name)
	case isBackspace(msg):
		a.Modal.Update(UpdateModalInputMsg{Input: dropLastRune(a.Modal.Input)})
	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		text, _ := typedText(msg)
		a.Modal.Update(UpdateModalInputMsg{Input: a.Modal.Input + text})
	}
	return a, nil
}

func (a *AppModel) applyRename(name string) tea.Cmd {
	if a.renameTarget == renameDraft {
		a.Name = history.TruncateName(history.SanitizeName(name), history.MaxNameLen)
		if a.Name == "" {
			return tea.Batch(a.scheduleDraftSave(), a.setFlashMessage("Name cleared"))
		}
		return tea.Batch(a.scheduleDraftSave(), a.setFlashMessage("Name set to "+a.Name))
	}

	if err := a.history.Rename(a.renameID, name); err != nil {
		if errors.Is(err, history.ErrEmptyName) {
			return a.setFlashMessage("Name must not be empty")
		}
		return a.setFlashMessage(fmt.Sprintf("Failed to rename: %v", err))
	}
	if err := a.reloadHistory(); err != nil {
		return a.setFlashMessage(fmt.Sprintf("Failed to reload history: %v", err))
	}
	return a.setFlashMessage("Entry renamed")
}

// handleDeleteModeKeys processes keys when in delete confirmation mode
func (a *AppModel) handleDeleteModeKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		a.Modal.Update(HideModalMsg{})
		a.CurrentMode = NormalMode
		item := a.selectedItem()
		if item == nil {
			return a, nil
		}
		if err := a.history.Remove(item.ID); err != nil {
			return a, a.setFlashMessage(fmt.Sprintf("Failed to delete entry: %v", err))
		}
		if err := a.reloadHistory(); err != nil {
			return a, a.setFlashMessage(fmt.Sprintf("Failed to reload history: %v", err))
		}
		return a, a.setFlashMessage("Entry deleted")
	case "n", "N", "esc":
		a.Modal.Update(HideModalMsg{})
		a.CurrentMode = NormalMode
	}
	return a, nil
}

func (a *AppModel) handleClearModeKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		a.Modal.Update(HideModalMsg{})
		a.CurrentMode = NormalMode
		if err := a.history.Clear(); err != nil {
			return a, a.setFlashMessage(fmt.Sprintf("Failed to clear history: %v", err))
		}
		if err := a.reloadHistory(); err != nil {
			return a, a.setFlashMessage(fmt.Sprintf("Failed to reload history: %v", err))
		}
		return a, a.setFlashMessage("History cleared")
	case "n", "N", "esc":
		a.Modal.Update(HideModalMsg{})
		a.CurrentMode = NormalMode
	}
	return a, nil
}

// handleNormalModeKeys processes keys when in normal mode
func (a *AppModel) handleNormalModeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A paste outside edit mode still lands in the input.
	if msg.Paste {
		return a, a.updateInput(InsertTextMsg{Text: string(msg.Runes)})
	}

	key := msg.String()
	switch key {
	case "q":
		return a.quit()
	case "z":
		a.CurrentMode = HelpMode
		return a, nil
	case "tab":
		a.ActivePane = (a.ActivePane + 1) % paneCount
		return a, nil
	case "shift+tab":
		a.ActivePane = (a.ActivePane + paneCount - 1) % paneCount
		return a, nil
	case "i":
		a.ActivePane = InputPane
		a.CurrentMode = EditMode
		return a, nil
	case "p":
		return a, readClipboard(a.clipboard)
	case "x":
		a.Name = ""
		a.Input.Update(SetTextMsg{Text: ""})
		return a, a.inputChanged()
	case "m":
		return a, a.toggleMode()
	case "c":
		return a, a.copyOutput()
	case "n":
		a.renameTarget = renameDraft
		a.Modal.Update(ShowRenamePrompt("Name This Result", a.Name))
		a.CurrentMode = RenameMode
		return a, nil
	case "esc":
		if a.Filter.Applied() {
			a.Filter.Update(CancelFilterMsg{})
			a.History.Update(GoToTopMsg{})
		}
		return a, nil
	}

	switch a.ActivePane {
	case OutputPane:
		return a.handleOutputPaneKeys(key)
	case HistoryPane:
		return a.handleHistoryPaneKeys(key)
	}
	return a, nil
}

func (a *AppModel) handleOutputPaneKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "j", "down":
		a.Output.Update(ScrollDownMsg{})
	case "k", "up":
		a.Output.Update(ScrollUpMsg{})
	case "g":
		a.Output.Update(ScrollToTopMsg{})
	case "G":
		a.Output.Update(ScrollToBottomMsg{})
	case "ctrl+d":
		a.Output.Update(PageDownMsg{})
	case "ctrl+u":
		a.Output.Update(PageUpMsg{})
	}
	return a, nil
}

func (a *AppModel) handleHistoryPaneKeys(key string) (tea.Model, tea.Cmd) {
	maxIndex := len(a.VisibleItems()) - 1

	switch key {
	case "j", "down":
		a.History.Update(NavigateDownMsg{MaxIndex: maxIndex})
	case "k", "up":
		a.History.Update(NavigateUpMsg{})
	case "g":
		a.History.Update(GoToTopMsg{})
	case "G":
		a.History.Update(GoToBottomMsg{MaxIndex: maxIndex})
	case "enter":
		return a, a.restoreSelected()
	case "/":
		a.Filter.Update(StartFilterMsg{})
		a.CurrentMode = FilterMode
	case "r":
		if item := a.selectedItem(); item != nil {
			a.renameTarget = renameEntry
			a.renameID = item.ID
			a.Modal.Update(ShowRenamePrompt("Rename Entry", item.Name))
			a.CurrentMode = RenameMode
		}
	case "d":
		if item := a.selectedItem(); item != nil {
			a.Modal.Update(ShowDeleteConfirmation(item.Name))
			a.CurrentMode = DeleteMode
		}
	case "D":
		if len(a.Items) > 0 {
			a.Modal.Update(ShowClearConfirmation(len(a.Items)))
			a.CurrentMode = ClearMode
		}
	}
	return a, nil
}

// VisibleItems returns the history entries that pass the filter.
func (a *AppModel) VisibleItems() []*store.HistoryItem {
	return ApplyFilter(a.Items, a.Filter.Query)
}

func (a *AppModel) selectedItem() *store.HistoryItem {
	items := a.VisibleItems()
	if a.History.Cursor < 0 || a.History.Cursor >= len(items) {
		return nil
	}
	return items[a.History.Cursor]
}

// restoreSelected loads an entry back: its mode, its name, and its output
// as the new input.
func (a *AppModel) restoreSelected() tea.Cmd {
	item := a.selectedItem()
	if item == nil {
		return nil
	}
	if item.Mode != a.Mode {
		a.Mode = item.Mode
		a.persistMode()
	}
	a.Name = item.Name
	a.Input.Update(SetTextMsg{Text: item.Output})
	return tea.Batch(a.inputChanged(), a.setFlashMessage("Restored "+item.Name))
}

func (a *AppModel) updateInput(msg InputMsg) tea.Cmd {
	if !a.Input.Update(msg) {
		return nil
	}
	return a.inputChanged()
}

// inputChanged requests a parse of the new text and schedules a draft save.
func (a *AppModel) inputChanged() tea.Cmd {
	a.requestParse()
	return a.scheduleDraftSave()
}

// requestParse sends the current input to the worker. Empty input resolves
// at once; the new sequence id still makes any in-flight result stale.
func (a *AppModel) requestParse() {
	id := a.seq.Next()
	if a.Input.Text == "" {
		a.Parsing = false
		a.Result = extract.Result{Values: []string{}}
		a.ElapsedMS = 0
		a.applyFormat()
		return
	}
	if !a.worker.Submit(parser.Request{SequenceID: id, Text: a.Input.Text, MaxChars: a.maxParseChars}) {
		a.log.Warn("parse worker closed, request dropped", "seq", id)
		a.Parsing = false
		return
	}
	a.Parsing = true
}

func (a *AppModel) handleParseResult(resp parser.Response) tea.Cmd {
	next := waitForParse(a.worker)
	if !a.seq.IsLatest(resp.SequenceID) {
		a.log.Debug("dropping stale parse result", "seq", resp.SequenceID, "latest", a.seq.Latest())
		return next
	}

	a.Parsing = false
	a.Result = resp.Result
	a.ElapsedMS = resp.ElapsedMilliseconds()
	a.applyFormat()
	return tea.Batch(next, a.scheduleHistoryAdd())
}

// applyFormat renders the current values in the current mode.
func (a *AppModel) applyFormat() {
	a.FormattedOutput = format.Format(a.Result.Values, a.Mode)
	a.Output.Update(SetOutputMsg{Output: a.FormattedOutput, Mode: a.Mode})
}

func (a *AppModel) toggleMode() tea.Cmd {
	a.Mode = format.Next(a.Mode)
	a.persistMode()
	a.applyFormat()
	return tea.Batch(a.setFlashMessage("Mode: "+format.Label(a.Mode)), a.scheduleHistoryAdd())
}

func (a *AppModel) persistMode() {
	if a.state == nil {
		return
	}
	if err := a.state.Set(store.KeyMode, a.Mode.String()); err != nil {
		a.log.Warn("failed to store mode", "error", err)
	}
}

func (a *AppModel) scheduleDraftSave() tea.Cmd {
	a.draftGen++
	gen := a.draftGen
	return tea.Tick(draftSaveDelay, func(time.Time) tea.Msg {
		return draftSaveMsg{gen: gen}
	})
}

func (a *AppModel) scheduleHistoryAdd() tea.Cmd {
	a.historyGen++
	if a.FormattedOutput == "" {
		return nil
	}
	gen := a.historyGen
	return tea.Tick(historyAddDelay, func(time.Time) tea.Msg {
		return historyAddMsg{gen: gen}
	})
}

func (a *AppModel) saveDraft() error {
	if a.fs == nil {
		return nil
	}
	return a.fs.SaveDraft(appfs.Draft{Input: a.Input.Text, Name: a.Name}, a.maxPersistChars)
}

// recordHistory adds the current output. The manager skips repeats of the
// newest entry.
func (a *AppModel) recordHistory() error {
	if a.history == nil || a.FormattedOutput == "" {
		return nil
	}
	item, err := a.history.Add(a.FormattedOutput, a.Mode, a.Result.Count(), a.Name)
	if err != nil {
		return err
	}
	if item == nil {
		return nil
	}
	return a.reloadHistory()
}

func (a *AppModel) reloadHistory() error {
	if a.history == nil {
		return nil
	}
	items, err := a.history.List()
	if err != nil {
		return err
	}
	a.Items = items
	a.TotalMinutes = history.TotalLifeSavedMinutes(items)
	a.History.Update(ClampCursorMsg{Count: len(a.VisibleItems())})
	return nil
}

// copyOutput writes the output to the clipboard and records it right away.
func (a *AppModel) copyOutput() tea.Cmd {
	err := clipboard.WriteText(a.clipboard, a.FormattedOutput)
	switch {
	case errors.Is(err, clipboard.ErrEmpty):
		return a.setFlashMessage(err.Error())
	case err != nil:
		return a.setFlashMessage(fmt.Sprintf("Copy failed: %v", err))
	}

	// Recording now supersedes the pending delayed add.
	a.historyGen++
	if err := a.recordHistory(); err != nil {
		a.log.Error("failed to record copied output", "error", err)
	}
	return a.setFlashMessage(fmt.Sprintf("Copied %s values", humanize.Comma(int64(a.Result.Count()))))
}

func readClipboard(c clipboard.Clipboard) tea.Cmd {
	return func() tea.Msg {
		text, err := clipboard.ReadText(c)
		return clipboardReadMsg{text: text, err: err}
	}
}

// handleClipboardRead replaces the input with the clipboard contents.
func (a *AppModel) handleClipboardRead(msg clipboardReadMsg) tea.Cmd {
	if msg.err != nil {
		return a.setFlashMessage(fmt.Sprintf("Paste failed: %v", msg.err))
	}
	if msg.text == "" {
		return a.setFlashMessage("Clipboard is empty")
	}
	a.Name = ""
	a.Input.Update(SetTextMsg{Text: msg.text})
	chars := humanize.Comma(int64(len([]rune(msg.text))))
	return tea.Batch(a.inputChanged(), a.setFlashMessage("Pasted "+chars+" characters"))
}

// setFlashMessage shows message in the status line for flashDuration.
func (a *AppModel) setFlashMessage(message string) tea.Cmd {
	a.FlashMessage = message
	a.FlashExpiry = time.Now().Add(flashDuration)
	a.flashGen++
	gen := a.flashGen
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashExpiredMsg{gen: gen}
	})
}

// View method for tea.Model compatibility
func (a *AppModel) View() string {
	return AppView(*a)
}

// AppView renders the complete application using pure functions
func AppView(model AppModel) string {
	if model.Width == 0 {
		return "Initializing..."
	}

	if model.CurrentMode == HelpMode {
		return renderHelpView(model) + "\n" + renderStatusLine(model)
	}

	view := renderNormalView(model)
	if model.Modal.Active {
		return ModalView(model.Modal, view, model.Width, model.Height)
	}
	return view
}

func renderNormalView(model AppModel) string {
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		InputView(model.Input, model.ActivePane == InputPane, model.CurrentMode == EditMode),
		OutputView(model.Output, model.Mode, model.ActivePane == OutputPane),
		HistoryView(model.History, model.VisibleItems(), model.Filter, time.Now(), model.ActivePane == HistoryPane),
	)
	return lipgloss.JoinVertical(lipgloss.Left, renderHeader(model), panes, renderStatusLine(model))
}

// renderHeader shows the numbers for the current result on the first line
// and the truncation warning, if any, on the second.
func renderHeader(model AppModel) string {
	parts := []string{lipgloss.NewStyle().Bold(true).Render("lifesaver")}
	if model.Name != "" {
		parts = append(parts, fmt.Sprintf("%q", model.Name))
	}
	parts = append(parts, fmt.Sprintf("%s values", humanize.Comma(int64(model.Result.Count()))))
	if model.Parsing {
		parts = append(parts, "parsing…")
	} else if model.Input.Text != "" {
		parts = append(parts, fmt.Sprintf("%d ms", model.ElapsedMS))
	}
	if saved := lifesaved.FormatMinutes(lifesaved.Minutes(model.Result.Count())); saved != "" {
		parts = append(parts, saved)
	}
	if total := lifesaved.FormatTotalHours(model.TotalMinutes); total != "" {
		parts = append(parts, total)
	}
	first := strings.Join(parts, " · ")

	second := ""
	if model.Result.Truncated {
		second = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(truncationWarning(model.Result))
	}

	return lipgloss.NewStyle().Width(model.Width).MaxHeight(1).Render(first) + "\n" +
		lipgloss.NewStyle().Width(model.Width).MaxHeight(1).Render(second)
}

func truncationWarning(res extract.Result) string {
	return fmt.Sprintf("input too large: only the first %s / %s characters were parsed",
		humanize.Comma(int64(res.ProcessedChars)), humanize.Comma(int64(res.TotalChars)))
}

// renderStatusLine renders the bottom status line (pure function)
func renderStatusLine(model AppModel) string {
	statusStyle := lipgloss.NewStyle().Width(model.Width).MaxHeight(1)

	if model.FlashMessage != "" && time.Now().Before(model.FlashExpiry) {
		return statusStyle.Foreground(lipgloss.Color("10")).Render(model.FlashMessage)
	}

	var statusLine string
	switch model.CurrentMode {
	case EditMode:
		statusLine = "EDIT: type or paste, Esc to stop editing"
	case FilterMode:
		statusLine = "Filter: Enter to keep, Esc to clear"
	case HelpMode:
		statusLine = "Help Mode - Press z to return to normal view, q to quit"
	case RenameMode:
		statusLine = "Rename: Enter to save, Esc to cancel"
	case DeleteMode, ClearMode:
		statusLine = "Confirm with y, cancel with n"
	default:
		switch model.ActivePane {
		case OutputPane:
			statusLine = "j/k scroll  m mode  c copy  tab next pane  z help  q quit"
		case HistoryPane:
			statusLine = "enter restore  r rename  d delete  D clear  / filter  z help  q quit"
		default:
			statusLine = "i edit  p paste  x clear  n name  m mode  c copy  z help  q quit"
		}
	}

	return statusStyle.Render(statusLine)
}

// renderHelpView renders the help content as a single pane (pure function)
func renderHelpView(model AppModel) string {
	helpContent := `lifesaver - pull every number out of pasted text

INPUT:
  i           Edit the input (Esc to stop)
  p           Replace the input with the clipboard
  x           Clear the input and its name
  n           Name the current result
  Paste       Pasting appends to the input in any pane

OUTPUT:
  m           Toggle comma / comma + single quotes
  c           Copy the output and save it to history
  j, k        Scroll (output pane)
  g, G        Top / bottom
  Ctrl+d/u    Half page down / up

HISTORY:
  j, k        Move the selection
  Enter       Restore the entry into the input
  r           Rename the entry
  d           Delete the entry
  D           Delete every entry
  /           Fuzzy filter (Enter keeps it, Esc clears it)

Results are saved to history shortly after they stop changing.

GLOBAL:
  Tab         Next pane (Shift+Tab: previous)
  z           Toggle this help screen
  q, Ctrl+c   Quit

Press z again to return to normal view.`

	helpStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1).
		Width(model.Width - 4).
		Height(model.Height - 4)

	return helpStyle.Render(helpContent)
}
