package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yiblet/lifesaver/internal/appfs"
	"github.com/yiblet/lifesaver/internal/clipboard/mockboard"
	"github.com/yiblet/lifesaver/internal/format"
	"github.com/yiblet/lifesaver/internal/history"
	"github.com/yiblet/lifesaver/internal/store/memstore"
	"github.com/yiblet/lifesaver/internal/tui"
)

func main() {
	fmt.Println("Testing TUI Pane Borders")
	fmt.Println("========================")

	dir, err := os.MkdirTemp("", "lifesaver-render")
	if err != nil {
		log.Fatalf("Error creating temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	st := memstore.NewMemoryStore()
	mgr := history.NewManager(st)
	if _, err := mgr.Add("1,007,12", format.Comma, 3, "Invoice export"); err != nil {
		log.Fatalf("Error seeding history: %v", err)
	}

	app := tui.NewApp(tui.Options{
		History:   mgr,
		Clipboard: mockboard.New(),
		FS:        appfs.NewWithRoot(dir),
		State:     st.Config(),
	})
	defer app.Close()

	app.Update(tea.WindowSizeMsg{Width: 120, Height: 24})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("order #4411, #4412\nref 99"), Paste: true})

	// Run the parse listener the way the program loop would.
	deadline := time.Now().Add(5 * time.Second)
	for app.Parsing && time.Now().Before(deadline) {
		app.Update(app.Init()())
	}

	view := app.View()
	lines := strings.Split(view, "\n")

	fmt.Printf("Rendered TUI view (%d lines):\n", len(lines))
	fmt.Println(strings.Repeat("=", 120))
	for i, line := range lines {
		fmt.Printf("Line %2d: %s\n", i, line)
	}
	fmt.Println(strings.Repeat("=", 120))

	// Three bordered panes side by side give six vertical borders per row.
	var borderCheckLine string
	for i, line := range lines {
		if i > 3 && i < len(lines)-2 && strings.Contains(line, "│") {
			borderCheckLine = line
			break
		}
	}
	if borderCheckLine == "" {
		fmt.Println("Could not find a line with borders to analyze")
		os.Exit(1)
	}

	var positions []int
	col := 0
	for _, char := range borderCheckLine {
		if char == '│' {
			positions = append(positions, col)
		}
		col++
	}
	fmt.Printf("Found border characters (│) at columns: %v\n", positions)

	if len(positions) != 6 {
		fmt.Printf("Expected 6 pane borders, found %d\n", len(positions))
		os.Exit(1)
	}
	if app.FormattedOutput != "4411,4412,99" {
		fmt.Printf("Unexpected output %q\n", app.FormattedOutput)
		os.Exit(1)
	}
	fmt.Println("\nAll pane borders present, output parsed.")
}
