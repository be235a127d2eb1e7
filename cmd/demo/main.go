package main

import (
	"fmt"
	"log"

	"github.com/dustin/go-humanize"
	"github.com/yiblet/lifesaver/internal/format"
	"github.com/yiblet/lifesaver/internal/history"
	"github.com/yiblet/lifesaver/internal/lifesaved"
	"github.com/yiblet/lifesaver/internal/parser"
	"github.com/yiblet/lifesaver/internal/store/memstore"
)

func main() {
	fmt.Println("lifesaver History Demo")

	// Create in-memory store and history manager
	st := memstore.NewMemoryStore()
	mgr := history.NewManager(st)
	defer mgr.Close()

	samples := []struct {
		name string
		text string
		mode format.OutputMode
	}{
		{"Invoice export", "INV-0042 paid 1,007.50 on 2024-05-06\nINV-0043 open 12.00", format.Comma},
		{"Order ids", "orders: #4411, #4412 and #4413 (see ticket 99)", format.QuotedComma},
		{"", "id\tqty\n17\t3\n18\t12\n19\t0", format.Comma},
		{"Phone list", "+1 (555) 010-9999 / ext. 12", format.QuotedComma},
	}

	var seq parser.Sequencer
	fmt.Println("Extracting samples:")
	for _, s := range samples {
		resp := parser.Run(parser.Request{SequenceID: seq.Next(), Text: s.text, MaxChars: -1})
		output := format.Format(resp.Result.Values, s.mode)
		fmt.Printf("  %-16s -> %s (%s)\n", displayName(s.name), output, lifesaved.FormatMinutes(lifesaved.Minutes(resp.Result.Count())))

		if _, err := mgr.Add(output, s.mode, resp.Result.Count(), s.name); err != nil {
			log.Fatalf("Failed to add history item: %v", err)
		}
	}

	// Adding the newest output again is a no-op.
	items, err := mgr.List()
	if err != nil {
		log.Fatalf("Failed to list history: %v", err)
	}
	if _, err := mgr.Add(items[0].Output, items[0].Mode, items[0].Count, "duplicate"); err != nil {
		log.Fatalf("Failed to add duplicate: %v", err)
	}

	items, err = mgr.List()
	if err != nil {
		log.Fatalf("Failed to list history: %v", err)
	}

	fmt.Printf("\nHistory (%d entries, newest first):\n", len(items))
	for i, item := range items {
		fmt.Printf("%d. %-28s %-24s %s values\n", i, item.Name, format.Label(item.Mode), humanize.Comma(int64(item.Count)))
	}

	fmt.Printf("\nSearch \"ord\":\n")
	matches, err := mgr.Search("ord", 0)
	if err != nil {
		log.Fatalf("Failed to search: %v", err)
	}
	for _, item := range matches {
		fmt.Printf("  %s: %s\n", item.Name, format.VerticalDisplay(item.Output, item.Mode))
	}

	if total := lifesaved.FormatTotalHours(history.TotalLifeSavedMinutes(items)); total != "" {
		fmt.Printf("\n%s\n", total)
	}
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed)"
	}
	return name
}
