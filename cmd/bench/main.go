// Command bench times extraction on large generated inputs, with and
// without the character cap.
package main

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/yiblet/lifesaver/internal/config"
	"github.com/yiblet/lifesaver/internal/extract"
	"github.com/yiblet/lifesaver/internal/format"
	"github.com/yiblet/lifesaver/internal/lifesaved"
	"github.com/yiblet/lifesaver/internal/parser"
)

// generate builds roughly size characters of spreadsheet-like text.
func generate(size int, rng *rand.Rand) string {
	words := []string{"invoice", "qty", "total", "编号", "ref", "n/a", "—", "paid"}
	var b strings.Builder
	b.Grow(size + 32)
	for b.Len() < size {
		switch rng.Intn(4) {
		case 0:
			fmt.Fprintf(&b, "%d", rng.Intn(1_000_000))
		case 1:
			fmt.Fprintf(&b, "%04d-%02d-%02d", 2000+rng.Intn(25), 1+rng.Intn(12), 1+rng.Intn(28))
		default:
			b.WriteString(words[rng.Intn(len(words))])
		}
		if rng.Intn(8) == 0 {
			b.WriteByte('\n')
		} else {
			b.WriteByte('\t')
		}
	}
	return b.String()
}

func main() {
	rng := rand.New(rand.NewSource(1))
	sizes := []int{100_000, 1_000_000, 5_000_000, 20_000_000}

	fmt.Printf("%-12s %-12s %-12s %-10s %-10s %-10s %s\n", "input", "cap", "values", "scan", "format", "output", "note")
	for _, size := range sizes {
		text := generate(size, rng)
		for _, limit := range []int{extract.NoLimit, config.DefaultMaxParseChars} {
			resp := parser.Run(parser.Request{SequenceID: 1, Text: text, MaxChars: limit})

			start := time.Now()
			out := format.Format(resp.Result.Values, format.QuotedComma)
			formatElapsed := time.Since(start)

			capLabel := "none"
			if limit >= 0 {
				capLabel = humanize.Comma(int64(limit))
			}
			note := lifesaved.FormatMinutes(lifesaved.Minutes(resp.Result.Count()))
			if resp.Result.Truncated {
				note = fmt.Sprintf("truncated at %s / %s chars", humanize.Comma(int64(resp.Result.ProcessedChars)), humanize.Comma(int64(resp.Result.TotalChars)))
			}
			fmt.Printf("%-12s %-12s %-12s %-10s %-10s %-10s %s\n",
				humanize.Bytes(uint64(len(text))),
				capLabel,
				humanize.Comma(int64(resp.Result.Count())),
				fmt.Sprintf("%d ms", resp.ElapsedMilliseconds()),
				fmt.Sprintf("%d ms", formatElapsed.Milliseconds()),
				humanize.Bytes(uint64(len(out))),
				note,
			)
		}
	}
}
