package format

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/yiblet/lifesaver/internal/extract"
	"gopkg.in/yaml.v3"
)

func TestFormat(t *testing.T) {
	values := []string{"1", "007", "12"}

	tests := []struct {
		name   string
		values []string
		mode   OutputMode
		want   string
	}{
		{"comma", values, Comma, "1,007,12"},
		{"quoted", values, QuotedComma, "'1','007','12'"},
		{"single comma", []string{"5"}, Comma, "5"},
		{"single quoted", []string{"5"}, QuotedComma, "'5'"},
		{"empty comma", []string{}, Comma, ""},
		{"empty quoted", nil, QuotedComma, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Format(tt.values, tt.mode); got != tt.want {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.values, tt.mode, got, tt.want)
			}
		})
	}
}

// TestEveryModeIsHandled drives each variant through every consumer. A new
// mode that is not wired everywhere panics here.
func TestEveryModeIsHandled(t *testing.T) {
	for _, m := range Modes() {
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("mode %d is not handled: %v", int(m), r)
				}
			}()
			if Format([]string{"1"}, m) == "" {
				t.Errorf("Format with mode %v returned empty output", m)
			}
			if Label(m) == "" {
				t.Errorf("Label(%v) is empty", m)
			}
			parsed, err := ParseMode(m.String())
			if err != nil || parsed != m {
				t.Errorf("ParseMode(%q) = %v, %v", m.String(), parsed, err)
			}
			_ = Next(m)
			_ = VerticalDisplay("1", m)
		}()
	}
}

func TestUnknownModePanics(t *testing.T) {
	bogus := OutputMode(42)
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown mode")
		}
	}()
	Format([]string{"1"}, bogus)
}

func TestLabel(t *testing.T) {
	if got := Label(Comma); got != "comma-separated" {
		t.Errorf("Label(Comma) = %q", got)
	}
	if got := Label(QuotedComma); got != "comma + single quotes" {
		t.Errorf("Label(QuotedComma) = %q", got)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("comma"); err != nil || m != Comma {
		t.Errorf("ParseMode(comma) = %v, %v", m, err)
	}
	if m, err := ParseMode("comma_single_quotes"); err != nil || m != QuotedComma {
		t.Errorf("ParseMode(comma_single_quotes) = %v, %v", m, err)
	}
	if _, err := ParseMode("tsv"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestNext(t *testing.T) {
	if Next(Comma) != QuotedComma {
		t.Error("Next(Comma) should be QuotedComma")
	}
	if Next(QuotedComma) != Comma {
		t.Error("Next(QuotedComma) should wrap to Comma")
	}
}

func TestVerticalDisplay(t *testing.T) {
	tests := []struct {
		name   string
		output string
		mode   OutputMode
		want   string
	}{
		{"empty", "", Comma, ""},
		{"comma", "1,007,12", Comma, "1\n007\n12"},
		{"quotes are kept", "'1','007','12'", QuotedComma, "'1'\n'007'\n'12'"},
		{"single", "42", Comma, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := VerticalDisplay(tt.output, tt.mode); got != tt.want {
				t.Errorf("VerticalDisplay(%q) = %q, want %q", tt.output, got, tt.want)
			}
		})
	}
}

func TestModeTextEncoding(t *testing.T) {
	type doc struct {
		Mode OutputMode `json:"mode" yaml:"mode"`
	}

	data, err := json.Marshal(doc{Mode: QuotedComma})
	if err != nil {
		t.Fatalf("json.Marshal: %v", err)
	}
	if string(data) != `{"mode":"comma_single_quotes"}` {
		t.Errorf("json = %s", data)
	}

	var d doc
	if err := yaml.Unmarshal([]byte("mode: comma\n"), &d); err != nil {
		t.Fatalf("yaml.Unmarshal: %v", err)
	}
	if d.Mode != Comma {
		t.Errorf("yaml mode = %v, want comma", d.Mode)
	}

	if err := json.Unmarshal([]byte(`{"mode":"nope"}`), &d); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestRoundTripThroughExtract(t *testing.T) {
	inputs := []string{
		"v1, 007, -12.34",
		"order 0042\tqty 3\nref 000",
		"no digits here",
		"2024-01-05T10:11:12Z",
	}
	for _, in := range inputs {
		first := extract.ExtractAll(in)
		again := extract.ExtractAll(Format(first.Values, Comma))
		if !reflect.DeepEqual(first.Values, again.Values) {
			t.Errorf("round trip of %q: %q != %q", in, again.Values, first.Values)
		}
	}
}
