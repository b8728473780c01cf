package ui

import (
	"strings"
	"testing"
)

func TestTruncateTableCellCountsRunes(t *testing.T) {
	value := strings.Repeat("a", tableCellMaxWidth-1) + "é"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestTruncateTableCellTruncates(t *testing.T) {
	got := TruncateTableCell(strings.Repeat("é", tableCellMaxWidth+5))

	want := strings.Repeat("é", tableCellMaxWidth-3) + "..."
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestTruncateTableCellNormalizesLineBreaks(t *testing.T) {
	value := "Hello\nWorld\r\nAgain\tTab"

	got := TruncateTableCell(value)

	if got != "Hello World Again Tab" {
		t.Fatalf("expected line breaks to normalize, got %q", got)
	}
}

func TestTruncateTableCellIgnoresANSICodes(t *testing.T) {
	value := "\x1b[1m\x1b[36m" + strings.Repeat("a", tableCellMaxWidth) + "\x1b[0m"

	got := TruncateTableCell(value)

	if got != value {
		t.Fatalf("expected value to remain untruncated, got %q", got)
	}
}

func TestFormatTable(t *testing.T) {
	builder := NewTableBuilder([]string{"KIND", "LIVE", "DELETED"}, 2)
	builder.AddRow("action", "12", "3")
	builder.AddRow("project\nx", "1", "0")

	want := "" +
		"KIND       LIVE  DELETED\n" +
		"action     12    3\n" +
		"project x  1     0\n"
	if got := builder.String(); got != want {
		t.Fatalf("unexpected table\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatTableTruncatesAllButLastColumn(t *testing.T) {
	long := strings.Repeat("x", tableCellMaxWidth+10)
	got := FormatTable([]string{"NAME", "NOTE"}, [][]string{{long, long}})
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected two lines, got %q", got)
	}
	want := strings.Repeat("x", tableCellMaxWidth-3) + "...  " + long
	if lines[1] != want {
		t.Fatalf("unexpected row\n got: %q\nwant: %q", lines[1], want)
	}
}
