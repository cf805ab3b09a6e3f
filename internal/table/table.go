// Package table renders plain-text tables with aligned columns. Cell width is
// measured on the visible text, so cells may carry ANSI color codes.
package table

import (
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Alignment of a column or header cell.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripAnsi(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func visibleWidth(s string) int {
	return runewidth.StringWidth(stripAnsi(s))
}

// Table accumulates rows and renders them to a writer.
type Table struct {
	w               io.Writer
	header          []string
	rows            [][]string
	columnAlignment []Alignment
	headerAlignment []Alignment
}

// NewTable returns an empty table that renders to w.
func NewTable(w io.Writer) *Table {
	return &Table{w: w}
}

// WithHeader sets the header row.
func (t *Table) WithHeader(header []string) *Table {
	t.header = header
	return t
}

// WithColumnAlignment sets the alignment of body cells per column. Columns
// without an entry are left aligned.
func (t *Table) WithColumnAlignment(alignment []Alignment) *Table {
	t.columnAlignment = alignment
	return t
}

// WithHeaderAlignment sets the alignment of header cells per column. Columns
// without an entry are centered.
func (t *Table) WithHeaderAlignment(alignment []Alignment) *Table {
	t.headerAlignment = alignment
	return t
}

// Append adds a body row.
func (t *Table) Append(row []string) {
	t.rows = append(t.rows, row)
}

// Render writes the table.
func (t *Table) Render() error {
	widths := t.columnWidths()
	if len(widths) == 0 {
		return nil
	}
	var out strings.Builder
	separator := t.separator(widths)
	out.WriteString(separator)
	if t.header != nil {
		t.writeRow(&out, t.header, widths, t.headerAlignment, AlignCenter)
		out.WriteString(separator)
	}
	for _, row := range t.rows {
		t.writeRow(&out, row, widths, t.columnAlignment, AlignLeft)
	}
	out.WriteString(separator)
	_, err := io.WriteString(t.w, out.String())
	return err
}

func (t *Table) columnWidths() []int {
	var widths []int
	measure := func(row []string) {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], visibleWidth(cell))
		}
	}
	measure(t.header)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func (t *Table) separator(widths []int) string {
	var sb strings.Builder
	sb.WriteString("+")
	for _, w := range widths {
		sb.WriteString(strings.Repeat("-", w+2))
		sb.WriteString("+")
	}
	sb.WriteString("\n")
	return sb.String()
}

func (t *Table) writeRow(sb *strings.Builder, row []string, widths []int, alignment []Alignment, fallback Alignment) {
	sb.WriteString("|")
	for i, w := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		align := fallback
		if i < len(alignment) {
			align = alignment[i]
		}
		sb.WriteString(" ")
		sb.WriteString(pad(cell, w, align))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}

func pad(cell string, width int, align Alignment) string {
	gap := width - visibleWidth(cell)
	if gap <= 0 {
		return cell
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + cell
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", gap-left)
	default:
		return cell + strings.Repeat(" ", gap)
	}
}
