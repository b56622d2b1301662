package diagfmt

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"tpyparser/internal/source"
)

// excerpt is one source line with the column range to underline.
type excerpt struct {
	line      uint32
	text      string
	pad, span int // в экранных колонках
}

// lineExcerpt cuts the line holding sp.Start and measures the underline in
// display cells, so tabs and wide characters keep the caret aligned.
func lineExcerpt(f *source.File, sp source.Span) excerpt {
	lc := f.LineCol(sp.Start)
	text := strings.TrimRight(f.GetLine(lc.Line), "\r\n")
	col := min(int(lc.Col-1), len(text))
	endCol := len(text)
	if endLC := f.LineCol(sp.End); endLC.Line == lc.Line {
		endCol = min(int(endLC.Col-1), len(text))
	}
	text = expandTabs(text)
	before := expandTabs(f.GetLine(lc.Line)[:col])
	under := ""
	if endCol > col {
		under = expandTabs(f.GetLine(lc.Line)[col:endCol])
	}
	return excerpt{
		line: lc.Line,
		text: text,
		pad:  runewidth.StringWidth(before),
		span: max(1, runewidth.StringWidth(under)),
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}

// truncate shortens s to width display cells.
func truncate(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}
