package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"tpyparser/internal/ast"
)

// FormatTreePretty prints an exported tree one node per line, indented by
// depth:
//
//	Module 1:0-2:0
//	  Assign 1:0-1:5
//	    Name x 1:0-1:1
func FormatTreePretty(w io.Writer, root *ast.Node) error {
	return prettyNode(w, root, 0)
}

func prettyNode(w io.Writer, n *ast.Node, depth int) error {
	if n == nil {
		return nil
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(n.Kind)
	if n.Name != "" {
		b.WriteString(" " + n.Name)
	}
	if n.Op != "" {
		b.WriteString(" " + n.Op)
	}
	if n.Value != "" {
		fmt.Fprintf(&b, " %q", n.Value)
	}
	fmt.Fprintf(&b, " %d:%d-%d:%d\n", n.Line, n.Column, n.EndLine, n.EndColumn)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := prettyNode(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func FormatTreeJSON(w io.Writer, root *ast.Node) error {
	return encodeJSON(w, root)
}

func FormatTreeMsgpack(w io.Writer, root *ast.Node) error {
	return encodeMsgpack(w, root)
}
