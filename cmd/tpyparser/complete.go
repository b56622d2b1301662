package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"
)

func newCompleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete [flags] <file.py|->",
		Short: "List completion candidates at a cursor",
		Long: `Complete prints the names that may be typed at a cursor. The cursor is
either --pos (code points from the start of the source) or --line/--col
(1-based line, 0-based code point column). Without a cursor the end of the
source is used.`,
		Args: cobra.ExactArgs(1),
		RunE: runComplete,
	}
	f := cmd.Flags()
	f.Int("pos", -1, "cursor as code point offset")
	f.Int("line", 0, "cursor line (1-based)")
	f.Int("col", 0, "cursor column in code points (0-based)")
	f.Bool("filter", true, "keep only names starting with the typed prefix")
	f.Bool("details", false, "print type, parameters and documentation")
	f.String("format", "text", "output format (text|json)")
	return cmd
}

func runComplete(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	format, _ := flags.GetString("format")
	format = strings.ToLower(format)
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be text or json)", format)
	}
	e, err := buildEngine(cmd)
	if err != nil {
		return err
	}
	src, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}
	pos, err := cursor(cmd, src)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	details, _ := flags.GetBool("details")
	if details {
		items, err := e.AutoCompleteExt(src, pos)
		if err != nil {
			return err
		}
		if format == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(items)
		}
		for _, c := range items {
			line := c.AcResult
			if c.Params != nil {
				line += "(" + strings.Join(c.Params, ", ") + ")"
			}
			if c.Type != "" {
				line += "\t" + c.Type
			}
			if c.Documentation != "" {
				doc, _, _ := strings.Cut(c.Documentation, "\n")
				line += "\t" + doc
			}
			fmt.Fprintln(out, line)
		}
		return nil
	}

	filter, _ := flags.GetBool("filter")
	names, err := e.AutoComplete(src, pos, filter)
	if err != nil {
		return err
	}
	if format == "json" {
		return json.NewEncoder(out).Encode(names)
	}
	for _, n := range names {
		fmt.Fprintln(out, n)
	}
	return nil
}

// cursor converts the cursor flags into a code point offset.
func cursor(cmd *cobra.Command, src string) (int, error) {
	flags := cmd.Flags()
	pos, _ := flags.GetInt("pos")
	line, _ := flags.GetInt("line")
	col, _ := flags.GetInt("col")
	switch {
	case pos >= 0 && line > 0:
		return 0, errors.New("--pos and --line are mutually exclusive")
	case pos >= 0:
		return pos, nil
	case line > 0:
		return lineColToPos(src, line, col)
	default:
		return utf8.RuneCountInString(src), nil
	}
}

func lineColToPos(src string, line, col int) (int, error) {
	if col < 0 {
		return 0, fmt.Errorf("column %d out of range", col)
	}
	pos := 0
	for n := 1; n < line; n++ {
		i := strings.IndexByte(src, '\n')
		if i < 0 {
			return 0, fmt.Errorf("line %d out of range", line)
		}
		pos += utf8.RuneCountInString(src[:i+1])
		src = src[i+1:]
	}
	text, _, _ := strings.Cut(src, "\n")
	if col > utf8.RuneCountInString(text) {
		return 0, fmt.Errorf("column %d out of range on line %d", col, line)
	}
	return pos + col, nil
}
