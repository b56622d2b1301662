package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tpyparser/internal/diagfmt"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [flags] <file.py|->",
		Short: "Print the syntax tree of a source",
		Long: `Parse builds the tree of a source and prints it. The source may be broken:
unparsable statements show up as Bad nodes and the rest of the tree is kept.`,
		Args: cobra.ExactArgs(1),
		RunE: runParse,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	cmd.Flags().Bool("with-errors", false, "print diagnostics to stderr after the tree")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	e, err := buildEngine(cmd)
	if err != nil {
		return err
	}
	src, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	tree := e.Parse(src)
	out := cmd.OutOrStdout()
	switch strings.ToLower(format) {
	case "pretty":
		err = diagfmt.FormatTreePretty(out, tree)
	case "json":
		err = diagfmt.FormatTreeJSON(out, tree)
	case "msgpack":
		err = diagfmt.FormatTreeMsgpack(out, tree)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}

	if withErrors, _ := cmd.Flags().GetBool("with-errors"); withErrors {
		errOut := cmd.ErrOrStderr()
		for _, info := range e.FindAllErrors(src) {
			fmt.Fprintf(errOut, "%d:%d %s %s\n", info.Line, info.Offset, info.Code, info.Msg)
		}
	}
	return nil
}
