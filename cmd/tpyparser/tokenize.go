package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tpyparser/internal/diagfmt"
	"tpyparser/internal/driver"
	"tpyparser/internal/source"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] <file.py|->",
		Short: "Print the token stream of a source",
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	format = strings.ToLower(format)
	e, err := buildEngine(cmd)
	if err != nil {
		return err
	}
	src, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}
	name := args[0]
	if name == "-" {
		name = "<stdin>"
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual(name, []byte(src))
	res := driver.Tokenize(fs.Get(id), e.Config(), maxDiagnostics(cmd))

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(out, res.Tokens, res.File)
	case "json":
		err = diagfmt.FormatTokensJSON(out, res.Tokens, res.File)
	case "msgpack":
		err = diagfmt.FormatTokensMsgpack(out, res.Tokens, res.File)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}

	// лексические ошибки в stderr, чтобы не портить машинный вывод
	if res.Bag.Len() > 0 {
		errOut := cmd.ErrOrStderr()
		diagfmt.Short(errOut, res.Bag, fs, prettyOpts(cmd, e, errOut))
	}
	if res.Bag.HasErrors() {
		return errFoundErrors
	}
	return nil
}
