package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newErrorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "errors [flags] <file.py|->",
		Short: "List every error of a single source",
		Long: `Errors prints the diagnostics of one source the way an editor integration
sees them: line, code point offset, code and message. With --first only the
first error is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: runErrors,
	}
	cmd.Flags().String("format", "text", "output format (text|json)")
	cmd.Flags().Bool("first", false, "print only the first error")
	return cmd
}

func runErrors(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
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

	infos := e.FindAllErrors(src)
	if first, _ := cmd.Flags().GetBool("first"); first && len(infos) > 1 {
		infos = infos[:1]
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(infos); err != nil {
			return err
		}
	} else {
		for _, info := range infos {
			fmt.Fprintf(out, "%d:%d %s %s\n", info.Line, info.Offset, info.Code, info.Msg)
		}
	}
	for _, info := range infos {
		if !strings.HasPrefix(info.Code, "W") {
			return errFoundErrors
		}
	}
	return nil
}
