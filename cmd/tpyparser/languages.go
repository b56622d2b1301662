package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the languages diagnostics can be printed in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			active := e.Language()
			for _, code := range e.Languages() {
				mark := " "
				if code == active {
					mark = "*"
				}
				fmt.Fprintf(out, "%s %s\t%s\n", mark, code, e.LanguageName(code))
			}
			return nil
		},
	}
}
