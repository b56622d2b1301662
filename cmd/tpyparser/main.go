package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tpyparser/internal/version"
)

// errFoundErrors makes the process exit with status 1 without printing
// anything beyond the diagnostics themselves.
var errFoundErrors = errors.New("errors found")

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tpyparser",
		Short:         "TigerPython syntax checker and code-intelligence tools",
		Long:          `tpyparser checks TigerPython/Python programs for syntax errors, dumps tokens and trees, and answers completion queries`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newErrorsCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newCompleteCmd())
	rootCmd.AddCommand(newLanguagesCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file (0 = unlimited)")
	addDialectFlags(rootCmd)
	addTraceFlags(rootCmd)
	addProfileFlags(rootCmd)
	rootCmd.PersistentPreRunE = setupRun
	return rootCmd
}

// main builds the command tree and executes it. Any error, including
// diagnostics of severity error in the checked sources, exits with status 1.
func main() {
	err := newRootCmd().Execute()
	runCleanups()
	if err != nil {
		if !errors.Is(err, errFoundErrors) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color for output going to w.
func useColor(cmd *cobra.Command, w any) bool {
	flag, _ := cmd.Flags().GetString("color")
	switch flag {
	case "on", "always":
		return true
	case "off", "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
