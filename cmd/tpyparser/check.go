package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tpyparser"
	"tpyparser/internal/diag"
	"tpyparser/internal/diagfmt"
	"tpyparser/internal/driver"
	"tpyparser/internal/source"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] <file.py|directory>...",
		Short: "Check source files for syntax errors and warnings",
		Long:  `Check parses every given file (directories are searched for *.py and *.tpy) and reports all diagnostics`,
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
	f := cmd.Flags()
	f.String("format", "pretty", "output format (pretty|short|json|msgpack)")
	f.Int("jobs", 0, "max parallel workers (0=auto)")
	f.Bool("no-warnings", false, "hide warnings")
	f.Bool("with-notes", false, "include diagnostic notes")
	f.Int("context", 0, "source lines of context around each diagnostic")
	f.String("path-mode", "", "how to print paths (absolute|basename)")
	f.Bool("disk-cache", false, "reuse diagnostics of unchanged files between runs")
	f.String("cache-dir", "", "disk cache directory (default: user cache dir)")
	f.Bool("clear-cache", false, "drop the disk cache before checking")
	f.String("ui", "auto", "progress view (auto|on|off)")
	return cmd
}

// runCheck executes the "check" command. It returns errFoundErrors when any
// file has error-severity diagnostics or could not be read.
func runCheck(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	format, _ := flags.GetString("format")
	format = strings.ToLower(format)
	switch format {
	case "pretty", "short", "json", "msgpack":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	mode, err := readUIMode(mustString(cmd, "ui"))
	if err != nil {
		return err
	}

	e, err := buildEngine(cmd)
	if err != nil {
		return err
	}
	files, err := driver.ListFiles(args)
	if err != nil {
		return fmt.Errorf("list files: %w", err)
	}

	opts := driver.BatchOptions{
		Options: driver.Options{Config: e.Config(), MaxDiagnostics: maxDiagnostics(cmd)},
	}
	opts.Jobs, _ = flags.GetInt("jobs")
	if cache, err := openCache(cmd); err != nil {
		return err
	} else if cache != nil {
		opts.Cache = cache
	}

	out := cmd.OutOrStdout()
	var (
		fs      *source.FileSet
		results []driver.FileResult
	)
	if format == "pretty" && shouldUseTUI(mode, out, len(files)) {
		fs, results, err = runCheckWithUI(cmd.Context(), out, files, opts)
	} else {
		fs, results, err = driver.CheckFiles(cmd.Context(), files, opts)
	}
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}

	noWarnings, _ := flags.GetBool("no-warnings")
	entries := make([]diagfmt.BatchEntry, len(results))
	for i, r := range results {
		bag := r.Bag
		if noWarnings && bag != nil {
			bag = onlyErrors(bag)
		}
		entries[i] = diagfmt.BatchEntry{Path: r.Path, Bag: bag, Err: r.Err}
	}
	if err := renderBatch(cmd, e, out, format, entries, fs); err != nil {
		return err
	}

	sum := driver.Summarize(results)
	if quiet, _ := flags.GetBool("quiet"); !quiet && (format == "pretty" || format == "short") {
		printSummary(cmd.ErrOrStderr(), sum)
	}
	if timings, _ := flags.GetBool("timings"); timings {
		printTimings(cmd.ErrOrStderr(), results)
	}
	if sum.Errors > 0 || sum.Failed > 0 {
		return errFoundErrors
	}
	return nil
}

func renderBatch(cmd *cobra.Command, e *tpyparser.Engine, out io.Writer, format string, entries []diagfmt.BatchEntry, fs *source.FileSet) error {
	pathMode := diagfmt.ParsePathMode(mustString(cmd, "path-mode"))
	withNotes, _ := cmd.Flags().GetBool("with-notes")
	jsonOpts := diagfmt.JSONOpts{PathMode: pathMode, IncludeNotes: withNotes, Message: e.Message}
	switch format {
	case "json":
		return diagfmt.BatchJSON(out, entries, fs, jsonOpts)
	case "msgpack":
		return diagfmt.BatchMsgpack(out, entries, fs, jsonOpts)
	}

	opts := prettyOpts(cmd, e, out)
	opts.PathMode = pathMode
	opts.ShowNotes = withNotes
	opts.Context, _ = cmd.Flags().GetInt("context")
	for _, en := range entries {
		if en.Err != nil {
			fmt.Fprintf(out, "%s: %v\n", en.Path, en.Err)
			continue
		}
		if format == "short" {
			diagfmt.Short(out, en.Bag, fs, opts)
		} else {
			diagfmt.Pretty(out, en.Bag, fs, opts)
		}
	}
	return nil
}

func openCache(cmd *cobra.Command) (*driver.DiskCache, error) {
	flags := cmd.Flags()
	enabled, _ := flags.GetBool("disk-cache")
	dir, _ := flags.GetString("cache-dir")
	clearFirst, _ := flags.GetBool("clear-cache")
	if !enabled && dir == "" && !clearFirst {
		return nil, nil
	}
	var (
		cache *driver.DiskCache
		err   error
	)
	if dir != "" {
		cache, err = driver.OpenDiskCacheDir(dir)
	} else {
		cache, err = driver.OpenDiskCache("tpyparser")
	}
	if err != nil {
		return nil, fmt.Errorf("open disk cache: %w", err)
	}
	if clearFirst {
		if err := cache.DropAll(); err != nil {
			return nil, fmt.Errorf("clear disk cache: %w", err)
		}
	}
	if !enabled && dir == "" {
		return nil, nil
	}
	return cache, nil
}

func onlyErrors(bag *diag.Bag) *diag.Bag {
	return bag.Filter(diag.Diagnostic.IsError)
}

func printSummary(w io.Writer, s driver.Summary) {
	fmt.Fprintf(w, "checked %d file(s): %d error(s), %d warning(s)", s.Files, s.Errors, s.Warnings)
	if s.Cached > 0 {
		fmt.Fprintf(w, ", %d cached", s.Cached)
	}
	if s.Failed > 0 {
		fmt.Fprintf(w, ", %d unreadable", s.Failed)
	}
	fmt.Fprintln(w)
}

func printTimings(w io.Writer, results []driver.FileResult) {
	for _, r := range results {
		if r.Result == nil {
			continue
		}
		fmt.Fprintf(w, "%s: %s\n", r.Path, r.Result.Timings)
	}
}

func mustString(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Errorf("flag %s: %w", name, err))
	}
	return v
}
