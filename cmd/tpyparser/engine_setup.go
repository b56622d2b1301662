package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tpyparser"
	"tpyparser/internal/diagfmt"
	"tpyparser/internal/trace"
)

func addDialectFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("config", "", "config file (.toml, .yaml)")
	pf.Int("python-version", 3, "language version (2|3)")
	pf.Bool("new-division", true, "'/' is true division")
	pf.Bool("eval", false, "source must be a single expression")
	pf.Bool("reject-dead-code", false, "report unreachable statements")
	pf.Bool("repeat", false, "enable the 'repeat n:' statement")
	pf.Bool("sage-power", false, "parse '^' as power")
	pf.Bool("translate-punctuation", false, "replace look-alike unicode punctuation with ASCII")
	pf.BoolP("warnings-as-errors", "W", false, "treat warnings as errors")
	pf.String("lang", "", "message language (en|de|fr|...)")
	pf.StringArray("module", nil, "define a module from a stub file: name=path[:format]")
}

// buildEngine creates an engine from the config file and then applies the
// flags given explicitly on the command line.
func buildEngine(cmd *cobra.Command) (*tpyparser.Engine, error) {
	e, err := tpyparser.NewEngine(tpyparser.Options{
		Config: tpyparser.DefaultConfig(),
		Tracer: trace.FromContext(cmd.Context()),
	})
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if path, _ := flags.GetString("config"); path != "" {
		if err := e.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	cfg := e.Config()
	if flags.Changed("python-version") {
		cfg.PythonVersion, _ = flags.GetInt("python-version")
	}
	boolFlags := map[string]*bool{
		"new-division":          &cfg.NewDivision,
		"eval":                  &cfg.EvalMode,
		"reject-dead-code":      &cfg.RejectDeadCode,
		"repeat":                &cfg.RepeatStatement,
		"sage-power":            &cfg.SagePower,
		"translate-punctuation": &cfg.TranslateUnicodePunctuation,
		"warnings-as-errors":    &cfg.WarningAsErrors,
	}
	for name, dst := range boolFlags {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}
	if lang, _ := flags.GetString("lang"); lang != "" {
		cfg.Language = lang
	}
	if err := e.SetConfig(cfg); err != nil {
		return nil, err
	}

	specs, _ := flags.GetStringArray("module")
	for _, spec := range specs {
		if err := defineModuleFlag(e, spec); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// defineModuleFlag handles one --module name=path[:format].
func defineModuleFlag(e *tpyparser.Engine, spec string) error {
	name, rest, ok := strings.Cut(spec, "=")
	if !ok || name == "" || rest == "" {
		return fmt.Errorf("invalid --module %q (expected name=path[:format])", spec)
	}
	path, formatName := rest, ""
	if i := strings.LastIndexByte(rest, ':'); i > 0 {
		if _, err := tpyparser.ParseFormat(rest[i+1:]); err == nil {
			path, formatName = rest[:i], rest[i+1:]
		}
	}
	format, err := tpyparser.ParseFormat(formatName)
	if err != nil {
		return err
	}
	// #nosec G304 -- path is provided by the user
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("module %s: %w", name, err)
	}
	e.DefineModule(name, string(body), format)
	return nil
}

// readSource reads a file argument; "-" reads stdin.
func readSource(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	// #nosec G304 -- path is provided by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

func maxDiagnostics(cmd *cobra.Command) int {
	n, _ := cmd.Flags().GetInt("max-diagnostics")
	return max(n, 0)
}

func prettyOpts(cmd *cobra.Command, e *tpyparser.Engine, w io.Writer) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:   useColor(cmd, w),
		Message: e.Message,
	}
}
