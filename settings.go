package tpyparser

import (
	"fmt"
	"os"
	"slices"

	"tpyparser/internal/config"
	"tpyparser/internal/modules"
)

// Format selects the grammar of a module stub body.
type Format = modules.Format

const (
	FormatAuto    = modules.FormatAuto
	FormatStub    = modules.FormatStub
	FormatCompact = modules.FormatCompact
	FormatLegacy  = modules.FormatLegacy
)

// ParseFormat maps "stub", "compact", "legacy" or "" onto a Format.
func ParseFormat(s string) (Format, error) {
	f, err := modules.ParseFormat(s)
	if err != nil {
		return f, &ConfigurationError{Op: "module format", Err: err}
	}
	return f, nil
}

// Language returns the active language code.
func (e *Engine) Language() string { return e.msgs.Language() }

// Languages lists the available language codes.
func (e *Engine) Languages() []string { return e.msgs.Languages() }

// LanguageName returns the display name of a language code.
func (e *Engine) LanguageName(code string) string { return e.msgs.LanguageName(code) }

// SetLanguage switches the message language. Regional codes fall back to
// their base language. An unsupported code returns a *ConfigurationError and
// keeps the active language.
func (e *Engine) SetLanguage(code string) error {
	if err := e.msgs.SetLanguage(code); err != nil {
		return &ConfigurationError{Op: "language", Err: err}
	}
	e.cfg.Language = e.msgs.Language()
	return nil
}

// SetErrorMessage overrides the template of code in the active language.
// Templates use {0}, {1}, ... for arguments and {code} for the code itself.
func (e *Engine) SetErrorMessage(code, template string) {
	e.msgs.SetMessage(code, template)
}

// Config returns a copy of the current flags.
func (e *Engine) Config() Config {
	cfg := e.cfg
	if cfg.Modules != nil {
		m := make(map[string]string, len(cfg.Modules))
		for k, v := range cfg.Modules {
			m[k] = v
		}
		cfg.Modules = m
	}
	return cfg
}

// SetConfig replaces every flag. The language is switched when cfg names
// one; modules listed in cfg are not loaded (see LoadConfig).
func (e *Engine) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return &ConfigurationError{Op: "config", Err: err}
	}
	if cfg.Language != "" && cfg.Language != e.msgs.Language() {
		if err := e.SetLanguage(cfg.Language); err != nil {
			return err
		}
	}
	cfg.Language = e.msgs.Language()
	e.cfg = cfg
	return nil
}

// LoadConfig reads a TOML or YAML config file, applies its flags and
// defines the stub modules it lists. Stub files are read before anything is
// changed, so a failure leaves the engine as it was.
func (e *Engine) LoadConfig(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return &ConfigurationError{Op: "load config", Err: err}
	}
	bodies := make(map[string]string, len(cfg.Modules))
	for name, file := range cfg.Modules {
		// #nosec G304 -- stub paths come from the user's config
		data, err := os.ReadFile(file)
		if err != nil {
			return &ConfigurationError{Op: "module " + name, Err: err}
		}
		bodies[name] = string(data)
	}
	if err := e.SetConfig(cfg); err != nil {
		return err
	}
	names := make([]string, 0, len(bodies))
	for name := range bodies {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		e.DefineModule(name, bodies[name], FormatAuto)
	}
	return nil
}

// DefineModule loads a stub body and installs it under name, replacing any
// earlier module of that name in one step. Malformed parts of the body are
// skipped; see ModuleProblems.
func (e *Engine) DefineModule(name, body string, format Format) {
	e.mods.Define(name, body, format)
}

// ModuleProblems describes the parts of a module body that were skipped.
func (e *Engine) ModuleProblems(name string) []string {
	m, ok := e.mods.Get(name)
	if !ok {
		return nil
	}
	out := make([]string, len(m.Problems))
	for i, p := range m.Problems {
		out[i] = p.String()
	}
	return out
}

// ModuleNames lists every importable module, built-ins included.
func (e *Engine) ModuleNames() []string { return e.mods.Names() }

func (e *Engine) PythonVersion() int { return e.cfg.PythonVersion }

// SetPythonVersion selects the Python 2 or Python 3 grammar.
func (e *Engine) SetPythonVersion(v int) error {
	if v != 2 && v != 3 {
		return &ConfigurationError{Op: "python version", Err: fmt.Errorf("must be 2 or 3, got %d", v)}
	}
	e.cfg.PythonVersion = v
	return nil
}

func (e *Engine) NewDivision() bool { return e.cfg.NewDivision }
func (e *Engine) SetNewDivision(v bool) { e.cfg.NewDivision = v }
func (e *Engine) EvalMode() bool { return e.cfg.EvalMode }
func (e *Engine) SetEvalMode(v bool) { e.cfg.EvalMode = v }
func (e *Engine) RejectDeadCode() bool { return e.cfg.RejectDeadCode }
func (e *Engine) SetRejectDeadCode(v bool) { e.cfg.RejectDeadCode = v }
func (e *Engine) RepeatStatement() bool { return e.cfg.RepeatStatement }
func (e *Engine) SetRepeatStatement(v bool) { e.cfg.RepeatStatement = v }
func (e *Engine) SagePower() bool { return e.cfg.SagePower }
func (e *Engine) SetSagePower(v bool) { e.cfg.SagePower = v }
func (e *Engine) TranslateUnicodePunctuation() bool { return e.cfg.TranslateUnicodePunctuation }
func (e *Engine) SetTranslateUnicodePunctuation(v bool) { e.cfg.TranslateUnicodePunctuation = v }
func (e *Engine) WarningAsErrors() bool { return e.cfg.WarningAsErrors }
func (e *Engine) SetWarningAsErrors(v bool) { e.cfg.WarningAsErrors = v }
