package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.PythonVersion != 3 || !cfg.NewDivision {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.EvalMode || cfg.RejectDeadCode || cfg.RepeatStatement || cfg.SagePower || cfg.WarningAsErrors {
		t.Fatalf("optional flags must default to false: %+v", cfg)
	}
	if d := cfg.Dialect(); d.PythonVersion != 3 || d.RepeatStatement {
		t.Fatalf("dialect = %+v", d)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "tpy.toml", `
python_version = 2
repeat_statement = true
language = "de"

[modules]
shapes = "stubs/shapes.pyi"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := Default()
	want.PythonVersion = 2
	want.RepeatStatement = true
	want.Language = "de"
	want.Modules = map[string]string{"shapes": filepath.Join(filepath.Dir(path), "stubs/shapes.pyi")}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "tpy.yaml", "new_division: false\nsage_power: true\nwarning_as_errors: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.NewDivision || !cfg.SagePower || !cfg.WarningAsErrors || cfg.PythonVersion != 3 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadRejectsBadVersion(t *testing.T) {
	path := writeFile(t, "bad.toml", "python_version = 4\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := writeFile(t, "cfg.ini", "x=1\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected format error")
	}
}
