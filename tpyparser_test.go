package tpyparser

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tpyparser/internal/messages"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := NewEngine(Options{Config: DefaultConfig()})
	require.NoError(t, err)
	return e
}

func codes(errs []ErrorInfo) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestScenarioBadParameterList(t *testing.T) {
	e := newEngine(t)
	src := "def f(:\n    pass\n"

	errs := e.FindAllErrors(src)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrorInfo{Line: 1, Offset: 6, Msg: errs[0].Msg, Code: "E019"}, errs[0])
	assert.NotEmpty(t, errs[0].Msg)

	tree := e.Parse(src)
	require.Len(t, tree.Children, 1)
	assert.True(t, containsKind(tree, "Pass"), "pass statement must survive recovery")
}

func containsKind(n *Tree, kind string) bool {
	if n.Kind == kind {
		return true
	}
	for _, c := range n.Children {
		if containsKind(c, kind) {
			return true
		}
	}
	return false
}

func TestScenarioPrintStatement(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.SetPythonVersion(2))
	assert.Nil(t, e.CheckSyntax("print 'hi'"))

	require.NoError(t, e.SetPythonVersion(3))
	got := e.CheckSyntax("print 'hi'")
	require.NotNil(t, got)
	assert.Equal(t, "E014", got.Code)
}

func TestScenarioModuleCompletion(t *testing.T) {
	e := newEngine(t)
	e.DefineModule("shapes", "def area(radius) -> float: ...\n", FormatStub)

	src := "import shapes\nshapes.ar"
	items, err := e.AutoCompleteExt(src, len([]rune(src)))
	require.NoError(t, err)
	require.Len(t, items, 1)
	area := items[0]
	assert.Equal(t, "area", area.AcResult)
	assert.Equal(t, "function", area.Type)
	assert.Equal(t, []string{"radius"}, area.Params)
	require.NotNil(t, area.Signature)
	require.Len(t, area.Signature.PositionalOrKeyword, 1)
	assert.Equal(t, "radius", area.Signature.PositionalOrKeyword[0].Name)
	assert.Equal(t, "float", area.Signature.Returns)
}

func TestScenarioCustomMessage(t *testing.T) {
	e := newEngine(t)
	src := "x = = 3\n"
	before := e.CheckSyntax(src)
	require.NotNil(t, before)
	require.Equal(t, "E001", before.Code)

	e.SetErrorMessage("E001", "Custom: {0}")
	after := e.CheckSyntax(src)
	require.NotNil(t, after)
	assert.True(t, strings.HasPrefix(after.Msg, "Custom: "), "got %q", after.Msg)
	assert.NotEqual(t, before.Msg, after.Msg)
	assert.NotContains(t, after.Msg, "{0}")
}

func TestFindAllErrorsSortedAndCheckSyntaxIsFirst(t *testing.T) {
	e := newEngine(t)
	sources := []string{
		"",
		"x = 1\n",
		"x = = 3\ny = 4\nz = )\n",
		"def f(:\n    x = (1,\nprint x\n",
		"class A(\n    pass\nwhile True\n    break\n",
		"s = \"abc\nif x = 1:\n    pass\n",
		"  x = 1\ny = $\n",
	}
	for _, src := range sources {
		errs := e.FindAllErrors(src)
		require.NotNil(t, errs, "FindAllErrors(%q) must not be nil", src)
		assert.True(t, slices.IsSortedFunc(errs, func(a, b ErrorInfo) int {
			if a.Line != b.Line {
				return a.Line - b.Line
			}
			return a.Offset - b.Offset
		}), "unsorted: %+v", errs)

		first := e.CheckSyntax(src)
		if len(errs) == 0 {
			assert.Nil(t, first, "src %q", src)
		} else {
			require.NotNil(t, first, "src %q", src)
			assert.Equal(t, errs[0], *first)
		}

		lines := strings.Count(src, "\n") + 1
		for _, er := range errs {
			assert.GreaterOrEqual(t, er.Line, 1)
			assert.LessOrEqual(t, er.Line, lines, "diagnostic outside source: %+v", er)
			assert.GreaterOrEqual(t, er.Offset, 0)
		}
	}
}

func TestDeterminism(t *testing.T) {
	src := "x = = 3\ny = 4\nz = )\ndef f(:\n    pass\n"
	a := newEngine(t)
	first := a.FindAllErrors(src)
	assert.Equal(t, first, a.FindAllErrors(src))
	assert.Equal(t, first, newEngine(t).FindAllErrors(src))
}

func TestValidFixturesStatementCount(t *testing.T) {
	e := newEngine(t)
	files, err := filepath.Glob(filepath.Join("testdata", "valid", "*.py"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			src := readFixture(t, path)
			want, err := strconv.Atoi(header(src, "# statements:"))
			require.NoError(t, err)

			assert.Empty(t, e.FindAllErrors(src))
			assert.Len(t, e.Parse(src).Children, want)
		})
	}
}

func TestErrorFixtures(t *testing.T) {
	e := newEngine(t)
	files, err := filepath.Glob(filepath.Join("testdata", "errors", "*.py"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, path := range files {
		t.Run(filepath.Base(path), func(t *testing.T) {
			src := readFixture(t, path)
			want := strings.Fields(header(src, "# expect:"))
			assert.Equal(t, want, codes(e.FindAllErrors(src)))
		})
	}
}

func readFixture(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func header(src, prefix string) string {
	first, _, _ := strings.Cut(src, "\n")
	return strings.TrimSpace(strings.TrimPrefix(first, prefix))
}

func TestDefineModuleReplaces(t *testing.T) {
	e := newEngine(t)
	e.DefineModule("m", "def old(): ...\n", FormatAuto)
	e.DefineModule("m", "def fresh(a, b): ...\n", FormatAuto)

	n := 0
	for _, name := range e.ModuleNames() {
		if name == "m" {
			n++
		}
	}
	assert.Equal(t, 1, n)

	names, err := e.AutoComplete("import m\nm.", len("import m\nm."), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, names)
}

func TestDefineModuleMalformedBody(t *testing.T) {
	e := newEngine(t)
	e.DefineModule("broken", "fn ok() -> int\nfn (((\n", FormatCompact)
	assert.NotEmpty(t, e.ModuleProblems("broken"))

	names, err := e.AutoComplete("import broken\nbroken.", len("import broken\nbroken."), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"ok"}, names)
}

func TestDefineModuleDocstringDetectedAsStub(t *testing.T) {
	e := newEngine(t)
	e.DefineModule("shapes", "\"\"\"Shapes.\"\"\"\ndef area(radius) -> float: ...\n", FormatAuto)
	assert.Empty(t, e.ModuleProblems("shapes"))

	items, err := e.AutoCompleteExt("import shapes\nshapes.ar", 23)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "area", items[0].AcResult)
	assert.Equal(t, []string{"radius"}, items[0].Params)
}

func TestAutoCompleteInsideString(t *testing.T) {
	e := newEngine(t)
	items, err := e.AutoCompleteExt(`s = "abc" + t`, 6)
	require.NoError(t, err)
	assert.Nil(t, items)

	names, err := e.AutoComplete(`s = "abc" + t`, 6, true)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.NotNil(t, names)
}

func TestAutoCompleteCodePointPositions(t *testing.T) {
	e := newEngine(t)
	src := "имя = 1\nим"
	names, err := e.AutoComplete(src, len([]rune(src)), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"имя"}, names)
}

func TestAutoCompletePositionOutOfRange(t *testing.T) {
	e := newEngine(t)
	for _, pos := range []int{-1, 4} {
		_, err := e.AutoCompleteExt("abc", pos)
		assert.ErrorIs(t, err, ErrPositionOutOfRange, "pos %d", pos)
		_, err = e.AutoComplete("abc", pos, false)
		assert.ErrorIs(t, err, ErrPositionOutOfRange, "pos %d", pos)
	}
	_, err := e.AutoCompleteExt("abc", 3)
	assert.NoError(t, err)
}

func TestLanguages(t *testing.T) {
	e := newEngine(t)
	assert.Equal(t, "en", e.Language())
	assert.Subset(t, e.Languages(), []string{"en", "de", "fr"})

	require.NoError(t, e.SetLanguage("de-CH"))
	assert.Equal(t, "de", e.Language())

	err := e.SetLanguage("xx")
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	var langErr *messages.UnknownLanguageError
	assert.True(t, errors.As(err, &langErr))
	assert.Equal(t, "de", e.Language(), "failed switch keeps the language")
}

func TestMessagesFollowLanguage(t *testing.T) {
	e := newEngine(t)
	src := "x = = 3\n"
	en := e.CheckSyntax(src).Msg
	require.NoError(t, e.SetLanguage("de"))
	de := e.CheckSyntax(src).Msg
	assert.NotEqual(t, en, de)
}

func TestOverridesArePerLanguage(t *testing.T) {
	e := newEngine(t)
	e.SetErrorMessage("E001", "custom")
	require.NoError(t, e.SetLanguage("fr"))
	assert.NotEqual(t, "custom", e.CheckSyntax("x = = 3\n").Msg)
}

func TestWarningsAndPromotion(t *testing.T) {
	e := newEngine(t)
	src := "x = 1 / 0\n"
	assert.Empty(t, e.FindAllErrors(src))
	diags := e.Diagnostics(src)
	require.Len(t, diags, 1)
	assert.Equal(t, "W002", diags[0].Code.ID())

	e.SetWarningAsErrors(true)
	assert.Equal(t, []string{"W002"}, codes(e.FindAllErrors(src)))
}

func TestRejectDeadCode(t *testing.T) {
	e := newEngine(t)
	src := "def f():\n    return 1\n    x = 2\n"
	assert.Empty(t, e.FindAllErrors(src))
	e.SetRejectDeadCode(true)
	errs := e.FindAllErrors(src)
	require.Len(t, errs, 1)
	assert.Equal(t, ErrorInfo{Line: 3, Offset: 4, Msg: errs[0].Msg, Code: "E033"}, errs[0])
}

func TestConfigurationIsReadPerCall(t *testing.T) {
	e := newEngine(t)
	assert.NotNil(t, e.CheckSyntax("print 'hi'"))
	e.SetEvalMode(false)
	require.NoError(t, e.SetPythonVersion(2))
	assert.Nil(t, e.CheckSyntax("print 'hi'"), "flag change must not be hidden by the parse cache")

	err := e.SetPythonVersion(4)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 2, e.PythonVersion())
}

func TestLoadConfigTOML(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.LoadConfig(filepath.Join("testdata", "tpy.toml")))
	assert.Equal(t, 2, e.PythonVersion())
	assert.True(t, e.RejectDeadCode())
	assert.Equal(t, "de", e.Language())

	items, err := e.AutoCompleteExt("import shapes\nshapes.", len("import shapes\nshapes."))
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "area", items[0].AcResult)
	assert.Equal(t, "Area of a circle.", items[0].Documentation)
	assert.Equal(t, "Circle", items[1].AcResult)
	assert.Equal(t, []string{}, items[1].Params, "classes are callable")
}

func TestLoadConfigYAML(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.LoadConfig(filepath.Join("testdata", "tpy.yaml")))
	assert.False(t, e.NewDivision())
	assert.True(t, e.WarningAsErrors())
}

func TestLoadConfigErrorsLeaveEngineUnchanged(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tpy.toml")
	require.NoError(t, os.WriteFile(path, []byte("python_version = 2\n[modules]\nx = \"missing.pyi\"\n"), 0o600))

	e := newEngine(t)
	err := e.LoadConfig(path)
	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, 3, e.PythonVersion())

	require.Error(t, e.LoadConfig(filepath.Join(dir, "nope.ini")))
}

func TestClone(t *testing.T) {
	e := newEngine(t)
	e.DefineModule("shapes", "def area(radius) -> float: ...\n", FormatStub)
	e.SetErrorMessage("E001", "first")

	c := e.Clone()
	c.SetErrorMessage("E001", "second")
	c.DefineModule("extra", "def x(): ...\n", FormatStub)
	c.SetSagePower(true)

	assert.Equal(t, "first", e.CheckSyntax("x = = 3\n").Msg)
	assert.Equal(t, "second", c.CheckSyntax("x = = 3\n").Msg)
	assert.NotContains(t, e.ModuleNames(), "extra")
	assert.Contains(t, c.ModuleNames(), "shapes")
	assert.False(t, e.SagePower())
}

func TestNewEngineRejectsUnknownLanguage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Language = "xx"
	_, err := NewEngine(Options{Config: cfg})
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("compact")
	require.NoError(t, err)
	assert.Equal(t, FormatCompact, f)
	_, err = ParseFormat("xml")
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestDefaultEngineFunctions(t *testing.T) {
	prevLang := GetLanguage()
	prevVersion := PythonVersion()
	t.Cleanup(func() {
		_ = SetLanguage(prevLang)
		_ = SetPythonVersion(prevVersion)
	})

	assert.Contains(t, GetLanguages(), "en")
	assert.Nil(t, CheckSyntax("x = 1\n"))
	assert.NotEmpty(t, FindAllErrors("x = )\n"))
	assert.Equal(t, "Module", Parse("x = 1\n").Kind)

	DefineModule("defaultmod", "def ping(): ...\n", FormatStub)
	names, err := AutoComplete("import defaultmod\ndefaultmod.p", len("import defaultmod\ndefaultmod.p"), true)
	require.NoError(t, err)
	assert.Equal(t, []string{"ping"}, names)
	items, err := AutoCompleteExt("import defaultmod\ndefaultmod.p", len("import defaultmod\ndefaultmod.p"))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{}, items[0].Params)

	require.NoError(t, SetPythonVersion(2))
	assert.Nil(t, CheckSyntax("print 'hi'"))
}
