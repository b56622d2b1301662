package tpyparser

import "sync"

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the process-wide engine used by the package-level
// functions. Like any Engine it must not be used from several goroutines at
// once.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = MustEngine(Options{Config: DefaultConfig()})
	})
	return defaultEngine
}

func GetLanguage() string { return Default().Language() }
func GetLanguages() []string { return Default().Languages() }
func SetLanguage(code string) error { return Default().SetLanguage(code) }
func SetErrorMessage(code, tmpl string) { Default().SetErrorMessage(code, tmpl) }
func CheckSyntax(src string) *ErrorInfo { return Default().CheckSyntax(src) }
func FindAllErrors(src string) []ErrorInfo { return Default().FindAllErrors(src) }
func Parse(src string) *Tree { return Default().Parse(src) }

func AutoComplete(src string, pos int, filter bool) ([]string, error) {
	return Default().AutoComplete(src, pos, filter)
}

func AutoCompleteExt(src string, pos int) ([]Completion, error) {
	return Default().AutoCompleteExt(src, pos)
}

func DefineModule(name, body string, format Format) {
	Default().DefineModule(name, body, format)
}

// Dialect flags of the default engine.

func PythonVersion() int { return Default().PythonVersion() }
func SetPythonVersion(v int) error { return Default().SetPythonVersion(v) }
func NewDivision() bool { return Default().NewDivision() }
func SetNewDivision(v bool) { Default().SetNewDivision(v) }
func EvalMode() bool { return Default().EvalMode() }
func SetEvalMode(v bool) { Default().SetEvalMode(v) }
func RejectDeadCode() bool { return Default().RejectDeadCode() }
func SetRejectDeadCode(v bool) { Default().SetRejectDeadCode(v) }
func RepeatStatement() bool { return Default().RepeatStatement() }
func SetRepeatStatement(v bool) { Default().SetRepeatStatement(v) }
func SagePower() bool { return Default().SagePower() }
func SetSagePower(v bool) { Default().SetSagePower(v) }
func TranslateUnicodePunctuation() bool { return Default().TranslateUnicodePunctuation() }
func SetTranslateUnicodePunctuation(v bool) { Default().SetTranslateUnicodePunctuation(v) }
func WarningAsErrors() bool { return Default().WarningAsErrors() }
func SetWarningAsErrors(v bool) { Default().SetWarningAsErrors(v) }
