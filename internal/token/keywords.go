package token

import "slices"

var keywords = map[string]Kind{
	"False":    KwFalse,
	"None":     KwNone,
	"True":     KwTrue,
	"and":      KwAnd,
	"as":       KwAs,
	"assert":   KwAssert,
	"async":    KwAsync,
	"await":    KwAwait,
	"break":    KwBreak,
	"class":    KwClass,
	"continue": KwContinue,
	"def":      KwDef,
	"del":      KwDel,
	"elif":     KwElif,
	"else":     KwElse,
	"except":   KwExcept,
	"exec":     KwExec,
	"finally":  KwFinally,
	"for":      KwFor,
	"from":     KwFrom,
	"global":   KwGlobal,
	"if":       KwIf,
	"import":   KwImport,
	"in":       KwIn,
	"is":       KwIs,
	"lambda":   KwLambda,
	"nonlocal": KwNonlocal,
	"not":      KwNot,
	"or":       KwOr,
	"pass":     KwPass,
	"print":    KwPrint,
	"raise":    KwRaise,
	"repeat":   KwRepeat,
	"return":   KwReturn,
	"try":      KwTry,
	"while":    KwWhile,
	"with":     KwWith,
	"yield":    KwYield,
}

// Dialect selects which dialect-dependent words are keywords.
type Dialect struct {
	PythonVersion   int
	RepeatStatement bool
}

// LookupKeyword возвращает тип и bool если это ключевое слово в данном диалекте.
// Ключевые слова регистрозависимые.
func LookupKeyword(ident string, d Dialect) (Kind, bool) {
	k, ok := keywords[ident]
	if !ok {
		return Ident, false
	}
	switch k {
	case KwPrint, KwExec:
		if d.PythonVersion >= 3 {
			return Ident, false
		}
	case KwNonlocal, KwAsync, KwAwait:
		if d.PythonVersion < 3 {
			return Ident, false
		}
	case KwRepeat:
		if !d.RepeatStatement {
			return Ident, false
		}
	}
	return k, true
}

// IsReservedWord reports whether ident is a keyword in any dialect.
func IsReservedWord(ident string) bool {
	_, ok := keywords[ident]
	return ok
}

// StatementOnlyKeyword reports whether k can only start a statement; such a
// keyword never appears inside an open bracket in valid code.
func StatementOnlyKeyword(k Kind) bool {
	switch k {
	case KwDef, KwClass, KwReturn, KwImport, KwWhile, KwTry, KwExcept, KwFinally,
		KwElif, KwWith, KwPass, KwBreak, KwContinue, KwRaise, KwGlobal, KwNonlocal,
		KwDel, KwAssert, KwRepeat, KwPrint, KwExec:
		return true
	}
	return false
}

// Keywords lists the words that are keywords under d, sorted.
func Keywords(d Dialect) []string {
	out := make([]string, 0, len(keywords))
	for word := range keywords {
		if _, ok := LookupKeyword(word, d); ok {
			out = append(out, word)
		}
	}
	slices.Sort(out)
	return out
}
