package lexer

import (
	"tpyparser/internal/diag"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

type Options struct {
	Reporter diag.Reporter // может быть nil: тогда ошибки игнорируем (но продолжаем лексить)
	Dialect  token.Dialect
	// TranslateUnicodePunctuation rewrites look-alike punctuation to ASCII and
	// reports a warning instead of an error.
	TranslateUnicodePunctuation bool
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, args ...string) {
	diag.ReportError(lx.opts.Reporter, code, sp, args...).Emit()
}

func (lx *Lexer) warnLex(code diag.Code, sp source.Span, args ...string) {
	diag.ReportWarning(lx.opts.Reporter, code, sp, args...).Emit()
}

// errReplace reports an error that is fixed by writing text over sp.
func (lx *Lexer) errReplace(code diag.Code, sp source.Span, text string, args ...string) {
	diag.ReportError(lx.opts.Reporter, code, sp, args...).
		Replace("replace with '"+text+"'", sp, text).
		Emit()
}
