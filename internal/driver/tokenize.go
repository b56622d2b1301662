package driver

import (
	"fmt"

	"tpyparser/internal/config"
	"tpyparser/internal/diag"
	"tpyparser/internal/lexer"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

type TokenizeResult struct {
	File   *source.File
	Tokens []token.Token
	Bag    *diag.Bag
}

// Tokenize runs only the lexer; diagnostics are the lexical ones.
func Tokenize(file *source.File, cfg config.Config, maxDiagnostics int) *TokenizeResult {
	bag := diag.NewBag(maxDiagnostics)
	toks := lexer.Tokenize(file, lexer.Options{
		Reporter:                    diag.BagReporter{Bag: bag},
		Dialect:                     cfg.Dialect(),
		TranslateUnicodePunctuation: cfg.TranslateUnicodePunctuation,
	})
	bag.Sort()
	return &TokenizeResult{File: file, Tokens: toks, Bag: bag}
}

// TokenizePath loads path and tokenizes it.
func TokenizePath(path string, cfg config.Config, maxDiagnostics int) (*TokenizeResult, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return Tokenize(fs.Get(id), cfg, maxDiagnostics), nil
}
