package parser

import (
	"slices"

	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/lexer"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

const defaultMaxDepth = 200

type Options struct {
	Dialect                     token.Dialect
	SagePower                   bool // '^' означает возведение в степень
	EvalMode                    bool // весь исходник: одно выражение
	TranslateUnicodePunctuation bool
	MaxDepth                    int // 0: defaultMaxDepth
	Reporter                    diag.Reporter
}

type Result struct {
	Tree   *ast.Tree
	Tokens []token.Token
}

// Parser: состояние парсера на один файл
type Parser struct {
	file     *source.File
	toks     []token.Token
	pos      int
	arenas   *ast.Builder
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
	lexErrs  []uint32    // начала ошибок лексера, отсортированы

	stmtStart uint32
	failed    bool // в текущем операторе уже сообщили об ошибке
	depth     int
}

// lexTap пропускает диагностики лексера дальше и запоминает позиции ошибок,
// чтобы парсер не добавлял вторую ошибку в тот же оператор.
type lexTap struct {
	next diag.Reporter
	errs []uint32
}

func (t *lexTap) Report(code diag.Code, sev diag.Severity, sp source.Span, args []string, notes []diag.Note, fixes []diag.Fix) {
	if sev >= diag.SevError {
		t.errs = append(t.errs, sp.Start)
	}
	if t.next != nil {
		t.next.Report(code, sev, sp, args, notes, fixes)
	}
}

// ParseFile: входная точка для разбора одного файла: лексер, затем парсер.
// Always returns a tree; problems go to opts.Reporter.
func ParseFile(file *source.File, opts Options) Result {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaultMaxDepth
	}
	tap := &lexTap{next: opts.Reporter}
	toks := lexer.Tokenize(file, lexer.Options{
		Reporter:                    tap,
		Dialect:                     opts.Dialect,
		TranslateUnicodePunctuation: opts.TranslateUnicodePunctuation,
	})
	slices.Sort(tap.errs)

	p := newParser(file, toks, ast.NewBuilder(ast.Hints{Stmts: uint(len(toks)/6 + 1), Exprs: uint(len(toks)/2 + 1)}), opts)
	p.lexErrs = tap.errs

	var body []ast.StmtID
	if opts.EvalMode {
		body = p.parseEvalInput()
	} else {
		body = p.parseModule()
	}
	return Result{
		Tree:   p.arenas.Finish(file, body),
		Tokens: toks,
	}
}

func newParser(file *source.File, toks []token.Token, arenas *ast.Builder, opts Options) *Parser {
	return &Parser{
		file:     file,
		toks:     toks,
		arenas:   arenas,
		opts:     opts,
		lastSpan: source.Span{File: file.ID},
	}
}

// parseModule: основной цикл верхнего уровня: пока не EOF: операторы.
func (p *Parser) parseModule() []ast.StmtID {
	var body []ast.StmtID
	for !p.at(token.EOF) {
		if p.at(token.Dedent) {
			// лексер балансирует INDENT/DEDENT, но после ошибок отступа лучше не зависнуть
			p.advance()
			continue
		}
		body = append(body, p.parseStatementOrBlock()...)
	}
	return body
}

// parseBlock разбирает операторы до DEDENT (съедается) или EOF.
func (p *Parser) parseBlock() []ast.StmtID {
	var body []ast.StmtID
	for !p.at_or(token.Dedent, token.EOF) {
		body = append(body, p.parseStatementOrBlock()...)
	}
	if p.at(token.Dedent) {
		p.advance()
	}
	return body
}

// parseStatementOrBlock handles one statement, a stray NEWLINE or an
// unexpected INDENT. It always consumes at least one token.
func (p *Parser) parseStatementOrBlock() []ast.StmtID {
	start := p.pos
	var out []ast.StmtID
	switch {
	case p.at(token.Newline):
		p.advance()
	case p.at(token.Indent):
		p.beginStmt()
		p.report(diag.SynUnexpectedIndent, diag.SevError, p.peek().Span)
		p.advance()
		out = p.parseBlock()
	default:
		out = p.parseStatement()
	}
	if p.pos == start {
		p.advance()
	}
	return out
}

// parseEvalInput: весь вход: одно выражение (evalMode).
func (p *Parser) parseEvalInput() []ast.StmtID {
	for p.at(token.Newline) {
		p.advance()
	}
	if p.at(token.EOF) {
		return nil
	}
	p.beginStmt()
	start := p.peek().Span
	value := p.parseTestList()
	for p.at(token.Newline) {
		p.advance()
	}
	if !p.at(token.EOF) {
		p.report(diag.SynEvalNotExpression, diag.SevError, p.peek().Span)
		for !p.at(token.EOF) {
			p.advance()
		}
	}
	return []ast.StmtID{p.arenas.Stmts.NewValue(ast.StmtExpr, start.Cover(p.exprSpan(value)), value)}
}
