// Package token defines lexical token kinds and trivia for the Python dialect.
// Invariants:
//   - Token.Text is the source text covered by Token.Span, except for tokens
//     rewritten by unicode punctuation translation, whose Text holds the ASCII form.
//   - Newline, Indent and Dedent are synthesized by the lexer; Indent and Dedent
//     have empty spans positioned at the first token of the line.
//   - Comments and blank lines are leading Trivia and never appear in the main
//     token stream.
//   - Dialect keywords (print, exec, repeat, nonlocal) are only produced when the
//     lexer options enable them; otherwise they are identifiers.
package token
