// Package diag defines the diagnostic model shared by the lexer, parser and
// checker passes.
//
// A Diagnostic carries a Code with a stable, locale independent ID ("E001",
// "W002"), positional template arguments and the primary span. The package does
// not render text: internal/messages turns (Code, Args) into a localized
// message, and internal/diagfmt formats the result for the CLI.
//
// Phases emit through a Reporter so that storage stays decoupled from
// production. BagReporter collects into a Bag, which supports sorting,
// deduplication and severity promotion.
//
// Keep the data model deterministic: the same input and configuration must
// yield the same diagnostics in the same order.
package diag
