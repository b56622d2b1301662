package diag

import "tpyparser/internal/source"

// Reporter: минимальный контракт получения диагностик от фаз.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, args []string, notes []Note, fixes []Fix)
}

// ReportBuilder collects notes and fixes for one diagnostic. A nil builder
// is valid and does nothing, so callers can chain on a suppressed report.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// Build starts a diagnostic for r. A nil r yields a nil builder.
func Build(r Reporter, sev Severity, code Code, primary source.Span, args ...string) *ReportBuilder {
	if r == nil {
		return nil
	}
	return &ReportBuilder{reporter: r, diag: New(sev, code, primary, args...)}
}

// ReportError is Build with SevError.
func ReportError(r Reporter, code Code, primary source.Span, args ...string) *ReportBuilder {
	return Build(r, SevError, code, primary, args...)
}

// ReportWarning is Build with SevWarning.
func ReportWarning(r Reporter, code Code, primary source.Span, args ...string) *ReportBuilder {
	return Build(r, SevWarning, code, primary, args...)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil {
		b.diag = b.diag.WithNote(sp, msg)
	}
	return b
}

// WithFix adds a fix made of edits.
func (b *ReportBuilder) WithFix(title string, edits ...FixEdit) *ReportBuilder {
	if b != nil {
		b.diag = b.diag.WithFix(title, edits...)
	}
	return b
}

// Replace is WithFix for the common single-edit case.
func (b *ReportBuilder) Replace(title string, sp source.Span, newText string) *ReportBuilder {
	return b.WithFix(title, FixEdit{Span: sp, NewText: newText})
}

// Emit sends the diagnostic once; later calls are ignored.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	d := b.diag
	b.reporter.Report(d.Code, d.Severity, d.Primary, d.Args, d.Notes, d.Fixes)
	b.emitted = true
}

// Diagnostic returns what has been collected so far.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, args []string, notes []Note, fixes []Fix) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{
		Severity: sev, Code: code, Args: args,
		Primary: primary, Notes: notes, Fixes: fixes,
	})
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(code Code, sev Severity, primary source.Span, args []string, notes []Note, fixes []Fix)

func (f ReporterFunc) Report(code Code, sev Severity, primary source.Span, args []string, notes []Note, fixes []Fix) {
	f(code, sev, primary, args, notes, fixes)
}
