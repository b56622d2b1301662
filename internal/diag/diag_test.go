package diag

import (
	"testing"

	"tpyparser/internal/source"
)

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		SynUnexpectedToken:     "E001",
		SemDeadCode:            "E033",
		LexPunctuationReplaced: "W001",
		SemUnusedComparison:    "W004",
	}
	for c, want := range cases {
		if got := c.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", c, got, want)
		}
		back, ok := ParseCode(want)
		if !ok || back != c {
			t.Errorf("ParseCode(%q) = %v, %v", want, back, ok)
		}
	}
	if _, ok := ParseCode("E999"); ok {
		t.Errorf("E999 must not parse")
	}
	if _, ok := ParseCode("X001"); ok {
		t.Errorf("X001 must not parse")
	}
}

func TestCodesAreSortedAndUnique(t *testing.T) {
	codes := Codes()
	seen := map[string]bool{}
	for i, c := range codes {
		if i > 0 && codes[i-1] >= c {
			t.Fatalf("codes not sorted at %d", i)
		}
		if seen[c.ID()] {
			t.Fatalf("duplicate id %s", c.ID())
		}
		seen[c.ID()] = true
	}
}

func TestBagSortDedupPromote(t *testing.T) {
	bag := NewBag(0)
	r := BagReporter{Bag: bag}
	r.Report(SemDivisionByZero, SevWarning, source.Span{Start: 10, End: 12}, nil, nil, nil)
	r.Report(SynMissingColon, SevError, source.Span{Start: 4, End: 4}, []string{"if"}, nil, nil)
	r.Report(SynMissingColon, SevError, source.Span{Start: 4, End: 4}, []string{"if"}, nil, nil)

	bag.Sort()
	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics after dedup, got %d", bag.Len())
	}
	if bag.Items()[0].Code != SynMissingColon {
		t.Errorf("first = %v", bag.Items()[0].Code)
	}
	if len(bag.Errors()) != 1 {
		t.Errorf("errors before promotion = %d", len(bag.Errors()))
	}
	bag.PromoteWarnings()
	if len(bag.Errors()) != 2 {
		t.Errorf("errors after promotion = %d", len(bag.Errors()))
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(1)
	if !bag.Add(New(SevError, SynExpectedExpr, source.Span{})) {
		t.Fatal("first add must succeed")
	}
	if bag.Add(New(SevError, SynExpectedExpr, source.Span{})) {
		t.Fatal("second add must hit the limit")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportError(BagReporter{Bag: bag}, SynUnclosedBracket, source.Span{Start: 1, End: 2}, "(").
		WithNote(source.Span{Start: 1, End: 2}, "opened here").
		WithFix("insert ')'", FixEdit{Span: source.Span{Start: 9, End: 9}, NewText: ")"})
	b.Emit()
	b.Emit()
	if bag.Len() != 1 {
		t.Fatalf("Emit must be idempotent, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Arg(0) != "(" || len(d.Notes) != 1 || len(d.Fixes) != 1 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
}

func TestNilBuilderIsSafe(t *testing.T) {
	b := ReportWarning(nil, SemDivisionByZero, source.Span{})
	if b != nil {
		t.Fatalf("nil reporter must give a nil builder")
	}
	b.WithNote(source.Span{}, "x").Replace("fix", source.Span{}, "y").Emit()
	if d := b.Diagnostic(); d.Code != 0 {
		t.Fatalf("nil builder diagnostic = %+v", d)
	}
}

func TestReporterFuncReceivesFix(t *testing.T) {
	var got []Fix
	r := ReporterFunc(func(_ Code, _ Severity, _ source.Span, _ []string, _ []Note, fixes []Fix) {
		got = fixes
	})
	ReportError(r, LexUnicodePunctuation, source.Span{Start: 2, End: 5}, "×", "*").
		Replace("replace with '*'", source.Span{Start: 2, End: 5}, "*").
		Emit()
	if len(got) != 1 || got[0].Title != "replace with '*'" || got[0].Edits[0].NewText != "*" {
		t.Fatalf("fixes = %+v", got)
	}
}

func TestSeverityText(t *testing.T) {
	for _, s := range []Severity{SevInfo, SevWarning, SevError} {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Severity
		if err := back.UnmarshalText(b); err != nil || back != s {
			t.Fatalf("%s: round trip gave %v, %v", s, back, err)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatal("unknown severity must fail")
	}
	if Severity(9).String() != "UNKNOWN" {
		t.Fatal("out of range severity")
	}
}

func TestBagCountAndFilter(t *testing.T) {
	bag := NewBag(0)
	bag.Add(New(SevError, SynExpectedExpr, source.Span{Start: 1}))
	bag.Add(New(SevWarning, SemDivisionByZero, source.Span{Start: 2}))
	bag.Add(New(SevInfo, SemDivisionByZero, source.Span{Start: 3}))

	errs, warns := bag.Count()
	if errs != 1 || warns != 1 {
		t.Fatalf("count = %d errors, %d warnings", errs, warns)
	}
	only := bag.Filter(Diagnostic.IsError)
	if only.Len() != 1 || only.Items()[0].Code != SynExpectedExpr {
		t.Fatalf("filtered = %+v", only.Items())
	}
	if bag.Len() != 3 {
		t.Errorf("filter must not touch the source bag")
	}
}
