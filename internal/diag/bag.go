package diag

import (
	"cmp"
	"slices"
)

// Bag collects the diagnostics of one file. It is not safe for concurrent use;
// parallel drivers keep one bag per file.
type Bag struct {
	items []Diagnostic
	max   int // 0: без ограничения
}

func NewBag(max int) *Bag {
	hint := max
	if hint <= 0 || hint > 64 {
		hint = 16
	}
	return &Bag{items: make([]Diagnostic, 0, hint), max: max}
}

// Add appends d unless the bag is full.
func (b *Bag) Add(d Diagnostic) bool {
	if b.Full() {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Full reports whether the limit is reached.
func (b *Bag) Full() bool {
	return b.max > 0 && len(b.items) >= b.max
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items возвращает внутренний срез: только для чтения.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, Diagnostic.IsError)
}

// Count returns the number of errors and warnings. Notes are not counted.
func (b *Bag) Count() (errors, warnings int) {
	for _, d := range b.items {
		switch {
		case d.IsError():
			errors++
		case d.Severity == SevWarning:
			warnings++
		}
	}
	return errors, warnings
}

// Errors returns a copy of the error-severity diagnostics in bag order.
func (b *Bag) Errors() []Diagnostic {
	return b.Filter(Diagnostic.IsError).items
}

// Filter returns a new unlimited bag with the diagnostics keep accepts.
func (b *Bag) Filter(keep func(Diagnostic) bool) *Bag {
	out := NewBag(0)
	for _, d := range b.items {
		if keep(d) {
			out.items = append(out.items, d)
		}
	}
	return out
}

// PromoteWarnings raises every warning to error severity.
func (b *Bag) PromoteWarnings() {
	for i := range b.items {
		if b.items[i].Severity == SevWarning {
			b.items[i].Severity = SevError
		}
	}
}

// Sort orders by file, then span, then severity (errors first), then code.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}

// Dedup drops repeats of the same code on the same span. The bag must be
// sorted first.
func (b *Bag) Dedup() {
	b.items = slices.CompactFunc(b.items, func(x, y Diagnostic) bool {
		return x.Code == y.Code && x.Primary == y.Primary
	})
}
