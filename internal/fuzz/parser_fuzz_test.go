package fuzztests

import (
	"context"
	"testing"
	"time"
	"unicode/utf8"

	"tpyparser/internal/completion"
	"tpyparser/internal/diag"
	"tpyparser/internal/modules"
	"tpyparser/internal/parser"
	"tpyparser/internal/source"
	"tpyparser/internal/testkit"
	"tpyparser/internal/token"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func parse(input []byte, version int) (*source.File, parser.Result, *diag.Bag) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("fuzz.py", input))
	bag := diag.NewBag(128)
	res := parser.ParseFile(file, parser.Options{
		Dialect:  token.Dialect{PythonVersion: version},
		Reporter: diag.BagReporter{Bag: bag},
	})
	return file, res, bag
}

func FuzzParserBuildsTree(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		for _, version := range []int{2, 3} {
			_, res, _ := parse(input, version)
			if res.Tree == nil {
				t.Fatalf("py%d: no tree", version)
			}
			if err := testkit.CheckSpanInvariants(res.Tree); err != nil {
				t.Fatalf("py%d: %v\ninput: %q", version, err, truncateForLog(input, 200))
			}
		}
	})
}

// FuzzParserNoHang tests that error recovery always makes progress.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("def f(:\n  )))\n"))
	f.Add([]byte("if if if if\n"))
	f.Add([]byte("\t\t  \t x = (\n"))
	f.Add([]byte("@@@@\nclass\n"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)

		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			parse(input, 3)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

func FuzzCompletion(f *testing.F) {
	addCorpusSeeds(f)
	mods := modules.NewRegistry()
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		file, res, _ := parse(input, 3)
		opts := completion.Options{Modules: mods, Dialect: token.Dialect{PythonVersion: 3}, Filter: true}

		mid := len(input) / 2
		for mid > 0 && !utf8.RuneStart(input[mid]) {
			mid--
		}
		for _, off := range []int{0, mid, len(input)} {
			r := completion.Complete(file, res.Tree, res.Tokens, uint32(off), opts)
			if r == nil {
				continue
			}
			for _, c := range r.Items {
				if c.Name == "" {
					t.Fatalf("empty candidate at %d", off)
				}
			}
		}
	})
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
