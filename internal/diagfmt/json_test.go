package diagfmt

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/vmihailenco/msgpack/v5"

	"tpyparser/internal/ast"
	"tpyparser/internal/diag"
	"tpyparser/internal/lexer"
	"tpyparser/internal/parser"
	"tpyparser/internal/source"
	"tpyparser/internal/token"
)

func TestJSONBasic(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("dir/test.py", []byte("x = 1\ns = \"дом"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnterminatedString, source.Span{File: id, Start: 10, End: 17}))

	var buf bytes.Buffer
	if err := JSON(&buf, bag, fs, JSONOpts{PathMode: PathModeBasename}); err != nil {
		t.Fatalf("JSON() error: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, buf.String())
	}
	want := DiagnosticsOutput{
		Count: 1,
		Diagnostics: []DiagnosticJSON{{
			Severity: "ERROR",
			Code:     "E004",
			Message:  "Unterminated string literal",
			Location: LocationJSON{
				File: "test.py", StartByte: 10, EndByte: 17,
				Line: 2, Column: 4, EndLine: 2, EndColumn: 8,
			},
		}},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.py", []byte("print(\"a\"，1)"))
	comma := source.Span{File: id, Start: 9, End: 12}
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexUnicodePunctuation, comma, "，").
		WithNote(comma, "fullwidth comma").
		WithFix("use ','", diag.FixEdit{Span: comma, NewText: ","}))

	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{})
	if n := len(out.Diagnostics[0].Notes); n != 0 {
		t.Errorf("notes included without IncludeNotes: %d", n)
	}
	out = BuildDiagnosticsOutput(bag, fs, JSONOpts{IncludeNotes: true})
	d := out.Diagnostics[0]
	if len(d.Notes) != 1 || d.Notes[0].Message != "fullwidth comma" {
		t.Errorf("notes = %+v", d.Notes)
	}
	if len(d.Fixes) != 1 || len(d.Fixes[0].Edits) != 1 {
		t.Fatalf("fixes = %+v", d.Fixes)
	}
	edit := d.Fixes[0].Edits[0]
	if edit.OldText != "，" || edit.NewText != "," || edit.Location.Column != 9 {
		t.Errorf("edit = %+v", edit)
	}
}

func TestJSONMax(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.py", []byte("a $ b $"))
	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevError, diag.LexInvalidChar, source.Span{File: id, Start: 2, End: 3}, "$"))
	bag.Add(diag.New(diag.SevError, diag.LexInvalidChar, source.Span{File: id, Start: 6, End: 7}, "$"))
	out := BuildDiagnosticsOutput(bag, fs, JSONOpts{Max: 1})
	if out.Count != 1 {
		t.Errorf("count = %d, want 1", out.Count)
	}
}

func TestMsgpackRoundTrip(t *testing.T) {
	bag, fs := divisionBag("prog.py", "x = 1 / 0\n")
	var buf bytes.Buffer
	if err := Msgpack(&buf, bag, fs, JSONOpts{}); err != nil {
		t.Fatalf("Msgpack() error: %v", err)
	}
	var out DiagnosticsOutput
	if err := msgpack.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(BuildDiagnosticsOutput(bag, fs, JSONOpts{}), out, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchOutput(t *testing.T) {
	bag, fs := divisionBag("a.py", "x = 1 / 0\n")
	out := BuildBatchOutput([]BatchEntry{
		{Path: "a.py", Bag: bag},
		{Path: "missing.py", Err: errors.New("no such file")},
	}, fs, JSONOpts{})
	if out.Warnings != 1 || out.Errors != 0 {
		t.Errorf("totals = %d errors, %d warnings", out.Errors, out.Warnings)
	}
	if len(out.Files) != 2 || out.Files[1].Error != "no such file" || out.Files[1].Diagnostics == nil {
		t.Errorf("files = %+v", out.Files)
	}
}

func TestFormatTokens(t *testing.T) {
	file := source.NewVirtualFile("t.py", "x = 1  # c\n")
	toks := lexer.Tokenize(file, lexer.Options{Dialect: token.Dialect{PythonVersion: 3}})

	var pretty bytes.Buffer
	if err := FormatTokensPretty(&pretty, toks, file); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(pretty.Bytes(), []byte(`"x" at 1:0-1:1`)) {
		t.Errorf("pretty tokens:\n%s", pretty.String())
	}

	out := BuildTokensOutput(toks, file)
	if out[len(out)-1].Kind != token.EOF.String() {
		t.Errorf("last token = %+v", out[len(out)-1])
	}
	var sawComment bool
	for _, o := range out {
		for _, l := range o.Leading {
			sawComment = sawComment || l == "Comment"
		}
	}
	if !sawComment {
		t.Errorf("comment trivia missing: %+v", out)
	}
}

func TestFormatTree(t *testing.T) {
	file := source.NewVirtualFile("t.py", "x = 1\n")
	res := parser.ParseFile(file, parser.Options{Dialect: token.Dialect{PythonVersion: 3}})
	root := res.Tree.Export()

	var buf bytes.Buffer
	if err := FormatTreePretty(&buf, root); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("Module ")) {
		t.Errorf("tree dump:\n%s", buf.String())
	}

	buf.Reset()
	if err := FormatTreeMsgpack(&buf, root); err != nil {
		t.Fatal(err)
	}
	var back ast.Node
	if err := msgpack.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(root, &back, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("tree round trip (-want +got):\n%s", diff)
	}
}
