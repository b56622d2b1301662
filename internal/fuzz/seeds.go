package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

const maxSeedBytes = 64 << 10

const maxFuzzInput = 1 << 16 // 64 KiB

// snippets cover the dialect corners that the testdata files do not.
var snippets = []string{
	"",
	"print 'hi'\n",
	"def f(x y):\n    pass\n",
	"repeat 4:\n    forward(10)\n",
	"x = 2 ^ 3\n",
	"s = 'abc\n",
	"if x\n    pass\n",
	"class A:\n  def m(self):\n\treturn self.\n",
	"f(a, *b, c=1, **d)\n",
	"match p:\n    case (1, y):\n        pass\n",
	"x = [i for i in range(10) if i % 2]\n",
	"s = f'{x!r:>{w}}'\n",
	"\ufeffa = 1 \u2013 2\n",
	"try:\n    pass\nexcept E, e:\n    raise E, 'v'\n",
	"((((((((((((((((((((x))))))))))))))))))))\n",
	"lambda *a, **k: a\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range snippets {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все исходники
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if !slices.Contains([]string{".py", ".tpy", ".pyi"}, filepath.Ext(path)) {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}
