package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"tpyparser/internal/diag"
	"tpyparser/internal/source"
	"tpyparser/internal/trace"
)

// SourceExts are the file extensions collected from directories.
var SourceExts = []string{".py", ".tpy"}

// FileResult is the outcome of checking one file in a batch.
type FileResult struct {
	Path   string
	File   *source.File // nil when the file could not be read
	Bag    *diag.Bag
	Result *Result // nil for cache hits and load errors
	Cached bool
	Err    error
}

// BatchOptions configure CheckFiles.
type BatchOptions struct {
	Options
	Jobs  int        // <= 0: GOMAXPROCS
	Cache *DiskCache // optional
	// OnFile is called from worker goroutines as each file finishes.
	OnFile func(FileResult)
}

// ListFiles expands paths: directories are walked for source files, plain
// files are taken as given. The result is sorted and deduplicated.
func ListFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		err := filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if path == p || slices.Contains(SourceExts, filepath.Ext(path)) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

// CheckFiles analyzes files in parallel. Results are in input order. Only
// cancellation of ctx is returned as an error; per-file problems land in
// FileResult.Err or the diagnostics.
func CheckFiles(ctx context.Context, files []string, opts BatchOptions) (*source.FileSet, []FileResult, error) {
	fileSet := source.NewFileSet()
	results := make([]FileResult, len(files))
	if len(files) == 0 {
		return fileSet, results, nil
	}

	// файлы грузим последовательно: FileSet не потокобезопасен на запись
	ids := make([]source.FileID, len(files))
	for i, path := range files {
		results[i].Path = path
		id, err := fileSet.Load(path)
		if err != nil {
			results[i].Err = err
			continue
		}
		ids[i] = id
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	tracer := trace.FromContext(ctx)
	batch := trace.Begin(tracer, trace.ScopeDriver, "check-batch", trace.ParentSpan(ctx))
	ctx = trace.WithSpan(ctx, batch)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))
	for i := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			// индекс i уникален, мьютекс не нужен
			res := &results[i]
			if res.Err == nil {
				res.File = fileSet.Get(ids[i])
				checkOne(gctx, res, opts)
			}
			if opts.OnFile != nil {
				opts.OnFile(*res)
			}
			return nil
		})
	}
	err := g.Wait()
	batch.WithExtra("files", strconv.Itoa(len(files))).End("")
	return fileSet, results, err
}

func checkOne(ctx context.Context, res *FileResult, opts BatchOptions) {
	key := DigestOf(res.File.Content, opts.Config, opts.MaxDiagnostics)
	if opts.Cache != nil {
		if p, ok, err := opts.Cache.Get(key); err == nil && ok {
			res.Bag = bagOf(p, res.File)
			res.Cached = true
			return
		}
	}
	r := Analyze(ctx, res.File, opts.Options)
	res.Result, res.Bag = r, r.Bag
	if opts.Cache != nil {
		// кэш: оптимизация, ошибка записи не портит результат проверки
		_ = opts.Cache.Put(key, payloadOf(res.Path, key, r.Bag)) //nolint:errcheck
	}
}

// Summary counts files and diagnostics of a batch.
type Summary struct {
	Files, Failed, Errors, Warnings, Cached int
}

// Summarize tallies results.
func Summarize(results []FileResult) Summary {
	var s Summary
	for _, r := range results {
		s.Files++
		if r.Err != nil {
			s.Failed++
			continue
		}
		if r.Cached {
			s.Cached++
		}
		errs, warns := r.Bag.Count()
		s.Errors += errs
		s.Warnings += warns
	}
	return s
}
