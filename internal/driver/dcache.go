package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"tpyparser/internal/diag"
	"tpyparser/internal/source"
)

// Current schema version - increment when DiskPayload format changes.
const diskCacheSchemaVersion uint16 = 2

// DiskCache stores batch check results on disk, keyed by input digest.
// Safe for concurrent use by batch workers.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached outcome of analyzing one file.
type DiskPayload struct {
	Schema      uint16             `msgpack:"schema"`
	Path        string             `msgpack:"path"`
	Digest      Digest             `msgpack:"digest"`
	Diagnostics []CachedDiagnostic `msgpack:"diags"`
}

// CachedDiagnostic is a diagnostic without its file binding.
type CachedDiagnostic struct {
	Severity diag.Severity `msgpack:"sev"`
	Code     diag.Code     `msgpack:"code"`
	Start    uint32        `msgpack:"start"`
	End      uint32        `msgpack:"end"`
	Args     []string      `msgpack:"args,omitempty"`
	Fixes    []CachedFix   `msgpack:"fixes,omitempty"`
}

// CachedFix keeps edits as offsets into the same file.
type CachedFix struct {
	Title string       `msgpack:"title"`
	Edits []CachedEdit `msgpack:"edits"`
}

type CachedEdit struct {
	Start   uint32 `msgpack:"start"`
	End     uint32 `msgpack:"end"`
	NewText string `msgpack:"text"`
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheDir(filepath.Join(base, app))
}

// OpenDiskCacheDir opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheDir(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	// подкаталог по первым двум символам, чтобы не держать тысячи файлов рядом
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put writes payload atomically (temp file + rename).
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil || payload == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после успешного Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode cache entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), p)
}

// Get reads the payload for key. A missing entry or one written by another
// schema version is a miss, not an error.
func (c *DiskCache) Get(key Digest) (*DiskPayload, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var out DiskPayload
	if err := msgpack.Unmarshal(data, &out); err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion || out.Digest != key {
		return nil, false, nil
	}
	return &out, true, nil
}

// DropAll removes every cached entry.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return os.RemoveAll(filepath.Join(c.dir, "results"))
}

// payloadOf detaches the diagnostics of an analysis from its file.
func payloadOf(path string, key Digest, bag *diag.Bag) *DiskPayload {
	p := &DiskPayload{Path: path, Digest: key}
	for _, d := range bag.Items() {
		cd := CachedDiagnostic{
			Severity: d.Severity,
			Code:     d.Code,
			Start:    d.Primary.Start,
			End:      d.Primary.End,
			Args:     d.Args,
		}
		for _, f := range d.Fixes {
			cf := CachedFix{Title: f.Title}
			for _, e := range f.Edits {
				cf.Edits = append(cf.Edits, CachedEdit{Start: e.Span.Start, End: e.Span.End, NewText: e.NewText})
			}
			cd.Fixes = append(cd.Fixes, cf)
		}
		p.Diagnostics = append(p.Diagnostics, cd)
	}
	return p
}

// bagOf rebinds cached diagnostics to file.
func bagOf(p *DiskPayload, file *source.File) *diag.Bag {
	bag := diag.NewBag(0)
	for _, d := range p.Diagnostics {
		out := diag.Diagnostic{
			Severity: d.Severity,
			Code:     d.Code,
			Args:     d.Args,
			Primary:  source.Span{File: file.ID, Start: d.Start, End: d.End},
		}
		for _, f := range d.Fixes {
			edits := make([]diag.FixEdit, 0, len(f.Edits))
			for _, e := range f.Edits {
				edits = append(edits, diag.FixEdit{Span: source.Span{File: file.ID, Start: e.Start, End: e.End}, NewText: e.NewText})
			}
			out = out.WithFix(f.Title, edits...)
		}
		bag.Add(out)
	}
	return bag
}
