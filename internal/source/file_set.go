package source

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns the files of one run; a FileID is an index into it.
type FileSet struct {
	files []File
}

func NewFileSet() *FileSet {
	return &FileSet{}
}

// Add stores content under path. Every call creates a new FileID, even for a
// path seen before.
func (fs *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	id := FileID(n)
	fs.files = append(fs.files, newFile(id, filepath.ToSlash(filepath.Clean(path)), content, flags))
	return id
}

// Load reads path from disk. A UTF-8 BOM is dropped and "\r\n" or a lone
// "\r" becomes "\n".
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- путь задаёт вызывающий
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := decode(raw)
	return fs.Add(path, content, flags), nil
}

func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content, FileVirtual)
}

func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

func (fs *FileSet) Len() int {
	return len(fs.files)
}

var bom = []byte{0xEF, 0xBB, 0xBF}

func decode(raw []byte) ([]byte, FileFlags) {
	var flags FileFlags
	if rest, ok := bytes.CutPrefix(raw, bom); ok {
		raw = rest
		flags |= FileHadBOM
	}
	if bytes.IndexByte(raw, '\r') >= 0 {
		raw = bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
		raw = bytes.ReplaceAll(raw, []byte("\r"), []byte("\n"))
		flags |= FileNormalizedNewlines
	}
	return raw, flags
}

// BaseName returns the last element of path.
func BaseName(path string) string {
	return filepath.Base(path)
}
