package loader

import (
	"io"
	"os"
	"path/filepath"

	aerrors "github.com/lefeck/apacheconf/errors"
)

// Reader resolves a (filename, base) pair to a canonical source
// identifier and its contents, per §4.2. The canonical id is what the
// AST cache keys on, so a Reader is responsible for making logically
// equivalent includes (e.g. "./a.conf" and "a.conf" from the same
// directory) collapse to the same id.
type Reader interface {
	Read(filename, base string) (canonicalID string, content []byte, err error)
}

// FileReader is the default Reader: it resolves filename against base
// when relative, canonicalizes via filepath.Abs, and reads the file
// from disk. Its behavior can be intercepted with pre_open/pre_read
// hooks carried on Options.
type FileReader struct {
	Hooks Hooks
}

// NewFileReader creates a FileReader using the given hooks (either may
// be nil).
func NewFileReader(hooks Hooks) *FileReader {
	return &FileReader{Hooks: hooks}
}

// Read implements Reader.
func (r *FileReader) Read(filename, base string) (string, []byte, error) {
	if r.Hooks.PreOpen != nil {
		proceed, newFilename, newBase := r.Hooks.PreOpen(filename, base)
		if !proceed {
			return "", nil, aerrors.New(aerrors.IncludeIOError, "include vetoed by pre_open hook").
				WithSource(filename)
		}
		filename, base = newFilename, newBase
	}

	path := filename
	if !filepath.IsAbs(path) && base != "" {
		path = filepath.Join(base, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	f, err := os.Open(path)
	if err != nil {
		return "", nil, aerrors.New(aerrors.IncludeIOError, "cannot open include").
			WithSource(path).WithInnerError(err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return "", nil, aerrors.New(aerrors.IncludeIOError, "cannot read include").
			WithSource(path).WithInnerError(err)
	}

	if r.Hooks.PreRead != nil {
		proceed, newSource, newText := r.Hooks.PreRead(abs, raw)
		if !proceed {
			return "", nil, aerrors.New(aerrors.IncludeIOError, "include vetoed by pre_read hook").
				WithSource(abs)
		}
		abs, raw = newSource, []byte(newText)
	}

	return abs, raw, nil
}

// StringReader serves a fixed in-memory source under a synthetic name,
// used by Loads for top-level in-memory text. Includes it encounters
// fall through to a FileReader rooted at the process's working
// directory, per §6 ("relative includes resolve against process CWD").
type StringReader struct {
	Name    string
	Content []byte
	Hooks   Hooks
	disk    *FileReader
}

// NewStringReader creates a StringReader serving content under name.
func NewStringReader(name string, content []byte, hooks Hooks) *StringReader {
	return &StringReader{Name: name, Content: content, Hooks: hooks, disk: NewFileReader(hooks)}
}

// Read implements Reader. The synthetic top-level name is served
// directly; any other filename is delegated to disk.
func (r *StringReader) Read(filename, base string) (string, []byte, error) {
	if filename == r.Name {
		return r.Name, r.Content, nil
	}
	return r.disk.Read(filename, base)
}
