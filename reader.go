package apacheconf

import "github.com/lefeck/apacheconf/loader"

// Reader resolves a (filename, base) pair to a canonical source
// identifier and its contents (§4.2). It lives in package loader; this
// alias keeps it reachable from the module root.
type Reader = loader.Reader

// FileReader is the default filesystem-backed Reader.
type FileReader = loader.FileReader

// NewFileReader creates a FileReader using the given hooks (either may
// be nil).
func NewFileReader(hooks Hooks) *FileReader { return loader.NewFileReader(hooks) }

// StringReader serves fixed in-memory text under a synthetic name,
// falling through to disk for any include it encounters.
type StringReader = loader.StringReader

// NewStringReader creates a StringReader serving content under name.
func NewStringReader(name string, content []byte, hooks Hooks) *StringReader {
	return loader.NewStringReader(name, content, hooks)
}
