package apacheconf

import (
	"github.com/lefeck/apacheconf/dumper"
	"github.com/lefeck/apacheconf/loader"
	"github.com/lefeck/apacheconf/tree"
)

// Style controls the dumper's indentation and quoting.
type Style = dumper.Style

// DefaultStyle returns the conventional two-space, double-quote style.
func DefaultStyle() Style { return dumper.DefaultStyle() }

// Load reads and parses filename through r, resolving includes and
// producing the final value tree (§6).
func Load(r Reader, filename string, opts ...Option) (*tree.Map, error) {
	return loader.Load(r, filename, NewOptions(opts...))
}

// LoadFile is a convenience wrapper over Load using the default
// filesystem Reader.
func LoadFile(filename string, opts ...Option) (*tree.Map, error) {
	o := NewOptions(opts...)
	return loader.Load(NewFileReader(o.Plug), filename, o)
}

// Loads parses in-memory text, resolving any includes it contains
// against the process's working directory (§6).
func Loads(text string, opts ...Option) (*tree.Map, error) {
	return loader.Loads(text, NewOptions(opts...))
}

// Dump renders m to Apache-style text using style.
func Dump(m *tree.Map, style Style, opts ...Option) string {
	return dumper.Render(m, NewOptions(opts...), style)
}

// Dumps renders m to Apache-style text using the default style.
func Dumps(m *tree.Map, opts ...Option) string {
	return dumper.Render(m, NewOptions(opts...), DefaultStyle())
}
