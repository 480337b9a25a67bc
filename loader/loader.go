// Package loader walks a parsed AST into the final value tree: it
// resolves includes (recursing through a Reader/Lexer/Parser of its
// own, memoized by an AST cache), performs variable interpolation,
// applies the collection and merge policies, and materializes option
// values per §4.6. It also hosts the Options model and Reader contract
// (see options.go, reader.go), since both are consumed here and a root
// package needs to depend on this one without a cycle.
package loader

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lefeck/apacheconf/ast"
	aerrors "github.com/lefeck/apacheconf/errors"
	"github.com/lefeck/apacheconf/lexer"
	"github.com/lefeck/apacheconf/parser"
	"github.com/lefeck/apacheconf/tree"
)

// session carries everything a single Load/Loads call threads through
// its (possibly recursive, via includes) AST walk.
type session struct {
	reader Reader
	opts   *Options
	cache  *astCache

	// visiting holds canonical ids currently being walked, as an
	// include-cycle guard. Cycle detection is not required by the
	// specification, but is invited as a safe extension (§9).
	visiting map[string]bool
	// included holds every canonical id ever walked, used to implement
	// includeagain=false (a second include of the same id is a no-op).
	included map[string]bool
}

func newSession(r Reader, opts *Options) *session {
	return &session{
		reader:   r,
		opts:     opts,
		cache:    newASTCache(),
		visiting: make(map[string]bool),
		included: make(map[string]bool),
	}
}

// Load reads filename through r and returns its value tree.
func Load(r Reader, filename string, opts *Options) (*tree.Map, error) {
	if opts == nil {
		d := DefaultOptions()
		opts = &d
	}
	s := newSession(r, opts)

	id, cfg, err := s.parseSource(filename, "")
	if err != nil {
		return nil, err
	}

	result := tree.New()
	s.included[id] = true
	s.visiting[id] = true
	err = s.walkConfig(cfg, result, []*tree.Map{result}, filepath.Dir(id))
	delete(s.visiting, id)
	if err != nil {
		return nil, err
	}
	return s.finalize(result), nil
}

// Loads parses in-memory text and returns its value tree. Relative
// includes it encounters resolve against the process's working
// directory (§6).
func Loads(text string, opts *Options) (*tree.Map, error) {
	if opts == nil {
		d := DefaultOptions()
		opts = &d
	}
	const name = "<string>"
	r := NewStringReader(name, []byte(text), opts.Plug)
	s := newSession(r, opts)

	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}

	id, cfg, err := s.parseSource(name, cwd)
	if err != nil {
		return nil, err
	}

	result := tree.New()
	s.included[id] = true
	s.visiting[id] = true
	err = s.walkConfig(cfg, result, []*tree.Map{result}, cwd)
	delete(s.visiting, id)
	if err != nil {
		return nil, err
	}
	return s.finalize(result), nil
}

// parseSource reads and, unless cached, lexes and parses the named
// source, returning its canonical id alongside the AST.
func (s *session) parseSource(filename, base string) (string, *ast.Config, error) {
	id, raw, err := s.reader.Read(filename, base)
	if err != nil {
		return "", nil, err
	}
	if cfg, ok := s.cache.get(id); ok {
		s.opts.Logger.Debug("AST cache hit", "source", id)
		return id, cfg, nil
	}
	s.opts.Logger.Debug("AST cache miss", "source", id)

	lx := lexer.New(id, string(raw), s.opts.CComments, s.opts.NoEscape, s.opts.UseApacheInclude)
	ps := parser.New(lx, id)
	cfg, err := ps.Parse()
	if err != nil {
		return "", nil, err
	}
	s.cache.put(id, cfg)
	return id, cfg, nil
}

// finalize merges DefaultConfig underneath result; keys already present
// in result win.
func (s *session) finalize(result *tree.Map) *tree.Map {
	if s.opts.DefaultConfig == nil {
		return result
	}
	merged := tree.New()
	s.opts.DefaultConfig.Range(func(k string, v interface{}) bool {
		merged.Set(k, v)
		return true
	})
	result.Range(func(k string, v interface{}) bool {
		merged.Set(k, v)
		return true
	})
	return merged
}

// walkConfig walks every statement in cfg into into, with scope the
// active interpolation scope chain (innermost first) and baseDir the
// directory relative includes resolve against.
func (s *session) walkConfig(cfg *ast.Config, into *tree.Map, scope []*tree.Map, baseDir string) error {
	for _, stmt := range cfg.Children {
		switch n := stmt.(type) {
		case *ast.Comment:
			continue
		case *ast.Option:
			if err := s.walkOption(n, into, scope); err != nil {
				return err
			}
		case *ast.Block:
			if err := s.walkBlock(n, into, scope, baseDir); err != nil {
				return err
			}
		case *ast.Include:
			if err := s.walkInclude(n, into, scope, baseDir); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *session) walkOption(opt *ast.Option, into *tree.Map, scope []*tree.Map) error {
	name := opt.Name
	if s.opts.LowercaseNames {
		name = strings.ToLower(name)
	}

	val, err := s.materializeValue(opt.Value, scope)
	if err != nil {
		return err
	}

	if spec, ok := s.opts.FlagBits[opt.Name]; ok {
		val = applyFlagBits(spec, val)
	} else if s.opts.AutoTrue {
		val = applyAutoTrue(val)
	}

	return s.insert(into, name, val)
}

func (s *session) walkBlock(b *ast.Block, into *tree.Map, scope []*tree.Map, baseDir string) error {
	inner := tree.New()
	if !b.SelfClosing {
		newScope := append([]*tree.Map{inner}, scope...)
		if err := s.walkConfig(&ast.Config{Children: b.Children}, inner, newScope, baseDir); err != nil {
			return err
		}
	}

	tag := b.Tag
	if s.opts.LowercaseNames {
		tag = strings.ToLower(tag)
	}

	if b.HasName && s.opts.NamedBlocks {
		name := b.Name
		if s.opts.LowercaseNames {
			name = strings.ToLower(name)
		}
		named := tree.New()
		named.Set(name, inner)
		return s.insert(into, tag, named)
	}
	return s.insert(into, tag, inner)
}

// insert applies the collection policy of §4.6 for key k with value v
// entering mapping into.
func (s *session) insert(into *tree.Map, k string, v interface{}) error {
	existing, ok := into.Get(k)
	if !ok {
		into.Set(k, v)
		return nil
	}

	if existingMap, ok1 := existing.(*tree.Map); ok1 {
		if newMap, ok2 := v.(*tree.Map); ok2 && s.opts.MergeDuplicateBlocks {
			into.Set(k, deepMerge(existingMap, newMap))
			return nil
		}
	} else if s.opts.MergeDuplicateOptions {
		into.Set(k, v)
		return nil
	}

	if s.opts.AllowMultiOptions {
		if list, ok := existing.([]interface{}); ok {
			into.Set(k, append(list, v))
		} else {
			into.Set(k, []interface{}{existing, v})
		}
		return nil
	}

	return aerrors.New(aerrors.DuplicateKeyError, "duplicate key").WithDirective(k)
}

// materializeValue implements §4.6's value materialization table.
func (s *session) materializeValue(v ast.Value, scope []*tree.Map) (interface{}, error) {
	switch t := v.(type) {
	case ast.Bare:
		text := t.Text
		if !s.opts.NoEscape {
			text = unescape(text)
		}
		if !s.opts.NoStripValues {
			text = strings.TrimRight(text, " \t")
		}
		return s.interpolate(text, scope, s.opts.InterpolateVars)

	case ast.Quoted:
		text := t.Raw
		if !s.opts.NoEscape {
			text = unescape(text)
		}
		enabled := s.opts.InterpolateVars
		if t.Single {
			enabled = s.opts.InterpolateVars && s.opts.AllowSingleQuoteInterpolation
		}
		return s.interpolate(text, scope, enabled)

	case ast.Heredoc:
		text := t.Raw
		if !s.opts.NoEscape {
			text = unescape(text)
		}
		var enabled bool
		switch {
		case t.DoubleQuoted:
			enabled = s.opts.InterpolateVars
		case t.SingleQuoted:
			enabled = s.opts.InterpolateVars && s.opts.AllowSingleQuoteInterpolation
		default:
			enabled = false
		}
		return s.interpolate(text, scope, enabled)

	case ast.Array:
		items := make([]interface{}, len(t.Items))
		for i, elem := range t.Items {
			ev, err := s.materializeValue(elem, scope)
			if err != nil {
				return nil, err
			}
			items[i] = ev
		}
		return items, nil

	case ast.Empty:
		return "", nil

	default:
		return "", nil
	}
}

func (s *session) interpolate(text string, scope []*tree.Map, enabled bool) (string, error) {
	if !enabled {
		return text, nil
	}
	return interpolateVars(text, scope, s.opts.InterpolateEnv, s.opts.StrictVars, s.opts.Logger)
}

func (s *session) walkInclude(inc *ast.Include, into *tree.Map, scope []*tree.Map, baseDir string) error {
	candidates, err := s.expandIncludePaths(inc.Path, baseDir)
	if err != nil {
		if inc.Optional {
			return nil
		}
		return err
	}

	// The Reader only joins a still-relative path with baseDir under
	// includerelative; otherwise it resolves against the working directory.
	readBase := ""
	if s.opts.IncludeRelative {
		readBase = baseDir
	}

	for _, path := range candidates {
		id, cfg, err := s.parseSource(path, readBase)
		if err != nil {
			if inc.Optional {
				continue
			}
			return err
		}

		if s.visiting[id] {
			return aerrors.New(aerrors.IncludeError, "include cycle detected").WithSource(id)
		}
		if s.included[id] && !s.opts.IncludeAgain {
			continue
		}

		s.included[id] = true
		s.visiting[id] = true
		err = s.walkConfig(cfg, into, scope, filepath.Dir(id))
		delete(s.visiting, id)
		if err != nil {
			return err
		}
	}
	return nil
}

// expandIncludePaths resolves an include's raw path against baseDir
// and configpath, then expands it per includeglob/includedirectories.
// Glob and directory expansion operate on the filesystem directly
// (rather than through the pluggable Reader), since neither has a
// meaningful definition for an arbitrary Reader implementation.
func (s *session) expandIncludePaths(path, baseDir string) ([]string, error) {
	resolved := s.resolveIncludePath(path, baseDir)

	if s.opts.IncludeGlob && containsGlobMeta(path) {
		matches, err := filepath.Glob(resolved)
		if err != nil {
			return nil, aerrors.New(aerrors.IncludeError, "malformed include glob").WithSource(path)
		}
		sort.Strings(matches)
		return matches, nil
	}

	if s.opts.IncludeDirectories {
		if fi, err := os.Stat(resolved); err == nil && fi.IsDir() {
			entries, err := os.ReadDir(resolved)
			if err != nil {
				return nil, aerrors.New(aerrors.IncludeError, "cannot read include directory").
					WithSource(resolved).WithInnerError(err)
			}
			names := make([]string, len(entries))
			for i, e := range entries {
				names[i] = e.Name()
			}
			sort.Strings(names)
			out := make([]string, len(names))
			for i, n := range names {
				out[i] = filepath.Join(resolved, n)
			}
			return out, nil
		}
	}

	return []string{resolved}, nil
}

// resolveIncludePath resolves a relative include path per §4.1's
// includerelative/configpath semantics: the including file's own
// directory is only consulted when includerelative is set (first, so
// it takes priority), configpath is searched unconditionally, and
// lacking any hit, includerelative alone licenses an unconditional
// fall back to baseDir (so a false includerelative with no configpath
// hit leaves path as given, resolved against the process's working
// directory by the Reader instead).
func (s *session) resolveIncludePath(path, baseDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if s.opts.IncludeRelative && baseDir != "" {
		candidate := filepath.Join(baseDir, path)
		if _, err := os.Stat(candidate); err == nil {
			s.opts.Logger.Debug("include resolved against base directory", "path", path, "resolved", candidate)
			return candidate
		}
	}
	for _, dir := range s.opts.ConfigPath {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			s.opts.Logger.Debug("include resolved via configpath", "path", path, "resolved", candidate, "configpath_dir", dir)
			return candidate
		}
	}
	if s.opts.IncludeRelative && baseDir != "" {
		candidate := filepath.Join(baseDir, path)
		s.opts.Logger.Debug("include falling back to base directory", "path", path, "resolved", candidate)
		return candidate
	}
	s.opts.Logger.Debug("include left unresolved, deferring to reader", "path", path)
	return path
}

func containsGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[")
}
