package loader

import (
	"log/slog"

	"github.com/lefeck/apacheconf/tree"
)

// FlagBitsSpec maps an option name to its set of recognized flag names
// and the scalar each one is coerced to when present, implementing the
// flagbits option (§4.1).
type FlagBitsSpec map[string]map[string]string

// PreOpenHook is invoked before an include target is opened, letting a
// caller veto the open or substitute the filename/base directory. It
// returns (proceed, filename, base).
type PreOpenHook func(filename, base string) (bool, string, string)

// PreReadHook is invoked after a source's raw bytes are read but before
// they are lexed, letting a caller substitute the text. It returns
// (proceed, source, text).
type PreReadHook func(source string, raw []byte) (bool, string, string)

// Hooks bundles the two injection points a Reader consults.
type Hooks struct {
	PreOpen PreOpenHook
	PreRead PreReadHook
}

// Options is the immutable configuration bag threaded through the
// lexer, parser, loader and dumper. Build one with NewOptions and the
// With* functions; Options itself is never mutated after construction.
type Options struct {
	AllowMultiOptions             bool
	ForceArray                    bool
	LowercaseNames                bool
	UseApacheInclude              bool
	IncludeAgain                  bool
	IncludeRelative               bool
	IncludeDirectories            bool
	IncludeGlob                   bool
	ConfigPath                    []string
	MergeDuplicateBlocks          bool
	MergeDuplicateOptions         bool
	AutoTrue                      bool
	FlagBits                      FlagBitsSpec
	DefaultConfig                 *tree.Map
	InterpolateVars               bool
	InterpolateEnv                bool
	AllowSingleQuoteInterpolation bool
	StrictVars                    bool
	CComments                     bool
	NoStripValues                 bool
	NoEscape                      bool
	NamedBlocks                   bool
	Plug                          Hooks
	// Logger receives Debug-level records for include resolution, AST
	// cache hits, and interpolation fallbacks (SPEC_FULL §2.2). It is
	// never used to report the parse-tree shape itself — that stays in
	// the returned value tree or error. Defaults to slog.Default() when
	// left nil.
	Logger *slog.Logger
}

// Option mutates an in-progress Options during construction.
type Option func(*Options)

// DefaultOptions returns the documented defaults from §4.1, with none of
// the With* overrides applied.
func DefaultOptions() Options {
	return Options{
		AllowMultiOptions: true,
		UseApacheInclude:  true,
		StrictVars:        true,
		CComments:         true,
		NoStripValues:     true,
		NamedBlocks:       true,
		Logger:            slog.Default(),
	}
}

// NewOptions folds opts onto DefaultOptions and normalizes derived
// flags (interpolateenv implies interpolatevars).
func NewOptions(opts ...Option) *Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.InterpolateEnv {
		o.InterpolateVars = true
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return &o
}

// WithAllowMultiOptions sets allowmultioptions.
func WithAllowMultiOptions(v bool) Option { return func(o *Options) { o.AllowMultiOptions = v } }

// WithForceArray sets forcearray.
func WithForceArray(v bool) Option { return func(o *Options) { o.ForceArray = v } }

// WithLowercaseNames sets lowercasenames.
func WithLowercaseNames(v bool) Option { return func(o *Options) { o.LowercaseNames = v } }

// WithUseApacheInclude sets useapacheinclude.
func WithUseApacheInclude(v bool) Option { return func(o *Options) { o.UseApacheInclude = v } }

// WithIncludeAgain sets includeagain.
func WithIncludeAgain(v bool) Option { return func(o *Options) { o.IncludeAgain = v } }

// WithIncludeRelative sets includerelative.
func WithIncludeRelative(v bool) Option { return func(o *Options) { o.IncludeRelative = v } }

// WithIncludeDirectories sets includedirectories.
func WithIncludeDirectories(v bool) Option { return func(o *Options) { o.IncludeDirectories = v } }

// WithIncludeGlob sets includeglob.
func WithIncludeGlob(v bool) Option { return func(o *Options) { o.IncludeGlob = v } }

// WithConfigPath sets the configpath search list.
func WithConfigPath(paths ...string) Option {
	return func(o *Options) { o.ConfigPath = paths }
}

// WithMergeDuplicateBlocks sets mergeduplicateblocks.
func WithMergeDuplicateBlocks(v bool) Option {
	return func(o *Options) { o.MergeDuplicateBlocks = v }
}

// WithMergeDuplicateOptions sets mergeduplicateoptions.
func WithMergeDuplicateOptions(v bool) Option {
	return func(o *Options) { o.MergeDuplicateOptions = v }
}

// WithAutoTrue sets autotrue.
func WithAutoTrue(v bool) Option { return func(o *Options) { o.AutoTrue = v } }

// WithFlagBits sets the flagbits specification.
func WithFlagBits(spec FlagBitsSpec) Option { return func(o *Options) { o.FlagBits = spec } }

// WithDefaultConfig sets the value tree merged underneath the result.
func WithDefaultConfig(def *tree.Map) Option { return func(o *Options) { o.DefaultConfig = def } }

// WithInterpolateVars sets interpolatevars.
func WithInterpolateVars(v bool) Option { return func(o *Options) { o.InterpolateVars = v } }

// WithInterpolateEnv sets interpolateenv (implies interpolatevars).
func WithInterpolateEnv(v bool) Option { return func(o *Options) { o.InterpolateEnv = v } }

// WithAllowSingleQuoteInterpolation sets allowsinglequoteinterpolation.
func WithAllowSingleQuoteInterpolation(v bool) Option {
	return func(o *Options) { o.AllowSingleQuoteInterpolation = v }
}

// WithStrictVars sets strictvars.
func WithStrictVars(v bool) Option { return func(o *Options) { o.StrictVars = v } }

// WithCComments sets ccomments.
func WithCComments(v bool) Option { return func(o *Options) { o.CComments = v } }

// WithNoStripValues sets nostripvalues.
func WithNoStripValues(v bool) Option { return func(o *Options) { o.NoStripValues = v } }

// WithNoEscape sets noescape.
func WithNoEscape(v bool) Option { return func(o *Options) { o.NoEscape = v } }

// WithNamedBlocks sets namedblocks.
func WithNamedBlocks(v bool) Option { return func(o *Options) { o.NamedBlocks = v } }

// WithPlugHooks sets the pre_open/pre_read hooks.
func WithPlugHooks(h Hooks) Option { return func(o *Options) { o.Plug = h } }

// WithLogger sets the logger that receives Debug-level diagnostic
// records (§2.2). Passing nil restores slog.Default().
func WithLogger(l *slog.Logger) Option { return func(o *Options) { o.Logger = l } }
