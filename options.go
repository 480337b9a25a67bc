// Package apacheconf parses Apache-style / Config::General configuration
// text into an ordered value tree and re-serializes that tree back to
// text. See Load, Loads, Dump and Dumps for the programmatic surface.
package apacheconf

import "github.com/lefeck/apacheconf/loader"

// The Options model (§4.1) and the Reader abstraction (§4.2) live in
// package loader, since the loader is what actually consumes them and
// the root package would otherwise import-cycle with it. These aliases
// keep the public, documented surface at the module root.

type (
	// Options is the immutable configuration bag threaded through the
	// lexer, parser, loader and dumper.
	Options = loader.Options
	// Option mutates an in-progress Options during construction.
	Option = loader.Option
	// FlagBitsSpec maps an option name to its recognized flags (§4.1).
	FlagBitsSpec = loader.FlagBitsSpec
	// Hooks bundles the pre_open/pre_read injection points.
	Hooks = loader.Hooks
	// PreOpenHook vetoes or rewrites an include before it is opened.
	PreOpenHook = loader.PreOpenHook
	// PreReadHook vetoes or rewrites a source's text before it is lexed.
	PreReadHook = loader.PreReadHook
)

// DefaultOptions returns the documented defaults from §4.1.
func DefaultOptions() Options { return loader.DefaultOptions() }

// NewOptions folds opts onto DefaultOptions.
func NewOptions(opts ...Option) *Options { return loader.NewOptions(opts...) }

var (
	WithAllowMultiOptions             = loader.WithAllowMultiOptions
	WithForceArray                    = loader.WithForceArray
	WithLowercaseNames                = loader.WithLowercaseNames
	WithUseApacheInclude              = loader.WithUseApacheInclude
	WithIncludeAgain                  = loader.WithIncludeAgain
	WithIncludeRelative               = loader.WithIncludeRelative
	WithIncludeDirectories            = loader.WithIncludeDirectories
	WithIncludeGlob                   = loader.WithIncludeGlob
	WithConfigPath                    = loader.WithConfigPath
	WithMergeDuplicateBlocks          = loader.WithMergeDuplicateBlocks
	WithMergeDuplicateOptions         = loader.WithMergeDuplicateOptions
	WithAutoTrue                      = loader.WithAutoTrue
	WithFlagBits                      = loader.WithFlagBits
	WithDefaultConfig                 = loader.WithDefaultConfig
	WithInterpolateVars               = loader.WithInterpolateVars
	WithInterpolateEnv                = loader.WithInterpolateEnv
	WithAllowSingleQuoteInterpolation = loader.WithAllowSingleQuoteInterpolation
	WithStrictVars                    = loader.WithStrictVars
	WithCComments                     = loader.WithCComments
	WithNoStripValues                 = loader.WithNoStripValues
	WithNoEscape                      = loader.WithNoEscape
	WithNamedBlocks                   = loader.WithNamedBlocks
	WithPlugHooks                     = loader.WithPlugHooks
	WithLogger                        = loader.WithLogger
)
