// Command apacheconf loads one or more Apache-style configuration
// files and emits the resulting value tree as JSON (or YAML), or,
// with --dump, re-serializes it back to Apache-style text. Flags
// mirror the options model of §4.1 one-for-one.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/lefeck/apacheconf"
	"github.com/lefeck/apacheconf/tree"
)

type flagSet struct {
	allowMultiOptions             bool
	forceArray                    bool
	lowercaseNames                bool
	useApacheInclude              bool
	includeAgain                  bool
	includeRelative               bool
	includeDirectories            bool
	includeGlob                   bool
	configPath                    []string
	mergeDuplicateBlocks          bool
	mergeDuplicateOptions         bool
	autoTrue                      bool
	flagBitsJSON                  string
	defaultConfigJSON             string
	interpolateVars               bool
	interpolateEnv                bool
	allowSingleQuoteInterpolation bool
	strictVars                    bool
	ccomments                     bool
	noStripValues                 bool
	noEscape                      bool
	namedBlocks                   bool

	dump   bool
	format string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &flagSet{}
	defaults := apacheconf.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "apacheconf [flags] FILE [FILE...]",
		Short: "Load Apache-style / Config::General configuration files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(flags, args)
		},
	}

	pf := cmd.Flags()
	pf.BoolVar(&flags.allowMultiOptions, "allowmultioptions", defaults.AllowMultiOptions, "collect duplicate option keys into an ordered list")
	pf.BoolVar(&flags.forceArray, "forcearray", defaults.ForceArray, "dump lists in bracketed [ a b ] form (bracketed values load as lists either way)")
	pf.BoolVar(&flags.lowercaseNames, "lowercasenames", defaults.LowercaseNames, "fold option and block names to lowercase")
	pf.BoolVar(&flags.useApacheInclude, "useapacheinclude", defaults.UseApacheInclude, "recognize Include/IncludeOptional directives")
	pf.BoolVar(&flags.includeAgain, "includeagain", defaults.IncludeAgain, "allow re-including the same file")
	pf.BoolVar(&flags.includeRelative, "includerelative", defaults.IncludeRelative, "resolve relative includes against the including file's directory")
	pf.BoolVar(&flags.includeDirectories, "includedirectories", defaults.IncludeDirectories, "expand a directory include into its entries")
	pf.BoolVar(&flags.includeGlob, "includeglob", defaults.IncludeGlob, "expand wildcard include paths")
	pf.StringSliceVar(&flags.configPath, "configpath", nil, "base directory searched for relative includes (repeatable)")
	pf.BoolVar(&flags.mergeDuplicateBlocks, "mergeduplicateblocks", defaults.MergeDuplicateBlocks, "deep-merge sibling blocks sharing a tag and name")
	pf.BoolVar(&flags.mergeDuplicateOptions, "mergeduplicateoptions", defaults.MergeDuplicateOptions, "let a later duplicate option overwrite an earlier one")
	pf.BoolVar(&flags.autoTrue, "autotrue", defaults.AutoTrue, "coerce yes/on/1/true and no/off/0/false leaf values")
	pf.StringVar(&flags.flagBitsJSON, "flagbits", "", "JSON {optName: {flagName: flagValue}}")
	pf.StringVar(&flags.defaultConfigJSON, "defaultconfig", "", "JSON value tree merged underneath the result")
	pf.BoolVar(&flags.interpolateVars, "interpolatevars", defaults.InterpolateVars, "substitute $name/${name} references")
	pf.BoolVar(&flags.interpolateEnv, "interpolateenv", defaults.InterpolateEnv, "also consult the process environment (implies interpolatevars)")
	pf.BoolVar(&flags.allowSingleQuoteInterpolation, "allowsinglequoteinterpolation", defaults.AllowSingleQuoteInterpolation, "interpolate inside single-quoted values too")
	pf.BoolVar(&flags.strictVars, "strictvars", defaults.StrictVars, "fail on an undefined variable reference")
	pf.BoolVar(&flags.ccomments, "ccomments", defaults.CComments, "recognize /* ... */ comments")
	pf.BoolVar(&flags.noStripValues, "nostripvalues", defaults.NoStripValues, "retain right-hand whitespace in bare values")
	pf.BoolVar(&flags.noEscape, "noescape", defaults.NoEscape, "treat backslash escapes as literal characters")
	pf.BoolVar(&flags.namedBlocks, "namedblocks", defaults.NamedBlocks, "split an opening tag's first whitespace into (tag, name)")
	pf.BoolVar(&flags.dump, "dump", false, "re-serialize the loaded tree to Apache-style text instead of emitting JSON/YAML")
	pf.StringVar(&flags.format, "format", "json", "output format for the loaded tree: json or yaml")

	return cmd
}

func run(flags *flagSet, files []string) error {
	opts, err := flags.toOptions()
	if err != nil {
		return err
	}

	type result struct {
		File  string      `json:"file"`
		Error string      `json:"error,omitempty"`
		Value interface{} `json:"config,omitempty"`
	}

	var results []result
	failed := false

	for _, f := range files {
		tr, err := apacheconf.LoadFile(f, opts...)
		if err != nil {
			failed = true
			results = append(results, result{File: f, Error: err.Error()})
			continue
		}

		if flags.dump {
			fmt.Println(apacheconf.Dumps(tr, opts...))
			continue
		}

		results = append(results, result{File: f, Value: tr.ToNative()})
	}

	if flags.dump {
		if failed {
			return fmt.Errorf("one or more files failed to load")
		}
		return nil
	}

	var payload interface{} = results
	if len(files) == 1 {
		payload = results[0]
	}

	switch flags.format {
	case "yaml":
		out, err := yaml.Marshal(payload)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	default:
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return err
		}
	}

	if failed {
		return fmt.Errorf("one or more files failed to load")
	}
	return nil
}

func (f *flagSet) toOptions() ([]apacheconf.Option, error) {
	opts := []apacheconf.Option{
		apacheconf.WithAllowMultiOptions(f.allowMultiOptions),
		apacheconf.WithForceArray(f.forceArray),
		apacheconf.WithLowercaseNames(f.lowercaseNames),
		apacheconf.WithUseApacheInclude(f.useApacheInclude),
		apacheconf.WithIncludeAgain(f.includeAgain),
		apacheconf.WithIncludeRelative(f.includeRelative),
		apacheconf.WithIncludeDirectories(f.includeDirectories),
		apacheconf.WithIncludeGlob(f.includeGlob),
		apacheconf.WithConfigPath(f.configPath...),
		apacheconf.WithMergeDuplicateBlocks(f.mergeDuplicateBlocks),
		apacheconf.WithMergeDuplicateOptions(f.mergeDuplicateOptions),
		apacheconf.WithAutoTrue(f.autoTrue),
		apacheconf.WithInterpolateVars(f.interpolateVars),
		apacheconf.WithInterpolateEnv(f.interpolateEnv),
		apacheconf.WithAllowSingleQuoteInterpolation(f.allowSingleQuoteInterpolation),
		apacheconf.WithStrictVars(f.strictVars),
		apacheconf.WithCComments(f.ccomments),
		apacheconf.WithNoStripValues(f.noStripValues),
		apacheconf.WithNoEscape(f.noEscape),
		apacheconf.WithNamedBlocks(f.namedBlocks),
	}

	if f.flagBitsJSON != "" {
		var spec apacheconf.FlagBitsSpec
		if err := json.Unmarshal([]byte(f.flagBitsJSON), &spec); err != nil {
			return nil, fmt.Errorf("--flagbits: %w", err)
		}
		opts = append(opts, apacheconf.WithFlagBits(spec))
	}

	if f.defaultConfigJSON != "" {
		var native map[string]interface{}
		if err := json.Unmarshal([]byte(f.defaultConfigJSON), &native); err != nil {
			return nil, fmt.Errorf("--defaultconfig: %w", err)
		}
		opts = append(opts, apacheconf.WithDefaultConfig(tree.FromNative(native)))
	}

	return opts, nil
}
