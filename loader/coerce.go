package loader

import (
	"sort"
	"strings"

	"github.com/lefeck/apacheconf/tree"
)

// applyFlagBits rewrites a pipe-separated raw value into the mapping
// described by spec (§4.1): flags present in val are emitted first, in
// the order they appear in val, followed by every flag spec declares
// but val did not mention (sorted for determinism), set to nil (the
// null scalar).
func applyFlagBits(spec map[string]string, val interface{}) *tree.Map {
	str, _ := val.(string)
	result := tree.New()
	matched := make(map[string]bool, len(spec))

	for _, part := range strings.Split(str, "|") {
		name := strings.TrimSpace(part)
		if name == "" || matched[name] {
			continue
		}
		if fv, ok := spec[name]; ok {
			result.Set(name, fv)
			matched[name] = true
		}
	}

	rest := make([]string, 0, len(spec)-len(matched))
	for name := range spec {
		if !matched[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		result.Set(name, nil)
	}
	return result
}

// applyAutoTrue coerces {yes,on,1,true} to "1" and {no,off,0,false} to
// "0" (case-insensitive), recursing into lists. It is value-text
// based: the Open Question in §9 over whether this should instead key
// off option-name patterns is decided here in favor of the simpler,
// unambiguous rule, since Apache-style config has no fixed directive
// vocabulary to pattern-match against.
func applyAutoTrue(val interface{}) interface{} {
	switch v := val.(type) {
	case string:
		return autoTrueScalar(v)
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = applyAutoTrue(item)
		}
		return out
	default:
		return val
	}
}

func autoTrueScalar(s string) string {
	switch strings.ToLower(s) {
	case "yes", "on", "1", "true":
		return "1"
	case "no", "off", "0", "false":
		return "0"
	default:
		return s
	}
}

// deepMerge combines two mappings key-wise: nested mappings recurse,
// scalars at the same key are overwritten by b's value.
func deepMerge(a, b *tree.Map) *tree.Map {
	out := tree.New()
	a.Range(func(k string, v interface{}) bool {
		out.Set(k, v)
		return true
	})
	b.Range(func(k string, v interface{}) bool {
		if existing, ok := out.Get(k); ok {
			if em, ok1 := existing.(*tree.Map); ok1 {
				if nm, ok2 := v.(*tree.Map); ok2 {
					out.Set(k, deepMerge(em, nm))
					return true
				}
			}
		}
		out.Set(k, v)
		return true
	})
	return out
}
