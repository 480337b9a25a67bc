package loader

import (
	"log/slog"
	"os"
	"strings"

	aerrors "github.com/lefeck/apacheconf/errors"
	"github.com/lefeck/apacheconf/tree"
)

func isVarNameStart(r byte) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isVarNameChar(r byte) bool {
	return isVarNameStart(r) || (r >= '0' && r <= '9')
}

// lookupScope searches scope innermost-first, falling back to the
// process environment when useEnv is set.
func lookupScope(scope []*tree.Map, name string, useEnv bool) (string, bool) {
	for _, m := range scope {
		if v, ok := m.Get(name); ok {
			if s, ok2 := v.(string); ok2 {
				return s, true
			}
		}
	}
	if useEnv {
		if v, ok := os.LookupEnv(name); ok {
			return v, true
		}
	}
	return "", false
}

// interpolateVars substitutes "$name" and "${name}" references in s,
// looking each name up via lookupScope. An unresolved reference is an
// UndefinedVariableError under strict, or left literal otherwise, in
// which case logger receives a Debug record naming the variable
// (SPEC_FULL §2.2).
func interpolateVars(s string, scope []*tree.Map, useEnv, strict bool, logger *slog.Logger) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] != '$' || i+1 >= len(s) {
			b.WriteByte(s[i])
			i++
			continue
		}

		if s[i+1] == '{' {
			end := strings.IndexByte(s[i+2:], '}')
			if end < 0 {
				b.WriteByte(s[i])
				i++
				continue
			}
			name := s[i+2 : i+2+end]
			val, ok := lookupScope(scope, name, useEnv)
			if !ok {
				if strict {
					return "", aerrors.New(aerrors.UndefinedVariableError, "undefined variable "+name)
				}
				logger.Debug("interpolation fallback: undefined variable left literal", "variable", name)
				b.WriteString(s[i : i+2+end+1])
				i += 2 + end + 1
				continue
			}
			b.WriteString(val)
			i += 2 + end + 1
			continue
		}

		if isVarNameStart(s[i+1]) {
			j := i + 1
			for j < len(s) && isVarNameChar(s[j]) {
				j++
			}
			name := s[i+1 : j]
			val, ok := lookupScope(scope, name, useEnv)
			if !ok {
				if strict {
					return "", aerrors.New(aerrors.UndefinedVariableError, "undefined variable "+name)
				}
				logger.Debug("interpolation fallback: undefined variable left literal", "variable", name)
				b.WriteString(s[i:j])
				i = j
				continue
			}
			b.WriteString(val)
			i = j
			continue
		}

		b.WriteByte(s[i])
		i++
	}
	return b.String(), nil
}

// unescape collapses backslash escapes per §4.3: \n, \t, \\, \", \',
// and \<any other> all collapse to the escaped character.
func unescape(s string) string {
	r := []rune(s)
	var b strings.Builder
	i := 0
	for i < len(r) {
		if r[i] == '\\' && i+1 < len(r) {
			switch r[i+1] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteRune(r[i+1])
			}
			i += 2
			continue
		}
		b.WriteRune(r[i])
		i++
	}
	return b.String()
}
