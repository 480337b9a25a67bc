// Package dumper re-serializes a value tree back into Apache-style
// configuration text (§4.7), honoring an indentation/quoting Style and
// the subset of Options that affect rendering (namedblocks,
// forcearray, noescape).
package dumper

import (
	"fmt"
	"strings"

	"github.com/lefeck/apacheconf/loader"
	"github.com/lefeck/apacheconf/tree"
)

// Style controls indentation and quoting when rendering. Render
// replaces a zero Style with DefaultStyle.
type Style struct {
	// IndentWidth is the number of spaces per nesting depth.
	IndentWidth int
	// Quote is the preferred quoting character ('"' or '\'') used when a
	// scalar must be quoted.
	Quote byte
	// SpaceBeforeBlocks inserts a blank line before each rendered block,
	// matching a common hand-authored Apache config layout.
	SpaceBeforeBlocks bool
}

// DefaultStyle returns the conventional two-space, double-quote style.
func DefaultStyle() Style {
	return Style{IndentWidth: 2, Quote: '"'}
}

// Render serializes m to text under opts and style.
func Render(m *tree.Map, opts *loader.Options, style Style) string {
	if opts == nil {
		d := loader.DefaultOptions()
		opts = &d
	}
	if style.IndentWidth == 0 && style.Quote == 0 {
		style = DefaultStyle()
	}
	var b strings.Builder
	renderMap(&b, m, opts, style, 0)
	return b.String()
}

func renderMap(b *strings.Builder, m *tree.Map, opts *loader.Options, style Style, depth int) {
	m.Range(func(key string, val interface{}) bool {
		renderEntry(b, key, val, opts, style, depth)
		return true
	})
}

func indentOf(style Style, depth int) string {
	return strings.Repeat(" ", depth*style.IndentWidth)
}

func renderEntry(b *strings.Builder, key string, val interface{}, opts *loader.Options, style Style, depth int) {
	indent := indentOf(style, depth)
	switch v := val.(type) {
	case *tree.Map:
		renderBlock(b, key, v, opts, style, depth, indent)
	case []interface{}:
		renderList(b, key, v, opts, style, depth, indent)
	case nil:
		b.WriteString(indent)
		b.WriteString(key)
		b.WriteString("\n")
	default:
		renderScalarLine(b, key, val, opts, style, indent)
	}
}

// renderBlock writes a "<key>...</key>" block, or, when opts.NamedBlocks
// and the mapping is exactly one name pointing at a nested mapping,
// collapses the name into the tag: "<key name>...</key>" (§4.7).
func renderBlock(b *strings.Builder, key string, v *tree.Map, opts *loader.Options, style Style, depth int, indent string) {
	if style.SpaceBeforeBlocks && depth > 0 {
		b.WriteString("\n")
	}

	if opts.NamedBlocks && v.Len() == 1 {
		subKey := v.Keys()[0]
		if subVal, _ := v.Get(subKey); true {
			if subMap, ok := subVal.(*tree.Map); ok {
				b.WriteString(indent)
				b.WriteString("<")
				b.WriteString(tagLabel(key))
				b.WriteString(" ")
				b.WriteString(tagLabel(subKey))
				b.WriteString(">\n")
				renderMap(b, subMap, opts, style, depth+1)
				b.WriteString(indent)
				b.WriteString("</")
				b.WriteString(key)
				b.WriteString(">\n")
				return
			}
		}
	}

	if v.Len() == 0 {
		b.WriteString(indent)
		b.WriteString("<")
		b.WriteString(tagLabel(key))
		b.WriteString(" />\n")
		return
	}

	b.WriteString(indent)
	b.WriteString("<")
	b.WriteString(tagLabel(key))
	b.WriteString(">\n")
	renderMap(b, v, opts, style, depth+1)
	b.WriteString(indent)
	b.WriteString("</")
	b.WriteString(key)
	b.WriteString(">\n")
}

func renderList(b *strings.Builder, key string, list []interface{}, opts *loader.Options, style Style, depth int, indent string) {
	if opts.ForceArray {
		b.WriteString(indent)
		b.WriteString(key)
		b.WriteString(" [")
		for _, item := range list {
			b.WriteString(" ")
			b.WriteString(scalarText(item, opts, style))
		}
		b.WriteString(" ]\n")
		return
	}

	for _, item := range list {
		if sub, ok := item.(*tree.Map); ok {
			renderBlock(b, key, sub, opts, style, depth, indent)
			continue
		}
		renderScalarLine(b, key, item, opts, style, indent)
	}
}

func renderScalarLine(b *strings.Builder, key string, val interface{}, opts *loader.Options, style Style, indent string) {
	b.WriteString(indent)
	b.WriteString(key)
	b.WriteString(" ")
	b.WriteString(scalarText(val, opts, style))
	b.WriteString("\n")
}

func tagLabel(s string) string {
	if strings.ContainsAny(s, " \t") {
		return `"` + s + `"`
	}
	return s
}

func scalarText(val interface{}, opts *loader.Options, style Style) string {
	s, ok := val.(string)
	if !ok {
		if val == nil {
			return ""
		}
		s = fmt.Sprintf("%v", val)
	}
	if s == "" {
		return s
	}
	if !needsQuoting(s) {
		return s
	}
	q := style.Quote
	if q == 0 {
		q = '"'
	}
	body := s
	if !opts.NoEscape {
		body = escapeForQuote(s, q)
	}
	return string(q) + body + string(q)
}

func needsQuoting(s string) bool {
	if strings.ContainsAny(s, " \t\"'\n") {
		return true
	}
	return s[0] == ' ' || s[len(s)-1] == ' '
}

func escapeForQuote(s string, q byte) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(q):
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
