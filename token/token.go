// Package token defines the lexical units produced by the lexer and
// consumed by the parser.
package token

import "fmt"

// Kind enumerates the token kinds named in the lexical specification.
type Kind int

const (
	// EOF marks the end of input.
	EOF Kind = iota
	// Newline marks the end of a logical line.
	Newline
	// OpenTag is "<name ...>".
	OpenTag
	// CloseTag is "</name>".
	CloseTag
	// OpenCloseTag is the self-closing "<name ... />".
	OpenCloseTag
	// OptionName is the first bare word of a logical line outside a tag.
	OptionName
	// OptionValue is the remainder of a logical line after the option
	// name, possibly quoted or an array.
	OptionValue
	// HashComment is a "#"-introduced comment running to end of line.
	HashComment
	// CComment is a "/* ... */" comment, which may span lines.
	CComment
	// Include is the exact, all-lowercase "include" directive (always
	// recognized).
	Include
	// ApacheInclude is any other casing of "include" (e.g. "Include",
	// "INCLUDE"); matched case-insensitively and always recognized,
	// regardless of useapacheinclude — only IncludeOptional is gated on
	// that option.
	ApacheInclude
	// ApacheIncludeOptional is an "IncludeOptional" directive recognized
	// only when useapacheinclude is set.
	ApacheIncludeOptional
	// HeredocBody is the verbatim text collected between a "<<TAG"
	// marker and its closing anchor line.
	HeredocBody
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Newline:
		return "NEWLINE"
	case OpenTag:
		return "OPEN_TAG"
	case CloseTag:
		return "CLOSE_TAG"
	case OpenCloseTag:
		return "OPEN_CLOSE_TAG"
	case OptionName:
		return "OPTION_NAME"
	case OptionValue:
		return "OPTION_VALUE"
	case HashComment:
		return "HASH_COMMENT"
	case CComment:
		return "C_COMMENT"
	case Include:
		return "INCLUDE"
	case ApacheInclude:
		return "APACHE_INCLUDE"
	case ApacheIncludeOptional:
		return "APACHE_INCLUDE_OPTIONAL"
	case HeredocBody:
		return "HEREDOC_BODY"
	default:
		return "UNKNOWN"
	}
}

// Token is a tagged variant with a kind, the raw (or, for OptionValue,
// partially decoded) lexeme, and its source line. OptionValue tokens
// additionally carry Quote (the quoting style used, if any) and, when
// the value is a bracketed array, Array holding one sub-token per
// element. These two fields are an additive extension over the
// specification's minimal {kind, lexeme, line} shape, needed because
// the lexer — not the parser — is where quote/array structure is
// recognized (see DESIGN.md).
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int

	// Quote is 0 for a bare value, '\'' for single-quoted, '"' for
	// double-quoted. On HeredocBody it records the quote around the
	// heredoc tag, and on OpenTag, OpenCloseTag and CloseTag it is '"'
	// when the tag body was written in double quotes.
	Quote byte
	// Array holds one element token per member when the value was
	// written as a bracketed "[ a b c ]" array. Only meaningful when
	// Kind == OptionValue and len(Array) > 0.
	Array []Token
}

// IsArray reports whether this OPTION_VALUE token represents an array.
func (t Token) IsArray() bool {
	return t.Kind == OptionValue && t.Array != nil
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d", t.Kind, t.Lexeme, t.Line)
}
