// Package ast defines the abstract syntax tree the parser produces: a
// sum type of statement kinds (options, blocks, comments, includes)
// rather than a dynamically-typed node dictionary, so the loader's walk
// is an exhaustive, statically analyzable switch.
package ast

// Statement is any node that can appear directly inside a Config or
// Block: an Option, a Block, a Comment, or an Include.
type Statement interface {
	// Line returns the 1-based source line the statement starts on.
	Line() int
}

// Config is the root of a parsed source: an ordered sequence of
// statements.
type Config struct {
	Children []Statement
}

// Line always returns 0 for the synthetic root.
func (c *Config) Line() int { return 0 }

// OpenKind distinguishes a plain tag body ("<server>") from a quoted
// one ("<\"server name\">").
type OpenKind int

const (
	// OpenPlain is an unquoted tag body.
	OpenPlain OpenKind = iota
	// OpenQuoted is a tag body wrapped in double quotes.
	OpenQuoted
)

// Block is a `<tag ...>...</tag>` or self-closing `<tag ... />` node.
type Block struct {
	Tag         string
	Name        string
	HasName     bool
	OpenKind    OpenKind
	SelfClosing bool
	Children    []Statement
	LineNo      int
}

// Line implements Statement.
func (b *Block) Line() int { return b.LineNo }

// Separator records which character separated an option's name from
// its value.
type Separator int

const (
	// SepWhitespace is plain whitespace.
	SepWhitespace Separator = iota
	// SepEquals is "=".
	SepEquals
	// SepColon is ":".
	SepColon
)

// Option is a `name value` leaf statement.
type Option struct {
	Name      string
	Value     Value
	Separator Separator
	// Inline is a comment trailing the option on the same source line,
	// if any. It is attached here rather than modeled as a separate
	// statement so that merging duplicate options never strands a
	// comment between the values it documented (§4.4).
	Inline *Comment
	LineNo int
}

// Line implements Statement.
func (o *Option) Line() int { return o.LineNo }

// Value is the sum type of an option's right-hand side: Bare, Quoted,
// Array, Empty, or Heredoc.
type Value interface {
	isValue()
}

// Bare is an unquoted scalar value.
type Bare struct {
	Text string
}

func (Bare) isValue() {}

// Quoted is a single- or double-quoted scalar value, stored with its
// raw (still-escaped) contents; unescaping happens at load time because
// it depends on the noescape option.
type Quoted struct {
	Single bool
	Raw    string
}

func (Quoted) isValue() {}

// Array is a bracketed "[ a b c ]" value; each element is itself a
// Value (Bare or Quoted) so quoting inside an array element works the
// same as outside one.
type Array struct {
	Items []Value
}

func (Array) isValue() {}

// Empty is the value of an option with nothing after its separator.
type Empty struct{}

func (Empty) isValue() {}

// Heredoc is a `<<TAG ... TAG` value. Single/DoubleQuoted records
// whether the opening tag carried a quoting marker ("<<'TAG'" or
// `<<"TAG"`), which governs whether the loader interpolates variables
// in the body the same way it would for a quoted scalar.
type Heredoc struct {
	Raw          string
	SingleQuoted bool
	DoubleQuoted bool
}

func (Heredoc) isValue() {}

// CommentStyle distinguishes "#" comments from "/* */" comments.
type CommentStyle int

const (
	// HashStyle is a "#"-introduced comment.
	HashStyle CommentStyle = iota
	// CStyle is a "/* ... */" comment.
	CStyle
)

// Comment is a standalone (outline) comment statement. Inline comments
// (trailing an option on the same line) are not separate statements;
// the parser stores them in the Inline field of the option they trail,
// preserving the documented fix where a comment between duplicate keys
// must not corrupt merging (§4.4).
type Comment struct {
	Text   string
	Style  CommentStyle
	LineNo int
}

// Line implements Statement.
func (c *Comment) Line() int { return c.LineNo }

// Include is an `include`/`Include`/`IncludeOptional` directive. Its
// path is not resolved or opened until the loader walks it.
type Include struct {
	Path     string
	Apache   bool
	Optional bool
	LineNo   int
}

// Line implements Statement.
func (i *Include) Line() int { return i.LineNo }
