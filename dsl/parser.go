package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	labelLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:dot|pt|mm|cm|in)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Colon", Pattern: `:`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(labelLexer),
		participle.Elide("Whitespace", "LineComment"),
	)
)

// Document is the root AST node for a batch label file.
type Document struct {
	Pos      lexer.Position `parser:"" json:"-"`
	Name     string         `parser:"Newline* 'labels' @Ident"`
	Version  string         `parser:"@Ident"`
	Defaults *Defaults      `parser:"'{' Newline* ( @@ Newline* )?"`
	Labels   []*Label       `parser:"( @@ Newline* )* '}' Newline*"`
}

// Defaults carries document-wide canvas defaults (width/height).
type Defaults struct {
	Assignments []*Assignment `parser:"'defaults' '{' Newline* ( @@ Newline* )* '}'"`
}

// Label describes one label entry.
type Label struct {
	Pos         lexer.Position `parser:"" json:"-"`
	Assignments []*Assignment  `parser:"'label' '{' Newline* ( @@ Newline* )* '}'"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Key   string `parser:"@Ident ':' Newline*"`
	Value *Value `parser:"@@"`
}

// Value is either a quoted string or a number with an optional unit suffix.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Number *string        `parser:"| @Number"`
}

// Text returns the value in string form (strings unquoted, numbers raw).
func (v *Value) Text() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	default:
		return ""
	}
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Lookup returns the value for key in the defaults block.
func (d *Defaults) Lookup(key string) (string, bool) {
	if d == nil {
		return "", false
	}
	return lookup(d.Assignments, key)
}

// Lookup returns the value for key in a label entry.
func (l *Label) Lookup(key string) (string, bool) {
	if l == nil {
		return "", false
	}
	return lookup(l.Assignments, key)
}

func lookup(assignments []*Assignment, key string) (string, bool) {
	for _, a := range assignments {
		if a != nil && a.Key == key {
			return a.Value.Text(), true
		}
	}
	return "", false
}

var (
	defaultsKeys = map[string]bool{"width": true, "height": true}
	labelKeys    = map[string]bool{"name": true, "date": true, "code": true, "width": true, "height": true}
)

// Parse parses a batch label document from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	doc, err := documentParser.Parse("", r)
	if err != nil {
		return nil, err
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseString parses a batch label document from a string.
func ParseString(input string) (*Document, error) {
	doc, err := documentParser.ParseString("", input)
	if err != nil {
		return nil, err
	}
	if err := validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// validate rejects unknown keys so that typos fail loudly instead of being ignored.
func validate(doc *Document) error {
	if doc.Defaults != nil {
		for _, a := range doc.Defaults.Assignments {
			if !defaultsKeys[a.Key] {
				return fmt.Errorf("defaults 不支持键 %q", a.Key)
			}
		}
	}
	for i, l := range doc.Labels {
		for _, a := range l.Assignments {
			if !labelKeys[a.Key] {
				return fmt.Errorf("第 %d 条 label 不支持键 %q", i+1, a.Key)
			}
		}
	}
	return nil
}
