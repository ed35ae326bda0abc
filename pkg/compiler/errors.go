package compiler

import (
	"fmt"
	"strings"
)

// LexErrorKind enumerates the lexical failures.
type LexErrorKind int

const (
	ErrFileRead LexErrorKind = iota
	ErrExpectedSymbol
	ErrNumericInvalid
	ErrMisbalancedBraces
	ErrUnknownSymbol
	ErrUnterminatedString
)

// LexError is returned by the Lexer. Only the fields relevant to Kind are set.
// The message carries no position; callers read Pos.
type LexError struct {
	Kind LexErrorKind
	Pos  Position

	Raw      string // NumericInvalid, UnknownSymbol
	Symbol   rune   // MisbalancedBraces: the offending closer
	Open     rune   // MisbalancedBraces: the opener it needs
	Expected Token  // ExpectedSymbol
	Found    Token  // ExpectedSymbol
	Path     string // FileRead
	Err      error  // FileRead
}

func (e *LexError) Error() string {
	switch e.Kind {
	case ErrFileRead:
		return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
	case ErrExpectedSymbol:
		return fmt.Sprintf("expected %s, found %s", e.Expected.Describe(), e.Found.Describe())
	case ErrNumericInvalid:
		return fmt.Sprintf("not a valid number %q", e.Raw)
	case ErrMisbalancedBraces:
		return fmt.Sprintf("can't find opening %q for %q", e.Open, e.Symbol)
	case ErrUnknownSymbol:
		return fmt.Sprintf("unknown symbol %q", e.Raw)
	case ErrUnterminatedString:
		return "unterminated string literal"
	}
	return "lexical error"
}

func (e *LexError) Unwrap() error { return e.Err }

// LiteralErrorKind enumerates literal conversion failures.
type LiteralErrorKind int

const (
	ErrConversion LiteralErrorKind = iota // text does not fit the numeric type
	ErrNotNumeric                         // token is not a numeric literal
)

// LiteralError is returned by NewLiteral.
type LiteralError struct {
	Kind     LiteralErrorKind
	Expected string // "int" or "float"
	Token    Token
}

func (e *LiteralError) Error() string {
	if e.Kind == ErrNotNumeric {
		return fmt.Sprintf("expected a numeric literal, found %s", e.Token.Describe())
	}
	return fmt.Sprintf("%q does not fit in %s", e.Token.Raw, e.Expected)
}

// ParseErrorKind identifies the grammar site that rejected the input.
type ParseErrorKind int

const (
	ErrLexical ParseErrorKind = iota
	ErrLiteral
	ErrUnexpectedToken
	ErrFactor
	ErrOperator
	ErrKeywordCall
	ErrBracketMismatch
	ErrIdentifier
	ErrUnimplementedKeyword
	ErrStatement
)

var parseErrorNames = [...]string{
	ErrLexical:              "lexical error",
	ErrLiteral:              "invalid literal",
	ErrUnexpectedToken:      "unexpected token",
	ErrFactor:               "unexpected token in factor",
	ErrOperator:             "operator not allowed",
	ErrKeywordCall:          "malformed keyword call",
	ErrBracketMismatch:      "mismatched bracket",
	ErrIdentifier:           "invalid identifier use",
	ErrUnimplementedKeyword: "keyword not implemented",
	ErrStatement:            "unexpected token after statement",
}

func (k ParseErrorKind) String() string {
	if int(k) >= 0 && int(k) < len(parseErrorNames) {
		return parseErrorNames[k]
	}
	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

// ParseError is a located grammar violation.
type ParseError struct {
	Kind       ParseErrorKind
	Production string // "factor", "term", "keyword call", ...
	Expected   string
	Found      Token
	Pos        Position
	Err        error // *LexError or *LiteralError when Kind is ErrLexical / ErrLiteral
}

func (e *ParseError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Pos, e.Kind)
	if e.Production != "" {
		fmt.Fprintf(&b, " (%s)", e.Production)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
		return b.String()
	}
	if e.Expected != "" {
		fmt.Fprintf(&b, ": expected %s, found %s", e.Expected, e.Found.Describe())
	} else {
		fmt.Fprintf(&b, ": found %s", e.Found.Describe())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

// UnsupportedError is returned by the code generator for nodes the parser
// accepts but that have no translation.
type UnsupportedError struct {
	Node string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("operation not supported by the code generator: %s", e.Node)
}
