package compiler

import "fmt"

// TokenKind identifies the category of a lexed token.
type TokenKind int

const (
	EOF TokenKind = iota // sentinel: end of input
	EOL                  // newline, the statement separator

	PUNCTUATION // ( ) [ ] { } , ;
	STRING      // "..." or '...'
	OPERATOR    // + - * / \ % = | & < > and their two-character compounds
	IDENTIFIER  // variable / function name
	NUMERIC     // 12, 1.5, 1_000
	KEYWORD     // reserved word, see keywords
	COMMENT     // # to end of line
)

var tokenKindNames = [...]string{
	EOF:         "EOF",
	EOL:         "EOL",
	PUNCTUATION: "PUNCTUATION",
	STRING:      "STRING",
	OPERATOR:    "OPERATOR",
	IDENTIFIER:  "IDENTIFIER",
	NUMERIC:     "NUMERIC",
	KEYWORD:     "KEYWORD",
	COMMENT:     "COMMENT",
}

func (k TokenKind) String() string {
	if int(k) >= 0 && int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// PunctKind says how a punctuation token takes part in bracket balancing.
type PunctKind int

const (
	PunctNone PunctKind = iota
	PunctOpen
	PunctClose
	PunctSeparator
)

func (k PunctKind) String() string {
	switch k {
	case PunctOpen:
		return "Open"
	case PunctClose:
		return "Close"
	case PunctSeparator:
		return "Separator"
	}
	return "None"
}

// NumericHint records whether a numeric literal was written with a decimal point.
type NumericHint int

const (
	HintNone NumericHint = iota
	HintInteger
	HintFloatingPoint
)

func (h NumericHint) String() string {
	switch h {
	case HintInteger:
		return "Integer"
	case HintFloatingPoint:
		return "FloatingPoint"
	}
	return "None"
}

// Position is a location in the source. Line and Col are 1-based, Offset
// counts code points from the start of the input.
type Position struct {
	Line   int
	Col    int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Token is a single lexical unit produced by the Lexer.
//
//	(      Token{Kind: PUNCTUATION, Raw: "(", Punct: PunctOpen, Depth: 0}
//	1.5    Token{Kind: NUMERIC, Raw: "1.5", Hint: HintFloatingPoint}
//	print  Token{Kind: KEYWORD, Raw: "print"}
type Token struct {
	Kind  TokenKind
	Raw   string      // source text; string contents without quotes; comment text without '#'
	Punct PunctKind   // PUNCTUATION only
	Depth int         // balancing depth of an Open or Close token
	Hint  NumericHint // NUMERIC only
	Pos   Position    // where the token starts
}

// Equal reports whether two tokens are the same variant with the same payload.
// Positions are ignored.
func (t Token) Equal(o Token) bool {
	return t.Kind == o.Kind &&
		t.Raw == o.Raw &&
		t.Punct == o.Punct &&
		t.Depth == o.Depth &&
		t.Hint == o.Hint
}

// Describe renders the token the way diagnostics show it.
func (t Token) Describe() string {
	switch t.Kind {
	case EOF:
		return "end of input"
	case EOL:
		return "end of line"
	case PUNCTUATION:
		if t.Punct == PunctSeparator {
			return fmt.Sprintf("%q", t.Raw)
		}
		return fmt.Sprintf("%q (%s %d)", t.Raw, t.Punct, t.Depth)
	case NUMERIC:
		return fmt.Sprintf("number %s (%s)", t.Raw, t.Hint)
	case COMMENT:
		return "comment"
	}
	return fmt.Sprintf("%s %q", t.Kind, t.Raw)
}

func (t Token) String() string {
	return fmt.Sprintf("%-12s %-14q  %s", t.Kind, t.Raw, t.Pos)
}

// Tokens the parser asks for by value.
func punct(raw rune, kind PunctKind, depth int) Token {
	return Token{Kind: PUNCTUATION, Raw: string(raw), Punct: kind, Depth: depth}
}

func operator(raw string) Token { return Token{Kind: OPERATOR, Raw: raw} }
