package compiler

import (
	"strings"
	"unicode"
)

// keywords is the reserved word set. Everything else matching
// [A-Za-z_][A-Za-z0-9_]* is an IDENTIFIER.
var keywords = map[string]bool{
	"false": true,
	"true":  true,
	"proc":  true,
	"if":    true,
	"else":  true,
	"loop":  true,
	"break": true,
	"print": true,
	"input": true,
}

// operatorStart lists every character that begins an OPERATOR token.
const operatorStart = `+-*/\%=|&<>`

// compoundOperators are the two-character operators. Scanning is greedy, so
// "==" is never split into two "=" tokens.
var compoundOperators = map[string]bool{
	"+=": true,
	"-=": true,
	"==": true,
	">=": true,
	"<=": true,
	"%=": true,
	"||": true,
	"&&": true,
	"++": true,
	"--": true,
}

// openerFor maps a closing bracket to the bracket it balances.
var openerFor = map[rune]rune{
	')': '(',
	']': '[',
	'}': '{',
}

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	src  []rune
	pos  int // index of the next rune to consume
	line int // current 1-based source line
	col  int // current 1-based column

	// balance counts the currently open brackets per opening character.
	balance map[rune]int

	// peeked holds a token that PeekToken lexed but NextToken has not returned yet.
	peeked    *Token
	peekedErr error
}

func NewLexer(src string) *Lexer {
	return &Lexer{
		src:     []rune(src),
		line:    1,
		col:     1,
		balance: make(map[rune]int),
	}
}

// Pos returns the scanning position. After PeekToken it is past the peeked token.
func (l *Lexer) Pos() Position {
	return Position{Line: l.line, Col: l.col, Offset: l.pos}
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

// skipWhitespace skips blanks but stops at '\n', which is a token.
func (l *Lexer) skipWhitespace() {
	for !l.atEnd() {
		r := l.peek()
		if r == '\n' || !unicode.IsSpace(r) {
			return
		}
		l.advance()
	}
}

// NextToken consumes and returns the next token.
func (l *Lexer) NextToken() (Token, error) {
	if l.peeked != nil || l.peekedErr != nil {
		tok, err := *l.peeked, l.peekedErr
		l.peeked, l.peekedErr = nil, nil
		return tok, err
	}
	return l.scan()
}

// PeekToken returns the next token without consuming it. The token is lexed
// once and buffered, so bracket depths are counted exactly once.
func (l *Lexer) PeekToken() (Token, error) {
	if l.peeked == nil && l.peekedErr == nil {
		tok, err := l.scan()
		l.peeked, l.peekedErr = &tok, err
	}
	return *l.peeked, l.peekedErr
}

func (l *Lexer) scan() (Token, error) {
	l.skipWhitespace()
	start := l.Pos()
	if l.atEnd() {
		return Token{Kind: EOF, Pos: start}, nil
	}

	ch := l.advance()
	tok, err := l.classify(ch, start)
	if err != nil {
		return Token{}, err
	}
	tok.Pos = start
	return tok, nil
}

func (l *Lexer) classify(ch rune, start Position) (Token, error) {
	switch {
	case ch == '(' || ch == '[' || ch == '{':
		depth := l.balance[ch]
		l.balance[ch] = depth + 1
		return punct(ch, PunctOpen, depth), nil

	case ch == ')' || ch == ']' || ch == '}':
		open := openerFor[ch]
		depth, ok := l.balance[open]
		if !ok || depth < 1 {
			return Token{}, &LexError{Kind: ErrMisbalancedBraces, Pos: start, Symbol: ch, Open: open}
		}
		l.balance[open] = depth - 1
		return punct(ch, PunctClose, depth-1), nil

	case isDigit(ch) || ch == '.':
		return l.scanNumber(ch, start)

	case ch == '"' || ch == '\'':
		return l.scanString(ch, start)

	case strings.ContainsRune(operatorStart, ch):
		return l.scanOperator(ch), nil

	case ch == ',' || ch == ';':
		return punct(ch, PunctSeparator, 0), nil

	case ch == '#':
		return l.scanComment(), nil

	case ch == '\n':
		return Token{Kind: EOL, Raw: "\n"}, nil

	case isLetter(ch) || ch == '_':
		return l.scanIdent(ch), nil
	}
	return Token{}, &LexError{Kind: ErrUnknownSymbol, Pos: start, Raw: string(ch)}
}

// scanNumber collects digits and at most one '.'. An underscore between two
// digits groups them and is dropped. A letter, a second '.' or a misplaced
// underscore touching the number is consumed and rejects the whole literal.
func (l *Lexer) scanNumber(first rune, start Position) (Token, error) {
	var b strings.Builder
	b.WriteRune(first)
	seenDot := first == '.'
	prev := first

	for !l.atEnd() {
		r := l.peek()
		switch {
		case isDigit(r):
			prev = l.advance()
			b.WriteRune(prev)
		case r == '_':
			l.advance()
			if !isDigit(prev) || !isDigit(l.peek()) {
				b.WriteRune(r)
				return Token{}, &LexError{Kind: ErrNumericInvalid, Pos: start, Raw: b.String()}
			}
		case r == '.' && !seenDot:
			seenDot = true
			prev = l.advance()
			b.WriteRune(prev)
		case r == '.' || isLetter(r):
			b.WriteRune(l.advance())
			return Token{}, &LexError{Kind: ErrNumericInvalid, Pos: start, Raw: b.String()}
		default:
			return numeric(b.String(), seenDot), nil
		}
	}
	return numeric(b.String(), seenDot), nil
}

func numeric(raw string, seenDot bool) Token {
	hint := HintInteger
	if seenDot {
		hint = HintFloatingPoint
	}
	return Token{Kind: NUMERIC, Raw: raw, Hint: hint}
}

// scanString collects a string up to the matching delimiter. The opening
// delimiter must already have been consumed. Only \" is an escape; a backslash
// before anything else is dropped.
func (l *Lexer) scanString(delim rune, start Position) (Token, error) {
	var b strings.Builder
	for !l.atEnd() {
		r := l.advance()
		switch {
		case r == delim:
			return Token{Kind: STRING, Raw: b.String()}, nil
		case r == '\\':
			if l.peek() == '"' {
				b.WriteRune(l.advance())
			}
		default:
			b.WriteRune(r)
		}
	}
	return Token{}, &LexError{Kind: ErrUnterminatedString, Pos: start}
}

// scanIdent collects an identifier or keyword. The first character has
// already been consumed.
func (l *Lexer) scanIdent(first rune) Token {
	var b strings.Builder
	b.WriteRune(first)
	for !l.atEnd() {
		r := l.peek()
		if !isLetter(r) && !isDigit(r) && r != '_' {
			break
		}
		b.WriteRune(l.advance())
	}
	text := b.String()
	if keywords[text] {
		return Token{Kind: KEYWORD, Raw: text}
	}
	return Token{Kind: IDENTIFIER, Raw: text}
}

func (l *Lexer) scanOperator(first rune) Token {
	if !l.atEnd() {
		two := string([]rune{first, l.peek()})
		if compoundOperators[two] {
			l.advance()
			return operator(two)
		}
	}
	return operator(string(first))
}

// scanComment discards everything up to (not including) the next '\n'.
// The '#' has already been consumed.
func (l *Lexer) scanComment() Token {
	begin := l.pos
	for !l.atEnd() && l.peek() != '\n' {
		l.advance()
	}
	return Token{Kind: COMMENT, Raw: string(l.src[begin:l.pos])}
}

func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }

// Lex tokenises src and returns all tokens including the final EOF token.
// It stops at the first lexical error.
func Lex(src string) ([]Token, error) {
	l := NewLexer(src)
	var tokens []Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
		if tok.Kind == EOF {
			return tokens, nil
		}
	}
}
