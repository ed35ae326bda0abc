package compiler

import "errors"

// Parser pulls tokens from a Lexer on demand and builds a Program. It keeps
// exactly one token of lookahead in cur, which only eat replaces.
//
// Grammar (lowest to highest binding; the binary tiers come from the
// operator table in ast.go):
//
//	program    = { blank } { expression ( EOL | COMMENT | EOF ) { blank } }
//	logical    = expression { ("&&" | "||") expression }
//	expression = term { ("+" | "-") term }
//	term       = factor { ("*" | "/" | "%" | "==" | "<" | ">" | "<=" | ">=") factor }
//	factor     = NUMERIC | STRING | "true" | "false"
//	           | ("+" | "-") factor
//	           | "(" logical ")"
//	           | IDENTIFIER [ "=" logical | "(" logical ")" | "[" logical "]" ]
//	           | ("print" | "if") "(" logical ")" [ "{" logical "}" ]
//	           | (COMMENT | EOL) logical
type Parser struct {
	lx  *Lexer
	cur Token
}

// NewParser primes the lookahead with the first token.
func NewParser(lx *Lexer) (*Parser, error) {
	p := &Parser{lx: lx}
	tok, err := lx.NextToken()
	if err != nil {
		return nil, p.lexError(err)
	}
	p.cur = tok
	return p, nil
}

// Parse lexes and parses src in one go.
func Parse(src string) (*Program, error) {
	p, err := NewParser(NewLexer(src))
	if err != nil {
		return nil, err
	}
	return p.Walk()
}

func (p *Parser) lexError(err error) error {
	pos := p.lx.Pos()
	var le *LexError
	if errors.As(err, &le) {
		pos = le.Pos
	}
	return &ParseError{Kind: ErrLexical, Found: p.cur, Pos: pos, Err: err}
}

// fail reports a violation at the current token.
func (p *Parser) fail(kind ParseErrorKind, production, expected string) error {
	return &ParseError{
		Kind:       kind,
		Production: production,
		Expected:   expected,
		Found:      p.cur,
		Pos:        p.cur.Pos,
	}
}

// eat advances past the current token, which must equal expected.
func (p *Parser) eat(expected Token) error {
	if !p.cur.Equal(expected) {
		return &ParseError{
			Kind:     ErrUnexpectedToken,
			Expected: expected.Describe(),
			Found:    p.cur,
			Pos:      p.cur.Pos,
			Err:      &LexError{Kind: ErrExpectedSymbol, Pos: p.cur.Pos, Expected: expected, Found: p.cur},
		}
	}
	tok, err := p.lx.NextToken()
	if err != nil {
		return p.lexError(err)
	}
	p.cur = tok
	return nil
}

// skipBlank eats end-of-line and comment tokens.
func (p *Parser) skipBlank() error {
	for p.cur.Kind == EOL || p.cur.Kind == COMMENT {
		if err := p.eat(p.cur); err != nil {
			return err
		}
	}
	return nil
}

// Walk parses the whole input. Blank lines and comments between statements
// are dropped; each statement must end at a newline, a comment or EOF.
func (p *Parser) Walk() (*Program, error) {
	prog := &Program{}
	for {
		if err := p.skipBlank(); err != nil {
			return nil, err
		}
		if p.cur.Kind == EOF {
			return prog, nil
		}

		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		switch p.cur.Kind {
		case EOL, COMMENT, EOF:
		default:
			return nil, p.fail(ErrStatement, "statement", "end of line")
		}
		prog.Exprs = append(prog.Exprs, expr)
	}
}

func (p *Parser) parseExpression() (Expr, error) {
	return p.parseTier(TierLogical)
}

// parseTier parses a left-associative chain of the binary operators of one
// precedence tier, with operands from the next tier up.
func (p *Parser) parseTier(tier int) (Expr, error) {
	if tier > maxTier {
		return p.parseFactor()
	}

	left, err := p.parseTier(tier + 1)
	if err != nil {
		return nil, err
	}

	for p.cur.Kind == OPERATOR {
		kind, ok := binaryOps[p.cur.Raw]
		if !ok {
			if tier == TierLogical {
				return nil, p.fail(ErrOperator, "expression", "a binary operator")
			}
			break
		}
		if kind.Tier() != tier {
			break
		}
		if err := p.eat(p.cur); err != nil {
			return nil, err
		}
		right, err := p.parseTier(tier + 1)
		if err != nil {
			return nil, err
		}
		left = NewBinary(kind, left, right)
	}
	return left, nil
}

func (p *Parser) parseFactor() (Expr, error) {
	tok := p.cur
	switch tok.Kind {
	case NUMERIC:
		lit, err := NewLiteral(tok)
		if err != nil {
			return nil, &ParseError{Kind: ErrLiteral, Production: "factor", Found: tok, Pos: tok.Pos, Err: err}
		}
		if err := p.eat(tok); err != nil {
			return nil, err
		}
		return lit, nil

	case STRING:
		if err := p.eat(tok); err != nil {
			return nil, err
		}
		return StringLit(tok.Raw), nil

	case OPERATOR:
		kind, ok := prefixOps[tok.Raw]
		if !ok {
			return nil, p.fail(ErrFactor, "factor", "an operand")
		}
		if err := p.eat(tok); err != nil {
			return nil, err
		}
		operand, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		return NewUnary(kind, operand), nil

	case PUNCTUATION:
		if isOpen(tok, '(') {
			return p.parseDelimited(')', "group")
		}

	case IDENTIFIER:
		return p.parseIdentifier(tok)

	case KEYWORD:
		return p.parseKeyword(tok)

	case COMMENT, EOL:
		// A line break inside an expression: skip it and parse what follows.
		if err := p.eat(tok); err != nil {
			return nil, err
		}
		return p.parseExpression()
	}
	return nil, p.fail(ErrFactor, "factor", "an operand")
}

// parseDelimited parses open expression close where open is the current
// token. Blank lines are tolerated on both sides of the expression.
func (p *Parser) parseDelimited(closer rune, production string) (Expr, error) {
	open := p.cur
	if err := p.eat(open); err != nil {
		return nil, err
	}
	if err := p.skipBlank(); err != nil {
		return nil, err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if err := p.skipBlank(); err != nil {
		return nil, err
	}

	want := punct(closer, PunctClose, open.Depth)
	if p.cur.Kind == PUNCTUATION && p.cur.Punct == PunctClose && !p.cur.Equal(want) {
		return nil, p.fail(ErrBracketMismatch, production, want.Describe())
	}
	if err := p.eat(want); err != nil {
		return nil, err
	}
	return expr, nil
}

// parseIdentifier handles a name and what follows it. The lexer only
// produces ASCII identifiers.
func (p *Parser) parseIdentifier(tok Token) (Expr, error) {
	if err := p.eat(tok); err != nil {
		return nil, err
	}
	sym := Symbol(tok.Raw)

	switch {
	case p.cur.Kind == OPERATOR && p.cur.Raw == "=":
		if err := p.eat(p.cur); err != nil {
			return nil, err
		}
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		return NewBinary(OpAssignment, sym, value), nil

	case isOpen(p.cur, '('):
		arg, err := p.parseDelimited(')', "call")
		if err != nil {
			return nil, err
		}
		return NewCall(tok.Raw, arg), nil

	case isOpen(p.cur, '['):
		index, err := p.parseDelimited(']', "index")
		if err != nil {
			return nil, err
		}
		return NewBinary(OpIndex, sym, index), nil

	case p.cur.Kind == OPERATOR, p.cur.Kind == EOL, p.cur.Kind == EOF, p.cur.Kind == COMMENT, isClose(p.cur):
		return sym, nil
	}
	return nil, p.fail(ErrIdentifier, "identifier", "'=', an operator or end of line")
}

func (p *Parser) parseKeyword(tok Token) (Expr, error) {
	switch tok.Raw {
	case "true", "false":
		if err := p.eat(tok); err != nil {
			return nil, err
		}
		return BoolLit(tok.Raw == "true"), nil
	case "print", "if":
		return p.parseKeywordCall(tok)
	}
	return nil, p.fail(ErrUnimplementedKeyword, "keyword", "")
}

// parseKeywordCall handles kw(expr) and kw(expr) { body }. Like a call by
// name, kw(expr) may be followed by a binary operator.
func (p *Parser) parseKeywordCall(kw Token) (Expr, error) {
	if err := p.eat(kw); err != nil {
		return nil, err
	}
	if !isOpen(p.cur, '(') {
		return nil, p.fail(ErrKeywordCall, "keyword call", "'(' after "+kw.Raw)
	}
	arg, err := p.parseDelimited(')', "keyword call")
	if err != nil {
		return nil, err
	}

	switch {
	case p.cur.Kind == OPERATOR, p.cur.Kind == EOL, p.cur.Kind == EOF, p.cur.Kind == COMMENT, isClose(p.cur):
		return NewCall(kw.Raw, arg), nil
	case isOpen(p.cur, '{'):
		body, err := p.parseDelimited('}', "block")
		if err != nil {
			return nil, err
		}
		return NewDefine(kw.Raw, arg, body), nil
	}
	return nil, p.fail(ErrKeywordCall, "keyword call", "an operator, end of line or '{'")
}

func isOpen(tok Token, ch rune) bool {
	return tok.Kind == PUNCTUATION && tok.Punct == PunctOpen && tok.Raw == string(ch)
}

func isClose(tok Token) bool {
	return tok.Kind == PUNCTUATION && tok.Punct == PunctClose
}
