package compiler

import "strconv"

// NewLiteral converts a NUMERIC token into an integer or float literal
// according to its hint.
func NewLiteral(tok Token) (*Literal, error) {
	if tok.Kind != NUMERIC {
		return nil, &LiteralError{Kind: ErrNotNumeric, Token: tok}
	}

	if tok.Hint == HintFloatingPoint {
		f, err := strconv.ParseFloat(tok.Raw, 32)
		if err != nil {
			return nil, &LiteralError{Kind: ErrConversion, Expected: "float", Token: tok}
		}
		return FloatLit(float32(f)), nil
	}

	n, err := strconv.ParseInt(tok.Raw, 10, 32)
	if err != nil {
		return nil, &LiteralError{Kind: ErrConversion, Expected: "int", Token: tok}
	}
	return IntLit(int32(n)), nil
}
