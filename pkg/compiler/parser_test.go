package compiler

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Integer", "42", "42\n"},
		{"Float", "1.5", "1.5\n"},
		{"String", `"hi"`, "\"hi\"\n"},
		{"Booleans", "true\nfalse", "true\nfalse\n"},
		{"Symbol", "x", "x\n"},
		{"Addition", "1 + 2", "(1 + 2)\n"},
		{"Term Binds Tighter", "2+3*4", "(2 + (3 * 4))\n"},
		{"Group", "(2+3)*4", "((2 + 3) * 4)\n"},
		{"Left Associative", "1-2-3", "((1 - 2) - 3)\n"},
		{"Equality In Term Tier", "1 + 2 == 3", "(1 + (2 == 3))\n"},
		{"Relational In Term Tier", "1 < 2 * 3", "((1 < 2) * 3)\n"},
		{"Logical Lowest", "1 + 2 && 3", "((1 + 2) && 3)\n"},
		{"Logical Chain", "1 && 2 || 3", "((1 && 2) || 3)\n"},
		{"Unary Minus", "-5", "(-5)\n"},
		{"Unary Plus", "+x", "(+x)\n"},
		{"Unary Group", "-(1+2)", "(-(1 + 2))\n"},
		{"Unary Binds To Factor", "-2*3", "((-2) * 3)\n"},
		{"Assignment", "x = 1 + 2", "(x = (1 + 2))\n"},
		{"Print", "print(2+3)", "print((2 + 3))\n"},
		{"Call", "foo(1)", "foo(1)\n"},
		{"Index", "a[1]", "a[1]\n"},
		{"Symbol In Group", "(x)", "x\n"},
		{"If Block", "if(x){print(1)}", "if(x) { print(1) }\n"},
		{"If Block Multiline", "if(1 == 1) {\n  print(2)\n}", "if((1 == 1)) { print(2) }\n"},
		{"Print Argument Across Lines", "print(\n1\n)", "print(1)\n"},
		{"Operator Continues Line", "1 +\n2", "(1 + 2)\n"},
		{"Blank Lines And Comments", "\n# heading\n1\n\n2 # trailing\n", "1\n2\n"},
		{"Nested Print", "print(print(1))", "print(print(1))\n"},
		{"Print Then Operator", "print(1) + 2", "(print(1) + 2)\n"},
		{"Call Then Operator", "foo(1) + 2", "(foo(1) + 2)\n"},
		{"Empty", "", ""},
		{"Only Comments", "# a\n# b", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if got := prog.String(); got != tt.expected {
				t.Errorf("Parse(%q) =\n%s\nwant:\n%s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseAssignmentShape(t *testing.T) {
	prog, err := Parse("x = 1")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(prog.Exprs) != 1 {
		t.Fatalf("got %d expressions, want 1", len(prog.Exprs))
	}
	op, ok := prog.Exprs[0].(*OpExpr)
	if !ok {
		t.Fatalf("got %T, want *OpExpr", prog.Exprs[0])
	}
	if op.Op.Kind != OpAssignment {
		t.Errorf("operator = %s, want Assignment", op.Op)
	}
	left, ok := op.Args[0].(*Literal)
	if !ok || left.Kind != LitSymbol || left.Text != "x" {
		t.Errorf("left = %v, want symbol x", op.Args[0])
	}
	right, ok := op.Args[1].(*Literal)
	if !ok || right.Kind != LitInteger || right.Int != 1 {
		t.Errorf("right = %v, want integer 1", op.Args[1])
	}
}

func TestParseArity(t *testing.T) {
	prog, err := Parse("print(-1 + 2 * x)\nif(a) { b[0] }\ny = foo(1)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var check func(e Expr)
	check = func(e Expr) {
		op, ok := e.(*OpExpr)
		if !ok {
			return
		}
		if len(op.Args) != op.Op.Kind.Arity() {
			t.Errorf("%s has %d operands, want %d", op.Op, len(op.Args), op.Op.Kind.Arity())
		}
		for _, a := range op.Args {
			check(a)
		}
	}
	for _, e := range prog.Exprs {
		check(e)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  ParseErrorKind
	}{
		{"Two Operands", "1 2", ErrStatement},
		{"Assign To Number", "1 = 2", ErrOperator},
		{"Compound Assign", "x += 1", ErrOperator},
		{"Missing Operand", "*", ErrFactor},
		{"Dangling Operator", "1 +", ErrFactor},
		{"Separator As Factor", ",", ErrFactor},
		{"Print Without Paren", "print 1", ErrKeywordCall},
		{"Print Followed By Value", "print(1) 2", ErrKeywordCall},
		{"Unimplemented Keyword", "loop", ErrUnimplementedKeyword},
		{"Identifier Then Identifier", "x y", ErrIdentifier},
		{"Identifier Then Number", "x 1", ErrIdentifier},
		{"Wrong Closer", "a[(1]", ErrBracketMismatch},
		{"Unclosed Group", "(1", ErrUnexpectedToken},
		{"Bad Number", "12a", ErrLexical},
		{"Non ASCII Identifier", "café", ErrLexical},
		{"Print Followed By Bracket", "print(1) [2]", ErrKeywordCall},
		{"Unbalanced Closer", "print(1))", ErrLexical},
		{"Literal Overflow", "99999999999", ErrLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("Parse(%q) error = %v, want *ParseError", tt.input, err)
			}
			if pe.Kind != tt.kind {
				t.Errorf("Parse(%q) kind = %q, want %q (%v)", tt.input, pe.Kind, tt.kind, err)
			}
		})
	}
}

func TestParseErrorCauses(t *testing.T) {
	_, err := Parse("(1")
	var le *LexError
	if !errors.As(err, &le) || le.Kind != ErrExpectedSymbol {
		t.Fatalf("Parse(\"(1\") error = %v, want wrapped expected-symbol error", err)
	}
	if le.Found.Kind != EOF {
		t.Errorf("found %s, want end of input", le.Found.Describe())
	}

	_, err = Parse("1 + 1.2.3")
	if !errors.As(err, &le) || le.Kind != ErrNumericInvalid {
		t.Fatalf("error = %v, want wrapped numeric error", err)
	}

	_, err = Parse("99999999999")
	var lit *LiteralError
	if !errors.As(err, &lit) || lit.Kind != ErrConversion {
		t.Fatalf("error = %v, want wrapped conversion error", err)
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse("1\n2 3")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Pos.Line != 2 || pe.Pos.Col != 3 {
		t.Errorf("position = %s, want 2:3", pe.Pos)
	}
	if pe.Found.Raw != "3" {
		t.Errorf("found %s, want number 3", pe.Found.Describe())
	}

	_, err = Parse("print(\n  1 @ 2)")
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Kind != ErrLexical || pe.Pos.Line != 2 || pe.Pos.Col != 5 {
		t.Errorf("got %s at %s, want lexical error at 2:5", pe.Kind, pe.Pos)
	}
}
