package compiler

import (
	"errors"
	"strings"
	"testing"

	"danfe/pkg/vm"
)

// assertContains checks if the generated code contains the expected substring.
func assertContains(t *testing.T, code, expected string) {
	t.Helper()
	if !strings.Contains(code, expected) {
		t.Errorf("Expected code to contain %q, but it didn't.\nCode:\n%s", expected, code)
	}
}

// compileBody compiles src and returns everything after the entry label.
func compileBody(t *testing.T, src string) string {
	t.Helper()
	var b strings.Builder
	if err := Compile(src, &b); err != nil {
		t.Fatalf("Compile(%q) failed: %v", src, err)
	}
	code := b.String()
	_, body, ok := strings.Cut(code, "_start:\n")
	if !ok {
		t.Fatalf("no _start label in:\n%s", code)
	}
	return body
}

func TestLower(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []vm.Instr
	}{
		{
			name:     "Literal",
			input:    "7",
			expected: []vm.Instr{vm.Push(vm.IntImm(7))},
		},
		{
			name:     "Float",
			input:    "2.5",
			expected: []vm.Instr{vm.Push(vm.FloatImm(2.5))},
		},
		{
			name:  "Operands Left To Right",
			input: "5 - 3",
			expected: []vm.Instr{
				vm.Push(vm.IntImm(5)), vm.Push(vm.IntImm(3)), vm.Binary(vm.Sub),
			},
		},
		{
			name:  "Nested",
			input: "2 + 3 * 4",
			expected: []vm.Instr{
				vm.Push(vm.IntImm(2)),
				vm.Push(vm.IntImm(3)), vm.Push(vm.IntImm(4)), vm.Binary(vm.Mul),
				vm.Binary(vm.Add),
			},
		},
		{
			name:  "Print",
			input: "print(1 == 1)",
			expected: []vm.Instr{
				vm.Push(vm.IntImm(1)), vm.Push(vm.IntImm(1)), vm.Binary(vm.Eq),
				vm.Call(vm.RoutineDump),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			got, err := Lower(prog.Exprs[0])
			if err != nil {
				t.Fatalf("Lower failed: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("got %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("instr %d = %s, want %s", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestLowerProgramEndsWithExit(t *testing.T) {
	prog, err := Parse("print(1)\nprint(2)")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	code, err := LowerProgram(prog)
	if err != nil {
		t.Fatalf("LowerProgram failed: %v", err)
	}
	if len(code) != 5 {
		t.Fatalf("got %d instructions, want 5: %v", len(code), code)
	}
	if code[len(code)-1] != vm.Halt() {
		t.Errorf("last instruction = %s, want Exit", code[len(code)-1])
	}

	empty, err := LowerProgram(&Program{})
	if err != nil {
		t.Fatalf("LowerProgram(empty) failed: %v", err)
	}
	if len(empty) != 1 || empty[0] != vm.Halt() {
		t.Errorf("empty program = %v, want [Exit]", empty)
	}
}

func TestGenerate_PrintSum(t *testing.T) {
	body := compileBody(t, "print(2 + 3)")
	want := strings.Join([]string{
		"    ;; -- push  --",
		"    push 2",
		"    ;; -- push  --",
		"    push 3",
		"    ;; -- plus --",
		"    pop rax",
		"    pop rbx",
		"    add rax, rbx",
		"    push rax",
		"    ;; -- dump --",
		"    pop rdi",
		"    call dump",
		"    mov rax, 60",
		"    mov rdi, 0",
		"    syscall",
		"",
	}, "\n")
	if body != want {
		t.Errorf("body =\n%s\nwant:\n%s", body, want)
	}
}

func TestGenerate_Prologue(t *testing.T) {
	var b strings.Builder
	if err := Compile("", &b); err != nil {
		t.Fatalf("Compile failed: %v", err)
	}
	code := b.String()
	if !strings.HasPrefix(code, "BITS 64\nsegment .text\ndump:\n") {
		t.Errorf("unexpected prologue:\n%s", code)
	}
	assertContains(t, code, "global _start\n_start:\n")
	if !strings.HasSuffix(code, "    mov rax, 60\n    mov rdi, 0\n    syscall\n") {
		t.Errorf("program does not end with the exit syscall:\n%s", code)
	}
	if strings.Count(code, "syscall") != 2 {
		t.Errorf("want one syscall in dump and one exit, got:\n%s", code)
	}
}

func TestGenerate_Operators(t *testing.T) {
	tests := []struct {
		input string
		parts []string
	}{
		{"print(5 - 3)", []string{";; -- minus --", "sub rbx, rax", "push rbx"}},
		{"print(6 * 7)", []string{";; -- multiply --", "mul rbx", "push rax"}},
		{"print(2 == 2)", []string{";; -- equal --", "mov rcx, 0", "mov rdx, 1", "cmp rax, rbx", "cmove rcx, rdx", "push rcx"}},
		{"print(1.5)", []string{"push __float32__(1.5)"}},
		{"print(2.)", []string{"push __float32__(2.0)"}},
	}
	for _, tt := range tests {
		body := compileBody(t, tt.input)
		for _, p := range tt.parts {
			assertContains(t, body, p)
		}
	}
}

func TestGenerate_Statements(t *testing.T) {
	body := compileBody(t, "print(1)\n# skipped\n\nprint(2)")
	if n := strings.Count(body, "call dump"); n != 2 {
		t.Errorf("got %d dump calls, want 2", n)
	}
	first := strings.Index(body, "push 1")
	second := strings.Index(body, "push 2")
	if first < 0 || second < 0 || first > second {
		t.Errorf("statements out of order:\n%s", body)
	}
}

func TestGenerate_Unsupported(t *testing.T) {
	tests := []struct {
		input string
		node  string
	}{
		{"x = 1", "Assignment"},
		{"foo(1)", "Call(foo)"},
		{"a[1]", "Index"},
		{"if(1){print(1)}", "Define(if)"},
		{"-1", "UnaryMinus"},
		{"+1", "UnaryPass"},
		{"4 / 2", "Division"},
		{"4 % 2", "Modulos"},
		{"1 < 2", "LessThan"},
		{"1 >= 2", "GreaterThanOrEqual"},
		{"1 && 2", "BooleanAnd"},
		{"1 || 2", "BooleanOr"},
		{"x", "symbol literal x"},
		{`"s"`, "string literal"},
		{"true", "boolean literal true"},
		{"print(x)", "symbol literal x"},
		{"print(print(1))", "print used as a value"},
		{"print(1 + print(2))", "print used as a value"},
		{"print(1) + 2", "print used as a value"},
		{"print(1) == print(2)", "print used as a value"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var b strings.Builder
			err := Compile(tt.input, &b)
			var ue *UnsupportedError
			if !errors.As(err, &ue) {
				t.Fatalf("Compile(%q) error = %v, want *UnsupportedError", tt.input, err)
			}
			if !strings.Contains(ue.Node, tt.node) {
				t.Errorf("node = %q, want it to mention %q", ue.Node, tt.node)
			}
		})
	}
}

func TestGenerate_UnsupportedWritesNoStatementCode(t *testing.T) {
	var b strings.Builder
	g, err := NewGenerator(&b)
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	prog, err := Parse("1 + x")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if err := g.Generate(prog.Exprs[0]); err == nil {
		t.Fatal("Generate succeeded on an unsupported node")
	}
	if err := g.Finish(); err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if strings.Contains(b.String(), "push 1") {
		t.Errorf("partial code emitted:\n%s", b.String())
	}
}

func TestNewLiteral(t *testing.T) {
	tests := []struct {
		tok     Token
		want    string
		kind    LiteralKind
		wantErr bool
	}{
		{num("0", HintInteger), "0", LitInteger, false},
		{num("2147483647", HintInteger), "2147483647", LitInteger, false},
		{num("2147483648", HintInteger), "", 0, true},
		{num("1.25", HintFloatingPoint), "1.25", LitFloat, false},
		{num(".5", HintFloatingPoint), "0.5", LitFloat, false},
		{num("3.", HintFloatingPoint), "3", LitFloat, false},
		{ident("x"), "", 0, true},
	}
	for _, tt := range tests {
		lit, err := NewLiteral(tt.tok)
		if tt.wantErr {
			var le *LiteralError
			if !errors.As(err, &le) {
				t.Errorf("NewLiteral(%s) error = %v, want *LiteralError", tt.tok.Describe(), err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewLiteral(%s) failed: %v", tt.tok.Describe(), err)
			continue
		}
		if lit.Kind != tt.kind || lit.String() != tt.want {
			t.Errorf("NewLiteral(%s) = %s %s, want %s %s", tt.tok.Describe(), lit.Kind, lit, tt.kind, tt.want)
		}
	}
}

func TestLower_PrintStatementOnly(t *testing.T) {
	for _, src := range []string{"print(print(1))", "print(1 + print(2))"} {
		prog, err := Parse(src)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", src, err)
		}
		code, err := Lower(prog.Exprs[0])
		var ue *UnsupportedError
		if !errors.As(err, &ue) {
			t.Errorf("Lower(%q) = %v, %v; want *UnsupportedError", src, code, err)
		}
	}
}
