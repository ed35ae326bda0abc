package compiler

import (
	"fmt"
	"io"

	"danfe/pkg/asm"
	"danfe/pkg/vm"
)

// combines maps the binary operators with a translation to their stack operation.
var combines = map[OpKind]vm.Combine{
	OpPlus:     vm.Add,
	OpSubtract: vm.Sub,
	OpMultiply: vm.Mul,
	OpEqual:    vm.Eq,
}

// runtimeCalls maps the callable names to the runtime routine they invoke.
var runtimeCalls = map[string]string{
	"print": vm.RoutineDump,
}

// Lower translates one statement into stack operations. Literals and
// combines leave exactly one value on the stack, print consumes its argument
// and leaves nothing, so print cannot appear where a value is needed.
// Operands are evaluated left to right.
func Lower(e Expr) ([]vm.Instr, error) {
	var out []vm.Instr
	if err := lower(e, &out, false); err != nil {
		return nil, err
	}
	return out, nil
}

// lower appends the code for e. operand is set when the result is consumed
// by an enclosing combine or call.
func lower(e Expr, out *[]vm.Instr, operand bool) error {
	switch n := e.(type) {
	case *Literal:
		switch n.Kind {
		case LitInteger:
			*out = append(*out, vm.Push(vm.IntImm(n.Int)))
			return nil
		case LitFloat:
			*out = append(*out, vm.Push(vm.FloatImm(n.Float)))
			return nil
		}
		return &UnsupportedError{Node: fmt.Sprintf("%s literal %s", n.Kind, n)}

	case *OpExpr:
		if len(n.Args) != n.Op.Kind.Arity() {
			return fmt.Errorf("%s takes %d operands, got %d", n.Op, n.Op.Kind.Arity(), len(n.Args))
		}

		if c, ok := combines[n.Op.Kind]; ok {
			if err := lower(n.Args[0], out, true); err != nil {
				return err
			}
			if err := lower(n.Args[1], out, true); err != nil {
				return err
			}
			*out = append(*out, vm.Binary(c))
			return nil
		}

		if n.Op.Kind == OpCall {
			if routine, ok := runtimeCalls[n.Op.Name]; ok {
				if operand {
					return &UnsupportedError{Node: fmt.Sprintf("%s used as a value", n.Op.Name)}
				}
				if err := lower(n.Args[0], out, true); err != nil {
					return err
				}
				*out = append(*out, vm.Call(routine))
				return nil
			}
		}
		return &UnsupportedError{Node: n.Op.String()}
	}
	return fmt.Errorf("unknown expression node %T", e)
}

// Generator appends the assembly for one expression at a time. The prologue
// is written by NewGenerator and the epilogue by Finish.
type Generator struct {
	w *asm.Writer
}

func NewGenerator(w io.Writer) (*Generator, error) {
	g := &Generator{w: asm.NewWriter(w)}
	if err := g.w.Prologue(); err != nil {
		return nil, err
	}
	return g, nil
}

// Generate lowers e and appends its code. Nothing is written when e has no
// translation.
func (g *Generator) Generate(e Expr) error {
	code, err := Lower(e)
	if err != nil {
		return err
	}
	for _, in := range code {
		if err := g.w.Instr(in); err != nil {
			return err
		}
	}
	return nil
}

// Finish writes the epilogue and flushes.
func (g *Generator) Finish() error {
	if err := g.w.Epilogue(); err != nil {
		return err
	}
	return g.w.Flush()
}

// GenerateProgram writes the complete assembly for prog to w.
func GenerateProgram(prog *Program, w io.Writer) error {
	g, err := NewGenerator(w)
	if err != nil {
		return err
	}
	for _, e := range prog.Exprs {
		if err := g.Generate(e); err != nil {
			return err
		}
	}
	return g.Finish()
}

// LowerProgram lowers every expression and appends the final Exit.
func LowerProgram(prog *Program) ([]vm.Instr, error) {
	var out []vm.Instr
	for _, e := range prog.Exprs {
		if err := lower(e, &out, false); err != nil {
			return nil, err
		}
	}
	return append(out, vm.Halt()), nil
}
