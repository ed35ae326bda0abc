package vm

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// ErrStackUnderflow is returned when an instruction pops from an empty stack.
var ErrStackUnderflow = errors.New("stack underflow")

// Machine executes instructions with the semantics of the generated x86-64
// code: 64-bit registers, wrap-around arithmetic, unsigned decimal output.
type Machine struct {
	Stack []uint64
	PC    int

	Halted bool

	// Output receives what the dump routine writes. If nil, os.Stdout is used.
	Output io.Writer

	// MaxDepth is the deepest the stack has been.
	MaxDepth int
}

func NewMachine(out io.Writer) *Machine {
	return &Machine{Output: out}
}

func (m *Machine) outputSink() io.Writer {
	if m.Output != nil {
		return m.Output
	}
	return os.Stdout
}

func (m *Machine) push(v uint64) {
	m.Stack = append(m.Stack, v)
	if len(m.Stack) > m.MaxDepth {
		m.MaxDepth = len(m.Stack)
	}
}

func (m *Machine) pop() (uint64, error) {
	if len(m.Stack) == 0 {
		return 0, ErrStackUnderflow
	}
	v := m.Stack[len(m.Stack)-1]
	m.Stack = m.Stack[:len(m.Stack)-1]
	return v, nil
}

// Value is the 64-bit word "push imm32" leaves on the stack: the immediate
// sign-extended, floats as their IEEE-754 single precision bits.
func Value(imm Immediate) uint64 {
	if imm.IsFloat {
		return uint64(int64(int32(math.Float32bits(imm.Float))))
	}
	return uint64(int64(imm.Int))
}

// Step executes one instruction.
func (m *Machine) Step(in Instr) error {
	if m.Halted {
		return nil
	}

	switch in.Kind {
	case PushImmediate:
		m.push(Value(in.Imm))

	case BinaryCombine:
		// The right operand was pushed last.
		right, err := m.pop()
		if err != nil {
			return err
		}
		left, err := m.pop()
		if err != nil {
			return err
		}
		switch in.Op {
		case Add:
			m.push(left + right)
		case Sub:
			m.push(left - right)
		case Mul:
			m.push(left * right)
		case Eq:
			var v uint64
			if left == right {
				v = 1
			}
			m.push(v)
		default:
			return fmt.Errorf("unknown combine %s", in.Op)
		}

	case CallRuntime:
		if in.Routine != RoutineDump {
			return fmt.Errorf("unknown runtime routine %q", in.Routine)
		}
		v, err := m.pop()
		if err != nil {
			return err
		}
		if _, err := io.WriteString(m.outputSink(), strconv.FormatUint(v, 10)+"\n"); err != nil {
			return err
		}

	case Exit:
		m.Halted = true

	default:
		return fmt.Errorf("unknown instruction kind %s", in.Kind)
	}
	return nil
}

// Run executes prog from the start until it exits or runs off the end.
func (m *Machine) Run(prog []Instr) error {
	for m.PC = 0; m.PC < len(prog) && !m.Halted; m.PC++ {
		if err := m.Step(prog[m.PC]); err != nil {
			return fmt.Errorf("instruction %d (%s): %w", m.PC, prog[m.PC], err)
		}
	}
	return nil
}
