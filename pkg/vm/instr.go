// Package vm describes the stack-machine operations the compiler lowers to and
// executes them in process.
package vm

import (
	"fmt"
	"strconv"
)

// Kind is the closed set of abstract stack operations.
type Kind uint8

const (
	PushImmediate Kind = iota // push Imm
	BinaryCombine             // pop right, pop left, push left <Op> right
	CallRuntime               // pop one value and hand it to Routine
	Exit                      // terminate the process with status 0
)

var kindNames = [...]string{
	PushImmediate: "PushImmediate",
	BinaryCombine: "BinaryCombine",
	CallRuntime:   "CallRuntime",
	Exit:          "Exit",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Combine selects the arithmetic of a BinaryCombine.
type Combine uint8

const (
	Add Combine = iota
	Sub
	Mul
	Eq
)

var combineNames = [...]string{
	Add: "Add",
	Sub: "Sub",
	Mul: "Mul",
	Eq:  "Eq",
}

func (c Combine) String() string {
	if int(c) < len(combineNames) {
		return combineNames[c]
	}
	return fmt.Sprintf("Combine(%d)", int(c))
}

// RoutineDump writes an unsigned value in decimal followed by '\n' to stdout.
// It is the only runtime helper.
const RoutineDump = "dump"

// Immediate is a constant operand: a 32-bit integer or a 32-bit float.
type Immediate struct {
	Int     int32
	Float   float32
	IsFloat bool
}

func IntImm(v int32) Immediate     { return Immediate{Int: v} }
func FloatImm(v float32) Immediate { return Immediate{Float: v, IsFloat: true} }

// Text renders the immediate as it appears in source and assembly.
func (i Immediate) Text() string {
	if i.IsFloat {
		return strconv.FormatFloat(float64(i.Float), 'g', -1, 32)
	}
	return strconv.FormatInt(int64(i.Int), 10)
}

// Instr is one stack operation. Only the field matching Kind is meaningful.
type Instr struct {
	Kind    Kind
	Imm     Immediate // PushImmediate
	Op      Combine   // BinaryCombine
	Routine string    // CallRuntime
}

func Push(imm Immediate) Instr  { return Instr{Kind: PushImmediate, Imm: imm} }
func Binary(op Combine) Instr   { return Instr{Kind: BinaryCombine, Op: op} }
func Call(routine string) Instr { return Instr{Kind: CallRuntime, Routine: routine} }
func Halt() Instr               { return Instr{Kind: Exit} }

func (in Instr) String() string {
	switch in.Kind {
	case PushImmediate:
		return fmt.Sprintf("%s %s", in.Kind, in.Imm.Text())
	case BinaryCombine:
		return fmt.Sprintf("%s %s", in.Kind, in.Op)
	case CallRuntime:
		return fmt.Sprintf("%s %s", in.Kind, in.Routine)
	}
	return in.Kind.String()
}
