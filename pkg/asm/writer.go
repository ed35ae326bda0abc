// Package asm renders stack-machine instructions as NASM x86-64 source for
// Linux. The output is fed to "nasm -felf64" and "ld" unchanged.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"danfe/pkg/vm"
)

// dumpRoutine prints rdi as an unsigned decimal number and a newline using
// write(2). Division by ten is done by multiplying with the reciprocal
// 0xCCCCCCCCCCCCCCCD and shifting, so there is no div instruction.
var dumpRoutine = []string{
	"dump:",
	"    mov     r9, -3689348814741910323",
	"    sub     rsp, 40",
	"    mov     BYTE [rsp+31], 10",
	"    lea     rcx, [rsp+30]",
	".L2:",
	"    mov     rax, rdi",
	"    lea     r8, [rsp+32]",
	"    mul     r9",
	"    mov     rax, rdi",
	"    sub     r8, rcx",
	"    shr     rdx, 3",
	"    lea     rsi, [rdx+rdx*4]",
	"    add     rsi, rsi",
	"    sub     rax, rsi",
	"    add     eax, 48",
	"    mov     BYTE [rcx], al",
	"    mov     rax, rdi",
	"    mov     rdi, rdx",
	"    mov     rdx, rcx",
	"    sub     rcx, 1",
	"    cmp     rax, 9",
	"    ja      .L2",
	"    lea     rax, [rsp+32]",
	"    mov     edi, 1",
	"    sub     rdx, rax",
	"    xor     eax, eax",
	"    lea     rsi, [rsp+32+rdx]",
	"    mov     rdx, r8",
	"    mov     rax, 1",
	"    syscall",
	"    add     rsp, 40",
	"    ret",
}

// combineCode is the body emitted for each BinaryCombine after its comment.
// Both operands are popped, the right one first.
var combineCode = map[vm.Combine]struct {
	name  string
	lines []string
}{
	vm.Add: {"plus", []string{"pop rax", "pop rbx", "add rax, rbx", "push rax"}},
	vm.Sub: {"minus", []string{"pop rax", "pop rbx", "sub rbx, rax", "push rbx"}},
	vm.Mul: {"multiply", []string{"pop rax", "pop rbx", "mul rbx", "push rax"}},
	vm.Eq: {"equal", []string{
		"mov rcx, 0",
		"mov rdx, 1",
		"pop rax",
		"pop rbx",
		"cmp rax, rbx",
		"cmove rcx, rdx",
		"push rcx",
	}},
}

// Writer appends assembly text to an underlying writer. The first write error
// is kept and every later call becomes a no-op.
type Writer struct {
	w   *bufio.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (w *Writer) line(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format+"\n", args...)
}

// op writes one indented instruction.
func (w *Writer) op(format string, args ...any) {
	w.line("    "+format, args...)
}

// Prologue writes the section header, the dump routine and the entry label.
func (w *Writer) Prologue() error {
	w.line("BITS 64")
	w.line("segment .text")
	for _, l := range dumpRoutine {
		w.line("%s", l)
	}
	w.line("global _start")
	w.line("_start:")
	return w.err
}

// Instr writes the code for one instruction.
func (w *Writer) Instr(in vm.Instr) error {
	if w.err != nil {
		return w.err
	}

	switch in.Kind {
	case vm.PushImmediate:
		w.op(";; -- push  --")
		w.op("push %s", Immediate(in.Imm))

	case vm.BinaryCombine:
		code, ok := combineCode[in.Op]
		if !ok {
			return fmt.Errorf("asm: no code for combine %s", in.Op)
		}
		w.op(";; -- %s --", code.name)
		for _, l := range code.lines {
			w.op("%s", l)
		}

	case vm.CallRuntime:
		if in.Routine != vm.RoutineDump {
			return fmt.Errorf("asm: unknown runtime routine %q", in.Routine)
		}
		w.op(";; -- dump --")
		w.op("pop rdi")
		w.op("call dump")

	case vm.Exit:
		w.op("mov rax, 60")
		w.op("mov rdi, 0")
		w.op("syscall")

	default:
		return fmt.Errorf("asm: unknown instruction %s", in.Kind)
	}
	return w.err
}

// Epilogue writes the exit syscall.
func (w *Writer) Epilogue() error {
	return w.Instr(vm.Halt())
}

// Flush pushes buffered text to the underlying writer and reports the first
// error seen by any call.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.w.Flush()
	return w.err
}

// Immediate renders a push operand. Floats go through NASM's __float32__ so
// the pushed word holds their bit pattern; NASM needs a '.' in the literal.
func Immediate(imm vm.Immediate) string {
	text := imm.Text()
	if !imm.IsFloat {
		return text
	}
	if !strings.ContainsAny(text, ".") {
		if i := strings.IndexAny(text, "eE"); i >= 0 {
			text = text[:i] + ".0" + text[i:]
		} else {
			text += ".0"
		}
	}
	return fmt.Sprintf("__float32__(%s)", text)
}
