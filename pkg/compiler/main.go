// Package compiler provides the lexer, parser and code generator for the
// danfe expression language, targeting NASM x86-64 assembly for Linux.
//
// Pipeline: source → Lex → Parse → Lower (vm.Instr) → asm.Writer → NASM text
package compiler
