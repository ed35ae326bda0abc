package compiler

import (
	"io"
	"os"

	"danfe/pkg/vm"
)

// ReadSource loads a source file.
func ReadSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &LexError{Kind: ErrFileRead, Path: path, Err: err}
	}
	return string(data), nil
}

// Compile parses src and writes its assembly to w. Nothing is written if
// parsing fails.
func Compile(src string, w io.Writer) error {
	prog, err := Parse(src)
	if err != nil {
		return err
	}
	return GenerateProgram(prog, w)
}

// Emulate runs prog on the in-process stack machine, sending printed values
// to out.
func Emulate(prog *Program, out io.Writer) error {
	code, err := LowerProgram(prog)
	if err != nil {
		return err
	}
	return vm.NewMachine(out).Run(code)
}
