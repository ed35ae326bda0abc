package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"danfe/pkg/compiler"
	"danfe/pkg/toolchain"
)

type fileOptions struct {
	name     string
	nasm     string
	ld       string
	emitOnly bool
	emulate  bool
	verbose  bool
}

func newFileCmd(outDir *string) *cobra.Command {
	defaults := toolchain.DefaultConfig()
	opts := &fileOptions{}

	c := &cobra.Command{
		Use:   "file <path>",
		Short: "Compile a source file, then assemble, link and run it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd, *outDir, opts, args[0])
		},
	}

	f := c.Flags()
	f.StringVar(&opts.name, "name", defaults.Name, "base name of the generated .asm, .o and executable")
	f.StringVar(&opts.nasm, "nasm", defaults.NASM, "assembler binary")
	f.StringVar(&opts.ld, "ld", defaults.LD, "linker binary")
	f.BoolVar(&opts.emitOnly, "emit-only", false, "stop after writing the assembly file")
	f.BoolVar(&opts.emulate, "emulate", false, "run on the built-in stack machine instead of nasm/ld")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "report each stage on stderr")
	c.MarkFlagsMutuallyExclusive("emit-only", "emulate")
	return c
}

func runFile(cmd *cobra.Command, outDir string, opts *fileOptions, path string) error {
	logf := func(format string, args ...any) {
		if opts.verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
		}
	}

	src, err := readSource(path)
	if err != nil {
		return err
	}

	prog, err := compiler.Parse(src)
	if err != nil {
		return located("parse error", path, err)
	}
	logf("parsed %d expressions from %s", len(prog.Exprs), path)

	if opts.emulate {
		if err := compiler.Emulate(prog, cmd.OutOrStdout()); err != nil {
			var unsupported *compiler.UnsupportedError
			if errors.As(err, &unsupported) {
				return fmt.Errorf("codegen error: %w", err)
			}
			return fmt.Errorf("emulate error: %w", err)
		}
		return nil
	}

	cfg := toolchain.Config{
		OutDir: outDir,
		Name:   opts.name,
		NASM:   opts.nasm,
		LD:     opts.ld,
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
	if err := cfg.Prepare(); err != nil {
		return err
	}

	// Generate into memory first so a codegen failure leaves no .asm behind.
	var code bytes.Buffer
	if err := compiler.GenerateProgram(prog, &code); err != nil {
		return fmt.Errorf("codegen error: %w", err)
	}
	if err := cfg.WriteAsm(code.Bytes()); err != nil {
		return err
	}
	logf("generated %d bytes -> %s", code.Len(), cfg.AsmPath())

	if opts.emitOnly {
		return nil
	}

	ctx := cmd.Context()
	if err := cfg.Assemble(ctx); err != nil {
		return err
	}
	logf("assembled -> %s", cfg.ObjPath())
	if err := cfg.Link(ctx); err != nil {
		return err
	}
	logf("linked -> %s", cfg.ExePath())
	return cfg.Run(ctx)
}
