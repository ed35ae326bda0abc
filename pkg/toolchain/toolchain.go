// Package toolchain turns generated assembly into a running program with the
// external nasm assembler and ld linker.
package toolchain

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"danfe/pkg/utils"
)

// Config says where artifacts go and which tools build them.
type Config struct {
	// OutDir holds the .asm, .o and executable. It is created if absent.
	OutDir string
	// Name is the base name shared by the three artifacts.
	Name string

	NASM string
	LD   string

	// Stdout receives the program's output, Stderr the tools' diagnostics.
	// Nil means os.Stdout / os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
}

func DefaultConfig() Config {
	return Config{
		OutDir: "output",
		Name:   "output",
		NASM:   "nasm",
		LD:     "ld",
	}
}

func (c *Config) AsmPath() string { return filepath.Join(c.OutDir, c.Name+".asm") }
func (c *Config) ObjPath() string { return filepath.Join(c.OutDir, c.Name+".o") }
func (c *Config) ExePath() string { return filepath.Join(c.OutDir, c.Name) }

func (c *Config) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

func (c *Config) stderr() io.Writer {
	if c.Stderr != nil {
		return c.Stderr
	}
	return os.Stderr
}

// StageError reports which step of the build failed.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Prepare creates OutDir, makes it absolute and removes the artifacts of a
// previous build so a failed build can never leave a stale program behind.
func (c *Config) Prepare() error {
	dir, err := utils.EnsureDir(c.OutDir)
	if err != nil {
		return &StageError{Stage: "prepare", Err: err}
	}
	c.OutDir = dir
	for _, p := range []string{c.AsmPath(), c.ObjPath(), c.ExePath()} {
		if err := utils.RemoveIfExists(p); err != nil {
			return &StageError{Stage: "prepare", Err: err}
		}
	}
	return nil
}

// WriteAsm stores the generated assembly.
func (c *Config) WriteAsm(code []byte) error {
	if err := os.WriteFile(c.AsmPath(), code, 0o644); err != nil {
		return &StageError{Stage: "write", Err: err}
	}
	return nil
}

func (c *Config) run(ctx context.Context, stage string, stdout io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = c.stderr()
	if err := cmd.Run(); err != nil {
		return &StageError{Stage: stage, Err: err}
	}
	return nil
}

// Assemble runs nasm on the .asm file, producing the object file.
func (c *Config) Assemble(ctx context.Context) error {
	return c.run(ctx, "assemble", c.stderr(), c.NASM, "-felf64", c.AsmPath(), "-o", c.ObjPath())
}

// Link runs ld on the object file, producing the executable.
func (c *Config) Link(ctx context.Context) error {
	return c.run(ctx, "link", c.stderr(), c.LD, "-o", c.ExePath(), c.ObjPath())
}

// Run executes the linked program, forwarding its output to Stdout.
func (c *Config) Run(ctx context.Context) error {
	return c.run(ctx, "run", c.stdout(), c.ExePath())
}
