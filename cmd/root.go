package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"danfe/pkg/compiler"
)

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	var outDir string

	root := &cobra.Command{
		Use:   "danfe",
		Short: "danfe compiles expression programs into native x86-64 executables",
		Long: `danfe is an ahead-of-time compiler for a small expression language.

Commands:
  file   Compile a source file, then assemble, link and run it
  lex    Print the tokens of a source file
  parse  Print the expression trees of a source file
`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&outDir, "out", "o", "output", "output directory for build artifacts")

	root.AddCommand(newFileCmd(&outDir), newLexCmd(), newParseCmd())
	return root
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// located prefixes err with its stage and, when it has one, the source
// position as path:line:col.
func located(stage, path string, err error) error {
	var pe *compiler.ParseError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s: %s:%w", stage, path, err)
	}
	var le *compiler.LexError
	if errors.As(err, &le) && le.Kind != compiler.ErrFileRead {
		return fmt.Errorf("%s: %s:%s: %w", stage, path, le.Pos, err)
	}
	return fmt.Errorf("%s: %w", stage, err)
}

func readSource(path string) (string, error) {
	src, err := compiler.ReadSource(path)
	if err != nil {
		return "", fmt.Errorf("read error: %w", err)
	}
	return src, nil
}
