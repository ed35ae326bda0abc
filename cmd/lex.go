package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"danfe/pkg/compiler"
)

func newLexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lex <path>",
		Short: "Print the tokens of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			lx := compiler.NewLexer(src)
			for {
				tok, err := lx.NextToken()
				if err != nil {
					return located("lex error", args[0], err)
				}
				fmt.Fprintln(out, tok)
				if tok.Kind == compiler.EOF {
					return nil
				}
			}
		},
	}
}
