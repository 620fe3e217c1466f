package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hilite/internal/log"
)

func newCatCmd(e *env) *cobra.Command {
	var number bool

	c := &cobra.Command{
		Use:   "cat FILE...",
		Short: "Classify and paint source files",
		Long: `Classify each file with the lexer for its language and print it with
the current theme. Files in an unknown language are printed unchanged.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := e.highlighter(false)
			if err != nil {
				return err
			}
			defer func() { _ = h.Close() }()

			r := e.renderer()
			for _, path := range args {
				f, err := h.Load(cmd.Context(), path)
				if err != nil {
					return fmt.Errorf("loading %s: %w", path, err)
				}
				if f.Fallback() {
					log.Warn(log.CatSource, "showing file plain", "path", f.Path, "error", f.Err)
				}
				if err := writeLines(cmd.OutOrStdout(), r, f.Lines, number); err != nil {
					return err
				}
			}
			return nil
		},
	}
	c.Flags().BoolVarP(&number, "number", "n", false, "number output lines")
	return c
}
