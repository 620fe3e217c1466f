package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hilite/internal/search"
)

func newSearchCmd(e *env) *cobra.Command {
	var (
		reverse    bool
		ignoreCase bool
		noWrap     bool
	)

	c := &cobra.Command{
		Use:   "search PATTERN FILE",
		Short: "Print every match a search walks to",
		Long: `Search FILE for PATTERN the way the pager's n key does: start at the
top (or bottom with --reverse) and repeat until the search comes back to a
match it has already shown or runs off the end of the file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pat, path := args[0], args[1]

			h, err := e.highlighter(false)
			if err != nil {
				return err
			}
			defer func() { _ = h.Close() }()

			f, err := h.Load(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("loading %s: %w", path, err)
			}
			lines := f.Lines

			if !cmd.Flags().Changed("ignore-case") {
				ignoreCase = e.cfg.IgnoreCase
			}
			wrap := e.cfg.WrapScan && !noWrap

			req := search.Request{
				Pattern:    pat,
				Direction:  search.Forward,
				Mode:       search.Permanent,
				IgnoreCase: ignoreCase,
				WrapScan:   wrap,
			}
			var st search.State
			if reverse && len(lines) > 0 {
				req.Direction = search.Reverse
				st.Row = len(lines) - 1
				st.ColStart = lines[st.Row].Len()
			}

			r := e.renderer()
			out := cmd.OutOrStdout()
			seen := map[[2]int]bool{}

			res, err := search.SearchContext(cmd.Context(), req, lines, &st)
			for err == nil && res.Found() {
				at := [2]int{res.Row, res.Start}
				if seen[at] {
					break
				}
				seen[at] = true

				hl, herr := search.HighlightSegment(lines[res.Row], res.Start, res.End)
				if herr != nil {
					return herr
				}
				fmt.Fprintf(out, "%s:%d:%d: %s\n", path, res.Row+1, res.Start+1, paint(r, hl))
				res, err = search.Repeat(lines, &st, false, wrap)
			}
			if err != nil {
				return err
			}
			if len(seen) == 0 {
				return fmt.Errorf("pattern not found: %s", pat)
			}
			return nil
		},
	}
	c.Flags().BoolVarP(&reverse, "reverse", "r", false, "search backwards from the end of the file")
	c.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "ignore case (default from config)")
	c.Flags().BoolVar(&noWrap, "no-wrap", false, "stop at the end of the file instead of wrapping")
	return c
}
