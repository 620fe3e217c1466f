package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hilite/internal/attr"
	"github.com/zjrosen/hilite/internal/linestore"
	"github.com/zjrosen/hilite/internal/render"
)

func newScanCmd(e *env) *cobra.Command {
	var encoded bool

	c := &cobra.Command{
		Use:   "scan",
		Short: "Highlight debugger output read from stdin",
		Long: `Read debugger output from stdin, apply terminal editing (carriage
return, backspace, tabs) and print each line as it completes, with paths,
backtrace frames and hex numbers highlighted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := []linestore.Option{linestore.WithTabStop(e.cfg.TabStop)}
			cl, err := e.classifier()
			if err != nil {
				return fmt.Errorf("compiling output patterns: %w", err)
			}
			if cl != nil {
				opts = append(opts, linestore.WithClassifier(cl))
			}
			write := paintLine(e.renderer())
			if encoded {
				write = encodeLine
			}
			return scan(cmd.InOrStdin(), cmd.OutOrStdout(), linestore.New(opts...), write)
		},
	}
	c.Flags().BoolVar(&encoded, "encoded", false,
		"write the sentinel-encoded stream instead of terminal colours (see hilite decode)")
	return c
}

// lineWriter writes one closed line.
type lineWriter func(w io.Writer, l attr.Line) error

func paintLine(r *render.Renderer) lineWriter {
	return func(w io.Writer, l attr.Line) error {
		_, err := fmt.Fprintln(w, paint(r, l))
		return err
	}
}

// encodeLine writes l as visible bytes interleaved with two-byte group
// directives, one line per newline.
func encodeLine(w io.Writer, l attr.Line) error {
	b, err := attr.Marshal(l)
	if err != nil {
		return fmt.Errorf("encoding line: %w", err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// scan feeds in to store and prints every line the store closes. The open
// line is printed at EOF when it holds any text.
func scan(in io.Reader, out io.Writer, store *linestore.Store, write lineWriter) error {
	br := bufio.NewReader(in)
	printed := 0

	flush := func(upto int) error {
		for ; printed < upto; printed++ {
			l, err := store.LineAt(printed)
			if err != nil {
				return err
			}
			if err := write(out, l); err != nil {
				return err
			}
		}
		return nil
	}

	for {
		chunk, err := br.ReadString('\n')
		if chunk != "" {
			store.AppendRaw(chunk)
			if ferr := flush(store.LineCount() - 1); ferr != nil {
				return ferr
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}

	last := store.LineCount() - 1
	if l, err := store.LineAt(last); err == nil && l.Len() > 0 {
		return flush(last + 1)
	}
	return nil
}
