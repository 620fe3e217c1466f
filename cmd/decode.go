package cmd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hilite/internal/attr"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/render"
)

func newDecodeCmd(e *env) *cobra.Command {
	var strip bool

	c := &cobra.Command{
		Use:   "decode",
		Short: "Paint a sentinel-encoded stream read from stdin",
		Long: `Read lines produced by "hilite scan --encoded" from stdin and paint them
with the current theme. With --strip the directives are removed and the
visible text is printed unchanged.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return e.decode(cmd.InOrStdin(), cmd.OutOrStdout(), strip)
		},
	}
	c.Flags().BoolVar(&strip, "strip", false, "print the visible text only")
	return c
}

func (e *env) decode(in io.Reader, out io.Writer, strip bool) error {
	r := e.renderer()
	br := bufio.NewReader(in)
	for n := 1; ; n++ {
		raw, err := br.ReadBytes('\n')
		if len(raw) > 0 {
			raw = bytes.TrimSuffix(raw, []byte{'\n'})
			if derr := decodeLine(out, raw, strip, r); derr != nil {
				log.ErrorErr(log.CatRender, "cannot decode line", derr, "line", n)
				return fmt.Errorf("line %d: %w", n, derr)
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}
}

func decodeLine(out io.Writer, raw []byte, strip bool, r *render.Renderer) error {
	if strip {
		text, err := attr.Strip(raw)
		if err != nil {
			return err
		}
		_, err = out.Write(append(text, '\n'))
		return err
	}
	l, err := attr.Unmarshal(raw)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, paint(r, l))
	return err
}
