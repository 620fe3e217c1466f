package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/zjrosen/hilite/internal/flags"
	"github.com/zjrosen/hilite/internal/linestore"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/session"
	"github.com/zjrosen/hilite/internal/viewer"
)

func newViewCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "view [FILE...]",
		Short: "Page through source files or piped debugger output",
		Long: `Open an interactive pager. With FILE arguments it shows classified
source files ([ and ] switch between them); without, it scrolls debugger
output piped on stdin.

Keys: / and ? search incrementally, enter commits, n and N repeat, arrows,
pgup/pgdown and home/end scroll, h and l scroll source files sideways.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			vcfg := viewer.Config{
				Theme:      e.theme,
				TabStop:    e.cfg.TabStop,
				WrapScan:   e.cfg.WrapScan,
				IgnoreCase: e.cfg.IgnoreCase,
				Session:    &session.State{},
			}
			if len(args) == 0 {
				return e.viewOutput(ctx, cmd.InOrStdin(), vcfg)
			}
			return e.viewSources(ctx, args, vcfg)
		},
	}
}

func (e *env) viewSources(ctx context.Context, paths []string, vcfg viewer.Config) error {
	h, err := e.highlighter(true)
	if err != nil {
		return err
	}
	defer func() { _ = h.Close() }()

	if e.flags.Enabled(flags.FlagPrehighlight) && len(paths) > 1 {
		h.Prehighlight(ctx, paths[1:])
	}
	h.Watch(ctx)

	p := tea.NewProgram(viewer.NewSource(ctx, vcfg, h, paths), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}

func (e *env) viewOutput(ctx context.Context, in io.Reader, vcfg viewer.Config) error {
	if f, ok := in.(*os.File); ok {
		if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			return errors.New("nothing to view: pass source files or pipe debugger output to stdin")
		}
	}

	opts := []linestore.Option{
		linestore.WithTabStop(e.cfg.TabStop),
		linestore.WithSession(vcfg.Session),
	}
	c, err := e.classifier()
	if err != nil {
		return fmt.Errorf("compiling output patterns: %w", err)
	}
	if c != nil {
		opts = append(opts, linestore.WithClassifier(c))
	}
	store := linestore.New(opts...)

	// stdin carries the output, so keys come from the terminal.
	p := tea.NewProgram(viewer.NewOutput(ctx, vcfg, store, "stdin"),
		tea.WithAltScreen(), tea.WithInputTTY(), tea.WithContext(ctx))

	go func() {
		br := bufio.NewReader(in)
		for {
			chunk, err := br.ReadString('\n')
			if chunk != "" {
				p.Send(viewer.OutputMsg{Text: chunk})
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					log.ErrorErr(log.CatUI, "reading stdin", err)
				}
				return
			}
		}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running viewer: %w", err)
	}
	return nil
}
