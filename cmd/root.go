package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/hilite/internal/config"
	"github.com/zjrosen/hilite/internal/flags"
	"github.com/zjrosen/hilite/internal/log"
	"github.com/zjrosen/hilite/internal/output"
	"github.com/zjrosen/hilite/internal/render"
	"github.com/zjrosen/hilite/internal/source"
	"github.com/zjrosen/hilite/internal/theme"
	"github.com/zjrosen/hilite/internal/tracing"
	"github.com/zjrosen/hilite/internal/watcher"
)

func init() {
	// Query the terminal background before any Bubble Tea program starts so
	// the OSC 11 reply cannot race the input loop.
	//
	// See: https://github.com/charmbracelet/bubbletea/issues/1036
	_ = lipgloss.HasDarkBackground()
}

var version = "dev"

// env holds what every subcommand needs once the config is loaded.
type env struct {
	cfgFile string
	debug   bool

	// configPath is the file the config was read from, or where a default
	// one was written.
	configPath string
	cfg        config.Config
	flags      *flags.Registry
	theme      *theme.Table
	provider   *tracing.Provider
	cleanup    func()
}

// NewRootCmd builds the hilite command tree.
func NewRootCmd() *cobra.Command {
	e := &env{}

	root := &cobra.Command{
		Use:   "hilite",
		Short: "Syntax and debugger output highlighting for the terminal",
		Long: `hilite classifies source files and debugger output into highlight groups,
paints them with a colour theme and lets you search them incrementally.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: func(*cobra.Command, []string) error { return e.setup() },
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return e.teardown(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&e.cfgFile, "config", "c", "",
		"config file (default: ~/.config/hilite/config.yaml)")
	root.PersistentFlags().BoolVarP(&e.debug, "debug", "d", false,
		"write debug logs to $HILITE_LOG (default: debug.log, \"-\" for stderr)")

	root.AddCommand(
		newCatCmd(e),
		newScanCmd(e),
		newDecodeCmd(e),
		newSearchCmd(e),
		newViewCmd(e),
		newThemesCmd(e),
	)
	return root
}

func (e *env) setup() error {
	if e.debug || os.Getenv("HILITE_DEBUG") != "" {
		logPath := os.Getenv("HILITE_LOG")
		if logPath == "" {
			logPath = "debug.log"
		}
		if logPath == "-" {
			log.InitWriter(os.Stderr)
		} else {
			cleanup, err := log.InitWithTeaLog(logPath, "hilite")
			if err != nil {
				return fmt.Errorf("initializing logging: %w", err)
			}
			e.cleanup = cleanup
		}
		if lvl := os.Getenv("HILITE_LOG_LEVEL"); lvl != "" {
			level, err := log.ParseLevel(lvl)
			if err != nil {
				return fmt.Errorf("HILITE_LOG_LEVEL: %w", err)
			}
			log.SetMinLevel(level)
		}
		log.Info(log.CatConfig, "hilite starting", "version", version, "logPath", logPath)
	}

	v := viper.New()
	if err := e.readConfig(v); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	e.cfg = cfg
	e.flags = flags.New(cfg.Flags)

	e.theme, err = cfg.Theme.Table()
	if err != nil {
		return fmt.Errorf("building theme: %w", err)
	}

	e.provider, err = tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return fmt.Errorf("starting tracing: %w", err)
	}
	log.Debug(log.CatConfig, "config loaded", "path", e.configPath, "flags", e.flags.Names(),
		"tracing", e.provider.Enabled())
	return nil
}

// readConfig reads --config, or ~/.config/hilite/config.yaml, writing a
// commented default there on first run.
func (e *env) readConfig(v *viper.Viper) error {
	if e.cfgFile != "" {
		v.SetConfigFile(e.cfgFile)
		e.configPath = e.cfgFile
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", e.cfgFile, err)
		}
		return nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		// No home directory: run on defaults.
		return nil
	}
	dir := filepath.Join(home, ".config", "hilite")
	e.configPath = filepath.Join(dir, "config.yaml")
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &notFound):
		// A config that cannot be written is not fatal.
		if writeErr := config.WriteDefaultConfig(e.configPath); writeErr == nil {
			v.SetConfigFile(e.configPath)
			_ = v.ReadInConfig()
		}
		return nil
	default:
		return fmt.Errorf("reading config: %w", err)
	}
}

func (e *env) teardown(ctx context.Context) error {
	var err error
	if e.provider != nil {
		err = e.provider.Shutdown(ctx)
	}
	if e.cleanup != nil {
		e.cleanup()
	}
	return err
}

// highlighter builds a source highlighter from the config. The watcher is
// attached only when asked for and enabled by config and flag.
func (e *env) highlighter(watch bool) (*source.Highlighter, error) {
	opts := []source.Option{
		source.WithLanguageOverrides(e.cfg.Source.LanguageOverrides),
		source.WithTabStop(e.cfg.TabStop),
		source.WithCacheTTL(e.cfg.Source.CacheTTL),
		source.WithHighlighting(e.cfg.Highlight),
	}
	if watch && e.cfg.Source.Watch && e.flags.Enabled(flags.FlagWatchSources) {
		w, err := watcher.New(watcher.DefaultConfig())
		if err != nil {
			return nil, fmt.Errorf("creating watcher: %w", err)
		}
		opts = append(opts, source.WithWatcher(w))
	}
	return source.New(opts...), nil
}

// classifier returns the output classifier, or nil when highlighting is off.
func (e *env) classifier() (*output.Classifier, error) {
	if !e.cfg.Highlight {
		return nil, nil
	}
	return output.Compile(e.cfg.Output)
}

func (e *env) renderer() *render.Renderer {
	return render.New(e.theme, render.WithTabStop(e.cfg.TabStop))
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// SetVersion sets the version string (called from main with ldflags).
func SetVersion(v string) {
	version = v
}
