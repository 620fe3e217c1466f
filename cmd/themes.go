package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/hilite/internal/config"
	"github.com/zjrosen/hilite/internal/theme"
)

func newThemesCmd(e *env) *cobra.Command {
	var set string

	c := &cobra.Command{
		Use:   "themes",
		Short: "List theme presets",
		Long: `List the built-in theme presets, marking the one in use. With --set,
store a preset in the config file, keeping colour overrides and every other
setting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if set != "" {
				if _, ok := theme.Presets[set]; !ok {
					return fmt.Errorf("unknown theme preset %q", set)
				}
				if e.configPath == "" {
					return fmt.Errorf("no config file to save the theme to")
				}
				th := e.cfg.Theme
				th.Preset = set
				if err := config.SaveTheme(e.configPath, th); err != nil {
					return fmt.Errorf("saving theme: %w", err)
				}
				fmt.Fprintf(out, "theme set to %s in %s\n", set, e.configPath)
				return nil
			}

			current := e.theme.Name()
			for _, name := range theme.PresetNames() {
				marker := " "
				if name == current {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-18s %s\n", marker, name, theme.Presets[name].Description)
			}
			return nil
		},
	}
	c.Flags().StringVar(&set, "set", "", "save `PRESET` as the theme in the config file")
	return c
}
