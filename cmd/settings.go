package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/structgen-go/internal/logging"
	"github.com/eykd/structgen-go/internal/settings"
)

// NewSettingsCmd creates the settings subcommand with get and set children.
func NewSettingsCmd(io CommandIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "settings",
		Short:        "Show or change saved preferences",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newSettingsGetCmd(io))
	cmd.AddCommand(newSettingsSetCmd(io))
	return cmd
}

func newSettingsGetCmd(io CommandIO) *cobra.Command {
	return &cobra.Command{
		Use:          "get",
		Short:        "Print the saved settings as JSON",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := settingsDir(cmd)
			if err != nil {
				return err
			}
			st, err := newSettingsStore(cmd, io).Load(dir)
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			return writeSettings(cmd.OutOrStdout(), st)
		},
	}
}

func newSettingsSetCmd(io CommandIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "set",
		Short:        "Save the given settings, keeping the ones not passed",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := settingsDir(cmd)
			if err != nil {
				return err
			}
			patch := settingsPatch(cmd)
			if patch == (settings.Patch{}) {
				return fmt.Errorf("nothing to set: pass --root-dir, --language or --theme")
			}
			st, err := newSettingsStore(cmd, io).Merge(dir, patch)
			if err != nil {
				return fmt.Errorf("saving settings: %w", err)
			}
			return writeSettings(cmd.OutOrStdout(), st)
		},
	}
	cmd.Flags().String("root-dir", "", "default root directory")
	cmd.Flags().String("language", "", "interface language code")
	cmd.Flags().String("theme", "", "light or dark")
	return cmd
}

// settingsPatch builds a Patch from the flags that were actually passed.
func settingsPatch(cmd *cobra.Command) settings.Patch {
	var p settings.Patch
	flags := cmd.Flags()
	if flags.Changed("root-dir") {
		v, _ := flags.GetString("root-dir")
		p.RootDir = &v
	}
	if flags.Changed("language") {
		v, _ := flags.GetString("language")
		v = strings.ToLower(strings.TrimSpace(v))
		p.Language = &v
	}
	if flags.Changed("theme") {
		v, _ := flags.GetString("theme")
		v = normalizeTheme(v)
		p.Theme = &v
	}
	return p
}

// normalizeTheme maps anything but "dark" to "light".
func normalizeTheme(theme string) string {
	if strings.EqualFold(strings.TrimSpace(theme), "dark") {
		return "dark"
	}
	return "light"
}

func settingsDir(cmd *cobra.Command) (string, error) {
	dir := configFrom(cmd.Context()).SettingsDir
	if dir == "" {
		dir = defaultSettingsDir()
	}
	if dir == "" {
		return "", fmt.Errorf("no settings directory: pass --settings-dir")
	}
	return dir, nil
}

func newSettingsStore(cmd *cobra.Command, io CommandIO) *settings.Store {
	return settings.NewStore(io.FS(), logging.Sub(logging.FromContext(cmd.Context()), "settings"))
}

func writeSettings(w io.Writer, st settings.Settings) error {
	if err := json.NewEncoder(w).Encode(st); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}
