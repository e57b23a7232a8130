// Package cmd implements the sgen CLI commands.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/eykd/structgen-go/internal/logging"
	"github.com/eykd/structgen-go/internal/pipeline"
)

// NewRootCmd creates the root sgen command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmdWithIO(newDefaultCommandIO())
}

func newRootCmdWithIO(io CommandIO) *cobra.Command {
	root := &cobra.Command{
		Use:           "sgen",
		Short:         "sgen - create empty directory and file trees from a text outline",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE:          rootRunE,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return setupRun(cmd, io)
		},
	}
	pf := root.PersistentFlags()
	pf.String("config", "", "config file (json, yaml or toml)")
	pf.String("settings-dir", "", "directory holding saved settings (default: user config dir)")
	pf.String("log-dir", "", "write a rotating debug log into this directory")
	pf.String("log-level", "warn", "console log level: debug, info, warn, error")

	root.AddCommand(NewParseCmd(io))
	root.AddCommand(NewValidateCmd(io))
	root.AddCommand(NewGenerateCmd(io))
	root.AddCommand(NewCheckCmd(io))
	root.AddCommand(NewPreviewCmd(io))
	root.AddCommand(NewSettingsCmd(io))
	root.AddCommand(NewWatchCmd(newDefaultWatchIO(io)))
	return root
}

func rootRunE(cmd *cobra.Command, _ []string) error {
	return cmd.Help()
}

// setupRun resolves the layered configuration and stores it, together with
// the logger built from it, in the command context.
func setupRun(cmd *cobra.Command, io CommandIO) error {
	cfg, err := loadConfig(viper.New(), cmd.Flags())
	if err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logging.New(logging.Options{Level: level, Console: cmd.ErrOrStderr(), Dir: cfg.LogDir})
	cfg = fillRootFromSettings(cfg, io.FS(), log)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithLogger(ctx, logging.Sub(log, cmd.Name()))
	cmd.SetContext(withConfig(ctx, cfg))
	return nil
}

// addTargetFlags registers the flags of commands that act on a root dir.
func addTargetFlags(cmd *cobra.Command) {
	cmd.Flags().String("root", "", "target root directory (default: saved settings)")
	cmd.Flags().Int("max-path", 0, "maximum full path length in UTF-16 units (default 260)")
}

// targetRoot returns the --root flag, falling back to the configured root.
func targetRoot(cmd *cobra.Command) string {
	if root, _ := cmd.Flags().GetString("root"); root != "" {
		return root
	}
	return configFrom(cmd.Context()).Root
}

// newService builds a pipeline.Service for cmd from its flags and context.
func newService(cmd *cobra.Command, io CommandIO, extra ...pipeline.Option) *pipeline.Service {
	opts := []pipeline.Option{pipeline.WithLogger(logging.FromContext(cmd.Context()))}
	maxPath, _ := cmd.Flags().GetInt("max-path")
	if maxPath <= 0 {
		maxPath = configFrom(cmd.Context()).MaxPath
	}
	if maxPath > 0 {
		opts = append(opts, pipeline.WithMaxFullPathLength(maxPath))
	}
	return pipeline.New(io.FS(), append(opts, extra...)...)
}

// readInput reads the structure text named by the optional argument.
func readInput(io InputReader, args []string) (string, error) {
	raw, err := io.ReadInput(inputArg(args))
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return raw, nil
}
