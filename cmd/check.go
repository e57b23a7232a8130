package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/structgen-go/internal/pipeline"
)

// NewCheckCmd creates the check subcommand, which reports which relative
// paths already exist below the root.
func NewCheckCmd(io CommandIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check [path...]",
		Short:        "Report which paths already exist below the root, ignoring case",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := targetRoot(cmd)
			if root == "" {
				return fmt.Errorf("no root directory: pass --root")
			}
			found := newService(cmd, io).CheckPaths(pipeline.ProbeRequest{RootDir: root, Paths: append([]string{}, args...)})
			if err := json.NewEncoder(cmd.OutOrStdout()).Encode(found); err != nil {
				return fmt.Errorf("encoding output: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().String("root", "", "root directory the paths are relative to (default: saved settings)")

	return cmd
}
