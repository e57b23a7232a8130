package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/structgen-go/internal/structure"
)

// outputVersion is the schema version of every JSON document sgen prints.
const outputVersion = "1"

// parseOutput is the JSON output schema for the parse command.
type parseOutput struct {
	Version string            `json:"version"`
	Entries []structure.Entry `json:"entries"`
}

// NewParseCmd creates the parse subcommand.
func NewParseCmd(reader InputReader) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "parse [file|-]",
		Short:        "Parse structure text and output the entries as JSON",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(reader, args)
			if err != nil {
				return err
			}
			out := parseOutput{Version: outputVersion, Entries: structure.Parse(raw)}
			if err := json.NewEncoder(cmd.OutOrStdout()).Encode(out); err != nil {
				return fmt.Errorf("encoding output: %w", err)
			}
			return nil
		},
	}
	return cmd
}
