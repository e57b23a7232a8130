package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/eykd/structgen-go/internal/pipeline"
	"github.com/eykd/structgen-go/internal/validate"
)

// validateOutput is the JSON/YAML output schema for the validate command.
type validateOutput struct {
	Version    string                     `json:"version" yaml:"version"`
	IsValid    bool                       `json:"isValid" yaml:"isValid"`
	ErrorLines []int                      `json:"errorLines" yaml:"errorLines"`
	Errors     []validate.ValidationError `json:"errors" yaml:"errors"`
	Messages   []string                   `json:"messages" yaml:"messages"`
}

func newValidateOutput(res validate.Result) validateOutput {
	msgs := make([]string, len(res.Errors))
	for i, e := range res.Errors {
		msgs[i] = e.Message()
	}
	return validateOutput{
		Version:    outputVersion,
		IsValid:    res.IsValid,
		ErrorLines: res.ErrorLines(),
		Errors:     res.Errors,
		Messages:   msgs,
	}
}

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd(io CommandIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "validate [file|-]",
		Short:        "Check structure text against Windows naming and path rules",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			if format != "text" && format != "json" && format != "yaml" {
				return fmt.Errorf("unknown format %q: want text, json or yaml", format)
			}
			raw, err := readInput(io, args)
			if err != nil {
				return err
			}

			res := newService(cmd, io).Validate(pipeline.ValidateRequest{Input: raw, RootDir: targetRoot(cmd)})

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				if err := json.NewEncoder(out).Encode(newValidateOutput(res)); err != nil {
					return fmt.Errorf("encoding output: %w", err)
				}
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(newValidateOutput(res)); err != nil {
					return fmt.Errorf("encoding output: %w", err)
				}
				if err := enc.Close(); err != nil {
					return fmt.Errorf("encoding output: %w", err)
				}
			default:
				if res.IsValid {
					fmt.Fprintf(out, "ok: %d entries\n", len(res.Parsed))
					return nil
				}
				return validationFailure(out, res)
			}

			if !res.IsValid {
				return fmt.Errorf("structure has %s", summarizeErrors(res))
			}
			return nil
		},
	}

	addTargetFlags(cmd)
	cmd.Flags().String("format", "text", "output format: text, json or yaml")

	return cmd
}
