package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/eykd/structgen-go/internal/pipeline"
	"github.com/eykd/structgen-go/internal/synth"
)

// NewGenerateCmd creates the generate subcommand.
func NewGenerateCmd(io CommandIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "generate [file|-]",
		Short:        "Create the missing directories and empty files below the root",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonMode, _ := cmd.Flags().GetBool("json")
			dperm, err := permFlag(cmd, "dperm")
			if err != nil {
				return err
			}
			fperm, err := permFlag(cmd, "fperm")
			if err != nil {
				return err
			}
			raw, err := readInput(io, args)
			if err != nil {
				return err
			}

			svc := newService(cmd, io, pipeline.WithPerms(dperm, fperm))
			resp := svc.Generate(pipeline.GenerateRequest{Input: raw, RootDir: targetRoot(cmd)})

			if jsonMode {
				if err := json.NewEncoder(cmd.OutOrStdout()).Encode(resp); err != nil {
					return fmt.Errorf("encoding output: %w", err)
				}
				if !resp.Success {
					return fmt.Errorf("generation failed (%s)", resp.ErrorCode)
				}
				return nil
			}
			return reportGenerate(cmd, resp)
		},
	}

	addTargetFlags(cmd)
	cmd.Flags().Bool("json", false, "output the response as JSON")
	cmd.Flags().String("dperm", fmt.Sprintf("%#o", synth.DefaultDirPerm), "mode of created directories")
	cmd.Flags().String("fperm", fmt.Sprintf("%#o", synth.DefaultFilePerm), "mode of created files")

	return cmd
}

func reportGenerate(cmd *cobra.Command, resp pipeline.GenerateResponse) error {
	out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()
	switch resp.ErrorCode {
	case "":
		fmt.Fprintln(out, resp.StatusLine())
		return nil
	case pipeline.ErrNoRoot:
		fmt.Fprintf(errOut, "error: no root directory selected (%s)\n", resp.ErrorCode)
		return fmt.Errorf("no root directory: pass --root or save one with 'sgen settings set --root-dir'")
	case pipeline.ErrValidation:
		return validationFailure(errOut, *resp.Validation)
	default:
		if resp.Counts != nil {
			fmt.Fprintln(out, resp.StatusLine())
		}
		fmt.Fprintf(errOut, "error: filesystem operation failed (%s)\n", resp.ErrorCode)
		return fmt.Errorf("generation failed (%s)", resp.ErrorCode)
	}
}

// permFlag parses an octal (0755), hex or decimal permission flag.
func permFlag(cmd *cobra.Command, name string) (os.FileMode, error) {
	s, _ := cmd.Flags().GetString(name)
	n, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid --%s %q: %w", name, s, err)
	}
	if n > 0o777 {
		return 0, fmt.Errorf("invalid --%s %q: only permission bits are allowed", name, s)
	}
	return os.FileMode(n), nil
}
