package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/structgen-go/internal/pipeline"
	"github.com/eykd/structgen-go/internal/structure"
)

// previewMarks flags tree items while rendering.
type previewMarks struct {
	exists   map[string]bool
	badDirs  map[string]bool
	badFiles map[string]bool
}

// NewPreviewCmd creates the preview subcommand.
func NewPreviewCmd(io CommandIO) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "preview [file|-]",
		Short:        "Print the structure as a tree, marking existing and invalid names",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(io, args)
			if err != nil {
				return err
			}
			root := targetRoot(cmd)
			svc := newService(cmd, io)
			res := svc.Validate(pipeline.ValidateRequest{Input: raw, RootDir: root})
			tree := structure.BuildTree(res.Parsed)

			m := previewMarks{exists: map[string]bool{}}
			m.badDirs, m.badFiles = res.InvalidSegments()
			if root != "" {
				m.exists = svc.CheckPaths(pipeline.ProbeRequest{RootDir: root, Paths: tree.Paths()})
			}

			out := cmd.OutOrStdout()
			label := root
			if label == "" {
				label = "."
			}
			fmt.Fprintln(out, sanitizeText(label))
			renderTree(out, tree, m, "", "")
			if !res.IsValid {
				fmt.Fprintln(out, summarizeErrors(res))
			}
			return nil
		},
	}

	addTargetFlags(cmd)

	return cmd
}

// renderTree writes the children and files of n, one per line, drawn with
// box characters under prefix. rel is n's slash-separated relative path.
func renderTree(w io.Writer, n *structure.TreeNode, m previewMarks, prefix, rel string) {
	total := len(n.Children) + len(n.Files)
	i := 0
	branch := func() (string, string) {
		i++
		if i == total {
			return prefix + "└── ", prefix + "    "
		}
		return prefix + "├── ", prefix + "│   "
	}

	for _, child := range n.Children {
		p := joinSlash(rel, child.Name)
		line, next := branch()
		fmt.Fprintf(w, "%s%s/%s\n", line, sanitizeText(child.Name), m.tags(p, m.badDirs[child.Name]))
		renderTree(w, child, m, next, p)
	}
	for _, f := range n.Files {
		p := joinSlash(rel, f)
		line, _ := branch()
		fmt.Fprintf(w, "%s%s%s\n", line, sanitizeText(f), m.tags(p, m.badFiles[f]))
	}
}

func (m previewMarks) tags(path string, invalid bool) string {
	var b strings.Builder
	if m.exists[path] {
		b.WriteString(" [exists]")
	}
	if invalid {
		b.WriteString(" [invalid]")
	}
	return b.String()
}

func joinSlash(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
