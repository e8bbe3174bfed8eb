package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/framefold/remap/pkg/errors"
	"github.com/framefold/remap/pkg/flow"
	"github.com/framefold/remap/pkg/project"
)

// newGraphCmd creates the "graph" command: export a project's editor graph
// as a DOT or SVG diagram. The output format follows the file extension.
func newGraphCmd() *cobra.Command {
	var (
		output   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "graph <project.json>",
		Short: "Export the editor graph as DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Load(args[0])
			if err != nil {
				return err
			}

			dot := flow.ToDOT(proj.Graph, flow.DOTOptions{Detailed: detailed})

			if output == "" {
				fmt.Print(dot)
				return nil
			}

			var data []byte
			switch strings.ToLower(filepath.Ext(output)) {
			case ".dot", ".gv":
				data = []byte(dot)
			case ".svg":
				if data, err = flow.RenderSVG(dot); err != nil {
					return err
				}
			default:
				return errors.New(errors.ErrCodeUnsupported, "unsupported output format %q (use .dot, .gv or .svg)", filepath.Ext(output))
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Exported graph (%d nodes, %d edges)", proj.Graph.NodeCount(), proj.Graph.EdgeCount())
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (.dot, .gv or .svg); stdout when omitted")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label edges with handle names")
	return cmd
}
