package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/framefold/remap/pkg/config"
	"github.com/framefold/remap/pkg/engine"
	"github.com/framefold/remap/pkg/pipeline"
	"github.com/framefold/remap/pkg/project"
)

// newEvaluateCmd creates the "evaluate" command: load a project, run an
// evaluation pass over every remap node, and interactively resolve gate
// confirmations unless --no-input is set.
func newEvaluateCmd(configPath *string) *cobra.Command {
	var (
		nodeID  string
		noInput bool
		yes     bool
	)

	cmd := &cobra.Command{
		Use:   "evaluate <project.json>",
		Short: "Run an evaluation pass over a project's remap nodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			proj, err := project.Load(args[0])
			if err != nil {
				return err
			}

			runner, cleanup, err := buildRunner(ctx, cfg, proj, logger)
			if err != nil {
				return err
			}
			defer cleanup()

			results, err := evaluate(cmd, runner, nodeID)
			if err != nil {
				return err
			}

			// Resolve gate confirmations, then re-evaluate so the output
			// reflects the approved payloads.
			if hasAwaiting(results) && !noInput {
				confirmed, err := resolveConfirmations(runner, results, yes)
				if err != nil {
					return err
				}
				if confirmed > 0 {
					// Let in-flight previews land before the final pass.
					runner.Dispatcher.Wait()
					if results, err = evaluate(cmd, runner, nodeID); err != nil {
						return err
					}
				}
			}

			printResults(results)
			printKeyValue("Credits", fmt.Sprintf("%d remaining", runner.Credits.Balance()))
			return nil
		},
	}

	cmd.Flags().StringVar(&nodeID, "node", "", "evaluate a single remap node")
	cmd.Flags().BoolVar(&noInput, "no-input", false, "never prompt; leave gated instances awaiting")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "approve all gated instances without prompting")
	return cmd
}

func evaluate(cmd *cobra.Command, runner *pipeline.Runner, nodeID string) ([]*pipeline.Result, error) {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	sp := newSpinnerWithContext(ctx, "Evaluating...")
	sp.Start()

	var results []*pipeline.Result
	var err error
	if nodeID != "" {
		var res *pipeline.Result
		if res, err = runner.EvaluateNode(ctx, nodeID); err == nil {
			results = []*pipeline.Result{res}
		}
	} else {
		results, err = runner.EvaluateAll(ctx)
	}
	sp.Stop()
	if err != nil {
		return nil, err
	}

	published := 0
	for _, r := range results {
		published += r.Stats.Published
	}
	prog.done(fmt.Sprintf("Evaluated %d node(s), published %d payload(s)", len(results), published))
	return results, nil
}

func hasAwaiting(results []*pipeline.Result) bool {
	for _, r := range results {
		if r.Stats.Awaiting > 0 {
			return true
		}
	}
	return false
}

// resolveConfirmations prompts for each gated instance (or approves all with
// --yes) and records the approvals. Returns how many were approved.
func resolveConfirmations(runner *pipeline.Runner, results []*pipeline.Result, yes bool) (int, error) {
	var items []confirmItem
	for _, r := range results {
		for _, ir := range r.Instances {
			if !ir.Skipped && ir.Err == nil && ir.Payload.Status == engine.StatusAwaitingConfirmation {
				prompt := ir.Payload.Prompt
				if prompt == "" {
					prompt = fmt.Sprintf("stretch %.2fx exceeds threshold", ir.Payload.Scale)
				}
				items = append(items, confirmItem{
					NodeID: r.NodeID,
					Index:  ir.Index,
					Source: ir.Payload.SourceName,
					Target: ir.Payload.TargetName,
					Reason: prompt,
				})
			}
		}
	}
	if len(items) == 0 {
		return 0, nil
	}

	var approved []confirmItem
	if yes {
		approved = items
	} else {
		var err error
		if approved, err = runConfirmPrompt(items); err != nil {
			return 0, err
		}
	}

	for _, item := range approved {
		if err := runner.Confirm(item.NodeID, item.Index); err != nil {
			printWarning("Could not confirm %s/%d: %v", item.NodeID, item.Index, err)
			continue
		}
		printSuccess("Approved generation for %s (instance %d)", item.NodeID, item.Index)
	}
	return len(approved), nil
}

// printResults renders one table per evaluated node.
func printResults(results []*pipeline.Result) {
	for _, r := range results {
		printNewline()
		fmt.Println(StyleTitle.Render(fmt.Sprintf("Node %s", r.NodeID)))

		tbl := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(StyleDim).
			Headers("#", "SOURCE", "TARGET", "SCALE", "STATUS", "PREVIEW")

		for _, ir := range r.Instances {
			if ir.Skipped {
				tbl.Row(fmt.Sprintf("%d", ir.Index), "-", "-", "-", StyleDim.Render("not ready"), "-")
				continue
			}
			if ir.Err != nil {
				tbl.Row(fmt.Sprintf("%d", ir.Index), "-", "-", "-", styleIconError.Render("invalid"), "-")
				continue
			}
			p := ir.Payload
			preview := "-"
			if p.PreviewURL != "" {
				preview = "ghost"
			}
			tbl.Row(
				fmt.Sprintf("%d", ir.Index),
				p.SourceName,
				p.TargetName,
				fmt.Sprintf("%.2fx", p.Scale),
				renderStatus(p),
				preview,
			)
		}
		fmt.Println(tbl.Render())
	}
}

func renderStatus(p engine.Payload) string {
	switch p.Status {
	case engine.StatusAwaitingConfirmation:
		return StyleWarning.Render("awaiting confirmation")
	case engine.StatusError:
		return styleIconError.Render("error")
	default:
		if p.RequiresGeneration {
			return StyleSuccess.Render("success + generative fill")
		}
		return StyleSuccess.Render("success")
	}
}
