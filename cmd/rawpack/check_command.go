package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"rawpack/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var outFolder string

	cmd := &cobra.Command{
		Use:   "check [folder]",
		Short: "Run preflight checks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			targets := preflight.Targets{OutputFolder: outFolder}
			if len(args) == 1 {
				targets.SourceFolder = args[0]
				if targets.OutputFolder == "" {
					targets.OutputFolder = args[0]
				}
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			results := preflight.RunAll(cfg, targets)
			rows := make([][]string, 0, len(results)+1)
			rows = append(rows, []string{"Thumbnail renderer", passFailLabel(true, colorize), cfg.Thumbnail.Renderer})
			rows = append(rows, []string{"Ledger", passFailLabel(true, colorize), yesNo(cfg.Ledger.Enabled)})
			for _, r := range results {
				label := passFailLabel(r.Passed, colorize)
				if !r.Passed && r.Advisory {
					label = warnLine("WARN", colorize)
				}
				rows = append(rows, []string{r.Name, label, r.Detail})
			}
			fmt.Fprintln(out, renderTable(tableSpec{
				headers: []string{"Check", "Status", "Detail"},
				rows:    rows,
			}))

			if failed := preflight.Blocking(results); len(failed) > 0 {
				return fmt.Errorf("%d preflight check(s) failed", len(failed))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outFolder, "out", "", "Output folder to check (defaults to the folder argument)")
	return cmd
}
