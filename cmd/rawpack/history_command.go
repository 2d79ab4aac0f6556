package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"rawpack/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently packaged files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.Ledger.Enabled {
				fmt.Fprintln(out, warnLine("Ledger is disabled; enable [ledger] to record history", shouldColorize(out)))
				return nil
			}

			store, err := ledger.Open(cfg.LedgerPath())
			if err != nil {
				return fmt.Errorf("open ledger: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No packaged files recorded yet")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					shortRunID(e.RunID),
					e.TargetPath,
					humanize.IBytes(uint64(e.SourceSize)),
					fmt.Sprintf("%08x", e.CRC32),
				})
			}
			fmt.Fprintln(out, renderTable(tableSpec{
				headers: []string{"Packaged", "Run", "Output", "Original", "CRC-32"},
				rows:    rows,
				aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			}))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of entries to show (0 for all)")
	return cmd
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
