package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"rawpack/internal/packfile"
)

func newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "verify <file>...",
		Short:       "Check packaged files without extracting them",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			rows := make([][]string, 0, len(args))
			bad := 0
			for _, path := range args {
				report, err := packfile.Verify(path)
				if err != nil {
					bad++
					rows = append(rows, []string{path, passFailLabel(false, colorize), "-", "-", "-", err.Error()})
					continue
				}
				if !report.OK() {
					bad++
				}
				rows = append(rows, verifyRow(report, colorize))
			}

			fmt.Fprintln(out, renderTable(tableSpec{
				headers: []string{"File", "Status", "Image", "Original", "Size", "Detail"},
				rows:    rows,
				aligns:  []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
			}))
			if bad > 0 {
				return fmt.Errorf("%d of %d file(s) failed verification", bad, len(args))
			}
			return nil
		},
	}
}

func verifyRow(report packfile.Report, colorize bool) []string {
	image := fmt.Sprintf("%s %dx%d", report.ImageFormat, report.ImageWidth, report.ImageHeight)
	names := make([]string, 0, len(report.Entries))
	var size uint64
	var details []string
	for _, e := range report.Entries {
		names = append(names, e.Name)
		size += e.Size
		if !e.Stored() {
			details = append(details, fmt.Sprintf("%s is compressed (method %d)", e.Name, e.Method))
		}
		if e.Err != nil {
			details = append(details, fmt.Sprintf("%s: %v", e.Name, e.Err))
		}
	}
	if len(details) == 0 {
		details = append(details, fmt.Sprintf("archive at byte %d", report.ImageBytes))
	}
	return []string{
		report.Path,
		passFailLabel(report.OK(), colorize),
		image,
		strings.Join(names, ", "),
		humanize.IBytes(size),
		strings.Join(details, "; "),
	}
}
