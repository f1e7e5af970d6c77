package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/decker502/assetcache/internal/inspect"
	"github.com/spf13/cobra"
)

func (c *CLI) newCheckCmd() *cobra.Command {
	var jobs int
	cmd := &cobra.Command{
		Use:   "check <manifest>",
		Short: "Verify that every declared file exists and decodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			format, err := c.manifestFormat(args[0])
			if err != nil {
				return err
			}
			report, err := inspect.CheckAs(cmd.Context(), args[0], format, cfg, jobs)
			if err != nil {
				return err
			}
			renderReport(cmd.OutOrStdout(), report)
			if n := report.Problems(); n > 0 {
				return fmt.Errorf("%d problem(s) in %s", n, report.Manifest)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "files checked in parallel (0 = GOMAXPROCS)")
	return cmd
}

func renderReport(w io.Writer, r *inspect.Report) {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s (%s)", r.Manifest, r.Format)))
	b.WriteString("\n")

	for _, e := range r.Entries {
		var status string
		detail := e.Detail
		switch e.Status {
		case inspect.StatusOK:
			status = okStyle.Width(8).Render(e.Status.String())
		case inspect.StatusMissing:
			status = missingStyle.Width(8).Render(e.Status.String())
			detail = e.Path + ": " + detail
		default:
			status = invalidStyle.Width(8).Render(e.Status.String())
			detail = e.Path + ": " + detail
		}
		b.WriteString(kindStyle.Render(e.Kind))
		b.WriteString(keyStyle.Render(e.Key))
		b.WriteString(status)
		b.WriteString(detailStyle.Render(detail))
		b.WriteString("\n")
	}

	summary := fmt.Sprintf("%d entries, %d problem(s)", len(r.Entries), r.Problems())
	if r.Problems() == 0 {
		summary = okStyle.Render(summary)
	} else {
		summary = invalidStyle.Render(summary)
	}
	b.WriteString(summary)
	b.WriteString("\n")

	_, _ = io.WriteString(w, b.String())
}
