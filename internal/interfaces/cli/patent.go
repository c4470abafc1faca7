package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newPatentCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "patent <patent-number>",
		Short: "Show one patent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			p, err := c.Patents().Get(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.OutputFormat == "json" {
				return printJSON(out, p)
			}

			header(out, "%s - %s", p.PatentNumber, p.Title)
			fmt.Fprintf(out, "  assignee:   %s\n", p.AssigneeOrganization)
			fmt.Fprintf(out, "  country:    %s  status: %s\n", p.Country, p.Status)
			if p.FilingDate != nil {
				fmt.Fprintf(out, "  filed:      %s\n", p.FilingDate.Format("2006-01-02"))
			}
			if p.GrantDate != nil {
				fmt.Fprintf(out, "  granted:    %s\n", p.GrantDate.Format("2006-01-02"))
			}
			if p.ExpirationDate != nil {
				fmt.Fprintf(out, "  expires:    %s\n", p.ExpirationDate.Format("2006-01-02"))
			}
			if len(p.CPCCodes) > 0 {
				fmt.Fprintf(out, "  cpc:        %s\n", strings.Join(p.CPCCodes, ", "))
			}
			if len(p.Inventors) > 0 {
				fmt.Fprintf(out, "  inventors:  %s\n", strings.Join(p.Inventors, ", "))
			}
			fmt.Fprintf(out, "  citations:  %d made, %d received\n", p.CitationCount, p.CitedByCount)
			if p.Abstract != "" {
				fmt.Fprintf(out, "\n%s\n", truncate(p.Abstract, 400))
			}
			return nil
		},
	}
}

func newStatsCmd(opts *RootOptions) *cobra.Command {
	var expiringDays int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Corpus overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			dash, err := c.Patents().Dashboard(ctx, expiringDays)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.OutputFormat == "json" {
				return printJSON(out, dash)
			}

			header(out, "corpus overview")
			fmt.Fprintf(out, "  patents:          %d\n", dash.TotalPatents)
			fmt.Fprintf(out, "  with embeddings:  %d\n", dash.EmbeddedPatents)
			fmt.Fprintf(out, "  expiring in %dd:  %d\n", dash.ExpiringDays, len(dash.ExpiringSoon))
			for _, p := range dash.ExpiringSoon {
				when := ""
				if p.ExpirationDate != nil {
					when = p.ExpirationDate.Format("2006-01-02")
				}
				fmt.Fprintf(out, "    %-18s %s  %s\n", p.PatentNumber, when, truncate(p.Title, 44))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&expiringDays, "expiring-days", 90, "expiration horizon in days")
	return cmd
}
