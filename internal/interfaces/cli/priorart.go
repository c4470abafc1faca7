package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dmhernandez2525/patent-intelligence/pkg/client"
)

func newPriorArtCmd(opts *RootOptions) *cobra.Command {
	var (
		patentNumber string
		textQuery    string
		before       string
		topK         int
		minScore     float64
	)

	cmd := &cobra.Command{
		Use:   "prior-art",
		Short: "Discover prior art for a patent or a free-text idea",
		RunE: func(cmd *cobra.Command, args []string) error {
			if (patentNumber == "") == (textQuery == "") {
				return fmt.Errorf("exactly one of --patent and --text must be set")
			}

			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			req := client.PriorArtRequest{
				PatentNumber: patentNumber,
				TextQuery:    textQuery,
				TopK:         topK,
				MinScore:     minScore,
			}
			if req.FilingDateBefore, err = parseDateFlag(before); err != nil {
				return err
			}

			report, err := c.Search().PriorArt(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.OutputFormat == "json" {
				return printJSON(out, report)
			}

			header(out, "%d prior-art candidates (%d semantic, %d citation)",
				report.TotalFound, report.SemanticCount, report.CitationCount)

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Patent", "Title", "Filed", "Source", "Score"})
			table.SetBorder(false)
			for _, r := range report.PriorArt {
				filed := ""
				if r.Patent.FilingDate != nil {
					filed = r.Patent.FilingDate.Format("2006-01-02")
				}
				table.Append([]string{
					r.Patent.PatentNumber,
					truncate(r.Patent.Title, 44),
					filed,
					r.Source,
					strconv.FormatFloat(r.Score, 'f', 4, 64),
				})
			}
			table.Render()
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&patentNumber, "patent", "", "target patent number")
	f.StringVar(&textQuery, "text", "", "free-text idea description")
	f.StringVar(&before, "before", "", "only patents filed before this date (YYYY-MM-DD)")
	f.IntVar(&topK, "top-k", 20, "candidate cap")
	f.Float64Var(&minScore, "min-score", 0, "minimum similarity score")

	return cmd
}

func newSimilarCmd(opts *RootOptions) *cobra.Command {
	var (
		topK            int
		minScore        float64
		excludeAssignee bool
	)

	cmd := &cobra.Command{
		Use:   "similar <patent-number>",
		Short: "List the semantically closest patents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			resp, err := c.Search().Similar(ctx, args[0], client.SimilarParams{
				TopK:                topK,
				MinScore:            minScore,
				ExcludeSameAssignee: excludeAssignee,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.OutputFormat == "json" {
				return printJSON(out, resp)
			}

			header(out, "%d patents similar to %s", resp.Count, resp.PatentNumber)
			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Patent", "Title", "Assignee", "Score"})
			table.SetBorder(false)
			for _, r := range resp.Results {
				table.Append([]string{
					r.Patent.PatentNumber,
					truncate(r.Patent.Title, 48),
					truncate(r.Patent.AssigneeOrganization, 28),
					strconv.FormatFloat(r.Score, 'f', 4, 64),
				})
			}
			table.Render()
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&topK, "top-k", 10, "result cap")
	f.Float64Var(&minScore, "min-score", 0, "minimum similarity score")
	f.BoolVar(&excludeAssignee, "exclude-same-assignee", false, "drop patents held by the same assignee")
	return cmd
}
