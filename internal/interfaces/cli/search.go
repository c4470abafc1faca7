package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dmhernandez2525/patent-intelligence/pkg/client"
)

func newSearchCmd(opts *RootOptions) *cobra.Command {
	var (
		mode           string
		country        string
		status         string
		assignee       string
		cpcCodes       []string
		dateFrom       string
		dateTo         string
		semanticWeight float64
		page           int
		perPage        int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search patents (fulltext, semantic or hybrid)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			req := client.SearchRequest{
				Query:      args[0],
				SearchType: mode,
				Page:       page,
				PerPage:    perPage,
				Filters: client.SearchFilter{
					Country:  country,
					Status:   status,
					Assignee: assignee,
					CPCCodes: cpcCodes,
				},
			}
			if cmd.Flags().Changed("semantic-weight") {
				req.SemanticWeight = &semanticWeight
			}
			if req.Filters.DateFrom, err = parseDateFlag(dateFrom); err != nil {
				return err
			}
			if req.Filters.DateTo, err = parseDateFlag(dateTo); err != nil {
				return err
			}

			resp, err := c.Search().Search(ctx, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.OutputFormat == "json" {
				return printJSON(out, resp)
			}

			header(out, "%d results for %q (%s, page %d/%d)",
				resp.Total, resp.Query, resp.SearchType, resp.Page, resp.TotalPages)
			if resp.ZeroCoverage {
				fmt.Fprintln(out, "note: no embedded patents matched; ranking degraded to full-text")
			}

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Patent", "Title", "Assignee", "Country", "Score"})
			table.SetBorder(false)
			for _, r := range resp.Results {
				table.Append([]string{
					r.Patent.PatentNumber,
					truncate(r.Patent.Title, 48),
					truncate(r.Patent.AssigneeOrganization, 28),
					r.Patent.Country,
					strconv.FormatFloat(r.Score, 'f', 4, 64),
				})
			}
			table.Render()
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVarP(&mode, "mode", "m", "hybrid", "search mode: fulltext, semantic, hybrid")
	f.StringVar(&country, "country", "", "country filter (exact, e.g. US)")
	f.StringVar(&status, "status", "", "status filter: active, expired, lapsed")
	f.StringVar(&assignee, "assignee", "", "assignee substring filter")
	f.StringSliceVar(&cpcCodes, "cpc", nil, "CPC prefix filter (repeatable)")
	f.StringVar(&dateFrom, "date-from", "", "filing date lower bound (YYYY-MM-DD)")
	f.StringVar(&dateTo, "date-to", "", "filing date upper bound (YYYY-MM-DD)")
	f.Float64Var(&semanticWeight, "semantic-weight", 0.6, "semantic weight in hybrid mode [0,1]")
	f.IntVar(&page, "page", 1, "result page (1-indexed)")
	f.IntVar(&perPage, "per-page", 20, "results per page (1-100)")

	return cmd
}

func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return &t, nil
}
