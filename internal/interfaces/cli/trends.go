package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/dmhernandez2525/patent-intelligence/pkg/client"
)

func newTrendsCmd(opts *RootOptions) *cobra.Command {
	var (
		cpcPrefix string
		country   string
		years     int
		topN      int
		export    bool
	)

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Technology trend report over the filtered corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			params := client.TrendParams{
				CPCPrefix: cpcPrefix,
				Country:   country,
				Years:     years,
				TopN:      topN,
			}
			out := cmd.OutOrStdout()

			if export {
				link, err := c.Trends().Export(ctx, params)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, link)
				return nil
			}

			report, err := c.Trends().Report(ctx, params)
			if err != nil {
				return err
			}
			if opts.OutputFormat == "json" {
				return printJSON(out, report)
			}

			header(out, "trend report %s", report.Period)

			fmt.Fprintln(out, "\nYearly filings:")
			yearly := tablewriter.NewWriter(out)
			yearly.SetHeader([]string{"Year", "Filings"})
			yearly.SetBorder(false)
			for _, y := range report.YearlyTotals {
				yearly.Append([]string{strconv.Itoa(y.Year), strconv.FormatInt(y.Count, 10)})
			}
			yearly.Render()

			fmt.Fprintln(out, "\nTop CPC classes:")
			classes := tablewriter.NewWriter(out)
			classes.SetHeader([]string{"Class", "Patents"})
			classes.SetBorder(false)
			for _, cc := range report.TopCPCTrends {
				classes.Append([]string{cc.CPCClass, strconv.FormatInt(cc.Count, 10)})
			}
			classes.Render()

			fmt.Fprintln(out, "\nGrowth leaders:")
			growth := tablewriter.NewWriter(out)
			growth.SetHeader([]string{"Class", "Earlier", "Recent", "Growth"})
			growth.SetBorder(false)
			for _, g := range report.GrowthLeaders {
				growth.Append([]string{
					g.CPCClass,
					strconv.FormatInt(g.EarlierCount, 10),
					strconv.FormatInt(g.RecentCount, 10),
					fmt.Sprintf("%.1f%%", g.GrowthRate*100),
				})
			}
			growth.Render()

			fmt.Fprintln(out, "\nTop assignees:")
			assignees := tablewriter.NewWriter(out)
			assignees.SetHeader([]string{"Assignee", "Filings"})
			assignees.SetBorder(false)
			for _, a := range report.TopAssignees {
				assignees.Append([]string{truncate(a.Assignee, 40), strconv.FormatInt(a.Count, 10)})
			}
			assignees.Render()

			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&cpcPrefix, "cpc-prefix", "", "CPC prefix filter (e.g. H01L)")
	f.StringVar(&country, "country", "", "country filter")
	f.IntVar(&years, "years", 0, "window size in years (default server-side)")
	f.IntVar(&topN, "top-n", 0, "list size for ranked sections")
	f.BoolVar(&export, "export", false, "store the report and print a download link")

	return cmd
}
