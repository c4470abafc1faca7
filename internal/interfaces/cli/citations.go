package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newCitationsCmd(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "citations",
		Short: "Citation network traversal and impact figures",
	}
	cmd.AddCommand(newCitationsGraphCmd(opts), newCitationsStatsCmd(opts))
	return cmd
}

func newCitationsGraphCmd(opts *RootOptions) *cobra.Command {
	var (
		depth    int
		maxNodes int
	)

	cmd := &cobra.Command{
		Use:   "graph <patent-number>",
		Short: "Walk the citation network around a patent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			network, err := c.Patents().Citations(ctx, args[0], depth, maxNodes)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.OutputFormat == "json" {
				return printJSON(out, network)
			}

			header(out, "citation network around %s: %d nodes, %d edges (depth %d)",
				network.Center, network.TotalNodes, network.TotalEdges, network.Depth)

			table := tablewriter.NewWriter(out)
			table.SetHeader([]string{"Depth", "Patent", "Title", "Country"})
			table.SetBorder(false)
			for _, n := range network.Nodes {
				table.Append([]string{
					strconv.Itoa(n.Depth),
					n.PatentNumber,
					truncate(n.Title, 52),
					n.Country,
				})
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 2, "traversal depth (1-5)")
	cmd.Flags().IntVar(&maxNodes, "max-nodes", 100, "node cap including the center")

	return cmd
}

func newCitationsStatsCmd(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <patent-number>",
		Short: "Citation counts and impact index for a patent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.newClient()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.Timeout)
			defer cancel()

			stats, err := c.Patents().CitationStats(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.OutputFormat == "json" {
				return printJSON(out, stats)
			}

			header(out, "citation impact for %s", stats.PatentNumber)
			fmt.Fprintf(out, "  forward citations:  %d\n", stats.ForwardCitations)
			fmt.Fprintf(out, "  backward citations: %d\n", stats.BackwardCitations)
			fmt.Fprintf(out, "  cohort average:     %.2f\n", stats.AvgFieldCitations)
			if stats.CitationIndex != nil {
				fmt.Fprintf(out, "  citation index:     %.2f\n", *stats.CitationIndex)
			} else {
				fmt.Fprintln(out, "  citation index:     n/a (cohort baseline is zero)")
			}
			return nil
		},
	}
}
