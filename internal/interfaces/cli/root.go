// Package cli implements the patentctl command tree over the API client.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dmhernandez2525/patent-intelligence/pkg/client"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds the global flags shared by every subcommand.
type RootOptions struct {
	ServerAddr   string
	OutputFormat string
	Timeout      time.Duration
	NoColor      bool
}

// newClient builds the SDK client from the global flags.
func (o *RootOptions) newClient() (*client.Client, error) {
	return client.NewClient(o.ServerAddr)
}

// NewRootCommand creates the patentctl root command with all subcommands.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "patentctl",
		Short: "patentctl - query the patent intelligence platform",
		Long: "patentctl talks to a patent-intelligence API server: hybrid patent\n" +
			"search, citation network traversal, prior-art discovery and technology\n" +
			"trend reports.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if opts.NoColor {
				color.NoColor = true
			}
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ServerAddr, "server", "http://localhost:8080", "API server address")
	pf.StringVarP(&opts.OutputFormat, "output", "o", "table", "output format (table, json)")
	pf.DurationVar(&opts.Timeout, "timeout", 30*time.Second, "request timeout")
	pf.BoolVar(&opts.NoColor, "no-color", false, "disable colored output")

	cmd.AddCommand(
		newSearchCmd(opts),
		newPatentCmd(opts),
		newSimilarCmd(opts),
		newCitationsCmd(opts),
		newPriorArtCmd(opts),
		newTrendsCmd(opts),
		newStatsCmd(opts),
	)

	return cmd
}

// Execute runs the root command. Errors are printed in red to stderr.
func Execute() {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// printJSON pretty-prints v to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	if max <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// header prints a bold section title.
func header(w io.Writer, format string, args ...any) {
	color.New(color.Bold).Fprintf(w, format+"\n", args...)
}
