package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spherecast/spherecast/internal/stream"
)

func newResolveCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "resolve <url>",
		Short: "List the playable streams of a page or media URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newResolveService(a.cfg.Resolve).Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(resp)
			}
			return printStreams(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the /api/resolve response body")
	return cmd
}

func printStreams(w io.Writer, resp *stream.Response) error {
	fmt.Fprintf(w, "%s\n\n", resp.Title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range resp.Streams.Streams() {
		marker := " "
		if s.Quality == resp.DefaultQuality {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", marker, s.Quality, s.URL)
	}
	return tw.Flush()
}
