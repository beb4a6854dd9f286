package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newDescribeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <data.csv>",
		Short: "Print per-column summaries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.readSample(cmd, args[0])
			if err != nil {
				return err
			}
			sums, err := s.Describe()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "COLUMN\tMEAN\tSTD\tMIN\tQ25\tMEDIAN\tQ75\tMAX")
			for _, m := range sums {
				fmt.Fprintf(tw, "%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n",
					m.Name, m.Mean, m.StdDev, m.Min, m.Q25, m.Median, m.Q75, m.Max)
			}
			return tw.Flush()
		},
	}
}
