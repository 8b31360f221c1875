package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// prometheus: write a scrape config for the given relays and users.
func prometheusCmd() *cobra.Command {
	var (
		relays []int
		users  []int
		out    string
	)
	cmd := &cobra.Command{
		Use:   "prometheus",
		Short: "Write a Prometheus scrape config for the network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" {
				return printYAML(cmd.OutOrStdout(), cfg.PrometheusConfig(relays, users))
			}
			if err := cfg.WritePrometheusConfig(out, relays, users); err != nil {
				return err
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return err
		},
	}
	cmd.Flags().IntSliceVar(&relays, "relays", []int{1, 2, 3}, "relay ids to scrape")
	cmd.Flags().IntSliceVar(&users, "users", nil, "user ids to scrape")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
