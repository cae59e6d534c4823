package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List resolved sites and their shard counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initPipeline()
		if err != nil {
			return err
		}
		defer e.Close()

		resolved, err := e.Pipeline.Sites(cmd.Context())
		if err != nil {
			return err
		}

		for _, rs := range resolved {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-40s %d shards\n", rs.ID, rs.Label, len(rs.ShardPaths))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}
