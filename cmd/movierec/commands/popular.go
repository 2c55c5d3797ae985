package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPopularCmd(a *app) *cobra.Command {
	var (
		limit   int
		publish bool
	)
	cmd := &cobra.Command{
		Use:   "popular",
		Short: "Show the popular movie list",
		Long: `Show the best rated movies among those with enough ratings
(recommend.min_count), ordered by mean rating.

With --publish the full list is also written to the store as a sorted set
(recommend.popular_key) for other services to read.

Examples:
  movierec popular --limit 20
  movierec popular --publish`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			svc, kv, err := a.loadService(ctx)
			if err != nil {
				return err
			}
			defer kv.Close()

			if publish {
				n, err := svc.PopularRanker().Publish(ctx, kv, a.cfg.Recommend.PopularKey)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Published %d movies to %s\n", n, kv.Name())
			}

			items, err := svc.Popular(ctx, limit)
			if err != nil {
				return err
			}
			if a.format == "json" {
				return writeJSON(cmd.OutOrStdout(), items)
			}
			return writeItems(cmd.OutOrStdout(), items)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of movies to show (0 for the whole list)")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish the list to the store")
	return cmd
}
