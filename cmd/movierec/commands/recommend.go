package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/reckit-movies/service"
)

func newRecommendCmd(a *app) *cobra.Command {
	var (
		strategy string
		title    string
		k        int
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend movies similar to a title",
		Long: `Recommend up to k movies similar to the given title.

Unknown strategies or titles print nothing. Titles the selected model was not
trained on fall back to a random sample of the popular list.

Examples:
  movierec recommend --strategy knn --title "Toy Story (1995)"
  movierec recommend --strategy mf --title "Heat (1995)" --k 5 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if title == "" {
				return fmt.Errorf("--title is required")
			}
			if k <= 0 {
				k = a.cfg.Recommend.DefaultK
			}
			if maxK := a.cfg.Recommend.MaxK; k > maxK {
				return fmt.Errorf("--k must be in [1, %d] (recommend.max_k)", maxK)
			}
			svc, kv, err := a.loadService(cmd.Context())
			if err != nil {
				return err
			}
			defer kv.Close()

			resp, err := svc.Recommend(cmd.Context(), service.Request{Strategy: strategy, Title: title, K: k})
			if err != nil {
				return err
			}
			if a.format == "json" {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			if len(resp.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recommendations")
				return nil
			}
			if resp.Fallback {
				fmt.Fprintln(cmd.OutOrStdout(), "Movie not in the trained model, showing popular movies instead")
			}
			return writeItems(cmd.OutOrStdout(), resp.Items)
		},
	}
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "knn", "Strategy (knn, mf)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Exact movie title, e.g. \"Toy Story (1995)\"")
	cmd.Flags().IntVarP(&k, "k", "k", 0, "Number of recommendations (default recommend.default_k, at most recommend.max_k)")
	return cmd
}
