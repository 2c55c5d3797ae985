package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rushteam/reckit-movies/explore"
)

var exploreReports = []string{"genres", "most-rated", "genre-ratings", "top-movies"}

func newExploreCmd(a *app) *cobra.Command {
	var (
		n        int
		minCount int
	)
	cmd := &cobra.Command{
		Use:   "explore <report>",
		Short: "Explore the ratings dataset",
		Long: `Print dataset statistics. Reports:

  genres         number of movies per genre
  most-rated     genres with the most ratings (n defaults to 5)
  genre-ratings  highest and lowest rated genres (n defaults to 3)
  top-movies     best rated movies with at least --min-count ratings (n in [5, 50])

Examples:
  movierec explore genres
  movierec explore top-movies -n 20 --min-count 200`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: exploreReports,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, kv, err := a.loadService(cmd.Context())
			if err != nil {
				return err
			}
			defer kv.Close()
			e := explore.New(svc.Catalog())

			var data any
			switch args[0] {
			case "genres":
				data = e.GenreDistribution()
			case "most-rated":
				data = e.MostRatedGenres(n)
			case "genre-ratings":
				data = map[string][]explore.GenreRating{
					"highest": e.HighestRatedGenres(n),
					"lowest":  e.LowestRatedGenres(n),
				}
			case "top-movies":
				data = e.TopRatedMovies(n, minCount)
			default:
				return fmt.Errorf("unknown report %q (want one of %v)", args[0], exploreReports)
			}

			if a.format == "json" {
				return writeJSON(cmd.OutOrStdout(), data)
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			switch v := data.(type) {
			case []explore.GenreCount:
				fmt.Fprintf(tw, "GENRE\tCOUNT\n")
				for _, g := range v {
					fmt.Fprintf(tw, "%s\t%d\n", g.Genre, g.Count)
				}
			case map[string][]explore.GenreRating:
				fmt.Fprintf(tw, "\tGENRE\tRATING\n")
				for _, key := range []string{"highest", "lowest"} {
					for _, g := range v[key] {
						fmt.Fprintf(tw, "%s\t%s\t%s\n", key, g.Genre, strconv.FormatFloat(g.Mean, 'f', 2, 64))
					}
				}
			case []explore.MovieRating:
				fmt.Fprintf(tw, "#\tTITLE\tRATING\tVOTES\n")
				for i, m := range v {
					fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", i+1, m.Title, strconv.FormatFloat(m.Mean, 'f', 2, 64), m.Count)
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&n, "n", "n", 0, "Number of rows (report specific default)")
	cmd.Flags().IntVar(&minCount, "min-count", 0, "Minimum ratings for top-movies (default 100)")
	return cmd
}
