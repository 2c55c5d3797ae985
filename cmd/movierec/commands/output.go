package commands

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/rushteam/reckit-movies/catalog"
	"github.com/rushteam/reckit-movies/core"
)

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func writeItems(w io.Writer, items []*core.Item) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "#\tID\tTITLE\tGENRES\tRATING\tSTARS\tVOTES\n")
	for i, it := range items {
		rating, stars := "-", ""
		if it.AvgRating != nil {
			rating = strconv.FormatFloat(*it.AvgRating, 'f', 1, 64)
			stars = catalog.StarRating(*it.AvgRating)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%d\n",
			i+1, it.ID, truncate(it.Title, 50), truncate(strings.Join(it.Genres, "|"), 30), rating, stars, it.NumRatings)
	}
	return tw.Flush()
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}
