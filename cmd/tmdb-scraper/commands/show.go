package commands

import (
	"fmt"
	"io"
	"strings"
	"tmdb-scraper/cmd/tmdb-scraper/utils"
	"tmdb-scraper/internal/export"
	"tmdb-scraper/internal/scrapers/tmdb"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var showLimit int

func init() {
	showCmd.Flags().IntVar(&showLimit, "limit", 0, "Only show the first N rows, 0 shows everything.")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <file.csv>",
	Short: "Print an exported csv file as a table.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := export.ReadCSV(args[0])
		if err != nil {
			return err
		}
		renderRecords(cmd.OutOrStdout(), records, showLimit)
		return nil
	},
}

func renderRecords(out io.Writer, records []tmdb.MovieRecord, limit int) {
	shown := records
	if limit > 0 && limit < len(records) {
		shown = records[:limit]
	}

	t := utils.NewTable(out)
	t.AppendHeader(table.Row{"#", "Title", "Rating", "Genre", "Cast"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Title", WidthMax: 40},
		{Name: "Cast", WidthMax: 60},
	})
	for i, r := range shown {
		t.AppendRow(table.Row{
			i + 1,
			r.Title,
			r.Rating,
			strings.Join(r.Genres, ", "),
			strings.Join(r.Cast, ", "),
		})
	}
	if len(shown) < len(records) {
		t.AppendFooter(table.Row{"", fmt.Sprintf("%d more", len(records)-len(shown))})
	}
	t.Render()
}
