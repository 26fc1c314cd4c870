package commands

import (
	"fmt"
	"io"
	"time"
	"tmdb-scraper/cmd/tmdb-scraper/globals"
	"tmdb-scraper/cmd/tmdb-scraper/utils"
	"tmdb-scraper/internal/components/chrono"
	"tmdb-scraper/internal/export"
	"tmdb-scraper/internal/scrapers/tmdb"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	configPath string
	outputDir  string
	pageRange  string
	delay      string
	dumpDir    string
)

func init() {
	scrapeCmd.Flags().StringVar(&configPath, "config", defaultConfigFile, "Path to the json5 config file.")
	scrapeCmd.Flags().StringVar(&outputDir, "out", "", "Directory the csv files are written to.")
	scrapeCmd.Flags().StringVar(&pageRange, "pages", "", "Listing pages to scrape, ex. 1-5 or 1,3,7-8.")
	scrapeCmd.Flags().StringVar(&delay, "delay", "", "Minimum time between two requests to the website, ex. 1s.")
	scrapeCmd.Flags().StringVar(&dumpDir, "dump-http", "", "Write every website request and response into this directory.")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape the movie listing and write one csv per page plus a combined one.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tel := globals.Get(ctx).Tel

		fileCfg, err := LoadFileConfig(configPath, cmd.Flags().Changed("config"))
		if err != nil {
			return err
		}
		if outputDir != "" {
			fileCfg.OutputDir = outputDir
		}
		if pageRange != "" {
			fileCfg.Pages = pageRange
		}
		if delay != "" {
			fileCfg.PolitenessDelay = delay
		}
		if dumpDir != "" {
			fileCfg.DumpDir = dumpDir
		}

		cfg, dir, err := fileCfg.Resolve()
		if err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		sink, err := export.NewDir(dir, tel)
		if err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		scraper, err := tmdb.NewScraper(cfg, sink, chrono.StandardImpl{}, tel)
		if err != nil {
			return err
		}

		err = scraper.Probe(ctx)
		if err != nil {
			return fmt.Errorf("website unreachable: %w", err)
		}

		result, err := scraper.Run(ctx)
		renderRunResult(cmd.OutOrStdout(), result)
		return err
	},
}

func renderRunResult(out io.Writer, result tmdb.RunResult) {
	t := utils.NewTable(out)
	t.AppendHeader(table.Row{"Page", "Rows", "File", "Took"})
	for _, w := range result.Written {
		t.AppendRow(table.Row{w.Page, w.Rows, w.File, w.Duration.Round(time.Millisecond).String()})
	}
	for _, s := range result.Skipped {
		t.AppendRow(table.Row{s.Page, "-", fmt.Sprintf("skipped: %v", s.Err), "-"})
	}
	if result.CombinedFile != "" {
		t.AppendFooter(table.Row{"all", result.CombinedRows, result.CombinedFile, result.Duration.Round(time.Millisecond).String()})
	}
	t.Render()

	fmt.Fprintf(out, "api fallbacks: %d, placeholders: %d\n", result.APIFallbacks, result.Placeholders)
}
