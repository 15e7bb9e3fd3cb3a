package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/baxromumarov/civic-reps/internal/config"
	"github.com/baxromumarov/civic-reps/internal/core"
	"github.com/baxromumarov/civic-reps/internal/geo"
	"github.com/baxromumarov/civic-reps/internal/httpx"
	"github.com/baxromumarov/civic-reps/internal/scraper"
	"github.com/baxromumarov/civic-reps/internal/store"
)

var (
	zipFlag    string
	driverFlag string
	dsnFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "scraper --zip <zip>",
	Short: "Finds the elected representatives of a US ZIP code and stores them.",
	RunE:  run,
	// usage is noise once the flags parsed
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&zipFlag, "zip", "", "ZIP code to process")
	rootCmd.Flags().StringVar(&driverFlag, "driver", "", "Database driver (sqlite or postgres), overrides config")
	rootCmd.Flags().StringVar(&dsnFlag, "db", "", "Database DSN, overrides config")
	rootCmd.MarkFlagRequired("zip")
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if driverFlag != "" {
		cfg.Database.Driver = driverFlag
	}
	if dsnFlag != "" {
		cfg.Database.DSN = dsnFlag
	}

	ctx := cmd.Context()
	db, err := store.NewStore(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open store failed: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	pipeline := newPipeline(cfg, db)
	result := pipeline.Process(ctx, zipFlag)
	printResult(result)
	return result.Err
}

func newPipeline(cfg *config.Config, db *store.Store) *core.Pipeline {
	sc := cfg.Scraper

	renderFetcher := newFetcher(sc, sc.RenderTimeout)
	renderer := httpx.NewStaticRenderer(renderFetcher, sc.RenderTimeout)

	return core.NewPipeline(core.PipelineOptions{
		Resolver: geo.NewResolver(cfg.Geo.BaseURL, cfg.Geo.Timeout, sc.UserAgent),
		Rich: scraper.NewOfficialsScraper(renderer, scraper.OfficialsOptions{
			URL:          sc.RichURL,
			WaitSelector: sc.RichWaitSelector,
			DebugDir:     sc.DebugDir,
		}),
		House:     scraper.NewHouseScraper(newFetcher(sc, sc.HouseTimeout), sc.HouseURL),
		Senate:    scraper.NewSenateScraper(newFetcher(sc, sc.SenateTimeout), sc.SenateURL),
		Governors: scraper.DefaultGovernors,
		Merger:    db,
		RichZIP:   sc.RichZIP,
	})
}

func newFetcher(sc config.ScraperConfig, timeout time.Duration) *httpx.CollyFetcher {
	f := httpx.NewCollyFetcher(sc.UserAgent)
	f.SetTimeout(timeout)
	f.SetRespectRobots(sc.RespectRobots)
	return f
}

func printResult(result core.RunResult) {
	fmt.Printf("ZIP %s (%s, %s): %s\n", result.ZIP, result.Location.City, result.Location.State, result.State)
	if len(result.Representatives) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Name", "Title", "Office", "Party", "Level"})
	for _, rep := range result.Representatives {
		t.AppendRow(table.Row{rep.Name, rep.Title, rep.Office, rep.Party, rep.Level})
	}
	if result.State == core.StatePersisted && result.Err == nil {
		t.AppendFooter(table.Row{"", "", "", "created", result.Merge.Created})
	}
	t.Render()
}
