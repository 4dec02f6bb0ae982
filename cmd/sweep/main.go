// Command sweep runs a batch of efficiency experiments described by a
// saved configuration, prints the comparison table, and writes the
// workbook and chart outputs.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/banshee-data/efficiency.report/internal/config"
	"github.com/banshee-data/efficiency.report/internal/report"
	"github.com/banshee-data/efficiency.report/internal/store"
	"github.com/banshee-data/efficiency.report/internal/sweep"
)

var (
	configPath  = flag.String("config", "", "Experiment configuration JSON file")
	zhengPat    = flag.String("zheng", "", "Forward-polarity CSV pattern with one %d for the level number")
	fanPat      = flag.String("fan", "", "Reverse-polarity CSV pattern (unused in factor mode)")
	maxRows     = flag.Int("points", 0, "Maximum data rows per acquisition, 0 for all")
	outDir      = flag.String("out", ".", "Output directory for workbook and charts")
	dbFile      = flag.String("db", "", "Optional sqlite file to record the run in")
	htmlChart   = flag.Bool("html", false, "Also render an interactive HTML chart")
	showHistory = flag.Int("history", 0, "Print the last N recorded runs and exit (requires -db)")
)

func main() {
	flag.Parse()

	if *showHistory > 0 {
		if *dbFile == "" {
			log.Fatal("-history requires -db")
		}
		if err := printHistory(*dbFile, *showHistory); err != nil {
			log.Fatalf("failed to read run history: %v", err)
		}
		return
	}

	if *configPath == "" || *zhengPat == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadExperimentConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	r := sweep.NewRunner(cfg)
	err = r.Run(sweep.RunOptions{
		ZhengPattern: *zhengPat,
		FanPattern:   *fanPat,
		MaxRows:      *maxRows,
	})
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}

	table, err := r.ComparisonTable()
	if err != nil {
		log.Fatalf("failed to build comparison table: %v", err)
	}
	printTable(table)

	if trend, err := r.Trend(); err == nil {
		printTrend(trend, cfg.ExplorationType)
	}

	if err := writeOutputs(r, table, cfg); err != nil {
		log.Fatalf("failed to write outputs: %v", err)
	}

	if *dbFile != "" {
		db, err := store.Open(*dbFile)
		if err != nil {
			log.Fatalf("failed to open sweep database: %v", err)
		}
		defer db.Close()
		runID, err := db.RecordRun(r)
		if err != nil {
			log.Fatalf("failed to record sweep run: %v", err)
		}
		log.Printf("Recorded sweep run %s", runID)
	}
}

func printTable(table *sweep.ComparisonTable) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for i, h := range table.Headers {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, h)
	}
	fmt.Fprintln(w)
	for _, row := range table.Rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	w.Flush()

	fmt.Println()
	for _, kv := range table.Summary {
		fmt.Printf("%s: %s\n", kv[0], kv[1])
	}
}

func printTrend(trend sweep.TrendStats, et config.ExplorationType) {
	fmt.Println()
	fmt.Printf("Optimal %s: %g (efficiency %.4f)\n", et.FactorLabel(), trend.OptimalFactor, trend.OptimalEfficiency)
	if trend.HasFit {
		fmt.Printf("Linear fit: slope %.6f, intercept %.6f\n", trend.Slope, trend.Intercept)
		fmt.Printf("Efficiency range: %.4f (%.1f%% relative change)\n", trend.EfficiencyRange, trend.RelativeChange)
	}
}

func writeOutputs(r *sweep.Runner, table *sweep.ComparisonTable, cfg *config.ExperimentConfig) error {
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	xlsxPath := filepath.Join(*outDir, "comparison.xlsx")
	if err := report.WriteWorkbook(table, xlsxPath); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	log.Printf("Wrote %s", xlsxPath)

	label := cfg.ExplorationType.FactorLabel()
	pngPath := filepath.Join(*outDir, "efficiency_curve.png")
	if err := report.RenderEfficiencyCurve(r.Entries(), label, pngPath); err != nil {
		return fmt.Errorf("efficiency curve: %w", err)
	}
	log.Printf("Wrote %s", pngPath)

	if *htmlChart {
		htmlPath := filepath.Join(*outDir, "efficiency_curve.html")
		if err := report.RenderHTMLChart(r.Entries(), label, htmlPath); err != nil {
			return fmt.Errorf("html chart: %w", err)
		}
		log.Printf("Wrote %s", htmlPath)
	}
	return nil
}

func printHistory(path string, limit int) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.RecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No recorded runs.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Run ID\tExploration\tLevels\tCompleted\tSkipped\tTimestamp")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\n",
			run.RunID, run.ExplorationType, run.Levels,
			run.Completed, run.Skipped, run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
