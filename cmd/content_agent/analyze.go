package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/brand-content-engine/internal/analysis"
	"github.com/jonathan/brand-content-engine/internal/fetch"
	"github.com/jonathan/brand-content-engine/internal/types"
	"github.com/jonathan/brand-content-engine/internal/visual"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a company website and print its brand voice",
	Long: `Starts a website analysis job in-process, prints progress to stderr while
polling, and prints the job record as JSON when it finishes.`,
	RunE: runAnalyze,
}

var (
	analyzeURL     string
	analyzeBrowser bool
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeURL, "url", "u", "", "Company website URL (required)")
	analyzeCmd.Flags().BoolVar(&analyzeBrowser, "browser", false, "Use headless Chrome for script-heavy sites and screenshots")

	if err := analyzeCmd.MarkFlagRequired("url"); err != nil {
		panic(fmt.Sprintf("failed to mark url flag as required: %v", err))
	}
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx := cmd.Context()
	client, err := newLLMClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	if client != nil {
		defer client.Close()
	}

	var browser analysis.Browser
	if analyzeBrowser || cfg.Analysis.UseBrowser {
		browser = fetch.NewBrowser(log)
	}
	fetcher := fetch.NewCachedFetcher(nil, nil, log)
	site := analysis.NewSiteAnalyzer(fetcher, browser, visual.NewAnalyzer(client, log), cfg.ExcerptLength, log)
	tracker := analysis.NewTracker(analysis.NewMemoryStore(), site, log)

	id, err := tracker.Start(ctx, analyzeURL)
	if err != nil {
		return err
	}
	job, err := awaitJob(ctx, tracker, id, 500*time.Millisecond, cfg.Analysis.WallClock, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if printer := summary(cmd); printer != nil {
		printer.PrintAnalysis(job)
	}
	if err := writeJSON(cmd.OutOrStdout(), job); err != nil {
		return err
	}
	if job.Status == types.JobFailed {
		return fmt.Errorf("analysis failed: %s", job.ErrorMessage)
	}
	return nil
}

// awaitJob polls until the job is terminal. A job still running after
// timeout is reported as an error; the tracker itself never times out.
func awaitJob(ctx context.Context, tracker *analysis.Tracker, id string, interval, timeout time.Duration, progress io.Writer) (*types.AnalysisJob, error) {
	if timeout <= 0 {
		timeout = analysis.WallClockHint
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastPct := -1
	for {
		job, err := tracker.Poll(ctx, id)
		if err != nil {
			return nil, err
		}
		if job.Progress.Percentage != lastPct {
			fmt.Fprintf(progress, "[%3d%%] %s\n", job.Progress.Percentage, job.Progress.Message)
			lastPct = job.Progress.Percentage
		}
		if job.Status.Terminal() {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("analysis %s still running after %s", id, timeout)
		case <-ticker.C:
		}
	}
}
