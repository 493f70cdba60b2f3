package main

import (
	"fmt"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"snowtriage/internal/config"
	"snowtriage/internal/logging"
	"snowtriage/internal/output"
	"snowtriage/internal/report"
	"snowtriage/internal/servicenow"
	"snowtriage/internal/triage"
)

var version = "v0.2.0" // Overwritten at build time

var (
	verbose         bool
	copyToClipboard bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "snow-triage",
		Short: "AI triage summaries for high-priority ServiceNow incidents",
		Long: `snow-triage fetches high-priority incidents from a ServiceNow
instance, groups them with keyword heuristics, and asks Gemini for a
triage summary that is printed to the terminal and saved as a
timestamped report.`,
		SilenceUsage: true,
		RunE:         runTriage,
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	rootCmd.Flags().BoolVar(&copyToClipboard, "copy", false, "Copy the summary to the clipboard")

	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("snow-triage version %s\n", version)
		},
	}
}

func runTriage(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// Configuration problems are the only fatal startup errors; they are
	// reported before any network call.
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogsDir, verbose)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("=== ServiceNow Incident Triage Started ===")

	snowClient, err := servicenow.NewClient(cfg.SnowInstance, cfg.SnowUsername, cfg.SnowPassword, logger)
	if err != nil {
		return err
	}

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond)
	s.Suffix = " Fetching high-priority incidents..."
	s.Start()
	incidents, err := snowClient.FetchHighPriority()
	s.Stop()
	if err != nil {
		// Transport trouble degrades to an empty run rather than a crash;
		// the classified log line tells the operator what drifted.
		logger.Error("fetching incidents failed", zap.Error(err))
		printError(err.Error())
		incidents = nil
	}

	if cfg.MaxIncidents > 0 && len(incidents) > cfg.MaxIncidents {
		logger.Info("limiting incidents for processing",
			zap.Int("fetched", len(incidents)), zap.Int("processing", cfg.MaxIncidents))
		incidents = incidents[:cfg.MaxIncidents]
	}

	if len(incidents) == 0 {
		logger.Info("no incidents to process - exiting")
		fmt.Println("\n✅ No high-priority incidents found or an error occurred.")
		return fmt.Errorf("no incidents were processed")
	}
	printSuccess(fmt.Sprintf("Fetched %d incidents", len(incidents)))

	buckets := triage.Classify(incidents)
	for _, cat := range triage.Categories {
		if n := len(buckets[cat]); n > 0 {
			logger.Info("classified incidents",
				zap.String("category", string(cat)), zap.Int("count", n))
		}
	}

	gemini, err := triage.NewGeminiClient(cfg.GeminiAPIKey,
		triage.WithGeminiModel(cfg.GeminiModel))
	if err != nil {
		return err
	}
	logger.Info("initialized Gemini model", zap.String("model", gemini.Model()))

	summarizer := triage.NewSummarizer(gemini, logger,
		triage.WithPromptStyle(triage.PromptStyle(cfg.PromptStyle)),
		triage.WithMaxRetries(cfg.MaxRetries),
		triage.WithBaseDelay(cfg.BaseDelay()))

	s.Suffix = " Requesting triage summary from Gemini..."
	s.Start()
	summary := summarizer.Summarize(incidents)
	s.Stop()
	printSuccess("Summary ready")

	output.PrintSummary(os.Stdout, summary)

	writer := report.NewWriter(logger, report.WithDir(cfg.ReportsDir))
	if path, err := writer.Write(summary, len(incidents)); err != nil {
		logger.Error("failed to save triage report", zap.Error(err))
		printError("Report could not be saved; the summary is shown above")
	} else {
		fmt.Printf("\n📄 Report saved to: %s\n", path)
	}

	if copyToClipboard {
		if err := clipboard.WriteAll(summary); err != nil {
			logger.Warn("failed to copy summary to clipboard", zap.Error(err))
		} else {
			printSuccess("Summary copied to clipboard")
		}
	}

	logger.Info("triage analysis completed successfully")
	return nil
}

func printSuccess(msg string) {
	green := color.New(color.FgGreen)
	green.Printf("✓ %s\n", msg)
}

func printError(msg string) {
	red := color.New(color.FgRed)
	red.Printf("✗ %s\n", msg)
}
