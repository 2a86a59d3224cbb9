package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"digital.vasic.lessons/pkg/catalog"
	"digital.vasic.lessons/pkg/lesson"
	"digital.vasic.lessons/pkg/logging"
	"digital.vasic.lessons/pkg/metrics"
	"digital.vasic.lessons/pkg/monitor"
	"digital.vasic.lessons/pkg/report"
	"digital.vasic.lessons/pkg/runner"
)

// Status line colors for per-lesson progress output.
var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
	warnColor = color.New(color.FgYellow)
	skipColor = color.New(color.FgHiBlack)
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <bank-file|dir|url>...",
		Short: "Execute lessons from one or more bank files",
		Long: `Execute lessons loaded from bank files, directories of bank
files, or http(s) URLs.

With no selection flags, every lesson runs in prerequisite
order and lessons whose prerequisites did not pass are
skipped. --category restricts the run to one category;
--id selects specific lessons by ID and may be repeated.

Examples:
  catalog run banks/
  catalog run banks/language.json banks/hooks.yaml
  catalog run --category language banks/
  catalog run --id js-hoisting --id js-closures banks/
  catalog run --parallel 4 banks/
  catalog run --monitor :8080 banks/
  catalog run --report-dir ./reports banks/`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCommand,
	}

	cmd.Flags().String("category", "", "Run only lessons of this category")
	cmd.Flags().StringSlice("id", nil, "Run only the given lesson IDs (repeatable)")
	cmd.Flags().Bool("stop-on-failure", false, "Abort a lesson at its first failed assertion")
	cmd.Flags().Int("parallel", 1, "Maximum number of concurrent lesson runs")
	cmd.Flags().String("monitor", "", "Serve a live WebSocket event feed on this address (e.g. :8080)")
	cmd.Flags().String("report-dir", "", "Directory for JSON and HTML report files")
	cmd.Flags().String("history", "", "JSON Lines file to append per-lesson history entries to")
	cmd.Flags().Duration("timeout", 30*time.Second, "Default timeout for lessons that do not set one")
	cmd.Flags().Bool("json", false, "Print the master summary as JSON instead of text")
	cmd.Flags().Bool("verbose", false, "Show debug-level log output")

	return cmd
}

// runCommand implements the run command logic.
func runCommand(cmd *cobra.Command, args []string) error {
	category, _ := cmd.Flags().GetString("category")
	ids, _ := cmd.Flags().GetStringSlice("id")
	parallel, _ := cmd.Flags().GetInt("parallel")
	monitorAddr, _ := cmd.Flags().GetString("monitor")
	historyPath, _ := cmd.Flags().GetString("history")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg := runConfigFromFlags(cmd)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	reg := catalog.NewRegistry()
	loader := catalog.NewLoader(reg, nil)
	if err := loadSources(ctx, loader, args); err != nil {
		return err
	}
	if reg.Count() == 0 {
		return fmt.Errorf("no lessons loaded")
	}

	logger := logging.Logger(logging.NullLogger{})
	if cfg.Verbose {
		logger = logging.NewConsoleLogger(true)
	}

	collector := monitor.NewEventCollector()
	collector.OnEvent(printEvent)

	if monitorAddr != "" {
		srv := monitor.NewServer(monitorAddr, collector)
		go func() {
			if err := srv.Start(ctx); err != nil {
				fmt.Fprintf(
					os.Stderr, "monitor: %v\n", err,
				)
			}
		}()
	}

	mem := metrics.NewInMemoryMetrics()

	r := runner.New(
		runner.WithRegistry(reg),
		runner.WithLogger(logger),
		runner.WithMetrics(mem),
		runner.WithCollector(collector),
		runner.WithRunConfig(cfg),
	)

	results, err := execute(ctx, r, reg, ids, category, parallel)
	if err != nil {
		return err
	}

	summary := report.BuildMasterSummary(results)

	if asJSON {
		data, err := report.NewJSONReporter(true).
			RenderMasterSummary(summary)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	} else {
		fmt.Fprint(
			cmd.OutOrStdout(),
			"\n"+report.NewFormatter().Summarize(results),
		)
	}

	if cfg.ReportDir != "" {
		if err := writeReports(
			cfg.ReportDir, summary, results,
		); err != nil {
			return err
		}
	}
	if historyPath != "" {
		if err := report.AppendToHistory(
			historyPath, summary.RunID, results,
		); err != nil {
			return err
		}
	}

	notPassed := summary.TotalLessons - summary.Passed
	if notPassed > 0 {
		return fmt.Errorf(
			"%d of %d lessons did not pass",
			notPassed, summary.TotalLessons,
		)
	}
	return nil
}

// runConfigFromFlags builds the shared run configuration from
// the run command's flags.
func runConfigFromFlags(cmd *cobra.Command) *lesson.RunConfig {
	cfg := lesson.NewRunConfig()
	cfg.ReportDir, _ = cmd.Flags().GetString("report-dir")
	cfg.StopOnFailure, _ = cmd.Flags().GetBool("stop-on-failure")
	cfg.Verbose, _ = cmd.Flags().GetBool("verbose")
	if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
		cfg.DefaultTimeout = timeout
	}
	return cfg
}

// execute dispatches to the right runner mode for the given
// selection.
func execute(
	ctx context.Context,
	r *runner.Runner,
	reg *catalog.Registry,
	ids []string,
	category string,
	parallel int,
) ([]*lesson.RunResult, error) {
	if len(ids) > 0 {
		lessonIDs := make([]lesson.ID, len(ids))
		for i, id := range ids {
			lessonIDs[i] = lesson.ID(id)
		}
		if parallel > 1 {
			return r.RunParallel(ctx, lessonIDs, parallel)
		}
		return r.RunByIDs(ctx, lessonIDs)
	}

	if parallel > 1 {
		// Parallel runs ignore prerequisite ordering; each
		// lesson runs in isolation.
		var lessonIDs []lesson.ID
		for _, l := range reg.List(category) {
			lessonIDs = append(lessonIDs, l.ID)
		}
		return r.RunParallel(ctx, lessonIDs, parallel)
	}

	if category != "" {
		return r.RunCategory(ctx, category)
	}
	return r.RunAll(ctx)
}

// printEvent renders one colored progress line per terminal
// event.
func printEvent(e monitor.LessonEvent) {
	switch e.Type {
	case monitor.EventStarted:
		// Quiet; only terminal events are printed.
	case monitor.EventPassed:
		passColor.Printf(
			"  ok   %-24s %s\n",
			e.LessonID, e.Duration.Round(time.Millisecond),
		)
	case monitor.EventSkipped:
		skipColor.Printf(
			"  skip %-24s %s\n", e.LessonID, e.Message,
		)
	case monitor.EventTimedOut:
		warnColor.Printf(
			"  time %-24s %s\n", e.LessonID, e.Message,
		)
	default:
		failColor.Printf(
			"  FAIL %-24s %s\n", e.LessonID, e.Message,
		)
	}
}

// writeReports writes the JSON and HTML master summaries to
// dir.
func writeReports(
	dir string,
	summary *report.MasterSummary,
	results []*lesson.RunResult,
) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf(
			"failed to create report directory: %w", err,
		)
	}

	jsonData, err := report.NewJSONReporter(true).
		RenderMasterSummary(summary)
	if err != nil {
		return err
	}
	jsonPath := filepath.Join(dir, "summary.json")
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return fmt.Errorf(
			"failed to write %s: %w", jsonPath, err,
		)
	}

	htmlData, err := report.NewHTMLReporter().
		GenerateMasterSummary(results)
	if err != nil {
		return err
	}
	htmlPath := filepath.Join(dir, "summary.html")
	if err := os.WriteFile(htmlPath, htmlData, 0644); err != nil {
		return fmt.Errorf(
			"failed to write %s: %w", htmlPath, err,
		)
	}

	return nil
}
