package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/abdidvp/matrixcheck/internal/adapters/outbound/config"
	"github.com/abdidvp/matrixcheck/internal/adapters/outbound/gitinfo"
	"github.com/abdidvp/matrixcheck/internal/adapters/outbound/logging"
	"github.com/abdidvp/matrixcheck/internal/adapters/outbound/report"
	"github.com/abdidvp/matrixcheck/internal/adapters/outbound/scanner"
	"github.com/abdidvp/matrixcheck/internal/adapters/outbound/tui"
	"github.com/abdidvp/matrixcheck/internal/application"
	"github.com/abdidvp/matrixcheck/internal/domain"
)

type validateOptions struct {
	resultsDir string
	output     string
	configPath string
	verbose    bool
	jsonOutput bool
	topIssues  int
}

func (o *validateOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.resultsDir, "results-dir", "", "Results directory path (default: results/ next to the binary's parent directory)")
	cmd.Flags().StringVar(&o.output, "output", "", "Output report file path (default: <results-dir>/validation_report.md)")
	cmd.Flags().StringVar(&o.configPath, "config", "", "Validation criteria file (default: <results-dir>/.matrixcheck.yaml)")
	cmd.Flags().BoolVar(&o.verbose, "verbose", false, "Enable verbose output")
	cmd.Flags().BoolVar(&o.jsonOutput, "json", false, "Print the summary as JSON instead of the console summary")
	cmd.Flags().IntVar(&o.topIssues, "top", domain.DefaultTopIssues, "Number of top issues in the console summary")
}

func runValidate(cmd *cobra.Command, opts validateOptions) error {
	resultsDir := opts.resultsDir
	if resultsDir == "" {
		resultsDir = defaultResultsDir()
	}
	output := opts.output
	if output == "" {
		output = application.DefaultOutputPath(resultsDir)
	}

	// Keep stdout clean for JSON consumers.
	logOut := cmd.OutOrStdout()
	if opts.jsonOutput {
		logOut = cmd.ErrOrStderr()
	}
	log := logging.New(logOut, opts.verbose)

	criteria, err := loadCriteria(opts.configPath, resultsDir)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("top") {
		criteria.TopIssues = opts.topIssues
	}
	log.Debug("criteria loaded",
		"log_files", len(criteria.LogFiles),
		"critical_errors", len(criteria.CriticalErrors),
		"penalty", criteria.Penalty())

	log.Info("Starting validation of test results...")
	summary := application.NewValidateService(scanner.New(), criteria, log).ValidateAll(resultsDir)

	if opts.jsonOutput {
		if err := renderJSON(cmd, summary); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), tui.RenderSummary(summary, criteria.TopIssues))
	}

	reportSvc := application.NewReportService(report.NewMarkdownRenderer(), report.NewFileWriter(), gitinfo.New(), log)
	if _, err := reportSvc.GenerateReport(summary, output); err != nil {
		return err
	}

	return exitStatus(summary, log)
}

func loadCriteria(configPath, resultsDir string) (domain.Criteria, error) {
	path := resultsDir
	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return domain.Criteria{}, fmt.Errorf("loading config: %w", err)
		}
		path = configPath
	}
	criteria, err := config.New().Load(path)
	if err != nil {
		return domain.Criteria{}, fmt.Errorf("loading config: %w", err)
	}
	return criteria, nil
}

// exitStatus logs the run outcome and maps it to the command's error.
func exitStatus(s *domain.Summary, log domain.Logger) error {
	switch {
	case s.Passed():
		log.Info("All tests passed validation!")
		return nil
	case s.TotalTests == 0:
		log.Warn("No tests found to validate")
		return ErrNoTests
	default:
		log.Error(fmt.Sprintf("%d tests failed validation", s.FailedTests))
		return fmt.Errorf("%w: %d of %d tests", ErrValidationFailed, s.FailedTests, s.TotalTests)
	}
}

// defaultResultsDir resolves results/ one level above the directory holding
// the executable, matching the matrix runner's checkout layout.
func defaultResultsDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "results"
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(filepath.Dir(exe)), "results")
}

func renderJSON(cmd *cobra.Command, summary *domain.Summary) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
