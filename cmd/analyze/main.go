// Command analyze prints the performance report for a local CSV or XLSX
// student dataset.
//
//	analyze class.csv
//	analyze class.xlsx --format xlsx --out report.xlsx
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"studentpulse/internal/analytics"
	"studentpulse/internal/config"
	"studentpulse/internal/exporter"
	"studentpulse/internal/infrastructure"
	"studentpulse/internal/ingest"
	"studentpulse/pkg/contracts"
	"studentpulse/pkg/contracts/domain"
)

// Exit codes
const (
	exitFailure  = 1
	exitRejected = 2
)

type options struct {
	format     string
	out        string
	bom        bool
	configPath string
	logLevel   string
}

// exitError carries the process exit code for an already reported failure
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func main() {
	cmd := newRootCommand(afero.NewOsFs(), os.Stdout, os.Stderr)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

func newRootCommand(fs afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	opts := options{}
	cmd := &cobra.Command{
		Use:   "analyze <file>",
		Short: "Analyze a student performance dataset",
		Long: "Validate a CSV or XLSX file with the columns " +
			"Student ID, Student Name, Math, Science, English, History, Geography and Attendance %, " +
			"then print class metrics, top performers and at-risk students.",
		Version:       contracts.GetVersionString(),
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), fs, stdout, stderr, args[0], opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.format, "format", "f", string(exporter.FormatJSON), "Report format: json, csv or xlsx.")
	flags.StringVarP(&opts.out, "out", "o", "", "Write the report to this file instead of stdout.")
	flags.BoolVar(&opts.bom, "bom", false, "Prefix CSV output with a UTF-8 BOM for Excel.")
	flags.StringVar(&opts.configPath, "config", "", "YAML config file providing analysis thresholds.")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr: debug, info, warn or error.")
	return cmd
}

func run(ctx context.Context, fs afero.Fs, stdout, stderr io.Writer, path string, opts options) error {
	logger := infrastructure.NewLogger(stderr, opts.logLevel)
	ctx = infrastructure.EnsureTraceID(ctx)

	format, err := exporter.ParseFormat(opts.format)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return &exitError{code: exitFailure, err: err}
	}

	thresholds := analytics.DefaultThresholds()
	if opts.configPath != "" {
		cfg, err := config.LoadFrom(fs, opts.configPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return &exitError{code: exitFailure, err: err}
		}
		thresholds = cfg.Analysis.Thresholds
	}

	engine, err := analytics.NewEngine(analytics.WithThresholds(thresholds), analytics.WithLogger(logger))
	if err != nil {
		fmt.Fprintln(stderr, err)
		return &exitError{code: exitFailure, err: err}
	}

	ds, src, err := ingest.Load(fs, path)
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedFormat) {
			fmt.Fprintln(stderr, "Only CSV or XLSX files are supported.")
		} else {
			fmt.Fprintf(stderr, "Failed to read file: %v\n", err)
		}
		return &exitError{code: exitFailure, err: err}
	}

	report, err := engine.Analyze(ctx, ds)
	if err != nil {
		var verr *analytics.ValidationError
		if errors.As(err, &verr) {
			for _, msg := range verr.Messages() {
				fmt.Fprintln(stderr, msg)
			}
			return &exitError{code: exitRejected, err: err}
		}
		fmt.Fprintln(stderr, err)
		return &exitError{code: exitFailure, err: err}
	}

	logger.InfoContext(ctx, "analysis complete",
		"file", src.Name,
		"digest", src.Digest,
		"students", report.TotalStudents)

	if opts.out == "" {
		return writeReport(stdout, stderr, format, report, opts)
	}

	f, err := fs.Create(opts.out)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return &exitError{code: exitFailure, err: err}
	}
	if err := writeReport(f, stderr, format, report, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(stderr, "failed to write report: %v\n", err)
		return &exitError{code: exitFailure, err: err}
	}
	return nil
}

func writeReport(w, stderr io.Writer, format exporter.Format, report *domain.Report, opts options) error {
	var err error
	if format == exporter.FormatCSV {
		err = exporter.WriteCSV(w, report, exporter.CSVOptions{BOMPrefix: opts.bom})
	} else {
		err = exporter.Write(w, format, report)
	}
	if err != nil {
		fmt.Fprintf(stderr, "failed to write report: %v\n", err)
		return &exitError{code: exitFailure, err: err}
	}
	return nil
}
