package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/soakops/soakmon/analysis"
	"github.com/soakops/soakmon/chart"
	"github.com/soakops/soakmon/config"
	"github.com/soakops/soakmon/identity"
)

// runAnalyze handles -parse-file: one log in, report and/or chart out.
func runAnalyze(opts *Options, settings config.Settings) error {
	series, err := analysis.LoadFile(opts.ParseFile)
	if err != nil {
		return err
	}
	if series.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "Warning: skipped %d unparseable rows in %s\n", series.Skipped, opts.ParseFile)
	}

	report := analysis.AnalyzeSeries(series, settings.Thresholds)

	if opts.Summary {
		fmt.Print(report.Render())
	}
	if opts.ChartPath != "" {
		title := filepath.Base(opts.ParseFile)
		if err := chart.RenderFile(series, report, title, opts.ChartPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Chart written to %s\n", opts.ChartPath)
	}
	if !opts.Summary && opts.ChartPath == "" {
		fmt.Fprintln(os.Stderr, "Nothing to do: add -summary and/or -chart to -parse-file")
	}
	return nil
}

// runAggregate handles -aggregate: many logs in, one markdown table out.
// Failures per file are isolated into error rows; the table itself
// always renders.
func runAggregate(files []string, settings config.Settings) error {
	rows := analysis.Aggregate(files, settings.Thresholds, func(path string) string {
		return identity.Resolve(path, settings.MachineID).MachineID
	})
	for _, row := range rows {
		if row.Err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %s: %v\n", row.Source, row.Err)
		}
	}
	fmt.Print(analysis.RenderAggregate(rows, analysis.DefaultFlags))
	return nil
}
