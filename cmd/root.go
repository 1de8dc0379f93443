package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/soakops/soakmon/analysis"
	"github.com/soakops/soakmon/config"
)

// Version is set at build time via ldflags.
var Version = "1.2.0"

// Options holds the parsed command line.
type Options struct {
	// Analysis modes
	ParseFile string
	Summary   bool
	ChartPath string
	Aggregate bool
	Files     []string

	// Collection modes
	ProcessName string
	ProcessID   int
	Program     []string
	Watch       bool

	ConfigFile  string
	ShowVersion bool

	cli config.CLI
}

func printUsage(out io.Writer) {
	fmt.Fprintf(out, `soakmon v%s — soak test CPU/memory monitor and log analyzer

Usage:
  soakmon [OPTIONS]
  soakmon -program CMD [ARGS...]
  soakmon -aggregate FILE [FILE...]

Collection modes:
  (default)              Monitor the whole host, write a CSV monitor log
  -process-name NAME     Monitor a running process by exact name
  -process-id PID        Monitor a running process by PID
  -program               Launch the positional command and monitor it
  -watch                 Show a live terminal view while collecting

Analysis modes:
  -parse-file FILE       Analyze one monitor log (use with -summary/-chart)
  -summary               Print the summary report for -parse-file
  -chart FILE.png        Render the -parse-file series to a PNG chart
  -aggregate             Summarize the positional logs as a markdown table

Options:
  -sample-rate N         Seconds between samples (default: %g)
  -cpu-peak-percentage N CPU peak threshold, percent above average (default: %g)
  -ram-peak-percentage N Memory peak threshold, percent below average (default: %g)
  -machine-id ID         Machine ID override for reports
  -config-file FILE      YAML config file (CLI flags win over config values)
  -version               Print version and exit

Examples:
  soakmon                                  Host-wide collection, 1s samples
  soakmon -process-name redis-server       Monitor a process by name
  soakmon -process-id 4242 -watch          Monitor a PID with a live view
  soakmon -program ./loadgen --rate 100    Launch and monitor a program
  soakmon -parse-file app_1234_20231025_monitor.csv -summary
  soakmon -parse-file run.csv -chart run.png
  soakmon -aggregate run1.csv run2.csv > fleet.md
`, Version, config.DefaultSampleRate, config.DefaultCPUPeakPercentage, config.DefaultRAMPeakPercentage)
}

// parseArgs parses the command line into Options. Threshold and rate
// flags record whether they were explicitly given, so config file
// values only apply to flags the user left alone.
func parseArgs(args []string) (*Options, error) {
	var o Options
	var sampleRate, cpuPeak, ramPeak float64
	var program bool

	fs := flag.NewFlagSet("soakmon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() { printUsage(os.Stderr) }

	fs.StringVar(&o.ParseFile, "parse-file", "", "Monitor log to analyze")
	fs.BoolVar(&o.Summary, "summary", false, "Print the summary report for -parse-file")
	fs.StringVar(&o.ChartPath, "chart", "", "Write a PNG chart of the -parse-file series")
	fs.BoolVar(&o.Aggregate, "aggregate", false, "Aggregate the positional monitor logs")

	fs.StringVar(&o.ProcessName, "process-name", "", "Monitor a running process by exact name")
	fs.IntVar(&o.ProcessID, "process-id", 0, "Monitor a running process by PID")
	fs.BoolVar(&program, "program", false, "Launch the positional command and monitor it")
	fs.BoolVar(&o.Watch, "watch", false, "Show a live terminal view while collecting")

	fs.Float64Var(&sampleRate, "sample-rate", config.DefaultSampleRate, "Seconds between samples")
	fs.Float64Var(&cpuPeak, "cpu-peak-percentage", config.DefaultCPUPeakPercentage, "CPU peak threshold (percent above average)")
	fs.Float64Var(&ramPeak, "ram-peak-percentage", config.DefaultRAMPeakPercentage, "Memory peak threshold (percent below average)")
	fs.StringVar(&o.cli.MachineID, "machine-id", "", "Machine ID override for reports")
	fs.StringVar(&o.ConfigFile, "config-file", "", "YAML config file")
	fs.BoolVar(&o.ShowVersion, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "sample-rate":
			o.cli.SampleRate = &sampleRate
		case "cpu-peak-percentage":
			o.cli.CPUPeak = &cpuPeak
		case "ram-peak-percentage":
			o.cli.RAMPeak = &ramPeak
		}
	})
	o.cli.ProcessName = o.ProcessName
	o.cli.ProcessID = o.ProcessID

	rest := fs.Args()
	switch {
	case program:
		if len(rest) == 0 {
			return nil, fmt.Errorf("-program requires a command to launch")
		}
		o.Program = rest
		o.cli.Program = rest
	case o.Aggregate:
		if len(rest) == 0 {
			return nil, fmt.Errorf("-aggregate requires at least one monitor log")
		}
		o.Files = rest
	case len(rest) > 0:
		return nil, fmt.Errorf("unexpected arguments: %v", rest)
	}

	return &o, nil
}

// validate rejects contradictory mode combinations before any work runs.
func (o *Options) validate() error {
	if o.ParseFile != "" && o.Aggregate {
		return fmt.Errorf("-parse-file and -aggregate are mutually exclusive")
	}
	analysisMode := o.ParseFile != "" || o.Aggregate
	if analysisMode {
		if o.ProcessName != "" || o.ProcessID != 0 || len(o.Program) > 0 || o.Watch {
			return fmt.Errorf("collection flags cannot be combined with analysis flags")
		}
	}
	if !analysisMode && (o.Summary || o.ChartPath != "") {
		return fmt.Errorf("-summary and -chart require -parse-file")
	}
	selectors := 0
	if o.ProcessName != "" {
		selectors++
	}
	if o.ProcessID != 0 {
		selectors++
	}
	if len(o.Program) > 0 {
		selectors++
	}
	if selectors > 1 {
		return fmt.Errorf("use only one of -process-name, -process-id, -program")
	}
	return nil
}

// Run parses flags, resolves configuration and dispatches to the
// selected mode. The return value is the process exit code: 0 success,
// 1 file or runtime error, 2 invalid usage or configuration.
func Run() int {
	opts, err := parseArgs(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if opts.ShowVersion {
		fmt.Printf("soakmon v%s\n", Version)
		return 0
	}
	if err := opts.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	file, err := config.Load(opts.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	settings, err := config.Resolve(opts.cli, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	switch {
	case opts.ParseFile != "":
		if err := runAnalyze(opts, settings); err != nil {
			if errors.Is(err, analysis.ErrFileNotFound) {
				fmt.Fprintf(os.Stderr, "Error: File not found: %s\n", opts.ParseFile)
			} else {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			return 1
		}
	case opts.Aggregate:
		if err := runAggregate(opts.Files, settings); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	default:
		if err := runCollect(opts, settings); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	return 0
}
