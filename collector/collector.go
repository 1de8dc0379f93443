// Package collector samples CPU usage and available memory at a fixed
// interval and appends each sample to a monitor CSV log. The log format
// matches what the analysis side parses: a header row followed by
// timestamp, CPU percent and memory MB columns.
package collector

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/shirou/gopsutil/mem"

	"github.com/soakops/soakmon/model"
)

// maxConsecutiveFailures is how many failed samples in a row we tolerate
// before concluding the target is gone and stopping the run.
const maxConsecutiveFailures = 10

// Target produces one CPU reading per sample tick. Host-wide and
// per-process targets both satisfy it.
type Target interface {
	// Describe returns a short human-readable label for the target.
	Describe() string
	// Name returns the bare target name used in the log filename.
	Name() string
	// CPUPercent returns the CPU usage percent since the previous call.
	// The first call primes the measurement and may return zero.
	CPUPercent() (float64, error)
}

// Status is a point-in-time snapshot of a running collection, safe to
// read from another goroutine.
type Status struct {
	Target   string
	LogPath  string
	Started  time.Time
	Count    int
	Failures int
	Latest   model.Sample
	CPUMin   float64
	CPUMax   float64
	CPUAvg   float64
	MemMin   float64
	MemMax   float64
	MemAvg   float64
}

// Collector drives a sampling loop against a single target and writes
// every successful sample to a CSV log.
type Collector struct {
	target   Target
	interval time.Duration
	logPath  string

	file *os.File
	cw   *csv.Writer

	mu     sync.Mutex
	status Status
	cpuSum float64
	memSum float64
}

// New opens the log file, writes the CSV header and returns a collector
// ready to Run. The header is flushed immediately so a partial run still
// leaves a parseable log behind.
func New(target Target, interval time.Duration, logPath string) (*Collector, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("sample interval must be positive, got %v", interval)
	}
	f, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("create log file %s: %w", logPath, err)
	}
	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"Timestamp", "CPU_Usage_%", "Memory_MB"}); err != nil {
		f.Close()
		return nil, fmt.Errorf("write log header: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("write log header: %w", err)
	}
	return &Collector{
		target:   target,
		interval: interval,
		logPath:  logPath,
		file:     f,
		cw:       cw,
		status: Status{
			Target:  target.Describe(),
			LogPath: logPath,
		},
	}, nil
}

// Run samples the target until ctx is cancelled or the target fails
// maxConsecutiveFailures times in a row. The CPU measurement is primed
// once before the loop so the first recorded sample carries a real
// delta. Run closes the log file before returning.
func (c *Collector) Run(ctx context.Context) error {
	defer c.Close()

	// Prime the CPU delta; the reading itself is discarded.
	if _, err := c.target.CPUPercent(); err != nil {
		return fmt.Errorf("target not accessible: %w", err)
	}

	c.mu.Lock()
	c.status.Started = time.Now()
	c.mu.Unlock()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		sample, err := c.collect()
		if err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "sample failed (%d/%d): %v\n", failures, maxConsecutiveFailures, err)
			c.mu.Lock()
			c.status.Failures = failures
			c.mu.Unlock()
			if failures >= maxConsecutiveFailures {
				return fmt.Errorf("target %s not accessible after %d consecutive failures", c.target.Describe(), failures)
			}
			continue
		}
		failures = 0

		if err := c.append(sample); err != nil {
			return fmt.Errorf("write sample: %w", err)
		}
		c.record(sample)
	}
}

func (c *Collector) collect() (model.Sample, error) {
	cpuPct, err := c.target.CPUPercent()
	if err != nil {
		return model.Sample{}, fmt.Errorf("cpu: %w", err)
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return model.Sample{}, fmt.Errorf("memory: %w", err)
	}
	return model.Sample{
		Timestamp:  time.Now(),
		CPUPercent: cpuPct,
		MemoryMB:   float64(vm.Available) / (1024 * 1024),
	}, nil
}

// append writes one CSV row and flushes so the log survives an abrupt
// stop mid-run.
func (c *Collector) append(s model.Sample) error {
	row := []string{
		s.Timestamp.Format(model.TimeLayout),
		fmt.Sprintf("%.6f", s.CPUPercent),
		fmt.Sprintf("%.2f", s.MemoryMB),
	}
	if err := c.cw.Write(row); err != nil {
		return err
	}
	c.cw.Flush()
	return c.cw.Error()
}

func (c *Collector) record(s model.Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := &c.status
	st.Latest = s
	st.Failures = 0
	if st.Count == 0 {
		st.CPUMin, st.CPUMax = s.CPUPercent, s.CPUPercent
		st.MemMin, st.MemMax = s.MemoryMB, s.MemoryMB
	} else {
		if s.CPUPercent < st.CPUMin {
			st.CPUMin = s.CPUPercent
		}
		if s.CPUPercent > st.CPUMax {
			st.CPUMax = s.CPUPercent
		}
		if s.MemoryMB < st.MemMin {
			st.MemMin = s.MemoryMB
		}
		if s.MemoryMB > st.MemMax {
			st.MemMax = s.MemoryMB
		}
	}
	st.Count++
	c.cpuSum += s.CPUPercent
	c.memSum += s.MemoryMB
	st.CPUAvg = c.cpuSum / float64(st.Count)
	st.MemAvg = c.memSum / float64(st.Count)
}

// Status returns a copy of the current collection state.
func (c *Collector) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// LogPath returns the path of the CSV log the collector writes to.
func (c *Collector) LogPath() string { return c.logPath }

// Close flushes and closes the log file. Safe to call more than once.
func (c *Collector) Close() error {
	c.cw.Flush()
	if c.file == nil {
		return nil
	}
	err := c.file.Close()
	c.file = nil
	return err
}

// LogFileName builds the auto-generated monitor log name for a run,
// e.g. "myapp_20231025_100000_monitor.csv". Characters outside a safe
// filename set are replaced with underscores.
func LogFileName(name string, now time.Time) string {
	return fmt.Sprintf("%s_%s_monitor.csv", sanitize(name), now.Format("20060102_150405"))
}

func sanitize(name string) string {
	if name == "" {
		return "system"
	}
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
