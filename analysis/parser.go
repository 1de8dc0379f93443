// Package analysis turns completed monitor CSV logs into statistics, peak
// events, trend estimates, and human-readable reports.
package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/soakops/soakmon/model"
)

// ErrFileNotFound marks a log path that does not exist. Callers branch on it
// with errors.Is to distinguish a missing file from a read failure.
var ErrFileNotFound = errors.New("file not found")

// LoadFile reads a monitor CSV log from disk and parses it into a series.
// A missing or unreadable file is an error; malformed data rows are not.
func LoadFile(path string) (*model.SampleSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	series, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return series, nil
}

// Parse reads CSV rows into a SampleSeries. The first row is the mandatory
// header and is consumed without validation, so a header-only (or empty)
// input yields an empty series. Each data row is parsed independently: a
// wrong field count, malformed timestamp, or non-numeric metric skips that
// row and increments Skipped without failing the parse.
func Parse(r io.Reader) (*model.SampleSeries, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	series := &model.SampleSeries{}
	sawHeader := false
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Row-level CSV error (stray quote etc). Skip the row; the
			// reader recovers on the next record.
			if sawHeader {
				series.Skipped++
			}
			sawHeader = true
			continue
		}
		if !sawHeader {
			sawHeader = true
			continue
		}
		sample, ok := parseRow(rec)
		if !ok {
			series.Skipped++
			continue
		}
		series.Samples = append(series.Samples, sample)
	}
	return series, nil
}

// parseRow converts one data row. Extra columns beyond the three are
// ignored; anything less, or any field that fails to parse, rejects the row.
func parseRow(rec []string) (model.Sample, bool) {
	if len(rec) < 3 {
		return model.Sample{}, false
	}
	ts, err := time.Parse(model.TimeLayout, strings.TrimSpace(rec[0]))
	if err != nil {
		return model.Sample{}, false
	}
	cpu, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
	if err != nil {
		return model.Sample{}, false
	}
	mem, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
	if err != nil {
		return model.Sample{}, false
	}
	return model.Sample{Timestamp: ts, CPUPercent: cpu, MemoryMB: mem}, true
}
