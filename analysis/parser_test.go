package analysis

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const logHeader = "Timestamp,CPU_Usage_%,Memory_MB\n"

func writeLog(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestParseValidRows(t *testing.T) {
	input := logHeader +
		"2023-10-25 10:00:00,5.500000,2048.00\n" +
		"2023-10-25 10:00:01,12.300000,2000.50\n" +
		"2023-10-25 10:00:02,8.000000,1950.25\n"
	series, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if series.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", series.Len())
	}
	if series.Skipped != 0 {
		t.Errorf("Skipped = %d, want 0", series.Skipped)
	}
	first := series.Samples[0]
	if first.CPUPercent != 5.5 || first.MemoryMB != 2048.0 {
		t.Errorf("first sample = %+v", first)
	}
	if got := first.Timestamp.Format("2006-01-02 15:04:05"); got != "2023-10-25 10:00:00" {
		t.Errorf("first timestamp = %q", got)
	}
}

func TestParseSkipsMalformedRows(t *testing.T) {
	tests := []struct {
		name        string
		rows        string
		wantLen     int
		wantSkipped int
	}{
		{
			"non-numeric cpu",
			"2023-10-25 10:00:00,abc,2048.00\n2023-10-25 10:00:01,1.0,2000.00\n",
			1, 1,
		},
		{
			"non-numeric memory",
			"2023-10-25 10:00:00,1.0,oops\n",
			0, 1,
		},
		{
			"malformed timestamp",
			"25/10/2023 10:00:00,1.0,2048.00\n2023-10-25 10:00:01,1.0,2000.00\n",
			1, 1,
		},
		{
			"too few columns",
			"2023-10-25 10:00:00,1.0\n2023-10-25 10:00:01,1.0,2000.00\n",
			1, 1,
		},
		{
			"extra columns ignored",
			"2023-10-25 10:00:00,1.0,2048.00,extra\n",
			1, 0,
		},
		{
			"all rows bad",
			"garbage\nmore,garbage\n",
			0, 2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series, err := Parse(strings.NewReader(logHeader + tt.rows))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if series.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", series.Len(), tt.wantLen)
			}
			if series.Skipped != tt.wantSkipped {
				t.Errorf("Skipped = %d, want %d", series.Skipped, tt.wantSkipped)
			}
		})
	}
}

func TestParseHeaderOnly(t *testing.T) {
	series, err := Parse(strings.NewReader(logHeader))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !series.Empty() {
		t.Errorf("header-only input: Len() = %d, want 0", series.Len())
	}
}

func TestParseEmptyInput(t *testing.T) {
	series, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if !series.Empty() || series.Skipped != 0 {
		t.Errorf("empty input: %+v", series)
	}
}

func TestLoadFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.csv")
	_, err := LoadFile(path)
	if err == nil {
		t.Fatal("LoadFile() on missing path: want error")
	}
	if !errors.Is(err, ErrFileNotFound) {
		t.Errorf("error = %v, want ErrFileNotFound", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error %q does not name the path", err)
	}
}

func TestLoadFileRoundTrip(t *testing.T) {
	path := writeLog(t, "1234_20231025_monitor.csv", logHeader+
		"2023-10-25 10:00:00,5.500000,2048.00\n"+
		"not,a,row\n"+
		"2023-10-25 10:00:01,12.300000,2000.50\n")
	series, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if series.Len() != 2 || series.Skipped != 1 {
		t.Errorf("Len=%d Skipped=%d, want 2/1", series.Len(), series.Skipped)
	}
}
