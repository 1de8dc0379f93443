package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "soakmon.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func loadConfig(t *testing.T, content string) *File {
	t.Helper()
	f, err := Load(writeConfig(t, content))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	return f
}

func floatPtr(v float64) *float64 { return &v }

func TestResolveDefaults(t *testing.T) {
	s, err := Resolve(CLI{}, &File{})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if s.SampleRate != DefaultSampleRate {
		t.Errorf("SampleRate = %v, want %v", s.SampleRate, DefaultSampleRate)
	}
	if s.Thresholds.CPUPeakPercentage != DefaultCPUPeakPercentage ||
		s.Thresholds.RAMPeakPercentage != DefaultRAMPeakPercentage {
		t.Errorf("thresholds = %+v", s.Thresholds)
	}
}

func TestResolveConfigValues(t *testing.T) {
	f := loadConfig(t, `
collection:
  process_name: myapp
  sample_rate: 2.5
  machine_id: "0042"
analysis:
  cpu_peak_percentage: 80
  ram_peak_percentage: 25
`)
	s, err := Resolve(CLI{}, f)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if s.ProcessName != "myapp" || s.SampleRate != 2.5 || s.MachineID != "0042" {
		t.Errorf("settings = %+v", s)
	}
	if s.Thresholds.CPUPeakPercentage != 80 || s.Thresholds.RAMPeakPercentage != 25 {
		t.Errorf("thresholds = %+v", s.Thresholds)
	}
}

func TestResolveValueWrapper(t *testing.T) {
	f := loadConfig(t, `
collection:
  sample_rate:
    value: 3.0
    comment: slower for long soaks
analysis:
  cpu_peak_percentage: {value: 75}
`)
	s, err := Resolve(CLI{}, f)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if s.SampleRate != 3.0 {
		t.Errorf("SampleRate = %v, want 3.0", s.SampleRate)
	}
	if s.Thresholds.CPUPeakPercentage != 75 {
		t.Errorf("CPUPeakPercentage = %v, want 75", s.Thresholds.CPUPeakPercentage)
	}
}

func TestResolveCLIWinsOverConfig(t *testing.T) {
	f := loadConfig(t, `
collection:
  sample_rate: 5.0
analysis:
  cpu_peak_percentage: 10
`)
	s, err := Resolve(CLI{SampleRate: floatPtr(0.5), CPUPeak: floatPtr(95)}, f)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if s.SampleRate != 0.5 {
		t.Errorf("SampleRate = %v, want CLI 0.5", s.SampleRate)
	}
	if s.Thresholds.CPUPeakPercentage != 95 {
		t.Errorf("CPUPeakPercentage = %v, want CLI 95", s.Thresholds.CPUPeakPercentage)
	}
}

func TestResolveProgramList(t *testing.T) {
	f := loadConfig(t, `
collection:
  program: [./srv, -p, "8080"]
`)
	s, err := Resolve(CLI{}, f)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !reflect.DeepEqual(s.Program, []string{"./srv", "-p", "8080"}) {
		t.Errorf("Program = %v", s.Program)
	}
}

func TestResolveCLISelectorSuppressesConfig(t *testing.T) {
	f := loadConfig(t, `
collection:
  process_name: configapp
`)
	s, err := Resolve(CLI{ProcessID: 4321}, f)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if s.ProcessName != "" || s.ProcessID != 4321 {
		t.Errorf("settings = %+v, want CLI pid only", s)
	}
}

func TestResolveValidation(t *testing.T) {
	tests := []struct {
		name    string
		cli     CLI
		wantErr string
	}{
		{"zero sample rate", CLI{SampleRate: floatPtr(0)}, "sample-rate"},
		{"negative sample rate", CLI{SampleRate: floatPtr(-1)}, "sample-rate"},
		{"cpu threshold above 100", CLI{CPUPeak: floatPtr(150)}, "cpu-peak-percentage"},
		{"cpu threshold negative", CLI{CPUPeak: floatPtr(-5)}, "cpu-peak-percentage"},
		{"ram threshold above 100", CLI{RAMPeak: floatPtr(101)}, "ram-peak-percentage"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.cli, &File{})
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Resolve() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolveConflictingConfigSelectors(t *testing.T) {
	f := loadConfig(t, `
collection:
  process_name: myapp
  program: [./srv]
`)
	if _, err := Resolve(CLI{}, f); err == nil {
		t.Error("want error for config with both process_name and program")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Load() error = %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	f, err := Load("")
	if err != nil || f == nil {
		t.Fatalf("Load(\"\") = %v, %v", f, err)
	}
	if f.Collection.SampleRate.IsSet() {
		t.Error("empty config reported a set option")
	}
}
