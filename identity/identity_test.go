package identity

import (
	"regexp"
	"testing"
)

func TestFromFilename(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		want   string
		wantOK bool
	}{
		{"isolated token before date", "app_1234_20231025_monitor.csv", "1234", true},
		{"token at start", "1234_20231025_100000_monitor.csv", "1234", true},
		{"full path is reduced to base name", "/var/log/runs/5678_monitor.csv", "5678", true},
		{"five digit run rejected", "run_12345_monitor.csv", "", false},
		{"eight digit date rejected", "20231025_monitor.csv", "", false},
		{"first qualifying run wins", "a_1111_b_2222_monitor.csv", "1111", true},
		{"long run then short run", "20231025_0042_monitor.csv", "0042", true},
		{"no digits at all", "monitor.csv", "", false},
		{"three digit run rejected", "node_123_monitor.csv", "", false},
		{"token at end of name", "soak-9001", "9001", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FromFilename(tt.path)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("FromFilename(%q) = %q, %v; want %q, %v",
					tt.path, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolvePrecedence(t *testing.T) {
	// Override beats a perfectly good filename token.
	id := Resolve("1234_monitor.csv", "0042")
	if id.MachineID != "0042" {
		t.Errorf("override ignored: %q", id.MachineID)
	}

	// Filename token beats the hardware fallback.
	id = Resolve("1234_monitor.csv", "")
	if id.MachineID != "1234" {
		t.Errorf("filename token ignored: %q", id.MachineID)
	}
}

func TestResolveHardwareFallback(t *testing.T) {
	// No token, no override: whatever the host yields must be 4 digits and
	// stable across calls.
	a := Resolve("monitor.csv", "").MachineID
	b := Resolve("monitor.csv", "").MachineID
	if a != b {
		t.Errorf("fallback not stable: %q vs %q", a, b)
	}
	if !regexp.MustCompile(`^\d{4}$`).MatchString(a) {
		t.Errorf("fallback id %q is not 4 digits", a)
	}
}

func TestDefaultMachineIDFormat(t *testing.T) {
	id := DefaultMachineID()
	if !regexp.MustCompile(`^\d{4}$`).MatchString(id) {
		t.Errorf("DefaultMachineID() = %q, want 4 digits", id)
	}
}
