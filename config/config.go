// Package config loads the optional YAML configuration file and merges it
// with CLI values into one validated Settings value. Precedence is always
// CLI flag > config file > built-in default, and the analysis engine only
// ever sees the merged, validated result.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/soakops/soakmon/model"
)

// Built-in defaults, used when neither CLI nor config supplies a value.
const (
	DefaultSampleRate        = 1.0
	DefaultCPUPeakPercentage = 90.0
	DefaultRAMPeakPercentage = 50.0
)

// File is the on-disk YAML layout. Every scalar may be written plainly or
// wrapped in a {value: ...} mapping.
type File struct {
	Collection CollectionSection `yaml:"collection"`
	Analysis   AnalysisSection   `yaml:"analysis"`
}

// CollectionSection configures collection mode.
type CollectionSection struct {
	ProcessName Option `yaml:"process_name"`
	Program     Option `yaml:"program"`
	SampleRate  Option `yaml:"sample_rate"`
	MachineID   Option `yaml:"machine_id"`
}

// AnalysisSection configures peak detection thresholds.
type AnalysisSection struct {
	CPUPeakPercentage Option `yaml:"cpu_peak_percentage"`
	RAMPeakPercentage Option `yaml:"ram_peak_percentage"`
}

// Option is one config value, possibly wrapped in a {value: ...} mapping.
// A wrapping mapping without a "value" key counts as unset.
type Option struct {
	node *yaml.Node
}

// UnmarshalYAML captures the raw node so plain and wrapped forms decode the
// same way.
func (o *Option) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == "value" {
				o.node = n.Content[i+1]
				return nil
			}
		}
		return nil
	}
	o.node = n
	return nil
}

// IsSet reports whether the option carries a value.
func (o Option) IsSet() bool {
	return o.node != nil && o.node.Tag != "!!null"
}

// String decodes the option as a string.
func (o Option) String() (string, error) {
	var s string
	if err := o.node.Decode(&s); err != nil {
		return "", err
	}
	return s, nil
}

// Float decodes the option as a float64.
func (o Option) Float() (float64, error) {
	var f float64
	if err := o.node.Decode(&f); err != nil {
		return 0, err
	}
	return f, nil
}

// StringList decodes the option as a list of strings (command + arguments).
func (o Option) StringList() ([]string, error) {
	var l []string
	if err := o.node.Decode(&l); err != nil {
		return nil, err
	}
	return l, nil
}

// Load reads and parses a YAML config file. An empty path yields an empty
// File so callers can merge unconditionally.
func Load(path string) (*File, error) {
	if path == "" {
		return &File{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &f, nil
}

// CLI carries the flag values the user actually set; nil pointers mean the
// flag was not given, which is distinct from an explicit zero.
type CLI struct {
	ProcessName string
	ProcessID   int
	Program     []string
	SampleRate  *float64
	CPUPeak     *float64
	RAMPeak     *float64
	MachineID   string
}

// Settings is the merged, validated configuration. MachineID may still be
// empty here; callers fill it with the hardware-derived default.
type Settings struct {
	ProcessName string
	ProcessID   int
	Program     []string
	SampleRate  float64
	MachineID   string
	Thresholds  model.Thresholds
}

// Resolve merges CLI values over file values over defaults and validates
// the result. Any violation is a configuration error reported before
// analysis or collection work begins.
func Resolve(cli CLI, file *File) (Settings, error) {
	if file == nil {
		file = &File{}
	}
	s := Settings{
		ProcessName: cli.ProcessName,
		ProcessID:   cli.ProcessID,
		Program:     cli.Program,
		MachineID:   cli.MachineID,
	}

	var err error
	s.Thresholds.CPUPeakPercentage, err = resolveFloat(cli.CPUPeak, file.Analysis.CPUPeakPercentage, DefaultCPUPeakPercentage, "analysis.cpu_peak_percentage")
	if err != nil {
		return Settings{}, err
	}
	s.Thresholds.RAMPeakPercentage, err = resolveFloat(cli.RAMPeak, file.Analysis.RAMPeakPercentage, DefaultRAMPeakPercentage, "analysis.ram_peak_percentage")
	if err != nil {
		return Settings{}, err
	}
	s.SampleRate, err = resolveFloat(cli.SampleRate, file.Collection.SampleRate, DefaultSampleRate, "collection.sample_rate")
	if err != nil {
		return Settings{}, err
	}

	// Config-level process selection only applies when the CLI selected
	// nothing; PID selection is CLI-only.
	if s.ProcessName == "" && s.ProcessID == 0 && s.Program == nil {
		name := file.Collection.ProcessName
		prog := file.Collection.Program
		if name.IsSet() && prog.IsSet() {
			return Settings{}, fmt.Errorf("config must not set both collection.process_name and collection.program")
		}
		if name.IsSet() {
			if s.ProcessName, err = name.String(); err != nil {
				return Settings{}, fmt.Errorf("collection.process_name: %w", err)
			}
		} else if prog.IsSet() {
			if s.Program, err = prog.StringList(); err != nil {
				return Settings{}, fmt.Errorf("collection.program must be a list of command and arguments: %w", err)
			}
		}
	}

	if s.MachineID == "" && file.Collection.MachineID.IsSet() {
		if s.MachineID, err = file.Collection.MachineID.String(); err != nil {
			return Settings{}, fmt.Errorf("collection.machine_id: %w", err)
		}
	}

	if s.SampleRate <= 0 {
		return Settings{}, fmt.Errorf("sample-rate must be a positive number, got %g", s.SampleRate)
	}
	if s.Thresholds.CPUPeakPercentage < 0 || s.Thresholds.CPUPeakPercentage > 100 {
		return Settings{}, fmt.Errorf("cpu-peak-percentage must be within [0,100], got %g", s.Thresholds.CPUPeakPercentage)
	}
	if s.Thresholds.RAMPeakPercentage < 0 || s.Thresholds.RAMPeakPercentage > 100 {
		return Settings{}, fmt.Errorf("ram-peak-percentage must be within [0,100], got %g", s.Thresholds.RAMPeakPercentage)
	}
	return s, nil
}

func resolveFloat(cli *float64, opt Option, def float64, name string) (float64, error) {
	if cli != nil {
		return *cli, nil
	}
	if opt.IsSet() {
		v, err := opt.Float()
		if err != nil {
			return 0, fmt.Errorf("%s: %w", name, err)
		}
		return v, nil
	}
	return def, nil
}
