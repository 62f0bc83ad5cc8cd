package verifier

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration parses Go duration strings ("600s", "2m") out of YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// FileConfig supplies defaults for the check command's flags from an
// optional YAML file. Explicit flags always win over file values.
type FileConfig struct {
	ResultsFile    string `yaml:"results_file"`
	AuditFile      string `yaml:"audit_file"`
	BaseDir        string `yaml:"base_dir"`
	ConversionsDir string `yaml:"conversions_dir"`

	SkipExisting bool `yaml:"skip_existing"`

	MaxWorkers    int      `yaml:"max_workers"`
	BuildTimeout  Duration `yaml:"build_timeout"`
	StartupWait   Duration `yaml:"startup_wait"`
	SmokeWait     Duration `yaml:"smoke_wait"`
	SmokeAttempts int      `yaml:"smoke_attempts"`
	SmokeDelay    Duration `yaml:"smoke_delay"`
}

// LoadFileConfig reads a YAML config file.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
