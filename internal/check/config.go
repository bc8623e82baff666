package check

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Flags holds the externally supplied configuration surface.
type Flags struct {
	TargetBackends string
	DebugDir       string
}

// RegisterFlags binds the standard harness flags onto a flag set. The
// parsed values are applied to a Config explicitly; nothing global is
// mutated.
func RegisterFlags(fs *flag.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVar(&f.TargetBackends, "target_backends", "",
		"Explicit comma-delimited list of target backends.")
	fs.StringVar(&f.DebugDir, "debug_dir", "",
		"Directory to dump debug artifacts to.")
	return f
}

// Apply copies the parsed flag values into cfg.
func (f *Flags) Apply(cfg *Config) {
	cfg.TargetBackends = f.TargetBackends
	cfg.DebugDir = f.DebugDir
}

// FileConfig is the YAML configuration file consumed by the CLI.
type FileConfig struct {
	TargetBackends string  `yaml:"target_backends"`
	DebugDir       string  `yaml:"debug_dir"`
	Seed           int64   `yaml:"seed"`
	RTol           float64 `yaml:"rtol"`
	ATol           float64 `yaml:"atol"`
}

// LoadConfigFile reads a YAML config file. Unknown keys are rejected.
func LoadConfigFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// Apply copies the file values into cfg.
func (f *FileConfig) Apply(cfg *Config) {
	cfg.TargetBackends = f.TargetBackends
	cfg.DebugDir = f.DebugDir
	cfg.Seed = f.Seed
}
