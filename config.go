package grooming

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Policy holds the per-node admission limits and the number of candidate paths
// computed per service.  The zero value is not useful, start from DefaultPolicy.
type Policy struct {
	MaxCards    int `toml:"max_cards" json:"maxcards" yaml:"maxcards"`
	MaxCapacity int `toml:"max_capacity" json:"maxcapacity" yaml:"maxcapacity"`
	MaxOduCount int `toml:"max_odu_count" json:"maxoducount" yaml:"maxoducount"`
	MaxPaths    int `toml:"max_paths" json:"maxpaths" yaml:"maxpaths"`
}

// DefaultPolicy returns the limits of the reference hardware
func DefaultPolicy() Policy {
	return Policy{
		MaxCards:    70,
		MaxCapacity: 12288,
		MaxOduCount: 100,
		MaxPaths:    3,
	}
}

// SweepConfig drives an experiment: the size of a generated topology, and the
// schedule of service counts offered until blocking passes the threshold
type SweepConfig struct {
	Nodes             int     `toml:"nodes"`
	EdgeProbability   float64 `toml:"edge_probability"`
	StartServices     int     `toml:"start_services"`
	Step              int     `toml:"step"`
	BlockingThreshold float64 `toml:"blocking_threshold"`
	MaxSteps          int     `toml:"max_steps"`
	Replicates        int     `toml:"replicates"`
	Workers           int     `toml:"workers"`
}

// DefaultSweepConfig mirrors the experiment the model was built for
func DefaultSweepConfig() SweepConfig {
	return SweepConfig{
		Nodes:             100,
		EdgeProbability:   0.5,
		StartServices:     30,
		Step:              10,
		BlockingThreshold: 0.01,
		MaxSteps:          50,
		Replicates:        1,
		Workers:           4,
	}
}

// Config is the content of a configuration file
type Config struct {
	LogLevel string      `toml:"log_level"`
	LogFile  string      `toml:"log_file"`
	Policy   Policy      `toml:"policy"`
	Sweep    SweepConfig `toml:"sweep"`
}

// DefaultConfig has every field set to its default
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Policy:   DefaultPolicy(),
		Sweep:    DefaultSweepConfig(),
	}
}

// LoadConfig decodes a TOML file.  Fields the file leaves out (or sets to zero)
// take their default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	var cfg Config
	if _, err := toml.DecodeFile(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", configPath, err)
	}
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	CfgLog.Debugf("loaded config from %s", configPath)

	return &cfg, nil
}

func (cfg *Config) fillDefaults() {
	dp := DefaultPolicy()
	if cfg.Policy.MaxCards == 0 {
		cfg.Policy.MaxCards = dp.MaxCards
	}
	if cfg.Policy.MaxCapacity == 0 {
		cfg.Policy.MaxCapacity = dp.MaxCapacity
	}
	if cfg.Policy.MaxOduCount == 0 {
		cfg.Policy.MaxOduCount = dp.MaxOduCount
	}
	if cfg.Policy.MaxPaths == 0 {
		cfg.Policy.MaxPaths = dp.MaxPaths
	}

	ds := DefaultSweepConfig()
	if cfg.Sweep.Nodes == 0 {
		cfg.Sweep.Nodes = ds.Nodes
	}
	if cfg.Sweep.EdgeProbability == 0 {
		cfg.Sweep.EdgeProbability = ds.EdgeProbability
	}
	if cfg.Sweep.StartServices == 0 {
		cfg.Sweep.StartServices = ds.StartServices
	}
	if cfg.Sweep.Step == 0 {
		cfg.Sweep.Step = ds.Step
	}
	if cfg.Sweep.BlockingThreshold == 0 {
		cfg.Sweep.BlockingThreshold = ds.BlockingThreshold
	}
	if cfg.Sweep.MaxSteps == 0 {
		cfg.Sweep.MaxSteps = ds.MaxSteps
	}
	if cfg.Sweep.Replicates == 0 {
		cfg.Sweep.Replicates = ds.Replicates
	}
	if cfg.Sweep.Workers == 0 {
		cfg.Sweep.Workers = ds.Workers
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate reports every out-of-range field at once
func (cfg *Config) Validate() error {
	errs := []error{}
	if cfg.Policy.MaxCards < 0 || cfg.Policy.MaxCapacity < 0 || cfg.Policy.MaxOduCount < 0 {
		errs = append(errs, fmt.Errorf("policy limits must not be negative"))
	}
	if cfg.Policy.MaxPaths < 1 {
		errs = append(errs, fmt.Errorf("max_paths must be at least 1"))
	}
	if cfg.Sweep.Nodes < 2 {
		errs = append(errs, fmt.Errorf("sweep needs at least 2 nodes, got %d", cfg.Sweep.Nodes))
	}
	if cfg.Sweep.EdgeProbability < 0 || cfg.Sweep.EdgeProbability > 1 {
		errs = append(errs, fmt.Errorf("edge_probability %v outside [0,1]", cfg.Sweep.EdgeProbability))
	}
	if cfg.Sweep.StartServices < 1 || cfg.Sweep.Step < 1 {
		errs = append(errs, fmt.Errorf("start_services and step must be positive"))
	}
	if cfg.Sweep.MaxSteps < 1 || cfg.Sweep.Replicates < 1 || cfg.Sweep.Workers < 1 {
		errs = append(errs, fmt.Errorf("max_steps, replicates and workers must be positive"))
	}
	return ReportErrs(errs)
}
