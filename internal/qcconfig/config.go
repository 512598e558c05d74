// internal/qcconfig/config.go
package qcconfig

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"seqqc-core/stats"
)

// File is the on-disk configuration for analysis parameters. Flags override
// anything loaded from here; the zero value of every field means "use the
// built-in default".
type File struct {
	Stride       int `yaml:"stride" json:"stride"`
	SampleCap    int `yaml:"sample_cap" json:"sample_cap"`
	SampleScores int `yaml:"sample_scores" json:"sample_scores"`
	Positions    int `yaml:"positions" json:"positions"`
	Threads      int `yaml:"threads" json:"threads"`
	ChunkReads   int `yaml:"chunk_reads" json:"chunk_reads"`
	MaxFailures  int `yaml:"max_failures" json:"max_failures"`
}

// Load reads configuration from a YAML or JSON file, detected by extension.
// Defaults to YAML.
func Load(path string, target *File) error {
	if strings.HasSuffix(path, ".json") {
		return LoadJSON(path, target)
	}
	return LoadYAML(path, target)
}

// LoadYAML loads configuration from a YAML file.
func LoadYAML(path string, target *File) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return target.validate()
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(path string, target *File) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return target.validate()
}

func (f *File) validate() error {
	for _, v := range []struct {
		name string
		val  int
	}{
		{"stride", f.Stride},
		{"sample_cap", f.SampleCap},
		{"sample_scores", f.SampleScores},
		{"positions", f.Positions},
		{"threads", f.Threads},
		{"chunk_reads", f.ChunkReads},
		{"max_failures", f.MaxFailures},
	} {
		if v.val < 0 {
			return fmt.Errorf("config: %s must be >= 0, got %d", v.name, v.val)
		}
	}
	return nil
}

// StatsConfig translates the file into the core accumulator config. Zero
// fields fall through to the core defaults.
func (f File) StatsConfig() stats.Config {
	return stats.Config{
		Stride:       f.Stride,
		SampleCap:    f.SampleCap,
		SampleScores: f.SampleScores,
		Positions:    f.Positions,
	}
}
