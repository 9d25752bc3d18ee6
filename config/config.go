// Copyright 2025 The Driftmon Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config handles loading and validation of the driftmon
// configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"go.yaml.in/yaml/v2"
)

// DefaultConfig is the base configuration a loaded file is overlaid on.
var DefaultConfig = Config{
	MaxBuckets:   15,
	PSIThreshold: 0.2,
}

// Config describes one drift-monitoring target: a reference values file the
// histogram baseline is built from, and a candidate values file to compare
// against it.
type Config struct {
	ReferenceFile string `yaml:"reference_file"`
	CandidateFile string `yaml:"candidate_file"`
	// MaxBuckets bounds both histograms.
	MaxBuckets int `yaml:"max_buckets,omitempty"`
	// PSIThreshold is the PSI above which the candidate counts as drifted.
	PSIThreshold float64 `yaml:"psi_threshold,omitempty"`
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (c *Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	*c = DefaultConfig
	type plain Config
	if err := unmarshal((*plain)(c)); err != nil {
		return err
	}
	if c.ReferenceFile == "" {
		return errors.New("reference_file must be set")
	}
	if c.MaxBuckets <= 0 {
		return fmt.Errorf("invalid max_buckets: %d", c.MaxBuckets)
	}
	if c.PSIThreshold < 0 {
		return fmt.Errorf("invalid psi_threshold: %g", c.PSIThreshold)
	}
	return nil
}

// Load parses the YAML-encoded configuration s into a Config. Unknown fields
// are rejected.
func Load(s string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.UnmarshalStrict([]byte(s), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and parses the configuration at filename.
func LoadFile(filename string) (*Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	cfg, err := Load(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing YAML file %s: %w", filename, err)
	}
	return cfg, nil
}
