/*
 * Copyright 2019 Dgraph Labs, Inc. and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package config loads and validates the flat YAML file that drives a
// simulator run: capacity, policy parameters, and the trace to replay.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the simulator's run configuration, loaded from a YAML file.
type Config struct {
	// AvailableCapacity is the total byte budget the cache may consume.
	AvailableCapacity uint64 `yaml:"availableCapacity"`
	// Associativity is the number of live tags LHD samples per Rank call
	// once warmed up. Zero falls back to the policy's own default.
	Associativity uint32 `yaml:"associativity"`
	// AdmissionSamples is the length of the recently-admitted ring. Zero
	// falls back to the policy's own default.
	AdmissionSamples uint32 `yaml:"admissionSamples"`
	// WarmupAccesses is the number of leading accesses excluded from the
	// steady-state miss ratio.
	WarmupAccesses uint64 `yaml:"warmupAccesses"`
	// StatsInterval is how often (in accesses) a progress line is printed.
	// Zero disables progress output.
	StatsInterval uint64 `yaml:"statsInterval"`
	// Seed derives the policy's xrand sampler seed. Empty uses a fixed
	// default, which still reproduces deterministically.
	Seed string `yaml:"seed"`
	// TracePath is the CSV trace file to replay. Required.
	TracePath string `yaml:"tracePath"`
}

// Load reads and validates a Config from the YAML file at path.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "config: reading %s", path)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "config: parsing %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports a configuration error for any field a simulator run
// cannot proceed without. It is called by Load, but exported so callers
// that build a Config in code (tests, embedders) can validate it directly.
func (c Config) Validate() error {
	switch {
	case c.AvailableCapacity == 0:
		return errors.New("config: availableCapacity must be non-zero")
	case c.TracePath == "":
		return errors.New("config: tracePath is required")
	default:
		return nil
	}
}
