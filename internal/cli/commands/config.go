// Copyright 2025 Ramfs Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ServeConfig is the optional YAML configuration for the serve command.
// Flags override file values.
type ServeConfig struct {
	Addr      string `yaml:"addr"`      // listen address, default 127.0.0.1:20490
	Seed      string `yaml:"seed"`      // host directory to seed from, default none
	Gitignore *bool  `yaml:"gitignore"` // apply the seed tree's .gitignore, default true
}

// DefaultAddr is the serve listen address when neither flag nor config set one.
const DefaultAddr = "127.0.0.1:20490"

// GitignoreEnabled returns the gitignore setting, defaulting to true.
func (c *ServeConfig) GitignoreEnabled() bool {
	if c.Gitignore == nil {
		return true
	}
	return *c.Gitignore
}

// LoadServeConfig reads a YAML config file. A missing path returns an
// empty config with defaults.
func LoadServeConfig(path string) (*ServeConfig, error) {
	cfg := &ServeConfig{Addr: DefaultAddr}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	return cfg, nil
}
