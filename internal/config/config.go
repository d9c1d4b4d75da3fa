/**
# Copyright (c) 2024, NVIDIA CORPORATION.  All rights reserved.
#
# Licensed under the Apache License, Version 2.0 (the "License");
# you may not use this file except in compliance with the License.
# You may obtain a copy of the License at
#
#     http://www.apache.org/licenses/LICENSE-2.0
#
# Unless required by applicable law or agreed to in writing, software
# distributed under the License is distributed on an "AS IS" BASIS,
# WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
# See the License for the specific language governing permissions and
# limitations under the License.
**/

// Package config holds the library context's effective configuration: host
// root prefix, linker-cache path, and unprivileged uid/gid, plus the named
// feature flags kept from the teacher's internal/config/features.go.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the resolved, effective configuration for a library Context
// (spec.md §3's "Library context... effective configuration").
type Config struct {
	Root            string `toml:"root"`
	LDCachePath     string `toml:"ldcache"`
	UnprivilegedUID int    `toml:"user-uid"`
	UnprivilegedGID int    `toml:"user-gid"`

	Features features `toml:"features"`
}

const (
	DefaultLDCachePath = "/etc/ld.so.cache"
	DefaultRoot        = "/"
)

// New builds a Config with defaults, optionally overridden by a TOML file.
func New(configFile string) (*Config, error) {
	cfg := &Config{
		Root:            DefaultRoot,
		LDCachePath:     DefaultLDCachePath,
		UnprivilegedUID: -1,
		UnprivilegedGID: -1,
	}
	if configFile == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(configFile, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// osEnv adapts the os package to the getenver interface features.go
// expects.
type osEnv struct{}

func (osEnv) Getenv(k string) string { return os.Getenv(k) }

// InsecureMode reports whether NVC_INSECURE_MODE disables the "seccomp
// must be available" requirement of the secure ldconfig sandbox (C9).
func (c *Config) InsecureMode() bool {
	return os.Getenv("NVC_INSECURE_MODE") != ""
}

// FeatureEnabled checks a named feature against both the config file value
// and its associated environment variable override.
func (c *Config) FeatureEnabled(n featureName) bool {
	return c.Features.IsEnabled(n, osEnv{})
}
