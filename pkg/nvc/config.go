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

package nvc

import (
	"github.com/NVIDIA/libnvidia-container/internal/config"
	"github.com/NVIDIA/libnvidia-container/internal/options"
)

// Config is the library-scoped configuration, spec.md §6's config_new:
// the root filesystem to resolve driver artifacts under, the ldcache path
// to read, and the library option bitmask (currently just load-kmods).
type Config struct {
	Root         string
	LdcachePath  string
	LibraryOpts  options.LibraryOpts
	UnprivUID    int
	UnprivGID    int

	// Features gates opt-in behavior (NVC_INSECURE_MODE,
	// allow-additional-gids) the same way the real toolkit's config.toml
	// does; defaulted to the zero-value Config (file-less, env-only) by
	// NewConfig.
	Features *config.Config
}

// NewConfig builds a Config, defaulting Root to "/" and LdcachePath to the
// standard glibc location when left empty.
func NewConfig(root, ldcachePath string, libOpts options.LibraryOpts) *Config {
	if root == "" {
		root = "/"
	}
	if ldcachePath == "" {
		ldcachePath = "/etc/ld.so.cache"
	}
	features, _ := config.New("")
	return &Config{Root: root, LdcachePath: ldcachePath, LibraryOpts: libOpts, Features: features}
}
