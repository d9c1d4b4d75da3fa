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

// Package ldconfig runs the container's own ldconfig inside a throwaway,
// seccomp-filtered, namespace-isolated sandbox to rebuild its dynamic
// linker cache after the mount injector (C8) has populated its library
// directories (C9). Grounded on original_source/src/nvc_mount.c's
// directory bookkeeping and nvc_container.c's ldconfig child setup.
package ldconfig

import (
	"path/filepath"
	"strings"
)

// isLibName reports whether filename looks like a shared object
// (lib*.so*), adapted from the teacher's internal/discover/ldconfig.go.
func isLibName(filename string) bool {
	base := filepath.Base(filename)

	isLib, err := filepath.Match("lib?*.so*", base)
	if !isLib || err != nil {
		return false
	}

	parts := strings.Split(base, ".so")
	if len(parts) == 1 {
		return true
	}
	suffix := parts[len(parts)-1]
	if suffix == "" {
		return true
	}
	if !strings.HasPrefix(suffix, ".") {
		return false
	}
	// Only a numeric version suffix (.1, .535.104.05) is accepted.
	for _, v := range strings.Split(suffix[1:], ".") {
		if v == "" || strings.Trim(v, "0123456789") != "" {
			return false
		}
	}
	return true
}

// uniqueFolders returns the unique set of directories containing files,
// preserving first-seen order.
func uniqueFolders(files []string) []string {
	var dirs []string
	seen := make(map[string]bool)
	for _, f := range files {
		dir := filepath.Dir(f)
		if dir == "" || seen[dir] {
			continue
		}
		seen[dir] = true
		dirs = append(dirs, dir)
	}
	return dirs
}

// LibDirs returns the unique set of directories, in first-seen order, that
// hold the entries of mountedPaths that look like shared objects. The
// sandboxed ldconfig's argv is not built from it: RunSandbox passes
// Request.LibsDir and Request.Libs32Dir.
func LibDirs(mountedPaths []string) []string {
	var libs []string
	for _, p := range mountedPaths {
		if isLibName(p) {
			libs = append(libs, p)
		}
	}
	return uniqueFolders(libs)
}
