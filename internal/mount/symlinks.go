/**
# Copyright (c) 2022, NVIDIA CORPORATION.  All rights reserved.
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

package mount

import (
	"os"
	"path/filepath"
	"strings"
)

// createSymlinks is step 4, adapted from the teacher's dot-so-symlink hook:
// after libraries are mounted, a handful of driver libraries need a fixed
// symlink rather than the generic glob-by-driver-version the hook used.
func (p *Plan) createSymlinks() error {
	version := p.info.RMVersion

	links := []struct{ target, link string }{
		{"libcuda.so." + version, "libcuda.so.1"},
		{"libGLX_nvidia.so." + version, "libGLX_indirect.so.0"},
		{"libnvidia-opticalflow.so.1", "libnvidia-opticalflow.so"},
	}

	for _, l := range links {
		dir := libraryDirFor(p.info.Libs, l.target)
		if dir == "" {
			continue
		}
		if err := p.createSymlink(dir, l.target, l.link); err != nil {
			return err
		}
	}
	return nil
}

func libraryDirFor(libs []string, basename string) string {
	for _, lib := range libs {
		if filepath.Base(lib) == basename {
			return libsDir
		}
	}
	return ""
}

func (p *Plan) createSymlink(dir, target, linkName string) error {
	link := filepath.Join(dir, linkName)
	if _, err := os.Lstat(link); err == nil {
		return nil
	}
	if !strings.HasPrefix(target, "/") {
		if _, err := os.Stat(filepath.Join(dir, target)); err != nil {
			return nil
		}
	}
	if err := os.Symlink(target, link); err != nil {
		return err
	}
	p.record(link)
	return nil
}
