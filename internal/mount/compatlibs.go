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

package mount

import (
	"path/filepath"
	"strconv"
	"strings"
)

const compatLibGlob = "/usr/local/cuda/compat/lib*.so.*"

// mountCompatLibs is step 5: bind-mount the container's own CUDA
// forward-compatibility libraries into libsDir, but only those whose
// SONAME major version does not match the host driver's major. Compat
// libraries of any other major, older or newer than the host driver, are
// mounted.
func (p *Plan) mountCompatLibs() error {
	hostMajor, ok := majorVersion(p.info.RMVersion)
	if !ok {
		return nil
	}

	matches, err := filepath.Glob(compatLibGlob)
	if err != nil {
		return nil
	}

	uid, gid := int(p.cfg.UID), int(p.cfg.GID)
	for _, src := range matches {
		major, ok := sonameMajor(src)
		if !ok || major == hostMajor {
			continue
		}
		dst := baseJoin(libsDir, src)
		if err := bindFile(src, dst, uid, gid, 0); err != nil {
			return err
		}
		p.record(dst)
	}
	return nil
}

// majorVersion extracts the leading numeric component of a driver version
// string such as "535.129.03".
func majorVersion(version string) (string, bool) {
	parts := strings.SplitN(version, ".", 2)
	if len(parts) == 0 || parts[0] == "" {
		return "", false
	}
	return parts[0], true
}

// sonameMajor extracts the major version component from a filename of the
// form libfoo.so.<major>.<minor>...
func sonameMajor(path string) (string, bool) {
	base := filepath.Base(path)
	idx := strings.Index(base, ".so.")
	if idx < 0 {
		return "", false
	}
	rest := base[idx+len(".so."):]
	major := strings.SplitN(rest, ".", 2)[0]
	if _, err := strconv.Atoi(major); err != nil {
		return "", false
	}
	return major, true
}
