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

package driverinfo

import (
	"path/filepath"
	"strings"

	"github.com/NVIDIA/libnvidia-container/internal/elf"
)

// tlsABIMajor, tlsABIMinor, tlsABISubver are the fixed GNU Linux ABI-tag
// descriptor words libnvidia-tls.so must carry, spec.md §4.2 rule 1.
const (
	tlsABIMajor  = 2
	tlsABIMinor  = 3
	tlsABISubver = 99
)

// DriverLibraryPick builds an ldcache.Pick that applies the three rules
// from spec.md §4.2 to every candidate driver library path, given the host
// driver version string (e.g. "535.104.05").
func DriverLibraryPick(driverVersion string) func(root, current, candidate string) (bool, error) {
	return func(root, current, candidate string) (bool, error) {
		if candidate == current {
			return false, nil
		}
		base := filepath.Base(candidate)

		if strings.HasPrefix(base, "libnvidia-tls.so") {
			obj, err := elf.Open(candidate)
			if err != nil {
				return false, nil
			}
			if !obj.HasABI(tlsABIMajor, tlsABIMinor, tlsABISubver) {
				return false, nil
			}
		}

		if !strings.HasSuffix(base, driverVersion) {
			return false, nil
		}

		if isGLFamily(base) {
			obj, err := elf.Open(candidate)
			if err != nil {
				return false, nil
			}
			if !obj.HasDependency("libnvidia-glcore.so") && !obj.HasDependency("libnvidia-eglcore.so") {
				return false, nil
			}
		}

		return true, nil
	}
}

func isGLFamily(base string) bool {
	for _, prefix := range []string{"libGL", "libEGL.so", "libGLES"} {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	return false
}
