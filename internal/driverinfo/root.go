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
	"os"
	"path/filepath"
)

// findBinaries resolves each basename against every directory in $PATH,
// rooted at root, keeping the first candidate that exists and is
// executable-accessible (spec.md §4.6 step 3). A basename with no match
// is simply omitted; the caller decides whether that is fatal.
func findBinaries(root string, basenames []string) []string {
	var dirs []string
	for _, d := range filepath.SplitList(os.Getenv("PATH")) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}
	if len(dirs) == 0 {
		dirs = []string{"/usr/local/sbin", "/usr/local/bin", "/usr/sbin", "/usr/bin", "/sbin", "/bin"}
	}

	var found []string
	for _, name := range basenames {
		for _, dir := range dirs {
			candidate := filepath.Join(root, dir, name)
			info, err := os.Stat(candidate)
			if err != nil || info.IsDir() {
				continue
			}
			if info.Mode()&0111 == 0 {
				continue
			}
			found = append(found, candidate)
			break
		}
	}
	return found
}
