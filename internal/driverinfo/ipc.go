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

import "os"

// _PATH_VARRUN and _PATH_TMP mirror the BSD paths.h constants nvc_info.c
// uses for the persistenced socket and default MPS pipe directory.
const (
	pathVarRun = "/var/run"
	pathTmp    = "/tmp"
)

// assembleIPCs resolves the persistenced socket and MPS pipe directory,
// spec.md §4.6 step 5. Both are optional; a missing one is simply omitted.
func assembleIPCs(root string) []string {
	var ipcs []string

	persistenced := root + pathVarRun + "/nvidia-persistenced/socket"
	if existsAccessible(persistenced) {
		ipcs = append(ipcs, persistenced)
	}

	mpsDir := os.Getenv("CUDA_MPS_PIPE_DIRECTORY")
	if mpsDir == "" {
		mpsDir = pathTmp + "/nvidia-mps"
	}
	mpsPath := root + mpsDir
	if existsAccessible(mpsPath) {
		ipcs = append(ipcs, mpsPath)
	}

	return ipcs
}
