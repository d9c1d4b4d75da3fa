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

package ldconfig

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsLibName(t *testing.T) {
	testCases := []struct {
		name     string
		expected bool
	}{
		{"libcuda.so", true},
		{"libcuda.so.1", true},
		{"libcuda.so.535.104.05", true},
		{"nvidia-smi", false},
		{"libcuda.so.conf", false},
		{"readme.so.txt", false},
	}
	for _, tc := range testCases {
		require.Equal(t, tc.expected, isLibName(tc.name), tc.name)
	}
}

func TestUniqueFoldersPreservesFirstSeenOrder(t *testing.T) {
	dirs := uniqueFolders([]string{
		"/usr/lib/libcuda.so.1",
		"/usr/lib/libcudart.so.1",
		"/usr/lib32/libcuda.so.1",
		"/usr/lib/libnvidia-ml.so.1",
	})
	require.Equal(t, []string{"/usr/lib", "/usr/lib32"}, dirs)
}

func TestLibDirsFiltersNonLibraries(t *testing.T) {
	dirs := LibDirs([]string{
		"/usr/bin/nvidia-smi",
		"/usr/lib/libcuda.so.535.104.05",
		"/usr/lib/libnvidia-ml.so.1",
		"/etc/nvidia/nvidia-application-profiles-rc.d/50-nvidia.json",
	})
	require.Equal(t, []string{"/usr/lib"}, dirs)
}
