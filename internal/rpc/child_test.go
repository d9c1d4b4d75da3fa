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

package rpc

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAtoiDefault(t *testing.T) {
	require.Equal(t, -1, atoiDefault("", -1))
	require.Equal(t, 1000, atoiDefault("1000", -1))
	require.Equal(t, -1, atoiDefault("not-a-number", -1))
}

func TestSanitizeEnvSetsFixedValuesAndUnsetsVisibleDevices(t *testing.T) {
	os.Setenv("CUDA_CACHE_DISABLE", "0")
	os.Setenv("CUDA_VISIBLE_DEVICES", "0,1")
	defer os.Unsetenv("CUDA_CACHE_DISABLE")
	defer os.Unsetenv("CUDA_MPS_PIPE_DIRECTORY")

	sanitizeEnv("/container-root")

	require.Equal(t, "1", os.Getenv("CUDA_CACHE_DISABLE"))
	require.Equal(t, "PCI_BUS_ID", os.Getenv("CUDA_DEVICE_ORDER"))
	require.Equal(t, "0", os.Getenv("CUDA_UNIFIED_MEMORY"))
	_, isSet := os.LookupEnv("CUDA_VISIBLE_DEVICES")
	require.False(t, isSet)
	require.Equal(t, "/container-root/tmp/nvidia-mps", os.Getenv("CUDA_MPS_PIPE_DIRECTORY"))
}
