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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSandboxAtoiDefault(t *testing.T) {
	require.Equal(t, 0, atoiDefault("0", -1))
	require.Equal(t, -1, atoiDefault("", -1))
	require.Equal(t, -1, atoiDefault("garbage", -1))
}

func TestProbeLdconfigPathPrefersRealBinary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sbin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sbin", "ldconfig.real"), nil, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sbin", "ldconfig"), nil, 0755))

	require.Equal(t, "/sbin/ldconfig.real", probeLdconfigPath(dir))
}

func TestProbeLdconfigPathFallsBack(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sbin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sbin", "ldconfig"), nil, 0755))

	require.Equal(t, "/sbin/ldconfig", probeLdconfigPath(dir))
}

func TestProbeLdconfigPathEmptyWhenMissing(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, "", probeLdconfigPath(dir))
}
