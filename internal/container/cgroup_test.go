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

package container

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHasOption(t *testing.T) {
	require.True(t, hasOption("rw,nosuid,devices", "devices"))
	require.False(t, hasOption("rw,nosuid", "devices"))
	require.False(t, hasOption("", "devices"))
}

func TestDeviceSubsystemPath(t *testing.T) {
	dir := t.TempDir()
	cgroupPath := filepath.Join(dir, "cgroup")
	contents := "11:devices:/docker/abc123\n10:memory:/docker/abc123\n"
	require.NoError(t, os.WriteFile(cgroupPath, []byte(contents), 0644))

	path, err := deviceSubsystemPath(cgroupPath)
	require.NoError(t, err)
	require.Equal(t, "/docker/abc123", path)
}

func TestDeviceSubsystemPathCombinedController(t *testing.T) {
	dir := t.TempDir()
	cgroupPath := filepath.Join(dir, "cgroup")
	contents := "4:cpu,cpuacct,devices:/docker/def456\n"
	require.NoError(t, os.WriteFile(cgroupPath, []byte(contents), 0644))

	path, err := deviceSubsystemPath(cgroupPath)
	require.NoError(t, err)
	require.Equal(t, "/docker/def456", path)
}

func TestDeviceSubsystemPathMissing(t *testing.T) {
	dir := t.TempDir()
	cgroupPath := filepath.Join(dir, "cgroup")
	contents := "10:memory:/docker/abc123\n"
	require.NoError(t, os.WriteFile(cgroupPath, []byte(contents), 0644))

	_, err := deviceSubsystemPath(cgroupPath)
	require.Error(t, err)
}
