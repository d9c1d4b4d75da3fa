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

func TestProbeLdconfigPrefersRealBinary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sbin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sbin", "ldconfig.real"), nil, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sbin", "ldconfig"), nil, 0755))

	require.Equal(t, "/sbin/ldconfig.real", probeLdconfig(dir))
}

func TestProbeLdconfigFallsBackToPlainBinary(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sbin"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sbin", "ldconfig"), nil, 0755))

	require.Equal(t, "/sbin/ldconfig", probeLdconfig(dir))
}

func TestProbeLdconfigDefaultsWhenNeitherExists(t *testing.T) {
	dir := t.TempDir()
	require.Equal(t, "/sbin/ldconfig", probeLdconfig(dir))
}

func TestLibs32DirDetection(t *testing.T) {
	t.Run("debian", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "etc"), 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "etc", "debian_version"), []byte("12\n"), 0644))
		require.Equal(t, "/usr/lib/i386-linux-gnu", libs32Dir(dir))
	})
	t.Run("lib32 present", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "usr", "lib32"), 0755))
		require.Equal(t, "/usr/lib32", libs32Dir(dir))
	})
	t.Run("neither present", func(t *testing.T) {
		dir := t.TempDir()
		require.Equal(t, "/usr/lib", libs32Dir(dir))
	})
}
