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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetRequiredGIDNonDeviceIsZero(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-a-device")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	require.Zero(t, getRequiredGID(path))
}

func TestGetRequiredGIDMissingPathIsZero(t *testing.T) {
	require.Zero(t, getRequiredGID("/nonexistent/path/for/gid/test"))
}

func TestRequiredGIDsForDevicesSkipsZero(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(a, nil, 0644))
	require.NoError(t, os.WriteFile(b, nil, 0644))

	gids := requiredGIDsForDevices([]string{a, b, "/nonexistent"})
	require.Empty(t, gids)
}
