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

package nvc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	require.Equal(t, 1, v.Major)
	require.Equal(t, "1.0.0", v.String)
}

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig("", "", 0)
	require.Equal(t, "/", cfg.Root)
	require.Equal(t, "/etc/ld.so.cache", cfg.LdcachePath)
	require.NotNil(t, cfg.Features)
}

func TestNewConfigHonorsOverrides(t *testing.T) {
	cfg := NewConfig("/driver-root", "/custom/ld.so.cache", 0)
	require.Equal(t, "/driver-root", cfg.Root)
	require.Equal(t, "/custom/ld.so.cache", cfg.LdcachePath)
}
