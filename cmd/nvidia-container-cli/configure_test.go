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

package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/libnvidia-container/pkg/nvc"
)

func testDriverInfo() *nvc.DriverInfo {
	return &nvc.DriverInfo{
		Devices: []nvc.DeviceInfo{
			{Index: 0, UUID: "GPU-aaaa", Busid: "00000000:01:00.0"},
			{Index: 1, UUID: "GPU-bbbb", Busid: "00000000:02:00.0"},
		},
	}
}

func TestResolveDeviceByIndex(t *testing.T) {
	dev, ok := resolveDevice(testDriverInfo(), "1")
	require.True(t, ok)
	require.Equal(t, "GPU-bbbb", dev.UUID)
}

func TestResolveDeviceByUUID(t *testing.T) {
	dev, ok := resolveDevice(testDriverInfo(), "GPU-aaaa")
	require.True(t, ok)
	require.Equal(t, 0, dev.Index)
}

func TestResolveDeviceByBusid(t *testing.T) {
	dev, ok := resolveDevice(testDriverInfo(), "00000000:02:00.0")
	require.True(t, ok)
	require.Equal(t, 1, dev.Index)
}

func TestResolveDeviceNotFound(t *testing.T) {
	_, ok := resolveDevice(testDriverInfo(), "nope")
	require.False(t, ok)
}
