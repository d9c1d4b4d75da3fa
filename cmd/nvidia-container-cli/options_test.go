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

	"github.com/NVIDIA/libnvidia-container/internal/options"
)

func TestUidGIDEmptyIsUnset(t *testing.T) {
	opts := &globalOptions{}
	uid, gid, err := opts.uidGID()
	require.NoError(t, err)
	require.Equal(t, -1, uid)
	require.Equal(t, -1, gid)
}

func TestUidGIDJustUID(t *testing.T) {
	opts := &globalOptions{user: "1000"}
	uid, gid, err := opts.uidGID()
	require.NoError(t, err)
	require.Equal(t, 1000, uid)
	require.Equal(t, 1000, gid)
}

func TestUidGIDUIDAndGID(t *testing.T) {
	opts := &globalOptions{user: "1000:2000"}
	uid, gid, err := opts.uidGID()
	require.NoError(t, err)
	require.Equal(t, 1000, uid)
	require.Equal(t, 2000, gid)
}

func TestUidGIDRejectsGarbage(t *testing.T) {
	opts := &globalOptions{user: "nope"}
	_, _, err := opts.uidGID()
	require.Error(t, err)
}

func TestParseListCapabilitiesAddsStandalone(t *testing.T) {
	opts, err := parseListCapabilities("utility compute")
	require.NoError(t, err)
	require.NotZero(t, opts&options.OptStandalone)
	require.NotZero(t, opts&options.OptUtility)
	require.NotZero(t, opts&options.OptCompute)
}
