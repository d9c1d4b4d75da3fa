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

package options

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseContainerOptsRequiresExactlyOneMode(t *testing.T) {
	_, err := ParseContainerOpts("utility")
	require.Error(t, err)

	_, err = ParseContainerOpts("supervised standalone utility")
	require.Error(t, err)

	opts, err := ParseContainerOpts("standalone utility")
	require.NoError(t, err)
	require.True(t, opts.has(OptStandalone))
	require.True(t, opts.has(OptUtility))
}

func TestParseContainerOptsDisplayImpliesGraphics(t *testing.T) {
	opts, err := ParseContainerOpts("standalone display")
	require.NoError(t, err)
	require.True(t, opts.has(OptDisplay))
	require.True(t, opts.has(OptGraphics))
}

func TestParseContainerOptsRejectsUnknownToken(t *testing.T) {
	_, err := ParseContainerOpts("standalone bogus")
	require.Error(t, err)
}

func TestFormatContainerOptsRoundTrips(t *testing.T) {
	testCases := []string{
		"standalone utility",
		"supervised no-cgroups no-devbind compute video",
		"standalone display graphics compat32",
	}
	for _, tc := range testCases {
		opts, err := ParseContainerOpts(tc)
		require.NoError(t, err)
		reparsed, err := ParseContainerOpts(FormatContainerOpts(opts))
		require.NoError(t, err)
		require.Equal(t, opts, reparsed, tc)
	}
}

func TestParseDriverOpts(t *testing.T) {
	opts, err := ParseDriverOpts("no-glvnd no-mps")
	require.NoError(t, err)
	require.NotZero(t, opts&OptNoGLVND)
	require.NotZero(t, opts&OptNoMPS)
	require.Zero(t, opts&OptNoUVM)

	_, err = ParseDriverOpts("no-such-flag")
	require.Error(t, err)
}

func TestParseLibraryOpts(t *testing.T) {
	opts, err := ParseLibraryOpts("load-kmods")
	require.NoError(t, err)
	require.Equal(t, OptLoadKmods, opts)

	_, err = ParseLibraryOpts("bogus")
	require.Error(t, err)
}
