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
	"testing"

	"github.com/NVIDIA/go-nvml/pkg/nvml"
	"github.com/stretchr/testify/require"
)

// fakeDevice embeds the nvml.Device interface without implementing any of
// its methods, giving the slab a non-nil concrete value to store and
// retrieve without needing a real NVML handle.
type fakeDevice struct{ nvml.Device }

func TestServerStoreAndLookupRoundTrip(t *testing.T) {
	s := &Server{}
	var dev nvml.Device = fakeDevice{}
	h := s.store(dev)

	got, r := s.lookup(handleArgs{Handle: h})
	require.Nil(t, r)
	require.Equal(t, dev, got)
}

func TestServerStoreAssignsDistinctHandles(t *testing.T) {
	s := &Server{}
	h1 := s.store(fakeDevice{})
	h2 := s.store(fakeDevice{})
	require.NotEqual(t, h1, h2)
}

func TestServerLookupUnknownHandleFails(t *testing.T) {
	s := &Server{}
	_, r := s.lookup(handleArgs{Handle: Handle(999)})
	require.NotNil(t, r)
	require.False(t, r.OK)
}

func TestServerLookupBadArgsFails(t *testing.T) {
	s := &Server{}
	_, r := s.lookup("not-handle-args")
	require.NotNil(t, r)
	require.False(t, r.OK)
}

func TestServerDispatchUnknownMethod(t *testing.T) {
	s := &Server{}
	r := s.dispatch(request{Method: "NotARealMethod"})
	require.False(t, r.OK)
	require.NotEmpty(t, r.ErrMsg)
}

func TestServerDispatchDeviceBadArgs(t *testing.T) {
	s := &Server{}
	r := s.dispatch(request{Method: methodDevice, Args: "garbage"})
	require.False(t, r.OK)
}

func TestBrandString(t *testing.T) {
	require.Equal(t, "Tesla", brandString(nvml.BRAND_TESLA))
	require.Equal(t, "GeForce", brandString(nvml.BRAND_GEFORCE))
	require.Equal(t, "Unknown", brandString(nvml.BrandType(9999)))
}

func TestFailMsgRendersStructuredError(t *testing.T) {
	r := failMsg("boom")
	require.False(t, r.OK)
	require.Contains(t, r.ErrMsg, "boom")
	require.NotZero(t, r.ErrCode)
}
