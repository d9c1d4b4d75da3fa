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

package dsl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompare(t *testing.T) {
	testCases := []struct {
		a, b string
		want int
	}{
		{"10.0", "9.0", 1},
		{"9.0", "9", 0},
		{"9.1", "9", 1},
		{"9.0", "9.0.0", 0},
		{"1.2.3", "1.2.4", -1},
	}
	for _, tc := range testCases {
		got, err := Compare(tc.a, tc.b)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "Compare(%q, %q)", tc.a, tc.b)
	}
}

func TestEvaluateVersionScenarios(t *testing.T) {
	require.NoError(t, Evaluate("cuda>=9.0", Facts{CUDA: "10.0"}))
	require.Error(t, Evaluate("cuda>9", Facts{CUDA: "9.0"}))
	require.NoError(t, Evaluate("cuda>=9", Facts{CUDA: "9.1"}))
	require.NoError(t, Evaluate("cuda=9.0.0", Facts{CUDA: "9.0"}))
}

func TestEvaluateDSLScenario(t *testing.T) {
	expr := "driver>=390 cuda>=10.0,arch=7.0 brand=Tesla"

	okFacts := Facts{
		Driver: "395.0",
		CUDA:   "10.0",
		Device: &DeviceFacts{Arch: "7.0", Brand: "Tesla"},
	}
	require.NoError(t, Evaluate(expr, okFacts))

	failFacts := okFacts
	failFacts.Device = &DeviceFacts{Arch: "7.0", Brand: "GeForce"}
	err := Evaluate(expr, failFacts)
	require.Error(t, err)
	require.Equal(t, "unsatisfied condition: brand = tesla", err.Error())
}

func TestEvaluateNoDeviceInScope(t *testing.T) {
	require.NoError(t, Evaluate("arch=7.0", Facts{}))
	require.NoError(t, Evaluate("brand=Tesla", Facts{}))
}
