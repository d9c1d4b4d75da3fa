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
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
)

func TestContextLastErrorEmptyByDefault(t *testing.T) {
	ctx := NewContext(NewConfig("", "", 0), nil)
	require.Equal(t, "", ctx.LastError())
}

func TestContextFailRecordsStructuredError(t *testing.T) {
	ctx := NewContext(NewConfig("", "", 0), nil)
	structured := ncerror.New(ncerror.Missing, "driver_info", "nvml not found")

	err := ctx.fail(structured)
	require.Equal(t, structured, err)
	require.Equal(t, structured.Error(), ctx.LastError())
}

func TestContextFailWrapsPlainError(t *testing.T) {
	ctx := NewContext(NewConfig("", "", 0), nil)

	err := ctx.fail(errors.New("boom"))
	require.Error(t, err)
	require.Contains(t, ctx.LastError(), "boom")
}
