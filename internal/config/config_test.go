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

package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefaultsWithNoConfigFile(t *testing.T) {
	cfg, err := New("")
	require.NoError(t, err)
	require.Equal(t, DefaultRoot, cfg.Root)
	require.Equal(t, DefaultLDCachePath, cfg.LDCachePath)
}

func TestInsecureModeFollowsEnvvar(t *testing.T) {
	cfg := &Config{}
	os.Unsetenv("NVC_INSECURE_MODE")
	require.False(t, cfg.InsecureMode())

	os.Setenv("NVC_INSECURE_MODE", "1")
	defer os.Unsetenv("NVC_INSECURE_MODE")
	require.True(t, cfg.InsecureMode())
}

func TestFeatureEnabledReadsConfiguredFeature(t *testing.T) {
	on := featureEnabled
	cfg := &Config{Features: features{AllowAdditionalGIDs: &on}}
	require.True(t, cfg.FeatureEnabled(FeatureAllowAdditionalGIDs))
}

func TestFeatureEnabledDefaultsFalse(t *testing.T) {
	cfg := &Config{}
	os.Unsetenv("NVIDIA_ALLOW_ADDITIONAL_GIDS")
	require.False(t, cfg.FeatureEnabled(FeatureAllowAdditionalGIDs))
}
