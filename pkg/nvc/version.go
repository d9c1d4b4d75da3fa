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

// Package nvc is the public surface of this module, the Go analogue of the
// original's nvc.h: library version/config/context lifecycle, container
// descriptors, driver mounting, and the last-error accessor spec.md §6
// describes for its CLI collaborator.
package nvc

import "fmt"

const (
	versionMajor = 1
	versionMinor = 0
	versionPatch = 0
)

// Version reports this library's own version, spec.md §6's version().
type Version struct {
	Major, Minor, Patch int
	String              string
}

// GetVersion returns the fixed library version.
func GetVersion() Version {
	return Version{
		Major:  versionMajor,
		Minor:  versionMinor,
		Patch:  versionPatch,
		String: fmt.Sprintf("%d.%d.%d", versionMajor, versionMinor, versionPatch),
	}
}
