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

package fs

import "golang.org/x/sys/unix"

// tryRaiseDACOverride raises CAP_DAC_OVERRIDE in the effective set for the
// duration of a filesystem-uid-swapped operation, if the kernel permits it
// (i.e. it is already present in the permitted set). Best effort: a
// process that never had the capability to begin with silently proceeds
// without it, matching the original's behavior of only restoring a
// capability it already held.
func tryRaiseDACOverride() func() {
	hdr := unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}
	var data [2]unix.CapUserData
	cur, err := getCapData(&hdr)
	if err != nil {
		return func() {}
	}
	data = cur

	idx, bit := unix.CAP_DAC_OVERRIDE/32, uint32(1)<<uint(unix.CAP_DAC_OVERRIDE%32)
	if data[idx].Permitted&bit == 0 {
		return func() {}
	}

	hadEffective := data[idx].Effective&bit != 0
	data[idx].Effective |= bit
	if err := capset(&hdr, &data); err != nil {
		return func() {}
	}

	return func() {
		if hadEffective {
			return
		}
		hdr2 := unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}
		cur2, err := getCapData(&hdr2)
		if err != nil {
			return
		}
		cur2[idx].Effective &^= bit
		_ = capset(&hdr2, &cur2)
	}
}
