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

package driverinfo

import (
	"fmt"
	"path/filepath"

	"github.com/NVIDIA/libnvidia-container/internal/ldcache"
	"github.com/NVIDIA/libnvidia-container/internal/logger"
	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
	"github.com/NVIDIA/libnvidia-container/internal/options"
	"github.com/NVIDIA/libnvidia-container/internal/rpc"
)

// Assemble builds a DriverInfo from the requested flag set, resolving
// binaries and libraries through the linker cache at ldcachePath (inside
// root) and devices through the already-running driver RPC service.
func Assemble(root, ldcachePath string, containerOpts options.ContainerOpts, driverOpts options.DriverOpts, svc *rpc.Service, log logger.Interface) (*DriverInfo, error) {
	rmVersion, err := svc.RMVersion()
	if err != nil {
		return nil, err
	}
	cudaMajor, cudaMinor, err := svc.CUDAVersion()
	if err != nil {
		return nil, err
	}

	var binNames []string
	if containerOpts&options.OptUtility != 0 {
		binNames = append(binNames, utilityBinaries...)
	}
	if containerOpts&options.OptCompute != 0 {
		binNames = append(binNames, computeBinaries...)
	}

	var libNames []string
	libNames = append(libNames, utilityLibs...)
	if containerOpts&options.OptCompute != 0 {
		libNames = append(libNames, computeLibs...)
	}
	if containerOpts&options.OptVideo != 0 {
		libNames = append(libNames, videoLibs...)
	}
	if containerOpts&options.OptGraphics != 0 {
		libNames = append(libNames, graphicsLibs...)
		if driverOpts&options.OptNoGLVND != 0 {
			libNames = append(libNames, legacyGraphicsLibs...)
		} else {
			libNames = append(libNames, glvndGraphicsLibs...)
		}
	}

	pick := DriverLibraryPick(rmVersion)

	libs64, err := ldcache.Resolve(ldcachePath, root, ldcache.ArchLib, libNames, pick)
	if err != nil {
		return nil, ncerror.FromErrno("ldcache error", err)
	}

	var libs32 map[string]string
	if containerOpts&options.OptCompat32 != 0 {
		libs32, err = ldcache.Resolve(ldcachePath, root, ldcache.ArchLib32, libNames, pick)
		if err != nil {
			return nil, ncerror.FromErrno("ldcache error", err)
		}
	}

	warnMissing(log, "library", libNames, libs64)

	if len(libs64) == 0 && len(libNames) > 0 {
		return nil, ncerror.New(ncerror.Missing, "driver error", "no driver libraries found")
	}

	bins := findBinaries(root, binNames)
	warnMissingBinaries(log, binNames, bins)

	info := &DriverInfo{
		RMVersion: rmVersion,
		CUDAMajor: cudaMajor,
		CUDAMinor: cudaMinor,
		Bins:      bins,
		Libs:      mapValues(libs64),
		Libs32:    mapValues(libs32),
		IPCs:      assembleIPCs(root),
	}

	devices, err := assembleDevices(svc, log)
	if err != nil {
		return nil, err
	}
	info.Devices = devices
	info.Devs = deviceNodePaths(root, driverOpts, devices)

	if len(info.Devs) == 0 {
		return nil, ncerror.New(ncerror.Missing, "device error", fmt.Sprintf("could not find %s", "/dev/nvidiactl"))
	}

	return info, nil
}

func mapValues(m map[string]string) []string {
	var out []string
	for _, v := range m {
		out = append(out, v)
	}
	return out
}

// warnMissing logs a warning for each requested basename absent from
// resolved's keys, spec.md §4.6 step 6: missing optional entries warn but
// do not fail this step.
func warnMissing(log logger.Interface, kind string, want []string, resolved map[string]string) {
	for _, w := range want {
		if _, ok := resolved[w]; !ok {
			log.Warningf("could not find %s %s", kind, w)
		}
	}
}

func warnMissingBinaries(log logger.Interface, want []string, found []string) {
	haveBase := make(map[string]bool, len(found))
	for _, p := range found {
		haveBase[filepath.Base(p)] = true
	}
	for _, w := range want {
		if !haveBase[w] {
			log.Warningf("could not find binary %s", w)
		}
	}
}
