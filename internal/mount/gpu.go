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

package mount

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/NVIDIA/libnvidia-container/internal/driverinfo"
	"github.com/NVIDIA/libnvidia-container/internal/fs"
	"github.com/NVIDIA/libnvidia-container/internal/options"
)

const gpuProcDirFmt = "/proc/driver/nvidia/gpus/%s"

const eglConfigPath = "/etc/nvidia/nvidia-application-profiles-rc.d/50-nvidia-egl-vkdisplay.json"

const eglVisibleDGPUDevicesKey = "EGLVisibleDGPUDevices"

// mountGPU is step 8, called once per selected device: it mounts that GPU's
// procfs directory and device node, and for graphics containers flips its
// bit in the EGLVisibleDGPUDevices bitmap.
func (p *Plan) mountGPU(dev driverinfo.DeviceInfo) error {
	uid, gid := int(p.cfg.UID), int(p.cfg.GID)

	gpuProcDir, err := resolveGPUProcDir(dev.Busid)
	if err != nil {
		return err
	}
	if gpuProcDir != "" {
		if err := p.bindDir(gpuProcDir, uid, gid); err != nil {
			return err
		}
	}

	devPath := fmt.Sprintf("/dev/nvidia%d", dev.Minor)
	if err := bindFile(devPath, devPath, uid, gid, unix.MS_NOSUID|unix.MS_NOEXEC); err != nil {
		return err
	}
	p.record(devPath)

	if p.containerOpts&options.OptGraphics != 0 {
		if err := setEGLVisible(dev.Minor); err != nil {
			p.log.Warningf("could not update EGL visible device bitmap: %v", err)
		}
	}

	return nil
}

// resolveGPUProcDir probes both the 32-bit domain (dddddddd:bb:dd.d) and
// 16-bit domain (dddd:bb:dd.d) forms of the busid, matching nvc_mount.c's
// two-candidate loop; the distilled spec names only the probe, not the
// second candidate form.
func resolveGPUProcDir(busid string) (string, error) {
	candidates := []string{busid}
	if idx := strings.IndexByte(busid, ':'); idx == 8 {
		candidates = append(candidates, busid[4:])
	}

	for _, c := range candidates {
		dir := fmt.Sprintf(gpuProcDirFmt, c)
		if _, err := os.Stat(dir); err == nil {
			return dir, nil
		}
	}
	return "", nil
}

func (p *Plan) bindDir(src string, uid, gid int) error {
	dst := src
	if err := fs.CreateFile(fs.KindDirectory, dst, nil, uid, gid, 0555); err != nil {
		return err
	}
	if err := fs.Mount(src, dst, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
		return err
	}
	p.record(dst)
	return nil
}

// setEGLVisible reads the application-profile JSON object, ORs in 1<<minor
// under EGLVisibleDGPUDevices, and writes it back.
func setEGLVisible(minor uint32) error {
	data, err := os.ReadFile(eglConfigPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	var bitmap uint64
	if n, ok := doc[eglVisibleDGPUDevicesKey].(float64); ok {
		bitmap = uint64(n)
	}
	bitmap |= 1 << minor
	doc[eglVisibleDGPUDevicesKey] = bitmap

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(eglConfigPath, out, 0644)
}
