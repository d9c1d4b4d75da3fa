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
	"github.com/NVIDIA/libnvidia-container/internal/config"
	"github.com/NVIDIA/libnvidia-container/internal/ldconfig"
	"github.com/NVIDIA/libnvidia-container/internal/mount"
	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
)

var errNoDriverMount = ncerror.New(ncerror.Invalid, "device_mount", "driver_mount has not been called for this container")

// DriverMount injects info's host driver artifacts into cc's container,
// spec.md §6's driver_mount(ctx, cnt, info). When the allow-additional-gids
// feature is enabled, cc.AdditionalGIDs is populated with the supplementary
// group ids the container's init process needs to access the injected
// device nodes.
func DriverMount(ctx *Context, cc *ContainerConfig, info *DriverInfo) error {
	plan := mount.NewPlan(cc.resolved, info, cc.Flags, ctx.log)
	if err := plan.Apply(); err != nil {
		return ctx.fail(err)
	}
	cc.plan = plan
	if ctx.cfg.Features != nil && ctx.cfg.Features.FeatureEnabled(config.FeatureAllowAdditionalGIDs) {
		cc.AdditionalGIDs = plan.AdditionalGIDs()
	}
	return nil
}

// DeviceMount injects a single GPU's device nodes and PCI-sysfs/EGL
// bookkeeping into cc's container, spec.md §6's device_mount(ctx, cnt,
// dev). DriverMount must have already run so a Plan exists for cc.
func DeviceMount(ctx *Context, cc *ContainerConfig, dev *DeviceInfo) error {
	if cc.plan == nil {
		return ctx.fail(errNoDriverMount)
	}
	if err := cc.plan.MountGPU(*dev); err != nil {
		return ctx.fail(err)
	}
	return nil
}

// LdcacheUpdate refreshes cc's container's ld.so.cache to reflect the
// libraries DriverMount injected, spec.md §6's ldcache_update(ctx, cnt).
func LdcacheUpdate(ctx *Context, cc *ContainerConfig) error {
	var insecure bool
	if ctx.cfg.Features != nil {
		insecure = ctx.cfg.Features.InsecureMode()
	}
	req := ldconfig.Request{
		MountNsPath:  cc.resolved.MountNsPath,
		Rootfs:       cc.resolved.Rootfs,
		LibsDir:      cc.resolved.LibsDir,
		Libs32Dir:    cc.resolved.Libs32Dir,
		LdconfigPath: cc.resolved.Ldconfig,
		UID:          int(cc.resolved.UID),
		GID:          int(cc.resolved.GID),
		InsecureMode: insecure,
	}
	if err := ldconfig.Update(req, ctx.log); err != nil {
		return ctx.fail(err)
	}
	return nil
}
