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

package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/NVIDIA/libnvidia-container/internal/dsl"
	"github.com/NVIDIA/libnvidia-container/internal/options"
	"github.com/NVIDIA/libnvidia-container/pkg/nvc"
)

// configureCommand runs the full driver-info -> container -> driver_mount
// -> device_mount -> ldcache_update flow against a running container,
// spec.md §4's end-to-end sequence.
func configureCommand(opts *globalOptions) *cli.Command {
	var (
		pid           int
		capsStr       string
		driverOptsStr string
		devices       cli.StringSlice
		requireStr    string
	)
	return &cli.Command{
		Name:      "configure",
		Usage:     "configure a running container to use NVIDIA GPUs",
		ArgsUsage: "ROOTFS",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "pid", Destination: &pid, Required: true, Usage: "pid of the container's init process"},
			&cli.StringFlag{Name: "capabilities", Aliases: []string{"caps"}, Value: options.DefaultContainerOpts, Destination: &capsStr},
			&cli.StringFlag{Name: "driver-opts", Destination: &driverOptsStr},
			&cli.StringSliceFlag{Name: "device", Destination: &devices, Usage: "device index/uuid/busid to expose, repeatable; omit for none"},
			&cli.StringFlag{Name: "require", Destination: &requireStr, Usage: "requirement expression, spec.md's DSL"},
		},
		Action: func(c *cli.Context) error {
			rootfs := c.Args().First()
			if rootfs == "" {
				return fmt.Errorf("configure requires a ROOTFS argument")
			}

			log, closeLog, err := opts.logger()
			if err != nil {
				return err
			}
			defer closeLog() //nolint:errcheck

			containerOpts, err := options.ParseContainerOpts(capsStr)
			if err != nil {
				return err
			}
			driverOpts, err := options.ParseDriverOpts(driverOptsStr)
			if err != nil {
				return err
			}

			ctx, err := opts.newContext(log)
			if err != nil {
				return err
			}
			defer ctx.Shutdown() //nolint:errcheck

			info, err := nvc.DriverInfoNew(ctx, containerOpts, driverOpts)
			if err != nil {
				return fmt.Errorf("%v: %v", err, ctx.LastError())
			}

			if requireStr != "" {
				cudaVersion := fmt.Sprintf("%d.%d", info.CUDAMajor, info.CUDAMinor)
				if err := dsl.Evaluate(requireStr, dsl.Facts{Driver: info.RMVersion, CUDA: cudaVersion}); err != nil {
					return err
				}
			}

			cc, err := nvc.NewContainerConfig(pid, rootfs, containerOpts)
			if err != nil {
				return fmt.Errorf("%v: %v", err, ctx.LastError())
			}

			if err := nvc.DriverMount(ctx, cc, info); err != nil {
				return fmt.Errorf("%v: %v", err, ctx.LastError())
			}

			for _, spec := range devices.Value() {
				dev, ok := resolveDevice(info, spec)
				if !ok {
					return fmt.Errorf("no such device: %s", spec)
				}
				if requireStr != "" {
					cudaVersion := fmt.Sprintf("%d.%d", info.CUDAMajor, info.CUDAMinor)
					facts := dsl.Facts{
						Driver: info.RMVersion,
						CUDA:   cudaVersion,
						Device: &dsl.DeviceFacts{Arch: fmt.Sprintf("%d.%d", dev.Arch.Major, dev.Arch.Minor), Brand: dev.Brand},
					}
					if err := dsl.Evaluate(requireStr, facts); err != nil {
						return err
					}
				}
				if err := nvc.DeviceMount(ctx, cc, dev); err != nil {
					return fmt.Errorf("%v: %v", err, ctx.LastError())
				}
			}

			if err := nvc.LdcacheUpdate(ctx, cc); err != nil {
				return fmt.Errorf("%v: %v", err, ctx.LastError())
			}
			return nil
		},
	}
}

// resolveDevice matches spec by index, uuid, or busid against info's
// assembled device list, spec.md §6's device selector syntax.
func resolveDevice(info *nvc.DriverInfo, spec string) (*nvc.DeviceInfo, bool) {
	for i := range info.Devices {
		d := &info.Devices[i]
		if fmt.Sprintf("%d", d.Index) == spec || d.UUID == spec || d.Busid == spec {
			return d, true
		}
	}
	return nil, false
}
