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

// Package container resolves a target container's filesystem view, owning
// identity, mount-namespace path, device-cgroup path, and ldconfig/libs32
// layout from its pid and caller-supplied overrides. Grounded on
// original_source/src/nvc_container.c.
package container

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
	"github.com/NVIDIA/libnvidia-container/internal/options"
)

// Overrides lets the caller force values C7 would otherwise discover.
type Overrides struct {
	DeviceCgroup string // force the device-cgroup path
	Ldconfig     string // "" = probe, "@path" = host executable
	Libs32Dir    string // "" = platform-detect
}

// Config is the resolved container descriptor, spec.md §4.7.
type Config struct {
	Pid          int
	Rootfs       string
	ViewRoot     string // rootfs, or /proc/<pid>/root joined with rootfs when supervised
	UID, GID     uint32
	MountNsPath  string
	DeviceCgroup string
	Ldconfig     string
	LibsDir      string
	Libs32Dir    string
}

// New builds a Config for the container identified by pid, per spec.md
// §4.7's supervised/standalone split.
func New(pid int, rootfs string, flags options.ContainerOpts, overrides Overrides) (*Config, error) {
	procRoot := fmt.Sprintf("/proc/%d", pid)

	info, err := os.Stat(procRoot)
	if err != nil {
		return nil, ncerror.FromErrno("container error", err)
	}
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return nil, ncerror.New(ncerror.Missing, "container error", "cannot stat container init process")
	}

	cfg := &Config{
		Pid:    pid,
		Rootfs: rootfs,
		UID:    stat.Uid,
		GID:    stat.Gid,
	}

	// Standalone mode: rootfs is used verbatim for every resolve, including
	// the mount-namespace path itself, since the caller's own /proc view may
	// not be the host's. Supervised mode: a composite "view root" is formed
	// for file resolves, but /proc/<pid>/ns/mnt is directly reachable from
	// the host's own /proc and needs no rootfs prefix.
	rootfsPrefix := ""
	if flags&options.OptSupervised != 0 {
		cfg.ViewRoot = filepath.Join(procRoot, "root", rootfs)
	} else {
		cfg.ViewRoot = rootfs
		rootfsPrefix = rootfs
	}

	cfg.MountNsPath = filepath.Join(rootfsPrefix, procRoot, "ns", "mnt")

	if flags&options.OptNoCgroups == 0 {
		cgroupPath, err := deviceCgroupPath(pid, rootfsPrefix)
		if err != nil {
			return nil, err
		}
		cfg.DeviceCgroup = cgroupPath
	}
	if overrides.DeviceCgroup != "" {
		cfg.DeviceCgroup = overrides.DeviceCgroup
	}

	cfg.Ldconfig = overrides.Ldconfig
	if cfg.Ldconfig == "" {
		cfg.Ldconfig = probeLdconfig(cfg.ViewRoot)
	}

	cfg.LibsDir = "/usr/lib"
	cfg.Libs32Dir = overrides.Libs32Dir
	if cfg.Libs32Dir == "" {
		cfg.Libs32Dir = libs32Dir(cfg.ViewRoot)
	}

	return cfg, nil
}

// probeLdconfig implements spec.md §4.7's "otherwise probe the rootfs for
// /sbin/ldconfig.real; fall back to /sbin/ldconfig".
func probeLdconfig(viewRoot string) string {
	for _, candidate := range []string{"/sbin/ldconfig.real", "/sbin/ldconfig"} {
		if _, err := os.Stat(filepath.Join(viewRoot, candidate)); err == nil {
			return candidate
		}
	}
	return "/sbin/ldconfig"
}

// libs32Dir implements spec.md §4.7's Debian-multiarch detection.
func libs32Dir(viewRoot string) string {
	if _, err := os.Stat(filepath.Join(viewRoot, "/etc/debian_version")); err == nil {
		return "/usr/lib/i386-linux-gnu"
	}
	if _, err := os.Stat(filepath.Join(viewRoot, "/usr/lib32")); err == nil {
		return "/usr/lib32"
	}
	return "/usr/lib"
}
