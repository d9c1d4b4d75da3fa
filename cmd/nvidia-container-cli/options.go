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
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/NVIDIA/libnvidia-container/internal/logger"
	"github.com/NVIDIA/libnvidia-container/internal/options"
	"github.com/NVIDIA/libnvidia-container/pkg/nvc"
)

// globalOptions binds spec.md §6's CLI surface global flags: --debug FILE,
// --load-kmods, --user UID[:GID], --ldcache PATH, --root PATH.
type globalOptions struct {
	debugFile   string
	loadKmods   bool
	user        string
	ldcache     string
	root        string
}

func (o *globalOptions) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "debug",
			Usage:       "log to `FILE` in addition to stderr",
			Destination: &o.debugFile,
		},
		&cli.BoolFlag{
			Name:        "load-kmods",
			Usage:       "trigger kernel module loading before querying the driver",
			Destination: &o.loadKmods,
		},
		&cli.StringFlag{
			Name:        "user",
			Usage:       "drop privileges to `UID[:GID]` inside the sandboxed helpers",
			Destination: &o.user,
		},
		&cli.StringFlag{
			Name:        "ldcache",
			Usage:       "path to the dynamic linker cache",
			Value:       "/etc/ld.so.cache",
			Destination: &o.ldcache,
		},
		&cli.StringFlag{
			Name:        "root",
			Usage:       "path to the driver root filesystem",
			Value:       "/",
			Destination: &o.root,
		},
	}
}

func (o *globalOptions) logger() (logger.Interface, func() error, error) {
	return logger.NewDebugFile(o.debugFile)
}

func (o *globalOptions) libraryOpts() options.LibraryOpts {
	var opts options.LibraryOpts
	if o.loadKmods {
		opts |= options.OptLoadKmods
	}
	return opts
}

// uidGID splits --user's UID[:GID] form.
func (o *globalOptions) uidGID() (int, int, error) {
	if o.user == "" {
		return -1, -1, nil
	}
	parts := strings.SplitN(o.user, ":", 2)
	uid, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --user uid %q: %w", parts[0], err)
	}
	if len(parts) == 1 {
		return uid, uid, nil
	}
	gid, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid --user gid %q: %w", parts[1], err)
	}
	return uid, gid, nil
}

// parseListCapabilities parses the "list" subcommand's capability tokens,
// implicitly adding "standalone" since list never touches a real
// container's namespaces.
func parseListCapabilities(s string) (options.ContainerOpts, error) {
	return options.ParseContainerOpts(s + " standalone")
}

// newContext builds an nvc.Context from the global flags and initializes
// it, forking the driver RPC helper.
func (o *globalOptions) newContext(log logger.Interface) (*nvc.Context, error) {
	uid, gid, err := o.uidGID()
	if err != nil {
		return nil, err
	}
	cfg := nvc.NewConfig(o.root, o.ldcache, o.libraryOpts())
	cfg.UnprivUID, cfg.UnprivGID = uid, gid

	ctx := nvc.NewContext(cfg, log)
	if err := ctx.Init(0); err != nil {
		return nil, err
	}
	return ctx, nil
}
