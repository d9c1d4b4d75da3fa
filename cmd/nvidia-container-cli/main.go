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

// Command nvidia-container-cli is a thin collaborator front-end over
// pkg/nvc (spec.md §6's "CLI surface, for context only"): it parses the
// global flags, resolves a container's pid/rootfs into a ContainerConfig,
// and dispatches to the info/list/configure subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/NVIDIA/libnvidia-container/internal/ldconfig"
	"github.com/NVIDIA/libnvidia-container/internal/logger"
	"github.com/NVIDIA/libnvidia-container/internal/rpc"
)

func main() {
	// Both the driver RPC helper and the ldconfig sandbox are the same
	// binary re-exec'd with a marker env var; dispatch to them before any
	// CLI flag parsing happens, exactly as the parent side expects.
	if rpc.IsChild() {
		rpc.RunHelper(logger.New())
		return
	}
	if ldconfig.IsChild() {
		ldconfig.RunSandbox(logger.New())
		return
	}

	opts := &globalOptions{}
	app := &cli.App{
		Name:  "nvidia-container-cli",
		Usage: "configure a container to run with NVIDIA GPU support",
		Flags: opts.flags(),
		Commands: []*cli.Command{
			infoCommand(opts),
			listCommand(opts),
			configureCommand(opts),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "nvidia-container-cli: %v\n", err)
		os.Exit(1)
	}
}
