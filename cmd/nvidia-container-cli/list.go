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

	"github.com/NVIDIA/libnvidia-container/pkg/nvc"
)

// listCommand prints the binaries, libraries, and device nodes a given
// capability set would inject, without touching any container.
func listCommand(opts *globalOptions) *cli.Command {
	var capsStr string
	return &cli.Command{
		Name:  "list",
		Usage: "list the driver artifacts a capability set would inject",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "capabilities",
				Aliases:     []string{"caps"},
				Value:       "utility",
				Destination: &capsStr,
				Usage:       "space-separated container capabilities (utility, compute, video, graphics, display, compat32)",
			},
		},
		Action: func(c *cli.Context) error {
			log, closeLog, err := opts.logger()
			if err != nil {
				return err
			}
			defer closeLog() //nolint:errcheck

			containerOpts, err := parseListCapabilities(capsStr)
			if err != nil {
				return err
			}

			ctx, err := opts.newContext(log)
			if err != nil {
				return err
			}
			defer ctx.Shutdown() //nolint:errcheck

			info, err := nvc.DriverInfoNew(ctx, containerOpts, 0)
			if err != nil {
				return fmt.Errorf("%v: %v", err, ctx.LastError())
			}

			for _, b := range info.Bins {
				fmt.Println(b)
			}
			for _, l := range info.Libs {
				fmt.Println(l)
			}
			for _, l := range info.Libs32 {
				fmt.Println(l)
			}
			for _, i := range info.IPCs {
				fmt.Println(i)
			}
			for _, d := range info.Devs {
				fmt.Println(d)
			}
			return nil
		},
	}
}
