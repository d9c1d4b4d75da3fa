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

// infoCommand prints the driver (NVRM) and CUDA versions followed by
// per-GPU detail. Binaries, libraries, IPCs and device nodes are not
// printed here; the list subcommand prints those.
func infoCommand(opts *globalOptions) *cli.Command {
	var csv bool
	return &cli.Command{
		Name:  "info",
		Usage: "report driver and device information",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "csv", Destination: &csv, Usage: "print device info as CSV"},
		},
		Action: func(c *cli.Context) error {
			log, closeLog, err := opts.logger()
			if err != nil {
				return err
			}
			defer closeLog() //nolint:errcheck

			ctx, err := opts.newContext(log)
			if err != nil {
				return err
			}
			defer ctx.Shutdown() //nolint:errcheck

			info, err := nvc.DriverInfoNew(ctx, 0, 0)
			if err != nil {
				return fmt.Errorf("%v: %v", err, ctx.LastError())
			}

			fmt.Printf("NVRM version:   %s\n", info.RMVersion)
			fmt.Printf("CUDA version:   %d.%d\n", info.CUDAMajor, info.CUDAMinor)
			fmt.Println()
			for _, d := range info.Devices {
				if csv {
					fmt.Printf("%d,%s,%s,%s,%s\n", d.Index, d.Busid, d.UUID, d.Model, d.Brand)
					continue
				}
				fmt.Printf("Device Index:   %d\n", d.Index)
				fmt.Printf("Device Minor:   %d\n", d.Minor)
				fmt.Printf("Model:          %s\n", d.Model)
				fmt.Printf("Brand:          %s\n", d.Brand)
				fmt.Printf("GPU UUID:       %s\n", d.UUID)
				fmt.Printf("Bus Location:   %s\n", d.Busid)
				fmt.Printf("Architecture:   %d.%d\n", d.Arch.Major, d.Arch.Minor)
				fmt.Println()
			}
			return nil
		},
	}
}
