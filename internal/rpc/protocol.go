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

// Package rpc implements the driver RPC client/server (C5): a forked,
// chrooted, privilege-dropped helper that loads the NVIDIA user-space
// libraries and serves a small typed RPC so the parent's address space
// never links against them. Grounded on original_source/src/driver.c.
//
// The wire protocol is deliberately minimal: encoding/gob request/reply
// structs over a single AF_UNIX SOCK_STREAM socketpair. No third-party RPC
// framework in the retrieval pack (hcsshim's ttrpc/grpc stack is sized for
// many remote services, not one local child with twelve call types) fits a
// narrower footprint better than the standard library's gob codec, so this
// is this module's one additional standard-library carve-out beyond
// debug/elf — see SPEC_FULL.md's DOMAIN STACK section.
package rpc

import (
	"encoding/gob"
)

func init() {
	gob.Register(deviceArgs{})
	gob.Register(handleArgs{})
	gob.Register(cudaVersionResult{})
	gob.Register(archResult{})
	gob.Register("")
	gob.Register(0)
	gob.Register(uint32(0))
	gob.Register(Handle(0))
}

// Handle is an opaque token identifying a device in the child's address
// space. Per spec.md §9's re-architecture hint, this is a slab index, never
// a raw pointer/address value.
type Handle uint64

// method names exchanged on the wire.
const (
	methodInit          = "Init"
	methodShutdown      = "Shutdown"
	methodRMVersion     = "RMVersion"
	methodCUDAVersion   = "CUDAVersion"
	methodDeviceCount   = "DeviceCount"
	methodDevice        = "Device"
	methodDeviceMinor   = "DeviceMinor"
	methodDeviceBusid   = "DeviceBusid"
	methodDeviceUUID    = "DeviceUUID"
	methodDeviceModel   = "DeviceModel"
	methodDeviceBrand   = "DeviceBrand"
	methodDeviceArch    = "DeviceArch"
)

// request is the generic envelope; Args is method-specific and decoded by
// the server handler for that method.
type request struct {
	Method string
	Args   interface{}
}

// reply carries a structured (errcode, msg) pair on failure, matching
// spec.md §4.5's "all calls are request/reply with a structured
// (errcode, msg) field in the reply".
type reply struct {
	OK      bool
	ErrCode int
	ErrMsg  string
	Result  interface{}
}

type deviceArgs struct {
	Index int
}

type handleArgs struct {
	Handle Handle
}

type cudaVersionResult struct {
	Major, Minor int
}

type archResult struct {
	Major, Minor int
}
