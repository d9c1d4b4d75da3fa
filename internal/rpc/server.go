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

package rpc

import (
	"encoding/gob"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/NVIDIA/go-nvml/pkg/nvml"

	"github.com/NVIDIA/libnvidia-container/internal/logger"
	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
)

// Server runs in the forked, chrooted, privilege-dropped helper and serves
// RPCs against the NVML device slab. It never hands a raw nvml.Device value
// back across the wire; callers only ever see a Handle.
type Server struct {
	log    logger.Interface
	slab   sync.Map // Handle -> nvml.Device
	nextID uint64
}

// NewServer initializes NVML and returns a Server ready to Serve. Callers
// must Close it on shutdown.
func NewServer(log logger.Interface) (*Server, error) {
	if ret := nvml.Init(); ret != nvml.SUCCESS {
		return nil, fmt.Errorf("nvmlInit: %v", nvml.ErrorString(ret))
	}
	return &Server{log: log}, nil
}

// Close shuts the NVML library down.
func (s *Server) Close() {
	nvml.Shutdown()
}

// Serve runs the request/reply loop until the peer hangs up or sends a
// Shutdown request.
func (s *Server) Serve(conn net.Conn) {
	enc := gob.NewEncoder(conn)
	dec := gob.NewDecoder(conn)

	for {
		var req request
		if err := dec.Decode(&req); err != nil {
			if err != io.EOF {
				s.log.Debugf("rpc: decode error: %v", err)
			}
			return
		}

		r := s.dispatch(req)
		if err := enc.Encode(r); err != nil {
			s.log.Debugf("rpc: encode error: %v", err)
			return
		}

		if req.Method == methodShutdown {
			return
		}
	}
}

func (s *Server) dispatch(req request) reply {
	switch req.Method {
	case methodInit:
		return ok(nil)
	case methodShutdown:
		return ok(nil)
	case methodRMVersion:
		v, ret := nvml.SystemGetDriverVersion()
		if ret != nvml.SUCCESS {
			return fail(ret)
		}
		return ok(v)
	case methodCUDAVersion:
		v, ret := nvml.SystemGetCudaDriverVersion()
		if ret != nvml.SUCCESS {
			return fail(ret)
		}
		return ok(cudaVersionResult{Major: v / 1000, Minor: (v % 1000) / 10})
	case methodDeviceCount:
		n, ret := nvml.DeviceGetCount()
		if ret != nvml.SUCCESS {
			return fail(ret)
		}
		return ok(n)
	case methodDevice:
		args, ok1 := req.Args.(deviceArgs)
		if !ok1 {
			return failMsg("bad arguments")
		}
		dev, ret := nvml.DeviceGetHandleByIndex(args.Index)
		if ret != nvml.SUCCESS {
			return fail(ret)
		}
		return ok(s.store(dev))
	case methodDeviceMinor:
		dev, r := s.lookup(req.Args)
		if r != nil {
			return *r
		}
		minor, ret := dev.GetMinorNumber()
		if ret != nvml.SUCCESS {
			return fail(ret)
		}
		return ok(uint32(minor))
	case methodDeviceBusid:
		dev, r := s.lookup(req.Args)
		if r != nil {
			return *r
		}
		info, ret := dev.GetPciInfo()
		if ret != nvml.SUCCESS {
			return fail(ret)
		}
		return ok(fmt.Sprintf("%08x:%02x:%02x.0", info.Domain, info.Bus, info.Device))
	case methodDeviceUUID:
		dev, r := s.lookup(req.Args)
		if r != nil {
			return *r
		}
		uuid, ret := dev.GetUUID()
		if ret != nvml.SUCCESS {
			return fail(ret)
		}
		return ok(uuid)
	case methodDeviceModel:
		dev, r := s.lookup(req.Args)
		if r != nil {
			return *r
		}
		name, ret := dev.GetName()
		if ret != nvml.SUCCESS {
			return fail(ret)
		}
		return ok(name)
	case methodDeviceBrand:
		dev, r := s.lookup(req.Args)
		if r != nil {
			return *r
		}
		brand, ret := dev.GetBrand()
		if ret != nvml.SUCCESS {
			return fail(ret)
		}
		return ok(brandString(brand))
	case methodDeviceArch:
		dev, r := s.lookup(req.Args)
		if r != nil {
			return *r
		}
		major, minor, ret := dev.GetCudaComputeCapability()
		if ret != nvml.SUCCESS {
			return fail(ret)
		}
		return ok(archResult{Major: major, Minor: minor})
	default:
		return failMsg("unknown method: " + req.Method)
	}
}

func (s *Server) store(dev nvml.Device) Handle {
	id := atomic.AddUint64(&s.nextID, 1)
	h := Handle(id)
	s.slab.Store(h, dev)
	return h
}

func (s *Server) lookup(args interface{}) (nvml.Device, *reply) {
	ha, okArgs := args.(handleArgs)
	if !okArgs {
		r := failMsg("bad arguments")
		return nil, &r
	}
	v, found := s.slab.Load(ha.Handle)
	if !found {
		r := failMsg("invalid device handle")
		return nil, &r
	}
	return v.(nvml.Device), nil
}

func ok(result interface{}) reply {
	return reply{OK: true, Result: result}
}

// fail and failMsg render an ncerror.Error so the wire ErrCode/ErrMsg pair
// matches this module's single structured error model end to end, on both
// sides of the RPC boundary.
func fail(ret nvml.Return) reply {
	e := ncerror.FromVendor("nvml call failed", nvml.ErrorString(ret))
	return reply{OK: false, ErrCode: int(e.Code), ErrMsg: e.Message}
}

func failMsg(msg string) reply {
	e := ncerror.New(ncerror.RPC, "rpc error", msg)
	return reply{OK: false, ErrCode: int(e.Code), ErrMsg: e.Message}
}

func brandString(b nvml.BrandType) string {
	switch b {
	case nvml.BRAND_TESLA:
		return "Tesla"
	case nvml.BRAND_QUADRO:
		return "Quadro"
	case nvml.BRAND_NVS:
		return "NVS"
	case nvml.BRAND_GRID:
		return "Grid"
	case nvml.BRAND_GEFORCE:
		return "GeForce"
	case nvml.BRAND_TITAN:
		return "Titan"
	default:
		return "Unknown"
	}
}
