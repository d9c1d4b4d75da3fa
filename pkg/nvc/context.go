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
	"github.com/NVIDIA/libnvidia-container/internal/logger"
	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
	"github.com/NVIDIA/libnvidia-container/internal/options"
	"github.com/NVIDIA/libnvidia-container/internal/rpc"
)

// Context is the live library handle, spec.md §6's context_new/free: it
// owns the driver RPC helper process and the last error reported by any
// call made through it.
type Context struct {
	cfg *Config
	log logger.Interface
	svc *rpc.Service

	lastErr *ncerror.Error
}

// NewContext allocates a Context without starting the driver helper; call
// Init to fork it.
func NewContext(cfg *Config, log logger.Interface) *Context {
	return &Context{cfg: cfg, log: log}
}

// Init forks the driver RPC helper and initializes NVML inside it,
// spec.md §6's init(ctx, cfg, opts). NewDriverService performs the
// handshake and issues the initial Init RPC itself.
func (c *Context) Init(driverOpts options.DriverOpts) error {
	svc, err := rpc.NewDriverService(c.log, rpc.Config{
		Root:            c.cfg.Root,
		UnprivilegedUID: c.cfg.UnprivUID,
		UnprivilegedGID: c.cfg.UnprivGID,
	})
	if err != nil {
		return c.fail(err)
	}
	c.svc = svc
	return nil
}

// Shutdown terminates the driver RPC helper, spec.md §6's shutdown(ctx).
func (c *Context) Shutdown() error {
	if c.svc == nil {
		return nil
	}
	err := c.svc.Shutdown()
	c.svc = nil
	if err != nil {
		return c.fail(err)
	}
	return nil
}

// LastError returns the most recently reported error's message, or "" if
// none, spec.md §6's error(ctx) -> string | nil.
func (c *Context) LastError() string {
	if c.lastErr == nil {
		return ""
	}
	return c.lastErr.Error()
}

func (c *Context) fail(err error) error {
	if e, ok := err.(*ncerror.Error); ok {
		c.lastErr = e
	} else if err != nil {
		c.lastErr = ncerror.New(ncerror.Protocol, "nvc error", err.Error())
	}
	return err
}
