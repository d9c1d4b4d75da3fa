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
	"net"
	"os"
	"os/exec"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/NVIDIA/libnvidia-container/internal/logger"
	"github.com/NVIDIA/libnvidia-container/internal/ncerror"
)

// callTimeout is the per-call RPC timeout from spec.md §4.5.
const callTimeout = 10 * time.Second

// reapTimeout bounds how long Shutdown waits for a graceful hang-up before
// terminating the child, which is sent SIGTERM and then SIGKILL if it has
// not exited within 10x reapTimeout, per spec.md §4.5/§5.
const reapTimeout = 10 * time.Millisecond

// ChildEnvVar is set in the helper's environment to signal that the
// process should run as the RPC server rather than the normal CLI/library
// entry point, the re-exec idiom this module uses instead of a bare
// fork(2) (unsafe in a multi-threaded Go runtime).
const ChildEnvVar = "__NVC_RPC_HELPER__"

// Service wraps the parent side of the driver RPC channel: a forked helper
// process plus a client bound to its end of an AF_UNIX socketpair.
type Service struct {
	logger logger.Interface
	conn   net.Conn
	enc    *gob.Encoder
	dec    *gob.Decoder
	mu     sync.Mutex
	cmd    *exec.Cmd
}

// Config configures the RPC helper's chroot, privilege drop, and reset
// environment.
type Config struct {
	Root           string
	UnprivilegedUID int
	UnprivilegedGID int
}

// NewDriverService creates an AF_UNIX SOCK_STREAM socketpair, forks the
// helper (by re-executing this binary with ChildEnvVar set and the service
// end of the socketpair passed as an inherited file descriptor), and
// issues the initial Init RPC. On failure the child is terminated.
func NewDriverService(log logger.Interface, cfg Config) (*Service, error) {
	pair, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, ncerror.FromRPC("failed to perform handshake", err)
	}
	parentFD, childFD := pair[0], pair[1]

	self, err := os.Executable()
	if err != nil {
		unix.Close(parentFD)
		unix.Close(childFD)
		return nil, ncerror.FromRPC("failed to perform handshake", err)
	}

	childFile := os.NewFile(uintptr(childFD), "rpc-child-socket")
	cmd := exec.Command(self)
	cmd.Env = append(os.Environ(),
		ChildEnvVar+"=1",
		"__NVC_RPC_ROOT__="+cfg.Root,
		"__NVC_RPC_UID__="+itoa(cfg.UnprivilegedUID),
		"__NVC_RPC_GID__="+itoa(cfg.UnprivilegedGID),
	)
	cmd.ExtraFiles = []*os.File{childFile}
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &unix.SysProcAttr{Pdeathsig: unix.SIGTERM}

	if err := cmd.Start(); err != nil {
		unix.Close(parentFD)
		unix.Close(childFD)
		return nil, ncerror.FromRPC("failed to perform handshake", err)
	}
	childFile.Close()

	parentFile := os.NewFile(uintptr(parentFD), "rpc-parent-socket")
	conn, err := net.FileConn(parentFile)
	parentFile.Close()
	if err != nil {
		_ = cmd.Process.Kill()
		return nil, ncerror.FromRPC("failed to perform handshake", err)
	}

	s := &Service{
		logger: log,
		conn:   conn,
		enc:    gob.NewEncoder(conn),
		dec:    gob.NewDecoder(conn),
		cmd:    cmd,
	}

	if err := s.Init(); err != nil {
		s.terminate()
		return nil, err
	}

	return s, nil
}

func itoa(n int) string {
	if n < 0 {
		return "-1"
	}
	buf := [20]byte{}
	i := len(buf)
	if n == 0 {
		return "0"
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// call issues a single request/reply round trip under the per-call
// timeout, with SIGPIPE ignored for the duration so a crashed peer
// surfaces as an error rather than a signal.
func (s *Service) call(method string, args interface{}, result interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	restoreSigpipe := ignoreSIGPIPE()
	defer restoreSigpipe()

	_ = s.conn.SetDeadline(time.Now().Add(callTimeout))
	defer s.conn.SetDeadline(time.Time{})

	if err := s.enc.Encode(request{Method: method, Args: args}); err != nil {
		return ncerror.FromRPC("failed to process request", err)
	}

	var r reply
	if err := s.dec.Decode(&r); err != nil {
		if nerr, ok := err.(net.Error); ok && nerr.Timeout() {
			return ncerror.New(ncerror.RPC, "rpc error", "timed out waiting for reply")
		}
		return ncerror.FromRPC("failed to process request", err)
	}
	if !r.OK {
		return &ncerror.Error{Code: ncerror.Code(r.ErrCode), Message: r.ErrMsg}
	}
	if result != nil && r.Result != nil {
		copyResult(r.Result, result)
	}
	return nil
}

// copyResult does a best-effort shallow copy; gob decodes into concrete
// types registered in protocol.go, so a type switch suffices for this
// module's small, fixed set of result shapes.
func copyResult(src, dst interface{}) {
	switch d := dst.(type) {
	case *string:
		if s, ok := src.(string); ok {
			*d = s
		}
	case *int:
		if v, ok := src.(int); ok {
			*d = v
		}
	case *uint32:
		if v, ok := src.(uint32); ok {
			*d = v
		}
	case *Handle:
		if v, ok := src.(Handle); ok {
			*d = v
		}
	case *cudaVersionResult:
		if v, ok := src.(cudaVersionResult); ok {
			*d = v
		}
	case *archResult:
		if v, ok := src.(archResult); ok {
			*d = v
		}
	}
}

// Init issues the initialization RPC.
func (s *Service) Init() error {
	return s.call(methodInit, nil, nil)
}

// Shutdown sends the graceful shutdown RPC, then regardless of its result
// polls for the peer hanging up within reapTimeout, then sends the child
// SIGTERM, escalates to SIGKILL if it has not exited within 10x reapTimeout,
// and reaps it. The helper never outlives the parent.
func (s *Service) Shutdown() error {
	s.call(methodShutdown, nil, nil) //nolint:errcheck

	done := make(chan struct{})
	go func() {
		buf := make([]byte, 1)
		_ = s.conn.SetReadDeadline(time.Now().Add(reapTimeout))
		s.conn.Read(buf) //nolint:errcheck
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(reapTimeout):
	}

	s.terminate()
	return nil
}

func (s *Service) terminate() {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Signal(unix.SIGTERM)
		done := make(chan struct{})
		go func() {
			s.cmd.Wait() //nolint:errcheck
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(reapTimeout * 10):
			_ = s.cmd.Process.Kill()
			<-done
		}
	}
	if s.conn != nil {
		s.conn.Close()
	}
}

// RMVersion returns the NVIDIA management library's driver version string.
func (s *Service) RMVersion() (string, error) {
	var v string
	err := s.call(methodRMVersion, nil, &v)
	return v, err
}

// CUDAVersion returns the CUDA major.minor version derived from the driver
// library.
func (s *Service) CUDAVersion() (major, minor int, err error) {
	var v cudaVersionResult
	err = s.call(methodCUDAVersion, nil, &v)
	return v.Major, v.Minor, err
}

// DeviceCount returns the number of GPUs known to the driver.
func (s *Service) DeviceCount() (int, error) {
	var n int
	err := s.call(methodDeviceCount, nil, &n)
	return n, err
}

// Device returns an opaque handle for the device at index i.
func (s *Service) Device(i int) (Handle, error) {
	var h Handle
	err := s.call(methodDevice, deviceArgs{Index: i}, &h)
	return h, err
}

// DeviceMinor returns the device node minor number for h.
func (s *Service) DeviceMinor(h Handle) (uint32, error) {
	var m uint32
	err := s.call(methodDeviceMinor, handleArgs{Handle: h}, &m)
	return m, err
}

// DeviceBusid returns the "%08x:%02x:%02x.0" PCI bus id for h.
func (s *Service) DeviceBusid(h Handle) (string, error) {
	var v string
	err := s.call(methodDeviceBusid, handleArgs{Handle: h}, &v)
	return v, err
}

// DeviceUUID returns the device UUID for h.
func (s *Service) DeviceUUID(h Handle) (string, error) {
	var v string
	err := s.call(methodDeviceUUID, handleArgs{Handle: h}, &v)
	return v, err
}

// DeviceModel returns the device's marketing model name for h.
func (s *Service) DeviceModel(h Handle) (string, error) {
	var v string
	err := s.call(methodDeviceModel, handleArgs{Handle: h}, &v)
	return v, err
}

// DeviceBrand returns the device's brand tag for h.
func (s *Service) DeviceBrand(h Handle) (string, error) {
	var v string
	err := s.call(methodDeviceBrand, handleArgs{Handle: h}, &v)
	return v, err
}

// DeviceArch returns the device's compute capability (major, minor) for h.
func (s *Service) DeviceArch(h Handle) (major, minor int, err error) {
	var v archResult
	err = s.call(methodDeviceArch, handleArgs{Handle: h}, &v)
	return v.Major, v.Minor, err
}
