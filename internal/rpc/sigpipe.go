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
	"os"
	"os/signal"
	"sync"

	"golang.org/x/sys/unix"
)

var sigpipeMu sync.Mutex
var sigpipeDepth int
var sigpipeCh chan os.Signal

// ignoreSIGPIPE installs a SIGPIPE handler for the duration of one RPC call
// so a helper that dies mid-write raises an error on the socket instead of
// killing the parent. Calls nest: the signal is only restored to default
// once the outermost caller releases it.
func ignoreSIGPIPE() func() {
	sigpipeMu.Lock()
	defer sigpipeMu.Unlock()

	sigpipeDepth++
	if sigpipeDepth == 1 {
		sigpipeCh = make(chan os.Signal, 1)
		signal.Notify(sigpipeCh, unix.SIGPIPE)
	}

	return func() {
		sigpipeMu.Lock()
		defer sigpipeMu.Unlock()

		sigpipeDepth--
		if sigpipeDepth == 0 {
			signal.Stop(sigpipeCh)
			sigpipeCh = nil
		}
	}
}
