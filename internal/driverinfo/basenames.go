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

package driverinfo

// Fixed basename tables, spec.md §6. Every assembler step draws its
// candidate set from exactly these, never a directory listing.
var (
	utilityBinaries = []string{"nvidia-smi", "nvidia-debugdump", "nvidia-persistenced"}
	computeBinaries = []string{"nvidia-cuda-mps-control", "nvidia-cuda-mps-server"}

	utilityLibs  = []string{"libnvidia-ml.so", "libnvidia-cfg.so"}
	computeLibs  = []string{"libcuda.so", "libnvidia-opencl.so", "libnvidia-ptxjitcompiler.so", "libnvidia-fatbinaryloader.so", "libnvidia-compiler.so"}
	videoLibs    = []string{"libvdpau_nvidia.so", "libnvidia-encode.so", "libnvidia-opticalflow.so", "libnvcuvid.so"}
	graphicsLibs = []string{"libnvidia-eglcore.so", "libnvidia-glcore.so", "libnvidia-tls.so", "libnvidia-glsi.so", "libnvidia-fbc.so", "libnvidia-ifr.so"}

	glvndGraphicsLibs  = []string{"libGLX_nvidia.so", "libEGL_nvidia.so", "libGLESv2_nvidia.so", "libGLESv1_CM_nvidia.so", "libnvidia-glvkspirv.so"}
	legacyGraphicsLibs = []string{"libGL.so", "libEGL.so", "libGLESv1_CM.so", "libGLESv2.so"}
)

const (
	devNodeMajor  = 195
	ctlMinor      = 255
	modesetMinor  = 254
	pathDevPrefix = "/dev/nvidia"
)
