/*
Copyright 2025 The goARRG Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package interconnect

import (
	"strings"

	"goarrg.com/rhi/interconnect/internal/util"
)

// Bit values match VkBufferUsageFlagBits.
type BufferUsageFlags uint32

const (
	BufferUsageTransferSrc        BufferUsageFlags = 0x00000001
	BufferUsageTransferDst        BufferUsageFlags = 0x00000002
	BufferUsageUniformTexelBuffer BufferUsageFlags = 0x00000004
	BufferUsageStorageTexelBuffer BufferUsageFlags = 0x00000008
	BufferUsageUniformBuffer      BufferUsageFlags = 0x00000010
	BufferUsageStorageBuffer      BufferUsageFlags = 0x00000020
	BufferUsageIndexBuffer        BufferUsageFlags = 0x00000040
	BufferUsageVertexBuffer       BufferUsageFlags = 0x00000080
	BufferUsageIndirectBuffer     BufferUsageFlags = 0x00000100
)

func (u BufferUsageFlags) HasBits(want BufferUsageFlags) bool {
	return hasBits(u, want)
}

func (u BufferUsageFlags) String() string {
	str := ""
	if u.HasBits(BufferUsageTransferSrc) {
		str += "TransferSrc|"
	}
	if u.HasBits(BufferUsageTransferDst) {
		str += "TransferDst|"
	}
	if u.HasBits(BufferUsageUniformTexelBuffer) {
		str += "UniformTexelBuffer|"
	}
	if u.HasBits(BufferUsageStorageTexelBuffer) {
		str += "StorageTexelBuffer|"
	}
	if u.HasBits(BufferUsageUniformBuffer) {
		str += "UniformBuffer|"
	}
	if u.HasBits(BufferUsageStorageBuffer) {
		str += "StorageBuffer|"
	}
	if u.HasBits(BufferUsageIndexBuffer) {
		str += "IndexBuffer|"
	}
	if u.HasBits(BufferUsageVertexBuffer) {
		str += "VertexBuffer|"
	}
	if u.HasBits(BufferUsageIndirectBuffer) {
		str += "IndirectBuffer|"
	}
	return strings.TrimSuffix(str, "|")
}

// BufferHandle is an opaque API buffer handle, e.g. a VkBuffer.
type BufferHandle uintptr

type BufferBinding struct {
	Buffer BufferHandle
	Offset uint64
}

// Buffer is host visible GPU memory owned by whoever allocated it,
// Destroy must only be called once nothing in flight references it.
type Buffer interface {
	util.HostWriter
	Destroyer

	Handle() BufferHandle
	Usage() BufferUsageFlags
	Size() uint64
}

type MemoryAllocator interface {
	// AllocateBuffer returns a host visible buffer of at least size bytes.
	AllocateBuffer(size uint64, usage BufferUsageFlags) Buffer
}
