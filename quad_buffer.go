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
	"math"

	"github.com/gogpu/gputypes"
	"goarrg.com/rhi/interconnect/internal/quads"
	"goarrg.com/rhi/interconnect/internal/util"
)

const quadIndexFormat = gputypes.IndexFormatUint32

/*
quadConversionBuffer is a growing index buffer that draws quad lists as triangle lists.
It always holds the indices of every whole quad that fits in it, so any range that
fits can be drawn from it without regenerating. Every executor flush cycle that
draws from it holds a reference, the core holds another until the buffer is replaced.
*/
type quadConversionBuffer struct {
	buffer   *util.RefCounted[Buffer]
	attached bool
}

// obtain returns the byte offset of the indices for the quad list vertices [firstVertex, firstVertex+count).
func (q *quadConversionBuffer) obtain(ctx *Context, alignment uint64, count, firstVertex uint32) uint64 {
	indexSize := uint64(quadIndexFormat.Size())
	offset := quads.RequiredBufferSize(firstVertex, indexSize)
	size := offset + quads.RequiredBufferSize(count, indexSize)

	if q.buffer == nil || q.buffer.Get().Size() < size {
		buffer := ctx.Memory.AllocateBuffer(alignUp(max(size, 1), alignment), BufferUsageIndexBuffer)
		if buffer.Size() < size {
			abort("MemoryAllocator returned a buffer of %d bytes when asked for at least %d", buffer.Size(), size)
		}

		numQuads := min(buffer.Size()/(indexSize*quads.IndicesPerQuad), math.MaxUint32/quads.VerticesPerQuad)
		indices := make([]uint32, numQuads*quads.IndicesPerQuad)
		quads.Generate(indices, uint32(numQuads*quads.VerticesPerQuad))
		util.HostWriteSlice(buffer, 0, indices)

		instance.logger.VPrintf("Allocated quad conversion buffer of %d bytes holding %d quads", buffer.Size(), numQuads)

		q.release()
		q.buffer = util.NewRefCounted(buffer)
	}

	if !q.attached {
		ctx.Executor.AttachDependency(q.buffer.Acquire())
		q.attached = true
	}

	return offset
}

func (q *quadConversionBuffer) binding(offset uint64) BufferBinding {
	return BufferBinding{Buffer: q.buffer.Get().Handle(), Offset: offset}
}

// detach forgets the executor's reference, the next obtain attaches a new one.
func (q *quadConversionBuffer) detach() {
	q.attached = false
}

// release drops the core's reference, in flight submissions keep theirs.
func (q *quadConversionBuffer) release() {
	if q.buffer != nil {
		q.buffer.Release()
		q.buffer = nil
	}
	q.attached = false
}
