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
	"fmt"

	"github.com/gogpu/gputypes"
)

// MaxConstantBuffersPerStage is the number of constant buffer slots per shader stage.
const MaxConstantBuffersPerStage = 18

// Context is the set of engine wide services shared by every channel.
type Context struct {
	Executor    Executor
	Memory      MemoryAllocator
	Descriptors DescriptorAllocator
	ClearHelper ClearHelper
}

func (c *Context) validate() {
	if c == nil {
		abort("Context is nil")
	}
	if c.Executor == nil {
		abort("Context.Executor is nil")
	}
	if c.Memory == nil {
		abort("Context.Memory is nil")
	}
	if c.Descriptors == nil {
		abort("Context.Descriptors is nil")
	}
	if c.ClearHelper == nil {
		abort("Context.ClearHelper is nil")
	}
}

// QuickBind identifies the single constant buffer rebound since the last draw.
type QuickBind struct {
	Stage ShaderStage
	Index uint32
}

func (q QuickBind) String() string {
	return fmt.Sprintf("%s[%d]", q.Stage, q.Index)
}

// ConstantBuffer is a bound constant buffer, a zero Size means the slot is unbound.
type ConstantBuffer struct {
	Binding BufferBinding
	Size    uint32
}

type ConstantBufferSet [ShaderStageCount][MaxConstantBuffersPerStage]ConstantBuffer

/*
ConstantBuffers is the dirty tracked constant buffer selector.
Quick bind stays enabled until explicitly disabled or a flush happens, while it
is enabled QuickBind reports the one buffer rebound since ResetQuickBind if
exactly one was.
*/
type ConstantBuffers interface {
	Load(ctx *Context, data []uint32, offset uint32)
	Bind(ctx *Context, stage ShaderStage, index uint32)
	Unbind(stage ShaderStage, index uint32)
	Bound() *ConstantBufferSet

	QuickBindEnabled() bool
	QuickBind() (QuickBind, bool)
	DisableQuickBind()
	ResetQuickBind()

	MarkAllDirty()
}

type SamplerPool interface {
	Update(ctx *Context, viaHeaderBinding bool)
	MarkAllDirty()
}

type TexturePool interface {
	MarkAllDirty()
}

/*
RenderState is the dirty tracked pipeline and render target state.
Pipeline returns the pipeline built by the last Update, or nil if there has been
no Update since MarkAllDirty.
*/
type RenderState interface {
	Update(ctx *Context, textures TexturePool, constantBuffers *ConstantBufferSet, builder *StateUpdateBuilder,
		indexed bool, topology DrawTopology, first, count uint32)
	Pipeline() Pipeline
	// NeedsQuadConversion reports whether the topology of the last Update was replaced by a triangle list.
	NeedsQuadConversion() bool

	ColorAttachments() []TextureView
	DepthAttachment() TextureView

	// ColorRenderTargetForClear returns nil if no render target is bound at mrt.
	ColorRenderTargetForClear(ctx *Context, mrt uint32) TextureView
	DepthRenderTargetForClear(ctx *Context) TextureView

	MarkAllDirty()
}

type Collaborators struct {
	RenderState     RenderState
	ConstantBuffers ConstantBuffers
	Samplers        SamplerPool
	Textures        TexturePool
}

func (c *Collaborators) validate() {
	if c.RenderState == nil {
		abort("Collaborators.RenderState is nil")
	}
	if c.ConstantBuffers == nil {
		abort("Collaborators.ConstantBuffers is nil")
	}
	if c.Samplers == nil {
		abort("Collaborators.Samplers is nil")
	}
	if c.Textures == nil {
		abort("Collaborators.Textures is nil")
	}
}

/*
ClearHelper clears a subset of a colour view's channels with a full screen draw.
The recorded draw is handed to submit, which is called before Clear returns.
*/
type ClearHelper interface {
	Clear(aspect ImageAspectFlags, mask gputypes.ColorWriteMask, value gputypes.Color, view TextureView, submit func(RecordedCommand))
}
