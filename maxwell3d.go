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
	"bytes"
	"fmt"
	"slices"

	"goarrg.com/rhi/interconnect/internal/quads"
	"goarrg.com/rhi/interconnect/internal/util"
)

/*
Maxwell3D translates the draws and clears of a channel's 3D engine into subpasses
of the channel's executor. It is not safe for concurrent use, all calls including
the executor's callbacks must come from the goroutine driving the channel.
*/
type Maxwell3D struct {
	noCopy    util.NoCopy
	config    Config
	ctx       *Context
	state     Collaborators
	registers *Registers

	quadBuffer quadConversionBuffer

	attachedDescriptorSets *descriptorSetBatch
	activeDescriptorSet    ActiveDescriptorSet
	sampledImages          []TextureView
}

// New aborts if config is invalid or any collaborator is missing.
func New(config Config, ctx *Context, state Collaborators, registers *Registers) *Maxwell3D {
	if err := config.Validate(); err != nil {
		abort("Failed to create Maxwell3D: %v", err)
	}
	ctx.validate()
	state.validate()
	if registers == nil {
		abort("Failed to create Maxwell3D: registers is nil")
	}

	m := &Maxwell3D{
		config:    config,
		ctx:       ctx,
		state:     state,
		registers: registers,
	}
	m.noCopy.Init()

	ctx.Executor.AddFlushCallback(m.onFlush)
	ctx.Executor.AddPipelineChangeCallback(m.onPipelineChange)

	instance.logger.IPrintf("Created Maxwell3D with config: %s", prettyString(&m.config))
	return m
}

func (m *Maxwell3D) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")

	{
		buff.WriteString(fmt.Sprintf("\"config\": %s,", jsonString(&m.config)))
	}

	{
		buff.WriteString("\"quadConversionBuffer\": {")
		if m.quadBuffer.buffer != nil {
			buff.WriteString(fmt.Sprintf("\"size\": %d,", m.quadBuffer.buffer.Get().Size()))
			buff.WriteString(fmt.Sprintf("\"refs\": %d,", m.quadBuffer.buffer.Refs()))
		}
		buff.WriteString(fmt.Sprintf("\"attached\": %t", m.quadBuffer.attached))
		buff.WriteString("},")
	}

	{
		if m.attachedDescriptorSets != nil {
			buff.WriteString(fmt.Sprintf("\"attachedDescriptorSets\": %d,", m.attachedDescriptorSets.size()))
		} else {
			buff.WriteString("\"attachedDescriptorSets\": 0,")
		}
		if m.activeDescriptorSet != nil {
			buff.WriteString(fmt.Sprintf("\"activeDescriptorSet\": %q", toHex(m.activeDescriptorSet.Handle())))
		} else {
			buff.WriteString("\"activeDescriptorSet\": null")
		}
	}

	buff.WriteString("}")
	return buff.Bytes(), nil
}

// onFlush runs after the executor submitted, nothing bound before it can be assumed to still be bound.
func (m *Maxwell3D) onFlush() {
	m.noCopy.Check()

	if m.attachedDescriptorSets != nil {
		m.ctx.Executor.AttachDependency(m.attachedDescriptorSets)
		m.attachedDescriptorSets = nil
	}
	m.activeDescriptorSet = nil

	m.state.RenderState.MarkAllDirty()
	m.state.ConstantBuffers.MarkAllDirty()
	m.state.Samplers.MarkAllDirty()
	m.state.Textures.MarkAllDirty()
	m.quadBuffer.detach()
	m.state.ConstantBuffers.DisableQuickBind()
}

// onPipelineChange runs after something other than a draw bound a pipeline, the descriptor batch is still valid.
func (m *Maxwell3D) onPipelineChange() {
	m.noCopy.Check()

	m.state.RenderState.MarkAllDirty()
	m.activeDescriptorSet = nil
}

func (m *Maxwell3D) LoadConstantBuffer(data []uint32, offset uint32) {
	m.noCopy.Check()
	m.state.ConstantBuffers.Load(m.ctx, data, offset)
}

func (m *Maxwell3D) BindConstantBuffer(stage ShaderStage, index uint32, enable bool) {
	m.noCopy.Check()
	if enable {
		m.state.ConstantBuffers.Bind(m.ctx, stage, index)
	} else {
		m.state.ConstantBuffers.Unbind(stage, index)
	}
}

// DisableQuickConstantBufferBind is called when something outside of the 3D engine may have written to bound constant buffers.
func (m *Maxwell3D) DisableQuickConstantBufferBind() {
	m.noCopy.Check()
	m.state.ConstantBuffers.DisableQuickBind()
}

func (m *Maxwell3D) Draw(topology DrawTopology, transformFeedback, indexed bool, count, first, instanceCount, vertexOffset, firstInstance uint32) {
	m.noCopy.Check()

	renderState := m.state.RenderState
	constantBuffers := m.state.ConstantBuffers
	builder := StateUpdateBuilder{}

	oldPipeline := renderState.Pipeline()
	m.state.Samplers.Update(m.ctx, m.registers.SamplerBinding == SamplerBindingViaHeaderBinding)
	renderState.Update(m.ctx, m.state.Textures, constantBuffers.Bound(), &builder, indexed, topology, first, count)

	if renderState.NeedsQuadConversion() {
		if !indexed {
			// indices in the conversion buffer are relative to the first vertex of the quad containing first
			offset := m.quadBuffer.obtain(m.ctx, m.config.QuadBufferAlignment, count, first)
			builder.SetIndexBuffer(m.quadBuffer.binding(offset), quadIndexFormat)
			vertexOffset = first % quads.VerticesPerQuad
			indexed = true
		}
		count = quads.IndexCount(count)
		first = 0
	}

	pipeline := renderState.Pipeline()
	if pipeline == nil {
		abort("RenderState.Update did not produce a pipeline for %s draw", topology)
	}
	m.sampledImages = resizeSlice(m.sampledImages, pipeline.TotalSampledImageCount())

	quickBind, hasQuickBind := constantBuffers.QuickBind()
	plan := planDescriptorUpdate(oldPipeline, pipeline, constantBuffers.QuickBindEnabled(), hasQuickBind)

	var descriptorUpdate *DescriptorUpdateInfo
	switch plan {
	case DescriptorUpdateQuickBind:
		instance.logger.VPrintf("Descriptor update: %s %s", plan, quickBind)
		descriptorUpdate = pipeline.SyncDescriptorsQuickBind(m.ctx, constantBuffers.Bound(), m.state.Samplers, m.state.Textures, quickBind, m.sampledImages)
	case DescriptorUpdateFull:
		instance.logger.VPrintf("Descriptor update: %s", plan)
		descriptorUpdate = pipeline.SyncDescriptors(m.ctx, constantBuffers.Bound(), m.state.Samplers, m.state.Textures, m.sampledImages)
	}

	if oldPipeline != pipeline {
		builder.SetPipeline(pipeline.Handle())
	}

	if descriptorUpdate != nil {
		m.applyDescriptorUpdate(&builder, descriptorUpdate)
	}

	cmd := &DrawCommand{
		State:             builder.Build(),
		Count:             count,
		First:             first,
		InstanceCount:     instanceCount,
		VertexOffset:      vertexOffset,
		FirstInstance:     firstInstance,
		Indexed:           indexed,
		TransformFeedback: transformFeedback && m.config.Traits.SupportsTransformFeedback,
	}

	m.ctx.Executor.AddSubpass(cmd, SubpassInfo{
		RenderArea:                   m.registers.Clear.SurfaceClip.Rect(),
		SampledImages:                slices.Clone(m.sampledImages),
		ColorAttachments:             renderState.ColorAttachments(),
		DepthStencilAttachment:       renderState.DepthAttachment(),
		CheckRenderPassCompatibility: !m.config.Traits.Quirks.RelaxedRenderPassCompatibility,
	})

	constantBuffers.ResetQuickBind()
}

func (m *Maxwell3D) applyDescriptorUpdate(builder *StateUpdateBuilder, info *DescriptorUpdateInfo) {
	if m.config.Traits.SupportsPushDescriptors {
		builder.SetDescriptorSetWithPush(info)
		return
	}

	if m.attachedDescriptorSets == nil {
		m.attachedDescriptorSets = newDescriptorSetBatch(m.config.DescriptorBatchSize)
	}

	newSet := m.ctx.Descriptors.AllocateSet(info.SetLayout)
	m.attachedDescriptorSets.push(newSet)
	oldSet := m.activeDescriptorSet
	m.activeDescriptorSet = newSet

	builder.SetDescriptorSetWithUpdate(info, newSet, oldSet)

	if m.attachedDescriptorSets.full() {
		instance.logger.VPrintf("Attaching full descriptor set batch of %d sets", m.attachedDescriptorSets.size())
		m.ctx.Executor.AttachDependency(m.attachedDescriptorSets)
		m.attachedDescriptorSets = nil
	}
}

/*
Destroy hands any partially filled descriptor batch to the executor and drops the
core's reference to the quad conversion buffer. The executor must not flush or
notify a pipeline change afterwards.
*/
func (m *Maxwell3D) Destroy() {
	if m == nil {
		return
	}
	m.noCopy.Check()

	if m.attachedDescriptorSets != nil {
		m.ctx.Executor.AttachDependency(m.attachedDescriptorSets)
		m.attachedDescriptorSets = nil
	}
	m.activeDescriptorSet = nil
	m.quadBuffer.release()

	m.noCopy.Close()
}
