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
	"slices"

	"github.com/gogpu/gputypes"
)

/*
CommandBuffer is the graphics command buffer recorded commands are replayed into.
Recording happens on the executor's goroutine, possibly long after the draw or
clear that produced the command returned.
*/
type CommandBuffer interface {
	BindPipeline(pipeline PipelineHandle)
	BindIndexBuffer(binding BufferBinding, format gputypes.IndexFormat)
	BindVertexBuffer(index uint32, binding BufferBinding)

	// UpdateDescriptorSet applies copies from src, which is 0 if there is no previous set, then writes to dst.
	UpdateDescriptorSet(dst, src DescriptorSetHandle, copies []DescriptorCopy, writes []DescriptorWrite)
	BindDescriptorSet(layout PipelineLayout, set DescriptorSetHandle)
	PushDescriptorSet(layout PipelineLayout, writes []DescriptorWrite)

	BeginTransformFeedback()
	EndTransformFeedback()

	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32)

	ClearAttachments(attachments []ClearAttachment, rects []ClearRect)
}

type stateCommand interface {
	record(cb CommandBuffer)
}

type bindPipelineCommand struct {
	pipeline PipelineHandle
}

func (c bindPipelineCommand) record(cb CommandBuffer) {
	cb.BindPipeline(c.pipeline)
}

type bindIndexBufferCommand struct {
	binding BufferBinding
	format  gputypes.IndexFormat
}

func (c bindIndexBufferCommand) record(cb CommandBuffer) {
	cb.BindIndexBuffer(c.binding, c.format)
}

type bindVertexBufferCommand struct {
	index   uint32
	binding BufferBinding
}

func (c bindVertexBufferCommand) record(cb CommandBuffer) {
	cb.BindVertexBuffer(c.index, c.binding)
}

type pushDescriptorSetCommand struct {
	layout PipelineLayout
	writes []DescriptorWrite
}

func (c pushDescriptorSetCommand) record(cb CommandBuffer) {
	cb.PushDescriptorSet(c.layout, c.writes)
}

type updateDescriptorSetCommand struct {
	layout PipelineLayout
	dst    DescriptorSetHandle
	src    DescriptorSetHandle
	copies []DescriptorCopy
	writes []DescriptorWrite
}

func (c updateDescriptorSetCommand) record(cb CommandBuffer) {
	if c.src == 0 {
		cb.UpdateDescriptorSet(c.dst, 0, nil, c.writes)
	} else {
		cb.UpdateDescriptorSet(c.dst, c.src, c.copies, c.writes)
	}
	cb.BindDescriptorSet(c.layout, c.dst)
}

/*
StateUpdateBuilder collects the state binds a draw needs before it can be recorded.
The pipeline bind is always recorded first, everything else in the order it was set.
*/
type StateUpdateBuilder struct {
	pipeline *bindPipelineCommand
	commands []stateCommand
}

func (b *StateUpdateBuilder) SetPipeline(pipeline PipelineHandle) {
	b.pipeline = &bindPipelineCommand{pipeline: pipeline}
}

func (b *StateUpdateBuilder) SetIndexBuffer(binding BufferBinding, format gputypes.IndexFormat) {
	b.commands = append(b.commands, bindIndexBufferCommand{binding: binding, format: format})
}

func (b *StateUpdateBuilder) SetVertexBuffer(index uint32, binding BufferBinding) {
	b.commands = append(b.commands, bindVertexBufferCommand{index: index, binding: binding})
}

func (b *StateUpdateBuilder) SetDescriptorSetWithPush(info *DescriptorUpdateInfo) {
	b.commands = append(b.commands, pushDescriptorSetCommand{
		layout: info.PipelineLayout,
		writes: slices.Clone(info.Writes),
	})
}

// SetDescriptorSetWithUpdate writes info into newSet, copying unchanged bindings from oldSet if it is not nil.
func (b *StateUpdateBuilder) SetDescriptorSetWithUpdate(info *DescriptorUpdateInfo, newSet, oldSet ActiveDescriptorSet) {
	c := updateDescriptorSetCommand{
		layout: info.PipelineLayout,
		dst:    newSet.Handle(),
		copies: slices.Clone(info.Copies),
		writes: slices.Clone(info.Writes),
	}
	if oldSet != nil {
		c.src = oldSet.Handle()
	}
	b.commands = append(b.commands, c)
}

func (b *StateUpdateBuilder) Build() StateUpdater {
	commands := make([]stateCommand, 0, len(b.commands)+1)
	if b.pipeline != nil {
		commands = append(commands, *b.pipeline)
	}
	commands = append(commands, b.commands...)
	return StateUpdater{commands: commands}
}

// StateUpdater is the immutable list of state binds built by a StateUpdateBuilder.
type StateUpdater struct {
	commands []stateCommand
}

func (u StateUpdater) RecordAll(cb CommandBuffer) {
	for _, c := range u.commands {
		c.record(cb)
	}
}

func (u StateUpdater) Len() int {
	return len(u.commands)
}
