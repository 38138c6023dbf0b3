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

	"goarrg.com/rhi/interconnect/internal/container"
)

// Values match VkDescriptorType.
type DescriptorType uint32

const (
	DescriptorTypeSampler              DescriptorType = 0
	DescriptorTypeCombinedImageSampler DescriptorType = 1
	DescriptorTypeSampledImage         DescriptorType = 2
	DescriptorTypeStorageImage         DescriptorType = 3
	DescriptorTypeUniformTexelBuffer   DescriptorType = 4
	DescriptorTypeStorageTexelBuffer   DescriptorType = 5
	DescriptorTypeUniformBuffer        DescriptorType = 6
	DescriptorTypeStorageBuffer        DescriptorType = 7
)

func (t DescriptorType) String() string {
	switch t {
	case DescriptorTypeUniformBuffer:
		return "UniformBuffer"
	case DescriptorTypeUniformTexelBuffer:
		return "UniformTexelBuffer"

	case DescriptorTypeStorageBuffer:
		return "StorageBuffer"
	case DescriptorTypeStorageTexelBuffer:
		return "StorageTexelBuffer"

	case DescriptorTypeStorageImage:
		return "StorageImage"

	case DescriptorTypeCombinedImageSampler:
		return "CombinedImageSampler"

	case DescriptorTypeSampledImage:
		return "SampledImage"
	case DescriptorTypeSampler:
		return "Sampler"

	default:
		abort("Unknown DescriptorType: %d", t)
	}

	return ""
}

// SamplerHandle is an opaque sampler, e.g. a VkSampler.
type SamplerHandle uintptr

// DescriptorSetHandle is an opaque descriptor set, e.g. a VkDescriptorSet.
type DescriptorSetHandle uintptr

type ImageBinding struct {
	Sampler SamplerHandle
	View    TextureView
}

// DescriptorWrite writes consecutive array elements of a binding, only the slice matching Type is read.
type DescriptorWrite struct {
	Binding      uint32
	ArrayElement uint32
	Type         DescriptorType
	Buffers      []BufferBinding
	Images       []ImageBinding
}

// DescriptorCopy carries bindings over from the previously active set.
type DescriptorCopy struct {
	Binding      uint32
	ArrayElement uint32
	Count        uint32
}

/*
DescriptorUpdateInfo is the result of syncing a pipeline's descriptors.
Copies are only meaningful when a previous set exists, push descriptor updates ignore them.
*/
type DescriptorUpdateInfo struct {
	PipelineLayout PipelineLayout
	SetLayout      DescriptorSetLayout
	Copies         []DescriptorCopy
	Writes         []DescriptorWrite
}

// ActiveDescriptorSet is an allocated set, Destroy returns it to its allocator.
type ActiveDescriptorSet interface {
	Destroyer
	Handle() DescriptorSetHandle
}

type DescriptorAllocator interface {
	AllocateSet(layout DescriptorSetLayout) ActiveDescriptorSet
}

type DescriptorUpdatePlan uint32

const (
	// DescriptorUpdateNone keeps the bound set as is.
	DescriptorUpdateNone DescriptorUpdatePlan = iota
	// DescriptorUpdateQuickBind patches the single rebound constant buffer.
	DescriptorUpdateQuickBind
	DescriptorUpdateFull
)

func (p DescriptorUpdatePlan) String() string {
	switch p {
	case DescriptorUpdateNone:
		return "None"
	case DescriptorUpdateQuickBind:
		return "QuickBind"
	case DescriptorUpdateFull:
		return "Full"
	default:
		return fmt.Sprintf("Unknown: %d", uint32(p))
	}
}

/*
planDescriptorUpdate picks how much of the descriptor state must be rewritten for a
draw with pipeline after a draw with oldPipeline. The previous set can only be kept
or patched if its bindings still line up and nothing outside of the constant buffer
selector has touched the bound buffers, which is what quickBindEnabled tracks.
*/
func planDescriptorUpdate(oldPipeline, pipeline Pipeline, quickBindEnabled, hasQuickBind bool) DescriptorUpdatePlan {
	reusable := (oldPipeline == pipeline || (oldPipeline != nil && oldPipeline.CheckBindingMatch(pipeline))) && quickBindEnabled
	switch {
	case reusable && hasQuickBind:
		return DescriptorUpdateQuickBind
	case reusable:
		return DescriptorUpdateNone
	default:
		return DescriptorUpdateFull
	}
}

// descriptorSetBatch owns up to capacity sets, it is attached to the executor as a single dependency.
type descriptorSetBatch struct {
	capacity int
	sets     container.Stack[ActiveDescriptorSet]
}

func newDescriptorSetBatch(capacity int32) *descriptorSetBatch {
	return &descriptorSetBatch{
		capacity: int(capacity),
		sets:     container.NewStack[ActiveDescriptorSet](int(capacity)),
	}
}

func (b *descriptorSetBatch) push(set ActiveDescriptorSet) {
	if b.full() {
		abort("Trying to push into a full descriptor set batch of capacity %d", b.capacity)
	}
	b.sets.Push(set)
}

func (b *descriptorSetBatch) size() int {
	return b.sets.Len()
}

func (b *descriptorSetBatch) full() bool {
	return b.sets.Len() >= b.capacity
}

// Destroy returns every set to its allocator, it runs once the submission using them retires.
func (b *descriptorSetBatch) Destroy() {
	for !b.sets.Empty() {
		b.sets.Pop().Destroy()
	}
}
