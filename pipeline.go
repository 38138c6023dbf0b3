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

// PipelineHandle is an opaque compiled graphics pipeline, e.g. a VkPipeline.
type PipelineHandle uintptr

// PipelineLayout is an opaque pipeline layout, e.g. a VkPipelineLayout.
type PipelineLayout uintptr

/*
DescriptorSetLayout is an opaque descriptor set layout, e.g. a VkDescriptorSetLayout.
It doubles as the key DescriptorPool uses to group sets.
*/
type DescriptorSetLayout uintptr

/*
Pipeline is a compiled graphics pipeline along with its descriptor layout.
Pipelines are compared by identity, implementations should be pointers.
*/
type Pipeline interface {
	Handle() PipelineHandle
	TotalSampledImageCount() int

	// CheckBindingMatch reports whether descriptor sets written for p stay valid for other.
	CheckBindingMatch(other Pipeline) bool

	/*
		SyncDescriptors builds a full descriptor update from every bound resource and
		writes the sampled images it references into sampledImages, which is sized to
		TotalSampledImageCount.
	*/
	SyncDescriptors(ctx *Context, constantBuffers *ConstantBufferSet, samplers SamplerPool, textures TexturePool,
		sampledImages []TextureView) *DescriptorUpdateInfo
	// SyncDescriptorsQuickBind builds an update that patches only the binding of quickBind on top of the previous set.
	SyncDescriptorsQuickBind(ctx *Context, constantBuffers *ConstantBufferSet, samplers SamplerPool, textures TexturePool,
		quickBind QuickBind, sampledImages []TextureView) *DescriptorUpdateInfo
}
