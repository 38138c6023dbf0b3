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
	"github.com/gogpu/gputypes"
	"goarrg.com/gmath"
)

type Destroyer interface {
	Destroy()
}

type SubpassInfo struct {
	RenderArea             gmath.Recti32
	SampledImages          []TextureView
	ColorAttachments       []TextureView
	DepthStencilAttachment TextureView
	// CheckRenderPassCompatibility is false when the device tolerates merging into incompatible render passes.
	CheckRenderPassCompatibility bool
}

// AttachmentLoad describes how an attachment is loaded at the start of the next subpass using it.
type AttachmentLoad struct {
	Op                gputypes.LoadOp
	ClearColor        gputypes.Color
	ClearDepthStencil DepthStencilClearValue
}

/*
Executor batches subpasses into render passes and submits them.
Everything passed to it must stay valid until the submission using it retires,
which the executor signals by calling Destroy on attached dependencies.
Dependencies may be destroyed from any goroutine.
*/
type Executor interface {
	AddSubpass(cmd RecordedCommand, info SubpassInfo)
	// SetAttachmentLoad changes the load op of view in the current render pass, or of the next one to use it.
	SetAttachmentLoad(view TextureView, load AttachmentLoad)

	AttachTexture(view TextureView)
	AttachDependency(d Destroyer)

	// AddFlushCallback registers fn to run whenever the executor submits its pending work.
	AddFlushCallback(fn func())
	// AddPipelineChangeCallback registers fn to run whenever a non draw operation changed bound pipeline state.
	AddPipelineChangeCallback(fn func())
	NotifyPipelineChange()
}
