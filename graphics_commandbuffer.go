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

/*
RecordedCommand is a deferred unit of work handed to the executor as a subpass.
Implementations are immutable values holding everything they need, Record may be
called on another goroutine after the call that built them returned.
*/
type RecordedCommand interface {
	Record(cb CommandBuffer)
}

type DrawCommand struct {
	State         StateUpdater
	Count         uint32
	First         uint32
	InstanceCount uint32
	VertexOffset  uint32
	FirstInstance uint32
	Indexed       bool
	// TransformFeedback is always false on devices without transform feedback support.
	TransformFeedback bool
}

func (c *DrawCommand) Record(cb CommandBuffer) {
	c.State.RecordAll(cb)

	if c.TransformFeedback {
		cb.BeginTransformFeedback()
	}

	if c.Indexed {
		cb.DrawIndexed(c.Count, c.InstanceCount, c.First, int32(c.VertexOffset), c.FirstInstance)
	} else {
		cb.Draw(c.Count, c.InstanceCount, c.First, c.FirstInstance)
	}

	if c.TransformFeedback {
		cb.EndTransformFeedback()
	}
}

type ClearAttachment struct {
	Aspect       ImageAspectFlags
	Color        gputypes.Color
	DepthStencil DepthStencilClearValue
}

type ClearRect struct {
	Rect           gmath.Recti32
	BaseArrayLayer uint32
	LayerCount     uint32
}

// ClearAttachmentsCommand clears Attachments[i] within Rects[i].
type ClearAttachmentsCommand struct {
	Attachments []ClearAttachment
	Rects       []ClearRect
}

func (c *ClearAttachmentsCommand) Record(cb CommandBuffer) {
	cb.ClearAttachments(c.Attachments, c.Rects)
}
