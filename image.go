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

	"goarrg.com/gmath"
)

// Bit values match VkImageAspectFlagBits.
type ImageAspectFlags uint32

const (
	ImageAspectColor   ImageAspectFlags = 0x00000001
	ImageAspectDepth   ImageAspectFlags = 0x00000002
	ImageAspectStencil ImageAspectFlags = 0x00000004

	ImageAspectDepthStencil = ImageAspectDepth | ImageAspectStencil
)

func (a ImageAspectFlags) HasBits(want ImageAspectFlags) bool {
	return hasBits(a, want)
}

func (a ImageAspectFlags) String() string {
	str := ""
	if a.HasBits(ImageAspectColor) {
		str += "Color|"
	}
	if a.HasBits(ImageAspectDepth) {
		str += "Depth|"
	}
	if a.HasBits(ImageAspectStencil) {
		str += "Stencil|"
	}
	if str == "" {
		return "None"
	}
	return strings.TrimSuffix(str, "|")
}

/*
TextureView is a resolved render target or sampled image.
Views are compared by identity, implementations should be pointers.
*/
type TextureView interface {
	AspectMask() ImageAspectFlags
	// Extent is the size of the underlying texture's base level.
	Extent() gmath.Extent2i32
	BaseArrayLayer() uint32
	LayerCount() uint32
}

type DepthStencilClearValue struct {
	Depth   float32
	Stencil uint32
}
