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
	"goarrg.com/gmath"
)

// ClearSurface is the value written to the engine's clear surface register.
type ClearSurface struct {
	ZEnable       bool
	StencilEnable bool
	REnable       bool
	GEnable       bool
	BEnable       bool
	AEnable       bool
	MRTSelect     uint32
	RTArrayIndex  uint32
}

func (s ClearSurface) ColorWriteMask() gputypes.ColorWriteMask {
	mask := gputypes.ColorWriteMaskNone
	if s.REnable {
		mask |= gputypes.ColorWriteMaskRed
	}
	if s.GEnable {
		mask |= gputypes.ColorWriteMaskGreen
	}
	if s.BEnable {
		mask |= gputypes.ColorWriteMaskBlue
	}
	if s.AEnable {
		mask |= gputypes.ColorWriteMaskAlpha
	}
	return mask
}

func (s ClearSurface) depthStencilAspects() ImageAspectFlags {
	var aspects ImageAspectFlags
	if s.ZEnable {
		aspects |= ImageAspectDepth
	}
	if s.StencilEnable {
		aspects |= ImageAspectStencil
	}
	return aspects
}

type ClearStrategy uint32

const (
	ClearStrategyNone ClearStrategy = iota
	// ClearStrategyHelperShader draws a full screen quad writing only the enabled channels.
	ClearStrategyHelperShader
	// ClearStrategyAttachment records a clear attachments command inside the render pass.
	ClearStrategyAttachment
	// ClearStrategyLoadOp turns the attachment's load op into a clear.
	ClearStrategyLoadOp
)

func (s ClearStrategy) String() string {
	switch s {
	case ClearStrategyNone:
		return "None"
	case ClearStrategyHelperShader:
		return "HelperShader"
	case ClearStrategyAttachment:
		return "Attachment"
	case ClearStrategyLoadOp:
		return "LoadOp"
	default:
		return fmt.Sprintf("Unknown: %d", uint32(s))
	}
}

// needsAttachmentClear reports whether a load op clear of view would write outside of scissor.
func needsAttachmentClear(scissor gmath.Recti32, view TextureView, rtArrayIndex uint32) bool {
	extent := view.Extent()
	return scissor.X != 0 || scissor.Y != 0 ||
		scissor.W != extent.X || scissor.H != extent.Y ||
		view.LayerCount() != 1 || view.BaseArrayLayer() != 0 || rtArrayIndex != 0
}

func selectColorClear(scissor gmath.Recti32, view TextureView, surface ClearSurface) ClearStrategy {
	mask := surface.ColorWriteMask()
	switch {
	case scissor.W <= 0 || scissor.H <= 0 || mask == gputypes.ColorWriteMaskNone:
		return ClearStrategyNone
	case mask != gputypes.ColorWriteMaskAll:
		// attachment clears and load ops always write every channel
		return ClearStrategyHelperShader
	case needsAttachmentClear(scissor, view, surface.RTArrayIndex):
		return ClearStrategyAttachment
	default:
		return ClearStrategyLoadOp
	}
}

/*
selectDepthStencilClear returns the strategy for clearing the enabled aspects of view
and the aspects to clear with it. Load op clears write every aspect of the view so
they are only used when every aspect the view has is enabled.
*/
func selectDepthStencilClear(scissor gmath.Recti32, view TextureView, surface ClearSurface) (ClearStrategy, ImageAspectFlags) {
	viewAspects := view.AspectMask() & ImageAspectDepthStencil
	enabled := surface.depthStencilAspects()
	if scissor.W <= 0 || scissor.H <= 0 || viewAspects == 0 || enabled == 0 {
		return ClearStrategyNone, 0
	}

	if needsAttachmentClear(scissor, view, surface.RTArrayIndex) || !enabled.HasBits(viewAspects) {
		aspects := enabled & viewAspects
		if aspects == 0 {
			return ClearStrategyNone, 0
		}
		return ClearStrategyAttachment, aspects
	}

	return ClearStrategyLoadOp, viewAspects
}

/*
Clear clears the bound render targets selected by surface within the region
returned by ClearScissor. Explicit attachment clears of the colour and depth
stencil targets are merged into a single subpass.
*/
func (m *Maxwell3D) Clear(surface ClearSurface) {
	m.noCopy.Check()

	regs := &m.registers.Clear
	scissor := ClearScissor(regs)
	if scissor.W <= 0 || scissor.H <= 0 {
		instance.logger.VPrintf("Skipping clear with empty scissor: %+v", scissor)
		return
	}

	// surface clip is more likely to match the render area of draws than the scissor, avoiding render pass breaks
	renderArea := regs.SurfaceClip.Rect()

	attachments := make([]ClearAttachment, 0, 2)
	var colorView, depthStencilView TextureView

	if mask := surface.ColorWriteMask(); mask != gputypes.ColorWriteMaskNone {
		if view := m.state.RenderState.ColorRenderTargetForClear(m.ctx, surface.MRTSelect); view != nil {
			m.ctx.Executor.AttachTexture(view)

			if !view.AspectMask().HasBits(ImageAspectColor) {
				instance.logger.WPrintf("Colour render target [%d] used in clear lacks colour aspect: %s", surface.MRTSelect, view.AspectMask())
			} else {
				strategy := selectColorClear(scissor, view, surface)
				instance.logger.VPrintf("Colour clear of render target [%d] with mask [0x%X]: %s", surface.MRTSelect, uint32(mask), strategy)

				switch strategy {
				case ClearStrategyHelperShader:
					m.ctx.ClearHelper.Clear(view.AspectMask(), mask, regs.ColorClearValue, view, func(cmd RecordedCommand) {
						m.ctx.Executor.AddSubpass(cmd, SubpassInfo{
							RenderArea:                   renderArea,
							ColorAttachments:             []TextureView{view},
							CheckRenderPassCompatibility: true,
						})
					})
					m.ctx.Executor.NotifyPipelineChange()

				case ClearStrategyAttachment:
					attachments = append(attachments, ClearAttachment{Aspect: ImageAspectColor, Color: regs.ColorClearValue})
					colorView = view

				case ClearStrategyLoadOp:
					m.ctx.Executor.SetAttachmentLoad(view, AttachmentLoad{Op: gputypes.LoadOpClear, ClearColor: regs.ColorClearValue})
				}
			}
		}
	}

	if surface.ZEnable || surface.StencilEnable {
		if view := m.state.RenderState.DepthRenderTargetForClear(m.ctx); view != nil {
			m.ctx.Executor.AttachTexture(view)

			if !view.AspectMask().HasBits(ImageAspectDepth) && !view.AspectMask().HasBits(ImageAspectStencil) {
				instance.logger.WPrintf("Depth stencil render target used in clear lacks depth and stencil aspects: %s", view.AspectMask())
				return
			}

			value := DepthStencilClearValue{Depth: regs.DepthClearValue, Stencil: regs.StencilClearValue}
			strategy, aspects := selectDepthStencilClear(scissor, view, surface)
			instance.logger.VPrintf("Depth stencil clear of aspects [%s]: %s", aspects, strategy)

			switch strategy {
			case ClearStrategyAttachment:
				attachments = append(attachments, ClearAttachment{Aspect: aspects, DepthStencil: value})
				depthStencilView = view

			case ClearStrategyLoadOp:
				m.ctx.Executor.SetAttachmentLoad(view, AttachmentLoad{Op: gputypes.LoadOpClear, ClearDepthStencil: value})
			}
		}
	}

	if len(attachments) == 0 {
		return
	}

	rects := make([]ClearRect, len(attachments))
	for i := range rects {
		rects[i] = ClearRect{Rect: scissor, BaseArrayLayer: surface.RTArrayIndex, LayerCount: 1}
	}

	info := SubpassInfo{
		RenderArea:                   renderArea,
		DepthStencilAttachment:       depthStencilView,
		CheckRenderPassCompatibility: true,
	}
	if colorView != nil {
		info.ColorAttachments = []TextureView{colorView}
	}
	m.ctx.Executor.AddSubpass(&ClearAttachmentsCommand{Attachments: attachments, Rects: rects}, info)
}
