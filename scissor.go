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
	"goarrg.com/gmath"
)

type SurfaceClip struct {
	X      int32
	Y      int32
	Width  uint32
	Height uint32
}

// clampExtent saturates a width or height to [0, MaxInt32] instead of wrapping.
func clampExtent(v int64) int32 {
	return int32(min(max(v, 0), math.MaxInt32))
}

func (c SurfaceClip) Rect() gmath.Recti32 {
	return gmath.Recti32{X: c.X, Y: c.Y, W: clampExtent(int64(c.Width)), H: clampExtent(int64(c.Height))}
}

type ClearSurfaceControl struct {
	UseClearRect     bool
	UseScissor0      bool
	UseViewportClip0 bool
}

// MinMaxRect is a rectangle in the register layout of inclusive min and exclusive max edges.
type MinMaxRect struct {
	XMin int32
	XMax int32
	YMin int32
	YMax int32
}

// Rect converts to an offset and extent rectangle, inverted edges give an empty extent.
func (r MinMaxRect) Rect() gmath.Recti32 {
	return gmath.Recti32{X: r.XMin, Y: r.YMin, W: clampExtent(int64(r.XMax) - int64(r.XMin)), H: clampExtent(int64(r.YMax) - int64(r.YMin))}
}

type Scissor struct {
	Enable bool
	MinMaxRect
}

type ViewportClip struct {
	X0     int32
	Y0     int32
	Width  uint32
	Height uint32
}

func (c ViewportClip) Rect() gmath.Recti32 {
	return gmath.Recti32{X: c.X0, Y: c.Y0, W: clampExtent(int64(c.Width)), H: clampExtent(int64(c.Height))}
}

type ClearEngineRegisters struct {
	SurfaceClip         SurfaceClip
	ClearSurfaceControl ClearSurfaceControl
	ClearRect           MinMaxRect
	Scissor0            Scissor
	ViewportClip0       ViewportClip

	ColorClearValue   gputypes.Color
	DepthClearValue   float32
	StencilClearValue uint32
}

func rectIntersection(a, b gmath.Recti32) gmath.Recti32 {
	x := max(a.X, b.X)
	y := max(a.Y, b.Y)
	return gmath.Recti32{
		X: x,
		Y: y,
		W: clampExtent(min(int64(a.X)+int64(a.W), int64(b.X)+int64(b.W)) - int64(x)),
		H: clampExtent(min(int64(a.Y)+int64(a.H), int64(b.Y)+int64(b.H)) - int64(y)),
	}
}

/*
ClearScissor returns the region a clear affects: the surface clip narrowed by the
clear rect, scissor 0 and viewport clip 0, each only if the clear surface control
selects it. A zero extent means nothing is cleared.
*/
func ClearScissor(regs *ClearEngineRegisters) gmath.Recti32 {
	control := regs.ClearSurfaceControl
	scissor := regs.SurfaceClip.Rect()

	if control.UseClearRect {
		scissor = rectIntersection(scissor, regs.ClearRect.Rect())
	}

	if control.UseScissor0 && regs.Scissor0.Enable {
		scissor = rectIntersection(scissor, regs.Scissor0.Rect())
	}

	if control.UseViewportClip0 {
		scissor = rectIntersection(scissor, regs.ViewportClip0.Rect())
	}

	return scissor
}
