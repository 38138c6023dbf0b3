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

import "fmt"

// DrawTopology values match the Maxwell 3D engine's begin primitive register.
type DrawTopology uint32

const (
	DrawTopologyPoints                 DrawTopology = 0x0
	DrawTopologyLines                  DrawTopology = 0x1
	DrawTopologyLineLoop               DrawTopology = 0x2
	DrawTopologyLineStrip              DrawTopology = 0x3
	DrawTopologyTriangles              DrawTopology = 0x4
	DrawTopologyTriangleStrip          DrawTopology = 0x5
	DrawTopologyTriangleFan            DrawTopology = 0x6
	DrawTopologyQuads                  DrawTopology = 0x7
	DrawTopologyQuadStrip              DrawTopology = 0x8
	DrawTopologyPolygon                DrawTopology = 0x9
	DrawTopologyLineListAdjacency      DrawTopology = 0xA
	DrawTopologyLineStripAdjacency     DrawTopology = 0xB
	DrawTopologyTriangleListAdjacency  DrawTopology = 0xC
	DrawTopologyTriangleStripAdjacency DrawTopology = 0xD
	DrawTopologyPatch                  DrawTopology = 0xE
)

func (t DrawTopology) String() string {
	switch t {
	case DrawTopologyPoints:
		return "Points"
	case DrawTopologyLines:
		return "Lines"
	case DrawTopologyLineLoop:
		return "LineLoop"
	case DrawTopologyLineStrip:
		return "LineStrip"
	case DrawTopologyTriangles:
		return "Triangles"
	case DrawTopologyTriangleStrip:
		return "TriangleStrip"
	case DrawTopologyTriangleFan:
		return "TriangleFan"
	case DrawTopologyQuads:
		return "Quads"
	case DrawTopologyQuadStrip:
		return "QuadStrip"
	case DrawTopologyPolygon:
		return "Polygon"
	case DrawTopologyLineListAdjacency:
		return "LineListAdjacency"
	case DrawTopologyLineStripAdjacency:
		return "LineStripAdjacency"
	case DrawTopologyTriangleListAdjacency:
		return "TriangleListAdjacency"
	case DrawTopologyTriangleStripAdjacency:
		return "TriangleStripAdjacency"
	case DrawTopologyPatch:
		return "Patch"
	default:
		return fmt.Sprintf("Unknown: 0x%X", uint32(t))
	}
}

type ShaderStage uint32

const (
	ShaderStageVertex ShaderStage = iota
	ShaderStageTessellationControl
	ShaderStageTessellationEvaluation
	ShaderStageGeometry
	ShaderStageFragment

	ShaderStageCount = 5
)

func (s ShaderStage) String() string {
	switch s {
	case ShaderStageVertex:
		return "Vertex"
	case ShaderStageTessellationControl:
		return "TessellationControl"
	case ShaderStageTessellationEvaluation:
		return "TessellationEvaluation"
	case ShaderStageGeometry:
		return "Geometry"
	case ShaderStageFragment:
		return "Fragment"
	default:
		return fmt.Sprintf("Unknown: %d", uint32(s))
	}
}

// SamplerBinding selects where texture handles find their sampler.
type SamplerBinding uint32

const (
	SamplerBindingIndependently SamplerBinding = iota
	SamplerBindingViaHeaderBinding
)

// Registers are the engine registers read directly by draws and clears,
// they are owned by the engine and change between calls.
type Registers struct {
	Clear          ClearEngineRegisters
	SamplerBinding SamplerBinding
}
