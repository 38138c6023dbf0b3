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

/*
Package quads re-expresses quad lists as triangle lists.
Each quad (v0, v1, v2, v3) becomes the triangles (v0, v1, v2) and (v0, v2, v3),
which keeps the winding of the source quad. Vertices of a trailing partial quad are dropped.
*/
package quads

import "math"

const (
	VerticesPerQuad = 4
	IndicesPerQuad  = 6

	// MaxIndexCount is the largest whole quad index count a 32 bit draw count can hold.
	MaxIndexCount = (math.MaxUint32 / IndicesPerQuad) * IndicesPerQuad
)

// IndexCount returns the number of triangle list indices needed to draw vertexCount quad list vertices,
// saturating at MaxIndexCount.
func IndexCount(vertexCount uint32) uint32 {
	return uint32(min(indexCount(vertexCount), MaxIndexCount))
}

func indexCount(vertexCount uint32) uint64 {
	return uint64(vertexCount/VerticesPerQuad) * IndicesPerQuad
}

// VertexCount is the inverse of IndexCount for whole quads.
func VertexCount(indexCount uint32) uint32 {
	return (indexCount / IndicesPerQuad) * VerticesPerQuad
}

// RequiredBufferSize returns the byte size of the indices for vertexCount quad list vertices.
func RequiredBufferSize(vertexCount uint32, indexSize uint64) uint64 {
	return indexCount(vertexCount) * indexSize
}

// Generate fills dst with triangle list indices for vertexCount quad list vertices,
// dst must hold at least IndexCount(vertexCount) elements. Generation stops early if dst is full.
func Generate(dst []uint32, vertexCount uint32) {
	for i := uint32(0); vertexCount-i >= VerticesPerQuad && len(dst) >= IndicesPerQuad; i += VerticesPerQuad {
		dst[0] = i
		dst[1] = i + 1
		dst[2] = i + 2
		dst[3] = i
		dst[4] = i + 2
		dst[5] = i + 3
		dst = dst[IndicesPerQuad:]
	}
}
