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
	"bytes"
	"fmt"

	"goarrg.com/debug"
	"goarrg.com/gmath"
)

const (
	DefaultDescriptorBatchSize    int32  = 64
	DefaultDescriptorPoolBankSize int32  = 256
	DefaultQuadBufferAlignment    uint64 = 4096

	maxDescriptorBatchSize int32 = 1 << 16
)

// Traits are the device capabilities that change how draws are translated.
type Traits struct {
	SupportsPushDescriptors   bool
	SupportsTransformFeedback bool

	Quirks struct {
		// RelaxedRenderPassCompatibility skips render pass compatibility checks when merging subpasses.
		RelaxedRenderPassCompatibility bool
	}
}

func (t Traits) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"SupportsPushDescriptors\": %t,", t.SupportsPushDescriptors))
	buff.WriteString(fmt.Sprintf("\"SupportsTransformFeedback\": %t,", t.SupportsTransformFeedback))
	buff.WriteString(fmt.Sprintf("\"Quirks\": {\"RelaxedRenderPassCompatibility\": %t}", t.Quirks.RelaxedRenderPassCompatibility))

	buff.WriteString("}")
	return buff.Bytes(), nil
}

type Config struct {
	// DescriptorBatchSize is the number of descriptor sets handed to the executor as a single dependency.
	DescriptorBatchSize int32
	// DescriptorPoolBankSize is the number of sets per pool bank of a DescriptorPool.
	DescriptorPoolBankSize int32
	// QuadBufferAlignment is the allocation granularity of the quad conversion index buffer, must be a power of 2.
	QuadBufferAlignment uint64

	Traits Traits
}

func DefaultConfig() Config {
	return Config{
		DescriptorBatchSize:    DefaultDescriptorBatchSize,
		DescriptorPoolBankSize: DefaultDescriptorPoolBankSize,
		QuadBufferAlignment:    DefaultQuadBufferAlignment,
	}
}

func (c *Config) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")

	buff.WriteString(fmt.Sprintf("\"DescriptorBatchSize\": %d,", c.DescriptorBatchSize))
	buff.WriteString(fmt.Sprintf("\"DescriptorPoolBankSize\": %d,", c.DescriptorPoolBankSize))
	buff.WriteString(fmt.Sprintf("\"QuadBufferAlignment\": %d,", c.QuadBufferAlignment))
	buff.WriteString(fmt.Sprintf("\"Traits\": %s", jsonString(c.Traits)))

	buff.WriteString("}")
	return buff.Bytes(), nil
}

func (c *Config) Validate() error {
	if !gmath.InRange(c.DescriptorBatchSize, 1, maxDescriptorBatchSize) {
		return debug.Errorf("Config.DescriptorBatchSize [%d] is outside of valid range [1, %d]", c.DescriptorBatchSize, maxDescriptorBatchSize)
	}
	if c.DescriptorPoolBankSize <= 0 {
		return debug.Errorf("Config.DescriptorPoolBankSize must be >= 1")
	}
	if c.QuadBufferAlignment == 0 || (c.QuadBufferAlignment&(c.QuadBufferAlignment-1)) != 0 {
		return debug.Errorf("Config.QuadBufferAlignment [%d] must be a power of 2", c.QuadBufferAlignment)
	}
	return nil
}
