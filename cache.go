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
	"sync"

	"goarrg.com/rhi/interconnect/internal/container"
	"goarrg.com/rhi/interconnect/internal/util"
)

// DescriptorPoolHandle is an opaque descriptor pool, e.g. a VkDescriptorPool.
type DescriptorPoolHandle uintptr

// DescriptorDevice is the part of the device DescriptorPool allocates through.
type DescriptorDevice interface {
	CreateDescriptorPool(layout DescriptorSetLayout, maxSets int32) DescriptorPoolHandle
	AllocateDescriptorSet(pool DescriptorPoolHandle, layout DescriptorSetLayout) DescriptorSetHandle
	DestroyDescriptorPool(pool DescriptorPoolHandle)
}

type descriptorPoolBank struct {
	name     string
	handle   DescriptorPoolHandle
	len      int32
	cap      int32
	freeSets container.Stack[DescriptorSetHandle]
}

func (b *descriptorPoolBank) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("{")

	{
		buff.WriteString(fmt.Sprintf("\"handle\": %q,", toHex(b.handle)))
		buff.WriteString(fmt.Sprintf("\"len\": %d,", b.len))
		buff.WriteString(fmt.Sprintf("\"cap\": %d,", b.cap))
	}

	{
		buff.WriteString("\"freeSets\": [")
		sets := b.freeSets.Data()
		if len(sets) > 0 {
			for _, s := range sets {
				buff.WriteString(fmt.Sprintf("%q,", toHex(s)))
			}
			buff.Truncate(buff.Len() - 1)
		}
		buff.WriteString("]")
	}

	buff.WriteString("}")
	return buff.Bytes(), nil
}

func (b *descriptorPoolBank) canAllocate() bool {
	return (!b.freeSets.Empty()) || (b.len < b.cap)
}

func (b *descriptorPoolBank) createOrRetrieveDescriptorSet(device DescriptorDevice, layout DescriptorSetLayout) DescriptorSetHandle {
	if !b.freeSets.Empty() {
		return b.freeSets.Pop()
	}
	b.len++
	return device.AllocateDescriptorSet(b.handle, layout)
}

type descriptorSetPool struct {
	banks []*descriptorPoolBank
}

func (p *descriptorSetPool) MarshalJSON() ([]byte, error) {
	buff := bytes.Buffer{}
	buff.WriteString("[")

	if len(p.banks) > 0 {
		for _, b := range p.banks {
			buff.WriteString(jsonString(b))
			buff.WriteString(",")
		}
		buff.Truncate(buff.Len() - 1)
	}

	buff.WriteString("]")
	return buff.Bytes(), nil
}

func (p *descriptorSetPool) createOrRetrieveBank(device DescriptorDevice, layout DescriptorSetLayout, bankSize int32) *descriptorPoolBank {
	for _, b := range p.banks {
		if b.canAllocate() {
			return b
		}
	}

	bank := &descriptorPoolBank{
		name:     fmt.Sprintf("bank_%d", len(p.banks)),
		cap:      bankSize,
		handle:   device.CreateDescriptorPool(layout, bankSize),
		freeSets: container.NewStack[DescriptorSetHandle](int(bankSize)),
	}
	instance.logger.VPrintf("Created descriptor pool %s for layout %s with maxSets %d", bank.name, toHex(layout), bankSize)
	p.banks = append(p.banks, bank)
	return bank
}

/*
DescriptorPool is a DescriptorAllocator that grows a list of fixed size pool banks
per set layout and recycles released sets instead of freeing them.
Sets may be released from any goroutine.
*/
type DescriptorPool struct {
	noCopy   util.NoCopy
	mutex    sync.Mutex
	device   DescriptorDevice
	bankSize int32
	pools    map[DescriptorSetLayout]*descriptorSetPool
}

// NewDescriptorPool creates banks of config.DescriptorPoolBankSize sets.
func NewDescriptorPool(device DescriptorDevice, config Config) *DescriptorPool {
	if device == nil {
		abort("Failed to create DescriptorPool: DescriptorDevice is nil")
	}
	if err := config.Validate(); err != nil {
		abort("Failed to create DescriptorPool: %v", err)
	}
	p := &DescriptorPool{
		device:   device,
		bankSize: config.DescriptorPoolBankSize,
		pools:    make(map[DescriptorSetLayout]*descriptorSetPool),
	}
	p.noCopy.Init()
	return p
}

func (p *DescriptorPool) MarshalJSON() ([]byte, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	buff := bytes.Buffer{}
	buff.WriteString("{")

	{
		buff.WriteString(fmt.Sprintf("\"bankSize\": %d,", p.bankSize))
		buff.WriteString("\"pools\": {")
		{
			err := mapRunFuncSorted(p.pools, func(k DescriptorSetLayout, v *descriptorSetPool) error {
				buff.WriteString(fmt.Sprintf("%q: %s,", toHex(k), jsonString(v)))
				return nil
			})
			if err == nil {
				buff.Truncate(buff.Len() - 1)
			}
		}
		buff.WriteString("}")
	}

	buff.WriteString("}")
	return buff.Bytes(), nil
}

func (p *DescriptorPool) AllocateSet(layout DescriptorSetLayout) ActiveDescriptorSet {
	p.noCopy.Check()
	p.mutex.Lock()
	defer p.mutex.Unlock()

	pool, ok := p.pools[layout]
	if !ok {
		pool = &descriptorSetPool{}
		p.pools[layout] = pool
	}
	bank := pool.createOrRetrieveBank(p.device, layout, p.bankSize)

	set := &pooledDescriptorSet{
		pool:   p,
		bank:   bank,
		handle: bank.createOrRetrieveDescriptorSet(p.device, layout),
	}
	set.noCopy.Init()
	return set
}

func (p *DescriptorPool) releaseDescriptorSet(set *pooledDescriptorSet) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	set.bank.freeSets.Push(set.handle)
}

// Destroy destroys every pool bank, all sets must have been released.
func (p *DescriptorPool) Destroy() {
	p.noCopy.Check()
	p.mutex.Lock()
	defer p.mutex.Unlock()

	for layout, pool := range p.pools {
		for _, b := range pool.banks {
			if int32(b.freeSets.Len()) != b.len {
				abort("Destroying descriptor pool %s of layout %s with %d sets in use", b.name, toHex(layout), b.len-int32(b.freeSets.Len()))
			}
			p.device.DestroyDescriptorPool(b.handle)
		}
	}
	clear(p.pools)
	p.noCopy.Close()
}

type pooledDescriptorSet struct {
	noCopy util.NoCopy
	pool   *DescriptorPool
	bank   *descriptorPoolBank
	handle DescriptorSetHandle
}

func (s *pooledDescriptorSet) Handle() DescriptorSetHandle {
	s.noCopy.Check()
	return s.handle
}

func (s *pooledDescriptorSet) Destroy() {
	s.noCopy.Check()
	s.pool.releaseDescriptorSet(s)
	s.noCopy.Close()
}
