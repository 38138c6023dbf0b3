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
	"testing"

	"github.com/gogpu/gputypes"
	"goarrg.com/gmath"
)

func expectAbort(t *testing.T, name string, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected abort", name)
		}
	}()
	fn()
}

type fakeView struct {
	name       string
	aspect     ImageAspectFlags
	extent     gmath.Extent2i32
	baseLayer  uint32
	layerCount uint32
}

func newColorView(w, h int32) *fakeView {
	return &fakeView{name: "color", aspect: ImageAspectColor, extent: gmath.Extent2i32{X: w, Y: h}, layerCount: 1}
}

func newDepthView(aspect ImageAspectFlags, w, h int32) *fakeView {
	return &fakeView{name: "depth", aspect: aspect, extent: gmath.Extent2i32{X: w, Y: h}, layerCount: 1}
}

func (v *fakeView) AspectMask() ImageAspectFlags { return v.aspect }
func (v *fakeView) Extent() gmath.Extent2i32     { return v.extent }
func (v *fakeView) BaseArrayLayer() uint32       { return v.baseLayer }
func (v *fakeView) LayerCount() uint32           { return v.layerCount }

type fakeBuffer struct {
	handle    BufferHandle
	usage     BufferUsageFlags
	data      []byte
	destroyed int
}

func (b *fakeBuffer) HostWrite(offset uintptr, data []byte) {
	copy(b.data[offset:], data)
}

func (b *fakeBuffer) Destroy()                { b.destroyed++ }
func (b *fakeBuffer) Handle() BufferHandle    { return b.handle }
func (b *fakeBuffer) Usage() BufferUsageFlags { return b.usage }
func (b *fakeBuffer) Size() uint64            { return uint64(len(b.data)) }

type fakeMemory struct {
	buffers []*fakeBuffer
}

func (m *fakeMemory) AllocateBuffer(size uint64, usage BufferUsageFlags) Buffer {
	b := &fakeBuffer{
		handle: BufferHandle(0x1000 + len(m.buffers)),
		usage:  usage,
		data:   make([]byte, size),
	}
	m.buffers = append(m.buffers, b)
	return b
}

type fakeSubpass struct {
	cmd  RecordedCommand
	info SubpassInfo
}

type fakeAttachmentLoad struct {
	view TextureView
	load AttachmentLoad
}

type fakeExecutor struct {
	subpasses        []fakeSubpass
	loads            []fakeAttachmentLoad
	textures         []TextureView
	dependencies     []Destroyer
	flushCallbacks   []func()
	pipelineChanges  []func()
	notifiedChanges  int
	retiredDestroyed int
}

func (e *fakeExecutor) AddSubpass(cmd RecordedCommand, info SubpassInfo) {
	e.subpasses = append(e.subpasses, fakeSubpass{cmd: cmd, info: info})
}

func (e *fakeExecutor) SetAttachmentLoad(view TextureView, load AttachmentLoad) {
	e.loads = append(e.loads, fakeAttachmentLoad{view: view, load: load})
}

func (e *fakeExecutor) AttachTexture(view TextureView) {
	e.textures = append(e.textures, view)
}

func (e *fakeExecutor) AttachDependency(d Destroyer) {
	e.dependencies = append(e.dependencies, d)
}

func (e *fakeExecutor) AddFlushCallback(fn func()) {
	e.flushCallbacks = append(e.flushCallbacks, fn)
}

func (e *fakeExecutor) AddPipelineChangeCallback(fn func()) {
	e.pipelineChanges = append(e.pipelineChanges, fn)
}

func (e *fakeExecutor) NotifyPipelineChange() {
	e.notifiedChanges++
	for _, fn := range e.pipelineChanges {
		fn()
	}
}

// flush runs the flush callbacks like a submission would.
func (e *fakeExecutor) flush() {
	for _, fn := range e.flushCallbacks {
		fn()
	}
}

// retire destroys every attached dependency like a completed submission would.
func (e *fakeExecutor) retire() {
	for _, d := range e.dependencies {
		d.Destroy()
		e.retiredDestroyed++
	}
	e.dependencies = nil
}

type fakeDescriptorSet struct {
	handle    DescriptorSetHandle
	layout    DescriptorSetLayout
	destroyed int
}

func (s *fakeDescriptorSet) Handle() DescriptorSetHandle { return s.handle }
func (s *fakeDescriptorSet) Destroy()                    { s.destroyed++ }

type fakeDescriptorAllocator struct {
	sets []*fakeDescriptorSet
}

func (a *fakeDescriptorAllocator) AllocateSet(layout DescriptorSetLayout) ActiveDescriptorSet {
	s := &fakeDescriptorSet{handle: DescriptorSetHandle(0x100 + len(a.sets)), layout: layout}
	a.sets = append(a.sets, s)
	return s
}

type fakeClearHelperCall struct {
	aspect ImageAspectFlags
	mask   gputypes.ColorWriteMask
	value  gputypes.Color
	view   TextureView
}

type fakeClearHelper struct {
	calls []fakeClearHelperCall
}

type fakeHelperCommand struct{}

func (fakeHelperCommand) Record(CommandBuffer) {}

func (h *fakeClearHelper) Clear(aspect ImageAspectFlags, mask gputypes.ColorWriteMask, value gputypes.Color, view TextureView, submit func(RecordedCommand)) {
	h.calls = append(h.calls, fakeClearHelperCall{aspect: aspect, mask: mask, value: value, view: view})
	submit(fakeHelperCommand{})
}

type fakePipeline struct {
	handle        PipelineHandle
	layout        DescriptorSetLayout
	bindingGroup  int
	sampledImages []TextureView

	syncs      int
	quickSyncs []QuickBind
}

func (p *fakePipeline) Handle() PipelineHandle      { return p.handle }
func (p *fakePipeline) TotalSampledImageCount() int { return len(p.sampledImages) }

func (p *fakePipeline) CheckBindingMatch(other Pipeline) bool {
	o, ok := other.(*fakePipeline)
	return ok && o.bindingGroup == p.bindingGroup
}

func (p *fakePipeline) SyncDescriptors(ctx *Context, constantBuffers *ConstantBufferSet, samplers SamplerPool, textures TexturePool, sampledImages []TextureView) *DescriptorUpdateInfo {
	p.syncs++
	copy(sampledImages, p.sampledImages)
	return &DescriptorUpdateInfo{
		PipelineLayout: PipelineLayout(p.handle),
		SetLayout:      p.layout,
		Writes: []DescriptorWrite{
			{Binding: 0, Type: DescriptorTypeUniformBuffer, Buffers: []BufferBinding{constantBuffers[ShaderStageVertex][0].Binding}},
		},
	}
}

func (p *fakePipeline) SyncDescriptorsQuickBind(ctx *Context, constantBuffers *ConstantBufferSet, samplers SamplerPool, textures TexturePool, quickBind QuickBind, sampledImages []TextureView) *DescriptorUpdateInfo {
	p.quickSyncs = append(p.quickSyncs, quickBind)
	return &DescriptorUpdateInfo{
		PipelineLayout: PipelineLayout(p.handle),
		SetLayout:      p.layout,
		Copies:         []DescriptorCopy{{Binding: 1, Count: 1}},
		Writes: []DescriptorWrite{
			{Binding: quickBind.Index, Type: DescriptorTypeUniformBuffer, Buffers: []BufferBinding{constantBuffers[quickBind.Stage][quickBind.Index].Binding}},
		},
	}
}

type fakeRenderStateUpdate struct {
	indexed  bool
	topology DrawTopology
	first    uint32
	count    uint32
}

type fakeRenderState struct {
	current Pipeline
	next    Pipeline
	quads   bool

	colorAttachments []TextureView
	depthAttachment  TextureView
	colorForClear    TextureView
	depthForClear    TextureView

	updates []fakeRenderStateUpdate
	dirty   int
}

func (r *fakeRenderState) Update(ctx *Context, textures TexturePool, constantBuffers *ConstantBufferSet, builder *StateUpdateBuilder, indexed bool, topology DrawTopology, first, count uint32) {
	r.updates = append(r.updates, fakeRenderStateUpdate{indexed: indexed, topology: topology, first: first, count: count})
	r.current = r.next
	r.quads = topology == DrawTopologyQuads
}

func (r *fakeRenderState) Pipeline() Pipeline               { return r.current }
func (r *fakeRenderState) NeedsQuadConversion() bool        { return r.quads }
func (r *fakeRenderState) ColorAttachments() []TextureView  { return r.colorAttachments }
func (r *fakeRenderState) DepthAttachment() TextureView     { return r.depthAttachment }
func (r *fakeRenderState) DepthRenderTargetForClear(*Context) TextureView { return r.depthForClear }

func (r *fakeRenderState) ColorRenderTargetForClear(ctx *Context, mrt uint32) TextureView {
	return r.colorForClear
}

func (r *fakeRenderState) MarkAllDirty() {
	r.dirty++
	r.current = nil
}

type fakeConstantBuffers struct {
	bound            ConstantBufferSet
	quickBindEnabled bool
	quickBind        *QuickBind

	loads   [][]uint32
	unbinds []QuickBind
	resets  int
	dirty   int
}

func (c *fakeConstantBuffers) Load(ctx *Context, data []uint32, offset uint32) {
	c.loads = append(c.loads, data)
}

func (c *fakeConstantBuffers) Bind(ctx *Context, stage ShaderStage, index uint32) {
	c.bound[stage][index] = ConstantBuffer{Binding: BufferBinding{Buffer: BufferHandle(0x2000 + index)}, Size: 0x100}
	c.quickBind = &QuickBind{Stage: stage, Index: index}
}

func (c *fakeConstantBuffers) Unbind(stage ShaderStage, index uint32) {
	c.bound[stage][index] = ConstantBuffer{}
	c.unbinds = append(c.unbinds, QuickBind{Stage: stage, Index: index})
}

func (c *fakeConstantBuffers) Bound() *ConstantBufferSet { return &c.bound }
func (c *fakeConstantBuffers) QuickBindEnabled() bool    { return c.quickBindEnabled }

func (c *fakeConstantBuffers) QuickBind() (QuickBind, bool) {
	if c.quickBind == nil {
		return QuickBind{}, false
	}
	return *c.quickBind, true
}

func (c *fakeConstantBuffers) DisableQuickBind() { c.quickBindEnabled = false }

func (c *fakeConstantBuffers) ResetQuickBind() {
	c.resets++
	c.quickBind = nil
}

func (c *fakeConstantBuffers) MarkAllDirty() { c.dirty++ }

type fakeSamplers struct {
	viaHeaderBinding []bool
	dirty            int
}

func (s *fakeSamplers) Update(ctx *Context, viaHeaderBinding bool) {
	s.viaHeaderBinding = append(s.viaHeaderBinding, viaHeaderBinding)
}

func (s *fakeSamplers) MarkAllDirty() { s.dirty++ }

type fakeTextures struct {
	dirty int
}

func (t *fakeTextures) MarkAllDirty() { t.dirty++ }

// fakeCommandBuffer logs every call as a string.
type fakeCommandBuffer struct {
	calls []string
}

func (cb *fakeCommandBuffer) log(format string, args ...any) {
	cb.calls = append(cb.calls, fmt.Sprintf(format, args...))
}

func (cb *fakeCommandBuffer) BindPipeline(pipeline PipelineHandle) {
	cb.log("BindPipeline(%s)", toHex(pipeline))
}

func (cb *fakeCommandBuffer) BindIndexBuffer(binding BufferBinding, format gputypes.IndexFormat) {
	cb.log("BindIndexBuffer(%s, %d, %s)", toHex(binding.Buffer), binding.Offset, format)
}

func (cb *fakeCommandBuffer) BindVertexBuffer(index uint32, binding BufferBinding) {
	cb.log("BindVertexBuffer(%d, %s, %d)", index, toHex(binding.Buffer), binding.Offset)
}

func (cb *fakeCommandBuffer) UpdateDescriptorSet(dst, src DescriptorSetHandle, copies []DescriptorCopy, writes []DescriptorWrite) {
	cb.log("UpdateDescriptorSet(%s, %s, %d, %d)", toHex(dst), toHex(src), len(copies), len(writes))
}

func (cb *fakeCommandBuffer) BindDescriptorSet(layout PipelineLayout, set DescriptorSetHandle) {
	cb.log("BindDescriptorSet(%s, %s)", toHex(layout), toHex(set))
}

func (cb *fakeCommandBuffer) PushDescriptorSet(layout PipelineLayout, writes []DescriptorWrite) {
	cb.log("PushDescriptorSet(%s, %d)", toHex(layout), len(writes))
}

func (cb *fakeCommandBuffer) BeginTransformFeedback() { cb.log("BeginTransformFeedback()") }
func (cb *fakeCommandBuffer) EndTransformFeedback()   { cb.log("EndTransformFeedback()") }

func (cb *fakeCommandBuffer) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	cb.log("Draw(%d, %d, %d, %d)", vertexCount, instanceCount, firstVertex, firstInstance)
}

func (cb *fakeCommandBuffer) DrawIndexed(indexCount, instanceCount, firstIndex uint32, vertexOffset int32, firstInstance uint32) {
	cb.log("DrawIndexed(%d, %d, %d, %d, %d)", indexCount, instanceCount, firstIndex, vertexOffset, firstInstance)
}

func (cb *fakeCommandBuffer) ClearAttachments(attachments []ClearAttachment, rects []ClearRect) {
	cb.log("ClearAttachments(%d, %d)", len(attachments), len(rects))
}

type testEngine struct {
	executor    *fakeExecutor
	memory      *fakeMemory
	descriptors *fakeDescriptorAllocator
	clearHelper *fakeClearHelper

	renderState     *fakeRenderState
	constantBuffers *fakeConstantBuffers
	samplers        *fakeSamplers
	textures        *fakeTextures
	registers       *Registers

	pipeline *fakePipeline
	m        *Maxwell3D
}

func newTestEngine(t *testing.T, config Config) *testEngine {
	t.Helper()

	e := &testEngine{
		executor:        &fakeExecutor{},
		memory:          &fakeMemory{},
		descriptors:     &fakeDescriptorAllocator{},
		clearHelper:     &fakeClearHelper{},
		renderState:     &fakeRenderState{},
		constantBuffers: &fakeConstantBuffers{quickBindEnabled: true},
		samplers:        &fakeSamplers{},
		textures:        &fakeTextures{},
		registers:       &Registers{},
		pipeline:        &fakePipeline{handle: 0xA0, layout: 0xB0},
	}
	e.renderState.next = e.pipeline
	e.registers.Clear.SurfaceClip = SurfaceClip{Width: 640, Height: 480}

	e.m = New(config,
		&Context{
			Executor:    e.executor,
			Memory:      e.memory,
			Descriptors: e.descriptors,
			ClearHelper: e.clearHelper,
		},
		Collaborators{
			RenderState:     e.renderState,
			ConstantBuffers: e.constantBuffers,
			Samplers:        e.samplers,
			Textures:        e.textures,
		},
		e.registers,
	)
	return e
}

func (e *testEngine) lastSubpass(t *testing.T) fakeSubpass {
	t.Helper()
	if len(e.executor.subpasses) == 0 {
		t.Fatalf("no subpass was added")
	}
	return e.executor.subpasses[len(e.executor.subpasses)-1]
}

func (e *testEngine) lastDraw(t *testing.T) *DrawCommand {
	t.Helper()
	cmd, ok := e.lastSubpass(t).cmd.(*DrawCommand)
	if !ok {
		t.Fatalf("last subpass is %T, want *DrawCommand", e.lastSubpass(t).cmd)
	}
	return cmd
}
