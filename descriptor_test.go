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

import "testing"

func TestPlanDescriptorUpdate(t *testing.T) {
	a := &fakePipeline{handle: 1, bindingGroup: 1}
	compatible := &fakePipeline{handle: 2, bindingGroup: 1}
	incompatible := &fakePipeline{handle: 3, bindingGroup: 2}

	tests := []struct {
		name             string
		old              Pipeline
		pipeline         Pipeline
		quickBindEnabled bool
		hasQuickBind     bool
		want             DescriptorUpdatePlan
	}{
		{"unchanged", a, a, true, false, DescriptorUpdateNone},
		{"unchanged single rebind", a, a, true, true, DescriptorUpdateQuickBind},
		{"unchanged quick bind disabled", a, a, false, false, DescriptorUpdateFull},
		{"unchanged quick bind disabled with rebind", a, a, false, true, DescriptorUpdateFull},
		{"compatible", a, compatible, true, false, DescriptorUpdateNone},
		{"compatible single rebind", a, compatible, true, true, DescriptorUpdateQuickBind},
		{"incompatible", a, incompatible, true, false, DescriptorUpdateFull},
		{"incompatible single rebind", a, incompatible, true, true, DescriptorUpdateFull},
		{"no previous pipeline", nil, a, true, false, DescriptorUpdateFull},
		{"no previous pipeline single rebind", nil, a, true, true, DescriptorUpdateFull},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := planDescriptorUpdate(test.old, test.pipeline, test.quickBindEnabled, test.hasQuickBind)
			if got != test.want {
				t.Errorf("planDescriptorUpdate() = %s, want %s", got, test.want)
			}
		})
	}
}

func TestDescriptorSetBatch(t *testing.T) {
	allocator := &fakeDescriptorAllocator{}
	batch := newDescriptorSetBatch(3)

	for i := 0; i < 3; i++ {
		if batch.full() {
			t.Fatalf("batch full after %d pushes, want capacity 3", i)
		}
		batch.push(allocator.AllocateSet(1))
	}
	if !batch.full() || batch.size() != 3 {
		t.Errorf("full() = %t, size() = %d, want true and 3", batch.full(), batch.size())
	}

	expectAbort(t, "push into full batch", func() {
		batch.push(allocator.AllocateSet(1))
	})

	batch.Destroy()
	for i, s := range allocator.sets[:3] {
		if s.destroyed != 1 {
			t.Errorf("set[%d] destroyed %d times, want 1", i, s.destroyed)
		}
	}
	if batch.size() != 0 {
		t.Errorf("size() = %d after Destroy, want 0", batch.size())
	}
}

func TestDescriptorTypeString(t *testing.T) {
	if got := DescriptorTypeCombinedImageSampler.String(); got != "CombinedImageSampler" {
		t.Errorf("String() = %q, want %q", got, "CombinedImageSampler")
	}
	expectAbort(t, "unknown descriptor type", func() {
		_ = DescriptorType(0xFFFF).String()
	})
}
