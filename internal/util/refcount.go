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

package util

import "sync/atomic"

type Destroyer interface {
	Destroy()
}

/*
RefCounted shares ownership of a resource between the owner and any number of
in flight submissions. The resource is destroyed exactly once, when the last
reference is released, regardless of which goroutine releases it.
*/
type RefCounted[T Destroyer] struct {
	resource T
	refs     atomic.Int32
}

// NewRefCounted returns a RefCounted holding the initial (owner) reference.
func NewRefCounted[T Destroyer](resource T) *RefCounted[T] {
	r := &RefCounted[T]{resource: resource}
	r.refs.Store(1)
	return r
}

func (r *RefCounted[T]) Get() T {
	if r.refs.Load() <= 0 {
		abort("Use of released RefCounted resource")
	}
	return r.resource
}

func (r *RefCounted[T]) Refs() int32 {
	return r.refs.Load()
}

// Acquire adds a reference, the returned Destroyer releases it.
func (r *RefCounted[T]) Acquire() Destroyer {
	if r.refs.Add(1) <= 1 {
		abort("Acquire called on released RefCounted resource")
	}
	return &refHandle[T]{parent: r}
}

// Release drops the owner reference.
func (r *RefCounted[T]) Release() {
	switch n := r.refs.Add(-1); {
	case n == 0:
		r.resource.Destroy()
	case n < 0:
		abort("RefCounted released more times than acquired")
	}
}

type refHandle[T Destroyer] struct {
	parent   *RefCounted[T]
	released atomic.Bool
}

func (h *refHandle[T]) Destroy() {
	if h.released.Swap(true) {
		abort("RefCounted handle released twice")
	}
	h.parent.Release()
}
