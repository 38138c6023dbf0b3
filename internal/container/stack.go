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

package container

import "slices"

type Stack[E any] struct {
	data []E
}

// NewStack returns a stack with room for capacity elements before growing.
func NewStack[E any](capacity int) Stack[E] {
	return Stack[E]{data: make([]E, 0, capacity)}
}

func (s *Stack[E]) Data() []E {
	return slices.Clone(s.data)
}

func (s *Stack[E]) Len() int {
	return len(s.data)
}

func (s *Stack[E]) Empty() bool {
	return len(s.data) == 0
}

func (s *Stack[E]) Push(e E) {
	s.data = append(s.data, e)
}

func (s *Stack[E]) Pop() E {
	e := s.data[len(s.data)-1]
	var zero E
	s.data[len(s.data)-1] = zero
	s.data = s.data[:len(s.data)-1]
	return e
}

// Peek returns a pointer to the top element, it is only valid until the next Push.
func (s *Stack[E]) Peek() *E {
	return &s.data[len(s.data)-1]
}
