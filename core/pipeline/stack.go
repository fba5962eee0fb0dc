// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package pipeline

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/devblok/korugl/core"
	"github.com/devblok/korugl/gfx"
)

// BindingStack hands out texture units and uniform buffer bindings for
// the lifetime of one pipeline. Released ids are reused, most recently
// released first, before new ids are taken from the counters, so the set
// of ids in use stays as small and as low as possible.
type BindingStack struct {
	state *core.GraphicsState
	log   *logrus.Entry

	nextTextureUnit    uint32
	freeTextureUnits   []uint32
	nextBufferBinding  uint32
	freeBufferBindings []uint32

	// 0 means unbounded
	maxTextureUnits   uint32
	maxBufferBindings uint32

	frames [][]held
}

// held is a binding tied to a frame.
type held interface {
	gfx.Releasable
	isReleased() bool
}

func newBindingStack(state *core.GraphicsState, maxTextureUnits, maxBufferBindings uint32, log *logrus.Entry) *BindingStack {
	return &BindingStack{
		state:             state,
		log:               log,
		maxTextureUnits:   maxTextureUnits,
		maxBufferBindings: maxBufferBindings,
	}
}

// AcquireTextureUnit returns a free texture unit.
func (s *BindingStack) AcquireTextureUnit() (uint32, error) {
	if n := len(s.freeTextureUnits); n > 0 {
		unit := s.freeTextureUnits[n-1]
		s.freeTextureUnits = s.freeTextureUnits[:n-1]
		return unit, nil
	}
	if s.maxTextureUnits != 0 && s.nextTextureUnit >= s.maxTextureUnits {
		return 0, errors.Wrapf(ErrCapacityExceeded, "all %d texture units in use", s.maxTextureUnits)
	}
	unit := s.nextTextureUnit
	s.nextTextureUnit++
	return unit, nil
}

// ReleaseTextureUnit gives unit back. It is not checked.
func (s *BindingStack) ReleaseTextureUnit(unit uint32) {
	s.freeTextureUnits = append(s.freeTextureUnits, unit)
}

// AcquireBufferBinding returns a free uniform buffer binding.
func (s *BindingStack) AcquireBufferBinding() (uint32, error) {
	if n := len(s.freeBufferBindings); n > 0 {
		binding := s.freeBufferBindings[n-1]
		s.freeBufferBindings = s.freeBufferBindings[:n-1]
		return binding, nil
	}
	if s.maxBufferBindings != 0 && s.nextBufferBinding >= s.maxBufferBindings {
		return 0, errors.Wrapf(ErrCapacityExceeded, "all %d buffer bindings in use", s.maxBufferBindings)
	}
	binding := s.nextBufferBinding
	s.nextBufferBinding++
	return binding, nil
}

// ReleaseBufferBinding gives binding back. It is not checked.
func (s *BindingStack) ReleaseBufferBinding(binding uint32) {
	s.freeBufferBindings = append(s.freeBufferBindings, binding)
}

// scoped runs fn in a new frame. Whatever was bound in the frame and is
// still held is released when fn returns or panics, last bound first.
func (s *BindingStack) scoped(fn func() error) error {
	s.frames = append(s.frames, nil)
	defer func() {
		top := len(s.frames) - 1
		frame := s.frames[top]
		s.frames = s.frames[:top]
		for i := len(frame) - 1; i >= 0; i-- {
			frame[i].Release()
		}
	}()
	return fn()
}

// hold ties r to the innermost frame. Bindings already released at the
// end of the frame are dropped first, so binding and releasing in a loop
// does not grow it.
func (s *BindingStack) hold(r held) {
	top := len(s.frames) - 1
	frame := s.frames[top]
	for len(frame) > 0 && frame[len(frame)-1].isReleased() {
		frame[len(frame)-1] = nil
		frame = frame[:len(frame)-1]
	}
	s.frames[top] = append(frame, r)
}

// live fails once the pipeline that owns the stack has returned.
func (s *BindingStack) live() error {
	if len(s.frames) == 0 {
		return errors.Wrap(ErrReleased, "pipeline has ended")
	}
	return nil
}
