// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package pipeline runs draw commands inside nested scopes. A pipeline
// binds textures and buffers to the few hardware slots available; a
// shading gate selects a program, a render gate a render state, and a
// tessellation gate draws. Slots taken in a scope are given back when the
// scope ends, so they can be reused by the next sibling scope.
package pipeline

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/devblok/korugl/core"
	"github.com/devblok/korugl/gfx"
)

// Builder starts pipelines on a context.
type Builder struct {
	ctx *core.Context
	log *logrus.Entry
}

// NewBuilder returns a builder for ctx.
func NewBuilder(ctx *core.Context) *Builder {
	return &Builder{
		ctx: ctx,
		log: ctx.Log().WithField("component", "pipeline"),
	}
}

// Pipeline renders into fb. The framebuffer is bound, the viewport set to
// its size and its color and depth cleared before body runs. Every slot
// bound during body is released when it returns, even if it panics, and
// body's error is returned as is. Starting a pipeline while another one
// runs on the same context fails with core.ErrContextBusy.
func (b *Builder) Pipeline(fb gfx.Framebuffer, clear mgl32.Vec4, body func(*Pipeline, *ShadingGate) error) error {
	if err := b.ctx.Acquire(); err != nil {
		return err
	}
	defer b.ctx.Release()

	state := b.ctx.State()
	state.BindDrawFramebuffer(fb.Handle)
	state.SetViewport(0, 0, int32(fb.Width), int32(fb.Height))
	state.SetClearColor(clear)
	state.Clear()

	log := b.log.WithField("framebuffer", fb.Handle)
	stack := newBindingStack(state, b.ctx.TextureUnitLimit(), b.ctx.BufferBindingLimit(), log)
	p := &Pipeline{stack: stack}
	sg := &ShadingGate{ctx: b.ctx, stack: stack}

	log.Debug("pipeline started")
	err := stack.scoped(func() error {
		return body(p, sg)
	})
	log.WithFields(logrus.Fields{
		"textureUnits":   stack.nextTextureUnit,
		"bufferBindings": stack.nextBufferBinding,
	}).Debug("pipeline done")
	return err
}

// Pipeline binds resources for the draw commands of a pipeline.
type Pipeline struct {
	stack *BindingStack
}

// Bind binds a texture or a buffer.
func (p *Pipeline) Bind(r gfx.Bindable) (Bound, error) {
	switch res := r.(type) {
	case *gfx.Texture:
		bt, err := p.BindTexture(res)
		if err != nil {
			return nil, err
		}
		return bt, nil
	case *gfx.Buffer:
		bb, err := p.BindBuffer(res)
		if err != nil {
			return nil, err
		}
		return bb, nil
	}
	return nil, errors.Errorf("cannot bind %T", r)
}

// BindTexture binds t to a free texture unit. It fails with ErrReleased
// once the pipeline has returned.
func (p *Pipeline) BindTexture(t *gfx.Texture) (*BoundTexture, error) {
	if err := p.stack.live(); err != nil {
		return nil, err
	}
	unit, err := p.stack.AcquireTextureUnit()
	if err != nil {
		return nil, err
	}
	state := p.stack.state
	state.SetTextureUnit(unit)
	state.BindTexture(t.Target(), t.Handle)

	bt := &BoundTexture{
		stack:   p.stack,
		unit:    unit,
		texture: t.Handle,
		typ:     gfx.SamplerType(t.SampleKind(), t.Dim),
	}
	p.stack.hold(bt)
	p.stack.log.WithField("unit", unit).WithField("handle", t.Handle).Trace("texture bound")
	return bt, nil
}

// BindBuffer binds b to a free uniform buffer binding. It fails with
// ErrReleased once the pipeline has returned.
func (p *Pipeline) BindBuffer(b *gfx.Buffer) (*BoundBuffer, error) {
	if err := p.stack.live(); err != nil {
		return nil, err
	}
	binding, err := p.stack.AcquireBufferBinding()
	if err != nil {
		return nil, err
	}
	p.stack.state.BindBufferBase(binding, b.Handle)

	bb := &BoundBuffer{
		stack:   p.stack,
		binding: binding,
		buffer:  b.Handle,
	}
	p.stack.hold(bb)
	p.stack.log.WithField("binding", binding).WithField("handle", b.Handle).Trace("buffer bound")
	return bb, nil
}
