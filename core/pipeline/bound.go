// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package pipeline

import (
	"github.com/devblok/korugl/gfx"
	"github.com/devblok/korugl/shader"
)

// Bound is a resource occupying a binding slot. It is usable as a uniform
// value until released.
type Bound interface {
	gfx.Releasable
	shader.Uniformable
}

// BoundTexture is a texture held in a texture unit.
type BoundTexture struct {
	stack    *BindingStack
	unit     uint32
	texture  uint32
	typ      gfx.UniformType
	released bool
}

// Unit returns the texture unit.
func (b *BoundTexture) Unit() uint32 {
	return b.unit
}

// Release gives the unit back. Calling it again does nothing.
func (b *BoundTexture) Release() {
	if b == nil || b.released {
		return
	}
	b.released = true
	b.stack.ReleaseTextureUnit(b.unit)
	b.stack.log.WithField("unit", b.unit).WithField("handle", b.texture).Trace("texture unit released")
}

func (b *BoundTexture) isReleased() bool {
	return b.released
}

// UniformType implements shader.Uniformable. It is the sampler type a
// shader must declare to read the texture.
func (b *BoundTexture) UniformType() gfx.UniformType {
	return b.typ
}

// UpdateUniform implements shader.Uniformable by pointing the sampler at
// the texture unit.
func (b *BoundTexture) UpdateUniform(loc shader.Location) error {
	if b == nil || b.released {
		return ErrReleased
	}
	loc.Driver.UniformInts(loc.Index, int32(b.unit))
	return nil
}

// BoundBuffer is a buffer held in a uniform buffer binding.
type BoundBuffer struct {
	stack    *BindingStack
	binding  uint32
	buffer   uint32
	released bool
}

// Binding returns the uniform buffer binding index.
func (b *BoundBuffer) Binding() uint32 {
	return b.binding
}

// Release gives the binding back. Calling it again does nothing.
func (b *BoundBuffer) Release() {
	if b == nil || b.released {
		return
	}
	b.released = true
	b.stack.ReleaseBufferBinding(b.binding)
	b.stack.log.WithField("binding", b.binding).WithField("handle", b.buffer).Trace("buffer binding released")
}

func (b *BoundBuffer) isReleased() bool {
	return b.released
}

// UniformType implements shader.Uniformable
func (b *BoundBuffer) UniformType() gfx.UniformType {
	return gfx.BufferBinding
}

// UpdateUniform implements shader.Uniformable by routing the uniform
// block to the binding.
func (b *BoundBuffer) UpdateUniform(loc shader.Location) error {
	if b == nil || b.released {
		return ErrReleased
	}
	loc.Driver.UniformBlockBinding(loc.Program, uint32(loc.Index), b.binding)
	return nil
}

// UniformBlock implements shader.BlockUniformable
func (*BoundBuffer) UniformBlock() {}
