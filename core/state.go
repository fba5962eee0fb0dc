// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/gfx"
)

// cached is a piece of hardware state that may not be known yet.
type cached[T comparable] struct {
	v  T
	ok bool
}

// update stores v and reports whether the driver must be told.
func (c *cached[T]) update(v T) bool {
	if c.ok && c.v == v {
		return false
	}
	c.v, c.ok = v, true
	return true
}

func (c *cached[T]) get() (T, bool) {
	return c.v, c.ok
}

type textureBinding struct {
	target  gfx.TextureTarget
	texture uint32
}

// GraphicsState is the record of what the driver currently holds. It is
// the only path through which binding and render state is changed, and
// it forwards a change to the driver only when the cached value differs
// or is not known yet.
type GraphicsState struct {
	driver device.Driver

	unit        cached[uint32]
	textures    map[uint32]textureBinding
	buffers     map[uint32]uint32
	program     cached[uint32]
	framebuffer cached[uint32]
	vertexArray cached[uint32]
	patch       cached[int32]
	viewport    cached[[4]int32]
	clearColor  cached[mgl32.Vec4]

	blending      cached[bool]
	blendEquation cached[gfx.BlendEquation]
	blendFunc     cached[[2]gfx.BlendFactor]

	depthTest cached[bool]
	depthFunc cached[gfx.DepthComparison]

	faceCulling cached[bool]
	frontFace   cached[gfx.FaceCullingOrder]
	cullMode    cached[gfx.FaceCullingMode]
}

// NewGraphicsState returns a state with nothing known about driver.
func NewGraphicsState(driver device.Driver) *GraphicsState {
	return &GraphicsState{
		driver:   driver,
		textures: make(map[uint32]textureBinding),
		buffers:  make(map[uint32]uint32),
	}
}

// Invalidate forgets everything, so the next setter of each kind reaches
// the driver. Call it after touching the driver behind the state's back.
func (s *GraphicsState) Invalidate() {
	*s = *NewGraphicsState(s.driver)
}

// SetTextureUnit makes unit the active texture unit.
func (s *GraphicsState) SetTextureUnit(unit uint32) {
	if s.unit.update(unit) {
		s.driver.ActiveTexture(unit)
	}
}

// TextureUnit returns the active texture unit.
func (s *GraphicsState) TextureUnit() (uint32, bool) {
	return s.unit.get()
}

// BindTexture binds texture to target in the active texture unit.
func (s *GraphicsState) BindTexture(target gfx.TextureTarget, texture uint32) {
	unit, ok := s.unit.get()
	b := textureBinding{target: target, texture: texture}
	if ok {
		if cur, known := s.textures[unit]; known && cur == b {
			return
		}
		s.textures[unit] = b
	}
	s.driver.BindTexture(target, texture)
}

// BoundTexture returns what unit holds, if known.
func (s *GraphicsState) BoundTexture(unit uint32) (gfx.TextureTarget, uint32, bool) {
	b, ok := s.textures[unit]
	return b.target, b.texture, ok
}

// ForgetTexture drops texture from every unit that holds it. A deleted
// texture is unbound by the driver and its name may be handed out again.
func (s *GraphicsState) ForgetTexture(texture uint32) {
	for unit, b := range s.textures {
		if b.texture == texture {
			delete(s.textures, unit)
		}
	}
}

// BindBufferBase binds buffer to the uniform buffer binding index.
func (s *GraphicsState) BindBufferBase(index, buffer uint32) {
	if cur, ok := s.buffers[index]; ok && cur == buffer {
		return
	}
	s.buffers[index] = buffer
	s.driver.BindBufferBase(index, buffer)
}

// BoundBuffer returns the buffer held by binding index, if known.
func (s *GraphicsState) BoundBuffer(index uint32) (uint32, bool) {
	b, ok := s.buffers[index]
	return b, ok
}

// ForgetBuffer drops buffer from every binding index that holds it.
func (s *GraphicsState) ForgetBuffer(buffer uint32) {
	for index, b := range s.buffers {
		if b == buffer {
			delete(s.buffers, index)
		}
	}
}

// UseProgram makes program the active program.
func (s *GraphicsState) UseProgram(program uint32) {
	if s.program.update(program) {
		s.driver.UseProgram(program)
	}
}

// Program returns the active program.
func (s *GraphicsState) Program() (uint32, bool) {
	return s.program.get()
}

// BindDrawFramebuffer makes framebuffer the draw target.
func (s *GraphicsState) BindDrawFramebuffer(framebuffer uint32) {
	if s.framebuffer.update(framebuffer) {
		s.driver.BindDrawFramebuffer(framebuffer)
	}
}

// Framebuffer returns the draw framebuffer.
func (s *GraphicsState) Framebuffer() (uint32, bool) {
	return s.framebuffer.get()
}

// BindVertexArray binds a tessellation's vertex array.
func (s *GraphicsState) BindVertexArray(vao uint32) {
	if s.vertexArray.update(vao) {
		s.driver.BindVertexArray(vao)
	}
}

// ForgetVertexArray drops vao if it is the bound vertex array.
func (s *GraphicsState) ForgetVertexArray(vao uint32) {
	if cur, ok := s.vertexArray.get(); ok && cur == vao {
		s.vertexArray = cached[uint32]{}
	}
}

// SetPatchVertices sets the number of vertices per patch.
func (s *GraphicsState) SetPatchVertices(n int32) {
	if s.patch.update(n) {
		s.driver.PatchVertices(n)
	}
}

// SetViewport sets the viewport rectangle.
func (s *GraphicsState) SetViewport(x, y, width, height int32) {
	if s.viewport.update([4]int32{x, y, width, height}) {
		s.driver.Viewport(x, y, width, height)
	}
}

// Viewport returns the viewport rectangle.
func (s *GraphicsState) Viewport() ([4]int32, bool) {
	return s.viewport.get()
}

// SetClearColor sets the color Clear fills with.
func (s *GraphicsState) SetClearColor(color mgl32.Vec4) {
	if s.clearColor.update(color) {
		s.driver.ClearColor(color[0], color[1], color[2], color[3])
	}
}

// Clear clears color and depth of the draw framebuffer. It is an action,
// not state, and always reaches the driver.
func (s *GraphicsState) Clear() {
	s.driver.Clear(true, true)
}

func (s *GraphicsState) toggle(c *cached[bool], capability device.Capability, on bool) {
	if !c.update(on) {
		return
	}
	if on {
		s.driver.Enable(capability)
	} else {
		s.driver.Disable(capability)
	}
}

// SetBlendingState switches blending.
func (s *GraphicsState) SetBlendingState(on bool) {
	s.toggle(&s.blending, device.Blend, on)
}

// SetBlendingEquation sets the blend equation.
func (s *GraphicsState) SetBlendingEquation(eq gfx.BlendEquation) {
	if s.blendEquation.update(eq) {
		s.driver.BlendEquation(eq)
	}
}

// SetBlendingFunc sets the source and destination blend factors.
func (s *GraphicsState) SetBlendingFunc(src, dst gfx.BlendFactor) {
	if s.blendFunc.update([2]gfx.BlendFactor{src, dst}) {
		s.driver.BlendFunc(src, dst)
	}
}

// Blending returns the blending configuration and whether it is enabled.
// ok is false while any part of it is unknown.
func (s *GraphicsState) Blending() (b gfx.Blending, on bool, ok bool) {
	on, ok1 := s.blending.get()
	eq, ok2 := s.blendEquation.get()
	fn, ok3 := s.blendFunc.get()
	return gfx.Blending{Equation: eq, Src: fn[0], Dst: fn[1]}, on, ok1 && ok2 && ok3
}

// SetDepthTest switches depth testing.
func (s *GraphicsState) SetDepthTest(on bool) {
	s.toggle(&s.depthTest, device.DepthTest, on)
}

// SetDepthTestComparison sets the depth comparison.
func (s *GraphicsState) SetDepthTestComparison(cmp gfx.DepthComparison) {
	if s.depthFunc.update(cmp) {
		s.driver.DepthFunc(cmp)
	}
}

// DepthTest returns the depth comparison and whether depth testing is on.
func (s *GraphicsState) DepthTest() (cmp gfx.DepthComparison, on bool, ok bool) {
	on, ok1 := s.depthTest.get()
	cmp, ok2 := s.depthFunc.get()
	return cmp, on, ok1 && ok2
}

// SetFaceCullingState switches face culling.
func (s *GraphicsState) SetFaceCullingState(on bool) {
	s.toggle(&s.faceCulling, device.CullFace, on)
}

// SetFaceCullingOrder sets the front face winding.
func (s *GraphicsState) SetFaceCullingOrder(order gfx.FaceCullingOrder) {
	if s.frontFace.update(order) {
		s.driver.FrontFace(order)
	}
}

// SetFaceCullingMode sets which faces are culled.
func (s *GraphicsState) SetFaceCullingMode(mode gfx.FaceCullingMode) {
	if s.cullMode.update(mode) {
		s.driver.CullFace(mode)
	}
}

// FaceCulling returns the culling configuration and whether it is on.
func (s *GraphicsState) FaceCulling() (fc gfx.FaceCulling, on bool, ok bool) {
	on, ok1 := s.faceCulling.get()
	order, ok2 := s.frontFace.get()
	mode, ok3 := s.cullMode.get()
	return gfx.FaceCulling{Order: order, Mode: mode}, on, ok1 && ok2 && ok3
}
