// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/korugl/core"
	"github.com/devblok/korugl/device/headless"
	"github.com/devblok/korugl/gfx"
)

func TestStateSkipsRedundantCalls(t *testing.T) {
	c := qt.New(t)
	d := headless.New()
	s := core.NewGraphicsState(d)

	s.UseProgram(4)
	s.UseProgram(4)
	s.SetViewport(0, 0, 640, 480)
	s.SetViewport(0, 0, 640, 480)
	s.SetClearColor(mgl32.Vec4{1, 0, 0, 1})
	s.SetClearColor(mgl32.Vec4{1, 0, 0, 1})
	s.SetBlendingState(false)
	s.SetBlendingState(false)
	s.BindBufferBase(2, 7)
	s.BindBufferBase(2, 7)

	c.Assert(d.CallNames(), qt.DeepEquals, []string{
		"UseProgram", "Viewport", "ClearColor", "Disable", "BindBufferBase",
	})

	s.UseProgram(5)
	s.BindBufferBase(2, 8)
	c.Assert(d.Count("UseProgram"), qt.Equals, 2)
	c.Assert(d.Count("BindBufferBase"), qt.Equals, 2)
}

func TestStateUnknownValuesReachDriver(t *testing.T) {
	c := qt.New(t)
	d := headless.New()
	s := core.NewGraphicsState(d)

	// zero is a real value, the first write must not be skipped
	s.SetTextureUnit(0)
	s.UseProgram(0)
	s.SetDepthTestComparison(gfx.Never)
	c.Assert(d.CallNames(), qt.DeepEquals, []string{"ActiveTexture", "UseProgram", "DepthFunc"})

	s.Invalidate()
	s.SetTextureUnit(0)
	c.Assert(d.Count("ActiveTexture"), qt.Equals, 2)
}

func TestStateTexturesPerUnit(t *testing.T) {
	c := qt.New(t)
	d := headless.New()
	s := core.NewGraphicsState(d)

	s.SetTextureUnit(0)
	s.BindTexture(gfx.Texture2D, 10)
	s.SetTextureUnit(1)
	s.BindTexture(gfx.Texture2D, 10)
	s.SetTextureUnit(0)
	s.BindTexture(gfx.Texture2D, 10)

	c.Assert(d.Count("BindTexture"), qt.Equals, 2)

	target, tex, ok := s.BoundTexture(1)
	c.Assert(ok, qt.Equals, true)
	c.Assert(target, qt.Equals, gfx.Texture2D)
	c.Assert(tex, qt.Equals, uint32(10))

	_, _, ok = s.BoundTexture(5)
	c.Assert(ok, qt.Equals, false)
}

func TestStateRebindsDeletedNames(t *testing.T) {
	c := qt.New(t)
	d := headless.New()
	ctx := core.NewContext(d, core.RendererConfiguration{}, nil)
	s := ctx.State()

	s.SetTextureUnit(0)
	s.BindTexture(gfx.Texture2D, 7)
	s.BindBufferBase(1, 9)
	s.BindVertexArray(3)

	ctx.DeleteTexture(gfx.Texture{Handle: 7})
	ctx.DeleteBuffer(gfx.Buffer{Handle: 9})
	ctx.DeleteTess(gfx.Tess{Handle: 3})
	c.Assert(d.State().Textures, qt.HasLen, 0)
	c.Assert(d.State().Buffers, qt.HasLen, 0)

	// the names are reused by new resources
	s.BindTexture(gfx.Texture2D, 7)
	s.BindBufferBase(1, 9)
	s.BindVertexArray(3)

	c.Assert(d.Count("BindTexture"), qt.Equals, 2)
	c.Assert(d.Count("BindBufferBase"), qt.Equals, 2)
	c.Assert(d.Count("BindVertexArray"), qt.Equals, 2)
	c.Assert(d.State().Textures[0], qt.Equals, headless.TextureBinding{Target: gfx.Texture2D, Texture: 7})
	c.Assert(d.State().Buffers[1], qt.Equals, uint32(9))
	c.Assert(d.State().VertexArray, qt.Equals, uint32(3))
}

func TestStateForgetKeepsOtherBindings(t *testing.T) {
	c := qt.New(t)
	d := headless.New()
	s := core.NewGraphicsState(d)

	s.SetTextureUnit(0)
	s.BindTexture(gfx.Texture2D, 7)
	s.SetTextureUnit(1)
	s.BindTexture(gfx.Texture2D, 8)
	s.BindVertexArray(3)

	s.ForgetTexture(7)
	s.ForgetVertexArray(4)

	_, _, ok := s.BoundTexture(0)
	c.Assert(ok, qt.Equals, false)
	_, tex, ok := s.BoundTexture(1)
	c.Assert(ok, qt.Equals, true)
	c.Assert(tex, qt.Equals, uint32(8))

	s.BindVertexArray(3)
	c.Assert(d.Count("BindVertexArray"), qt.Equals, 1)
}

func TestStateRenderAxes(t *testing.T) {
	c := qt.New(t)
	d := headless.New()
	s := core.NewGraphicsState(d)

	_, _, ok := s.Blending()
	c.Assert(ok, qt.Equals, false)

	s.SetBlendingState(true)
	s.SetBlendingEquation(gfx.Max)
	s.SetBlendingFunc(gfx.One, gfx.Zero)
	b, on, ok := s.Blending()
	c.Assert(ok, qt.Equals, true)
	c.Assert(on, qt.Equals, true)
	c.Assert(b, qt.Equals, gfx.Blending{Equation: gfx.Max, Src: gfx.One, Dst: gfx.Zero})

	s.SetFaceCullingState(true)
	s.SetFaceCullingOrder(gfx.CW)
	s.SetFaceCullingMode(gfx.CullBoth)
	fc, on, ok := s.FaceCulling()
	c.Assert(ok && on, qt.Equals, true)
	c.Assert(fc, qt.Equals, gfx.FaceCulling{Order: gfx.CW, Mode: gfx.CullBoth})

	st := d.State()
	c.Assert(st.Blend, qt.Equals, true)
	c.Assert(st.CullFace, qt.Equals, true)
	c.Assert(st.CullMode, qt.Equals, gfx.CullBoth)
}
