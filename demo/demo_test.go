// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package demo

import (
	"bytes"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/korugl/core"
	"github.com/devblok/korugl/device/headless"
	"github.com/devblok/korugl/gfx"
	"github.com/devblok/korugl/model"
	"github.com/devblok/korugl/utility/kar"
)

func newScene(c *qt.C) (*Scene, *headless.Driver) {
	sources, err := Shaders()
	c.Assert(err, qt.IsNil)

	d := headless.New()
	ctx := core.NewContext(d, core.RendererConfiguration{}, core.NewLogger("panic"))
	s, err := Load(ctx, sources, mgl32.Vec4{0, 0, 0, 1})
	c.Assert(err, qt.IsNil)
	c.Cleanup(s.Close)
	d.Reset()
	return s, d
}

func TestShaders(t *testing.T) {
	c := qt.New(t)
	sources, err := Shaders()
	c.Assert(err, qt.IsNil)
	for _, name := range []string{"quad.vert.glsl", "quad.frag.glsl", "outline.vert.glsl", "outline.frag.glsl"} {
		c.Assert(sources[name], qt.Contains, "#version 410 core")
	}
}

func TestPackRoundTrip(t *testing.T) {
	c := qt.New(t)
	want, err := Shaders()
	c.Assert(err, qt.IsNil)

	data, err := Pack(kar.Header{Author: "devblok", Version: 1})
	c.Assert(err, qt.IsNil)
	ar, err := kar.Open(bytes.NewReader(data))
	c.Assert(err, qt.IsNil)

	got, err := ShadersFrom(ar)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, want)
}

func TestFrame(t *testing.T) {
	c := qt.New(t)
	s, d := newScene(c)

	c.Assert(s.Frame(gfx.BackBuffer(800, 600), 30), qt.IsNil)

	draws := d.Draws()
	c.Assert(draws, qt.HasLen, 2)

	quad := draws[0]
	c.Assert(quad.Mode, qt.Equals, gfx.TriangleStrip)
	c.Assert(quad.Count, qt.Equals, int32(4))
	c.Assert(quad.State.Program, qt.Equals, s.quad.Handle())
	c.Assert(quad.State.Blend, qt.IsTrue)
	c.Assert(quad.State.CullFace, qt.IsTrue)
	c.Assert(quad.State.DepthTest, qt.IsTrue)
	c.Assert(quad.State.Textures[0].Texture, qt.Equals, s.checker.Handle)
	c.Assert(quad.State.Buffers[0], qt.Equals, s.tint.Handle)

	outline := draws[1]
	c.Assert(outline.Mode, qt.Equals, gfx.LineStrip)
	c.Assert(outline.Count, qt.Equals, int32(5))
	c.Assert(outline.State.Program, qt.Equals, s.outline.Handle())
	c.Assert(outline.State.DepthTest, qt.IsFalse)
	c.Assert(outline.State.Blend, qt.IsFalse)
	c.Assert(outline.State.Viewport, qt.Equals, [4]int32{0, 0, 800, 600})

	albedo, ok := d.Uniform(s.quad.Handle(), "albedo")
	c.Assert(ok, qt.IsTrue)
	c.Assert(albedo, qt.DeepEquals, []int32{0})
	binding, ok := d.BlockBinding(s.quad.Handle(), "Tint")
	c.Assert(ok, qt.IsTrue)
	c.Assert(binding, qt.Equals, uint32(0))
	time, ok := d.Uniform(s.quad.Handle(), "time")
	c.Assert(ok, qt.IsTrue)
	c.Assert(time, qt.DeepEquals, []float32{0.5})
	col, ok := d.Uniform(s.outline.Handle(), "color")
	c.Assert(ok, qt.IsTrue)
	c.Assert(col, qt.DeepEquals, outlineColor[:])
}

func TestFramesReuseSlots(t *testing.T) {
	c := qt.New(t)
	s, d := newScene(c)

	for frame := uint64(0); frame < 3; frame++ {
		c.Assert(s.Frame(gfx.BackBuffer(320, 240), frame), qt.IsNil)
	}
	for _, draw := range d.Draws() {
		c.Assert(draw.State.Textures, qt.HasLen, 1)
		c.Assert(draw.State.Buffers, qt.HasLen, 1)
	}
	// state is cached across frames
	c.Assert(d.Count("UseProgram"), qt.Equals, 6)
	c.Assert(d.Count("ActiveTexture"), qt.Equals, 1)
}

func TestLoadNeedsBothPrograms(t *testing.T) {
	c := qt.New(t)
	sources, err := Shaders()
	c.Assert(err, qt.IsNil)
	delete(sources, "outline.frag.glsl")

	d := headless.New()
	ctx := core.NewContext(d, core.RendererConfiguration{}, core.NewLogger("panic"))
	_, err = Load(ctx, sources, mgl32.Vec4{})
	c.Assert(err, qt.ErrorMatches, `outline: .*`)
	// the quad program was built and deleted again
	c.Assert(d.Count("DeleteProgram"), qt.Equals, 1)

	_, err = Load(ctx, map[string]string{}, mgl32.Vec4{})
	c.Assert(err, qt.ErrorMatches, `no "quad" program among 0 shader sources`)
}

func TestModels(t *testing.T) {
	c := qt.New(t)
	s, d := newScene(c)

	obj := model.NewObject([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	obj.SetColor(mgl32.Vec4{0, 1, 0, 1})
	obj.SetPosition(mgl32.Translate3D(0.5, 0, 0))
	c.Assert(s.AddModel(obj), qt.IsNil)

	c.Assert(s.Frame(gfx.BackBuffer(320, 240), 0), qt.IsNil)
	draws := d.Draws()
	c.Assert(draws, qt.HasLen, 3)

	mesh := draws[2]
	c.Assert(mesh.Mode, qt.Equals, gfx.Triangles)
	c.Assert(mesh.Count, qt.Equals, int32(3))
	c.Assert(mesh.State.Program, qt.Equals, s.outline.Handle())
	c.Assert(mesh.State.CullFace, qt.IsTrue)
	c.Assert(mesh.State.DepthTest, qt.IsTrue)

	col, ok := d.Uniform(s.outline.Handle(), "color")
	c.Assert(ok, qt.IsTrue)
	c.Assert(col, qt.DeepEquals, []float32{0, 1, 0, 1})
	transform, ok := d.Uniform(s.outline.Handle(), "transform")
	c.Assert(ok, qt.IsTrue)
	want := obj.Transform()
	c.Assert(transform, qt.DeepEquals, want[:])

	err := s.AddModel(model.NewObject(nil))
	c.Assert(err, qt.ErrorMatches, "model: 0 vertices do not make triangles")
}
