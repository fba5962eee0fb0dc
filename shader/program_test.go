// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package shader_test

import (
	"errors"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/device/headless"
	"github.com/devblok/korugl/gfx"
	"github.com/devblok/korugl/shader"
)

var stages = shader.Stages{
	Vertex: `#version 410 core
uniform mat4 transform;
uniform float time;
void main() {}
`,
	Fragment: `#version 410 core
uniform sampler2D tex;
layout(std140) uniform Lights {
	vec4 color;
};
out vec4 frag;
void main() {}
`,
}

type sceneUniforms struct {
	Transform shader.Uniform[mgl32.Mat4]
	Time      shader.Uniform[float32]
}

func sceneInterface(b *shader.UniformBuilder) (sceneUniforms, error) {
	var (
		u   sceneUniforms
		err error
	)
	if u.Transform, err = shader.Ask[mgl32.Mat4](b, "transform"); err != nil {
		return u, err
	}
	if u.Time, err = shader.Ask[float32](b, "time"); err != nil {
		return u, err
	}
	return u, nil
}

// fakeSampler stands for a bound texture.
type fakeSampler struct {
	typ  gfx.UniformType
	unit int32
}

func (s *fakeSampler) UniformType() gfx.UniformType { return s.typ }

func (s *fakeSampler) UpdateUniform(loc shader.Location) error {
	loc.Driver.UniformInts(loc.Index, s.unit)
	return nil
}

// fakeBlock stands for a bound buffer.
type fakeBlock struct {
	binding uint32
}

func (*fakeBlock) UniformType() gfx.UniformType { return gfx.BufferBinding }

func (b *fakeBlock) UpdateUniform(loc shader.Location) error {
	loc.Driver.UniformBlockBinding(loc.Program, uint32(loc.Index), b.binding)
	return nil
}

func (*fakeBlock) UniformBlock() {}

func TestNewProgram(t *testing.T) {
	c := qt.New(t)
	d := headless.New()

	built, err := shader.New(d, stages, sceneInterface)
	c.Assert(err, qt.IsNil)
	c.Assert(built.Warnings, qt.HasLen, 0)
	c.Assert(built.Log, qt.Equals, "")

	p := built.IgnoreWarnings()
	c.Assert(p.Handle(), qt.Not(qt.Equals), uint32(0))
	// stages are not kept once linked
	c.Assert(d.Count("DeleteShader"), qt.Equals, 2)

	d.UseProgram(p.Handle())
	c.Assert(p.Uniforms().Time.Set(1.5), qt.IsNil)
	ident := mgl32.Ident4()
	c.Assert(p.Uniforms().Transform.Set(ident), qt.IsNil)

	v, ok := d.Uniform(p.Handle(), "time")
	c.Assert(ok, qt.Equals, true)
	c.Assert(v, qt.DeepEquals, []float32{1.5})
	v, _ = d.Uniform(p.Handle(), "transform")
	c.Assert(v, qt.DeepEquals, ident[:])

	p.Delete()
	c.Assert(p.Handle(), qt.Equals, uint32(0))
	c.Assert(d.Count("DeleteProgram"), qt.Equals, 1)
}

func TestBuildLogIsKept(t *testing.T) {
	c := qt.New(t)
	d := headless.New()

	s := stages
	s.Vertex = "uniform float time;\nvoid main() {}\n"
	built, err := shader.New(d, s, shader.NoUniforms)
	c.Assert(err, qt.IsNil)
	c.Assert(built.Log, qt.Matches, `vertex: warning: .*`)
}

func TestAsk(t *testing.T) {
	c := qt.New(t)
	d := headless.New()

	_, err := shader.New(d, stages, func(b *shader.UniformBuilder) (struct{}, error) {
		_, err := shader.Ask[float32](b, "missing")
		return struct{}{}, err
	})
	var pe *shader.ProgramError
	c.Assert(err, qt.ErrorAs, &pe)
	c.Assert(pe.Kind, qt.Equals, shader.InterfaceFailed)
	var w *shader.UniformWarning
	c.Assert(err, qt.ErrorAs, &w)
	c.Assert(*w, qt.Equals, shader.UniformWarning{Name: "missing", Kind: shader.Inactive})
	// the linked program is not leaked
	c.Assert(d.Count("DeleteProgram"), qt.Equals, 1)

	_, err = shader.New(d, stages, func(b *shader.UniformBuilder) (struct{}, error) {
		_, err := shader.Ask[mgl32.Vec3](b, "transform")
		return struct{}{}, err
	})
	c.Assert(err, qt.ErrorAs, &w)
	c.Assert(*w, qt.Equals, shader.UniformWarning{
		Name:      "transform",
		Kind:      shader.TypeMismatch,
		Declared:  gfx.M44,
		Requested: gfx.Vec3,
	})
	c.Assert(err, qt.ErrorMatches, `uniform interface failed: uniform "transform" is declared mat4, requested vec3`)

	_, err = shader.New(d, stages, func(b *shader.UniformBuilder) (struct{}, error) {
		_, err := shader.Ask[string](b, "time")
		return struct{}{}, err
	})
	c.Assert(err, qt.ErrorAs, &w)
	c.Assert(w.Kind, qt.Equals, shader.TypeMismatch)
}

func TestAskUnbound(t *testing.T) {
	c := qt.New(t)
	d := headless.New()

	var missing shader.Uniform[float32]
	built, err := shader.New(d, stages, func(b *shader.UniformBuilder) (struct{}, error) {
		missing = shader.AskUnbound[float32](b, "missing")
		shader.AskUnbound[int32](b, "time")
		return struct{}{}, nil
	})
	c.Assert(err, qt.IsNil)
	c.Assert(built.Warnings, qt.HasLen, 2)
	c.Assert(built.Warnings[0].Kind, qt.Equals, shader.Inactive)
	c.Assert(built.Warnings[1].Kind, qt.Equals, shader.TypeMismatch)

	c.Assert(missing.Bound(), qt.Equals, false)
	d.Reset()
	c.Assert(missing.Set(2), qt.IsNil)
	c.Assert(shader.Unbound[mgl32.Vec4]().Set(mgl32.Vec4{}), qt.IsNil)
	c.Assert(d.Calls(), qt.HasLen, 0)
}

func TestUniformable(t *testing.T) {
	c := qt.New(t)
	d := headless.New()

	type texUniforms struct {
		Tex    shader.Uniform[*fakeSampler]
		Lights shader.Uniform[*fakeBlock]
	}
	built, err := shader.New(d, stages, func(b *shader.UniformBuilder) (u texUniforms, err error) {
		if u.Tex, err = shader.Ask[*fakeSampler](b, "tex"); err != nil {
			return u, err
		}
		u.Lights, err = shader.Ask[*fakeBlock](b, "Lights")
		return u, err
	})
	c.Assert(err, qt.IsNil)
	p := built.Program
	d.UseProgram(p.Handle())

	c.Assert(p.Uniforms().Tex.Set(&fakeSampler{typ: gfx.Sampler2D, unit: 3}), qt.IsNil)
	v, _ := d.Uniform(p.Handle(), "tex")
	c.Assert(v, qt.DeepEquals, []int32{3})

	err = p.Uniforms().Tex.Set(&fakeSampler{typ: gfx.ISampler2D, unit: 4})
	var w *shader.UniformWarning
	c.Assert(err, qt.ErrorAs, &w)
	c.Assert(w.Requested, qt.Equals, gfx.ISampler2D)

	c.Assert(p.Uniforms().Tex.Set(nil), qt.ErrorIs, shader.ErrNilUniform)

	c.Assert(p.Uniforms().Lights.Set(&fakeBlock{binding: 6}), qt.IsNil)
	binding, ok := d.BlockBinding(p.Handle(), "Lights")
	c.Assert(ok, qt.Equals, true)
	c.Assert(binding, qt.Equals, uint32(6))

	// a sampler value cannot feed a float, nor a block a missing block
	q := p.Interface().Query()
	_, err = shader.Ask[*fakeSampler](q, "time")
	c.Assert(err, qt.ErrorAs, &w)
	c.Assert(w.Kind, qt.Equals, shader.TypeMismatch)
	_, err = shader.Ask[*fakeBlock](q, "Shadows")
	c.Assert(err, qt.ErrorAs, &w)
	c.Assert(w.Kind, qt.Equals, shader.Inactive)
}

func TestBuildFailures(t *testing.T) {
	c := qt.New(t)
	d := headless.New()

	_, err := shader.New(d, shader.Stages{Vertex: stages.Vertex}, shader.NoUniforms)
	c.Assert(err, qt.ErrorIs, shader.ErrMissingStage)

	s := stages
	s.TessControl = "#version 410 core\nvoid main() {}\n"
	_, err = shader.New(d, s, shader.NoUniforms)
	c.Assert(err, qt.ErrorIs, shader.ErrTessStages)

	s = stages
	s.Fragment = "#version 410 core\n#error broken\n"
	_, err = shader.New(d, s, shader.NoUniforms)
	var pe *shader.ProgramError
	c.Assert(err, qt.ErrorAs, &pe)
	c.Assert(pe.Kind, qt.Equals, shader.CompilationFailed)
	c.Assert(pe.Stage, qt.Equals, device.FragmentStage)
	c.Assert(pe.Log, qt.Equals, "error: #error broken")
	// the vertex stage compiled before the failure is freed
	c.Assert(d.Count("DeleteShader"), qt.Equals, 1)
}

func TestAllStagesInOrder(t *testing.T) {
	c := qt.New(t)
	d := headless.New()

	s := stages
	s.TessControl = "#version 410 core\nlayout(vertices = 3) out;\nvoid main() {}\n"
	s.TessEvaluation = "#version 410 core\nlayout(triangles) in;\nvoid main() {}\n"
	s.Geometry = "#version 410 core\nvoid main() {}\n"
	_, err := shader.New(d, s, shader.NoUniforms)
	c.Assert(err, qt.IsNil)

	var compiled []interface{}
	for _, call := range d.Calls() {
		if call.Name == "CompileShader" {
			compiled = append(compiled, call.Args[0])
		}
	}
	c.Assert(compiled, qt.DeepEquals, []interface{}{
		"vertex", "tessellation control", "tessellation evaluation", "geometry", "fragment",
	})
}

type timeOnly struct {
	Time shader.Uniform[float32]
}

func TestAdapt(t *testing.T) {
	c := qt.New(t)
	d := headless.New()

	built, err := shader.New(d, stages, sceneInterface)
	c.Assert(err, qt.IsNil)
	p := built.Program
	handle := p.Handle()

	_, err = shader.Adapt(p, func(b *shader.UniformBuilder) (timeOnly, error) {
		return timeOnly{}, errors.New("nope")
	})
	var af *shader.AdaptationFailure[sceneUniforms]
	c.Assert(err, qt.ErrorAs, &af)
	c.Assert(af.IgnoreError(), qt.Equals, p)
	c.Assert(p.Handle(), qt.Equals, handle)
	c.Assert(p.Uniforms().Time.Bound(), qt.Equals, true)

	adapted, err := shader.Adapt(p, func(b *shader.UniformBuilder) (u timeOnly, err error) {
		u.Time, err = shader.Ask[float32](b, "time")
		return u, err
	})
	c.Assert(err, qt.IsNil)
	q := adapted.Program
	c.Assert(q.Handle(), qt.Equals, handle)
	c.Assert(q.Uniforms().Time.Bound(), qt.Equals, true)
	c.Assert(p.Handle(), qt.Equals, uint32(0))
	// adapting never rebuilds the program
	c.Assert(d.Count("LinkProgram"), qt.Equals, 1)
}

func TestReadapt(t *testing.T) {
	c := qt.New(t)
	d := headless.New()

	built, err := shader.New(d, stages, sceneInterface)
	c.Assert(err, qt.IsNil)
	p := built.Program

	re, err := p.Readapt(func(b *shader.UniformBuilder) (u sceneUniforms, err error) {
		u.Time = shader.AskUnbound[float32](b, "renamed")
		return u, nil
	})
	c.Assert(err, qt.IsNil)
	c.Assert(re.Program, qt.Equals, p)
	c.Assert(re.Warnings, qt.HasLen, 1)
	c.Assert(p.Uniforms().Time.Bound(), qt.Equals, false)
}

func TestParseFileName(t *testing.T) {
	c := qt.New(t)

	program, stage, ok := shader.ParseFileName("shaders/quad.frag.glsl")
	c.Assert(ok, qt.Equals, true)
	c.Assert(program, qt.Equals, "quad")
	c.Assert(stage, qt.Equals, device.FragmentStage)

	for _, bad := range []string{"quad.glsl", "quad.frag", "a.b.frag.glsl", "quad.comp.glsl"} {
		_, _, ok := shader.ParseFileName(bad)
		c.Check(ok, qt.Equals, false, qt.Commentf("%s", bad))
	}
}

func TestCollect(t *testing.T) {
	c := qt.New(t)
	got := shader.Collect(map[string]string{
		"quad.vert.glsl":  "v",
		"quad.frag.glsl":  "f",
		"patch.tesc.glsl": "tc",
		"patch.tese.glsl": "te",
		"README.md":       "docs",
	})
	c.Assert(got, qt.DeepEquals, map[string]shader.Stages{
		"quad":  {Vertex: "v", Fragment: "f"},
		"patch": {TessControl: "tc", TessEvaluation: "te"},
	})
}
