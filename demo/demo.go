// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package demo is a small scene used by the koru binaries: a spinning,
// textured square with an outline. It exercises every gate of a pipeline
// and runs on any device.Driver.
package demo

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/devblok/korugl/core"
	"github.com/devblok/korugl/core/pipeline"
	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/gfx"
	"github.com/devblok/korugl/model"
	"github.com/devblok/korugl/shader"
)

// Program names the scene needs among the shader sources.
const (
	QuadProgram    = "quad"
	OutlineProgram = "outline"
)

const (
	checkerSize = 8
	// radians per frame
	rotationStep = 0.02
)

var outlineColor = mgl32.Vec4{1, 0.8, 0.2, 1}

type quadUniforms struct {
	Transform shader.Uniform[mgl32.Mat4]
	Time      shader.Uniform[float32]
	Albedo    shader.Uniform[*pipeline.BoundTexture]
	Tint      shader.Uniform[*pipeline.BoundBuffer]
}

func quadInterface(b *shader.UniformBuilder) (u quadUniforms, err error) {
	if u.Transform, err = shader.Ask[mgl32.Mat4](b, "transform"); err != nil {
		return u, err
	}
	if u.Albedo, err = shader.Ask[*pipeline.BoundTexture](b, "albedo"); err != nil {
		return u, err
	}
	if u.Tint, err = shader.Ask[*pipeline.BoundBuffer](b, "Tint"); err != nil {
		return u, err
	}
	// optimized away by some drivers
	u.Time = shader.AskUnbound[float32](b, "time")
	return u, nil
}

type outlineUniforms struct {
	Transform shader.Uniform[mgl32.Mat4]
	Color     shader.Uniform[mgl32.Vec4]
}

func outlineInterface(b *shader.UniformBuilder) (u outlineUniforms, err error) {
	if u.Transform, err = shader.Ask[mgl32.Mat4](b, "transform"); err != nil {
		return u, err
	}
	u.Color, err = shader.Ask[mgl32.Vec4](b, "color")
	return u, err
}

// Scene owns the programs and resources of the demo.
type Scene struct {
	ctx     *core.Context
	builder *pipeline.Builder
	log     *logrus.Entry
	clear   mgl32.Vec4

	quad    *shader.Program[quadUniforms]
	outline *shader.Program[outlineUniforms]

	checker gfx.Texture
	tint    gfx.Buffer
	square  gfx.Tess
	border  gfx.Tess

	models []placed
}

type placed struct {
	object *model.Object
	tess   gfx.Tess
}

// Load builds the scene from shader sources keyed by file name, as
// returned by Shaders or ShadersFrom.
func Load(ctx *core.Context, sources map[string]string, clear mgl32.Vec4) (*Scene, error) {
	s := &Scene{
		ctx:     ctx,
		builder: pipeline.NewBuilder(ctx),
		log:     ctx.Log().WithField("component", "demo"),
		clear:   clear,
	}
	if err := s.load(sources); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Scene) load(sources map[string]string) error {
	d := s.ctx.Driver()
	programs := shader.Collect(sources)

	quadStages, ok := programs[QuadProgram]
	if !ok {
		return errors.Errorf("no %q program among %d shader sources", QuadProgram, len(sources))
	}
	quad, err := shader.New(d, quadStages, quadInterface)
	if err != nil {
		return errors.Wrap(err, QuadProgram)
	}
	s.quad = keepProgram(s, QuadProgram, quad.Warnings, quad.Program)

	outlineStages, ok := programs[OutlineProgram]
	if !ok {
		return errors.Errorf("no %q program among %d shader sources", OutlineProgram, len(sources))
	}
	outline, err := shader.New(d, outlineStages, outlineInterface)
	if err != nil {
		return errors.Wrap(err, OutlineProgram)
	}
	s.outline = keepProgram(s, OutlineProgram, outline.Warnings, outline.Program)

	if s.checker, err = d.NewTexture(gfx.Texture{
		Dim:    gfx.Dim2,
		Format: gfx.RGBA8,
		Width:  checkerSize,
		Height: checkerSize,
	}, device.Pixels(checkerboard(checkerSize), checkerSize, checkerSize)); err != nil {
		return errors.Wrap(err, "checker texture")
	}

	var tint bytes.Buffer
	if err := binary.Write(&tint, binary.LittleEndian, mgl32.Vec4{0.9, 0.9, 1, 1}); err != nil {
		return err
	}
	if s.tint, err = d.NewBuffer(tint.Bytes()); err != nil {
		return errors.Wrap(err, "tint buffer")
	}

	if s.square, err = d.NewTess(gfx.TriangleStrip, []float32{
		-1, -1,
		1, -1,
		-1, 1,
		1, 1,
	}, 2); err != nil {
		return errors.Wrap(err, "square")
	}
	if s.border, err = d.NewTess(gfx.LineStrip, []float32{
		-1, -1,
		1, -1,
		1, 1,
		-1, 1,
		-1, -1,
	}, 2); err != nil {
		return errors.Wrap(err, "border")
	}

	s.log.WithFields(logrus.Fields{
		"quad":    s.quad.Handle(),
		"outline": s.outline.Handle(),
	}).Debug("scene loaded")
	return nil
}

func keepProgram[U any](s *Scene, name string, warnings []shader.UniformWarning, p *shader.Program[U]) *shader.Program[U] {
	for i := range warnings {
		s.log.WithField("program", name).Warn(warnings[i].Error())
	}
	return p
}

// AddModel uploads obj. It is drawn flat shaded in every following frame.
func (s *Scene) AddModel(obj *model.Object) error {
	tess, err := obj.Upload(s.ctx.Driver())
	if err != nil {
		return errors.Wrap(err, "model")
	}
	s.models = append(s.models, placed{object: obj, tess: tess})
	return nil
}

// Frame renders one frame into fb.
func (s *Scene) Frame(fb gfx.Framebuffer, frame uint64) error {
	transform := mgl32.HomogRotate3DZ(float32(frame) * rotationStep).Mul4(mgl32.Scale3D(0.6, 0.6, 1))
	seconds := float32(frame) / 60

	return s.builder.Pipeline(fb, s.clear, func(p *pipeline.Pipeline, sg *pipeline.ShadingGate) error {
		tint, err := p.BindBuffer(&s.tint)
		if err != nil {
			return err
		}

		err = pipeline.Shade(sg, s.quad, func(iface *shader.Interface[quadUniforms], rg *pipeline.RenderGate) error {
			albedo, err := p.BindTexture(&s.checker)
			if err != nil {
				return err
			}
			u := iface.Uniforms()
			if err := firstError(
				u.Transform.Set(transform),
				u.Time.Set(seconds),
				u.Albedo.Set(albedo),
				u.Tint.Set(tint),
			); err != nil {
				return err
			}

			rs := gfx.DefaultRenderState().
				SetBlending(gfx.Additive, gfx.SrcAlpha, gfx.SrcAlphaComplement).
				SetFaceCulling(gfx.CCW, gfx.CullBack)
			return rg.Render(rs, func(tg *pipeline.TessGate) error {
				return tg.Render(s.square.Whole())
			})
		})
		if err != nil {
			return err
		}

		return pipeline.Shade(sg, s.outline, func(iface *shader.Interface[outlineUniforms], rg *pipeline.RenderGate) error {
			u := iface.Uniforms()
			if err := firstError(u.Transform.Set(transform), u.Color.Set(outlineColor)); err != nil {
				return err
			}
			err := rg.Render(gfx.DefaultRenderState().NoDepthTest(), func(tg *pipeline.TessGate) error {
				return tg.Render(s.border.Whole())
			})
			if err != nil {
				return err
			}

			solid := gfx.DefaultRenderState().SetFaceCulling(gfx.CCW, gfx.CullBack)
			for _, m := range s.models {
				if err := firstError(u.Transform.Set(m.object.Transform()), u.Color.Set(m.object.Color())); err != nil {
					return err
				}
				tess := m.tess
				if err := rg.Render(solid, func(tg *pipeline.TessGate) error {
					return tg.Render(tess.Whole())
				}); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// Close deletes the programs and resources of the scene.
func (s *Scene) Close() {
	if s.quad != nil {
		s.quad.Delete()
	}
	if s.outline != nil {
		s.outline.Delete()
	}
	if s.checker.Handle != 0 {
		s.ctx.DeleteTexture(s.checker)
	}
	if s.tint.Handle != 0 {
		s.ctx.DeleteBuffer(s.tint)
	}
	if s.square.Handle != 0 {
		s.ctx.DeleteTess(s.square)
	}
	if s.border.Handle != 0 {
		s.ctx.DeleteTess(s.border)
	}
	for _, m := range s.models {
		s.ctx.DeleteTess(m.tess)
	}
	s.models = nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func checkerboard(size int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	light := color.NRGBA{R: 230, G: 230, B: 230, A: 255}
	dark := color.NRGBA{R: 40, G: 40, B: 60, A: 255}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x+y)%2 == 0 {
				img.SetNRGBA(x, y, light)
			} else {
				img.SetNRGBA(x, y, dark)
			}
		}
	}
	return img
}
