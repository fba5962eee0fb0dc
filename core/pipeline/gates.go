// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package pipeline

import (
	"github.com/pkg/errors"

	"github.com/devblok/korugl/core"
	"github.com/devblok/korugl/gfx"
	"github.com/devblok/korugl/shader"
)

// ShadingGate selects the program of the draw commands below it.
type ShadingGate struct {
	ctx   *core.Context
	stack *BindingStack
}

// Shade makes p the active program and runs body with its uniform
// interface. Slots bound during body are released when it returns.
func Shade[U any](sg *ShadingGate, p *shader.Program[U], body func(*shader.Interface[U], *RenderGate) error) error {
	if err := sg.stack.live(); err != nil {
		return err
	}
	sg.stack.state.UseProgram(p.Handle())
	sg.stack.log.WithField("program", p.Handle()).Trace("shading")

	rg := &RenderGate{ctx: sg.ctx, stack: sg.stack}
	iface := p.Interface()
	return sg.stack.scoped(func() error {
		return body(iface, rg)
	})
}

// RenderGate selects the render state of the draw commands below it.
type RenderGate struct {
	ctx   *core.Context
	stack *BindingStack
}

// Render applies rs and runs body. Every part of rs is written, so what
// an earlier Render enabled never leaks into this one. Slots bound during
// body are released when it returns.
func (rg *RenderGate) Render(rs gfx.RenderState, body func(*TessGate) error) error {
	if err := rg.stack.live(); err != nil {
		return err
	}
	state := rg.stack.state

	if b, ok := rs.Blending(); ok {
		state.SetBlendingState(true)
		state.SetBlendingEquation(b.Equation)
		state.SetBlendingFunc(b.Src, b.Dst)
	} else {
		state.SetBlendingState(false)
	}

	if cmp, ok := rs.DepthTest(); ok {
		state.SetDepthTest(true)
		state.SetDepthTestComparison(cmp)
	} else {
		state.SetDepthTest(false)
	}

	if fc, ok := rs.FaceCulling(); ok {
		state.SetFaceCullingState(true)
		state.SetFaceCullingOrder(fc.Order)
		state.SetFaceCullingMode(fc.Mode)
	} else {
		state.SetFaceCullingState(false)
	}

	tg := &TessGate{ctx: rg.ctx, stack: rg.stack}
	return rg.stack.scoped(func() error {
		return body(tg)
	})
}

// TessGate draws tessellations.
type TessGate struct {
	ctx   *core.Context
	stack *BindingStack
}

// Render draws slice with the program and render state of the enclosing
// gates.
func (tg *TessGate) Render(slice gfx.TessSlice) error {
	if err := tg.stack.live(); err != nil {
		return err
	}
	if !slice.Valid() {
		if slice.Tess == nil {
			return errors.Wrap(ErrInvalidSlice, "no tessellation")
		}
		return errors.Wrapf(ErrInvalidSlice, "vertices [%d, %d) of %d",
			slice.Start, slice.Start+slice.Count, slice.Tess.VertexCount)
	}

	t := slice.Tess
	state := tg.stack.state
	state.BindVertexArray(t.Handle)
	if t.Mode == gfx.Patches && t.PatchVertices > 0 {
		state.SetPatchVertices(int32(t.PatchVertices))
	}

	instances := slice.Instances
	if instances < 1 {
		instances = 1
	}
	tg.ctx.Driver().Draw(t.Mode, int32(slice.Start), int32(slice.Count), int32(instances), t.Indexed)
	return nil
}
