// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package shader builds GPU programs and the typed uniform interfaces used
// to feed them.
package shader

import (
	"strings"

	"github.com/devblok/korugl/device"
)

// Stages holds the GLSL sources of a program. Vertex and Fragment are
// required; the tessellation stages come in pairs.
type Stages struct {
	Vertex         string
	TessControl    string
	TessEvaluation string
	Geometry       string
	Fragment       string
}

type stageSource struct {
	stage  device.ShaderStage
	source string
}

func (s Stages) sources() ([]stageSource, error) {
	if strings.TrimSpace(s.Vertex) == "" || strings.TrimSpace(s.Fragment) == "" {
		return nil, ErrMissingStage
	}
	if (s.TessControl == "") != (s.TessEvaluation == "") {
		return nil, ErrTessStages
	}

	out := []stageSource{{device.VertexStage, s.Vertex}}
	if s.TessControl != "" {
		out = append(out,
			stageSource{device.TessControlStage, s.TessControl},
			stageSource{device.TessEvaluationStage, s.TessEvaluation})
	}
	if s.Geometry != "" {
		out = append(out, stageSource{device.GeometryStage, s.Geometry})
	}
	return append(out, stageSource{device.FragmentStage, s.Fragment}), nil
}

// InterfaceFunc builds a uniform interface from a linked program.
type InterfaceFunc[U any] func(b *UniformBuilder) (U, error)

// NoUniforms is the interface of programs without uniforms.
func NoUniforms(*UniformBuilder) (struct{}, error) {
	return struct{}{}, nil
}

// Program is a linked GPU program with a uniform interface of type U.
type Program[U any] struct {
	driver   device.Driver
	handle   uint32
	uniforms U
}

// Handle returns the driver program object.
func (p *Program[U]) Handle() uint32 {
	return p.handle
}

// Uniforms returns the uniform interface.
func (p *Program[U]) Uniforms() U {
	return p.uniforms
}

// Interface returns what a shading body sees of the program.
func (p *Program[U]) Interface() *Interface[U] {
	return &Interface[U]{program: p}
}

// Delete frees the driver program.
func (p *Program[U]) Delete() {
	if p.handle != 0 {
		p.driver.DeleteProgram(p.handle)
		p.handle = 0
	}
}

// Readapt rebuilds the uniform interface of p in place, keeping its type.
// On failure p keeps its former interface.
func (p *Program[U]) Readapt(iface InterfaceFunc[U]) (BuiltProgram[U], error) {
	b := newUniformBuilder(p.driver, p.handle)
	uniforms, err := iface(b)
	if err != nil {
		return BuiltProgram[U]{}, &AdaptationFailure[U]{Program: p, Err: &ProgramError{Kind: InterfaceFailed, Err: err}}
	}
	p.uniforms = uniforms
	return BuiltProgram[U]{Program: p, Warnings: b.warnings}, nil
}

// Interface is the uniform surface of a program in use.
type Interface[U any] struct {
	program *Program[U]
}

// Uniforms returns the interface built with the program.
func (i *Interface[U]) Uniforms() U {
	return i.program.uniforms
}

// Query returns a builder to look up uniforms not part of the interface.
func (i *Interface[U]) Query() *UniformBuilder {
	return newUniformBuilder(i.program.driver, i.program.handle)
}

// New compiles and links stages and builds the uniform interface.
// Failures are *ProgramError values; no driver object outlives a failure.
func New[U any](driver device.Driver, stages Stages, iface InterfaceFunc[U]) (BuiltProgram[U], error) {
	sources, err := stages.sources()
	if err != nil {
		return BuiltProgram[U]{}, err
	}

	var (
		shaders []uint32
		logs    []string
	)
	defer func() {
		for _, s := range shaders {
			driver.DeleteShader(s)
		}
	}()

	for _, src := range sources {
		s, log, err := driver.CompileShader(src.stage, src.source)
		if err != nil {
			return BuiltProgram[U]{}, &ProgramError{Kind: CompilationFailed, Stage: src.stage, Log: log, Err: err}
		}
		if log != "" {
			logs = append(logs, src.stage.String()+": "+log)
		}
		shaders = append(shaders, s)
	}

	handle, log, err := driver.LinkProgram(shaders)
	if err != nil {
		return BuiltProgram[U]{}, &ProgramError{Kind: LinkFailed, Log: log, Err: err}
	}
	if log != "" {
		logs = append(logs, "link: "+log)
	}

	b := newUniformBuilder(driver, handle)
	uniforms, err := iface(b)
	if err != nil {
		driver.DeleteProgram(handle)
		return BuiltProgram[U]{}, &ProgramError{Kind: InterfaceFailed, Err: err}
	}

	return BuiltProgram[U]{
		Program:  &Program[U]{driver: driver, handle: handle, uniforms: uniforms},
		Warnings: b.warnings,
		Log:      strings.Join(logs, "\n"),
	}, nil
}

// Adapt builds a new uniform interface for the program of p without
// touching the GPU program. On success p is emptied and must not be used.
// On failure the error is an *AdaptationFailure[U] holding p unchanged.
func Adapt[Q, U any](p *Program[U], iface InterfaceFunc[Q]) (BuiltProgram[Q], error) {
	b := newUniformBuilder(p.driver, p.handle)
	uniforms, err := iface(b)
	if err != nil {
		return BuiltProgram[Q]{}, &AdaptationFailure[U]{Program: p, Err: &ProgramError{Kind: InterfaceFailed, Err: err}}
	}

	q := &Program[Q]{driver: p.driver, handle: p.handle, uniforms: uniforms}
	*p = Program[U]{}
	return BuiltProgram[Q]{Program: q, Warnings: b.warnings}, nil
}
