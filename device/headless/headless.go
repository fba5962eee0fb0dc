// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package headless implements device.Driver without any GPU. It keeps the
// binding state a GL context would keep, records every call made on it and
// snapshots that state for each draw. Shader "compilation" reflects the
// uniforms declared in the GLSL source.
package headless

import (
	"errors"
	"fmt"
	"sort"

	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/gfx"
)

// DefaultCaps are the limits reported by New.
var DefaultCaps = device.Caps{
	Name:              "headless",
	Version:           "4.1 headless",
	MaxTextureUnits:   16,
	MaxBufferBindings: 24,
}

// Call is one recorded driver call.
type Call struct {
	Name string        `json:"name"`
	Args []interface{} `json:"args,omitempty"`
}

// TextureBinding is what a texture unit holds.
type TextureBinding struct {
	Target  gfx.TextureTarget `json:"target"`
	Texture uint32            `json:"texture"`
}

// State is a snapshot of the emulated context state.
type State struct {
	ActiveUnit  uint32                    `json:"activeUnit"`
	Textures    map[uint32]TextureBinding `json:"textures"`
	Buffers     map[uint32]uint32         `json:"buffers"`
	Program     uint32                    `json:"program"`
	Framebuffer uint32                    `json:"framebuffer"`
	VertexArray uint32                    `json:"vertexArray"`
	Patch       int32                     `json:"patch"`
	Viewport    [4]int32                  `json:"viewport"`
	ClearColor  [4]float32                `json:"clearColor"`

	Blend         bool              `json:"blend"`
	BlendEquation gfx.BlendEquation `json:"blendEquation"`
	BlendSrc      gfx.BlendFactor   `json:"blendSrc"`
	BlendDst      gfx.BlendFactor   `json:"blendDst"`

	DepthTest bool                `json:"depthTest"`
	DepthFunc gfx.DepthComparison `json:"depthFunc"`

	CullFace  bool                 `json:"cullFace"`
	FrontFace gfx.FaceCullingOrder `json:"frontFace"`
	CullMode  gfx.FaceCullingMode  `json:"cullMode"`
}

func (s State) clone() State {
	c := s
	c.Textures = make(map[uint32]TextureBinding, len(s.Textures))
	for k, v := range s.Textures {
		c.Textures[k] = v
	}
	c.Buffers = make(map[uint32]uint32, len(s.Buffers))
	for k, v := range s.Buffers {
		c.Buffers[k] = v
	}
	return c
}

// DrawCall is a recorded draw with the state it ran under.
type DrawCall struct {
	Mode      gfx.PrimitiveMode `json:"mode"`
	First     int32             `json:"first"`
	Count     int32             `json:"count"`
	Instances int32             `json:"instances"`
	Indexed   bool              `json:"indexed"`
	State     State             `json:"state"`
}

type shaderObject struct {
	stage    device.ShaderStage
	uniforms []declaration
	blocks   []string
}

type programObject struct {
	uniforms      []device.UniformInfo
	blocks        map[string]uint32
	blockBindings map[uint32]uint32
	values        map[int32]interface{}
}

// Driver is an in-memory device.Driver. It is not safe for concurrent
// use, like the contexts it stands in for.
type Driver struct {
	caps  device.Caps
	state State

	calls []Call
	draws []DrawCall

	nextHandle uint32
	shaders    map[uint32]*shaderObject
	programs   map[uint32]*programObject
	textures   map[uint32]gfx.Texture
	buffers    map[uint32]gfx.Buffer
	tesses     map[uint32]gfx.Tess
}

// New returns a driver reporting DefaultCaps.
func New() *Driver {
	return NewWithCaps(DefaultCaps)
}

// NewWithCaps returns a driver reporting caps.
func NewWithCaps(caps device.Caps) *Driver {
	return &Driver{
		caps: caps,
		state: State{
			Textures: make(map[uint32]TextureBinding),
			Buffers:  make(map[uint32]uint32),
		},
		shaders:  make(map[uint32]*shaderObject),
		programs: make(map[uint32]*programObject),
		textures: make(map[uint32]gfx.Texture),
		buffers:  make(map[uint32]gfx.Buffer),
		tesses:   make(map[uint32]gfx.Tess),
	}
}

func (d *Driver) record(name string, args ...interface{}) {
	d.calls = append(d.calls, Call{Name: name, Args: args})
}

func (d *Driver) handle() uint32 {
	d.nextHandle++
	return d.nextHandle
}

// Calls returns every call recorded since the last Reset.
func (d *Driver) Calls() []Call {
	return d.calls
}

// CallNames returns the names of the recorded calls, in order.
func (d *Driver) CallNames() []string {
	names := make([]string, len(d.calls))
	for i, c := range d.calls {
		names[i] = c.Name
	}
	return names
}

// Count returns how many times the named call was recorded.
func (d *Driver) Count(name string) int {
	var n int
	for _, c := range d.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Draws returns the recorded draw calls.
func (d *Driver) Draws() []DrawCall {
	return d.draws
}

// Reset forgets recorded calls and draws. Context state and objects are
// kept.
func (d *Driver) Reset() {
	d.calls = nil
	d.draws = nil
}

// State returns a snapshot of the current context state.
func (d *Driver) State() State {
	return d.state.clone()
}

// Uniform returns the last value written to the named uniform of program.
// Values are []int32, []uint32 or []float32 slices.
func (d *Driver) Uniform(program uint32, name string) (interface{}, bool) {
	p, ok := d.programs[program]
	if !ok {
		return nil, false
	}
	for _, u := range p.uniforms {
		if u.Name == name {
			v, ok := p.values[u.Location]
			return v, ok
		}
	}
	return nil, false
}

// BlockBinding returns the buffer binding point the named uniform block
// of program is routed to.
func (d *Driver) BlockBinding(program uint32, name string) (uint32, bool) {
	p, ok := d.programs[program]
	if !ok {
		return 0, false
	}
	idx, ok := p.blocks[name]
	if !ok {
		return 0, false
	}
	b, ok := p.blockBindings[idx]
	return b, ok
}

// Caps implements device.Driver.
func (d *Driver) Caps() device.Caps {
	return d.caps
}

// ActiveTexture implements device.Driver.
func (d *Driver) ActiveTexture(unit uint32) {
	d.record("ActiveTexture", unit)
	d.state.ActiveUnit = unit
}

// BindTexture implements device.Driver.
func (d *Driver) BindTexture(target gfx.TextureTarget, texture uint32) {
	d.record("BindTexture", target, texture)
	if texture == 0 {
		delete(d.state.Textures, d.state.ActiveUnit)
		return
	}
	d.state.Textures[d.state.ActiveUnit] = TextureBinding{Target: target, Texture: texture}
}

// BindBufferBase implements device.Driver.
func (d *Driver) BindBufferBase(index uint32, buffer uint32) {
	d.record("BindBufferBase", index, buffer)
	if buffer == 0 {
		delete(d.state.Buffers, index)
		return
	}
	d.state.Buffers[index] = buffer
}

// UseProgram implements device.Driver.
func (d *Driver) UseProgram(program uint32) {
	d.record("UseProgram", program)
	d.state.Program = program
}

// BindDrawFramebuffer implements device.Driver.
func (d *Driver) BindDrawFramebuffer(framebuffer uint32) {
	d.record("BindDrawFramebuffer", framebuffer)
	d.state.Framebuffer = framebuffer
}

// BindVertexArray implements device.Driver.
func (d *Driver) BindVertexArray(vao uint32) {
	d.record("BindVertexArray", vao)
	d.state.VertexArray = vao
}

// PatchVertices implements device.Driver.
func (d *Driver) PatchVertices(n int32) {
	d.record("PatchVertices", n)
	d.state.Patch = n
}

// Viewport implements device.Driver.
func (d *Driver) Viewport(x, y, width, height int32) {
	d.record("Viewport", x, y, width, height)
	d.state.Viewport = [4]int32{x, y, width, height}
}

// ClearColor implements device.Driver.
func (d *Driver) ClearColor(r, g, b, a float32) {
	d.record("ClearColor", r, g, b, a)
	d.state.ClearColor = [4]float32{r, g, b, a}
}

// Clear implements device.Driver.
func (d *Driver) Clear(color, depth bool) {
	d.record("Clear", color, depth)
}

func (d *Driver) setCapability(c device.Capability, on bool) {
	switch c {
	case device.Blend:
		d.state.Blend = on
	case device.DepthTest:
		d.state.DepthTest = on
	case device.CullFace:
		d.state.CullFace = on
	}
}

// Enable implements device.Driver.
func (d *Driver) Enable(c device.Capability) {
	d.record("Enable", c.String())
	d.setCapability(c, true)
}

// Disable implements device.Driver.
func (d *Driver) Disable(c device.Capability) {
	d.record("Disable", c.String())
	d.setCapability(c, false)
}

// BlendEquation implements device.Driver.
func (d *Driver) BlendEquation(eq gfx.BlendEquation) {
	d.record("BlendEquation", eq)
	d.state.BlendEquation = eq
}

// BlendFunc implements device.Driver.
func (d *Driver) BlendFunc(src, dst gfx.BlendFactor) {
	d.record("BlendFunc", src, dst)
	d.state.BlendSrc = src
	d.state.BlendDst = dst
}

// DepthFunc implements device.Driver.
func (d *Driver) DepthFunc(cmp gfx.DepthComparison) {
	d.record("DepthFunc", cmp)
	d.state.DepthFunc = cmp
}

// FrontFace implements device.Driver.
func (d *Driver) FrontFace(order gfx.FaceCullingOrder) {
	d.record("FrontFace", order)
	d.state.FrontFace = order
}

// CullFace implements device.Driver.
func (d *Driver) CullFace(mode gfx.FaceCullingMode) {
	d.record("CullFace", mode)
	d.state.CullMode = mode
}

func (d *Driver) setUniform(location int32, v interface{}) {
	p, ok := d.programs[d.state.Program]
	if !ok || location < 0 {
		return
	}
	p.values[location] = v
}

// UniformInts implements device.Driver.
func (d *Driver) UniformInts(location int32, v ...int32) {
	d.record("UniformInts", location, v)
	d.setUniform(location, append([]int32(nil), v...))
}

// UniformUints implements device.Driver.
func (d *Driver) UniformUints(location int32, v ...uint32) {
	d.record("UniformUints", location, v)
	d.setUniform(location, append([]uint32(nil), v...))
}

// UniformFloats implements device.Driver.
func (d *Driver) UniformFloats(location int32, v ...float32) {
	d.record("UniformFloats", location, v)
	d.setUniform(location, append([]float32(nil), v...))
}

// UniformMatrix implements device.Driver.
func (d *Driver) UniformMatrix(location int32, dim int, v []float32) {
	d.record("UniformMatrix", location, dim)
	d.setUniform(location, append([]float32(nil), v...))
}

// UniformBlockBinding implements device.Driver.
func (d *Driver) UniformBlockBinding(program, block, binding uint32) {
	d.record("UniformBlockBinding", program, block, binding)
	if p, ok := d.programs[program]; ok {
		p.blockBindings[block] = binding
	}
}

// UniformBlockIndex implements device.Driver.
func (d *Driver) UniformBlockIndex(program uint32, name string) (uint32, bool) {
	p, ok := d.programs[program]
	if !ok {
		return 0, false
	}
	idx, ok := p.blocks[name]
	return idx, ok
}

// ActiveUniforms implements device.Driver.
func (d *Driver) ActiveUniforms(program uint32) []device.UniformInfo {
	p, ok := d.programs[program]
	if !ok {
		return nil
	}
	return append([]device.UniformInfo(nil), p.uniforms...)
}

// Draw implements device.Driver.
func (d *Driver) Draw(mode gfx.PrimitiveMode, first, count, instances int32, indexed bool) {
	d.record("Draw", mode, first, count, instances, indexed)
	d.draws = append(d.draws, DrawCall{
		Mode:      mode,
		First:     first,
		Count:     count,
		Instances: instances,
		Indexed:   indexed,
		State:     d.state.clone(),
	})
}

// CompileShader implements device.Driver.
func (d *Driver) CompileShader(stage device.ShaderStage, source string) (uint32, string, error) {
	d.record("CompileShader", stage.String())
	decls, blocks, log, err := reflectSource(source)
	if err != nil {
		return 0, log, err
	}
	h := d.handle()
	d.shaders[h] = &shaderObject{stage: stage, uniforms: decls, blocks: blocks}
	return h, log, nil
}

// LinkProgram implements device.Driver.
func (d *Driver) LinkProgram(shaders []uint32) (uint32, string, error) {
	d.record("LinkProgram", shaders)
	var hasVertex, hasFragment bool
	p := &programObject{
		blocks:        make(map[string]uint32),
		blockBindings: make(map[uint32]uint32),
		values:        make(map[int32]interface{}),
	}
	seen := make(map[string]bool)
	for _, h := range shaders {
		s, ok := d.shaders[h]
		if !ok {
			return 0, "", fmt.Errorf("unknown shader object %d", h)
		}
		switch s.stage {
		case device.VertexStage:
			hasVertex = true
		case device.FragmentStage:
			hasFragment = true
		}
		for _, u := range s.uniforms {
			if seen[u.name] {
				continue
			}
			seen[u.name] = true
			p.uniforms = append(p.uniforms, device.UniformInfo{
				Name:     u.name,
				Location: int32(len(p.uniforms)),
				Type:     u.typ,
				Size:     u.size,
			})
		}
		for _, b := range s.blocks {
			if _, ok := p.blocks[b]; !ok {
				p.blocks[b] = uint32(len(p.blocks))
			}
		}
	}
	if !hasVertex || !hasFragment {
		log := "error: a program needs a vertex and a fragment stage"
		return 0, log, errors.New(log)
	}
	sort.Slice(p.uniforms, func(i, j int) bool { return p.uniforms[i].Location < p.uniforms[j].Location })
	h := d.handle()
	d.programs[h] = p
	return h, "", nil
}

// DeleteShader implements device.Driver.
func (d *Driver) DeleteShader(shader uint32) {
	d.record("DeleteShader", shader)
	delete(d.shaders, shader)
}

// DeleteProgram implements device.Driver.
func (d *Driver) DeleteProgram(program uint32) {
	d.record("DeleteProgram", program)
	delete(d.programs, program)
	if d.state.Program == program {
		d.state.Program = 0
	}
}

// NewTexture implements device.Driver.
func (d *Driver) NewTexture(desc gfx.Texture, pixels []byte) (gfx.Texture, error) {
	if desc.Width <= 0 || desc.Height < 0 || desc.Depth < 0 {
		return gfx.Texture{}, fmt.Errorf("invalid texture size %dx%dx%d", desc.Width, desc.Height, desc.Depth)
	}
	if pixels != nil {
		want := desc.Width * max(desc.Height, 1) * max(desc.Depth, 1) * desc.Format.Size()
		if desc.Dim == gfx.Cubemap {
			want *= 6
		}
		if len(pixels) != want {
			return gfx.Texture{}, fmt.Errorf("texture needs %d bytes of pixels, got %d", want, len(pixels))
		}
	}
	desc.Handle = d.handle()
	d.record("NewTexture", desc.Handle)
	d.textures[desc.Handle] = desc
	return desc, nil
}

// NewBuffer implements device.Driver.
func (d *Driver) NewBuffer(data []byte) (gfx.Buffer, error) {
	b := gfx.Buffer{Handle: d.handle(), Size: len(data)}
	d.record("NewBuffer", b.Handle)
	d.buffers[b.Handle] = b
	return b, nil
}

// NewTess implements device.Driver.
func (d *Driver) NewTess(mode gfx.PrimitiveMode, vertices []float32, components int) (gfx.Tess, error) {
	if components < 1 || components > 4 || len(vertices)%components != 0 {
		return gfx.Tess{}, fmt.Errorf("cannot split %d floats into vertices of %d components", len(vertices), components)
	}
	t := gfx.Tess{Handle: d.handle(), Mode: mode, VertexCount: len(vertices) / components}
	d.record("NewTess", t.Handle)
	d.tesses[t.Handle] = t
	return t, nil
}

// DeleteTexture implements device.Driver.
func (d *Driver) DeleteTexture(t gfx.Texture) {
	d.record("DeleteTexture", t.Handle)
	delete(d.textures, t.Handle)
	for unit, b := range d.state.Textures {
		if b.Texture == t.Handle {
			delete(d.state.Textures, unit)
		}
	}
}

// DeleteBuffer implements device.Driver.
func (d *Driver) DeleteBuffer(b gfx.Buffer) {
	d.record("DeleteBuffer", b.Handle)
	delete(d.buffers, b.Handle)
	for idx, h := range d.state.Buffers {
		if h == b.Handle {
			delete(d.state.Buffers, idx)
		}
	}
}

// DeleteTess implements device.Driver.
func (d *Driver) DeleteTess(t gfx.Tess) {
	d.record("DeleteTess", t.Handle)
	delete(d.tesses, t.Handle)
	if d.state.VertexArray == t.Handle {
		d.state.VertexArray = 0
	}
}
