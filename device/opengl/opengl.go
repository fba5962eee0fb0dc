// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package opengl implements device.Driver on an OpenGL 4.1 core context.
// The context must be current on the calling thread for every call.
package opengl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/gfx"
)

// Driver implements device.Driver
type Driver struct {
	caps device.Caps

	// vertex buffers backing each vertex array
	vbos map[uint32]uint32
}

// New loads the GL entry points of the current context.
func New() (*Driver, error) {
	if err := gl.Init(); err != nil {
		return nil, errors.New("gl.Init(): " + err.Error())
	}

	var units, bindings int32
	gl.GetIntegerv(gl.MAX_COMBINED_TEXTURE_IMAGE_UNITS, &units)
	gl.GetIntegerv(gl.MAX_UNIFORM_BUFFER_BINDINGS, &bindings)

	return &Driver{
		caps: device.Caps{
			Name:              gl.GoStr(gl.GetString(gl.RENDERER)),
			Version:           gl.GoStr(gl.GetString(gl.VERSION)),
			MaxTextureUnits:   uint32(units),
			MaxBufferBindings: uint32(bindings),
		},
		vbos: make(map[uint32]uint32),
	}, nil
}

// Caps implements device.Driver
func (d *Driver) Caps() device.Caps {
	return d.caps
}

// ActiveTexture implements device.Driver
func (d *Driver) ActiveTexture(unit uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
}

// BindTexture implements device.Driver
func (d *Driver) BindTexture(target gfx.TextureTarget, texture uint32) {
	gl.BindTexture(textureTargets[target], texture)
}

// BindBufferBase implements device.Driver
func (d *Driver) BindBufferBase(index uint32, buffer uint32) {
	gl.BindBufferBase(gl.UNIFORM_BUFFER, index, buffer)
}

// UseProgram implements device.Driver
func (d *Driver) UseProgram(program uint32) {
	gl.UseProgram(program)
}

// BindDrawFramebuffer implements device.Driver
func (d *Driver) BindDrawFramebuffer(framebuffer uint32) {
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, framebuffer)
}

// BindVertexArray implements device.Driver
func (d *Driver) BindVertexArray(vao uint32) {
	gl.BindVertexArray(vao)
}

// PatchVertices implements device.Driver
func (d *Driver) PatchVertices(n int32) {
	gl.PatchParameteri(gl.PATCH_VERTICES, n)
}

// Viewport implements device.Driver
func (d *Driver) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

// ClearColor implements device.Driver
func (d *Driver) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

// Clear implements device.Driver
func (d *Driver) Clear(color, depth bool) {
	var mask uint32
	if color {
		mask |= gl.COLOR_BUFFER_BIT
	}
	if depth {
		mask |= gl.DEPTH_BUFFER_BIT
	}
	if mask != 0 {
		gl.Clear(mask)
	}
}

// Enable implements device.Driver
func (d *Driver) Enable(c device.Capability) {
	gl.Enable(capabilities[c])
}

// Disable implements device.Driver
func (d *Driver) Disable(c device.Capability) {
	gl.Disable(capabilities[c])
}

// BlendEquation implements device.Driver
func (d *Driver) BlendEquation(eq gfx.BlendEquation) {
	gl.BlendEquation(blendEquations[eq])
}

// BlendFunc implements device.Driver
func (d *Driver) BlendFunc(src, dst gfx.BlendFactor) {
	gl.BlendFunc(blendFactors[src], blendFactors[dst])
}

// DepthFunc implements device.Driver
func (d *Driver) DepthFunc(cmp gfx.DepthComparison) {
	gl.DepthFunc(depthComparisons[cmp])
}

// FrontFace implements device.Driver
func (d *Driver) FrontFace(order gfx.FaceCullingOrder) {
	gl.FrontFace(windings[order])
}

// CullFace implements device.Driver
func (d *Driver) CullFace(mode gfx.FaceCullingMode) {
	gl.CullFace(cullModes[mode])
}

// UniformInts implements device.Driver
func (d *Driver) UniformInts(location int32, v ...int32) {
	switch len(v) {
	case 1:
		gl.Uniform1i(location, v[0])
	case 2:
		gl.Uniform2i(location, v[0], v[1])
	case 3:
		gl.Uniform3i(location, v[0], v[1], v[2])
	case 4:
		gl.Uniform4i(location, v[0], v[1], v[2], v[3])
	}
}

// UniformUints implements device.Driver
func (d *Driver) UniformUints(location int32, v ...uint32) {
	switch len(v) {
	case 1:
		gl.Uniform1ui(location, v[0])
	case 2:
		gl.Uniform2ui(location, v[0], v[1])
	case 3:
		gl.Uniform3ui(location, v[0], v[1], v[2])
	case 4:
		gl.Uniform4ui(location, v[0], v[1], v[2], v[3])
	}
}

// UniformFloats implements device.Driver
func (d *Driver) UniformFloats(location int32, v ...float32) {
	switch len(v) {
	case 1:
		gl.Uniform1f(location, v[0])
	case 2:
		gl.Uniform2f(location, v[0], v[1])
	case 3:
		gl.Uniform3f(location, v[0], v[1], v[2])
	case 4:
		gl.Uniform4f(location, v[0], v[1], v[2], v[3])
	}
}

// UniformMatrix implements device.Driver
func (d *Driver) UniformMatrix(location int32, dim int, v []float32) {
	if len(v) < dim*dim {
		return
	}
	switch dim {
	case 2:
		gl.UniformMatrix2fv(location, 1, false, &v[0])
	case 3:
		gl.UniformMatrix3fv(location, 1, false, &v[0])
	case 4:
		gl.UniformMatrix4fv(location, 1, false, &v[0])
	}
}

// UniformBlockBinding implements device.Driver
func (d *Driver) UniformBlockBinding(program, block, binding uint32) {
	gl.UniformBlockBinding(program, block, binding)
}

// UniformBlockIndex implements device.Driver
func (d *Driver) UniformBlockIndex(program uint32, name string) (uint32, bool) {
	idx := gl.GetUniformBlockIndex(program, gl.Str(name+"\x00"))
	return idx, idx != gl.INVALID_INDEX
}

// ActiveUniforms implements device.Driver
func (d *Driver) ActiveUniforms(program uint32) []device.UniformInfo {
	var count, maxLen int32
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(program, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)

	infos := make([]device.UniformInfo, 0, count)
	buf := make([]uint8, maxLen+1)
	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var xtype uint32
		gl.GetActiveUniform(program, i, int32(len(buf)), &length, &size, &xtype, &buf[0])
		name := strings.TrimSuffix(string(buf[:length]), "[0]")

		loc := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
		if loc < 0 {
			// block members have no location
			continue
		}
		t, ok := uniformTypes[xtype]
		if !ok {
			t = gfx.InvalidUniform
		}
		infos = append(infos, device.UniformInfo{Name: name, Location: loc, Type: t, Size: int(size)})
	}
	return infos
}

// Draw implements device.Driver
func (d *Driver) Draw(mode gfx.PrimitiveMode, first, count, instances int32, indexed bool) {
	m := primitiveModes[mode]
	switch {
	case indexed && instances > 1:
		gl.DrawElementsInstanced(m, count, gl.UNSIGNED_INT, gl.PtrOffset(int(first)*4), instances)
	case indexed:
		gl.DrawElements(m, count, gl.UNSIGNED_INT, gl.PtrOffset(int(first)*4))
	case instances > 1:
		gl.DrawArraysInstanced(m, first, count, instances)
	default:
		gl.DrawArrays(m, first, count)
	}
}

// CompileShader implements device.Driver
func (d *Driver) CompileShader(stage device.ShaderStage, source string) (uint32, string, error) {
	kind, ok := shaderStages[stage]
	if !ok {
		return 0, "", fmt.Errorf("gl.CreateShader(): unknown stage %s", stage)
	}
	shader := gl.CreateShader(kind)

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status, logLength int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	var log string
	if logLength > 1 {
		buf := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(buf))
		log = strings.TrimRight(buf, "\x00")
	}

	if status == gl.FALSE {
		gl.DeleteShader(shader)
		return 0, log, fmt.Errorf("gl.CompileShader(): %s stage failed to compile", stage)
	}
	return shader, log, nil
}

// LinkProgram implements device.Driver
func (d *Driver) LinkProgram(shaders []uint32) (uint32, string, error) {
	program := gl.CreateProgram()
	for _, s := range shaders {
		gl.AttachShader(program, s)
	}
	gl.LinkProgram(program)
	for _, s := range shaders {
		gl.DetachShader(program, s)
	}

	var status, logLength int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	var log string
	if logLength > 1 {
		buf := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(buf))
		log = strings.TrimRight(buf, "\x00")
	}

	if status == gl.FALSE {
		gl.DeleteProgram(program)
		return 0, log, errors.New("gl.LinkProgram(): link failed")
	}
	return program, log, nil
}

// DeleteShader implements device.Driver
func (d *Driver) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

// DeleteProgram implements device.Driver
func (d *Driver) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

// NewTexture implements device.Driver. The binding of the target in the
// active unit is restored afterwards.
func (d *Driver) NewTexture(desc gfx.Texture, pixels []byte) (gfx.Texture, error) {
	triple, ok := pixelFormats[desc.Format.Name]
	if !ok {
		return gfx.Texture{}, fmt.Errorf("gl.TexImage(): unsupported pixel format %s", desc.Format)
	}
	target := desc.Target()
	glTarget := textureTargets[target]

	var prev int32
	gl.GetIntegerv(textureBindings[target], &prev)
	defer gl.BindTexture(glTarget, uint32(prev))

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(glTarget, tex)
	gl.TexParameteri(glTarget, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(glTarget, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	w, h, depth := int32(desc.Width), int32(desc.Height), int32(desc.Depth)
	face := desc.Width * desc.Height * desc.Format.Size()
	ptr := func(offset int) interface{} {
		if pixels == nil {
			return nil
		}
		return &pixels[offset]
	}
	switch target {
	case gfx.Texture1D:
		gl.TexImage1D(glTarget, 0, triple.internal, w, 0, triple.format, triple.xtype, gl.Ptr(ptr(0)))
	case gfx.Texture1DArray, gfx.Texture2D:
		gl.TexImage2D(glTarget, 0, triple.internal, w, h, 0, triple.format, triple.xtype, gl.Ptr(ptr(0)))
	case gfx.Texture2DArray, gfx.Texture3D:
		gl.TexImage3D(glTarget, 0, triple.internal, w, h, depth, 0, triple.format, triple.xtype, gl.Ptr(ptr(0)))
	case gfx.TextureCubeMap:
		if pixels != nil && len(pixels) < 6*face {
			gl.DeleteTextures(1, &tex)
			return gfx.Texture{}, fmt.Errorf("gl.TexImage2D(): cubemap needs %d bytes, got %d", 6*face, len(pixels))
		}
		for i := 0; i < 6; i++ {
			gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, triple.internal, w, h, 0,
				triple.format, triple.xtype, gl.Ptr(ptr(i*face)))
		}
	}
	if e := gl.GetError(); e != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return gfx.Texture{}, fmt.Errorf("gl.TexImage(): error 0x%x", e)
	}

	desc.Handle = tex
	return desc, nil
}

// NewBuffer implements device.Driver
func (d *Driver) NewBuffer(data []byte) (gfx.Buffer, error) {
	var buf uint32
	gl.GenBuffers(1, &buf)
	gl.BindBuffer(gl.UNIFORM_BUFFER, buf)
	var ptr interface{}
	if len(data) > 0 {
		ptr = &data[0]
	}
	gl.BufferData(gl.UNIFORM_BUFFER, len(data), gl.Ptr(ptr), gl.STATIC_DRAW)
	if e := gl.GetError(); e != gl.NO_ERROR {
		gl.DeleteBuffers(1, &buf)
		return gfx.Buffer{}, fmt.Errorf("gl.BufferData(): error 0x%x", e)
	}
	return gfx.Buffer{Handle: buf, Size: len(data)}, nil
}

// NewTess implements device.Driver. The vertex array binding is restored
// afterwards.
func (d *Driver) NewTess(mode gfx.PrimitiveMode, vertices []float32, components int) (gfx.Tess, error) {
	if components < 1 || components > 4 || len(vertices) == 0 || len(vertices)%components != 0 {
		return gfx.Tess{}, fmt.Errorf("gl.VertexAttribPointer(): cannot split %d floats into vertices of %d components", len(vertices), components)
	}

	var prev int32
	gl.GetIntegerv(gl.VERTEX_ARRAY_BINDING, &prev)
	defer gl.BindVertexArray(uint32(prev))

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)
	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, int32(components), gl.FLOAT, false, int32(components*4), gl.PtrOffset(0))

	d.vbos[vao] = vbo
	return gfx.Tess{Handle: vao, Mode: mode, VertexCount: len(vertices) / components}, nil
}

// DeleteTexture implements device.Driver
func (d *Driver) DeleteTexture(t gfx.Texture) {
	gl.DeleteTextures(1, &t.Handle)
}

// DeleteBuffer implements device.Driver
func (d *Driver) DeleteBuffer(b gfx.Buffer) {
	gl.DeleteBuffers(1, &b.Handle)
}

// DeleteTess implements device.Driver
func (d *Driver) DeleteTess(t gfx.Tess) {
	if vbo, ok := d.vbos[t.Handle]; ok {
		gl.DeleteBuffers(1, &vbo)
		delete(d.vbos, t.Handle)
	}
	gl.DeleteVertexArrays(1, &t.Handle)
}
