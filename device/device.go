// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package device describes the native graphics driver the pipeline is
// built on. Every hardware side effect of this module goes through Driver.
package device

import (
	"fmt"

	"github.com/devblok/korugl/gfx"
)

// Caps describes the driver and the limits it reports.
type Caps struct {
	Name    string `json:"name"`
	Version string `json:"version"`

	// MaxTextureUnits is the number of texture units usable at once
	// across all stages. Zero means unknown.
	MaxTextureUnits uint32 `json:"maxTextureUnits"`

	// MaxBufferBindings is the number of indexed uniform buffer
	// binding points. Zero means unknown.
	MaxBufferBindings uint32 `json:"maxBufferBindings"`
}

// Capability is a feature switched on and off with Enable and Disable.
type Capability int

// Capabilities driven by render states.
const (
	Blend Capability = iota
	DepthTest
	CullFace
)

func (c Capability) String() string {
	switch c {
	case Blend:
		return "blend"
	case DepthTest:
		return "depth-test"
	case CullFace:
		return "cull-face"
	}
	return fmt.Sprintf("Capability(%d)", int(c))
}

// ShaderStage identifies a programmable stage.
type ShaderStage int

// Shader stages, in pipeline order.
const (
	VertexStage ShaderStage = iota
	TessControlStage
	TessEvaluationStage
	GeometryStage
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case TessControlStage:
		return "tessellation control"
	case TessEvaluationStage:
		return "tessellation evaluation"
	case GeometryStage:
		return "geometry"
	case FragmentStage:
		return "fragment"
	}
	return fmt.Sprintf("ShaderStage(%d)", int(s))
}

// UniformInfo describes an active uniform of a linked program.
type UniformInfo struct {
	Name     string
	Location int32
	Type     gfx.UniformType
	// Size is the array length, 1 for non-arrays.
	Size int
}

// Driver is the set of primitive driver calls. Calls are assumed to
// succeed; only program building and resource creation report errors.
type Driver interface {
	// Caps returns the driver description and limits.
	Caps() Caps

	// ActiveTexture selects the texture unit BindTexture applies to.
	ActiveTexture(unit uint32)
	// BindTexture binds texture to target in the active unit.
	BindTexture(target gfx.TextureTarget, texture uint32)
	// BindBufferBase binds buffer to an indexed uniform buffer point.
	BindBufferBase(index uint32, buffer uint32)
	// UseProgram makes program the active program.
	UseProgram(program uint32)
	// BindDrawFramebuffer makes framebuffer the draw target.
	BindDrawFramebuffer(framebuffer uint32)
	// BindVertexArray binds the vertex array of a tessellation.
	BindVertexArray(vao uint32)
	// PatchVertices sets the number of vertices per patch primitive.
	PatchVertices(n int32)

	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	// Clear clears the selected buffers of the draw framebuffer.
	Clear(color, depth bool)
	Enable(c Capability)
	Disable(c Capability)
	BlendEquation(eq gfx.BlendEquation)
	BlendFunc(src, dst gfx.BlendFactor)
	DepthFunc(cmp gfx.DepthComparison)
	FrontFace(order gfx.FaceCullingOrder)
	CullFace(mode gfx.FaceCullingMode)

	// UniformInts writes a 1 to 4 component integer uniform of the
	// active program. The component count is len(v).
	UniformInts(location int32, v ...int32)
	UniformUints(location int32, v ...uint32)
	UniformFloats(location int32, v ...float32)
	// UniformMatrix writes a dim x dim column-major matrix.
	UniformMatrix(location int32, dim int, v []float32)
	// UniformBlockBinding routes a uniform block of program to an
	// indexed uniform buffer point.
	UniformBlockBinding(program, block, binding uint32)
	// UniformBlockIndex looks up a uniform block by name.
	UniformBlockIndex(program uint32, name string) (uint32, bool)
	// ActiveUniforms lists the active uniforms of a linked program.
	ActiveUniforms(program uint32) []UniformInfo

	// Draw draws count vertices starting at first from the bound
	// vertex array.
	Draw(mode gfx.PrimitiveMode, first, count, instances int32, indexed bool)

	// CompileShader compiles one stage. The info log is returned even
	// on success, it may hold warnings.
	CompileShader(stage ShaderStage, source string) (shader uint32, log string, err error)
	// LinkProgram links compiled stages into a program.
	LinkProgram(shaders []uint32) (program uint32, log string, err error)
	DeleteShader(shader uint32)
	DeleteProgram(program uint32)

	// NewTexture creates a texture described by desc and uploads pixels
	// if not nil. The returned texture carries the new handle.
	NewTexture(desc gfx.Texture, pixels []byte) (gfx.Texture, error)
	NewBuffer(data []byte) (gfx.Buffer, error)
	// NewTess uploads interleaved float vertices with components floats
	// per vertex into attribute 0 of a new vertex array.
	NewTess(mode gfx.PrimitiveMode, vertices []float32, components int) (gfx.Tess, error)
	DeleteTexture(t gfx.Texture)
	DeleteBuffer(b gfx.Buffer)
	DeleteTess(t gfx.Tess)
}
