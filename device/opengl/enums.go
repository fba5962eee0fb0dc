// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package opengl

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/gfx"
)

var textureTargets = map[gfx.TextureTarget]uint32{
	gfx.Texture1D:      gl.TEXTURE_1D,
	gfx.Texture1DArray: gl.TEXTURE_1D_ARRAY,
	gfx.Texture2D:      gl.TEXTURE_2D,
	gfx.Texture2DArray: gl.TEXTURE_2D_ARRAY,
	gfx.Texture3D:      gl.TEXTURE_3D,
	gfx.TextureCubeMap: gl.TEXTURE_CUBE_MAP,
}

// textureBindings are the queries returning what is bound to a target.
var textureBindings = map[gfx.TextureTarget]uint32{
	gfx.Texture1D:      gl.TEXTURE_BINDING_1D,
	gfx.Texture1DArray: gl.TEXTURE_BINDING_1D_ARRAY,
	gfx.Texture2D:      gl.TEXTURE_BINDING_2D,
	gfx.Texture2DArray: gl.TEXTURE_BINDING_2D_ARRAY,
	gfx.Texture3D:      gl.TEXTURE_BINDING_3D,
	gfx.TextureCubeMap: gl.TEXTURE_BINDING_CUBE_MAP,
}

var capabilities = map[device.Capability]uint32{
	device.Blend:     gl.BLEND,
	device.DepthTest: gl.DEPTH_TEST,
	device.CullFace:  gl.CULL_FACE,
}

var shaderStages = map[device.ShaderStage]uint32{
	device.VertexStage:         gl.VERTEX_SHADER,
	device.TessControlStage:    gl.TESS_CONTROL_SHADER,
	device.TessEvaluationStage: gl.TESS_EVALUATION_SHADER,
	device.GeometryStage:       gl.GEOMETRY_SHADER,
	device.FragmentStage:       gl.FRAGMENT_SHADER,
}

var blendEquations = map[gfx.BlendEquation]uint32{
	gfx.Additive:        gl.FUNC_ADD,
	gfx.Subtract:        gl.FUNC_SUBTRACT,
	gfx.ReverseSubtract: gl.FUNC_REVERSE_SUBTRACT,
	gfx.Min:             gl.MIN,
	gfx.Max:             gl.MAX,
}

var blendFactors = map[gfx.BlendFactor]uint32{
	gfx.One:                gl.ONE,
	gfx.Zero:               gl.ZERO,
	gfx.SrcColor:           gl.SRC_COLOR,
	gfx.SrcColorComplement: gl.ONE_MINUS_SRC_COLOR,
	gfx.DstColor:           gl.DST_COLOR,
	gfx.DstColorComplement: gl.ONE_MINUS_DST_COLOR,
	gfx.SrcAlpha:           gl.SRC_ALPHA,
	gfx.SrcAlphaComplement: gl.ONE_MINUS_SRC_ALPHA,
	gfx.DstAlpha:           gl.DST_ALPHA,
	gfx.DstAlphaComplement: gl.ONE_MINUS_DST_ALPHA,
	gfx.SrcAlphaSaturate:   gl.SRC_ALPHA_SATURATE,
}

var depthComparisons = map[gfx.DepthComparison]uint32{
	gfx.Never:          gl.NEVER,
	gfx.Always:         gl.ALWAYS,
	gfx.Equal:          gl.EQUAL,
	gfx.NotEqual:       gl.NOTEQUAL,
	gfx.Less:           gl.LESS,
	gfx.LessOrEqual:    gl.LEQUAL,
	gfx.Greater:        gl.GREATER,
	gfx.GreaterOrEqual: gl.GEQUAL,
}

var windings = map[gfx.FaceCullingOrder]uint32{
	gfx.CW:  gl.CW,
	gfx.CCW: gl.CCW,
}

var cullModes = map[gfx.FaceCullingMode]uint32{
	gfx.CullFront: gl.FRONT,
	gfx.CullBack:  gl.BACK,
	gfx.CullBoth:  gl.FRONT_AND_BACK,
}

var primitiveModes = map[gfx.PrimitiveMode]uint32{
	gfx.Points:        gl.POINTS,
	gfx.Lines:         gl.LINES,
	gfx.LineStrip:     gl.LINE_STRIP,
	gfx.Triangles:     gl.TRIANGLES,
	gfx.TriangleStrip: gl.TRIANGLE_STRIP,
	gfx.TriangleFan:   gl.TRIANGLE_FAN,
	gfx.Patches:       gl.PATCHES,
}

// uniformTypes maps the types reported by glGetActiveUniform. Types
// without a counterpart, like doubles and array samplers, are absent.
var uniformTypes = map[uint32]gfx.UniformType{
	gl.INT:                        gfx.Int,
	gl.UNSIGNED_INT:               gfx.UInt,
	gl.FLOAT:                      gfx.Float,
	gl.BOOL:                       gfx.Bool,
	gl.INT_VEC2:                   gfx.IVec2,
	gl.INT_VEC3:                   gfx.IVec3,
	gl.INT_VEC4:                   gfx.IVec4,
	gl.UNSIGNED_INT_VEC2:          gfx.UIVec2,
	gl.UNSIGNED_INT_VEC3:          gfx.UIVec3,
	gl.UNSIGNED_INT_VEC4:          gfx.UIVec4,
	gl.FLOAT_VEC2:                 gfx.Vec2,
	gl.FLOAT_VEC3:                 gfx.Vec3,
	gl.FLOAT_VEC4:                 gfx.Vec4,
	gl.BOOL_VEC2:                  gfx.BVec2,
	gl.BOOL_VEC3:                  gfx.BVec3,
	gl.BOOL_VEC4:                  gfx.BVec4,
	gl.FLOAT_MAT2:                 gfx.M22,
	gl.FLOAT_MAT3:                 gfx.M33,
	gl.FLOAT_MAT4:                 gfx.M44,
	gl.INT_SAMPLER_1D:             gfx.ISampler1D,
	gl.INT_SAMPLER_2D:             gfx.ISampler2D,
	gl.INT_SAMPLER_3D:             gfx.ISampler3D,
	gl.UNSIGNED_INT_SAMPLER_1D:    gfx.UISampler1D,
	gl.UNSIGNED_INT_SAMPLER_2D:    gfx.UISampler2D,
	gl.UNSIGNED_INT_SAMPLER_3D:    gfx.UISampler3D,
	gl.SAMPLER_1D:                 gfx.Sampler1D,
	gl.SAMPLER_2D:                 gfx.Sampler2D,
	gl.SAMPLER_3D:                 gfx.Sampler3D,
	gl.INT_SAMPLER_CUBE:           gfx.ISamplerCube,
	gl.UNSIGNED_INT_SAMPLER_CUBE:  gfx.UISamplerCube,
	gl.SAMPLER_CUBE:               gfx.SamplerCube,
}

type pixelTriple struct {
	internal int32
	format   uint32
	xtype    uint32
}

// pixelFormats is keyed by gfx.PixelFormat.Name.
var pixelFormats = map[string]pixelTriple{
	gfx.R8.Name:       {gl.R8, gl.RED, gl.UNSIGNED_BYTE},
	gfx.RG8.Name:      {gl.RG8, gl.RG, gl.UNSIGNED_BYTE},
	gfx.RGB8.Name:     {gl.RGB8, gl.RGB, gl.UNSIGNED_BYTE},
	gfx.RGBA8.Name:    {gl.RGBA8, gl.RGBA, gl.UNSIGNED_BYTE},
	gfx.RGBA8SN.Name:  {gl.RGBA8_SNORM, gl.RGBA, gl.BYTE},
	gfx.R8I.Name:      {gl.R8I, gl.RED_INTEGER, gl.BYTE},
	gfx.RGBA8I.Name:   {gl.RGBA8I, gl.RGBA_INTEGER, gl.BYTE},
	gfx.R32I.Name:     {gl.R32I, gl.RED_INTEGER, gl.INT},
	gfx.R8UI.Name:     {gl.R8UI, gl.RED_INTEGER, gl.UNSIGNED_BYTE},
	gfx.RGBA8UI.Name:  {gl.RGBA8UI, gl.RGBA_INTEGER, gl.UNSIGNED_BYTE},
	gfx.R32UI.Name:    {gl.R32UI, gl.RED_INTEGER, gl.UNSIGNED_INT},
	gfx.R32F.Name:     {gl.R32F, gl.RED, gl.FLOAT},
	gfx.RGB32F.Name:   {gl.RGB32F, gl.RGB, gl.FLOAT},
	gfx.RGBA32F.Name:  {gl.RGBA32F, gl.RGBA, gl.FLOAT},
	gfx.Depth32F.Name: {gl.DEPTH_COMPONENT32F, gl.DEPTH_COMPONENT, gl.FLOAT},
}
