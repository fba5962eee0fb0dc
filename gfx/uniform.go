// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import "fmt"

// UniformType is the type of a uniform as declared in a shader.
type UniformType int

// Uniform types. Invalid is the zero value so an unknown declaration
// never compares equal to a real type.
const (
	InvalidUniform UniformType = iota

	// scalars
	Int
	UInt
	Float
	Bool

	// vectors
	IVec2
	IVec3
	IVec4
	UIVec2
	UIVec3
	UIVec4
	Vec2
	Vec3
	Vec4
	BVec2
	BVec3
	BVec4

	// matrices
	M22
	M33
	M44

	// samplers
	ISampler1D
	ISampler2D
	ISampler3D
	UISampler1D
	UISampler2D
	UISampler3D
	Sampler1D
	Sampler2D
	Sampler3D
	ISamplerCube
	UISamplerCube
	SamplerCube

	// BufferBinding is a uniform block fed from a bound buffer.
	BufferBinding
)

var uniformTypeNames = map[UniformType]string{
	Int:           "int",
	UInt:          "uint",
	Float:         "float",
	Bool:          "bool",
	IVec2:         "ivec2",
	IVec3:         "ivec3",
	IVec4:         "ivec4",
	UIVec2:        "uvec2",
	UIVec3:        "uvec3",
	UIVec4:        "uvec4",
	Vec2:          "vec2",
	Vec3:          "vec3",
	Vec4:          "vec4",
	BVec2:         "bvec2",
	BVec3:         "bvec3",
	BVec4:         "bvec4",
	M22:           "mat2",
	M33:           "mat3",
	M44:           "mat4",
	ISampler1D:    "isampler1D",
	ISampler2D:    "isampler2D",
	ISampler3D:    "isampler3D",
	UISampler1D:   "usampler1D",
	UISampler2D:   "usampler2D",
	UISampler3D:   "usampler3D",
	Sampler1D:     "sampler1D",
	Sampler2D:     "sampler2D",
	Sampler3D:     "sampler3D",
	ISamplerCube:  "isamplerCube",
	UISamplerCube: "usamplerCube",
	SamplerCube:   "samplerCube",
	BufferBinding: "buffer binding",
}

// String returns the GLSL spelling of the type.
func (t UniformType) String() string {
	if n, ok := uniformTypeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("UniformType(%d)", int(t))
}

// ParseUniformType returns the type with the given GLSL spelling.
func ParseUniformType(glsl string) (UniformType, bool) {
	for t, n := range uniformTypeNames {
		if n == glsl && t != BufferBinding {
			return t, true
		}
	}
	return InvalidUniform, false
}

// IsSampler reports whether t is one of the sampler types.
func (t UniformType) IsSampler() bool {
	return t >= ISampler1D && t <= SamplerCube
}

// samplerTable is indexed by [SampleKind][Dim].
var samplerTable = [...][4]UniformType{
	NormIntegral: {Sampler1D, Sampler2D, Sampler3D, SamplerCube},
	NormUnsigned: {Sampler1D, Sampler2D, Sampler3D, SamplerCube},
	Integral:     {ISampler1D, ISampler2D, ISampler3D, ISamplerCube},
	Unsigned:     {UISampler1D, UISampler2D, UISampler3D, UISamplerCube},
	Floating:     {Sampler1D, Sampler2D, Sampler3D, SamplerCube},
}

// SamplerType returns the sampler uniform type a shader must declare to
// read a texture of the given sample kind and dimension.
func SamplerType(k SampleKind, d Dim) UniformType {
	if k < 0 || int(k) >= len(samplerTable) || d < 0 || d > Cubemap {
		return InvalidUniform
	}
	return samplerTable[k][d]
}
