// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

import "fmt"

// SampleKind is the kind of value a shader reads when sampling a texture.
type SampleKind int

// Sample kinds, in the order drivers usually list them.
const (
	NormIntegral SampleKind = iota
	NormUnsigned
	Integral
	Unsigned
	Floating
)

// SampleKinds lists every sample kind.
var SampleKinds = []SampleKind{NormIntegral, NormUnsigned, Integral, Unsigned, Floating}

func (k SampleKind) String() string {
	switch k {
	case NormIntegral:
		return "norm-integral"
	case NormUnsigned:
		return "norm-unsigned"
	case Integral:
		return "integral"
	case Unsigned:
		return "unsigned"
	case Floating:
		return "floating"
	}
	return fmt.Sprintf("SampleKind(%d)", int(k))
}

// Dim is the dimensionality of a texture.
type Dim int

// Texture dimensions.
const (
	Dim1 Dim = iota
	Dim2
	Dim3
	Cubemap
)

// Dims lists every texture dimension.
var Dims = []Dim{Dim1, Dim2, Dim3, Cubemap}

func (d Dim) String() string {
	switch d {
	case Dim1:
		return "1D"
	case Dim2:
		return "2D"
	case Dim3:
		return "3D"
	case Cubemap:
		return "cubemap"
	}
	return fmt.Sprintf("Dim(%d)", int(d))
}

// Layering tells whether a texture is a single image or an array of them.
type Layering int

// Layerings.
const (
	Flat Layering = iota
	Layered
)

// TextureTarget is the bind point a texture is attached to in a unit.
type TextureTarget int

// Texture targets.
const (
	Texture1D TextureTarget = iota
	Texture1DArray
	Texture2D
	Texture2DArray
	Texture3D
	TextureCubeMap
)

// TargetFor returns the bind target for a texture of the given dimension
// and layering. 3D and cubemap textures have no layered form here and keep
// their flat target.
func TargetFor(d Dim, l Layering) TextureTarget {
	switch d {
	case Dim1:
		if l == Layered {
			return Texture1DArray
		}
		return Texture1D
	case Dim2:
		if l == Layered {
			return Texture2DArray
		}
		return Texture2D
	case Dim3:
		return Texture3D
	default:
		return TextureCubeMap
	}
}

// PixelFormat is one entry of the pixel catalog.
type PixelFormat struct {
	Name     string
	Sample   SampleKind
	Channels int
	// Bits per channel.
	Bits  int
	Depth bool
}

func (p PixelFormat) String() string {
	return p.Name
}

// Size returns the size in bytes of a single pixel.
func (p PixelFormat) Size() int {
	return p.Channels * p.Bits / 8
}

// The pixel catalog.
var (
	R8      = PixelFormat{Name: "R8", Sample: NormUnsigned, Channels: 1, Bits: 8}
	RG8     = PixelFormat{Name: "RG8", Sample: NormUnsigned, Channels: 2, Bits: 8}
	RGB8    = PixelFormat{Name: "RGB8", Sample: NormUnsigned, Channels: 3, Bits: 8}
	RGBA8   = PixelFormat{Name: "RGBA8", Sample: NormUnsigned, Channels: 4, Bits: 8}
	RGBA8SN = PixelFormat{Name: "RGBA8_SNORM", Sample: NormIntegral, Channels: 4, Bits: 8}

	R8I    = PixelFormat{Name: "R8I", Sample: Integral, Channels: 1, Bits: 8}
	RGBA8I = PixelFormat{Name: "RGBA8I", Sample: Integral, Channels: 4, Bits: 8}
	R32I   = PixelFormat{Name: "R32I", Sample: Integral, Channels: 1, Bits: 32}

	R8UI    = PixelFormat{Name: "R8UI", Sample: Unsigned, Channels: 1, Bits: 8}
	RGBA8UI = PixelFormat{Name: "RGBA8UI", Sample: Unsigned, Channels: 4, Bits: 8}
	R32UI   = PixelFormat{Name: "R32UI", Sample: Unsigned, Channels: 1, Bits: 32}

	R32F    = PixelFormat{Name: "R32F", Sample: Floating, Channels: 1, Bits: 32}
	RGB32F  = PixelFormat{Name: "RGB32F", Sample: Floating, Channels: 3, Bits: 32}
	RGBA32F = PixelFormat{Name: "RGBA32F", Sample: Floating, Channels: 4, Bits: 32}

	Depth32F = PixelFormat{Name: "DEPTH32F", Sample: Floating, Channels: 1, Bits: 32, Depth: true}
)
