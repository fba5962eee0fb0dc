// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

// Bindable is a resource that can occupy a binding slot in a pipeline.
// Only textures and buffers are bindable; the set is closed.
type Bindable interface {
	bindable()
}

// Texture is a driver texture object. The core never owns its storage,
// it only reads the handle and the metadata needed to pick a bind target
// and a sampler type.
type Texture struct {
	Handle   uint32
	Dim      Dim
	Layering Layering
	Format   PixelFormat

	Width, Height, Depth int
}

func (*Texture) bindable() {}

// Target returns the bind target of the texture.
func (t *Texture) Target() TextureTarget {
	return TargetFor(t.Dim, t.Layering)
}

// SampleKind returns what a shader reads when sampling the texture.
func (t *Texture) SampleKind() SampleKind {
	return t.Format.Sample
}

// Buffer is a driver buffer object usable as a uniform block source.
type Buffer struct {
	Handle uint32
	Size   int
}

func (*Buffer) bindable() {}

// Framebuffer is a render target. Handle 0 is the default framebuffer.
type Framebuffer struct {
	Handle        uint32
	Width, Height int
}

// BackBuffer returns the default framebuffer with the given size.
func BackBuffer(width, height int) Framebuffer {
	return Framebuffer{Width: width, Height: height}
}

// PrimitiveMode is how vertices of a tessellation are assembled.
type PrimitiveMode int

// Primitive modes.
const (
	Points PrimitiveMode = iota
	Lines
	LineStrip
	Triangles
	TriangleStrip
	TriangleFan
	Patches
)

// Tess is a GPU-resident geometry object, referenced by its vertex array.
type Tess struct {
	Handle      uint32
	Mode        PrimitiveMode
	VertexCount int
	Indexed     bool
	// PatchVertices is only meaningful for Patches.
	PatchVertices int
}

// Whole returns a slice covering every vertex of t once.
func (t *Tess) Whole() TessSlice {
	return TessSlice{Tess: t, Count: t.VertexCount, Instances: 1}
}

// Slice returns the [start, end) vertex range of t.
func (t *Tess) Slice(start, end int) TessSlice {
	return TessSlice{Tess: t, Start: start, Count: end - start, Instances: 1}
}

// TessSlice is a range of a tessellation to draw.
type TessSlice struct {
	Tess      *Tess
	Start     int
	Count     int
	Instances int
}

// Valid reports whether the slice lies inside its tessellation.
func (s TessSlice) Valid() bool {
	if s.Tess == nil || s.Start < 0 || s.Count < 0 || s.Instances < 0 {
		return false
	}
	return s.Start+s.Count <= s.Tess.VertexCount
}
