// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package gfx

// BlendEquation combines the source and destination terms of blending.
type BlendEquation int

// Blend equations.
const (
	Additive BlendEquation = iota
	Subtract
	ReverseSubtract
	Min
	Max
)

// BlendFactor scales a term of the blend equation.
type BlendFactor int

// Blend factors.
const (
	One BlendFactor = iota
	Zero
	SrcColor
	SrcColorComplement
	DstColor
	DstColorComplement
	SrcAlpha
	SrcAlphaComplement
	DstAlpha
	DstAlphaComplement
	SrcAlphaSaturate
)

// Blending is a full blending configuration.
type Blending struct {
	Equation BlendEquation
	Src      BlendFactor
	Dst      BlendFactor
}

// DepthComparison is the test applied to incoming fragment depths.
type DepthComparison int

// Depth comparisons.
const (
	Never DepthComparison = iota
	Always
	Equal
	NotEqual
	Less
	LessOrEqual
	Greater
	GreaterOrEqual
)

// FaceCullingOrder is the winding that marks a face as front facing.
type FaceCullingOrder int

// Winding orders.
const (
	CW FaceCullingOrder = iota
	CCW
)

// FaceCullingMode selects which faces are culled.
type FaceCullingMode int

// Cull modes.
const (
	CullFront FaceCullingMode = iota
	CullBack
	CullBoth
)

// FaceCulling is a full culling configuration.
type FaceCulling struct {
	Order FaceCullingOrder
	Mode  FaceCullingMode
}

// RenderState describes blending, depth testing and face culling for a
// block of draw calls. A nil field disables the feature.
type RenderState struct {
	blending    *Blending
	depthTest   *DepthComparison
	faceCulling *FaceCulling
}

// DefaultRenderState has no blending, a Less depth test and no culling.
func DefaultRenderState() RenderState {
	return RenderState{}.SetDepthTest(Less)
}

// Blending returns the blending configuration, if enabled.
func (rs RenderState) Blending() (Blending, bool) {
	if rs.blending == nil {
		return Blending{}, false
	}
	return *rs.blending, true
}

// DepthTest returns the depth comparison, if enabled.
func (rs RenderState) DepthTest() (DepthComparison, bool) {
	if rs.depthTest == nil {
		return 0, false
	}
	return *rs.depthTest, true
}

// FaceCulling returns the culling configuration, if enabled.
func (rs RenderState) FaceCulling() (FaceCulling, bool) {
	if rs.faceCulling == nil {
		return FaceCulling{}, false
	}
	return *rs.faceCulling, true
}

// SetBlending returns a copy of rs with blending enabled.
func (rs RenderState) SetBlending(eq BlendEquation, src, dst BlendFactor) RenderState {
	rs.blending = &Blending{Equation: eq, Src: src, Dst: dst}
	return rs
}

// NoBlending returns a copy of rs with blending disabled.
func (rs RenderState) NoBlending() RenderState {
	rs.blending = nil
	return rs
}

// SetDepthTest returns a copy of rs with depth testing enabled.
func (rs RenderState) SetDepthTest(c DepthComparison) RenderState {
	rs.depthTest = &c
	return rs
}

// NoDepthTest returns a copy of rs with depth testing disabled.
func (rs RenderState) NoDepthTest() RenderState {
	rs.depthTest = nil
	return rs
}

// SetFaceCulling returns a copy of rs with face culling enabled.
func (rs RenderState) SetFaceCulling(order FaceCullingOrder, mode FaceCullingMode) RenderState {
	rs.faceCulling = &FaceCulling{Order: order, Mode: mode}
	return rs
}

// NoFaceCulling returns a copy of rs with face culling disabled.
func (rs RenderState) NoFaceCulling() RenderState {
	rs.faceCulling = nil
	return rs
}
