// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package shader

import (
	"reflect"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/gfx"
)

// Location addresses a uniform, or a uniform block, of a linked program.
type Location struct {
	Driver  device.Driver
	Program uint32
	// Index is the uniform location, or the block index for uniform
	// blocks.
	Index int32
}

// Uniformable is a value whose uniform type is only known at run time,
// like a bound texture whose sampler type depends on its format.
type Uniformable interface {
	UniformType() gfx.UniformType
	UpdateUniform(loc Location) error
}

// BlockUniformable is a Uniformable that feeds a uniform block. Its name
// is looked up among the program's blocks instead of its uniforms.
type BlockUniformable interface {
	Uniformable
	UniformBlock()
}

var (
	uniformableType      = reflect.TypeOf((*Uniformable)(nil)).Elem()
	blockUniformableType = reflect.TypeOf((*BlockUniformable)(nil)).Elem()
)

// staticType returns the uniform type of T, InvalidUniform for
// Uniformable types and for types that cannot be uniforms.
func staticType[T any]() gfx.UniformType {
	var zero T
	switch any(zero).(type) {
	case int32:
		return gfx.Int
	case uint32:
		return gfx.UInt
	case float32:
		return gfx.Float
	case bool:
		return gfx.Bool
	case [2]int32:
		return gfx.IVec2
	case [3]int32:
		return gfx.IVec3
	case [4]int32:
		return gfx.IVec4
	case [2]uint32:
		return gfx.UIVec2
	case [3]uint32:
		return gfx.UIVec3
	case [4]uint32:
		return gfx.UIVec4
	case mgl32.Vec2:
		return gfx.Vec2
	case mgl32.Vec3:
		return gfx.Vec3
	case mgl32.Vec4:
		return gfx.Vec4
	case [2]bool:
		return gfx.BVec2
	case [3]bool:
		return gfx.BVec3
	case [4]bool:
		return gfx.BVec4
	case mgl32.Mat2:
		return gfx.M22
	case mgl32.Mat3:
		return gfx.M33
	case mgl32.Mat4:
		return gfx.M44
	}
	return gfx.InvalidUniform
}

func implements[T any](iface reflect.Type) bool {
	return reflect.TypeOf((*T)(nil)).Elem().Implements(iface)
}

// Uniform is a typed handle to a uniform of a program. An unbound uniform
// silently ignores writes.
type Uniform[T any] struct {
	name     string
	loc      Location
	declared gfx.UniformType
	bound    bool
}

// Name returns the name the uniform was asked with.
func (u Uniform[T]) Name() string {
	return u.name
}

// Bound reports whether writes reach the program.
func (u Uniform[T]) Bound() bool {
	return u.bound
}

// Type returns the type declared by the program.
func (u Uniform[T]) Type() gfx.UniformType {
	return u.declared
}

// Set writes v to the uniform of the active program.
func (u Uniform[T]) Set(v T) error {
	if !u.bound {
		return nil
	}
	d, loc := u.loc.Driver, u.loc.Index

	switch x := any(v).(type) {
	case int32:
		d.UniformInts(loc, x)
	case uint32:
		d.UniformUints(loc, x)
	case float32:
		d.UniformFloats(loc, x)
	case bool:
		d.UniformInts(loc, boolInt(x))
	case [2]int32:
		d.UniformInts(loc, x[:]...)
	case [3]int32:
		d.UniformInts(loc, x[:]...)
	case [4]int32:
		d.UniformInts(loc, x[:]...)
	case [2]uint32:
		d.UniformUints(loc, x[:]...)
	case [3]uint32:
		d.UniformUints(loc, x[:]...)
	case [4]uint32:
		d.UniformUints(loc, x[:]...)
	case mgl32.Vec2:
		d.UniformFloats(loc, x[:]...)
	case mgl32.Vec3:
		d.UniformFloats(loc, x[:]...)
	case mgl32.Vec4:
		d.UniformFloats(loc, x[:]...)
	case [2]bool:
		d.UniformInts(loc, boolInt(x[0]), boolInt(x[1]))
	case [3]bool:
		d.UniformInts(loc, boolInt(x[0]), boolInt(x[1]), boolInt(x[2]))
	case [4]bool:
		d.UniformInts(loc, boolInt(x[0]), boolInt(x[1]), boolInt(x[2]), boolInt(x[3]))
	case mgl32.Mat2:
		d.UniformMatrix(loc, 2, x[:])
	case mgl32.Mat3:
		d.UniformMatrix(loc, 3, x[:])
	case mgl32.Mat4:
		d.UniformMatrix(loc, 4, x[:])
	case Uniformable:
		if isNil(x) {
			return ErrNilUniform
		}
		if t := x.UniformType(); t != u.declared {
			return &UniformWarning{Name: u.name, Kind: TypeMismatch, Declared: u.declared, Requested: t}
		}
		return x.UpdateUniform(u.loc)
	default:
		return ErrUnsupportedUniform
	}
	return nil
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}

// UniformBuilder looks up uniforms of a linked program.
type UniformBuilder struct {
	driver   device.Driver
	program  uint32
	uniforms map[string]device.UniformInfo
	warnings []UniformWarning
}

func newUniformBuilder(driver device.Driver, program uint32) *UniformBuilder {
	b := &UniformBuilder{
		driver:   driver,
		program:  program,
		uniforms: make(map[string]device.UniformInfo),
	}
	for _, u := range driver.ActiveUniforms(program) {
		b.uniforms[u.Name] = u
	}
	return b
}

// Warnings returns the warnings collected by AskUnbound.
func (b *UniformBuilder) Warnings() []UniformWarning {
	return b.warnings
}

// Ask binds the uniform called name. It fails with a *UniformWarning
// when the program has no such active uniform or declares it with a type
// that T cannot feed.
func Ask[T any](b *UniformBuilder, name string) (Uniform[T], error) {
	if implements[T](blockUniformableType) {
		idx, ok := b.driver.UniformBlockIndex(b.program, name)
		if !ok {
			return Uniform[T]{name: name}, &UniformWarning{Name: name, Kind: Inactive}
		}
		return Uniform[T]{
			name:     name,
			loc:      Location{Driver: b.driver, Program: b.program, Index: int32(idx)},
			declared: gfx.BufferBinding,
			bound:    true,
		}, nil
	}

	info, ok := b.uniforms[name]
	if !ok {
		return Uniform[T]{name: name}, &UniformWarning{Name: name, Kind: Inactive}
	}

	if implements[T](uniformableType) {
		// samplers are checked against the bound value on Set
		if !info.Type.IsSampler() {
			return Uniform[T]{name: name}, &UniformWarning{Name: name, Kind: TypeMismatch, Declared: info.Type}
		}
	} else if want := staticType[T](); want == gfx.InvalidUniform || want != info.Type {
		return Uniform[T]{name: name}, &UniformWarning{Name: name, Kind: TypeMismatch, Declared: info.Type, Requested: want}
	}

	return Uniform[T]{
		name:     name,
		loc:      Location{Driver: b.driver, Program: b.program, Index: info.Location},
		declared: info.Type,
		bound:    true,
	}, nil
}

// AskUnbound is Ask that never fails. On failure the warning is kept in
// the builder and an unbound uniform is returned.
func AskUnbound[T any](b *UniformBuilder, name string) Uniform[T] {
	u, err := Ask[T](b, name)
	if err != nil {
		if w, ok := err.(*UniformWarning); ok {
			b.warnings = append(b.warnings, *w)
		}
	}
	return u
}

// Unbound returns a uniform that ignores writes.
func Unbound[T any]() Uniform[T] {
	return Uniform[T]{}
}
