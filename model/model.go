// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package model holds meshes placed in a scene and uploads them as
// tessellations.
package model

import (
	"sync"

	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/gfx"
)

// Object is a triangle mesh with a placement in space. Placement and
// color are safe to change from other goroutines while rendering.
type Object struct {
	mutex    sync.RWMutex
	position glm.Mat4
	rotation glm.Mat4
	color    glm.Vec4

	vertices []glm.Vec3
}

// NewObject creates an object at the origin from triangle corners, three
// per triangle.
func NewObject(vertices []glm.Vec3) *Object {
	return &Object{
		position: glm.Ident4(),
		rotation: glm.Ident4(),
		color:    glm.Vec4{1, 1, 1, 1},
		vertices: vertices,
	}
}

// SetPosition sets the object's current position in space.
func (o *Object) SetPosition(pos glm.Mat4) {
	o.mutex.Lock()
	o.position = pos
	o.mutex.Unlock()
}

// Position gets the object's current position in space.
func (o *Object) Position() glm.Mat4 {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.position
}

// SetRotation sets the object's rotation matrix.
func (o *Object) SetRotation(rot glm.Mat4) {
	o.mutex.Lock()
	o.rotation = rot
	o.mutex.Unlock()
}

// Rotation gets the object's rotation matrix.
func (o *Object) Rotation() glm.Mat4 {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.rotation
}

// SetColor sets the flat color the object is drawn with.
func (o *Object) SetColor(c glm.Vec4) {
	o.mutex.Lock()
	o.color = c
	o.mutex.Unlock()
}

// Color gets the flat color of the object.
func (o *Object) Color() glm.Vec4 {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.color
}

// Transform is the model matrix, rotation first.
func (o *Object) Transform() glm.Mat4 {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.position.Mul4(o.rotation)
}

// Vertices returns the triangle corners.
func (o *Object) Vertices() []glm.Vec3 {
	return o.vertices
}

// Upload creates a triangle tessellation of the object, three floats per
// vertex.
func (o *Object) Upload(d device.Driver) (gfx.Tess, error) {
	if len(o.vertices) == 0 || len(o.vertices)%3 != 0 {
		return gfx.Tess{}, errors.Errorf("%d vertices do not make triangles", len(o.vertices))
	}
	flat := make([]float32, 0, 3*len(o.vertices))
	for _, v := range o.vertices {
		flat = append(flat, v[0], v[1], v[2])
	}
	return d.NewTess(gfx.Triangles, flat, 3)
}
