// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package model

import (
	"encoding/xml"

	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/devblok/korugl/utility/collada"
)

// ImportColladaObject reads the first geometry of a Collada file into an
// Object. Only triangle positions are read.
func ImportColladaObject(fileContents []byte) (*Object, error) {
	var colladaModel collada.Collada
	if err := xml.Unmarshal(fileContents, &colladaModel); err != nil {
		return nil, errors.Wrap(err, "collada")
	}
	if len(colladaModel.Geometries) == 0 {
		return nil, errors.New("collada: no geometry")
	}

	mesh := &colladaModel.Geometries[0].Mesh
	triangles := &mesh.Triangles

	vertexInput, ok := triangles.Input("VERTEX")
	if !ok {
		return nil, errors.New("collada: triangles have no VERTEX input")
	}
	positionInput, ok := mesh.Vertices.Input("POSITION")
	if !ok {
		return nil, errors.New("collada: vertices have no POSITION input")
	}
	source, ok := mesh.FindSource(positionInput.Source)
	if !ok {
		return nil, errors.Errorf("collada: source %s not found", positionInput.Source)
	}
	positions := source.Floats.Data

	stride := triangles.Stride()
	corners := len(triangles.Index) / stride
	if triangles.Count != 0 && corners != 3*triangles.Count {
		return nil, errors.Errorf("collada: %d triangles declared, %d corners found", triangles.Count, corners)
	}

	vertices := make([]glm.Vec3, 0, corners)
	for idx := 0; idx < corners; idx++ {
		p := triangles.Index[stride*idx+int(vertexInput.Offset)]
		if p < 0 || 3*p+2 >= len(positions) {
			return nil, errors.Errorf("collada: position %d out of range", p)
		}
		vertices = append(vertices, glm.Vec3{positions[3*p], positions[3*p+1], positions[3*p+2]})
	}
	return NewObject(vertices), nil
}
