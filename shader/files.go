// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package shader

import (
	"path"
	"strings"

	"github.com/devblok/korugl/device"
)

const sourceSuffix = ".glsl"

var stageSuffixes = map[string]device.ShaderStage{
	"vert": device.VertexStage,
	"tesc": device.TessControlStage,
	"tese": device.TessEvaluationStage,
	"geom": device.GeometryStage,
	"frag": device.FragmentStage,
}

// ParseFileName splits a shader file name of the form program.stage.glsl.
// The first dot always ends the program name, the second names the stage.
func ParseFileName(name string) (program string, stage device.ShaderStage, ok bool) {
	base := path.Base(name)
	if !strings.HasSuffix(base, sourceSuffix) {
		return "", 0, false
	}
	nodes := strings.Split(strings.TrimSuffix(base, sourceSuffix), ".")
	if len(nodes) != 2 {
		return "", 0, false
	}
	stage, ok = stageSuffixes[nodes[1]]
	return nodes[0], stage, ok
}

// Collect groups sources by program name. Files not following the
// program.stage.glsl pattern are skipped.
func Collect(files map[string]string) map[string]Stages {
	programs := make(map[string]Stages)
	for name, source := range files {
		program, stage, ok := ParseFileName(name)
		if !ok {
			continue
		}
		s := programs[program]
		switch stage {
		case device.VertexStage:
			s.Vertex = source
		case device.TessControlStage:
			s.TessControl = source
		case device.TessEvaluationStage:
			s.TessEvaluation = source
		case device.GeometryStage:
			s.Geometry = source
		case device.FragmentStage:
			s.Fragment = source
		}
		programs[program] = s
	}
	return programs
}
