// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package headless

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/devblok/korugl/gfx"
)

var (
	uniformDecl = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?uniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
	blockDecl   = regexp.MustCompile(`(?m)^\s*(?:layout\s*\([^)]*\)\s*)?uniform\s+(\w+)\s*\{`)
	errorDecl   = regexp.MustCompile(`(?m)^\s*#error\s*(.*)$`)
	versionDecl = regexp.MustCompile(`(?m)^\s*#version\s+\d+`)
)

type declaration struct {
	name string
	typ  gfx.UniformType
	size int
}

// reflectSource stands in for the GLSL compiler. Declarations of unknown
// types (structs, doubles) are skipped, the way an inactive uniform is.
// A missing #version is a warning, an #error directive is a failure.
func reflectSource(source string) ([]declaration, []string, string, error) {
	if strings.TrimSpace(source) == "" {
		log := "error: empty shader source"
		return nil, nil, log, errors.New(log)
	}
	if m := errorDecl.FindStringSubmatch(source); m != nil {
		log := "error: #error " + strings.TrimSpace(m[1])
		return nil, nil, log, errors.New(log)
	}

	var log string
	if !versionDecl.MatchString(source) {
		log = "warning: no #version directive, assuming 110"
	}

	var decls []declaration
	for _, m := range uniformDecl.FindAllStringSubmatch(source, -1) {
		t, ok := gfx.ParseUniformType(m[1])
		if !ok {
			continue
		}
		size := 1
		if m[3] != "" {
			size, _ = strconv.Atoi(m[3])
		}
		decls = append(decls, declaration{name: m[2], typ: t, size: size})
	}

	var blocks []string
	for _, m := range blockDecl.FindAllStringSubmatch(source, -1) {
		blocks = append(blocks, m[1])
	}
	return decls, blocks, log, nil
}
