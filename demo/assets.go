// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package demo

import (
	"bytes"
	"io/ioutil"

	"github.com/gobuffalo/packd"
	"github.com/gobuffalo/packr"
	"github.com/pkg/errors"

	"github.com/devblok/korugl/utility/kar"
)

// StaticShaders holds the shader sources the scene is built from.
var StaticShaders packr.Box

func init() {
	StaticShaders = packr.NewBox("./shaders")
}

// Shaders reads every shader source of StaticShaders, keyed by file name.
func Shaders() (map[string]string, error) {
	sources := make(map[string]string)
	err := StaticShaders.Walk(func(name string, f packd.File) error {
		sources[name] = f.String()
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walking shader box")
	}
	return sources, nil
}

// Pack bundles every shader source of StaticShaders into a kar archive.
func Pack(header kar.Header) ([]byte, error) {
	sources, err := Shaders()
	if err != nil {
		return nil, err
	}
	b := kar.NewBuilder(header)
	for name, source := range sources {
		if err := b.Add(name, bytes.NewReader([]byte(source))); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := b.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ShadersFrom reads every file of a kar shader pack.
func ShadersFrom(ar *kar.Archive) (map[string]string, error) {
	sources := make(map[string]string)
	for _, name := range ar.Names() {
		f, err := ar.Open(name)
		if err != nil {
			return nil, err
		}
		data, err := ioutil.ReadAll(f)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", name)
		}
		sources[name] = string(data)
	}
	return sources, nil
}
