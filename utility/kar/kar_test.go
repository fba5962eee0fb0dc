// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package kar_test

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"golang.org/x/exp/mmap"

	"github.com/devblok/korugl/utility/kar"
)

var (
	testString1 = "idunvovkjnreovmegihjbrqlkmfrjnb"
	testString2 = "idunvovkjnreovmsdvwrvnervnreegihjbrqlkmfrjnb"
)

func buildArchive(c *qt.C, files map[string]string) []byte {
	builder := kar.NewBuilder(kar.Header{
		Author:      "devblok",
		DateCreated: time.Now().Unix(),
		Version:     1,
	})
	for name, contents := range files {
		c.Assert(builder.Add(name, strings.NewReader(contents)), qt.IsNil)
	}
	var buf bytes.Buffer
	_, err := builder.WriteTo(&buf)
	c.Assert(err, qt.IsNil)
	return buf.Bytes()
}

func TestCreateAndRead(t *testing.T) {
	c := qt.New(t)
	data := buildArchive(c, map[string]string{"test": testString1, "test2": testString2})

	ar, err := kar.Open(bytes.NewReader(data))
	c.Assert(err, qt.IsNil)
	c.Assert(ar.Names(), qt.DeepEquals, []string{"test", "test2"})
	c.Assert(ar.Header().Author, qt.Equals, "devblok")

	f, err := ar.Open("test2")
	c.Assert(err, qt.IsNil)
	c.Assert(f.Name(), qt.Equals, "test2")
	c.Assert(f.Size(), qt.Equals, int64(len(testString2)))
	result, err := ioutil.ReadAll(f)
	c.Assert(err, qt.IsNil)
	c.Assert(string(result), qt.Equals, testString2)
}

func TestCreateAndReadAll(t *testing.T) {
	c := qt.New(t)
	data := buildArchive(c, map[string]string{"test": testString1, "test2": testString2})

	ar, err := kar.Open(bytes.NewReader(data))
	c.Assert(err, qt.IsNil)

	f, err := ar.ReadAll("test")
	c.Assert(err, qt.IsNil)
	c.Assert(string(f), qt.Equals, testString1)

	_, err = ar.ReadAll("missing")
	c.Assert(err, qt.ErrorIs, kar.ErrNotFound)
}

func TestEmptyFiles(t *testing.T) {
	c := qt.New(t)
	ar, err := kar.Open(bytes.NewReader(buildArchive(c, map[string]string{"empty": ""})))
	c.Assert(err, qt.IsNil)
	f, err := ar.ReadAll("empty")
	c.Assert(err, qt.IsNil)
	c.Assert(f, qt.HasLen, 0)

	ar, err = kar.Open(bytes.NewReader(buildArchive(c, nil)))
	c.Assert(err, qt.IsNil)
	c.Assert(ar.Names(), qt.HasLen, 0)
}

func TestOpenmmap(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "shaders.kar")
	shaders := map[string]string{
		"basic.vert.glsl": "#version 410\nvoid main() {}\n",
		"basic.frag.glsl": "#version 410\nout vec4 color;\nvoid main() { color = vec4(1); }\n",
	}
	c.Assert(ioutil.WriteFile(path, buildArchive(c, shaders), 0644), qt.IsNil)

	r, err := mmap.Open(path)
	c.Assert(err, qt.IsNil)
	defer r.Close()

	ar, err := kar.Open(r)
	c.Assert(err, qt.IsNil)

	var wg sync.WaitGroup
	for name, want := range shaders {
		wg.Add(1)
		go func(name, want string) {
			defer wg.Done()
			got, err := ar.ReadAll(name)
			c.Check(err, qt.IsNil)
			c.Check(string(got), qt.Equals, want)
		}(name, want)
	}
	wg.Wait()
}

func TestOpenFile(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "test.kar")
	c.Assert(ioutil.WriteFile(path, buildArchive(c, map[string]string{"test/test1.txt": "this is a test"}), 0644), qt.IsNil)

	f, err := os.Open(path)
	c.Assert(err, qt.IsNil)
	defer f.Close()

	ar, err := kar.Open(f)
	c.Assert(err, qt.IsNil)
	got, err := ar.ReadAll("test/test1.txt")
	c.Assert(err, qt.IsNil)
	c.Assert(string(got), qt.Equals, "this is a test")
}

func TestNotAnArchive(t *testing.T) {
	c := qt.New(t)
	valid := buildArchive(c, map[string]string{"test": testString1})

	for name, data := range map[string][]byte{
		"empty":     nil,
		"short":     []byte("KA"),
		"magic":     append([]byte("TAR\x00"), valid[4:]...),
		"truncated": valid[:20],
	} {
		c.Run(name, func(c *qt.C) {
			_, err := kar.Open(bytes.NewReader(data))
			c.Assert(err, qt.ErrorIs, kar.ErrFileFormat)
		})
	}
}
