// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package pipeline

import (
	"errors"
	"math/rand"
	"sort"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/sirupsen/logrus"

	"github.com/devblok/korugl/core"
	"github.com/devblok/korugl/device/headless"
	"github.com/devblok/korugl/gfx"
)

func newTestStack(maxTextureUnits, maxBufferBindings uint32) *BindingStack {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return newBindingStack(core.NewGraphicsState(headless.New()), maxTextureUnits, maxBufferBindings, logrus.NewEntry(log))
}

func TestAcquireCountsUp(t *testing.T) {
	c := qt.New(t)
	s := newTestStack(0, 0)

	for want := uint32(0); want < 40; want++ {
		unit, err := s.AcquireTextureUnit()
		c.Assert(err, qt.IsNil)
		c.Assert(unit, qt.Equals, want)

		binding, err := s.AcquireBufferBinding()
		c.Assert(err, qt.IsNil)
		c.Assert(binding, qt.Equals, want)
	}
}

func TestReleaseIsReusedFirst(t *testing.T) {
	c := qt.New(t)
	s := newTestStack(0, 0)

	unit, _ := s.AcquireTextureUnit()
	c.Assert(unit, qt.Equals, uint32(0))
	s.ReleaseTextureUnit(unit)
	unit, _ = s.AcquireTextureUnit()
	c.Assert(unit, qt.Equals, uint32(0))

	// last released, first reused
	a, _ := s.AcquireBufferBinding()
	b, _ := s.AcquireBufferBinding()
	s.ReleaseBufferBinding(a)
	s.ReleaseBufferBinding(b)
	got, _ := s.AcquireBufferBinding()
	c.Assert(got, qt.Equals, b)
	got, _ = s.AcquireBufferBinding()
	c.Assert(got, qt.Equals, a)
	got, _ = s.AcquireBufferBinding()
	c.Assert(got, qt.Equals, uint32(2))
}

func TestRandomSequencesPartitionIds(t *testing.T) {
	c := qt.New(t)
	rnd := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		s := newTestStack(0, 0)
		var held []uint32
		for step := 0; step < 200; step++ {
			if len(held) > 0 && rnd.Intn(3) == 0 {
				i := rnd.Intn(len(held))
				s.ReleaseTextureUnit(held[i])
				held = append(held[:i], held[i+1:]...)
				continue
			}
			unit, err := s.AcquireTextureUnit()
			c.Assert(err, qt.IsNil)
			held = append(held, unit)
		}

		all := append(append([]uint32(nil), held...), s.freeTextureUnits...)
		sort.Slice(all, func(i, j int) bool { return all[i] < all[j] })
		c.Assert(all, qt.HasLen, int(s.nextTextureUnit))
		for i, id := range all {
			// covers [0, next) exactly once
			c.Assert(id, qt.Equals, uint32(i))
		}
	}
}

func TestCapacity(t *testing.T) {
	c := qt.New(t)
	s := newTestStack(2, 1)

	_, err := s.AcquireTextureUnit()
	c.Assert(err, qt.IsNil)
	unit, err := s.AcquireTextureUnit()
	c.Assert(err, qt.IsNil)
	_, err = s.AcquireTextureUnit()
	c.Assert(err, qt.ErrorIs, ErrCapacityExceeded)
	c.Assert(err, qt.ErrorMatches, "all 2 texture units in use: binding capacity exceeded")

	s.ReleaseTextureUnit(unit)
	again, err := s.AcquireTextureUnit()
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.Equals, unit)

	_, err = s.AcquireBufferBinding()
	c.Assert(err, qt.IsNil)
	_, err = s.AcquireBufferBinding()
	c.Assert(err, qt.ErrorIs, ErrCapacityExceeded)
}

type recorder struct {
	name string
	log  *[]string
}

func (r recorder) Release() {
	*r.log = append(*r.log, r.name)
}

func (recorder) isReleased() bool {
	return false
}

func TestScopedReleasesInReverse(t *testing.T) {
	c := qt.New(t)
	s := newTestStack(0, 0)

	var released []string
	err := s.scoped(func() error {
		s.hold(recorder{"outer", &released})
		err := s.scoped(func() error {
			s.hold(recorder{"a", &released})
			s.hold(recorder{"b", &released})
			return errors.New("inner")
		})
		c.Check(released, qt.DeepEquals, []string{"b", "a"})
		return err
	})
	c.Assert(err, qt.ErrorMatches, "inner")
	c.Assert(released, qt.DeepEquals, []string{"b", "a", "outer"})
	c.Assert(s.frames, qt.HasLen, 0)
}

func TestScopedReleasesOnPanic(t *testing.T) {
	c := qt.New(t)
	s := newTestStack(0, 0)

	var released []string
	c.Assert(func() {
		s.scoped(func() error {
			s.hold(recorder{"a", &released})
			panic("boom")
		})
	}, qt.PanicMatches, "boom")
	c.Assert(released, qt.DeepEquals, []string{"a"})
	c.Assert(s.frames, qt.HasLen, 0)
}

func TestHoldDropsReleasedBindings(t *testing.T) {
	c := qt.New(t)
	s := newTestStack(4, 4)
	p := &Pipeline{stack: s}

	err := s.scoped(func() error {
		kept, err := p.BindTexture(&gfx.Texture{Handle: 1, Dim: gfx.Dim2, Format: gfx.RGBA8, Width: 1, Height: 1})
		c.Assert(err, qt.IsNil)
		for i := 0; i < 1000; i++ {
			bt, err := p.BindTexture(&gfx.Texture{Handle: 2, Dim: gfx.Dim2, Format: gfx.RGBA8, Width: 1, Height: 1})
			c.Assert(err, qt.IsNil)
			bb, err := p.BindBuffer(&gfx.Buffer{Handle: 3})
			c.Assert(err, qt.IsNil)
			bb.Release()
			bt.Release()
		}
		c.Assert(len(s.frames[0]) <= 3, qt.IsTrue, qt.Commentf("frame holds %d bindings", len(s.frames[0])))
		c.Assert(s.frames[0][0], qt.Equals, held(kept))
		return nil
	})
	c.Assert(err, qt.IsNil)
	c.Assert(s.nextTextureUnit, qt.Equals, uint32(2))
	c.Assert(s.nextBufferBinding, qt.Equals, uint32(1))
}

func TestStackEndsWithOutermostScope(t *testing.T) {
	c := qt.New(t)
	s := newTestStack(0, 0)

	c.Assert(s.scoped(func() error {
		c.Assert(s.live(), qt.IsNil)
		return s.scoped(func() error {
			return s.live()
		})
	}), qt.IsNil)
	c.Assert(s.live(), qt.ErrorIs, ErrReleased)
}

func BenchmarkAcquireRelease(b *testing.B) {
	s := newTestStack(0, 0)
	for idx := 0; idx < b.N; idx++ {
		unit, _ := s.AcquireTextureUnit()
		binding, _ := s.AcquireBufferBinding()
		s.ReleaseBufferBinding(binding)
		s.ReleaseTextureUnit(unit)
	}
}

func BenchmarkAcquireDeep(b *testing.B) {
	s := newTestStack(0, 0)
	units := make([]uint32, 32)
	for idx := 0; idx < b.N; idx++ {
		for i := range units {
			units[i], _ = s.AcquireTextureUnit()
		}
		for i := len(units) - 1; i >= 0; i-- {
			s.ReleaseTextureUnit(units[i])
		}
	}
}
