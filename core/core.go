// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package core holds the per-context pieces shared by every pipeline: the
// driver, the cached graphics state, the configuration and the logger.
package core

import (
	"errors"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/gfx"
)

var (
	// ErrContextBusy is returned when a pipeline is started on a context
	// that already runs one.
	ErrContextBusy = errors.New("context already runs a pipeline")
)

// Context is one rendering context. It is bound to the goroutine that owns
// the native context and is not safe for concurrent use; the busy flag
// only turns accidental overlap into an error.
type Context struct {
	driver device.Driver
	state  *GraphicsState
	caps   device.Caps
	cfg    RendererConfiguration
	log    *logrus.Entry

	busy int32
}

// NewContext wraps driver. A nil logger discards logs.
func NewContext(driver device.Driver, cfg RendererConfiguration, logger *logrus.Logger) *Context {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	caps := driver.Caps()
	return &Context{
		driver: driver,
		state:  NewGraphicsState(driver),
		caps:   caps,
		cfg:    cfg,
		log: logger.WithFields(logrus.Fields{
			"component": "core",
			"driver":    caps.Name,
		}),
	}
}

// Driver returns the driver of the context.
func (c *Context) Driver() device.Driver {
	return c.driver
}

// State returns the graphics state of the context.
func (c *Context) State() *GraphicsState {
	return c.state
}

// Caps returns what the driver reported when the context was created.
func (c *Context) Caps() device.Caps {
	return c.caps
}

// Log returns the context logger.
func (c *Context) Log() *logrus.Entry {
	return c.log
}

// TextureUnitLimit is the number of texture units a pipeline may hold at
// once, 0 when unbounded.
func (c *Context) TextureUnitLimit() uint32 {
	return limit(c.cfg.MaxTextureUnits, c.caps.MaxTextureUnits)
}

// BufferBindingLimit is the number of uniform buffer bindings a pipeline
// may hold at once, 0 when unbounded.
func (c *Context) BufferBindingLimit() uint32 {
	return limit(c.cfg.MaxBufferBindings, c.caps.MaxBufferBindings)
}

// limit picks the tighter of two limits where 0 is no limit.
func limit(configured, reported uint32) uint32 {
	switch {
	case configured == 0:
		return reported
	case reported == 0:
		return configured
	case configured < reported:
		return configured
	}
	return reported
}

// Acquire marks the context busy. It fails with ErrContextBusy when it
// already is.
func (c *Context) Acquire() error {
	if !atomic.CompareAndSwapInt32(&c.busy, 0, 1) {
		return ErrContextBusy
	}
	return nil
}

// Release clears the busy mark set by Acquire.
func (c *Context) Release() {
	atomic.StoreInt32(&c.busy, 0)
}

// DeleteTexture deletes t and drops it from the cached state.
func (c *Context) DeleteTexture(t gfx.Texture) {
	c.driver.DeleteTexture(t)
	c.state.ForgetTexture(t.Handle)
}

// DeleteBuffer deletes b and drops it from the cached state.
func (c *Context) DeleteBuffer(b gfx.Buffer) {
	c.driver.DeleteBuffer(b)
	c.state.ForgetBuffer(b.Handle)
}

// DeleteTess deletes t and drops its vertex array from the cached state.
func (c *Context) DeleteTess(t gfx.Tess) {
	c.driver.DeleteTess(t)
	c.state.ForgetVertexArray(t.Handle)
}
