// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package gfx defines the vocabulary shared by drivers and the pipeline:
// resource handles, pixel and uniform catalogs and render state values.
// Nothing in this package talks to a driver.
package gfx

// Releasable defines anything that holds a scarce resource that can be
// given back.
type Releasable interface {

	// Release gives the resource back. Calling it more than once
	// must be harmless.
	Release()
}
