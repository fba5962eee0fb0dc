// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package pipeline

import "errors"

var (
	// ErrCapacityExceeded is returned when every texture unit or buffer
	// binding the context allows is held.
	ErrCapacityExceeded = errors.New("binding capacity exceeded")

	// ErrReleased is returned when a bound resource is used after its
	// slot was given back, or a pipeline or gate after its pipeline
	// returned.
	ErrReleased = errors.New("bound resource already released")

	// ErrInvalidSlice is returned for a slice outside of its tessellation.
	ErrInvalidSlice = errors.New("invalid tessellation slice")
)
