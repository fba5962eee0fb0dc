// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package shader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/devblok/korugl/device"
	"github.com/devblok/korugl/gfx"
)

var (
	// ErrMissingStage is returned when a vertex or fragment source is empty.
	ErrMissingStage = errors.New("a program needs a vertex and a fragment stage")

	// ErrTessStages is returned when only one tessellation stage is given.
	ErrTessStages = errors.New("tessellation control and evaluation stages go together")

	// ErrNilUniform is returned when a nil value is written to a uniform.
	ErrNilUniform = errors.New("nil uniform value")

	// ErrUnsupportedUniform is returned for Go types with no uniform
	// counterpart.
	ErrUnsupportedUniform = errors.New("type cannot be written to a uniform")
)

// ProgramErrorKind tells at which step building a program failed.
type ProgramErrorKind int

// Program error kinds.
const (
	CompilationFailed ProgramErrorKind = iota
	LinkFailed
	InterfaceFailed
)

func (k ProgramErrorKind) String() string {
	switch k {
	case CompilationFailed:
		return "compilation failed"
	case LinkFailed:
		return "link failed"
	case InterfaceFailed:
		return "uniform interface failed"
	}
	return fmt.Sprintf("ProgramErrorKind(%d)", int(k))
}

// ProgramError is a failure to build a program.
type ProgramError struct {
	Kind ProgramErrorKind
	// Stage is only meaningful for CompilationFailed.
	Stage device.ShaderStage
	// Log is the driver info log.
	Log string
	Err error
}

func (e *ProgramError) Error() string {
	var b strings.Builder
	if e.Kind == CompilationFailed {
		b.WriteString(e.Stage.String())
		b.WriteString(" stage ")
	}
	b.WriteString(e.Kind.String())
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	if log := strings.TrimSpace(e.Log); log != "" {
		b.WriteString("\n")
		b.WriteString(log)
	}
	return b.String()
}

func (e *ProgramError) Unwrap() error {
	return e.Err
}

// UniformWarningKind tells why a uniform could not be bound.
type UniformWarningKind int

// Uniform warning kinds.
const (
	// Inactive uniforms are not declared or optimized away.
	Inactive UniformWarningKind = iota
	TypeMismatch
)

// UniformWarning reports a uniform that could not be bound as asked. It
// is an error when returned by Ask and a warning when collected by
// AskUnbound.
type UniformWarning struct {
	Name string
	Kind UniformWarningKind

	// Declared is the type found in the program, Requested the type
	// asked for. Only set for TypeMismatch.
	Declared  gfx.UniformType
	Requested gfx.UniformType
}

func (w *UniformWarning) Error() string {
	if w.Kind == Inactive {
		return fmt.Sprintf("uniform %q is inactive", w.Name)
	}
	return fmt.Sprintf("uniform %q is declared %s, requested %s", w.Name, w.Declared, w.Requested)
}

// BuiltProgram is a successfully built program along with the warnings
// produced while building it.
type BuiltProgram[U any] struct {
	Program  *Program[U]
	Warnings []UniformWarning
	// Log holds the non-empty driver info logs.
	Log string
}

// IgnoreWarnings returns the program.
func (b BuiltProgram[U]) IgnoreWarnings() *Program[U] {
	return b.Program
}

// AdaptationFailure is returned when a new uniform interface could not be
// built. Program still carries the former interface and stays usable.
type AdaptationFailure[U any] struct {
	Program *Program[U]
	Err     error
}

func (f *AdaptationFailure[U]) Error() string {
	return "adaptation failed: " + f.Err.Error()
}

func (f *AdaptationFailure[U]) Unwrap() error {
	return f.Err
}

// IgnoreError returns the program with its former interface.
func (f *AdaptationFailure[U]) IgnoreError() *Program[U] {
	return f.Program
}
