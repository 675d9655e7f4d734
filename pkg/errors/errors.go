// Package errors provides structured error handling for the Anima engine.
//
// The animation core has no recoverable error conditions of its own. Contract
// violations (a negative start delay, a spring with a negative response)
// panic with a [*PreconditionError]. Panics raised by user callbacks during a
// frame are recovered by the controller and reported through the global
// [ErrorHandler] so one faulty callback cannot stall the frame loop.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindPrecondition indicates a violated API contract.
	KindPrecondition
	// KindCallback indicates a failure inside a ValueChanged or Completion callback.
	KindCallback
	// KindConfig indicates an invalid or unreadable configuration.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindScheduler indicates an inconsistency detected by the controller.
	KindScheduler
)

func (k ErrorKind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition"
	case KindCallback:
		return "callback"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	case KindScheduler:
		return "scheduler"
	default:
		return "unknown"
	}
}

// AnimaError represents a structured error in the engine.
type AnimaError struct {
	// Op is the operation that failed (e.g., "animation.Controller.Tick").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Animation is the identifier of the animation involved, if any.
	Animation string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *AnimaError) Error() string {
	if e.Animation != "" {
		return fmt.Sprintf("%s [%s] animation=%s: %v", e.Op, e.Kind, e.Animation, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *AnimaError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "animation.SpringAnimation.Update").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// PreconditionError is the panic value used for API contract violations.
type PreconditionError struct {
	// Op is the operation whose contract was violated.
	Op string
	// Message describes the violated condition.
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition failed in %s: %s", e.Op, e.Message)
}

// ErrUnsupportedSchema is returned when a configuration file declares a
// schema version this build cannot read.
var ErrUnsupportedSchema = errors.New("unsupported configuration schema")

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	// Path is the file the value was read from, if any.
	Path string
	// Field is the dotted name of the offending field.
	Field string
	// Err is the underlying error.
	Err error
}

func (e *ConfigError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: invalid %s: %v", e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Precondition panics with a [*PreconditionError] when cond is false.
func Precondition(op string, cond bool, msg string) {
	if !cond {
		panic(&PreconditionError{Op: op, Message: msg})
	}
}

// Is reports whether any error in err's tree matches target.
// It forwards to the standard library so callers need a single errors import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// ErrorHandler receives errors reported by the engine.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *AnimaError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
