package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// handlerBox lets an interface value live in an atomic.Pointer.
type handlerBox struct{ h ErrorHandler }

var handler atomic.Pointer[handlerBox]

func init() {
	handler.Store(&handlerBox{&LogHandler{}})
}

// SetHandler installs the handler that receives reported errors and
// recovered panics. Nil restores the default [LogHandler].
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	handler.Store(&handlerBox{h})
}

// Handler returns the installed handler.
func Handler() ErrorHandler {
	return handler.Load().h
}

// Report passes err to the installed handler, stamping it with the current
// time if it has none.
func Report(err *AnimaError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic passes a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	Handler().HandlePanic(err)
}

// Recover recovers a panic in the deferring function. Precondition panics
// are re-raised. Any other panic is reported, then handed to onPanic if it
// is not nil.
//
//	defer errors.Recover("animation.Controller.Dispatch", nil)
func Recover(op string, onPanic func(*PanicError)) {
	r := recover()
	if r == nil {
		return
	}
	if _, ok := r.(*PreconditionError); ok {
		panic(r)
	}
	pe := &PanicError{Op: op, Value: r, StackTrace: CaptureStack(), Timestamp: time.Now()}
	ReportPanic(pe)
	if onPanic != nil {
		onPanic(pe)
	}
}

// CaptureStack returns the call stack of its caller's caller, one
// "function\n\tfile:line" entry per frame.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for n > 0 {
		f, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		if !more {
			break
		}
	}
	return sb.String()
}
