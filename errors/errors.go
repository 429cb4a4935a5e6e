package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the binding the error occurred
type Phase string

const (
	PhaseLoad      Phase = "load"      // runtime library loading, symbol binding
	PhaseResolve   Phase = "resolve"   // selector and class resolution
	PhaseDispatch  Phase = "dispatch"  // message send
	PhasePool      Phase = "pool"      // autorelease pool management
	PhaseOwnership Phase = "ownership" // retain/release bookkeeping
	PhaseInspect   Phase = "inspect"   // runtime introspection
)

// Kind categorizes the error
type Kind string

const (
	KindLibraryMissing    Kind = "library_missing"
	KindSymbolMissing     Kind = "symbol_missing"
	KindClassNotFound     Kind = "class_not_found"
	KindSelectorInvalid   Kind = "selector_invalid"
	KindNilResult         Kind = "nil_result"
	KindArityExceeded     Kind = "arity_exceeded"
	KindBadArgument       Kind = "bad_argument"
	KindUnsupportedReturn Kind = "unsupported_return"
	KindObjCError         Kind = "objc_error"
	KindNotFound          Kind = "not_found"
)

// Error is the structured error type used throughout the binding.
//
// For failures following the Objective-C trailing NSError** convention,
// Value carries the autoreleased cell wrapping the foreign error object.
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Class  string
	Sel    string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Class != "" || e.Sel != "" {
		b.WriteString(" at ")
		if e.Class != "" {
			b.WriteString(e.Class)
		}
		if e.Sel != "" {
			if e.Class != "" {
				b.WriteByte(' ')
			}
			b.WriteByte('[')
			b.WriteString(e.Sel)
			b.WriteByte(']')
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Class sets the class name involved
func (b *Builder) Class(name string) *Builder {
	b.err.Class = name
	return b
}

// Sel sets the selector text involved
func (b *Builder) Sel(name string) *Builder {
	b.err.Sel = name
	return b
}

// Value sets the offending or carried value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Load creates a symbol-binding error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindSymbolMissing,
		Detail: detail,
		Cause:  cause,
	}
}

// LibraryMissing reports that the foreign runtime library could not be opened
func LibraryMissing(path string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindLibraryMissing,
		Detail: fmt.Sprintf("cannot open %s", path),
		Cause:  cause,
	}
}

// Resolve creates a name-resolution error
func Resolve(kind Kind, name, detail string) *Error {
	e := &Error{
		Phase:  PhaseResolve,
		Kind:   kind,
		Detail: detail,
	}
	if kind == KindClassNotFound {
		e.Class = name
	} else {
		e.Sel = name
	}
	return e
}

// ObjCFailure wraps a foreign NSError-convention failure. cell holds the
// autoreleased cell around the error object; sel names the failing message.
func ObjCFailure(sel string, cell any) *Error {
	return &Error{
		Phase: PhaseDispatch,
		Kind:  KindObjCError,
		Sel:   sel,
		Value: cell,
	}
}

// NilResult reports a nil handle where the caller required an object
func NilResult(sel string) *Error {
	return &Error{
		Phase: PhaseDispatch,
		Kind:  KindNilResult,
		Sel:   sel,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedReturn,
		Detail: what,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
