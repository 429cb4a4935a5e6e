package foundation

import (
	"github.com/glyphbox/objc"
)

// Dynamic sends for selectors whose names are not known until runtime.
// Each call pays a runtime interning lookup; fixed names should go
// through objc.RegisterSelector and the typed dispatch helpers instead.

// PerformSelector sends a named selector to obj, returning the raw +0
// object result.
func PerformSelector[R objc.Instance, T objc.Instance](p *objc.Pool, obj objc.Guaranteed[T], name string, args ...any) objc.Raw[R] {
	return objc.CallObject[R](p, obj.Handle(), objc.RegisterName(name), args...)
}

// PerformSelectorPrimitive sends a named selector returning a
// word-sized primitive.
func PerformSelectorPrimitive[R objc.Word, T objc.Instance](p *objc.Pool, obj objc.Guaranteed[T], name string, args ...any) R {
	return objc.Call[R](p, obj.Handle(), objc.RegisterName(name), args...)
}

// PerformSelectorRetained sends a named selector whose +0 result is
// promoted to Strong through the runtime's fast path. ok is false when
// the send returned nil.
func PerformSelectorRetained[R objc.Instance, T objc.Instance](p *objc.Pool, obj objc.Guaranteed[T], name string, args ...any) (objc.Strong[R], bool) {
	return objc.CallObjectRetained[R](p, obj.Handle(), objc.RegisterName(name), args...)
}

// PerformSelectorError sends a named selector following the trailing
// NSError** convention.
func PerformSelectorError[R objc.Instance, T objc.Instance](p *objc.Pool, obj objc.Guaranteed[T], name string, args ...any) (objc.Guaranteed[R], error) {
	return objc.CallError[R](p, obj.Handle(), objc.RegisterName(name), args...)
}

// PerformSelectorBoolError is PerformSelectorError for BOOL-returning
// methods, where NO signals failure.
func PerformSelectorBoolError[T objc.Instance](p *objc.Pool, obj objc.Guaranteed[T], name string, args ...any) error {
	return objc.CallBoolError(p, obj.Handle(), objc.RegisterName(name), args...)
}
