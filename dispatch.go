package objc

import (
	"runtime"
	"unsafe"

	"github.com/glyphbox/objc/errors"
)

// MaxArgs is the highest supported positional-argument count. Arity is
// closed, not truly variadic: each call site fixes its argument list.
const MaxArgs = 12

// structReturnThreshold is the largest value-type result, in bytes,
// returned through the integer result registers. Larger results use the
// struct-return convention. Both supported ABIs (System V amd64 and
// AAPCS64) draw the line at two registers.
const structReturnThreshold = 2 * 8

// needsStructReturn reports whether a value-type result of the given
// size requires the struct-return entry point.
func needsStructReturn(size uintptr) bool {
	return size > structReturnThreshold
}

// Word constrains primitive return types that fit a single integer
// register. Booleans go through CallBool, doubles through CallFloat,
// and larger value types through CallValue.
type Word interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 |
		~int64 | ~uint64 | ~int | ~uint | ~uintptr
}

// words converts a fixed argument list to machine words. Only FFI-safe
// types are accepted; anything else is a caller contract violation and
// panics. Note that there is no checking against the selector's actual
// signature; matching it is the binding author's responsibility.
func words(args []any) []uintptr {
	if len(args) > MaxArgs {
		panic(errors.New(errors.PhaseDispatch, errors.KindArityExceeded).
			Detail("%d arguments, max %d", len(args), MaxArgs).Build())
	}
	if len(args) == 0 {
		return nil
	}
	out := make([]uintptr, len(args))
	for i, a := range args {
		switch v := a.(type) {
		case ID:
			out[i] = uintptr(v)
		case Sel:
			out[i] = uintptr(v)
		case Class:
			out[i] = uintptr(v)
		case uintptr:
			out[i] = v
		case unsafe.Pointer:
			out[i] = uintptr(v)
		case bool:
			if v {
				out[i] = 1
			}
		case int:
			out[i] = uintptr(v)
		case int8:
			out[i] = uintptr(v)
		case int16:
			out[i] = uintptr(v)
		case int32:
			out[i] = uintptr(v)
		case int64:
			out[i] = uintptr(v)
		case uint:
			out[i] = uintptr(v)
		case uint8:
			out[i] = uintptr(v)
		case uint16:
			out[i] = uintptr(v)
		case uint32:
			out[i] = uintptr(v)
		case uint64:
			out[i] = uintptr(v)
		default:
			panic(errors.New(errors.PhaseDispatch, errors.KindBadArgument).
				Detail("argument %d has non-FFI-safe type %T", i, a).Build())
		}
	}
	return out
}

// Call sends sel to recv and interprets the result as a register-sized
// primitive.
func Call[R Word](p *Pool, recv ID, sel Sel, args ...any) R {
	p.require()
	r1, _ := rt().Call(recv, sel, words(args))
	runtime.KeepAlive(args)
	var out R
	writeResult(unsafe.Pointer(&out), unsafe.Sizeof(out), r1, 0)
	return out
}

// CallBool sends sel to recv for a BOOL result. BOOL is a signed char;
// any non-zero low byte is true.
func CallBool(p *Pool, recv ID, sel Sel, args ...any) bool {
	p.require()
	r1, _ := rt().Call(recv, sel, words(args))
	runtime.KeepAlive(args)
	return r1&0xff != 0
}

// CallFloat sends sel to recv for a double-precision result, which
// returns in a floating-point register and needs its own entry path.
func CallFloat(p *Pool, recv ID, sel Sel, args ...any) float64 {
	p.require()
	f := rt().CallFloat(recv, sel, words(args))
	runtime.KeepAlive(args)
	return f
}

// CallValue sends sel to recv for a value-type result of the given
// size, written to out. The calling convention is selected from the
// size: at most two registers goes through the ordinary entry point,
// anything larger through the struct-return entry point. The threshold
// test is needsStructReturn, in one place, so there is no second
// opinion about the boundary.
func CallValue(p *Pool, recv ID, sel Sel, out unsafe.Pointer, size uintptr, args ...any) {
	p.require()
	w := words(args)
	if needsStructReturn(size) {
		rt().CallStruct(out, size, recv, sel, w)
	} else {
		r1, r2 := rt().Call(recv, sel, w)
		writeResult(out, size, r1, r2)
	}
	runtime.KeepAlive(args)
}

// CallObject sends sel to recv for an object result. The handle comes
// back Raw: nullability and ownership are established by the caller
// according to the selector's convention.
func CallObject[T Instance](p *Pool, recv ID, sel Sel, args ...any) Raw[T] {
	p.require()
	r1, _ := rt().Call(recv, sel, words(args))
	runtime.KeepAlive(args)
	return Raw[T]{h: ID(r1)}
}

// CallObjectRetained sends sel to recv for a +0-convention object
// result and promotes it to +1 through the runtime's
// retainAutoreleasedReturnValue trampoline. The trampoline lets the
// runtime skip the autorelease pool entirely when caller and callee
// cooperate, which is why Strong results from +0 calls must come
// through here and not through a plain retain. ok is false if the
// callee returned nil.
func CallObjectRetained[T Instance](p *Pool, recv ID, sel Sel, args ...any) (Strong[T], bool) {
	p.require()
	r := rt()
	r1, _ := r.Call(recv, sel, words(args))
	runtime.KeepAlive(args)
	h := r.RetainAutoreleasedReturnValue(ID(r1))
	if h == 0 {
		return Strong[T]{}, false
	}
	return Strong[T]{h: h}, true
}

// CallError sends sel to recv following the trailing NSError**
// convention: one extra out-parameter slot is appended after args. A
// nil primary result signals failure; the error slot is then read and
// wrapped (autoreleased, per convention) into the returned error. On
// success the error slot is ignored, as the convention requires.
func CallError[T Instance](p *Pool, recv ID, sel Sel, args ...any) (Guaranteed[T], error) {
	p.require()
	errOut := errSlot()
	w := append(words(args), uintptr(unsafe.Pointer(errOut)))
	r1, _ := rt().Call(recv, sel, w)
	runtime.KeepAlive(args)
	if r1 != 0 {
		return Guaranteed[T]{h: ID(r1)}, nil
	}
	return Guaranteed[T]{}, errFromSlot(p, sel, *errOut)
}

// CallBoolError is CallError for methods returning BOOL: NO signals
// failure and an error object in the trailing slot.
func CallBoolError(p *Pool, recv ID, sel Sel, args ...any) error {
	p.require()
	errOut := errSlot()
	w := append(words(args), uintptr(unsafe.Pointer(errOut)))
	r1, _ := rt().Call(recv, sel, w)
	runtime.KeepAlive(args)
	if r1&0xff != 0 {
		return nil
	}
	return errFromSlot(p, sel, *errOut)
}

// errSlot allocates the trailing NSError** out-parameter on the heap.
// The callee writes through a raw address after dispatch has re-entered
// arbitrary code, so the slot must not live on a movable goroutine
// stack.
func errSlot() *ID {
	return new(ID)
}

func errFromSlot(p *Pool, sel Sel, errOut ID) error {
	e := errors.ObjCFailure(rt().SelName(sel), nil)
	if errOut != 0 {
		e.Value = AssumeNonNil[AnyObject](errOut).AssumeAutoreleased(p)
	}
	return e
}

// ErrorObject extracts the autoreleased foreign error cell carried by a
// trailing-error-convention failure. ok is false if err did not come
// from that convention or the callee left the slot empty.
func ErrorObject(err error) (Autoreleased[AnyObject], bool) {
	e, ok := err.(*errors.Error)
	if !ok {
		return Autoreleased[AnyObject]{}, false
	}
	cell, ok := e.Value.(Autoreleased[AnyObject])
	return cell, ok
}

// Super dispatch. cls must be the receiver's own class: the entry point
// starts the method search at that class's superclass (the
// objc_msgSendSuper2 quirk: the record names the class below which to
// look, not the class to look in).

// CallSuper is Call against the superclass implementation.
func CallSuper[R Word](p *Pool, recv ID, cls Class, sel Sel, args ...any) R {
	p.require()
	r1, _ := rt().CallSuper(recv, cls, sel, words(args))
	runtime.KeepAlive(args)
	var out R
	writeResult(unsafe.Pointer(&out), unsafe.Sizeof(out), r1, 0)
	return out
}

// CallSuperBool is CallBool against the superclass implementation.
func CallSuperBool(p *Pool, recv ID, cls Class, sel Sel, args ...any) bool {
	p.require()
	r1, _ := rt().CallSuper(recv, cls, sel, words(args))
	runtime.KeepAlive(args)
	return r1&0xff != 0
}

// CallSuperFloat is CallFloat against the superclass implementation.
func CallSuperFloat(p *Pool, recv ID, cls Class, sel Sel, args ...any) float64 {
	p.require()
	f := rt().CallSuperFloat(recv, cls, sel, words(args))
	runtime.KeepAlive(args)
	return f
}

// CallSuperValue is CallValue against the superclass implementation,
// with the same size-based convention selection.
func CallSuperValue(p *Pool, recv ID, cls Class, sel Sel, out unsafe.Pointer, size uintptr, args ...any) {
	p.require()
	w := words(args)
	if needsStructReturn(size) {
		rt().CallSuperStruct(out, size, recv, cls, sel, w)
	} else {
		r1, r2 := rt().CallSuper(recv, cls, sel, w)
		writeResult(out, size, r1, r2)
	}
	runtime.KeepAlive(args)
}

// CallSuperObject is CallObject against the superclass implementation.
func CallSuperObject[T Instance](p *Pool, recv ID, cls Class, sel Sel, args ...any) Raw[T] {
	p.require()
	r1, _ := rt().CallSuper(recv, cls, sel, words(args))
	runtime.KeepAlive(args)
	return Raw[T]{h: ID(r1)}
}

// CallSuperObjectRetained is CallObjectRetained against the superclass
// implementation.
func CallSuperObjectRetained[T Instance](p *Pool, recv ID, cls Class, sel Sel, args ...any) (Strong[T], bool) {
	p.require()
	r := rt()
	r1, _ := r.CallSuper(recv, cls, sel, words(args))
	runtime.KeepAlive(args)
	h := r.RetainAutoreleasedReturnValue(ID(r1))
	if h == 0 {
		return Strong[T]{}, false
	}
	return Strong[T]{h: h}, true
}

// CallSuperError is CallError against the superclass implementation.
func CallSuperError[T Instance](p *Pool, recv ID, cls Class, sel Sel, args ...any) (Guaranteed[T], error) {
	p.require()
	errOut := errSlot()
	w := append(words(args), uintptr(unsafe.Pointer(errOut)))
	r1, _ := rt().CallSuper(recv, cls, sel, w)
	runtime.KeepAlive(args)
	if r1 != 0 {
		return Guaranteed[T]{h: ID(r1)}, nil
	}
	return Guaranteed[T]{}, errFromSlot(p, sel, *errOut)
}

// CallSuperBoolError is CallBoolError against the superclass
// implementation.
func CallSuperBoolError(p *Pool, recv ID, cls Class, sel Sel, args ...any) error {
	p.require()
	errOut := errSlot()
	w := append(words(args), uintptr(unsafe.Pointer(errOut)))
	r1, _ := rt().CallSuper(recv, cls, sel, w)
	runtime.KeepAlive(args)
	if r1&0xff != 0 {
		return nil
	}
	return errFromSlot(p, sel, *errOut)
}

// writeResult copies up to size bytes of the register results into out.
// Results smaller than a register occupy the low bytes (little-endian
// on every supported target).
func writeResult(out unsafe.Pointer, size uintptr, r1, r2 uintptr) {
	buf := [2]uintptr{r1, r2}
	if size > unsafe.Sizeof(buf) {
		size = unsafe.Sizeof(buf)
	}
	copy(unsafe.Slice((*byte)(out), size), unsafe.Slice((*byte)(unsafe.Pointer(&buf)), size))
}
