package objc

import (
	"sync"
	"sync/atomic"
	"unsafe"
)

// ID is an opaque handle to an Objective-C object. It carries no ownership
// information; ownership is tracked by the cell types in this package.
// The zero value is nil.
type ID uintptr

// Nil is the nil object handle.
const Nil ID = 0

// IsNil reports whether the handle is the nil sentinel.
func (id ID) IsNil() bool { return id == 0 }

// Sel is an opaque handle to a registered selector. Selector handles are
// process-wide: registering the same name twice yields equal handles.
// The zero value is invalid.
type Sel uintptr

// Class is an opaque handle to a runtime class. Class handles are stable
// for the process lifetime. The zero value means "no such class".
type Class uintptr

// Runtime is the fixed set of foreign-runtime entry points the binding
// consumes. The core never reimplements any of these; it only selects
// among them. Implementations: libobjc (the real Objective-C runtime via
// dlopen) and testbed (an instrumented in-process runtime for tests).
//
// All methods are synchronous and complete on the calling goroutine.
type Runtime interface {
	// RegisterName interns a selector name, returning its handle.
	RegisterName(name string) Sel
	// SelName returns the text of a registered selector.
	SelName(sel Sel) string
	// LookUpClass resolves a class by name. Returns 0 if unknown.
	LookUpClass(name string) Class

	// Retain increments the receiver's retain count and returns it.
	Retain(obj ID) ID
	// Release decrements the receiver's retain count.
	Release(obj ID)
	// Autorelease adds the receiver to the innermost autorelease pool.
	Autorelease(obj ID)
	// RetainAutoreleasedReturnValue promotes a +0 callee return to +1
	// using the runtime's fast-path trampoline. Safe to call with nil.
	RetainAutoreleasedReturnValue(obj ID) ID

	// PoolPush opens a new autorelease pool and returns its token.
	PoolPush() uintptr
	// PoolPop closes the pool identified by token, releasing everything
	// autoreleased into it since the matching PoolPush.
	PoolPop(token uintptr)

	// Call sends sel to recv through the ordinary entry point. The result
	// occupies at most the two integer result registers.
	Call(recv ID, sel Sel, args []uintptr) (r1, r2 uintptr)
	// CallStruct sends sel to recv through the struct-return entry point,
	// writing size bytes of result to out.
	CallStruct(out unsafe.Pointer, size uintptr, recv ID, sel Sel, args []uintptr)
	// CallFloat sends sel to recv for a double-precision result.
	CallFloat(recv ID, sel Sel, args []uintptr) float64

	// CallSuper and friends dispatch to the superclass implementation.
	// cls is the receiver's own class; the search starts at its
	// superclass (objc_msgSendSuper2 convention).
	CallSuper(recv ID, cls Class, sel Sel, args []uintptr) (r1, r2 uintptr)
	CallSuperStruct(out unsafe.Pointer, size uintptr, recv ID, cls Class, sel Sel, args []uintptr)
	CallSuperFloat(recv ID, cls Class, sel Sel, args []uintptr) float64
}

var (
	runtimeMu  sync.Mutex
	runtimeVal atomic.Value // of runtimeBox
	runtimeHot atomic.Bool  // set once the runtime has been used
)

type runtimeBox struct{ rt Runtime }

// SetRuntime installs the process-wide foreign runtime. It follows the
// driver-registration pattern: the libobjc package installs itself from
// its init function, so a blank import is enough to bind the real
// runtime. Installing a runtime after the previous one has already been
// used panics, because resolved selector and class handles would go
// stale.
func SetRuntime(rt Runtime) {
	runtimeMu.Lock()
	defer runtimeMu.Unlock()
	if runtimeHot.Load() {
		panic("objc: SetRuntime called after the runtime was already in use")
	}
	runtimeVal.Store(runtimeBox{rt})
}

// RuntimeInstalled reports whether a foreign runtime has been installed.
func RuntimeInstalled() bool {
	_, ok := runtimeVal.Load().(runtimeBox)
	return ok
}

func rt() Runtime {
	box, ok := runtimeVal.Load().(runtimeBox)
	if !ok {
		panic("objc: no foreign runtime installed (import github.com/glyphbox/objc/libobjc or install a testbed)")
	}
	if !runtimeHot.Load() {
		runtimeHot.Store(true)
	}
	return box.rt
}
