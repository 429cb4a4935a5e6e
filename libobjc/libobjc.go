//go:build darwin || linux || freebsd

package libobjc

import (
	"runtime"
	"strings"
	"sync"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/glyphbox/objc"
	"github.com/glyphbox/objc/errors"
)

// objcSuper is the record objc_msgSendSuper2 dispatches through. class
// is the receiver's own class; the entry point starts the method search
// at its superclass.
type objcSuper struct {
	receiver uintptr
	class    uintptr
}

// floatSend matches objc_msgSend invoked for a double result. The
// signature is padded to the full supported arity; surplus integer
// arguments are ignored by any callee with fewer formals.
type floatSend func(recv, sel, a0, a1, a2, a3, a4, a5, a6, a7, a8, a9, a10, a11 uintptr) float64

type backend struct {
	once sync.Once
	err  error

	lib uintptr

	msgSend            uintptr
	selRegisterName    uintptr
	selGetName         uintptr
	lookUpClass        uintptr
	retain             uintptr
	release            uintptr
	autorelease        uintptr
	retainAutoreleased uintptr
	poolPush           uintptr
	poolPop            uintptr

	// Optional entry points. A missing one stores its load error and
	// surfaces it on first use instead of failing the whole backend.
	msgSendStret       uintptr
	msgSendSuper2      uintptr
	msgSendSuper2Stret uintptr
	stretErr           error
	superStretErr      error
	superErr           error

	msgSendFloat      floatSend
	msgSendSuperFloat floatSend

	insp inspector
}

var shared backend

func init() {
	objc.SetRuntime(&shared)
}

// Available reports whether this platform has a backend at all.
func Available() bool { return true }

// Load binds the runtime library eagerly and reports the outcome.
// Dispatch does the same binding lazily and panics on failure; Load is
// for callers that want to probe before committing.
func Load() error {
	shared.once.Do(shared.bind)
	return shared.err
}

func (b *backend) ensure() {
	b.once.Do(b.bind)
	if b.err != nil {
		panic(b.err)
	}
}

func (b *backend) bind() {
	var err error
	for _, path := range libraryCandidates {
		b.lib, err = purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil && b.lib != 0 {
			break
		}
		b.lib = 0
	}
	if b.lib == 0 {
		b.err = errors.LibraryMissing(strings.Join(libraryCandidates, ", "), err)
		return
	}

	must := func(dst *uintptr, name string) {
		if b.err != nil {
			return
		}
		addr, err := purego.Dlsym(b.lib, name)
		if err != nil {
			b.err = errors.Load("binding "+name, err)
			return
		}
		*dst = addr
	}
	must(&b.msgSend, "objc_msgSend")
	must(&b.selRegisterName, "sel_registerName")
	must(&b.selGetName, "sel_getName")
	must(&b.lookUpClass, "objc_lookUpClass")
	must(&b.retain, "objc_retain")
	must(&b.release, "objc_release")
	must(&b.autorelease, "objc_autorelease")
	must(&b.retainAutoreleased, "objc_retainAutoreleasedReturnValue")
	must(&b.poolPush, "objc_autoreleasePoolPush")
	must(&b.poolPop, "objc_autoreleasePoolPop")
	if b.err != nil {
		return
	}

	if runtime.GOARCH == "amd64" {
		b.msgSendStret, err = purego.Dlsym(b.lib, "objc_msgSend_stret")
		if err != nil {
			b.stretErr = errors.Load("binding objc_msgSend_stret", err)
		}
		b.msgSendSuper2Stret, err = purego.Dlsym(b.lib, "objc_msgSendSuper2_stret")
		if err != nil {
			b.superStretErr = errors.Load("binding objc_msgSendSuper2_stret", err)
		}
	} else {
		unsupported := errors.Unsupported(errors.PhaseDispatch,
			"struct returns beyond two registers are not supported on "+runtime.GOARCH)
		b.stretErr = unsupported
		b.superStretErr = unsupported
	}

	b.msgSendSuper2, err = purego.Dlsym(b.lib, "objc_msgSendSuper2")
	if err != nil {
		// GNUstep lacks this entry point.
		b.superErr = errors.Load("binding objc_msgSendSuper2", err)
		if b.superStretErr == nil {
			b.superStretErr = b.superErr
		}
	}

	purego.RegisterFunc(&b.msgSendFloat, b.msgSend)
	if b.msgSendSuper2 != 0 {
		purego.RegisterFunc(&b.msgSendSuperFloat, b.msgSendSuper2)
	}

	b.insp.bind(b.lib)
}

// ---------------------------------------------------------------------------
// objc.Runtime
// ---------------------------------------------------------------------------

func (b *backend) RegisterName(name string) objc.Sel {
	b.ensure()
	c := cstring(name)
	r1, _, _ := purego.SyscallN(b.selRegisterName, uintptr(unsafe.Pointer(c)))
	runtime.KeepAlive(c)
	return objc.Sel(r1)
}

func (b *backend) SelName(sel objc.Sel) string {
	b.ensure()
	r1, _, _ := purego.SyscallN(b.selGetName, uintptr(sel))
	return goString(r1)
}

func (b *backend) LookUpClass(name string) objc.Class {
	b.ensure()
	c := cstring(name)
	r1, _, _ := purego.SyscallN(b.lookUpClass, uintptr(unsafe.Pointer(c)))
	runtime.KeepAlive(c)
	return objc.Class(r1)
}

func (b *backend) Retain(obj objc.ID) objc.ID {
	b.ensure()
	r1, _, _ := purego.SyscallN(b.retain, uintptr(obj))
	return objc.ID(r1)
}

func (b *backend) Release(obj objc.ID) {
	b.ensure()
	purego.SyscallN(b.release, uintptr(obj))
}

func (b *backend) Autorelease(obj objc.ID) {
	b.ensure()
	purego.SyscallN(b.autorelease, uintptr(obj))
}

func (b *backend) RetainAutoreleasedReturnValue(obj objc.ID) objc.ID {
	b.ensure()
	r1, _, _ := purego.SyscallN(b.retainAutoreleased, uintptr(obj))
	return objc.ID(r1)
}

func (b *backend) PoolPush() uintptr {
	b.ensure()
	r1, _, _ := purego.SyscallN(b.poolPush)
	return r1
}

func (b *backend) PoolPop(token uintptr) {
	b.ensure()
	purego.SyscallN(b.poolPop, token)
}

func (b *backend) Call(recv objc.ID, sel objc.Sel, args []uintptr) (r1, r2 uintptr) {
	b.ensure()
	r1, r2, _ = purego.SyscallN(b.msgSend, splice(args, uintptr(recv), uintptr(sel))...)
	return r1, r2
}

func (b *backend) CallStruct(out unsafe.Pointer, size uintptr, recv objc.ID, sel objc.Sel, args []uintptr) {
	b.ensure()
	if b.stretErr != nil {
		panic(b.stretErr)
	}
	// The stret entry point takes the indirect-result pointer first.
	purego.SyscallN(b.msgSendStret, splice(args, uintptr(out), uintptr(recv), uintptr(sel))...)
}

func (b *backend) CallFloat(recv objc.ID, sel objc.Sel, args []uintptr) float64 {
	b.ensure()
	a := pad(args)
	return b.msgSendFloat(uintptr(recv), uintptr(sel),
		a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7], a[8], a[9], a[10], a[11])
}

func (b *backend) CallSuper(recv objc.ID, cls objc.Class, sel objc.Sel, args []uintptr) (r1, r2 uintptr) {
	b.ensure()
	if b.superErr != nil {
		panic(b.superErr)
	}
	sup := objcSuper{receiver: uintptr(recv), class: uintptr(cls)}
	r1, r2, _ = purego.SyscallN(b.msgSendSuper2, splice(args, uintptr(unsafe.Pointer(&sup)), uintptr(sel))...)
	runtime.KeepAlive(&sup)
	return r1, r2
}

func (b *backend) CallSuperStruct(out unsafe.Pointer, size uintptr, recv objc.ID, cls objc.Class, sel objc.Sel, args []uintptr) {
	b.ensure()
	if b.superStretErr != nil {
		panic(b.superStretErr)
	}
	sup := objcSuper{receiver: uintptr(recv), class: uintptr(cls)}
	purego.SyscallN(b.msgSendSuper2Stret, splice(args, uintptr(out), uintptr(unsafe.Pointer(&sup)), uintptr(sel))...)
	runtime.KeepAlive(&sup)
}

func (b *backend) CallSuperFloat(recv objc.ID, cls objc.Class, sel objc.Sel, args []uintptr) float64 {
	b.ensure()
	if b.superErr != nil {
		panic(b.superErr)
	}
	sup := objcSuper{receiver: uintptr(recv), class: uintptr(cls)}
	a := pad(args)
	f := b.msgSendSuperFloat(uintptr(unsafe.Pointer(&sup)), uintptr(sel),
		a[0], a[1], a[2], a[3], a[4], a[5], a[6], a[7], a[8], a[9], a[10], a[11])
	runtime.KeepAlive(&sup)
	return f
}

// ---------------------------------------------------------------------------
// Small FFI plumbing
// ---------------------------------------------------------------------------

func splice(args []uintptr, head ...uintptr) []uintptr {
	out := make([]uintptr, 0, len(head)+len(args))
	out = append(out, head...)
	return append(out, args...)
}

func pad(args []uintptr) (a [objc.MaxArgs]uintptr) {
	copy(a[:], args)
	return a
}

func cstring(s string) *byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &b[0]
}

func goString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Pointer(ptr + uintptr(n))) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
}
