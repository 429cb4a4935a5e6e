package objc

import (
	"sync"
	"sync/atomic"

	"github.com/glyphbox/objc/errors"
)

// ClassRef is a class reference: a named class resolved against the
// foreign runtime at most once per process, the class analog of SelRef.
// Declare references as package-level variables:
//
//	var classNSData = objc.RegisterClass("myframework", "NSData")
//
// Unlike a selector, a class lookup can fail, and a failed lookup must
// stay retryable. The cached handle lives in an atomic so concurrent
// readers never synchronize on the hit path; zero means "not resolved
// yet", and the miss path serializes on a mutex.
type ClassRef struct {
	name string
	mu   sync.Mutex
	cls  atomic.Uintptr
}

// Name returns the class name.
func (r *ClassRef) Name() string { return r.name }

// Class resolves the reference. A missing class is a load-time defect
// (the framework that owns it was not linked or loaded), so Class
// panics on failure; use Lookup for a recoverable form.
func (r *ClassRef) Class() Class {
	cls, err := r.Lookup()
	if err != nil {
		panic(err)
	}
	return cls
}

// Lookup resolves the reference, reporting a missing class as an error.
// The failed lookup is not cached; a later call retries, so a class
// that appears after a bundle load can still resolve.
func (r *ClassRef) Lookup() (Class, error) {
	if cls := r.cls.Load(); cls != 0 {
		return Class(cls), nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if cls := r.cls.Load(); cls != 0 {
		return Class(cls), nil
	}
	cls := rt().LookUpClass(r.name)
	if cls == 0 {
		return 0, errors.Resolve(errors.KindClassNotFound, r.name, "is the owning framework linked?")
	}
	debugf("resolved class %q -> %#x", r.name, cls)
	r.cls.Store(uintptr(cls))
	return cls, nil
}

// RegisterClass declares a class reference. The same (group, name)
// dedup rule as RegisterSelector applies.
func RegisterClass(group, name string) *ClassRef {
	key := refKey{group: group, name: name}
	if v, ok := classTable.Load(key); ok {
		return v.(*ClassRef)
	}
	v, _ := classTable.LoadOrStore(key, &ClassRef{name: name})
	return v.(*ClassRef)
}

// LookUpClass resolves a class by name with a genuine runtime call,
// bypassing the reference table. This is the dynamic fallback for names
// not known until runtime.
func LookUpClass(name string) (Class, bool) {
	cls := rt().LookUpClass(name)
	return cls, cls != 0
}
