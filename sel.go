package objc

import (
	"sync"
)

// SelRef is a selector reference: a named selector resolved against the
// foreign runtime at most once per process. Resolution is idempotent:
// every call to Sel returns the same handle.
//
// An Objective-C compiler emits each distinct selector literal as a
// static table slot that dyld fixes up before main runs. Go has no
// load-time fixup hook, so the reference table falls back uniformly to
// the runtime's dynamic lookup, amortized by this once-per-process
// cache. Declare references as package-level variables so the table is
// populated before any dispatch happens:
//
//	var selDescription = objc.RegisterSelector("myframework", "description")
type SelRef struct {
	name string
	once sync.Once
	sel  Sel
}

// Name returns the selector text.
func (r *SelRef) Name() string { return r.name }

// Sel resolves the reference, interning the selector on first use.
func (r *SelRef) Sel() Sel {
	r.once.Do(func() {
		r.sel = rt().RegisterName(r.name)
		debugf("resolved selector %q -> %#x", r.name, r.sel)
	})
	return r.sel
}

type refKey struct {
	group string
	name  string
}

var (
	selTable   sync.Map // refKey -> *SelRef
	classTable sync.Map // refKey -> *ClassRef
)

// RegisterSelector declares a selector reference. References with the
// same (group, name) pair share one physical table entry no matter how
// many packages declare them, so independent call sites pay for a
// single resolution. Distinct groups keep distinct entries; use your
// library name as the group. Nothing beyond the name is stored per
// entry, so two declarations of the same pair cannot diverge.
func RegisterSelector(group, name string) *SelRef {
	key := refKey{group: group, name: name}
	if v, ok := selTable.Load(key); ok {
		return v.(*SelRef)
	}
	v, _ := selTable.LoadOrStore(key, &SelRef{name: name})
	return v.(*SelRef)
}

// RegisterName interns a selector by name with a genuine runtime call.
// This is the dynamic fallback for names not known until runtime; for
// fixed names prefer RegisterSelector, which caches the handle.
func RegisterName(name string) Sel {
	return rt().RegisterName(name)
}

// Selectors used by the core itself.
var (
	selAlloc = RegisterSelector("objc", "alloc")
	selInit  = RegisterSelector("objc", "init")
)
