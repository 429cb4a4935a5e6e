package testbed

import (
	"fmt"
	"sort"
	"sync"
	"unsafe"

	"github.com/glyphbox/objc"
)

// Method implements an instance or class method returning at most two
// machine words. Implementations must use the testbed's public helpers
// (CreateObject, Autorelease, NewString, ...) rather than poking the table.
type Method func(tb *Testbed, self objc.ID, args []uintptr) (r1, r2 uintptr)

// StructMethod implements a method whose result exceeds the register
// budget; it writes size bytes to out.
type StructMethod func(tb *Testbed, self objc.ID, args []uintptr, out unsafe.Pointer, size uintptr)

// FloatMethod implements a method returning a double.
type FloatMethod func(tb *Testbed, self objc.ID, args []uintptr) float64

// Class is a testbed class: a name, an optional superclass, and method
// tables keyed by selector.
type Class struct {
	tb            *Testbed
	name          string
	super         *Class
	handle        objc.Class
	methods       map[objc.Sel]Method
	structMethods map[objc.Sel]StructMethod
	floatMethods  map[objc.Sel]FloatMethod
	classMethods  map[objc.Sel]Method
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

// Handle returns the class handle (classes are objects too).
func (c *Class) Handle() objc.Class { return c.handle }

// AddMethod registers an instance method under the named selector.
func (c *Class) AddMethod(sel string, m Method) {
	c.methods[c.tb.RegisterName(sel)] = m
}

// AddClassMethod registers a class-side method under the named selector.
func (c *Class) AddClassMethod(sel string, m Method) {
	c.classMethods[c.tb.RegisterName(sel)] = m
}

// AddStructMethod registers an instance method using the struct-return
// convention.
func (c *Class) AddStructMethod(sel string, m StructMethod) {
	c.structMethods[c.tb.RegisterName(sel)] = m
}

// AddFloatMethod registers an instance method returning a double.
func (c *Class) AddFloatMethod(sel string, m FloatMethod) {
	c.floatMethods[c.tb.RegisterName(sel)] = m
}

// entry is one slot in the object table. Slots are reused through a
// free list; a freed slot left in place poisons stale handles.
type entry struct {
	cls       *Class // the object's class
	classSelf *Class // non-nil when this entry is the class object itself
	retain    int32
	freed     bool
	str       string // string payload for NSString stand-ins
	cstr      []byte // NUL-terminated cache handed out by UTF8String
	props     map[string]any
}

// Testbed implements objc.Runtime in process.
type Testbed struct {
	mu           sync.Mutex
	entries      []*entry
	freeList     []int
	selNames     []string
	selByName    map[string]objc.Sel
	classes      map[string]*Class
	pools        [][]objc.ID
	fastPathHits int
}

// New creates an empty testbed and populates the standard classes.
func New() *Testbed {
	tb := &Testbed{
		selByName: make(map[string]objc.Sel),
		classes:   make(map[string]*Class),
	}
	registerStandardClasses(tb)
	return tb
}

var (
	shared     *Testbed
	sharedOnce sync.Once
)

// Shared returns the process-wide testbed, creating it and installing
// it as the objc runtime on first call. Tests that dispatch through the
// objc package use this so resolved handles stay valid for the whole
// test binary.
func Shared() *Testbed {
	sharedOnce.Do(func() {
		shared = New()
		objc.SetRuntime(shared)
	})
	return shared
}

// ---------------------------------------------------------------------------
// Selector interning
// ---------------------------------------------------------------------------

// RegisterName interns a selector name. Idempotent: equal names yield
// equal handles.
func (tb *Testbed) RegisterName(name string) objc.Sel {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if sel, ok := tb.selByName[name]; ok {
		return sel
	}
	tb.selNames = append(tb.selNames, name)
	sel := objc.Sel(len(tb.selNames))
	tb.selByName[name] = sel
	return sel
}

// SelName returns the text of a selector handle.
func (tb *Testbed) SelName(sel objc.Sel) string {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	idx := int(sel) - 1
	if idx < 0 || idx >= len(tb.selNames) {
		return fmt.Sprintf("<invalid sel %#x>", uintptr(sel))
	}
	return tb.selNames[idx]
}

// ---------------------------------------------------------------------------
// Classes
// ---------------------------------------------------------------------------

// NewClass registers a class with the given superclass (nil for a root
// class). The class object gets its own entry in the object table, so
// class handles participate in dispatch like any receiver.
func (tb *Testbed) NewClass(name string, super *Class) *Class {
	c := &Class{
		tb:            tb,
		name:          name,
		super:         super,
		methods:       make(map[objc.Sel]Method),
		structMethods: make(map[objc.Sel]StructMethod),
		floatMethods:  make(map[objc.Sel]FloatMethod),
		classMethods:  make(map[objc.Sel]Method),
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if _, exists := tb.classes[name]; exists {
		panic("testbed: duplicate class " + name)
	}
	h := tb.createLocked(nil)
	tb.entries[int(h)-1].classSelf = c
	c.handle = objc.Class(h)
	tb.classes[name] = c
	return c
}

// LookUpClass resolves a class by name. Returns 0 if unknown.
func (tb *Testbed) LookUpClass(name string) objc.Class {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	c, ok := tb.classes[name]
	if !ok {
		return 0
	}
	return c.handle
}

// ClassNamed returns the testbed class object for a name, or nil.
func (tb *Testbed) ClassNamed(name string) *Class {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.classes[name]
}

// ---------------------------------------------------------------------------
// Object table
// ---------------------------------------------------------------------------

func (tb *Testbed) createLocked(cls *Class) objc.ID {
	e := &entry{cls: cls, retain: 1}
	if n := len(tb.freeList); n > 0 {
		idx := tb.freeList[n-1]
		tb.freeList = tb.freeList[:n-1]
		tb.entries[idx] = e
		return objc.ID(idx + 1)
	}
	tb.entries = append(tb.entries, e)
	return objc.ID(len(tb.entries))
}

// CreateObject allocates a fresh object of cls with retain count 1.
func (tb *Testbed) CreateObject(cls *Class) objc.ID {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.createLocked(cls)
}

func (tb *Testbed) entryOf(h objc.ID) *entry {
	idx := int(h) - 1
	if idx < 0 || idx >= len(tb.entries) {
		panic(fmt.Sprintf("testbed: invalid handle %#x", uintptr(h)))
	}
	e := tb.entries[idx]
	if e == nil || e.freed {
		panic(fmt.Sprintf("testbed: use of freed object %#x", uintptr(h)))
	}
	return e
}

func (tb *Testbed) lookupEntry(h objc.ID) *entry {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.entryOf(h)
}

// ---------------------------------------------------------------------------
// Reference counting
// ---------------------------------------------------------------------------

// Retain increments the retain count. Panics on a freed handle.
func (tb *Testbed) Retain(obj objc.ID) objc.ID {
	if obj == 0 {
		return 0
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.entryOf(obj).retain++
	return obj
}

// Release decrements the retain count, freeing (and poisoning) the slot
// at zero.
func (tb *Testbed) Release(obj objc.ID) {
	if obj == 0 {
		return
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	e := tb.entryOf(obj)
	e.retain--
	if e.retain < 0 {
		panic(fmt.Sprintf("testbed: over-release of %#x", uintptr(obj)))
	}
	if e.retain == 0 {
		e.freed = true
	}
}

// Autorelease defers a release to the innermost pool. Panics when no
// pool is active (the real runtime would leak and complain; a panic is
// the useful behavior in tests).
func (tb *Testbed) Autorelease(obj objc.ID) {
	if obj == 0 {
		return
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.autoreleaseLocked(obj)
}

func (tb *Testbed) autoreleaseLocked(obj objc.ID) {
	tb.entryOf(obj)
	if len(tb.pools) == 0 {
		panic(fmt.Sprintf("testbed: autorelease of %#x with no pool in place", uintptr(obj)))
	}
	top := len(tb.pools) - 1
	tb.pools[top] = append(tb.pools[top], obj)
}

// RetainAutoreleasedReturnValue promotes a +0 return to +1. When the
// handle is the most recent autorelease entry, the entry is cancelled
// instead of retaining, the fast path the real runtime implements by
// inspecting the call-site stack pattern. Safe to call with nil.
func (tb *Testbed) RetainAutoreleasedReturnValue(obj objc.ID) objc.ID {
	if obj == 0 {
		return 0
	}
	tb.mu.Lock()
	defer tb.mu.Unlock()
	if top := len(tb.pools) - 1; top >= 0 {
		pool := tb.pools[top]
		if n := len(pool); n > 0 && pool[n-1] == obj {
			tb.pools[top] = pool[:n-1]
			tb.fastPathHits++
			return obj
		}
	}
	tb.entryOf(obj).retain++
	return obj
}

// ---------------------------------------------------------------------------
// Autorelease pools
// ---------------------------------------------------------------------------

// PoolPush opens a pool; the token encodes the depth so out-of-order
// pops are detectable.
func (tb *Testbed) PoolPush() uintptr {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.pools = append(tb.pools, nil)
	return uintptr(len(tb.pools))
}

// PoolPop closes the innermost pool, releasing its contents in reverse
// order. Popping any pool but the innermost panics: stack discipline is
// a hard contract.
func (tb *Testbed) PoolPop(token uintptr) {
	tb.mu.Lock()
	if uintptr(len(tb.pools)) != token {
		tb.mu.Unlock()
		panic(fmt.Sprintf("testbed: pool popped out of order (token %d, depth %d)", token, len(tb.pools)))
	}
	top := len(tb.pools) - 1
	drain := tb.pools[top]
	tb.pools = tb.pools[:top]
	tb.mu.Unlock()

	for i := len(drain) - 1; i >= 0; i-- {
		tb.Release(drain[i])
	}
}

// ---------------------------------------------------------------------------
// Dispatch
// ---------------------------------------------------------------------------

// resolve finds the method for sel, starting the search at start (the
// receiver's class for ordinary sends, the superclass for super sends).
// Class-object receivers search the class-side tables.
func (tb *Testbed) resolve(start *Class, classSide bool, sel objc.Sel) Method {
	for c := start; c != nil; c = c.super {
		if classSide {
			if m, ok := c.classMethods[sel]; ok {
				return m
			}
			continue
		}
		if m, ok := c.methods[sel]; ok {
			return m
		}
	}
	panic(fmt.Sprintf("testbed: %s does not recognize selector %q", start.name, tb.SelName(sel)))
}

func (tb *Testbed) receiverClass(recv objc.ID) (start *Class, classSide bool) {
	e := tb.lookupEntry(recv)
	if e.classSelf != nil {
		return e.classSelf, true
	}
	return e.cls, false
}

// Call dispatches sel to recv through the ordinary entry point.
func (tb *Testbed) Call(recv objc.ID, sel objc.Sel, args []uintptr) (r1, r2 uintptr) {
	start, classSide := tb.receiverClass(recv)
	m := tb.resolve(start, classSide, sel)
	return m(tb, recv, args)
}

// CallStruct dispatches sel to recv through the struct-return entry point.
func (tb *Testbed) CallStruct(out unsafe.Pointer, size uintptr, recv objc.ID, sel objc.Sel, args []uintptr) {
	start, _ := tb.receiverClass(recv)
	for c := start; c != nil; c = c.super {
		if m, ok := c.structMethods[sel]; ok {
			m(tb, recv, args, out, size)
			return
		}
	}
	panic(fmt.Sprintf("testbed: %s has no struct-return method %q", start.name, tb.SelName(sel)))
}

// CallFloat dispatches sel to recv for a double result.
func (tb *Testbed) CallFloat(recv objc.ID, sel objc.Sel, args []uintptr) float64 {
	start, _ := tb.receiverClass(recv)
	for c := start; c != nil; c = c.super {
		if m, ok := c.floatMethods[sel]; ok {
			return m(tb, recv, args)
		}
	}
	panic(fmt.Sprintf("testbed: %s has no float method %q", start.name, tb.SelName(sel)))
}

// CallSuper dispatches sel starting at cls's superclass, per the
// super-dispatch record convention (cls names the receiver's own
// class, not the class to search).
func (tb *Testbed) CallSuper(recv objc.ID, cls objc.Class, sel objc.Sel, args []uintptr) (r1, r2 uintptr) {
	m := tb.resolve(tb.superOf(cls), false, sel)
	return m(tb, recv, args)
}

// CallSuperStruct is CallStruct with super dispatch.
func (tb *Testbed) CallSuperStruct(out unsafe.Pointer, size uintptr, recv objc.ID, cls objc.Class, sel objc.Sel, args []uintptr) {
	for c := tb.superOf(cls); c != nil; c = c.super {
		if m, ok := c.structMethods[sel]; ok {
			m(tb, recv, args, out, size)
			return
		}
	}
	panic(fmt.Sprintf("testbed: no super struct-return method %q", tb.SelName(sel)))
}

// CallSuperFloat is CallFloat with super dispatch.
func (tb *Testbed) CallSuperFloat(recv objc.ID, cls objc.Class, sel objc.Sel, args []uintptr) float64 {
	for c := tb.superOf(cls); c != nil; c = c.super {
		if m, ok := c.floatMethods[sel]; ok {
			return m(tb, recv, args)
		}
	}
	panic(fmt.Sprintf("testbed: no super float method %q", tb.SelName(sel)))
}

func (tb *Testbed) superOf(cls objc.Class) *Class {
	e := tb.lookupEntry(objc.ID(cls))
	if e.classSelf == nil {
		panic(fmt.Sprintf("testbed: super dispatch with non-class handle %#x", uintptr(cls)))
	}
	if e.classSelf.super == nil {
		panic(fmt.Sprintf("testbed: super dispatch from root class %s", e.classSelf.name))
	}
	return e.classSelf.super
}

// ---------------------------------------------------------------------------
// Instrumentation
// ---------------------------------------------------------------------------

// RetainCount returns the current retain count of a live object.
func (tb *Testbed) RetainCount(obj objc.ID) int {
	return int(tb.lookupEntry(obj).retain)
}

// Freed reports whether the handle's slot has been freed.
func (tb *Testbed) Freed(obj objc.ID) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	idx := int(obj) - 1
	if idx < 0 || idx >= len(tb.entries) {
		return false
	}
	e := tb.entries[idx]
	return e == nil || e.freed
}

// Live returns the number of live (non-class) objects.
func (tb *Testbed) Live() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	n := 0
	for _, e := range tb.entries {
		if e != nil && !e.freed && e.classSelf == nil {
			n++
		}
	}
	return n
}

// FastPathHits returns how many times RetainAutoreleasedReturnValue
// cancelled a pool entry instead of retaining.
func (tb *Testbed) FastPathHits() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.fastPathHits
}

// PoolDepth returns the number of open pools.
func (tb *Testbed) PoolDepth() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return len(tb.pools)
}

// ClassNames returns the registered class names, sorted.
func (tb *Testbed) ClassNames() []string {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	names := make([]string, 0, len(tb.classes))
	for name := range tb.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SuperclassChain returns the class and its ancestors, root last, or
// nil for an unknown class.
func (tb *Testbed) SuperclassChain(className string) []string {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	c, ok := tb.classes[className]
	if !ok {
		return nil
	}
	var chain []string
	for ; c != nil; c = c.super {
		chain = append(chain, c.name)
	}
	return chain
}

// MethodNames returns the selectors a class responds to, including
// inherited ones, "-" prefixed for instance methods and "+" for class
// methods, sorted.
func (tb *Testbed) MethodNames(className string) []string {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	c, ok := tb.classes[className]
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var names []string
	for ; c != nil; c = c.super {
		for sel := range c.methods {
			addMethodName(&names, seen, "-"+tb.selNames[int(sel)-1])
		}
		for sel := range c.structMethods {
			addMethodName(&names, seen, "-"+tb.selNames[int(sel)-1])
		}
		for sel := range c.floatMethods {
			addMethodName(&names, seen, "-"+tb.selNames[int(sel)-1])
		}
		for sel := range c.classMethods {
			addMethodName(&names, seen, "+"+tb.selNames[int(sel)-1])
		}
	}
	sort.Strings(names)
	return names
}

func addMethodName(names *[]string, seen map[string]bool, name string) {
	if !seen[name] {
		seen[name] = true
		*names = append(*names, name)
	}
}

// SetProp attaches an arbitrary payload value to an object; fake
// classes use this for per-object state.
func (tb *Testbed) SetProp(obj objc.ID, key string, v any) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	e := tb.entryOf(obj)
	if e.props == nil {
		e.props = make(map[string]any)
	}
	e.props[key] = v
}

// Prop reads a payload value attached with SetProp.
func (tb *Testbed) Prop(obj objc.ID, key string) any {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	e := tb.entryOf(obj)
	return e.props[key]
}
