//go:build darwin || linux || freebsd

package libobjc

import (
	"runtime"
	"sort"
	"unsafe"

	"github.com/ebitengine/purego"

	"github.com/glyphbox/objc/errors"
)

// inspector carries the introspection symbols. They are optional: a
// runtime that lacks them still dispatches fine, and the browsing API
// reports the binding error instead.
type inspector struct {
	getClassList   uintptr
	getName        uintptr
	getSuperclass  uintptr
	copyMethodList uintptr
	methodGetName  uintptr
	objectGetClass uintptr
	selGetName     uintptr
	free           uintptr
	err            error
}

func (ins *inspector) bind(lib uintptr) {
	sym := func(dst *uintptr, name string) {
		if ins.err != nil {
			return
		}
		addr, err := purego.Dlsym(lib, name)
		if err != nil {
			ins.err = errors.Load("binding "+name, err)
			return
		}
		*dst = addr
	}
	sym(&ins.getClassList, "objc_getClassList")
	sym(&ins.getName, "class_getName")
	sym(&ins.getSuperclass, "class_getSuperclass")
	sym(&ins.copyMethodList, "class_copyMethodList")
	sym(&ins.methodGetName, "method_getName")
	sym(&ins.objectGetClass, "object_getClass")
	sym(&ins.selGetName, "sel_getName")
	// free lives in the C library, not libobjc.
	if ins.err == nil {
		ins.free, _ = purego.Dlsym(purego.RTLD_DEFAULT, "free")
	}
}

func (b *backend) inspectReady() (*inspector, error) {
	b.once.Do(b.bind)
	if b.err != nil {
		return nil, b.err
	}
	if b.insp.err != nil {
		return nil, b.insp.err
	}
	return &b.insp, nil
}

// ClassNames returns every class registered with the runtime, sorted.
func ClassNames() ([]string, error) {
	ins, err := shared.inspectReady()
	if err != nil {
		return nil, err
	}
	count, _, _ := purego.SyscallN(ins.getClassList, 0, 0)
	if count == 0 {
		return nil, nil
	}
	buf := make([]uintptr, count)
	n, _, _ := purego.SyscallN(ins.getClassList, uintptr(unsafe.Pointer(&buf[0])), count)
	runtime.KeepAlive(buf)
	if n < count {
		buf = buf[:n]
	}
	names := make([]string, 0, len(buf))
	for _, cls := range buf {
		if name := ins.className(cls); name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// SuperclassChain returns the class and its ancestors, root last.
func SuperclassChain(className string) ([]string, error) {
	ins, err := shared.inspectReady()
	if err != nil {
		return nil, err
	}
	cls := uintptr(shared.LookUpClass(className))
	if cls == 0 {
		return nil, errors.Resolve(errors.KindClassNotFound, className, "")
	}
	var chain []string
	for c := cls; c != 0; {
		chain = append(chain, ins.className(c))
		c, _, _ = purego.SyscallN(ins.getSuperclass, c)
	}
	return chain, nil
}

// MethodNames returns the selectors a class implements itself (not
// inherited), "-" prefixed for instance methods and "+" for class
// methods, sorted.
func MethodNames(className string) ([]string, error) {
	ins, err := shared.inspectReady()
	if err != nil {
		return nil, err
	}
	cls := uintptr(shared.LookUpClass(className))
	if cls == 0 {
		return nil, errors.Resolve(errors.KindClassNotFound, className, "")
	}
	names := ins.methodList(cls, "-")
	meta, _, _ := purego.SyscallN(ins.objectGetClass, cls)
	if meta != 0 {
		names = append(names, ins.methodList(meta, "+")...)
	}
	sort.Strings(names)
	return names, nil
}

func (ins *inspector) className(cls uintptr) string {
	r1, _, _ := purego.SyscallN(ins.getName, cls)
	return goString(r1)
}

func (ins *inspector) methodList(cls uintptr, prefix string) []string {
	var count uint32
	list, _, _ := purego.SyscallN(ins.copyMethodList, cls, uintptr(unsafe.Pointer(&count)))
	runtime.KeepAlive(&count)
	if list == 0 || count == 0 {
		return nil
	}
	methods := unsafe.Slice((*uintptr)(unsafe.Pointer(list)), count)
	names := make([]string, 0, count)
	for _, m := range methods {
		sel, _, _ := purego.SyscallN(ins.methodGetName, m)
		text, _, _ := purego.SyscallN(ins.selGetName, sel)
		names = append(names, prefix+goString(text))
	}
	// The list is malloc'd by the runtime and ours to free.
	if ins.free != 0 {
		purego.SyscallN(ins.free, list)
	}
	return names
}
