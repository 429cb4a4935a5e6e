package testbed

import (
	"fmt"
	"hash/fnv"
	"unsafe"

	"github.com/glyphbox/objc"
)

// Rect is the oversized value type used to exercise the struct-return
// convention (32 bytes, four doubles, shaped like NSRect).
type Rect struct {
	X, Y, W, H float64
}

// Pair is a two-word value type sitting exactly at the register-return
// threshold (16 bytes).
type Pair struct {
	A, B uintptr
}

// registerStandardClasses installs the classes every testbed carries:
// Foundation stand-ins (NSObject, NSString, NSError) and classes
// exercising the awkward conventions.
func registerStandardClasses(tb *Testbed) {
	nsObject := tb.NewClass("NSObject", nil)

	nsObject.AddClassMethod("alloc", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		cls := tb.ReceiverClass(self)
		return uintptr(tb.CreateObject(cls)), 0
	})
	nsObject.AddMethod("init", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		return uintptr(self), 0
	})
	nsObject.AddMethod("description", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		cls := tb.ReceiverClass(self)
		s := tb.NewString(fmt.Sprintf("<%s: %#x>", cls.Name(), uintptr(self)))
		tb.Autorelease(s)
		return uintptr(s), 0
	})
	nsObject.AddMethod("respondsToSelector:", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		if tb.RespondsTo(tb.ReceiverClass(self), objc.Sel(args[0])) {
			return 1, 0
		}
		return 0, 0
	})
	nsObject.AddMethod("copy", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		cls := tb.ReceiverClass(self)
		dup := tb.CreateObject(cls)
		tb.setString(dup, tb.stringOrEmpty(self))
		return uintptr(dup), 0
	})
	nsObject.AddMethod("hash", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		h := fnv.New64a()
		fmt.Fprintf(h, "%x", uintptr(self))
		return uintptr(h.Sum64()), 0
	})
	nsObject.AddMethod("isEqual:", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		if uintptr(self) == args[0] {
			return 1, 0
		}
		return 0, 0
	})

	nsString := tb.NewClass("NSString", nsObject)
	nsString.AddMethod("initWithBytes:length:encoding:", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		tb.setString(self, string(goBytes(args[0], int(args[1]))))
		return uintptr(self), 0
	})
	nsString.AddMethod("UTF8String", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		return tb.cStringPtr(self), 0
	})
	nsString.AddMethod("isEqualToString:", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		if args[0] != 0 && tb.StringValue(self) == tb.StringValue(objc.ID(args[0])) {
			return 1, 0
		}
		return 0, 0
	})
	nsString.AddMethod("length", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		return uintptr(len(tb.StringValue(self))), 0
	})
	nsString.AddMethod("description", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		// NSString describes as itself, borrowed.
		return uintptr(self), 0
	})
	nsString.AddMethod("hash", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		h := fnv.New64a()
		h.Write([]byte(tb.StringValue(self)))
		return uintptr(h.Sum64()), 0
	})
	nsString.AddClassMethod("stringWithUTF8String:", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		s := tb.NewString(goCString(args[0]))
		tb.Autorelease(s)
		return uintptr(s), 0
	})

	nsError := tb.NewClass("NSError", nsObject)
	nsError.AddMethod("code", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		code, _ := tb.Prop(self, "code").(int)
		return uintptr(code), 0
	})
	nsError.AddMethod("domain", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		domain, _ := tb.Prop(self, "domain").(string)
		s := tb.NewString(domain)
		tb.Autorelease(s)
		return uintptr(s), 0
	})
	nsError.AddMethod("localizedDescription", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		desc, _ := tb.Prop(self, "desc").(string)
		s := tb.NewString(desc)
		tb.Autorelease(s)
		return uintptr(s), 0
	})

	// TBMigratingInit exercises initializer substitution: init frees the
	// allocated object and answers a different handle.
	migrating := tb.NewClass("TBMigratingInit", nsObject)
	migrating.AddMethod("init", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		cls := tb.ReceiverClass(self)
		tb.Release(self)
		return uintptr(tb.CreateObject(cls)), 0
	})

	// TBVault exercises the trailing NSError** convention.
	vault := tb.NewClass("TBVault", nsObject)
	vault.AddMethod("openItemNamed:error:", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		name := objc.ID(args[0])
		if name == 0 || tb.StringValue(name) == "missing" {
			writeErrorSlot(args[1], tb.autoreleasedError("TBVaultErrorDomain", 404, "no such item"))
			return 0, 0
		}
		item := tb.CreateObject(tb.ReceiverClass(self))
		tb.Autorelease(item)
		return uintptr(item), 0
	})
	vault.AddMethod("storeValue:error:", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		if args[0] == 0 {
			writeErrorSlot(args[1], tb.autoreleasedError("TBVaultErrorDomain", 500, "nothing to store"))
			return 0, 0
		}
		return 1, 0
	})

	// TBGeometry exercises return-size convention selection.
	geometry := tb.NewClass("TBGeometry", nsObject)
	geometry.AddStructMethod("bounds", func(tb *Testbed, self objc.ID, args []uintptr, out unsafe.Pointer, size uintptr) {
		r, _ := tb.Prop(self, "bounds").(Rect)
		*(*Rect)(out) = r
	})
	geometry.AddMethod("extent", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		p, _ := tb.Prop(self, "extent").(Pair)
		return p.A, p.B
	})
	geometry.AddFloatMethod("area", func(tb *Testbed, self objc.ID, args []uintptr) float64 {
		r, _ := tb.Prop(self, "bounds").(Rect)
		return r.W * r.H
	})

	// TBChild overrides description so super dispatch is observable.
	child := tb.NewClass("TBChild", nsObject)
	child.AddMethod("description", func(tb *Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		s := tb.NewString("child-description")
		tb.Autorelease(s)
		return uintptr(s), 0
	})
}

// ---------------------------------------------------------------------------
// Helpers used by fake method bodies
// ---------------------------------------------------------------------------

// ReceiverClass returns the class to which a receiver belongs: the
// object's class for instances, the class itself for class objects.
func (tb *Testbed) ReceiverClass(recv objc.ID) *Class {
	e := tb.lookupEntry(recv)
	if e.classSelf != nil {
		return e.classSelf
	}
	return e.cls
}

// RespondsTo walks the hierarchy checking every method table.
func (tb *Testbed) RespondsTo(cls *Class, sel objc.Sel) bool {
	for c := cls; c != nil; c = c.super {
		if _, ok := c.methods[sel]; ok {
			return true
		}
		if _, ok := c.structMethods[sel]; ok {
			return true
		}
		if _, ok := c.floatMethods[sel]; ok {
			return true
		}
	}
	return false
}

// NewString creates a +1 NSString stand-in with the given payload.
func (tb *Testbed) NewString(s string) objc.ID {
	h := tb.CreateObject(tb.ClassNamed("NSString"))
	tb.setString(h, s)
	return h
}

// StringValue returns the payload of an NSString stand-in.
func (tb *Testbed) StringValue(obj objc.ID) string {
	return tb.lookupEntry(obj).str
}

// NewError creates a +1 NSError stand-in.
func (tb *Testbed) NewError(domain string, code int, desc string) objc.ID {
	h := tb.CreateObject(tb.ClassNamed("NSError"))
	tb.SetProp(h, "domain", domain)
	tb.SetProp(h, "code", code)
	tb.SetProp(h, "desc", desc)
	return h
}

func (tb *Testbed) autoreleasedError(domain string, code int, desc string) objc.ID {
	h := tb.NewError(domain, code, desc)
	tb.Autorelease(h)
	return h
}

func (tb *Testbed) setString(obj objc.ID, s string) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	e := tb.entryOf(obj)
	e.str = s
	e.cstr = nil
}

func (tb *Testbed) stringOrEmpty(obj objc.ID) string {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.entryOf(obj).str
}

// cStringPtr returns a pointer to a NUL-terminated copy of the string
// payload. The copy is owned by the object, so the pointer stays valid
// as long as the object is live.
func (tb *Testbed) cStringPtr(obj objc.ID) uintptr {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	e := tb.entryOf(obj)
	if e.cstr == nil {
		e.cstr = append([]byte(e.str), 0)
	}
	return uintptr(unsafe.Pointer(&e.cstr[0]))
}

func writeErrorSlot(slot uintptr, err objc.ID) {
	if slot == 0 {
		return
	}
	*(*objc.ID)(unsafe.Pointer(slot)) = err
}

func goBytes(ptr uintptr, n int) []byte {
	if ptr == 0 || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n)
}

func goCString(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Pointer(ptr + uintptr(n))) != 0 {
		n++
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
}
