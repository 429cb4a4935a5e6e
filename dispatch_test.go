package objc_test

import (
	"strings"
	"testing"
	"unsafe"

	"github.com/glyphbox/objc"
	"github.com/glyphbox/objc/testbed"
)

func TestCall_Word(t *testing.T) {
	tb := testbed.Shared()

	s := tb.NewString("hello")
	defer tb.Release(s)

	objc.WithPool(func(p *objc.Pool) {
		if n := objc.Call[uint](p, s, objc.RegisterName("length")); n != 5 {
			t.Fatalf("length = %d, want 5", n)
		}
	})
}

func TestCallBool(t *testing.T) {
	tb := testbed.Shared()

	obj := tb.CreateObject(tb.ClassNamed("NSObject"))
	defer tb.Release(obj)

	objc.WithPool(func(p *objc.Pool) {
		sel := objc.RegisterName("respondsToSelector:")
		if !objc.CallBool(p, obj, sel, objc.RegisterName("hash")) {
			t.Fatal("NSObject does not respond to hash")
		}
		if objc.CallBool(p, obj, sel, objc.RegisterName("launchMissiles")) {
			t.Fatal("NSObject responds to an unknown selector")
		}
	})
}

func TestCallFloat(t *testing.T) {
	tb := testbed.Shared()

	geo := tb.CreateObject(tb.ClassNamed("TBGeometry"))
	defer tb.Release(geo)
	tb.SetProp(geo, "bounds", testbed.Rect{W: 3, H: 4})

	objc.WithPool(func(p *objc.Pool) {
		if area := objc.CallFloat(p, geo, objc.RegisterName("area")); area != 12 {
			t.Fatalf("area = %v, want 12", area)
		}
	})
}

func TestCallValue_ConventionBoundary(t *testing.T) {
	tb := testbed.Shared()

	geo := tb.CreateObject(tb.ClassNamed("TBGeometry"))
	defer tb.Release(geo)
	tb.SetProp(geo, "bounds", testbed.Rect{X: 1, Y: 2, W: 3, H: 4})
	tb.SetProp(geo, "extent", testbed.Pair{A: 7, B: 9})

	objc.WithPool(func(p *objc.Pool) {
		// Pair is exactly two words, so it must come back through the
		// ordinary entry point in registers.
		var pair testbed.Pair
		objc.CallValue(p, geo, objc.RegisterName("extent"), unsafe.Pointer(&pair), unsafe.Sizeof(pair))
		if pair != (testbed.Pair{A: 7, B: 9}) {
			t.Fatalf("extent = %+v", pair)
		}

		// Rect exceeds the register budget and takes the struct-return
		// entry point.
		var r testbed.Rect
		objc.CallValue(p, geo, objc.RegisterName("bounds"), unsafe.Pointer(&r), unsafe.Sizeof(r))
		if r != (testbed.Rect{X: 1, Y: 2, W: 3, H: 4}) {
			t.Fatalf("bounds = %+v", r)
		}
	})
}

func TestCallObjectRetained_FastPath(t *testing.T) {
	tb := testbed.Shared()

	obj := tb.CreateObject(tb.ClassNamed("NSObject"))
	defer tb.Release(obj)

	var s objc.Strong[objc.AnyObject]
	before := tb.FastPathHits()
	objc.WithPool(func(p *objc.Pool) {
		var ok bool
		s, ok = objc.CallObjectRetained[objc.AnyObject](p, obj, objc.RegisterName("description"))
		if !ok {
			t.Fatal("description returned nil")
		}
	})
	if got := tb.FastPathHits(); got != before+1 {
		t.Fatalf("fast path hits = %d, want %d", got, before+1)
	}
	// The promotion outlives the pool.
	h := s.Handle()
	if tb.Freed(h) {
		t.Fatal("promoted result died with its pool")
	}
	s.Release()
	if !tb.Freed(h) {
		t.Fatal("promoted result leaked after release")
	}
}

func TestCallError(t *testing.T) {
	tb := testbed.Shared()

	vault := tb.CreateObject(tb.ClassNamed("TBVault"))
	defer tb.Release(vault)

	objc.WithPool(func(p *objc.Pool) {
		sel := objc.RegisterName("openItemNamed:error:")

		missing := tb.NewString("missing")
		defer tb.Release(missing)
		_, err := objc.CallError[objc.AnyObject](p, vault, sel, missing)
		if err == nil {
			t.Fatal("opening a missing item succeeded")
		}
		if !strings.Contains(err.Error(), "openItemNamed:error:") {
			t.Fatalf("error does not name the selector: %v", err)
		}
		cell, ok := objc.ErrorObject(err)
		if !ok {
			t.Fatal("failure carried no foreign error object")
		}
		if code := objc.Call[int](p, cell.Handle(), objc.RegisterName("code")); code != 404 {
			t.Fatalf("error code = %d, want 404", code)
		}

		present := tb.NewString("present")
		defer tb.Release(present)
		item, err := objc.CallError[objc.AnyObject](p, vault, sel, present)
		if err != nil {
			t.Fatalf("opening a present item failed: %v", err)
		}
		if item.Handle() == 0 {
			t.Fatal("success returned a zero handle")
		}
	})
}

func TestCallBoolError(t *testing.T) {
	tb := testbed.Shared()

	vault := tb.CreateObject(tb.ClassNamed("TBVault"))
	defer tb.Release(vault)

	objc.WithPool(func(p *objc.Pool) {
		sel := objc.RegisterName("storeValue:error:")

		if err := objc.CallBoolError(p, vault, sel, objc.Nil); err == nil {
			t.Fatal("storing nothing succeeded")
		}

		value := tb.CreateObject(tb.ClassNamed("NSObject"))
		defer tb.Release(value)
		if err := objc.CallBoolError(p, vault, sel, value); err != nil {
			t.Fatalf("store failed: %v", err)
		}
	})
}

func TestCallSuper(t *testing.T) {
	tb := testbed.Shared()

	child := tb.CreateObject(tb.ClassNamed("TBChild"))
	defer tb.Release(child)
	childClass := tb.ClassNamed("TBChild").Handle()

	objc.WithPool(func(p *objc.Pool) {
		sel := objc.RegisterName("description")

		own := objc.CallObject[objc.AnyObject](p, child, sel)
		g, ok := own.NonNull()
		if !ok {
			t.Fatal("description returned nil")
		}
		if got := tb.StringValue(g.Handle()); got != "child-description" {
			t.Fatalf("own description = %q", got)
		}

		sup := objc.CallSuperObject[objc.AnyObject](p, child, childClass, sel)
		sg, ok := sup.NonNull()
		if !ok {
			t.Fatal("super description returned nil")
		}
		if got := tb.StringValue(sg.Handle()); !strings.HasPrefix(got, "<TBChild:") {
			t.Fatalf("super description = %q, want the root-class form", got)
		}
	})
}

func TestCallSuperBoolError(t *testing.T) {
	tb := testbed.Shared()

	// A vault subclass that refuses every store, without touching the
	// error slot. Bypassing the override via super must reach the base
	// class behavior.
	strict := tb.NewClass("TBStrictVault", tb.ClassNamed("TBVault"))
	strict.AddMethod("storeValue:error:", func(tb *testbed.Testbed, self objc.ID, args []uintptr) (uintptr, uintptr) {
		return 0, 0
	})

	obj := tb.CreateObject(strict)
	defer tb.Release(obj)

	objc.WithPool(func(p *objc.Pool) {
		sel := objc.RegisterName("storeValue:error:")

		value := tb.CreateObject(tb.ClassNamed("NSObject"))
		defer tb.Release(value)

		if err := objc.CallBoolError(p, obj, sel, value); err == nil {
			t.Fatal("the refusing override accepted a store")
		}
		if err := objc.CallSuperBoolError(p, obj, strict.Handle(), sel, value); err != nil {
			t.Fatalf("store through the superclass failed: %v", err)
		}

		err := objc.CallSuperBoolError(p, obj, strict.Handle(), sel, objc.Nil)
		if err == nil {
			t.Fatal("storing nothing through the superclass succeeded")
		}
		if !strings.Contains(err.Error(), "storeValue:error:") {
			t.Fatalf("error does not name the selector: %v", err)
		}
		cell, ok := objc.ErrorObject(err)
		if !ok {
			t.Fatal("failure carried no foreign error object")
		}
		if code := objc.Call[int](p, cell.Handle(), objc.RegisterName("code")); code != 500 {
			t.Fatalf("error code = %d, want 500", code)
		}
	})
}

func TestCall_BadArgumentPanics(t *testing.T) {
	tb := testbed.Shared()

	obj := tb.CreateObject(tb.ClassNamed("NSObject"))
	defer tb.Release(obj)

	objc.WithPool(func(p *objc.Pool) {
		defer func() {
			if recover() == nil {
				t.Fatal("non-FFI-safe argument did not panic")
			}
		}()
		objc.CallBool(p, obj, objc.RegisterName("respondsToSelector:"), "a go string")
	})
}

func TestCall_ArityLimitPanics(t *testing.T) {
	tb := testbed.Shared()

	obj := tb.CreateObject(tb.ClassNamed("NSObject"))
	defer tb.Release(obj)

	args := make([]any, 13)
	for i := range args {
		args[i] = 0
	}
	objc.WithPool(func(p *objc.Pool) {
		defer func() {
			if recover() == nil {
				t.Fatal("thirteen arguments did not panic")
			}
		}()
		objc.CallBool(p, obj, objc.RegisterName("respondsToSelector:"), args...)
	})
}
