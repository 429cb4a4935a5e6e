package objc_test

import (
	"testing"

	"github.com/glyphbox/objc"
	"github.com/glyphbox/objc/testbed"
)

func TestWithPool_PushesAndPops(t *testing.T) {
	tb := testbed.Shared()

	base := tb.PoolDepth()
	objc.WithPool(func(p *objc.Pool) {
		if !p.Active() {
			t.Fatal("pool not active inside WithPool")
		}
		if got := tb.PoolDepth(); got != base+1 {
			t.Fatalf("pool depth = %d, want %d", got, base+1)
		}
		objc.WithPool(func(inner *objc.Pool) {
			if got := tb.PoolDepth(); got != base+2 {
				t.Fatalf("nested pool depth = %d, want %d", got, base+2)
			}
		})
		if got := tb.PoolDepth(); got != base+1 {
			t.Fatalf("inner pool not popped: depth %d", got)
		}
	})
	if got := tb.PoolDepth(); got != base {
		t.Fatalf("pool leaked: depth %d, want %d", got, base)
	}
}

func TestWithPool_PopsOnPanic(t *testing.T) {
	tb := testbed.Shared()

	base := tb.PoolDepth()
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("panic did not propagate")
			}
		}()
		objc.WithPool(func(p *objc.Pool) {
			panic("boom")
		})
	}()
	if got := tb.PoolDepth(); got != base {
		t.Fatalf("pool leaked across panic: depth %d, want %d", got, base)
	}
}

func TestPool_UseAfterPopPanics(t *testing.T) {
	tb := testbed.Shared()

	var escaped *objc.Pool
	objc.WithPool(func(p *objc.Pool) {
		escaped = p
	})
	if escaped.Active() {
		t.Fatal("popped pool reports active")
	}

	obj := tb.CreateObject(tb.ClassNamed("NSObject"))
	defer tb.Release(obj)

	defer func() {
		if recover() == nil {
			t.Fatal("dispatch through a popped pool did not panic")
		}
	}()
	objc.CallBool(escaped, obj, objc.RegisterName("respondsToSelector:"), objc.RegisterName("init"))
}

func TestPool_NilPanics(t *testing.T) {
	tb := testbed.Shared()

	obj := tb.CreateObject(tb.ClassNamed("NSObject"))
	defer tb.Release(obj)

	defer func() {
		if recover() == nil {
			t.Fatal("dispatch with a nil pool did not panic")
		}
	}()
	objc.CallBool(nil, obj, objc.RegisterName("respondsToSelector:"), objc.RegisterName("init"))
}

func TestAssumePool(t *testing.T) {
	tb := testbed.Shared()

	// An assumed pool needs a real one beneath it for autoreleases to
	// land in; the token itself just satisfies the capability check.
	token := tb.PoolPush()
	defer tb.PoolPop(token)

	p := objc.AssumePool()
	if !p.Active() {
		t.Fatal("assumed pool not active")
	}
	obj := tb.CreateObject(tb.ClassNamed("NSObject"))
	defer tb.Release(obj)
	if !objc.CallBool(p, obj, objc.RegisterName("respondsToSelector:"), objc.RegisterName("init")) {
		t.Fatal("dispatch through assumed pool failed")
	}
}

func TestPool_DrainReleasesAutoreleased(t *testing.T) {
	tb := testbed.Shared()

	obj := tb.CreateObject(tb.ClassNamed("NSObject"))
	defer tb.Release(obj)

	var handle objc.ID
	objc.WithPool(func(p *objc.Pool) {
		raw := objc.CallObject[objc.AnyObject](p, obj, objc.RegisterName("description"))
		g, ok := raw.NonNull()
		if !ok {
			t.Fatal("description returned nil")
		}
		handle = g.Handle()
		if tb.Freed(handle) {
			t.Fatal("autoreleased object freed before pop")
		}
	})
	if !tb.Freed(handle) {
		t.Fatal("autoreleased object survived its pool")
	}
}
