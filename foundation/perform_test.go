package foundation_test

import (
	"strings"
	"testing"

	"github.com/glyphbox/objc"
	"github.com/glyphbox/objc/foundation"
	"github.com/glyphbox/objc/testbed"
)

func TestPerformSelectorPrimitive(t *testing.T) {
	testbed.Shared()

	objc.WithPool(func(p *objc.Pool) {
		s := foundation.StringFromGo(p, "hello")
		defer s.Release()

		if n := foundation.PerformSelectorPrimitive[uint](p, s.Guaranteed(), "length"); n != 5 {
			t.Fatalf("length = %d, want 5", n)
		}
	})
}

func TestPerformSelectorRetained(t *testing.T) {
	tb := testbed.Shared()

	var desc objc.Strong[foundation.NSString]
	objc.WithPool(func(p *objc.Pool) {
		obj := objc.AllocInit[foundation.NSObject](p)
		defer obj.Release()

		var ok bool
		desc, ok = foundation.PerformSelectorRetained[foundation.NSString](p, obj.Guaranteed(), "description")
		if !ok {
			t.Fatal("description returned nil")
		}
	})
	// The promotion outlives the pool.
	h := desc.Handle()
	if tb.Freed(h) {
		t.Fatal("promoted result died with its pool")
	}
	desc.Release()
	if !tb.Freed(h) {
		t.Fatal("promoted result leaked after release")
	}
}

func TestPerformSelectorError(t *testing.T) {
	tb := testbed.Shared()

	vault := tb.CreateObject(tb.ClassNamed("TBVault"))
	defer tb.Release(vault)

	objc.WithPool(func(p *objc.Pool) {
		cell := objc.AssumeNonNil[objc.AnyObject](vault)

		_, err := foundation.PerformSelectorError[objc.AnyObject](p, cell, "openItemNamed:error:", objc.Nil)
		if err == nil {
			t.Fatal("opening nothing succeeded")
		}
		if !strings.Contains(err.Error(), "openItemNamed:error:") {
			t.Fatalf("error does not name the selector: %v", err)
		}

		value := tb.CreateObject(tb.ClassNamed("NSObject"))
		defer tb.Release(value)
		if err := foundation.PerformSelectorBoolError(p, cell, "storeValue:error:", value); err != nil {
			t.Fatalf("store failed: %v", err)
		}
	})
}

func TestPerformSelector_RawObject(t *testing.T) {
	tb := testbed.Shared()

	objc.WithPool(func(p *objc.Pool) {
		obj := objc.AllocInit[foundation.NSObject](p)
		defer obj.Release()

		raw := foundation.PerformSelector[foundation.NSString](p, obj.Guaranteed(), "description")
		g, ok := raw.NonNull()
		if !ok {
			t.Fatal("description returned nil")
		}
		if got := tb.StringValue(g.Handle()); !strings.HasPrefix(got, "<NSObject:") {
			t.Fatalf("description = %q", got)
		}
	})
}
