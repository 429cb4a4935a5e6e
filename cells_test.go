package objc_test

import (
	"testing"

	"github.com/glyphbox/objc"
	"github.com/glyphbox/objc/testbed"
)

func TestRaw_NonNull(t *testing.T) {
	tb := testbed.Shared()

	if _, ok := objc.RawCell[objc.AnyObject](objc.Nil).NonNull(); ok {
		t.Fatal("nil handle passed the non-null check")
	}
	if !objc.RawCell[objc.AnyObject](objc.Nil).IsNil() {
		t.Fatal("nil handle not reported nil")
	}

	obj := tb.CreateObject(tb.ClassNamed("NSObject"))
	defer tb.Release(obj)
	g, ok := objc.RawCell[objc.AnyObject](obj).NonNull()
	if !ok {
		t.Fatal("live handle failed the non-null check")
	}
	if g.Handle() != obj {
		t.Fatalf("handle changed through the cell: %#x -> %#x", uintptr(obj), uintptr(g.Handle()))
	}
}

func TestStrong_ReleaseExactlyOnce(t *testing.T) {
	tb := testbed.Shared()

	obj := tb.CreateObject(tb.ClassNamed("NSObject"))
	s := objc.StrongAssumeRetained[objc.AnyObject](obj)

	s.Release()
	if !tb.Freed(obj) {
		t.Fatal("release did not free the sole-owned object")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("double release did not panic")
		}
	}()
	s.Release()
}

func TestStrong_RetainingBalances(t *testing.T) {
	tb := testbed.Shared()

	obj := tb.CreateObject(tb.ClassNamed("NSObject"))
	defer tb.Release(obj)

	s := objc.StrongRetaining[objc.AnyObject](obj)
	if got := tb.RetainCount(obj); got != 2 {
		t.Fatalf("retain count = %d, want 2", got)
	}
	s.Release()
	if got := tb.RetainCount(obj); got != 1 {
		t.Fatalf("retain count after release = %d, want 1", got)
	}
}

func TestStrong_Leak(t *testing.T) {
	tb := testbed.Shared()

	obj := tb.CreateObject(tb.ClassNamed("NSObject"))
	s := objc.StrongAssumeRetained[objc.AnyObject](obj)
	g := s.Leak()
	if g.Handle() != obj {
		t.Fatal("leak changed the handle")
	}
	// The retain unit moved to us; the cell is dead.
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("use after Leak did not panic")
			}
		}()
		s.Handle()
	}()
	tb.Release(obj)
	if !tb.Freed(obj) {
		t.Fatal("leaked unit did not balance to zero")
	}
}

func TestStrong_Autoreleasing(t *testing.T) {
	tb := testbed.Shared()

	obj := tb.CreateObject(tb.ClassNamed("NSObject"))
	objc.WithPool(func(p *objc.Pool) {
		s := objc.StrongAssumeRetained[objc.AnyObject](obj)
		a := s.Autoreleasing(p)
		if a.Handle() != obj {
			t.Fatal("autoreleasing changed the handle")
		}
		if tb.Freed(obj) {
			t.Fatal("autoreleasing freed eagerly")
		}
	})
	if !tb.Freed(obj) {
		t.Fatal("deferred release did not run at pool pop")
	}
}

func TestAutoreleased_RetainSurvivesPop(t *testing.T) {
	tb := testbed.Shared()

	var s objc.Strong[objc.AnyObject]
	objc.WithPool(func(p *objc.Pool) {
		obj := tb.CreateObject(tb.ClassNamed("NSObject"))
		tb.Autorelease(obj)
		a := objc.AssumeNonNil[objc.AnyObject](obj).AssumeAutoreleased(p)
		s = a.Retain()
	})
	if tb.Freed(s.Handle()) {
		t.Fatal("retained cell died with its pool")
	}
	h := s.Handle()
	s.Release()
	if !tb.Freed(h) {
		t.Fatal("object leaked after final release")
	}
}

func TestAutoreleased_UseAfterPopPanics(t *testing.T) {
	tb := testbed.Shared()

	var a objc.Autoreleased[objc.AnyObject]
	objc.WithPool(func(p *objc.Pool) {
		obj := tb.CreateObject(tb.ClassNamed("NSObject"))
		tb.Autorelease(obj)
		a = objc.AssumeNonNil[objc.AnyObject](obj).AssumeAutoreleased(p)
	})

	defer func() {
		if recover() == nil {
			t.Fatal("use of cell after pool pop did not panic")
		}
	}()
	a.Handle()
}

func TestGuaranteed_RetainAndCast(t *testing.T) {
	tb := testbed.Shared()

	obj := tb.CreateObject(tb.ClassNamed("NSObject"))
	defer tb.Release(obj)

	g := objc.AssumeNonNil[objc.AnyObject](obj)
	s := g.Retain()
	if got := tb.RetainCount(obj); got != 2 {
		t.Fatalf("retain count = %d, want 2", got)
	}
	s.Release()

	// Cast re-witnesses without touching the handle or the count.
	cast := objc.Cast[objc.AnyObject](g)
	if cast.Handle() != obj {
		t.Fatal("cast changed the handle")
	}
	if got := tb.RetainCount(obj); got != 1 {
		t.Fatalf("cast changed the retain count: %d", got)
	}
}
