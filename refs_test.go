package objc_test

import (
	stderrors "errors"
	"sync"
	"testing"

	"github.com/glyphbox/objc"
	objcerrors "github.com/glyphbox/objc/errors"
	"github.com/glyphbox/objc/testbed"
)

func TestRegisterSelector_SharesEntries(t *testing.T) {
	testbed.Shared()

	a := objc.RegisterSelector("refs_test", "count")
	b := objc.RegisterSelector("refs_test", "count")
	if a != b {
		t.Fatal("same (group, name) produced distinct references")
	}

	other := objc.RegisterSelector("refs_test_other", "count")
	if other == a {
		t.Fatal("distinct groups shared a reference")
	}
	// Distinct entries, but the runtime interns by name.
	if a.Sel() != other.Sel() {
		t.Fatalf("same selector text resolved to %#x and %#x", uintptr(a.Sel()), uintptr(other.Sel()))
	}
}

func TestSelRef_Idempotent(t *testing.T) {
	testbed.Shared()

	ref := objc.RegisterSelector("refs_test", "objectAtIndex:")
	first := ref.Sel()
	if first == 0 {
		t.Fatal("selector resolved to zero")
	}
	for i := 0; i < 3; i++ {
		if got := ref.Sel(); got != first {
			t.Fatalf("resolution %d returned %#x, want %#x", i, uintptr(got), uintptr(first))
		}
	}
	if objc.RegisterName("objectAtIndex:") != first {
		t.Fatal("dynamic interning disagrees with the reference table")
	}
}

func TestClassRef_Resolves(t *testing.T) {
	testbed.Shared()

	ref := objc.RegisterClass("refs_test", "NSObject")
	cls := ref.Class()
	if cls == 0 {
		t.Fatal("NSObject resolved to zero")
	}
	if ref.Class() != cls {
		t.Fatal("class resolution not idempotent")
	}

	dynamic, ok := objc.LookUpClass("NSObject")
	if !ok || dynamic != cls {
		t.Fatalf("dynamic lookup = (%#x, %v), want (%#x, true)", uintptr(dynamic), ok, uintptr(cls))
	}
}

func TestClassRef_Missing(t *testing.T) {
	testbed.Shared()

	ref := objc.RegisterClass("refs_test", "NSNoSuchClass")
	_, err := ref.Lookup()
	if err == nil {
		t.Fatal("missing class resolved")
	}
	var oe *objcerrors.Error
	if !stderrors.As(err, &oe) {
		t.Fatalf("unexpected error type %T", err)
	}
	if oe.Kind != objcerrors.KindClassNotFound {
		t.Fatalf("kind = %q, want %q", oe.Kind, objcerrors.KindClassNotFound)
	}

	if _, ok := objc.LookUpClass("NSNoSuchClass"); ok {
		t.Fatal("dynamic lookup of unknown class succeeded")
	}
}

func TestClassRef_ConcurrentMissingLookup(t *testing.T) {
	tb := testbed.Shared()

	// Failed lookups retry, and concurrent retries must not race.
	ref := objc.RegisterClass("refs_test", "TBAppearsLater")
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if _, err := ref.Lookup(); err == nil {
					t.Error("lookup succeeded before the class exists")
					return
				}
			}
		}()
	}
	wg.Wait()

	// A class loaded after the failures still resolves.
	tb.NewClass("TBAppearsLater", tb.ClassNamed("NSObject"))
	cls, err := ref.Lookup()
	if err != nil {
		t.Fatalf("lookup after the class appeared failed: %v", err)
	}
	if dynamic, _ := objc.LookUpClass("TBAppearsLater"); dynamic != cls {
		t.Fatalf("cached handle %#x disagrees with dynamic lookup %#x", uintptr(cls), uintptr(dynamic))
	}
	if ref.Class() != cls {
		t.Fatal("resolution not idempotent after a successful retry")
	}
}

func TestClassRef_MissingPanicsOnClass(t *testing.T) {
	testbed.Shared()

	ref := objc.RegisterClass("refs_test", "NSStillNoSuchClass")
	defer func() {
		if recover() == nil {
			t.Fatal("Class() on a missing class did not panic")
		}
	}()
	ref.Class()
}
