package foundation

import (
	"unsafe"

	"github.com/glyphbox/objc"
)

// NSString is the witness for Foundation's immutable string class.
type NSString struct{ objc.InstanceMarker }

var classNSString = objc.RegisterClass("foundation", "NSString")

// ClassRef returns the NSString class reference.
func (NSString) ClassRef() *objc.ClassRef { return classNSString }

// NSUTF8StringEncoding is the NSStringEncoding constant for UTF-8.
const NSUTF8StringEncoding = 4

var (
	selInitWithBytes   = objc.RegisterSelector("foundation", "initWithBytes:length:encoding:")
	selUTF8String      = objc.RegisterSelector("foundation", "UTF8String")
	selIsEqualToString = objc.RegisterSelector("foundation", "isEqualToString:")
	selLength          = objc.RegisterSelector("foundation", "length")
)

// StringFromGo copies a Go string into a fresh NSString. The result is
// +1 per the alloc/init convention.
func StringFromGo(p *objc.Pool, s string) objc.Strong[NSString] {
	allocated := objc.Alloc[NSString](p)
	var ptr unsafe.Pointer
	if len(s) > 0 {
		ptr = unsafe.Pointer(unsafe.StringData(s))
	}
	raw := objc.CallObject[NSString](p, allocated.Handle(), selInitWithBytes.Sel(),
		ptr, len(s), NSUTF8StringEncoding)
	g, ok := raw.NonNull()
	if !ok {
		panic("foundation: initWithBytes:length:encoding: returned nil for valid UTF-8")
	}
	return g.AssumeRetained()
}

// StringToGo copies an NSString's UTF-8 contents into a Go string. The
// UTF8String pointer borrows the receiver's storage, so the copy
// happens before returning and the handle's lifetime does not leak into
// the result.
func StringToGo(p *objc.Pool, s objc.Guaranteed[NSString]) string {
	ptr := objc.Call[uintptr](p, s.Handle(), selUTF8String.Sel())
	return goStringFromC(ptr)
}

// StringsEqual sends isEqualToString:.
func StringsEqual(p *objc.Pool, a, b objc.Guaranteed[NSString]) bool {
	return objc.CallBool(p, a.Handle(), selIsEqualToString.Sel(), b.Handle())
}

// StringLength sends length. For UTF-8 backed strings this counts
// UTF-16 code units on the real runtime; callers wanting byte lengths
// should convert with StringToGo.
func StringLength(p *objc.Pool, s objc.Guaranteed[NSString]) uint {
	return objc.Call[uint](p, s.Handle(), selLength.Sel())
}

func goStringFromC(ptr uintptr) string {
	if ptr == 0 {
		return ""
	}
	n := 0
	for *(*byte)(unsafe.Pointer(ptr + uintptr(n))) != 0 {
		n++
	}
	if n == 0 {
		return ""
	}
	return string(unsafe.Slice((*byte)(unsafe.Pointer(ptr)), n))
}
