package foundation

import (
	"github.com/glyphbox/objc"
)

// NSObject is the witness for the Foundation root class.
type NSObject struct{ objc.InstanceMarker }

var classNSObject = objc.RegisterClass("foundation", "NSObject")

// ClassRef returns the NSObject class reference.
func (NSObject) ClassRef() *objc.ClassRef { return classNSObject }

var (
	selDescription        = objc.RegisterSelector("foundation", "description")
	selRespondsToSelector = objc.RegisterSelector("foundation", "respondsToSelector:")
	selCopy               = objc.RegisterSelector("foundation", "copy")
	selHash               = objc.RegisterSelector("foundation", "hash")
	selIsEqual            = objc.RegisterSelector("foundation", "isEqual:")
)

// Description sends description and promotes the +0 result to Strong
// through the runtime's fast path. Works on any object; NSObject
// guarantees a non-nil result, so a nil return panics.
func Description[T objc.Instance](p *objc.Pool, obj objc.Guaranteed[T]) objc.Strong[NSString] {
	s, ok := objc.CallObjectRetained[NSString](p, obj.Handle(), selDescription.Sel())
	if !ok {
		panic("foundation: description returned nil")
	}
	return s
}

// DescriptionString is Description flattened to a Go string.
func DescriptionString[T objc.Instance](p *objc.Pool, obj objc.Guaranteed[T]) string {
	s := Description(p, obj)
	defer s.Release()
	return StringToGo(p, s.Guaranteed())
}

// RespondsToSelector reports whether the object handles sel.
func RespondsToSelector[T objc.Instance](p *objc.Pool, obj objc.Guaranteed[T], sel objc.Sel) bool {
	return objc.CallBool(p, obj.Handle(), selRespondsToSelector.Sel(), sel)
}

// Copy sends copy. The copy-family convention makes the result +1, so
// it comes back Strong with no retain performed here.
func Copy[T objc.Instance](p *objc.Pool, obj objc.Guaranteed[T]) objc.Strong[T] {
	raw := objc.CallObject[T](p, obj.Handle(), selCopy.Sel())
	g, ok := raw.NonNull()
	if !ok {
		panic("foundation: copy returned nil")
	}
	return g.AssumeRetained()
}

// Hash sends hash.
func Hash[T objc.Instance](p *objc.Pool, obj objc.Guaranteed[T]) uint {
	return objc.Call[uint](p, obj.Handle(), selHash.Sel())
}

// Equal sends isEqual:.
func Equal[T, U objc.Instance](p *objc.Pool, a objc.Guaranteed[T], b objc.Guaranteed[U]) bool {
	return objc.CallBool(p, a.Handle(), selIsEqual.Sel(), b.Handle())
}
