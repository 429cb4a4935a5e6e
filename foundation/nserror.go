package foundation

import (
	"github.com/glyphbox/objc"
)

// NSError is the witness for Foundation's error class, the object the
// trailing-error convention hands back on failure.
type NSError struct{ objc.InstanceMarker }

var classNSError = objc.RegisterClass("foundation", "NSError")

// ClassRef returns the NSError class reference.
func (NSError) ClassRef() *objc.ClassRef { return classNSError }

var (
	selCode                 = objc.RegisterSelector("foundation", "code")
	selDomain               = objc.RegisterSelector("foundation", "domain")
	selLocalizedDescription = objc.RegisterSelector("foundation", "localizedDescription")
)

// ErrorCode sends code.
func ErrorCode(p *objc.Pool, e objc.Guaranteed[NSError]) int {
	return objc.Call[int](p, e.Handle(), selCode.Sel())
}

// ErrorDomain sends domain, flattened to a Go string.
func ErrorDomain(p *objc.Pool, e objc.Guaranteed[NSError]) string {
	return stringResult(p, e, selDomain.Sel())
}

// ErrorDescription sends localizedDescription, flattened to a Go string.
func ErrorDescription(p *objc.Pool, e objc.Guaranteed[NSError]) string {
	return stringResult(p, e, selLocalizedDescription.Sel())
}

func stringResult(p *objc.Pool, e objc.Guaranteed[NSError], sel objc.Sel) string {
	raw := objc.CallObject[NSString](p, e.Handle(), sel)
	g, ok := raw.NonNull()
	if !ok {
		return ""
	}
	return StringToGo(p, g)
}

// ErrorCell extracts the NSError carried by a trailing-error-convention
// failure and re-witnesses it. The cell stays scoped to the pool the
// failing call ran under. ok is false when err came from somewhere else
// or the callee left the error slot empty.
func ErrorCell(err error) (objc.Autoreleased[NSError], bool) {
	cell, ok := objc.ErrorObject(err)
	if !ok {
		return objc.Autoreleased[NSError]{}, false
	}
	return objc.CastAutoreleased[NSError](cell), true
}
