package objc

// Instance is implemented by zero-size witness types that stand for an
// Objective-C instance type. Witnesses carry no data; they exist to
// parameterize cells and dispatch generically. Declare one by embedding
// InstanceMarker:
//
//	type NSData struct{ objc.InstanceMarker }
type Instance interface {
	objcInstance()
}

// InstanceMarker is embedded by witness types to implement Instance.
type InstanceMarker struct{}

func (InstanceMarker) objcInstance() {}

// AnyObject is the witness for an object of unknown class, the typed
// equivalent of id. Dispatch results can be re-witnessed with Cast.
type AnyObject struct{ InstanceMarker }

// ClassType is implemented by witnesses that additionally name a
// runtime class, enabling generic allocation. ClassRef must return the
// same reference on every call so class-handle identity is stable.
//
//	type NSData struct{ objc.InstanceMarker }
//	var classNSData = objc.RegisterClass("foundation", "NSData")
//	func (NSData) ClassRef() *objc.ClassRef { return classNSData }
type ClassType interface {
	Instance
	ClassRef() *ClassRef
}

// ClassOf resolves the class handle for a witness type.
func ClassOf[T ClassType]() Class {
	var w T
	return w.ClassRef().Class()
}

// Alloc sends alloc to the witness class. The result is +1 per the
// alloc convention but uninitialized; callers must send an init-family
// message before using it.
func Alloc[T ClassType](p *Pool) Guaranteed[T] {
	cls := ClassOf[T]()
	raw := CallObject[T](p, ID(cls), selAlloc.Sel())
	g, ok := raw.NonNull()
	if !ok {
		panic("objc: alloc returned nil for class " + className[T]())
	}
	return g
}

// AllocInit composes [[T alloc] init] and wraps the result as Strong.
//
// init may return a different handle than alloc produced (the
// documented initializer-substitution convention); the returned handle
// is adopted, not the one passed in.
func AllocInit[T ClassType](p *Pool) Strong[T] {
	allocated := Alloc[T](p)
	raw := CallObject[T](p, allocated.Handle(), selInit.Sel())
	g, ok := raw.NonNull()
	if !ok {
		panic("objc: init returned nil for class " + className[T]())
	}
	return g.AssumeRetained()
}

func className[T ClassType]() string {
	var w T
	return w.ClassRef().Name()
}
