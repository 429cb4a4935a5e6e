// Package libobjc binds the real Objective-C runtime through dlopen,
// implementing the objc.Runtime interface over the C entry points
// (objc_msgSend and friends) with no cgo.
//
// The package registers itself as the process runtime from its init
// function, so a blank import is enough:
//
//	import _ "github.com/glyphbox/objc/libobjc"
//
// Symbol binding is deferred until first use; a missing library or
// symbol surfaces as a load-phase *errors.Error panic from the first
// dispatch, or as a plain error from Load for callers that want to
// probe first.
//
// Platform notes: on darwin the Apple runtime is used. On linux and
// freebsd the GNUstep runtime is tried; entry points it lacks (the
// objc_msgSendSuper2 family) are reported on first use rather than at
// load. Struct returns wider than two registers need the
// objc_msgSend_stret entry point, which exists only on amd64; on arm64
// the machine convention returns them through a register this backend
// cannot populate, so oversized struct returns are unsupported there.
package libobjc
