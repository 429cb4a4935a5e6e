// Package objc binds the Objective-C runtime's object model (classes,
// selectors, message dispatch, reference counting) to Go without a
// bridging layer in between.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	objc/             Core: handles, reference tables, ownership cells,
//	                  autorelease pools, and the dispatch mechanism
//	├── libobjc/      The real runtime bound via dlopen (purego);
//	                  installs itself on import
//	├── testbed/      An instrumented in-process runtime for tests,
//	                  with retain-count and pool inspection
//	├── foundation/   Leaf bindings: NSObject, NSString, NSError
//	├── inspect/      Class and method introspection
//	├── errors/       Structured error types
//	└── cmd/objc-browse/  CLI and TUI class browser
//
// # Quick Start
//
//	import (
//	    "github.com/glyphbox/objc"
//	    "github.com/glyphbox/objc/foundation"
//	    _ "github.com/glyphbox/objc/libobjc"
//	)
//
//	objc.WithPool(func(p *objc.Pool) {
//	    obj := objc.AllocInit[foundation.NSObject](p)
//	    defer obj.Release()
//
//	    desc := foundation.Description(p, obj.Guaranteed())
//	    defer desc.Release()
//	    fmt.Println(foundation.StringToGo(p, desc.Guaranteed()))
//	})
//
// # Ownership
//
// Objective-C's manual retain-count model is mapped onto four cell
// types: Raw (maybe nil, no ownership), Guaranteed (non-nil view),
// Strong (owns one retain unit, released exactly once), and
// Autoreleased (borrowed from an autorelease pool). Constructors named
// Assume* assert a convention without performing a side effect; the
// rest perform the retain or autorelease themselves.
//
// # Dispatch
//
// Message sends select the low-level calling convention from the static
// return interpretation at the call site: register-sized primitives,
// oversized value types (struct-return convention), doubles, object
// handles, super dispatch, and the trailing NSError** convention each
// have an entry in the Call family. Argument lists are fixed-arity
// (0–12) and restricted to FFI-safe types. There is no runtime check
// that a selector matches the types used at the call site; that
// contract belongs to the binding author, exactly as it does in
// Objective-C itself.
//
// # Thread Safety
//
// Resolved selector and class handles are immutable and safe to read
// from any goroutine. Strong cells may move across goroutines
// (retain/release are atomic in the foreign runtime). Pools and
// Autoreleased cells are goroutine-local by contract.
package objc
