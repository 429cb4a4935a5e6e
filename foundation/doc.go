// Package foundation binds a small slice of the Foundation framework:
// NSObject, NSString, and NSError. It is a leaf consumer of the objc
// core and doubles as the worked example of how a binding package is
// written.
//
// The pattern every binding follows:
//
//   - declare a zero-size witness type embedding objc.InstanceMarker
//   - declare selector and class references as package-level variables
//     under this package's group, so the process-wide tables dedup them
//   - express each method as a function taking a *objc.Pool and typed
//     cells, dispatching through the core and wrapping the result in
//     the cell its naming convention dictates (+1 for copy-family,
//     autoreleased otherwise)
//
// Nothing here talks to the runtime directly; everything goes through
// the objc dispatch surface, so the package works unchanged against the
// real runtime or the testbed.
package foundation
