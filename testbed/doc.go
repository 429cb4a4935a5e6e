// Package testbed provides an instrumented, in-process implementation
// of the foreign-runtime entry points the objc core consumes: an object
// table with real retain counts, a class hierarchy with per-selector
// method tables, autorelease pool stacks, and the message-dispatch
// entry points including super dispatch and the struct-return path.
//
// It exists so the binding's ownership and dispatch semantics can be
// tested anywhere, without libobjc, and with assertions the real
// runtime does not offer: exact retain counts, live-object counts,
// fast-path hit counts, and detection of use-after-free (handles freed
// by a pool pop are poisoned and panic on any further use, standing in
// for the real runtime's zombie instrumentation).
//
// Shared returns a process-wide testbed already installed as the objc
// runtime, pre-populated with small stand-ins for NSObject, NSString
// and NSError plus a few classes exercising awkward conventions
// (initializer substitution, trailing error out-parameters, oversized
// struct returns).
package testbed
