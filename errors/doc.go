// Package errors provides structured error types for the objc binding.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: class and selector names, a carried value,
// and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDispatch, errors.KindObjCError).
//		Class("NSData").
//		Sel("dataWithContentsOfFile:options:error:").
//		Detail("read failed").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Resolve(errors.KindClassNotFound, "NSFoo", "is the owning framework linked?")
//	err := errors.NilResult("init")
//
// All errors implement the standard error interface and support errors.Is/As.
// Recoverable failures are the exception here: most misuse of the binding
// (wrong selector signatures, nil where non-nil was promised) is a documented
// caller contract and is deliberately not detected, matching the wrapped
// runtime's own conventions.
package errors
