package objc

// Ownership cells.
//
// A handle moves through at most one path of this state machine:
//
//	Raw -> Guaranteed (explicit nil check)
//	Guaranteed -> Strong (assume +1, or perform a retain)
//	Guaranteed -> Autoreleased (assume an existing pool entry)
//	Strong -> Autoreleased (perform exactly one autorelease, consuming the Strong)
//	Autoreleased -> Strong (perform a retain; survives the pool pop)
//
// Constructors whose names start with Assume perform no side effect:
// the caller asserts the stated ownership already holds, per the
// Objective-C naming conventions (alloc/copy/new return +1, most other
// methods return +0 autoreleased). Getting the assumption wrong is a
// contract violation the binding does not detect.

// Raw wraps a handle that may be nil and has no established ownership.
// It is the cell used at FFI boundaries before nullability is known.
type Raw[T Instance] struct {
	h ID
}

// RawCell wraps h, which may be nil.
func RawCell[T Instance](h ID) Raw[T] {
	return Raw[T]{h: h}
}

// Handle returns the wrapped handle, possibly nil.
func (r Raw[T]) Handle() ID { return r.h }

// IsNil reports whether the handle is nil.
func (r Raw[T]) IsNil() bool { return r.h == 0 }

// NonNull is the explicit nil check required to leave Raw.
func (r Raw[T]) NonNull() (Guaranteed[T], bool) {
	if r.h == 0 {
		return Guaranteed[T]{}, false
	}
	return Guaranteed[T]{h: r.h}, true
}

// Guaranteed wraps a handle statically promised to be non-nil, with no
// ownership claim. It is a typed view; dropping it has no effect.
type Guaranteed[T Instance] struct {
	h ID
}

// AssumeNonNil wraps h asserting it is non-nil and points to a live
// object of the witnessed type. Passing nil here is a contract
// violation; use Raw and NonNull when nullability is real.
func AssumeNonNil[T Instance](h ID) Guaranteed[T] {
	return Guaranteed[T]{h: h}
}

// Handle returns the wrapped handle.
func (g Guaranteed[T]) Handle() ID { return g.h }

// AssumeRetained converts to Strong, asserting the caller already holds
// a +1 retain unit (alloc/copy/new-family results).
func (g Guaranteed[T]) AssumeRetained() Strong[T] {
	return Strong[T]{h: g.h}
}

// Retain converts to Strong by performing the retain side effect.
func (g Guaranteed[T]) Retain() Strong[T] {
	rt().Retain(g.h)
	return Strong[T]{h: g.h}
}

// AssumeAutoreleased converts to an Autoreleased cell, asserting the
// object already carries an autorelease entry in pool's scope. No side
// effect is performed.
func (g Guaranteed[T]) AssumeAutoreleased(pool *Pool) Autoreleased[T] {
	pool.require()
	return Autoreleased[T]{h: g.h, pool: pool}
}

// Cast reinterprets the cell as witnessing a different instance type.
// There is no check that the object actually is one.
func Cast[U, T Instance](g Guaranteed[T]) Guaranteed[U] {
	return Guaranteed[U]{h: g.h}
}

// CastAutoreleased is Cast for pool-scoped cells; the pool binding is
// preserved.
func CastAutoreleased[U, T Instance](a Autoreleased[T]) Autoreleased[U] {
	return Autoreleased[U]{h: a.h, pool: a.pool}
}

// Strong owns exactly one retain unit: the referent stays alive at
// least as long as the cell, and Release releases exactly once.
//
// Copying a Strong cell does not copy the retain unit; treat cells as
// move-only values and release through one copy.
type Strong[T Instance] struct {
	h        ID
	released bool
}

// StrongAssumeRetained wraps h asserting it is non-nil and already +1.
func StrongAssumeRetained[T Instance](h ID) Strong[T] {
	return Strong[T]{h: h}
}

// StrongRetaining wraps h, performing the retain itself.
func StrongRetaining[T Instance](h ID) Strong[T] {
	rt().Retain(h)
	return Strong[T]{h: h}
}

// Handle returns the wrapped handle.
func (s *Strong[T]) Handle() ID {
	s.check()
	return s.h
}

// Guaranteed returns a borrowed non-owning view of the cell.
func (s *Strong[T]) Guaranteed() Guaranteed[T] {
	s.check()
	return Guaranteed[T]{h: s.h}
}

// Release gives up the retain unit. Exactly-once: a second Release on
// the same cell panics rather than over-releasing the foreign object.
func (s *Strong[T]) Release() {
	s.check()
	s.released = true
	rt().Release(s.h)
}

// Autoreleasing consumes the cell, deferring its retain unit to pool:
// exactly one autorelease is performed and the cell is dead afterwards.
func (s *Strong[T]) Autoreleasing(pool *Pool) Autoreleased[T] {
	pool.require()
	s.check()
	s.released = true
	rt().Autorelease(s.h)
	return Autoreleased[T]{h: s.h, pool: pool}
}

// Leak consumes the cell without releasing. The retain unit is handed
// to the caller, who owes the foreign runtime a release. Used when
// implementing a +1 return convention.
func (s *Strong[T]) Leak() Guaranteed[T] {
	s.check()
	s.released = true
	return Guaranteed[T]{h: s.h}
}

func (s *Strong[T]) check() {
	if s.released {
		panic("objc: use of Strong cell after Release")
	}
	if s.h == 0 {
		panic("objc: use of zero Strong cell")
	}
}

// Autoreleased wraps a handle whose liveness is borrowed from an
// autorelease pool. The cell never releases; the pool pop does. It is
// valid only until its pool is popped, which is checked on access.
type Autoreleased[T Instance] struct {
	h    ID
	pool *Pool
}

// Handle returns the wrapped handle. Panics if the pool was popped.
func (a Autoreleased[T]) Handle() ID {
	a.check()
	return a.h
}

// Guaranteed returns a borrowed non-owning view of the cell.
func (a Autoreleased[T]) Guaranteed() Guaranteed[T] {
	a.check()
	return Guaranteed[T]{h: a.h}
}

// Retain promotes the borrow to a Strong cell that survives the pool
// pop. This is a plain retain; for promoting +0 callee return values
// prefer CallObjectRetained, which uses the runtime's fast path.
func (a Autoreleased[T]) Retain() Strong[T] {
	a.check()
	rt().Retain(a.h)
	return Strong[T]{h: a.h}
}

func (a Autoreleased[T]) check() {
	if a.pool == nil {
		panic("objc: use of zero Autoreleased cell")
	}
	if a.pool.popped {
		panic("objc: use of Autoreleased cell after its pool was popped")
	}
}
