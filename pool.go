package objc

// Pool is the capability token proving an autorelease pool is active.
// Dispatch operations that can produce autoreleased objects require one.
//
// Pools are strictly stack-disciplined and goroutine-local: WithPool
// nests, and a *Pool must not be carried to another goroutine. Cells
// scoped to a pool record it, so use of an autoreleased cell after its
// pool was popped is caught at run time (a cheap flag check, not a
// full lifetime proof).
type Pool struct {
	token  uintptr
	popped bool
}

// WithPool pushes a new autorelease pool, runs body with the capability
// token, and pops the pool on all exit paths, including panics. Objects
// autoreleased into the pool are released by the pop unless they were
// promoted to Strong cells first.
func WithPool(body func(p *Pool)) {
	r := rt()
	p := &Pool{token: r.PoolPush()}
	defer func() {
		p.popped = true
		r.PoolPop(p.token)
	}()
	body(p)
}

// AssumePool returns a pool token without pushing a pool.
//
// This is the escape hatch for code running inside a callback invoked
// by the foreign runtime, which guarantees an ambient pool higher on
// the call stack. If no pool is actually active, autoreleased objects
// leak (or the runtime logs a missing-pool complaint); that contract is
// documented, not checked.
func AssumePool() *Pool {
	return &Pool{}
}

// Active reports whether the pool token is still usable.
func (p *Pool) Active() bool {
	return p != nil && !p.popped
}

// require panics unless the pool token is live. Called on entry to every
// dispatch operation.
func (p *Pool) require() {
	if p == nil {
		panic("objc: nil *Pool passed to dispatch (use WithPool or AssumePool)")
	}
	if p.popped {
		panic("objc: use of *Pool after its pool was popped")
	}
}
