// Package simulator implements the deterministic remote-store double: a
// protocol router and per-verb handlers over a virtual file tree, with
// the asynchronous completion contract of a real transport. A request
// returns a not-yet-complete response immediately; the result becomes
// observable only after the shared event loop is advanced.
package simulator

// Loop is the cooperative scheduler shared by the simulator and the
// client under test. It is single-threaded by design: nothing runs until
// the driver advances it, and tasks never interleave.
type Loop struct {
	tasks []func()
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{}
}

// Post queues a task for a later turn.
func (l *Loop) Post(fn func()) {
	l.tasks = append(l.tasks, fn)
}

// Advance runs the next queued task. Returns false when the queue is
// empty.
func (l *Loop) Advance() bool {
	if len(l.tasks) == 0 {
		return false
	}
	fn := l.tasks[0]
	l.tasks = l.tasks[1:]
	fn()
	return true
}

// Drain runs tasks until the queue is empty, including tasks queued
// while draining, and returns how many ran.
func (l *Loop) Drain() int {
	n := 0
	for l.Advance() {
		n++
	}
	return n
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	return len(l.tasks)
}
