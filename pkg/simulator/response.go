package simulator

import (
	"fmt"

	"github.com/davsim/davsim/internal/metrics"
	"github.com/davsim/davsim/pkg/proto"
)

// State tracks a response through its lifecycle. Every response passes
// through Deferred: completion is never observable in the same turn as
// the request that produced it.
type State int

const (
	// StateCreated: the handler has computed the result.
	StateCreated State = iota
	// StateDeferred: the result is queued for asynchronous delivery.
	StateDeferred
	// StateDelivered: the caller's completion callbacks have fired.
	StateDelivered
	// StateAborted: the response was cancelled before delivery; it
	// carries no body and no status.
	StateAborted
)

// PendingResponse is the protocol result computed by a handler, paired
// with the request it answers. It is owned by the loop until delivered.
type PendingResponse struct {
	req proto.Request
	res proto.Response

	state     State
	aborted   bool
	callbacks []func(*PendingResponse)
}

// Request returns the request this response answers.
func (p *PendingResponse) Request() proto.Request {
	return p.req
}

// State returns the current lifecycle state.
func (p *PendingResponse) State() State {
	return p.state
}

// Done reports whether the response has been delivered or aborted.
func (p *PendingResponse) Done() bool {
	return p.state == StateDelivered || p.state == StateAborted
}

// Aborted reports whether the response was cancelled before delivery.
func (p *PendingResponse) Aborted() bool {
	return p.state == StateAborted
}

// Abort marks the response as cancelled. It must be called before the
// loop delivers it. Tree mutations already applied by the handler stay
// applied: the write happened, only the acknowledgment is lost.
func (p *PendingResponse) Abort() {
	if p.Done() {
		panic("simulator: Abort after delivery")
	}
	p.aborted = true
}

// OnFinished registers a completion callback. Callbacks registered
// before delivery fire in registration order on the delivery turn; a
// callback registered after delivery fires immediately.
func (p *PendingResponse) OnFinished(fn func(*PendingResponse)) {
	if p.Done() {
		fn(p)
		return
	}
	p.callbacks = append(p.callbacks, fn)
}

// StatusCode returns the delivered status. It panics while the response
// is pending or when it was aborted.
func (p *PendingResponse) StatusCode() int {
	p.mustBeDelivered()
	return p.res.StatusCode
}

// Header returns a delivered response header value.
func (p *PendingResponse) Header(key string) string {
	p.mustBeDelivered()
	return p.res.Header[key]
}

// Body returns the delivered response body.
func (p *PendingResponse) Body() []byte {
	p.mustBeDelivered()
	return p.res.Body
}

func (p *PendingResponse) mustBeDelivered() {
	if p.state != StateDelivered {
		panic(fmt.Sprintf("simulator: response for %s %s observed in state %d", p.req.Verb, p.req.Path, p.state))
	}
}

// deliver runs on the loop, exactly once per response.
func (p *PendingResponse) deliver() {
	if p.Done() {
		panic("simulator: double delivery")
	}
	if p.aborted {
		p.state = StateAborted
		metrics.RecordDelivery("aborted")
	} else {
		p.state = StateDelivered
		metrics.RecordDelivery("delivered")
	}
	callbacks := p.callbacks
	p.callbacks = nil
	for _, fn := range callbacks {
		fn(p)
	}
}
