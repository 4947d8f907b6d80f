package event

import "context"

// Result is the outcome of one trigger. For immediate triggers the fields
// are final when Trigger returns; for queued triggers they are final once
// Done is closed (use Wait).
type Result struct {
	// Event is the event that was dispatched.
	Event Event

	// Success is false when any listener failed. An event with zero
	// listeners still succeeds.
	Success bool

	// Error holds the failure messages, joined with "; " when more than
	// one listener failed. Set if and only if Success is false.
	Error string

	// Value is the return value of the handler when the event had exactly
	// one listener and it succeeded; nil otherwise.
	Value any

	done chan struct{}
}

func newResult(evt Event) *Result {
	return &Result{
		Event:   evt,
		Success: true,
		done:    make(chan struct{}),
	}
}

// complete marks dispatch finished. Fields must not be written after this.
func (r *Result) complete() {
	close(r.done)
}

func (r *Result) fail(msg string) {
	r.Success = false
	r.Error = msg
}

// Done is closed once dispatch has finished and the result fields are
// final.
func (r *Result) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until dispatch finishes or ctx is cancelled. It returns
// ctx.Err() on cancellation, nil otherwise; dispatch failures are reported
// through Success and Error, never as a returned error.
func (r *Result) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
