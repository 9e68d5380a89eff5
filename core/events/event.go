package events

// Event represents a structured state change emitted by a transition.
type Event interface {
	EventType() string
}

// Emitter broadcasts events to downstream subscribers (e.g. indexers, logs).
type Emitter interface {
	Emit(Event)
}

// NoopEmitter satisfies the Emitter interface while discarding all events. It
// is the default for engines whose caller never configured a sink.
type NoopEmitter struct{}

// Emit implements the Emitter interface.
func (NoopEmitter) Emit(Event) {}

// Queue buffers events until the surrounding transition commits. A transition
// that reverts drops the queued events so subscribers never observe effects of
// a rejected call.
type Queue struct {
	pending []Event
}

// Emit appends the event to the pending buffer.
func (q *Queue) Emit(evt Event) {
	if q == nil || evt == nil {
		return
	}
	q.pending = append(q.pending, evt)
}

// Flush forwards all pending events to the sink and clears the buffer.
func (q *Queue) Flush(sink Emitter) {
	if q == nil {
		return
	}
	if sink != nil {
		for _, evt := range q.pending {
			sink.Emit(evt)
		}
	}
	q.pending = nil
}

// Drop clears the buffer without forwarding anything.
func (q *Queue) Drop() {
	if q == nil {
		return
	}
	q.pending = nil
}
