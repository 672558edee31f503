package notify

// Relay is the single-slot hand-off between the notification listener and
// the render loop. The listener is the only writer and the loop the only
// reader. Offer never blocks: when the slot is occupied the stale event is
// discarded in favor of the new one.
type Relay struct {
	ch chan Event
}

// NewRelay creates an empty relay.
func NewRelay() *Relay {
	return &Relay{ch: make(chan Event, 1)}
}

// Offer stores ev in the slot. It reports whether an older pending event,
// or ev itself, was dropped to make that happen.
func (r *Relay) Offer(ev Event) (dropped bool) {
	for {
		select {
		case r.ch <- ev:
			return dropped
		default:
		}

		// Slot full: evict the pending event and retry. A concurrent Poll
		// may empty the slot first, in which case nothing was evicted.
		select {
		case <-r.ch:
			dropped = true
		default:
		}
	}
}

// Poll returns the pending event, if any, without blocking.
func (r *Relay) Poll() (Event, bool) {
	select {
	case ev := <-r.ch:
		return ev, true
	default:
		return Event{}, false
	}
}
