package main

// EventRing is a fixed-capacity ring buffer of decoded mouse events.
// Once full, each new event overwrites the oldest.
type EventRing struct {
	events []Event
	head   int // index where the next event will be written
	count  int // number of events currently stored
	cap    int // maximum number of events
	total  int // events added over the ring's lifetime
}

// NewEventRing creates a ring with the given capacity. Capacities
// below 1 are clamped to 1.
func NewEventRing(capacity int) *EventRing {
	if capacity < 1 {
		capacity = 1
	}
	return &EventRing{
		events: make([]Event, capacity),
		cap:    capacity,
	}
}

// Add appends an event, evicting the oldest when full.
func (r *EventRing) Add(ev Event) {
	r.events[r.head] = ev
	r.head = (r.head + 1) % r.cap
	if r.count < r.cap {
		r.count++
	}
	r.total++
}

// Len returns the number of events currently stored.
func (r *EventRing) Len() int {
	return r.count
}

// Total returns the number of events added over the ring's lifetime,
// including any that have been evicted.
func (r *EventRing) Total() int {
	return r.total
}

// Get returns the event at the given index, where 0 is the oldest.
func (r *EventRing) Get(index int) (Event, bool) {
	if index < 0 || index >= r.count {
		return Event{}, false
	}
	actual := (r.head - r.count + index + r.cap) % r.cap
	return r.events[actual], true
}

// Last returns up to n most recent events, oldest first.
func (r *EventRing) Last(n int) []Event {
	if n > r.count {
		n = r.count
	}
	if n <= 0 {
		return nil
	}
	result := make([]Event, n)
	for i := 0; i < n; i++ {
		result[i], _ = r.Get(r.count - n + i)
	}
	return result
}
