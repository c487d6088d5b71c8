package sim

import (
	"testing"
)

// TestEventHeap_TimestampOrdering tests that events are popped in time order
func TestEventHeap_TimestampOrdering(t *testing.T) {
	h := NewEventHeap()

	h.Schedule(&DepartureEvent{time: 100, instanceID: 1})
	h.Schedule(&DepartureEvent{time: 50, instanceID: 2})
	h.Schedule(&ExpirationEvent{time: 150, instanceID: 3})

	for _, want := range []float64{50, 100, 150} {
		e := h.PopNext()
		if e.Timestamp() != want {
			t.Errorf("popped timestamp = %v, want %v", e.Timestamp(), want)
		}
	}

	if h.Len() != 0 {
		t.Errorf("heap should be empty, len = %d", h.Len())
	}
}

// TestEventHeap_InstanceEventsBeforeArrival tests the tie rule at equal
// timestamps: a pending instance transition wins over an arrival.
func TestEventHeap_InstanceEventsBeforeArrival(t *testing.T) {
	cases := []struct {
		name     string
		instance Event
	}{
		{"departure", &DepartureEvent{time: 100, instanceID: 1}},
		{"expiration", &ExpirationEvent{time: 100, instanceID: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewEventHeap()
			// Arrival scheduled first must still lose the tie.
			h.Schedule(&ArrivalEvent{time: 100})
			h.Schedule(tc.instance)

			if first := h.PopNext(); first.Kind() == KindArrival {
				t.Errorf("arrival popped before %s at equal timestamp", tc.name)
			}
			if second := h.PopNext(); second.Kind() != KindArrival {
				t.Errorf("second pop kind = %s, want arrival", second.Kind())
			}
		})
	}
}

// TestEventHeap_InstanceIDOrdering tests that tied instance events are
// popped in creation order (lower instance ID first).
func TestEventHeap_InstanceIDOrdering(t *testing.T) {
	h := NewEventHeap()

	h.Schedule(&DepartureEvent{time: 100, instanceID: 3})
	h.Schedule(&DepartureEvent{time: 100, instanceID: 1})
	h.Schedule(&ExpirationEvent{time: 100, instanceID: 2})

	for _, want := range []uint64{1, 2, 3} {
		e := h.PopNext()
		if e.InstanceID() != want {
			t.Errorf("popped instance %d, want %d", e.InstanceID(), want)
		}
	}
}

// TestEventHeap_InsertionOrderLastResort tests that two events for the same
// instance at the same time pop in scheduling order.
func TestEventHeap_InsertionOrderLastResort(t *testing.T) {
	h := NewEventHeap()

	stale := &ExpirationEvent{time: 100, instanceID: 1, epoch: 0}
	fresh := &DepartureEvent{time: 100, instanceID: 1, epoch: 1}
	h.Schedule(stale)
	h.Schedule(fresh)

	if first := h.PopNext(); first != Event(stale) {
		t.Error("first pop should be the earlier-scheduled event")
	}
	if second := h.PopNext(); second != Event(fresh) {
		t.Error("second pop should be the later-scheduled event")
	}
}

// TestEventHeap_DeterministicOrdering tests that pop order does not depend
// on insertion order.
func TestEventHeap_DeterministicOrdering(t *testing.T) {
	build := func() []Event {
		return []Event{
			&ArrivalEvent{time: 50},
			&DepartureEvent{time: 100, instanceID: 2},
			&ArrivalEvent{time: 100},
			&ExpirationEvent{time: 100, instanceID: 1},
			&DepartureEvent{time: 200, instanceID: 1},
		}
	}

	pop := func(h *EventHeap) []Event {
		out := []Event{}
		for h.Len() > 0 {
			out = append(out, h.PopNext())
		}
		return out
	}

	h1 := NewEventHeap()
	for _, e := range build() {
		h1.Schedule(e)
	}

	h2 := NewEventHeap()
	events := build()
	for i := len(events) - 1; i >= 0; i-- {
		h2.Schedule(events[i])
	}

	order1 := pop(h1)
	order2 := pop(h2)

	if len(order1) != len(order2) {
		t.Fatalf("order lengths differ: %d vs %d", len(order1), len(order2))
	}
	for i := range order1 {
		if order1[i].Kind() != order2[i].Kind() ||
			order1[i].Timestamp() != order2[i].Timestamp() ||
			order1[i].InstanceID() != order2[i].InstanceID() {
			t.Errorf("position %d differs: %s@%v/%d vs %s@%v/%d", i,
				order1[i].Kind(), order1[i].Timestamp(), order1[i].InstanceID(),
				order2[i].Kind(), order2[i].Timestamp(), order2[i].InstanceID())
		}
	}

	// Expected: arrival@50, expiration@100 inst1, departure@100 inst2,
	// arrival@100, departure@200.
	wantKinds := []EventKind{KindArrival, KindExpiration, KindDeparture, KindArrival, KindDeparture}
	for i, k := range wantKinds {
		if order1[i].Kind() != k {
			t.Errorf("position %d: kind = %s, want %s", i, order1[i].Kind(), k)
		}
	}
}

// TestEventHeap_Peek tests Peek without removing
func TestEventHeap_Peek(t *testing.T) {
	h := NewEventHeap()

	if h.Peek() != nil {
		t.Error("Peek on empty heap should return nil")
	}

	h.Schedule(&ArrivalEvent{time: 100})
	h.Schedule(&DepartureEvent{time: 50, instanceID: 1})

	peeked := h.Peek()
	if peeked.Timestamp() != 50 {
		t.Errorf("Peek timestamp = %v, want 50", peeked.Timestamp())
	}
	if h.Len() != 2 {
		t.Errorf("Peek should not remove event, len = %d, want 2", h.Len())
	}

	popped := h.PopNext()
	if popped.Timestamp() != 50 {
		t.Errorf("PopNext timestamp = %v, want 50", popped.Timestamp())
	}
	if h.Len() != 1 {
		t.Errorf("after PopNext, len = %d, want 1", h.Len())
	}
}

// TestEventHeap_EmptyOperations tests operations on an empty heap
func TestEventHeap_EmptyOperations(t *testing.T) {
	h := NewEventHeap()

	if h.Len() != 0 {
		t.Errorf("new heap len = %d, want 0", h.Len())
	}
	if h.Peek() != nil {
		t.Error("Peek on empty heap should return nil")
	}
	if h.PopNext() != nil {
		t.Error("PopNext on empty heap should return nil")
	}
}
