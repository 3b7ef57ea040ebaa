package events

import "testing"

func TestEmitRunsListenersInRegistrationOrder(t *testing.T) {
	hub := NewHub[string, int](nil)

	var order []int
	hub.Subscribe("tick", func(int) { order = append(order, 1) })
	hub.Subscribe("tick", func(int) { order = append(order, 2) })
	hub.Subscribe("other", func(int) { order = append(order, 99) })

	hub.Emit("tick", 0)

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("unexpected dispatch order %v", order)
	}
}

func TestUnsubscribeRemovesOnlyItsRegistration(t *testing.T) {
	hub := NewHub[string, int](nil)

	calls := 0
	unsub := hub.Subscribe("tick", func(int) { calls++ })
	hub.Subscribe("tick", func(int) { calls += 10 })

	unsub()
	unsub() // calling twice is harmless

	hub.Emit("tick", 0)
	if calls != 10 {
		t.Fatalf("expected only the surviving listener to run, got %d", calls)
	}
	if hub.ListenerCount("tick") != 1 {
		t.Fatalf("expected 1 listener, got %d", hub.ListenerCount("tick"))
	}
}

func TestPanickingListenerDoesNotStopSiblings(t *testing.T) {
	hub := NewHub[string, int](nil)

	ran := false
	hub.Subscribe("tick", func(int) { panic("boom") })
	hub.Subscribe("tick", func(int) { ran = true })

	hub.Emit("tick", 0)
	if !ran {
		t.Fatal("listener after the panicking one did not run")
	}
}

func TestEmitWithoutListenersIsNoOp(t *testing.T) {
	hub := NewHub[string, struct{}](nil)
	hub.Emit("silent", struct{}{})
}

func TestListenerReceivesPayload(t *testing.T) {
	hub := NewHub[string, string](nil)

	var got string
	hub.Subscribe("named", func(payload string) { got = payload })
	hub.Emit("named", "hello")
	if got != "hello" {
		t.Fatalf("payload lost: %q", got)
	}
}
