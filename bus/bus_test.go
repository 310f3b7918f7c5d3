// bus/bus_test.go
package bus

import (
	"sort"
	"testing"
	"time"
)

const (
	TopicHAL   = "hal"
	TopicState = "state"
)

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(Topic{TopicHAL, TopicState})

	msg := conn.NewMessage(Topic{TopicHAL, TopicState}, "hello", false)
	conn.Publish(msg)

	select {
	case got := <-sub.Channel():
		if got.Payload.(string) != "hello" {
			t.Errorf("expected payload 'hello', got %v", got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message")
	}
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	msg := conn.NewMessage(Topic{TopicHAL, TopicState}, "persist", true)
	conn.Publish(msg)

	sub := conn.Subscribe(Topic{TopicHAL, TopicState})

	select {
	case got := <-sub.Channel():
		if got.Payload.(string) != "persist" {
			t.Errorf("expected retained payload 'persist', got %v", got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for retained message")
	}
	if m, ok := b.Retained(Topic{TopicHAL, TopicState}); !ok || m.Payload != "persist" {
		t.Fatalf("Retained = %v, %v", m, ok)
	}
}

// -----------------------------------------------------------------------------
// Wildcards
// -----------------------------------------------------------------------------

func TestTopicMatches(t *testing.T) {
	cases := []struct {
		pattern, topic Topic
		want           bool
	}{
		{T("a", "b"), T("a", "b"), true},
		{T("a", "b"), T("a", "c"), false},
		{T("a", "b"), T("a", "b", "c"), false},
		{T("a", "+"), T("a", "x"), true},
		{T("a", "+"), T("a"), false},
		{T("a", "+"), T("a", "x", "y"), false},
		{T("a", "#"), T("a"), true},
		{T("a", "#"), T("a", "x", "y"), true},
		{T("#"), T("anything", "at", "all"), true},
		{T("a", "+", "#"), T("a"), false},
		{T("a", "+", "#"), T("a", "x"), true},
		{T("a", "+", "#"), T("a", "x", "y"), true},
	}
	for _, c := range cases {
		if got := c.pattern.Matches(c.topic); got != c.want {
			t.Errorf("%s matches %s = %v, want %v", c.pattern, c.topic, got, c.want)
		}
	}
}

func TestWildcard_SingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("hal", "cap", "io", "led", "+", "value"))
	c.Publish(c.NewMessage(T("hal", "cap", "io", "led", "user", "value"), 1, false))
	c.Publish(c.NewMessage(T("hal", "cap", "io", "led", "user", "other"), 2, false))
	c.Publish(c.NewMessage(T("hal", "cap", "io", "led", "status", "value"), 3, false))

	got := drainPayloads(sub, 2, 200*time.Millisecond)
	assertUnorderedEqual(t, got, []any{1, 3})
	expectNoMessage(t, sub, 20*time.Millisecond)
}

func TestWildcard_MultiLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("config", "#"))
	c.Publish(c.NewMessage(T("config"), "root", false))
	c.Publish(c.NewMessage(T("config", "board", "name"), "deep", false))
	c.Publish(c.NewMessage(T("hal", "state"), "elsewhere", false))

	got := drainPayloads(sub, 2, 200*time.Millisecond)
	assertUnorderedEqual(t, got, []any{"root", "deep"})
	expectNoMessage(t, sub, 20*time.Millisecond)
}

func TestWildcard_RetainedDelivery(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	c.Publish(c.NewMessage(T("config", "board", "name"), "nucleo", true))
	c.Publish(c.NewMessage(T("config", "board", "led"), "PB7", true))
	c.Publish(c.NewMessage(T("hal", "state"), "ready", true))

	sub := c.Subscribe(T("config", "board", "+"))
	got := drainPayloads(sub, 2, 200*time.Millisecond)
	assertUnorderedEqual(t, got, []any{"nucleo", "PB7"})
	expectNoMessage(t, sub, 20*time.Millisecond)
}

func TestRetained_ClearWithNil(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	c.Publish(c.NewMessage(T("hal", "state"), "ready", true))
	c.Publish(c.NewMessage(T("hal", "state"), nil, true))

	if _, ok := b.Retained(T("hal", "state")); ok {
		t.Fatal("retained value not cleared")
	}
	sub := c.Subscribe(T("hal", "state"))
	expectNoMessage(t, sub, 20*time.Millisecond)
}

// -----------------------------------------------------------------------------
// Queues and lifecycle
// -----------------------------------------------------------------------------

func TestFullQueueDropsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	sub := c.Subscribe(T("x"))

	for i := 1; i <= 4; i++ {
		c.Publish(c.NewMessage(T("x"), i, false))
	}
	got := drainPayloads(sub, 2, 100*time.Millisecond)
	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Fatalf("got %v, want [3 4]", got)
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	sub := c.Subscribe(T("x"))
	sub.Unsubscribe()

	if _, ok := <-sub.Channel(); ok {
		t.Fatal("channel still open")
	}
	// Publishing after unsubscribe must not panic on the closed channel.
	c.Publish(c.NewMessage(T("x"), 1, false))
	sub.Unsubscribe()
}

func TestDisconnect(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s1 := c.Subscribe(T("a"))
	s2 := c.Subscribe(T("b", "#"))
	c.Disconnect()

	for _, s := range []*Subscription{s1, s2} {
		if _, ok := <-s.Channel(); ok {
			t.Fatalf("%s still open", s.Topic())
		}
	}
	other := b.NewConnection("other")
	other.Publish(other.NewMessage(T("a"), 1, false))
}

// -----------------------------------------------------------------------------
// Helpers
// -----------------------------------------------------------------------------

func drainPayloads(sub *Subscription, n int, timeout time.Duration) []any {
	var out []any
	deadline := time.After(timeout)
	for len(out) < n {
		select {
		case m := <-sub.Channel():
			out = append(out, m.Payload)
		case <-deadline:
			return out
		}
	}
	return out
}

func expectNoMessage(t *testing.T, sub *Subscription, d time.Duration) {
	t.Helper()
	select {
	case m := <-sub.Channel():
		t.Fatalf("unexpected message on %s: %v", m.Topic, m.Payload)
	case <-time.After(d):
	}
}

func assertUnorderedEqual(t *testing.T, got, want []any) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	gs := make([]string, len(got))
	ws := make([]string, len(want))
	for i := range got {
		gs[i] = toString(got[i])
		ws[i] = toString(want[i])
	}
	sort.Strings(gs)
	sort.Strings(ws)
	for i := range gs {
		if gs[i] != ws[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return string(rune('0' + x))
	default:
		return "?"
	}
}
