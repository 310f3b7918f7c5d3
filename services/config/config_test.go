// config/config_test.go
package config

import (
	"testing"
	"time"

	"stm32blink/bus"
	"stm32blink/internal/boards"
)

func TestConfig_PublishRetainedPerField(t *testing.T) {
	b := bus.NewBus(16)
	conn := b.NewConnection("test-config")
	svc := NewConfigService()

	svc.Publish(conn, boards.NucleoF767ZI)

	// Subscribe after publishing; retained messages should arrive immediately.
	sub := conn.Subscribe(bus.T(configPrefix, boardKey, "#"))

	got := map[string]any{}
	deadline := time.After(500 * time.Millisecond)
	for len(got) < 7 {
		select {
		case m := <-sub.Channel():
			if len(m.Topic) != 3 {
				t.Fatalf("unexpected topic: %v", m.Topic)
			}
			if !m.Retained {
				t.Fatalf("%s not retained", m.Topic)
			}
			got[m.Topic[2]] = m.Payload
		case <-deadline:
			t.Fatalf("timed out with %d fields: %v", len(got), got)
		}
	}

	if got["name"] != "nucleo-f767zi" {
		t.Fatalf("name = %v", got["name"])
	}
	if got["led"] != "PB7" {
		t.Fatalf("led = %v", got["led"])
	}
	if got["sysclk"] != uint32(216_000_000) {
		t.Fatalf("sysclk = %v", got["sysclk"])
	}
	if got["bypass"] != true {
		t.Fatalf("bypass = %v", got["bypass"])
	}
}

func TestConfig_RepublishReplaces(t *testing.T) {
	b := bus.NewBus(4)
	conn := b.NewConnection("test-config")
	svc := NewConfigService()

	svc.Publish(conn, boards.NucleoF767ZI)
	svc.Publish(conn, boards.DiscoF769NI)

	m, ok := b.Retained(Topic("led"))
	if !ok || m.Payload != "PJ13" {
		t.Fatalf("retained led = %v, %v", m, ok)
	}
}
