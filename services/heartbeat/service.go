package heartbeat

import (
	"context"
	"sync/atomic"
	"time"

	"stm32blink/bus"
	"stm32blink/types"
)

var (
	topicLEDValues = bus.T("hal", "cap", "io", "led", "+", "value")
	topicHALState  = bus.T("hal", "state")
)

// Service watches the LED capability and reports, once per interval, how
// many level changes it saw.
type Service struct {
	Interval time.Duration

	toggles atomic.Uint32
	last    atomic.Uint32
	state   atomic.Value // string
}

// Toggles is the number of LED value messages seen so far.
func (s *Service) Toggles() uint32 { return s.toggles.Load() }

// State is the last HAL level seen, or "" before any.
func (s *Service) State() string {
	v, _ := s.state.Load().(string)
	return v
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection, ready chan<- struct{}) {
	ledSub := conn.Subscribe(topicLEDValues)
	defer conn.Unsubscribe(ledSub)
	stSub := conn.Subscribe(topicHALState)
	defer conn.Unsubscribe(stSub)
	if ready != nil {
		close(ready)
	}

	iv := s.Interval
	if iv <= 0 {
		iv = time.Second
	}
	tick := time.NewTicker(iv)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case <-tick.C:
			n := s.toggles.Load()
			if n == s.last.Swap(n) {
				println("Warn: heartbeat: no LED activity")
				continue
			}
			println("Info: heartbeat:", n, "LED writes")
		case msg := <-ledSub.Channel():
			if _, ok := msg.Payload.(types.LEDValue); ok {
				s.toggles.Add(1)
			}
		case msg := <-stSub.Channel():
			if st, ok := msg.Payload.(types.HALState); ok {
				s.state.Store(st.Level)
				println("Info: heartbeat: hal", st.Level, st.Status)
			}
		}
	}
}

// Run the heartbeat service until ctx is done.
func (s *Service) Run(ctx context.Context, conn *bus.Connection) error {
	s.serviceLoop(ctx, conn, nil)
	return nil
}

// Start the heartbeat service. It returns once its subscriptions exist.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	ready := make(chan struct{})
	go s.serviceLoop(ctx, conn, ready)
	<-ready
	return nil
}
