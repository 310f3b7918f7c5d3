package config

import (
	"stm32blink/bus"
	"stm32blink/internal/boards"
)

// -----------------------------------------------------------------------------
// String constants (live in flash, not RAM)
// -----------------------------------------------------------------------------

const (
	serviceName  = "config"
	configPrefix = "config"
	boardKey     = "board"
)

// -----------------------------------------------------------------------------
// Config Service
// -----------------------------------------------------------------------------

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// Topic returns config/board/<key>.
func Topic(key string) bus.Topic { return bus.T(configPrefix, boardKey, key) }

// Publish announces the active board profile as retained messages, one per
// field, so late subscribers still see what the firmware was built for.
func (s *ConfigService) Publish(conn *bus.Connection, p boards.Profile) {
	fields := []struct {
		key string
		val any
	}{
		{"name", p.Name},
		{"led", p.LED},
		{"hse", p.HSE},
		{"bypass", p.Bypass},
		{"sysclk", p.Sysclk},
		{"half_period_ms", p.HalfPeriodMs},
		{"delay", p.Delay},
	}
	for _, f := range fields {
		conn.Publish(conn.NewMessage(Topic(f.key), f.val, true))
	}
}
