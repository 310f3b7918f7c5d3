package types

// ---- Common HAL state (retained) ----

type HALState struct {
	Level  string `json:"level"`  // "idle", "ready", "stopped"
	Status string `json:"status"` // freeform short code
	TS     int64  `json:"ts_ms"`
}

// HAL levels published on hal/state.
const (
	LevelIdle    = "idle"
	LevelReady   = "ready"
	LevelStopped = "stopped"
)

// ---- LED ----

// LEDValue is the retained value of an LED capability. Seq counts writes
// since startup.
type LEDValue struct {
	On  bool   `json:"on"`
	Seq uint32 `json:"seq"`
	TS  int64  `json:"ts_ms"`
}
