package models

import (
	"time"

	"github.com/google/uuid"
)

// LED states as stored in led_states.status.
const (
	LEDOff = 0
	LEDOn  = 1
)

// LEDStateRow is a row of the led_states table.
type LEDStateRow struct {
	ID        uuid.UUID `db:"id"`
	Status    int       `db:"status"`
	Timestamp time.Time `db:"timestamp"`
}

// SensorRow is a row of sensor_temp as read by the IoT backend.
type SensorRow struct {
	Temperature float64   `db:"temperature"`
	Humidity    float64   `db:"humidity"`
	RecordedAt  time.Time `db:"recorded_at"`
}
