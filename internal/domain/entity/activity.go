package entity

import "time"

// ActivityEvent es la forma en que una actividad viaja por el broker (JSON).
// EventID permite deduplicar en la ingesta (entrega at-least-once).
type ActivityEvent struct {
	EventID       string    `json:"event_id"`
	ActivityType  string    `json:"activity_type"`
	ActivityValue string    `json:"activity_value"`
	ActivityTime  time.Time `json:"activity_timestamp"`
	ItemID        int64     `json:"item_id"`
	ItemName      string    `json:"item_name"`
}

// ActivityRecord registro inmutable del historial de actividad (append-only).
type ActivityRecord struct {
	ID            int64
	EventID       string
	ActivityType  string
	ActivityValue string
	ItemID        int64
	ItemName      string
	ActivityTime  time.Time
	CreatedAt     time.Time
}
