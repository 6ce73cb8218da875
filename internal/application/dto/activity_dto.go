package dto

import "time"

// ActivityResponse un registro del historial de actividad.
type ActivityResponse struct {
	ID                int64     `json:"id"`
	EventID           string    `json:"event_id"`
	ActivityType      string    `json:"activity_type"`
	ActivityValue     string    `json:"activity_value"`
	ItemID            int64     `json:"item_id"`
	ItemName          string    `json:"item_name"`
	ActivityTimestamp time.Time `json:"activity_timestamp"`
	CreatedAt         time.Time `json:"created_at"`
}

// ActivityListResponse historial paginado de un item.
type ActivityListResponse struct {
	Items []ActivityResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
