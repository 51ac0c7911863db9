package notification

import "time"

type NotificationDTO struct {
	NotificationID string    `json:"notification_id"`
	Kind           string    `json:"kind"`
	Message        string    `json:"message"`
	URL            string    `json:"url,omitempty"`
	Read           bool      `json:"read"`
	CreatedAt      time.Time `json:"created_at"`
}
