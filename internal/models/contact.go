package models

import "time"

// Contact message statuses.
const (
	ContactStatusNew       = "new"
	ContactStatusResponded = "responded"
	ContactStatusCompleted = "completed"
)

// ValidContactStatus reports whether s is one of the allowed statuses.
func ValidContactStatus(s string) bool {
	switch s {
	case ContactStatusNew, ContactStatusResponded, ContactStatusCompleted:
		return true
	}
	return false
}

// ContactMessage is a free-standing inbox entry from the public contact
// form. Messages are never deleted through the API; the admin only moves
// them between statuses.
type ContactMessage struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Subject           string    `json:"subject"`
	Message           string    `json:"message"`
	Status            string    `json:"status"`
	NotificationSent  bool      `json:"notificationSent"`
	NotificationEmail string    `json:"notificationEmail,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}
