package users

import (
	"user_management_backend/platform/events"

	"github.com/google/uuid"
)

// EventEmailSyncFailed is published when a profile email change could not be
// propagated to the identity provider.
const EventEmailSyncFailed = "users.email_sync_failed"

// EmailSyncFailed reports a profile whose email diverges from the principal.
type EmailSyncFailed struct {
	events.BaseEvent
	UserID uuid.UUID `json:"userId"`
	Email  string    `json:"email"`
	Reason string    `json:"reason"`
}

// EventName implements events.Event.
func (EmailSyncFailed) EventName() string { return EventEmailSyncFailed }
