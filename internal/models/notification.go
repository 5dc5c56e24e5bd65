package models

import "time"

// Target selects the audience of a notification.
type Target string

const (
	TargetAll       Target = "all"
	TargetEmployers Target = "employers"
	TargetYouths    Target = "youths"
)

// Status describes the delivery state of a notification. The client only
// ever produces StatusSent; the other values are accepted when loading
// previously stored records.
type Status string

const (
	StatusSent      Status = "sent"
	StatusScheduled Status = "scheduled"
	StatusDraft     Status = "draft"
)

// Notification is a single platform announcement. ScheduledFor is display
// metadata only and never delays visibility. Read is a per-record flag
// shared by every session on the same device.
type Notification struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	Target       Target    `json:"target"`
	ScheduledFor time.Time `json:"scheduledFor"`
	CreatedAt    time.Time `json:"createdAt"`
	Status       Status    `json:"status"`
	Read         bool      `json:"read"`
}

// VisibleTo reports whether a notification with the given target is part of
// the role-filtered view for role. Admins see the unfiltered set.
func (t Target) VisibleTo(role Role) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleYouth:
		return t == TargetAll || t == TargetYouths
	case RoleEmployer:
		return t == TargetAll || t == TargetEmployers
	}
	return false
}
