package models

import (
	"encoding/json"
	"time"
)

// Event kinds published on the bus.
const (
	EventLeadCreated       = "lead.created"
	EventLeadUpdated       = "lead.updated"
	EventLeadDeleted       = "lead.deleted"
	EventMembershipCreated = "membership.created"
	EventInvitationSent    = "invitation.sent"
)

// LeadEvent is the msgpack payload published for lead lifecycle changes.
type LeadEvent struct {
	Kind       string    `msgpack:"kind" json:"kind"`
	OrgID      string    `msgpack:"org_id" json:"org_id"`
	LeadID     string    `msgpack:"lead_id" json:"lead_id"`
	ActorID    string    `msgpack:"actor_id" json:"actor_id"`
	OccurredAt time.Time `msgpack:"occurred_at" json:"occurred_at"`
}

// MembershipEvent is published when a membership or invitation is created.
type MembershipEvent struct {
	Kind       string    `msgpack:"kind" json:"kind"`
	OrgID      string    `msgpack:"org_id" json:"org_id"`
	UserID     string    `msgpack:"user_id" json:"user_id"`
	Email      string    `msgpack:"email" json:"email"`
	Role       string    `msgpack:"role" json:"role"`
	OccurredAt time.Time `msgpack:"occurred_at" json:"occurred_at"`
}

// Activity is one row of an organization's event feed, written by the
// activity consumer.
type Activity struct {
	ID        string          `json:"id" db:"id"`
	OrgID     string          `json:"org_id" db:"org_id"`
	Kind      string          `json:"kind" db:"kind"`
	Payload   json.RawMessage `json:"payload" db:"payload"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}
