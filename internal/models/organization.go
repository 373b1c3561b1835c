package models

import "time"

const (
	RoleOwner   = "owner"
	RoleManager = "manager"
)

type Organization struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Membership ties a user to an organization with a role. A user holds at
// most one membership per organization (enforced by a unique constraint).
type Membership struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	OrgID     string    `json:"org_id" db:"org_id"`
	Role      string    `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// MembershipInvitation is a pending, single-use invite. Creating a new
// invitation for the same (org, email) supersedes the previous one; the row
// is deleted when the token is consumed.
type MembershipInvitation struct {
	ID        string    `json:"id" db:"id"`
	OrgID     string    `json:"org_id" db:"org_id"`
	Email     string    `json:"email" db:"email"`
	Token     string    `json:"-" db:"token"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Member is the membership row joined with its user, as listed by the
// members endpoint.
type Member struct {
	UserID    string    `json:"user_id" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	Role      string    `json:"role" db:"role"`
	JoinedAt  time.Time `json:"joined_at" db:"joined_at"`
}

type CreateOrganizationInput struct {
	Name string `json:"name"`
}

type InviteInput struct {
	Email string `json:"email"`
}
