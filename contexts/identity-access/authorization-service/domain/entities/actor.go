package entities

import "time"

type Role string

const (
	RoleMember    Role = "member"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// Actor is the resolved, already-authenticated identity that every mutating
// call carries. Credential parsing happens upstream; this context only answers
// existence, suspension, and capability questions.
type Actor struct {
	ActorID   string
	Username  string
	Role      Role
	Suspended bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Actor) IsStaff() bool {
	return a.Role == RoleModerator || a.Role == RoleAdmin
}
