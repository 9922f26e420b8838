package model

import "strings"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleTherapist Role = "therapist"
	RoleLearner   Role = "learner"
	RoleUser      Role = "user"
)

// AllRoles is the closed set of roles seeded at startup.
var AllRoles = []Role{RoleAdmin, RoleTherapist, RoleLearner, RoleUser}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTherapist, RoleLearner, RoleUser:
		return true
	}
	return false
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Principal is the authenticated caller of a request.
type Principal struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
