package models

import "time"

// Position is the closed set of role tokens a user may hold. Anything
// outside this set is rejected at registration time.
type Position string

const (
	PositionCEO        Position = "CEO"
	PositionCTO        Position = "CTO"
	PositionTeamLead   Position = "TEAM_LEAD"
	PositionProgrammer Position = "PROGRAMMER"
	PositionQA         Position = "QA"
	PositionDesigner   Position = "DESIGNER"
	PositionManager    Position = "MANAGER"
)

// Positions lists every valid role token.
var Positions = []Position{
	PositionCEO,
	PositionCTO,
	PositionTeamLead,
	PositionProgrammer,
	PositionQA,
	PositionDesigner,
	PositionManager,
}

// Valid reports whether p is a member of the role set.
func (p Position) Valid() bool {
	for _, v := range Positions {
		if p == v {
			return true
		}
	}
	return false
}

// User represents a row in the PostgreSQL users table. ProjectName carries
// the joined project name and is empty when the user has no project.
type User struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Position    Position   `json:"position"`
	ProjectID   *int64     `json:"-"`
	ProjectName string     `json:"project"`
	Password    string     `json:"-"` // never serialize
	LastLogin   *time.Time `json:"last_login"`
	CreatedAt   time.Time  `json:"created_at"`
}

// RegisterRequest is the JSON body for POST /api/v1/users/register.
// RePassword is used only for confirmation and is discarded after validation.
type RegisterRequest struct {
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Position   string `json:"position"`
	Password   string `json:"password"`
	RePassword string `json:"re_password"`
}

// UserResponse is the transport-facing view of a user: relations are
// flattened to display values, so Project holds the project name.
type UserResponse struct {
	Username  string     `json:"username"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	Position  Position   `json:"position"`
	LastLogin *time.Time `json:"last_login"`
	Project   string     `json:"project"`
}
