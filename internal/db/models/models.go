package models

import (
	"time"

	"github.com/uptrace/bun"
)

// AssignmentStatus is the lifecycle state of an assignment.
// Assignments start pending and transition exactly once.
type AssignmentStatus string

const (
	StatusPending  AssignmentStatus = "pending"
	StatusAccepted AssignmentStatus = "accepted"
	StatusRejected AssignmentStatus = "rejected"
)

// Valid reports whether s is a known lifecycle state.
func (s AssignmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s is a decided (non-pending) state.
func (s AssignmentStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// User represents a registered principal. The username is the external
// identity; user records are created once and never mutated in scope.
//
// Password is the raw stored secret. Storing credentials unhashed is part
// of the inherited external contract and is unsuitable for any production
// deployment.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        string    `bun:"id,pk,type:uuid" json:"-"`
	Username  string    `bun:"username,notnull,unique" json:"username"`
	Password  string    `bun:"password,notnull" json:"-"`
	IsAdmin   bool      `bun:"is_admin,notnull,default:false" json:"is_admin"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
}

// Assignment is a task record routed from a submitting user to a named
// admin. UserID is always the authenticated submitter's username; Admin is
// the caller-supplied target and is not validated to reference an existing
// admin user.
type Assignment struct {
	bun.BaseModel `bun:"table:assignments,alias:a"`

	ID        string           `bun:"id,pk,type:uuid" json:"id"`
	UserID    string           `bun:"user_id,notnull" json:"userId"`
	Task      string           `bun:"task,notnull" json:"task"`
	Admin     string           `bun:"admin,notnull" json:"admin"`
	Status    AssignmentStatus `bun:"status,notnull,default:'pending'" json:"status"`
	CreatedAt time.Time        `bun:"created_at,notnull" json:"created_at"`
}
