package eventbus

import "time"

// Topics published by the domain services.
const (
	TopicUserRegistered = "auth.user.registered"
	TopicUserLoggedIn   = "auth.user.logged_in"
	TopicUserLoggedOut  = "auth.user.logged_out"
	TopicTaskCreated    = "task.created"
	TopicTaskDeleted    = "task.deleted"
)

// AuthEvent describes an authentication lifecycle occurrence.
type AuthEvent struct {
	UserID string
	Email  string
	Role   string
	// Degraded marks logins whose revocation entry could not be recorded.
	Degraded bool
	At       time.Time
}

// TaskEvent describes a task lifecycle occurrence.
type TaskEvent struct {
	TaskID  string
	OwnerID string
	At      time.Time
}
