package models

import "time"

// Task status values.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// User is an account that owns tasks. Passwords are bcrypt hashes and are
// never serialized.
type User struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"            json:"id"`
	Name      string    `gorm:"type:varchar(255);not null"             json:"name"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"not null"                               json:"-"`
	Role      string    `gorm:"type:varchar(16);default:'user'"        json:"role"`
	CreatedAt time.Time `                                              json:"createdAt"`
	UpdatedAt time.Time `                                              json:"updatedAt"`
}

// Task belongs to a user and moves between pending and completed.
type Task struct {
	ID          string    `gorm:"type:varchar(36);primaryKey"              json:"id"`
	Title       string    `gorm:"type:varchar(100);not null"               json:"title"`
	Description string    `gorm:"type:varchar(500)"                        json:"description"`
	Status      string    `gorm:"type:varchar(16);default:'pending';index" json:"status"`
	OwnerID     string    `gorm:"type:varchar(36);index;not null"          json:"ownerId"`
	Owner       *User     `gorm:"foreignKey:OwnerID"                       json:"owner,omitempty"`
	CreatedAt   time.Time `                                                json:"createdAt"`
	UpdatedAt   time.Time `                                                json:"updatedAt"`
}
