package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered user of the platform
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Cached streak values written back by the analytics engine.
	// The statistics read path never depends on them.
	CurrentStreak int        `json:"current_streak" gorm:"default:0"`
	MaxStreak     int        `json:"max_streak" gorm:"default:0"`
	LastActiveAt  *time.Time `json:"last_active_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *User) error
	FindByID(id uuid.UUID) (*User, error)
	FindByEmail(email string) (*User, error)
	FindUsernames(ids []uuid.UUID) (map[uuid.UUID]string, error)
	Update(user *User) error
	// UpdateCachedStreak persists derived streak values onto the user row.
	// Best-effort only: callers must not fail a read when this errors.
	UpdateCachedStreak(id uuid.UUID, currentStreak, maxStreak int, lastActive time.Time) error
}

// UserCreateRequest represents the data needed to create a new user
type UserCreateRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserResponse represents the public user data returned by the API
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// ToResponse converts a User to a UserResponse (hides sensitive data)
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}
