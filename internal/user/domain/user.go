package domain

import (
	"context"
	"time"

	"github.com/tair/grocery-pos/pkg/auth"
)

// User status
const (
	StatusActive      = "active"
	StatusDeactivated = "deactivated"
)

// User represents a store employee account
type User struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Username    string     `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Email       string     `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Password    string     `json:"-" gorm:"not null"` // Never expose password in JSON
	FullName    string     `json:"full_name" gorm:"size:120;not null"`
	Role        string     `json:"role" gorm:"size:20;not null;default:'cashier';index"`
	Status      string     `json:"status" gorm:"size:20;not null;default:'active';index"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "users"
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Actor returns the identity commands run as
func (u *User) Actor() auth.Actor {
	return auth.Actor{ID: u.ID, Username: u.Username, Role: u.Role}
}

// Filter narrows ListUsers
type Filter struct {
	Role   string
	Status string
	Limit  int
	Offset int
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	List(ctx context.Context, filter Filter) ([]User, int64, error)
	Update(ctx context.Context, user *User) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
	Count(ctx context.Context) (int64, error)
	CountBy(ctx context.Context, column, value string) (int64, error)
	ActiveIDsByRole(ctx context.Context, roles ...string) ([]uint, error)
}
