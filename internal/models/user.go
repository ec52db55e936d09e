package models

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies what kind of account a user holds
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTutor   Role = "tutor"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

// User represents a user in the system
type User struct {
	Base
	FirstName          string     `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName           string     `gorm:"type:varchar(100);not null" json:"last_name"`
	Email              string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone              *string    `gorm:"type:varchar(20);uniqueIndex" json:"phone"`
	PasswordHash       string     `gorm:"type:varchar(255);not null" json:"-"`
	Role               Role       `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	IsActive           bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt        *time.Time `json:"last_login_at"`
	LanguagePreference string     `gorm:"type:varchar(10);default:'en'" json:"language_preference"`
	ProfileImage       *string    `gorm:"type:text" json:"profile_image"`
	IsEmailVerified    bool       `gorm:"default:false" json:"is_email_verified"`
	VerificationToken  *string    `gorm:"type:varchar(64);index" json:"-"`
}

// PasswordResetToken is a single-use token for the password reset flow.
// Rows are deleted on consumption; expired rows are swept by the cleanup job.
type PasswordResetToken struct {
	Base
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Token     string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
