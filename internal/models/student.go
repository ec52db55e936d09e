package models

import (
	"time"

	"github.com/google/uuid"
)

// Student holds the learner profile attached to a user account.
// Parent accounts also get a student profile; the parent fields carry
// the guardian contact details.
type Student struct {
	Base
	UserID      uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"-"`
	Grade       *string    `gorm:"type:varchar(50)" json:"grade"`
	School      *string    `gorm:"type:varchar(255)" json:"school"`
	ParentName  *string    `gorm:"type:varchar(200)" json:"parent_name"`
	ParentPhone *string    `gorm:"type:varchar(20)" json:"parent_phone"`
	Location    *string    `gorm:"type:varchar(255)" json:"location"`
	Subjects    StringList `gorm:"type:text" json:"subjects"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`

	PreferredTeachingMode TeachingMode `gorm:"type:varchar(10);default:'both'" json:"preferred_teaching_mode"`
	JoinedAt              time.Time    `gorm:"not null" json:"joined_at"`
}
