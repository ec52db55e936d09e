package models

import (
	"time"

	"github.com/google/uuid"
)

// TeachingMode is where tutoring takes place
type TeachingMode string

const (
	TeachingModeHome   TeachingMode = "home"
	TeachingModeOnline TeachingMode = "online"
	TeachingModeBoth   TeachingMode = "both"
)

// Tutor holds the tutoring profile attached to a user account
type Tutor struct {
	Base
	UserID     uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	User       User       `gorm:"foreignKey:UserID" json:"-"`
	University *string    `gorm:"type:varchar(255)" json:"university"`
	Degree     *string    `gorm:"type:varchar(255)" json:"degree"`
	Subjects   StringList `gorm:"type:text" json:"subjects"`
	Experience *int       `json:"experience"`
	HourlyRate *float64   `gorm:"type:decimal(10,2)" json:"hourly_rate"`
	Bio        *string    `gorm:"type:text" json:"bio"`
	About      *string    `gorm:"type:text" json:"about"`
	Location   *string    `gorm:"type:varchar(255)" json:"location"`

	IsActive    bool     `gorm:"default:true" json:"is_active"`
	IsVerified  bool     `gorm:"default:false" json:"is_verified"`
	IsPremium   bool     `gorm:"default:false" json:"is_premium"`
	IsExclusive bool     `gorm:"default:false" json:"is_exclusive"`
	Rating      *float64 `gorm:"type:decimal(3,2)" json:"rating"`
	Gender      *string  `gorm:"type:varchar(10)" json:"gender"`

	ProfileImage *string `gorm:"type:text" json:"profile_image"`
	CoverImage   *string `gorm:"type:text" json:"cover_image"`

	Education           JSONArray  `gorm:"type:text" json:"education"`
	Certifications      JSONArray  `gorm:"type:text" json:"certifications"`
	PreferredLocations  StringList `gorm:"type:text" json:"preferred_locations"`
	PreferredCategories StringList `gorm:"type:text" json:"preferred_categories"`
	PreferredSubjects   StringList `gorm:"type:text" json:"preferred_subjects"`
	PreferredLevels     StringList `gorm:"type:text" json:"preferred_levels"`
	PreferredMethods    StringList `gorm:"type:text" json:"preferred_methods"`
	AvailableDays       StringList `gorm:"type:text" json:"available_days"`
	AvailableTimeSlots  StringList `gorm:"type:text" json:"available_time_slots"`
	AvailableBatches    JSONArray  `gorm:"type:text" json:"available_batches"`
	PersonalInfo        JSON       `gorm:"type:text" json:"personal_info"`
	PlatformStatus      JSON       `gorm:"type:text" json:"platform_status"`

	PreferredTeachingMode TeachingMode `gorm:"type:varchar(10);default:'both'" json:"preferred_teaching_mode"`
	LanguagePreference    string       `gorm:"type:varchar(10);default:'en'" json:"language_preference"`
	JoinedAt              time.Time    `gorm:"not null" json:"joined_at"`

	Testimonials []Testimonial `gorm:"foreignKey:TutorID" json:"-"`
}
