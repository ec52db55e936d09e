package models

import "github.com/google/uuid"

// TestimonialType identifies who left a testimonial
type TestimonialType string

const (
	TestimonialTypeTutor       TestimonialType = "tutor"
	TestimonialTypeStudent     TestimonialType = "student"
	TestimonialTypeParent      TestimonialType = "parent"
	TestimonialTypeStakeholder TestimonialType = "stakeholder"
)

// Testimonial is a review left for a tutor; only approved rows are
// exposed on tutor detail pages.
type Testimonial struct {
	Base
	TutorID    *uuid.UUID      `gorm:"type:uuid;index" json:"tutor_id"`
	StudentID  *uuid.UUID      `gorm:"type:uuid;index" json:"student_id"`
	Content    string          `gorm:"type:text;not null" json:"content"`
	Rating     int             `gorm:"not null" json:"rating"`
	Type       TestimonialType `gorm:"type:varchar(20);not null" json:"type"`
	IsApproved bool            `gorm:"default:false" json:"is_approved"`
}
