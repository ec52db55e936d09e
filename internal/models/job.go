package models

import (
	"time"

	"github.com/google/uuid"
)

// TutorGender is the gender a job poster asked for
type TutorGender string

const (
	TutorGenderMale   TutorGender = "male"
	TutorGenderFemale TutorGender = "female"
	TutorGenderAny    TutorGender = "any"
)

// JobStatus tracks a posting through its lifecycle
type JobStatus string

const (
	JobStatusOpen      JobStatus = "open"
	JobStatusAssigned  JobStatus = "assigned"
	JobStatusCompleted JobStatus = "completed"
	JobStatusCancelled JobStatus = "cancelled"
)

// Job is a tutoring request posted by a student or parent
type Job struct {
	Base
	JobID     string     `gorm:"type:varchar(20);uniqueIndex;not null" json:"job_id"`
	StudentID *uuid.UUID `gorm:"type:uuid;index" json:"student_id"`
	Student   *Student   `gorm:"foreignKey:StudentID" json:"-"`
	TutorID   *uuid.UUID `gorm:"type:uuid;index" json:"tutor_id"`
	Tutor     *Tutor     `gorm:"foreignKey:TutorID" json:"-"`

	ClassName  string     `gorm:"type:varchar(100);not null" json:"class_name"`
	Location   string     `gorm:"type:varchar(255);not null" json:"location"`
	Date       time.Time  `gorm:"not null" json:"date"`
	Subjects   StringList `gorm:"type:text;not null" json:"subjects"`
	FeePerWeek float64    `gorm:"type:decimal(10,2);not null" json:"fee_per_week"`
	TutorTime  string     `gorm:"type:varchar(100);not null" json:"tutor_time"`

	TutorGender TutorGender  `gorm:"type:varchar(10);not null;default:'any'" json:"tutor_gender"`
	TutorMode   TeachingMode `gorm:"type:varchar(10);not null;default:'home'" json:"tutor_mode"`
	Status      JobStatus    `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	Description *string      `gorm:"type:text" json:"description"`
}
