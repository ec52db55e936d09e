package models

// Category is a subject/segment grouping shown on the marketing pages
type Category struct {
	Base
	Name        string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug        string  `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Icon        *string `gorm:"type:varchar(100)" json:"icon"`
	Description *string `gorm:"type:text" json:"description"`
	IsActive    bool    `gorm:"default:true" json:"is_active"`
}
