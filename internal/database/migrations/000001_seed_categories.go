package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/gosimple/slug"
	"github.com/tuitionterminal/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// seedCategories inserts the default tutoring categories shown on the
// marketing pages. Idempotent: conflicts on name are skipped.
var seedCategories = &gormigrate.Migration{
	ID: "000001_seed_categories",
	Migrate: func(tx *gorm.DB) error {
		type seed struct {
			name        string
			icon        string
			description string
		}

		seeds := []seed{
			{"Academic", "lucide:book-open", "School and college curriculum tutoring"},
			{"Admission Test", "lucide:graduation-cap", "University and medical admission preparation"},
			{"Language", "lucide:languages", "English, Bangla and foreign language coaching"},
			{"Religious Studies", "lucide:moon-star", "Quran, Arabic and religious education"},
			{"Music & Arts", "lucide:music", "Instruments, vocals, drawing and crafts"},
			{"Test Preparation", "lucide:clipboard-check", "IELTS, GRE, SAT and other standardized tests"},
			{"Professional Skills", "lucide:briefcase", "Programming, design and office skills"},
			{"Special Education", "lucide:heart-handshake", "Tutoring for learners with special needs"},
		}

		for _, s := range seeds {
			icon := s.icon
			desc := s.description
			category := models.Category{
				Name:        s.name,
				Slug:        slug.Make(s.name),
				Icon:        &icon,
				Description: &desc,
				IsActive:    true,
			}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&category).Error; err != nil {
				return err
			}
		}
		return nil
	},
	Rollback: func(tx *gorm.DB) error {
		return tx.Where("1 = 1").Delete(&models.Category{}).Error
	},
}
