package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tuitionterminal/backend/internal/models"
	"gorm.io/gorm"
)

// tutorListLimit caps how many tutors a directory query returns
const tutorListLimit = 100

// TutorHandler handles tutor directory requests
type TutorHandler struct {
	db *gorm.DB
}

// NewTutorHandler creates a new tutor handler
func NewTutorHandler(db *gorm.DB) *TutorHandler {
	return &TutorHandler{db: db}
}

type tutorCard struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	University *string  `json:"university"`
	Location   *string  `json:"location"`
	Image      *string  `json:"image"`
	Badges     []string `json:"badges"`
}

type tutorSection struct {
	Title  string      `json:"title"`
	Tutors []tutorCard `json:"tutors"`
}

// ListByCategory returns tutors bucketed into the five fixed directory
// sections. Category narrows the underlying query:
// all|verified|premium|exclusive|new, where new means joined within the
// last 30 days. Tutors deliberately appear in every section whose badge
// they carry.
func (h *TutorHandler) ListByCategory(c *gin.Context) {
	category := c.Param("category")

	query := h.db.Preload("User").Where("is_active = ?", true)

	switch category {
	case "all":
	case "verified":
		query = query.Where("is_verified = ?", true)
	case "premium":
		query = query.Where("is_premium = ?", true)
	case "exclusive":
		query = query.Where("is_exclusive = ?", true)
	case "new":
		query = query.Where("joined_at >= ?", time.Now().AddDate(0, 0, -30))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tutor category"})
		return
	}

	var tutors []models.Tutor
	if err := query.Limit(tutorListLimit).Find(&tutors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	cards := make([]tutorCard, 0, len(tutors))
	for _, tutor := range tutors {
		badges := []string{}
		if tutor.IsVerified {
			badges = append(badges, "verified")
		}
		if tutor.IsPremium {
			badges = append(badges, "premium")
		}
		if tutor.IsExclusive {
			badges = append(badges, "exclusive")
		}

		cards = append(cards, tutorCard{
			ID:         tutor.ID.String(),
			Name:       tutor.User.FirstName + " " + tutor.User.LastName,
			University: tutor.University,
			Location:   tutor.Location,
			Image:      tutor.ProfileImage,
			Badges:     badges,
		})
	}

	sections := []tutorSection{
		{Title: "All Tutors", Tutors: firstN(cards, 4)},
		{Title: "Exclusive Tutors", Tutors: firstN(withBadge(cards, "exclusive"), 4)},
		{Title: "Premium Tutors", Tutors: firstN(withBadge(cards, "premium"), 4)},
		{Title: "Verified Tutors", Tutors: firstN(withBadge(cards, "verified"), 4)},
		{Title: "New Tutors", Tutors: lastN(cards, 4)},
	}

	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// tutorDetail joins profile, owner and approved reviews. Null columns
// stay null: placeholders are a client concern.
type tutorDetail struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	ProfileImage   *string           `json:"profileImage"`
	CoverImage     *string           `json:"coverImage"`
	University     *string           `json:"university"`
	Degree         *string           `json:"degree"`
	Rating         *float64          `json:"rating"`
	TotalReviews   int               `json:"totalReviews"`
	About          *string           `json:"about"`
	Bio            *string           `json:"bio"`
	Experience     *int              `json:"experience"`
	HourlyRate     *float64          `json:"hourlyRate"`
	Location       *string           `json:"location"`
	Subjects       models.StringList `json:"subjects"`
	Education      models.JSONArray  `json:"education"`
	Certifications models.JSONArray  `json:"certifications"`

	PreferredLocations  models.StringList `json:"preferredLocations"`
	PreferredCategories models.StringList `json:"preferredCategories"`
	PreferredSubjects   models.StringList `json:"preferredSubjects"`
	PreferredLevels     models.StringList `json:"preferredLevels"`
	PreferredMethods    models.StringList `json:"preferredMethods"`
	AvailableDays       models.StringList `json:"availableDays"`
	AvailableTimeSlots  models.StringList `json:"availableTimeSlots"`
	AvailableBatches    models.JSONArray  `json:"availableBatches"`
	PersonalInfo        models.JSON       `json:"personalInfo"`
	PlatformStatus      models.JSON       `json:"platformStatus"`

	JoinedAt time.Time     `json:"joinedAt"`
	Reviews  []tutorReview `json:"reviews"`
}

type tutorReview struct {
	ID      string `json:"id"`
	User    string `json:"user"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	Date    string `json:"date"`
}

// GetByID returns a tutor profile with its approved testimonials
func (h *TutorHandler) GetByID(c *gin.Context) {
	var tutor models.Tutor
	err := h.db.
		Preload("User").
		Preload("Testimonials", "is_approved = ?", true).
		First(&tutor, "id = ?", c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Tutor not found"})
		return
	}

	reviews := make([]tutorReview, 0, len(tutor.Testimonials))
	for _, t := range tutor.Testimonials {
		reviewer := "Student"
		if t.Type == models.TestimonialTypeParent {
			reviewer = "Parent"
		}
		reviews = append(reviews, tutorReview{
			ID:      t.ID.String(),
			User:    reviewer,
			Rating:  t.Rating,
			Comment: t.Content,
			Date:    t.CreatedAt.Format("Jan 02, 2006"),
		})
	}

	c.JSON(http.StatusOK, tutorDetail{
		ID:             tutor.ID.String(),
		Name:           tutor.User.FirstName + " " + tutor.User.LastName,
		Email:          tutor.User.Email,
		ProfileImage:   tutor.ProfileImage,
		CoverImage:     tutor.CoverImage,
		University:     tutor.University,
		Degree:         tutor.Degree,
		Rating:         tutor.Rating,
		TotalReviews:   len(reviews),
		About:          tutor.About,
		Bio:            tutor.Bio,
		Experience:     tutor.Experience,
		HourlyRate:     tutor.HourlyRate,
		Location:       tutor.Location,
		Subjects:       tutor.Subjects,
		Education:      tutor.Education,
		Certifications: tutor.Certifications,

		PreferredLocations:  tutor.PreferredLocations,
		PreferredCategories: tutor.PreferredCategories,
		PreferredSubjects:   tutor.PreferredSubjects,
		PreferredLevels:     tutor.PreferredLevels,
		PreferredMethods:    tutor.PreferredMethods,
		AvailableDays:       tutor.AvailableDays,
		AvailableTimeSlots:  tutor.AvailableTimeSlots,
		AvailableBatches:    tutor.AvailableBatches,
		PersonalInfo:        tutor.PersonalInfo,
		PlatformStatus:      tutor.PlatformStatus,

		JoinedAt: tutor.JoinedAt,
		Reviews:  reviews,
	})
}

func firstN(cards []tutorCard, n int) []tutorCard {
	if len(cards) <= n {
		return cards
	}
	return cards[:n]
}

func lastN(cards []tutorCard, n int) []tutorCard {
	if len(cards) <= n {
		return cards
	}
	return cards[len(cards)-n:]
}

func withBadge(cards []tutorCard, badge string) []tutorCard {
	filtered := []tutorCard{}
	for _, card := range cards {
		for _, b := range card.Badges {
			if b == badge {
				filtered = append(filtered, card)
				break
			}
		}
	}
	return filtered
}
