package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuitionterminal/backend/internal/models"
	"gorm.io/gorm"
)

func setupTutorRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := setupHandlerDB(t)
	handler := NewTutorHandler(db)

	router := gin.New()
	router.GET("/api/tutors/detail/:id", handler.GetByID)
	router.GET("/api/tutors/:category", handler.ListByCategory)

	return router, db
}

type tutorSeed struct {
	email     string
	verified  bool
	premium   bool
	exclusive bool
	joinedAgo time.Duration
}

func seedTutor(t *testing.T, db *gorm.DB, seed tutorSeed) models.Tutor {
	t.Helper()

	user := createUser(t, db, seed.email, models.RoleTutor)

	university := "BUET"
	tutor := models.Tutor{
		UserID:      user.ID,
		University:  &university,
		IsActive:    true,
		IsVerified:  seed.verified,
		IsPremium:   seed.premium,
		IsExclusive: seed.exclusive,
		JoinedAt:    time.Now().Add(-seed.joinedAgo),
	}
	require.NoError(t, db.Create(&tutor).Error)
	return tutor
}

func sectionByTitle(t *testing.T, body map[string]interface{}, title string) []interface{} {
	t.Helper()

	for _, raw := range body["sections"].([]interface{}) {
		section := raw.(map[string]interface{})
		if section["title"] == title {
			return section["tutors"].([]interface{})
		}
	}
	t.Fatalf("section %q not found", title)
	return nil
}

func TestListTutorsAll(t *testing.T) {
	router, db := setupTutorRouter(t)

	seedTutor(t, db, tutorSeed{email: "t1@example.com", verified: true})
	seedTutor(t, db, tutorSeed{email: "t2@example.com", premium: true})
	seedTutor(t, db, tutorSeed{email: "t3@example.com", exclusive: true, verified: true})

	w := performJSON(router, http.MethodGet, "/api/tutors/all", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Len(t, sectionByTitle(t, body, "All Tutors"), 3)
	assert.Len(t, sectionByTitle(t, body, "Verified Tutors"), 2)
	assert.Len(t, sectionByTitle(t, body, "Premium Tutors"), 1)
	assert.Len(t, sectionByTitle(t, body, "Exclusive Tutors"), 1)
}

func TestListTutorsBadgeOverlap(t *testing.T) {
	router, db := setupTutorRouter(t)

	// One tutor with every badge shows up in every badge section
	seedTutor(t, db, tutorSeed{email: "multi@example.com", verified: true, premium: true, exclusive: true})

	w := performJSON(router, http.MethodGet, "/api/tutors/all", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Len(t, sectionByTitle(t, body, "Verified Tutors"), 1)
	assert.Len(t, sectionByTitle(t, body, "Premium Tutors"), 1)
	assert.Len(t, sectionByTitle(t, body, "Exclusive Tutors"), 1)
}

func TestListTutorsNewCategory(t *testing.T) {
	router, db := setupTutorRouter(t)

	seedTutor(t, db, tutorSeed{email: "recent@example.com", joinedAgo: 5 * 24 * time.Hour})
	seedTutor(t, db, tutorSeed{email: "old@example.com", joinedAgo: 60 * 24 * time.Hour})

	w := performJSON(router, http.MethodGet, "/api/tutors/new", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	// Only the tutor who joined within 30 days qualifies
	assert.Len(t, sectionByTitle(t, body, "All Tutors"), 1)
}

func TestListTutorsExcludesInactive(t *testing.T) {
	router, db := setupTutorRouter(t)

	tutor := seedTutor(t, db, tutorSeed{email: "inactive@example.com"})
	require.NoError(t, db.Model(&tutor).Update("is_active", false).Error)

	w := performJSON(router, http.MethodGet, "/api/tutors/all", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Empty(t, sectionByTitle(t, body, "All Tutors"))
}

func TestListTutorsInvalidCategory(t *testing.T) {
	router, _ := setupTutorRouter(t)

	w := performJSON(router, http.MethodGet, "/api/tutors/bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetTutorByID(t *testing.T) {
	router, db := setupTutorRouter(t)
	tutor := seedTutor(t, db, tutorSeed{email: "detail@example.com", verified: true})

	student := createUser(t, db, "reviewer@example.com", models.RoleStudent)
	approved := models.Testimonial{
		TutorID:    &tutor.ID,
		StudentID:  &student.ID,
		Content:    "Great teacher",
		Rating:     5,
		Type:       models.TestimonialTypeStudent,
		IsApproved: true,
	}
	require.NoError(t, db.Create(&approved).Error)

	pending := models.Testimonial{
		TutorID:    &tutor.ID,
		StudentID:  &student.ID,
		Content:    "Not yet moderated",
		Rating:     1,
		Type:       models.TestimonialTypeStudent,
		IsApproved: false,
	}
	require.NoError(t, db.Create(&pending).Error)

	w := performJSON(router, http.MethodGet, "/api/tutors/detail/"+tutor.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Test User", body["name"])
	assert.Equal(t, "BUET", body["university"])

	// Unset profile fields come back as null, not placeholder text
	assert.Nil(t, body["bio"])
	assert.Nil(t, body["hourlyRate"])

	reviews := body["reviews"].([]interface{})
	require.Len(t, reviews, 1)
	assert.Equal(t, "Great teacher", reviews[0].(map[string]interface{})["comment"])
	assert.Equal(t, float64(1), body["totalReviews"])
}

func TestGetTutorByIDNotFound(t *testing.T) {
	router, _ := setupTutorRouter(t)

	w := performJSON(router, http.MethodGet, "/api/tutors/detail/7f9c0b6a-9f10-4a1f-8f0f-2f4a4f9d0c11", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
