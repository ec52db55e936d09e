package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tuitionterminal/backend/internal/models"
	"github.com/tuitionterminal/backend/internal/utils"
	"gorm.io/gorm"
)

// JobHandler handles job posting requests
type JobHandler struct {
	db *gorm.DB
}

// NewJobHandler creates a new job handler
func NewJobHandler(db *gorm.DB) *JobHandler {
	return &JobHandler{db: db}
}

// jobListItem is the shape the job board renders
type jobListItem struct {
	ID          string            `json:"id"`
	Class       string            `json:"class"`
	Location    string            `json:"location"`
	Date        string            `json:"date"`
	Subjects    models.StringList `json:"subjects"`
	FeePerWeek  string            `json:"feePerWeek"`
	TutorGender string            `json:"tutorGender"`
	TutorMode   string            `json:"tutorMode"`
	TutorTime   string            `json:"tutorTime"`
	PostedAgo   string            `json:"postedAgo"`
}

// ListJobs returns one page of jobs, newest first, with optional
// location/subject/mode filters.
func (h *JobHandler) ListJobs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "6"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 6
	}
	offset := (page - 1) * limit

	query := h.db.Model(&models.Job{})

	if location := c.Query("location"); location != "" {
		query = query.Where("location LIKE ?", "%"+location+"%")
	}
	if subject := c.Query("subject"); subject != "" {
		query = query.Where("subjects LIKE ?", "%"+subject+"%")
	}
	if mode := c.Query("tutorMode"); mode != "" {
		query = query.Where("tutor_mode = ?", mode)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var rows []models.Job
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	now := time.Now()
	items := make([]jobListItem, 0, len(rows))
	for _, job := range rows {
		items = append(items, jobListItem{
			ID:          job.JobID,
			Class:       job.ClassName,
			Location:    job.Location,
			Date:        job.Date.Format("02 Jan 2006"),
			Subjects:    job.Subjects,
			FeePerWeek:  fmt.Sprintf("%.0f BDT", job.FeePerWeek),
			TutorGender: titleCase(string(job.TutorGender)),
			TutorMode:   displayTutorMode(job.TutorMode),
			TutorTime:   job.TutorTime,
			PostedAgo:   utils.HumanizePostedAgo(job.CreatedAt, now),
		})
	}

	totalPages := int(math.Ceil(float64(count) / float64(limit)))

	c.JSON(http.StatusOK, gin.H{
		"jobs":        items,
		"currentPage": page,
		"totalPages":  totalPages,
		"totalJobs":   count,
	})
}

// GetJob returns a job by its display ID
func (h *JobHandler) GetJob(c *gin.Context) {
	var job models.Job
	if err := h.db.Where("job_id = ?", c.Param("id")).First(&job).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	c.JSON(http.StatusOK, job)
}

// CreateJobRequest represents the request body for posting a job
type CreateJobRequest struct {
	StudentID   *string           `json:"studentId"`
	ClassName   string            `json:"className" binding:"required"`
	Location    string            `json:"location" binding:"required"`
	Date        time.Time         `json:"date" binding:"required"`
	Subjects    models.StringList `json:"subjects" binding:"required"`
	FeePerWeek  float64           `json:"feePerWeek" binding:"required"`
	TutorTime   string            `json:"tutorTime" binding:"required"`
	TutorGender string            `json:"tutorGender"`
	TutorMode   string            `json:"tutorMode"`
	Description *string           `json:"description"`
}

// CreateJob persists a new posting with a generated display ID. The
// five-digit ID can collide, so the insert retries against the unique
// constraint with a fresh draw.
func (h *JobHandler) CreateJob(c *gin.Context) {
	var req CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gender := models.TutorGenderAny
	switch models.TutorGender(req.TutorGender) {
	case models.TutorGenderMale, models.TutorGenderFemale, models.TutorGenderAny:
		gender = models.TutorGender(req.TutorGender)
	case "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tutor gender"})
		return
	}

	mode := models.TeachingModeHome
	switch models.TeachingMode(req.TutorMode) {
	case models.TeachingModeHome, models.TeachingModeOnline, models.TeachingModeBoth:
		mode = models.TeachingMode(req.TutorMode)
	case "":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tutor mode"})
		return
	}

	var studentID *uuid.UUID
	if req.StudentID != nil && *req.StudentID != "" {
		id, err := uuid.Parse(*req.StudentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
			return
		}
		studentID = &id
	}

	job := models.Job{
		StudentID:   studentID,
		ClassName:   req.ClassName,
		Location:    req.Location,
		Date:        req.Date,
		Subjects:    req.Subjects,
		FeePerWeek:  req.FeePerWeek,
		TutorTime:   req.TutorTime,
		TutorGender: gender,
		TutorMode:   mode,
		Status:      models.JobStatusOpen,
		Description: req.Description,
	}

	var err error
	for attempt := 0; attempt < 5; attempt++ {
		job.JobID = utils.GenerateJobID()
		err = h.db.Create(&job).Error
		if err == nil {
			c.JSON(http.StatusCreated, job)
			return
		}
		if !isDuplicate(err) {
			break
		}
	}

	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job"})
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func displayTutorMode(mode models.TeachingMode) string {
	switch mode {
	case models.TeachingModeHome:
		return "Home Tutoring"
	case models.TeachingModeOnline:
		return "Online Tutoring"
	default:
		return "Both"
	}
}
