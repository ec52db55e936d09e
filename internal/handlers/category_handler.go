package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/tuitionterminal/backend/internal/models"
	"gorm.io/gorm"
)

// CategoryHandler serves the tuition category taxonomy
type CategoryHandler struct {
	db *gorm.DB
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(db *gorm.DB) *CategoryHandler {
	return &CategoryHandler{db: db}
}

// ListCategories returns all active categories, alphabetically
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.db.Where("is_active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategory returns a single category by ID or slug
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	param := c.Param("id")

	query := h.db.Where("slug = ?", param)
	if id, err := uuid.Parse(param); err == nil {
		query = h.db.Where("id = ?", id)
	}

	var category models.Category
	if err := query.First(&category).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
		return
	}

	c.JSON(http.StatusOK, category)
}
