package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/tuitionterminal/backend/internal/models"
	"gorm.io/gorm"
)

const (
	cacheKey = "stats:overview"
	cacheTTL = 60 * time.Second

	// defaultSuccessRate is shown before any job has been posted
	defaultSuccessRate = 98
)

// Overview holds the aggregate counters shown on the landing page
type Overview struct {
	TutorCount       int64 `json:"tutorCount"`
	StudentCount     int64 `json:"studentCount"`
	JobCount         int64 `json:"jobCount"`
	MaleTutorCount   int64 `json:"maleTutorCount"`
	FemaleTutorCount int64 `json:"femaleTutorCount"`
	SuccessRate      int64 `json:"successRate"`
}

// Service aggregates marketplace statistics with a short-lived Redis
// cache in front of the database. A nil Redis client disables caching.
type Service struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewService creates a new stats service
func NewService(db *gorm.DB, redisClient *redis.Client) *Service {
	return &Service{db: db, redis: redisClient}
}

// GetOverview returns the cached overview, recomputing it on a miss.
// Cache failures degrade to a direct database read.
func (s *Service) GetOverview(ctx context.Context) (*Overview, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, cacheKey).Result()
		if err == nil {
			var overview Overview
			if err := json.Unmarshal([]byte(cached), &overview); err == nil {
				return &overview, nil
			}
		} else if err != redis.Nil {
			log.Printf("stats cache read failed: %v", err)
		}
	}

	overview, err := s.compute()
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if data, err := json.Marshal(overview); err == nil {
			if err := s.redis.Set(ctx, cacheKey, data, cacheTTL).Err(); err != nil {
				log.Printf("stats cache write failed: %v", err)
			}
		}
	}

	return overview, nil
}

func (s *Service) compute() (*Overview, error) {
	var overview Overview

	if err := s.db.Model(&models.Tutor{}).
		Where("is_active = ?", true).
		Count(&overview.TutorCount).Error; err != nil {
		return nil, fmt.Errorf("error counting tutors: %w", err)
	}

	if err := s.db.Model(&models.Student{}).
		Where("is_active = ?", true).
		Count(&overview.StudentCount).Error; err != nil {
		return nil, fmt.Errorf("error counting students: %w", err)
	}

	if err := s.db.Model(&models.Job{}).Count(&overview.JobCount).Error; err != nil {
		return nil, fmt.Errorf("error counting jobs: %w", err)
	}

	if err := s.db.Model(&models.Tutor{}).
		Where("gender = ? AND is_active = ?", "male", true).
		Count(&overview.MaleTutorCount).Error; err != nil {
		return nil, fmt.Errorf("error counting male tutors: %w", err)
	}

	if err := s.db.Model(&models.Tutor{}).
		Where("gender = ? AND is_active = ?", "female", true).
		Count(&overview.FemaleTutorCount).Error; err != nil {
		return nil, fmt.Errorf("error counting female tutors: %w", err)
	}

	if overview.JobCount > 0 {
		var completed int64
		if err := s.db.Model(&models.Job{}).
			Where("status = ?", models.JobStatusCompleted).
			Count(&completed).Error; err != nil {
			return nil, fmt.Errorf("error counting completed jobs: %w", err)
		}
		overview.SuccessRate = int64(float64(completed)/float64(overview.JobCount)*100 + 0.5)
	} else {
		overview.SuccessRate = defaultSuccessRate
	}

	return &overview, nil
}
