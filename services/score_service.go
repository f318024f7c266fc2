package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"spacedodge/models"

	"gorm.io/gorm"
)

// TopScoresLimit is the size of the leaderboard.
const TopScoresLimit = 5

type ScoreService struct {
	db    *gorm.DB
	cache *LeaderboardCache
}

func NewScoreService(db *gorm.DB, cache *LeaderboardCache) *ScoreService {
	return &ScoreService{
		db:    db,
		cache: cache,
	}
}

type SubmitScoreRequest struct {
	Score      *int   `json:"score" binding:"required,min=0"`
	PlayerName string `json:"player_name" binding:"required"`
}

// Submit stores a score for userID. A zero or unknown userID means the
// request carried no usable identity; nothing is stored.
func (s *ScoreService) Submit(ctx context.Context, userID uint, score int, playerName string) (*models.Score, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	playerName = strings.TrimSpace(playerName)
	if score < 0 || playerName == "" {
		return nil, ErrInvalidScore
	}

	// A valid token can outlive its account; such a caller has no identity.
	var users int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if users == 0 {
		return nil, ErrUnauthenticated
	}

	record := models.Score{
		UserID:     userID,
		PlayerName: playerName,
		Score:      score,
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to save score: %w", err)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("Leaderboard cache not invalidated after score %d: %v", record.ID, err)
	}

	log.Printf("Saved score %d for user %d as %q: %d", record.ID, userID, playerName, score)
	return &record, nil
}

// TopScores returns the best TopScoresLimit records, highest first. Equal
// scores keep submission order.
func (s *ScoreService) TopScores(ctx context.Context) ([]models.Score, error) {
	if scores, ok := s.cache.Get(ctx); ok {
		return scores, nil
	}

	// Read the version before the query so a submit landing in between
	// makes the cache write a no-op.
	version, cacheable := s.cache.Version(ctx)

	scores := []models.Score{}
	err := s.db.WithContext(ctx).
		Order("score DESC").
		Order("id ASC").
		Limit(TopScoresLimit).
		Find(&scores).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load top scores: %w", err)
	}

	if cacheable {
		if err := s.cache.Set(ctx, version, scores); err != nil {
			log.Printf("Leaderboard cache not updated: %v", err)
		}
	}
	return scores, nil
}

// Count returns the number of stored score records.
func (s *ScoreService) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Score{}).Count(&n).Error
	return n, err
}
