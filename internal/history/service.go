// Package history persists completed matches for a leaderboard, entirely
// outside the board's lock: internal/board's OnMatch hook, installed by the
// service container, calls RecordMatch only after a match's removal has
// already been finalized and the board's lock released.
package history

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Migrate() error {
	return s.db.AutoMigrate(&MatchEvent{})
}

// RecordMatch inserts one completed match. It is wired into
// board.Hooks.OnMatch by the service container as a closure that logs any
// error rather than propagating it: a lost leaderboard row must never
// surface back into a board operation that already succeeded.
func (s *Service) RecordMatch(playerID, labelA, labelB string) error {
	return s.db.Create(&MatchEvent{
		ID:        uuid.New(),
		PlayerID:  playerID,
		LabelA:    labelA,
		LabelB:    labelB,
		CreatedAt: time.Now(),
	}).Error
}

// LeaderboardEntry is one player's aggregate match count.
type LeaderboardEntry struct {
	PlayerID string `json:"playerId"`
	Matches  int64  `json:"matches"`
}

// Leaderboard returns players ordered by total matches found, descending.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []LeaderboardEntry
	err := s.db.WithContext(ctx).
		Model(&MatchEvent{}).
		Select("player_id as player_id, count(*) as matches").
		Group("player_id").
		Order("matches DESC").
		Limit(limit).
		Scan(&entries).Error
	return entries, err
}
