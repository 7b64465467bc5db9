package history

import (
	"time"

	"github.com/google/uuid"
)

// MatchEvent records one completed match-removal finalized by a Flip.
// LabelA and LabelB are always equal for a genuine match; the schema keeps
// both columns so the table shape matches other event logs in this
// codebase that pair two sides of an event.
type MatchEvent struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlayerID  string    `gorm:"index;size:64"`
	LabelA    string    `gorm:"size:128"`
	LabelB    string    `gorm:"size:128"`
	CreatedAt time.Time `gorm:"index"`
}

func (MatchEvent) TableName() string {
	return "match_events"
}
