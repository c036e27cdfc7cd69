package gormrepo

import (
	"context"
	"time"

	"villagesage/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type turnRow struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	RequestID     string    `gorm:"size:64;index"`
	UserID        string    `gorm:"size:128;index:idx_turns_user_occurred"`
	UserText      string    `gorm:"type:text"`
	AssistantText string    `gorm:"type:text"`
	GamePhase     string    `gorm:"size:32"`
	Villages      int
	Population    int
	OccurredAt    time.Time `gorm:"index:idx_turns_user_occurred"`
}

func (turnRow) TableName() string { return "advisor_turns" }

type TurnRepo struct {
	db *gorm.DB
}

func NewTurnRepo(db *gorm.DB) TurnRepo {
	return TurnRepo{db: db}
}

func (r TurnRepo) Append(ctx context.Context, rec ports.TurnRecord) error {
	row := turnRow{
		RequestID:     rec.RequestID,
		UserID:        rec.UserID,
		UserText:      rec.UserText,
		AssistantText: rec.AssistantText,
		GamePhase:     rec.GamePhase,
		Villages:      rec.Villages,
		Population:    rec.Population,
		OccurredAt:    rec.OccurredAt,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// ListRecent returns up to limit turns for the user in chronological order,
// most recent last.
func (r TurnRepo) ListRecent(ctx context.Context, userID string, limit int) ([]ports.TurnRecord, error) {
	rows := []turnRow{}
	query := r.db.WithContext(ctx).
		Where(&turnRow{UserID: userID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "occurred_at"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]ports.TurnRecord, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = ports.TurnRecord{
			RequestID:     row.RequestID,
			UserID:        row.UserID,
			UserText:      row.UserText,
			AssistantText: row.AssistantText,
			GamePhase:     row.GamePhase,
			Villages:      row.Villages,
			Population:    row.Population,
			OccurredAt:    row.OccurredAt,
		}
	}
	return out, nil
}
