package syncstate

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SyncStatus is a per-table watermark recording the last successful sync
// touch. It is observability only: pulls always fetch a full bounded page,
// never a delta since the watermark.
type SyncStatus struct {
	Name       string    `json:"table_name" gorm:"column:table_name;primaryKey;type:text"`
	LastSyncAt time.Time `json:"last_sync_at" gorm:"not null"`
}

func (SyncStatus) TableName() string { return "sync_status" }

type Repository interface {
	Touch(ctx context.Context, db *gorm.DB, table string, at time.Time) error
	Get(ctx context.Context, db *gorm.DB, table string) (*SyncStatus, error)
	All(ctx context.Context, db *gorm.DB) ([]SyncStatus, error)
}

type repo struct{}

func Provide() Repository {
	return &repo{}
}

// Touch advances the watermark, keeping it monotonic: a touch with an older
// timestamp than the stored one is ignored.
func (r *repo) Touch(ctx context.Context, db *gorm.DB, table string, at time.Time) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "table_name"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"last_sync_at": at,
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Lt{Column: clause.Column{Name: "last_sync_at"}, Value: at},
			}},
		}).
		Create(&SyncStatus{Name: table, LastSyncAt: at}).Error
}

func (r *repo) Get(ctx context.Context, db *gorm.DB, table string) (*SyncStatus, error) {
	var status SyncStatus
	err := db.WithContext(ctx).Raw(
		`SELECT table_name, last_sync_at FROM sync_status WHERE table_name = ?`,
		table,
	).Scan(&status).Error
	if err != nil {
		return nil, err
	}
	if status.Name == "" {
		return nil, nil
	}
	return &status, nil
}

func (r *repo) All(ctx context.Context, db *gorm.DB) ([]SyncStatus, error) {
	var items []SyncStatus
	err := db.WithContext(ctx).Raw(
		`SELECT table_name, last_sync_at FROM sync_status ORDER BY table_name ASC`,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
