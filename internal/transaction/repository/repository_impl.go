package repository

import (
	"context"

	"github.com/smallbiznis/kasira/internal/transaction/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, transaction *domain.Transaction) error {
	return db.WithContext(ctx).Create(transaction).Error
}

func (r *repo) InsertItems(ctx context.Context, db *gorm.DB, items []domain.TransactionItem) error {
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}

// DecrementStock is an optimistic, non-validated decrement. There is no
// minimum-zero clamp; stock may go negative.
func (r *repo) DecrementStock(ctx context.Context, db *gorm.DB, productID string, quantity float64) error {
	return db.WithContext(ctx).Exec(
		`UPDATE products SET stock = stock - ? WHERE id = ?`,
		quantity,
		productID,
	).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id string) (*domain.Transaction, error) {
	var t domain.Transaction
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM transactions WHERE id = ?`,
		id,
	).Scan(&t).Error
	if err != nil {
		return nil, err
	}
	if t.ID == "" {
		return nil, nil
	}
	return &t, nil
}

func (r *repo) FindItems(ctx context.Context, db *gorm.DB, transactionID string) ([]domain.TransactionItem, error) {
	var items []domain.TransactionItem
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM transaction_items WHERE transaction_id = ? ORDER BY id ASC`,
		transactionID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) FindUnsynced(ctx context.Context, db *gorm.DB) ([]domain.Transaction, error) {
	var items []domain.Transaction
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM transactions WHERE is_synced = ? ORDER BY created_at ASC`,
		false,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Transaction, error) {
	var items []domain.Transaction
	stmt := db.WithContext(ctx).Model(&domain.Transaction{})
	if filter.UnsyncedOnly {
		stmt = stmt.Where("is_synced = ?", false)
	}
	if filter.Limit > 0 {
		stmt = stmt.Limit(filter.Limit).Offset(filter.Offset)
	}
	if err := stmt.Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repo) MarkSynced(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Exec(
		`UPDATE transactions SET is_synced = ? WHERE id = ?`,
		true,
		id,
	).Error
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, transaction *domain.Transaction) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(transaction).Error
}

// ReplaceItems swaps the full line-item set for a transaction. Used only by
// the pull path, which treats the server's view as truth.
func (r *repo) ReplaceItems(ctx context.Context, db *gorm.DB, transactionID string, items []domain.TransactionItem) error {
	if err := db.WithContext(ctx).Exec(
		`DELETE FROM transaction_items WHERE transaction_id = ?`,
		transactionID,
	).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&items).Error
}
