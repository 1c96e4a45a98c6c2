package domain

import (
	"context"

	"gorm.io/gorm"
)

type ListRequest struct {
	UnsyncedOnly bool
	Limit        int
	Offset       int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, transaction *Transaction) error
	InsertItems(ctx context.Context, db *gorm.DB, items []TransactionItem) error
	DecrementStock(ctx context.Context, db *gorm.DB, productID string, quantity float64) error

	FindByID(ctx context.Context, db *gorm.DB, id string) (*Transaction, error)
	FindItems(ctx context.Context, db *gorm.DB, transactionID string) ([]TransactionItem, error)
	FindUnsynced(ctx context.Context, db *gorm.DB) ([]Transaction, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Transaction, error)

	MarkSynced(ctx context.Context, db *gorm.DB, id string) error
	Upsert(ctx context.Context, db *gorm.DB, transaction *Transaction) error
	ReplaceItems(ctx context.Context, db *gorm.DB, transactionID string, items []TransactionItem) error
}
