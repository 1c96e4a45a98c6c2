package domain

import (
	"context"
	"errors"
)

// Service is the only writer of new transactions plus the pull-side refresh
// of transactions the server has confirmed.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Detail, error)
	Get(ctx context.Context, id string) (*Detail, error)
	List(ctx context.Context, req ListRequest) ([]Transaction, error)

	FindUnsynced(ctx context.Context) ([]Detail, error)
	MarkSynced(ctx context.Context, id string) error
	ApplyRemote(ctx context.Context, records []Record) error
}

type CreateItem struct {
	ProductID string            `json:"product_id"`
	Quantity  float64           `json:"quantity"`
	Variants  []SelectedVariant `json:"variants,omitempty"`
}

type CreateRequest struct {
	CustomerID          *string      `json:"customer_id,omitempty"`
	PaymentMethodCode   string       `json:"payment_method_code"`
	TransactionTypeCode string       `json:"transaction_type_code"`
	StatusCode          string       `json:"status_code"`
	Description         string       `json:"description"`
	IsIn                bool         `json:"is_in"`
	Items               []CreateItem `json:"items"`
}

var (
	ErrNotFound       = errors.New("not_found")
	ErrInvalidID      = errors.New("invalid_id")
	ErrEmptyItems     = errors.New("empty_items")
	ErrInvalidItem    = errors.New("invalid_item")
	ErrUnknownProduct = errors.New("unknown_product")
)
