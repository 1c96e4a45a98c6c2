package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Transaction is a locally originated sale. Its id is generated on the
// device at creation time and never reassigned; it is the idempotency key
// for push. IsSynced flips to true only after a confirmed remote acceptance
// or when the same id is observed in a pull response.
type Transaction struct {
	ID                  string    `json:"id" gorm:"primaryKey;type:text"`
	StoreID             string    `json:"store_id" gorm:"type:text;not null;index"`
	CustomerID          *string   `json:"customer_id,omitempty" gorm:"type:text"`
	TotalPrice          float64   `json:"total_price" gorm:"not null;default:0"`
	TotalTax            float64   `json:"total_tax" gorm:"not null;default:0"`
	TotalDiscount       float64   `json:"total_discount" gorm:"not null;default:0"`
	TotalCommission     float64   `json:"total_commission" gorm:"not null;default:0"`
	PaymentMethodCode   string    `json:"payment_method_code" gorm:"type:text"`
	TransactionTypeCode string    `json:"transaction_type_code" gorm:"type:text"`
	StatusCode          string    `json:"status_code" gorm:"type:text"`
	IsIn                bool      `json:"is_in" gorm:"column:is_in;not null;default:true"`
	Description         string    `json:"description" gorm:"type:text"`
	IsSynced            bool      `json:"is_synced" gorm:"not null;default:false;index"`
	CreatedAt           time.Time `json:"created_at" gorm:"not null"`
}

func (Transaction) TableName() string { return "transactions" }

// SelectedVariant is one chosen option on a line item. Variants are typed
// here and serialized to JSON only at the storage boundary.
type SelectedVariant struct {
	GroupID    string  `json:"group_id"`
	OptionID   string  `json:"option_id"`
	Name       string  `json:"name"`
	PriceDelta float64 `json:"price_delta"`
}

// TransactionItem snapshots the product at sale time. ProductName is copied
// so financial history stays immutable when the catalog later drifts.
type TransactionItem struct {
	ID               int64          `json:"id" gorm:"primaryKey"`
	TransactionID    string         `json:"transaction_id" gorm:"type:text;not null;index"`
	ProductID        string         `json:"product_id" gorm:"type:text;not null"`
	ProductName      string         `json:"product_name" gorm:"type:text;not null"`
	Quantity         float64        `json:"quantity" gorm:"not null;default:0"`
	Price            float64        `json:"price" gorm:"not null;default:0"`
	Tax              float64        `json:"tax" gorm:"not null;default:0"`
	Discount         float64        `json:"discount" gorm:"not null;default:0"`
	SelectedVariants datatypes.JSON `json:"selected_variants,omitempty" gorm:"type:json"`
}

func (TransactionItem) TableName() string { return "transaction_items" }

func (i *TransactionItem) SetVariants(variants []SelectedVariant) error {
	if len(variants) == 0 {
		i.SelectedVariants = nil
		return nil
	}
	raw, err := json.Marshal(variants)
	if err != nil {
		return err
	}
	i.SelectedVariants = datatypes.JSON(raw)
	return nil
}

func (i *TransactionItem) Variants() ([]SelectedVariant, error) {
	if len(i.SelectedVariants) == 0 {
		return nil, nil
	}
	var variants []SelectedVariant
	if err := json.Unmarshal(i.SelectedVariants, &variants); err != nil {
		return nil, err
	}
	return variants, nil
}

// Detail is a transaction together with its line items.
type Detail struct {
	Transaction
	Items []TransactionItem `json:"items"`
}

// Record is one pulled transaction with the server's line-item view.
type Record struct {
	Transaction
	Items []TransactionItem
}
