package domain

import "time"

// Category mirrors a server-owned product category. Identity is the
// server-assigned code; rows are only ever written by the reconciler.
type Category struct {
	ID          string     `json:"id" gorm:"primaryKey;type:text"`
	Name        string     `json:"name" gorm:"type:text;not null"`
	Description string     `json:"description" gorm:"type:text"`
	CreatedAt   time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"not null"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

func (Category) TableName() string { return "categories" }

// Product is a read replica of the server's catalog row. The only local
// mutation is the optimistic stock decrement performed by the transaction
// writer; everything else is overwritten on every pull.
//
// DeletedAt is a plain nullable column, not gorm's soft-delete type: pulls
// must be able to set and clear it verbatim, and reads decide for themselves
// whether deleted rows are visible.
type Product struct {
	ID              string     `json:"id" gorm:"primaryKey;type:text"`
	Name            string     `json:"name" gorm:"type:text;not null"`
	Description     string     `json:"description" gorm:"type:text"`
	SellingPrice    float64    `json:"selling_price" gorm:"not null;default:0"`
	BuyingPrice     float64    `json:"buying_price" gorm:"not null;default:0"`
	Stock           float64    `json:"stock" gorm:"not null;default:0"`
	CategoryID      string     `json:"category_id" gorm:"type:text;index"`
	ImageURL        string     `json:"image_url" gorm:"type:text"`
	Barcode         string     `json:"barcode" gorm:"type:text;index"`
	Tax             float64    `json:"tax" gorm:"not null;default:0"`
	Commission      float64    `json:"commission" gorm:"not null;default:0"`
	Discount        float64    `json:"discount" gorm:"not null;default:0"`
	MeasureUnitCode string     `json:"measure_unit_code" gorm:"type:text"`
	MeasureUnitName string     `json:"measure_unit_name" gorm:"type:text"`
	CreatedAt       time.Time  `json:"created_at" gorm:"not null"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"not null"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" gorm:"index"`
}

func (Product) TableName() string { return "products" }

// ProductIngredient rows are fully replaced on every pull for their product.
type ProductIngredient struct {
	ID              string  `json:"id" gorm:"primaryKey;type:text"`
	ProductID       string  `json:"product_id" gorm:"type:text;not null;index"`
	Name            string  `json:"name" gorm:"type:text;not null"`
	Quantity        float64 `json:"quantity" gorm:"not null;default:0"`
	MeasureUnitCode string  `json:"measure_unit_code" gorm:"type:text"`
	MeasureUnitName string  `json:"measure_unit_name" gorm:"type:text"`
}

func (ProductIngredient) TableName() string { return "product_ingredients" }

// ProductRecord is one pulled product together with its full ingredient set.
type ProductRecord struct {
	Product
	Ingredients []ProductIngredient
}
