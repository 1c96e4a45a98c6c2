package remote

import (
	"context"
	"time"

	catalogdomain "github.com/smallbiznis/kasira/internal/catalog/domain"
	transactiondomain "github.com/smallbiznis/kasira/internal/transaction/domain"
)

// Client is the typed façade over the remote system of record. Calls fail
// with *NetworkError (transport) or *RemoteError (non-2xx). No retry or
// backoff lives here; retry is the sync cycle's concern.
type Client interface {
	FetchCategories(ctx context.Context) ([]CategoryDTO, error)
	FetchCatalog(ctx context.Context, pageSize int, includeDeleted bool) ([]ProductDTO, error)
	FetchTransactions(ctx context.Context, page, size int, sort string) ([]TransactionDTO, error)
	SubmitTransaction(ctx context.Context, payload SubmitTransactionRequest) (*TransactionDTO, error)
}

type CategoryDTO struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

func (d CategoryDTO) ToDomain() catalogdomain.Category {
	return catalogdomain.Category{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		DeletedAt:   d.DeletedAt,
	}
}

type IngredientDTO struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Quantity        float64 `json:"quantity"`
	MeasureUnitCode string  `json:"measureUnitCode"`
	MeasureUnitName string  `json:"measureUnitName"`
}

type ProductDTO struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	SellingPrice    float64         `json:"sellingPrice"`
	BuyingPrice     float64         `json:"buyingPrice"`
	Stock           float64         `json:"stock"`
	CategoryID      string          `json:"categoryId"`
	ImageURL        string          `json:"imageUrl"`
	Barcode         string          `json:"barcode"`
	Tax             float64         `json:"tax"`
	Commission      float64         `json:"commission"`
	Discount        float64         `json:"discount"`
	MeasureUnitCode string          `json:"measureUnitCode"`
	MeasureUnitName string          `json:"measureUnitName"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
	DeletedAt       *time.Time      `json:"deletedAt,omitempty"`
	Ingredients     []IngredientDTO `json:"ingredients,omitempty"`
}

func (d ProductDTO) ToDomain() catalogdomain.ProductRecord {
	record := catalogdomain.ProductRecord{
		Product: catalogdomain.Product{
			ID:              d.ID,
			Name:            d.Name,
			Description:     d.Description,
			SellingPrice:    d.SellingPrice,
			BuyingPrice:     d.BuyingPrice,
			Stock:           d.Stock,
			CategoryID:      d.CategoryID,
			ImageURL:        d.ImageURL,
			Barcode:         d.Barcode,
			Tax:             d.Tax,
			Commission:      d.Commission,
			Discount:        d.Discount,
			MeasureUnitCode: d.MeasureUnitCode,
			MeasureUnitName: d.MeasureUnitName,
			CreatedAt:       d.CreatedAt,
			UpdatedAt:       d.UpdatedAt,
			DeletedAt:       d.DeletedAt,
		},
	}
	for _, ingredient := range d.Ingredients {
		record.Ingredients = append(record.Ingredients, catalogdomain.ProductIngredient{
			ID:              ingredient.ID,
			ProductID:       d.ID,
			Name:            ingredient.Name,
			Quantity:        ingredient.Quantity,
			MeasureUnitCode: ingredient.MeasureUnitCode,
			MeasureUnitName: ingredient.MeasureUnitName,
		})
	}
	return record
}

type VariantDTO struct {
	GroupID    string  `json:"groupId"`
	OptionID   string  `json:"optionId"`
	Name       string  `json:"name"`
	PriceDelta float64 `json:"priceDelta"`
}

type TransactionProductDTO struct {
	ProductID        string       `json:"productId"`
	ProductName      string       `json:"productName"`
	Quantity         float64      `json:"quantity"`
	Price            float64      `json:"price"`
	Tax              float64      `json:"tax"`
	Discount         float64      `json:"discount"`
	SelectedVariants []VariantDTO `json:"selectedVariants,omitempty"`
}

type TransactionDTO struct {
	ID                  string                  `json:"id"`
	StoreID             string                  `json:"storeId"`
	CustomerID          *string                 `json:"customerId,omitempty"`
	TotalPrice          float64                 `json:"totalPrice"`
	TotalTax            float64                 `json:"totalTax"`
	TotalDiscount       float64                 `json:"totalDiscount"`
	TotalCommission     float64                 `json:"totalCommission"`
	PaymentMethodCode   string                  `json:"paymentMethodCode"`
	TransactionTypeCode string                  `json:"transactionTypeCode"`
	StatusCode          string                  `json:"statusCode"`
	In                  bool                    `json:"in"`
	Description         string                  `json:"description"`
	CreatedAt           time.Time               `json:"createdAt"`
	TransactionProducts []TransactionProductDTO `json:"transactionProducts"`
}

func (d TransactionDTO) ToDomain() (transactiondomain.Record, error) {
	record := transactiondomain.Record{
		Transaction: transactiondomain.Transaction{
			ID:                  d.ID,
			StoreID:             d.StoreID,
			CustomerID:          d.CustomerID,
			TotalPrice:          d.TotalPrice,
			TotalTax:            d.TotalTax,
			TotalDiscount:       d.TotalDiscount,
			TotalCommission:     d.TotalCommission,
			PaymentMethodCode:   d.PaymentMethodCode,
			TransactionTypeCode: d.TransactionTypeCode,
			StatusCode:          d.StatusCode,
			IsIn:                d.In,
			Description:         d.Description,
			CreatedAt:           d.CreatedAt,
		},
	}
	for _, product := range d.TransactionProducts {
		item := transactiondomain.TransactionItem{
			TransactionID: d.ID,
			ProductID:     product.ProductID,
			ProductName:   product.ProductName,
			Quantity:      product.Quantity,
			Price:         product.Price,
			Tax:           product.Tax,
			Discount:      product.Discount,
		}
		variants := make([]transactiondomain.SelectedVariant, 0, len(product.SelectedVariants))
		for _, variant := range product.SelectedVariants {
			variants = append(variants, transactiondomain.SelectedVariant{
				GroupID:    variant.GroupID,
				OptionID:   variant.OptionID,
				Name:       variant.Name,
				PriceDelta: variant.PriceDelta,
			})
		}
		if err := item.SetVariants(variants); err != nil {
			return transactiondomain.Record{}, err
		}
		record.Items = append(record.Items, item)
	}
	return record, nil
}

// SubmitTransactionRequest is the push payload. The id is the locally
// generated one; the server treats it as the idempotency key and echoes it
// back, so the record keeps a stable identity across push and pull.
type SubmitTransactionRequest struct {
	ID                  string                  `json:"id"`
	StoreID             string                  `json:"storeId"`
	CustomerID          *string                 `json:"customerId,omitempty"`
	TotalPrice          float64                 `json:"totalPrice"`
	TotalTax            float64                 `json:"totalTax"`
	TotalDiscount       float64                 `json:"totalDiscount"`
	TotalCommission     float64                 `json:"totalCommission"`
	PaymentMethodCode   string                  `json:"paymentMethodCode"`
	TransactionTypeCode string                  `json:"transactionTypeCode"`
	StatusCode          string                  `json:"statusCode"`
	In                  bool                    `json:"in"`
	Description         string                  `json:"description"`
	TransactionProducts []TransactionProductDTO `json:"transactionProducts"`
}

// BuildSubmission maps a local unsynced transaction into the push payload.
func BuildSubmission(detail transactiondomain.Detail) (SubmitTransactionRequest, error) {
	payload := SubmitTransactionRequest{
		ID:                  detail.ID,
		StoreID:             detail.StoreID,
		CustomerID:          detail.CustomerID,
		TotalPrice:          detail.TotalPrice,
		TotalTax:            detail.TotalTax,
		TotalDiscount:       detail.TotalDiscount,
		TotalCommission:     detail.TotalCommission,
		PaymentMethodCode:   detail.PaymentMethodCode,
		TransactionTypeCode: detail.TransactionTypeCode,
		StatusCode:          detail.StatusCode,
		In:                  detail.IsIn,
		Description:         detail.Description,
	}
	for i := range detail.Items {
		item := detail.Items[i]
		variants, err := item.Variants()
		if err != nil {
			return SubmitTransactionRequest{}, err
		}
		product := TransactionProductDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Tax:         item.Tax,
			Discount:    item.Discount,
		}
		for _, variant := range variants {
			product.SelectedVariants = append(product.SelectedVariants, VariantDTO{
				GroupID:    variant.GroupID,
				OptionID:   variant.OptionID,
				Name:       variant.Name,
				PriceDelta: variant.PriceDelta,
			})
		}
		payload.TransactionProducts = append(payload.TransactionProducts, product)
	}
	return payload, nil
}
