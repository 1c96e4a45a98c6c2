package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	transactiondomain "github.com/smallbiznis/kasira/internal/transaction/domain"
	"github.com/smallbiznis/kasira/pkg/db/pagination"
)

type createTransactionItem struct {
	ProductID string                              `json:"product_id" validate:"required"`
	Quantity  float64                             `json:"quantity" validate:"gt=0"`
	Variants  []transactiondomain.SelectedVariant `json:"variants,omitempty"`
}

type createTransactionRequest struct {
	CustomerID          *string                 `json:"customer_id,omitempty"`
	PaymentMethodCode   string                  `json:"payment_method_code" validate:"required"`
	TransactionTypeCode string                  `json:"transaction_type_code" validate:"required"`
	StatusCode          string                  `json:"status_code"`
	Description         string                  `json:"description"`
	IsIn                bool                    `json:"is_in"`
	Items               []createTransactionItem `json:"items" validate:"required,min=1,dive"`
}

// CreateTransaction is the sale endpoint. A failure means the sale did not
// happen and the cashier must retry; success means the sale is committed
// locally and queued for push regardless of connectivity.
func (s *Server) CreateTransaction(c *gin.Context) {
	var req createTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		respondBadRequest(c, err)
		return
	}

	createReq := transactiondomain.CreateRequest{
		CustomerID:          req.CustomerID,
		PaymentMethodCode:   req.PaymentMethodCode,
		TransactionTypeCode: req.TransactionTypeCode,
		StatusCode:          req.StatusCode,
		Description:         req.Description,
		IsIn:                req.IsIn,
	}
	for _, item := range req.Items {
		createReq.Items = append(createReq.Items, transactiondomain.CreateItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Variants:  item.Variants,
		})
	}

	detail, err := s.transactionSvc.Create(c.Request.Context(), createReq)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

func (s *Server) ListTransactions(c *gin.Context) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		respondBadRequest(c, err)
		return
	}
	limit, offset := page.Normalize()

	unsyncedOnly, _ := strconv.ParseBool(c.Query("unsynced"))

	items, err := s.transactionSvc.List(c.Request.Context(), transactiondomain.ListRequest{
		UnsyncedOnly: unsyncedOnly,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items})
}

func (s *Server) GetTransaction(c *gin.Context) {
	detail, err := s.transactionSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}
