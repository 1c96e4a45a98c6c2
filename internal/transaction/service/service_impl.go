package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/kasira/internal/catalog/domain"
	"github.com/smallbiznis/kasira/internal/clock"
	"github.com/smallbiznis/kasira/internal/idgen"
	"github.com/smallbiznis/kasira/internal/session"
	"github.com/smallbiznis/kasira/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Repo        domain.Repository
	CatalogRepo catalogdomain.Repository
	GenID       idgen.Generator
	ItemID      *snowflake.Node
	Sessions    *session.Manager
	Clock       clock.Clock
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	repo        domain.Repository
	catalogRepo catalogdomain.Repository
	genID       idgen.Generator
	itemID      *snowflake.Node
	sessions    *session.Manager
	clock       clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("transaction.service"),
		repo:        p.Repo,
		catalogRepo: p.CatalogRepo,
		genID:       p.GenID,
		itemID:      p.ItemID,
		sessions:    p.Sessions,
		clock:       p.Clock,
	}
}

// Create commits a sale in one local database transaction: the transaction
// row (is_synced=false), its line items with a product-name snapshot, and an
// optimistic stock decrement per item. A failure anywhere rolls the whole
// unit back and is surfaced to the caller; a later push failure never rolls
// anything back, because by then the sale has already happened.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Detail, error) {
	sess, err := s.sessions.Current()
	if err != nil {
		return nil, err
	}

	if len(req.Items) == 0 {
		return nil, domain.ErrEmptyItems
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" || item.Quantity <= 0 {
			return nil, domain.ErrInvalidItem
		}
	}

	now := s.clock.Now()
	record := &domain.Transaction{
		ID:                  s.genID.NewID(),
		StoreID:             sess.StoreID,
		CustomerID:          req.CustomerID,
		PaymentMethodCode:   req.PaymentMethodCode,
		TransactionTypeCode: req.TransactionTypeCode,
		StatusCode:          req.StatusCode,
		IsIn:                req.IsIn,
		Description:         strings.TrimSpace(req.Description),
		IsSynced:            false,
		CreatedAt:           now,
	}

	var items []domain.TransactionItem

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items = items[:0]
		record.TotalPrice = 0
		record.TotalTax = 0
		record.TotalDiscount = 0
		record.TotalCommission = 0

		for _, reqItem := range req.Items {
			product, err := s.catalogRepo.FindProductByID(ctx, tx, reqItem.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrUnknownProduct
			}

			unitPrice := product.SellingPrice
			for _, variant := range reqItem.Variants {
				unitPrice += variant.PriceDelta
			}

			item := domain.TransactionItem{
				ID:            s.itemID.Generate().Int64(),
				TransactionID: record.ID,
				ProductID:     product.ID,
				ProductName:   product.Name,
				Quantity:      reqItem.Quantity,
				Price:         unitPrice,
				Tax:           product.Tax,
				Discount:      product.Discount,
			}
			if err := item.SetVariants(reqItem.Variants); err != nil {
				return err
			}
			items = append(items, item)

			record.TotalPrice += unitPrice * reqItem.Quantity
			record.TotalTax += product.Tax * reqItem.Quantity
			record.TotalDiscount += product.Discount * reqItem.Quantity
			record.TotalCommission += product.Commission * reqItem.Quantity
		}

		if err := s.repo.Insert(ctx, tx, record); err != nil {
			return err
		}
		if err := s.repo.InsertItems(ctx, tx, items); err != nil {
			return err
		}
		for _, item := range items {
			if err := s.repo.DecrementStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("transaction created",
		zap.String("transaction_id", record.ID),
		zap.Int("items", len(items)),
		zap.Float64("total_price", record.TotalPrice),
	)

	return &domain.Detail{Transaction: *record, Items: items}, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Detail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}
	record, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, domain.ErrNotFound
	}
	items, err := s.repo.FindItems(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	return &domain.Detail{Transaction: *record, Items: items}, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Transaction, error) {
	return s.repo.List(ctx, s.db, req)
}

func (s *Service) FindUnsynced(ctx context.Context) ([]domain.Detail, error) {
	records, err := s.repo.FindUnsynced(ctx, s.db)
	if err != nil {
		return nil, err
	}
	details := make([]domain.Detail, 0, len(records))
	for _, record := range records {
		items, err := s.repo.FindItems(ctx, s.db, record.ID)
		if err != nil {
			return nil, err
		}
		details = append(details, domain.Detail{Transaction: record, Items: items})
	}
	return details, nil
}

func (s *Service) MarkSynced(ctx context.Context, id string) error {
	return s.repo.MarkSynced(ctx, s.db, id)
}

// ApplyRemote writes pulled transactions: the server row overwrites the
// local one, the server's line items replace the local set, and the record
// is marked synced. Items are never appended, so re-pulling the same
// transaction cannot duplicate its lines.
func (s *Service) ApplyRemote(ctx context.Context, records []domain.Record) error {
	for i := range records {
		record := records[i]
		if strings.TrimSpace(record.ID) == "" {
			s.log.Warn("skipping pulled transaction without id")
			continue
		}
		record.IsSynced = true

		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.repo.Upsert(ctx, tx, &record.Transaction); err != nil {
				return err
			}
			for j := range record.Items {
				record.Items[j].TransactionID = record.ID
				if record.Items[j].ID == 0 {
					record.Items[j].ID = s.itemID.Generate().Int64()
				}
			}
			return s.repo.ReplaceItems(ctx, tx, record.ID, record.Items)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
