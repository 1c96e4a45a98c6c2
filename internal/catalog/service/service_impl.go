package service

import (
	"context"
	"strings"

	"github.com/smallbiznis/kasira/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB   *gorm.DB
	Log  *zap.Logger
	Repo domain.Repository
}

type Service struct {
	db   *gorm.DB
	log  *zap.Logger
	repo domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:   p.DB,
		log:  p.Log.Named("catalog.service"),
		repo: p.Repo,
	}
}

// ApplyCategories writes pulled category records row by row. The remote
// record always wins; there is no timestamp comparison because the device
// never mutates category fields.
func (s *Service) ApplyCategories(ctx context.Context, records []domain.Category) error {
	for i := range records {
		record := records[i]
		if strings.TrimSpace(record.ID) == "" {
			s.log.Warn("skipping category without id", zap.String("name", record.Name))
			continue
		}
		if err := s.repo.UpsertCategory(ctx, s.db, &record); err != nil {
			return err
		}
	}
	return nil
}

// ApplyProducts upserts each pulled product and replaces its ingredient set.
// The upsert and the ingredient refresh for one product share a transaction
// so a failure cannot leave a product with a half-replaced recipe.
func (s *Service) ApplyProducts(ctx context.Context, records []domain.ProductRecord) error {
	for i := range records {
		record := records[i]
		if strings.TrimSpace(record.ID) == "" {
			s.log.Warn("skipping product without id", zap.String("name", record.Name))
			continue
		}
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := s.repo.UpsertProduct(ctx, tx, &record.Product); err != nil {
				return err
			}
			for j := range record.Ingredients {
				record.Ingredients[j].ProductID = record.ID
			}
			return s.repo.ReplaceIngredients(ctx, tx, record.ID, record.Ingredients)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ListCategories(ctx context.Context, includeDeleted bool) ([]domain.Category, error) {
	return s.repo.FindAllCategories(ctx, s.db, includeDeleted)
}

func (s *Service) ListProducts(ctx context.Context, req domain.ListProductsRequest) ([]domain.Product, error) {
	req.Keyword = strings.TrimSpace(req.Keyword)
	req.CategoryID = strings.TrimSpace(req.CategoryID)
	return s.repo.ListProducts(ctx, s.db, req)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrInvalidID
	}
	item, err := s.repo.FindProductByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

func (s *Service) GetProductIngredients(ctx context.Context, productID string) ([]domain.ProductIngredient, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, domain.ErrInvalidID
	}
	return s.repo.FindIngredients(ctx, s.db, productID)
}
