package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/kasira/internal/catalog/domain"
	catalogrepository "github.com/smallbiznis/kasira/internal/catalog/repository"
	"github.com/smallbiznis/kasira/internal/clock"
	"github.com/smallbiznis/kasira/internal/idgen"
	"github.com/smallbiznis/kasira/internal/migration"
	"github.com/smallbiznis/kasira/internal/session"
	"github.com/smallbiznis/kasira/internal/transaction/domain"
	"github.com/smallbiznis/kasira/internal/transaction/repository"
	"github.com/smallbiznis/kasira/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	svc      domain.Service
	conn     *gorm.DB
	sessions *session.Manager
	clock    *clock.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.Open(db.Config{
		Path: fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	})
	require.NoError(t, err)
	require.NoError(t, migration.RunMigrations(conn))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	sessions := session.NewManager()
	fakeClock := clock.NewFakeClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	svc := New(Params{
		DB:          conn,
		Log:         zap.NewNop(),
		Repo:        repository.Provide(),
		CatalogRepo: catalogrepository.Provide(),
		GenID:       idgen.NewULIDGenerator(),
		ItemID:      node,
		Sessions:    sessions,
		Clock:       fakeClock,
	})

	return &fixture{svc: svc, conn: conn, sessions: sessions, clock: fakeClock}
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	require.NoError(t, f.sessions.Login(session.Session{
		StoreID:   "store-1",
		CashierID: "cashier-1",
		Token:     "token-1",
	}))
}

func (f *fixture) seedProduct(t *testing.T, id, name string, price, stock float64) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, f.conn.Create(&catalogdomain.Product{
		ID:           id,
		Name:         name,
		SellingPrice: price,
		Stock:        stock,
		Tax:          500,
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error)
}

func (f *fixture) productStock(t *testing.T, id string) float64 {
	t.Helper()
	var product catalogdomain.Product
	require.NoError(t, f.conn.First(&product, "id = ?", id).Error)
	return product.Stock
}

func TestCreateRequiresSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Items: []domain.CreateItem{{ProductID: "p-1", Quantity: 1}},
	})
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestCreateCommitsAtomicUnit(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.seedProduct(t, "p-1", "Es Kopi Susu", 18000, 10)

	detail, err := f.svc.Create(context.Background(), domain.CreateRequest{
		PaymentMethodCode:   "CASH",
		TransactionTypeCode: "SALE",
		StatusCode:          "COMPLETED",
		IsIn:                true,
		Items: []domain.CreateItem{
			{ProductID: "p-1", Quantity: 2, Variants: []domain.SelectedVariant{
				{GroupID: "g-1", OptionID: "o-1", Name: "Large", PriceDelta: 2000},
			}},
		},
	})
	require.NoError(t, err)
	require.NotEmpty(t, detail.ID)

	assert.Equal(t, "store-1", detail.StoreID)
	assert.False(t, detail.IsSynced)
	assert.Equal(t, 40000.0, detail.TotalPrice) // (18000+2000)*2
	assert.Equal(t, 1000.0, detail.TotalTax)
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "Es Kopi Susu", detail.Items[0].ProductName)

	variants, err := detail.Items[0].Variants()
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, 2000.0, variants[0].PriceDelta)

	// transaction, items and stock decrement are observable together
	got, err := f.svc.Get(context.Background(), detail.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 8.0, f.productStock(t, "p-1"))
}

func TestCreateUnknownProductRollsBackEverything(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.seedProduct(t, "p-1", "Es Kopi Susu", 18000, 10)

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Items: []domain.CreateItem{
			{ProductID: "p-1", Quantity: 2},
			{ProductID: "missing", Quantity: 1},
		},
	})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)

	var txCount, itemCount int64
	require.NoError(t, f.conn.Model(&domain.Transaction{}).Count(&txCount).Error)
	require.NoError(t, f.conn.Model(&domain.TransactionItem{}).Count(&itemCount).Error)
	assert.Zero(t, txCount)
	assert.Zero(t, itemCount)
	assert.Equal(t, 10.0, f.productStock(t, "p-1"))
}

func TestCreateAllowsNegativeStock(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.seedProduct(t, "p-1", "Es Kopi Susu", 18000, 1)

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Items: []domain.CreateItem{{ProductID: "p-1", Quantity: 3}},
	})
	require.NoError(t, err)
	assert.Equal(t, -2.0, f.productStock(t, "p-1"))
}

func TestStockDecrementIsMonotonic(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.seedProduct(t, "p-1", "Es Kopi Susu", 18000, 100)

	quantities := []float64{2, 3, 5}
	for _, quantity := range quantities {
		_, err := f.svc.Create(context.Background(), domain.CreateRequest{
			Items: []domain.CreateItem{{ProductID: "p-1", Quantity: quantity}},
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 90.0, f.productStock(t, "p-1"))

	unsynced, err := f.svc.FindUnsynced(context.Background())
	require.NoError(t, err)
	assert.Len(t, unsynced, 3)
}

func TestCreateValidatesItems(t *testing.T) {
	f := newFixture(t)
	f.login(t)

	_, err := f.svc.Create(context.Background(), domain.CreateRequest{})
	assert.ErrorIs(t, err, domain.ErrEmptyItems)

	_, err = f.svc.Create(context.Background(), domain.CreateRequest{
		Items: []domain.CreateItem{{ProductID: "p-1", Quantity: 0}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestMarkSyncedTakesRecordOutOfQueue(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.seedProduct(t, "p-1", "Es Kopi Susu", 18000, 10)

	detail, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Items: []domain.CreateItem{{ProductID: "p-1", Quantity: 1}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.MarkSynced(context.Background(), detail.ID))

	unsynced, err := f.svc.FindUnsynced(context.Background())
	require.NoError(t, err)
	assert.Empty(t, unsynced)
}

func TestApplyRemoteReplacesItemsWithoutDuplication(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.seedProduct(t, "p-1", "Es Kopi Susu", 18000, 10)

	detail, err := f.svc.Create(context.Background(), domain.CreateRequest{
		Items: []domain.CreateItem{{ProductID: "p-1", Quantity: 2}},
	})
	require.NoError(t, err)

	record := domain.Record{
		Transaction: detail.Transaction,
		Items: []domain.TransactionItem{
			{ProductID: "p-1", ProductName: "Es Kopi Susu", Quantity: 2, Price: 18000},
		},
	}
	record.StatusCode = "COMPLETED"

	require.NoError(t, f.svc.ApplyRemote(context.Background(), []domain.Record{record}))
	require.NoError(t, f.svc.ApplyRemote(context.Background(), []domain.Record{record}))

	got, err := f.svc.Get(context.Background(), detail.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSynced)
	assert.Equal(t, "COMPLETED", got.StatusCode)
	assert.Len(t, got.Items, 1)
}
