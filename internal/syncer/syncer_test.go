package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/kasira/internal/catalog/domain"
	catalogrepository "github.com/smallbiznis/kasira/internal/catalog/repository"
	catalogservice "github.com/smallbiznis/kasira/internal/catalog/service"
	"github.com/smallbiznis/kasira/internal/clock"
	"github.com/smallbiznis/kasira/internal/idgen"
	"github.com/smallbiznis/kasira/internal/migration"
	"github.com/smallbiznis/kasira/internal/remote"
	"github.com/smallbiznis/kasira/internal/session"
	"github.com/smallbiznis/kasira/internal/syncstate"
	transactiondomain "github.com/smallbiznis/kasira/internal/transaction/domain"
	transactionrepository "github.com/smallbiznis/kasira/internal/transaction/repository"
	transactionservice "github.com/smallbiznis/kasira/internal/transaction/service"
	"github.com/smallbiznis/kasira/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeRemote records every call in order and serves canned pages.
type fakeRemote struct {
	mu    sync.Mutex
	calls []string

	categories   []remote.CategoryDTO
	products     []remote.ProductDTO
	transactions []remote.TransactionDTO
	submitted    []remote.SubmitTransactionRequest

	categoriesErr   error
	productsErr     error
	transactionsErr error
	submitErr       error

	// categoriesGate, when set, holds the first step open so a second
	// cycle can be attempted while this one is in flight.
	categoriesGate chan struct{}

	// ctxInspect, when set, observes the context each fetch runs on.
	ctxInspect func(context.Context)
}

func (f *fakeRemote) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeRemote) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) FetchCategories(ctx context.Context) ([]remote.CategoryDTO, error) {
	f.record("FetchCategories")
	if f.ctxInspect != nil {
		f.ctxInspect(ctx)
	}
	if f.categoriesGate != nil {
		<-f.categoriesGate
	}
	return f.categories, f.categoriesErr
}

func (f *fakeRemote) FetchCatalog(ctx context.Context, pageSize int, includeDeleted bool) ([]remote.ProductDTO, error) {
	f.record(fmt.Sprintf("FetchCatalog(size=%d,includeDeleted=%t)", pageSize, includeDeleted))
	return f.products, f.productsErr
}

func (f *fakeRemote) FetchTransactions(ctx context.Context, page, size int, sort string) ([]remote.TransactionDTO, error) {
	f.record("FetchTransactions")
	return f.transactions, f.transactionsErr
}

func (f *fakeRemote) SubmitTransaction(ctx context.Context, payload remote.SubmitTransactionRequest) (*remote.TransactionDTO, error) {
	f.record("SubmitTransaction")
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.mu.Lock()
	f.submitted = append(f.submitted, payload)
	f.mu.Unlock()
	echo := remote.TransactionDTO{ID: payload.ID, StatusCode: payload.StatusCode}
	return &echo, nil
}

type harness struct {
	syncer         *Syncer
	conn           *gorm.DB
	client         *fakeRemote
	sessions       *session.Manager
	clock          *clock.FakeClock
	transactionSvc transactiondomain.Service
	watermarks     syncstate.Repository
}

func newHarness(t *testing.T) *harness {
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
	client := &fakeRemote{}

	catalogSvc := catalogservice.New(catalogservice.Params{
		DB:   conn,
		Log:  zap.NewNop(),
		Repo: catalogrepository.Provide(),
	})
	transactionSvc := transactionservice.New(transactionservice.Params{
		DB:          conn,
		Log:         zap.NewNop(),
		Repo:        transactionrepository.Provide(),
		CatalogRepo: catalogrepository.Provide(),
		GenID:       idgen.NewULIDGenerator(),
		ItemID:      node,
		Sessions:    sessions,
		Clock:       fakeClock,
	})
	watermarks := syncstate.Provide()

	s := New(Params{
		DB:             conn,
		Log:            zap.NewNop(),
		Client:         client,
		CatalogSvc:     catalogSvc,
		TransactionSvc: transactionSvc,
		WatermarkRepo:  watermarks,
		Sessions:       sessions,
		Clock:          fakeClock,
		Config: Config{
			SyncInterval:        time.Minute,
			CatalogPageSize:     500,
			TransactionPageSize: 50,
		},
	})

	return &harness{
		syncer:         s,
		conn:           conn,
		client:         client,
		sessions:       sessions,
		clock:          fakeClock,
		transactionSvc: transactionSvc,
		watermarks:     watermarks,
	}
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	require.NoError(t, h.sessions.Login(session.Session{
		StoreID:   "store-1",
		CashierID: "cashier-1",
		Token:     "token-1",
	}))
}

func (h *harness) seedProduct(t *testing.T, id string, stock float64) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, h.conn.Create(&catalogdomain.Product{
		ID:           id,
		Name:         "Es Kopi Susu",
		SellingPrice: 18000,
		Stock:        stock,
		CategoryID:   "cat-1",
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error)
}

func (h *harness) seedSale(t *testing.T, productID string, quantity float64) *transactiondomain.Detail {
	t.Helper()
	detail, err := h.transactionSvc.Create(context.Background(), transactiondomain.CreateRequest{
		PaymentMethodCode:   "CASH",
		TransactionTypeCode: "SALE",
		StatusCode:          "COMPLETED",
		IsIn:                true,
		Items: []transactiondomain.CreateItem{
			{ProductID: productID, Quantity: quantity},
		},
	})
	require.NoError(t, err)
	return detail
}

func (h *harness) productStock(t *testing.T, id string) float64 {
	t.Helper()
	var product catalogdomain.Product
	require.NoError(t, h.conn.First(&product, "id = ?", id).Error)
	return product.Stock
}

func remoteProduct(id string, stock float64) remote.ProductDTO {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	return remote.ProductDTO{
		ID:           id,
		Name:         "Es Kopi Susu",
		SellingPrice: 18000,
		Stock:        stock,
		CategoryID:   "cat-1",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestRunOnceRequiresSession(t *testing.T) {
	h := newHarness(t)

	err := h.syncer.RunOnce(context.Background(), TriggerTimer)
	assert.ErrorIs(t, err, session.ErrNotAuthenticated)
	assert.Empty(t, h.client.callLog())
}

func TestRunOncePushesBeforeTransactionPull(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	h.client.categories = []remote.CategoryDTO{{ID: "cat-1", Name: "Minuman"}}
	h.client.products = []remote.ProductDTO{remoteProduct("p-1", 10)}

	h.seedProduct(t, "p-1", 10)
	detail := h.seedSale(t, "p-1", 2)
	require.NoError(t, h.syncer.RunOnce(context.Background(), TriggerManual))

	assert.Equal(t, []string{
		"FetchCategories",
		"FetchCatalog(size=500,includeDeleted=true)",
		"SubmitTransaction",
		"FetchTransactions",
	}, h.client.callLog())

	got, err := h.transactionSvc.Get(context.Background(), detail.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSynced)

	require.Len(t, h.client.submitted, 1)
	assert.Equal(t, detail.ID, h.client.submitted[0].ID)
}

func TestRunOnceIsolatesStepFailures(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	h.client.categoriesErr = errors.New("boom")
	h.client.products = []remote.ProductDTO{remoteProduct("p-1", 10)}

	h.seedProduct(t, "p-1", 10)
	detail := h.seedSale(t, "p-1", 1)

	err := h.syncer.RunOnce(context.Background(), TriggerTimer)
	require.Error(t, err)
	assert.ErrorContains(t, err, "pull_categories")

	// the failing first step did not stop the rest of the cycle
	assert.Len(t, h.client.callLog(), 4)
	got, getErr := h.transactionSvc.Get(context.Background(), detail.ID)
	require.NoError(t, getErr)
	assert.True(t, got.IsSynced)
}

func TestRunOnceKeepsRecordUnsyncedWhenPushFails(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	h.client.products = []remote.ProductDTO{remoteProduct("p-1", 10)}
	h.client.submitErr = &remote.NetworkError{Op: "POST /transaction", Err: errors.New("connection refused")}

	h.seedProduct(t, "p-1", 10)
	detail := h.seedSale(t, "p-1", 1)

	err := h.syncer.RunOnce(context.Background(), TriggerTimer)
	require.Error(t, err)
	assert.ErrorContains(t, err, "push_transactions")

	got, getErr := h.transactionSvc.Get(context.Background(), detail.ID)
	require.NoError(t, getErr)
	assert.False(t, got.IsSynced)

	// the record is still in the queue for the next cycle
	h.client.submitErr = nil
	require.NoError(t, h.syncer.RunOnce(context.Background(), TriggerTimer))
	got, getErr = h.transactionSvc.Get(context.Background(), detail.ID)
	require.NoError(t, getErr)
	assert.True(t, got.IsSynced)
}

func TestRunOnceSuppressesOverlappingCycle(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	h.client.categoriesGate = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		done <- h.syncer.RunOnce(context.Background(), TriggerTimer)
	}()

	require.Eventually(t, h.syncer.Syncing, time.Second, 5*time.Millisecond)

	err := h.syncer.RunOnce(context.Background(), TriggerManual)
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(h.client.categoriesGate)
	require.NoError(t, <-done)
	assert.False(t, h.syncer.Syncing())
}

func TestStepsInheritCallerContext(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	hadDeadline := false
	h.client.ctxInspect = func(ctx context.Context) {
		_, hadDeadline = ctx.Deadline()
	}

	require.NoError(t, h.syncer.RunOnce(context.Background(), TriggerTimer))
	assert.False(t, hadDeadline, "steps must not impose their own deadline")
}

func TestRunOnceTouchesWatermarks(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	require.NoError(t, h.syncer.RunOnce(context.Background(), TriggerTimer))

	all, err := h.watermarks.All(context.Background(), h.conn)
	require.NoError(t, err)

	names := make([]string, 0, len(all))
	for _, status := range all {
		names = append(names, status.Name)
		assert.True(t, status.LastSyncAt.Equal(h.clock.Now()), "watermark %s", status.Name)
	}
	assert.ElementsMatch(t, []string{
		"categories",
		"products",
		"product_ingredients",
		"transactions",
		"transaction_items",
	}, names)
}

// TestOfflineSaleRoundTrip walks the canonical flow: catalog pulled, a sale
// recorded while offline, the sale pushed on the next cycle, and the pulled
// copy of the same record converging instead of duplicating.
func TestOfflineSaleRoundTrip(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	h.client.products = []remote.ProductDTO{remoteProduct("p-1", 10)}
	require.NoError(t, h.syncer.RunOnce(context.Background(), TriggerLogin))
	assert.Equal(t, 10.0, h.productStock(t, "p-1"))

	detail := h.seedSale(t, "p-1", 2)
	assert.Equal(t, 8.0, h.productStock(t, "p-1"))
	assert.False(t, detail.IsSynced)

	// the server has decremented its own stock and now returns the
	// transaction on the pull feed
	h.client.products = []remote.ProductDTO{remoteProduct("p-1", 8)}
	h.client.transactions = []remote.TransactionDTO{{
		ID:                  detail.ID,
		StoreID:             detail.StoreID,
		TotalPrice:          detail.TotalPrice,
		PaymentMethodCode:   detail.PaymentMethodCode,
		TransactionTypeCode: detail.TransactionTypeCode,
		StatusCode:          "COMPLETED",
		In:                  true,
		CreatedAt:           detail.CreatedAt,
		TransactionProducts: []remote.TransactionProductDTO{
			{ProductID: "p-1", ProductName: "Es Kopi Susu", Quantity: 2, Price: 18000},
		},
	}}

	require.NoError(t, h.syncer.RunOnce(context.Background(), TriggerTimer))

	got, err := h.transactionSvc.Get(context.Background(), detail.ID)
	require.NoError(t, err)
	assert.True(t, got.IsSynced)
	assert.Len(t, got.Items, 1)
	assert.Equal(t, 8.0, h.productStock(t, "p-1"))
	assert.Len(t, h.client.submitted, 1)

	// a third cycle neither re-pushes nor duplicates
	require.NoError(t, h.syncer.RunOnce(context.Background(), TriggerTimer))
	got, err = h.transactionSvc.Get(context.Background(), detail.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.Len(t, h.client.submitted, 1)
}
