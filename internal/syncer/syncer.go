package syncer

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	catalogdomain "github.com/smallbiznis/kasira/internal/catalog/domain"
	"github.com/smallbiznis/kasira/internal/clock"
	obsmetrics "github.com/smallbiznis/kasira/internal/observability/metrics"
	"github.com/smallbiznis/kasira/internal/remote"
	"github.com/smallbiznis/kasira/internal/session"
	"github.com/smallbiznis/kasira/internal/syncstate"
	transactiondomain "github.com/smallbiznis/kasira/internal/transaction/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrSyncInProgress reports that a cycle was suppressed because another one
// is still in flight. Cycles never queue; the suppressed trigger is simply
// dropped and the timer fires again.
var ErrSyncInProgress = errors.New("sync_in_progress")

const (
	TriggerTimer  = "timer"
	TriggerLogin  = "login"
	TriggerManual = "manual"
)

const (
	stepPullCategories   = "pull_categories"
	stepPullCatalog      = "pull_catalog"
	stepPushTransactions = "push_transactions"
	stepPullTransactions = "pull_transactions"
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	Client         remote.Client
	CatalogSvc     catalogdomain.Service
	TransactionSvc transactiondomain.Service
	WatermarkRepo  syncstate.Repository
	Sessions       *session.Manager
	Clock          clock.Clock
	Config         Config `optional:"true"`
}

// Syncer drives the push/pull cycle against the remote system of record.
// Exactly one cycle runs at a time; a cycle is a cooperative sequence of
// steps that are never cancelled mid-flight.
type Syncer struct {
	db             *gorm.DB
	log            *zap.Logger
	cfg            Config
	client         remote.Client
	catalogSvc     catalogdomain.Service
	transactionSvc transactiondomain.Service
	watermarkRepo  syncstate.Repository
	sessions       *session.Manager
	clock          clock.Clock

	syncing atomic.Bool
}

func New(p Params) *Syncer {
	return &Syncer{
		db:             p.DB,
		log:            p.Log.Named("syncer").With(zap.String("component", "syncer")),
		cfg:            p.Config.withDefaults(),
		client:         p.Client,
		catalogSvc:     p.CatalogSvc,
		transactionSvc: p.TransactionSvc,
		watermarkRepo:  p.WatermarkRepo,
		sessions:       p.Sessions,
		clock:          p.Clock,
	}
}

// Syncing reports whether a cycle is currently in flight.
func (s *Syncer) Syncing() bool {
	return s.syncing.Load()
}

// RunOnce executes one full sync cycle. Steps run strictly in order and are
// independently fault-isolated: a failing step is logged and the cycle moves
// on, so a broken catalog pull cannot block the transaction push. The push
// step runs before the transaction pull so a sale created just before the
// cycle reaches the server before its state is read back.
func (s *Syncer) RunOnce(parent context.Context, trigger string) error {
	syncMetrics := obsmetrics.Sync()

	if !s.syncing.CompareAndSwap(false, true) {
		syncMetrics.IncCycleSuppressed()
		return ErrSyncInProgress
	}
	defer s.syncing.Store(false)

	if _, err := s.sessions.Current(); err != nil {
		return err
	}

	runID := uuid.NewString()
	log := s.log.With(
		zap.String("run_id", runID),
		zap.String("trigger", trigger),
	)
	syncMetrics.IncCycleRun(trigger)
	log.Info("sync cycle started")

	var errs error
	errs = errors.Join(errs, s.runStep(parent, log, stepPullCategories, s.pullCategories))
	errs = errors.Join(errs, s.runStep(parent, log, stepPullCatalog, s.pullCatalog))
	errs = errors.Join(errs, s.runStep(parent, log, stepPushTransactions, s.pushTransactions))
	errs = errors.Join(errs, s.runStep(parent, log, stepPullTransactions, s.pullTransactions))

	log.Info("sync cycle finished", zap.Bool("clean", errs == nil))
	return errs
}

// runStep isolates one step: the error is recorded and logged, never
// propagated in a way that would stop later steps. No deadline is imposed
// here; a hung remote call is bounded only by the client's HTTP timeout.
func (s *Syncer) runStep(
	parent context.Context,
	log *zap.Logger,
	name string,
	fn func(ctx context.Context) error,
) error {
	syncMetrics := obsmetrics.Sync()
	syncMetrics.IncStepRun(name)

	start := time.Now()
	err := fn(parent)
	syncMetrics.ObserveStepDuration(name, time.Since(start))

	if err != nil {
		syncMetrics.IncStepError(name)
		log.Warn("sync step failed",
			zap.String("step", name),
			zap.Error(err),
		)
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (s *Syncer) pullCategories(ctx context.Context) error {
	dtos, err := s.client.FetchCategories(ctx)
	if err != nil {
		return err
	}
	records := make([]catalogdomain.Category, 0, len(dtos))
	for _, dto := range dtos {
		records = append(records, dto.ToDomain())
	}
	if err := s.catalogSvc.ApplyCategories(ctx, records); err != nil {
		return err
	}
	return s.touch(ctx, "categories")
}

func (s *Syncer) pullCatalog(ctx context.Context) error {
	dtos, err := s.client.FetchCatalog(ctx, s.cfg.CatalogPageSize, true)
	if err != nil {
		return err
	}
	records := make([]catalogdomain.ProductRecord, 0, len(dtos))
	for _, dto := range dtos {
		records = append(records, dto.ToDomain())
	}
	if err := s.catalogSvc.ApplyProducts(ctx, records); err != nil {
		return err
	}
	if err := s.touch(ctx, "products"); err != nil {
		return err
	}
	return s.touch(ctx, "product_ingredients")
}

// pushTransactions submits every unsynced transaction. Failures leave the
// record unsynced for the next cycle; there is no backoff and no attempt
// ceiling, the id keeps the retry idempotent on the server side.
func (s *Syncer) pushTransactions(ctx context.Context) error {
	details, err := s.transactionSvc.FindUnsynced(ctx)
	if err != nil {
		return err
	}
	if len(details) == 0 {
		return nil
	}

	syncMetrics := obsmetrics.Sync()
	var errs error
	pushed := 0
	for _, detail := range details {
		payload, err := remote.BuildSubmission(detail)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("build %s: %w", detail.ID, err))
			continue
		}
		if _, err := s.client.SubmitTransaction(ctx, payload); err != nil {
			errs = errors.Join(errs, fmt.Errorf("submit %s: %w", detail.ID, err))
			continue
		}
		if err := s.transactionSvc.MarkSynced(ctx, detail.ID); err != nil {
			errs = errors.Join(errs, fmt.Errorf("mark synced %s: %w", detail.ID, err))
			continue
		}
		pushed++
	}

	if pushed > 0 {
		syncMetrics.AddPushed(pushed)
		if err := s.touch(ctx, "transactions"); err != nil {
			errs = errors.Join(errs, err)
		}
	}
	return errs
}

func (s *Syncer) pullTransactions(ctx context.Context) error {
	dtos, err := s.client.FetchTransactions(ctx, 0, s.cfg.TransactionPageSize, "createdAt,desc")
	if err != nil {
		return err
	}
	records := make([]transactiondomain.Record, 0, len(dtos))
	for _, dto := range dtos {
		record, err := dto.ToDomain()
		if err != nil {
			return err
		}
		records = append(records, record)
	}
	if err := s.transactionSvc.ApplyRemote(ctx, records); err != nil {
		return err
	}
	if err := s.touch(ctx, "transactions"); err != nil {
		return err
	}
	return s.touch(ctx, "transaction_items")
}

func (s *Syncer) touch(ctx context.Context, table string) error {
	return s.watermarkRepo.Touch(ctx, s.db, table, s.clock.Now())
}

// RunForever runs a cycle immediately, then on every tick and on every
// login, until the context is cancelled.
func (s *Syncer) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SyncInterval)
	defer ticker.Stop()

	run := func(trigger string) {
		err := s.RunOnce(ctx, trigger)
		if err != nil &&
			!errors.Is(err, ErrSyncInProgress) &&
			!errors.Is(err, session.ErrNotAuthenticated) {
			s.log.Warn("sync run failed", zap.String("trigger", trigger), zap.Error(err))
		}
	}

	run(TriggerTimer)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			run(TriggerTimer)
		case <-s.sessions.LoginNotify():
			run(TriggerLogin)
		}
	}
}
