package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/internal/alerts"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/logger"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLister interface {
	ListAllProducts(ctx context.Context) ([]models.Product, error)
}

// AlertSweepJobParams configure the care alert sweep.
type AlertSweepJobParams struct {
	Logger   *logger.Logger
	DB       txRunner
	Products productLister
	Alerts   alerts.Repository
	Now      func() time.Time
}

// NewAlertSweepJob builds the cron job that re-evaluates care rules for the
// whole catalog, opening missing alerts and resolving stale ones.
func NewAlertSweepJob(params AlertSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product lister required")
	}
	if params.Alerts == nil {
		return nil, fmt.Errorf("alert repository required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &alertSweepJob{
		logg:     params.Logger,
		db:       params.DB,
		products: params.Products,
		alerts:   params.Alerts,
		now:      now,
	}, nil
}

type alertSweepJob struct {
	logg     *logger.Logger
	db       txRunner
	products productLister
	alerts   alerts.Repository
	now      func() time.Time
}

func (j *alertSweepJob) Name() string { return "alert-sweep" }

func (j *alertSweepJob) Run(ctx context.Context) error {
	products, err := j.products.ListAllProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}

	err = j.db.WithTx(ctx, func(tx *gorm.DB) error {
		reconciler, err := alerts.NewReconciler(j.alerts.WithTx(tx))
		if err != nil {
			return err
		}
		reconciler.At(j.now)
		for _, product := range products {
			if err := reconciler.Reconcile(ctx, product); err != nil {
				return fmt.Errorf("reconcile product %s: %w", product.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logCtx := j.logg.WithField(ctx, "count", len(products))
	j.logg.Info(logCtx, "alert sweep complete")
	return nil
}
