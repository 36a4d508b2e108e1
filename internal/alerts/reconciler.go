package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/db/models"
	"github.com/plantitas-de-la-fe/pos-backend/pkg/enums"
)

// Reconciler applies the evaluator verdict to stored alert rows: open kinds
// are created when absent, everything else is resolved. Running it twice in a
// row is a no-op.
type Reconciler struct {
	repo Repository
	now  func() time.Time
}

// NewReconciler builds a reconciler over the given repository.
func NewReconciler(repo Repository) (*Reconciler, error) {
	if repo == nil {
		return nil, fmt.Errorf("alert repository required")
	}
	return &Reconciler{repo: repo, now: time.Now}, nil
}

// At overrides the clock used for evaluation.
func (r *Reconciler) At(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Reconcile evaluates the product and syncs its alert rows.
func (r *Reconciler) Reconcile(ctx context.Context, product models.Product) error {
	now := r.now()
	desired := Evaluate(product, now)

	for _, kind := range AllKinds {
		want, open := desired[kind]
		if !open {
			if err := r.repo.ResolveKind(ctx, product.ID, kind, now); err != nil {
				return fmt.Errorf("resolving %s alerts: %w", kind, err)
			}
			continue
		}

		existing, err := r.repo.FindUnresolved(ctx, product.ID, kind)
		if err != nil {
			return fmt.Errorf("checking %s alerts: %w", kind, err)
		}
		if len(existing) > 0 {
			continue
		}

		alert := &models.Alert{
			ProductID: product.ID,
			Kind:      kind,
			Message:   want.Message,
			Severity:  want.Severity,
		}
		if err := r.repo.Create(ctx, alert); err != nil {
			return fmt.Errorf("creating %s alert: %w", kind, err)
		}
	}
	return nil
}

// ForceResolve closes every unresolved alert of the given kind regardless of
// the evaluator verdict. Manual care actions use it before re-evaluating.
func (r *Reconciler) ForceResolve(ctx context.Context, productID string, kind enums.AlertKind) error {
	return r.repo.ResolveKind(ctx, productID, kind, r.now())
}

// Restore re-opens a previously captured alert with its original message and
// severity. Used by life extension to keep watering/overstock context visible.
func (r *Reconciler) Restore(ctx context.Context, productID string, kind enums.AlertKind, message string, severity enums.AlertSeverity) error {
	existing, err := r.repo.FindUnresolved(ctx, productID, kind)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	return r.repo.Create(ctx, &models.Alert{
		ProductID: productID,
		Kind:      kind,
		Message:   message,
		Severity:  severity,
	})
}
