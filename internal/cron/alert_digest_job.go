package cron

import (
	"context"
	"fmt"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/logger"
)

type digestSender interface {
	SendDaily(ctx context.Context) (int, error)
}

// AlertDigestJobParams configure the daily digest delivery.
type AlertDigestJobParams struct {
	Logger   *logger.Logger
	Notifier digestSender
}

// NewAlertDigestJob builds the cron job that mails the daily alert digest.
func NewAlertDigestJob(params AlertDigestJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Notifier == nil {
		return nil, fmt.Errorf("notifier required")
	}
	return &alertDigestJob{logg: params.Logger, notifier: params.Notifier}, nil
}

type alertDigestJob struct {
	logg     *logger.Logger
	notifier digestSender
}

func (j *alertDigestJob) Name() string { return "alert-digest" }

func (j *alertDigestJob) Run(ctx context.Context) error {
	count, err := j.notifier.SendDaily(ctx)
	if err != nil {
		return fmt.Errorf("send daily digest: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "alerts", count)
	if count == 0 {
		j.logg.Info(logCtx, "no open alerts today; digest skipped")
		return nil
	}
	j.logg.Info(logCtx, "alert digest sent")
	return nil
}
