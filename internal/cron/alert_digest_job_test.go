package cron

import (
	"context"
	"errors"
	"testing"

	"github.com/plantitas-de-la-fe/pos-backend/pkg/logger"
)

type stubDigest struct {
	count int
	err   error
	calls int
}

func (s *stubDigest) SendDaily(context.Context) (int, error) {
	s.calls++
	return s.count, s.err
}

func TestAlertDigestJobDelegatesToNotifier(t *testing.T) {
	sender := &stubDigest{count: 3}
	job, err := NewAlertDigestJob(AlertDigestJobParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Notifier: sender,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if job.Name() != "alert-digest" {
		t.Fatalf("name = %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if sender.calls != 1 {
		t.Fatalf("calls = %d", sender.calls)
	}
}

func TestAlertDigestJobPropagatesErrors(t *testing.T) {
	sender := &stubDigest{err: errors.New("smtp down")}
	job, err := NewAlertDigestJob(AlertDigestJobParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Notifier: sender,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
