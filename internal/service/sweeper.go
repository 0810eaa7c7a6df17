package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/kopiroti/api/internal/database"
	"github.com/kopiroti/api/internal/enum"
)

// SweepStore defines the DB methods the auto-clear sweeper needs.
// Satisfied by *database.Queries.
type SweepStore interface {
	GetSettings(ctx context.Context) (database.Settings, error)
	AutoClearOverdueOrders(ctx context.Context, cutoff time.Time) ([]database.Order, error)
	AutoClearOverdueCakeOrders(ctx context.Context, now time.Time) ([]database.Order, error)
}

// Sweeper cancels stale unpaid orders on a fixed interval: normal orders
// past the configured age, cake orders past their down payment deadline.
type Sweeper struct {
	store    SweepStore
	notifier Notifier
	interval time.Duration
	now      func() time.Time
}

// NewSweeper creates a Sweeper that runs hourly.
func NewSweeper(store SweepStore, notifier Notifier) *Sweeper {
	return &Sweeper{
		store:    store,
		notifier: notifier,
		interval: time.Hour,
		now:      time.Now,
	}
}

// Run sweeps once immediately and then on every tick until the context is
// cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.sweepAndLog(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweepAndLog(ctx)
		}
	}
}

func (s *Sweeper) sweepAndLog(ctx context.Context) {
	cleared, err := s.Sweep(ctx)
	if err != nil {
		log.Printf("ERROR: auto-clear sweep: %v", err)
	}
	if cleared > 0 {
		log.Printf("auto-clear: cancelled %d overdue orders", cleared)
	}
}

// Sweep runs both clearing rules once. Each rule is a single conditional
// bulk update guarded by auto_cleared, so overlapping sweeps touch each
// order at most once. A failing rule does not stop the other; the first
// failure is returned alongside the count of orders actually cancelled.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return 0, fmt.Errorf("get settings: %w", err)
	}

	now := s.now().UTC()
	cleared := 0
	var firstErr error

	cutoff := now.Add(-time.Duration(settings.AutoClearNormalHours) * time.Hour)
	orders, err := s.store.AutoClearOverdueOrders(ctx, cutoff)
	if err != nil {
		firstErr = fmt.Errorf("clear overdue orders: %w", err)
	} else {
		cleared += len(orders)
		s.publishCleared(orders)
	}

	cakeOrders, err := s.store.AutoClearOverdueCakeOrders(ctx, now)
	if err != nil {
		if firstErr == nil {
			firstErr = fmt.Errorf("clear overdue cake orders: %w", err)
		}
	} else {
		cleared += len(cakeOrders)
		s.publishCleared(cakeOrders)
	}

	return cleared, firstErr
}

func (s *Sweeper) publishCleared(orders []database.Order) {
	if s.notifier == nil {
		return
	}
	for _, o := range orders {
		s.notifier.Publish(enum.EventOrderStatusChanged, o)
	}
}
