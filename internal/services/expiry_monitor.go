package services

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/sca-inventory-backend/internal/data/repos"
	"github.com/yungbote/sca-inventory-backend/internal/modules/inventory"
	"github.com/yungbote/sca-inventory-backend/internal/observability"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

type ExpiryReport struct {
	Critical []inventory.ExpiryStatus
	Expired  []inventory.ExpiryStatus
	Counts   map[inventory.Class]int
}

// ExpiryMonitor periodically classifies every active batch, refreshes the
// expiry gauges and raises an alert when anything is critical or expired.
type ExpiryMonitor struct {
	log       *logger.Logger
	batchRepo repos.BatchRepo
	notify    InventoryNotifier
	cfg       InventoryConfig
	interval  time.Duration
	digest    *ExpiryDigest

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewExpiryMonitor(log *logger.Logger, batchRepo repos.BatchRepo, notify InventoryNotifier, cfg InventoryConfig, interval time.Duration) *ExpiryMonitor {
	if interval <= 0 {
		interval = time.Hour
	}
	if notify == nil {
		notify = NewInventoryNotifier(nil)
	}
	return &ExpiryMonitor{
		log:       log.With("service", "ExpiryMonitor"),
		batchRepo: batchRepo,
		notify:    notify,
		cfg:       cfg,
		interval:  interval,
	}
}

// SetDigest enables the daily mail digest. Call it before Start.
func (m *ExpiryMonitor) SetDigest(d *ExpiryDigest) { m.digest = d }

// Start runs one pass immediately and then one per interval until ctx is
// cancelled or Stop is called. Calling Start twice is a no-op.
func (m *ExpiryMonitor) Start(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.tick(ctx)
		t := time.NewTicker(m.interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				m.tick(ctx)
			}
		}
	}()
	m.log.Info("Expiry monitor started", "interval", m.interval.String())
}

func (m *ExpiryMonitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	m.wg.Wait()
	m.log.Info("Expiry monitor stopped")
}

func (m *ExpiryMonitor) tick(ctx context.Context) {
	if _, err := m.RunOnce(ctx); err != nil && ctx.Err() == nil {
		m.log.Warn("Expiry monitor pass failed", "error", err)
	}
}

func (m *ExpiryMonitor) RunOnce(ctx context.Context) (*ExpiryReport, error) {
	metrics := observability.Current()
	rows, err := m.batchRepo.List(dbcOf(ctx))
	if err != nil {
		metrics.IncMonitorRun("error")
		return nil, err
	}

	now, w := m.cfg.now(), m.cfg.windows()
	rep := &ExpiryReport{Counts: map[inventory.Class]int{}}
	qty := map[inventory.Class]float64{}
	for _, b := range inventory.Active(values(rows)) {
		st := inventory.StatusOf(b, now, w)
		rep.Counts[st.Class]++
		f, _ := b.Quantity.Float64()
		qty[st.Class] += f
		switch st.Class {
		case inventory.ClassCritical:
			rep.Critical = append(rep.Critical, st)
		case inventory.ClassExpired:
			rep.Expired = append(rep.Expired, st)
		}
	}
	for _, c := range []inventory.Class{inventory.ClassExpired, inventory.ClassCritical, inventory.ClassExpiring, inventory.ClassOK} {
		metrics.SetExpiryClass(string(c), rep.Counts[c], qty[c])
	}
	metrics.IncMonitorRun("ok")

	for _, st := range rep.Critical {
		m.log.Warn("Batch in critical window", "batch_id", st.ID, "batch_number", st.BatchNumber, "product", st.ProductName, "days_left", st.DaysLeft)
	}
	if len(rep.Expired) > 0 {
		m.log.Warn("Expired batches still in stock", "count", len(rep.Expired))
	}
	if len(rep.Critical) > 0 || len(rep.Expired) > 0 {
		m.notify.ExpiryAlert(ctx, rep.Critical, rep.Expired)
	}
	if m.digest != nil {
		if _, err := m.digest.Send(ctx, rep); err != nil {
			m.log.Warn("Expiry digest failed", "error", err)
		}
	}
	return rep, nil
}
