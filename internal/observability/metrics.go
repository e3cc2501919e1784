package observability

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/sca-inventory-backend/internal/platform/envutil"
	"github.com/yungbote/sca-inventory-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiErrors   *Counter

	movements        *CounterVec
	movedQuantity    *CounterVec
	dispatchRejected *CounterVec
	batchesByClass   *GaugeVec
	quantityByClass  *GaugeVec
	monitorRuns      *CounterVec

	pgStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge

	writers []interface{ WritePrometheus(io.Writer) error }
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false, nil)
}

// Current returns the process-wide registry, or nil when metrics are off.
// Every method on a nil *Metrics is a no-op.
func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = New()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

func New() *Metrics {
	m := &Metrics{
		apiRequests: NewCounterVec("sca_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"sca_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		),
		apiInflight:      NewGauge("sca_api_inflight_requests", "In-flight API requests."),
		apiErrors:        NewCounter("sca_api_server_errors_total", "API responses with a 5xx status."),
		movements:        NewCounterVec("sca_inventory_movements_total", "Inventory movements by kind.", []string{"kind"}),
		movedQuantity:    NewCounterVec("sca_inventory_moved_quantity_total", "Quantity moved by kind and unit.", []string{"kind", "unit"}),
		dispatchRejected: NewCounterVec("sca_inventory_dispatch_rejected_total", "Dispatch requests rejected by reason.", []string{"reason"}),
		batchesByClass:   NewGaugeVec("sca_inventory_batches", "Active batches by expiration class.", []string{"class"}),
		quantityByClass:  NewGaugeVec("sca_inventory_quantity", "Active quantity by expiration class.", []string{"class"}),
		monitorRuns:      NewCounterVec("sca_expiry_monitor_runs_total", "Expiry monitor sweeps by status.", []string{"status"}),
		pgStats:          NewGaugeVec("sca_db_pool", "Database pool statistics.", []string{"stat"}),
		redisUp:          NewGauge("sca_redis_up", "1 when the last Redis ping succeeded."),
		redisPing:        NewGauge("sca_redis_ping_seconds", "Latency of the last Redis ping."),
	}
	m.writers = []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiErrors,
		m.movements, m.movedQuantity, m.dispatchRejected,
		m.batchesByClass, m.quantityByClass, m.monitorRuns,
		m.pgStats, m.redisUp, m.redisPing,
	}
	return m
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, mw := range m.writers {
		if err := mw.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route string, status int, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unmatched"
	}
	m.apiRequests.Inc(method, route, strconv.Itoa(status))
	m.apiLatency.Observe(dur.Seconds(), method, route)
	if status >= 500 {
		m.apiErrors.Inc()
	}
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveMovement counts one ledger row and the quantity it moved.
func (m *Metrics) ObserveMovement(kind, unit string, qty float64) {
	if m == nil {
		return
	}
	m.movements.Inc(kind)
	if qty > 0 {
		m.movedQuantity.Add(qty, kind, strings.ToLower(strings.TrimSpace(unit)))
	}
}

func (m *Metrics) IncDispatchRejected(reason string) {
	if m == nil {
		return
	}
	m.dispatchRejected.Inc(reason)
}

// SetExpiryClass replaces the gauges for one expiration class.
func (m *Metrics) SetExpiryClass(class string, batches int, qty float64) {
	if m == nil {
		return
	}
	m.batchesByClass.Set(float64(batches), class)
	m.quantityByClass.Set(qty, class)
}

func (m *Metrics) IncMonitorRun(status string) {
	if m == nil {
		return
	}
	m.monitorRuns.Inc(status)
}

func scrapeInterval() time.Duration {
	return envutil.Duration("METRICS_SCRAPE_INTERVAL", 10*time.Second, nil)
}

func (m *Metrics) StartPostgresCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(scrapeInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.collectPool(log, db)
			}
		}
	}()
}

func (m *Metrics) collectPool(log *logger.Logger, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("metrics: db stats unavailable", "error", err)
		return
	}
	stats := sqlDB.Stats()
	m.pgStats.Set(float64(stats.OpenConnections), "open_connections")
	m.pgStats.Set(float64(stats.InUse), "in_use")
	m.pgStats.Set(float64(stats.Idle), "idle")
	m.pgStats.Set(float64(stats.WaitCount), "wait_count")
	m.pgStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
	m.pgStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(scrapeInterval())
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					log.Warn("metrics: redis ping failed", "error", err)
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
