package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"chatterbox/observability"

	"github.com/shirou/gopsutil/process"
)

// TelemetryWorker periodically logs delivery counters next to the
// process's own RSS and CPU usage, so a slow-consumer problem (rising
// dropped count) is visible without external tooling.
type TelemetryWorker struct {
	log      *slog.Logger
	stats    *observability.DeliveryStats
	interval time.Duration
}

func NewTelemetryWorker(log *slog.Logger, stats *observability.DeliveryStats, interval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{log: log, stats: stats, interval: interval}
}

func (w *TelemetryWorker) Run(ctx context.Context) error {
	w.log.Info("Starting telemetry worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, err := selfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}
			snapshot := w.stats.GetLatest()
			w.log.Info("Delivery stats",
				"sessions", snapshot.Sessions,
				"delivered", snapshot.Delivered,
				"missed", snapshot.Missed,
				"dropped", snapshot.Dropped,
				"ram_bytes", rss,
				"cpu_percent", cpu,
			)
		}
	}
}

func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
