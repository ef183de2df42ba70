package limits

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/adred-codev/rusticokv/internal/monitoring"
	"github.com/adred-codev/rusticokv/internal/types"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
)

// ResourceGuard enforces the one emergency brake this server's concurrency
// model needs: reject new connections while host-wide CPU usage is above a
// configured percentage. It deliberately does not try to
// calculate capacity from measurements or auto-adjust limits — just a
// static threshold, checked on a ticker, same philosophy as the teacher's
// guard but trimmed to what a single-goroutine-per-connection RESP server
// actually has to protect (accept loop, not a consumer/broadcast pipeline).
type ResourceGuard struct {
	config types.ServerConfig
	logger zerolog.Logger

	currentCPU   atomic.Value // float64
	currentConns *int64       // pointer into server stats
}

// NewResourceGuard creates a resource guard tracking currentConns (a pointer
// into the server's connection counter, updated via atomic ops).
func NewResourceGuard(config types.ServerConfig, logger zerolog.Logger, currentConns *int64) *ResourceGuard {
	rg := &ResourceGuard{
		config:       config,
		logger:       logger.With().Str("component", "resource_guard").Logger(),
		currentConns: currentConns,
	}
	rg.currentCPU.Store(0.0)

	rg.logger.Info().
		Int("max_connections", config.MaxConnections).
		Float64("cpu_reject_threshold", config.CPURejectThreshold).
		Msg("ResourceGuard initialized")

	return rg
}

// ShouldAcceptConnection checks connection capacity and CPU headroom.
func (rg *ResourceGuard) ShouldAcceptConnection() (accept bool, reason string) {
	currentConns := atomic.LoadInt64(rg.currentConns)
	currentCPU := rg.currentCPU.Load().(float64)

	if currentConns >= int64(rg.config.MaxConnections) {
		monitoring.ConnectionsRejected.WithLabelValues("capacity").Inc()
		return false, fmt.Sprintf("at max connections (%d)", rg.config.MaxConnections)
	}

	if currentCPU > rg.config.CPURejectThreshold {
		monitoring.ConnectionsRejected.WithLabelValues("cpu").Inc()
		return false, fmt.Sprintf("CPU %.1f%% > %.1f%%", currentCPU, rg.config.CPURejectThreshold)
	}

	return true, "OK"
}

// UpdateCPU samples host-wide CPU usage (all CPUs combined, as gopsutil's
// cpu.Percent reports it; not limited to this process or its container's
// quota) and stores it for the next
// admission check. Call this periodically from StartMonitoring.
func (rg *ResourceGuard) UpdateCPU(ctx context.Context) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(percents) == 0 {
		rg.logger.Warn().Err(err).Msg("failed to sample CPU usage")
		return
	}

	cpuPercent := percents[0]
	rg.currentCPU.Store(cpuPercent)
	monitoring.CPUUsagePercent.Set(cpuPercent)

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	monitoring.MemoryUsageBytes.Set(float64(mem.Sys))

	rg.logger.Debug().
		Float64("cpu_percent", cpuPercent).
		Int64("connections", atomic.LoadInt64(rg.currentConns)).
		Msg("resource state updated")
}

// StartMonitoring begins periodic CPU sampling until ctx is canceled.
func (rg *ResourceGuard) StartMonitoring(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rg.UpdateCPU(ctx)
			case <-ctx.Done():
				rg.logger.Info().Msg("resource guard monitoring stopped")
				return
			}
		}
	}()

	rg.logger.Info().Dur("interval", interval).Msg("resource guard monitoring started")
}

// GetStats returns current resource statistics for debugging.
func (rg *ResourceGuard) GetStats() map[string]any {
	return map[string]any{
		"max_connections":      rg.config.MaxConnections,
		"current_connections":  atomic.LoadInt64(rg.currentConns),
		"cpu_percent":          rg.currentCPU.Load().(float64),
		"cpu_reject_threshold": rg.config.CPURejectThreshold,
	}
}
