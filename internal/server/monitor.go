// Package server provides the HTTP server and routing for the frontier service.
package server

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// resourceMonitorSchedule is how often the heartbeat samples the host.
const resourceMonitorSchedule = "@every 1m"

// ResourceMonitor periodically samples host resources so load shows up in the
// logs without anyone scraping the status endpoint.
type ResourceMonitor struct {
	cron           *cron.Cron
	systemHandlers *SystemHandlers
	log            zerolog.Logger
}

// NewResourceMonitor creates a new resource monitor
func NewResourceMonitor(systemHandlers *SystemHandlers, log zerolog.Logger) *ResourceMonitor {
	return &ResourceMonitor{
		cron:           cron.New(),
		systemHandlers: systemHandlers,
		log:            log.With().Str("component", "resource_monitor").Logger(),
	}
}

// Start begins the periodic heartbeat
func (m *ResourceMonitor) Start(schedule string) error {
	if _, err := m.cron.AddFunc(schedule, m.sample); err != nil {
		return err
	}

	m.cron.Start()
	m.log.Info().Str("schedule", schedule).Msg("Heartbeat scheduled")
	return nil
}

// Stop halts the heartbeat and waits for a running sample to finish
func (m *ResourceMonitor) Stop() {
	ctx := m.cron.Stop()
	<-ctx.Done()
	m.log.Info().Msg("Resource monitor stopped")
}

func (m *ResourceMonitor) sample() {
	status, err := m.systemHandlers.GetSystemStatusSnapshot()
	if err != nil {
		m.log.Warn().Err(err).Msg("Resource sample collected with warnings")
	}

	m.log.Info().
		Float64("cpu_percent", status.CPUPercent).
		Float64("ram_percent", status.RAMPercent).
		Int("goroutines", status.Goroutines).
		Int("uptime_seconds", status.UptimeSeconds).
		Msg("Resource heartbeat")
}
