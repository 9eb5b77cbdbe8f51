// Package sysmon watches free disk space under the log and archive
// directories so a full SD card degrades the app instead of killing it.
package sysmon

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"grovepi-hub/internal/config"
)

// criticalFreeGB is the point where archiving gets switched off entirely.
const criticalFreeGB = 0.1

// FreeSpaceGB returns the free space in gigabytes for a path.
func FreeSpaceGB(path string) (float64, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, fmt.Errorf("path for storage check does not exist: %w", err)
	}

	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("failed to stat filesystem at %s: %w", path, err)
	}

	free := float64(stat.Bavail) * float64(stat.Bsize)
	return free / (1024.0 * 1024.0 * 1024.0), nil
}

// Monitor periodically checks free space under the sensor log and archive
// directories, warning below the configured threshold. Below the critical
// threshold the feature writing to the affected directory is switched off:
// sensor CSV logging for the log directory, archiving for the archive one.
type Monitor struct {
	settings   *config.Store
	logDir     string
	archiveDir string
	freeSpace  func(string) (float64, error)
	stopChan   chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
}

// NewMonitor creates a monitor over the sensor log and archive directories.
func NewMonitor(settings *config.Store, logDir, archiveDir string) *Monitor {
	return &Monitor{
		settings:   settings,
		logDir:     logDir,
		archiveDir: archiveDir,
		freeSpace:  FreeSpaceGB,
		stopChan:   make(chan struct{}),
	}
}

// Start launches the periodic check using system_check_interval_ms.
func (m *Monitor) Start() {
	intervalMs := m.settings.GetInt(config.KeySystemCheckInterval, 60000)
	if intervalMs < 1000 {
		intervalMs = 1000
	}
	interval := time.Duration(intervalMs) * time.Millisecond

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		log.Printf("Storage monitor started with interval %s", interval)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		m.check()
		for {
			select {
			case <-m.stopChan:
				log.Println("Storage monitor stopped")
				return
			case <-ticker.C:
				m.check()
			}
		}
	}()
}

// Stop halts the monitor. Safe to call more than once.
func (m *Monitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopChan)
	})
	m.wg.Wait()
}

func (m *Monitor) check() {
	minFree := m.settings.GetFloat(config.KeyMinFreeSpaceGB, 0.5)

	if free, ok := m.measure(m.logDir, minFree); ok && free < criticalFreeGB &&
		m.settings.GetBool(config.KeyEnableSensorLogging, true) {
		log.Printf("Critically low disk space under %s, disabling sensor logging", m.logDir)
		m.settings.Set(config.KeyEnableSensorLogging, false)
	}

	if free, ok := m.measure(m.archiveDir, minFree); ok && free < criticalFreeGB &&
		m.settings.GetBool(config.KeyEnableArchive, true) {
		log.Printf("Critically low disk space under %s, disabling archiving", m.archiveDir)
		m.settings.Set(config.KeyEnableArchive, false)
	}
}

// measure returns the free space under path, logging a warning below the
// configured threshold.
func (m *Monitor) measure(path string, minFree float64) (float64, bool) {
	free, err := m.freeSpace(path)
	if err != nil {
		//directories appear lazily on first CSV write, so a missing
		//path is expected early on
		return 0, false
	}
	if free < minFree {
		log.Printf("Low disk space under %s: %.2f GB available", path, free)
	}
	return free, true
}
