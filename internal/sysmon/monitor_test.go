package sysmon

import (
	"errors"
	"path/filepath"
	"testing"

	"grovepi-hub/internal/config"
)

func testSettings(t *testing.T) *config.Store {
	t.Helper()

	settings, err := config.StoreFactory(filepath.Join(t.TempDir(), "app_config.json"))
	if err != nil {
		t.Fatalf("Failed to create settings store: %v", err)
	}
	return settings
}

// TestCriticalLogSpaceDisablesSensorLogging verifies a critically full
// sensor log directory switches off CSV logging but leaves archiving alone.
func TestCriticalLogSpaceDisablesSensorLogging(t *testing.T) {
	settings := testSettings(t)
	m := NewMonitor(settings, "logs", "archive")
	m.freeSpace = func(path string) (float64, error) {
		if path == "logs" {
			return 0.05, nil
		}
		return 5.0, nil
	}

	m.check()

	if settings.GetBool(config.KeyEnableSensorLogging, true) {
		t.Errorf("Expected sensor logging disabled after critical log dir space")
	}
	if !settings.GetBool(config.KeyEnableArchive, true) {
		t.Errorf("Expected archiving untouched while archive dir has space")
	}
}

// TestCriticalArchiveSpaceDisablesArchiving verifies a critically full
// archive directory switches off archiving but leaves CSV logging alone.
func TestCriticalArchiveSpaceDisablesArchiving(t *testing.T) {
	settings := testSettings(t)
	m := NewMonitor(settings, "logs", "archive")
	m.freeSpace = func(path string) (float64, error) {
		if path == "archive" {
			return 0.05, nil
		}
		return 5.0, nil
	}

	m.check()

	if !settings.GetBool(config.KeyEnableSensorLogging, true) {
		t.Errorf("Expected sensor logging untouched while log dir has space")
	}
	if settings.GetBool(config.KeyEnableArchive, true) {
		t.Errorf("Expected archiving disabled after critical archive dir space")
	}
}

// TestMissingPathIsTolerated verifies a path that does not exist yet leaves
// every setting alone.
func TestMissingPathIsTolerated(t *testing.T) {
	settings := testSettings(t)
	m := NewMonitor(settings, "logs", "archive")
	m.freeSpace = func(path string) (float64, error) {
		return 0, errors.New("no such directory")
	}

	m.check()

	if !settings.GetBool(config.KeyEnableSensorLogging, true) {
		t.Errorf("Expected sensor logging untouched for missing directories")
	}
	if !settings.GetBool(config.KeyEnableArchive, true) {
		t.Errorf("Expected archiving untouched for missing directories")
	}
}

// TestFreeSpaceGB sanity-checks the real syscall against the test dir.
func TestFreeSpaceGB(t *testing.T) {
	free, err := FreeSpaceGB(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to measure free space: %v", err)
	}
	if free <= 0 {
		t.Errorf("Expected positive free space, got %f", free)
	}
}
