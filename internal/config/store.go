// Package config implements the JSON backed settings store. The store is
// constructed once at startup and handed to every component that needs it,
// so there is no hidden global and no lazy first-access initialization.
package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Setting keys consumed across the application. Absent keys fall back to
// the defaults below.
const (
	KeyCurrentTheme         = "current_theme"
	KeySensorReadInterval   = "sensor_read_interval"
	KeyEnableMockSensors    = "enable_mock_sensors"
	KeyEnableSensorLogging  = "enable_sensor_logging"
	KeySensorLogDirectory   = "sensor_log_directory"
	KeyEnableDebugToConsole = "enable_debug_to_console"
	KeyEnableDebugToFile    = "enable_debug_to_file"
	KeyLogDirectory         = "log_directory"
	KeyEnableArchive        = "enable_archive"
	KeyArchiveDirectory     = "archive_directory"
	KeyWeatherAPIKey        = "openweathermap_api_key"
	KeyWeatherCity          = "weather_city"
	KeyWeatherCountryCode   = "weather_country_code"
	KeyMinFreeSpaceGB       = "min_free_space_gb"
	KeySystemCheckInterval  = "system_check_interval_ms"
)

func defaults() map[string]any {
	return map[string]any{
		KeyCurrentTheme:         "dark_theme",
		KeySensorReadInterval:   2, //seconds
		KeyEnableMockSensors:    true,
		KeyEnableSensorLogging:  true,
		KeySensorLogDirectory:   "Sensor_Logs",
		KeyEnableDebugToConsole: true,
		KeyEnableDebugToFile:    true,
		KeyLogDirectory:         "Debug_Logs",
		KeyEnableArchive:        true,
		KeyArchiveDirectory:     "Archive_Sensor_Logs",
		KeyWeatherAPIKey:        "",
		KeyWeatherCity:          "Frisco",
		KeyWeatherCountryCode:   "US",
		KeyMinFreeSpaceGB:       0.5,
		KeySystemCheckInterval:  60000, //milliseconds
	}
}

// Store is the process-wide settings store, backed by one flat JSON object.
// Every Set rewrites the whole backing file synchronously; last write wins.
type Store struct {
	mu       sync.RWMutex
	path     string
	settings map[string]any
}

// StoreFactory loads (or creates) the settings file at path and applies
// defaults for any missing key. When the file did not exist, the defaults
// are persisted immediately so the first run leaves a complete file behind.
func StoreFactory(path string) (*Store, error) {
	s := &Store{
		path:     path,
		settings: make(map[string]any),
	}

	existed := true
	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		existed = false
	case err != nil:
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	default:
		if err := json.Unmarshal(raw, &s.settings); err != nil {
			//a corrupt settings file is reset to defaults rather than
			//aborting startup, matching the best-effort policy everywhere else
			log.Printf("Could not parse settings file %s: %v, resetting to defaults", path, err)
			s.settings = make(map[string]any)
			existed = false
		}
	}

	for key, value := range defaults() {
		if _, ok := s.settings[key]; !ok {
			s.settings[key] = value
		}
	}

	if !existed {
		if err := s.save(); err != nil {
			return nil, fmt.Errorf("failed to write initial settings file: %w", err)
		}
		log.Printf("Created settings file %s with defaults", path)
	}

	return s, nil
}

// save rewrites the entire backing file. Caller must hold the lock.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.settings, "", "    ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, raw, 0o644)
}

// Get returns the raw value for key, or nil when unset.
func (s *Store) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings[key]
}

// GetString returns the setting as a string, or fallback.
func (s *Store) GetString(key, fallback string) string {
	if v, ok := s.Get(key).(string); ok {
		return v
	}
	return fallback
}

// GetBool returns the setting as a bool, or fallback.
func (s *Store) GetBool(key string, fallback bool) bool {
	if v, ok := s.Get(key).(bool); ok {
		return v
	}
	return fallback
}

// GetInt returns the setting as an int, or fallback. JSON numbers decode
// as float64, so both representations are accepted.
func (s *Store) GetInt(key string, fallback int) int {
	switch v := s.Get(key).(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return fallback
	}
}

// GetFloat returns the setting as a float64, or fallback.
func (s *Store) GetFloat(key string, fallback float64) float64 {
	switch v := s.Get(key).(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}

// Set stores a value and synchronously persists the whole file.
// Persistence faults are logged and the in-memory value is kept, so the
// running process never diverges from what callers just wrote.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[key] = value
	if err := s.save(); err != nil {
		log.Printf("Could not save settings file %s: %v", s.path, err)
	}
}

// All returns a copy of every setting, for the settings API.
func (s *Store) All() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]any, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}
