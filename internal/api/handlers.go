package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"grovepi-hub/internal/config"
	"grovepi-hub/internal/sysmon"
	"grovepi-hub/internal/theme"
	"grovepi-hub/internal/weather"
)

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error writing JSON response: %v", err)
	}
}

// writeError sends a JSON error envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleLatestReading(w http.ResponseWriter, r *http.Request) {
	reading, ok := s.readings.Latest()
	if !ok {
		writeError(w, http.StatusNotFound, "no readings yet")
		return
	}
	writeJSON(w, http.StatusOK, reading)
}

func (s *Server) handleRecentReadings(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, s.readings.Recent(limit))
}

func (s *Server) handleActuatorState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.manager.State())
}

func (s *Server) handleSetRelay(w http.ResponseWriter, r *http.Request) {
	var req struct {
		On bool `json:"on"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.manager.SetRelay(req.On)
	writeJSON(w, http.StatusOK, s.manager.State())
}

func (s *Server) handleSetLEDBar(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level int `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.manager.SetLEDBar(req.Level)
	writeJSON(w, http.StatusOK, s.manager.State())
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.settings.All())
}

func (s *Server) handleSetSetting(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	var req struct {
		Value any `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, "missing value")
		return
	}

	s.settings.Set(key, req.Value)
	s.events.PublishSetting(key)
	writeJSON(w, http.StatusOK, map[string]any{"key": key, "value": req.Value})
}

func (s *Server) handleCurrentTheme(w http.ResponseWriter, r *http.Request) {
	name := s.settings.GetString(config.KeyCurrentTheme, string(theme.Default))
	palette, known := theme.Lookup(name)
	if !known {
		log.Printf("Unknown theme %q requested, serving default", name)
	}
	writeJSON(w, http.StatusOK, palette)
}

func (s *Server) handleThemeList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, theme.Names())
}

func (s *Server) handleWeatherCurrent(w http.ResponseWriter, r *http.Request) {
	report, err := s.weather.Current()
	if err != nil {
		if errors.Is(err, weather.ErrNoAPIKey) {
			writeError(w, http.StatusServiceUnavailable, "weather API key not configured")
			return
		}
		log.Printf("Error fetching current weather: %v", err)
		writeError(w, http.StatusBadGateway, "weather fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleWeatherForecast(w http.ResponseWriter, r *http.Request) {
	entries, err := s.weather.Forecast()
	if err != nil {
		if errors.Is(err, weather.ErrNoAPIKey) {
			writeError(w, http.StatusServiceUnavailable, "weather API key not configured")
			return
		}
		log.Printf("Error fetching forecast: %v", err)
		writeError(w, http.StatusBadGateway, "weather fetch failed")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"mock_sensors":   s.manager.Mock(),
		"subscribers":    s.events.SubscriberCount(),
		"stored":         s.readings.Len(),
		"sensor_log":     s.sink.Path(),
		"enable_archive": s.settings.GetBool(config.KeyEnableArchive, true),
	}

	logDir := s.settings.GetString(config.KeySensorLogDirectory, "Sensor_Logs")
	if free, err := sysmon.FreeSpaceGB(logDir); err == nil {
		status["log_free_gb"] = free
	}

	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleArchiveLogs(w http.ResponseWriter, r *http.Request) {
	if !s.settings.GetBool(config.KeyEnableArchive, true) {
		writeError(w, http.StatusConflict, "archiving is disabled")
		return
	}

	archiveDir := s.settings.GetString(config.KeyArchiveDirectory, "Archive_Sensor_Logs")
	dest, err := s.sink.Archive(archiveDir)
	if err != nil {
		log.Printf("Error archiving sensor log: %v", err)
		writeError(w, http.StatusInternalServerError, "archive failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"archived_to": dest})
}
