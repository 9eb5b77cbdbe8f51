// Package api exposes the hub over HTTP: current and historical readings,
// actuator control, settings, theme palettes, weather and a WebSocket
// stream of live events.
package api

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"grovepi-hub/internal/bus"
	"grovepi-hub/internal/config"
	"grovepi-hub/internal/csvlog"
	"grovepi-hub/internal/sensors"
	"grovepi-hub/internal/store"
	"grovepi-hub/internal/weather"
)

// Server wires the HTTP surface over the hub's components.
type Server struct {
	settings *config.Store
	manager  *sensors.Manager
	readings *store.ReadingStore
	events   *bus.Bus
	sink     *csvlog.Writer
	weather  *weather.Client

	httpServer *http.Server
	upgrader   websocket.Upgrader
}

// ServerFactory creates the API server listening on addr.
func ServerFactory(addr string, settings *config.Store, manager *sensors.Manager,
	readings *store.ReadingStore, events *bus.Bus, sink *csvlog.Writer,
	weatherClient *weather.Client) *Server {

	s := &Server{
		settings: settings,
		manager:  manager,
		readings: readings,
		events:   events,
		sink:     sink,
		weather:  weatherClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			//the hub serves trusted LAN clients, same as the original app
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      handlers.LoggingHandler(os.Stdout, s.Router()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, //the websocket stream stays open indefinitely
	}

	return s
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/health", s.handleHealth).Methods("GET")

	r.HandleFunc("/api/readings/latest", s.handleLatestReading).Methods("GET")
	r.HandleFunc("/api/readings", s.handleRecentReadings).Methods("GET")

	r.HandleFunc("/api/actuators", s.handleActuatorState).Methods("GET")
	r.HandleFunc("/api/actuators/relay", s.handleSetRelay).Methods("POST")
	r.HandleFunc("/api/actuators/ledbar", s.handleSetLEDBar).Methods("POST")

	r.HandleFunc("/api/settings", s.handleGetSettings).Methods("GET")
	r.HandleFunc("/api/settings/{key}", s.handleSetSetting).Methods("PUT")

	r.HandleFunc("/api/theme", s.handleCurrentTheme).Methods("GET")
	r.HandleFunc("/api/themes", s.handleThemeList).Methods("GET")

	r.HandleFunc("/api/weather/current", s.handleWeatherCurrent).Methods("GET")
	r.HandleFunc("/api/weather/forecast", s.handleWeatherForecast).Methods("GET")

	r.HandleFunc("/api/system", s.handleSystemStatus).Methods("GET")
	r.HandleFunc("/api/logs/archive", s.handleArchiveLogs).Methods("POST")

	r.HandleFunc("/ws", s.handleWebSocket)

	return r
}

// Start serves until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and closes the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
