// Package poller drives periodic sampling of all sensor channels and fans
// each reading out to the event bus and the CSV sink.
package poller

import (
	"log"
	"sync"
	"time"

	"grovepi-hub/internal/bus"
	"grovepi-hub/internal/config"
	"grovepi-hub/internal/csvlog"
	"grovepi-hub/internal/sensors"
	"grovepi-hub/pkg/types"
)

// MinInterval is the floor for the configured cycle period. Shorter values
// are clamped, not rejected, so a bad setting degrades instead of failing.
const MinInterval = 1 * time.Second

// Poller runs one background goroutine that samples every channel once per
// cycle. It has two states, running and stopped; a stop request takes
// effect after the in-flight cycle completes. Changing the interval means
// stopping this instance and constructing a fresh one; the two never
// sample concurrently because Stop waits for the goroutine to exit.
type Poller struct {
	manager  *sensors.Manager
	events   *bus.Bus
	settings *config.Store
	sink     *csvlog.Writer
	interval time.Duration

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewPoller creates a poller with the interval currently configured in the
// settings store.
func NewPoller(manager *sensors.Manager, events *bus.Bus, settings *config.Store, sink *csvlog.Writer) *Poller {
	seconds := settings.GetInt(config.KeySensorReadInterval, 2)
	interval := time.Duration(seconds) * time.Second
	if interval < MinInterval {
		log.Printf("Configured sensor_read_interval %ds below minimum, clamping to %s", seconds, MinInterval)
		interval = MinInterval
	}

	return &Poller{
		manager:  manager,
		events:   events,
		settings: settings,
		sink:     sink,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Interval returns the effective cycle period.
func (p *Poller) Interval() time.Duration {
	return p.interval
}

// Start launches the polling goroutine. The first cycle runs immediately.
func (p *Poller) Start() {
	p.wg.Add(1)
	go p.run()
}

// Stop requests a cooperative stop and blocks until the in-flight cycle
// has finished publishing and logging. Safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
	})
	p.wg.Wait()
}

func (p *Poller) run() {
	defer p.wg.Done()

	log.Printf("Sensor poller started with interval %s", p.interval)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.cycle()

		//a stop requested while the cycle was in flight wins over a
		//pending tick, so no further cycle begins after Stop
		select {
		case <-p.stopChan:
			log.Println("Sensor poller stopped")
			return
		default:
		}

		select {
		case <-p.stopChan:
			log.Println("Sensor poller stopped")
			return
		case <-ticker.C:
		}
	}
}

// cycle performs one full pass: read all channels, stamp, publish, log.
// Strictly serial; cycle N+1 never starts before cycle N's notification
// returned.
func (p *Poller) cycle() {
	reading := p.manager.ReadAll()
	reading.Timestamp = time.Now()

	p.events.PublishReading(reading)

	if p.settings.GetBool(config.KeyEnableSensorLogging, true) {
		if err := p.sink.Append(reading); err != nil {
			log.Print(types.NewFault(types.FaultPersist, "csv", err))
		}
	}
}
