package poller

import (
	"log"
	"sync"
	"time"

	"grovepi-hub/internal/bus"
	"grovepi-hub/internal/config"
	"grovepi-hub/internal/csvlog"
	"grovepi-hub/internal/sensors"
)

// Controller owns the active poller and replaces it with a fresh instance
// when sensor_read_interval changes in the settings store. The old instance
// is fully stopped before the new one starts, so two pollers never sample
// concurrently.
type Controller struct {
	manager  *sensors.Manager
	events   *bus.Bus
	settings *config.Store
	sink     *csvlog.Writer

	mu      sync.Mutex
	current *Poller

	subID    string
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewController creates a controller; nothing runs until Start.
func NewController(manager *sensors.Manager, events *bus.Bus, settings *config.Store, sink *csvlog.Writer) *Controller {
	return &Controller{
		manager:  manager,
		events:   events,
		settings: settings,
		sink:     sink,
		stopChan: make(chan struct{}),
	}
}

// Start launches the initial poller and begins watching the event bus for
// interval changes.
func (c *Controller) Start() {
	c.mu.Lock()
	c.current = NewPoller(c.manager, c.events, c.settings, c.sink)
	c.current.Start()
	c.mu.Unlock()

	var events <-chan bus.Event
	c.subID, events = c.events.Subscribe()

	c.wg.Add(1)
	go c.watch(events)
}

// Interval reports the active poller's cycle period.
func (c *Controller) Interval() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current.Interval()
}

// Stop halts the watcher and the active poller. Safe to call more than once.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
	c.wg.Wait()
	c.events.Unsubscribe(c.subID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		c.current.Stop()
	}
}

func (c *Controller) watch(events <-chan bus.Event) {
	defer c.wg.Done()

	for {
		select {
		case <-c.stopChan:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Kind == bus.EventSetting && ev.SettingKey == config.KeySensorReadInterval {
				c.restart()
			}
		}
	}
}

// restart swaps in a poller built from the current settings.
func (c *Controller) restart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current.Stop()
	c.current = NewPoller(c.manager, c.events, c.settings, c.sink)
	c.current.Start()
	log.Printf("Sensor poller restarted with interval %s", c.current.Interval())
}
