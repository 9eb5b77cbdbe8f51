package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"grovepi-hub/internal/api"
	"grovepi-hub/internal/bus"
	"grovepi-hub/internal/config"
	"grovepi-hub/internal/csvlog"
	"grovepi-hub/internal/device"
	"grovepi-hub/internal/logging"
	"grovepi-hub/internal/mqttbridge"
	"grovepi-hub/internal/poller"
	"grovepi-hub/internal/sensors"
	"grovepi-hub/internal/store"
	"grovepi-hub/internal/sysmon"
	"grovepi-hub/internal/weather"
)

func main() {
	configPath := flag.String("config", "app_config.json", "Path to the settings file")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	mqttBroker := flag.String("mqtt-broker", "", "MQTT broker host:port (empty = bridge disabled)")
	mqttPrefix := flag.String("mqtt-prefix", "grovepi", "MQTT topic prefix")
	i2cBus := flag.String("i2c-bus", "/dev/i2c-1", "I2C bus device for the GrovePi shield")
	historyLimit := flag.Int("history", 10_000, "Maximum number of readings kept in memory")
	flag.Parse()

	settings, err := config.StoreFactory(*configPath)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}

	logFile, err := logging.Init(settings)
	if err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	//pick the device backend: the mock is both an explicit setting and
	//the fallback when the shield cannot be opened
	var dev device.Device
	mock := settings.GetBool(config.KeyEnableMockSensors, true)
	if mock {
		dev = device.NewMock()
	} else {
		hw, err := device.OpenGrovePi(*i2cBus)
		if err != nil {
			log.Printf("Could not open GrovePi hardware: %v, falling back to MOCK mode", err)
			dev = device.NewMock()
			mock = true
		} else {
			dev = hw
		}
	}

	events := bus.BusFactory(16)
	manager := sensors.NewSensorManager(dev, events, mock)
	defer manager.Close()

	//in-memory history feeding the readings API
	readings := store.ReadingStoreFactory(*historyLimit)
	storeSub, storeEvents := events.Subscribe()
	go func() {
		for event := range storeEvents {
			if event.Kind == bus.EventReading && event.Reading != nil {
				readings.Add(*event.Reading)
			}
		}
	}()
	defer events.Unsubscribe(storeSub)

	logDir := settings.GetString(config.KeySensorLogDirectory, "Sensor_Logs")
	sink := csvlog.NewWriter(logDir)

	//the controller swaps the poller for a fresh one when the configured
	//interval changes through the settings API
	sensorPoller := poller.NewController(manager, events, settings, sink)
	sensorPoller.Start()
	defer sensorPoller.Stop()

	archiveDir := settings.GetString(config.KeyArchiveDirectory, "Archive_Sensor_Logs")
	monitor := sysmon.NewMonitor(settings, logDir, archiveDir)
	monitor.Start()
	defer monitor.Stop()

	var bridge *mqttbridge.Bridge
	if *mqttBroker != "" {
		bridge = mqttbridge.BridgeFactory(*mqttBroker, *mqttPrefix, events, manager)
		if err := bridge.Start(); err != nil {
			log.Printf("Could not start MQTT bridge: %v, continuing without it", err)
			bridge = nil
		} else {
			defer bridge.Stop()
		}
	}

	server := api.ServerFactory(*addr, settings, manager, readings, events, sink, weather.NewClient(settings))

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		log.Printf("GrovePi hub listening on %s", *addr)
		return server.Start()
	})

	g.Go(func() error {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigChan:
			log.Printf("Received signal %s, shutting down...", sig)
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Hub terminated with error: %v", err)
	}
	log.Println("Hub stopped")
}
