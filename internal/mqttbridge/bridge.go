// Package mqttbridge mirrors the hub onto an MQTT broker: every published
// reading and actuator event goes out as a retained-free message, and the
// actuator set topics accept commands back.
package mqttbridge

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"grovepi-hub/internal/bus"
	"grovepi-hub/internal/sensors"
)

// Bridge connects the event bus to an MQTT broker.
type Bridge struct {
	brokerURL   string
	topicPrefix string
	client      mqtt.Client
	events      *bus.Bus
	manager     *sensors.Manager

	subID    string
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// BridgeFactory creates a bridge for the given broker, e.g. "localhost:1883".
func BridgeFactory(brokerURL, topicPrefix string, events *bus.Bus, manager *sensors.Manager) *Bridge {
	return &Bridge{
		brokerURL:   brokerURL,
		topicPrefix: strings.TrimSuffix(topicPrefix, "/"),
		events:      events,
		manager:     manager,
		stopChan:    make(chan struct{}),
	}
}

// Start connects to the broker, subscribes to the command topics and begins
// forwarding bus events.
func (b *Bridge) Start() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", b.brokerURL))
	opts.SetClientID("grovepi-hub")
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		log.Println("MQTT bridge connected to broker")
		b.subscribeCommands(client)
	})
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		log.Printf("MQTT bridge lost connection to broker: %v", err)
	})

	b.client = mqtt.NewClient(opts)
	if token := b.client.Connect(); token.Wait() && token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	var events <-chan bus.Event
	b.subID, events = b.events.Subscribe()

	b.wg.Add(1)
	go b.forward(events)

	return nil
}

// Stop detaches from the bus and disconnects from the broker. Safe to call
// more than once.
func (b *Bridge) Stop() {
	b.stopOnce.Do(func() {
		close(b.stopChan)
	})
	b.wg.Wait()
	b.events.Unsubscribe(b.subID)

	if b.client != nil && b.client.IsConnected() {
		b.client.Disconnect(250)
	}
	log.Println("MQTT bridge stopped")
}

// forward pumps bus events to broker topics until stopped.
func (b *Bridge) forward(events <-chan bus.Event) {
	defer b.wg.Done()

	for {
		select {
		case <-b.stopChan:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			b.publishEvent(event)
		}
	}
}

func (b *Bridge) publishEvent(event bus.Event) {
	var topic string
	var payload []byte

	switch event.Kind {
	case bus.EventReading:
		raw, err := json.Marshal(event.Reading)
		if err != nil {
			log.Printf("Error marshaling reading for MQTT: %v", err)
			return
		}
		topic = b.topicPrefix + "/readings"
		payload = raw
	case bus.EventRelay:
		topic = b.topicPrefix + "/actuator/relay"
		payload = []byte(strconv.FormatBool(event.RelayOn))
	case bus.EventLEDBar:
		topic = b.topicPrefix + "/actuator/ledbar"
		payload = []byte(strconv.Itoa(event.LEDBarLevel))
	default:
		return
	}

	token := b.client.Publish(topic, 0, false, payload)
	token.Wait()
	if token.Error() != nil {
		log.Printf("Failed to publish to topic %s: %v", topic, token.Error())
	}
}

// subscribeCommands wires the actuator set topics. Runs on every
// (re)connect since subscriptions do not survive a clean session.
func (b *Bridge) subscribeCommands(client mqtt.Client) {
	relayTopic := b.topicPrefix + "/actuator/relay/set"
	if token := client.Subscribe(relayTopic, 0, b.onRelayCommand); token.Wait() && token.Error() != nil {
		log.Printf("Failed to subscribe to %s: %v", relayTopic, token.Error())
	}

	ledTopic := b.topicPrefix + "/actuator/ledbar/set"
	if token := client.Subscribe(ledTopic, 0, b.onLEDBarCommand); token.Wait() && token.Error() != nil {
		log.Printf("Failed to subscribe to %s: %v", ledTopic, token.Error())
	}
}

func (b *Bridge) onRelayCommand(client mqtt.Client, msg mqtt.Message) {
	payload := strings.TrimSpace(string(msg.Payload()))
	on, err := strconv.ParseBool(payload)
	if err != nil {
		log.Printf("Invalid relay command payload %q on %s", payload, msg.Topic())
		return
	}
	b.manager.SetRelay(on)
}

func (b *Bridge) onLEDBarCommand(client mqtt.Client, msg mqtt.Message) {
	payload := strings.TrimSpace(string(msg.Payload()))
	level, err := strconv.Atoi(payload)
	if err != nil {
		log.Printf("Invalid LED bar command payload %q on %s", payload, msg.Topic())
		return
	}
	b.manager.SetLEDBar(level)
}
